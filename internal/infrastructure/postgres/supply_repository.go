package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

var _ repository.SupplyRepository = (*SupplyRepo)(nil)

const supplyColumns = `id, name, description, quantity, minimum_threshold, created_at, updated_at`

// SupplyRepo implementación de SupplyRepository sobre PostgreSQL (usable con pool o tx).
type SupplyRepo struct {
	q Querier
}

// NewSupplyRepository construye el adaptador de suministros. Pasar pool o tx (Querier).
func NewSupplyRepository(q Querier) *SupplyRepo {
	return &SupplyRepo{q: q}
}

// Create inserta un suministro.
func (r *SupplyRepo) Create(ctx context.Context, s *entity.Supply) error {
	query := `
		INSERT INTO supplies (id, name, description, quantity, minimum_threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, s.ID, s.Name, s.Description, s.Quantity, s.MinimumThreshold, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supply: %w", err)
	}
	return nil
}

// GetByID obtiene un suministro por ID.
func (r *SupplyRepo) GetByID(ctx context.Context, id string) (*entity.Supply, error) {
	return r.getOne(ctx, `SELECT `+supplyColumns+` FROM supplies WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene el suministro y bloquea la fila para update (SELECT FOR UPDATE).
func (r *SupplyRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Supply, error) {
	return r.getOne(ctx, `SELECT `+supplyColumns+` FROM supplies WHERE id = $1 FOR UPDATE`, id)
}

func (r *SupplyRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Supply, error) {
	var s entity.Supply
	if err := pgxscan.Get(ctx, r.q, &s, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supply: %w", err)
	}
	return &s, nil
}

// Update reemplaza los campos editables.
func (r *SupplyRepo) Update(ctx context.Context, s *entity.Supply) error {
	query := `
		UPDATE supplies SET name = $2, description = $3, quantity = $4, minimum_threshold = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Name, s.Description, s.Quantity, s.MinimumThreshold, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update supply: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetQuantity fija la cantidad y devuelve la fila resultante.
func (r *SupplyRepo) SetQuantity(ctx context.Context, id string, quantity int) (*entity.Supply, error) {
	query := `
		UPDATE supplies SET quantity = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + supplyColumns
	return r.getOne(ctx, query, id, quantity)
}

// DecrementIfAvailable descuenta n unidades en una sola sentencia: la condición quantity >= n
// y la resta se evalúan sobre la misma fila bloqueada, así el stock nunca queda negativo.
func (r *SupplyRepo) DecrementIfAvailable(ctx context.Context, id string, n int) (*entity.Supply, error) {
	query := `
		UPDATE supplies SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2
		RETURNING ` + supplyColumns
	s, err := r.getOne(ctx, query, id, n)
	if err != nil && isCheckViolation(err) {
		return nil, nil
	}
	return s, err
}

// Delete elimina el suministro (las solicitudes caen por ON DELETE CASCADE).
func (r *SupplyRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM supplies WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete supply: %w", err)
	}
	return nil
}

// List lista los suministros por nombre.
func (r *SupplyRepo) List(ctx context.Context, f repository.SupplyFilter) ([]*entity.Supply, error) {
	query := `SELECT ` + supplyColumns + ` FROM supplies`
	if f.LowStockOnly {
		query += ` WHERE quantity <= minimum_threshold`
	}
	query += ` ORDER BY name`
	var list []*entity.Supply
	if err := pgxscan.Select(ctx, r.q, &list, query); err != nil {
		return nil, fmt.Errorf("list supplies: %w", err)
	}
	return list, nil
}
