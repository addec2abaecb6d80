package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepo)(nil)

// requestSelect solicitud con nombre/cantidad del suministro y username del solicitante.
const requestSelect = `
	SELECT rq.id, rq.user_id, rq.supply_id, rq.quantity, rq.status,
	       rq.processed_by, rq.processed_at, rq.created_at, rq.updated_at,
	       s.name AS supply_name, s.quantity AS supply_quantity, u.username
	FROM requests rq
	JOIN supplies s ON s.id = rq.supply_id
	JOIN users u ON u.id = rq.user_id`

// RequestRepo implementación de RequestRepository sobre PostgreSQL (pool o tx).
type RequestRepo struct {
	q Querier
}

// NewRequestRepository construye el adaptador de solicitudes.
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

// Create inserta la solicitud.
func (r *RequestRepo) Create(ctx context.Context, req *entity.Request) error {
	query := `
		INSERT INTO requests (id, user_id, supply_id, quantity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, req.ID, req.UserID, req.SupplyID, req.Quantity, req.Status, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID.
func (r *RequestRepo) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	return r.getOne(ctx, requestSelect+` WHERE rq.id = $1`, id)
}

// GetByIDForUpdate obtiene la solicitud y bloquea solo su fila (FOR UPDATE OF rq).
func (r *RequestRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Request, error) {
	return r.getOne(ctx, requestSelect+` WHERE rq.id = $1 FOR UPDATE OF rq`, id)
}

func (r *RequestRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Request, error) {
	var req entity.Request
	if err := pgxscan.Get(ctx, r.q, &req, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	return &req, nil
}

// UpdateStatusIfPending cambia el estado solo si la solicitud sigue PENDING.
func (r *RequestRepo) UpdateStatusIfPending(ctx context.Context, id string, status entity.RequestStatus, processedBy string, at time.Time) (bool, error) {
	query := `
		UPDATE requests SET status = $2, processed_by = $3, processed_at = $4, updated_at = $4
		WHERE id = $1 AND status = 'PENDING'`
	tag, err := r.q.Exec(ctx, query, id, status, processedBy, at)
	if err != nil {
		return false, fmt.Errorf("update request status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// List lista solicitudes, más recientes primero.
func (r *RequestRepo) List(ctx context.Context, f repository.RequestFilter) ([]*entity.Request, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("rq.status = $%d", len(args)))
	}
	if f.UserID != "" {
		args = append(args, f.UserID)
		where = append(where, fmt.Sprintf("rq.user_id = $%d", len(args)))
	}
	query := requestSelect
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY rq.created_at DESC`

	var list []*entity.Request
	if err := pgxscan.Select(ctx, r.q, &list, query, args...); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return list, nil
}

// ListRecentBySupply últimas solicitudes de un suministro.
func (r *RequestRepo) ListRecentBySupply(ctx context.Context, supplyID string, limit int) ([]*entity.Request, error) {
	query := requestSelect + ` WHERE rq.supply_id = $1 ORDER BY rq.created_at DESC LIMIT $2`
	var list []*entity.Request
	if err := pgxscan.Select(ctx, r.q, &list, query, supplyID, limit); err != nil {
		return nil, fmt.Errorf("list recent requests: %w", err)
	}
	return list, nil
}

// HasPendingForSupply indica si hay solicitudes PENDING del suministro.
func (r *RequestRepo) HasPendingForSupply(ctx context.Context, supplyID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM requests WHERE supply_id = $1 AND status = 'PENDING')`, supplyID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pending requests: %w", err)
	}
	return exists, nil
}

// DeleteByUser elimina las solicitudes de un usuario.
func (r *RequestRepo) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM requests WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete requests by user: %w", err)
	}
	return nil
}
