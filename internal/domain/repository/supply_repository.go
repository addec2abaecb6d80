package repository

import (
	"context"

	"github.com/jhoicas/suministros-api/internal/domain/entity"
)

// SupplyFilter filtros del listado de suministros.
type SupplyFilter struct {
	LowStockOnly bool
}

// SupplyRepository define el puerto de persistencia para Supply (DIP).
type SupplyRepository interface {
	Create(ctx context.Context, supply *entity.Supply) error
	GetByID(ctx context.Context, id string) (*entity.Supply, error)
	// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE); usar dentro de una transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Supply, error)
	Update(ctx context.Context, supply *entity.Supply) error
	// SetQuantity fija la cantidad y devuelve el registro resultante (nil si no existe).
	SetQuantity(ctx context.Context, id string, quantity int) (*entity.Supply, error)
	// DecrementIfAvailable descuenta n unidades en una sola sentencia condicional
	// (quantity >= n). Devuelve nil si no hay stock suficiente o el suministro no existe.
	DecrementIfAvailable(ctx context.Context, id string, n int) (*entity.Supply, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter SupplyFilter) ([]*entity.Supply, error)
}
