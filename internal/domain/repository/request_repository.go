package repository

import (
	"context"
	"time"

	"github.com/jhoicas/suministros-api/internal/domain/entity"
)

// RequestFilter filtros del listado de solicitudes. Campos vacíos no filtran.
type RequestFilter struct {
	Status entity.RequestStatus
	UserID string
}

// RequestRepository define el puerto de persistencia para Request (DIP).
// Las lecturas incluyen SupplyName, SupplyQuantity y Username.
type RequestRepository interface {
	Create(ctx context.Context, req *entity.Request) error
	GetByID(ctx context.Context, id string) (*entity.Request, error)
	// GetByIDForUpdate bloquea la fila de la solicitud hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Request, error)
	// UpdateStatusIfPending transita la solicitud solo si sigue PENDING; false si no se actualizó.
	UpdateStatusIfPending(ctx context.Context, id string, status entity.RequestStatus, processedBy string, at time.Time) (bool, error)
	List(ctx context.Context, filter RequestFilter) ([]*entity.Request, error)
	ListRecentBySupply(ctx context.Context, supplyID string, limit int) ([]*entity.Request, error)
	HasPendingForSupply(ctx context.Context, supplyID string) (bool, error)
	DeleteByUser(ctx context.Context, userID string) error
}
