package repository

import (
	"context"
	"time"

	"github.com/jhoicas/suministros-api/internal/domain/entity"
)

// RequestPoint fecha y estado de una solicitud (serie del dashboard).
type RequestPoint struct {
	CreatedAt time.Time
	Status    entity.RequestStatus
}

// AnalyticsRepository consultas read-only para el dashboard de administración.
type AnalyticsRepository interface {
	// CountSupplies total de suministros, en stock bajo y cerca del mínimo (margen dado).
	CountSupplies(ctx context.Context, warningMargin int) (total, low, nearLow int, err error)
	CountRequestsByStatus(ctx context.Context) (map[entity.RequestStatus]int, error)
	CountUsers(ctx context.Context) (int, error)
	RequestsSince(ctx context.Context, since time.Time) ([]RequestPoint, error)
	LowestStock(ctx context.Context, limit int) ([]*entity.Supply, error)
}
