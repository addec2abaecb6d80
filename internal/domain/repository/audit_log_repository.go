package repository

import (
	"context"

	"github.com/jhoicas/suministros-api/internal/domain/entity"
)

// AuditLogRepository puerto de persistencia del registro de auditoría (solo inserción y lectura).
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	// List devuelve la página pedida (más recientes primero) y el total.
	List(ctx context.Context, limit, offset int) ([]*entity.AuditLog, int, error)
	DeleteByUser(ctx context.Context, userID string) error
}
