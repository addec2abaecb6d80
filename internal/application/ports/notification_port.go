package ports

import (
	"context"

	"github.com/jhoicas/suministros-api/internal/domain/entity"
)

// NotificationPublisher puerto de salida del canal de notificaciones en tiempo real.
// Entrega at-most-once, sin persistencia; se invoca después del Commit.
type NotificationPublisher interface {
	Emit(ctx context.Context, scope entity.NotificationScope, n entity.Notification) error
}

// NopPublisher descarta todas las notificaciones.
type NopPublisher struct{}

// Emit no hace nada.
func (NopPublisher) Emit(context.Context, entity.NotificationScope, entity.Notification) error {
	return nil
}
