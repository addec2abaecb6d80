package metrics

import (
	"context"

	"github.com/jhoicas/suministros-api/internal/application/ports"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
)

// InstrumentedPublisher cuenta las alertas de stock bajo antes de delegar.
type InstrumentedPublisher struct {
	next    ports.NotificationPublisher
	metrics *Metrics
}

var _ ports.NotificationPublisher = (*InstrumentedPublisher)(nil)

// InstrumentPublisher envuelve next.
func InstrumentPublisher(next ports.NotificationPublisher, m *Metrics) *InstrumentedPublisher {
	return &InstrumentedPublisher{next: next, metrics: m}
}

// Emit implementa ports.NotificationPublisher.
func (p *InstrumentedPublisher) Emit(ctx context.Context, scope entity.NotificationScope, n entity.Notification) error {
	if n.Type == entity.NotificationLowInventory {
		p.metrics.LowStockAlerts.Inc()
	}
	return p.next.Emit(ctx, scope, n)
}
