package memstore

import (
	"context"
	"sync"

	"github.com/jhoicas/suministros-api/internal/application/ports"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
)

var _ ports.NotificationPublisher = (*Publisher)(nil)

// Emitted notificación registrada por Publisher.
type Emitted struct {
	Scope        entity.NotificationScope
	Notification entity.Notification
}

// Publisher registra las notificaciones emitidas. Err hace fallar Emit.
type Publisher struct {
	mu   sync.Mutex
	list []Emitted
	Err  error
}

// Emit registra la notificación.
func (p *Publisher) Emit(_ context.Context, scope entity.NotificationScope, n entity.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.list = append(p.list, Emitted{Scope: scope, Notification: n})
	return nil
}

// Emitted copia de lo emitido.
func (p *Publisher) Emitted() []Emitted {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Emitted(nil), p.list...)
}

// OfType filtra por tipo de notificación.
func (p *Publisher) OfType(typ string) []Emitted {
	var out []Emitted
	for _, e := range p.Emitted() {
		if e.Notification.Type == typ {
			out = append(out, e)
		}
	}
	return out
}
