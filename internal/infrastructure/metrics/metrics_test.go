package metrics_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/infrastructure/metrics"
	"github.com/jhoicas/suministros-api/internal/testutil/memstore"
)

func TestInstrumentedPublisher_CuentaAlertasDeStockBajo(t *testing.T) {
	m := metrics.New()
	inner := &memstore.Publisher{}
	p := metrics.InstrumentPublisher(inner, m)

	supply := &entity.Supply{ID: "s1", Name: "Paper", Quantity: 2, MinimumThreshold: 5}
	require.NoError(t, p.Emit(context.Background(), entity.Broadcast, entity.NewLowInventoryNotification(supply)))
	require.NoError(t, p.Emit(context.Background(), entity.UserScope("u1"), entity.Notification{Type: entity.NotificationSystem}))

	assert.Contains(t, scrape(t, m), "suministros_low_stock_alerts_total 1")
	assert.Len(t, inner.Emitted(), 2)
}

func TestInstrumentedPublisher_PropagaError(t *testing.T) {
	m := metrics.New()
	p := metrics.InstrumentPublisher(&memstore.Publisher{Err: errors.New("down")}, m)
	assert.Error(t, p.Emit(context.Background(), entity.Broadcast, entity.Notification{Type: entity.NotificationSystem}))
}

func TestHandler_ExponeColectores(t *testing.T) {
	m := metrics.New()
	m.RequestTransitions.WithLabelValues("APPROVED").Inc()

	body := scrape(t, m)
	assert.Contains(t, body, `suministros_request_transitions_total{status="APPROVED"} 1`)
	assert.Contains(t, body, "suministros_low_stock_alerts_total 0")
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	return rec.Body.String()
}
