package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suministros-api/internal/application/audit"
	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/testutil/memstore"
	"github.com/jhoicas/suministros-api/pkg/logger"
)

func TestRecord_FalloNoSePropaga(t *testing.T) {
	store := memstore.New()
	store.FailAudit = true
	l := audit.NewLogger(store.Audit(), logger.Nop())

	assert.NotPanics(t, func() { l.Record(context.Background(), "u1", "Inició sesión") })
	assert.Empty(t, store.AuditActions())
}

func TestList_MasRecientesPrimeroConUsuario(t *testing.T) {
	store := memstore.New()
	u := store.AddUser("ana", entity.RoleStaff)
	l := audit.NewLogger(store.Audit(), logger.Nop())
	ctx := context.Background()

	l.Record(ctx, u.ID, "primera")
	l.Record(ctx, u.ID, "segunda")
	l.Record(ctx, u.ID, "tercera")

	page, err := l.List(ctx, dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "tercera", page.Items[0].Action)
	assert.Equal(t, "segunda", page.Items[1].Action)
	assert.Equal(t, "ana", page.Items[0].Username)
	assert.Equal(t, 3, page.Page.Total)

	page, err = l.List(ctx, dto.PageRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "primera", page.Items[0].Action)
}
