package settings_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/application/settings"
	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/testutil/memstore"
	"github.com/jhoicas/suministros-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Resolver
// ──────────────────────────────────────────────────────────────────────────────

func TestResolver_ValoresPorDefecto(t *testing.T) {
	r := settings.NewResolver(memstore.New().Settings(), logger.Nop())
	ctx := context.Background()

	visible, err := r.AllRequestsVisible(ctx)
	require.NoError(t, err)
	assert.False(t, visible)

	max, err := r.MaxRequestQuantity(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, max)

	warn, err := r.LowStockWarning(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, warn)

	_, ok, err := r.Get(ctx, "NO_EXISTE")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolver_LecturaFrescaSinCache(t *testing.T) {
	store := memstore.New()
	r := settings.NewResolver(store.Settings(), logger.Nop())
	ctx := context.Background()

	store.SetSetting(entity.SettingAllRequestsVisible, "true")
	visible, err := r.AllRequestsVisible(ctx)
	require.NoError(t, err)
	assert.True(t, visible)

	store.SetSetting(entity.SettingAllRequestsVisible, "false")
	visible, err = r.AllRequestsVisible(ctx)
	require.NoError(t, err)
	assert.False(t, visible)
}

func TestResolver_ValorInvalido_UsaDefault(t *testing.T) {
	store := memstore.New()
	store.SetSetting(entity.SettingMaxRequestQuantity, "muchos")
	store.SetSetting(entity.SettingAllRequestsVisible, "quizás")
	r := settings.NewResolver(store.Settings(), logger.Nop())

	max, err := r.MaxRequestQuantity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, settings.DefaultMaxRequestQuantity, max)

	visible, err := r.AllRequestsVisible(context.Background())
	require.NoError(t, err)
	assert.False(t, visible)
}

// ──────────────────────────────────────────────────────────────────────────────
// Service.Update
// ──────────────────────────────────────────────────────────────────────────────

func settingID(t *testing.T, svc *settings.Service, key string) string {
	t.Helper()
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	for _, s := range list {
		if s.Key == key {
			return s.ID
		}
	}
	t.Fatalf("setting %s no encontrado", key)
	return ""
}

func TestUpdate_AplicaCambiosYAudita(t *testing.T) {
	store := memstore.New()
	store.SetSetting(entity.SettingMaxRequestQuantity, "100")
	store.SetSetting(entity.SettingAllRequestsVisible, "false")
	svc := settings.NewService(store.Settings(), store.TxRunner())

	out, err := svc.Update(context.Background(), "admin-1", []dto.SettingUpdate{
		{ID: settingID(t, svc, entity.SettingMaxRequestQuantity), Value: "20"},
		{ID: settingID(t, svc, entity.SettingAllRequestsVisible), Value: "true"},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, entity.SettingAllRequestsVisible, out[0].Key)
	assert.Equal(t, "true", out[0].Value)
	assert.Equal(t, "20", out[1].Value)
	assert.Equal(t, []string{settings.ActionSettingsUpdated}, store.AuditActions())
}

func TestUpdate_ValorInvalido_NoModificaNada(t *testing.T) {
	store := memstore.New()
	store.SetSetting(entity.SettingMaxRequestQuantity, "100")
	store.SetSetting(entity.SettingLowStockWarning, "5")
	svc := settings.NewService(store.Settings(), store.TxRunner())

	_, err := svc.Update(context.Background(), "admin-1", []dto.SettingUpdate{
		{ID: settingID(t, svc, entity.SettingLowStockWarning), Value: "8"},
		{ID: settingID(t, svc, entity.SettingMaxRequestQuantity), Value: "0"},
	})
	require.Error(t, err)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, entity.SettingMaxRequestQuantity)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	for _, s := range list {
		if s.Key == entity.SettingLowStockWarning {
			assert.Equal(t, "5", s.Value, "la transacción debe revertirse")
		}
	}
	assert.Empty(t, store.AuditActions())
}

func TestUpdate_IDInexistente_NotFound(t *testing.T) {
	store := memstore.New()
	svc := settings.NewService(store.Settings(), store.TxRunner())

	_, err := svc.Update(context.Background(), "admin-1", []dto.SettingUpdate{{ID: "nope", Value: "1"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_SinCambios_Validacion(t *testing.T) {
	svc := settings.NewService(memstore.New().Settings(), memstore.New().TxRunner())
	_, err := svc.Update(context.Background(), "admin-1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
