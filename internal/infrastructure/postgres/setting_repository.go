package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

var _ repository.SettingRepository = (*SettingRepo)(nil)

const settingColumns = `id, key, value, description, updated_at`

// SettingRepo configuración global sobre PostgreSQL.
type SettingRepo struct {
	q Querier
}

// NewSettingRepository construye el adaptador.
func NewSettingRepository(q Querier) *SettingRepo {
	return &SettingRepo{q: q}
}

// GetByKey obtiene el setting por clave.
func (r *SettingRepo) GetByKey(ctx context.Context, key string) (*entity.SystemSetting, error) {
	return r.getOne(ctx, `SELECT `+settingColumns+` FROM system_settings WHERE key = $1`, key)
}

// GetByID obtiene el setting por ID.
func (r *SettingRepo) GetByID(ctx context.Context, id string) (*entity.SystemSetting, error) {
	return r.getOne(ctx, `SELECT `+settingColumns+` FROM system_settings WHERE id = $1 FOR UPDATE`, id)
}

func (r *SettingRepo) getOne(ctx context.Context, query string, args ...any) (*entity.SystemSetting, error) {
	var s entity.SystemSetting
	if err := pgxscan.Get(ctx, r.q, &s, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return &s, nil
}

// List toda la configuración ordenada por clave.
func (r *SettingRepo) List(ctx context.Context) ([]*entity.SystemSetting, error) {
	var list []*entity.SystemSetting
	if err := pgxscan.Select(ctx, r.q, &list, `SELECT `+settingColumns+` FROM system_settings ORDER BY key`); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return list, nil
}

// UpdateValue cambia el valor de un setting por ID.
func (r *SettingRepo) UpdateValue(ctx context.Context, id, value string) error {
	tag, err := r.q.Exec(ctx, `UPDATE system_settings SET value = $2, updated_at = now() WHERE id = $1`, id, value)
	if err != nil {
		return fmt.Errorf("update setting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Upsert inserta o actualiza por clave.
func (r *SettingRepo) Upsert(ctx context.Context, s *entity.SystemSetting) error {
	query := `
		INSERT INTO system_settings (id, key, value, description, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, description = EXCLUDED.description, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, s.ID, s.Key, s.Value, s.Description); err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}
