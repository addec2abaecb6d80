package repository

import (
	"context"

	"github.com/jhoicas/suministros-api/internal/domain/entity"
)

// SettingRepository puerto de persistencia de SystemSetting.
type SettingRepository interface {
	GetByKey(ctx context.Context, key string) (*entity.SystemSetting, error)
	GetByID(ctx context.Context, id string) (*entity.SystemSetting, error)
	List(ctx context.Context) ([]*entity.SystemSetting, error)
	UpdateValue(ctx context.Context, id, value string) error
	// Upsert inserta o actualiza por clave (seed).
	Upsert(ctx context.Context, setting *entity.SystemSetting) error
}
