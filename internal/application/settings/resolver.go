// Package settings lee y administra la configuración global (SystemSetting).
package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
	"github.com/jhoicas/suministros-api/pkg/logger"
)

// Valores por defecto cuando la clave no existe o su valor no es válido.
const (
	DefaultAllRequestsVisible = false
	DefaultMaxRequestQuantity = 100
	DefaultLowStockWarning    = 5
)

// Resolver lee la configuración. Sin caché: cada llamada consulta la tabla.
type Resolver struct {
	repo repository.SettingRepository
	log  *logger.Logger
}

// NewResolver construye el resolver.
func NewResolver(repo repository.SettingRepository, log *logger.Logger) *Resolver {
	return &Resolver{repo: repo, log: log.Component("settings")}
}

// Get devuelve el valor de la clave y si existe.
func (r *Resolver) Get(ctx context.Context, key string) (string, bool, error) {
	s, err := r.repo.GetByKey(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("leer setting %s: %w", key, err)
	}
	if s == nil {
		return "", false, nil
	}
	return s.Value, true, nil
}

// AllRequestsVisible indica si STAFF puede ver las solicitudes de todos.
func (r *Resolver) AllRequestsVisible(ctx context.Context) (bool, error) {
	v, ok, err := r.Get(ctx, entity.SettingAllRequestsVisible)
	if err != nil || !ok {
		return DefaultAllRequestsVisible, err
	}
	b, perr := parseBool(v)
	if perr != nil {
		r.warnInvalid(entity.SettingAllRequestsVisible, v)
		return DefaultAllRequestsVisible, nil
	}
	return b, nil
}

// MaxRequestQuantity cantidad máxima por solicitud.
func (r *Resolver) MaxRequestQuantity(ctx context.Context) (int, error) {
	return r.intSetting(ctx, entity.SettingMaxRequestQuantity, DefaultMaxRequestQuantity, 1)
}

// LowStockWarning margen sobre el mínimo para considerar un suministro "cerca" del stock bajo.
func (r *Resolver) LowStockWarning(ctx context.Context) (int, error) {
	return r.intSetting(ctx, entity.SettingLowStockWarning, DefaultLowStockWarning, 0)
}

func (r *Resolver) intSetting(ctx context.Context, key string, def, min int) (int, error) {
	v, ok, err := r.Get(ctx, key)
	if err != nil || !ok {
		return def, err
	}
	n, perr := parseInt(v, min)
	if perr != nil {
		r.warnInvalid(key, v)
		return def, nil
	}
	return n, nil
}

func (r *Resolver) warnInvalid(key, value string) {
	r.log.Warn().Str("key", key).Str("value", value).Msg("valor de configuración inválido; se usa el valor por defecto")
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("se espera true o false")
}

func parseInt(v string, min int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("se espera un entero")
	}
	if n < min {
		return 0, fmt.Errorf("debe ser mayor o igual a %d", min)
	}
	return n, nil
}
