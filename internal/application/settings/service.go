package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/suministros-api/internal/application/audit"
	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/application/ports"
	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

// ActionSettingsUpdated acción de auditoría de la actualización de configuración.
const ActionSettingsUpdated = "Actualizó la configuración del sistema"

// Service administración de la configuración (solo ADMIN).
type Service struct {
	repo     repository.SettingRepository
	txRunner ports.TxRunner
}

// NewService construye el servicio de administración.
func NewService(repo repository.SettingRepository, txRunner ports.TxRunner) *Service {
	return &Service{repo: repo, txRunner: txRunner}
}

// List devuelve toda la configuración ordenada por clave.
func (s *Service) List(ctx context.Context) ([]dto.SettingResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar settings: %w", err)
	}
	out := make([]dto.SettingResponse, 0, len(list))
	for _, st := range list {
		out = append(out, dto.FromSetting(st))
	}
	return out, nil
}

// Update aplica todos los cambios por id en una transacción y registra la auditoría en la misma tx.
// Los valores se validan según el tipo de la clave; un id inexistente devuelve ErrNotFound.
func (s *Service) Update(ctx context.Context, actorID string, updates []dto.SettingUpdate) ([]dto.SettingResponse, error) {
	if len(updates) == 0 {
		return nil, domain.NewValidationError().Add("settings", "se requiere al menos un cambio")
	}
	for i, u := range updates {
		if strings.TrimSpace(u.ID) == "" {
			return nil, domain.NewValidationError().Add(fmt.Sprintf("settings[%d].id", i), "requerido")
		}
		if !domain.ValidID(u.ID) {
			return nil, fmt.Errorf("setting %s: %w", u.ID, domain.ErrNotFound)
		}
	}

	err := s.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		verr := domain.NewValidationError()
		for _, u := range updates {
			current, err := repos.Settings.GetByID(ctx, u.ID)
			if err != nil {
				return err
			}
			if current == nil {
				return fmt.Errorf("setting %s: %w", u.ID, domain.ErrNotFound)
			}
			value := strings.TrimSpace(u.Value)
			if msg := validateValue(current.Key, value); msg != "" {
				verr.Add(current.Key, msg)
				continue
			}
			if err := repos.Settings.UpdateValue(ctx, u.ID, value); err != nil {
				return err
			}
		}
		if err := verr.Err(); err != nil {
			return err
		}
		return repos.Audit.Create(ctx, audit.Entry(actorID, ActionSettingsUpdated))
	})
	if err != nil {
		return nil, err
	}
	return s.List(ctx)
}

// validateValue devuelve el mensaje de error para la clave, o "" si el valor es válido.
func validateValue(key, value string) string {
	switch key {
	case entity.SettingAllRequestsVisible:
		if _, err := parseBool(value); err != nil {
			return err.Error()
		}
	case entity.SettingMaxRequestQuantity:
		if _, err := parseInt(value, 1); err != nil {
			return err.Error()
		}
	case entity.SettingLowStockWarning:
		if _, err := parseInt(value, 0); err != nil {
			return err.Error()
		}
	}
	return ""
}
