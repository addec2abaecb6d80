// Package audit registra y consulta el historial de acciones.
//
// Dentro de los flujos transaccionales la entrada se escribe con el repositorio de la tx
// (ver Entry); Record es para acciones sin transacción (login, logout, registro).
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
	"github.com/jhoicas/suministros-api/pkg/logger"
)

// Entry construye una entrada nueva lista para insertar.
func Entry(userID, action string) *entity.AuditLog {
	return &entity.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		CreatedAt: time.Now(),
	}
}

// Logger registro de auditoría fuera de transacción.
type Logger struct {
	repo repository.AuditLogRepository
	log  *logger.Logger
}

// NewLogger construye el logger de auditoría.
func NewLogger(repo repository.AuditLogRepository, log *logger.Logger) *Logger {
	return &Logger{repo: repo, log: log.Component("audit")}
}

// Record inserta la entrada. Un fallo se registra en el log y no se propaga.
func (l *Logger) Record(ctx context.Context, userID, action string) {
	if err := l.repo.Create(ctx, Entry(userID, action)); err != nil {
		l.log.Error().Err(err).Str("user_id", userID).Str("action", action).Msg("no se pudo registrar auditoría")
	}
}

// List devuelve una página del historial, más recientes primero.
func (l *Logger) List(ctx context.Context, page dto.PageRequest) (*dto.AuditLogPage, error) {
	page.DefaultPage()
	logs, total, err := l.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar auditoría: %w", err)
	}
	items := make([]dto.AuditLogResponse, 0, len(logs))
	for _, a := range logs {
		items = append(items, dto.AuditLogResponse{
			ID:        a.ID,
			UserID:    a.UserID,
			Username:  a.Username,
			Action:    a.Action,
			CreatedAt: a.CreatedAt,
		})
	}
	return &dto.AuditLogPage{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// LowStockAction texto de la entrada de auditoría de stock bajo.
func LowStockAction(s *entity.Supply) string {
	return fmt.Sprintf("Alerta de stock bajo: %s (%d unidades, mínimo %d)", s.Name, s.Quantity, s.MinimumThreshold)
}
