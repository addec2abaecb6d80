// Package requests implementa el flujo de solicitudes de suministros:
// creación (con verificación de stock) y transición PENDING -> APPROVED | DENIED.
package requests

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/suministros-api/internal/application/audit"
	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/application/ports"
	"github.com/jhoicas/suministros-api/internal/application/settings"
	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
	"github.com/jhoicas/suministros-api/pkg/logger"
)

// Viewer identidad de quien consulta solicitudes.
// CanReadAll viene de la política de autorización (requests:read_all).
type Viewer struct {
	UserID     string
	CanReadAll bool
}

// UseCase casos de uso de solicitudes.
type UseCase struct {
	repo     repository.RequestRepository
	settings *settings.Resolver
	txRunner ports.TxRunner
	notifier ports.NotificationPublisher
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. notifier es la instancia única del proceso.
func NewUseCase(
	repo repository.RequestRepository,
	resolver *settings.Resolver,
	txRunner ports.TxRunner,
	notifier ports.NotificationPublisher,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		repo:     repo,
		settings: resolver,
		txRunner: txRunner,
		notifier: notifier,
		log:      log.Component("requests"),
		now:      time.Now,
	}
}

// Create registra una solicitud PENDING. El stock se verifica pero no se reserva:
// la verificación definitiva ocurre al aprobar.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateRequestInput) (*dto.RequestResponse, error) {
	maxQty, err := uc.settings.MaxRequestQuantity(ctx)
	if err != nil {
		return nil, err
	}
	verr := domain.NewValidationError()
	if strings.TrimSpace(in.SupplyID) == "" {
		verr.Add("supplyId", "requerido")
	}
	switch {
	case in.Quantity < 1:
		verr.Add("quantity", "debe ser mayor o igual a 1")
	case in.Quantity > maxQty:
		verr.Add("quantity", fmt.Sprintf("no puede superar %d", maxQty))
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	if !domain.ValidID(in.SupplyID) {
		return nil, fmt.Errorf("suministro %s: %w", in.SupplyID, domain.ErrNotFound)
	}

	now := uc.now()
	req := &entity.Request{
		ID:        uuid.New().String(),
		UserID:    userID,
		SupplyID:  in.SupplyID,
		Quantity:  in.Quantity,
		Status:    entity.RequestPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		supply, err := repos.Supplies.GetByIDForUpdate(ctx, in.SupplyID)
		if err != nil {
			return err
		}
		if supply == nil {
			return fmt.Errorf("suministro %s: %w", in.SupplyID, domain.ErrNotFound)
		}
		if in.Quantity > supply.Quantity {
			return domain.ErrInsufficientStock
		}
		user, err := repos.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUnauthorized
		}
		if err := repos.Requests.Create(ctx, req); err != nil {
			return err
		}
		req.SupplyName = supply.Name
		req.SupplyQuantity = supply.Quantity
		req.Username = user.Username
		return repos.Audit.Create(ctx, audit.Entry(userID,
			fmt.Sprintf("Solicitó %d x %s", req.Quantity, supply.Name)))
	})
	if err != nil {
		return nil, err
	}
	out := dto.FromRequest(req)
	return &out, nil
}

// Transition aprueba o rechaza una solicitud PENDING.
//
// Todo ocurre en una transacción: bloqueo de la solicitud, descuento condicional del stock
// (quantity >= n en la misma sentencia), cambio de estado condicionado a PENDING y auditoría.
// El stock bajo se evalúa sobre la fila devuelta por el descuento. Las notificaciones se
// emiten después del Commit y sus fallos solo se registran.
func (uc *UseCase) Transition(ctx context.Context, actorID string, in dto.UpdateRequestStatusInput) (*dto.RequestResponse, error) {
	target := entity.RequestStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	verr := domain.NewValidationError()
	if strings.TrimSpace(in.ID) == "" {
		verr.Add("id", "requerido")
	}
	if !target.IsTerminal() {
		verr.Add("status", "debe ser APPROVED o DENIED")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	if !domain.ValidID(in.ID) {
		return nil, fmt.Errorf("solicitud %s: %w", in.ID, domain.ErrNotFound)
	}

	var (
		result   *entity.Request
		lowStock *entity.Supply
	)
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		req, err := repos.Requests.GetByIDForUpdate(ctx, in.ID)
		if err != nil {
			return err
		}
		if req == nil {
			return fmt.Errorf("solicitud %s: %w", in.ID, domain.ErrNotFound)
		}
		if !req.Status.CanTransition(target) {
			return domain.ErrAlreadyProcessed
		}

		var updated *entity.Supply
		if target == entity.RequestApproved {
			updated, err = repos.Supplies.DecrementIfAvailable(ctx, req.SupplyID, req.Quantity)
			if err != nil {
				return err
			}
			if updated == nil {
				return domain.ErrInsufficientStock
			}
		}

		now := uc.now()
		ok, err := repos.Requests.UpdateStatusIfPending(ctx, req.ID, target, actorID, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyProcessed
		}
		req.Status = target
		req.ProcessedBy = &actorID
		req.ProcessedAt = &now
		req.UpdatedAt = now

		if err := repos.Audit.Create(ctx, audit.Entry(actorID, transitionAction(req))); err != nil {
			return err
		}
		if updated != nil {
			req.SupplyQuantity = updated.Quantity
			if updated.IsLowStock() {
				if err := repos.Audit.Create(ctx, audit.Entry(actorID, audit.LowStockAction(updated))); err != nil {
					return err
				}
				lowStock = updated
			}
		}
		result = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.emit(ctx, entity.UserScope(result.UserID), entity.NewRequestStatusNotification(result))
	if lowStock != nil {
		uc.emit(ctx, entity.Broadcast, entity.NewLowInventoryNotification(lowStock))
	}
	out := dto.FromRequest(result)
	return &out, nil
}

// List devuelve las solicitudes visibles para el viewer.
// Sin requests:read_all solo ve las propias, salvo que ALLOW_ALL_REQUESTS_VISIBLE esté activo;
// el filtro por usuario solo aplica a quien puede ver todas.
func (uc *UseCase) List(ctx context.Context, v Viewer, q dto.RequestListQuery) ([]dto.RequestResponse, error) {
	filter := repository.RequestFilter{}
	if q.Status != "" {
		status := entity.RequestStatus(strings.ToUpper(q.Status))
		if !status.IsValid() {
			return nil, domain.NewValidationError().Add("status", "estado desconocido")
		}
		filter.Status = status
	}
	if v.CanReadAll {
		if q.UserID != "" && !domain.ValidID(q.UserID) {
			return nil, domain.NewValidationError().Add("userId", "id inválido")
		}
		filter.UserID = q.UserID
	} else {
		visible, err := uc.settings.AllRequestsVisible(ctx)
		if err != nil {
			return nil, err
		}
		if !visible {
			filter.UserID = v.UserID
		}
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar solicitudes: %w", err)
	}
	return dto.FromRequests(list), nil
}

// Get devuelve una solicitud si es visible para el viewer.
func (uc *UseCase) Get(ctx context.Context, v Viewer, id string) (*dto.RequestResponse, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	req, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener solicitud: %w", err)
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if !v.CanReadAll && req.UserID != v.UserID {
		visible, err := uc.settings.AllRequestsVisible(ctx)
		if err != nil {
			return nil, err
		}
		if !visible {
			return nil, domain.ErrForbidden
		}
	}
	out := dto.FromRequest(req)
	return &out, nil
}

func (uc *UseCase) emit(ctx context.Context, scope entity.NotificationScope, n entity.Notification) {
	if err := uc.notifier.Emit(ctx, scope, n); err != nil {
		uc.log.Warn().Err(err).Str("type", n.Type).Str("scope", string(scope)).Msg("no se pudo emitir la notificación")
	}
}

func transitionAction(r *entity.Request) string {
	verb := "Aprobó"
	if r.Status == entity.RequestDenied {
		verb = "Rechazó"
	}
	who := r.Username
	if who == "" {
		who = r.UserID
	}
	return fmt.Sprintf("%s la solicitud de %d x %s de %s", verb, r.Quantity, r.SupplyName, who)
}
