package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/suministros-api/internal/application/audit"
	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/application/ports"
	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
	"github.com/jhoicas/suministros-api/pkg/logger"
)

// recentRequestsLimit solicitudes recientes incluidas en el detalle de un suministro.
const recentRequestsLimit = 5

// SupplyUseCase casos de uso del inventario de suministros.
//
// Toda mutación escribe su auditoría en la misma transacción. Si la cantidad resultante queda
// en o por debajo del mínimo se agrega la entrada de stock bajo y, tras el Commit, se emite la
// notificación low-inventory a todos.
type SupplyUseCase struct {
	supplies repository.SupplyRepository
	requests repository.RequestRepository
	txRunner ports.TxRunner
	notifier ports.NotificationPublisher
	report   ports.InventoryReportGenerator
	log      *logger.Logger
	now      func() time.Time
}

// NewSupplyUseCase construye el caso de uso.
func NewSupplyUseCase(
	supplies repository.SupplyRepository,
	requests repository.RequestRepository,
	txRunner ports.TxRunner,
	notifier ports.NotificationPublisher,
	report ports.InventoryReportGenerator,
	log *logger.Logger,
) *SupplyUseCase {
	return &SupplyUseCase{
		supplies: supplies,
		requests: requests,
		txRunner: txRunner,
		notifier: notifier,
		report:   report,
		log:      log.Component("inventory"),
		now:      time.Now,
	}
}

// List lista los suministros ordenados por nombre; lowOnly filtra los de stock bajo.
func (uc *SupplyUseCase) List(ctx context.Context, lowOnly bool) ([]dto.SupplyResponse, error) {
	list, err := uc.supplies.List(ctx, repository.SupplyFilter{LowStockOnly: lowOnly})
	if err != nil {
		return nil, fmt.Errorf("listar suministros: %w", err)
	}
	out := make([]dto.SupplyResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.FromSupply(s))
	}
	return out, nil
}

// Get devuelve el suministro con sus solicitudes más recientes.
func (uc *SupplyUseCase) Get(ctx context.Context, id string) (*dto.SupplyDetailResponse, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	s, err := uc.supplies.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener suministro: %w", err)
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	recent, err := uc.requests.ListRecentBySupply(ctx, id, recentRequestsLimit)
	if err != nil {
		return nil, fmt.Errorf("solicitudes recientes: %w", err)
	}
	return &dto.SupplyDetailResponse{
		SupplyResponse: dto.FromSupply(s),
		RecentRequests: dto.FromRequests(recent),
	}, nil
}

// Create registra un suministro nuevo.
func (uc *SupplyUseCase) Create(ctx context.Context, actorID string, in dto.SupplyInput) (*dto.SupplyResponse, error) {
	if err := validateSupplyInput(in); err != nil {
		return nil, err
	}
	now := uc.now()
	s := &entity.Supply{
		ID:               uuid.New().String(),
		Name:             strings.TrimSpace(in.Name),
		Description:      strings.TrimSpace(in.Description),
		Quantity:         *in.Quantity,
		MinimumThreshold: *in.MinimumThreshold,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		if err := repos.Supplies.Create(ctx, s); err != nil {
			return err
		}
		return auditMutation(ctx, repos, actorID, "Creó el suministro "+s.Name, s)
	})
	if err != nil {
		return nil, err
	}
	uc.notifyIfLow(ctx, s)
	out := dto.FromSupply(s)
	return &out, nil
}

// Update reemplaza nombre, descripción, cantidad y mínimo.
func (uc *SupplyUseCase) Update(ctx context.Context, actorID, id string, in dto.SupplyInput) (*dto.SupplyResponse, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidationError().Add("id", "requerido")
	}
	if err := validateSupplyInput(in); err != nil {
		return nil, err
	}
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	var updated *entity.Supply
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		s, err := repos.Supplies.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		s.Name = strings.TrimSpace(in.Name)
		s.Description = strings.TrimSpace(in.Description)
		s.Quantity = *in.Quantity
		s.MinimumThreshold = *in.MinimumThreshold
		s.UpdatedAt = uc.now()
		if err := repos.Supplies.Update(ctx, s); err != nil {
			return err
		}
		updated = s
		return auditMutation(ctx, repos, actorID, "Actualizó el suministro "+s.Name, s)
	})
	if err != nil {
		return nil, err
	}
	uc.notifyIfLow(ctx, updated)
	out := dto.FromSupply(updated)
	return &out, nil
}

// SetQuantity fija solo la cantidad (PATCH).
func (uc *SupplyUseCase) SetQuantity(ctx context.Context, actorID, id string, in dto.SetQuantityInput) (*dto.SupplyResponse, error) {
	verr := domain.NewValidationError()
	switch {
	case in.Quantity == nil:
		verr.Add("quantity", "requerido")
	case *in.Quantity < 0:
		verr.Add("quantity", "no puede ser negativa")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	var updated *entity.Supply
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		s, err := repos.Supplies.SetQuantity(ctx, id, *in.Quantity)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		updated = s
		return auditMutation(ctx, repos, actorID,
			fmt.Sprintf("Actualizó la cantidad de %s a %d", s.Name, s.Quantity), s)
	})
	if err != nil {
		return nil, err
	}
	uc.notifyIfLow(ctx, updated)
	out := dto.FromSupply(updated)
	return &out, nil
}

// Delete elimina el suministro si no tiene solicitudes PENDING.
// Las solicitudes terminales se eliminan en cascada.
func (uc *SupplyUseCase) Delete(ctx context.Context, actorID, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError().Add("id", "requerido")
	}
	if !domain.ValidID(id) {
		return domain.ErrNotFound
	}
	return uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		s, err := repos.Supplies.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		pending, err := repos.Requests.HasPendingForSupply(ctx, id)
		if err != nil {
			return err
		}
		if pending {
			return domain.ErrSupplyHasPendingRequests
		}
		if err := repos.Supplies.Delete(ctx, id); err != nil {
			return err
		}
		return repos.Audit.Create(ctx, audit.Entry(actorID, "Eliminó el suministro "+s.Name))
	})
}

// Report genera el PDF de inventario con todos los suministros.
func (uc *SupplyUseCase) Report(ctx context.Context) ([]byte, error) {
	list, err := uc.supplies.List(ctx, repository.SupplyFilter{})
	if err != nil {
		return nil, fmt.Errorf("listar suministros: %w", err)
	}
	return uc.report.GenerateInventoryReport(list, uc.now())
}

// auditMutation escribe la auditoría de la mutación y, si corresponde, la de stock bajo.
func auditMutation(ctx context.Context, repos ports.TxRepos, actorID, action string, s *entity.Supply) error {
	if err := repos.Audit.Create(ctx, audit.Entry(actorID, action)); err != nil {
		return err
	}
	if s.IsLowStock() {
		return repos.Audit.Create(ctx, audit.Entry(actorID, audit.LowStockAction(s)))
	}
	return nil
}

func (uc *SupplyUseCase) notifyIfLow(ctx context.Context, s *entity.Supply) {
	if s == nil || !s.IsLowStock() {
		return
	}
	if err := uc.notifier.Emit(ctx, entity.Broadcast, entity.NewLowInventoryNotification(s)); err != nil {
		uc.log.Warn().Err(err).Str("supply_id", s.ID).Msg("no se pudo emitir la alerta de stock bajo")
	}
}

func validateSupplyInput(in dto.SupplyInput) error {
	verr := domain.NewValidationError()
	if strings.TrimSpace(in.Name) == "" {
		verr.Add("name", "requerido")
	}
	if strings.TrimSpace(in.Description) == "" {
		verr.Add("description", "requerido")
	}
	switch {
	case in.Quantity == nil:
		verr.Add("quantity", "requerido")
	case *in.Quantity < 0:
		verr.Add("quantity", "no puede ser negativa")
	}
	switch {
	case in.MinimumThreshold == nil:
		verr.Add("minimumThreshold", "requerido")
	case *in.MinimumThreshold < 0:
		verr.Add("minimumThreshold", "no puede ser negativo")
	}
	return verr.Err()
}
