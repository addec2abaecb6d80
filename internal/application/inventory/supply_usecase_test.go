package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/application/inventory"
	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/testutil/memstore"
	"github.com/jhoicas/suministros-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type mockReport struct{ mock.Mock }

func (m *mockReport) GenerateInventoryReport(supplies []*entity.Supply, at time.Time) ([]byte, error) {
	args := m.Called(supplies, at)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func intp(n int) *int { return &n }

func newUseCase(store *memstore.Store, pub *memstore.Publisher, rep *mockReport) *inventory.SupplyUseCase {
	return inventory.NewSupplyUseCase(store.Supplies(), store.Requests(), store.TxRunner(), pub, rep, logger.Nop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Create / Get
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateYGet_RoundTrip(t *testing.T) {
	store := memstore.New()
	uc := newUseCase(store, &memstore.Publisher{}, &mockReport{})
	ctx := context.Background()

	in := dto.SupplyInput{Name: "Stapler", Description: "Grapadora de escritorio", Quantity: intp(12), MinimumThreshold: intp(3)}
	created, err := uc.Create(ctx, "admin-1", in)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := uc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Stapler", got.Name)
	assert.Equal(t, "Grapadora de escritorio", got.Description)
	assert.Equal(t, 12, got.Quantity)
	assert.Equal(t, 3, got.MinimumThreshold)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.Empty(t, got.RecentRequests)
	assert.Equal(t, []string{"Creó el suministro Stapler"}, store.AuditActions())
}

func TestCreate_Validacion(t *testing.T) {
	uc := newUseCase(memstore.New(), &memstore.Publisher{}, &mockReport{})

	_, err := uc.Create(context.Background(), "admin-1", dto.SupplyInput{Name: "  ", Quantity: intp(-1)})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "description")
	assert.Contains(t, verr.Fields, "quantity")
	assert.Contains(t, verr.Fields, "minimumThreshold")
}

func TestCreate_NombreDuplicado(t *testing.T) {
	store := memstore.New()
	store.AddSupply("Paper", 1, 1)
	uc := newUseCase(store, &memstore.Publisher{}, &mockReport{})

	_, err := uc.Create(context.Background(), "admin-1", dto.SupplyInput{Name: "Paper", Description: "d", Quantity: intp(1), MinimumThreshold: intp(0)})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreate_StockBajo_AuditaYNotifica(t *testing.T) {
	store := memstore.New()
	pub := &memstore.Publisher{}
	uc := newUseCase(store, pub, &mockReport{})

	_, err := uc.Create(context.Background(), "admin-1", dto.SupplyInput{Name: "Toner", Description: "Negro", Quantity: intp(2), MinimumThreshold: intp(2)})
	require.NoError(t, err)

	assert.Len(t, store.AuditActions(), 2)
	assert.Len(t, pub.OfType(entity.NotificationLowInventory), 1)
}

func TestGet_IncluyeSolicitudesRecientes(t *testing.T) {
	store := memstore.New()
	u := store.AddUser("ana", entity.RoleStaff)
	paper := store.AddSupply("Paper", 50, 5)
	for i := 0; i < 7; i++ {
		store.AddRequest(u.ID, paper.ID, 1, entity.RequestPending)
	}
	uc := newUseCase(store, &memstore.Publisher{}, &mockReport{})

	got, err := uc.Get(context.Background(), paper.ID)
	require.NoError(t, err)
	require.Len(t, got.RecentRequests, 5)
	assert.Equal(t, "ana", got.RecentRequests[0].Username)

	_, err = uc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / SetQuantity
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_ReemplazaCampos(t *testing.T) {
	store := memstore.New()
	paper := store.AddSupply("Paper", 50, 5)
	uc := newUseCase(store, &memstore.Publisher{}, &mockReport{})

	out, err := uc.Update(context.Background(), "admin-1", paper.ID, dto.SupplyInput{Name: "Printer Paper", Description: "A4", Quantity: intp(40), MinimumThreshold: intp(10)})
	require.NoError(t, err)
	assert.Equal(t, "Printer Paper", out.Name)
	assert.Equal(t, 40, out.Quantity)

	_, err = uc.Update(context.Background(), "admin-1", "nope", dto.SupplyInput{Name: "x", Description: "y", Quantity: intp(1), MinimumThreshold: intp(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetQuantity_BajoMinimo_DosAuditoriasYNotificacion(t *testing.T) {
	store := memstore.New()
	pub := &memstore.Publisher{}
	paper := store.AddSupply("Paper", 50, 5)
	uc := newUseCase(store, pub, &mockReport{})

	out, err := uc.SetQuantity(context.Background(), "admin-1", paper.ID, dto.SetQuantityInput{Quantity: intp(5)})
	require.NoError(t, err)
	assert.True(t, out.LowStock)

	assert.Equal(t, []string{
		"Actualizó la cantidad de Paper a 5",
		"Alerta de stock bajo: Paper (5 unidades, mínimo 5)",
	}, store.AuditActions())
	low := pub.OfType(entity.NotificationLowInventory)
	require.Len(t, low, 1)
	assert.Equal(t, paper.ID, low[0].Notification.Data["supplyId"])
}

func TestSetQuantity_SobreMinimo_SinAlerta(t *testing.T) {
	store := memstore.New()
	pub := &memstore.Publisher{}
	paper := store.AddSupply("Paper", 50, 5)
	uc := newUseCase(store, pub, &mockReport{})

	_, err := uc.SetQuantity(context.Background(), "admin-1", paper.ID, dto.SetQuantityInput{Quantity: intp(6)})
	require.NoError(t, err)
	assert.Len(t, store.AuditActions(), 1)
	assert.Empty(t, pub.Emitted())
}

func TestSetQuantity_Negativa_Validacion(t *testing.T) {
	store := memstore.New()
	paper := store.AddSupply("Paper", 50, 5)
	uc := newUseCase(store, &memstore.Publisher{}, &mockReport{})

	_, err := uc.SetQuantity(context.Background(), "admin-1", paper.ID, dto.SetQuantityInput{Quantity: intp(-3)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.SetQuantity(context.Background(), "admin-1", paper.ID, dto.SetQuantityInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	sp, _ := store.Supply(paper.ID)
	assert.Equal(t, 50, sp.Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_ConSolicitudPendiente_Conflict(t *testing.T) {
	store := memstore.New()
	u := store.AddUser("ana", entity.RoleStaff)
	paper := store.AddSupply("Paper", 50, 5)
	store.AddRequest(u.ID, paper.ID, 1, entity.RequestApproved)
	store.AddRequest(u.ID, paper.ID, 1, entity.RequestPending)
	uc := newUseCase(store, &memstore.Publisher{}, &mockReport{})

	err := uc.Delete(context.Background(), "admin-1", paper.ID)

	assert.ErrorIs(t, err, domain.ErrSupplyHasPendingRequests)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, ok := store.Supply(paper.ID)
	assert.True(t, ok)
	assert.Equal(t, 2, store.RequestCount())
}

func TestDelete_SoloTerminales_EliminaEnCascada(t *testing.T) {
	store := memstore.New()
	u := store.AddUser("ana", entity.RoleStaff)
	paper := store.AddSupply("Paper", 50, 5)
	store.AddRequest(u.ID, paper.ID, 1, entity.RequestApproved)
	store.AddRequest(u.ID, paper.ID, 1, entity.RequestDenied)
	uc := newUseCase(store, &memstore.Publisher{}, &mockReport{})

	require.NoError(t, uc.Delete(context.Background(), "admin-1", paper.ID))

	_, ok := store.Supply(paper.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, store.RequestCount())
	assert.Equal(t, []string{"Eliminó el suministro Paper"}, store.AuditActions())

	assert.ErrorIs(t, uc.Delete(context.Background(), "admin-1", paper.ID), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// List / Report
// ──────────────────────────────────────────────────────────────────────────────

func TestList_FiltroStockBajo(t *testing.T) {
	store := memstore.New()
	store.AddSupply("Sticky Notes", 30, 5)
	store.AddSupply("Ballpoint Pens", 4, 20)
	store.AddSupply("Printer Paper", 10, 10)
	uc := newUseCase(store, &memstore.Publisher{}, &mockReport{})

	all, err := uc.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Ballpoint Pens", all[0].Name)

	low, err := uc.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, low, 2)
	for _, s := range low {
		assert.True(t, s.LowStock)
	}
}

func TestReport_DelegaEnGenerador(t *testing.T) {
	store := memstore.New()
	store.AddSupply("Paper", 10, 5)
	rep := &mockReport{}
	rep.On("GenerateInventoryReport", mock.MatchedBy(func(s []*entity.Supply) bool { return len(s) == 1 }), mock.Anything).
		Return([]byte("%PDF"), nil).Once()
	uc := newUseCase(store, &memstore.Publisher{}, rep)

	pdf, err := uc.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), pdf)
	rep.AssertExpectations(t)
}
