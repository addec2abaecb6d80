//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suministros-api/internal/application/audit"
	"github.com/jhoicas/suministros-api/internal/application/auth"
	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/application/requests"
	"github.com/jhoicas/suministros-api/internal/application/settings"
	"github.com/jhoicas/suministros-api/internal/application/usecase"
	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/infrastructure/postgres"
	"github.com/jhoicas/suministros-api/internal/testutil/memstore"
	"github.com/jhoicas/suministros-api/pkg/logger"
)

// Ejecutar con: TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/infrastructure/postgres/
// La base se trunca al inicio de cada test.

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	require.NoError(t, postgres.Truncate(ctx, pool))
	return pool
}

func insertUser(t *testing.T, pool *pgxpool.Pool, username, role string) *entity.User {
	t.Helper()
	u, err := usecase.NewUser(username, "secreto", role, time.Now())
	require.NoError(t, err)
	require.NoError(t, postgres.NewUserRepository(pool).Create(context.Background(), u))
	return u
}

func insertSupply(t *testing.T, pool *pgxpool.Pool, name string, quantity, minimum int) *entity.Supply {
	t.Helper()
	now := time.Now()
	s := &entity.Supply{
		ID: uuid.NewString(), Name: name, Description: name,
		Quantity: quantity, MinimumThreshold: minimum, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, postgres.NewSupplyRepository(pool).Create(context.Background(), s))
	return s
}

func newRequestsUseCase(pool *pgxpool.Pool) *requests.UseCase {
	log := logger.Nop()
	return requests.NewUseCase(
		postgres.NewRequestRepository(pool),
		settings.NewResolver(postgres.NewSettingRepository(pool), log),
		postgres.NewTxRunner(pool),
		&memstore.Publisher{},
		log,
	)
}

// run lanza n goroutines a la vez y devuelve sus errores.
func run(n int, fn func(i int) error) []error {
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = fn(i)
		}(i)
	}
	close(start)
	wg.Wait()
	return errs
}

func TestIntegration_AprobacionesConcurrentes_NoSobregiranStock(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	admin := insertUser(t, pool, "admin", entity.RoleAdmin)
	staff := insertUser(t, pool, "ana", entity.RoleStaff)
	paper := insertSupply(t, pool, "Paper", 10, 2)
	uc := newRequestsUseCase(pool)

	const n = 6
	ids := make([]string, n)
	for i := range ids {
		out, err := uc.Create(ctx, staff.ID, dto.CreateRequestInput{SupplyID: paper.ID, Quantity: 3})
		require.NoError(t, err)
		ids[i] = out.ID
	}

	errs := run(n, func(i int) error {
		_, err := uc.Transition(ctx, admin.ID, dto.UpdateRequestStatusInput{ID: ids[i], Status: "APPROVED"})
		return err
	})

	approved := 0
	for _, err := range errs {
		if err == nil {
			approved++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	}
	assert.Equal(t, 3, approved)

	got, err := postgres.NewSupplyRepository(pool).GetByID(ctx, paper.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
}

func TestIntegration_MismaSolicitud_SoloUnaAprobacion(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	admin := insertUser(t, pool, "admin", entity.RoleAdmin)
	staff := insertUser(t, pool, "ana", entity.RoleStaff)
	paper := insertSupply(t, pool, "Paper", 10, 2)
	uc := newRequestsUseCase(pool)

	req, err := uc.Create(ctx, staff.ID, dto.CreateRequestInput{SupplyID: paper.ID, Quantity: 4})
	require.NoError(t, err)

	errs := run(5, func(int) error {
		_, err := uc.Transition(ctx, admin.ID, dto.UpdateRequestStatusInput{ID: req.ID, Status: "APPROVED"})
		return err
	})

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	}
	assert.Equal(t, 1, ok)

	got, err := postgres.NewSupplyRepository(pool).GetByID(ctx, paper.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Quantity)
}

func TestIntegration_DegradacionConcurrente_MantieneUnAdmin(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	a := insertUser(t, pool, "admin1", entity.RoleAdmin)
	b := insertUser(t, pool, "admin2", entity.RoleAdmin)
	uc := usecase.NewUserUseCase(postgres.NewUserRepository(pool), postgres.NewTxRunner(pool))
	targets := []*entity.User{a, b}

	errs := run(len(targets), func(i int) error {
		_, err := uc.Update(ctx, targets[1-i].ID, dto.UpdateUserRequest{ID: targets[i].ID, Role: entity.RoleStaff})
		return err
	})

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrLastAdmin)
			failed++
		}
	}
	assert.Equal(t, 1, failed)

	var admins int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = 'ADMIN'`).Scan(&admins))
	assert.Equal(t, 1, admins)
}

func TestIntegration_RegistrosConcurrentes_UnSoloAdmin(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uc := auth.NewAuthUseCase(
		postgres.NewUserRepository(pool),
		postgres.NewTxRunner(pool),
		audit.NewLogger(postgres.NewAuditLogRepository(pool), logger.Nop()),
		auth.JWTConfig{Secret: "integration-secret", ExpMinutes: 5, Issuer: "test"},
	)

	const n = 5
	roles := make([]string, n)
	errs := run(n, func(i int) error {
		out, err := uc.Register(ctx, dto.RegisterRequest{Username: fmt.Sprintf("user%d", i), Password: "secreto1"})
		if err != nil {
			return err
		}
		roles[i] = out.User.Role
		return nil
	})
	for _, err := range errs {
		require.NoError(t, err)
	}

	admins := 0
	for _, r := range roles {
		if r == entity.RoleAdmin {
			admins++
		}
	}
	assert.Equal(t, 1, admins)
}
