package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suministros-api/internal/application/audit"
	"github.com/jhoicas/suministros-api/internal/application/auth"
	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/testutil/memstore"
	"github.com/jhoicas/suministros-api/pkg/jwt"
	"github.com/jhoicas/suministros-api/pkg/logger"
)

const testSecret = "test-secret-key-for-unit-tests"

func newAuth(store *memstore.Store) *auth.AuthUseCase {
	return auth.NewAuthUseCase(
		store.Users(),
		store.TxRunner(),
		audit.NewLogger(store.Audit(), logger.Nop()),
		auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"},
	)
}

func TestRegister_PrimerUsuarioEsAdmin_SiguientesStaff(t *testing.T) {
	store := memstore.New()
	uc := newAuth(store)
	ctx := context.Background()

	first, err := uc.Register(ctx, dto.RegisterRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, first.User.Role)

	second, err := uc.Register(ctx, dto.RegisterRequest{Username: "ana", Password: "secreto"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStaff, second.User.Role)

	session, err := jwt.Parse(testSecret, second.Token)
	require.NoError(t, err)
	assert.Equal(t, second.User.ID, session.UserID)
	assert.Equal(t, entity.RoleStaff, session.Role)
	assert.Equal(t, "ana", session.Username)
}

func TestRegister_Duplicado(t *testing.T) {
	store := memstore.New()
	store.AddUser("ana", entity.RoleStaff)
	_, err := newAuth(store).Register(context.Background(), dto.RegisterRequest{Username: "ana", Password: "secreto"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRegister_PasswordCorto(t *testing.T) {
	_, err := newAuth(memstore.New()).Register(context.Background(), dto.RegisterRequest{Username: "ana", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	store := memstore.New()
	uc := newAuth(store)
	ctx := context.Background()
	_, err := uc.Register(ctx, dto.RegisterRequest{Username: "staff1", Password: "staff123"})
	require.NoError(t, err)

	resp, err := uc.Login(ctx, dto.LoginRequest{Username: "staff1", Password: "staff123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Contains(t, store.AuditActions(), "Inició sesión")

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "staff1", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "staff123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestMe(t *testing.T) {
	store := memstore.New()
	u := store.AddUser("ana", entity.RoleStaff)
	uc := newAuth(store)

	me, err := uc.Me(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", me.Username)

	_, err = uc.Me(context.Background(), "borrado")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
