package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/suministros-api/internal/application/audit"
	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/application/ports"
	"github.com/jhoicas/suministros-api/internal/application/usecase"
	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
	"github.com/jhoicas/suministros-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y sesión actual.
type AuthUseCase struct {
	userRepo repository.UserRepository
	txRunner ports.TxRunner
	audit    *audit.Logger
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, txRunner ports.TxRunner, auditLog *audit.Logger, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, txRunner: txRunner, audit: auditLog, jwtCfg: jwtCfg}
}

// Register crea una cuenta STAFF; si no existe ningún usuario, la primera cuenta es ADMIN.
// Devuelve ErrDuplicate si el username ya existe.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	verr := domain.NewValidationError()
	username := strings.TrimSpace(in.Username)
	if username == "" {
		verr.Add("username", "requerido")
	}
	if len(in.Password) < usecase.MinPasswordLength {
		verr.Add("password", fmt.Sprintf("mínimo %d caracteres", usecase.MinPasswordLength))
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	var user *entity.User
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		count, err := repos.Users.LockAndCount(ctx)
		if err != nil {
			return err
		}
		role := entity.RoleStaff
		if count == 0 {
			role = entity.RoleAdmin
		}
		user, err = usecase.NewUser(username, in.Password, role, time.Now())
		if err != nil {
			return err
		}
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}
		return repos.Audit.Create(ctx, audit.Entry(user.ID, "Se registró"))
	})
	if err != nil {
		return nil, err
	}
	return uc.issue(user)
}

// Login verifica username/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	resp, err := uc.issue(user)
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, user.ID, "Inició sesión")
	return resp, nil
}

// Logout registra el cierre de sesión. La cookie la limpia el handler.
func (uc *AuthUseCase) Logout(ctx context.Context, userID string) {
	if userID != "" {
		uc.audit.Record(ctx, userID, "Cerró sesión")
	}
}

// Me devuelve el usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	if !domain.ValidID(userID) {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	out := dto.FromUser(user)
	return &out, nil
}

func (uc *AuthUseCase) issue(user *entity.User) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: dto.FromUser(user)}, nil
}
