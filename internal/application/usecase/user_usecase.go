package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/suministros-api/internal/application/audit"
	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/application/ports"
	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

// MinPasswordLength longitud mínima de contraseña.
const MinPasswordLength = 6

// UserUseCase administración de usuarios (solo ADMIN).
//
// Degradar o eliminar al último ADMIN devuelve ErrLastAdmin; la verificación bloquea las
// filas ADMIN dentro de la transacción para que dos operaciones concurrentes no lo eviten.
type UserUseCase struct {
	repo     repository.UserRepository
	txRunner ports.TxRunner
	now      func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, txRunner ports.TxRunner) *UserUseCase {
	return &UserUseCase{repo: repo, txRunner: txRunner, now: time.Now}
}

// List lista los usuarios ordenados por username con su número de solicitudes.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		resp := dto.FromUser(&u.User)
		count := u.RequestCount
		resp.RequestCount = &count
		out = append(out, resp)
	}
	return out, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.FromUser(user)
	return &out, nil
}

// Create crea un usuario con el rol indicado.
func (uc *UserUseCase) Create(ctx context.Context, actorID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	verr := domain.NewValidationError()
	username := strings.TrimSpace(in.Username)
	if username == "" {
		verr.Add("username", "requerido")
	}
	if len(in.Password) < MinPasswordLength {
		verr.Add("password", fmt.Sprintf("mínimo %d caracteres", MinPasswordLength))
	}
	if !entity.IsValidRole(in.Role) {
		verr.Add("role", "debe ser ADMIN o STAFF")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	user, err := NewUser(username, in.Password, in.Role, uc.now())
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}
		return repos.Audit.Create(ctx, audit.Entry(actorID, "Creó el usuario "+user.Username))
	})
	if err != nil {
		return nil, err
	}
	out := dto.FromUser(user)
	return &out, nil
}

// Update modifica username, password y/o rol. Los campos vacíos se conservan.
func (uc *UserUseCase) Update(ctx context.Context, actorID string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	verr := domain.NewValidationError()
	if strings.TrimSpace(in.ID) == "" {
		verr.Add("id", "requerido")
	}
	if in.Password != "" && len(in.Password) < MinPasswordLength {
		verr.Add("password", fmt.Sprintf("mínimo %d caracteres", MinPasswordLength))
	}
	if in.Role != "" && !entity.IsValidRole(in.Role) {
		verr.Add("role", "debe ser ADMIN o STAFF")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	if !domain.ValidID(in.ID) {
		return nil, domain.ErrNotFound
	}

	var updated *entity.User
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		user, err := repos.Users.GetByID(ctx, in.ID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrNotFound
		}
		if in.Role != "" && user.Role == entity.RoleAdmin && in.Role != entity.RoleAdmin {
			if err := ensureNotLastAdmin(ctx, repos.Users); err != nil {
				return err
			}
		}
		if name := strings.TrimSpace(in.Username); name != "" {
			user.Username = name
		}
		if in.Role != "" {
			user.Role = in.Role
		}
		if in.Password != "" {
			hash, err := hashPassword(in.Password)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}
		user.UpdatedAt = uc.now()
		if err := repos.Users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return repos.Audit.Create(ctx, audit.Entry(actorID, "Actualizó el usuario "+user.Username))
	})
	if err != nil {
		return nil, err
	}
	out := dto.FromUser(updated)
	return &out, nil
}

// Delete elimina el usuario junto con sus solicitudes y entradas de auditoría.
func (uc *UserUseCase) Delete(ctx context.Context, actorID, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError().Add("id", "requerido")
	}
	if id == actorID {
		return domain.NewValidationError().Add("id", "no puedes eliminar tu propia cuenta")
	}
	if !domain.ValidID(id) {
		return domain.ErrNotFound
	}
	return uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		user, err := repos.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrNotFound
		}
		if user.Role == entity.RoleAdmin {
			if err := ensureNotLastAdmin(ctx, repos.Users); err != nil {
				return err
			}
		}
		if err := repos.Requests.DeleteByUser(ctx, id); err != nil {
			return err
		}
		if err := repos.Audit.DeleteByUser(ctx, id); err != nil {
			return err
		}
		if err := repos.Users.Delete(ctx, id); err != nil {
			return err
		}
		return repos.Audit.Create(ctx, audit.Entry(actorID, "Eliminó el usuario "+user.Username))
	})
}

// NewUser construye un usuario con el password hasheado (bcrypt).
func NewUser(username, password, role string, now time.Time) (*entity.User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	return &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func ensureNotLastAdmin(ctx context.Context, users repository.UserRepository) error {
	admins, err := users.LockAdmins(ctx)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return domain.ErrLastAdmin
	}
	return nil
}
