package repository

import (
	"context"

	"github.com/jhoicas/suministros-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get* devuelven (nil, nil) cuando el registro no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.UserWithStats, error)
	// LockAndCount impide altas concurrentes hasta el fin de la transacción y devuelve el total.
	LockAndCount(ctx context.Context) (int, error)
	// LockAdmins bloquea las filas ADMIN hasta el fin de la transacción y devuelve cuántas hay.
	LockAdmins(ctx context.Context) (int, error)
}
