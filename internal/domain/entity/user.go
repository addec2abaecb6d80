package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// IsValidRole indica si el rol es uno de los soportados.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}

// User representa un usuario del sistema. Es dueño de sus Requests y AuditLogs.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // ADMIN, STAFF
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserWithStats usuario con el número de solicitudes realizadas (listado de administración).
type UserWithStats struct {
	User
	RequestCount int
}
