package entity

import "time"

// AuditLog registro inmutable de una acción. Solo se inserta.
type AuditLog struct {
	ID        string
	UserID    string
	Action    string
	CreatedAt time.Time

	Username string // join para mostrar
}
