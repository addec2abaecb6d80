package dto

import "time"

// AuditLogResponse entrada del registro de auditoría.
type AuditLogResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuditLogPage página del registro de auditoría.
type AuditLogPage struct {
	Items []AuditLogResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
