package entity

import "fmt"

// Tipos de notificación en tiempo real.
const (
	NotificationLowInventory  = "low-inventory"
	NotificationRequestStatus = "request-status"
	NotificationSystem        = "system"
)

// NotificationScope destino de una notificación: broadcast o un usuario.
type NotificationScope string

// Broadcast alcance global (todas las conexiones).
const Broadcast NotificationScope = "broadcast"

// UserScope alcance de un usuario concreto.
func UserScope(userID string) NotificationScope {
	return NotificationScope(userID)
}

// IsBroadcast indica si el alcance es global.
func (s NotificationScope) IsBroadcast() bool {
	return s == Broadcast
}

// Room nombre de la sala del usuario ("user-{id}").
func (s NotificationScope) Room() string {
	return UserRoom(string(s))
}

// UserRoom sala a la que se suscribe cada usuario.
func UserRoom(userID string) string {
	return "user-" + userID
}

// Notification evento enviado a los clientes conectados.
type Notification struct {
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// NewLowInventoryNotification notificación de stock bajo para un suministro.
func NewLowInventoryNotification(s *Supply) Notification {
	return Notification{
		Type:    NotificationLowInventory,
		Message: fmt.Sprintf("Stock bajo: %s tiene %d unidades (mínimo %d)", s.Name, s.Quantity, s.MinimumThreshold),
		Data: map[string]any{
			"supplyId":         s.ID,
			"name":             s.Name,
			"quantity":         s.Quantity,
			"minimumThreshold": s.MinimumThreshold,
		},
	}
}

// NewRequestStatusNotification notificación al solicitante del cambio de estado.
func NewRequestStatusNotification(r *Request) Notification {
	verb := "aprobada"
	if r.Status == RequestDenied {
		verb = "rechazada"
	}
	return Notification{
		Type:    NotificationRequestStatus,
		Message: fmt.Sprintf("Tu solicitud de %d x %s fue %s", r.Quantity, r.SupplyName, verb),
		Data: map[string]any{
			"requestId": r.ID,
			"status":    string(r.Status),
		},
	}
}
