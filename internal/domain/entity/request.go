package entity

import "time"

// RequestStatus estado de una solicitud de suministros.
type RequestStatus string

// Estados de Request. Solo se transita de PENDING a un estado terminal.
const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestDenied   RequestStatus = "DENIED"
)

// IsValid indica si el estado es conocido.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestDenied:
		return true
	}
	return false
}

// IsTerminal indica si el estado es APPROVED o DENIED.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestApproved || s == RequestDenied
}

// CanTransition valida la máquina de estados PENDING -> {APPROVED, DENIED}.
func (s RequestStatus) CanTransition(to RequestStatus) bool {
	return s == RequestPending && to.IsTerminal()
}

// Request solicitud de un User sobre un Supply.
type Request struct {
	ID          string
	UserID      string
	SupplyID    string
	Quantity    int
	Status      RequestStatus
	ProcessedBy *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Datos desnormalizados para mostrar (joins).
	SupplyName     string
	SupplyQuantity int
	Username       string
}
