package dto

import "time"

// CreateRequestInput cuerpo de POST /api/requests.
type CreateRequestInput struct {
	SupplyID string `json:"supplyId"`
	Quantity int    `json:"quantity"`
}

// UpdateRequestStatusInput cuerpo de PUT /api/requests.
type UpdateRequestStatusInput struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// RequestListQuery filtros de GET /api/requests. UserID solo aplica para quien puede ver todas.
type RequestListQuery struct {
	Status string `query:"status"`
	UserID string `query:"userId"`
}

// RequestResponse salida de una solicitud con datos desnormalizados.
type RequestResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Username    string     `json:"username,omitempty"`
	SupplyID    string     `json:"supplyId"`
	SupplyName  string     `json:"supplyName,omitempty"`
	Quantity    int        `json:"quantity"`
	Status      string     `json:"status"`
	ProcessedBy *string    `json:"processedBy,omitempty"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
