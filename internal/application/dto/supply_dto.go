package dto

import "time"

// SupplyInput cuerpo de creación y reemplazo completo de un suministro.
// Quantity y MinimumThreshold son punteros para distinguir "ausente" de 0.
type SupplyInput struct {
	ID               string `json:"id,omitempty"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Quantity         *int   `json:"quantity"`
	MinimumThreshold *int   `json:"minimumThreshold"`
}

// SetQuantityInput cuerpo del PATCH de cantidad.
type SetQuantityInput struct {
	Quantity *int `json:"quantity"`
}

// SupplyResponse salida de un suministro.
type SupplyResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Quantity         int       `json:"quantity"`
	MinimumThreshold int       `json:"minimumThreshold"`
	LowStock         bool      `json:"lowStock"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// SupplyDetailResponse suministro con sus solicitudes más recientes.
type SupplyDetailResponse struct {
	SupplyResponse
	RecentRequests []RequestResponse `json:"recentRequests"`
}
