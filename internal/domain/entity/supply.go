package entity

import "time"

// Supply artículo de inventario. Quantity y MinimumThreshold nunca son negativos.
type Supply struct {
	ID               string
	Name             string // único
	Description      string
	Quantity         int
	MinimumThreshold int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsLowStock condición de stock bajo: quantity <= minimumThreshold.
func (s *Supply) IsLowStock() bool {
	return s.Quantity <= s.MinimumThreshold
}

// IsNearLowStock indica si el stock está dentro del margen de advertencia sobre el mínimo.
func (s *Supply) IsNearLowStock(margin int) bool {
	return !s.IsLowStock() && s.Quantity <= s.MinimumThreshold+margin
}
