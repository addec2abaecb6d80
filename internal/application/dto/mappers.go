package dto

import "github.com/jhoicas/suministros-api/internal/domain/entity"

// FromUser convierte la entidad en respuesta (sin hash).
func FromUser(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// FromSupply convierte la entidad en respuesta, marcando el stock bajo.
func FromSupply(s *entity.Supply) SupplyResponse {
	return SupplyResponse{
		ID:               s.ID,
		Name:             s.Name,
		Description:      s.Description,
		Quantity:         s.Quantity,
		MinimumThreshold: s.MinimumThreshold,
		LowStock:         s.IsLowStock(),
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// FromRequest convierte la entidad en respuesta con los datos desnormalizados.
func FromRequest(r *entity.Request) RequestResponse {
	return RequestResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		Username:    r.Username,
		SupplyID:    r.SupplyID,
		SupplyName:  r.SupplyName,
		Quantity:    r.Quantity,
		Status:      string(r.Status),
		ProcessedBy: r.ProcessedBy,
		ProcessedAt: r.ProcessedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// FromRequests convierte una lista; nunca devuelve nil.
func FromRequests(list []*entity.Request) []RequestResponse {
	out := make([]RequestResponse, 0, len(list))
	for _, r := range list {
		out = append(out, FromRequest(r))
	}
	return out
}

// FromSetting convierte un SystemSetting.
func FromSetting(s *entity.SystemSetting) SettingResponse {
	return SettingResponse{
		ID:          s.ID,
		Key:         s.Key,
		Value:       s.Value,
		Description: s.Description,
		UpdatedAt:   s.UpdatedAt,
	}
}
