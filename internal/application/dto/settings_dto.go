package dto

import "time"

// SettingUpdate elemento del arreglo de PUT /api/admin/settings.
type SettingUpdate struct {
	ID          string `json:"id"`
	Key         string `json:"key,omitempty"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// SettingResponse salida de un SystemSetting.
type SettingResponse struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
