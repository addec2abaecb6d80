package entity

import "time"

// Claves conocidas de SystemSetting.
const (
	SettingAllRequestsVisible = "ALLOW_ALL_REQUESTS_VISIBLE"
	SettingMaxRequestQuantity = "MAX_REQUEST_QUANTITY"
	SettingLowStockWarning    = "LOW_STOCK_THRESHOLD_WARNING"
)

// SystemSetting par clave/valor global.
type SystemSetting struct {
	ID          string
	Key         string
	Value       string
	Description string
	UpdatedAt   time.Time
}
