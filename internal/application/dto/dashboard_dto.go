package dto

// DashboardDTO respuesta de GET /api/admin/dashboard.
type DashboardDTO struct {
	Totals           DashboardTotals   `json:"totals"`
	RequestsByStatus map[string]int    `json:"requestsByStatus"`
	MonthlyOverview  []MonthlyRequests `json:"monthlyOverview"`
	LowestStock      []StockLevelDTO   `json:"lowestStock"`
}

// DashboardTotals KPIs principales.
type DashboardTotals struct {
	Supplies        int `json:"supplies"`
	LowStock        int `json:"lowStock"`
	NearLowStock    int `json:"nearLowStock"`
	PendingRequests int `json:"pendingRequests"`
	Users           int `json:"users"`
}

// MonthlyRequests solicitudes de un mes por estado.
type MonthlyRequests struct {
	Month    string `json:"month"` // "2026-01"
	Total    int    `json:"total"`
	Approved int    `json:"approved"`
	Denied   int    `json:"denied"`
	Pending  int    `json:"pending"`
}

// StockLevelDTO nivel de stock de un suministro con su estado LOW/OK.
type StockLevelDTO struct {
	SupplyID         string `json:"supplyId"`
	Name             string `json:"name"`
	Quantity         int    `json:"quantity"`
	MinimumThreshold int    `json:"minimumThreshold"`
	Status           string `json:"status"` // LOW | OK
}
