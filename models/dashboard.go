package models

// DashboardStats are scalar KPIs for the admin view or one representative.
type DashboardStats struct {
	TotalSales            float64 `json:"totalSales"`
	TotalCommissions      float64 `json:"totalCommissions"`
	ActiveRepresentatives int     `json:"activeRepresentatives"`
	ActiveCustomers       int     `json:"activeCustomers"`
	LowStockProducts      int     `json:"lowStockProducts"`
	RecentSales           int     `json:"recentSales"`
}

// SalesChainNode is one representative in the downline report. It is derived
// on every request and never stored.
type SalesChainNode struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Role             Role              `json:"role"`
	TotalSales       float64           `json:"totalSales"`
	TotalCommissions float64           `json:"totalCommissions"`
	DownlineCount    int               `json:"downlineCount"`
	Children         []*SalesChainNode `json:"children"`
}

type Recommendation struct {
	Type        string `json:"type"` // product, pricing, sales, lead
	Title       string `json:"title"`
	Description string `json:"description"`
	Confidence  int    `json:"confidence"`
	Action      string `json:"action,omitempty"`
}
