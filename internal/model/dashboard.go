package model

import "time"

// ActivityItem is a uniform record of the merged recent-activity feed,
// mapping both materials and companies onto one shape.
type ActivityItem struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // "material" or "company"
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// DashboardStats is derived in full from the latest fetched company and
// material collections. It is never mutated independently of a fetch.
type DashboardStats struct {
	TotalCompanies  int            `json:"total_companies"`
	ActiveCompanies int            `json:"active_companies"`
	NewCompanies    int            `json:"new_companies"` // created within the trailing 7 days
	MyCompanies     int            `json:"my_companies"`
	TotalMaterials  int            `json:"total_materials"`
	MaterialsByType map[string]int `json:"materials_by_type"`
	TotalBytes      int64          `json:"total_bytes"`
	TotalSize       string         `json:"total_size"` // human readable, base-1024
	RecentActivity  []ActivityItem `json:"recent_activity"`
}
