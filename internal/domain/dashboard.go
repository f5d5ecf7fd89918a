package domain

type DashboardStats struct {
	TotalTourism      int   `json:"total_tourism"`
	ActiveUmkm        int   `json:"active_umkm"`
	PendingUmkm       int   `json:"pending_umkm"`
	PublishedArticles int   `json:"published_articles"`
	TotalVisitors     int64 `json:"total_visitors"`
}
