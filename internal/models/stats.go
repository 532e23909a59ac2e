package models

// Stats is the global snapshot returned by GET /api/stats.
type Stats struct {
	TotalLinks          int    `json:"totalLinks"`
	TotalUsers          int    `json:"totalUsers"`
	TotalLinksDispensed int    `json:"totalLinksDispensed"`
	ActiveUsers         int    `json:"activeUsers"`
	AverageLinksPerUser string `json:"averageLinksPerUser"`
}
