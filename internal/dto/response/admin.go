package response

type DashboardStats struct {
	TotalUsers       int64            `json:"total_users"`
	TotalReviews     int64            `json:"total_reviews"`
	ReviewsByStatus  map[string]int64 `json:"reviews_by_status"`
	TotalRedemptions int64            `json:"total_redemptions"`
	CreditsIssued    int64            `json:"credits_issued"`
	ActiveCodes      int64            `json:"active_codes"`
}

type PurgeResponse struct {
	Purged int64 `json:"purged"`
}
