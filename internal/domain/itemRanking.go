package domain

// ItemRanking representa a posição de um item no ranking de vendas
type ItemRanking struct {
	Item       string  `json:"item"`
	TotalSales float64 `json:"total_sales"`
	GrowthPct  float64 `json:"growth_pct"`
}
