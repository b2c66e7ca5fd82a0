package domain

import "time"

// Origens possíveis dos dados de uma execução do pipeline
const (
	SourceFeed      = "feed"
	SourceSynthetic = "synthetic"
)

// Snapshot reúne todas as saídas de uma execução do pipeline.
// Uma nova execução substitui o snapshot inteiro, nunca parte dele.
type Snapshot struct {
	RunID         string                     `json:"run_id"`
	Source        string                     `json:"source"`
	GeneratedAt   time.Time                  `json:"generated_at"`
	Horizon       int                        `json:"horizon"`
	MonthlySeries []MonthlyPoint             `json:"monthly_series"`
	Seasonality   []SeasonalPoint            `json:"seasonality"`
	StrategyOrder []string                   `json:"strategy_order"`
	Forecasts     map[string][]ForecastPoint `json:"forecasts"`
	Metrics       map[string]StrategyMetrics `json:"metrics"`
	Comparison    []ComparisonRow            `json:"comparison"`
	TopItems      []ItemRanking              `json:"top_items"`
	Summary       Summary                    `json:"summary"`
}

// Summary contém os indicadores de crescimento derivados da série
type Summary struct {
	SalesGrowthYoY *float64           `json:"sales_growth_yoy,omitempty"` // nil quando há 12 meses ou menos
	ForecastGrowth map[string]float64 `json:"forecast_growth"`
	Baseline       string             `json:"baseline"`
}
