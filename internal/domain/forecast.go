package domain

import "time"

// ForecastPoint é um ponto previsto por uma estratégia
type ForecastPoint struct {
	Date     time.Time `json:"date"`
	Sales    float64   `json:"sales"`
	Strategy string    `json:"strategy"`
}

// StrategyMetrics são as métricas de acurácia (estáticas) associadas a uma estratégia
type StrategyMetrics struct {
	MSE float64 `json:"mse" yaml:"mse"`
	MAE float64 `json:"mae" yaml:"mae"`
	R2  float64 `json:"r2" yaml:"r2"`
}

// StrategyInfo descreve uma estratégia registrada para o consumidor da API
type StrategyInfo struct {
	ID      string          `json:"id"`
	Label   string          `json:"label"`
	Bias    float64         `json:"bias"`
	Spread  float64         `json:"spread"`
	Metrics StrategyMetrics `json:"metrics"`
}

// ComparisonRow alinha os valores de todas as estratégias para um passo do horizonte
type ComparisonRow struct {
	Month  string             `json:"month"`
	Values map[string]float64 `json:"values"`
}

// Políticas de base de comparação para o crescimento previsto
const (
	BaselineLastPoint = "last_point"
	BaselineSameMonth = "same_month"
)
