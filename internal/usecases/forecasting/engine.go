// Package forecasting gera previsões simuladas por estratégia a partir do último ano de vendas
package forecasting

import (
	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/vfg2006/sales-forecast-api/pkg/random"
)

// TrailingMonths é o tamanho do ciclo de referência usado nas previsões
const TrailingMonths = 12

// Result contém as previsões de todas as estratégias registradas
type Result struct {
	Horizon    int                               `json:"horizon"`
	Order      []string                          `json:"order"`
	ByStrategy map[string][]domain.ForecastPoint `json:"by_strategy"`
	Metrics    map[string]domain.StrategyMetrics `json:"metrics"`
}

type Engine struct {
	registry *Registry
	src      random.Source
}

func NewEngine(registry *Registry, src random.Source) *Engine {
	return &Engine{
		registry: registry,
		src:      src,
	}
}

func (e *Engine) Registry() *Registry {
	return e.registry
}

// Forecast gera `horizon` pontos por estratégia, em meses consecutivos a partir do
// mês seguinte ao último ponto histórico.
func (e *Engine) Forecast(series []domain.MonthlyPoint, horizon int) (*Result, error) {
	if horizon < 1 {
		return nil, ErrInvalidHorizon
	}
	if len(series) < TrailingMonths {
		return nil, &InsufficientHistoryError{Have: len(series), Need: TrailingMonths}
	}

	trailingYear := series[len(series)-TrailingMonths:]
	lastMonth := trailingYear[len(trailingYear)-1].MonthStart

	result := &Result{
		Horizon:    horizon,
		Order:      e.registry.IDs(),
		ByStrategy: make(map[string][]domain.ForecastPoint, e.registry.Len()),
		Metrics:    make(map[string]domain.StrategyMetrics, e.registry.Len()),
	}

	for _, entry := range e.registry.entries {
		id := entry.strategy.ID()
		points := make([]domain.ForecastPoint, horizon)
		for step := 0; step < horizon; step++ {
			points[step] = domain.ForecastPoint{
				Date:     lastMonth.AddDate(0, step+1, 0),
				Sales:    entry.strategy.Predict(trailingYear, step, e.src),
				Strategy: id,
			}
		}

		result.ByStrategy[id] = points
		result.Metrics[id] = entry.metrics
	}

	return result, nil
}

// Truncate limita as previsões aos primeiros `horizon` passos
func Truncate(byStrategy map[string][]domain.ForecastPoint, horizon int) map[string][]domain.ForecastPoint {
	truncated := make(map[string][]domain.ForecastPoint, len(byStrategy))
	for id, points := range byStrategy {
		if horizon < len(points) {
			points = points[:horizon]
		}
		truncated[id] = points
	}
	return truncated
}
