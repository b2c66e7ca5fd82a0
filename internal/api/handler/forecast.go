package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/forecasting"
	"github.com/vfg2006/sales-forecast-api/pkg/apiErrors"
)

// ForecastQuery são os parâmetros de /v1/forecast e /v1/forecast/comparison
type ForecastQuery struct {
	Strategy   string
	Horizon    int `validate:"gte=1,ltefield=MaxHorizon"`
	MaxHorizon int
}

type ForecastResponse struct {
	RunID          string                 `json:"run_id"`
	Strategy       string                 `json:"strategy"`
	Horizon        int                    `json:"horizon"`
	History        []domain.MonthlyPoint  `json:"history"`
	Forecast       []domain.ForecastPoint `json:"forecast"`
	Metrics        domain.StrategyMetrics `json:"metrics"`
	ForecastGrowth float64                `json:"forecast_growth"`
	Baseline       string                 `json:"baseline"`
	SalesGrowthYoY *float64               `json:"sales_growth_yoy,omitempty"`
}

type ComparisonResponse struct {
	RunID      string                            `json:"run_id"`
	Horizon    int                               `json:"horizon"`
	Strategies []string                          `json:"strategies"`
	Rows       []domain.ComparisonRow            `json:"rows"`
	Metrics    map[string]domain.StrategyMetrics `json:"metrics"`
}

// ListStrategies retorna as estratégias registradas com métricas e parâmetros
func ListStrategies(registry *forecasting.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"strategies": registry.Describe(),
		})
	}
}

// GetForecast retorna a previsão de uma estratégia truncada ao horizonte pedido
func GetForecast(reader SnapshotReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := latestSnapshot(w, reader)
		if snapshot == nil {
			return
		}

		query, ok := parseForecastQuery(w, r, snapshot)
		if !ok {
			return
		}

		if query.Strategy == "" && len(snapshot.StrategyOrder) > 0 {
			query.Strategy = snapshot.StrategyOrder[0]
		}
		points, exists := snapshot.Forecasts[query.Strategy]
		if !exists {
			apiErrors.WriteError(w, apiErrors.ErrUnknownStrategy, fmt.Sprintf("Estratégia %q não registrada", query.Strategy), map[string]any{
				"available": snapshot.StrategyOrder,
			})
			return
		}
		points = points[:min(query.Horizon, len(points))]

		growth, err := forecasting.ForecastGrowth(snapshot.MonthlySeries, points, snapshot.Summary.Baseline)
		if err != nil {
			logrus.WithError(err).Error("forecast: erro ao calcular crescimento previsto")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao calcular crescimento previsto", nil)
			return
		}

		writeJSON(w, http.StatusOK, ForecastResponse{
			RunID:          snapshot.RunID,
			Strategy:       query.Strategy,
			Horizon:        len(points),
			History:        snapshot.MonthlySeries,
			Forecast:       points,
			Metrics:        snapshot.Metrics[query.Strategy],
			ForecastGrowth: growth,
			Baseline:       snapshot.Summary.Baseline,
			SalesGrowthYoY: snapshot.Summary.SalesGrowthYoY,
		})
	}
}

// GetComparison retorna as linhas de comparação entre estratégias
func GetComparison(reader SnapshotReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := latestSnapshot(w, reader)
		if snapshot == nil {
			return
		}

		query, ok := parseForecastQuery(w, r, snapshot)
		if !ok {
			return
		}

		rows := snapshot.Comparison[:min(query.Horizon, len(snapshot.Comparison))]

		writeJSON(w, http.StatusOK, ComparisonResponse{
			RunID:      snapshot.RunID,
			Horizon:    len(rows),
			Strategies: snapshot.StrategyOrder,
			Rows:       rows,
			Metrics:    snapshot.Metrics,
		})
	}
}

func parseForecastQuery(w http.ResponseWriter, r *http.Request, snapshot *domain.Snapshot) (ForecastQuery, bool) {
	query := ForecastQuery{
		Strategy:   r.URL.Query().Get("strategy"),
		Horizon:    snapshot.Horizon,
		MaxHorizon: snapshot.Horizon,
	}

	if raw := r.URL.Query().Get("horizon"); raw != "" {
		horizon, err := strconv.Atoi(raw)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "horizon deve ser um número inteiro", nil)
			return query, false
		}
		query.Horizon = horizon
	}

	if err := validate.Struct(query); err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidHorizon, fmt.Sprintf("horizon deve estar entre 1 e %d", snapshot.Horizon), nil)
		return query, false
	}

	return query, true
}
