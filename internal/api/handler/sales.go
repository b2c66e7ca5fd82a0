package handler

import (
	"net/http"

	"github.com/vfg2006/sales-forecast-api/internal/domain"
)

type MonthlySalesResponse struct {
	RunID          string                `json:"run_id"`
	Source         string                `json:"source"`
	Series         []domain.MonthlyPoint `json:"series"`
	SalesGrowthYoY *float64              `json:"sales_growth_yoy,omitempty"`
}

type SeasonalityResponse struct {
	RunID       string                 `json:"run_id"`
	Seasonality []domain.SeasonalPoint `json:"seasonality"`
}

// GetMonthlySales retorna a série mensal da última execução
func GetMonthlySales(reader SnapshotReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := latestSnapshot(w, reader)
		if snapshot == nil {
			return
		}

		writeJSON(w, http.StatusOK, MonthlySalesResponse{
			RunID:          snapshot.RunID,
			Source:         snapshot.Source,
			Series:         snapshot.MonthlySeries,
			SalesGrowthYoY: snapshot.Summary.SalesGrowthYoY,
		})
	}
}

// GetSeasonality retorna a média por mês do calendário; lista vazia com menos de 12 meses
func GetSeasonality(reader SnapshotReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := latestSnapshot(w, reader)
		if snapshot == nil {
			return
		}

		seasonality := snapshot.Seasonality
		if seasonality == nil {
			seasonality = []domain.SeasonalPoint{}
		}

		writeJSON(w, http.StatusOK, SeasonalityResponse{
			RunID:       snapshot.RunID,
			Seasonality: seasonality,
		})
	}
}
