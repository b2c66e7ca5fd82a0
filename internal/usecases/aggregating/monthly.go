// Package aggregating agrupa registros em séries mensais e deriva o perfil sazonal
package aggregating

import (
	"sort"
	"time"

	"github.com/vfg2006/sales-forecast-api/internal/domain"
)

type monthKey struct {
	year  int
	month int // zero-based
}

// AggregateMonthly soma as vendas por (ano, mês) e retorna a série em ordem crescente.
// Meses sem registros não aparecem: a série só é contínua se a entrada for.
func AggregateMonthly(records []domain.RawRecord) []domain.MonthlyPoint {
	totals := make(map[monthKey]float64)
	for _, record := range records {
		key := monthKey{year: record.Date.Year(), month: int(record.Date.Month()) - 1}
		totals[key] += record.Sales
	}

	series := make([]domain.MonthlyPoint, 0, len(totals))
	for key, sales := range totals {
		series = append(series, domain.MonthlyPoint{
			MonthStart: time.Date(key.year, time.Month(key.month+1), 1, 0, 0, 0, 0, time.UTC),
			Sales:      sales,
		})
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].MonthStart.Before(series[j].MonthStart)
	})

	return series
}

// SalesGrowthYoY compara o último mês com o mesmo mês do ano anterior (12 posições antes).
// Retorna false quando a série tem 12 pontos ou menos.
func SalesGrowthYoY(series []domain.MonthlyPoint) (float64, bool) {
	if len(series) <= 12 {
		return 0, false
	}

	last := series[len(series)-1].Sales
	previous := series[len(series)-13].Sales
	if previous == 0 {
		return 0, false
	}

	return (last/previous - 1) * 100, true
}
