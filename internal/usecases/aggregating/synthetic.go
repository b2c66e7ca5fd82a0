package aggregating

import (
	"math"
	"time"

	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/vfg2006/sales-forecast-api/pkg/random"
	"github.com/vfg2006/sales-forecast-api/pkg/utils"
)

const (
	SyntheticMonths    = 24
	syntheticBase      = 800000.0
	seasonalAmplitude  = 0.3
	annualTrendRate    = 0.05
	syntheticNoiseBand = 0.05
)

// SyntheticAnchor é o primeiro mês da série de demonstração
var SyntheticAnchor = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// GenerateSynthetic produz 24 meses consecutivos de demonstração a partir de SyntheticAnchor.
// Apenas o ruído vem da fonte aleatória; sazonalidade e tendência são fixas.
func GenerateSynthetic(src random.Source) []domain.MonthlyPoint {
	series := make([]domain.MonthlyPoint, SyntheticMonths)
	for i := range series {
		monthStart := SyntheticAnchor.AddDate(0, i, 0)
		noise := src.Float64()*2*syntheticNoiseBand - syntheticNoiseBand

		sales := syntheticBase *
			SeasonalFactor(monthStart.Month()) *
			TrendFactor(i) *
			(1 + noise)

		series[i] = domain.MonthlyPoint{
			MonthStart: monthStart,
			Sales:      utils.RoundToUnit(sales),
		}
	}

	return series
}

// SeasonalFactor é uma senoide de um ciclo por ano: pico em dezembro (1.3), vale em junho (0.7)
func SeasonalFactor(month time.Month) float64 {
	offset := float64(int(month) - int(time.December))
	return 1 + seasonalAmplitude*math.Cos(offset*math.Pi/6)
}

// TrendFactor cresce linearmente à taxa anual fixa
func TrendFactor(monthIndex int) float64 {
	return 1 + annualTrendRate*float64(monthIndex)/12
}
