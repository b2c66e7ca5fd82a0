package aggregating

import (
	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/vfg2006/sales-forecast-api/pkg/utils"
)

// MinSeasonalPoints é o mínimo de meses para calcular o perfil sazonal
const MinSeasonalPoints = 12

// Seasonality calcula a média de vendas por mês do calendário, de janeiro a dezembro,
// independentemente do ano. Com menos de 12 pontos retorna uma lista vazia.
func Seasonality(series []domain.MonthlyPoint) []domain.SeasonalPoint {
	if len(series) < MinSeasonalPoints {
		return []domain.SeasonalPoint{}
	}

	var sums [12]float64
	var counts [12]int
	for _, point := range series {
		month := int(point.MonthStart.Month()) - 1
		sums[month] += point.Sales
		counts[month]++
	}

	profile := make([]domain.SeasonalPoint, 12)
	for i, label := range domain.MonthLabels {
		profile[i] = domain.SeasonalPoint{Month: label}
		if counts[i] > 0 {
			profile[i].AverageSales = utils.RoundToUnit(sums[i] / float64(counts[i]))
		}
	}

	return profile
}
