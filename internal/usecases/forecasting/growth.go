package forecasting

import (
	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/vfg2006/sales-forecast-api/pkg/utils"
)

// ForecastGrowth compara o último ponto previsto com a base escolhida, em percentual
// com uma casa decimal.
//
//   - last_point: o último ponto histórico
//   - same_month: o mês do ano de referência usado para o último ponto previsto
func ForecastGrowth(history []domain.MonthlyPoint, forecast []domain.ForecastPoint, baseline string) (float64, error) {
	if len(forecast) == 0 {
		return 0, ErrInvalidHorizon
	}
	if len(history) == 0 {
		return 0, &InsufficientHistoryError{Have: 0, Need: 1}
	}

	var base float64
	switch baseline {
	case domain.BaselineLastPoint, "":
		base = history[len(history)-1].Sales
	case domain.BaselineSameMonth:
		if len(history) < TrailingMonths {
			return 0, &InsufficientHistoryError{Have: len(history), Need: TrailingMonths}
		}
		trailingYear := history[len(history)-TrailingMonths:]
		base = trailingYear[(len(forecast)-1)%TrailingMonths].Sales
	default:
		return 0, ErrUnknownBaseline
	}

	growth, ok := utils.PercentChange(base, forecast[len(forecast)-1].Sales)
	if !ok {
		return 0, nil
	}

	return utils.Round(growth, 1), nil
}
