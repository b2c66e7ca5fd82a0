package forecasting

import (
	"fmt"

	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/vfg2006/sales-forecast-api/pkg/utils"
)

// BuildComparison alinha as previsões pelo índice do horizonte, com valores arredondados
// para a unidade. Todas as estratégias precisam ter o mesmo número de pontos; do contrário
// é erro de programação e a função entra em pânico.
func BuildComparison(order []string, byStrategy map[string][]domain.ForecastPoint) []domain.ComparisonRow {
	if len(order) == 0 {
		return []domain.ComparisonRow{}
	}

	reference, ok := byStrategy[order[0]]
	if !ok {
		panic(fmt.Sprintf("forecasting: estratégia %q sem previsões", order[0]))
	}
	for _, id := range order {
		points, ok := byStrategy[id]
		if !ok || len(points) != len(reference) {
			panic(fmt.Sprintf("forecasting: estratégia %q com %d pontos, esperado %d", id, len(points), len(reference)))
		}
	}

	rows := make([]domain.ComparisonRow, len(reference))
	for i := range reference {
		row := domain.ComparisonRow{
			Month:  reference[i].Date.Format(domain.MonthLabelLayout),
			Values: make(map[string]float64, len(order)),
		}
		for _, id := range order {
			row.Values[id] = utils.RoundToUnit(byStrategy[id][i].Sales)
		}
		rows[i] = row
	}

	return rows
}
