package forecasting

import (
	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/vfg2006/sales-forecast-api/pkg/random"
)

// Strategy é uma fórmula nomeada de previsão sobre o ano de referência.
// Novas estratégias são adicionadas ao Registry sem alterar o Engine.
type Strategy interface {
	ID() string
	Label() string
	// Predict retorna o valor previsto para o passo `step` (base zero) do horizonte
	Predict(trailingYear []domain.MonthlyPoint, step int, src random.Source) float64
}

// BiasSpread aplica um viés fixo e uma perturbação uniforme em [-Spread, +Spread]
// sobre o mês correspondente do ano de referência.
type BiasSpread struct {
	Name        string  `yaml:"id" validate:"required"`
	DisplayName string  `yaml:"label"`
	Bias        float64 `yaml:"bias"`
	Spread      float64 `yaml:"spread" validate:"gte=0"`
}

func (s BiasSpread) ID() string {
	return s.Name
}

func (s BiasSpread) Label() string {
	if s.DisplayName == "" {
		return s.Name
	}
	return s.DisplayName
}

func (s BiasSpread) Predict(trailingYear []domain.MonthlyPoint, step int, src random.Source) float64 {
	reference := trailingYear[step%len(trailingYear)].Sales
	perturbation := (2*src.Float64() - 1) * s.Spread

	return reference * (1 + s.Bias + perturbation)
}
