package forecasting

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/vfg2006/sales-forecast-api/pkg/random"
)

// fixtureSales são 24 meses fictícios a partir de janeiro de 2020
var fixtureSales = []float64{
	800000, 760000, 810000, 830000, 850000, 870000, 880000, 860000, 840000, 900000, 950000, 1040000,
	840000, 790000, 850000, 870000, 890000, 910000, 920000, 900000, 880000, 940000, 990000, 1090000,
}

func fixtureSeries(sales []float64) []domain.MonthlyPoint {
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	series := make([]domain.MonthlyPoint, len(sales))
	for i, s := range sales {
		series[i] = domain.MonthlyPoint{MonthStart: start.AddDate(0, i, 0), Sales: s}
	}
	return series
}

func TestEngine_Forecast_HistoricoInsuficiente(t *testing.T) {
	engine := NewEngine(DefaultRegistry(), random.Midpoint)

	for _, size := range []int{0, 1, 11} {
		result, err := engine.Forecast(fixtureSeries(fixtureSales[:size]), 3)

		assert.Nil(t, result)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInsufficientHistory))

		var histErr *InsufficientHistoryError
		require.True(t, errors.As(err, &histErr))
		assert.Equal(t, size, histErr.Have)
		assert.Equal(t, TrailingMonths, histErr.Need)
	}
}

func TestEngine_Forecast_HorizonteInvalido(t *testing.T) {
	engine := NewEngine(DefaultRegistry(), random.Midpoint)

	_, err := engine.Forecast(fixtureSeries(fixtureSales), 0)
	assert.ErrorIs(t, err, ErrInvalidHorizon)
}

func TestEngine_Forecast_DatasConsecutivas(t *testing.T) {
	engine := NewEngine(DefaultRegistry(), random.New(1))
	series := fixtureSeries(fixtureSales)

	for _, horizon := range []int{1, 3, 6, 12, 18} {
		result, err := engine.Forecast(series, horizon)
		require.NoError(t, err)

		assert.Equal(t, horizon, result.Horizon)
		assert.Equal(t, []string{"linear", "xgboost", "lstm"}, result.Order)
		require.Len(t, result.ByStrategy, 3)

		for id, points := range result.ByStrategy {
			require.Len(t, points, horizon, "estratégia %s", id)
			expected := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
			for _, point := range points {
				assert.Equal(t, expected, point.Date)
				assert.Equal(t, id, point.Strategy)
				expected = expected.AddDate(0, 1, 0)
			}
		}
	}
}

func TestEngine_Forecast_SemRuido(t *testing.T) {
	engine := NewEngine(DefaultRegistry(), random.Midpoint)
	series := fixtureSeries(fixtureSales)
	trailingYear := series[len(series)-TrailingMonths:]

	result, err := engine.Forecast(series, 18)
	require.NoError(t, err)

	biases := map[string]float64{"linear": 0.05, "xgboost": 0.08, "lstm": 0.06}
	for id, bias := range biases {
		for i, point := range result.ByStrategy[id] {
			assert.Equal(t, trailingYear[i%TrailingMonths].Sales*(1+bias), point.Sales, "%s passo %d", id, i)
		}
	}
}

func TestEngine_Forecast_CenarioFixture(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(BiasSpread{Name: "fixed", Bias: 0.05}, domain.StrategyMetrics{}))
	engine := NewEngine(registry, random.New(99))

	result, err := engine.Forecast(fixtureSeries(fixtureSales), 3)
	require.NoError(t, err)

	points := result.ByStrategy["fixed"]
	require.Len(t, points, 3)
	assert.InDelta(t, 882000.0, points[0].Sales, 1e-6)
	assert.InDelta(t, 829500.0, points[1].Sales, 1e-6)
	assert.InDelta(t, 892500.0, points[2].Sales, 1e-6)
}

func TestEngine_Forecast_PerturbacaoLimitada(t *testing.T) {
	engine := NewEngine(DefaultRegistry(), random.New(2024))
	series := fixtureSeries(fixtureSales)
	trailingYear := series[len(series)-TrailingMonths:]

	result, err := engine.Forecast(series, 12)
	require.NoError(t, err)

	for _, info := range engine.Registry().Describe() {
		for i, point := range result.ByStrategy[info.ID] {
			reference := trailingYear[i].Sales
			assert.GreaterOrEqual(t, point.Sales, reference*(1+info.Bias-info.Spread)-1e-6)
			assert.LessOrEqual(t, point.Sales, reference*(1+info.Bias+info.Spread)+1e-6)
		}
	}
}

func TestEngine_Forecast_Reprodutivel(t *testing.T) {
	series := fixtureSeries(fixtureSales)

	first, err := NewEngine(DefaultRegistry(), random.New(7)).Forecast(series, 6)
	require.NoError(t, err)
	second, err := NewEngine(DefaultRegistry(), random.New(7)).Forecast(series, 6)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// doubleLast é uma estratégia de teste que não usa viés/dispersão
type doubleLast struct{}

func (doubleLast) ID() string    { return "double" }
func (doubleLast) Label() string { return "Double" }
func (doubleLast) Predict(trailingYear []domain.MonthlyPoint, _ int, _ random.Source) float64 {
	return trailingYear[len(trailingYear)-1].Sales * 2
}

func TestRegistry_EstrategiaPersonalizada(t *testing.T) {
	registry := DefaultRegistry()
	require.NoError(t, registry.Register(doubleLast{}, domain.StrategyMetrics{MSE: 1}))

	result, err := NewEngine(registry, random.Midpoint).Forecast(fixtureSeries(fixtureSales), 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"linear", "xgboost", "lstm", "double"}, result.Order)
	assert.Equal(t, 2180000.0, result.ByStrategy["double"][0].Sales)
	assert.Equal(t, 1.0, result.Metrics["double"].MSE)

	rows := BuildComparison(result.Order, result.ByStrategy)
	for _, row := range rows {
		assert.Len(t, row.Values, 4)
	}
}

func TestRegistry_Duplicada(t *testing.T) {
	registry := DefaultRegistry()

	err := registry.Register(BiasSpread{Name: "linear"}, domain.StrategyMetrics{})
	assert.ErrorIs(t, err, ErrDuplicateStrategy)

	err = registry.Register(BiasSpread{}, domain.StrategyMetrics{})
	assert.ErrorIs(t, err, ErrInvalidStrategy)

	assert.Equal(t, 3, registry.Len())
}

func TestRegistry_LookupEMetricas(t *testing.T) {
	registry := DefaultRegistry()

	strategy, ok := registry.Lookup("xgboost")
	require.True(t, ok)
	assert.Equal(t, "XGBoost", strategy.Label())

	metrics, ok := registry.Metrics("lstm")
	require.True(t, ok)
	assert.Equal(t, domain.StrategyMetrics{MSE: 2350, MAE: 39.2, R2: 0.89}, metrics)

	_, ok = registry.Lookup("arima")
	assert.False(t, ok)
}

func TestLoadRegistry(t *testing.T) {
	content := `
strategies:
  - id: conservative
    label: Conservador
    bias: 0.01
    spread: 0
    metrics:
      mse: 10
      mae: 2
      r2: 0.5
  - id: aggressive
    bias: 0.2
    spread: 0.1
`
	path := filepath.Join(t.TempDir(), "strategies.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	registry, err := LoadRegistry(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"conservative", "aggressive"}, registry.IDs())
	infos := registry.Describe()
	assert.Equal(t, "Conservador", infos[0].Label)
	assert.Equal(t, domain.StrategyMetrics{MSE: 10, MAE: 2, R2: 0.5}, infos[0].Metrics)
	assert.Equal(t, "aggressive", infos[1].Label)
	assert.Equal(t, 0.1, infos[1].Spread)
}

func TestLoadRegistry_Invalido(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     error
	}{
		{name: "Lista vazia", content: "strategies: []", err: ErrInvalidStrategy},
		{name: "Sem id", content: "strategies:\n  - bias: 0.1\n", err: ErrInvalidStrategy},
		{name: "Dispersão negativa", content: "strategies:\n  - id: x\n    spread: -0.1\n", err: ErrInvalidStrategy},
		{name: "Duplicada", content: "strategies:\n  - id: x\n  - id: x\n", err: ErrDuplicateStrategy},
		{name: "YAML inválido", content: "strategies: [", err: ErrInvalidStrategy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRegistry([]byte(tt.content))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	registry, err := LoadRegistry("")
	require.NoError(t, err)
	assert.Equal(t, 3, registry.Len())

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "ausente.yaml"))
	assert.Error(t, err)
}

func TestBuildComparison(t *testing.T) {
	result, err := NewEngine(DefaultRegistry(), random.Midpoint).Forecast(fixtureSeries(fixtureSales), 6)
	require.NoError(t, err)

	rows := BuildComparison(result.Order, result.ByStrategy)

	require.Len(t, rows, 6)
	assert.Equal(t, "Jan 2022", rows[0].Month)
	assert.Equal(t, "Jun 2022", rows[5].Month)
	for _, row := range rows {
		for _, id := range result.Order {
			_, ok := row.Values[id]
			assert.True(t, ok, "%s ausente em %s", id, row.Month)
		}
	}
	assert.Equal(t, 882000.0, rows[0].Values["linear"])  // 840000 × 1.05
	assert.Equal(t, 907200.0, rows[0].Values["xgboost"]) // 840000 × 1.08
	assert.Equal(t, 837400.0, rows[1].Values["lstm"])    // 790000 × 1.06
}

func TestBuildComparison_Arredondamento(t *testing.T) {
	date := time.Date(2022, time.March, 1, 0, 0, 0, 0, time.UTC)
	rows := BuildComparison([]string{"a"}, map[string][]domain.ForecastPoint{
		"a": {{Date: date, Sales: 10.5, Strategy: "a"}},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "Mar 2022", rows[0].Month)
	assert.Equal(t, 11.0, rows[0].Values["a"])
}

func TestBuildComparison_TamanhosDiferentes(t *testing.T) {
	date := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	byStrategy := map[string][]domain.ForecastPoint{
		"a": {{Date: date}, {Date: date.AddDate(0, 1, 0)}},
		"b": {{Date: date}},
	}

	assert.Panics(t, func() {
		BuildComparison([]string{"a", "b"}, byStrategy)
	})
	assert.Panics(t, func() {
		BuildComparison([]string{"a", "c"}, byStrategy)
	})
	assert.Empty(t, BuildComparison(nil, byStrategy))
}

func TestTruncate(t *testing.T) {
	result, err := NewEngine(DefaultRegistry(), random.Midpoint).Forecast(fixtureSeries(fixtureSales), 12)
	require.NoError(t, err)

	truncated := Truncate(result.ByStrategy, 3)
	for _, id := range result.Order {
		assert.Len(t, truncated[id], 3)
		assert.Len(t, result.ByStrategy[id], 12)
	}

	assert.Len(t, Truncate(result.ByStrategy, 20)["linear"], 12)
}

func TestForecastGrowth(t *testing.T) {
	series := fixtureSeries(fixtureSales)
	forecast := []domain.ForecastPoint{
		{Sales: 900000},
		{Sales: 1199000},
	}

	tests := []struct {
		name     string
		baseline string
		expected float64
	}{
		// 1199000 / 1090000 - 1
		{name: "Último ponto histórico", baseline: domain.BaselineLastPoint, expected: 10.0},
		{name: "Base padrão é o último ponto", baseline: "", expected: 10.0},
		// Passo 1 usa o índice 1 do ano de referência (790000)
		{name: "Mesmo mês do ano de referência", baseline: domain.BaselineSameMonth, expected: 51.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			growth, err := ForecastGrowth(series, forecast, tt.baseline)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, growth)
		})
	}

	_, err := ForecastGrowth(series, forecast, "median")
	assert.ErrorIs(t, err, ErrUnknownBaseline)

	_, err = ForecastGrowth(series, nil, domain.BaselineLastPoint)
	assert.ErrorIs(t, err, ErrInvalidHorizon)

	_, err = ForecastGrowth(series[:5], forecast, domain.BaselineSameMonth)
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}
