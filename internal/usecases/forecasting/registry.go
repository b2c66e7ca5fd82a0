package forecasting

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"gopkg.in/yaml.v3"
)

type registryEntry struct {
	strategy Strategy
	metrics  domain.StrategyMetrics
}

// Registry mantém as estratégias na ordem de registro
type Registry struct {
	entries []registryEntry
	index   map[string]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adiciona uma estratégia com suas métricas estáticas
func (r *Registry) Register(strategy Strategy, metrics domain.StrategyMetrics) error {
	id := strategy.ID()
	if id == "" {
		return fmt.Errorf("%w: id vazio", ErrInvalidStrategy)
	}
	if _, exists := r.index[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateStrategy, id)
	}

	r.index[id] = len(r.entries)
	r.entries = append(r.entries, registryEntry{strategy: strategy, metrics: metrics})
	return nil
}

func (r *Registry) Lookup(id string) (Strategy, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.entries[i].strategy, true
}

func (r *Registry) Metrics(id string) (domain.StrategyMetrics, bool) {
	i, ok := r.index[id]
	if !ok {
		return domain.StrategyMetrics{}, false
	}
	return r.entries[i].metrics, true
}

// IDs retorna os identificadores na ordem de registro
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.entries))
	for i, entry := range r.entries {
		ids[i] = entry.strategy.ID()
	}
	return ids
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Describe lista as estratégias para exposição na API
func (r *Registry) Describe() []domain.StrategyInfo {
	infos := make([]domain.StrategyInfo, 0, len(r.entries))
	for _, entry := range r.entries {
		info := domain.StrategyInfo{
			ID:      entry.strategy.ID(),
			Label:   entry.strategy.Label(),
			Metrics: entry.metrics,
		}
		if bs, ok := entry.strategy.(BiasSpread); ok {
			info.Bias = bs.Bias
			info.Spread = bs.Spread
		}
		infos = append(infos, info)
	}
	return infos
}

// DefaultRegistry registra as três estratégias de referência
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	defaults := []struct {
		strategy BiasSpread
		metrics  domain.StrategyMetrics
	}{
		{BiasSpread{Name: "linear", DisplayName: "Linear Regression", Bias: 0.05, Spread: 0.02}, domain.StrategyMetrics{MSE: 2504, MAE: 42.3, R2: 0.87}},
		{BiasSpread{Name: "xgboost", DisplayName: "XGBoost", Bias: 0.08, Spread: 0.05}, domain.StrategyMetrics{MSE: 2215, MAE: 36.8, R2: 0.91}},
		{BiasSpread{Name: "lstm", DisplayName: "LSTM", Bias: 0.06, Spread: 0.015}, domain.StrategyMetrics{MSE: 2350, MAE: 39.2, R2: 0.89}},
	}

	for _, d := range defaults {
		// Os ids são fixos e distintos
		_ = registry.Register(d.strategy, d.metrics)
	}

	return registry
}

type strategyFile struct {
	Strategies []strategyDefinition `yaml:"strategies" validate:"required,min=1,dive"`
}

type strategyDefinition struct {
	BiasSpread `yaml:",inline"`
	Metrics    domain.StrategyMetrics `yaml:"metrics"`
}

// LoadRegistry lê as estratégias de um arquivo YAML. Caminho vazio usa DefaultRegistry.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return DefaultRegistry(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler arquivo de estratégias: %w", err)
	}

	return ParseRegistry(content)
}

// ParseRegistry interpreta a definição YAML de estratégias
func ParseRegistry(content []byte) (*Registry, error) {
	var file strategyFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStrategy, err)
	}

	if err := validator.New().Struct(file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStrategy, err)
	}

	registry := NewRegistry()
	for _, def := range file.Strategies {
		if err := registry.Register(def.BiasSpread, def.Metrics); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
