// Package pipeline orquestra uma execução completa: fonte, parser, agregação,
// sazonalidade, previsões, comparação e ranking.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vfg2006/sales-forecast-api/infrastructure/integrator/salesfeed"
	"github.com/vfg2006/sales-forecast-api/infrastructure/integrator/salesfeed/salesfeedclient"
	"github.com/vfg2006/sales-forecast-api/infrastructure/repository"
	"github.com/vfg2006/sales-forecast-api/internal/config"
	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/forecasting"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/parsing"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/ranking"
	"github.com/vfg2006/sales-forecast-api/pkg/log"
	"github.com/vfg2006/sales-forecast-api/pkg/metrics"
	"github.com/vfg2006/sales-forecast-api/pkg/random"
	"github.com/vfg2006/sales-forecast-api/pkg/utils"
	"golang.org/x/sync/singleflight"
)

const runKey = "pipeline"

type Pipeliner interface {
	Run(ctx context.Context) (*domain.Snapshot, error)
	Latest() *domain.Snapshot
	Status() Status
}

// Status descreve a última execução conhecida
type Status struct {
	Running       bool      `json:"running"`
	LastRunID     string    `json:"last_run_id,omitempty"`
	LastSource    string    `json:"last_source,omitempty"`
	LastStartedAt time.Time `json:"last_started_at,omitempty"`
	LastFinishAt  time.Time `json:"last_finished_at,omitempty"`
	LastError     string    `json:"last_error,omitempty"`
}

type Service struct {
	cfg        *config.Config
	feed       salesfeed.SalesFeedIntegrator
	engine     *forecasting.Engine
	ranker     ranking.RankingService
	repository repository.SnapshotRepository
	metrics    *metrics.Metrics
	src        random.Source
	now        func() time.Time

	group   singleflight.Group
	latest  atomic.Pointer[domain.Snapshot]
	running atomic.Bool

	statusMutex sync.RWMutex
	status      Status
}

// NewService monta o pipeline. feed e repo podem ser nil: sem fonte o pipeline usa
// a série sintética e sem repositório os snapshots ficam só em memória.
func NewService(
	cfg *config.Config,
	feed salesfeed.SalesFeedIntegrator,
	engine *forecasting.Engine,
	ranker ranking.RankingService,
	repo repository.SnapshotRepository,
	m *metrics.Metrics,
	src random.Source,
) *Service {
	return &Service{
		cfg:        cfg,
		feed:       feed,
		engine:     engine,
		ranker:     ranker,
		repository: repo,
		metrics:    m,
		src:        src,
		now:        time.Now,
	}
}

// Restore carrega o último snapshot gravado, se houver repositório configurado
func (s *Service) Restore(ctx context.Context) error {
	if s.repository == nil {
		return nil
	}

	snapshot, err := s.repository.GetLatest(ctx)
	if err != nil {
		return err
	}
	if snapshot == nil {
		return nil
	}

	s.latest.Store(snapshot)
	s.setStatus(func(st *Status) {
		st.LastRunID = snapshot.RunID
		st.LastSource = snapshot.Source
		st.LastFinishAt = snapshot.GeneratedAt
	})
	log.L.WithField(log.RunIDField, snapshot.RunID).Info("Snapshot anterior restaurado do banco de dados")

	return nil
}

// Latest retorna o snapshot publicado mais recente, ou nil antes da primeira execução
func (s *Service) Latest() *domain.Snapshot {
	return s.latest.Load()
}

func (s *Service) Status() Status {
	s.statusMutex.RLock()
	defer s.statusMutex.RUnlock()

	status := s.status
	status.Running = s.running.Load()
	return status
}

// IsRunning indica se há uma execução em andamento
func (s *Service) IsRunning() bool {
	return s.running.Load()
}

// Run executa o pipeline. Chamadas concorrentes compartilham a execução em andamento.
func (s *Service) Run(ctx context.Context) (*domain.Snapshot, error) {
	result, err, _ := s.group.Do(runKey, func() (interface{}, error) {
		return s.run(ctx)
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.Snapshot), nil
}

func (s *Service) run(ctx context.Context) (*domain.Snapshot, error) {
	s.running.Store(true)
	defer s.running.Store(false)

	runID, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar id da execução: %w", err)
	}
	ctx, logger := log.StartRun(ctx, runID)

	startedAt := s.now()
	s.setStatus(func(st *Status) {
		st.LastRunID = runID
		st.LastStartedAt = startedAt
		st.LastError = ""
	})

	logger.Info("Iniciando execução do pipeline")

	snapshot, err := s.build(ctx, runID)
	finishedAt := s.now()
	if err != nil {
		logger.WithError(err).Error("Execução do pipeline falhou")
		s.metrics.ObserveRun(sourceOf(snapshot), metrics.StatusFailed, finishedAt.Sub(startedAt))
		s.setStatus(func(st *Status) {
			st.LastFinishAt = finishedAt
			st.LastError = err.Error()
		})
		return nil, err
	}

	s.latest.Store(snapshot)
	s.metrics.ObserveRun(snapshot.Source, metrics.StatusSuccess, finishedAt.Sub(startedAt))
	s.setStatus(func(st *Status) {
		st.LastSource = snapshot.Source
		st.LastFinishAt = finishedAt
	})

	if s.repository != nil {
		if err := s.repository.Save(ctx, snapshot); err != nil {
			logger.WithError(err).Error("Erro ao gravar snapshot, mantido apenas em memória")
		}
	}

	logger.WithFields(log.Fields{
		"source":              snapshot.Source,
		"pipeline_months":     len(snapshot.MonthlySeries),
		"pipeline_horizon":    snapshot.Horizon,
		"pipeline_strategies": len(snapshot.StrategyOrder),
	}).Infof("Execução do pipeline concluída em %v", finishedAt.Sub(startedAt))

	return snapshot, nil
}

// build monta o snapshot. Em caso de erro o snapshot parcial só carrega a origem dos dados.
func (s *Service) build(ctx context.Context, runID string) (*domain.Snapshot, error) {
	records, source, err := s.load(ctx)
	partial := &domain.Snapshot{RunID: runID, Source: source}
	if err != nil {
		return partial, err
	}

	var series []domain.MonthlyPoint
	if source == domain.SourceSynthetic {
		series = aggregating.GenerateSynthetic(s.src)
	} else {
		series = aggregating.AggregateMonthly(records)
	}

	// A previsão exige o mesmo ano de referência da sazonalidade; série curta encerra a execução aqui
	forecast, err := s.engine.Forecast(series, s.cfg.Forecast.Horizon)
	if err != nil {
		return partial, err
	}
	seasonality := aggregating.Seasonality(series)

	summary, err := s.summarize(series, forecast)
	if err != nil {
		return partial, err
	}

	return &domain.Snapshot{
		RunID:         runID,
		Source:        source,
		GeneratedAt:   s.now().UTC(),
		Horizon:       forecast.Horizon,
		MonthlySeries: series,
		Seasonality:   seasonality,
		StrategyOrder: forecast.Order,
		Forecasts:     forecast.ByStrategy,
		Metrics:       forecast.Metrics,
		Comparison:    forecasting.BuildComparison(forecast.Order, forecast.ByStrategy),
		TopItems:      s.ranker.RankItems(records),
		Summary:       summary,
	}, nil
}

// load obtém os registros da fonte. Falhas da fonte e entradas sem linhas úteis
// resultam na série sintética; erros de parsing abortam a execução.
func (s *Service) load(ctx context.Context) ([]domain.RawRecord, string, error) {
	logger := log.ForContext(ctx)

	if s.feed == nil {
		s.fallback(ctx, metrics.ReasonSourceUnavailable, "Fonte de vendas não configurada")
		return nil, domain.SourceSynthetic, nil
	}

	file, err := s.feed.Fetch(ctx)
	if err != nil {
		reason := metrics.ReasonSourceUnavailable
		if errors.Is(err, salesfeedclient.ErrEmptySource) {
			reason = metrics.ReasonSourceEmpty
		}
		logger.WithError(err).Warn("Erro ao obter arquivo de vendas")
		s.fallback(ctx, reason, "Fonte de vendas indisponível")
		return nil, domain.SourceSynthetic, nil
	}

	records, err := parsing.ParseFile(file, s.delimiter())
	if err != nil {
		return nil, domain.SourceFeed, err
	}

	if len(records) == 0 {
		s.fallback(ctx, metrics.ReasonNoUsableRows, "Arquivo de vendas sem linhas válidas")
		return nil, domain.SourceSynthetic, nil
	}

	logger.WithField("source", file.Name).Infof("%d registros carregados", len(records))

	return records, domain.SourceFeed, nil
}

func (s *Service) summarize(series []domain.MonthlyPoint, forecast *forecasting.Result) (domain.Summary, error) {
	summary := domain.Summary{
		ForecastGrowth: make(map[string]float64, len(forecast.Order)),
		Baseline:       s.cfg.Forecast.Baseline,
	}
	if summary.Baseline == "" {
		summary.Baseline = domain.BaselineLastPoint
	}

	if yoy, ok := aggregating.SalesGrowthYoY(series); ok {
		rounded := utils.Round(yoy, 1)
		summary.SalesGrowthYoY = &rounded
	}

	for _, id := range forecast.Order {
		growth, err := forecasting.ForecastGrowth(series, forecast.ByStrategy[id], summary.Baseline)
		if err != nil {
			return summary, err
		}
		summary.ForecastGrowth[id] = growth
	}

	return summary, nil
}

func (s *Service) fallback(ctx context.Context, reason, message string) {
	log.ForContext(ctx).WithField("reason", reason).Warn(message + ", usando série sintética")
	s.metrics.Fallback(reason)
}

func (s *Service) delimiter() rune {
	if s.cfg.Source.Delimiter == "" {
		return ','
	}
	return []rune(s.cfg.Source.Delimiter)[0]
}

func (s *Service) setStatus(update func(*Status)) {
	s.statusMutex.Lock()
	defer s.statusMutex.Unlock()
	update(&s.status)
}

func sourceOf(snapshot *domain.Snapshot) string {
	if snapshot == nil || snapshot.Source == "" {
		return "unknown"
	}
	return snapshot.Source
}
