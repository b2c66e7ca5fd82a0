// Package scheduler contém os serviços de agendamento para atualização dos dados
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-forecast-api/internal/config"
	"github.com/vfg2006/sales-forecast-api/internal/domain"
)

// Runner executa uma rodada do pipeline
type Runner interface {
	Run(ctx context.Context) (*domain.Snapshot, error)
}

type PipelineSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

type PipelineSyncService struct {
	scheduler           *gocron.Scheduler
	runner              Runner
	config              PipelineSyncConfig
	ctx                 context.Context
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       string
	skippedTriggers     int
}

func NewPipelineSyncService(runner Runner, cfg *config.Config) *PipelineSyncService {
	syncConfig := PipelineSyncConfig{
		CronSchedule: cfg.PipelineSync.CronSchedule, // Default: 2h da manhã todos os dias
		SyncEnabled:  cfg.PipelineSync.Enabled,      // Default: desabilitado
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
	}).Info("Configuração do agendador do pipeline de previsão carregada")

	return &PipelineSyncService{
		scheduler: gocron.NewScheduler(time.UTC),
		runner:    runner,
		config:    syncConfig,
		ctx:       context.Background(),
	}
}

func (s *PipelineSyncService) Start(ctx context.Context) error {
	s.ctx = ctx

	if !s.config.SyncEnabled {
		logrus.Info("Cron de atualização do pipeline desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de atualização do pipeline")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.RunPipeline(); err != nil {
			logrus.WithError(err).Error("Erro na atualização agendada do pipeline")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar atualização do pipeline: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron do pipeline")
		s.scheduler.Stop()
	}()

	return nil
}

// RunPipeline executa o pipeline, descartando o disparo se outro já estiver em andamento
func (s *PipelineSyncService) RunPipeline() error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.skippedTriggers++
		s.syncMutex.Unlock()
		logrus.Warn("Atualização do pipeline já está em execução, disparo descartado")
		return nil
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	logrus.Info("Iniciando atualização do pipeline")

	_, err := s.runner.Run(s.ctx)

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()
	s.lastSyncError = ""
	if err != nil {
		s.lastSyncError = err.Error()
	}
	s.syncMutex.Unlock()

	if err != nil {
		return err
	}

	logrus.Info("Atualização do pipeline concluída")
	return nil
}

// TriggerManualSync inicia manualmente uma atualização do pipeline em segundo plano
func (s *PipelineSyncService) TriggerManualSync() bool {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Atualização do pipeline já em andamento, ignorando solicitação manual")
		return false
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando atualização manual do pipeline")
	go func() {
		if err := s.RunPipeline(); err != nil {
			logrus.WithError(err).Error("Erro na atualização manual do pipeline")
		}
	}()

	return true
}

// GetStatus retorna o status atual do agendador
func (s *PipelineSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_error":        s.lastSyncError,
		"skipped_triggers":       s.skippedTriggers,
	}
}
