package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-forecast-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-forecast-api/infrastructure/integrator/salesfeed"
	"github.com/vfg2006/sales-forecast-api/infrastructure/integrator/salesfeed/salesfeedclient"
	"github.com/vfg2006/sales-forecast-api/infrastructure/repository"
	"github.com/vfg2006/sales-forecast-api/internal/api"
	"github.com/vfg2006/sales-forecast-api/internal/config"
	"github.com/vfg2006/sales-forecast-api/internal/scheduler"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/forecasting"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/pipeline"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/ranking"
	"github.com/vfg2006/sales-forecast-api/pkg/log"
	"github.com/vfg2006/sales-forecast-api/pkg/metrics"
	"github.com/vfg2006/sales-forecast-api/pkg/random"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	// APP_ENV pode ter vindo do .env; o filtro de campos é refeito com o valor carregado
	log.L = log.New(logrus.StandardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pipelineMetrics := metrics.New(registry)

	strategies, err := forecasting.LoadRegistry(cfg.Forecast.StrategiesFile)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar o registro de estratégias")
	}
	logrus.Infof("Estratégias registradas: %v", strategies.IDs())

	// Uma única fonte aleatória para o gerador sintético e o motor de previsão
	src := random.New(cfg.Forecast.Seed)
	engine := forecasting.NewEngine(strategies, src)

	rankingService := ranking.NewItemRankingService(cfg.Forecast.RankingPeriodMonths, cfg.Forecast.TopItemsLimit, pipelineMetrics)

	var feed salesfeed.SalesFeedIntegrator
	if cfg.Source.Location != "" {
		feed = salesfeed.New(cfg, salesfeedclient.NewClient(cfg))
	} else {
		logrus.Warn("SOURCE_LOCATION vazio, o pipeline usará a série sintética")
	}

	var snapshotRepo repository.SnapshotRepository
	if cfg.Database.Enabled {
		pgConn := pgconn(ctx, cfg.Database)
		defer pgConn.Close()
		snapshotRepo = repository.NewSnapshotRepository(pgConn)
	}

	pipelineService := pipeline.NewService(cfg, feed, engine, rankingService, snapshotRepo, pipelineMetrics, src)

	if err := pipelineService.Restore(ctx); err != nil {
		logrus.WithError(err).Warn("Não foi possível restaurar o último snapshot")
	}

	// A API só responde leituras depois da primeira execução
	if _, err := pipelineService.Run(ctx); err != nil {
		logrus.WithError(err).Error("Erro na execução inicial do pipeline")
	}

	pipelineSyncService := scheduler.NewPipelineSyncService(pipelineService, cfg)
	if err := pipelineSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador do pipeline")
	} else {
		logrus.Info("Agendador do pipeline iniciado com sucesso")
	}

	authenticator := authenticating.NewService(cfg)

	server, err := api.New(
		cfg,
		pipelineService,
		strategies,
		authenticator,
		pipelineSyncService,
		registry,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
