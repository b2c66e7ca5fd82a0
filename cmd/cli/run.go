package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vfg2006/sales-forecast-api/infrastructure/integrator/salesfeed"
	"github.com/vfg2006/sales-forecast-api/infrastructure/integrator/salesfeed/salesfeedclient"
	"github.com/vfg2006/sales-forecast-api/internal/config"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/forecasting"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/pipeline"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/ranking"
	"github.com/vfg2006/sales-forecast-api/pkg/random"
	"github.com/vfg2006/sales-forecast-api/pkg/utils"
)

var runArgs struct {
	input      string
	format     string
	horizon    int
	seed       int64
	strategies string
	logLevel   string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Executa o pipeline uma vez e imprime o snapshot em JSON",
	RunE:  run,
}

func init() {
	runCmd.Flags().StringVar(&runArgs.input, "input", "", "caminho local ou URL do arquivo de vendas (vazio = série sintética)")
	runCmd.Flags().StringVar(&runArgs.format, "format", "", "csv ou xlsx (vazio = inferir pela extensão)")
	runCmd.Flags().IntVar(&runArgs.horizon, "horizon", 0, "meses previstos (0 = FORECAST_HORIZON)")
	runCmd.Flags().Int64Var(&runArgs.seed, "seed", 0, "semente da fonte aleatória (0 = relógio)")
	runCmd.Flags().StringVar(&runArgs.strategies, "strategies", "", "arquivo YAML com o registro de estratégias")
	runCmd.Flags().StringVar(&runArgs.logLevel, "log-level", "warn", "nível de log")
}

func run(cmd *cobra.Command, argv []string) error {
	level, err := logrus.ParseLevel(runArgs.logLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}

	cfg.Source.Location = runArgs.input
	if runArgs.format != "" {
		cfg.Source.Format = runArgs.format
	}
	if runArgs.horizon != 0 {
		cfg.Forecast.Horizon = runArgs.horizon
	}
	if runArgs.seed != 0 {
		cfg.Forecast.Seed = runArgs.seed
	}
	if runArgs.strategies != "" {
		cfg.Forecast.StrategiesFile = runArgs.strategies
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	registry, err := forecasting.LoadRegistry(cfg.Forecast.StrategiesFile)
	if err != nil {
		return err
	}

	src := random.New(cfg.Forecast.Seed)

	var feed salesfeed.SalesFeedIntegrator
	if cfg.Source.Location != "" {
		feed = salesfeed.New(cfg, salesfeedclient.NewClient(cfg))
	}

	service := pipeline.NewService(
		cfg,
		feed,
		forecasting.NewEngine(registry, src),
		ranking.NewItemRankingService(cfg.Forecast.RankingPeriodMonths, cfg.Forecast.TopItemsLimit, nil),
		nil,
		nil,
		src,
	)

	snapshot, err := service.Run(cmd.Context())
	if err != nil {
		return err
	}

	out, err := utils.PrettyJson(snapshot)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
