package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-forecast-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-forecast-api/internal/config"
)

type migration struct {
	name       string
	exists     string
	statements []string
}

var migrations = []migration{
	{
		name: "create_forecast_runs",
		exists: `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.tables
				WHERE table_name = 'forecast_runs'
			)`,
		statements: []string{
			`CREATE TABLE forecast_runs (
				id         VARCHAR(21) PRIMARY KEY,
				source     VARCHAR(16) NOT NULL,
				horizon    INTEGER     NOT NULL,
				snapshot   JSONB       NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE INDEX forecast_runs_created_at_idx ON forecast_runs (created_at DESC)`,
		},
	},
}

func apply(ctx context.Context, conn *postgres.Connection, m migration) error {
	var alreadyApplied bool
	if err := conn.QueryRowContext(ctx, m.exists).Scan(&alreadyApplied); err != nil {
		return err
	}

	if alreadyApplied {
		logrus.Infof("Migração %s já aplicada", m.name)
		return nil
	}

	return conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, statement := range m.statements {
			if _, err := tx.ExecContext(ctx, statement); err != nil {
				return err
			}
		}
		return nil
	})
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.Info("Iniciando script de migração...")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("ERRO ao carregar configuração: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.Fatalf("ERRO ao conectar ao banco de dados: %v", err)
	}
	defer conn.Close()
	logrus.Info("Conexão com o banco de dados estabelecida com sucesso")

	startTime := time.Now()
	for _, m := range migrations {
		if err := apply(ctx, conn, m); err != nil {
			logrus.Fatalf("ERRO ao aplicar migração %s: %v", m.name, err)
		}
		logrus.Infof("Migração %s concluída", m.name)
	}

	logrus.Infof("Script de migração concluído em %v", time.Since(startTime))
}
