// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/sales-forecast-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-forecast-api/internal/domain"
)

//go:generate mockgen -source=snapshot.go -destination=mocks/mock_snapshot.go -package=mocks

const (
	forecastRunsTable = "forecast_runs"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *domain.Snapshot) error
	// GetLatest retorna nil, nil quando ainda não há execuções gravadas
	GetLatest(ctx context.Context) (*domain.Snapshot, error)
}

type snapshotRepository struct {
	conn postgres.Queryer
}

func NewSnapshotRepository(conn postgres.Queryer) SnapshotRepository {
	return &snapshotRepository{
		conn: conn,
	}
}

func (r *snapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	query, args, err := buildInsertSnapshot(snapshot)
	if err != nil {
		return err
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("erro ao salvar execução %s: %w", snapshot.RunID, err)
	}

	return nil
}

func (r *snapshotRepository) GetLatest(ctx context.Context) (*domain.Snapshot, error) {
	query, args, err := buildSelectLatestSnapshot()
	if err != nil {
		return nil, err
	}

	var payload []byte
	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar última execução: %w", err)
	}

	snapshot := &domain.Snapshot{}
	if err := json.Unmarshal(payload, snapshot); err != nil {
		return nil, fmt.Errorf("erro ao decodificar snapshot: %w", err)
	}

	return snapshot, nil
}

func buildInsertSnapshot(snapshot *domain.Snapshot) (string, []interface{}, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return "", nil, fmt.Errorf("erro ao codificar snapshot: %w", err)
	}

	query, args, err := squirrel.
		Insert(forecastRunsTable).
		Columns("id", "source", "horizon", "snapshot", "created_at").
		Values(snapshot.RunID, snapshot.Source, snapshot.Horizon, payload, snapshot.GeneratedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return query, args, nil
}

func buildSelectLatestSnapshot() (string, []interface{}, error) {
	query, args, err := squirrel.
		Select("snapshot").
		From(forecastRunsTable).
		OrderBy("created_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return query, args, nil
}
