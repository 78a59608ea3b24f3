// Package postgres журнал запусков синхронизации в PostgreSQL.
package postgres

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
	"github.com/athebyme/gomarket-stocksync/pkg/interfaces"
	"github.com/athebyme/gomarket-stocksync/pkg/tx"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var stepColumns = []string{"run_id", "target", "kind", "batch_index", "size", "duration_ms", "skipped", "error"}

// RunJournal реализация RunJournalPort
type RunJournal struct {
	pool      *pgxpool.Pool
	txManager tx.TxManager
}

// NewRunJournal подключается к PostgreSQL
func NewRunJournal(ctx context.Context, connectionString string, log interfaces.LoggerPort) (*RunJournal, error) {
	pool, err := pgxpool.New(ctx, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &RunJournal{
		pool:      pool,
		txManager: tx.NewTxManager(pool, log),
	}, nil
}

// Migrate применяет схему журнала; migrationURL в формате pgx5://
func Migrate(migrationURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, migrationURL)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Close закрывает соединение с БД
func (j *RunJournal) Close() error {
	j.pool.Close()
	return nil
}

type executor interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// getExecutor возвращает исполнителя запросов (транзакцию или пул)
func (j *RunJournal) getExecutor(ctx context.Context) executor {
	if t, ok := tx.GetTxFromContext(ctx); ok {
		return t
	}
	return j.pool
}

// SaveRun записывает запуск, итоги целей и шаги одной транзакцией
func (j *RunJournal) SaveRun(ctx context.Context, report *models.RunReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	return j.txManager.Do(ctx, func(ctx context.Context) error {
		exec := j.getExecutor(ctx)

		_, err := exec.Exec(ctx, `
			INSERT INTO stocksync.runs (run_id, started_at, finished_at, supplier_records, dry_run, success, report)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			report.RunID, report.StartedAt, report.FinishedAt, report.SupplierRecords,
			report.DryRun, report.Success(), payload)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}

		for i := range report.Targets {
			t := &report.Targets[i]
			_, err := exec.Exec(ctx, `
				INSERT INTO stocksync.targets
					(run_id, target, offer_ids, stocks, in_stock, prices, skipped_prices, duration_ms, error, error_kind)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				report.RunID, t.Target, t.OfferIDs, t.Stocks, len(t.InStock), t.Prices, t.SkippedPrices,
				t.Duration.Milliseconds(), nullString(t.Error), nullString(t.ErrorKind))
			if err != nil {
				return fmt.Errorf("failed to save target %s: %w", t.Target, err)
			}
		}

		rows := stepRows(report)
		if len(rows) == 0 {
			return nil
		}
		if _, err := exec.CopyFrom(ctx, pgx.Identifier{"stocksync", "steps"}, stepColumns, pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("failed to save steps: %w", err)
		}
		return nil
	})
}

// stepRows строки stocksync.steps в порядке stepColumns
func stepRows(report *models.RunReport) [][]interface{} {
	var rows [][]interface{}
	for _, t := range report.Targets {
		for _, s := range t.Steps {
			rows = append(rows, []interface{}{
				report.RunID, t.Target, string(s.Kind), s.Index, s.Size,
				s.Duration.Milliseconds(), s.Skipped, nullString(s.Error),
			})
		}
	}
	return rows
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
