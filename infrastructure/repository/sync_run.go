package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/appsflyer-master-sync/infrastructure/database/postgres"
	"github.com/vfg2006/appsflyer-master-sync/internal/domain"
)

const (
	syncRunsTable = "sync_runs sr"

	DefaultSyncRunLimit = 20
	MaxSyncRunLimit     = 200
)

type SyncRunRepository interface {
	Save(ctx context.Context, run *domain.SyncRun) error
	List(ctx context.Context, limit int) ([]*domain.SyncRun, error)
}

type syncRunRepository struct {
	conn postgres.Queryer
}

func NewSyncRunRepository(conn postgres.Queryer) SyncRunRepository {
	return &syncRunRepository{
		conn: conn,
	}
}

// Save insere a execução ou atualiza seu estado final
func (r *syncRunRepository) Save(ctx context.Context, run *domain.SyncRun) error {
	query, args, err := buildSaveSyncRunQuery(run)
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

// List retorna as execuções mais recentes primeiro
func (r *syncRunRepository) List(ctx context.Context, limit int) ([]*domain.SyncRun, error) {
	query, args, err := buildListSyncRunsQuery(limit)
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	runs := make([]*domain.SyncRun, 0)
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear execução: %w", err)
		}
		runs = append(runs, run)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return runs, nil
}

func buildSaveSyncRunQuery(run *domain.SyncRun) (string, []interface{}, error) {
	var completedAt interface{}
	if run.CompletedAt != nil {
		completedAt = *run.CompletedAt
	}

	var runError interface{}
	if run.Error != "" {
		runError = run.Error
	}

	return squirrel.StatementBuilder.
		Insert("sync_runs").
		Columns("id", "app_id", "from_date", "to_date", "windows", "records", "status", "error", "started_at", "completed_at").
		Values(
			run.ID,
			run.AppID,
			run.From.Format("2006-01-02"),
			run.To.Format("2006-01-02"),
			run.Windows,
			run.Records,
			string(run.Status),
			runError,
			run.StartedAt,
			completedAt,
		).
		Suffix(`
			ON CONFLICT (id) DO UPDATE SET
				windows = EXCLUDED.windows,
				records = EXCLUDED.records,
				status = EXCLUDED.status,
				error = EXCLUDED.error,
				completed_at = EXCLUDED.completed_at
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func buildListSyncRunsQuery(limit int) (string, []interface{}, error) {
	if limit <= 0 {
		limit = DefaultSyncRunLimit
	}
	if limit > MaxSyncRunLimit {
		limit = MaxSyncRunLimit
	}

	return squirrel.
		Select("sr.id, sr.app_id, sr.from_date, sr.to_date, sr.windows, sr.records, sr.status, sr.error, sr.started_at, sr.completed_at").
		From(syncRunsTable).
		OrderBy("sr.started_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func scanSyncRun(rows *sql.Rows) (*domain.SyncRun, error) {
	run := &domain.SyncRun{}
	var status string
	var runError sql.NullString
	var completedAt sql.NullTime

	err := rows.Scan(
		&run.ID,
		&run.AppID,
		&run.From,
		&run.To,
		&run.Windows,
		&run.Records,
		&status,
		&runError,
		&run.StartedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	run.Status = domain.SyncRunStatus(status)
	run.Error = runError.String
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}

	return run, nil
}
