package runs

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/de-tools/epic-report/pkg/models/store"
	"github.com/de-tools/epic-report/pkg/store/duckdb"
)

const (
	insertRunQuery = `INSERT INTO report_runs (id, project_key, file_path, epics, rows_count, plain, recipient, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	listRunsQuery = `SELECT id, project_key, file_path, epics, rows_count, plain, recipient, status, error, created_at
		FROM report_runs
		WHERE (? = '' OR project_key = ?)
		ORDER BY created_at DESC
		LIMIT ?`
)

type Store interface {
	AddRun(ctx context.Context, run *store.Run) error
	ListRuns(ctx context.Context, projectKey string, limit int) ([]*store.Run, error)
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{
		db: db,
	}, nil
}

func (s *defaultStore) AddRun(ctx context.Context, run *store.Run) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("run id is required")
	}

	_, err := duckdb.ExecutorFrom(ctx, s.db).ExecContext(ctx, insertRunQuery,
		run.ID,
		run.ProjectKey,
		run.FilePath,
		run.Epics,
		run.Rows,
		run.Plain,
		run.Recipient,
		run.Status,
		run.Error,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}
	return nil
}

func (s *defaultStore) ListRuns(ctx context.Context, projectKey string, limit int) ([]*store.Run, error) {
	logger := zerolog.Ctx(ctx)
	if limit < 1 {
		limit = 20
	}

	rows, err := duckdb.ExecutorFrom(ctx, s.db).QueryContext(ctx, listRunsQuery, projectKey, projectKey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close runs query rows")
		}
	}(rows)

	var result []*store.Run
	for rows.Next() {
		var (
			run       store.Run
			recipient sql.NullString
			runErr    sql.NullString
		)
		if err := rows.Scan(
			&run.ID,
			&run.ProjectKey,
			&run.FilePath,
			&run.Epics,
			&run.Rows,
			&run.Plain,
			&recipient,
			&run.Status,
			&runErr,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if recipient.Valid {
			run.Recipient = &recipient.String
		}
		if runErr.Valid {
			run.Error = &runErr.String
		}
		result = append(result, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}

	return result, nil
}
