package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/logsense/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS analyses (
	id           TEXT PRIMARY KEY,
	kind         TEXT NOT NULL,
	input_sha256 TEXT NOT NULL,
	source       TEXT NOT NULL DEFAULT '',
	result       TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_analyses_kind ON analyses(kind);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveAnalysis(ctx context.Context, a *model.Analysis) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, kind, input_sha256, source, result, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Kind, a.InputSHA256, a.Source, string(a.Result), a.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert analysis")
	}
	return nil
}

func (s *SQLiteStore) GetAnalysis(ctx context.Context, id string) (*model.Analysis, error) {
	var (
		a      model.Analysis
		result string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, kind, input_sha256, source, result, created_at FROM analyses WHERE id = ?`, id,
	).Scan(&a.ID, &a.Kind, &a.InputSHA256, &a.Source, &result, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Errorf("sqlite: analysis not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get analysis %s", id)
	}
	a.Result = []byte(result)
	return &a, nil
}

func (s *SQLiteStore) ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]model.Analysis, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT id, kind, input_sha256, source, result, created_at FROM analyses`
	args := []any{}
	if filter.Kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, filter.Kind)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list analyses")
	}
	defer rows.Close()

	var out []model.Analysis
	for rows.Next() {
		var (
			a      model.Analysis
			result string
		)
		if err := rows.Scan(&a.ID, &a.Kind, &a.InputSHA256, &a.Source, &result, &a.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan analysis")
		}
		a.Result = []byte(result)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate analyses")
	}
	return out, nil
}
