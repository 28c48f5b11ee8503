package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS extraction_feedback (
	user_id               TEXT PRIMARY KEY,
	accuracy              REAL NOT NULL,
	similar_docs_accuracy REAL NOT NULL,
	modification_rate     REAL NOT NULL,
	updated_at            TEXT NOT NULL DEFAULT (datetime('now'))
);`

// SQLiteProvider reads aggregate feedback stats from a local SQLite file
// maintained by the learning collaborator.
type SQLiteProvider struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (and if needed bootstraps) the feedback database with
// WAL journaling and a busy timeout.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteProvider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap history schema: %w", err)
	}
	return &SQLiteProvider{db: db, logger: logger}, nil
}

func (p *SQLiteProvider) HistoryFor(ctx context.Context, userID string) (*Stats, error) {
	var s Stats
	err := p.db.QueryRowContext(ctx,
		`SELECT accuracy, similar_docs_accuracy, modification_rate
		 FROM extraction_feedback WHERE user_id = ?`, userID).
		Scan(&s.Accuracy, &s.SimilarDocsAccuracy, &s.ModificationRate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return &s, nil
}

// Record upserts the aggregates for userID. Exposed for the learning
// collaborator's writer side and for tests.
func (p *SQLiteProvider) Record(ctx context.Context, userID string, s Stats) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO extraction_feedback (user_id, accuracy, similar_docs_accuracy, modification_rate, updated_at)
		 VALUES (?, ?, ?, ?, datetime('now'))
		 ON CONFLICT(user_id) DO UPDATE SET
			accuracy = excluded.accuracy,
			similar_docs_accuracy = excluded.similar_docs_accuracy,
			modification_rate = excluded.modification_rate,
			updated_at = excluded.updated_at`,
		userID, s.Accuracy, s.SimilarDocsAccuracy, s.ModificationRate)
	if err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	return nil
}

func (p *SQLiteProvider) Close() error {
	return p.db.Close()
}
