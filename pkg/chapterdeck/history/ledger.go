// Package history records deck generation runs in a SQLite ledger.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	leader      TEXT NOT NULL,
	month       TEXT NOT NULL DEFAULT '',
	data_dir    TEXT NOT NULL DEFAULT '',
	deck_path   TEXT NOT NULL DEFAULT '',
	figures     INTEGER NOT NULL DEFAULT 0,
	skipped     TEXT NOT NULL DEFAULT '[]',
	warnings    TEXT NOT NULL DEFAULT '[]',
	error       TEXT NOT NULL DEFAULT '',
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`

// Run is one generation attempt.
type Run struct {
	ID       string
	Leader   string
	Month    string
	DataDir  string
	DeckPath string
	Figures  int
	Skipped  []string
	Warnings []string
	// Error is the failure of the run, if any.
	Error    string
	Started  time.Time
	Finished time.Time
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// NewRun describes the outcome of a Generate call. res may be nil.
func NewRun(opts chapterdeck.Options, month string, res *chapterdeck.Result, runErr error) Run {
	r := Run{
		Leader:  opts.Leader,
		Month:   month,
		DataDir: opts.DataDir,
	}
	if res != nil {
		r.DeckPath = res.DeckPath
		r.Figures = len(res.Figures)
		r.Warnings = res.Warnings
		r.Started = res.Started
		r.Finished = res.Finished
		for _, s := range res.Skipped {
			r.Skipped = append(r.Skipped, string(s))
		}
	}
	if runErr != nil {
		r.Error = runErr.Error()
	}
	if r.Finished.IsZero() {
		r.Finished = time.Now()
	}
	if r.Started.IsZero() {
		r.Started = r.Finished
	}
	return r
}

// Ledger stores runs.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger at path.
func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record stores r, assigning it an id when it has none, and returns it.
func (l *Ledger) Record(ctx context.Context, r Run) (Run, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	skipped, err := encodeList(r.Skipped)
	if err != nil {
		return r, err
	}
	warnings, err := encodeList(r.Warnings)
	if err != nil {
		return r, err
	}
	_, err = l.db.ExecContext(ctx, `
		INSERT INTO runs (id, leader, month, data_dir, deck_path, figures, skipped, warnings, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Leader, r.Month, r.DataDir, r.DeckPath, r.Figures,
		skipped, warnings, r.Error,
		r.Started.UnixNano(), r.Finished.UnixNano(),
	)
	if err != nil {
		return r, fmt.Errorf("failed to record run: %w", err)
	}
	return r, nil
}

// Recent returns up to n runs, newest first.
func (l *Ledger) Recent(ctx context.Context, n int) ([]Run, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, leader, month, data_dir, deck_path, figures, skipped, warnings, error, started_at, finished_at
		FROM runs ORDER BY started_at DESC, id LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                 Run
			skipped, warnings string
			started, finished int64
		)
		if err := rows.Scan(&r.ID, &r.Leader, &r.Month, &r.DataDir, &r.DeckPath, &r.Figures,
			&skipped, &warnings, &r.Error, &started, &finished); err != nil {
			return nil, err
		}
		if r.Skipped, err = decodeList(skipped); err != nil {
			return nil, fmt.Errorf("run %s: %w", r.ID, err)
		}
		if r.Warnings, err = decodeList(warnings); err != nil {
			return nil, fmt.Errorf("run %s: %w", r.ID, err)
		}
		r.Started = time.Unix(0, started).UTC()
		r.Finished = time.Unix(0, finished).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// encodeList stores lines as a JSON array so entries may hold newlines.
func encodeList(lines []string) (string, error) {
	if lines == nil {
		lines = []string{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(s string) ([]string, error) {
	var lines []string
	if err := json.Unmarshal([]byte(s), &lines); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	if len(lines) == 0 {
		return nil, nil
	}
	return lines, nil
}
