// Package journal keeps an append-only record of pipeline step outcomes in
// SQLite. The journal is audit support, not pipeline state: every artifact
// remains authoritative on disk, and a missing journal never blocks a run.
package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	slug          TEXT NOT NULL,
	step          TEXT NOT NULL,
	artifact_path TEXT NOT NULL DEFAULT '',
	sha256        TEXT NOT NULL DEFAULT '',
	outcome       TEXT NOT NULL,
	detail        TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_slug ON runs(slug, id);
`

// Outcomes recorded per step.
const (
	OutcomeChanged   = "changed"
	OutcomeUnchanged = "unchanged"
	OutcomeFailed    = "failed"
)

// Entry is one journal record.
type Entry struct {
	ID           int64
	Slug         string
	Step         string
	ArtifactPath string
	SHA256       string
	Outcome      string
	Detail       string
	CreatedAt    string
}

// Journal is a SQLite-backed run journal.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal database at path and runs migrations.
// The parent directory is created if it does not exist.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) migrate() error {
	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("create journal schema: %w", err)
	}
	var v int
	err := j.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := j.db.Exec("INSERT INTO schema_version(version) VALUES(?)", schemaVersion); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v != schemaVersion {
		return fmt.Errorf("unknown journal schema version %d", v)
	}
	return nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends one step outcome.
func (j *Journal) Record(e Entry) (int64, error) {
	createdAt := e.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}
	res, err := j.db.Exec(
		`INSERT INTO runs(slug, step, artifact_path, sha256, outcome, detail, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		e.Slug, e.Step, e.ArtifactPath, e.SHA256, e.Outcome, e.Detail, createdAt,
	)
	if err != nil {
		return 0, fmt.Errorf("record journal entry: %w", err)
	}
	return res.LastInsertId()
}

// BySlug returns all entries for slug in insertion order.
func (j *Journal) BySlug(slug string) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT id, slug, step, artifact_path, sha256, outcome, detail, created_at
		 FROM runs WHERE slug = ? ORDER BY id`, slug)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Recent returns the latest n entries across all slugs, newest first.
func (j *Journal) Recent(n int) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT id, slug, step, artifact_path, sha256, outcome, detail, created_at
		 FROM runs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Slug, &e.Step, &e.ArtifactPath, &e.SHA256,
			&e.Outcome, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
