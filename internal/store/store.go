// Package store persists the sync journal and the managed glossary in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"
)

// AnyLang matches every language in a glossary entry.
const AnyLang = "*"

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sync_runs (
		id TEXT PRIMARY KEY,
		dir TEXT NOT NULL,
		service TEXT,
		dry_run BOOLEAN DEFAULT FALSE,
		status TEXT DEFAULT 'running',
		destinations INTEGER DEFAULT 0,
		failures INTEGER DEFAULT 0,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP
	);

	-- sync_results stores the outcome of one destination within a run
	CREATE TABLE IF NOT EXISTS sync_results (
		run_id TEXT NOT NULL,
		locale TEXT NOT NULL,
		source TEXT NOT NULL,
		translated INTEGER DEFAULT 0,
		seeded INTEGER DEFAULT 0,
		force_copied INTEGER DEFAULT 0,
		deleted INTEGER DEFAULT 0,
		written BOOLEAN DEFAULT FALSE,
		error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (run_id, locale),
		FOREIGN KEY (run_id) REFERENCES sync_runs(id)
	);

	-- glossary stores terminology that must survive translation verbatim;
	-- '*' in a language column matches every language
	CREATE TABLE IF NOT EXISTS glossary (
		id TEXT PRIMARY KEY,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		source_term TEXT NOT NULL,
		target_term TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(source_lang, target_lang, source_term)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON sync_runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_glossary_lookup ON glossary(source_lang, target_lang);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Run is a row of the sync_runs table.
type Run struct {
	ID           string
	Dir          string
	Service      string
	DryRun       bool
	Status       string
	Destinations int
	Failures     int
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// Result is a row of the sync_results table.
type Result struct {
	RunID       string
	Locale      string
	Source      string
	Translated  int
	Seeded      int
	ForceCopied int
	Deleted     int
	Written     bool
	Error       string
}

func (s *Store) StartRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sync_runs (id, dir, service, dry_run, status, started_at) VALUES (?, ?, ?, ?, 'running', ?)`,
		run.ID, run.Dir, run.Service, run.DryRun, run.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to start run %s: %w", run.ID, err)
	}
	return nil
}

func (s *Store) RecordResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sync_results (run_id, locale, source, translated, seeded, force_copied, deleted, written, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Locale, r.Source, r.Translated, r.Seeded, r.ForceCopied, r.Deleted, r.Written, r.Error)
	if err != nil {
		return fmt.Errorf("failed to record result for %s: %w", r.Locale, err)
	}
	return nil
}

// FinishRun closes a run with its final status and counters.
func (s *Store) FinishRun(ctx context.Context, runID, status string, destinations, failures int, finishedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sync_runs SET status = ?, destinations = ?, failures = ?, finished_at = ? WHERE id = ?`,
		status, destinations, failures, finishedAt, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", runID, err)
	}
	return nil
}

// ListRuns returns the most recent runs first. limit ≤ 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, dir, COALESCE(service, ''), dry_run, status, destinations, failures, started_at, finished_at
		FROM sync_runs ORDER BY started_at DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetRun returns a run and its per-destination results ordered by locale.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, []Result, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, dir, COALESCE(service, ''), dry_run, status, destinations, failures, started_at, finished_at
		 FROM sync_runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("run not found: %s", runID)
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, locale, source, translated, seeded, force_copied, deleted, written, COALESCE(error, '')
		 FROM sync_results WHERE run_id = ? ORDER BY locale`, runID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.RunID, &r.Locale, &r.Source, &r.Translated, &r.Seeded, &r.ForceCopied, &r.Deleted, &r.Written, &r.Error); err != nil {
			return nil, nil, err
		}
		results = append(results, r)
	}
	return run, results, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	var finished sql.NullTime
	if err := row.Scan(&r.ID, &r.Dir, &r.Service, &r.DryRun, &r.Status, &r.Destinations, &r.Failures, &r.StartedAt, &finished); err != nil {
		return nil, err
	}
	if finished.Valid {
		t := finished.Time
		r.FinishedAt = &t
	}
	return &r, nil
}

// GlossaryEntry represents a row in the glossary table.
type GlossaryEntry struct {
	ID         string
	SourceLang string
	TargetLang string
	SourceTerm string
	TargetTerm string
	CreatedAt  time.Time
}

// AddGlossaryTerm inserts or replaces a glossary entry and returns its ID.
// Empty languages are stored as AnyLang.
func (s *Store) AddGlossaryTerm(ctx context.Context, sourceLang, targetLang, sourceTerm, targetTerm string) (string, error) {
	sourceTerm = normalizeText(sourceTerm)
	targetTerm = normalizeText(targetTerm)
	if sourceTerm == "" {
		return "", fmt.Errorf("glossary term must not be empty")
	}
	if targetTerm == "" {
		targetTerm = sourceTerm
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO glossary (id, source_lang, target_lang, source_term, target_term)
		 VALUES (?, ?, ?, ?, ?)`,
		id, langOrAny(sourceLang), langOrAny(targetLang), sourceTerm, targetTerm)
	if err != nil {
		return "", fmt.Errorf("failed to add glossary term: %w", err)
	}
	return id, nil
}

// GetGlossaryTerms returns the terms that apply to a language pair as a
// source-term → target-term map. An entry for the exact pair beats one that
// uses AnyLang.
func (s *Store) GetGlossaryTerms(ctx context.Context, sourceLang, targetLang string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_term, target_term FROM glossary
		 WHERE source_lang IN (?, '*') AND target_lang IN (?, '*')
		 ORDER BY (source_lang != '*') + (target_lang != '*')`,
		sourceLang, targetLang)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	terms := make(map[string]string)
	for rows.Next() {
		var src, tgt string
		if err := rows.Scan(&src, &tgt); err != nil {
			return nil, err
		}
		terms[src] = tgt
	}
	return terms, rows.Err()
}

// ListGlossaryTerms returns all glossary entries, optionally filtered by
// target language (pass an empty string to return everything).
func (s *Store) ListGlossaryTerms(ctx context.Context, targetLang string) ([]GlossaryEntry, error) {
	query := `SELECT id, source_lang, target_lang, source_term, target_term, created_at FROM glossary`
	var args []interface{}
	if targetLang != "" {
		query += ` WHERE target_lang IN (?, '*')`
		args = append(args, targetLang)
	}
	query += ` ORDER BY source_lang, target_lang, source_term`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []GlossaryEntry
	for rows.Next() {
		var e GlossaryEntry
		if err := rows.Scan(&e.ID, &e.SourceLang, &e.TargetLang, &e.SourceTerm, &e.TargetTerm, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteGlossaryTerm removes a glossary entry by ID.
func (s *Store) DeleteGlossaryTerm(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM glossary WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("glossary entry not found: %s", id)
	}
	return nil
}

func langOrAny(lang string) string {
	if strings.TrimSpace(lang) == "" {
		return AnyLang
	}
	return lang
}

// normalizeText trims whitespace and applies Unicode NFC normalization
// so visually identical terms share one row.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
