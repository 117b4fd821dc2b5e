// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache keeps cleaned per-year results and consolidated datasets
// in a SQLite database. Every save is a run identified by a UUID; reads
// return the latest run.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Pladifes/cdp-preprocessing/pkg/types"
)

// DefaultFile is the database file name used inside the clean directory.
const DefaultFile = "cdp_cache.db"

// Run scopes.
const (
	ScopeYear         = "year"
	ScopeConsolidated = "consolidated"
)

// Run describes one saved table.
type Run struct {
	ID                string    `json:"id"`
	Scope             string    `json:"scope"`
	QuestionnaireYear int       `json:"questionnaire_year,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	Records           int       `json:"records"`
}

// Store manages the cache database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens or creates the database at path and its schema.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			scope TEXT NOT NULL,
			questionnaire_year INTEGER,
			created_at TEXT NOT NULL,
			record_count INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_year ON runs(scope, questionnaire_year, created_at)`,
		`CREATE TABLE IF NOT EXISTS records (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			account_id TEXT NOT NULL,
			account_name TEXT,
			country TEXT,
			activity TEXT,
			sector TEXT,
			industry TEXT,
			isin TEXT,
			ticker TEXT,
			accounting_year INTEGER NOT NULL,
			boundary TEXT,
			covered_countries TEXT,
			cdp_cf1 REAL,
			cdp_cf2_location REAL,
			cdp_cf2_market REAL,
			cdp_cf3 REAL,
			cf3_relevance REAL,
			unique_id TEXT NOT NULL,
			questionnaire_year INTEGER NOT NULL,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_unique_id ON records(unique_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores records as a new run. A nil year stores a consolidated
// dataset. The format only matters to file sinks and is ignored.
func (s *Store) Save(ctx context.Context, records []types.Record, year *int, _ types.OutputFormat) error {
	_, err := s.SaveRun(ctx, records, year)
	return err
}

// SaveRun stores records as a new run in one transaction and returns it.
func (s *Store) SaveRun(ctx context.Context, records []types.Record, year *int) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Scope:     ScopeConsolidated,
		CreatedAt: s.now().UTC(),
		Records:   len(records),
	}
	var qy sql.NullInt64
	if year != nil {
		run.Scope = ScopeYear
		run.QuestionnaireYear = *year
		qy = sql.NullInt64{Int64: int64(*year), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, scope, questionnaire_year, created_at, record_count) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Scope, qy, run.CreatedAt.Format(time.RFC3339Nano), run.Records,
	); err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (
		run_id, seq, account_id, account_name, country, activity, sector, industry, isin, ticker,
		accounting_year, boundary, covered_countries,
		cdp_cf1, cdp_cf2_location, cdp_cf2_market, cdp_cf3, cf3_relevance,
		unique_id, questionnaire_year
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx,
			run.ID, i, r.AccountID,
			nullString(r.AccountName), nullString(r.Country), nullString(r.Activity),
			nullString(r.Sector), nullString(r.Industry), nullString(r.ISIN), nullString(r.Ticker),
			r.AccountingYear, nullString(string(r.Boundary)), nullString(r.CoveredCountries),
			nullFloat(r.CF1), nullFloat(r.CF2Location), nullFloat(r.CF2Market),
			nullFloat(r.CF3), nullFloat(r.CF3Relevance),
			r.UniqueID(), r.QuestionnaireYear,
		); err != nil {
			return Run{}, fmt.Errorf("inserting record %s: %w", r.UniqueID(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("committing run: %w", err)
	}
	return run, nil
}

// LoadCached returns the records of the latest run for year, or
// types.ErrNotCached.
func (s *Store) LoadCached(ctx context.Context, year int) ([]types.Record, error) {
	return s.latest(ctx,
		`SELECT id FROM runs WHERE scope = ? AND questionnaire_year = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		ScopeYear, year)
}

// LoadDataset returns the latest consolidated dataset, or
// types.ErrNotCached.
func (s *Store) LoadDataset(ctx context.Context) ([]types.Record, error) {
	return s.latest(ctx,
		`SELECT id FROM runs WHERE scope = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		ScopeConsolidated)
}

func (s *Store) latest(ctx context.Context, query string, args ...any) ([]types.Record, error) {
	var id string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotCached
	}
	if err != nil {
		return nil, fmt.Errorf("finding run: %w", err)
	}
	return s.records(ctx, id)
}

func (s *Store) records(ctx context.Context, runID string) ([]types.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		account_id, account_name, country, activity, sector, industry, isin, ticker,
		accounting_year, boundary, covered_countries,
		cdp_cf1, cdp_cf2_location, cdp_cf2_market, cdp_cf3, cf3_relevance,
		questionnaire_year
		FROM records WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	out := []types.Record{}
	for rows.Next() {
		var (
			r                                           types.Record
			name, country, activity, sector, industry   sql.NullString
			isin, ticker, boundary, countries           sql.NullString
			cf1, cf2Location, cf2Market, cf3, relevance sql.NullFloat64
		)
		if err := rows.Scan(
			&r.AccountID, &name, &country, &activity, &sector, &industry, &isin, &ticker,
			&r.AccountingYear, &boundary, &countries,
			&cf1, &cf2Location, &cf2Market, &cf3, &relevance,
			&r.QuestionnaireYear,
		); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.AccountName = name.String
		r.Country = country.String
		r.Activity = activity.String
		r.Sector = sector.String
		r.Industry = industry.String
		r.ISIN = isin.String
		r.Ticker = ticker.String
		r.Boundary = types.Boundary(boundary.String)
		r.CoveredCountries = countries.String
		r.CF1 = floatPtr(cf1)
		r.CF2Location = floatPtr(cf2Location)
		r.CF2Market = floatPtr(cf2Market)
		r.CF3 = floatPtr(cf3)
		r.CF3Relevance = floatPtr(relevance)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Runs lists saved runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, scope, questionnaire_year, created_at, record_count FROM runs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run     Run
			year    sql.NullInt64
			created string
		)
		if err := rows.Scan(&run.ID, &run.Scope, &year, &created, &run.Records); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.QuestionnaireYear = int(year.Int64)
		if run.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("run %s: bad timestamp %q: %w", run.ID, created, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Prune deletes all but the latest keep runs of each scope and year.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id IN (
		SELECT id FROM (
			SELECT id, ROW_NUMBER() OVER (
				PARTITION BY scope, questionnaire_year ORDER BY created_at DESC, rowid DESC
			) AS n FROM runs
		) WHERE n > ?
	)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	return res.RowsAffected()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
