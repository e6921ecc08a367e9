package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"dfbench/internal/benchmark"
)

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store and applies migrations
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id SERIAL PRIMARY KEY,
			engine TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			source TEXT NOT NULL,
			operations INTEGER NOT NULL,
			total_duration_ms BIGINT NOT NULL,
			payload TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS comparisons (
			id SERIAL PRIMARY KEY,
			baseline_engine TEXT NOT NULL,
			candidate_engine TEXT NOT NULL,
			matched INTEGER NOT NULL,
			payload TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_engine_created ON runs(engine, created_at DESC);`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SaveRun persists a full result set and returns the row id.
func (s *PostgresStore) SaveRun(engine string, rs *benchmark.ResultSet) (int64, error) {
	payload, err := json.Marshal(rs)
	if err != nil {
		return 0, fmt.Errorf("failed to encode result set: %w", err)
	}

	var id int64
	query := `INSERT INTO runs (engine, timestamp, source, operations, total_duration_ms, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err = s.db.QueryRow(query, engine, rs.Timestamp, rs.DatasetInfo.Source,
		len(rs.Results), rs.TotalDuration(), string(payload), time.Now()).Scan(&id)
	return id, err
}

// GetRun loads the full result set for a run id.
func (s *PostgresStore) GetRun(id int64) (*benchmark.ResultSet, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM runs WHERE id = $1`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return nil, err
	}

	var rs benchmark.ResultSet
	if err := json.Unmarshal([]byte(payload), &rs); err != nil {
		return nil, fmt.Errorf("failed to decode result set: %w", err)
	}
	return &rs, nil
}

// ListRuns retrieves the most recent runs, optionally filtered by engine.
func (s *PostgresStore) ListRuns(engine string, limit int) ([]RunRecord, error) {
	query := `SELECT id, engine, timestamp, source, operations, total_duration_ms, created_at
		FROM runs`
	args := []any{}
	if engine != "" {
		query += ` WHERE engine = $1 ORDER BY id DESC LIMIT $2`
		args = append(args, engine, limit)
	} else {
		query += ` ORDER BY id DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.Engine, &r.Timestamp, &r.Source,
			&r.Operations, &r.TotalDurationMS, &r.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// SaveComparison persists a comparison and returns the row id.
func (s *PostgresStore) SaveComparison(baselineEngine, candidateEngine string, cmp *benchmark.Comparison) (int64, error) {
	payload, err := json.Marshal(cmp)
	if err != nil {
		return 0, fmt.Errorf("failed to encode comparison: %w", err)
	}

	var id int64
	query := `INSERT INTO comparisons (baseline_engine, candidate_engine, matched, payload, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err = s.db.QueryRow(query, baselineEngine, candidateEngine, len(cmp.Rows), string(payload), time.Now()).Scan(&id)
	return id, err
}

// ListComparisons retrieves the most recent comparisons.
func (s *PostgresStore) ListComparisons(limit int) ([]ComparisonRecord, error) {
	query := `SELECT id, baseline_engine, candidate_engine, matched, created_at
		FROM comparisons ORDER BY id DESC LIMIT $1`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ComparisonRecord
	for rows.Next() {
		var c ComparisonRecord
		if err := rows.Scan(&c.ID, &c.BaselineEngine, &c.CandidateEngine, &c.Matched, &c.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}
