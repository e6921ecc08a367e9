package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"dfbench/internal/benchmark"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store and applies migrations
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		engine TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		source TEXT NOT NULL,
		operations INTEGER NOT NULL,
		total_duration_ms INTEGER NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS comparisons (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		baseline_engine TEXT NOT NULL,
		candidate_engine TEXT NOT NULL,
		matched INTEGER NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun persists a full result set and returns the row id.
func (s *SQLiteStore) SaveRun(engine string, rs *benchmark.ResultSet) (int64, error) {
	payload, err := json.Marshal(rs)
	if err != nil {
		return 0, fmt.Errorf("failed to encode result set: %w", err)
	}

	query := `INSERT INTO runs (engine, timestamp, source, operations, total_duration_ms, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.Exec(query, engine, rs.Timestamp, rs.DatasetInfo.Source,
		len(rs.Results), rs.TotalDuration(), string(payload), time.Now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetRun loads the full result set for a run id.
func (s *SQLiteStore) GetRun(id int64) (*benchmark.ResultSet, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
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
func (s *SQLiteStore) ListRuns(engine string, limit int) ([]RunRecord, error) {
	query := `SELECT id, engine, timestamp, source, operations, total_duration_ms, created_at
		FROM runs`
	args := []any{}
	if engine != "" {
		query += ` WHERE engine = ?`
		args = append(args, engine)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

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
func (s *SQLiteStore) SaveComparison(baselineEngine, candidateEngine string, cmp *benchmark.Comparison) (int64, error) {
	payload, err := json.Marshal(cmp)
	if err != nil {
		return 0, fmt.Errorf("failed to encode comparison: %w", err)
	}

	query := `INSERT INTO comparisons (baseline_engine, candidate_engine, matched, payload, created_at)
		VALUES (?, ?, ?, ?, ?)`
	res, err := s.db.Exec(query, baselineEngine, candidateEngine, len(cmp.Rows), string(payload), time.Now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListComparisons retrieves the most recent comparisons.
func (s *SQLiteStore) ListComparisons(limit int) ([]ComparisonRecord, error) {
	query := `SELECT id, baseline_engine, candidate_engine, matched, created_at
		FROM comparisons ORDER BY id DESC LIMIT ?`
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
