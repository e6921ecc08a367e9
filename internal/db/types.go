package db

import (
	"time"

	"dfbench/internal/benchmark"
)

// RunRecord summarizes a persisted benchmark run.
type RunRecord struct {
	ID              int64     `json:"id"`
	Engine          string    `json:"engine"`
	Timestamp       string    `json:"timestamp"`
	Source          string    `json:"source"`
	Operations      int       `json:"operations"`
	TotalDurationMS int64     `json:"total_duration_ms"`
	CreatedAt       time.Time `json:"created_at"`
}

// ComparisonRecord summarizes a persisted comparison between two runs.
type ComparisonRecord struct {
	ID              int64     `json:"id"`
	BaselineEngine  string    `json:"baseline_engine"`
	CandidateEngine string    `json:"candidate_engine"`
	Matched         int       `json:"matched"`
	CreatedAt       time.Time `json:"created_at"`
}

// Store interface defines the methods for persistent run history storage
type Store interface {
	Close() error

	SaveRun(engine string, rs *benchmark.ResultSet) (int64, error)
	GetRun(id int64) (*benchmark.ResultSet, error)
	ListRuns(engine string, limit int) ([]RunRecord, error)

	SaveComparison(baselineEngine, candidateEngine string, cmp *benchmark.Comparison) (int64, error)
	ListComparisons(limit int) ([]ComparisonRecord, error)
}
