package benchmark

import (
	"fmt"
	"strings"
	"time"
)

// CurrentVersion is the version of the persisted result set layout.
// Files written by other implementations before the field existed load
// as version 1.
const CurrentVersion = 1

// OperationResult represents the measured outcome of a single operation.
// It is created by Measure when an operation completes and is never
// mutated afterwards.
type OperationResult struct {
	Operation  string `json:"operation"`
	DurationMS int64  `json:"duration_ms"`
	MemoryMB   int64  `json:"memory_mb"`
	// RowsProcessed is the operation-reported cardinality of the output.
	// nil means the count is not meaningful for this operation; it is
	// serialized as an explicit null, never coerced to zero.
	RowsProcessed *int64 `json:"rows_processed"`
}

// SystemInfo is a descriptive snapshot of the machine the suite ran on.
// It is metadata only and is never consulted by the comparison engine.
type SystemInfo struct {
	OS            string `json:"os"`
	CPUCount      int    `json:"cpu_count"`
	TotalMemoryGB uint64 `json:"total_memory_gb"`
}

// DatasetInfo records the provenance of the input dataset.
type DatasetInfo struct {
	Source    string `json:"source"`
	RowsLimit *int64 `json:"rows_limit"`
}

// ResultSet is the complete output of one suite run. Once persisted it is
// immutable; re-running the suite produces a new ResultSet.
type ResultSet struct {
	Version int `json:"version"`
	// Timestamp is the ISO-8601 UTC creation time with a trailing Z,
	// captured when the set is finalized. Kept as a string so files
	// produced by other implementations round-trip byte-for-byte.
	Timestamp   string            `json:"timestamp"`
	Results     []OperationResult `json:"results"`
	SystemInfo  SystemInfo        `json:"system_info"`
	DatasetInfo DatasetInfo       `json:"dataset_info"`
}

// Add appends a result, preserving execution order. A duplicate operation
// name is rejected with an error rather than overwriting the earlier
// measurement; the caller decides how to surface it.
func (rs *ResultSet) Add(r OperationResult) error {
	if _, exists := rs.Lookup(r.Operation); exists {
		return fmt.Errorf("duplicate operation %q in result set", r.Operation)
	}
	rs.Results = append(rs.Results, r)
	return nil
}

// Lookup returns the result for the named operation, if present.
func (rs *ResultSet) Lookup(operation string) (OperationResult, bool) {
	for _, r := range rs.Results {
		if r.Operation == operation {
			return r, true
		}
	}
	return OperationResult{}, false
}

// TotalDuration sums the duration of every recorded operation.
func (rs *ResultSet) TotalDuration() int64 {
	var total int64
	for _, r := range rs.Results {
		total += r.DurationMS
	}
	return total
}

// Finalize stamps the set with its creation time, version and metadata.
// Called once, right before the set is persisted.
func (rs *ResultSet) Finalize(sys SystemInfo, ds DatasetInfo) {
	rs.Version = CurrentVersion
	rs.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	rs.SystemInfo = sys
	rs.DatasetInfo = ds
}

// DisplayName converts a raw operation identifier into a human-friendly
// label: token separators become spaces and each token is title-cased
// ("group_by" -> "Group By"). Pure and order-preserving; used only at
// presentation boundaries.
func DisplayName(operation string) string {
	parts := strings.Split(operation, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
