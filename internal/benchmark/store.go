package benchmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrMissingInput marks a required result set file that does not exist.
// Callers (compare, report) treat it as a recoverable precondition
// failure rather than an internal error.
var ErrMissingInput = errors.New("result set not found")

// SaveResultSet writes rs to path as indented JSON, creating parent
// directories as needed. A save always produces a fresh file; persisted
// result sets are never updated in place.
func SaveResultSet(path string, rs *ResultSet) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// A set with no surviving operations still serializes results as an
	// empty list, not null, so foreign readers of the file always get a
	// list. Copy first; the caller's set stays untouched.
	out := *rs
	if out.Results == nil {
		out.Results = []OperationResult{}
	}

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result set: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LoadResultSet reads a persisted result set. A missing file is reported
// as ErrMissingInput with the offending path attached.
func LoadResultSet(path string) (*ResultSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var rs ResultSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if rs.Version == 0 {
		// Files from implementations predating the version field.
		rs.Version = 1
	}
	return &rs, nil
}
