package benchmark

import (
	"context"
	"log/slog"
)

// RunContext is the mutable state shared by the steps of one suite
// invocation. The loaded dataset handle is owned exclusively by the run:
// the read step sets Frame and later steps consume it. Nothing outside
// the run may touch it.
type RunContext struct {
	Context context.Context
	// Source is the dataset location the suite operates on.
	Source string
	// RowsLimit caps the number of rows the read step loads; nil means
	// the full dataset.
	RowsLimit *int64
	// Frame is the dataset produced by the read step, opaque to the
	// harness. Engine adapters know its concrete type.
	Frame any
}

// Step is one named operation in a suite. Name is the join key used by
// the comparison engine, so it must be spelled identically by every
// implementation under comparison.
type Step struct {
	Name string
	Run  func(rc *RunContext) (rows *int64, err error)
}

// Runner executes an ordered list of steps against one dataset,
// collecting the successful measurements into a ResultSet.
type Runner struct {
	Steps  []Step
	Logger *slog.Logger
	// Observer, if set, is called after each successful measurement.
	// Used for live progress metrics; it must not mutate the result.
	Observer func(OperationResult)
	// OnFailure, if set, is called with the name of each operation that
	// failed or whose result was rejected. Counterpart of Observer for
	// the failure side of the progress metrics.
	OnFailure func(operation string)
}

// Run executes every step strictly in order, exactly once each. A failing
// step is logged and omitted from the result set; the remaining steps
// still run. Steps share rc, so a failure in an early step (typically the
// read) usually cascades into failures of the dependent steps; each is
// reported individually and none aborts the suite.
//
// There is no repetition, warm-up or timeout: a step that hangs, hangs
// the suite.
func (r *Runner) Run(rc *RunContext) *ResultSet {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rs := &ResultSet{}
	for _, step := range r.Steps {
		logger.Info("running operation", "operation", step.Name)

		result, err := Measure(step.Name, func() (*int64, error) { return step.Run(rc) })
		if err != nil {
			logger.Error("operation failed", "operation", step.Name, "error", err)
			if r.OnFailure != nil {
				r.OnFailure(step.Name)
			}
			continue
		}
		if err := rs.Add(result); err != nil {
			logger.Error("operation result rejected", "operation", step.Name, "error", err)
			if r.OnFailure != nil {
				r.OnFailure(step.Name)
			}
			continue
		}

		logger.Info("operation completed",
			"operation", step.Name,
			"duration_ms", result.DurationMS,
			"memory_mb", result.MemoryMB)
		if r.Observer != nil {
			r.Observer(result)
		}
	}
	return rs
}
