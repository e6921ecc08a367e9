package benchmark

import (
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Op is a single unit of measured work. It returns the row count of its
// output, or nil when the count is not meaningful.
type Op func() (rows *int64, err error)

// residentMemoryMB reads the current resident set size of this process in
// whole megabytes. A variable so tests can substitute deterministic
// readings.
var residentMemoryMB = func() (int64, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}
	info, err := p.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return int64(info.RSS / 1024 / 1024), nil
}

// Measure executes op once and records its wall-clock duration and
// resident-memory delta.
//
// The duration is taken from the monotonic clock and truncated (not
// rounded) to whole milliseconds, so sub-millisecond operations are
// systematically under-reported as 0ms. The memory delta is floored at
// zero: a GC between the two readings must never surface as negative
// usage. Failures to read memory degrade to a zero delta with a warning
// instead of failing the operation.
//
// An error from op propagates unchanged and produces no result; failure
// isolation is the caller's job.
func Measure(operation string, op Op) (OperationResult, error) {
	before, beforeErr := residentMemoryMB()
	if beforeErr != nil {
		slog.Warn("memory reading unavailable", "operation", operation, "error", beforeErr)
	}

	start := time.Now()
	rows, err := op()
	elapsed := time.Since(start)
	if err != nil {
		return OperationResult{}, err
	}

	after, afterErr := residentMemoryMB()
	if beforeErr != nil || afterErr != nil {
		if afterErr != nil {
			slog.Warn("memory reading unavailable", "operation", operation, "error", afterErr)
		}
		// Without two good readings the delta is meaningless.
		before, after = 0, 0
	}

	delta := after - before
	if delta < 0 {
		delta = 0
	}

	return OperationResult{
		Operation:     operation,
		DurationMS:    elapsed.Milliseconds(),
		MemoryMB:      delta,
		RowsProcessed: rows,
	}, nil
}
