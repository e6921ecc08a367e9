package benchmark

import "fmt"

// Row is the comparison of one operation measured by both implementations.
// Derived on demand, never persisted.
type Row struct {
	Operation       string
	BaselineTime    int64
	CandidateTime   int64
	// Speedup is baseline time over candidate time. It is only
	// meaningful when HasSpeedup is true; a candidate time of zero
	// cannot be divided into and leaves HasSpeedup false instead of
	// producing +Inf.
	Speedup         float64
	HasSpeedup      bool
	BaselineMemory  int64
	CandidateMemory int64
	BaselineRows    *int64
	CandidateRows   *int64
}

// Totals aggregates the matched rows of a comparison. Operations present
// in only one result set contribute nothing here: the totals cover
// exactly the rows in Comparison.Rows, not every row of either file.
type Totals struct {
	BaselineTime    int64
	CandidateTime   int64
	Speedup         float64
	HasSpeedup      bool
	BaselineMemory  int64
	CandidateMemory int64
}

// Comparison is the full output of the comparison engine for one
// baseline/candidate pair.
type Comparison struct {
	Rows   []Row
	Totals Totals
}

// Compare aligns two result sets by operation name and derives the
// relative metrics.
//
// The candidate set is indexed once by operation; the baseline set is
// then iterated in its stored order, so the output order is the baseline
// suite's execution order. An operation present in only one set is
// silently excluded rather than treated as an error. Both
// inputs are treated as immutable snapshots, which makes Compare a pure
// function: running it twice on the same pair yields identical output.
func Compare(baseline, candidate *ResultSet) *Comparison {
	lookup := make(map[string]OperationResult, len(candidate.Results))
	for _, r := range candidate.Results {
		lookup[r.Operation] = r
	}

	cmp := &Comparison{}
	for _, b := range baseline.Results {
		c, ok := lookup[b.Operation]
		if !ok {
			continue
		}

		row := Row{
			Operation:       b.Operation,
			BaselineTime:    b.DurationMS,
			CandidateTime:   c.DurationMS,
			BaselineMemory:  b.MemoryMB,
			CandidateMemory: c.MemoryMB,
			BaselineRows:    b.RowsProcessed,
			CandidateRows:   c.RowsProcessed,
		}
		if c.DurationMS > 0 {
			row.Speedup = float64(b.DurationMS) / float64(c.DurationMS)
			row.HasSpeedup = true
		}
		cmp.Rows = append(cmp.Rows, row)

		cmp.Totals.BaselineTime += b.DurationMS
		cmp.Totals.CandidateTime += c.DurationMS
		cmp.Totals.BaselineMemory += b.MemoryMB
		cmp.Totals.CandidateMemory += c.MemoryMB
	}

	if cmp.Totals.CandidateTime > 0 {
		cmp.Totals.Speedup = float64(cmp.Totals.BaselineTime) / float64(cmp.Totals.CandidateTime)
		cmp.Totals.HasSpeedup = true
	}
	return cmp
}

// FormatSpeedup renders a speedup ratio, substituting the documented
// sentinel when the ratio is undefined.
func FormatSpeedup(speedup float64, ok bool) string {
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.2fx", speedup)
}
