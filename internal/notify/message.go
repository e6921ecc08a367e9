package notify

import (
	"fmt"
	"strings"

	"dfbench/internal/benchmark"
)

// Regressions returns the operations whose speedup fell below threshold.
// A row without a defined speedup is never counted as a regression.
func Regressions(cmp *benchmark.Comparison, threshold float64) []string {
	var ops []string
	for _, row := range cmp.Rows {
		if row.HasSpeedup && row.Speedup < threshold {
			ops = append(ops, row.Operation)
		}
	}
	return ops
}

// ComparisonMessage renders a comparison as a Slack-friendly summary.
func ComparisonMessage(baselineName, candidateName string, cmp *benchmark.Comparison, threshold float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Benchmark comparison: %s vs %s*\n", baselineName, candidateName)
	fmt.Fprintf(&b, "Matched operations: %d\n", len(cmp.Rows))
	fmt.Fprintf(&b, "Total: %dms vs %dms (speedup %s)\n",
		cmp.Totals.BaselineTime, cmp.Totals.CandidateTime,
		benchmark.FormatSpeedup(cmp.Totals.Speedup, cmp.Totals.HasSpeedup))

	if regressions := Regressions(cmp, threshold); len(regressions) > 0 {
		fmt.Fprintf(&b, ":warning: Regressions below %.2fx: %s\n",
			threshold, strings.Join(regressions, ", "))
	}
	return b.String()
}
