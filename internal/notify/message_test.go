package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dfbench/internal/benchmark"
)

func sampleComparison() *benchmark.Comparison {
	return &benchmark.Comparison{
		Rows: []benchmark.Row{
			{Operation: "read", BaselineTime: 100, CandidateTime: 50, Speedup: 2.0, HasSpeedup: true},
			{Operation: "filter", BaselineTime: 10, CandidateTime: 20, Speedup: 0.5, HasSpeedup: true},
			{Operation: "sort", BaselineTime: 30, CandidateTime: 0},
		},
		Totals: benchmark.Totals{BaselineTime: 140, CandidateTime: 70, Speedup: 2.0, HasSpeedup: true},
	}
}

func TestRegressions(t *testing.T) {
	cmp := sampleComparison()

	// filter is below the threshold; sort has no defined speedup and
	// must not be flagged.
	assert.Equal(t, []string{"filter"}, Regressions(cmp, 0.8))
	assert.Empty(t, Regressions(cmp, 0.3))
}

func TestComparisonMessage(t *testing.T) {
	msg := ComparisonMessage("gota", "pandas", sampleComparison(), 0.8)

	assert.Contains(t, msg, "gota vs pandas")
	assert.Contains(t, msg, "Matched operations: 3")
	assert.Contains(t, msg, "140ms vs 70ms")
	assert.Contains(t, msg, "2.00x")
	assert.Contains(t, msg, "Regressions below 0.80x: filter")
}

func TestComparisonMessageNoRegressions(t *testing.T) {
	cmp := &benchmark.Comparison{
		Rows:   []benchmark.Row{{Operation: "read", BaselineTime: 100, CandidateTime: 50, Speedup: 2.0, HasSpeedup: true}},
		Totals: benchmark.Totals{BaselineTime: 100, CandidateTime: 50, Speedup: 2.0, HasSpeedup: true},
	}
	msg := ComparisonMessage("gota", "pandas", cmp, 0.8)
	assert.NotContains(t, msg, "Regressions")
}
