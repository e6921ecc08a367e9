// Package ui renders benchmark output for the terminal.
package ui

import (
	"fmt"
	"strings"

	"dfbench/internal/benchmark"
)

// ComparisonTable renders a comparison as a colored terminal table. The
// speedup column is green above break-even, red below it, and gray when
// the ratio is undefined.
func ComparisonTable(baselineName, candidateName string, cmp *benchmark.Comparison) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Comparison: %s vs %s", baselineName, candidateName)))
	b.WriteString("\n\n")

	header := fmt.Sprintf("%-15s %12s %12s %10s %10s %10s",
		"Operation",
		trunc(baselineName, 9)+" ms", trunc(candidateName, 9)+" ms",
		"Speedup", "Base MB", "Cand MB")
	b.WriteString(cellStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(cellStyle.Render(strings.Repeat("-", len(header))))
	b.WriteString("\n")

	for _, row := range cmp.Rows {
		line := fmt.Sprintf("%-15s %12d %12d %10s %10d %10d",
			benchmark.DisplayName(row.Operation),
			row.BaselineTime, row.CandidateTime,
			styleSpeedup(row.Speedup, row.HasSpeedup),
			row.BaselineMemory, row.CandidateMemory)
		b.WriteString(cellStyle.Render(line))
		b.WriteString("\n")
	}

	total := fmt.Sprintf("%-15s %12d %12d %10s %10d %10d",
		"Total",
		cmp.Totals.BaselineTime, cmp.Totals.CandidateTime,
		styleSpeedup(cmp.Totals.Speedup, cmp.Totals.HasSpeedup),
		cmp.Totals.BaselineMemory, cmp.Totals.CandidateMemory)
	b.WriteString(cellStyle.Render(totalStyle.Render(total)))
	b.WriteString("\n")

	b.WriteString(cellStyle.Render(statusStyle.Render(
		fmt.Sprintf("Matched operations: %d", len(cmp.Rows)))))
	b.WriteString("\n")

	return b.String()
}

// RunTable renders a single result set for the terminal.
func RunTable(rs *benchmark.ResultSet) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Benchmark run %s", rs.Timestamp)))
	b.WriteString("\n\n")

	header := fmt.Sprintf("%-15s %12s %12s %14s", "Operation", "Duration ms", "Memory MB", "Rows")
	b.WriteString(cellStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(cellStyle.Render(strings.Repeat("-", len(header))))
	b.WriteString("\n")

	for _, r := range rs.Results {
		rows := "-"
		if r.RowsProcessed != nil {
			rows = fmt.Sprintf("%d", *r.RowsProcessed)
		}
		line := fmt.Sprintf("%-15s %12d %12d %14s",
			benchmark.DisplayName(r.Operation), r.DurationMS, r.MemoryMB, rows)
		b.WriteString(cellStyle.Render(line))
		b.WriteString("\n")
	}

	total := fmt.Sprintf("%-15s %12d", "Total", rs.TotalDuration())
	b.WriteString(cellStyle.Render(totalStyle.Render(total)))
	b.WriteString("\n")

	return b.String()
}

func styleSpeedup(speedup float64, ok bool) string {
	formatted := benchmark.FormatSpeedup(speedup, ok)
	switch {
	case !ok:
		return neutralStyle.Render(formatted)
	case speedup >= 1:
		return fasterStyle.Render(formatted)
	default:
		return slowerStyle.Render(formatted)
	}
}

func trunc(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
