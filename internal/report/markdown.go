// Package report renders comparisons as markdown, HTML and charts.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"

	"dfbench/internal/benchmark"
)

func formatRows(rows *int64) string {
	if rows == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *rows)
}

// Markdown renders a comparison as a markdown summary.
func Markdown(baselineName, candidateName string, cmp *benchmark.Comparison) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Benchmark Comparison\n\n")
	fmt.Fprintf(&b, "**Baseline:** %s  \n**Candidate:** %s\n\n", baselineName, candidateName)

	fmt.Fprintf(&b, "| Operation | %s (ms) | %s (ms) | Speedup | %s (MB) | %s (MB) |\n",
		baselineName, candidateName, baselineName, candidateName)
	fmt.Fprintf(&b, "|---|---|---|---|---|---|\n")
	for _, row := range cmp.Rows {
		fmt.Fprintf(&b, "| %s | %d | %d | %s | %d | %d |\n",
			benchmark.DisplayName(row.Operation),
			row.BaselineTime, row.CandidateTime,
			benchmark.FormatSpeedup(row.Speedup, row.HasSpeedup),
			row.BaselineMemory, row.CandidateMemory)
	}
	fmt.Fprintf(&b, "| **Total** | **%d** | **%d** | **%s** | **%d** | **%d** |\n",
		cmp.Totals.BaselineTime, cmp.Totals.CandidateTime,
		benchmark.FormatSpeedup(cmp.Totals.Speedup, cmp.Totals.HasSpeedup),
		cmp.Totals.BaselineMemory, cmp.Totals.CandidateMemory)

	fmt.Fprintf(&b, "\nMatched operations: %d\n", len(cmp.Rows))
	return b.String()
}

// WriteMarkdown writes the markdown summary to dir/summary.md.
func WriteMarkdown(baselineName, candidateName string, cmp *benchmark.Comparison, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "summary.md")
	if err := os.WriteFile(path, []byte(Markdown(baselineName, candidateName, cmp)), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// RenderTerminal renders markdown for terminal display. On renderer
// failure the raw markdown comes back instead, so output never goes
// missing just because the terminal is odd.
func RenderTerminal(markdown string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return markdown
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
