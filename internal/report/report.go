package report

import (
	"fmt"

	"dfbench/internal/benchmark"
)

// Artifacts lists the files a report generation pass produced.
type Artifacts struct {
	HTML     string
	Markdown string
	Charts   []string
}

// Generate writes the full report bundle for a comparison into dir:
// charts, the HTML report and the markdown summary.
func Generate(baselineName, candidateName string, cmp *benchmark.Comparison, dir string) (*Artifacts, error) {
	charts, err := WriteCharts(baselineName, candidateName, cmp, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to render charts: %w", err)
	}

	html, err := WriteHTML(baselineName, candidateName, cmp, dir, len(charts) > 0)
	if err != nil {
		return nil, fmt.Errorf("failed to render html report: %w", err)
	}

	md, err := WriteMarkdown(baselineName, candidateName, cmp, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to write markdown summary: %w", err)
	}

	return &Artifacts{HTML: html, Markdown: md, Charts: charts}, nil
}
