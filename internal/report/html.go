package report

import (
	_ "embed"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"dfbench/internal/benchmark"
)

//go:embed templates/comparison_report.html
var comparisonTemplate string

var htmlTmpl = template.Must(template.New("comparison_report").Parse(comparisonTemplate))

type htmlRow struct {
	Name            string
	BaselineTime    int64
	CandidateTime   int64
	Speedup         string
	SpeedupClass    string
	BaselineMemory  int64
	CandidateMemory int64
	BaselineRows    string
	CandidateRows   string
}

type htmlTotals struct {
	BaselineTime    int64
	CandidateTime   int64
	Speedup         string
	SpeedupClass    string
	BaselineMemory  int64
	CandidateMemory int64
}

type htmlData struct {
	Baseline      string
	Candidate     string
	GeneratedAt   string
	Rows          []htmlRow
	Totals        htmlTotals
	IncludeCharts bool
}

func speedupClass(speedup float64, ok bool) string {
	switch {
	case !ok:
		return ""
	case speedup >= 1:
		return "faster"
	default:
		return "slower"
	}
}

// WriteHTML renders the comparison report to dir/comparison_report.html.
// includeCharts controls whether the page references the chart images,
// which only makes sense when WriteCharts ran against the same dir.
func WriteHTML(baselineName, candidateName string, cmp *benchmark.Comparison, dir string, includeCharts bool) (string, error) {
	data := htmlData{
		Baseline:      baselineName,
		Candidate:     candidateName,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		IncludeCharts: includeCharts,
		Totals: htmlTotals{
			BaselineTime:    cmp.Totals.BaselineTime,
			CandidateTime:   cmp.Totals.CandidateTime,
			Speedup:         benchmark.FormatSpeedup(cmp.Totals.Speedup, cmp.Totals.HasSpeedup),
			SpeedupClass:    speedupClass(cmp.Totals.Speedup, cmp.Totals.HasSpeedup),
			BaselineMemory:  cmp.Totals.BaselineMemory,
			CandidateMemory: cmp.Totals.CandidateMemory,
		},
	}
	for _, row := range cmp.Rows {
		data.Rows = append(data.Rows, htmlRow{
			Name:            benchmark.DisplayName(row.Operation),
			BaselineTime:    row.BaselineTime,
			CandidateTime:   row.CandidateTime,
			Speedup:         benchmark.FormatSpeedup(row.Speedup, row.HasSpeedup),
			SpeedupClass:    speedupClass(row.Speedup, row.HasSpeedup),
			BaselineMemory:  row.BaselineMemory,
			CandidateMemory: row.CandidateMemory,
			BaselineRows:    formatRows(row.BaselineRows),
			CandidateRows:   formatRows(row.CandidateRows),
		})
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "comparison_report.html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := htmlTmpl.Execute(f, data); err != nil {
		return "", err
	}
	return path, nil
}
