package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"dfbench/internal/benchmark"
)

// WriteCharts renders the duration and speedup charts into dir and
// returns the written paths. An empty comparison yields no charts.
func WriteCharts(baselineName, candidateName string, cmp *benchmark.Comparison, dir string) ([]string, error) {
	if len(cmp.Rows) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	durations := filepath.Join(dir, "comparison_chart.png")
	if err := writeDurationChart(baselineName, candidateName, cmp, durations); err != nil {
		return nil, err
	}

	speedups := filepath.Join(dir, "speedup_chart.png")
	if err := writeSpeedupChart(cmp, speedups); err != nil {
		return nil, err
	}

	return []string{durations, speedups}, nil
}

func writeDurationChart(baselineName, candidateName string, cmp *benchmark.Comparison, path string) error {
	p := plot.New()
	p.Title.Text = "Operation Duration"
	p.Y.Label.Text = "Duration (ms)"

	baseVals := make(plotter.Values, len(cmp.Rows))
	candVals := make(plotter.Values, len(cmp.Rows))
	labels := make([]string, len(cmp.Rows))
	for i, row := range cmp.Rows {
		baseVals[i] = float64(row.BaselineTime)
		candVals[i] = float64(row.CandidateTime)
		labels[i] = benchmark.DisplayName(row.Operation)
	}

	w := vg.Points(18)

	baseBars, err := plotter.NewBarChart(baseVals, w)
	if err != nil {
		return err
	}
	baseBars.LineStyle.Width = 0
	baseBars.Color = plotutil.Color(0)
	baseBars.Offset = -w / 2

	candBars, err := plotter.NewBarChart(candVals, w)
	if err != nil {
		return err
	}
	candBars.LineStyle.Width = 0
	candBars.Color = plotutil.Color(1)
	candBars.Offset = w / 2

	p.Add(baseBars, candBars)
	p.Legend.Add(baselineName, baseBars)
	p.Legend.Add(candidateName, candBars)
	p.Legend.Top = true
	p.NominalX(labels...)

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

func writeSpeedupChart(cmp *benchmark.Comparison, path string) error {
	p := plot.New()
	p.Title.Text = "Speedup (baseline / candidate)"
	p.Y.Label.Text = "Speedup"

	// Rows without a defined ratio are plotted at zero height, so the
	// operation still shows up on the axis rather than vanishing.
	vals := make(plotter.Values, len(cmp.Rows))
	labels := make([]string, len(cmp.Rows))
	for i, row := range cmp.Rows {
		if row.HasSpeedup {
			vals[i] = row.Speedup
		}
		labels[i] = benchmark.DisplayName(row.Operation)
	}

	bars, err := plotter.NewBarChart(vals, vg.Points(24))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = 0
	bars.Color = plotutil.Color(2)
	p.Add(bars)
	p.NominalX(labels...)

	// Break-even reference at 1.0x.
	breakEven := plotter.XYs{
		{X: -0.5, Y: 1},
		{X: float64(len(cmp.Rows)) - 0.5, Y: 1},
	}
	line, err := plotter.NewLine(breakEven)
	if err != nil {
		return err
	}
	line.LineStyle.Color = color.RGBA{R: 200, A: 255}
	line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(line)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save speedup chart: %w", err)
	}
	return nil
}
