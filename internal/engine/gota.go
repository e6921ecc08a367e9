package engine

import (
	"errors"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"dfbench/internal/benchmark"
)

func init() {
	Register("gota", func() Engine { return &Gota{} })
}

// Gota adapts the go-gota dataframe library to the canonical suite. It
// expects the timeseries CSV schema (id, name, x, y, timestamp) and runs
// the same queries every other implementation of the suite runs: filter
// x > 0.5, sum/mean aggregates over x and y, group by name, sort by x
// descending, and the composite filter+group+aggregate+sort query.
type Gota struct{}

// Name implements Engine.
func (g *Gota) Name() string { return "gota" }

// Steps implements Engine. The read step owns loading; the others
// consume the frame it leaves in the run context.
func (g *Gota) Steps() []benchmark.Step {
	return []benchmark.Step{
		{Name: OpRead, Run: g.read},
		{Name: OpFilter, Run: g.filter},
		{Name: OpAggregation, Run: g.aggregation},
		{Name: OpGroupBy, Run: g.groupBy},
		{Name: OpSort, Run: g.sort},
		{Name: OpComplexQuery, Run: g.complexQuery},
	}
}

func (g *Gota) read(rc *benchmark.RunContext) (*int64, error) {
	f, err := os.Open(rc.Source)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if rc.RowsLimit != nil && *rc.RowsLimit >= 0 {
		// Header line plus the requested number of data rows. The limit
		// is applied before parsing so a capped run never loads the
		// full file.
		r = limitLines(f, *rc.RowsLimit+1)
	}

	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.WithTypes(map[string]series.Type{
			"id":        series.Int,
			"name":      series.String,
			"x":         series.Float,
			"y":         series.Float,
			"timestamp": series.String,
		}),
	)
	if df.Err != nil {
		return nil, df.Err
	}

	rc.Frame = df
	return rowCount(df), nil
}

func (g *Gota) filter(rc *benchmark.RunContext) (*int64, error) {
	df, err := frame(rc)
	if err != nil {
		return nil, err
	}
	filtered := df.Filter(dataframe.F{Colname: "x", Comparator: series.Greater, Comparando: 0.5})
	if filtered.Err != nil {
		return nil, filtered.Err
	}
	return rowCount(filtered), nil
}

func (g *Gota) aggregation(rc *benchmark.RunContext) (*int64, error) {
	df, err := frame(rc)
	if err != nil {
		return nil, err
	}
	// Whole-frame aggregates; the result is a single row, which is what
	// gets reported as the cardinality.
	_ = df.Col("x").Sum()
	_ = df.Col("y").Sum()
	_ = df.Col("x").Mean()
	_ = df.Col("y").Mean()
	_ = df.Col("id").Len()
	one := int64(1)
	return &one, nil
}

func (g *Gota) groupBy(rc *benchmark.RunContext) (*int64, error) {
	df, err := frame(rc)
	if err != nil {
		return nil, err
	}
	groups := df.GroupBy("name")
	if groups.Err != nil {
		return nil, groups.Err
	}
	grouped := groups.Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_SUM, dataframe.Aggregation_MEAN, dataframe.Aggregation_COUNT},
		[]string{"x", "y", "id"},
	)
	if grouped.Err != nil {
		return nil, grouped.Err
	}
	return rowCount(grouped), nil
}

func (g *Gota) sort(rc *benchmark.RunContext) (*int64, error) {
	df, err := frame(rc)
	if err != nil {
		return nil, err
	}
	sorted := df.Arrange(dataframe.RevSort("x"))
	if sorted.Err != nil {
		return nil, sorted.Err
	}
	return rowCount(sorted), nil
}

func (g *Gota) complexQuery(rc *benchmark.RunContext) (*int64, error) {
	df, err := frame(rc)
	if err != nil {
		return nil, err
	}
	filtered := df.FilterAggregation(dataframe.And,
		dataframe.F{Colname: "x", Comparator: series.Greater, Comparando: 0.0},
		dataframe.F{Colname: "y", Comparator: series.Less, Comparando: 1.0},
	)
	if filtered.Err != nil {
		return nil, filtered.Err
	}

	groups := filtered.GroupBy("name")
	if groups.Err != nil {
		return nil, groups.Err
	}
	aggregated := groups.Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_SUM, dataframe.Aggregation_MEAN},
		[]string{"x", "y"},
	)
	if aggregated.Err != nil {
		return nil, aggregated.Err
	}

	result := aggregated.Arrange(dataframe.RevSort("x_SUM"))
	if result.Err != nil {
		return nil, result.Err
	}
	return rowCount(result), nil
}

// frame pulls the loaded dataset out of the run context. Every operation
// after read depends on this shared state.
func frame(rc *benchmark.RunContext) (dataframe.DataFrame, error) {
	df, ok := rc.Frame.(dataframe.DataFrame)
	if !ok {
		return dataframe.DataFrame{}, errors.New("dataset not loaded: read must run first")
	}
	return df, nil
}

func rowCount(df dataframe.DataFrame) *int64 {
	n := int64(df.Nrow())
	return &n
}

// limitLines returns a reader that stops after n lines. It only counts
// newline bytes, which is safe for the synthetic timeseries CSV (no
// quoted embedded newlines).
func limitLines(r io.Reader, n int64) io.Reader {
	return &lineLimitedReader{r: r, remaining: n}
}

type lineLimitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *lineLimitedReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		return 0, io.EOF
	}
	n, err := l.r.Read(p)
	for i := 0; i < n; i++ {
		if p[i] == '\n' {
			l.remaining--
			if l.remaining == 0 {
				return i + 1, nil
			}
		}
	}
	return n, err
}
