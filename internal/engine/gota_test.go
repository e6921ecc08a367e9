package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dfbench/internal/benchmark"
)

const testCSV = `id,name,x,y,timestamp
1,alice,0.9,0.1,2024-01-01T00:00:00Z
2,bob,0.2,0.8,2024-01-01T00:00:01Z
3,alice,0.7,1.5,2024-01-01T00:00:02Z
4,carol,-0.3,0.4,2024-01-01T00:00:03Z
5,bob,0.6,0.2,2024-01-01T00:00:04Z
`

func writeTestCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timeseries.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0644))
	return path
}

func loadedContext(t *testing.T, limit *int64) (*Gota, *benchmark.RunContext) {
	t.Helper()
	g := &Gota{}
	rc := &benchmark.RunContext{
		Context:   context.Background(),
		Source:    writeTestCSV(t),
		RowsLimit: limit,
	}
	_, err := g.read(rc)
	require.NoError(t, err)
	return g, rc
}

func TestRegistry(t *testing.T) {
	e, err := New("gota")
	require.NoError(t, err)
	assert.Equal(t, "gota", e.Name())

	_, err = New("polars")
	assert.Error(t, err)

	assert.Contains(t, Names(), "gota")
}

func TestGotaStepsOrder(t *testing.T) {
	steps := (&Gota{}).Steps()
	var names []string
	for _, s := range steps {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		OpRead, OpFilter, OpAggregation, OpGroupBy, OpSort, OpComplexQuery,
	}, names)
}

func TestGotaRead(t *testing.T) {
	g := &Gota{}
	rc := &benchmark.RunContext{Context: context.Background(), Source: writeTestCSV(t)}

	rows, err := g.read(rc)
	require.NoError(t, err)
	require.NotNil(t, rows)
	assert.Equal(t, int64(5), *rows)
	assert.NotNil(t, rc.Frame)
}

func TestGotaReadRowLimit(t *testing.T) {
	limit := int64(3)
	_, rc := loadedContext(t, &limit)

	g := &Gota{}
	rows, err := g.sort(rc)
	require.NoError(t, err)
	assert.Equal(t, int64(3), *rows)
}

func TestGotaReadMissingFile(t *testing.T) {
	g := &Gota{}
	rc := &benchmark.RunContext{Context: context.Background(), Source: "/does/not/exist.csv"}
	_, err := g.read(rc)
	assert.Error(t, err)
}

func TestGotaFilter(t *testing.T) {
	g, rc := loadedContext(t, nil)

	rows, err := g.filter(rc)
	require.NoError(t, err)
	// x > 0.5 matches rows 1, 3 and 5.
	assert.Equal(t, int64(3), *rows)
}

func TestGotaAggregation(t *testing.T) {
	g, rc := loadedContext(t, nil)

	rows, err := g.aggregation(rc)
	require.NoError(t, err)
	assert.Equal(t, int64(1), *rows)
}

func TestGotaGroupBy(t *testing.T) {
	g, rc := loadedContext(t, nil)

	rows, err := g.groupBy(rc)
	require.NoError(t, err)
	// Three distinct names: alice, bob, carol.
	assert.Equal(t, int64(3), *rows)
}

func TestGotaSort(t *testing.T) {
	g, rc := loadedContext(t, nil)

	rows, err := g.sort(rc)
	require.NoError(t, err)
	assert.Equal(t, int64(5), *rows)
}

func TestGotaComplexQuery(t *testing.T) {
	g, rc := loadedContext(t, nil)

	rows, err := g.complexQuery(rc)
	require.NoError(t, err)
	// x > 0 and y < 1 leaves alice(0.9), bob(0.2), bob(0.6): two groups.
	assert.Equal(t, int64(2), *rows)
}

func TestOperationsRequireRead(t *testing.T) {
	g := &Gota{}
	rc := &benchmark.RunContext{Context: context.Background()}

	_, err := g.filter(rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read must run first")
}

func TestLimitLines(t *testing.T) {
	r := limitLines(strings.NewReader("a\nb\nc\nd\n"), 2)
	data := make([]byte, 64)
	var out []byte
	for {
		n, err := r.Read(data)
		out = append(out, data[:n]...)
		if err != nil {
			break
		}
		if n == 0 {
			break
		}
	}
	assert.Equal(t, "a\nb\n", string(out))
}
