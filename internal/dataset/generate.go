package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var names = []string{"alice", "bob", "carol", "dan", "erin", "frank", "grace", "heidi"}

// Generate writes a synthetic timeseries CSV with the id,name,x,y,timestamp
// schema to path. The same seed always produces the same file, so generated
// fixtures are comparable across machines.
func Generate(path string, rows int64, seed int64) error {
	if rows <= 0 {
		return fmt.Errorf("rows must be positive, got %d", rows)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	w := csv.NewWriter(buf)

	if err := w.Write([]string{"id", "name", "x", "y", "timestamp"}); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(seed))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := int64(0); i < rows; i++ {
		record := []string{
			strconv.FormatInt(i, 10),
			names[rng.Intn(len(names))],
			strconv.FormatFloat(rng.Float64()*2-1, 'f', 6, 64),
			strconv.FormatFloat(rng.Float64()*2-1, 'f', 6, 64),
			start.Add(time.Duration(i) * time.Second).Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return buf.Flush()
}
