// Package engine defines the dataframe-engine boundary. The harness
// measures around the operations an engine exposes; it never touches the
// columnar data itself.
package engine

import (
	"fmt"
	"sort"

	"dfbench/internal/benchmark"
)

// Canonical operation names. These are the join keys the comparison
// engine aligns on, so every implementation under comparison must use
// them verbatim.
const (
	OpRead         = "read"
	OpFilter       = "filter"
	OpAggregation  = "aggregation"
	OpGroupBy      = "group_by"
	OpSort         = "sort"
	OpComplexQuery = "complex_query"
)

// Engine is one implementation of the canonical operation suite. Steps
// returns the operations in execution order; the first loads the dataset
// into the run context and the rest operate on it.
type Engine interface {
	Name() string
	Steps() []benchmark.Step
}

var registry = map[string]func() Engine{}

// Register makes an engine constructor available under name. Called from
// adapter init functions.
func Register(name string, constructor func() Engine) {
	registry[name] = constructor
}

// New instantiates a registered engine.
func New(name string) (Engine, error) {
	constructor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine %q (available: %v)", name, Names())
	}
	return constructor(), nil
}

// Names lists the registered engines in stable order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
