// Package stats maintains running latency statistics for benchmark runs.
package stats

import (
	"math"
	"sync"

	"github.com/DataDog/sketches-go/ddsketch"
)

// StreamingAggregate maintains running statistics for one (query, variant)
// pair. It supports optional percentile calculation using DDSketch.
type StreamingAggregate struct {
	mu sync.Mutex

	// Identity
	query   string
	variant string

	// Running statistics
	count int64
	sum   float64
	min   float64
	max   float64

	// DDSketch for percentiles (nil if disabled)
	sketch *ddsketch.DDSketch
}

// New creates a StreamingAggregate. When enablePercentile is set,
// percentiles are tracked with the default 1% relative accuracy.
func New(query, variant string, enablePercentile bool) *StreamingAggregate {
	agg := &StreamingAggregate{
		query:   query,
		variant: variant,
		min:     math.MaxFloat64,
		max:     -math.MaxFloat64,
	}

	if enablePercentile {
		sketch, err := ddsketch.NewDefaultDDSketch(0.01)
		if err == nil {
			agg.sketch = sketch
		}
	}

	return agg
}

// NewWithAccuracy creates a StreamingAggregate with custom percentile
// relative accuracy.
func NewWithAccuracy(query, variant string, accuracy float64) *StreamingAggregate {
	agg := &StreamingAggregate{
		query:   query,
		variant: variant,
		min:     math.MaxFloat64,
		max:     -math.MaxFloat64,
	}

	sketch, err := ddsketch.NewDefaultDDSketch(accuracy)
	if err == nil {
		agg.sketch = sketch
	}

	return agg
}

// Add records one latency observation in milliseconds.
func (a *StreamingAggregate) Add(ms float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.count++
	a.sum += ms

	if ms < a.min {
		a.min = ms
	}
	if ms > a.max {
		a.max = ms
	}

	if a.sketch != nil {
		a.sketch.Add(ms)
	}
}

// Count returns the number of observations.
func (a *StreamingAggregate) Count() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}

// IsEmpty returns true if no observations have been added.
func (a *StreamingAggregate) IsEmpty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count == 0
}

// Snapshot is the frozen result of an aggregate.
type Snapshot struct {
	Query   string
	Variant string

	Count int64
	Sum   float64
	Min   float64
	Max   float64
	Avg   float64

	P50 float64
	P90 float64
	P95 float64
	P99 float64

	// HasPercentiles reports whether the percentile fields are populated.
	HasPercentiles bool
}

// Result returns the aggregation result.
func (a *StreamingAggregate) Result() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := Snapshot{
		Query:   a.query,
		Variant: a.variant,
		Count:   a.count,
		Sum:     a.sum,
	}

	if a.count > 0 {
		snap.Avg = a.sum / float64(a.count)
		snap.Min = a.min
		snap.Max = a.max
	}

	if a.sketch != nil && a.count > 0 {
		p50, err50 := a.sketch.GetValueAtQuantile(0.50)
		p90, err90 := a.sketch.GetValueAtQuantile(0.90)
		p95, err95 := a.sketch.GetValueAtQuantile(0.95)
		p99, err99 := a.sketch.GetValueAtQuantile(0.99)

		if err50 == nil && err90 == nil && err95 == nil && err99 == nil {
			snap.P50 = p50
			snap.P90 = p90
			snap.P95 = p95
			snap.P99 = p99
			snap.HasPercentiles = true
		}
	}

	return snap
}
