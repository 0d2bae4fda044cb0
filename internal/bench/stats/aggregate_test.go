package stats

import (
	"math"
	"sync"
	"testing"
)

func TestStreamingAggregate_Basic(t *testing.T) {
	agg := New("os_breakdown", "baseline", false)

	if !agg.IsEmpty() {
		t.Error("new aggregate should be empty")
	}

	agg.Add(10.0)
	agg.Add(20.0)
	agg.Add(30.0)

	if agg.IsEmpty() {
		t.Error("aggregate should not be empty")
	}

	if agg.Count() != 3 {
		t.Errorf("expected count=3, got %d", agg.Count())
	}

	snap := agg.Result()

	if snap.Query != "os_breakdown" || snap.Variant != "baseline" {
		t.Errorf("identity lost: %+v", snap)
	}

	if snap.Count != 3 {
		t.Errorf("expected count=3, got %d", snap.Count)
	}
	if snap.Sum != 60.0 {
		t.Errorf("expected sum=60, got %f", snap.Sum)
	}
	if snap.Min != 10.0 {
		t.Errorf("expected min=10, got %f", snap.Min)
	}
	if snap.Max != 30.0 {
		t.Errorf("expected max=30, got %f", snap.Max)
	}
	if math.Abs(snap.Avg-20.0) > 0.001 {
		t.Errorf("expected avg=20, got %f", snap.Avg)
	}
	if snap.HasPercentiles {
		t.Error("should not have percentiles")
	}
}

func TestStreamingAggregate_Percentiles(t *testing.T) {
	agg := New("q", "tuned", true)

	for i := 1; i <= 1000; i++ {
		agg.Add(float64(i))
	}

	snap := agg.Result()
	if !snap.HasPercentiles {
		t.Fatal("expected percentiles")
	}

	// DDSketch guarantees 1% relative accuracy.
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"p50", snap.P50, 500},
		{"p90", snap.P90, 900},
		{"p95", snap.P95, 950},
		{"p99", snap.P99, 990},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want)/c.want > 0.02 {
			t.Errorf("%s = %f, want ~%f", c.name, c.got, c.want)
		}
	}

	if snap.P50 > snap.P90 || snap.P90 > snap.P95 || snap.P95 > snap.P99 {
		t.Errorf("percentiles not monotone: %+v", snap)
	}
}

func TestStreamingAggregate_Empty(t *testing.T) {
	snap := New("q", "baseline", true).Result()

	if snap.Count != 0 {
		t.Errorf("expected count=0, got %d", snap.Count)
	}
	if snap.Min != 0 || snap.Max != 0 || snap.Avg != 0 {
		t.Errorf("empty aggregate stats should be zero: %+v", snap)
	}
	if snap.HasPercentiles {
		t.Error("empty aggregate should not have percentiles")
	}
}

func TestStreamingAggregate_Concurrent(t *testing.T) {
	agg := New("q", "tuned", true)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				agg.Add(5.0)
			}
		}()
	}
	wg.Wait()

	if agg.Count() != 800 {
		t.Errorf("expected 800 observations, got %d", agg.Count())
	}
	if snap := agg.Result(); snap.Min != 5.0 || snap.Max != 5.0 {
		t.Errorf("unexpected bounds: %+v", snap)
	}
}

func TestNewWithAccuracy(t *testing.T) {
	agg := NewWithAccuracy("q", "baseline", 0.05)
	for i := 1; i <= 100; i++ {
		agg.Add(float64(i))
	}

	snap := agg.Result()
	if !snap.HasPercentiles {
		t.Fatal("expected percentiles")
	}
	if math.Abs(snap.P50-50)/50 > 0.1 {
		t.Errorf("p50 = %f, want ~50", snap.P50)
	}
}
