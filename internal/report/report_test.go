package report

import (
	"strings"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/xtxerr/colbench/internal/bench"
	"github.com/xtxerr/colbench/internal/bench/stats"
	"github.com/xtxerr/colbench/internal/parquetio"
	"github.com/xtxerr/colbench/internal/zonemap"
)

func snapshot(avg, p50, p95, p99 float64) stats.Snapshot {
	return stats.Snapshot{
		Count: 10, Avg: avg, P50: p50, P95: p95, P99: p99,
		HasPercentiles: true,
	}
}

func TestRenderBench(t *testing.T) {
	results := []bench.Result{
		{Query: "os_breakdown", Variant: "baseline", Rows: 3, Stats: snapshot(40.0, 38.0, 55.0, 60.0)},
		{Query: "os_breakdown", Variant: "tuned", Rows: 3, Stats: snapshot(10.0, 9.0, 14.0, 15.0)},
		{Query: "brazil_age_band", Variant: "baseline", Rows: 1, Stats: snapshot(25.0, 24.0, 30.0, 31.0)},
		{Query: "brazil_age_band", Variant: "tuned", Rows: 1, Stats: snapshot(25.0, 24.0, 30.0, 31.0)},
	}

	var buf strings.Builder
	if err := RenderBench(&buf, results); err != nil {
		t.Fatalf("RenderBench: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"os_breakdown", "baseline", "tuned", "4.00x", "1.00x", "p95"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderBenchError(t *testing.T) {
	results := []bench.Result{
		{Query: "broken", Variant: "baseline", Err: "table missing"},
	}

	var buf strings.Builder
	if err := RenderBench(&buf, results); err != nil {
		t.Fatalf("RenderBench: %v", err)
	}
	if !strings.Contains(buf.String(), "error: table missing") {
		t.Errorf("error not reported:\n%s", buf.String())
	}
}

func TestRenderBenchEmpty(t *testing.T) {
	var buf strings.Builder
	if err := RenderBench(&buf, nil); err != nil {
		t.Fatalf("RenderBench: %v", err)
	}
	if !strings.Contains(buf.String(), "no results") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestRenderStorage(t *testing.T) {
	cands := roaring.New()
	cands.Add(0)

	cmp := StorageComparison{
		CSVPath:  "people.csv",
		CSVBytes: 10 * 1024 * 1024,
		Parquet: parquetio.Info{
			Path:      "people.parquet",
			FileBytes: 2 * 1024 * 1024,
			Rows:      50000,
			RowGroups: 5,
			Columns: []parquetio.ColumnFootprint{
				{Name: "name", CompressedBytes: 500_000, UncompressedBytes: 1_500_000},
				{Name: "age", CompressedBytes: 60_000, UncompressedBytes: 200_000},
			},
		},
		Prunings: []LabeledPruning{
			{Label: "age 25-30 (sorted)", Analysis: zonemap.Analysis{Total: 5, Candidates: cands, PrunedRatio: 0.8}},
		},
	}

	var buf strings.Builder
	if err := RenderStorage(&buf, cmp); err != nil {
		t.Fatalf("RenderStorage: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"people.csv", "people.parquet", "5.0x smaller",
		"Per-column footprint", "name", "3.0x",
		"Zone-map pruning", "age 25-30 (sorted)", "80%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 * 1024 * 1024, "3.0 MiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}
	for _, tc := range tests {
		if got := formatBytes(tc.n); got != tc.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}
