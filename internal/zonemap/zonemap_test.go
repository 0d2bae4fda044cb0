package zonemap

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/xtxerr/colbench/internal/dataset"
	"github.com/xtxerr/colbench/internal/errors"
	"github.com/xtxerr/colbench/internal/parquetio"
)

// writeRows writes rows to a parquet file with small row groups so the
// zone map has several blocks to work with.
func writeRows(t *testing.T, name string, rows []dataset.Row) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	opts := parquetio.DefaultOptions()
	opts.RowGroupRows = 2000
	if err := parquetio.WriteDataset(path, rows, opts); err != nil {
		t.Fatalf("write parquet: %v", err)
	}
	return path
}

func TestInspect(t *testing.T) {
	rows := dataset.New(1).Rows(2000)
	path := writeRows(t, "survey.parquet", rows)

	stats, err := Inspect(path, "age")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	if stats.Rows != 2000 {
		t.Errorf("rows = %d, want 2000", stats.Rows)
	}
	if len(stats.Blocks) == 0 {
		t.Fatal("no blocks with bounds")
	}

	for _, b := range stats.Blocks {
		min, max := intValue(b.Min), intValue(b.Max)
		if min < 18 || max > 75 || min > max {
			t.Errorf("block %d: bounds [%d, %d] outside age domain", b.Index, min, max)
		}
	}
}

func TestInspect_MissingColumn(t *testing.T) {
	path := writeRows(t, "survey.parquet", dataset.New(1).Rows(10))

	_, err := Inspect(path, "no_such_column")
	if !errors.Is(err, errors.ErrColumnNotFound) {
		t.Errorf("expected ErrColumnNotFound, got %v", err)
	}
}

func TestPruneInt_SortedVsUnsorted(t *testing.T) {
	rows := dataset.New(3).Rows(50_000)

	unsortedPath := writeRows(t, "unsorted.parquet", rows)

	srtd := make([]dataset.Row, len(rows))
	copy(srtd, rows)
	sort.Slice(srtd, func(i, j int) bool { return srtd[i].Age < srtd[j].Age })
	sortedPath := writeRows(t, "sorted.parquet", srtd)

	unsorted, err := Inspect(unsortedPath, "age")
	if err != nil {
		t.Fatalf("inspect unsorted: %v", err)
	}
	sorted, err := Inspect(sortedPath, "age")
	if err != nil {
		t.Fatalf("inspect sorted: %v", err)
	}

	if len(sorted.Blocks) < 2 || len(unsorted.Blocks) < 2 {
		t.Skipf("file produced too few row groups to compare (%d/%d)",
			len(sorted.Blocks), len(unsorted.Blocks))
	}

	// A narrow band prunes on the sorted file and not on the unsorted one,
	// where each block spans nearly the full age domain.
	su := unsorted.PruneInt(25, 30)
	ss := sorted.PruneInt(25, 30)

	if su.PrunedRatio > 0.5 {
		t.Errorf("unsorted file pruned %f of blocks, expected close to none", su.PrunedRatio)
	}
	if ss.PrunedRatio <= su.PrunedRatio {
		t.Errorf("sorted prune ratio %f not better than unsorted %f",
			ss.PrunedRatio, su.PrunedRatio)
	}
	if ss.Candidates.GetCardinality() == 0 {
		t.Error("sorted prune kept no candidate blocks for an in-domain range")
	}
}

func TestPruneInt_FullRange(t *testing.T) {
	path := writeRows(t, "survey.parquet", dataset.New(5).Rows(5000))

	stats, err := Inspect(path, "age")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	a := stats.PruneInt(0, 200)
	if a.PrunedRatio != 0 {
		t.Errorf("full-domain predicate pruned %f of blocks", a.PrunedRatio)
	}
	if int(a.Candidates.GetCardinality()) != a.Total {
		t.Errorf("candidates %d != total %d", a.Candidates.GetCardinality(), a.Total)
	}

	// Out-of-domain ranges prune everything.
	b := stats.PruneInt(500, 600)
	if b.Candidates.GetCardinality() != 0 {
		t.Errorf("out-of-domain predicate kept %d blocks", b.Candidates.GetCardinality())
	}
	if b.PrunedRatio != 1 {
		t.Errorf("out-of-domain prune ratio = %f, want 1", b.PrunedRatio)
	}
}

func TestPruneString(t *testing.T) {
	rows := dataset.New(7).Rows(20_000)
	sort.Slice(rows, func(i, j int) bool { return rows[i].OS < rows[j].OS })
	path := writeRows(t, "by_os.parquet", rows)

	stats, err := Inspect(path, "os")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	a := stats.PruneString("mac", "mac")
	if int(a.Candidates.GetCardinality()) == 0 {
		t.Error("no candidate blocks for an existing os value")
	}

	b := stats.PruneString("zos", "zos")
	if b.Candidates.GetCardinality() != 0 {
		t.Errorf("nonexistent value kept %d blocks", b.Candidates.GetCardinality())
	}
}

func TestPrune_EmptyStats(t *testing.T) {
	a := Stats{}.PruneInt(1, 2)
	if a.Total != 0 || a.PrunedRatio != 0 {
		t.Errorf("empty stats: %+v", a)
	}
}
