// Package zonemap analyzes zone-map pruning over parquet files.
//
// A zone map is the per-block min/max index an analytic engine consults
// before reading a block: if a predicate range cannot intersect
// [min, max], the block is skipped. Sorting a table on the filtered
// column tightens the per-block ranges, which is the whole point of a
// sort key. This package reads row-group column bounds from parquet
// metadata and reports how many blocks a range predicate would prune.
package zonemap

import (
	"fmt"
	"os"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/parquet-go/parquet-go"

	"github.com/xtxerr/colbench/internal/errors"
)

// Block holds the zone-map entry of one row group.
type Block struct {
	Index int
	Rows  int64
	Min   parquet.Value
	Max   parquet.Value
}

// Stats is the zone map of one column across a file.
type Stats struct {
	Path   string
	Column string
	Rows   int64
	Blocks []Block
}

// Analysis is the outcome of applying a range predicate to a zone map.
type Analysis struct {
	// Total is the number of blocks in the file.
	Total int

	// Candidates holds the indexes of blocks whose [min, max] range
	// intersects the predicate and must be read.
	Candidates *roaring.Bitmap

	// PrunedRatio is the fraction of blocks skipped, 0..1.
	PrunedRatio float64
}

// Inspect reads the zone map of column from a parquet file.
func Inspect(path, column string) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return Stats{}, fmt.Errorf("stat file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return Stats{}, fmt.Errorf("open parquet: %w", err)
	}

	colIdx := -1
	for i, field := range pf.Schema().Fields() {
		if field.Name() == column {
			colIdx = i
			break
		}
	}
	if colIdx < 0 {
		return Stats{}, fmt.Errorf("column %q in %s: %w", column, path, errors.ErrColumnNotFound)
	}

	stats := Stats{
		Path:   path,
		Column: column,
		Rows:   pf.NumRows(),
	}

	for i, rg := range pf.RowGroups() {
		chunk := rg.ColumnChunks()[colIdx]

		fileChunk, ok := chunk.(*parquet.FileColumnChunk)
		if !ok {
			continue
		}

		min, max, hasBounds := fileChunk.Bounds()
		if !hasBounds {
			continue
		}

		stats.Blocks = append(stats.Blocks, Block{
			Index: i,
			Rows:  rg.NumRows(),
			Min:   min,
			Max:   max,
		})
	}

	return stats, nil
}

// PruneInt applies the predicate lo <= column <= hi to an integer
// column's zone map.
func (s Stats) PruneInt(lo, hi int64) Analysis {
	return s.prune(func(b Block) bool {
		min, max := intValue(b.Min), intValue(b.Max)
		return max >= lo && min <= hi
	})
}

// PruneString applies the predicate lo <= column <= hi to a string
// column's zone map. Comparison is bytewise, matching parquet ordering
// for UTF8 columns.
func (s Stats) PruneString(lo, hi string) Analysis {
	return s.prune(func(b Block) bool {
		min, max := b.Min.String(), b.Max.String()
		return max >= lo && min <= hi
	})
}

func (s Stats) prune(overlaps func(Block) bool) Analysis {
	a := Analysis{
		Total:      len(s.Blocks),
		Candidates: roaring.New(),
	}

	for _, b := range s.Blocks {
		if overlaps(b) {
			a.Candidates.Add(uint32(b.Index))
		}
	}

	if a.Total > 0 {
		a.PrunedRatio = 1 - float64(a.Candidates.GetCardinality())/float64(a.Total)
	}
	return a
}

// intValue widens any integer-kinded parquet value to int64.
func intValue(v parquet.Value) int64 {
	switch v.Kind() {
	case parquet.Int32:
		return int64(v.Int32())
	case parquet.Int64:
		return v.Int64()
	case parquet.Double:
		return int64(v.Double())
	default:
		return 0
	}
}
