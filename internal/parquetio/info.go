package parquetio

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
)

// ColumnFootprint is the on-disk footprint of one column across all
// row groups.
type ColumnFootprint struct {
	Name              string
	CompressedBytes   int64
	UncompressedBytes int64
}

// Info describes a parquet file's physical shape. It feeds the columnar
// storage comparison in the report.
type Info struct {
	Path      string
	FileBytes int64
	Rows      int64
	RowGroups int
	Columns   []ColumnFootprint
}

// FileInfo inspects a parquet file's metadata without scanning data pages.
func FileInfo(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return Info{}, fmt.Errorf("stat file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return Info{}, fmt.Errorf("open parquet: %w", err)
	}

	info := Info{
		Path:      path,
		FileBytes: stat.Size(),
		Rows:      pf.NumRows(),
		RowGroups: len(pf.RowGroups()),
	}

	fields := pf.Schema().Fields()
	footprints := make([]ColumnFootprint, len(fields))
	for i, field := range fields {
		footprints[i].Name = field.Name()
	}

	for _, rg := range pf.Metadata().RowGroups {
		for i, col := range rg.Columns {
			if i >= len(footprints) {
				break
			}
			footprints[i].CompressedBytes += col.MetaData.TotalCompressedSize
			footprints[i].UncompressedBytes += col.MetaData.TotalUncompressedSize
		}
	}

	info.Columns = footprints
	return info, nil
}
