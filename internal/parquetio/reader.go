package parquetio

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/xtxerr/colbench/internal/dataset"
)

// ReadDataset reads all survey rows from a parquet file.
func ReadDataset(path string) ([]dataset.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	reader := parquet.NewGenericReader[DatasetRow](f)
	defer reader.Close()

	numRows := reader.NumRows()
	if numRows == 0 {
		return nil, nil
	}

	raw := make([]DatasetRow, numRows)
	n, err := reader.Read(raw)
	if err != nil && n == 0 {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	rows := make([]dataset.Row, n)
	for i := 0; i < n; i++ {
		rows[i] = FromDatasetRow(raw[i])
	}
	return rows, nil
}

// ReadResults reads all benchmark results from a parquet file.
func ReadResults(path string) ([]ResultRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	reader := parquet.NewGenericReader[ResultRow](f)
	defer reader.Close()

	numRows := reader.NumRows()
	if numRows == 0 {
		return nil, nil
	}

	rows := make([]ResultRow, numRows)
	n, err := reader.Read(rows)
	if err != nil && n == 0 {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	return rows[:n], nil
}
