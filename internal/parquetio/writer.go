// Package parquetio reads and writes the benchmark's parquet files: the
// generated survey dataset and persisted benchmark results.
//
// The dataset file doubles as the columnar half of the storage comparison
// and as the input for zone-map pruning analysis.
package parquetio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"

	"github.com/xtxerr/colbench/internal/bench/stats"
	"github.com/xtxerr/colbench/internal/dataset"
	"github.com/xtxerr/colbench/internal/errors"
)

// Options configures the parquet writers.
type Options struct {
	// Compression algorithm
	Compression CompressionType

	// RowGroupRows is the target number of rows per row group. Smaller
	// groups mean more zone-map blocks at the cost of file overhead.
	RowGroupRows int
}

// CompressionType represents a parquet compression algorithm.
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionSnappy
	CompressionZstd
	CompressionLZ4
	CompressionGzip
)

// DefaultOptions returns default parquet options.
func DefaultOptions() Options {
	return Options{
		Compression:  CompressionZstd,
		RowGroupRows: 100_000,
	}
}

// ParseCompressionType parses a compression type string.
func ParseCompressionType(s string) CompressionType {
	switch s {
	case "snappy":
		return CompressionSnappy
	case "zstd":
		return CompressionZstd
	case "lz4":
		return CompressionLZ4
	case "gzip":
		return CompressionGzip
	case "none", "":
		return CompressionNone
	default:
		return CompressionZstd
	}
}

// String returns the config spelling of the compression type.
func (ct CompressionType) String() string {
	switch ct {
	case CompressionSnappy:
		return "snappy"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	case CompressionGzip:
		return "gzip"
	default:
		return "none"
	}
}

// getCompression returns the parquet-go compression codec.
func getCompression(ct CompressionType) compress.Codec {
	switch ct {
	case CompressionSnappy:
		return &parquet.Snappy
	case CompressionZstd:
		return &parquet.Zstd
	case CompressionLZ4:
		return &parquet.Lz4Raw
	case CompressionGzip:
		return &parquet.Gzip
	default:
		return &parquet.Uncompressed
	}
}

// DatasetRow is a survey row in parquet format. Column order matches the
// op_systems table so the file loads straight into the warehouse.
type DatasetRow struct {
	Name    string `parquet:"name,zstd"`
	Country string `parquet:"country,zstd"`
	State   string `parquet:"state,zstd"`
	Age     int32  `parquet:"age"`
	OS      string `parquet:"os,zstd"`
	Rich    string `parquet:"is_rich,zstd"`
	Insane  string `parquet:"is_insane,zstd"`
	Nice    string `parquet:"is_nice,zstd"`
	Reason  string `parquet:"reason,zstd"`
}

// ToDatasetRow converts a dataset row to its parquet form.
func ToDatasetRow(r dataset.Row) DatasetRow {
	return DatasetRow{
		Name:    r.Name,
		Country: r.Country,
		State:   r.State,
		Age:     int32(r.Age),
		OS:      r.OS,
		Rich:    r.Rich,
		Insane:  r.Insane,
		Nice:    r.Nice,
		Reason:  r.Reason,
	}
}

// FromDatasetRow converts a parquet row back to a dataset row.
func FromDatasetRow(r DatasetRow) dataset.Row {
	return dataset.Row{
		Name:    r.Name,
		Country: r.Country,
		State:   r.State,
		Age:     int(r.Age),
		OS:      r.OS,
		Rich:    r.Rich,
		Insane:  r.Insane,
		Nice:    r.Nice,
		Reason:  r.Reason,
	}
}

// ResultRow is one persisted benchmark result.
type ResultRow struct {
	Query      string  `parquet:"query,zstd"`
	Variant    string  `parquet:"variant,zstd"`
	Iterations int64   `parquet:"iterations"`
	Rows       int64   `parquet:"rows"`
	AvgMs      float64 `parquet:"avg_ms"`
	MinMs      float64 `parquet:"min_ms"`
	MaxMs      float64 `parquet:"max_ms"`
	P50Ms      float64 `parquet:"p50_ms,optional"`
	P90Ms      float64 `parquet:"p90_ms,optional"`
	P95Ms      float64 `parquet:"p95_ms,optional"`
	P99Ms      float64 `parquet:"p99_ms,optional"`
	UnixMs     int64   `parquet:"unix_ms"`
}

// SnapshotToResultRow converts a stats snapshot plus run metadata.
func SnapshotToResultRow(s stats.Snapshot, rows int64, at time.Time) ResultRow {
	r := ResultRow{
		Query:      s.Query,
		Variant:    s.Variant,
		Iterations: s.Count,
		Rows:       rows,
		AvgMs:      s.Avg,
		MinMs:      s.Min,
		MaxMs:      s.Max,
		UnixMs:     at.UnixMilli(),
	}
	if s.HasPercentiles {
		r.P50Ms = s.P50
		r.P90Ms = s.P90
		r.P95Ms = s.P95
		r.P99Ms = s.P99
	}
	return r
}

// DatasetWriter writes survey rows to a parquet file.
type DatasetWriter struct {
	mu        sync.Mutex
	path      string
	file      *os.File
	writer    *parquet.GenericWriter[DatasetRow]
	groupRows int
	inGroup   int
	rowCount  int64
	closed    bool
}

// NewDatasetWriter creates a dataset parquet writer.
func NewDatasetWriter(path string, opts Options) (*DatasetWriter, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	writer := parquet.NewGenericWriter[DatasetRow](f,
		parquet.Compression(getCompression(opts.Compression)))

	groupRows := opts.RowGroupRows
	if groupRows <= 0 {
		groupRows = DefaultOptions().RowGroupRows
	}

	return &DatasetWriter{
		path:      path,
		file:      f,
		writer:    writer,
		groupRows: groupRows,
	}, nil
}

// Write writes rows to the parquet file, cutting a row group whenever
// the configured group size fills up.
func (w *DatasetWriter) Write(rows []dataset.Row) error {
	if len(rows) == 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return errors.ErrWriterClosed
	}

	for len(rows) > 0 {
		n := w.groupRows - w.inGroup
		if n > len(rows) {
			n = len(rows)
		}

		out := make([]DatasetRow, n)
		for i := 0; i < n; i++ {
			out[i] = ToDatasetRow(rows[i])
		}

		written, err := w.writer.Write(out)
		if err != nil {
			return fmt.Errorf("write rows: %w", err)
		}
		w.rowCount += int64(written)
		w.inGroup += written
		rows = rows[n:]

		if w.inGroup >= w.groupRows {
			if err := w.writer.Flush(); err != nil {
				return fmt.Errorf("flush row group: %w", err)
			}
			w.inGroup = 0
		}
	}

	return nil
}

// Close closes the writer. Closing twice is a no-op.
func (w *DatasetWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("close writer: %w", err)
	}

	return w.file.Close()
}

// RowCount returns the number of rows written.
func (w *DatasetWriter) RowCount() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rowCount
}

// Path returns the file path.
func (w *DatasetWriter) Path() string {
	return w.path
}

// WriteDataset writes all rows to path in one shot.
func WriteDataset(path string, rows []dataset.Row, opts Options) error {
	w, err := NewDatasetWriter(path, opts)
	if err != nil {
		return err
	}
	if err := w.Write(rows); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// WriteResults writes benchmark results to path.
func WriteResults(path string, results []ResultRow, opts Options) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	writer := parquet.NewGenericWriter[ResultRow](f,
		parquet.Compression(getCompression(opts.Compression)))

	if len(results) > 0 {
		if _, err := writer.Write(results); err != nil {
			writer.Close()
			f.Close()
			return fmt.Errorf("write results: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close writer: %w", err)
	}
	return f.Close()
}
