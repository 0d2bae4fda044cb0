// Package report renders benchmark and storage comparisons as plain text
// tables, readable on a projector during a talk.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/xtxerr/colbench/internal/bench"
	"github.com/xtxerr/colbench/internal/parquetio"
	"github.com/xtxerr/colbench/internal/zonemap"
)

// defaultWidth is used when stdout is not a terminal.
const defaultWidth = 100

// Width returns the rendering width: the terminal width when stdout is a
// terminal, a fixed default otherwise.
func Width() int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 40 {
			return w
		}
	}
	return defaultWidth
}

// RenderBench writes the latency comparison. Results are grouped per
// query with one line per variant plus the speedup of every variant
// against the first one.
func RenderBench(w io.Writer, results []bench.Result) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "no results")
		return nil
	}

	// Preserve first-seen query order.
	var order []string
	grouped := map[string][]bench.Result{}
	for _, r := range results {
		if _, ok := grouped[r.Query]; !ok {
			order = append(order, r.Query)
		}
		grouped[r.Query] = append(grouped[r.Query], r)
	}

	tw := newTableWriter(w, Width())

	fmt.Fprintln(w, "Query latencies (ms)")
	fmt.Fprintln(w, strings.Repeat("=", 40))
	fmt.Fprintln(w)

	tw.header("query", "variant", "runs", "rows", "avg", "p50", "p95", "p99", "speedup")

	for _, name := range order {
		group := grouped[name]
		baseline := group[0]

		for _, r := range group {
			if r.Err != "" {
				tw.row(r.Query, r.Variant, "-", "-", "-", "-", "-", "-", "error: "+r.Err)
				continue
			}

			speedup := "1.00x"
			if r.Variant != baseline.Variant && baseline.Err == "" && r.Stats.Avg > 0 {
				speedup = fmt.Sprintf("%.2fx", baseline.Stats.Avg/r.Stats.Avg)
			}

			tw.row(
				r.Query,
				r.Variant,
				fmt.Sprintf("%d", r.Stats.Count),
				fmt.Sprintf("%d", r.Rows),
				fmt.Sprintf("%.2f", r.Stats.Avg),
				fmt.Sprintf("%.2f", r.Stats.P50),
				fmt.Sprintf("%.2f", r.Stats.P95),
				fmt.Sprintf("%.2f", r.Stats.P99),
				speedup,
			)
		}
	}

	return tw.flush()
}

// StorageComparison feeds RenderStorage.
type StorageComparison struct {
	// CSVPath/CSVBytes describe the row-oriented file.
	CSVPath  string
	CSVBytes int64

	// Parquet describes the columnar file.
	Parquet parquetio.Info

	// Prunings are zone-map analyses to print alongside, keyed by a
	// human label like "age 25-40 (sorted)".
	Prunings []LabeledPruning
}

// LabeledPruning is one zone-map analysis with its display label.
type LabeledPruning struct {
	Label    string
	Analysis zonemap.Analysis
}

// RenderStorage writes the columnar-versus-row storage comparison and
// optional pruning summaries.
func RenderStorage(w io.Writer, c StorageComparison) error {
	fmt.Fprintln(w, "Storage footprint")
	fmt.Fprintln(w, strings.Repeat("=", 40))
	fmt.Fprintln(w)

	if c.CSVBytes > 0 {
		fmt.Fprintf(w, "  csv      %-40s %12s\n", c.CSVPath, formatBytes(c.CSVBytes))
	}
	fmt.Fprintf(w, "  parquet  %-40s %12s  (%d rows, %d row groups)\n",
		c.Parquet.Path, formatBytes(c.Parquet.FileBytes), c.Parquet.Rows, c.Parquet.RowGroups)

	if c.CSVBytes > 0 && c.Parquet.FileBytes > 0 {
		fmt.Fprintf(w, "  ratio    %.1fx smaller\n",
			float64(c.CSVBytes)/float64(c.Parquet.FileBytes))
	}

	if len(c.Parquet.Columns) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Per-column footprint")

		tw := newTableWriter(w, Width())
		tw.header("column", "compressed", "raw", "ratio")
		for _, col := range c.Parquet.Columns {
			ratio := "-"
			if col.CompressedBytes > 0 {
				ratio = fmt.Sprintf("%.1fx", float64(col.UncompressedBytes)/float64(col.CompressedBytes))
			}
			tw.row(col.Name, formatBytes(col.CompressedBytes), formatBytes(col.UncompressedBytes), ratio)
		}
		if err := tw.flush(); err != nil {
			return err
		}
	}

	if len(c.Prunings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Zone-map pruning")

		tw := newTableWriter(w, Width())
		tw.header("predicate", "blocks", "scanned", "pruned")
		for _, p := range c.Prunings {
			tw.row(
				p.Label,
				fmt.Sprintf("%d", p.Analysis.Total),
				fmt.Sprintf("%d", p.Analysis.Candidates.GetCardinality()),
				fmt.Sprintf("%.0f%%", p.Analysis.PrunedRatio*100),
			)
		}
		if err := tw.flush(); err != nil {
			return err
		}
	}

	return nil
}

// formatBytes renders a byte count with a binary unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
