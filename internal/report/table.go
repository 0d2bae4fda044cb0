package report

import (
	"fmt"
	"io"
	"strings"
)

// tableWriter buffers rows and renders them with columns padded to the
// widest cell, truncating the first column when the line would exceed
// the target width.
type tableWriter struct {
	w     io.Writer
	width int
	rows  [][]string
}

func newTableWriter(w io.Writer, width int) *tableWriter {
	return &tableWriter{w: w, width: width}
}

func (t *tableWriter) header(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *tableWriter) row(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *tableWriter) flush() error {
	if len(t.rows) == 0 {
		return nil
	}

	cols := len(t.rows[0])
	widths := make([]int, cols)
	for _, r := range t.rows {
		for i, c := range r {
			if i < cols && len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}

	// Shrink the first column if the full line does not fit.
	total := 2
	for _, w := range widths {
		total += w + 2
	}
	if total > t.width && widths[0] > 12 {
		excess := total - t.width
		if widths[0]-excess < 12 {
			widths[0] = 12
		} else {
			widths[0] -= excess
		}
	}

	for i, r := range t.rows {
		var b strings.Builder
		b.WriteString("  ")
		for j, c := range r {
			if j >= cols {
				break
			}
			if len(c) > widths[j] {
				c = c[:widths[j]-1] + "~"
			}
			if j == cols-1 {
				b.WriteString(c)
			} else {
				fmt.Fprintf(&b, "%-*s  ", widths[j], c)
			}
		}
		if _, err := fmt.Fprintln(t.w, strings.TrimRight(b.String(), " ")); err != nil {
			return err
		}
		if i == 0 {
			sep := "  " + strings.Repeat("-", lineWidth(widths))
			if _, err := fmt.Fprintln(t.w, sep); err != nil {
				return err
			}
		}
	}

	t.rows = t.rows[:0]
	return nil
}

func lineWidth(widths []int) int {
	n := 0
	for _, w := range widths {
		n += w + 2
	}
	if n > 2 {
		n -= 2
	}
	return n
}
