// Package console provides an interactive SQL prompt against the
// warehouse, with completion for keywords, table and column names.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/c-bata/go-prompt"

	"github.com/xtxerr/colbench/config"
	"github.com/xtxerr/colbench/internal/errors"
	"github.com/xtxerr/colbench/internal/logging"
	"github.com/xtxerr/colbench/internal/warehouse"
)

// Console is an interactive read-eval-print loop over a warehouse.
type Console struct {
	wh      *warehouse.Warehouse
	out     io.Writer
	maxRows int
	timing  bool
	done    bool
}

// New creates a console writing results to out.
func New(wh *warehouse.Warehouse, out io.Writer) *Console {
	return &Console{
		wh:      wh,
		out:     out,
		maxRows: config.DefaultConsoleMaxRows,
	}
}

// Run starts the prompt loop and blocks until the user exits.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "colbench console. Type a query, .help for commands, exit to leave.")

	p := prompt.New(
		func(line string) { c.execute(ctx, line) },
		c.complete,
		prompt.OptionPrefix("colbench> "),
		prompt.OptionTitle("colbench"),
		prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
			return c.done
		}),
	)
	p.Run()
	return nil
}

// execute handles one input line: a meta command or a SQL statement.
func (c *Console) execute(ctx context.Context, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	switch {
	case line == "exit" || line == "quit" || line == `\q`:
		c.done = true
		return
	case strings.HasPrefix(line, "."):
		c.meta(ctx, line)
		return
	}

	start := time.Now()
	if err := c.runQuery(ctx, line); err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return
	}
	if c.timing {
		fmt.Fprintf(c.out, "(%s)\n", time.Since(start).Round(time.Millisecond))
	}
}

func (c *Console) meta(ctx context.Context, line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ".help":
		fmt.Fprintln(c.out, "  .tables          list tables")
		fmt.Fprintln(c.out, "  .schema TABLE    show columns of TABLE")
		fmt.Fprintln(c.out, "  .timing on|off   toggle query timing")
		fmt.Fprintln(c.out, "  exit             leave the console")
	case ".tables":
		names, err := c.wh.TableNames(ctx)
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
			return
		}
		for _, n := range names {
			if est, err := c.wh.EstimatedRows(ctx, n); err == nil {
				fmt.Fprintf(c.out, "  %-24s ~%d rows\n", n, est)
			} else {
				fmt.Fprintln(c.out, "  "+n)
			}
		}
	case ".schema":
		if len(fields) < 2 {
			fmt.Fprintln(c.out, "usage: .schema TABLE")
			return
		}
		cols, err := c.wh.ColumnNames(ctx, fields[1])
		if errors.IsNotFound(err) {
			fmt.Fprintf(c.out, "no such table: %s\n", fields[1])
			return
		}
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
			return
		}
		for _, col := range cols {
			fmt.Fprintln(c.out, "  "+col)
		}
	case ".timing":
		if len(fields) < 2 || (fields[1] != "on" && fields[1] != "off") {
			fmt.Fprintln(c.out, "usage: .timing on|off")
			return
		}
		c.timing = fields[1] == "on"
		fmt.Fprintf(c.out, "timing %s\n", fields[1])
	default:
		fmt.Fprintf(c.out, "unknown command %s, try .help\n", fields[0])
	}
}

// runQuery executes one SQL statement and prints a column-aligned
// result capped at maxRows.
func (c *Console) runQuery(ctx context.Context, sql string) error {
	qctx, cancel := context.WithTimeout(ctx, c.wh.QueryTimeout())
	defer cancel()

	rows, err := c.wh.DB().QueryContext(qctx, sql)
	if err != nil {
		return err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	var (
		out       [][]string
		truncated bool
		total     int
	)
	for rows.Next() {
		total++
		if total > c.maxRows {
			truncated = true
			continue
		}
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			rec[i] = formatValue(v)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	printAligned(c.out, cols, out)
	if truncated {
		fmt.Fprintf(c.out, "... %d rows total, showing first %d\n", total, c.maxRows)
	} else {
		fmt.Fprintf(c.out, "%d row(s)\n", total)
	}
	return nil
}

// complete suggests SQL keywords, table names and column names for the
// current word.
func (c *Console) complete(d prompt.Document) []prompt.Suggest {
	word := d.GetWordBeforeCursor()
	if word == "" {
		return nil
	}

	var suggestions []prompt.Suggest
	for _, kw := range sqlKeywords {
		suggestions = append(suggestions, prompt.Suggest{Text: kw})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	names, err := c.wh.TableNames(ctx)
	if err == nil {
		for _, n := range names {
			suggestions = append(suggestions, prompt.Suggest{Text: n, Description: "table"})
			cols, err := c.wh.ColumnNames(ctx, n)
			if err != nil {
				continue
			}
			for _, col := range cols {
				suggestions = append(suggestions, prompt.Suggest{Text: col, Description: n})
			}
		}
	} else {
		logging.Debug("completion lookup failed", "error", err)
	}

	return prompt.FilterHasPrefix(suggestions, word, true)
}

var sqlKeywords = []string{
	"SELECT", "FROM", "WHERE", "GROUP BY", "ORDER BY", "LIMIT",
	"COUNT", "AVG", "MIN", "MAX", "SUM", "DISTINCT", "BETWEEN",
	"AND", "OR", "NOT", "LIKE", "IN", "AS", "JOIN", "ON",
	"ANALYZE", "EXPLAIN", "random()",
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case float64:
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// printAligned writes header plus rows with each column padded to its
// widest cell.
func printAligned(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i, c := range r {
			if i < len(widths) && len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}

	printRow := func(cells []string) {
		var b strings.Builder
		for i, c := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%-*s", widths[i], c)
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}

	printRow(header)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = strings.Repeat("-", widths[i])
	}
	printRow(sep)
	for _, r := range rows {
		printRow(r)
	}
}

// Interactive reports whether stdin is a terminal; the prompt loop is
// only useful when it is.
func Interactive() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
