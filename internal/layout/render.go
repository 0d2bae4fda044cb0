package layout

import (
	"context"
	"fmt"
	"strings"

	"github.com/xtxerr/colbench/internal/errors"
	"github.com/xtxerr/colbench/internal/warehouse"
)

// Statements renders the layout as an ordered list of SQL statements,
// without trailing semicolons.
func (l Layout) Statements(d Dialect) ([]string, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	switch d {
	case DialectRedshift:
		return l.redshiftStatements()
	case DialectDuckDB:
		return l.duckdbStatements()
	default:
		return nil, fmt.Errorf("dialect %q: %w", d, errors.ErrInvalidDialect)
	}
}

// Render renders the layout as a runnable SQL script.
func (l Layout) Render(d Dialect) (string, error) {
	stmts, err := l.Statements(d)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, s := range stmts {
		sb.WriteString(s)
		sb.WriteString(";\n\n")
	}
	return sb.String(), nil
}

func (l Layout) selectList(d Dialect) (string, error) {
	parts := []string{"    s.*"}
	for _, c := range l.Computed {
		e, err := c.expr(d)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("    %s AS %s", e, c.Name))
	}
	return strings.Join(parts, ",\n"), nil
}

func (l Layout) redshiftStatements() ([]string, error) {
	sel, err := l.selectList(DialectRedshift)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE %s\n", l.Name)

	switch l.DistStyle {
	case DistKey:
		fmt.Fprintf(&sb, "DISTKEY (%s)\n", l.DistKey)
	case DistAll:
		sb.WriteString("DISTSTYLE ALL\n")
	default:
		sb.WriteString("DISTSTYLE EVEN\n")
	}

	if len(l.SortKeys) > 0 {
		fmt.Fprintf(&sb, "SORTKEY (%s)\n", strings.Join(l.SortKeys, ", "))
	}

	fmt.Fprintf(&sb, "AS\nSELECT\n%s\nFROM %s AS s", sel, l.Source)

	return []string{
		sb.String(),
		fmt.Sprintf("ANALYZE %s", l.Name),
	}, nil
}

func (l Layout) duckdbStatements() ([]string, error) {
	sel, err := l.selectList(DialectDuckDB)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	// A single-node engine has no row distribution; the dist key is kept
	// as an annotation so emitted and executed layouts stay in sync.
	if l.DistStyle == DistKey {
		fmt.Fprintf(&sb, "-- distribution: key(%s)\n", l.DistKey)
	} else {
		fmt.Fprintf(&sb, "-- distribution: %s\n", l.DistStyle)
	}

	fmt.Fprintf(&sb, "CREATE TABLE %s AS\nSELECT\n%s\nFROM %s AS s", l.Name, sel, l.Source)

	if len(l.SortKeys) > 0 {
		keys := make([]string, len(l.SortKeys))
		for i, k := range l.SortKeys {
			keys[i] = "s." + k
		}
		fmt.Fprintf(&sb, "\nORDER BY %s", strings.Join(keys, ", "))
	}

	return []string{
		sb.String(),
		"ANALYZE",
	}, nil
}

// Apply builds the layout's table in the warehouse, replacing any
// previous build, and refreshes planner statistics.
func (l Layout) Apply(ctx context.Context, w *warehouse.Warehouse) error {
	stmts, err := l.Statements(DialectDuckDB)
	if err != nil {
		return err
	}

	if err := w.DropTable(ctx, l.Name); err != nil {
		return err
	}

	for _, stmt := range stmts {
		if _, err := w.DB().ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply layout %s: %w", l.Name, err)
		}
	}
	return nil
}
