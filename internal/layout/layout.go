// Package layout models analytic table layouts: distribution style,
// sort keys and precomputed columns.
//
// A Layout renders to two SQL dialects. The redshift dialect produces the
// DISTKEY/SORTKEY DDL used against a real cluster; the duckdb dialect
// produces an executable equivalent where physical row order (ORDER BY on
// build) stands in for the sort key, which is what drives zone-map pruning
// in both engines.
package layout

import (
	"fmt"

	"github.com/xtxerr/colbench/config"
	"github.com/xtxerr/colbench/internal/errors"
	"github.com/xtxerr/colbench/internal/warehouse"
)

// Dialect selects the SQL flavor a layout renders to.
type Dialect string

const (
	DialectDuckDB   Dialect = "duckdb"
	DialectRedshift Dialect = "redshift"
)

// DistStyle is the row distribution strategy across compute nodes.
type DistStyle string

const (
	DistEven DistStyle = "even"
	DistKey  DistStyle = "key"
	DistAll  DistStyle = "all"
)

// Computed is a column precomputed at build time, with one expression
// per dialect.
type Computed struct {
	Name     string
	Redshift string
	DuckDB   string
}

// Layout describes how a derived table is physically organized.
type Layout struct {
	// Name is the table the layout builds.
	Name string

	// Source is the table the layout selects from.
	Source string

	// DistStyle controls row placement; DistKey names the column when
	// the style is "key".
	DistStyle DistStyle
	DistKey   string

	// SortKeys order rows on disk, enabling range pruning.
	SortKeys []string

	// Computed columns are appended to the source columns.
	Computed []Computed
}

// TunedLayout is the canonical tuned table of the demo: distributed by
// country, sorted by (os, age), with a name hash and a reason snippet
// precomputed.
func TunedLayout() Layout {
	return Layout{
		Name:      config.TableTuned,
		Source:    config.TableInflated,
		DistStyle: DistKey,
		DistKey:   "country",
		SortKeys:  []string{"os", "age"},
		Computed: []Computed{
			{
				Name:     "name_hash",
				Redshift: "FUNC_SHA1(s.name)",
				DuckDB:   "md5(s.name)",
			},
			{
				Name:     "reason_snippet",
				Redshift: "LEFT(s.reason, 24)",
				DuckDB:   "left(s.reason, 24)",
			},
		},
	}
}

// Validate checks layout consistency.
func (l Layout) Validate() error {
	v := errors.NewValidationErrors()

	if !warehouse.ValidIdent(l.Name) {
		v.Addf("layout name %q: %w", l.Name, errors.ErrInvalidName)
	}
	if !warehouse.ValidIdent(l.Source) {
		v.Addf("layout source %q: %w", l.Source, errors.ErrInvalidName)
	}
	if l.Name == l.Source {
		v.Addf("layout %q: source and destination are the same table: %w",
			l.Name, errors.ErrInvalidLayout)
	}

	switch l.DistStyle {
	case DistEven, DistAll:
		if l.DistKey != "" {
			v.Addf("layout %q: dist key set with style %q: %w",
				l.Name, l.DistStyle, errors.ErrInvalidLayout)
		}
	case DistKey:
		if l.DistKey == "" {
			v.Addf("layout %q: dist style key requires a dist key: %w",
				l.Name, errors.ErrInvalidLayout)
		} else if !warehouse.ValidIdent(l.DistKey) {
			v.Addf("dist key %q: %w", l.DistKey, errors.ErrInvalidName)
		}
	default:
		v.Addf("layout %q: unknown dist style %q: %w",
			l.Name, l.DistStyle, errors.ErrInvalidLayout)
	}

	seen := map[string]bool{}
	for _, k := range l.SortKeys {
		if !warehouse.ValidIdent(k) {
			v.Addf("sort key %q: %w", k, errors.ErrInvalidName)
			continue
		}
		if seen[k] {
			v.Addf("sort key %q repeated: %w", k, errors.ErrInvalidLayout)
		}
		seen[k] = true
	}

	for _, c := range l.Computed {
		if !warehouse.ValidIdent(c.Name) {
			v.Addf("computed column %q: %w", c.Name, errors.ErrInvalidName)
			continue
		}
		if seen[c.Name] {
			v.Addf("computed column %q collides with a sort key: %w",
				c.Name, errors.ErrInvalidLayout)
		}
		seen[c.Name] = true
		if c.Redshift == "" || c.DuckDB == "" {
			v.Addf("computed column %q: missing expression: %w",
				c.Name, errors.ErrMissingField)
		}
	}

	return v.Err()
}

// expr returns the computed column expression for a dialect.
func (c Computed) expr(d Dialect) (string, error) {
	switch d {
	case DialectRedshift:
		return c.Redshift, nil
	case DialectDuckDB:
		return c.DuckDB, nil
	default:
		return "", fmt.Errorf("dialect %q: %w", d, errors.ErrInvalidDialect)
	}
}
