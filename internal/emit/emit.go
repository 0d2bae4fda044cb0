// Package emit writes the demo as numbered Redshift SQL scripts, so the
// same walkthrough that runs locally can be replayed on a real cluster.
package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xtxerr/colbench/config"
	"github.com/xtxerr/colbench/internal/errors"
	"github.com/xtxerr/colbench/internal/layout"
	"github.com/xtxerr/colbench/internal/logging"
	"github.com/xtxerr/colbench/internal/suite"
)

// Options controls what gets emitted.
type Options struct {
	// Dir receives the script files. Created if missing.
	Dir string

	// Multiplier is the inflation factor baked into the schema script.
	Multiplier int

	// SampleSize is the LIMIT used in the sampling script.
	SampleSize int

	// Layouts are the tuned tables to emit, in order.
	Layouts []layout.Layout

	// Suite is the query set for the final script.
	Suite suite.Suite
}

// DefaultOptions emits the standard demo.
func DefaultOptions() Options {
	return Options{
		Dir:        config.DefaultEmitDir,
		Multiplier: config.DefaultMultiplier,
		SampleSize: config.DefaultSampleSize,
		Layouts:    []layout.Layout{layout.TunedLayout()},
		Suite:      suite.Default(),
	}
}

// Emit writes the ordered script files and returns their paths.
func Emit(opts Options) ([]string, error) {
	if opts.Multiplier < 1 {
		return nil, fmt.Errorf("multiplier %d: %w", opts.Multiplier, errors.ErrInvalidMultiplier)
	}
	if opts.SampleSize < 1 {
		return nil, errors.NewInvalidValue("sample_size", opts.SampleSize, "must be at least 1")
	}
	if len(opts.Suite.Queries) == 0 {
		return nil, errors.ErrEmptySuite
	}
	if _, err := opts.Suite.Check(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", opts.Dir, err)
	}

	scripts := []struct {
		name   string
		render func(Options) (string, error)
	}{
		{"01_schema.sql", schemaScript},
		{"02_inflate.sql", inflateScript},
		{"03_tuned.sql", tunedScript},
		{"04_sample.sql", sampleScript},
		{"05_queries.sql", queriesScript},
	}

	var paths []string
	for _, s := range scripts {
		body, err := s.render(opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", s.name, err)
		}
		path := filepath.Join(opts.Dir, s.name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		logging.Debug("emitted script", "path", path, "bytes", len(body))
		paths = append(paths, path)
	}

	return paths, nil
}

// schemaScript creates the base table and the multiplier sequence.
func schemaScript(opts Options) (string, error) {
	var sb strings.Builder
	sb.WriteString("-- Base survey table and multiplier sequence.\n\n")

	fmt.Fprintf(&sb, `CREATE TABLE %s (
    name      VARCHAR(128),
    country   VARCHAR(64),
    state     VARCHAR(64),
    age       INTEGER,
    os        VARCHAR(16),
    is_rich   VARCHAR(32),
    is_insane VARCHAR(32),
    is_nice   VARCHAR(32),
    reason    VARCHAR(512)
);

`, config.TableBase)

	fmt.Fprintf(&sb, `CREATE TABLE %s AS
WITH RECURSIVE seq(n) AS (
    SELECT 1
    UNION ALL
    SELECT n + 1 FROM seq WHERE n < %d
)
SELECT n FROM seq;
`, config.TableMultiplier, opts.Multiplier)

	return sb.String(), nil
}

// inflateScript cross joins the base table with the multiplier. The row
// count of the result must be the base count times the multiplier.
func inflateScript(opts Options) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "-- Inflate %s by x%d via cross join.\n\n", config.TableBase, opts.Multiplier)

	fmt.Fprintf(&sb, `CREATE TABLE %s AS
SELECT s.*
FROM %s AS s
CROSS JOIN %s;

`, config.TableInflated, config.TableBase, config.TableMultiplier)

	fmt.Fprintf(&sb, `-- Expect count(%s) = count(%s) * %d.
SELECT count(*) FROM %s;
`, config.TableInflated, config.TableBase, opts.Multiplier, config.TableInflated)

	return sb.String(), nil
}

// tunedScript renders each layout's distribution-aware build.
func tunedScript(opts Options) (string, error) {
	var sb strings.Builder
	sb.WriteString("-- Tuned copies with distribution and sort keys.\n\n")

	for _, l := range opts.Layouts {
		script, err := l.Render(layout.DialectRedshift)
		if err != nil {
			return "", err
		}
		sb.WriteString(script)
	}

	return sb.String(), nil
}

// sampleScript draws a random sample from each variant into a session
// temp table.
func sampleScript(opts Options) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "-- Random samples of %d rows, session scoped.\n\n", opts.SampleSize)

	pairs := []struct{ src, dst string }{
		{config.TableInflated, config.TableSample},
		{config.TableTuned, config.TableSampleTuned},
	}
	for _, p := range pairs {
		fmt.Fprintf(&sb, `CREATE TEMP TABLE %s AS
SELECT *
FROM %s
ORDER BY random()
LIMIT %d;

`, p.dst, p.src, opts.SampleSize)
	}

	fmt.Fprintf(&sb, "ANALYZE %s;\nANALYZE %s;\n", config.TableSample, config.TableSampleTuned)
	return sb.String(), nil
}

// queriesScript binds the suite to both variants, sample queries to the
// temp tables.
func queriesScript(opts Options) (string, error) {
	var sb strings.Builder
	sb.WriteString("-- Benchmark queries, each against baseline and tuned.\n")

	variants := []struct{ label, table, sampleTable string }{
		{"baseline", config.TableInflated, config.TableSample},
		{"tuned", config.TableTuned, config.TableSampleTuned},
	}

	for _, q := range opts.Suite.Queries {
		fmt.Fprintf(&sb, "\n-- %s\n", q.Name)
		for _, v := range variants {
			table := v.table
			if q.Kind == suite.KindSample {
				table = v.sampleTable
			}
			fmt.Fprintf(&sb, "-- %s\n%s;\n", v.label, q.Bind(table))
		}
	}

	return sb.String(), nil
}
