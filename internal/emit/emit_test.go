package emit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xtxerr/colbench/config"
	"github.com/xtxerr/colbench/internal/errors"
	"github.com/xtxerr/colbench/internal/suite"
)

func TestEmit(t *testing.T) {
	opts := DefaultOptions()
	opts.Dir = t.TempDir()

	paths, err := Emit(opts)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	want := []string{"01_schema.sql", "02_inflate.sql", "03_tuned.sql", "04_sample.sql", "05_queries.sql"}
	if len(paths) != len(want) {
		t.Fatalf("got %d paths, want %d", len(paths), len(want))
	}
	for i, name := range want {
		if filepath.Base(paths[i]) != name {
			t.Errorf("paths[%d] = %s, want %s", i, paths[i], name)
		}
		if _, err := os.Stat(paths[i]); err != nil {
			t.Errorf("stat %s: %v", paths[i], err)
		}
	}
}

func readScript(t *testing.T, dir, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(b)
}

func TestEmitSchemaScript(t *testing.T) {
	opts := DefaultOptions()
	opts.Dir = t.TempDir()
	if _, err := Emit(opts); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	schema := readScript(t, opts.Dir, "01_schema.sql")
	for _, want := range []string{
		"CREATE TABLE " + config.TableBase,
		"age       INTEGER",
		"WITH RECURSIVE seq(n)",
		"WHERE n < 100",
	} {
		if !strings.Contains(schema, want) {
			t.Errorf("schema script missing %q:\n%s", want, schema)
		}
	}
}

func TestEmitInflateAndTuned(t *testing.T) {
	opts := DefaultOptions()
	opts.Dir = t.TempDir()
	if _, err := Emit(opts); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	inflate := readScript(t, opts.Dir, "02_inflate.sql")
	if !strings.Contains(inflate, "CROSS JOIN "+config.TableMultiplier) {
		t.Errorf("inflate script missing cross join:\n%s", inflate)
	}
	if !strings.Contains(inflate, "count(*) FROM "+config.TableInflated) {
		t.Errorf("inflate script missing count check:\n%s", inflate)
	}

	tuned := readScript(t, opts.Dir, "03_tuned.sql")
	for _, want := range []string{
		"CREATE TABLE " + config.TableTuned,
		"DISTKEY (country)",
		"SORTKEY (os, age)",
		"FUNC_SHA1",
		"ANALYZE " + config.TableTuned,
	} {
		if !strings.Contains(tuned, want) {
			t.Errorf("tuned script missing %q:\n%s", want, tuned)
		}
	}
}

func TestEmitSampleAndQueries(t *testing.T) {
	opts := DefaultOptions()
	opts.Dir = t.TempDir()
	opts.SampleSize = 1234
	if _, err := Emit(opts); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	sample := readScript(t, opts.Dir, "04_sample.sql")
	for _, want := range []string{
		"CREATE TEMP TABLE " + config.TableSample,
		"CREATE TEMP TABLE " + config.TableSampleTuned,
		"ORDER BY random()",
		"LIMIT 1234",
	} {
		if !strings.Contains(sample, want) {
			t.Errorf("sample script missing %q:\n%s", want, sample)
		}
	}

	queries := readScript(t, opts.Dir, "05_queries.sql")
	if strings.Contains(queries, suite.Placeholder) {
		t.Errorf("queries script has unbound placeholder:\n%s", queries)
	}
	for _, q := range suite.Default().Queries {
		if !strings.Contains(queries, "-- "+q.Name) {
			t.Errorf("queries script missing %s", q.Name)
		}
	}
	// Sample queries bind to the temp tables, not the big tables.
	if !strings.Contains(queries, "FROM "+config.TableSampleTuned) {
		t.Errorf("sample query not bound to %s:\n%s", config.TableSampleTuned, queries)
	}
}

func TestEmitValidation(t *testing.T) {
	base := func() Options {
		o := DefaultOptions()
		o.Dir = t.TempDir()
		return o
	}

	opts := base()
	opts.Multiplier = 0
	if _, err := Emit(opts); !errors.Is(err, errors.ErrInvalidMultiplier) {
		t.Errorf("multiplier 0: got %v, want ErrInvalidMultiplier", err)
	}

	opts = base()
	opts.SampleSize = 0
	if _, err := Emit(opts); err == nil {
		t.Error("sample size 0: expected error")
	}

	opts = base()
	opts.Suite = suite.Suite{}
	if _, err := Emit(opts); !errors.Is(err, errors.ErrEmptySuite) {
		t.Errorf("empty suite: got %v, want ErrEmptySuite", err)
	}

	opts = base()
	opts.Suite = suite.Suite{Queries: []suite.Query{
		{Name: "bad", Kind: suite.KindAggregate, SQL: "DROP TABLE {{table}}"},
	}}
	if _, err := Emit(opts); err == nil {
		t.Error("non-select query: expected error")
	}
}
