package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xtxerr/colbench/config"
	"github.com/xtxerr/colbench/internal/parquetio"
	"github.com/xtxerr/colbench/internal/suite"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Dataset.Rows != config.DefaultDatasetRows {
		t.Errorf("Dataset.Rows = %d, want %d", cfg.Dataset.Rows, config.DefaultDatasetRows)
	}
	if cfg.Inflate.Multiplier != config.DefaultMultiplier {
		t.Errorf("Inflate.Multiplier = %d, want %d", cfg.Inflate.Multiplier, config.DefaultMultiplier)
	}
	if cfg.Warehouse.QueryTimeout.Duration() != config.DefaultQueryTimeout {
		t.Errorf("QueryTimeout = %v, want %v", cfg.Warehouse.QueryTimeout.Duration(), config.DefaultQueryTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
dataset:
  rows: 1000
  seed: 42
warehouse:
  path: /tmp/demo.db
  query_timeout: 30s
inflate:
  multiplier: 10
bench:
  iterations: 5
parquet:
  compression: snappy
  row_group_rows: 5000
logging:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Dataset.Rows != 1000 || cfg.Dataset.Seed != 42 {
		t.Errorf("dataset = %+v", cfg.Dataset)
	}
	if cfg.Warehouse.Path != "/tmp/demo.db" {
		t.Errorf("warehouse path = %q", cfg.Warehouse.Path)
	}
	if cfg.Warehouse.QueryTimeout.Duration() != 30*time.Second {
		t.Errorf("query timeout = %v", cfg.Warehouse.QueryTimeout.Duration())
	}
	if cfg.Inflate.Multiplier != 10 {
		t.Errorf("multiplier = %d", cfg.Inflate.Multiplier)
	}
	// Unset sections keep defaults.
	if cfg.Bench.SampleSize != config.DefaultSampleSize {
		t.Errorf("sample size = %d, want default", cfg.Bench.SampleSize)
	}

	opts := cfg.ToParquetOptions()
	if opts.Compression != parquetio.CompressionSnappy {
		t.Errorf("compression = %v, want snappy", opts.Compression)
	}
	if opts.RowGroupRows != 5000 {
		t.Errorf("row group rows = %d", opts.RowGroupRows)
	}
}

func TestLoadEnvExpansion(t *testing.T) {
	t.Setenv("COLBENCH_DB", "/data/test.db")
	path := writeConfig(t, "warehouse:\n  path: ${COLBENCH_DB}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Warehouse.Path != "/data/test.db" {
		t.Errorf("path = %q, want /data/test.db", cfg.Warehouse.Path)
	}
}

func TestLoadDurationAsSeconds(t *testing.T) {
	path := writeConfig(t, "warehouse:\n  query_timeout: 90\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Warehouse.QueryTimeout.Duration() != 90*time.Second {
		t.Errorf("query timeout = %v, want 90s", cfg.Warehouse.QueryTimeout.Duration())
	}
}

func TestLoadDurationInvalid(t *testing.T) {
	path := writeConfig(t, "warehouse:\n  query_timeout: soon\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for non-duration value")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault(\"\"): %v", err)
	}
	if cfg.Dataset.Rows != config.DefaultDatasetRows {
		t.Errorf("rows = %d, want default", cfg.Dataset.Rows)
	}

	cfg, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault(missing): %v", err)
	}
	if cfg.Inflate.Multiplier != config.DefaultMultiplier {
		t.Errorf("multiplier = %d, want default", cfg.Inflate.Multiplier)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero rows", func(c *Config) { c.Dataset.Rows = 0 }, "dataset.rows"},
		{"zero workers", func(c *Config) { c.Dataset.Workers = 0 }, "dataset.workers"},
		{"zero conns", func(c *Config) { c.Warehouse.MaxOpenConns = 0 }, "max_open_conns"},
		{"zero multiplier", func(c *Config) { c.Inflate.Multiplier = 0 }, "inflate.multiplier"},
		{"zero iterations", func(c *Config) { c.Bench.Iterations = 0 }, "bench.iterations"},
		{"negative warmup", func(c *Config) { c.Bench.Warmup = -1 }, "bench.warmup"},
		{"accuracy too big", func(c *Config) { c.Bench.PercentileAccuracy = 1.5 }, "percentile_accuracy"},
		{"empty emit dir", func(c *Config) { c.Emit.Dir = "" }, "emit.dir"},
		{"bad compression", func(c *Config) { c.Parquet.Compression = "brotli" }, "parquet.compression"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"query without sql", func(c *Config) {
			c.Queries = []QueryConfig{{Name: "extra"}}
		}, "queries[0].sql"},
		{"query bad kind", func(c *Config) {
			c.Queries = []QueryConfig{{Name: "extra", Kind: "weird", SQL: "SELECT 1 FROM {{table}}"}}
		}, "queries[0].kind"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}

	if err := Validate(DefaultConfig()); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestToSuite(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Queries = []QueryConfig{
		{Name: "young_users", Kind: "point", SQL: "SELECT count(*) FROM {{table}} WHERE age < 21"},
		{Name: "os_breakdown", SQL: "SELECT os FROM {{table}}"},
	}

	s := cfg.ToSuite()
	if len(s.Queries) != len(suite.Default().Queries)+1 {
		t.Errorf("suite size = %d", len(s.Queries))
	}

	q, err := s.Lookup("young_users")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if q.Kind != suite.KindPoint {
		t.Errorf("kind = %s, want point", q.Kind)
	}

	// Replacement keeps the name but swaps the SQL and defaults the kind.
	q, err = s.Lookup("os_breakdown")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if q.Kind != suite.KindAggregate || !strings.Contains(q.SQL, "SELECT os FROM") {
		t.Errorf("replaced query = %+v", q)
	}
}
