// Package loader handles configuration file loading, validation, and
// conversion into the component configs.
package loader

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xtxerr/colbench/internal/bench"
	"github.com/xtxerr/colbench/internal/errors"
	"github.com/xtxerr/colbench/internal/parquetio"
	"github.com/xtxerr/colbench/internal/suite"
	"github.com/xtxerr/colbench/internal/warehouse"
)

// Load loads configuration from a YAML file. Environment variables in
// the file are expanded before parsing, and unset fields keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	expanded := os.ExpandEnv(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads the file when it exists and falls back to the
// defaults when it does not.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// Validate validates the configuration.
func Validate(cfg *Config) error {
	errs := errors.NewValidationErrors()

	if cfg.Dataset.Rows < 1 {
		errs.Addf("dataset.rows: must be at least 1, got %d", cfg.Dataset.Rows)
	}
	if cfg.Dataset.Workers < 1 {
		errs.Addf("dataset.workers: must be at least 1, got %d", cfg.Dataset.Workers)
	}

	if cfg.Warehouse.MaxOpenConns < 1 {
		errs.Addf("warehouse.max_open_conns: must be at least 1, got %d", cfg.Warehouse.MaxOpenConns)
	}
	if cfg.Warehouse.QueryTimeout.Duration() <= 0 {
		errs.Addf("warehouse.query_timeout: must be positive")
	}

	if cfg.Inflate.Multiplier < 1 {
		errs.Addf("inflate.multiplier: must be at least 1, got %d", cfg.Inflate.Multiplier)
	}

	if cfg.Bench.Iterations < 1 {
		errs.Addf("bench.iterations: must be at least 1, got %d", cfg.Bench.Iterations)
	}
	if cfg.Bench.Warmup < 0 {
		errs.Addf("bench.warmup: cannot be negative, got %d", cfg.Bench.Warmup)
	}
	if cfg.Bench.SampleSize < 1 {
		errs.Addf("bench.sample_size: must be at least 1, got %d", cfg.Bench.SampleSize)
	}
	if cfg.Bench.PercentileAccuracy <= 0 || cfg.Bench.PercentileAccuracy >= 1 {
		errs.Addf("bench.percentile_accuracy: must be in (0, 1), got %g", cfg.Bench.PercentileAccuracy)
	}

	if cfg.Emit.Dir == "" {
		errs.Add(errors.NewMissingField("emit.dir"))
	}

	switch cfg.Parquet.Compression {
	case "zstd", "snappy", "gzip", "lz4", "none", "":
	default:
		errs.Addf("parquet.compression: unknown codec %q", cfg.Parquet.Compression)
	}
	if cfg.Parquet.RowGroupRows < 0 {
		errs.Addf("parquet.row_group_rows: cannot be negative, got %d", cfg.Parquet.RowGroupRows)
	}

	for i, q := range cfg.Queries {
		if q.Name == "" {
			errs.Addf("queries[%d].name: cannot be empty", i)
		}
		if q.SQL == "" {
			errs.Addf("queries[%d].sql: cannot be empty", i)
		}
		switch suite.Kind(q.Kind) {
		case suite.KindAggregate, suite.KindPoint, suite.KindSample, "":
		default:
			errs.Addf("queries[%d].kind: unknown kind %q", i, q.Kind)
		}
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error", "":
	default:
		errs.Addf("logging.level: unknown level %q", cfg.Logging.Level)
	}

	return errs.Err()
}

// ToWarehouseConfig converts the warehouse section.
func (c *Config) ToWarehouseConfig() warehouse.Config {
	return warehouse.Config{
		Path:            c.Warehouse.Path,
		MaxOpenConns:    c.Warehouse.MaxOpenConns,
		ConnMaxLifetime: c.Warehouse.ConnMaxLifetime.Duration(),
		QueryTimeout:    c.Warehouse.QueryTimeout.Duration(),
	}
}

// ToRunnerConfig converts the bench section.
func (c *Config) ToRunnerConfig() bench.Config {
	return bench.Config{
		Iterations:         c.Bench.Iterations,
		Warmup:             c.Bench.Warmup,
		SampleSize:         c.Bench.SampleSize,
		PercentileAccuracy: c.Bench.PercentileAccuracy,
	}
}

// ToParquetOptions converts the parquet section.
func (c *Config) ToParquetOptions() parquetio.Options {
	opts := parquetio.DefaultOptions()
	opts.Compression = parquetio.ParseCompressionType(c.Parquet.Compression)
	if c.Parquet.RowGroupRows > 0 {
		opts.RowGroupRows = c.Parquet.RowGroupRows
	}
	return opts
}

// ToSuite returns the default query set merged with the configured
// extra queries.
func (c *Config) ToSuite() suite.Suite {
	extra := make([]suite.Query, 0, len(c.Queries))
	for _, q := range c.Queries {
		kind := suite.Kind(q.Kind)
		if kind == "" {
			kind = suite.KindAggregate
		}
		extra = append(extra, suite.Query{Name: q.Name, Kind: kind, SQL: q.SQL})
	}
	return suite.Default().Merge(extra)
}
