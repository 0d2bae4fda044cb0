// Package loader - Configuration Types
//
// Defines the YAML configuration structure for colbench.
package loader

import (
	"strconv"
	"time"

	"github.com/xtxerr/colbench/config"
)

// Config is the root configuration structure for colbench.
type Config struct {
	// Dataset configures synthetic survey generation.
	Dataset DatasetConfig `yaml:"dataset"`

	// Warehouse configures the embedded analytics database.
	Warehouse WarehouseConfig `yaml:"warehouse"`

	// Inflate configures the cross-join inflation step.
	Inflate InflateConfig `yaml:"inflate"`

	// Bench configures benchmark runs.
	Bench BenchConfig `yaml:"bench"`

	// Emit configures generated SQL script output.
	Emit EmitConfig `yaml:"emit"`

	// Parquet configures columnar file output.
	Parquet ParquetConfig `yaml:"parquet"`

	// Queries adds or replaces benchmark queries by name.
	Queries []QueryConfig `yaml:"queries"`

	// Logging configures log output.
	Logging LoggingConfig `yaml:"logging"`
}

// DatasetConfig configures synthetic survey generation.
type DatasetConfig struct {
	// Rows is the number of base survey rows to generate.
	// Default: 50000
	Rows int `yaml:"rows"`

	// Seed makes generation reproducible. Same seed, same rows.
	// Default: 1
	Seed uint64 `yaml:"seed"`

	// Workers is the number of parallel generator shards.
	// Default: 4
	Workers int `yaml:"workers"`

	// CSVPath, when set, also writes the generated rows as CSV.
	CSVPath string `yaml:"csv_path"`

	// ParquetPath, when set, also writes the generated rows as parquet.
	ParquetPath string `yaml:"parquet_path"`
}

// WarehouseConfig configures the embedded analytics database.
type WarehouseConfig struct {
	// Path is the database file. Empty means in-memory.
	// Default: "colbench.db"
	Path string `yaml:"path"`

	// MaxOpenConns caps the connection pool.
	// Default: 8
	MaxOpenConns int `yaml:"max_open_conns"`

	// ConnMaxLifetime recycles pooled connections.
	ConnMaxLifetime Duration `yaml:"conn_max_lifetime"`

	// QueryTimeout bounds individual statements.
	// Default: "5m"
	QueryTimeout Duration `yaml:"query_timeout"`
}

// InflateConfig configures the cross-join inflation step.
type InflateConfig struct {
	// Multiplier is the inflation factor. The inflated table must hold
	// exactly base rows times this value.
	// Default: 100
	Multiplier int `yaml:"multiplier"`
}

// BenchConfig configures benchmark runs.
type BenchConfig struct {
	// Iterations is the number of timed runs per query.
	// Default: 10
	Iterations int `yaml:"iterations"`

	// Warmup is the number of untimed runs before measuring.
	// Default: 2
	Warmup int `yaml:"warmup"`

	// SampleSize is the row count of the random session sample.
	// Default: 10000
	SampleSize int `yaml:"sample_size"`

	// PercentileAccuracy is the relative sketch accuracy.
	// Default: 0.01
	PercentileAccuracy float64 `yaml:"percentile_accuracy"`

	// ResultsPath, when set, persists run results as parquet.
	ResultsPath string `yaml:"results_path"`
}

// EmitConfig configures generated SQL script output.
type EmitConfig struct {
	// Dir receives the numbered script files.
	// Default: "sql"
	Dir string `yaml:"dir"`
}

// ParquetConfig configures columnar file output.
type ParquetConfig struct {
	// Compression selects the codec: zstd, snappy, gzip, lz4, none.
	// Default: "zstd"
	Compression string `yaml:"compression"`

	// RowGroupRows caps rows per row group. Smaller groups give the
	// zone-map analysis more blocks to prune.
	RowGroupRows int `yaml:"row_group_rows"`
}

// QueryConfig adds or replaces one benchmark query.
type QueryConfig struct {
	// Name identifies the query. An existing name is replaced.
	Name string `yaml:"name"`

	// Kind is aggregate, point, or sample.
	// Default: "aggregate"
	Kind string `yaml:"kind"`

	// SQL is the statement, with {{table}} as the table placeholder.
	SQL string `yaml:"sql"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is debug, info, warn, or error.
	// Default: "info"
	Level string `yaml:"level"`

	// JSON switches from text to JSON output.
	JSON bool `yaml:"json"`
}

// DefaultConfig returns the configuration the demo runs with when no
// file is given.
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Rows:    config.DefaultDatasetRows,
			Seed:    config.DefaultDatasetSeed,
			Workers: config.DefaultDatasetWorkers,
		},
		Warehouse: WarehouseConfig{
			Path:         config.DefaultWarehousePath,
			MaxOpenConns: config.DefaultMaxOpenConns,
			QueryTimeout: Duration(config.DefaultQueryTimeout),
		},
		Inflate: InflateConfig{
			Multiplier: config.DefaultMultiplier,
		},
		Bench: BenchConfig{
			Iterations:         config.DefaultBenchIterations,
			Warmup:             config.DefaultBenchWarmup,
			SampleSize:         config.DefaultSampleSize,
			PercentileAccuracy: config.DefaultPercentileAccuracy,
			ResultsPath:        config.DefaultResultsPath,
		},
		Emit: EmitConfig{
			Dir: config.DefaultEmitDir,
		},
		Parquet: ParquetConfig{
			Compression: config.DefaultCompression,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Duration is a time.Duration that can be unmarshaled from YAML as
// either a duration string ("5m") or an integer number of seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler. A bare integer scalar also
// decodes as a string, so the seconds fallback runs on parse failure.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		secs, convErr := strconv.Atoi(s)
		if convErr != nil {
			return err
		}
		dur = time.Duration(secs) * time.Second
	}
	*d = Duration(dur)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
