// Package config provides configuration defaults and utilities
// for the colbench application.
//
// This package defines all configurable constants with documented defaults.
// Users can override these values via config.yaml or environment variables.
package config

import "time"

// =============================================================================
// Table Names
// =============================================================================

const (
	// TableBase is the base survey table loaded from generated data.
	TableBase = "op_systems"

	// TableMultiplier is the 1..N sequence table used to inflate row count
	// via cross join.
	TableMultiplier = "multiplier_100"

	// TableInflated is the inflated table produced by crossing the base
	// table with the multiplier.
	TableInflated = "op_systems_5m"

	// TableTuned is the inflated table rebuilt with a distribution key,
	// sort keys and precomputed columns.
	TableTuned = "op_systems_5m_tuned"

	// TableSample and TableSampleTuned are session-scoped temp tables
	// holding a random sample of their parent tables.
	TableSample      = "tmp_sample"
	TableSampleTuned = "tmp_sample_tuned"
)

// =============================================================================
// Dataset Defaults
// =============================================================================

const (
	// DefaultDatasetRows is the number of base rows to generate.
	// With the default multiplier this inflates to 5M rows.
	// Override via config: dataset.rows
	DefaultDatasetRows = 50_000

	// DefaultDatasetSeed makes generation reproducible across runs.
	// Override via config: dataset.seed
	DefaultDatasetSeed = 1

	// DefaultDatasetWorkers is the number of parallel generator shards.
	// Override via config: dataset.workers
	DefaultDatasetWorkers = 4

	// DefaultMultiplier is the cross-join inflation factor.
	// Override via config: inflate.multiplier
	DefaultMultiplier = 100

	// DefaultCompression is the parquet compression codec for dataset files.
	// Override via config: dataset.compression
	DefaultCompression = "zstd"
)

// =============================================================================
// Warehouse Defaults
// =============================================================================

const (
	// DefaultWarehousePath is the embedded database file.
	// Override via config: warehouse.path or -db flag
	DefaultWarehousePath = "colbench.db"

	// DefaultQueryTimeout bounds any single statement issued by the tool.
	// Override via config: warehouse.query_timeout_sec
	DefaultQueryTimeout = 5 * time.Minute

	// DefaultMaxOpenConns is the connection pool size.
	DefaultMaxOpenConns = 8
)

// =============================================================================
// Benchmark Defaults
// =============================================================================

const (
	// DefaultBenchIterations is the number of timed runs per query.
	// Override via config: bench.iterations
	DefaultBenchIterations = 10

	// DefaultBenchWarmup is the number of untimed runs before measuring.
	// Override via config: bench.warmup
	DefaultBenchWarmup = 2

	// DefaultSampleSize is the row count of the tmp_sample tables.
	// Override via config: bench.sample_size
	DefaultSampleSize = 10_000

	// DefaultPercentileAccuracy is the DDSketch relative accuracy used
	// for latency percentiles.
	DefaultPercentileAccuracy = 0.01
)

// =============================================================================
// Output Defaults
// =============================================================================

const (
	// DefaultEmitDir is where Redshift SQL scripts are written.
	// Override via config: emit.dir
	DefaultEmitDir = "sql"

	// DefaultResultsPath is where benchmark results are persisted.
	// Override via config: bench.results_path
	DefaultResultsPath = "results.parquet"

	// DefaultConsoleMaxRows caps rows printed per console statement.
	DefaultConsoleMaxRows = 40
)
