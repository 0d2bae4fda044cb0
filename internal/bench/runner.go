// Package bench times the query suite against competing table layouts.
package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/xtxerr/colbench/config"
	"github.com/xtxerr/colbench/internal/bench/stats"
	"github.com/xtxerr/colbench/internal/errors"
	"github.com/xtxerr/colbench/internal/logging"
	"github.com/xtxerr/colbench/internal/suite"
	"github.com/xtxerr/colbench/internal/warehouse"
)

// Variant is one side of the comparison: a table plus its session
// sample table.
type Variant struct {
	Name        string
	Table       string
	SampleTable string
}

// DefaultVariants returns the demo's baseline/tuned pair.
func DefaultVariants() []Variant {
	return []Variant{
		{Name: "baseline", Table: config.TableInflated, SampleTable: config.TableSample},
		{Name: "tuned", Table: config.TableTuned, SampleTable: config.TableSampleTuned},
	}
}

// Result is the outcome of one (query, variant) pair.
type Result struct {
	Query   string
	Variant string

	// Stats holds latency statistics over the timed iterations.
	Stats stats.Snapshot

	// Rows is the result row count of the last iteration.
	Rows int64

	// Err is set when the query failed; the run continues with the
	// next query.
	Err string
}

// Config holds runner settings.
type Config struct {
	Iterations int
	Warmup     int
	SampleSize int

	// PercentileAccuracy is the DDSketch relative accuracy.
	PercentileAccuracy float64
}

// DefaultRunnerConfig returns runner settings matching the demo.
func DefaultRunnerConfig() Config {
	return Config{
		Iterations:         config.DefaultBenchIterations,
		Warmup:             config.DefaultBenchWarmup,
		SampleSize:         config.DefaultSampleSize,
		PercentileAccuracy: config.DefaultPercentileAccuracy,
	}
}

// Runner executes the suite against each variant.
type Runner struct {
	wh       *warehouse.Warehouse
	suite    suite.Suite
	variants []Variant
	cfg      Config
}

// NewRunner creates a runner. The suite must pass Check and the config
// must request at least one iteration.
func NewRunner(wh *warehouse.Warehouse, s suite.Suite, variants []Variant, cfg Config) (*Runner, error) {
	if cfg.Iterations < 1 {
		return nil, fmt.Errorf("iterations %d: %w", cfg.Iterations, errors.ErrInvalidConfig)
	}
	if cfg.Warmup < 0 {
		return nil, fmt.Errorf("warmup %d: %w", cfg.Warmup, errors.ErrInvalidConfig)
	}
	if len(variants) == 0 {
		return nil, fmt.Errorf("no variants: %w", errors.ErrInvalidConfig)
	}
	if _, err := s.Check(); err != nil {
		return nil, err
	}
	if cfg.PercentileAccuracy <= 0 {
		cfg.PercentileAccuracy = config.DefaultPercentileAccuracy
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = config.DefaultSampleSize
	}

	return &Runner{
		wh:       wh,
		suite:    s,
		variants: variants,
		cfg:      cfg,
	}, nil
}

// Run executes the full comparison. Statistics are refreshed before each
// variant, sample tables are rebuilt before sample-kind queries, and
// every query runs warmup iterations before being timed.
//
// A failing query is recorded in its Result and the run continues.
// Cancellation is honored between iterations.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	ctx = logging.ContextWithRunID(ctx, newRunID())
	log := logging.WithContext(ctx)

	results := make([]Result, 0, len(r.variants)*len(r.suite.Queries))

	for _, v := range r.variants {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		if err := r.prepare(ctx, v); err != nil {
			return results, err
		}

		log.Info("running variant",
			"variant", v.Name, "table", v.Table, "queries", len(r.suite.Queries))

		for _, q := range r.suite.Queries {
			res, err := r.runQuery(ctx, v, q)
			if err != nil {
				return results, err
			}
			results = append(results, res)
		}
	}

	return results, nil
}

// prepare refreshes planner statistics and rebuilds the variant's
// session sample table when the suite contains sample queries.
func (r *Runner) prepare(ctx context.Context, v Variant) error {
	if err := r.wh.Analyze(ctx); err != nil {
		return err
	}

	for _, q := range r.suite.Queries {
		if q.Kind == suite.KindSample {
			return r.wh.Sample(ctx, v.Table, v.SampleTable, r.cfg.SampleSize)
		}
	}
	return nil
}

// newRunID tags every log line of one Run invocation.
func newRunID() string {
	return fmt.Sprintf("%x", time.Now().UnixNano())
}

// bindTable resolves which table a query reads for a variant.
func bindTable(v Variant, q suite.Query) string {
	if q.Kind == suite.KindSample {
		return v.SampleTable
	}
	return v.Table
}

func (r *Runner) runQuery(ctx context.Context, v Variant, q suite.Query) (Result, error) {
	ctx = logging.ContextWithQuery(ctx, q.Name)
	log := logging.WithContext(ctx)

	sql := q.Bind(bindTable(v, q))
	agg := stats.NewWithAccuracy(q.Name, v.Name, r.cfg.PercentileAccuracy)

	res := Result{Query: q.Name, Variant: v.Name}

	for i := 0; i < r.cfg.Warmup; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, err := r.execute(ctx, sql); err != nil {
			res.Err = err.Error()
			log.Warn("query failed during warmup", "variant", v.Name, "error", err)
			return res, nil
		}
	}

	for i := 0; i < r.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		start := time.Now()
		rows, err := r.execute(ctx, sql)
		elapsed := time.Since(start)

		if err != nil {
			res.Err = err.Error()
			log.Warn("query failed", "variant", v.Name, "iteration", i, "error", err)
			return res, nil
		}

		agg.Add(float64(elapsed.Microseconds()) / 1000.0)
		res.Rows = rows
	}

	res.Stats = agg.Result()
	log.Info("query done",
		"variant", v.Name,
		"avg_ms", fmt.Sprintf("%.2f", res.Stats.Avg),
		"p95_ms", fmt.Sprintf("%.2f", res.Stats.P95))

	return res, nil
}

// execute runs one query to completion and returns the row count.
// Results are fully drained so timing covers materialization, not just
// statement dispatch.
func (r *Runner) execute(ctx context.Context, sql string) (int64, error) {
	qctx, cancel := context.WithTimeout(ctx, r.wh.QueryTimeout())
	defer cancel()

	rows, err := r.wh.DB().QueryContext(qctx, sql)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return 0, err
	}

	scan := make([]any, len(cols))
	for i := range scan {
		var v any
		scan[i] = &v
	}

	var count int64
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return count, err
		}
		count++
	}
	return count, rows.Err()
}
