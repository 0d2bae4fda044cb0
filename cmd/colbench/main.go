// colbench is a columnar storage walkthrough: it generates a synthetic
// survey dataset, inflates it, builds a tuned table layout, benchmarks
// both variants, and emits the equivalent warehouse SQL scripts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xtxerr/colbench/config"
	"github.com/xtxerr/colbench/internal/bench"
	"github.com/xtxerr/colbench/internal/console"
	"github.com/xtxerr/colbench/internal/dataset"
	"github.com/xtxerr/colbench/internal/emit"
	"github.com/xtxerr/colbench/internal/errors"
	"github.com/xtxerr/colbench/internal/layout"
	"github.com/xtxerr/colbench/internal/loader"
	"github.com/xtxerr/colbench/internal/logging"
	"github.com/xtxerr/colbench/internal/parquetio"
	"github.com/xtxerr/colbench/internal/report"
	"github.com/xtxerr/colbench/internal/warehouse"
	"github.com/xtxerr/colbench/internal/zonemap"
)

// Version is set at build time via ldflags
var Version = "dev"

const usage = `colbench - columnar storage walkthrough

Usage: colbench <command> [flags]

Commands:
  generate   generate the synthetic survey dataset (csv and/or parquet)
  init       bootstrap the warehouse, load data, inflate
  tune       build the tuned table layout
  bench      run the query suite against baseline and tuned
  storage    compare row and columnar footprints, zone-map pruning
  console    interactive SQL prompt
  emit       write the warehouse SQL scripts
  version    print version

Run "colbench <command> -h" for command flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "generate":
		err = cmdGenerate(ctx, os.Args[2:])
	case "init":
		err = cmdInit(ctx, os.Args[2:])
	case "tune":
		err = cmdTune(ctx, os.Args[2:])
	case "bench":
		err = cmdBench(ctx, os.Args[2:])
	case "storage":
		err = cmdStorage(ctx, os.Args[2:])
	case "console":
		err = cmdConsole(ctx, os.Args[2:])
	case "emit":
		err = cmdEmit(os.Args[2:])
	case "version":
		fmt.Printf("colbench %s\n", Version)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		logging.Error("command failed", "command", os.Args[1], "error", err)
		if errors.IsValidation(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// loadConfig is the shared front half of every command: parse flags,
// load the config file, initialize logging.
func loadConfig(fs *flag.FlagSet, args []string) (*loader.Config, error) {
	cfgPath := fs.String("config", "config.yaml", "config file path")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := loader.LoadOrDefault(*cfgPath)
	if err != nil {
		return nil, err
	}

	logging.Init(parseLevel(cfg.Logging.Level), cfg.Logging.JSON)
	return cfg, nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openWarehouse(cfg *loader.Config) (*warehouse.Warehouse, error) {
	return warehouse.Open(cfg.ToWarehouseConfig())
}

func cmdGenerate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	rows := fs.Int("rows", 0, "row count (overrides config)")
	seed := fs.Uint64("seed", 0, "generator seed (overrides config)")
	csvPath := fs.String("csv", "", "csv output path (overrides config)")
	parquetPath := fs.String("parquet", "", "parquet output path (overrides config)")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}

	if *rows > 0 {
		cfg.Dataset.Rows = *rows
	}
	if *seed > 0 {
		cfg.Dataset.Seed = *seed
	}
	if *csvPath != "" {
		cfg.Dataset.CSVPath = *csvPath
	}
	if *parquetPath != "" {
		cfg.Dataset.ParquetPath = *parquetPath
	}
	if cfg.Dataset.CSVPath == "" && cfg.Dataset.ParquetPath == "" {
		cfg.Dataset.CSVPath = config.TableBase + ".csv"
	}

	logging.Info("generating dataset",
		"rows", cfg.Dataset.Rows, "seed", cfg.Dataset.Seed, "workers", cfg.Dataset.Workers)

	start := time.Now()
	generated, err := dataset.GenerateParallel(ctx, cfg.Dataset.Seed, cfg.Dataset.Rows, cfg.Dataset.Workers)
	if err != nil {
		return err
	}
	logging.Info("dataset generated", "rows", len(generated), "elapsed", time.Since(start).Round(time.Millisecond))

	if cfg.Dataset.CSVPath != "" {
		if err := dataset.AppendCSV(cfg.Dataset.CSVPath, generated); err != nil {
			return err
		}
		logging.Info("csv written", "path", cfg.Dataset.CSVPath)
	}
	if cfg.Dataset.ParquetPath != "" {
		if err := parquetio.WriteDataset(cfg.Dataset.ParquetPath, generated, cfg.ToParquetOptions()); err != nil {
			return err
		}
		logging.Info("parquet written", "path", cfg.Dataset.ParquetPath)
	}
	return nil
}

func cmdInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	csvPath := fs.String("csv", "", "load base rows from this csv instead of generating")
	parquetPath := fs.String("parquet", "", "load base rows from this parquet file instead of generating")
	force := fs.Bool("force", false, "rebuild the inflated table if it exists")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}

	wh, err := openWarehouse(cfg)
	if err != nil {
		return err
	}
	defer wh.Close()

	if err := wh.Bootstrap(ctx, cfg.Inflate.Multiplier); err != nil {
		return err
	}

	switch {
	case *csvPath != "":
		if err := wh.LoadCSV(ctx, config.TableBase, *csvPath); err != nil {
			return err
		}
		logging.Info("base table loaded", "source", *csvPath)
	case *parquetPath != "":
		if err := wh.LoadParquet(ctx, config.TableBase, *parquetPath); err != nil {
			return err
		}
		logging.Info("base table loaded", "source", *parquetPath)
	default:
		generated, err := dataset.GenerateParallel(ctx, cfg.Dataset.Seed, cfg.Dataset.Rows, cfg.Dataset.Workers)
		if err != nil {
			return err
		}
		if err := wh.InsertRows(ctx, generated); err != nil {
			return err
		}
		logging.Info("base table generated", "rows", len(generated))
	}

	start := time.Now()
	inflated, err := wh.Inflate(ctx, config.TableBase, config.TableInflated, *force)
	if err != nil {
		if errors.IsAlreadyExists(err) {
			return fmt.Errorf("%s already built, rerun with -force: %w", config.TableInflated, err)
		}
		return err
	}
	logging.Info("inflated",
		"table", config.TableInflated,
		"rows", inflated,
		"multiplier", cfg.Inflate.Multiplier,
		"elapsed", time.Since(start).Round(time.Millisecond))

	return wh.Analyze(ctx)
}

func cmdTune(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tune", flag.ExitOnError)
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}

	wh, err := openWarehouse(cfg)
	if err != nil {
		return err
	}
	defer wh.Close()

	l := layout.TunedLayout()
	start := time.Now()
	if err := l.Apply(ctx, wh); err != nil {
		return err
	}

	rows, err := wh.RowCount(ctx, l.Name)
	if err != nil {
		return err
	}
	logging.Info("tuned layout built",
		"table", l.Name,
		"rows", rows,
		"dist_key", l.DistKey,
		"sort_keys", l.SortKeys,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

func cmdBench(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	iterations := fs.Int("iterations", 0, "timed runs per query (overrides config)")
	resultsPath := fs.String("results", "", "parquet results output (overrides config)")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}

	if *iterations > 0 {
		cfg.Bench.Iterations = *iterations
	}
	if *resultsPath != "" {
		cfg.Bench.ResultsPath = *resultsPath
	}

	wh, err := openWarehouse(cfg)
	if err != nil {
		return err
	}
	defer wh.Close()

	runner, err := bench.NewRunner(wh, cfg.ToSuite(), bench.DefaultVariants(), cfg.ToRunnerConfig())
	if err != nil {
		return err
	}

	logging.Info("benchmark starting",
		"iterations", cfg.Bench.Iterations, "warmup", cfg.Bench.Warmup)

	results, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	if err := report.RenderBench(os.Stdout, results); err != nil {
		return err
	}

	if cfg.Bench.ResultsPath != "" {
		rows := make([]parquetio.ResultRow, 0, len(results))
		now := time.Now()
		for _, r := range results {
			if r.Err != "" {
				continue
			}
			rows = append(rows, parquetio.SnapshotToResultRow(r.Stats, r.Rows, now))
		}
		if err := parquetio.WriteResults(cfg.Bench.ResultsPath, rows, cfg.ToParquetOptions()); err != nil {
			return err
		}
		logging.Info("results persisted", "path", cfg.Bench.ResultsPath, "rows", len(rows))
	}
	return nil
}

func cmdStorage(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("storage", flag.ExitOnError)
	csvPath := fs.String("csv", "", "row-oriented file to compare")
	parquetPath := fs.String("parquet", "", "columnar file to analyze (required)")
	if _, err := loadConfig(fs, args); err != nil {
		return err
	}

	if *parquetPath == "" {
		return fmt.Errorf("storage: -parquet is required")
	}

	info, err := parquetio.FileInfo(*parquetPath)
	if err != nil {
		return err
	}

	cmp := report.StorageComparison{Parquet: info}
	if *csvPath != "" {
		fi, err := os.Stat(*csvPath)
		if err != nil {
			return err
		}
		cmp.CSVPath = *csvPath
		cmp.CSVBytes = fi.Size()
	}

	// Zone-map pruning on the columns the tuned layout sorts by.
	if ageStats, err := zonemap.Inspect(*parquetPath, "age"); err == nil {
		cmp.Prunings = append(cmp.Prunings,
			report.LabeledPruning{Label: "age BETWEEN 25 AND 40", Analysis: ageStats.PruneInt(25, 40)},
			report.LabeledPruning{Label: "age < 21", Analysis: ageStats.PruneInt(0, 20)},
		)
	} else {
		logging.Warn("age zone-map unavailable", "error", err)
	}
	if osStats, err := zonemap.Inspect(*parquetPath, "os"); err == nil {
		cmp.Prunings = append(cmp.Prunings,
			report.LabeledPruning{Label: "os = 'mac'", Analysis: osStats.PruneString("mac", "mac")})
	}

	return report.RenderStorage(os.Stdout, cmp)
}

func cmdConsole(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("console", flag.ExitOnError)
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}

	if !console.Interactive() {
		return fmt.Errorf("console requires an interactive terminal")
	}

	wh, err := openWarehouse(cfg)
	if err != nil {
		return err
	}
	defer wh.Close()

	return console.New(wh, os.Stdout).Run(ctx)
}

func cmdEmit(args []string) error {
	fs := flag.NewFlagSet("emit", flag.ExitOnError)
	dir := fs.String("dir", "", "output directory (overrides config)")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}

	opts := emit.DefaultOptions()
	opts.Dir = cfg.Emit.Dir
	opts.Multiplier = cfg.Inflate.Multiplier
	opts.SampleSize = cfg.Bench.SampleSize
	opts.Suite = cfg.ToSuite()
	if *dir != "" {
		opts.Dir = *dir
	}

	paths, err := emit.Emit(opts)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}
