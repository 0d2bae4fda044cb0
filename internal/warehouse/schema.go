package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/xtxerr/colbench/config"
	"github.com/xtxerr/colbench/internal/dataset"
	"github.com/xtxerr/colbench/internal/errors"
)

// baseDDL is the survey table. Everything is varchar except age; the
// source data declares no keys and no constraints.
const baseDDL = `
CREATE TABLE IF NOT EXISTS ` + config.TableBase + ` (
    name      VARCHAR,
    country   VARCHAR,
    state     VARCHAR,
    age       INTEGER,
    os        VARCHAR,
    is_rich   VARCHAR,
    is_insane VARCHAR,
    is_nice   VARCHAR,
    reason    VARCHAR
)`

// Bootstrap creates the base survey table and the multiplier sequence
// table. The multiplier holds 1..n built with a recursive CTE; it is
// rebuilt only when its row count does not match n. Bootstrap is
// idempotent.
func (w *Warehouse) Bootstrap(ctx context.Context, multiplier int) error {
	if multiplier < 1 {
		return fmt.Errorf("multiplier %d: %w", multiplier, errors.ErrInvalidMultiplier)
	}

	if _, err := w.db.ExecContext(ctx, baseDDL); err != nil {
		return fmt.Errorf("create %s: %w", config.TableBase, err)
	}

	exists, err := w.TableExists(ctx, config.TableMultiplier)
	if err != nil {
		return err
	}
	if exists {
		count, err := w.RowCount(ctx, config.TableMultiplier)
		if err != nil {
			return err
		}
		if count == int64(multiplier) {
			return nil
		}
		if err := w.DropTable(ctx, config.TableMultiplier); err != nil {
			return err
		}
	}

	stmt := fmt.Sprintf(`
CREATE TABLE %s AS
WITH RECURSIVE seq(n) AS (
    SELECT 1
    UNION ALL
    SELECT n + 1 FROM seq WHERE n < %d
)
SELECT n FROM seq`, config.TableMultiplier, multiplier)

	if _, err := w.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create %s: %w", config.TableMultiplier, err)
	}

	return nil
}

// InsertRows bulk-inserts generated survey rows into the base table.
// Rows are written in chunks inside a single transaction.
func (w *Warehouse) InsertRows(ctx context.Context, rows []dataset.Row) error {
	if len(rows) == 0 {
		return nil
	}

	const chunk = 500

	return w.TransactionContext(ctx, func(tx *sql.Tx) error {
		for start := 0; start < len(rows); start += chunk {
			end := start + chunk
			if end > len(rows) {
				end = len(rows)
			}
			if err := insertChunk(ctx, tx, rows[start:end]); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertChunk(ctx context.Context, tx *sql.Tx, rows []dataset.Row) error {
	var sb strings.Builder
	sb.WriteString("INSERT INTO " + config.TableBase + " VALUES ")

	args := make([]any, 0, len(rows)*9)
	for i, r := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args, r.Name, r.Country, r.State, r.Age, r.OS,
			r.Rich, r.Insane, r.Nice, r.Reason)
	}

	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert chunk: %w", err)
	}
	return nil
}

// LoadCSV appends the rows of a CSV file into table.
func (w *Warehouse) LoadCSV(ctx context.Context, table, path string) error {
	if err := checkIdent(table); err != nil {
		return err
	}

	stmt := fmt.Sprintf("INSERT INTO %s SELECT * FROM read_csv_auto(?, header=true)", table)
	if _, err := w.db.ExecContext(ctx, stmt, path); err != nil {
		return errors.Wrapf(err, "load csv into %s", table)
	}
	return nil
}

// LoadParquet appends the rows of a parquet file into table.
func (w *Warehouse) LoadParquet(ctx context.Context, table, path string) error {
	if err := checkIdent(table); err != nil {
		return err
	}

	stmt := fmt.Sprintf("INSERT INTO %s SELECT * FROM read_parquet(?)", table)
	if _, err := w.db.ExecContext(ctx, stmt, path); err != nil {
		return errors.Wrapf(err, "load parquet into %s", table)
	}
	return nil
}

// Inflate builds dst as src cross-joined with the multiplier table.
// The resulting row count is count(src) * multiplier rows; Inflate
// verifies this and returns the count.
//
// dst must not already exist unless force is set, in which case it is
// replaced.
func (w *Warehouse) Inflate(ctx context.Context, src, dst string, force bool) (int64, error) {
	if err := checkIdent(src); err != nil {
		return 0, err
	}
	if err := checkIdent(dst); err != nil {
		return 0, err
	}

	exists, err := w.TableExists(ctx, dst)
	if err != nil {
		return 0, err
	}
	if exists {
		if !force {
			return 0, fmt.Errorf("table %q: %w", dst, errors.ErrTableAlreadyExists)
		}
		if err := w.DropTable(ctx, dst); err != nil {
			return 0, err
		}
	}

	srcCount, err := w.RowCount(ctx, src)
	if err != nil {
		return 0, err
	}
	multCount, err := w.RowCount(ctx, config.TableMultiplier)
	if err != nil {
		return 0, err
	}

	stmt := fmt.Sprintf("CREATE TABLE %s AS SELECT s.* FROM %s AS s CROSS JOIN %s",
		dst, src, config.TableMultiplier)
	if _, err := w.db.ExecContext(ctx, stmt); err != nil {
		return 0, fmt.Errorf("inflate %s: %w", dst, err)
	}

	count, err := w.RowCount(ctx, dst)
	if err != nil {
		return 0, err
	}
	if want := srcCount * multCount; count != want {
		return count, fmt.Errorf("inflate %s: got %d rows, want %d: %w",
			dst, count, want, errors.ErrInternal)
	}

	return count, nil
}

// Sample builds dst as a uniform random sample of n rows from src.
//
// DuckDB temp tables are connection-scoped and this tool runs on a
// connection pool, so session sample tables are plain tables replaced
// on every call.
func (w *Warehouse) Sample(ctx context.Context, src, dst string, n int) error {
	if n <= 0 {
		return fmt.Errorf("sample size %d: %w", n, errors.ErrInvalidConfig)
	}
	if err := checkIdent(src); err != nil {
		return err
	}
	if err := checkIdent(dst); err != nil {
		return err
	}

	stmt := fmt.Sprintf(
		"CREATE OR REPLACE TABLE %s AS SELECT * FROM %s ORDER BY random() LIMIT %d",
		dst, src, n)
	if _, err := w.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("sample %s into %s: %w", src, dst, err)
	}
	return nil
}

// Analyze refreshes table statistics for the planner.
func (w *Warehouse) Analyze(ctx context.Context) error {
	if _, err := w.db.ExecContext(ctx, "ANALYZE"); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	return nil
}

// DropTable drops a table if it exists.
func (w *Warehouse) DropTable(ctx context.Context, table string) error {
	if err := checkIdent(table); err != nil {
		return err
	}
	if _, err := w.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("drop %s: %w", table, err)
	}
	return nil
}

// TableExists reports whether a table is present in the catalog.
func (w *Warehouse) TableExists(ctx context.Context, table string) (bool, error) {
	var count int
	err := w.db.QueryRowContext(ctx,
		"SELECT count(*) FROM duckdb_tables() WHERE table_name = ?", table).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", table, err)
	}
	return count > 0, nil
}

// RowCount returns the number of rows in table.
func (w *Warehouse) RowCount(ctx context.Context, table string) (int64, error) {
	if err := checkIdent(table); err != nil {
		return 0, err
	}

	exists, err := w.TableExists(ctx, table)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("table %q: %w", table, errors.ErrTableNotFound)
	}

	var count int64
	if err := w.db.QueryRowContext(ctx, "SELECT count(*) FROM "+table).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}

// TableNames returns all user table names, sorted.
func (w *Warehouse) TableNames(ctx context.Context) ([]string, error) {
	rows, err := w.db.QueryContext(ctx,
		"SELECT table_name FROM duckdb_tables() ORDER BY table_name")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ColumnNames returns the column names of a table in declaration order.
func (w *Warehouse) ColumnNames(ctx context.Context, table string) ([]string, error) {
	if err := checkIdent(table); err != nil {
		return nil, err
	}

	rows, err := w.db.QueryContext(ctx,
		"SELECT column_name FROM duckdb_columns() WHERE table_name = ? ORDER BY column_index",
		table)
	if err != nil {
		return nil, fmt.Errorf("list columns of %s: %w", table, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("table %q: %w", table, errors.ErrTableNotFound)
	}
	return names, nil
}

// EstimatedRows returns DuckDB's estimated row count for a table without
// scanning it.
func (w *Warehouse) EstimatedRows(ctx context.Context, table string) (int64, error) {
	if err := checkIdent(table); err != nil {
		return 0, err
	}

	var size sql.NullInt64
	err := w.db.QueryRowContext(ctx,
		"SELECT estimated_size FROM duckdb_tables() WHERE table_name = ?", table).Scan(&size)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("table %q: %w", table, errors.ErrTableNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("estimate rows of %s: %w", table, err)
	}
	return size.Int64, nil
}
