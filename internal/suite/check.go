package suite

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/xtxerr/colbench/internal/errors"
)

// checkTable is the stand-in name used so placeholder queries parse.
const checkTable = "colbench_check"

// CheckResult describes one validated query.
type CheckResult struct {
	Name        string
	Fingerprint string
	Tables      []string
}

// Check validates every query in the suite: names must be unique and
// non-empty, and each statement must parse under the Postgres-superset
// grammar shared by the warehouse dialects. Returns one result per query
// with its fingerprint and referenced tables.
func (s Suite) Check() ([]CheckResult, error) {
	if len(s.Queries) == 0 {
		return nil, errors.ErrEmptySuite
	}

	seen := map[string]bool{}
	results := make([]CheckResult, 0, len(s.Queries))

	for _, q := range s.Queries {
		if q.Name == "" {
			return nil, fmt.Errorf("unnamed query: %w", errors.ErrInvalidQuery)
		}
		if seen[q.Name] {
			return nil, fmt.Errorf("query %q defined twice: %w", q.Name, errors.ErrInvalidQuery)
		}
		seen[q.Name] = true

		switch q.Kind {
		case KindAggregate, KindPoint, KindSample:
		default:
			return nil, fmt.Errorf("query %q: unknown kind %q: %w",
				q.Name, q.Kind, errors.ErrInvalidQuery)
		}

		res, err := check(q)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	return results, nil
}

func check(q Query) (CheckResult, error) {
	sql := q.Bind(checkTable)

	result, err := pg_query.Parse(sql)
	if err != nil {
		return CheckResult{}, fmt.Errorf("query %q does not parse: %v: %w",
			q.Name, err, errors.ErrInvalidQuery)
	}
	if len(result.Stmts) != 1 {
		return CheckResult{}, fmt.Errorf("query %q: expected one statement, got %d: %w",
			q.Name, len(result.Stmts), errors.ErrInvalidQuery)
	}

	stmt := result.Stmts[0].Stmt
	sel := stmt.GetSelectStmt()
	if sel == nil {
		return CheckResult{}, fmt.Errorf("query %q: only SELECT statements are benchmarked: %w",
			q.Name, errors.ErrInvalidQuery)
	}

	tables := referencedTables(sel)

	// A benchmark query must read exactly the table it is bound to,
	// otherwise baseline and tuned runs would not be comparable.
	for _, tbl := range tables {
		if tbl != checkTable {
			return CheckResult{}, fmt.Errorf(
				"query %q references table %q outside its binding: %w",
				q.Name, tbl, errors.ErrInvalidQuery)
		}
	}
	if len(tables) == 0 {
		return CheckResult{}, fmt.Errorf("query %q has no table placeholder: %w",
			q.Name, errors.ErrInvalidQuery)
	}

	fp, err := pg_query.Fingerprint(sql)
	if err != nil {
		return CheckResult{}, fmt.Errorf("fingerprint %q: %w", q.Name, err)
	}

	return CheckResult{
		Name:        q.Name,
		Fingerprint: fp,
		Tables:      tables,
	}, nil
}

// referencedTables walks the FROM clause and collects table names.
func referencedTables(sel *pg_query.SelectStmt) []string {
	var tables []string
	for _, node := range sel.FromClause {
		tables = append(tables, tablesFromNode(node)...)
	}
	return tables
}

func tablesFromNode(node *pg_query.Node) []string {
	if node == nil {
		return nil
	}

	if rangeVar := node.GetRangeVar(); rangeVar != nil {
		return []string{rangeVar.Relname}
	}

	if join := node.GetJoinExpr(); join != nil {
		var tables []string
		tables = append(tables, tablesFromNode(join.Larg)...)
		tables = append(tables, tablesFromNode(join.Rarg)...)
		return tables
	}

	if sub := node.GetRangeSubselect(); sub != nil {
		if inner := sub.Subquery.GetSelectStmt(); inner != nil {
			return referencedTables(inner)
		}
	}

	return nil
}
