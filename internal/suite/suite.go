// Package suite defines the benchmark query set.
//
// Queries are written once with a {{table}} placeholder and bound to the
// baseline or tuned table at run time. Sample-kind queries bind to the
// session sample tables instead.
package suite

import (
	"fmt"
	"strings"

	"github.com/xtxerr/colbench/internal/errors"
)

// Kind classifies how a query binds and what it demonstrates.
type Kind string

const (
	// KindAggregate scans the full table.
	KindAggregate Kind = "aggregate"

	// KindPoint is a selective filter, the case sort keys help most.
	KindPoint Kind = "point"

	// KindSample runs against the session sample table.
	KindSample Kind = "sample"
)

// Placeholder is substituted with the bound table name.
const Placeholder = "{{table}}"

// Query is one benchmark statement.
type Query struct {
	Name string
	Kind Kind
	SQL  string
}

// Bind substitutes the table placeholder.
func (q Query) Bind(table string) string {
	return strings.ReplaceAll(q.SQL, Placeholder, table)
}

// Suite is an ordered set of queries with unique names.
type Suite struct {
	Queries []Query
}

// Default returns the demo's query set.
func Default() Suite {
	return Suite{Queries: []Query{
		{
			Name: "os_breakdown",
			Kind: KindAggregate,
			SQL: `SELECT os, count(*) AS users, avg(age) AS avg_age
FROM {{table}}
GROUP BY os
ORDER BY users DESC`,
		},
		{
			Name: "brazil_age_band",
			Kind: KindPoint,
			SQL: `SELECT os, count(*) AS users
FROM {{table}}
WHERE country = 'brazil' AND age BETWEEN 25 AND 40
GROUP BY os
ORDER BY users DESC`,
		},
		{
			Name: "mac_age_range",
			Kind: KindPoint,
			SQL: `SELECT count(*) AS insane_users
FROM {{table}}
WHERE os = 'mac' AND age < 30 AND is_insane IN ('yes', 'for sure')`,
		},
		{
			Name: "reason_snippets",
			Kind: KindAggregate,
			SQL: `SELECT left(reason, 24) AS snippet, count(*) AS users
FROM {{table}}
GROUP BY snippet
ORDER BY users DESC
LIMIT 10`,
		},
		{
			Name: "rich_by_os",
			Kind: KindAggregate,
			SQL: `SELECT os, is_rich, count(*) AS users
FROM {{table}}
GROUP BY os, is_rich
ORDER BY os, users DESC`,
		},
		{
			Name: "sample_profile",
			Kind: KindSample,
			SQL: `SELECT os, count(*) AS users, min(age) AS youngest, max(age) AS oldest
FROM {{table}}
GROUP BY os
ORDER BY os`,
		},
	}}
}

// Lookup returns the named query.
func (s Suite) Lookup(name string) (Query, error) {
	for _, q := range s.Queries {
		if q.Name == name {
			return q, nil
		}
	}
	return Query{}, fmt.Errorf("query %q: %w", name, errors.ErrQueryNotFound)
}

// Merge appends extra queries to the suite. Names must stay unique;
// an extra query with an existing name replaces it.
func (s Suite) Merge(extra []Query) Suite {
	out := Suite{Queries: make([]Query, len(s.Queries))}
	copy(out.Queries, s.Queries)

	for _, q := range extra {
		replaced := false
		for i := range out.Queries {
			if out.Queries[i].Name == q.Name {
				out.Queries[i] = q
				replaced = true
				break
			}
		}
		if !replaced {
			out.Queries = append(out.Queries, q)
		}
	}
	return out
}
