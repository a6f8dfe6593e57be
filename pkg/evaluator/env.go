// Package evaluator evaluates scalar expressions against a row environment
// under three-valued logic: column references, operators, function calls,
// CASE, CAST, and scalar subqueries (spec.md §4.4). It knows nothing about
// statement dispatch or row iteration order — that lives in pkg/executor,
// which calls into this package once per candidate row.
package evaluator

import (
	"time"

	"github.com/relcore/relcore/pkg/ast"
	"github.com/relcore/relcore/pkg/types"
)

// CTEResult is a materialized CTE result set: a column-name list plus the
// rows computed for it once, shared by every reference within a statement.
type CTEResult struct {
	Columns []string
	Rows    [][]types.Value
}

// QueryRunner runs a nested SELECT and returns its column names and rows.
// The evaluator depends on this interface, not on pkg/executor directly,
// so that executor (which implements it) can depend on evaluator without a
// package cycle — scalar and IN subqueries call back into the same SELECT
// pipeline that runs top-level queries.
type QueryRunner interface {
	RunSelect(stmt *ast.SelectStmt, outer *Env) (columns []string, rows [][]types.Value, err error)
}

// Env is the evaluation environment spec.md §4.4 describes: the current
// row, a column-name-to-ordinal map, an optional alias scoping that row (so
// `alias.col` resolves), the active CTE bindings, and the means to run a
// subquery. Outer chains to the enclosing row for correlated subqueries.
type Env struct {
	Row     []types.Value
	Columns map[string]int // unqualified column name -> ordinal in Row
	Alias   string          // FROM alias/table name this row belongs to, if any

	CTEs   map[string]*CTEResult
	Runner QueryRunner
	Now    time.Time // captured by the executor per DML statement or SELECT body (see storage.Clock)

	Outer *Env // enclosing row environment, for correlated subquery column refs
}

// NewEnv builds a row environment. alias may be empty if the row's source
// has no name (e.g. a bare expression-only SELECT with no FROM).
func NewEnv(columns []string, row []types.Value, alias string) *Env {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	return &Env{Row: row, Columns: idx, Alias: alias}
}

// WithOuter returns a copy of e chained to outer, for evaluating a
// correlated subquery's body against its own row while still being able to
// resolve the enclosing statement's columns.
func (e *Env) WithOuter(outer *Env) *Env {
	clone := *e
	clone.Outer = outer
	return &clone
}

// Resolve looks up a (possibly qualified) column reference, per spec.md
// §4.4's case-sensitive identifier rule (no folding outside keywords).
func (e *Env) Resolve(ref *ast.ColumnRef) (types.Value, bool) {
	if ref.Table != "" && e.Alias != "" && ref.Table != e.Alias {
		if e.Outer != nil {
			return e.Outer.Resolve(ref)
		}
		return types.Null, false
	}
	if i, ok := e.Columns[ref.Column]; ok {
		return e.Row[i], true
	}
	if e.Outer != nil {
		return e.Outer.Resolve(ref)
	}
	return types.Null, false
}
