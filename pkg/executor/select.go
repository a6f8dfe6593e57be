package executor

import (
	"time"

	"github.com/relcore/relcore/pkg/ast"
	"github.com/relcore/relcore/pkg/catalog"
	"github.com/relcore/relcore/pkg/errs"
	"github.com/relcore/relcore/pkg/evaluator"
	"github.com/relcore/relcore/pkg/types"
)

// RunSelect implements evaluator.QueryRunner, closing the loop so a scalar
// or IN subquery evaluated deep inside an expression tree can run a nested
// SELECT through this same pipeline, correlated against its enclosing row
// via outer.
func (ex *Executor) RunSelect(stmt *ast.SelectStmt, outer *evaluator.Env) ([]string, [][]types.Value, error) {
	return ex.runSelectChain(stmt, outer)
}

func (ex *Executor) execSelect(s *ast.SelectStmt) (*Result, error) {
	columns, rows, err := ex.runSelectChain(s, nil)
	if err != nil {
		return nil, err
	}
	result := NewResult("SELECT")
	for _, c := range columns {
		// The engine has no static type-inference pass, so a projected
		// column (as opposed to a stored table column) reports no type.
		result.AddColumn(c, "")
	}
	for _, row := range rows {
		result.AddRow(row)
	}
	result.RowCount = len(rows)
	return result, nil
}

// runSelectChain evaluates one SELECT, including any trailing UNION/
// INTERSECT/EXCEPT chain, and returns its output columns and rows. outer is
// the enclosing row environment for a correlated subquery, nil at the top
// level.
func (ex *Executor) runSelectChain(stmt *ast.SelectStmt, outer *evaluator.Env) ([]string, [][]types.Value, error) {
	columns, rows, err := ex.runSingleSelect(stmt, outer)
	if err != nil {
		return nil, nil, err
	}
	for _, branch := range stmt.Compound {
		rcols, rrows, err := ex.runSingleSelect(branch.Select, outer)
		if err != nil {
			return nil, nil, err
		}
		rows, err = combineSetOp(branch.Op, rows, rrows, columns, rcols)
		if err != nil {
			return nil, nil, err
		}
	}

	rows, err = orderRows(rows, columns, "", stmt.OrderBy, ex)
	if err != nil {
		return nil, nil, err
	}
	rows, err = applyLimitOffset(rows, stmt.Limit, stmt.Offset, ex)
	if err != nil {
		return nil, nil, err
	}
	return columns, rows, nil
}

// runSingleSelect runs one SELECT body (no compound chain, no ORDER BY/
// LIMIT — those apply once, after the whole chain combines) through steps
// 1-8 of the pipeline: source resolution, WHERE, grouping, HAVING,
// projection, DISTINCT.
func (ex *Executor) runSingleSelect(stmt *ast.SelectStmt, outer *evaluator.Env) ([]string, [][]types.Value, error) {
	ctes, err := ex.materializeCTEs(stmt.With, outer)
	if err != nil {
		return nil, nil, err
	}

	srcColumns, srcRows, alias, err := ex.resolveFrom(stmt.From, ctes, outer)
	if err != nil {
		return nil, nil, err
	}

	// CURRENT_DATE/NOW() are captured once for this SELECT body, not
	// re-sampled for every row or pipeline stage. A subquery run against an
	// enclosing row reuses that row's instant; a body with no enclosing row
	// reads the clock itself.
	var now time.Time
	if outer != nil {
		now = outer.Now
	}
	if now.IsZero() {
		now = ex.clockNow()
	}
	rowEnv := func(row []types.Value) *evaluator.Env {
		env := evaluator.NewEnv(srcColumns, row, alias)
		env.Runner = ex
		env.CTEs = ctes
		env.Now = now
		env.Outer = outer
		return env
	}

	if stmt.Where != nil {
		filtered := make([][]types.Value, 0, len(srcRows))
		for _, row := range srcRows {
			ok, err := evaluator.EvalPredicate(stmt.Where, rowEnv(row))
			if err != nil {
				return nil, nil, err
			}
			if ok {
				filtered = append(filtered, row)
			}
		}
		srcRows = filtered
	}

	needsGrouping := len(stmt.GroupBy) > 0 || hasAggregates(stmt.Columns) || containsAggregate(stmt.Having)
	if !needsGrouping {
		return ex.projectPlain(stmt, srcColumns, srcRows, rowEnv)
	}
	return ex.projectGrouped(stmt, srcColumns, srcRows, alias, now)
}

// projectPlain handles the common case: no GROUP BY and no aggregates, a
// straight per-row projection.
func (ex *Executor) projectPlain(stmt *ast.SelectStmt, srcColumns []string, srcRows [][]types.Value, rowEnv func([]types.Value) *evaluator.Env) ([]string, [][]types.Value, error) {
	outColumns := projectedColumnNames(stmt.Columns, srcColumns)
	outRows := make([][]types.Value, 0, len(srcRows))
	for _, row := range srcRows {
		out, err := projectRow(stmt.Columns, rowEnv(row))
		if err != nil {
			return nil, nil, err
		}
		outRows = append(outRows, out)
	}
	if stmt.Distinct {
		outRows = dedupeRows(outRows)
	}
	return outColumns, outRows, nil
}

// projectGrouped handles GROUP BY and/or bare aggregate projection (no
// GROUP BY but an aggregate in the select list or HAVING), spec.md §4.5
// steps 4-8.
func (ex *Executor) projectGrouped(stmt *ast.SelectStmt, srcColumns []string, srcRows [][]types.Value, alias string, now time.Time) ([]string, [][]types.Value, error) {
	for _, col := range stmt.Columns {
		if col.Star || containsAggregate(col.Expr) {
			continue
		}
		if err := validateGroupingExpr(col.Expr, stmt.GroupBy); err != nil {
			return nil, nil, err
		}
	}
	if stmt.Having != nil {
		if err := validateGroupingExpr(stmt.Having, stmt.GroupBy); err != nil {
			return nil, nil, err
		}
	}

	groups, err := buildGroups(srcRows, srcColumns, alias, stmt.GroupBy, ex, now)
	if err != nil {
		return nil, nil, err
	}

	if stmt.Having != nil {
		kept := groups[:0]
		for _, g := range groups {
			v, err := evalGroupExpr(stmt.Having, g, srcColumns, alias, ex, now)
			if err != nil {
				return nil, nil, err
			}
			if evaluator.FromValue(v).ToBool() {
				kept = append(kept, g)
			}
		}
		groups = kept
	}

	outColumns := projectedColumnNames(stmt.Columns, srcColumns)
	outRows := make([][]types.Value, 0, len(groups))
	for _, g := range groups {
		row := make([]types.Value, 0, len(stmt.Columns))
		for _, col := range stmt.Columns {
			if col.Star {
				if len(g.rows) > 0 {
					row = append(row, g.rows[0]...)
				}
				continue
			}
			v, err := evalGroupExpr(col.Expr, g, srcColumns, alias, ex, now)
			if err != nil {
				return nil, nil, err
			}
			row = append(row, v)
		}
		outRows = append(outRows, row)
	}
	if stmt.Distinct {
		outRows = dedupeRows(outRows)
	}
	return outColumns, outRows, nil
}

func projectedColumnNames(cols []ast.SelectColumn, srcColumns []string) []string {
	var out []string
	for _, col := range cols {
		if col.Star {
			out = append(out, srcColumns...)
			continue
		}
		out = append(out, columnLabel(col))
	}
	return out
}

func projectRow(cols []ast.SelectColumn, env *evaluator.Env) ([]types.Value, error) {
	row := make([]types.Value, 0, len(cols))
	for _, col := range cols {
		if col.Star {
			row = append(row, env.Row...)
			continue
		}
		v, err := evaluator.Eval(col.Expr, env)
		if err != nil {
			return nil, err
		}
		row = append(row, v)
	}
	return row, nil
}

// materializeCTEs evaluates every statement-scoped CTE once, in source
// order, so later CTEs may reference earlier ones. Recursive CTEs are not
// supported (DESIGN.md Open Questions).
func (ex *Executor) materializeCTEs(with *ast.WithClause, outer *evaluator.Env) (map[string]*evaluator.CTEResult, error) {
	if with == nil {
		return nil, nil
	}
	result := make(map[string]*evaluator.CTEResult, len(with.CTEs))
	for _, cte := range with.CTEs {
		if _, dup := result[cte.Name]; dup {
			return nil, errs.New(errs.Name, "WITH query name %q specified more than once", cte.Name)
		}
		columns, rows, err := ex.runSelectChain(cte.Query, outer)
		if err != nil {
			return nil, err
		}
		if len(cte.Columns) > 0 {
			columns = cte.Columns
		}
		result[cte.Name] = &evaluator.CTEResult{Columns: columns, Rows: rows}
	}
	return result, nil
}

// resolveFrom resolves the single FROM source (spec.md §4.2/§4.5 step 1):
// a CTE-name match first, then a table/view/materialized-view lookup, or a
// parenthesized subquery materialized under its alias. A nil From (bare
// `SELECT <expr-list>`) produces one row with no columns.
func (ex *Executor) resolveFrom(from *ast.TableSource, ctes map[string]*evaluator.CTEResult, outer *evaluator.Env) ([]string, [][]types.Value, string, error) {
	if from == nil {
		return nil, [][]types.Value{{}}, "", nil
	}

	if from.Subquery != nil {
		columns, rows, err := ex.runSelectChain(from.Subquery, outer)
		if err != nil {
			return nil, nil, "", err
		}
		return columns, rows, from.Alias, nil
	}

	if cte, ok := ctes[from.Name]; ok {
		alias := from.Alias
		if alias == "" {
			alias = from.Name
		}
		return cte.Columns, cte.Rows, alias, nil
	}

	db, err := ex.session.CurrentDatabase()
	if err != nil {
		return nil, nil, "", err
	}
	table, view, mview, found := db.Relation(from.Name)
	if !found {
		return nil, nil, "", errs.New(errs.Name, "relation %q does not exist", from.Name)
	}
	alias := from.Alias
	if alias == "" {
		alias = from.Name
	}
	switch {
	case table != nil:
		return columnNames(table), table.Rows(), alias, nil
	case mview != nil:
		return columnNamesFromView(mview), mview.Rows(), alias, nil
	case view != nil:
		columns, rows, err := ex.runSelectChain(view.Query, outer)
		if err != nil {
			return nil, nil, "", err
		}
		return columns, rows, alias, nil
	}
	return nil, nil, "", errs.New(errs.Name, "relation %q does not exist", from.Name)
}

func columnNamesFromView(mv *catalog.MaterializedView) []string {
	return mv.Columns
}

// applyLimitOffset implements step 11: OFFSET skips rows, LIMIT caps the
// remainder. Either expression may reference no columns (they're evaluated
// with an empty row environment) but must not be negative.
func applyLimitOffset(rows [][]types.Value, limit, offset ast.Expr, runner evaluator.QueryRunner) ([][]types.Value, error) {
	start := 0
	if offset != nil {
		n, err := evalIntBound(offset, runner)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, errs.New(errs.Type, "OFFSET must not be negative")
		}
		start = n
	}
	if start > len(rows) {
		start = len(rows)
	}
	rows = rows[start:]

	if limit == nil {
		return rows, nil
	}
	n, err := evalIntBound(limit, runner)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errs.New(errs.Type, "LIMIT must not be negative")
	}
	if n > len(rows) {
		n = len(rows)
	}
	return rows[:n], nil
}

func evalIntBound(expr ast.Expr, runner evaluator.QueryRunner) (int, error) {
	env := evaluator.NewEnv(nil, nil, "")
	env.Runner = runner
	v, err := evaluator.Eval(expr, env)
	if err != nil {
		return 0, err
	}
	return int(v.AsInt()), nil
}
