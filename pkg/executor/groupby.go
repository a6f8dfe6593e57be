package executor

import (
	"fmt"
	"strings"
	"time"

	"github.com/relcore/relcore/pkg/ast"
	"github.com/relcore/relcore/pkg/errs"
	"github.com/relcore/relcore/pkg/evaluator"
	"github.com/relcore/relcore/pkg/lexer"
	"github.com/relcore/relcore/pkg/types"
)

// containsAggregate reports whether expr has an aggregate function call
// anywhere in its tree, not descending into a nested subquery (a subquery's
// own aggregates belong to its own statement, not this one).
func containsAggregate(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.FunctionCall:
		if evaluator.AggregateNames[strings.ToUpper(e.Name)] {
			return true
		}
		for _, a := range e.Args {
			if containsAggregate(a) {
				return true
			}
		}
		return false
	case *ast.BinaryExpr:
		return containsAggregate(e.Left) || containsAggregate(e.Right)
	case *ast.UnaryExpr:
		return containsAggregate(e.Operand)
	case *ast.ParenExpr:
		return containsAggregate(e.Expr)
	case *ast.CastExpr:
		return containsAggregate(e.Expr)
	case *ast.ExtractExpr:
		return containsAggregate(e.Source)
	case *ast.IsNullExpr:
		return containsAggregate(e.Left)
	case *ast.BetweenExpr:
		return containsAggregate(e.Left) || containsAggregate(e.Low) || containsAggregate(e.High)
	case *ast.LikeExpr:
		return containsAggregate(e.Left) || containsAggregate(e.Pattern)
	case *ast.InExpr:
		if containsAggregate(e.Left) {
			return true
		}
		for _, v := range e.Values {
			if containsAggregate(v) {
				return true
			}
		}
		return false
	case *ast.CaseExpr:
		if e.Operand != nil && containsAggregate(e.Operand) {
			return true
		}
		for _, w := range e.Whens {
			if containsAggregate(w.Condition) || containsAggregate(w.Result) {
				return true
			}
		}
		return e.Else != nil && containsAggregate(e.Else)
	default:
		return false
	}
}

func hasAggregates(cols []ast.SelectColumn) bool {
	for _, c := range cols {
		if !c.Star && containsAggregate(c.Expr) {
			return true
		}
	}
	return false
}

// validateGroupingExpr enforces spec.md §4.5 step 4: every column reference
// outside an aggregate's own arguments must structurally match one of the
// GROUP BY key expressions.
func validateGroupingExpr(expr ast.Expr, keys []ast.Expr) error {
	if exprMatchesAny(expr, keys) {
		return nil
	}
	switch e := expr.(type) {
	case *ast.ColumnRef:
		return errs.New(errs.Syntax, "column %q must appear in the GROUP BY clause or be used in an aggregate function", e.Column)
	case *ast.FunctionCall:
		if evaluator.AggregateNames[strings.ToUpper(e.Name)] {
			return nil // aggregate arguments are exempt
		}
		for _, a := range e.Args {
			if err := validateGroupingExpr(a, keys); err != nil {
				return err
			}
		}
		return nil
	case *ast.BinaryExpr:
		if err := validateGroupingExpr(e.Left, keys); err != nil {
			return err
		}
		return validateGroupingExpr(e.Right, keys)
	case *ast.UnaryExpr:
		return validateGroupingExpr(e.Operand, keys)
	case *ast.ParenExpr:
		return validateGroupingExpr(e.Expr, keys)
	case *ast.CastExpr:
		return validateGroupingExpr(e.Expr, keys)
	case *ast.ExtractExpr:
		return validateGroupingExpr(e.Source, keys)
	case *ast.IsNullExpr:
		return validateGroupingExpr(e.Left, keys)
	case *ast.BetweenExpr:
		if err := validateGroupingExpr(e.Left, keys); err != nil {
			return err
		}
		if err := validateGroupingExpr(e.Low, keys); err != nil {
			return err
		}
		return validateGroupingExpr(e.High, keys)
	case *ast.LikeExpr:
		if err := validateGroupingExpr(e.Left, keys); err != nil {
			return err
		}
		return validateGroupingExpr(e.Pattern, keys)
	case *ast.InExpr:
		if err := validateGroupingExpr(e.Left, keys); err != nil {
			return err
		}
		for _, v := range e.Values {
			if err := validateGroupingExpr(v, keys); err != nil {
				return err
			}
		}
		return nil
	case *ast.CaseExpr:
		if e.Operand != nil {
			if err := validateGroupingExpr(e.Operand, keys); err != nil {
				return err
			}
		}
		for _, w := range e.Whens {
			if err := validateGroupingExpr(w.Condition, keys); err != nil {
				return err
			}
			if err := validateGroupingExpr(w.Result, keys); err != nil {
				return err
			}
		}
		if e.Else != nil {
			return validateGroupingExpr(e.Else, keys)
		}
		return nil
	default:
		return nil
	}
}

// group is one GROUP BY bucket: the key-expression values that defined it,
// plus every source row that hashed into it.
type group struct {
	keyValues []types.Value
	rows      [][]types.Value
}

// buildGroups buckets rows by their GROUP BY key tuple, preserving
// first-seen group order (spec.md doesn't mandate an order, but a stable
// one makes output deterministic before ORDER BY is applied).
func buildGroups(rows [][]types.Value, columns []string, alias string, keys []ast.Expr, runner evaluator.QueryRunner, now time.Time) ([]*group, error) {
	index := map[string]*group{}
	var order []*group
	for _, row := range rows {
		env := evaluator.NewEnv(columns, row, alias)
		env.Runner = runner
		env.Now = now
		keyValues := make([]types.Value, len(keys))
		var keyStr strings.Builder
		for i, k := range keys {
			v, err := evaluator.Eval(k, env)
			if err != nil {
				return nil, err
			}
			keyValues[i] = v
			fmt.Fprintf(&keyStr, "%v\x00", v.HashKey())
		}
		g, ok := index[keyStr.String()]
		if !ok {
			g = &group{keyValues: keyValues}
			index[keyStr.String()] = g
			order = append(order, g)
		}
		g.rows = append(g.rows, row)
	}
	if len(keys) == 0 && len(order) == 0 {
		// Aggregate with no GROUP BY and zero source rows still produces
		// one group, so COUNT(*)/SUM/etc finalize against an empty set.
		order = append(order, &group{})
	}
	return order, nil
}

// evalGroupExpr evaluates expr for one group: aggregate FunctionCall nodes
// finalize over every row in the group, non-aggregate column references and
// literals evaluate against the group's representative (first) row, and
// everything in between (a binary/unary/cast wrapping an aggregate, e.g.
// `SUM(x) * 100.0 / COUNT(*)`) recurses operator-by-operator so aggregate
// sub-results combine correctly. Grounded on the teacher's
// evalAggregateExpr/evalExprWithAggregates pair.
func evalGroupExpr(expr ast.Expr, g *group, columns []string, alias string, runner evaluator.QueryRunner, now time.Time) (types.Value, error) {
	if call, ok := expr.(*ast.FunctionCall); ok && evaluator.AggregateNames[strings.ToUpper(call.Name)] {
		return finalizeAggregate(call, g, columns, runner, now)
	}
	if !containsAggregate(expr) {
		return evalAgainstRepresentativeRow(expr, g, columns, alias, runner, now)
	}
	switch e := expr.(type) {
	case *ast.BinaryExpr:
		switch e.Op {
		case lexer.TokenAND, lexer.TokenOR:
			l, err := evalGroupExpr(e.Left, g, columns, alias, runner, now)
			if err != nil {
				return types.Value{}, err
			}
			r, err := evalGroupExpr(e.Right, g, columns, alias, runner, now)
			if err != nil {
				return types.Value{}, err
			}
			lt, rt := evaluator.FromValue(l), evaluator.FromValue(r)
			if e.Op == lexer.TokenAND {
				return evaluator.And(lt, rt).ToValue(), nil
			}
			return evaluator.Or(lt, rt).ToValue(), nil
		case lexer.TokenEq, lexer.TokenNeq, lexer.TokenLt, lexer.TokenLte, lexer.TokenGt, lexer.TokenGte:
			l, err := evalGroupExpr(e.Left, g, columns, alias, runner, now)
			if err != nil {
				return types.Value{}, err
			}
			r, err := evalGroupExpr(e.Right, g, columns, alias, runner, now)
			if err != nil {
				return types.Value{}, err
			}
			tv, err := evaluator.Compare(e.Op, l, r)
			if err != nil {
				return types.Value{}, err
			}
			return tv.ToValue(), nil
		default:
			l, err := evalGroupExpr(e.Left, g, columns, alias, runner, now)
			if err != nil {
				return types.Value{}, err
			}
			r, err := evalGroupExpr(e.Right, g, columns, alias, runner, now)
			if err != nil {
				return types.Value{}, err
			}
			return evaluator.Arithmetic(e.Op, l, r)
		}
	case *ast.UnaryExpr:
		v, err := evalGroupExpr(e.Operand, g, columns, alias, runner, now)
		if err != nil {
			return types.Value{}, err
		}
		switch e.Op {
		case lexer.TokenMinus:
			return evaluator.Negate(v)
		case lexer.TokenNOT:
			return evaluator.Not(evaluator.FromValue(v)).ToValue(), nil
		case lexer.TokenPlus:
			return v, nil
		}
		return types.Value{}, errs.New(errs.Type, "unsupported unary operator %s", e.Op)
	case *ast.ParenExpr:
		return evalGroupExpr(e.Expr, g, columns, alias, runner, now)
	case *ast.CastExpr:
		v, err := evalGroupExpr(e.Expr, g, columns, alias, runner, now)
		if err != nil {
			return types.Value{}, err
		}
		tn, ok := types.TypeFromName(e.Type.Name)
		if !ok {
			return types.Value{}, errs.New(errs.Type, "unknown CAST target type %q", e.Type.Name)
		}
		return evaluator.Cast(v, types.ColumnType{Name: tn, Length: e.Type.Length})
	default:
		return evalAgainstRepresentativeRow(expr, g, columns, alias, runner, now)
	}
}

func evalAgainstRepresentativeRow(expr ast.Expr, g *group, columns []string, alias string, runner evaluator.QueryRunner, now time.Time) (types.Value, error) {
	var row []types.Value
	if len(g.rows) > 0 {
		row = g.rows[0]
	}
	env := evaluator.NewEnv(columns, row, alias)
	env.Runner = runner
	env.Now = now
	return evaluator.Eval(expr, env)
}

func finalizeAggregate(call *ast.FunctionCall, g *group, columns []string, runner evaluator.QueryRunner, now time.Time) (types.Value, error) {
	name := strings.ToUpper(call.Name)
	if name == "COUNT" && call.Star {
		return evaluator.FinalizeCountStar(len(g.rows)), nil
	}
	values := make([]types.Value, 0, len(g.rows))
	for _, row := range g.rows {
		env := evaluator.NewEnv(columns, row, "")
		env.Runner = runner
		env.Now = now
		v, err := evaluator.Eval(call.Args[0], env)
		if err != nil {
			return types.Value{}, err
		}
		values = append(values, v)
	}
	switch name {
	case "COUNT":
		return evaluator.FinalizeCountExpr(values), nil
	case "SUM":
		return evaluator.FinalizeSum(values)
	case "AVG":
		return evaluator.FinalizeAvg(values)
	case "MIN":
		return evaluator.FinalizeMin(values)
	case "MAX":
		return evaluator.FinalizeMax(values)
	default:
		return types.Value{}, errs.New(errs.Type, "unsupported aggregate %s", name)
	}
}
