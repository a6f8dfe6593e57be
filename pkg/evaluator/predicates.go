package evaluator

import (
	"github.com/relcore/relcore/pkg/ast"
	"github.com/relcore/relcore/pkg/errs"
	"github.com/relcore/relcore/pkg/lexer"
	"github.com/relcore/relcore/pkg/types"
)

// evalIn implements `left [NOT] IN (values... | subquery)`: NULL if either
// side is NULL and no TRUE match is found, per spec.md §4.4.
func evalIn(e *ast.InExpr, env *Env) (TruthValue, error) {
	left, err := Eval(e.Left, env)
	if err != nil {
		return Unknown, err
	}

	var candidates []types.Value
	if e.Subquery != nil {
		cols, rows, err := runSubquery(e.Subquery, env)
		if err != nil {
			return Unknown, err
		}
		if len(cols) != 1 {
			return Unknown, errs.New(errs.Cardinality, "IN subquery must return exactly one column")
		}
		for _, r := range rows {
			candidates = append(candidates, r[0])
		}
	} else {
		for _, expr := range e.Values {
			v, err := Eval(expr, env)
			if err != nil {
				return Unknown, err
			}
			candidates = append(candidates, v)
		}
	}

	sawNull := left.IsNull()
	matched := false
	for _, c := range candidates {
		if c.IsNull() {
			sawNull = true
			continue
		}
		if left.IsNull() {
			continue
		}
		tv, err := Compare(lexer.TokenEq, left, c)
		if err != nil {
			return Unknown, err
		}
		if tv == True {
			matched = true
			break
		}
	}

	result := boolToTruth(matched)
	if !matched && sawNull {
		result = Unknown
	}
	if e.Not {
		return Not(result), nil
	}
	return result, nil
}

// evalBetween implements `left [NOT] BETWEEN low AND high`, inclusive,
// equivalent to `left >= low AND left <= high` under 3VL.
func evalBetween(e *ast.BetweenExpr, env *Env) (TruthValue, error) {
	left, err := Eval(e.Left, env)
	if err != nil {
		return Unknown, err
	}
	low, err := Eval(e.Low, env)
	if err != nil {
		return Unknown, err
	}
	high, err := Eval(e.High, env)
	if err != nil {
		return Unknown, err
	}
	ge, err := Compare(lexer.TokenGte, left, low)
	if err != nil {
		return Unknown, err
	}
	le, err := Compare(lexer.TokenLte, left, high)
	if err != nil {
		return Unknown, err
	}
	result := And(ge, le)
	if e.Not {
		return Not(result), nil
	}
	return result, nil
}

// evalLike implements `left [NOT] LIKE|ILIKE pattern`.
func evalLike(e *ast.LikeExpr, env *Env) (TruthValue, error) {
	left, err := Eval(e.Left, env)
	if err != nil {
		return Unknown, err
	}
	pattern, err := Eval(e.Pattern, env)
	if err != nil {
		return Unknown, err
	}
	if left.IsNull() || pattern.IsNull() {
		return Unknown, nil
	}
	matched := likeMatch(left.AsString(), pattern.AsString(), e.CaseInsensitive)
	result := boolToTruth(matched)
	if e.Not {
		return Not(result), nil
	}
	return result, nil
}

// evalScalarSubquery implements a parenthesized SELECT in expression
// position: it must produce at most one row and one column (spec.md
// §4.4); zero rows yields NULL, more than one row is a CardinalityError.
func evalScalarSubquery(e *ast.SubqueryExpr, env *Env) (types.Value, error) {
	cols, rows, err := runSubquery(e.Query, env)
	if err != nil {
		return types.Value{}, err
	}
	if len(cols) != 1 {
		return types.Value{}, errs.New(errs.Cardinality, "scalar subquery must return exactly one column")
	}
	if len(rows) == 0 {
		return types.Null, nil
	}
	if len(rows) > 1 {
		return types.Value{}, errs.New(errs.Cardinality, "scalar subquery returned more than one row")
	}
	return rows[0][0], nil
}

func runSubquery(stmt *ast.SelectStmt, env *Env) ([]string, [][]types.Value, error) {
	if env.Runner == nil {
		return nil, nil, errs.New(errs.State, "no query runner configured for subquery evaluation")
	}
	return env.Runner.RunSelect(stmt, env)
}
