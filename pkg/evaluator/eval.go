package evaluator

import (
	"strconv"
	"strings"

	"github.com/relcore/relcore/pkg/ast"
	"github.com/relcore/relcore/pkg/errs"
	"github.com/relcore/relcore/pkg/lexer"
	"github.com/relcore/relcore/pkg/types"
)

// Eval evaluates a scalar expression against env, returning a Value under
// three-valued logic (spec.md §4.4). Aggregate FunctionCalls and bare
// StarExpr are not valid in scalar position; the executor rewrites or
// substitutes those before calling Eval.
func Eval(expr ast.Expr, env *Env) (types.Value, error) {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		return evalLiteral(e)
	case *ast.ColumnRef:
		if v, ok := env.Resolve(e); ok {
			return v, nil
		}
		qualified := e.Column
		if e.Table != "" {
			qualified = e.Table + "." + e.Column
		}
		return types.Value{}, errs.New(errs.Name, "unknown column %q", qualified)
	case *ast.ParenExpr:
		return Eval(e.Expr, env)
	case *ast.UnaryExpr:
		return evalUnary(e, env)
	case *ast.BinaryExpr:
		return evalBinary(e, env)
	case *ast.CaseExpr:
		return evalCase(e, env)
	case *ast.InExpr:
		tv, err := evalIn(e, env)
		if err != nil {
			return types.Value{}, err
		}
		return tv.ToValue(), nil
	case *ast.BetweenExpr:
		tv, err := evalBetween(e, env)
		if err != nil {
			return types.Value{}, err
		}
		return tv.ToValue(), nil
	case *ast.LikeExpr:
		tv, err := evalLike(e, env)
		if err != nil {
			return types.Value{}, err
		}
		return tv.ToValue(), nil
	case *ast.IsNullExpr:
		v, err := Eval(e.Left, env)
		if err != nil {
			return types.Value{}, err
		}
		result := v.IsNull()
		if e.Not {
			result = !result
		}
		return types.Bool(result), nil
	case *ast.CastExpr:
		v, err := Eval(e.Expr, env)
		if err != nil {
			return types.Value{}, err
		}
		tn, ok := types.TypeFromName(e.Type.Name)
		if !ok {
			return types.Value{}, errs.New(errs.Type, "unknown CAST target type %q", e.Type.Name)
		}
		return Cast(v, types.ColumnType{Name: tn, Length: e.Type.Length})
	case *ast.ExtractExpr:
		v, err := Eval(e.Source, env)
		if err != nil {
			return types.Value{}, err
		}
		return Extract(e.Field, v)
	case *ast.FunctionCall:
		return evalFunctionCall(e, env)
	case *ast.SubqueryExpr:
		return evalScalarSubquery(e, env)
	case *ast.StarExpr:
		return types.Value{}, errs.New(errs.Syntax, "* is not valid in scalar expression position")
	}
	return types.Value{}, errs.New(errs.Type, "unsupported expression type %T", expr)
}

// EvalPredicate evaluates expr and collapses the 3VL result to a plain bool
// (UNKNOWN behaves as FALSE), for the WHERE/HAVING/ON CONFLICT contexts
// spec.md §9 names. CHECK constraints use the opposite UNKNOWN rule and are
// collapsed by the executor instead.
func EvalPredicate(expr ast.Expr, env *Env) (bool, error) {
	v, err := Eval(expr, env)
	if err != nil {
		return false, err
	}
	return FromValue(v).ToBool(), nil
}

func evalLiteral(e *ast.LiteralExpr) (types.Value, error) {
	switch e.Type {
	case lexer.TokenNULL:
		return types.Null, nil
	case lexer.TokenTRUE:
		return types.Bool(true), nil
	case lexer.TokenFALSE:
		return types.Bool(false), nil
	case lexer.TokenString:
		return types.Str(e.Value), nil
	case lexer.TokenNumber:
		if strings.ContainsAny(e.Value, ".eE") {
			f, err := strconv.ParseFloat(e.Value, 64)
			if err != nil {
				return types.Value{}, errs.New(errs.Syntax, "invalid numeric literal %q", e.Value)
			}
			return types.Float(f), nil
		}
		i, err := strconv.ParseInt(e.Value, 10, 64)
		if err != nil {
			return types.Value{}, errs.New(errs.Syntax, "invalid numeric literal %q", e.Value)
		}
		return types.Int(i), nil
	}
	return types.Value{}, errs.New(errs.Syntax, "unsupported literal token %s", e.Type)
}

func evalUnary(e *ast.UnaryExpr, env *Env) (types.Value, error) {
	v, err := Eval(e.Operand, env)
	if err != nil {
		return types.Value{}, err
	}
	switch e.Op {
	case lexer.TokenMinus:
		return Negate(v)
	case lexer.TokenNOT:
		return Not(FromValue(v)).ToValue(), nil
	case lexer.TokenPlus:
		return v, nil
	}
	return types.Value{}, errs.New(errs.Type, "unsupported unary operator %s", e.Op)
}

func evalBinary(e *ast.BinaryExpr, env *Env) (types.Value, error) {
	switch e.Op {
	case lexer.TokenAND, lexer.TokenOR:
		lv, err := Eval(e.Left, env)
		if err != nil {
			return types.Value{}, err
		}
		rv, err := Eval(e.Right, env)
		if err != nil {
			return types.Value{}, err
		}
		lt, rt := FromValue(lv), FromValue(rv)
		if e.Op == lexer.TokenAND {
			return And(lt, rt).ToValue(), nil
		}
		return Or(lt, rt).ToValue(), nil
	case lexer.TokenEq, lexer.TokenNeq, lexer.TokenLt, lexer.TokenLte, lexer.TokenGt, lexer.TokenGte:
		lv, err := Eval(e.Left, env)
		if err != nil {
			return types.Value{}, err
		}
		rv, err := Eval(e.Right, env)
		if err != nil {
			return types.Value{}, err
		}
		tv, err := Compare(e.Op, lv, rv)
		if err != nil {
			return types.Value{}, err
		}
		return tv.ToValue(), nil
	default:
		lv, err := Eval(e.Left, env)
		if err != nil {
			return types.Value{}, err
		}
		rv, err := Eval(e.Right, env)
		if err != nil {
			return types.Value{}, err
		}
		return Arithmetic(e.Op, lv, rv)
	}
}

func evalCase(e *ast.CaseExpr, env *Env) (types.Value, error) {
	var operand types.Value
	hasOperand := e.Operand != nil
	if hasOperand {
		v, err := Eval(e.Operand, env)
		if err != nil {
			return types.Value{}, err
		}
		operand = v
	}

	for _, w := range e.Whens {
		if hasOperand {
			cv, err := Eval(w.Condition, env)
			if err != nil {
				return types.Value{}, err
			}
			tv, err := Compare(lexer.TokenEq, operand, cv)
			if err != nil {
				return types.Value{}, err
			}
			if tv != True {
				continue
			}
		} else {
			ok, err := EvalPredicate(w.Condition, env)
			if err != nil {
				return types.Value{}, err
			}
			if !ok {
				continue
			}
		}
		return Eval(w.Result, env)
	}
	if e.Else != nil {
		return Eval(e.Else, env)
	}
	return types.Null, nil
}

func evalFunctionCall(e *ast.FunctionCall, env *Env) (types.Value, error) {
	args := make([]types.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := Eval(a, env)
		if err != nil {
			return types.Value{}, err
		}
		args[i] = v
	}
	return CallFunction(e.Name, args, env.Now)
}
