package evaluator

import (
	"github.com/relcore/relcore/pkg/errs"
	"github.com/relcore/relcore/pkg/lexer"
	"github.com/relcore/relcore/pkg/types"
)

// Arithmetic evaluates +, -, *, /, % over numeric operands. NULL in either
// operand propagates to NULL (spec.md §4.4). Division truncates toward zero
// and modulo mirrors the dividend's sign, matching Go's native int
// operators, so no special-casing is needed beyond the zero-divisor check.
func Arithmetic(op lexer.TokenType, left, right types.Value) (types.Value, error) {
	if left.IsNull() || right.IsNull() {
		return types.Null, nil
	}
	if !left.IsNumeric() || !right.IsNumeric() {
		return types.Value{}, errs.New(errs.Type, "arithmetic operator %s requires numeric operands", op)
	}

	useFloat := left.Kind == types.KindFloat || right.Kind == types.KindFloat
	if useFloat {
		lf, rf := left.Float64(), right.Float64()
		switch op {
		case lexer.TokenPlus:
			return types.Float(lf + rf), nil
		case lexer.TokenMinus:
			return types.Float(lf - rf), nil
		case lexer.TokenStar:
			return types.Float(lf * rf), nil
		case lexer.TokenSlash:
			if rf == 0 {
				return types.Value{}, errs.New(errs.Arithmetic, "division by zero")
			}
			return types.Float(lf / rf), nil
		case lexer.TokenPercent:
			return types.Value{}, errs.New(errs.Type, "%% requires integer operands")
		}
		return types.Value{}, errs.New(errs.Type, "unsupported arithmetic operator %s", op)
	}

	li, ri := left.AsInt(), right.AsInt()
	switch op {
	case lexer.TokenPlus:
		return types.Int(li + ri), nil
	case lexer.TokenMinus:
		return types.Int(li - ri), nil
	case lexer.TokenStar:
		return types.Int(li * ri), nil
	case lexer.TokenSlash:
		if ri == 0 {
			return types.Value{}, errs.New(errs.Arithmetic, "division by zero")
		}
		return types.Int(li / ri), nil
	case lexer.TokenPercent:
		if ri == 0 {
			return types.Value{}, errs.New(errs.Arithmetic, "division by zero")
		}
		return types.Int(li % ri), nil
	}
	return types.Value{}, errs.New(errs.Type, "unsupported arithmetic operator %s", op)
}

// Negate evaluates unary minus.
func Negate(v types.Value) (types.Value, error) {
	if v.IsNull() {
		return types.Null, nil
	}
	switch v.Kind {
	case types.KindInt, types.KindSerial:
		return types.Int(-v.AsInt()), nil
	case types.KindFloat:
		return types.Float(-v.AsFloat()), nil
	default:
		return types.Value{}, errs.New(errs.Type, "unary minus requires a numeric operand")
	}
}

// Compare evaluates =, <>, <, <=, >, >= under 3VL: NULL on either side
// yields Unknown; numeric comparisons widen INT/FLOAT/SERIAL together;
// strings compare lexicographically; dates/times/timestamps compare by
// their natural ordering.
func Compare(op lexer.TokenType, left, right types.Value) (TruthValue, error) {
	if left.IsNull() || right.IsNull() {
		return Unknown, nil
	}

	var cmp int
	switch {
	case left.IsNumeric() && right.IsNumeric():
		lf, rf := left.Float64(), right.Float64()
		cmp = compareFloat(lf, rf)
	case left.Kind == types.KindString && right.Kind == types.KindString:
		cmp = compareString(left.AsString(), right.AsString())
	case left.Kind == types.KindBool && right.Kind == types.KindBool:
		cmp = compareBool(left.AsBool(), right.AsBool())
	case left.Kind == types.KindDate && right.Kind == types.KindDate:
		cmp = compareDate(left.AsDate(), right.AsDate())
	case left.Kind == types.KindTime && right.Kind == types.KindTime:
		cmp = compareTime(left.AsTime(), right.AsTime())
	case left.Kind == types.KindTimestamp && right.Kind == types.KindTimestamp:
		cmp = compareTimestamp(left, right)
	default:
		return Unknown, errs.New(errs.Type, "cannot compare %s to %s", left.Kind, right.Kind)
	}

	switch op {
	case lexer.TokenEq:
		return boolToTruth(cmp == 0), nil
	case lexer.TokenNeq:
		return boolToTruth(cmp != 0), nil
	case lexer.TokenLt:
		return boolToTruth(cmp < 0), nil
	case lexer.TokenLte:
		return boolToTruth(cmp <= 0), nil
	case lexer.TokenGt:
		return boolToTruth(cmp > 0), nil
	case lexer.TokenGte:
		return boolToTruth(cmp >= 0), nil
	}
	return Unknown, errs.New(errs.Type, "unsupported comparison operator %s", op)
}

func boolToTruth(b bool) TruthValue {
	if b {
		return True
	}
	return False
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

func compareDate(a, b types.Date) int {
	if a.Year != b.Year {
		return compareFloat(float64(a.Year), float64(b.Year))
	}
	if a.Month != b.Month {
		return compareFloat(float64(a.Month), float64(b.Month))
	}
	return compareFloat(float64(a.Day), float64(b.Day))
}

func compareTime(a, b types.Time) int {
	if a.Hour != b.Hour {
		return compareFloat(float64(a.Hour), float64(b.Hour))
	}
	if a.Minute != b.Minute {
		return compareFloat(float64(a.Minute), float64(b.Minute))
	}
	return compareFloat(float64(a.Second), float64(b.Second))
}

func compareTimestamp(a, b types.Value) int {
	at, bt := a.AsTimestamp(), b.AsTimestamp()
	switch {
	case at.Before(bt):
		return -1
	case at.After(bt):
		return 1
	default:
		return 0
	}
}
