package evaluator

import (
	"github.com/relcore/relcore/pkg/errs"
	"github.com/relcore/relcore/pkg/lexer"
	"github.com/relcore/relcore/pkg/types"
)

// FinalizeCountStar implements COUNT(*): counts rows, including rows that
// are all-NULL (spec.md §4.4).
func FinalizeCountStar(rowCount int) types.Value {
	return types.Int(int64(rowCount))
}

// FinalizeCountExpr implements COUNT(expr): counts non-NULL values.
func FinalizeCountExpr(values []types.Value) types.Value {
	var n int64
	for _, v := range values {
		if !v.IsNull() {
			n++
		}
	}
	return types.Int(n)
}

// FinalizeSum implements SUM, ignoring NULL; SUM of an empty or all-NULL
// group is NULL, not zero (spec.md §8's resolved Open Question, Postgres
// semantics).
func FinalizeSum(values []types.Value) (types.Value, error) {
	var seen bool
	var isFloat bool
	var intSum int64
	var floatSum float64
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		if !v.IsNumeric() {
			return types.Value{}, errs.New(errs.Type, "SUM requires numeric arguments")
		}
		seen = true
		if v.Kind == types.KindFloat {
			if !isFloat {
				floatSum = float64(intSum)
				isFloat = true
			}
			floatSum += v.AsFloat()
		} else if isFloat {
			floatSum += float64(v.AsInt())
		} else {
			intSum += v.AsInt()
		}
	}
	if !seen {
		return types.Null, nil
	}
	if isFloat {
		return types.Float(floatSum), nil
	}
	return types.Int(intSum), nil
}

// FinalizeAvg implements AVG, ignoring NULL; AVG of an empty or all-NULL
// group is NULL.
func FinalizeAvg(values []types.Value) (types.Value, error) {
	var sum float64
	var n int
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		if !v.IsNumeric() {
			return types.Value{}, errs.New(errs.Type, "AVG requires numeric arguments")
		}
		sum += v.Float64()
		n++
	}
	if n == 0 {
		return types.Null, nil
	}
	return types.Float(sum / float64(n)), nil
}

// FinalizeMin implements MIN, ignoring NULL; MIN of an empty or all-NULL
// group is NULL.
func FinalizeMin(values []types.Value) (types.Value, error) {
	return finalizeExtreme(values, lexer.TokenLt)
}

// FinalizeMax implements MAX, ignoring NULL; MAX of an empty or all-NULL
// group is NULL.
func FinalizeMax(values []types.Value) (types.Value, error) {
	return finalizeExtreme(values, lexer.TokenGt)
}

func finalizeExtreme(values []types.Value, better lexer.TokenType) (types.Value, error) {
	var best types.Value
	var have bool
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		if !have {
			best, have = v, true
			continue
		}
		tv, err := Compare(better, v, best)
		if err != nil {
			return types.Value{}, err
		}
		if tv == True {
			best = v
		}
	}
	if !have {
		return types.Null, nil
	}
	return best, nil
}
