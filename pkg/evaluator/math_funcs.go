package evaluator

import (
	"math"

	"github.com/relcore/relcore/pkg/errs"
	"github.com/relcore/relcore/pkg/types"
)

// mathFunc evaluates the math-family scalar functions: ABS/POWER/SQRT/MOD
// as function-call spellings alongside the `%` operator, plus ROUND/CEIL/
// FLOOR (SPEC_FULL.md §4.4 ambient additions). Any NULL argument propagates
// to NULL.
func mathFunc(name string, args []types.Value) (types.Value, bool, error) {
	for _, a := range args {
		if a.IsNull() {
			return types.Null, true, nil
		}
	}

	switch name {
	case "ABS":
		if err := arity(name, args, 1); err != nil {
			return types.Value{}, true, err
		}
		if args[0].Kind == types.KindFloat {
			return types.Float(math.Abs(args[0].AsFloat())), true, nil
		}
		v := args[0].AsInt()
		if v < 0 {
			v = -v
		}
		return types.Int(v), true, nil
	case "POWER":
		if err := arity(name, args, 2); err != nil {
			return types.Value{}, true, err
		}
		return types.Float(math.Pow(args[0].Float64(), args[1].Float64())), true, nil
	case "SQRT":
		if err := arity(name, args, 1); err != nil {
			return types.Value{}, true, err
		}
		if args[0].Float64() < 0 {
			return types.Value{}, true, errs.New(errs.Arithmetic, "SQRT of a negative number")
		}
		return types.Float(math.Sqrt(args[0].Float64())), true, nil
	case "MOD":
		if err := arity(name, args, 2); err != nil {
			return types.Value{}, true, err
		}
		r := args[1].AsInt()
		if r == 0 {
			return types.Value{}, true, errs.New(errs.Arithmetic, "division by zero")
		}
		return types.Int(args[0].AsInt() % r), true, nil
	case "ROUND":
		if len(args) != 1 && len(args) != 2 {
			return types.Value{}, true, errs.New(errs.Type, "ROUND expects 1 or 2 arguments")
		}
		places := 0
		if len(args) == 2 {
			places = int(args[1].AsInt())
		}
		return types.Float(roundHalfAwayFromZero(args[0].Float64(), places)), true, nil
	case "CEIL", "CEILING":
		if err := arity(name, args, 1); err != nil {
			return types.Value{}, true, err
		}
		if args[0].Kind != types.KindFloat {
			return types.Int(args[0].AsInt()), true, nil
		}
		return types.Float(math.Ceil(args[0].AsFloat())), true, nil
	case "FLOOR":
		if err := arity(name, args, 1); err != nil {
			return types.Value{}, true, err
		}
		if args[0].Kind != types.KindFloat {
			return types.Int(args[0].AsInt()), true, nil
		}
		return types.Float(math.Floor(args[0].AsFloat())), true, nil
	}
	return types.Value{}, false, nil
}

// roundHalfAwayFromZero implements SQL ROUND's rounding rule, which rounds
// .5 away from zero (not to even), after scaling v by 10^places.
func roundHalfAwayFromZero(v float64, places int) float64 {
	scale := math.Pow10(places)
	scaled := v * scale
	if scaled >= 0 {
		return math.Floor(scaled+0.5) / scale
	}
	return math.Ceil(scaled-0.5) / scale
}
