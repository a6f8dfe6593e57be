package evaluator

import (
	"strings"
	"time"

	"github.com/relcore/relcore/pkg/errs"
	"github.com/relcore/relcore/pkg/lexer"
	"github.com/relcore/relcore/pkg/types"
)

// AggregateNames are the function names the executor finalizes per group
// instead of passing through scalar CallFunction. Encountering one of these
// in CallFunction means an aggregate call appeared where only scalar
// expressions are evaluated (e.g. in WHERE), and CallFunction reports it
// as a type error (spec.md §4.4: "aggregates are never evaluated as
// scalars").
var AggregateNames = map[string]bool{
	"COUNT": true, "SUM": true, "AVG": true, "MIN": true, "MAX": true,
}

// CallFunction evaluates a non-aggregate function call. It dispatches in
// the teacher's one-case-per-function idiom, trying each family in turn.
// now is the single instant captured for this statement, used by
// CURRENT_DATE/CURRENT_TIME/CURRENT_TIMESTAMP/NOW.
func CallFunction(name string, args []types.Value, now time.Time) (types.Value, error) {
	upper := strings.ToUpper(name)

	if AggregateNames[upper] {
		return types.Value{}, errs.New(errs.Type, "aggregate function %s used outside GROUP BY context", upper)
	}

	switch upper {
	case "COALESCE":
		for _, a := range args {
			if !a.IsNull() {
				return a, nil
			}
		}
		return types.Null, nil
	case "NULLIF":
		if err := arity(upper, args, 2); err != nil {
			return types.Value{}, err
		}
		if args[0].IsNull() {
			return types.Null, nil
		}
		tv, err := Compare(lexer.TokenEq, args[0], args[1])
		if err != nil {
			return types.Value{}, err
		}
		if tv == True {
			return types.Null, nil
		}
		return args[0], nil
	case "IF":
		if err := arity(upper, args, 3); err != nil {
			return types.Value{}, err
		}
		if FromValue(args[0]).ToBool() {
			return args[1], nil
		}
		return args[2], nil
	}

	if v, ok, err := stringFunc(upper, args); ok || err != nil {
		return v, err
	}
	if v, ok, err := mathFunc(upper, args); ok || err != nil {
		return v, err
	}
	if v, ok, err := dateTimeFunc(upper, args, now); ok || err != nil {
		return v, err
	}

	return types.Value{}, errs.New(errs.Name, "unknown function %s", name)
}
