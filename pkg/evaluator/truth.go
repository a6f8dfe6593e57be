package evaluator

import "github.com/relcore/relcore/pkg/types"

// TruthValue is SQL's three-valued logic result: TRUE, FALSE, or UNKNOWN
// (produced by any comparison or boolean operator touching NULL). It is
// distinct from types.Value so boolean combinators (AND/OR/NOT) can be
// written as plain truth tables instead of threading NULL-checks through
// every operator (spec.md §9 "3VL representation choice").
type TruthValue int

const (
	Unknown TruthValue = iota
	True
	False
)

// FromValue converts a scalar Value into a TruthValue: NULL is UNKNOWN,
// a BOOLEAN value maps directly, anything else is a type error at the
// caller's discretion (this function itself never errors — callers that
// need a hard type check do so before converting).
func FromValue(v types.Value) TruthValue {
	if v.IsNull() {
		return Unknown
	}
	if v.AsBool() {
		return True
	}
	return False
}

// ToValue renders a TruthValue back into a Value (UNKNOWN becomes NULL).
func (t TruthValue) ToValue() types.Value {
	switch t {
	case True:
		return types.Bool(true)
	case False:
		return types.Bool(false)
	default:
		return types.Null
	}
}

// ToBool collapses a TruthValue to a plain bool for row-admission points
// where UNKNOWN behaves like FALSE: WHERE, HAVING, and ON CONFLICT's match
// test. CHECK constraints collapse differently (TRUE or UNKNOWN admits) and
// do not go through this.
func (t TruthValue) ToBool() bool { return t == True }

// And implements SQL AND's truth table (UNKNOWN propagates except that
// FALSE AND anything is FALSE, matching short-circuit SQL semantics).
func And(a, b TruthValue) TruthValue {
	if a == False || b == False {
		return False
	}
	if a == Unknown || b == Unknown {
		return Unknown
	}
	return True
}

// Or implements SQL OR's truth table (TRUE OR anything is TRUE).
func Or(a, b TruthValue) TruthValue {
	if a == True || b == True {
		return True
	}
	if a == Unknown || b == Unknown {
		return Unknown
	}
	return False
}

// Not implements SQL NOT (NOT UNKNOWN is UNKNOWN).
func Not(a TruthValue) TruthValue {
	switch a {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}
