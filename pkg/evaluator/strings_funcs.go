package evaluator

import (
	"strings"

	"github.com/relcore/relcore/pkg/errs"
	"github.com/relcore/relcore/pkg/types"
)

// stringFunc evaluates the string-family scalar functions: the spec's
// required UPPER/LOWER/LENGTH/SUBSTRING/CONCAT/REPLACE/TRIM set, plus the
// SPEC_FULL.md ambient additions LTRIM/RTRIM/LEFT/RIGHT/REPEAT/
// POSITION/STRPOS, in the teacher's one-function-per-case dispatch idiom.
// Any NULL argument makes the whole call NULL, per spec.md §4.4, except for
// CONCAT, which skips NULL arguments.
func stringFunc(name string, args []types.Value) (types.Value, bool, error) {
	if name != "CONCAT" {
		for _, a := range args {
			if a.IsNull() {
				return types.Null, true, nil
			}
		}
	}

	switch name {
	case "UPPER":
		if err := arity(name, args, 1); err != nil {
			return types.Value{}, true, err
		}
		return types.Str(strings.ToUpper(args[0].AsString())), true, nil
	case "LOWER":
		if err := arity(name, args, 1); err != nil {
			return types.Value{}, true, err
		}
		return types.Str(strings.ToLower(args[0].AsString())), true, nil
	case "LENGTH":
		if err := arity(name, args, 1); err != nil {
			return types.Value{}, true, err
		}
		return types.Int(int64(len([]rune(args[0].AsString())))), true, nil
	case "CONCAT":
		var b strings.Builder
		for _, a := range args {
			if !a.IsNull() {
				b.WriteString(a.AsString())
			}
		}
		return types.Str(b.String()), true, nil
	case "SUBSTRING":
		return substring(args)
	case "REPLACE":
		if err := arity(name, args, 3); err != nil {
			return types.Value{}, true, err
		}
		return types.Str(strings.ReplaceAll(args[0].AsString(), args[1].AsString(), args[2].AsString())), true, nil
	case "TRIM":
		if err := arity(name, args, 1); err != nil {
			return types.Value{}, true, err
		}
		return types.Str(strings.TrimSpace(args[0].AsString())), true, nil
	case "LTRIM":
		if err := arity(name, args, 1); err != nil {
			return types.Value{}, true, err
		}
		return types.Str(strings.TrimLeft(args[0].AsString(), " \t\n\r")), true, nil
	case "RTRIM":
		if err := arity(name, args, 1); err != nil {
			return types.Value{}, true, err
		}
		return types.Str(strings.TrimRight(args[0].AsString(), " \t\n\r")), true, nil
	case "LEFT":
		if err := arity(name, args, 2); err != nil {
			return types.Value{}, true, err
		}
		r := []rune(args[0].AsString())
		n := clampIndex(int(args[1].AsInt()), len(r))
		return types.Str(string(r[:n])), true, nil
	case "RIGHT":
		if err := arity(name, args, 2); err != nil {
			return types.Value{}, true, err
		}
		r := []rune(args[0].AsString())
		n := clampIndex(int(args[1].AsInt()), len(r))
		return types.Str(string(r[len(r)-n:])), true, nil
	case "REPEAT":
		if err := arity(name, args, 2); err != nil {
			return types.Value{}, true, err
		}
		n := int(args[1].AsInt())
		if n < 0 {
			n = 0
		}
		return types.Str(strings.Repeat(args[0].AsString(), n)), true, nil
	case "POSITION", "STRPOS":
		if err := arity(name, args, 2); err != nil {
			return types.Value{}, true, err
		}
		idx := strings.Index(args[0].AsString(), args[1].AsString())
		if idx < 0 {
			return types.Int(0), true, nil
		}
		return types.Int(int64(len([]rune(args[0].AsString()[:idx])) + 1)), true, nil
	}
	return types.Value{}, false, nil
}

func substring(args []types.Value) (types.Value, bool, error) {
	if len(args) != 2 && len(args) != 3 {
		return types.Value{}, true, errs.New(errs.Type, "SUBSTRING expects 2 or 3 arguments")
	}
	r := []rune(args[0].AsString())
	start := int(args[1].AsInt()) - 1 // SQL SUBSTRING is 1-indexed
	if start < 0 {
		start = 0
	}
	if start > len(r) {
		start = len(r)
	}
	end := len(r)
	if len(args) == 3 {
		length := int(args[2].AsInt())
		if length < 0 {
			return types.Value{}, true, errs.New(errs.Type, "negative SUBSTRING length")
		}
		if start+length < end {
			end = start + length
		}
	}
	return types.Str(string(r[start:end])), true, nil
}

func clampIndex(n, max int) int {
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}

func arity(name string, args []types.Value, want int) error {
	if len(args) != want {
		return errs.New(errs.Type, "%s expects %d argument(s), got %d", name, want, len(args))
	}
	return nil
}
