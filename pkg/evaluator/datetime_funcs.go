package evaluator

import (
	"strings"
	"time"

	"github.com/relcore/relcore/pkg/errs"
	"github.com/relcore/relcore/pkg/types"
)

// Extract implements EXTRACT(field FROM value), field restricted to
// {YEAR, MONTH, DAY, HOUR, MINUTE, SECOND} (spec.md §4.4).
func Extract(field string, v types.Value) (types.Value, error) {
	if v.IsNull() {
		return types.Null, nil
	}

	var y, mo, d, h, mi, s int
	switch v.Kind {
	case types.KindDate:
		dt := v.AsDate()
		y, mo, d = dt.Year, dt.Month, dt.Day
	case types.KindTime:
		tm := v.AsTime()
		h, mi, s = tm.Hour, tm.Minute, tm.Second
	case types.KindTimestamp:
		ts := v.AsTimestamp()
		y, mo, d = ts.Year(), int(ts.Month()), ts.Day()
		h, mi, s = ts.Hour(), ts.Minute(), ts.Second()
	default:
		return types.Value{}, errs.New(errs.Type, "EXTRACT requires a DATE, TIME, or TIMESTAMP value")
	}

	switch strings.ToUpper(field) {
	case "YEAR":
		return types.Int(int64(y)), nil
	case "MONTH":
		return types.Int(int64(mo)), nil
	case "DAY":
		return types.Int(int64(d)), nil
	case "HOUR":
		return types.Int(int64(h)), nil
	case "MINUTE":
		return types.Int(int64(mi)), nil
	case "SECOND":
		return types.Int(int64(s)), nil
	}
	return types.Value{}, errs.New(errs.Syntax, "unsupported EXTRACT field %q", field)
}

// dateTimeFunc evaluates the zero/one-arg date functions that aren't parsed
// as a dedicated AST node: CURRENT_DATE/CURRENT_TIME/CURRENT_TIMESTAMP/NOW
// (resolved from env.Now, captured once per statement) and DATEDIFF.
func dateTimeFunc(name string, args []types.Value, now time.Time) (types.Value, bool, error) {
	switch name {
	case "CURRENT_DATE":
		return types.DateVal(types.Date{Year: now.Year(), Month: int(now.Month()), Day: now.Day()}), true, nil
	case "CURRENT_TIME":
		return types.TimeVal(types.Time{Hour: now.Hour(), Minute: now.Minute(), Second: now.Second()}), true, nil
	case "CURRENT_TIMESTAMP", "NOW":
		return types.Timestamp(now), true, nil
	case "DATEDIFF":
		if err := arity(name, args, 2); err != nil {
			return types.Value{}, true, err
		}
		if args[0].IsNull() || args[1].IsNull() {
			return types.Null, true, nil
		}
		a, err := asTime(args[0])
		if err != nil {
			return types.Value{}, true, err
		}
		b, err := asTime(args[1])
		if err != nil {
			return types.Value{}, true, err
		}
		days := int64(a.Sub(b).Hours() / 24)
		return types.Int(days), true, nil
	}
	return types.Value{}, false, nil
}

func asTime(v types.Value) (time.Time, error) {
	switch v.Kind {
	case types.KindDate:
		d := v.AsDate()
		return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC), nil
	case types.KindTimestamp:
		return v.AsTimestamp(), nil
	default:
		return time.Time{}, errs.New(errs.Type, "DATEDIFF requires DATE or TIMESTAMP arguments")
	}
}
