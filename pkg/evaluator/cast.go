package evaluator

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/relcore/relcore/pkg/errs"
	"github.com/relcore/relcore/pkg/types"
)

// Cast converts v to the target type per CAST(expr AS type) (spec.md §4.4).
// NULL casts to NULL in any target type. Numeric-to-STRING and
// STRING-to-numeric conversions route through shopspring/decimal: a number
// renders as the shortest decimal text that reads back as the same value,
// and text parses via decimal.NewFromString, the way the pack's granite-db
// validator builds DECIMAL literals. FLOAT keeps no scale, so trailing
// zeros are not preserved ("19.50" cast to FLOAT and back gives "19.5").
func Cast(v types.Value, target types.ColumnType) (types.Value, error) {
	if v.IsNull() {
		return types.Null, nil
	}

	switch target.Kind() {
	case types.KindInt:
		return castToInt(v)
	case types.KindSerial:
		iv, err := castToInt(v)
		if err != nil {
			return types.Value{}, err
		}
		return types.Serial(iv.AsInt()), nil
	case types.KindFloat:
		return castToFloat(v)
	case types.KindBool:
		return castToBool(v)
	case types.KindString:
		return castToString(v)
	case types.KindDate:
		return castToDate(v)
	case types.KindTime:
		return castToTime(v)
	case types.KindTimestamp:
		return castToTimestamp(v)
	default:
		return types.Value{}, errs.New(errs.Type, "unsupported CAST target type")
	}
}

func castToInt(v types.Value) (types.Value, error) {
	switch v.Kind {
	case types.KindInt, types.KindSerial:
		return types.Int(v.AsInt()), nil
	case types.KindFloat:
		return types.Int(int64(v.AsFloat())), nil
	case types.KindString:
		d, err := decimal.NewFromString(strings.TrimSpace(v.AsString()))
		if err != nil {
			return types.Value{}, errs.New(errs.Type, "cannot CAST %q to INT", v.AsString())
		}
		return types.Int(d.IntPart()), nil
	case types.KindBool:
		if v.AsBool() {
			return types.Int(1), nil
		}
		return types.Int(0), nil
	}
	return types.Value{}, errs.New(errs.Type, "cannot CAST %s to INT", v.Kind)
}

func castToFloat(v types.Value) (types.Value, error) {
	switch v.Kind {
	case types.KindInt, types.KindSerial:
		return types.Float(float64(v.AsInt())), nil
	case types.KindFloat:
		return types.Float(v.AsFloat()), nil
	case types.KindString:
		d, err := decimal.NewFromString(strings.TrimSpace(v.AsString()))
		if err != nil {
			return types.Value{}, errs.New(errs.Type, "cannot CAST %q to FLOAT", v.AsString())
		}
		f, _ := d.Float64()
		return types.Float(f), nil
	}
	return types.Value{}, errs.New(errs.Type, "cannot CAST %s to FLOAT", v.Kind)
}

func castToBool(v types.Value) (types.Value, error) {
	switch v.Kind {
	case types.KindBool:
		return v, nil
	case types.KindString:
		switch strings.ToLower(strings.TrimSpace(v.AsString())) {
		case "true", "t", "1", "yes":
			return types.Bool(true), nil
		case "false", "f", "0", "no":
			return types.Bool(false), nil
		}
		return types.Value{}, errs.New(errs.Type, "cannot CAST %q to BOOLEAN", v.AsString())
	case types.KindInt, types.KindSerial:
		return types.Bool(v.AsInt() != 0), nil
	}
	return types.Value{}, errs.New(errs.Type, "cannot CAST %s to BOOLEAN", v.Kind)
}

func castToString(v types.Value) (types.Value, error) {
	switch v.Kind {
	case types.KindInt, types.KindSerial:
		return types.Str(decimal.NewFromInt(v.AsInt()).String()), nil
	case types.KindFloat:
		return types.Str(decimal.NewFromFloat(v.AsFloat()).String()), nil
	default:
		return types.Str(v.String()), nil
	}
}

func castToDate(v types.Value) (types.Value, error) {
	switch v.Kind {
	case types.KindDate:
		return v, nil
	case types.KindTimestamp:
		t := v.AsTimestamp()
		return types.DateVal(types.Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}), nil
	case types.KindString:
		t, err := time.Parse("2006-01-02", strings.TrimSpace(v.AsString()))
		if err != nil {
			return types.Value{}, errs.New(errs.Type, "cannot CAST %q to DATE", v.AsString())
		}
		return types.DateVal(types.Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}), nil
	}
	return types.Value{}, errs.New(errs.Type, "cannot CAST %s to DATE", v.Kind)
}

func castToTime(v types.Value) (types.Value, error) {
	switch v.Kind {
	case types.KindTime:
		return v, nil
	case types.KindTimestamp:
		t := v.AsTimestamp()
		return types.TimeVal(types.Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}), nil
	case types.KindString:
		t, err := time.Parse("15:04:05", strings.TrimSpace(v.AsString()))
		if err != nil {
			return types.Value{}, errs.New(errs.Type, "cannot CAST %q to TIME", v.AsString())
		}
		return types.TimeVal(types.Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}), nil
	}
	return types.Value{}, errs.New(errs.Type, "cannot CAST %s to TIME", v.Kind)
}

func castToTimestamp(v types.Value) (types.Value, error) {
	switch v.Kind {
	case types.KindTimestamp:
		return v, nil
	case types.KindDate:
		d := v.AsDate()
		return types.Timestamp(time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)), nil
	case types.KindString:
		raw := strings.TrimSpace(v.AsString())
		for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return types.Timestamp(t), nil
			}
		}
		return types.Value{}, errs.New(errs.Type, "cannot CAST %q to TIMESTAMP", raw)
	}
	return types.Value{}, errs.New(errs.Type, "cannot CAST %s to TIMESTAMP", v.Kind)
}
