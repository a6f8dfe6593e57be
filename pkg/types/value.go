// Package types defines the Value and Type tagged unions that flow through
// every layer of the engine, from parsed literals to stored rows to query
// results.
package types

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"
	"time"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindDate
	KindTime
	KindTimestamp
	KindSerial
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindInt:
		return "INT"
	case KindFloat:
		return "FLOAT"
	case KindBool:
		return "BOOLEAN"
	case KindString:
		return "STRING"
	case KindDate:
		return "DATE"
	case KindTime:
		return "TIME"
	case KindTimestamp:
		return "TIMESTAMP"
	case KindSerial:
		return "SERIAL"
	default:
		return "UNKNOWN"
	}
}

// Date is a calendar date with no time-of-day component.
type Date struct {
	Year, Month, Day int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time is a time-of-day with second precision.
type Time struct {
	Hour, Minute, Second int
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Value is a tagged sum over the scalar types the engine understands. NULL
// (Kind == KindNull) is distinct from every other value under three-valued
// logic (spec.md §3); the zero Value is NULL.
type Value struct {
	Kind Kind

	i   int64
	f   float64
	b   bool
	s   string
	d   Date
	tm  Time
	ts  time.Time // Timestamp, stored as UTC wall-clock
}

// Null is the NULL value.
var Null = Value{Kind: KindNull}

func Int(v int64) Value     { return Value{Kind: KindInt, i: v} }
func Float(v float64) Value { return Value{Kind: KindFloat, f: v} }
func Bool(v bool) Value     { return Value{Kind: KindBool, b: v} }
func Str(v string) Value    { return Value{Kind: KindString, s: v} }
func DateVal(d Date) Value  { return Value{Kind: KindDate, d: d} }
func TimeVal(t Time) Value  { return Value{Kind: KindTime, tm: t} }
func Timestamp(t time.Time) Value {
	return Value{Kind: KindTimestamp, ts: t.UTC()}
}
func Serial(v int64) Value { return Value{Kind: KindSerial, i: v} }

func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsInt returns the value's integer payload. SERIAL values are ints too.
func (v Value) AsInt() int64 { return v.i }

// AsFloat returns the value's float payload.
func (v Value) AsFloat() float64 { return v.f }

// AsBool returns the value's boolean payload.
func (v Value) AsBool() bool { return v.b }

// AsString returns the value's string payload.
func (v Value) AsString() string { return v.s }

// AsDate returns the value's date payload.
func (v Value) AsDate() Date { return v.d }

// AsTime returns the value's time-of-day payload.
func (v Value) AsTime() Time { return v.tm }

// AsTimestamp returns the value's timestamp payload.
func (v Value) AsTimestamp() time.Time { return v.ts }

// IsNumeric reports whether the value is INT, FLOAT, or SERIAL.
func (v Value) IsNumeric() bool {
	return v.Kind == KindInt || v.Kind == KindFloat || v.Kind == KindSerial
}

// Float64 returns the value widened to float64, for numeric values only.
func (v Value) Float64() float64 {
	if v.Kind == KindFloat {
		return v.f
	}
	return float64(v.i)
}

// String renders a Value for display (not for STRING-cast text — see
// pkg/evaluator/cast.go for the canonical CAST rules).
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "NULL"
	case KindInt, KindSerial:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindString:
		return v.s
	case KindDate:
		return v.d.String()
	case KindTime:
		return v.tm.String()
	case KindTimestamp:
		return v.ts.Format("2006-01-02 15:04:05")
	default:
		return "?"
	}
}

// Equal implements the equality used by DISTINCT, GROUP BY, and set
// operations, where two NULLs are considered equal (spec.md §3 invariant 3's
// "NULLs as distinct" rule is about uniqueness constraints, not this
// grouping/dedup equality — see spec.md §8's DISTINCT idempotence property).
func (v Value) Equal(other Value) bool {
	if v.Kind == KindNull && other.Kind == KindNull {
		return true
	}
	if v.Kind == KindNull || other.Kind == KindNull {
		return false
	}
	if v.IsNumeric() && other.IsNumeric() {
		if v.Kind == KindFloat || other.Kind == KindFloat {
			return v.Float64() == other.Float64()
		}
		return v.i == other.i
	}
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.b == other.b
	case KindString:
		return v.s == other.s
	case KindDate:
		return v.d == other.d
	case KindTime:
		return v.tm == other.tm
	case KindTimestamp:
		return v.ts.Equal(other.ts)
	}
	return false
}

// HashKey returns a comparable value suitable for use as a map key, used by
// DISTINCT, GROUP BY, and set-operation dedup (treating NULL as a value
// equal to itself for these purposes, per spec.md §8). Two values with
// Equal() == true share a hash key: numeric kinds canonicalize so INT 2,
// SERIAL 2, and FLOAT 2.0 all collide.
func (v Value) HashKey() interface{} {
	switch v.Kind {
	case KindNull:
		return nil
	case KindInt, KindSerial:
		return v.i
	case KindFloat:
		if f := v.f; f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f)
		}
		return v.f
	case KindBool:
		return v.b
	case KindString:
		return v.s
	case KindDate:
		return v.d
	case KindTime:
		return v.tm
	case KindTimestamp:
		return v.ts.UnixNano()
	default:
		return nil
	}
}

// valueWire is the exported mirror of Value's payload fields, since gob
// only encodes exported fields directly; used by GobEncode/GobDecode so
// catalog.Table rows survive a storage.Snapshotter round trip.
type valueWire struct {
	Kind Kind
	I    int64
	F    float64
	B    bool
	S    string
	D    Date
	Tm   Time
	Ts   time.Time
}

func (v Value) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	w := valueWire{Kind: v.Kind, I: v.i, F: v.f, B: v.b, S: v.s, D: v.d, Tm: v.tm, Ts: v.ts}
	if err := gob.NewEncoder(&buf).Encode(w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) GobDecode(data []byte) error {
	var w valueWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return err
	}
	*v = Value{Kind: w.Kind, i: w.I, f: w.F, b: w.B, s: w.S, d: w.D, tm: w.Tm, ts: w.Ts}
	return nil
}
