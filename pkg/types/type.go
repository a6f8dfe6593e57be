package types

import "strings"

// TypeName is a SQL column type name (spec.md §3): INT, FLOAT, BOOLEAN,
// VARCHAR(len?), CHAR(len?), TEXT, DATE, TIME, TIMESTAMP, SERIAL.
type TypeName int

const (
	TInt TypeName = iota
	TFloat
	TBoolean
	TVarchar
	TChar
	TText
	TDate
	TTime
	TTimestamp
	TSerial
)

func (t TypeName) String() string {
	switch t {
	case TInt:
		return "INT"
	case TFloat:
		return "FLOAT"
	case TBoolean:
		return "BOOLEAN"
	case TVarchar:
		return "VARCHAR"
	case TChar:
		return "CHAR"
	case TText:
		return "TEXT"
	case TDate:
		return "DATE"
	case TTime:
		return "TIME"
	case TTimestamp:
		return "TIMESTAMP"
	case TSerial:
		return "SERIAL"
	default:
		return "UNKNOWN"
	}
}

// ColumnType is a fully-resolved column type: its name plus an advisory
// length for VARCHAR/CHAR.
type ColumnType struct {
	Name   TypeName
	Length int // advisory for VARCHAR/CHAR; 0 means unspecified
}

// TypeFromName maps a parsed type keyword to a TypeName. Unknown names
// return TEXT with ok false; the catalog rejects them at CREATE TABLE and
// ALTER TABLE ADD COLUMN time.
func TypeFromName(name string) (TypeName, bool) {
	switch strings.ToUpper(name) {
	case "INT", "INTEGER":
		return TInt, true
	case "FLOAT", "REAL", "DOUBLE":
		return TFloat, true
	case "BOOLEAN", "BOOL":
		return TBoolean, true
	case "VARCHAR":
		return TVarchar, true
	case "CHAR", "CHARACTER":
		return TChar, true
	case "TEXT":
		return TText, true
	case "DATE":
		return TDate, true
	case "TIME":
		return TTime, true
	case "TIMESTAMP":
		return TTimestamp, true
	case "SERIAL":
		return TSerial, true
	default:
		return TText, false
	}
}

// IsNumeric reports whether values of this type participate in arithmetic.
func (t ColumnType) IsNumeric() bool {
	switch t.Name {
	case TInt, TFloat, TSerial:
		return true
	default:
		return false
	}
}

// IsText reports whether this is one of the string-family types.
func (t ColumnType) IsText() bool {
	switch t.Name {
	case TVarchar, TChar, TText:
		return true
	default:
		return false
	}
}

// Kind returns the Value Kind that columns of this type hold.
func (t ColumnType) Kind() Kind {
	switch t.Name {
	case TInt:
		return KindInt
	case TFloat:
		return KindFloat
	case TBoolean:
		return KindBool
	case TVarchar, TChar, TText:
		return KindString
	case TDate:
		return KindDate
	case TTime:
		return KindTime
	case TTimestamp:
		return KindTimestamp
	case TSerial:
		return KindSerial
	default:
		return KindNull
	}
}
