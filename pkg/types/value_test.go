package types

import "testing"

func TestNullEquality(t *testing.T) {
	if !Null.Equal(Null) {
		t.Fatal("Null.Equal(Null) should be true for DISTINCT/GROUP BY purposes")
	}
	if Null.Equal(Int(0)) {
		t.Fatal("NULL must not equal any non-null value")
	}
}

func TestNumericEqualityAcrossIntFloat(t *testing.T) {
	if !Int(3).Equal(Float(3.0)) {
		t.Fatal("INT 3 should equal FLOAT 3.0 under numeric comparison")
	}
	if Int(3).Equal(Float(3.5)) {
		t.Fatal("INT 3 should not equal FLOAT 3.5")
	}
}

// Equal values must share a hash key, or DISTINCT/GROUP BY/set-op dedup
// (all keyed on HashKey) diverges from Equal's contract.
func TestHashKeyConsistentWithEqual(t *testing.T) {
	pairs := [][2]Value{
		{Int(2), Float(2.0)},
		{Int(2), Serial(2)},
		{Serial(2), Float(2.0)},
		{Null, Null},
		{Str("a"), Str("a")},
	}
	for _, p := range pairs {
		if !p[0].Equal(p[1]) {
			t.Fatalf("%v should equal %v", p[0], p[1])
		}
		if p[0].HashKey() != p[1].HashKey() {
			t.Errorf("equal values hash differently: %v -> %#v, %v -> %#v", p[0], p[0].HashKey(), p[1], p[1].HashKey())
		}
	}
	if Float(2.5).HashKey() == Int(2).HashKey() {
		t.Error("2.5 and 2 must not share a hash key")
	}
}

func TestIsNumeric(t *testing.T) {
	if !Int(1).IsNumeric() || !Float(1).IsNumeric() || !Serial(1).IsNumeric() {
		t.Fatal("INT/FLOAT/SERIAL must be numeric")
	}
	if Str("1").IsNumeric() || Bool(true).IsNumeric() {
		t.Fatal("STRING/BOOLEAN must not be numeric")
	}
}

func TestTypeFromName(t *testing.T) {
	cases := map[string]TypeName{
		"INT": TInt, "integer": TInt, "FLOAT": TFloat, "real": TFloat,
		"boolean": TBoolean, "VARCHAR": TVarchar, "char": TChar, "TEXT": TText,
		"date": TDate, "TIME": TTime, "timestamp": TTimestamp, "serial": TSerial,
	}
	for name, want := range cases {
		got, ok := TypeFromName(name)
		if !ok || got != want {
			t.Fatalf("TypeFromName(%q) = %v, %v; want %v, true", name, got, ok, want)
		}
	}
}
