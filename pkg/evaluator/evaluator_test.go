package evaluator

import (
	"testing"
	"time"

	"github.com/relcore/relcore/pkg/ast"
	"github.com/relcore/relcore/pkg/errs"
	"github.com/relcore/relcore/pkg/lexer"
	"github.com/relcore/relcore/pkg/types"
)

func TestTruthTables(t *testing.T) {
	vals := []TruthValue{True, False, Unknown}
	want := map[[2]TruthValue]TruthValue{
		{True, True}: True, {True, False}: False, {True, Unknown}: Unknown,
		{False, True}: False, {False, False}: False, {False, Unknown}: False,
		{Unknown, True}: Unknown, {Unknown, False}: False, {Unknown, Unknown}: Unknown,
	}
	for _, a := range vals {
		for _, b := range vals {
			if got := And(a, b); got != want[[2]TruthValue{a, b}] {
				t.Errorf("And(%v,%v) = %v, want %v", a, b, got, want[[2]TruthValue{a, b}])
			}
		}
	}

	wantOr := map[[2]TruthValue]TruthValue{
		{True, True}: True, {True, False}: True, {True, Unknown}: True,
		{False, True}: True, {False, False}: False, {False, Unknown}: Unknown,
		{Unknown, True}: True, {Unknown, False}: Unknown, {Unknown, Unknown}: Unknown,
	}
	for _, a := range vals {
		for _, b := range vals {
			if got := Or(a, b); got != wantOr[[2]TruthValue{a, b}] {
				t.Errorf("Or(%v,%v) = %v, want %v", a, b, got, wantOr[[2]TruthValue{a, b}])
			}
		}
	}

	if Not(True) != False || Not(False) != True || Not(Unknown) != Unknown {
		t.Error("Not truth table wrong")
	}
}

func TestFromValueToValue(t *testing.T) {
	if FromValue(types.Null) != Unknown {
		t.Error("NULL should be Unknown")
	}
	if FromValue(types.Bool(true)) != True {
		t.Error("TRUE should be True")
	}
	if FromValue(types.Bool(false)) != False {
		t.Error("FALSE should be False")
	}
	if !Unknown.ToValue().IsNull() {
		t.Error("Unknown.ToValue() should be NULL")
	}
	if True.ToValue().AsBool() != true {
		t.Error("True.ToValue() should be TRUE")
	}
}

func TestArithmeticNullPropagation(t *testing.T) {
	v, err := Arithmetic(lexer.TokenPlus, types.Null, types.Int(1))
	if err != nil || !v.IsNull() {
		t.Fatalf("expected NULL, got %v, %v", v, err)
	}
}

func TestArithmeticDivisionByZero(t *testing.T) {
	_, err := Arithmetic(lexer.TokenSlash, types.Int(1), types.Int(0))
	if !errs.Is(err, errs.Arithmetic) {
		t.Fatalf("expected ArithmeticError, got %v", err)
	}
	_, err = Arithmetic(lexer.TokenPercent, types.Int(1), types.Int(0))
	if !errs.Is(err, errs.Arithmetic) {
		t.Fatalf("expected ArithmeticError for modulo, got %v", err)
	}
}

func TestArithmeticIntegerDivisionTruncates(t *testing.T) {
	v, err := Arithmetic(lexer.TokenSlash, types.Int(-7), types.Int(2))
	if err != nil {
		t.Fatal(err)
	}
	if v.AsInt() != -3 {
		t.Fatalf("expected truncating division -7/2 == -3, got %d", v.AsInt())
	}
}

func TestArithmeticModuloSign(t *testing.T) {
	v, err := Arithmetic(lexer.TokenPercent, types.Int(-7), types.Int(2))
	if err != nil {
		t.Fatal(err)
	}
	if v.AsInt() != -1 {
		t.Fatalf("expected -7%%2 == -1, got %d", v.AsInt())
	}
}

func TestCompareNullIsUnknown(t *testing.T) {
	tv, err := Compare(lexer.TokenEq, types.Null, types.Int(1))
	if err != nil || tv != Unknown {
		t.Fatalf("expected Unknown, got %v, %v", tv, err)
	}
}

func TestCastNumericStringRoundTrip(t *testing.T) {
	v, err := Cast(types.Str("19.50"), types.ColumnType{Name: types.TFloat})
	if err != nil {
		t.Fatal(err)
	}
	if v.AsFloat() != 19.5 {
		t.Fatalf("expected 19.5, got %v", v.AsFloat())
	}

	s, err := Cast(types.Int(42), types.ColumnType{Name: types.TVarchar, Length: 10})
	if err != nil {
		t.Fatal(err)
	}
	if s.AsString() != "42" {
		t.Fatalf("expected \"42\", got %q", s.AsString())
	}
}

func TestCastNullIsAlwaysNull(t *testing.T) {
	v, err := Cast(types.Null, types.ColumnType{Name: types.TInt})
	if err != nil || !v.IsNull() {
		t.Fatalf("expected NULL, got %v, %v", v, err)
	}
}

func TestCastStringToDate(t *testing.T) {
	v, err := Cast(types.Str("2024-03-05"), types.ColumnType{Name: types.TDate})
	if err != nil {
		t.Fatal(err)
	}
	d := v.AsDate()
	if d.Year != 2024 || d.Month != 3 || d.Day != 5 {
		t.Fatalf("unexpected date %v", d)
	}
}

func TestCastInvalidStringErrors(t *testing.T) {
	_, err := Cast(types.Str("not-a-number"), types.ColumnType{Name: types.TInt})
	if !errs.Is(err, errs.Type) {
		t.Fatalf("expected TypeError, got %v", err)
	}
}

func TestStringFuncs(t *testing.T) {
	v, ok, err := stringFunc("UPPER", []types.Value{types.Str("abc")})
	if !ok || err != nil || v.AsString() != "ABC" {
		t.Fatalf("UPPER failed: %v %v %v", v, ok, err)
	}

	v, ok, err = stringFunc("CONCAT", []types.Value{types.Str("a"), types.Null, types.Str("b")})
	if !ok || err != nil || v.AsString() != "ab" {
		t.Fatalf("CONCAT with NULL failed: %v %v %v", v, ok, err)
	}

	v, ok, err = stringFunc("LENGTH", []types.Value{types.Null})
	if !ok || err != nil || !v.IsNull() {
		t.Fatalf("LENGTH(NULL) should be NULL: %v %v %v", v, ok, err)
	}

	v, ok, err = stringFunc("SUBSTRING", []types.Value{types.Str("hello world"), types.Int(7)})
	if !ok || err != nil || v.AsString() != "world" {
		t.Fatalf("SUBSTRING failed: %v %v %v", v, ok, err)
	}

	v, ok, err = stringFunc("LEFT", []types.Value{types.Str("hello"), types.Int(3)})
	if !ok || err != nil || v.AsString() != "hel" {
		t.Fatalf("LEFT failed: %v %v %v", v, ok, err)
	}

	v, ok, err = stringFunc("RIGHT", []types.Value{types.Str("hello"), types.Int(3)})
	if !ok || err != nil || v.AsString() != "llo" {
		t.Fatalf("RIGHT failed: %v %v %v", v, ok, err)
	}

	v, ok, err = stringFunc("POSITION", []types.Value{types.Str("hello"), types.Str("ll")})
	if !ok || err != nil || v.AsInt() != 3 {
		t.Fatalf("POSITION failed: %v %v %v", v, ok, err)
	}
}

func TestSubstringOutOfRangeAndNegativeLength(t *testing.T) {
	v, ok, err := stringFunc("SUBSTRING", []types.Value{types.Str("abc"), types.Int(10)})
	if !ok || err != nil || v.AsString() != "" {
		t.Fatalf("out-of-range start should yield empty string, got %v %v %v", v, ok, err)
	}
	_, _, err = stringFunc("SUBSTRING", []types.Value{types.Str("abc"), types.Int(1), types.Int(-1)})
	if !errs.Is(err, errs.Type) {
		t.Fatalf("negative SUBSTRING length should fail, got %v", err)
	}
}

func TestCeilFloorSameTypeResult(t *testing.T) {
	v, ok, err := mathFunc("CEIL", []types.Value{types.Int(4)})
	if !ok || err != nil || v.Kind != types.KindInt || v.AsInt() != 4 {
		t.Fatalf("CEIL(int) should stay INT, got %v %v %v", v, ok, err)
	}
	v, ok, err = mathFunc("FLOOR", []types.Value{types.Float(4.7)})
	if !ok || err != nil || v.Kind != types.KindFloat || v.AsFloat() != 4 {
		t.Fatalf("FLOOR(float) should stay FLOAT, got %v %v %v", v, ok, err)
	}
}

func TestMathFuncsRoundHalfAwayFromZero(t *testing.T) {
	v, ok, err := mathFunc("ROUND", []types.Value{types.Float(2.5), types.Int(0)})
	if !ok || err != nil || v.AsFloat() != 3 {
		t.Fatalf("ROUND(2.5) should be 3, got %v %v %v", v, ok, err)
	}
	v, ok, err = mathFunc("ROUND", []types.Value{types.Float(-2.5), types.Int(0)})
	if !ok || err != nil || v.AsFloat() != -3 {
		t.Fatalf("ROUND(-2.5) should be -3, got %v %v %v", v, ok, err)
	}
}

func TestMathFuncsSqrtNegativeErrors(t *testing.T) {
	_, _, err := mathFunc("SQRT", []types.Value{types.Int(-1)})
	if !errs.Is(err, errs.Arithmetic) {
		t.Fatalf("expected ArithmeticError, got %v", err)
	}
}

func TestMathFuncsModDivisionByZero(t *testing.T) {
	_, _, err := mathFunc("MOD", []types.Value{types.Int(1), types.Int(0)})
	if !errs.Is(err, errs.Arithmetic) {
		t.Fatalf("expected ArithmeticError, got %v", err)
	}
}

func TestExtract(t *testing.T) {
	v, err := Extract("YEAR", types.DateVal(types.Date{Year: 2024, Month: 6, Day: 15}))
	if err != nil || v.AsInt() != 2024 {
		t.Fatalf("EXTRACT YEAR failed: %v %v", v, err)
	}
	v, err = Extract("SECOND", types.TimeVal(types.Time{Hour: 1, Minute: 2, Second: 3}))
	if err != nil || v.AsInt() != 3 {
		t.Fatalf("EXTRACT SECOND failed: %v %v", v, err)
	}
}

func TestCurrentTimestampStableWithinStatement(t *testing.T) {
	now := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)
	a, _, err := dateTimeFunc("CURRENT_TIMESTAMP", nil, now)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := dateTimeFunc("NOW", nil, now)
	if err != nil {
		t.Fatal(err)
	}
	if !a.AsTimestamp().Equal(b.AsTimestamp()) {
		t.Fatal("CURRENT_TIMESTAMP and NOW should agree within one statement's now")
	}
}

func TestLikeMatching(t *testing.T) {
	cases := []struct {
		s, pattern string
		ci         bool
		want       bool
	}{
		{"hello", "h%", false, true},
		{"hello", "H%", false, false},
		{"hello", "H%", true, true},
		{"hello", "h_llo", false, true},
		{"hello", "h_l", false, false},
	}
	for _, c := range cases {
		got := likeMatch(c.s, c.pattern, c.ci)
		if got != c.want {
			t.Errorf("likeMatch(%q,%q,%v) = %v, want %v", c.s, c.pattern, c.ci, got, c.want)
		}
	}
}

func TestEvalBetween(t *testing.T) {
	e := &ast.BetweenExpr{
		Left: &ast.LiteralExpr{Type: lexer.TokenNumber, Value: "5"},
		Low:  &ast.LiteralExpr{Type: lexer.TokenNumber, Value: "1"},
		High: &ast.LiteralExpr{Type: lexer.TokenNumber, Value: "10"},
	}
	env := NewEnv(nil, nil, "")
	tv, err := evalBetween(e, env)
	if err != nil || tv != True {
		t.Fatalf("expected True, got %v %v", tv, err)
	}
}

func TestEvalInWithNullAwareness(t *testing.T) {
	e := &ast.InExpr{
		Left: &ast.LiteralExpr{Type: lexer.TokenNumber, Value: "5"},
		Values: []ast.Expr{
			&ast.LiteralExpr{Type: lexer.TokenNumber, Value: "1"},
			&ast.LiteralExpr{Type: lexer.TokenNULL},
		},
	}
	env := NewEnv(nil, nil, "")
	tv, err := evalIn(e, env)
	if err != nil {
		t.Fatal(err)
	}
	if tv != Unknown {
		t.Fatalf("5 IN (1, NULL) should be Unknown, got %v", tv)
	}
}

func TestEvalInMatchDespiteNull(t *testing.T) {
	e := &ast.InExpr{
		Left: &ast.LiteralExpr{Type: lexer.TokenNumber, Value: "1"},
		Values: []ast.Expr{
			&ast.LiteralExpr{Type: lexer.TokenNumber, Value: "1"},
			&ast.LiteralExpr{Type: lexer.TokenNULL},
		},
	}
	env := NewEnv(nil, nil, "")
	tv, err := evalIn(e, env)
	if err != nil || tv != True {
		t.Fatalf("1 IN (1, NULL) should be True, got %v %v", tv, err)
	}
}

func TestEvalCaseSimpleForm(t *testing.T) {
	e := &ast.CaseExpr{
		Operand: &ast.LiteralExpr{Type: lexer.TokenNumber, Value: "2"},
		Whens: []ast.WhenClause{
			{Condition: &ast.LiteralExpr{Type: lexer.TokenNumber, Value: "1"}, Result: &ast.LiteralExpr{Type: lexer.TokenString, Value: "one"}},
			{Condition: &ast.LiteralExpr{Type: lexer.TokenNumber, Value: "2"}, Result: &ast.LiteralExpr{Type: lexer.TokenString, Value: "two"}},
		},
		Else: &ast.LiteralExpr{Type: lexer.TokenString, Value: "other"},
	}
	env := NewEnv(nil, nil, "")
	v, err := Eval(e, env)
	if err != nil || v.AsString() != "two" {
		t.Fatalf("expected \"two\", got %v %v", v, err)
	}
}

func TestEvalCaseNoMatchFallsToElse(t *testing.T) {
	e := &ast.CaseExpr{
		Whens: []ast.WhenClause{
			{Condition: &ast.LiteralExpr{Type: lexer.TokenFALSE}, Result: &ast.LiteralExpr{Type: lexer.TokenString, Value: "no"}},
		},
		Else: &ast.LiteralExpr{Type: lexer.TokenString, Value: "fallback"},
	}
	env := NewEnv(nil, nil, "")
	v, err := Eval(e, env)
	if err != nil || v.AsString() != "fallback" {
		t.Fatalf("expected \"fallback\", got %v %v", v, err)
	}
}

func TestEvalCaseNoElseYieldsNull(t *testing.T) {
	e := &ast.CaseExpr{
		Whens: []ast.WhenClause{
			{Condition: &ast.LiteralExpr{Type: lexer.TokenFALSE}, Result: &ast.LiteralExpr{Type: lexer.TokenString, Value: "no"}},
		},
	}
	env := NewEnv(nil, nil, "")
	v, err := Eval(e, env)
	if err != nil || !v.IsNull() {
		t.Fatalf("expected NULL, got %v %v", v, err)
	}
}

func TestCallFunctionCoalesce(t *testing.T) {
	v, err := CallFunction("COALESCE", []types.Value{types.Null, types.Null, types.Int(3)}, time.Time{})
	if err != nil || v.AsInt() != 3 {
		t.Fatalf("expected 3, got %v %v", v, err)
	}
}

func TestCallFunctionNullifEqual(t *testing.T) {
	v, err := CallFunction("NULLIF", []types.Value{types.Int(5), types.Int(5)}, time.Time{})
	if err != nil || !v.IsNull() {
		t.Fatalf("NULLIF(5,5) should be NULL, got %v %v", v, err)
	}
}

func TestCallFunctionNullifDiffers(t *testing.T) {
	v, err := CallFunction("NULLIF", []types.Value{types.Int(5), types.Int(6)}, time.Time{})
	if err != nil || v.AsInt() != 5 {
		t.Fatalf("NULLIF(5,6) should be 5, got %v %v", v, err)
	}
}

func TestCallFunctionNullifWithNullLeft(t *testing.T) {
	v, err := CallFunction("NULLIF", []types.Value{types.Null, types.Int(5)}, time.Time{})
	if err != nil || !v.IsNull() {
		t.Fatalf("NULLIF(NULL,5) should be NULL, got %v %v", v, err)
	}
}

func TestCallFunctionRejectsAggregates(t *testing.T) {
	_, err := CallFunction("SUM", []types.Value{types.Int(1)}, time.Time{})
	if !errs.Is(err, errs.Type) {
		t.Fatalf("expected TypeError for bare aggregate call, got %v", err)
	}
}

func TestFinalizeSumEmptyIsNull(t *testing.T) {
	v, err := FinalizeSum(nil)
	if err != nil || !v.IsNull() {
		t.Fatalf("SUM of empty group should be NULL, got %v %v", v, err)
	}
	v, err = FinalizeSum([]types.Value{types.Null, types.Null})
	if err != nil || !v.IsNull() {
		t.Fatalf("SUM of all-NULL group should be NULL, got %v %v", v, err)
	}
}

func TestFinalizeSumIgnoresNulls(t *testing.T) {
	v, err := FinalizeSum([]types.Value{types.Int(1), types.Null, types.Int(2)})
	if err != nil || v.AsInt() != 3 {
		t.Fatalf("expected 3, got %v %v", v, err)
	}
}

func TestFinalizeAvgEmptyIsNull(t *testing.T) {
	v, err := FinalizeAvg(nil)
	if err != nil || !v.IsNull() {
		t.Fatalf("AVG of empty group should be NULL, got %v %v", v, err)
	}
}

func TestFinalizeAvg(t *testing.T) {
	v, err := FinalizeAvg([]types.Value{types.Int(1), types.Int(2), types.Int(3)})
	if err != nil || v.Float64() != 2 {
		t.Fatalf("expected 2, got %v %v", v, err)
	}
}

func TestFinalizeMinMax(t *testing.T) {
	min, err := FinalizeMin([]types.Value{types.Int(3), types.Null, types.Int(1), types.Int(2)})
	if err != nil || min.AsInt() != 1 {
		t.Fatalf("expected min 1, got %v %v", min, err)
	}
	max, err := FinalizeMax([]types.Value{types.Int(3), types.Null, types.Int(1), types.Int(2)})
	if err != nil || max.AsInt() != 3 {
		t.Fatalf("expected max 3, got %v %v", max, err)
	}
}

func TestFinalizeCountStarAndExpr(t *testing.T) {
	if FinalizeCountStar(5).AsInt() != 5 {
		t.Fatal("COUNT(*) should count all rows")
	}
	c := FinalizeCountExpr([]types.Value{types.Int(1), types.Null, types.Int(2)})
	if c.AsInt() != 2 {
		t.Fatalf("COUNT(expr) should ignore NULLs, got %d", c.AsInt())
	}
}

func TestEvalScalarSubqueryWithoutRunnerErrors(t *testing.T) {
	e := &ast.SubqueryExpr{Query: &ast.SelectStmt{}}
	env := NewEnv(nil, nil, "")
	_, err := evalScalarSubquery(e, env)
	if !errs.Is(err, errs.State) {
		t.Fatalf("expected StateError when no Runner configured, got %v", err)
	}
}

type fakeRunner struct {
	columns []string
	rows    [][]types.Value
}

func (f *fakeRunner) RunSelect(stmt *ast.SelectStmt, outer *Env) ([]string, [][]types.Value, error) {
	return f.columns, f.rows, nil
}

func TestEvalScalarSubqueryCardinality(t *testing.T) {
	env := NewEnv(nil, nil, "")
	env.Runner = &fakeRunner{columns: []string{"x"}, rows: [][]types.Value{{types.Int(1)}, {types.Int(2)}}}
	e := &ast.SubqueryExpr{Query: &ast.SelectStmt{}}
	_, err := evalScalarSubquery(e, env)
	if !errs.Is(err, errs.Cardinality) {
		t.Fatalf("expected CardinalityError for multi-row scalar subquery, got %v", err)
	}
}

func TestEvalScalarSubqueryZeroRowsIsNull(t *testing.T) {
	env := NewEnv(nil, nil, "")
	env.Runner = &fakeRunner{columns: []string{"x"}, rows: nil}
	e := &ast.SubqueryExpr{Query: &ast.SelectStmt{}}
	v, err := evalScalarSubquery(e, env)
	if err != nil || !v.IsNull() {
		t.Fatalf("expected NULL for zero-row scalar subquery, got %v %v", v, err)
	}
}

func TestEnvResolveQualifiedAndUnqualified(t *testing.T) {
	env := NewEnv([]string{"id", "name"}, []types.Value{types.Int(1), types.Str("bob")}, "users")
	v, ok := env.Resolve(&ast.ColumnRef{Column: "name"})
	if !ok || v.AsString() != "bob" {
		t.Fatalf("unqualified resolve failed: %v %v", v, ok)
	}
	v, ok = env.Resolve(&ast.ColumnRef{Table: "users", Column: "id"})
	if !ok || v.AsInt() != 1 {
		t.Fatalf("qualified resolve failed: %v %v", v, ok)
	}
	_, ok = env.Resolve(&ast.ColumnRef{Table: "other", Column: "id"})
	if ok {
		t.Fatal("resolve should fail for mismatched alias with no outer env")
	}
}

func TestEnvResolveCaseSensitive(t *testing.T) {
	env := NewEnv([]string{"Name"}, []types.Value{types.Str("x")}, "")
	_, ok := env.Resolve(&ast.ColumnRef{Column: "name"})
	if ok {
		t.Fatal("column resolution should be case-sensitive")
	}
}
