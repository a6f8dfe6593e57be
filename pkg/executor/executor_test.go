package executor

import (
	"testing"
	"time"

	"github.com/relcore/relcore/pkg/catalog"
	"github.com/relcore/relcore/pkg/errs"
	"github.com/relcore/relcore/pkg/lexer"
	"github.com/relcore/relcore/pkg/parser"
	"github.com/relcore/relcore/pkg/storage"
)

// fixedClock pins CURRENT_DATE/NOW() to one instant for reproducible tests.
type fixedClock struct{ at time.Time }

func (f fixedClock) Now() time.Time { return f.at }

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	sess := storage.NewSession(catalog.New())
	clock := fixedClock{at: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(sess, clock)
}

// run executes every statement in sql in order and returns each Result. A
// statement that fails to parse or execute ends the test via t.Fatalf.
func run(t *testing.T, ex *Executor, sql string) []*Result {
	t.Helper()
	stmts, err := parser.New(lexer.New(sql)).ParseMultiple()
	if err != nil {
		t.Fatalf("parse(%q): %v", sql, err)
	}
	var results []*Result
	for _, s := range stmts {
		res, err := ex.Execute(s)
		if err != nil {
			t.Fatalf("exec(%q): %v", sql, err)
		}
		results = append(results, res)
	}
	return results
}

// runOne executes a single statement and returns its result and error,
// without failing the test on error.
func runOne(t *testing.T, ex *Executor, sql string) (*Result, error) {
	t.Helper()
	stmt, err := parser.New(lexer.New(sql)).Parse()
	if err != nil {
		t.Fatalf("parse(%q): %v", sql, err)
	}
	return ex.Execute(stmt)
}

// S1 — constraints and defaults.
func TestScenarioConstraintsAndDefaults(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE t (id SERIAL PRIMARY KEY, name VARCHAR UNIQUE, age INT CHECK (age >= 0));
		INSERT INTO t (name, age) VALUES ('a', 10), ('b', 20);`)

	if _, err := runOne(t, ex, `INSERT INTO t (name, age) VALUES ('a', 30)`); !errs.Is(err, errs.Constraint) {
		t.Fatalf("expected UNIQUE ConstraintError, got %v", err)
	}
	if _, err := runOne(t, ex, `INSERT INTO t (name, age) VALUES ('c', -1)`); !errs.Is(err, errs.Constraint) {
		t.Fatalf("expected CHECK ConstraintError, got %v", err)
	}

	res, err := runOne(t, ex, `SELECT * FROM t`)
	if err != nil {
		t.Fatalf("SELECT: %v", err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(res.Rows))
	}
	wantID := []int64{1, 2}
	wantName := []string{"a", "b"}
	wantAge := []int64{10, 20}
	for i, row := range res.Rows {
		if row[0].AsInt() != wantID[i] || row[1].AsString() != wantName[i] || row[2].AsInt() != wantAge[i] {
			t.Fatalf("row %d = %+v, want (%d,%q,%d)", i, row, wantID[i], wantName[i], wantAge[i])
		}
	}
}

// A failed statement must leave the table exactly as it was (spec.md §8).
func TestFailedStatementLeavesTableUnchanged(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE t (id SERIAL PRIMARY KEY, name VARCHAR UNIQUE, age INT CHECK (age >= 0));
		INSERT INTO t (name, age) VALUES ('a', 10);`)

	db, err := ex.session.CurrentDatabase()
	if err != nil {
		t.Fatal(err)
	}
	tbl, _ := db.GetTable("t")
	before := tbl.SerialCounters()["id"]
	beforeRows := len(tbl.Rows())

	if _, err := runOne(t, ex, `INSERT INTO t (name, age) VALUES ('z', -5), ('new', 5)`); err == nil {
		t.Fatal("expected CHECK violation to abort the whole statement")
	}

	after := tbl.SerialCounters()["id"]
	if after != before {
		t.Fatalf("SERIAL counter mutated by a failed statement: before=%d after=%d", before, after)
	}
	if len(tbl.Rows()) != beforeRows {
		t.Fatalf("row count changed by a failed statement: before=%d after=%d", beforeRows, len(tbl.Rows()))
	}
}

// S2 — ON CONFLICT DO UPDATE.
func TestScenarioOnConflictDoUpdate(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE t (id SERIAL PRIMARY KEY, name VARCHAR UNIQUE, age INT CHECK (age >= 0));
		INSERT INTO t (name, age) VALUES ('a', 10), ('b', 20);`)

	res, err := runOne(t, ex, `INSERT INTO t (name, age) VALUES ('a', 99)
		ON CONFLICT (name) DO UPDATE SET age = 99 RETURNING *`)
	if err != nil {
		t.Fatalf("ON CONFLICT DO UPDATE: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("got %d returned rows, want 1", len(res.Rows))
	}
	row := res.Rows[0]
	if row[0].AsInt() != 1 || row[1].AsString() != "a" || row[2].AsInt() != 99 {
		t.Fatalf("returned row = %+v, want (1,'a',99)", row)
	}

	sel, err := runOne(t, ex, `SELECT * FROM t WHERE name = 'a'`)
	if err != nil {
		t.Fatal(err)
	}
	if len(sel.Rows) != 1 || sel.Rows[0][2].AsInt() != 99 {
		t.Fatalf("row 1 not mutated in place: %+v", sel.Rows)
	}
}

func TestOnConflictDoNothing(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE t (id SERIAL PRIMARY KEY, name VARCHAR UNIQUE, age INT);
		INSERT INTO t (name, age) VALUES ('a', 10);`)

	res, err := runOne(t, ex, `INSERT INTO t (name, age) VALUES ('a', 999) ON CONFLICT (name) DO NOTHING`)
	if err != nil {
		t.Fatalf("ON CONFLICT DO NOTHING: %v", err)
	}
	if res.RowsAffected != 0 {
		t.Fatalf("expected 0 rows affected, got %d", res.RowsAffected)
	}
	sel, err := runOne(t, ex, `SELECT age FROM t WHERE name = 'a'`)
	if err != nil {
		t.Fatal(err)
	}
	if sel.Rows[0][0].AsInt() != 10 {
		t.Fatalf("row mutated despite DO NOTHING: %+v", sel.Rows[0])
	}
}

// Two colliding rows in the same INSERT batch are not conflict targets —
// they raise a plain constraint error instead of silently merging.
func TestOnConflictWithinBatchDuplicateIsConstraintError(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE t (id SERIAL PRIMARY KEY, name VARCHAR UNIQUE, age INT);`)

	_, err := runOne(t, ex, `INSERT INTO t (name, age) VALUES ('a', 1), ('a', 2) ON CONFLICT (name) DO NOTHING`)
	if !errs.Is(err, errs.Constraint) {
		t.Fatalf("expected UNIQUE ConstraintError for within-batch duplicate, got %v", err)
	}
}

// S3 — three-valued logic.
func TestScenarioThreeValuedLogic(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE u (x INT);
		INSERT INTO u VALUES (1), (NULL), (2);`)

	res, err := runOne(t, ex, `SELECT COUNT(*) FROM u WHERE x <> 1`)
	if err != nil {
		t.Fatal(err)
	}
	if res.Rows[0][0].AsInt() != 1 {
		t.Fatalf("COUNT(*) WHERE x <> 1 = %v, want 1 (NULL <> 1 discards)", res.Rows[0][0])
	}

	res, err = runOne(t, ex, `SELECT COUNT(*) FROM u WHERE x IS NULL`)
	if err != nil {
		t.Fatal(err)
	}
	if res.Rows[0][0].AsInt() != 1 {
		t.Fatalf("COUNT(*) WHERE x IS NULL = %v, want 1", res.Rows[0][0])
	}
}

// S4 — group/having/order.
func TestScenarioGroupHavingOrder(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE s (g VARCHAR, v INT);
		INSERT INTO s VALUES ('a',1),('a',3),('b',5),('b',NULL),('c',2);`)

	res, err := runOne(t, ex, `SELECT g, SUM(v) AS tot FROM s GROUP BY g HAVING SUM(v) > 2 ORDER BY tot DESC`)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("got %d rows, want 2: %+v", len(res.Rows), res.Rows)
	}
	if res.Rows[0][0].AsString() != "b" || res.Rows[0][1].AsInt() != 5 {
		t.Fatalf("row 0 = %+v, want ('b',5)", res.Rows[0])
	}
	if res.Rows[1][0].AsString() != "a" || res.Rows[1][1].AsInt() != 4 {
		t.Fatalf("row 1 = %+v, want ('a',4)", res.Rows[1])
	}
}

// S5 — CTE + set op + subquery.
func TestScenarioCTESetOpSubquery(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE s (g VARCHAR, v INT);
		INSERT INTO s VALUES ('a',1),('a',3),('b',5),('b',NULL),('c',2);`)

	res, err := runOne(t, ex, `WITH hi AS (SELECT v FROM s WHERE v > 1)
		SELECT v FROM hi
		UNION
		SELECT v FROM s WHERE v = (SELECT MIN(v) FROM s)`)
	if err != nil {
		t.Fatal(err)
	}
	got := map[int64]bool{}
	for _, row := range res.Rows {
		got[row[0].AsInt()] = true
	}
	want := []int64{1, 2, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("got %d distinct values %v, want %v", len(got), got, want)
	}
	for _, w := range want {
		if !got[w] {
			t.Fatalf("missing %d in result set %v", w, got)
		}
	}
}

// S6 — materialized view staleness contract.
func TestScenarioMaterializedViewStaleness(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE s (g VARCHAR, v INT);
		INSERT INTO s VALUES ('a',1),('a',3),('b',5),('b',NULL),('c',2);
		CREATE MATERIALIZED VIEW mv AS SELECT COUNT(*) AS c FROM s;`)

	res, err := runOne(t, ex, `SELECT c FROM mv`)
	if err != nil {
		t.Fatal(err)
	}
	if res.Rows[0][0].AsInt() != 5 {
		t.Fatalf("mv.c = %v, want 5", res.Rows[0][0])
	}

	run(t, ex, `INSERT INTO s VALUES ('d',7);`)

	res, err = runOne(t, ex, `SELECT c FROM mv`)
	if err != nil {
		t.Fatal(err)
	}
	if res.Rows[0][0].AsInt() != 5 {
		t.Fatalf("mv.c after INSERT (pre-refresh) = %v, want still 5", res.Rows[0][0])
	}

	run(t, ex, `REFRESH MATERIALIZED VIEW mv;`)

	res, err = runOne(t, ex, `SELECT c FROM mv`)
	if err != nil {
		t.Fatal(err)
	}
	if res.Rows[0][0].AsInt() != 6 {
		t.Fatalf("mv.c after REFRESH = %v, want 6", res.Rows[0][0])
	}
}

// DISTINCT is idempotent.
func TestDistinctIdempotent(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE t (x INT);
		INSERT INTO t VALUES (1), (1), (2), (2), (3);`)

	once, err := runOne(t, ex, `SELECT DISTINCT x FROM t ORDER BY x`)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := runOne(t, ex, `SELECT DISTINCT x FROM (SELECT DISTINCT x FROM t) d ORDER BY x`)
	if err != nil {
		t.Fatal(err)
	}
	if len(once.Rows) != len(twice.Rows) {
		t.Fatalf("DISTINCT not idempotent: %d vs %d rows", len(once.Rows), len(twice.Rows))
	}
	for i := range once.Rows {
		if once.Rows[i][0].AsInt() != twice.Rows[i][0].AsInt() {
			t.Fatalf("row %d differs: %v vs %v", i, once.Rows[i], twice.Rows[i])
		}
	}
}

// UNION ALL is associative/commutative up to ordering (same multiset).
func TestUnionAllCommutativeMultiset(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE t1 (x INT); CREATE TABLE t2 (x INT);
		INSERT INTO t1 VALUES (1), (2);
		INSERT INTO t2 VALUES (2), (3);`)

	ab, err := runOne(t, ex, `SELECT x FROM t1 UNION ALL SELECT x FROM t2 ORDER BY x`)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := runOne(t, ex, `SELECT x FROM t2 UNION ALL SELECT x FROM t1 ORDER BY x`)
	if err != nil {
		t.Fatal(err)
	}
	if len(ab.Rows) != len(ba.Rows) {
		t.Fatalf("UNION ALL row count not commutative: %d vs %d", len(ab.Rows), len(ba.Rows))
	}
	for i := range ab.Rows {
		if ab.Rows[i][0].AsInt() != ba.Rows[i][0].AsInt() {
			t.Fatalf("UNION ALL multiset differs at %d: %v vs %v", i, ab.Rows[i], ba.Rows[i])
		}
	}
}

// INTERSECT and EXCEPT are idempotent on identical inputs.
func TestIntersectExceptIdempotentOnIdenticalInputs(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE t (x INT);
		INSERT INTO t VALUES (1), (2), (2), (3);`)

	inter, err := runOne(t, ex, `SELECT x FROM t INTERSECT SELECT x FROM t ORDER BY x`)
	if err != nil {
		t.Fatal(err)
	}
	if len(inter.Rows) != 3 {
		t.Fatalf("A INTERSECT A = %+v, want {1,2,3}", inter.Rows)
	}

	except, err := runOne(t, ex, `SELECT x FROM t EXCEPT SELECT x FROM t`)
	if err != nil {
		t.Fatal(err)
	}
	if len(except.Rows) != 0 {
		t.Fatalf("A EXCEPT A = %+v, want empty", except.Rows)
	}
}

// UNION dedup treats an INT and a FLOAT of equal value as the same tuple,
// matching full-tuple equality under Equal.
func TestUnionDeduplicatesAcrossIntAndFloat(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE ti (x INT); CREATE TABLE tf (x FLOAT);
		INSERT INTO ti VALUES (1), (2);
		INSERT INTO tf VALUES (2.0), (2.5);`)

	res, err := runOne(t, ex, `SELECT x FROM ti UNION SELECT x FROM tf ORDER BY x`)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 3 {
		t.Fatalf("got %d rows %+v, want 3 (INT 2 and FLOAT 2.0 dedupe)", len(res.Rows), res.Rows)
	}
}

// COUNT(*) must equal the row count of SELECT * under the same WHERE.
func TestCountStarMatchesSelectStarRowCount(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE t (x INT);
		INSERT INTO t VALUES (1), (2), (3), (4), (5);`)

	count, err := runOne(t, ex, `SELECT COUNT(*) FROM t WHERE x > 2`)
	if err != nil {
		t.Fatal(err)
	}
	star, err := runOne(t, ex, `SELECT * FROM t WHERE x > 2`)
	if err != nil {
		t.Fatal(err)
	}
	if count.Rows[0][0].AsInt() != int64(len(star.Rows)) {
		t.Fatalf("COUNT(*) = %v, SELECT * row count = %d", count.Rows[0][0], len(star.Rows))
	}
}

// GROUP BY rejects a non-aggregated, non-key expression in the select list.
func TestGroupByRejectsUngroupedColumn(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE s (g VARCHAR, v INT);
		INSERT INTO s VALUES ('a', 1), ('a', 2);`)

	_, err := runOne(t, ex, `SELECT g, v FROM s GROUP BY g`)
	if !errs.Is(err, errs.Syntax) {
		t.Fatalf("expected SyntaxError for ungrouped column, got %v", err)
	}
}

// ORDER BY: NULLs sort LAST under ASC, FIRST under DESC.
func TestOrderByNullPlacement(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE t (x INT);
		INSERT INTO t VALUES (2), (NULL), (1);`)

	asc, err := runOne(t, ex, `SELECT x FROM t ORDER BY x ASC`)
	if err != nil {
		t.Fatal(err)
	}
	if !asc.Rows[len(asc.Rows)-1][0].IsNull() {
		t.Fatalf("ASC: NULL not last: %+v", asc.Rows)
	}

	desc, err := runOne(t, ex, `SELECT x FROM t ORDER BY x DESC`)
	if err != nil {
		t.Fatal(err)
	}
	if !desc.Rows[0][0].IsNull() {
		t.Fatalf("DESC: NULL not first: %+v", desc.Rows)
	}
}

// LIMIT/OFFSET reject negative bounds.
func TestLimitOffsetRejectsNegative(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE t (x INT);
		INSERT INTO t VALUES (1), (2);`)

	if _, err := runOne(t, ex, `SELECT x FROM t LIMIT -1`); !errs.Is(err, errs.Type) {
		t.Fatalf("expected TypeError for negative LIMIT, got %v", err)
	}
	if _, err := runOne(t, ex, `SELECT x FROM t OFFSET -1`); !errs.Is(err, errs.Type) {
		t.Fatalf("expected TypeError for negative OFFSET, got %v", err)
	}
}

// ALTER TABLE DROP COLUMN referenced by a CHECK is rejected.
func TestAlterTableDropColumnReferencedByCheckRejected(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE t (x INT CHECK (x >= 0), y INT);`)

	if _, err := runOne(t, ex, `ALTER TABLE t DROP COLUMN x`); !errs.Is(err, errs.Constraint) {
		t.Fatalf("expected ConstraintError dropping a CHECK-referenced column, got %v", err)
	}
	// y isn't referenced by any CHECK and must drop cleanly.
	if _, err := runOne(t, ex, `ALTER TABLE t DROP COLUMN y`); err != nil {
		t.Fatalf("unexpected error dropping unreferenced column: %v", err)
	}
}

// UPDATE evaluates every SET assignment against the same pre-update row, not
// a left-to-right mutated one.
func TestUpdateUsesPreUpdateSnapshot(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE t (a INT, b INT);
		INSERT INTO t VALUES (1, 2);`)

	if _, err := runOne(t, ex, `UPDATE t SET a = b, b = a`); err != nil {
		t.Fatal(err)
	}
	res, err := runOne(t, ex, `SELECT a, b FROM t`)
	if err != nil {
		t.Fatal(err)
	}
	if res.Rows[0][0].AsInt() != 2 || res.Rows[0][1].AsInt() != 1 {
		t.Fatalf("SET a=b,b=a = %+v, want (2,1) (pre-update snapshot swap)", res.Rows[0])
	}
}

// A failing row in a multi-row UPDATE must abort the whole statement,
// leaving every row untouched.
func TestUpdateAllOrNothing(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE t (id SERIAL PRIMARY KEY, v INT CHECK (v >= 0));
		INSERT INTO t (v) VALUES (1), (2), (3);`)

	if _, err := runOne(t, ex, `UPDATE t SET v = v - 2`); !errs.Is(err, errs.Constraint) {
		t.Fatalf("expected CHECK ConstraintError, got %v", err)
	}
	res, err := runOne(t, ex, `SELECT v FROM t ORDER BY v`)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{1, 2, 3}
	for i, row := range res.Rows {
		if row[0].AsInt() != want[i] {
			t.Fatalf("row %d = %v, want %d (UPDATE must be all-or-nothing)", i, row[0], want[i])
		}
	}
}

// A bare aggregate over zero matching rows still produces one row (COUNT=0,
// SUM/AVG/MIN/MAX=NULL), not an empty result set.
func TestAggregateOverEmptySetProducesOneRow(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE t (x INT);`)

	res, err := runOne(t, ex, `SELECT COUNT(*), SUM(x) FROM t`)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(res.Rows))
	}
	if res.Rows[0][0].AsInt() != 0 {
		t.Fatalf("COUNT(*) over empty table = %v, want 0", res.Rows[0][0])
	}
	if !res.Rows[0][1].IsNull() {
		t.Fatalf("SUM(x) over empty table = %v, want NULL", res.Rows[0][1])
	}
}

// A CHECK evaluating to NULL admits the row; only FALSE rejects (spec.md
// §4.4), unlike WHERE's NULL-discards rule.
func TestCheckConstraintAdmitsNull(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE t (age INT CHECK (age >= 0));`)

	if _, err := runOne(t, ex, `INSERT INTO t (age) VALUES (NULL)`); err != nil {
		t.Fatalf("CHECK over NULL must admit the row, got %v", err)
	}
	res, err := runOne(t, ex, `SELECT COUNT(*) FROM t`)
	if err != nil {
		t.Fatal(err)
	}
	if res.Rows[0][0].AsInt() != 1 {
		t.Fatalf("expected the NULL row committed, got %v rows", res.Rows[0][0])
	}
}

// An explicitly supplied SERIAL value advances the counter past itself.
func TestExplicitSerialValueBumpsCounter(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE t (id SERIAL PRIMARY KEY, n VARCHAR);
		INSERT INTO t (id, n) VALUES (10, 'explicit');
		INSERT INTO t (n) VALUES ('auto');`)

	res, err := runOne(t, ex, `SELECT id FROM t ORDER BY id`)
	if err != nil {
		t.Fatal(err)
	}
	if res.Rows[1][0].AsInt() != 11 {
		t.Fatalf("auto id after explicit 10 = %v, want 11", res.Rows[1][0])
	}
}

// A trailing ORDER BY on a compound chain orders the combined result.
func TestCompoundChainTrailingOrderBy(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE t1 (x INT); CREATE TABLE t2 (x INT);
		INSERT INTO t1 VALUES (3), (1);
		INSERT INTO t2 VALUES (2);`)

	res, err := runOne(t, ex, `SELECT x FROM t1 UNION SELECT x FROM t2 ORDER BY x DESC`)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{3, 2, 1}
	if len(res.Rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(res.Rows), len(want))
	}
	for i, row := range res.Rows {
		if row[0].AsInt() != want[i] {
			t.Fatalf("row %d = %v, want %d", i, row[0], want[i])
		}
	}
}

// Duplicate CTE names within one statement collide.
func TestDuplicateCTENameRejected(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE t (x INT);`)

	_, err := runOne(t, ex, `WITH a AS (SELECT x FROM t), a AS (SELECT x FROM t) SELECT x FROM a`)
	if !errs.Is(err, errs.Name) {
		t.Fatalf("expected NameError for duplicate CTE name, got %v", err)
	}
}

// DEFAULT and SERIAL filling for an omitted column.
func TestInsertDefaultsAndSerial(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, `CREATE DATABASE d; USE d;
		CREATE TABLE t (id SERIAL PRIMARY KEY, status VARCHAR DEFAULT 'pending');
		INSERT INTO t (id) VALUES (DEFAULT);`)

	res, err := runOne(t, ex, `SELECT id, status FROM t`)
	if err != nil {
		t.Fatal(err)
	}
	if res.Rows[0][0].AsInt() != 1 {
		t.Fatalf("SERIAL id = %v, want 1", res.Rows[0][0])
	}
	if res.Rows[0][1].AsString() != "pending" {
		t.Fatalf("DEFAULT status = %v, want 'pending'", res.Rows[0][1])
	}
}
