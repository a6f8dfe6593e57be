package parser

import (
	"reflect"
	"testing"

	"github.com/relcore/relcore/pkg/ast"
	"github.com/relcore/relcore/pkg/lexer"
)

// Parse-then-format-then-parse must yield an AST equal to the first parse,
// and formatting must be a fixpoint (format of the reparse equals the first
// format).
func TestFormatRoundTrip(t *testing.T) {
	cases := []string{
		"CREATE DATABASE shop",
		"CREATE DATABASE IF NOT EXISTS shop",
		"DROP DATABASE IF EXISTS shop",
		"USE shop",
		"CREATE TABLE t (id SERIAL PRIMARY KEY, name VARCHAR(32) NOT NULL UNIQUE, age INT CHECK (age >= 0), status VARCHAR DEFAULT 'pending', UNIQUE (name), CHECK (age < 200))",
		"DROP TABLE IF EXISTS a, b",
		"ALTER TABLE t ADD COLUMN n INT NOT NULL",
		"ALTER TABLE t DROP COLUMN n",
		"ALTER TABLE t ADD UNIQUE (a, b)",
		"ALTER TABLE t DROP CONSTRAINT UNIQUE (a, b)",
		"ALTER TABLE t RENAME TO u",
		"ALTER TABLE t RENAME COLUMN a TO b",
		"CREATE VIEW v AS SELECT id FROM t WHERE id > 1",
		"CREATE MATERIALIZED VIEW mv AS SELECT COUNT(*) AS c FROM t",
		"REFRESH MATERIALIZED VIEW mv",
		"DROP VIEW IF EXISTS v",
		"DROP MATERIALIZED VIEW mv",
		"INSERT INTO t (id, n) VALUES (DEFAULT, 'a'), (2, 'it''s')",
		"INSERT INTO t (n) VALUES ('a') ON CONFLICT (n) DO NOTHING",
		"INSERT INTO t (n, v) VALUES ('a', 1) ON CONFLICT (n) DO UPDATE SET v = 2 RETURNING *",
		"UPDATE t SET a = b, b = a WHERE a <> b RETURNING *",
		"DELETE FROM t WHERE x IS NOT NULL RETURNING *",
		"SELECT 1 + 1",
		"SELECT - 1 * (2 + 3)",
		"SELECT DISTINCT id, name AS n FROM users AS u WHERE age >= 18 AND name LIKE 'a%' ORDER BY name DESC, id LIMIT 10 OFFSET 5",
		"SELECT g, SUM(v) AS tot FROM s GROUP BY g HAVING SUM(v) > 2 ORDER BY tot DESC",
		"SELECT x FROM (SELECT id AS x FROM t) AS sub",
		"SELECT CASE WHEN age < 18 THEN 'minor' ELSE 'adult' END FROM t",
		"SELECT CASE age WHEN 1 THEN 'one' WHEN 2 THEN 'two' END FROM t",
		"SELECT CAST(age AS VARCHAR(8)), COALESCE(a, b, 0), NULLIF(a, b) FROM t",
		"SELECT EXTRACT(YEAR FROM created_at) FROM t",
		"SELECT * FROM t WHERE age BETWEEN 1 AND 9 AND id IN (1, 2, 3)",
		"SELECT * FROM t WHERE id NOT IN (SELECT id FROM banned)",
		"SELECT * FROM t WHERE name NOT ILIKE 'b%' OR NOT active",
		"SELECT v FROM s WHERE v = (SELECT MIN(v) FROM s)",
		"WITH hi AS (SELECT v FROM s WHERE v > 1), lo (v) AS (SELECT v FROM s WHERE v < 1) SELECT v FROM hi UNION SELECT v FROM lo",
		"SELECT a FROM t1 UNION ALL SELECT a FROM t2 INTERSECT SELECT a FROM t3 EXCEPT SELECT a FROM t4 ORDER BY a LIMIT 3",
	}

	for _, sql := range cases {
		first, err := New(lexer.New(sql)).Parse()
		if err != nil {
			t.Fatalf("parse(%q): %v", sql, err)
		}
		text := ast.Format(first)
		second, err := New(lexer.New(text)).Parse()
		if err != nil {
			t.Fatalf("reparse of %q -> %q: %v", sql, text, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("round trip changed the AST for %q\nformatted: %q\nfirst:  %#v\nsecond: %#v", sql, text, first, second)
		}
		if again := ast.Format(second); again != text {
			t.Errorf("format not a fixpoint for %q: %q vs %q", sql, text, again)
		}
	}
}
