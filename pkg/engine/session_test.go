package engine

import (
	"testing"
	"time"

	"github.com/relcore/relcore/pkg/storage"
)

type fixedClock struct{ at time.Time }

func (f fixedClock) Now() time.Time { return f.at }

func TestExecuteRunsBatchInOrder(t *testing.T) {
	s := New(WithClock(fixedClock{at: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}))
	results, err := s.Execute(`CREATE DATABASE d; USE d;
		CREATE TABLE t (id SERIAL PRIMARY KEY, name VARCHAR);
		INSERT INTO t (name) VALUES ('a'), ('b');
		SELECT * FROM t;`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("got %d results, want 5", len(results))
	}
	sel := results[4]
	if len(sel.Rows) != 2 {
		t.Fatalf("SELECT returned %d rows, want 2", len(sel.Rows))
	}
}

// A failing statement k aborts the batch: 1..k-1 already ran (and their
// effects are visible), k+1.. never run.
func TestExecuteStopsAtFirstFailure(t *testing.T) {
	s := New()
	_, err := s.Execute(`CREATE DATABASE d; USE d;
		CREATE TABLE t (id SERIAL PRIMARY KEY, name VARCHAR UNIQUE);
		INSERT INTO t (name) VALUES ('a');
		INSERT INTO t (name) VALUES ('a');
		INSERT INTO t (name) VALUES ('b');`)
	if err == nil {
		t.Fatal("expected the duplicate INSERT to fail the batch")
	}

	res, execErr := s.Execute(`SELECT name FROM t`)
	if execErr != nil {
		t.Fatal(execErr)
	}
	if len(res[0].Rows) != 1 {
		t.Fatalf("got %d rows after aborted batch, want 1 (only the first INSERT committed, 'b' never ran)", len(res[0].Rows))
	}
}

// A `;` inside a string literal must not be treated as a statement
// separator.
func TestExecuteSemicolonInsideStringLiteral(t *testing.T) {
	s := New()
	results, err := s.Execute(`CREATE DATABASE d; USE d;
		CREATE TABLE t (note VARCHAR);
		INSERT INTO t VALUES ('a;b');
		SELECT note FROM t;`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	sel := results[len(results)-1]
	if sel.Rows[0][0].AsString() != "a;b" {
		t.Fatalf("note = %q, want %q", sel.Rows[0][0].AsString(), "a;b")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	snap, err := storage.NewFileSnapshotter(dir)
	if err != nil {
		t.Fatal(err)
	}

	s := New(WithSnapshotter(snap))
	if _, err := s.Execute(`CREATE DATABASE shop; USE shop;
		CREATE TABLE t (id SERIAL PRIMARY KEY, name VARCHAR);
		INSERT INTO t (name) VALUES ('ada');`); err != nil {
		t.Fatal(err)
	}
	if err := s.Save("shop"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored := New(WithSnapshotter(snap))
	if err := restored.Load("shop"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := restored.Execute(`USE shop`); err != nil {
		t.Fatal(err)
	}
	res, err := restored.Execute(`SELECT name FROM t`)
	if err != nil {
		t.Fatal(err)
	}
	if len(res[0].Rows) != 1 || res[0].Rows[0][0].AsString() != "ada" {
		t.Fatalf("restored rows = %+v, want [('ada')]", res[0].Rows)
	}
}

func TestNoSnapshotterConfiguredErrors(t *testing.T) {
	s := New()
	if err := s.Save("default"); err == nil {
		t.Fatal("expected error saving with no snapshotter configured")
	}
	if err := s.Load("default"); err == nil {
		t.Fatal("expected error loading with no snapshotter configured")
	}
	if _, err := s.ListSnapshots(); err == nil {
		t.Fatal("expected error listing with no snapshotter configured")
	}
}
