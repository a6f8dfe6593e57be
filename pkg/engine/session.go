// Package engine is the outermost facade: it owns a catalog-backed session,
// a clock, and an optional snapshot store, and turns a raw SQL batch string
// into a sequence of executed statements. Grounded on the teacher's
// executeSQL (main.go) lexer.New/parser.New/exec.Execute wiring, generalized
// from a single statement to spec.md §6's batch semantics.
package engine

import (
	"github.com/relcore/relcore/pkg/catalog"
	"github.com/relcore/relcore/pkg/errs"
	"github.com/relcore/relcore/pkg/executor"
	"github.com/relcore/relcore/pkg/lexer"
	"github.com/relcore/relcore/pkg/parser"
	"github.com/relcore/relcore/pkg/storage"
)

// Session is the embeddable entry point: one catalog, one current-database
// handle, one clock, run single-threaded and cooperatively per spec.md §5.
type Session struct {
	storageSession *storage.Session
	exec           *executor.Executor
	snapshots      storage.Snapshotter
}

// Option configures a new Session.
type Option func(*Session)

// WithClock overrides the default system clock (used by tests to pin
// CURRENT_DATE/NOW() to a fixed instant).
func WithClock(clock storage.Clock) Option {
	return func(s *Session) {
		s.exec = executor.New(s.storageSession, clock)
	}
}

// WithSnapshotter attaches a Snapshotter so Save/Load/ListSnapshots work.
func WithSnapshotter(snap storage.Snapshotter) Option {
	return func(s *Session) { s.snapshots = snap }
}

// New opens a session over a fresh catalog (starting on the "default"
// database, per catalog.DefaultDatabaseName), using the system clock unless
// overridden by WithClock.
func New(opts ...Option) *Session {
	sess := storage.NewSession(catalog.New())
	s := &Session{storageSession: sess, exec: executor.New(sess, storage.SystemClock{})}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result is one statement's outcome, in the shape spec.md §6 describes:
// either a row set (Columns/ColumnTypes/Rows, DQL or RETURNING DML) or a
// status (CommandTag/RowsAffected, plain DDL/DML).
type Result = executor.Result

// Execute splits sql on top-level statement boundaries (token-level, via
// the lexer/parser, so a `;` inside a string literal never splits a
// statement) and runs each in order. Per spec.md §6, a failing statement k
// aborts the batch: statements 1..k-1 have already run and their results
// are returned alongside the error for statement k; statements k+1.. never
// parse or run.
func (s *Session) Execute(sql string) ([]*Result, error) {
	p := parser.New(lexer.New(sql))
	var results []*Result
	for !p.AtEOF() {
		stmt, err := p.Parse()
		if err != nil {
			return results, err
		}
		res, err := s.exec.Execute(stmt)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// CurrentDatabaseName reports the database the session is currently USE-ing.
func (s *Session) CurrentDatabaseName() string {
	return s.storageSession.CurrentDatabaseName()
}

// Save persists the named database through the attached Snapshotter.
func (s *Session) Save(dbName string) error {
	if s.snapshots == nil {
		return errs.New(errs.State, "no snapshotter configured for this session")
	}
	db, err := s.storageSession.Catalog().GetDatabase(dbName)
	if err != nil {
		return err
	}
	return s.snapshots.Save(dbName, db)
}

// Load restores a database from the attached Snapshotter, registering it in
// the session's catalog under its stored name (overwriting any database
// already registered under that name, including the default one -- a
// restore is expected to replace whatever was there).
func (s *Session) Load(dbName string) error {
	if s.snapshots == nil {
		return errs.New(errs.State, "no snapshotter configured for this session")
	}
	db, err := s.snapshots.Load(dbName)
	if err != nil {
		return err
	}
	s.storageSession.Catalog().PutDatabase(db)
	return nil
}

// ListSnapshots reports every database name the attached Snapshotter holds.
func (s *Session) ListSnapshots() ([]string, error) {
	if s.snapshots == nil {
		return nil, errs.New(errs.State, "no snapshotter configured for this session")
	}
	return s.snapshots.List()
}
