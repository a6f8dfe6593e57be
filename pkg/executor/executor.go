// Package executor dispatches parsed statements against a catalog/storage
// session and runs the SELECT pipeline (spec.md §4.5), grounded on the
// teacher's Executor.Execute type switch and executeSelect staging,
// generalized from the teacher's single in-memory SQLite-flavored database
// to this engine's multi-database catalog and typed evaluator.
package executor

import (
	"github.com/relcore/relcore/pkg/ast"
	"github.com/relcore/relcore/pkg/errs"
	"github.com/relcore/relcore/pkg/storage"
)

// Executor runs statements against one session. It holds no statement-scoped
// state between calls — every Execute call is independent, per spec.md §5's
// single-threaded cooperative model.
type Executor struct {
	session *storage.Session
	clock   storage.Clock
}

// New builds an Executor over session, using clock for CURRENT_DATE/NOW().
func New(session *storage.Session, clock storage.Clock) *Executor {
	return &Executor{session: session, clock: clock}
}

// Execute runs one parsed statement and returns its result.
func (ex *Executor) Execute(stmt ast.Statement) (*Result, error) {
	switch s := stmt.(type) {
	case *ast.CreateDatabaseStmt:
		return ex.execCreateDatabase(s)
	case *ast.DropDatabaseStmt:
		return ex.execDropDatabase(s)
	case *ast.UseStmt:
		return ex.execUse(s)
	case *ast.CreateTableStmt:
		return ex.execCreateTable(s)
	case *ast.DropTableStmt:
		return ex.execDropTable(s)
	case *ast.AlterTableStmt:
		return ex.execAlterTable(s)
	case *ast.CreateViewStmt:
		return ex.execCreateView(s)
	case *ast.DropViewStmt:
		return ex.execDropView(s)
	case *ast.RefreshMaterializedViewStmt:
		return ex.execRefreshMaterializedView(s)
	case *ast.InsertStmt:
		return ex.execInsert(s)
	case *ast.UpdateStmt:
		return ex.execUpdate(s)
	case *ast.DeleteStmt:
		return ex.execDelete(s)
	case *ast.SelectStmt:
		return ex.execSelect(s)
	default:
		return nil, errs.New(errs.Syntax, "unsupported statement type %T", stmt)
	}
}
