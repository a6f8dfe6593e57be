package executor

import (
	"github.com/relcore/relcore/pkg/ast"
	"github.com/relcore/relcore/pkg/catalog"
	"github.com/relcore/relcore/pkg/errs"
)

func (ex *Executor) execCreateDatabase(s *ast.CreateDatabaseStmt) (*Result, error) {
	if err := ex.session.Catalog().CreateDatabase(s.Name, s.IfNotExists); err != nil {
		return nil, err
	}
	return NewResult("CREATE DATABASE"), nil
}

func (ex *Executor) execDropDatabase(s *ast.DropDatabaseStmt) (*Result, error) {
	if err := ex.session.Catalog().DropDatabase(s.Name, s.IfExists); err != nil {
		return nil, err
	}
	return NewResult("DROP DATABASE"), nil
}

func (ex *Executor) execUse(s *ast.UseStmt) (*Result, error) {
	if err := ex.session.Use(s.Name); err != nil {
		return nil, err
	}
	return NewResult("USE"), nil
}

func (ex *Executor) execCreateTable(s *ast.CreateTableStmt) (*Result, error) {
	db, err := ex.session.CurrentDatabase()
	if err != nil {
		return nil, err
	}
	t, err := catalog.BuildTable(s)
	if err != nil {
		return nil, err
	}
	if err := db.CreateTable(t, s.IfNotExists); err != nil {
		return nil, err
	}
	return NewResult("CREATE TABLE"), nil
}

func (ex *Executor) execDropTable(s *ast.DropTableStmt) (*Result, error) {
	db, err := ex.session.CurrentDatabase()
	if err != nil {
		return nil, err
	}
	for _, name := range s.Names {
		if err := db.DropTable(name, s.IfExists); err != nil {
			return nil, err
		}
	}
	return NewResult("DROP TABLE"), nil
}

func (ex *Executor) execAlterTable(s *ast.AlterTableStmt) (*Result, error) {
	db, err := ex.session.CurrentDatabase()
	if err != nil {
		return nil, err
	}
	t, ok := db.GetTable(s.Table)
	if !ok {
		return nil, errs.New(errs.Name, "table %q does not exist", s.Table)
	}

	switch action := s.Action.(type) {
	case *ast.AddColumnAction:
		col, err := catalog.BuildColumn(action.Column)
		if err != nil {
			return nil, err
		}
		fill, err := defaultValueForColumn(col, ex.clockNow())
		if err != nil {
			return nil, err
		}
		t.AddColumn(col, fill)
	case *ast.DropColumnAction:
		if columnReferencedByCheck(t, action.Column) {
			return nil, errs.ConstraintErr("CHECK", "column %q is referenced by a CHECK constraint", action.Column)
		}
		if err := t.DropColumn(action.Column); err != nil {
			return nil, err
		}
	case *ast.AddConstraintAction:
		t.AddConstraint(catalog.Constraint{
			Kind:    action.Constraint.Type,
			Columns: action.Constraint.Columns,
			Check:   action.Constraint.Check,
		})
	case *ast.DropConstraintAction:
		if err := t.DropConstraint(action.ConstraintType, action.Columns); err != nil {
			return nil, err
		}
	case *ast.RenameTableAction:
		if err := db.RenameTable(s.Table, action.NewName); err != nil {
			return nil, err
		}
	case *ast.RenameColumnAction:
		if err := t.RenameColumn(action.OldName, action.NewName); err != nil {
			return nil, err
		}
	default:
		return nil, errs.New(errs.Syntax, "unsupported ALTER TABLE action %T", action)
	}
	return NewResult("ALTER TABLE"), nil
}

// columnReferencedByCheck reports whether name appears in any table-level
// CHECK constraint or any column's own CHECK expression, per the resolved
// Open Question that DROP COLUMN on such a column is rejected.
func columnReferencedByCheck(t *catalog.Table, name string) bool {
	for _, c := range t.Columns {
		if c.Check != nil && exprReferencesColumn(c.Check, name) {
			return true
		}
	}
	for _, c := range t.Constraints {
		if c.Kind == ast.ConstraintCheck && exprReferencesColumn(c.Check, name) {
			return true
		}
	}
	return false
}

func exprReferencesColumn(expr ast.Expr, name string) bool {
	switch e := expr.(type) {
	case *ast.ColumnRef:
		return e.Column == name
	case *ast.BinaryExpr:
		return exprReferencesColumn(e.Left, name) || exprReferencesColumn(e.Right, name)
	case *ast.UnaryExpr:
		return exprReferencesColumn(e.Operand, name)
	case *ast.ParenExpr:
		return exprReferencesColumn(e.Expr, name)
	case *ast.FunctionCall:
		for _, a := range e.Args {
			if exprReferencesColumn(a, name) {
				return true
			}
		}
		return false
	case *ast.CastExpr:
		return exprReferencesColumn(e.Expr, name)
	case *ast.IsNullExpr:
		return exprReferencesColumn(e.Left, name)
	case *ast.BetweenExpr:
		return exprReferencesColumn(e.Left, name) || exprReferencesColumn(e.Low, name) || exprReferencesColumn(e.High, name)
	case *ast.LikeExpr:
		return exprReferencesColumn(e.Left, name) || exprReferencesColumn(e.Pattern, name)
	case *ast.InExpr:
		if exprReferencesColumn(e.Left, name) {
			return true
		}
		for _, v := range e.Values {
			if exprReferencesColumn(v, name) {
				return true
			}
		}
		return false
	case *ast.CaseExpr:
		if e.Operand != nil && exprReferencesColumn(e.Operand, name) {
			return true
		}
		for _, w := range e.Whens {
			if exprReferencesColumn(w.Condition, name) || exprReferencesColumn(w.Result, name) {
				return true
			}
		}
		return e.Else != nil && exprReferencesColumn(e.Else, name)
	default:
		return false
	}
}

func (ex *Executor) execCreateView(s *ast.CreateViewStmt) (*Result, error) {
	db, err := ex.session.CurrentDatabase()
	if err != nil {
		return nil, err
	}
	if s.Materialized {
		columns, rows, err := ex.runSelectChain(s.Query, nil)
		if err != nil {
			return nil, err
		}
		mv := catalog.NewMaterializedView(s.Name, s.Query, columns, rows)
		if err := db.CreateMaterializedView(mv, s.IfNotExists); err != nil {
			return nil, err
		}
		return NewResult("CREATE MATERIALIZED VIEW"), nil
	}
	v := &catalog.View{Name: s.Name, Query: s.Query}
	if err := db.CreateView(v, s.IfNotExists); err != nil {
		return nil, err
	}
	return NewResult("CREATE VIEW"), nil
}

func (ex *Executor) execDropView(s *ast.DropViewStmt) (*Result, error) {
	db, err := ex.session.CurrentDatabase()
	if err != nil {
		return nil, err
	}
	if s.Materialized {
		if err := db.DropMaterializedView(s.Name, s.IfExists); err != nil {
			return nil, err
		}
		return NewResult("DROP MATERIALIZED VIEW"), nil
	}
	if err := db.DropView(s.Name, s.IfExists); err != nil {
		return nil, err
	}
	return NewResult("DROP VIEW"), nil
}

func (ex *Executor) execRefreshMaterializedView(s *ast.RefreshMaterializedViewStmt) (*Result, error) {
	db, err := ex.session.CurrentDatabase()
	if err != nil {
		return nil, err
	}
	mv, ok := db.GetMaterializedView(s.Name)
	if !ok {
		return nil, errs.New(errs.State, "materialized view %q does not exist", s.Name)
	}
	columns, rows, err := ex.runSelectChain(mv.Query, nil)
	if err != nil {
		return nil, err
	}
	mv.Refresh(columns, rows)
	return NewResult("REFRESH MATERIALIZED VIEW"), nil
}
