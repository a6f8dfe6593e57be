package catalog

import (
	"github.com/relcore/relcore/pkg/ast"
	"github.com/relcore/relcore/pkg/errs"
	"github.com/relcore/relcore/pkg/types"
)

// BuildTable resolves a parsed CREATE TABLE statement into a catalog Table.
// It does not touch the database's table map; callers register the result
// via Database.CreateTable.
func BuildTable(stmt *ast.CreateTableStmt) (*Table, error) {
	columns := make([]Column, 0, len(stmt.Columns))
	var constraints []Constraint

	for _, cd := range stmt.Columns {
		tn, ok := types.TypeFromName(cd.Type.Name)
		if !ok {
			return nil, errs.New(errs.Type, "unknown column type %q", cd.Type.Name)
		}
		col := Column{
			Name:     cd.Name,
			Type:     types.ColumnType{Name: tn, Length: cd.Type.Length},
			Nullable: true,
		}
		for _, cc := range cd.Constraints {
			switch cc.Type {
			case ast.ConstraintPrimaryKey:
				col.Nullable = false
				constraints = append(constraints, Constraint{
					Kind:    ast.ConstraintPrimaryKey,
					Columns: []string{cd.Name},
				})
			case ast.ConstraintNotNull:
				col.Nullable = false
			case ast.ConstraintUnique:
				constraints = append(constraints, Constraint{
					Kind:    ast.ConstraintUnique,
					Columns: []string{cd.Name},
				})
			case ast.ConstraintDefault:
				col.Default = cc.Default
			case ast.ConstraintCheck:
				col.Check = cc.Check
			}
		}
		columns = append(columns, col)
	}

	for _, tc := range stmt.Constraints {
		switch tc.Type {
		case ast.ConstraintPrimaryKey:
			for _, name := range tc.Columns {
				if i := indexOfColumn(columns, name); i >= 0 {
					columns[i].Nullable = false
				}
			}
			constraints = append(constraints, Constraint{Kind: ast.ConstraintPrimaryKey, Columns: tc.Columns})
		case ast.ConstraintUnique:
			constraints = append(constraints, Constraint{Kind: ast.ConstraintUnique, Columns: tc.Columns})
		case ast.ConstraintCheck:
			constraints = append(constraints, Constraint{Kind: ast.ConstraintCheck, Check: tc.Check})
		}
	}

	return NewTable(stmt.Name, columns, constraints), nil
}

func indexOfColumn(cols []Column, name string) int {
	for i, c := range cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// BuildColumn resolves a single ALTER TABLE ADD COLUMN definition into a
// Column: type, NOT NULL, DEFAULT and CHECK as BuildTable resolves them.
// It returns no table constraints, so a column-level UNIQUE is dropped and
// PRIMARY KEY only makes the column NOT NULL.
func BuildColumn(cd ast.ColumnDef) (Column, error) {
	tn, ok := types.TypeFromName(cd.Type.Name)
	if !ok {
		return Column{}, errs.New(errs.Type, "unknown column type %q", cd.Type.Name)
	}
	col := Column{
		Name:     cd.Name,
		Type:     types.ColumnType{Name: tn, Length: cd.Type.Length},
		Nullable: true,
	}
	for _, cc := range cd.Constraints {
		switch cc.Type {
		case ast.ConstraintPrimaryKey, ast.ConstraintNotNull:
			col.Nullable = false
		case ast.ConstraintDefault:
			col.Default = cc.Default
		case ast.ConstraintCheck:
			col.Check = cc.Check
		}
	}
	return col, nil
}
