package ast

import (
	"fmt"
	"strings"

	"github.com/relcore/relcore/pkg/lexer"
)

// Format renders a parsed statement back to canonical SQL text. The output
// is not meant to preserve the source's whitespace or comments; it is meant
// to re-parse to a tree equal to the one it was rendered from, which is what
// the parser's round-trip tests check.
func Format(s Statement) string {
	switch st := s.(type) {
	case *CreateDatabaseStmt:
		var b strings.Builder
		b.WriteString("CREATE DATABASE ")
		if st.IfNotExists {
			b.WriteString("IF NOT EXISTS ")
		}
		b.WriteString(st.Name)
		return b.String()
	case *DropDatabaseStmt:
		var b strings.Builder
		b.WriteString("DROP DATABASE ")
		if st.IfExists {
			b.WriteString("IF EXISTS ")
		}
		b.WriteString(st.Name)
		return b.String()
	case *UseStmt:
		return "USE " + st.Name
	case *CreateTableStmt:
		return formatCreateTable(st)
	case *DropTableStmt:
		var b strings.Builder
		b.WriteString("DROP TABLE ")
		if st.IfExists {
			b.WriteString("IF EXISTS ")
		}
		b.WriteString(strings.Join(st.Names, ", "))
		return b.String()
	case *AlterTableStmt:
		return formatAlterTable(st)
	case *CreateViewStmt:
		var b strings.Builder
		b.WriteString("CREATE ")
		if st.Materialized {
			b.WriteString("MATERIALIZED ")
		}
		b.WriteString("VIEW ")
		if st.IfNotExists {
			b.WriteString("IF NOT EXISTS ")
		}
		b.WriteString(st.Name + " AS " + formatSelect(st.Query))
		return b.String()
	case *DropViewStmt:
		var b strings.Builder
		b.WriteString("DROP ")
		if st.Materialized {
			b.WriteString("MATERIALIZED ")
		}
		b.WriteString("VIEW ")
		if st.IfExists {
			b.WriteString("IF EXISTS ")
		}
		b.WriteString(st.Name)
		return b.String()
	case *RefreshMaterializedViewStmt:
		return "REFRESH MATERIALIZED VIEW " + st.Name
	case *InsertStmt:
		return formatInsert(st)
	case *UpdateStmt:
		return formatUpdate(st)
	case *DeleteStmt:
		var b strings.Builder
		b.WriteString("DELETE FROM " + st.Table)
		if st.Where != nil {
			b.WriteString(" WHERE " + FormatExpr(st.Where))
		}
		if st.Returning {
			b.WriteString(" RETURNING *")
		}
		return b.String()
	case *SelectStmt:
		return formatSelect(st)
	}
	return fmt.Sprintf("/* unprintable statement %T */", s)
}

func formatCreateTable(st *CreateTableStmt) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	if st.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(st.Name + " (")
	var items []string
	for _, col := range st.Columns {
		items = append(items, formatColumnDef(col))
	}
	for _, tc := range st.Constraints {
		items = append(items, formatTableConstraint(tc))
	}
	b.WriteString(strings.Join(items, ", "))
	b.WriteString(")")
	return b.String()
}

func formatColumnDef(col ColumnDef) string {
	var b strings.Builder
	b.WriteString(col.Name + " " + formatDataType(col.Type))
	for _, c := range col.Constraints {
		switch c.Type {
		case ConstraintPrimaryKey:
			b.WriteString(" PRIMARY KEY")
		case ConstraintNotNull:
			b.WriteString(" NOT NULL")
		case ConstraintUnique:
			b.WriteString(" UNIQUE")
		case ConstraintDefault:
			b.WriteString(" DEFAULT " + FormatExpr(c.Default))
		case ConstraintCheck:
			b.WriteString(" CHECK (" + FormatExpr(c.Check) + ")")
		}
	}
	return b.String()
}

func formatTableConstraint(tc TableConstraint) string {
	switch tc.Type {
	case ConstraintPrimaryKey:
		return "PRIMARY KEY (" + strings.Join(tc.Columns, ", ") + ")"
	case ConstraintUnique:
		return "UNIQUE (" + strings.Join(tc.Columns, ", ") + ")"
	case ConstraintCheck:
		return "CHECK (" + FormatExpr(tc.Check) + ")"
	}
	return ""
}

func formatAlterTable(st *AlterTableStmt) string {
	prefix := "ALTER TABLE " + st.Table + " "
	switch a := st.Action.(type) {
	case *AddColumnAction:
		return prefix + "ADD COLUMN " + formatColumnDef(a.Column)
	case *DropColumnAction:
		return prefix + "DROP COLUMN " + a.Column
	case *AddConstraintAction:
		return prefix + "ADD " + formatTableConstraint(a.Constraint)
	case *DropConstraintAction:
		if a.ConstraintType == ConstraintPrimaryKey {
			return prefix + "DROP CONSTRAINT PRIMARY KEY"
		}
		return prefix + "DROP CONSTRAINT UNIQUE (" + strings.Join(a.Columns, ", ") + ")"
	case *RenameTableAction:
		return prefix + "RENAME TO " + a.NewName
	case *RenameColumnAction:
		return prefix + "RENAME COLUMN " + a.OldName + " TO " + a.NewName
	}
	return prefix
}

func formatInsert(st *InsertStmt) string {
	var b strings.Builder
	b.WriteString("INSERT INTO " + st.Table)
	if len(st.Columns) > 0 {
		b.WriteString(" (" + strings.Join(st.Columns, ", ") + ")")
	}
	b.WriteString(" VALUES ")
	for i, row := range st.Values {
		if i > 0 {
			b.WriteString(", ")
		}
		vals := make([]string, len(row))
		for j, e := range row {
			if e == nil {
				vals[j] = "DEFAULT"
			} else {
				vals[j] = FormatExpr(e)
			}
		}
		b.WriteString("(" + strings.Join(vals, ", ") + ")")
	}
	if oc := st.OnConflict; oc != nil {
		b.WriteString(" ON CONFLICT")
		if len(oc.Columns) > 0 {
			b.WriteString(" (" + strings.Join(oc.Columns, ", ") + ")")
		}
		if oc.DoNothing {
			b.WriteString(" DO NOTHING")
		} else {
			b.WriteString(" DO UPDATE SET " + formatAssignments(oc.DoUpdate))
		}
	}
	if st.Returning {
		b.WriteString(" RETURNING *")
	}
	return b.String()
}

func formatUpdate(st *UpdateStmt) string {
	var b strings.Builder
	b.WriteString("UPDATE " + st.Table + " SET " + formatAssignments(st.Set))
	if st.Where != nil {
		b.WriteString(" WHERE " + FormatExpr(st.Where))
	}
	if st.Returning {
		b.WriteString(" RETURNING *")
	}
	return b.String()
}

func formatAssignments(assigns []Assignment) string {
	parts := make([]string, len(assigns))
	for i, a := range assigns {
		parts[i] = a.Column + " = " + FormatExpr(a.Value)
	}
	return strings.Join(parts, ", ")
}

func formatSelect(s *SelectStmt) string {
	var b strings.Builder
	if s.With != nil {
		b.WriteString("WITH ")
		for i, cte := range s.With.CTEs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(cte.Name)
			if len(cte.Columns) > 0 {
				b.WriteString(" (" + strings.Join(cte.Columns, ", ") + ")")
			}
			b.WriteString(" AS (" + formatSelect(cte.Query) + ")")
		}
		b.WriteString(" ")
	}
	b.WriteString(formatSelectCore(s))
	for _, c := range s.Compound {
		b.WriteString(" " + c.Op.String() + " " + formatSelectCore(c.Select))
	}
	if len(s.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, item := range s.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(FormatExpr(item.Expr))
			if item.Desc {
				b.WriteString(" DESC")
			}
		}
	}
	if s.Limit != nil {
		b.WriteString(" LIMIT " + FormatExpr(s.Limit))
	}
	if s.Offset != nil {
		b.WriteString(" OFFSET " + FormatExpr(s.Offset))
	}
	return b.String()
}

func formatSelectCore(s *SelectStmt) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if s.Distinct {
		b.WriteString("DISTINCT ")
	}
	for i, col := range s.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		if col.Star {
			b.WriteString("*")
			continue
		}
		b.WriteString(FormatExpr(col.Expr))
		if col.Alias != "" {
			b.WriteString(" AS " + col.Alias)
		}
	}
	if s.From != nil {
		b.WriteString(" FROM ")
		if s.From.Subquery != nil {
			b.WriteString("(" + formatSelect(s.From.Subquery) + ") AS " + s.From.Alias)
		} else {
			b.WriteString(s.From.Name)
			if s.From.Alias != "" {
				b.WriteString(" AS " + s.From.Alias)
			}
		}
	}
	if s.Where != nil {
		b.WriteString(" WHERE " + FormatExpr(s.Where))
	}
	if len(s.GroupBy) > 0 {
		keys := make([]string, len(s.GroupBy))
		for i, k := range s.GroupBy {
			keys[i] = FormatExpr(k)
		}
		b.WriteString(" GROUP BY " + strings.Join(keys, ", "))
	}
	if s.Having != nil {
		b.WriteString(" HAVING " + FormatExpr(s.Having))
	}
	return b.String()
}

// FormatExpr renders an expression back to SQL text. Parenthesization in the
// source survives as ParenExpr nodes, so operator trees print flat and still
// re-parse to the same shape under the parser's precedence ladder.
func FormatExpr(e Expr) string {
	switch x := e.(type) {
	case *LiteralExpr:
		if x.Type == lexer.TokenString {
			return "'" + strings.ReplaceAll(x.Value, "'", "''") + "'"
		}
		return x.Value
	case *ColumnRef:
		if x.Table != "" {
			return x.Table + "." + x.Column
		}
		return x.Column
	case *StarExpr:
		return "*"
	case *BinaryExpr:
		return FormatExpr(x.Left) + " " + x.Op.String() + " " + FormatExpr(x.Right)
	case *UnaryExpr:
		if x.Op == lexer.TokenNOT {
			return "NOT " + FormatExpr(x.Operand)
		}
		// The space keeps a doubled sign from lexing as a comment.
		return x.Op.String() + " " + FormatExpr(x.Operand)
	case *ParenExpr:
		return "(" + FormatExpr(x.Expr) + ")"
	case *FunctionCall:
		if x.Star {
			return x.Name + "(*)"
		}
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = FormatExpr(a)
		}
		return x.Name + "(" + strings.Join(args, ", ") + ")"
	case *SubqueryExpr:
		return "(" + formatSelect(x.Query) + ")"
	case *CaseExpr:
		var b strings.Builder
		b.WriteString("CASE")
		if x.Operand != nil {
			b.WriteString(" " + FormatExpr(x.Operand))
		}
		for _, w := range x.Whens {
			b.WriteString(" WHEN " + FormatExpr(w.Condition) + " THEN " + FormatExpr(w.Result))
		}
		if x.Else != nil {
			b.WriteString(" ELSE " + FormatExpr(x.Else))
		}
		b.WriteString(" END")
		return b.String()
	case *InExpr:
		var b strings.Builder
		b.WriteString(FormatExpr(x.Left))
		if x.Not {
			b.WriteString(" NOT")
		}
		b.WriteString(" IN (")
		if x.Subquery != nil {
			b.WriteString(formatSelect(x.Subquery))
		} else {
			vals := make([]string, len(x.Values))
			for i, v := range x.Values {
				vals[i] = FormatExpr(v)
			}
			b.WriteString(strings.Join(vals, ", "))
		}
		b.WriteString(")")
		return b.String()
	case *BetweenExpr:
		var b strings.Builder
		b.WriteString(FormatExpr(x.Left))
		if x.Not {
			b.WriteString(" NOT")
		}
		b.WriteString(" BETWEEN " + FormatExpr(x.Low) + " AND " + FormatExpr(x.High))
		return b.String()
	case *LikeExpr:
		op := "LIKE"
		if x.CaseInsensitive {
			op = "ILIKE"
		}
		if x.Not {
			op = "NOT " + op
		}
		return FormatExpr(x.Left) + " " + op + " " + FormatExpr(x.Pattern)
	case *IsNullExpr:
		if x.Not {
			return FormatExpr(x.Left) + " IS NOT NULL"
		}
		return FormatExpr(x.Left) + " IS NULL"
	case *CastExpr:
		return "CAST(" + FormatExpr(x.Expr) + " AS " + formatDataType(x.Type) + ")"
	case *ExtractExpr:
		return "EXTRACT(" + x.Field + " FROM " + FormatExpr(x.Source) + ")"
	}
	return "?column?"
}

func formatDataType(dt DataType) string {
	if dt.Length > 0 {
		return fmt.Sprintf("%s(%d)", dt.Name, dt.Length)
	}
	return dt.Name
}
