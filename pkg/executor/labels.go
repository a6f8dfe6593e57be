package executor

import (
	"strings"

	"github.com/relcore/relcore/pkg/ast"
)

// columnLabel derives an output column name for a SELECT item: explicit
// AS alias wins, then (for a bare column reference) the source column name,
// then the canonical text of the expression — spec.md §4.5 step 7.
func columnLabel(col ast.SelectColumn) string {
	if col.Alias != "" {
		return col.Alias
	}
	if ref, ok := col.Expr.(*ast.ColumnRef); ok {
		return ref.Column
	}
	return ast.FormatExpr(col.Expr)
}

// exprEqual reports whether two expressions are structurally identical,
// used to test a select-list/HAVING expression against the GROUP BY key
// list (spec.md §4.5 step 4).
func exprEqual(a, b ast.Expr) bool {
	switch x := a.(type) {
	case *ast.ColumnRef:
		y, ok := b.(*ast.ColumnRef)
		return ok && x.Table == y.Table && x.Column == y.Column
	case *ast.LiteralExpr:
		y, ok := b.(*ast.LiteralExpr)
		return ok && x.Type == y.Type && x.Value == y.Value
	case *ast.BinaryExpr:
		y, ok := b.(*ast.BinaryExpr)
		return ok && x.Op == y.Op && exprEqual(x.Left, y.Left) && exprEqual(x.Right, y.Right)
	case *ast.UnaryExpr:
		y, ok := b.(*ast.UnaryExpr)
		return ok && x.Op == y.Op && exprEqual(x.Operand, y.Operand)
	case *ast.ParenExpr:
		y, ok := b.(*ast.ParenExpr)
		return ok && exprEqual(x.Expr, y.Expr)
	case *ast.FunctionCall:
		y, ok := b.(*ast.FunctionCall)
		if !ok || !strings.EqualFold(x.Name, y.Name) || x.Star != y.Star || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !exprEqual(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *ast.CastExpr:
		y, ok := b.(*ast.CastExpr)
		return ok && x.Type == y.Type && exprEqual(x.Expr, y.Expr)
	case *ast.ExtractExpr:
		y, ok := b.(*ast.ExtractExpr)
		return ok && x.Field == y.Field && exprEqual(x.Source, y.Source)
	default:
		return false
	}
}

func exprMatchesAny(expr ast.Expr, keys []ast.Expr) bool {
	for _, k := range keys {
		if exprEqual(expr, k) {
			return true
		}
	}
	return false
}
