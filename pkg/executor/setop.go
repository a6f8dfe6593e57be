package executor

import (
	"github.com/relcore/relcore/pkg/ast"
	"github.com/relcore/relcore/pkg/errs"
	"github.com/relcore/relcore/pkg/types"
)

// combineSetOp applies one UNION/UNION ALL/INTERSECT/EXCEPT link against an
// already-computed left-hand result, per spec.md §4.5 step 9. Both sides
// must have the same column count; mismatched arity is a cardinality
// error, not silently truncated.
func combineSetOp(op ast.SetOpType, left, right [][]types.Value, leftCols, rightCols []string) ([][]types.Value, error) {
	if len(leftCols) != len(rightCols) {
		return nil, errs.New(errs.Cardinality, "set operation operands must have the same number of columns (%d vs %d)", len(leftCols), len(rightCols))
	}

	switch op {
	case ast.SetOpUnionAll:
		out := make([][]types.Value, 0, len(left)+len(right))
		out = append(out, left...)
		out = append(out, right...)
		return out, nil
	case ast.SetOpUnion:
		out := make([][]types.Value, 0, len(left)+len(right))
		out = append(out, left...)
		out = append(out, right...)
		return dedupeRows(out), nil
	case ast.SetOpIntersect:
		rightSet := make(map[string]struct{}, len(right))
		for _, row := range right {
			rightSet[rowKey(row)] = struct{}{}
		}
		var out [][]types.Value
		for _, row := range dedupeRows(left) {
			if _, ok := rightSet[rowKey(row)]; ok {
				out = append(out, row)
			}
		}
		return out, nil
	case ast.SetOpExcept:
		rightSet := make(map[string]struct{}, len(right))
		for _, row := range right {
			rightSet[rowKey(row)] = struct{}{}
		}
		var out [][]types.Value
		for _, row := range dedupeRows(left) {
			if _, ok := rightSet[rowKey(row)]; !ok {
				out = append(out, row)
			}
		}
		return out, nil
	default:
		return nil, errs.New(errs.Syntax, "unsupported set operation %s", op)
	}
}
