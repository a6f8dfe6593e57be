package executor

import (
	"sort"

	"github.com/relcore/relcore/pkg/ast"
	"github.com/relcore/relcore/pkg/evaluator"
	"github.com/relcore/relcore/pkg/types"
)

// orderRows stable-sorts rows by the ORDER BY key list, evaluated against
// each row's own environment. NULLs sort LAST under ASC and FIRST under
// DESC (the resolved Open Question), independent of key direction for
// everything else.
func orderRows(rows [][]types.Value, columns []string, alias string, items []ast.OrderByItem, runner evaluator.QueryRunner) ([][]types.Value, error) {
	if len(items) == 0 {
		return rows, nil
	}

	keys := make([][]types.Value, len(rows))
	for i, row := range rows {
		env := evaluator.NewEnv(columns, row, alias)
		env.Runner = runner
		key := make([]types.Value, len(items))
		for j, item := range items {
			v, err := evaluator.Eval(item.Expr, env)
			if err != nil {
				return nil, err
			}
			key[j] = v
		}
		keys[i] = key
	}

	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		for j, item := range items {
			less, eq := compareOrderKey(ka[j], kb[j], item.Desc)
			if eq {
				continue
			}
			return less
		}
		return false
	})

	out := make([][]types.Value, len(rows))
	for i, j := range idx {
		out[i] = rows[j]
	}
	return out, nil
}

// compareOrderKey reports (less, equal) for one ORDER BY key pair. NULL
// sorts after every non-NULL value under ASC, and before every non-NULL
// value under DESC.
func compareOrderKey(a, b types.Value, desc bool) (less bool, equal bool) {
	if a.IsNull() && b.IsNull() {
		return false, true
	}
	if a.IsNull() {
		return desc, false
	}
	if b.IsNull() {
		return !desc, false
	}
	cmp := compareValues(a, b)
	if cmp == 0 {
		return false, true
	}
	lt := cmp < 0
	if desc {
		lt = !lt
	}
	return lt, false
}

func compareValues(a, b types.Value) int {
	if a.IsNumeric() && b.IsNumeric() {
		af, bf := a.Float64(), b.Float64()
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, bs := a.String(), b.String()
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}
