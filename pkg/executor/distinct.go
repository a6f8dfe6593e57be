package executor

import (
	"fmt"
	"strings"

	"github.com/relcore/relcore/pkg/types"
)

// dedupeRows removes duplicate output tuples, in first-occurrence order.
// Two NULLs are treated as equal here (DISTINCT's tuple-equality rule),
// unlike UNIQUE constraint checking where NULLs never equal each other.
func dedupeRows(rows [][]types.Value) [][]types.Value {
	seen := make(map[string]struct{}, len(rows))
	out := make([][]types.Value, 0, len(rows))
	for _, row := range rows {
		key := rowKey(row)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}
	return out
}

func rowKey(row []types.Value) string {
	var b strings.Builder
	for _, v := range row {
		fmt.Fprintf(&b, "%v\x00%T\x00", v.HashKey(), v.HashKey())
	}
	return b.String()
}
