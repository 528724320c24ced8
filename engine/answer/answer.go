// Package answer implements Answer, the executor's result: a set of
// column names parallel to the SELECT list and the rows of Values
// produced by evaluating it, with the composite stable sort ORDER BY
// needs and the tab-separated Display format spec §6/§4.7 describe.
package answer

import (
	"sort"
	"strings"

	"github.com/omniql-engine/queryengine/engine/query"
	"github.com/omniql-engine/queryengine/engine/value"
)

// Answer holds the executor's output: Columns parallel to the Query's
// SELECT list, and Rows of equal-length Value slices.
type Answer struct {
	Columns []string
	Rows    [][]value.Value
}

// OrderKey pairs a 0-based column index with the direction to sort it by.
type OrderKey struct {
	Index     int
	Direction query.SortDirection
}

// Sort applies the composite stable sort from spec §4.6 Stage D: for
// each key in reverse order, a stable sort on that column alone. Applying
// keys last-to-first, each stable, yields primary-key-first precedence
// with correct tie-breaking — equivalent to a single multi-key compare
// without needing to build one.
func (a *Answer) Sort(keys []OrderKey) {
	for i := len(keys) - 1; i >= 0; i-- {
		key := keys[i]
		sort.SliceStable(a.Rows, func(i, j int) bool {
			left, right := a.Rows[i][key.Index], a.Rows[j][key.Index]
			if key.Direction == query.Desc {
				return right.Less(left)
			}
			return left.Less(right)
		})
	}
}

// String renders a tab-separated header line followed by one
// tab-separated line per row, each newline-terminated.
func (a *Answer) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(a.Columns, "\t"))
	b.WriteByte('\n')

	for _, row := range a.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cell.String()
		}
		b.WriteString(strings.Join(cells, "\t"))
		b.WriteByte('\n')
	}

	return b.String()
}
