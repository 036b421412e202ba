// Package layout maps a screen's layout keyword to a column grid.
package layout

// Layout keywords emitted by the describer.
const (
	SingleColumn = "single-column"
	TwoColumn    = "two-column"
	ThreeColumn  = "three-column"
)

// Gutter is the number of blank cells between grid columns.
const Gutter = 2

// MinColumnWidth is the narrowest column the grid will produce. Narrow
// canvases collapse to fewer columns instead of going below it.
const MinColumnWidth = 16

var columns = map[string]int{
	SingleColumn: 1,
	TwoColumn:    2,
	ThreeColumn:  3,
}

// Resolve returns the column count for a layout keyword. Unrecognized
// keywords resolve like single-column.
func Resolve(keyword string) int {
	if n, ok := columns[keyword]; ok {
		return n
	}
	return columns[SingleColumn]
}

// Keywords lists the recognized layout keywords from narrowest to widest.
func Keywords() []string {
	return []string{SingleColumn, TwoColumn, ThreeColumn}
}

// Arrange splits n items, in order, into rows of at most cols entries.
// Each row holds item indexes.
func Arrange(n, cols int) [][]int {
	if cols < 1 {
		cols = 1
	}
	var rows [][]int
	for start := 0; start < n; start += cols {
		end := start + cols
		if end > n {
			end = n
		}
		row := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			row = append(row, i)
		}
		rows = append(rows, row)
	}
	return rows
}

// Fit returns how many of the requested columns fit into width, never less
// than one.
func Fit(width, cols int) int {
	for cols > 1 && ColumnWidth(width, cols) < MinColumnWidth {
		cols--
	}
	if cols < 1 {
		return 1
	}
	return cols
}

// ColumnWidth splits width into cols equal columns separated by Gutter.
func ColumnWidth(width, cols int) int {
	if cols < 1 {
		cols = 1
	}
	w := (width - Gutter*(cols-1)) / cols
	if w < 1 {
		return 1
	}
	return w
}

// ColumnOffset returns the x offset of column col.
func ColumnOffset(width, cols, col int) int {
	return col * (ColumnWidth(width, cols) + Gutter)
}
