// Package frame provides the in-memory tabular frame used for workbook
// exchange: a table with a row index and a flat or two-level column index.
package frame

import (
	"math"

	"github.com/tiendc/go-deepcopy"
)

// Column identifies one column of a frame. Top is the scenario-level label
// of a two-level column index; flat frames leave Top empty.
type Column struct {
	Top  string
	Name string
}

// Frame is a table with labelled rows and columns. Data is stored
// column-major so that scenario blocks can be sliced without copying rows.
type Frame struct {
	index []string
	cols  []Column
	data  [][]any
}

// New creates a frame with the given row index and columns. All cells start
// as nil.
func New(index []string, cols []Column) *Frame {
	data := make([][]any, len(cols))
	for i := range data {
		data[i] = make([]any, len(index))
	}
	return &Frame{index: index, cols: cols, data: data}
}

// Index returns the row labels.
func (f *Frame) Index() []string {
	return f.index
}

// Columns returns the column index.
func (f *Frame) Columns() []Column {
	return f.cols
}

// NumRows returns the number of data rows.
func (f *Frame) NumRows() int {
	return len(f.index)
}

// NumCols returns the number of columns.
func (f *Frame) NumCols() int {
	return len(f.cols)
}

// Empty reports whether the frame carries no data cells.
func (f *Frame) Empty() bool {
	return f == nil || len(f.cols) == 0 || len(f.index) == 0
}

// Hierarchical reports whether the column index has a scenario level.
func (f *Frame) Hierarchical() bool {
	for _, c := range f.cols {
		if c.Top != "" {
			return true
		}
	}
	return false
}

// Cell returns the value at (row, col). Out-of-range access returns nil.
func (f *Frame) Cell(row, col int) any {
	if col < 0 || col >= len(f.data) || row < 0 || row >= len(f.index) {
		return nil
	}
	return f.data[col][row]
}

// SetCell stores a value at (row, col). Out-of-range positions are ignored.
func (f *Frame) SetCell(row, col int, v any) {
	if col < 0 || col >= len(f.data) || row < 0 || row >= len(f.index) {
		return
	}
	f.data[col][row] = v
}

// At looks up a cell by row label and column name. The first matching row
// and column win. Returns nil when either label is absent.
func (f *Frame) At(rowLabel, colName string) any {
	r := f.rowPos(rowLabel)
	if r < 0 {
		return nil
	}
	for c, col := range f.cols {
		if col.Name == colName {
			return f.data[c][r]
		}
	}
	return nil
}

func (f *Frame) rowPos(label string) int {
	for i, l := range f.index {
		if l == label {
			return i
		}
	}
	return -1
}

// ColumnValues returns the values of one column in row order.
func (f *Frame) ColumnValues(col int) []any {
	if col < 0 || col >= len(f.data) {
		return nil
	}
	return f.data[col]
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	if f == nil {
		return nil
	}
	out := &Frame{}
	if err := deepcopy.Copy(&out.index, &f.index); err != nil {
		out.index = append([]string(nil), f.index...)
	}
	if err := deepcopy.Copy(&out.cols, &f.cols); err != nil {
		out.cols = append([]Column(nil), f.cols...)
	}
	out.data = make([][]any, len(f.data))
	for i, col := range f.data {
		out.data[i] = append([]any(nil), col...)
	}
	return out
}

// IsMissing reports whether a cell value represents an absent value: nil,
// the empty string, or a floating-point NaN.
func IsMissing(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case float64:
		return math.IsNaN(t)
	case float32:
		return math.IsNaN(float64(t))
	}
	return false
}

// AppendRow adds a labelled row of nil cells and returns its position.
func (f *Frame) AppendRow(label string) int {
	f.index = append(f.index, label)
	for c := range f.data {
		f.data[c] = append(f.data[c], nil)
	}
	return len(f.index) - 1
}

// ReorderRows returns a frame whose rows follow the preferred label order.
// Preferred labels absent from the frame are skipped; remaining rows keep
// their encounter order after the preferred ones.
func (f *Frame) ReorderRows(preferred []string) *Frame {
	taken := make(map[int]bool, len(f.index))
	var order []int
	for _, want := range preferred {
		for i, label := range f.index {
			if !taken[i] && label == want {
				order = append(order, i)
				taken[i] = true
				break
			}
		}
	}
	for i := range f.index {
		if !taken[i] {
			order = append(order, i)
		}
	}

	out := New(make([]string, len(order)), append([]Column(nil), f.cols...))
	for newRow, oldRow := range order {
		out.index[newRow] = f.index[oldRow]
		for c := range f.cols {
			out.data[c][newRow] = f.data[c][oldRow]
		}
	}
	return out
}
