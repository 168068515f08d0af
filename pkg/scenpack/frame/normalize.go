package frame

import (
	"strconv"
	"strings"
)

// NormalizeSingleHeader turns a raw sheet block into a flat frame. Fully
// blank rows are dropped, the first remaining row becomes the header, and
// the rest become data. Columns whose trimmed header is blank (when
// dropEmpty is set) or case-insensitively matches a helper name are
// removed. With resetIndex the row index becomes "0".."k-1"; otherwise the
// original data-row positions within the block are kept.
func NormalizeSingleHeader(block [][]string, helpers []string, dropEmpty, resetIndex bool) *Frame {
	rows := dropBlankRows(block)
	if len(rows) == 0 {
		return New(nil, nil)
	}

	header := rows[0].cells
	data := rows[1:]

	var cols []Column
	var keep []int
	for c, width := 0, widest(rows); c < width; c++ {
		name := strings.TrimSpace(cellAt(header, c))
		if name == "" && dropEmpty {
			continue
		}
		if isHelper(name, helpers) {
			continue
		}
		cols = append(cols, Column{Name: name})
		keep = append(keep, c)
	}

	return sliceData(data, cols, keep, resetIndex)
}

// NormalizeTwoHeader turns a raw sheet block into a frame with a two-level
// column index. Fully blank rows and fully blank columns are dropped, the
// first two remaining rows become the top and bottom header levels, and
// the rest become data. helpersByLevel and dropEmptyByLevel apply the
// single-header column filters per level.
func NormalizeTwoHeader(block [][]string, helpersByLevel [2][]string, dropEmptyByLevel [2]bool, resetIndex bool) *Frame {
	rows := dropBlankRows(block)
	if len(rows) == 0 {
		return New(nil, nil)
	}

	blankCols := fullyBlankColumns(rows)
	if len(rows) < 2 {
		return New(nil, nil)
	}

	top := rows[0].cells
	sub := rows[1].cells
	data := rows[2:]

	var cols []Column
	var keep []int
	for c, width := 0, widest(rows); c < width; c++ {
		if blankCols[c] {
			continue
		}
		topName := strings.TrimSpace(cellAt(top, c))
		subName := strings.TrimSpace(cellAt(sub, c))
		if topName == "" && dropEmptyByLevel[0] {
			continue
		}
		if subName == "" && dropEmptyByLevel[1] {
			continue
		}
		if isHelper(topName, helpersByLevel[0]) || isHelper(subName, helpersByLevel[1]) {
			continue
		}
		cols = append(cols, Column{Top: topName, Name: subName})
		keep = append(keep, c)
	}

	return sliceData(data, cols, keep, resetIndex)
}

// numberedRow pairs a raw row with its position in the original block.
type numberedRow struct {
	pos   int
	cells []string
}

func dropBlankRows(block [][]string) []numberedRow {
	var rows []numberedRow
	for i, row := range block {
		if !blankRow(row) {
			rows = append(rows, numberedRow{pos: i, cells: row})
		}
	}
	return rows
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// fullyBlankColumns reports which column positions hold no value in any row.
func fullyBlankColumns(rows []numberedRow) map[int]bool {
	blank := make(map[int]bool)
	for c, width := 0, widest(rows); c < width; c++ {
		blank[c] = true
	}
	for _, row := range rows {
		for c, cell := range row.cells {
			if strings.TrimSpace(cell) != "" {
				blank[c] = false
			}
		}
	}
	return blank
}

func widest(rows []numberedRow) int {
	width := 0
	for _, row := range rows {
		if len(row.cells) > width {
			width = len(row.cells)
		}
	}
	return width
}

func cellAt(row []string, c int) string {
	if c < 0 || c >= len(row) {
		return ""
	}
	return row[c]
}

func isHelper(name string, helpers []string) bool {
	for _, h := range helpers {
		if strings.EqualFold(name, h) {
			return true
		}
	}
	return false
}

func sliceData(data []numberedRow, cols []Column, keep []int, resetIndex bool) *Frame {
	index := make([]string, len(data))
	for i, row := range data {
		if resetIndex {
			index[i] = strconv.Itoa(i)
		} else {
			index[i] = strconv.Itoa(row.pos)
		}
	}

	out := New(index, cols)
	for r, row := range data {
		for outCol, srcCol := range keep {
			out.data[outCol][r] = Coerce(cellAt(row.cells, srcCol))
		}
	}
	return out
}

// Coerce parses a raw cell string as a number where possible. Integers
// become int64, decimals float64; anything else stays a string.
func Coerce(s string) any {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
