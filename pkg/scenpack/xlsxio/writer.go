package xlsxio

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/svandenberg/scenpack/pkg/scenpack/frame"
)

// Alternating scenario-block fill colors.
var blockFills = [2]string{"DCE6F1", "F2F2F2"}

// naFormula marks a missing numeric value in a way spreadsheet formulas
// recognise.
const naFormula = "NA()"

// naText is the inert textual marker used when formulas are disabled.
const naText = "NA"

// WriteSheet renders a frame into a named sheet of the workbook and
// returns the sheet index. An existing sheet with the same name is reused.
func WriteSheet(f *excelize.File, name string, fr *frame.Frame, opts SheetOptions) (int, error) {
	idx, err := f.NewSheet(name)
	if err != nil {
		return 0, err
	}

	headerRows := 1
	if fr.Hierarchical() {
		headerRows = 2
	}
	indexLevels := 0
	if opts.Index {
		indexLevels = 1
	}

	if err := validateWidths(fr, opts, indexLevels); err != nil {
		return 0, err
	}

	if err := writeHeaders(f, name, fr, opts, headerRows, indexLevels); err != nil {
		return 0, err
	}
	if err := writeData(f, name, fr, opts, headerRows, indexLevels); err != nil {
		return 0, err
	}
	if err := applyStyles(f, name, fr, opts, headerRows, indexLevels); err != nil {
		return 0, err
	}
	if err := applyWidths(f, name, fr, opts, indexLevels); err != nil {
		return 0, err
	}

	if opts.FreezePanes {
		cell, err := excelize.CoordinatesToCellName(indexLevels+1, headerRows+1)
		if err != nil {
			return 0, err
		}
		err = f.SetPanes(name, &excelize.Panes{
			Freeze:      true,
			XSplit:      indexLevels,
			YSplit:      headerRows,
			TopLeftCell: cell,
			ActivePane:  "bottomRight",
		})
		if err != nil {
			return 0, err
		}
	}
	return idx, nil
}

func validateWidths(fr *frame.Frame, opts SheetOptions, indexLevels int) error {
	if opts.ColumnWidths != nil && len(opts.ColumnWidths) != fr.NumCols() {
		return fmt.Errorf("column width list has %d entries for %d columns",
			len(opts.ColumnWidths), fr.NumCols())
	}
	if opts.IndexWidths != nil && len(opts.IndexWidths) != indexLevels {
		return fmt.Errorf("index width list has %d entries for %d index levels",
			len(opts.IndexWidths), indexLevels)
	}
	return nil
}

func writeHeaders(f *excelize.File, name string, fr *frame.Frame, opts SheetOptions, headerRows, indexLevels int) error {
	if indexLevels > 0 && opts.IndexName != "" {
		cell, _ := excelize.CoordinatesToCellName(1, headerRows)
		if err := f.SetCellValue(name, cell, opts.IndexName); err != nil {
			return err
		}
	}
	for c, col := range fr.Columns() {
		x := c + indexLevels + 1
		if headerRows == 2 {
			cell, _ := excelize.CoordinatesToCellName(x, 1)
			if err := f.SetCellValue(name, cell, col.Top); err != nil {
				return err
			}
		}
		cell, _ := excelize.CoordinatesToCellName(x, headerRows)
		if err := f.SetCellValue(name, cell, col.Name); err != nil {
			return err
		}
	}
	return nil
}

func writeData(f *excelize.File, name string, fr *frame.Frame, opts SheetOptions, headerRows, indexLevels int) error {
	for r, label := range fr.Index() {
		y := headerRows + r + 1
		if indexLevels > 0 {
			cell, _ := excelize.CoordinatesToCellName(1, y)
			if err := f.SetCellValue(name, cell, frame.Coerce(label)); err != nil {
				return err
			}
		}
		for c := 0; c < fr.NumCols(); c++ {
			cell, _ := excelize.CoordinatesToCellName(c+indexLevels+1, y)
			if err := writeCell(f, name, cell, fr.Cell(r, c), opts); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeCell writes one value, rendering missing values as an NA marker so
// the sheet stays rectangular and rounding numbers upward to the
// configured precision.
func writeCell(f *excelize.File, sheet, cell string, v any, opts SheetOptions) error {
	if frame.IsMissing(v) {
		if opts.NaNAsFormula {
			return f.SetCellFormula(sheet, cell, naFormula)
		}
		return f.SetCellValue(sheet, cell, naText)
	}
	switch t := v.(type) {
	case float64:
		return f.SetCellValue(sheet, cell, ceilTo(t, opts.DecimalPrecision))
	case float32:
		return f.SetCellValue(sheet, cell, ceilTo(float64(t), opts.DecimalPrecision))
	default:
		return f.SetCellValue(sheet, cell, v)
	}
}

// ceilTo rounds a value upward to the given number of decimal digits, so
// sub-precision floating noise never leaks into the sheet.
func ceilTo(v float64, digits int) float64 {
	if digits < 0 || math.IsInf(v, 0) {
		return v
	}
	scale := math.Pow(10, float64(digits))
	return math.Ceil(v*scale) / scale
}

func applyStyles(f *excelize.File, name string, fr *frame.Frame, opts SheetOptions, headerRows, indexLevels int) error {
	if !opts.BoldHeaders && !opts.ScenarioStyling {
		return nil
	}

	styles, err := newStyleSet(f, opts.BoldHeaders)
	if err != nil {
		return err
	}

	lastHeaderRow := headerRows
	lastDataRow := headerRows + fr.NumRows()

	if opts.BoldHeaders && indexLevels > 0 {
		if err := styleRange(f, name, 1, 1, indexLevels, lastHeaderRow, styles.header(-1)); err != nil {
			return err
		}
	}

	if !opts.ScenarioStyling {
		if !opts.BoldHeaders || fr.NumCols() == 0 {
			return nil
		}
		first := indexLevels + 1
		last := indexLevels + fr.NumCols()
		return styleRange(f, name, first, 1, last, lastHeaderRow, styles.header(-1))
	}

	for i, b := range styleBlocks(fr) {
		first := indexLevels + b.Start + 1
		last := indexLevels + b.End + 1
		fill := i % 2
		if err := styleRange(f, name, first, 1, last, lastHeaderRow, styles.header(fill)); err != nil {
			return err
		}
		if lastDataRow > lastHeaderRow {
			if err := styleRange(f, name, first, lastHeaderRow+1, last, lastDataRow, styles.data(fill)); err != nil {
				return err
			}
		}
	}
	return nil
}

// styleBlocks returns the column runs to alternate styles across: scenario
// blocks for hierarchical frames, individual columns otherwise.
func styleBlocks(fr *frame.Frame) []frame.Block {
	if fr.Hierarchical() {
		return fr.Blocks()
	}
	blocks := make([]frame.Block, fr.NumCols())
	for i, col := range fr.Columns() {
		blocks[i] = frame.Block{Label: col.Name, Start: i, End: i}
	}
	return blocks
}

// styleSet caches the style ids for header/data cells per fill choice.
type styleSet struct {
	headerPlain int
	headerFill  [2]int
	dataFill    [2]int
}

func newStyleSet(f *excelize.File, bold bool) (*styleSet, error) {
	s := &styleSet{}
	var font *excelize.Font
	if bold {
		font = &excelize.Font{Bold: true}
	}

	var err error
	if s.headerPlain, err = f.NewStyle(&excelize.Style{Font: font}); err != nil {
		return nil, err
	}
	for i, color := range blockFills {
		fill := excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
		if s.headerFill[i], err = f.NewStyle(&excelize.Style{Font: font, Fill: fill}); err != nil {
			return nil, err
		}
		if s.dataFill[i], err = f.NewStyle(&excelize.Style{Fill: fill}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// header returns the header style for a fill choice; -1 means no fill.
func (s *styleSet) header(fill int) int {
	if fill < 0 {
		return s.headerPlain
	}
	return s.headerFill[fill]
}

func (s *styleSet) data(fill int) int {
	return s.dataFill[fill]
}

func styleRange(f *excelize.File, sheet string, x1, y1, x2, y2, styleID int) error {
	from, err := excelize.CoordinatesToCellName(x1, y1)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(x2, y2)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, styleID)
}

func applyWidths(f *excelize.File, name string, fr *frame.Frame, opts SheetOptions, indexLevels int) error {
	if indexLevels > 0 {
		width := opts.IndexWidth
		if opts.IndexWidths != nil {
			width = opts.IndexWidths[0]
		}
		if width == 0 {
			width = opts.ColumnWidth
		}
		if width > 0 {
			if err := setColWidth(f, name, 1, 1, width); err != nil {
				return err
			}
		}
	}

	first := indexLevels + 1
	last := indexLevels + fr.NumCols()
	if opts.ColumnWidths != nil {
		for c, width := range opts.ColumnWidths {
			if err := setColWidth(f, name, first+c, first+c, width); err != nil {
				return err
			}
		}
		return nil
	}
	if opts.ColumnWidth > 0 && last >= first {
		return setColWidth(f, name, first, last, opts.ColumnWidth)
	}
	return nil
}

func setColWidth(f *excelize.File, sheet string, from, to int, width float64) error {
	start, err := excelize.ColumnNumberToName(from)
	if err != nil {
		return err
	}
	end, err := excelize.ColumnNumberToName(to)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, start, end, width)
}
