// Package xlsxio renders tabular frames into styled workbook sheets and
// reads raw sheet blocks back, on top of excelize.
package xlsxio

// SheetOptions configures how one frame is rendered into a sheet.
type SheetOptions struct {
	// Index writes the row index as the leftmost column.
	Index bool
	// IndexName is the header cell above the index column. Blank leaves it
	// empty.
	IndexName string

	// ColumnWidth applies one width to every data column. Zero leaves the
	// default width.
	ColumnWidth float64
	// ColumnWidths gives one width per data column; the length must match
	// the column count exactly.
	ColumnWidths []float64
	// IndexWidth is the width of the index column. Zero falls back to
	// ColumnWidth.
	IndexWidth float64
	// IndexWidths gives one width per index level; the length must match
	// the index level count exactly.
	IndexWidths []float64

	// FreezePanes freezes the header rows and index columns.
	FreezePanes bool
	// BoldHeaders renders header cells bold.
	BoldHeaders bool

	// NaNAsFormula renders missing numeric values as an =NA() formula.
	// When false they render as inert "NA" text instead.
	NaNAsFormula bool
	// DecimalPrecision is the number of decimal digits values are rounded
	// up to before writing. Negative disables rounding.
	DecimalPrecision int

	// ScenarioStyling alternates two background styles across scenario
	// blocks (hierarchical columns) or individual columns (flat).
	ScenarioStyling bool
}

// DefaultSheetOptions returns the options used for ordinary data sheets.
func DefaultSheetOptions() SheetOptions {
	return SheetOptions{
		Index:            true,
		FreezePanes:      true,
		BoldHeaders:      true,
		NaNAsFormula:     true,
		DecimalPrecision: 6,
		ScenarioStyling:  true,
	}
}
