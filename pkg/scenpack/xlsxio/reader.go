package xlsxio

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadSheet returns the raw cell block of a named sheet. A missing sheet
// is an error; callers that tolerate absent sheets downgrade it.
func ReadSheet(f *excelize.File, name string) ([][]string, error) {
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", name)
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// HasSheet reports whether the workbook contains a sheet with the name.
func HasSheet(f *excelize.File, name string) bool {
	idx, err := f.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// DropDefaultSheet removes the default "Sheet1" excelize creates in a new
// workbook, once real sheets exist.
func DropDefaultSheet(f *excelize.File) {
	if len(f.GetSheetList()) > 1 {
		_ = f.DeleteSheet("Sheet1")
	}
}
