package packs

import "strings"

// maxSheetNameLen is the workbook format's sheet name limit.
const maxSheetNameLen = 31

var sheetNameReplacer = strings.NewReplacer(
	":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// SanitizeSheetName makes a string usable as a sheet name: forbidden
// characters become underscores and the result is truncated to the format
// limit.
func SanitizeSheetName(name string) string {
	name = sheetNameReplacer.Replace(strings.TrimSpace(name))
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}
	if name == "" {
		name = "sheet"
	}
	return name
}
