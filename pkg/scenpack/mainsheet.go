package scenpack

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/svandenberg/scenpack/pkg/scenpack/frame"
	"github.com/svandenberg/scenpack/pkg/scenpack/scenario"
)

// MainSheet is the summary sheet every workbook starts with.
const MainSheet = "MAIN"

// MAIN rows outside the scenario metadata set.
const (
	rowSortablesSheet    = "sortables_sheet"
	rowCustomCurvesSheet = "custom_curves_sheet"
	rowOutputMarker      = "output"
	rowSortables         = "sortables"
	rowCustomCurves      = "custom_curves"
	rowQueries           = "gqueries"
	rowCarriers          = "output_curves"
)

// buildMain renders the MAIN summary frame: one column per scenario,
// metadata rows in the preferred order, per-scenario sheet declarations,
// then the output marker followed by the export-only toggle rows.
func buildMain(members []*scenario.Scenario, cfg ExportConfig,
	sortableSheet, curveSheet func(*scenario.Scenario) string) *frame.Frame {

	labels := make([]string, len(members))
	parts := make([]*frame.Frame, len(members))
	for i, s := range members {
		labels[i] = s.Label()
		parts[i] = s.ToFrame()
	}
	main := frame.ConcatSeries(labels, parts).ReorderRows(scenario.MetadataOrder)

	if cfg.Sortables {
		r := main.AppendRow(rowSortablesSheet)
		for c, s := range members {
			main.SetCell(r, c, sortableSheet(s))
		}
	}
	if cfg.CustomCurves {
		r := main.AppendRow(rowCustomCurvesSheet)
		for c, s := range members {
			main.SetCell(r, c, curveSheet(s))
		}
	}

	main.AppendRow(rowOutputMarker)
	toggles := []struct {
		row   string
		value bool
	}{
		{rowSortables, cfg.Sortables},
		{rowCustomCurves, cfg.CustomCurves},
		{rowQueries, cfg.Queries},
	}
	for _, t := range toggles {
		r := main.AppendRow(t.row)
		for c := range members {
			main.SetCell(r, c, t.value)
		}
	}
	r := main.AppendRow(rowCarriers)
	for c := range members {
		if cfg.OutputCurves() {
			main.SetCell(r, c, strings.Join(cfg.Carriers, ","))
		} else {
			main.SetCell(r, c, false)
		}
	}
	return main
}

// mainColumn is one parsed MAIN scenario column: the always-applied
// metadata fields above the output marker and the export toggles below it.
type mainColumn struct {
	label    string
	meta     []scenario.ExtraField
	settings *scenario.ExportSettings

	sortablesSheet    string
	customCurvesSheet string
}

// parseMain splits a normalized MAIN frame into per-scenario columns. The
// first column holds the field names; blank-labelled columns are helpers
// and are skipped.
func parseMain(f *frame.Frame, log *zap.Logger) []mainColumn {
	if f.Empty() || f.NumCols() < 2 {
		return nil
	}

	fields := make([]string, f.NumRows())
	for r := 0; r < f.NumRows(); r++ {
		fields[r] = strings.TrimSpace(stringCell(f.Cell(r, 0)))
	}

	var cols []mainColumn
	for c := 1; c < f.NumCols(); c++ {
		label := strings.TrimSpace(f.Columns()[c].Name)
		if label == "" {
			continue
		}
		col := mainColumn{label: label}
		inOutput := false
		for r, field := range fields {
			if field == "" {
				continue
			}
			if field == rowOutputMarker {
				inOutput = true
				col.settings = &scenario.ExportSettings{}
				continue
			}
			value := f.Cell(r, c)
			if inOutput {
				applySetting(col.settings, field, value, log)
				continue
			}
			switch field {
			case rowSortablesSheet:
				col.sortablesSheet = stringCell(value)
			case rowCustomCurvesSheet:
				col.customCurvesSheet = stringCell(value)
			default:
				if !frame.IsMissing(value) {
					col.meta = append(col.meta, scenario.ExtraField{Key: field, Value: value})
				}
			}
		}
		cols = append(cols, col)
	}
	return cols
}

func applySetting(settings *scenario.ExportSettings, field string, value any, log *zap.Logger) {
	switch field {
	case rowSortables:
		settings.Sortables = parseToggle(value)
	case rowCustomCurves:
		settings.CustomCurves = parseToggle(value)
	case rowQueries:
		settings.Queries = parseToggle(value)
	case rowCarriers:
		settings.Carriers = parseCarriers(value)
	default:
		log.Debug("unknown export toggle row ignored", zap.String("row", field))
	}
}

// parseToggle reads a boolean cell; unreadable cells yield nil so the
// field stays unspecified.
func parseToggle(value any) *bool {
	switch t := value.(type) {
	case bool:
		return scenario.Bool(t)
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1":
			return scenario.Bool(true)
		case "false", "no", "0":
			return scenario.Bool(false)
		}
	case int64:
		return scenario.Bool(t != 0)
	case float64:
		return scenario.Bool(t != 0)
	}
	return nil
}

// parseCarriers reads a carrier selection cell: a comma-separated list, a
// boolean (true selects every known carrier) or blank for unspecified.
func parseCarriers(value any) []string {
	switch t := value.(type) {
	case bool:
		if t {
			return append([]string(nil), scenario.Carriers...)
		}
		return []string{}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		switch strings.ToLower(s) {
		case "true", "all":
			return append([]string(nil), scenario.Carriers...)
		case "false", "none":
			return []string{}
		}
		var carriers []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				carriers = append(carriers, part)
			}
		}
		return carriers
	}
	return nil
}

func stringCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
