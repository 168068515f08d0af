// Package scenario defines the scenario domain object and its nested
// capability collections: adjustable inputs, sortable orders, custom
// curves, output curves and query results. The exchange engine only reads
// and writes this data; it never creates or destroys a scenario identity.
package scenario

import (
	"fmt"
	"strconv"
	"time"

	"github.com/svandenberg/scenpack/pkg/scenpack/frame"
)

// Scenario is one in-memory scenario with a stable numeric identity.
type Scenario struct {
	ID        int
	ShortName string

	Title          string
	Description    string
	Template       string
	AreaCode       string
	StartYear      int
	EndYear        int
	KeepCompatible bool
	Private        bool
	Source         string
	URL            string
	Version        string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Extra holds metadata fields outside the known set, in encounter order.
	Extra []ExtraField

	Inputs       Inputs
	Sortables    Sortables
	CustomCurves CustomCurves
	OutputCurves OutputCurves
	Queries      QuerySet

	Warnings Warnings

	// Export carries the optional per-scenario export settings parsed from
	// or written to the MAIN sheet.
	Export *ExportSettings

	// SortablesSheet and CustomCurvesSheet name the scenario-specific
	// sheets declared in MAIN. Empty means none.
	SortablesSheet    string
	CustomCurvesSheet string
}

// ExtraField is one unrecognized metadata field.
type ExtraField struct {
	Key   string
	Value any
}

// New creates a scenario with the given id.
func New(id int) *Scenario {
	s := &Scenario{ID: id}
	s.Inputs.init()
	s.Sortables.init()
	s.CustomCurves.init()
	s.OutputCurves.init()
	s.Queries.init()
	return s
}

// Identifier returns the stable display form of the scenario identity.
func (s *Scenario) Identifier() string {
	return fmt.Sprintf("scenario_%d", s.ID)
}

// Label returns the preferred human label for a workbook column: the
// caller-supplied short name, the title, or the raw id.
func (s *Scenario) Label() string {
	if s.ShortName != "" {
		return s.ShortName
	}
	if s.Title != "" {
		return s.Title
	}
	return strconv.Itoa(s.ID)
}

// Metadata field names in the preferred MAIN row order.
const (
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldScenarioID     = "scenario_id"
	FieldTemplate       = "template"
	FieldAreaCode       = "area_code"
	FieldStartYear      = "start_year"
	FieldEndYear        = "end_year"
	FieldKeepCompatible = "keep_compatible"
	FieldPrivate        = "private"
	FieldSource         = "source"
	FieldURL            = "url"
	FieldVersion        = "version"
	FieldCreatedAt      = "created_at"
	FieldUpdatedAt      = "updated_at"
)

// MetadataOrder is the preferred row order of the MAIN sheet. Fields not
// listed here follow in encounter order.
var MetadataOrder = []string{
	FieldTitle, FieldDescription, FieldScenarioID, FieldTemplate,
	FieldAreaCode, FieldStartYear, FieldEndYear, FieldKeepCompatible,
	FieldPrivate, FieldSource, FieldURL, FieldVersion,
	FieldCreatedAt, FieldUpdatedAt,
}

// ToFrame renders the scenario metadata as a single-column frame with one
// row per field, labelled by the scenario identifier.
func (s *Scenario) ToFrame() *frame.Frame {
	type field struct {
		key   string
		value any
		skip  bool
	}
	fields := []field{
		{FieldTitle, s.Title, s.Title == ""},
		{FieldDescription, s.Description, s.Description == ""},
		{FieldScenarioID, int64(s.ID), false},
		{FieldTemplate, s.Template, s.Template == ""},
		{FieldAreaCode, s.AreaCode, false},
		{FieldStartYear, int64(s.StartYear), s.StartYear == 0},
		{FieldEndYear, int64(s.EndYear), false},
		{FieldKeepCompatible, s.KeepCompatible, false},
		{FieldPrivate, s.Private, false},
		{FieldSource, s.Source, s.Source == ""},
		{FieldURL, s.URL, s.URL == ""},
		{FieldVersion, s.Version, s.Version == ""},
		{FieldCreatedAt, s.CreatedAt, s.CreatedAt.IsZero()},
		{FieldUpdatedAt, s.UpdatedAt, s.UpdatedAt.IsZero()},
	}
	for _, x := range s.Extra {
		fields = append(fields, field{x.Key, x.Value, false})
	}

	var index []string
	var values []any
	for _, f := range fields {
		if f.skip {
			continue
		}
		index = append(index, f.key)
		values = append(values, f.value)
	}

	out := frame.New(index, []frame.Column{{Name: s.Identifier()}})
	for r, v := range values {
		out.SetCell(r, 0, v)
	}
	return out
}

// SetMetadata applies one MAIN metadata field to the scenario. Unknown
// fields are kept in Extra so they survive a round trip.
func (s *Scenario) SetMetadata(key string, value any) {
	switch key {
	case FieldTitle:
		s.Title = asString(value)
	case FieldDescription:
		s.Description = asString(value)
	case FieldScenarioID:
		if id, ok := asInt(value); ok {
			s.ID = id
		}
	case FieldTemplate:
		s.Template = asString(value)
	case FieldAreaCode:
		s.AreaCode = asString(value)
	case FieldStartYear:
		if y, ok := asInt(value); ok {
			s.StartYear = y
		}
	case FieldEndYear:
		if y, ok := asInt(value); ok {
			s.EndYear = y
		}
	case FieldKeepCompatible:
		s.KeepCompatible = asBool(value)
	case FieldPrivate:
		s.Private = asBool(value)
	case FieldSource:
		s.Source = asString(value)
	case FieldURL:
		s.URL = asString(value)
	case FieldVersion:
		s.Version = asString(value)
	case FieldCreatedAt:
		if t, ok := asTime(value); ok {
			s.CreatedAt = t
		}
	case FieldUpdatedAt:
		if t, ok := asTime(value); ok {
			s.UpdatedAt = t
		}
	default:
		s.Extra = append(s.Extra, ExtraField{Key: key, Value: value})
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(v)
	}
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		if i, err := strconv.Atoi(t); err == nil {
			return i, true
		}
	}
	return 0, false
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(t)
		return err == nil && b
	case int64:
		return t != 0
	case float64:
		return t != 0
	}
	return false
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}
