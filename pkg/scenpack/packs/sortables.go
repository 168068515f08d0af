package packs

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/svandenberg/scenpack/pkg/scenpack/frame"
	"github.com/svandenberg/scenpack/pkg/scenpack/scenario"
)

// Helper column names dropped while normalizing scenario-specific sheets.
var sheetHelpers = []string{"hour", "index"}

// SortablesPack exchanges ordered lists through scenario-specific sheets
// with two header rows: the scenario label row and the field row.
type SortablesPack struct {
	*Pack
}

// NewSortablesPack creates a sortables pack.
func NewSortablesPack(log *zap.Logger) *SortablesPack {
	return &SortablesPack{Pack: NewPack("sortables", log)}
}

// Key implements Fragmenter.
func (p *SortablesPack) Key() string {
	return "sortables"
}

// SheetName implements Fragmenter. Sortables sheets are scenario-specific;
// this is the sheet name prefix.
func (p *SortablesPack) SheetName() string {
	return "sortables"
}

// SheetFor returns the workbook sheet name of one scenario's sortables:
// the name declared on the scenario, or a derived default.
func (p *SortablesPack) SheetFor(s *scenario.Scenario) string {
	if s.SortablesSheet != "" {
		return s.SortablesSheet
	}
	return SanitizeSheetName(p.Label(s) + "_sortables")
}

// BuildFragment renders one scenario's orders: one column per flattened
// type, rows are list positions, shorter lists leave trailing cells nil.
func (p *SortablesPack) BuildFragment(s *scenario.Scenario) (*frame.Frame, error) {
	orders := s.Sortables.Orders()
	if len(orders) == 0 {
		return nil, nil
	}

	rows := 0
	for _, o := range orders {
		if len(o.Entries) > rows {
			rows = len(o.Entries)
		}
	}

	index := make([]string, rows)
	cols := make([]frame.Column, len(orders))
	for i := range index {
		index[i] = strconv.Itoa(i)
	}
	for c, o := range orders {
		cols[c] = frame.Column{Name: o.FlatName()}
	}

	out := frame.New(index, cols)
	for c, o := range orders {
		for r, entry := range o.Entries {
			out.SetCell(r, c, entry)
		}
	}
	return out, nil
}

// ScenarioFrame wraps one scenario's fragment under its label, producing
// the two-header-row sheet layout.
func (p *SortablesPack) ScenarioFrame(s *scenario.Scenario) (*frame.Frame, error) {
	part, err := p.BuildFragment(s)
	if err != nil || part.Empty() {
		return part, err
	}
	return frame.ConcatScenarios([]string{p.Label(s)}, []*frame.Frame{part}), nil
}

// Normalize implements Fragmenter for the two-header-row sheet shape.
func (p *SortablesPack) Normalize(block [][]string) *frame.Frame {
	return frame.NormalizeTwoHeader(block,
		[2][]string{sheetHelpers, sheetHelpers},
		[2]bool{false, true},
		true)
}

// ApplyFragment replaces one scenario's orders from a flat imported block.
func (p *SortablesPack) ApplyFragment(s *scenario.Scenario, block *frame.Frame) error {
	s.SetSortablesFromFrame(block)
	return nil
}
