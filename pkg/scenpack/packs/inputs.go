package packs

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/svandenberg/scenpack/pkg/scenpack/frame"
	"github.com/svandenberg/scenpack/pkg/scenpack/scenario"
)

// Column names of the input layouts.
const (
	inputValueCol   = "value"
	inputDefaultCol = "default"
	inputMinCol     = "min"
	inputMaxCol     = "max"
)

// InputKeyHeader is the header of the key column on the inputs sheet.
const InputKeyHeader = "input"

// boundsLabel groups the shared min/max columns in the combined layout.
const boundsLabel = "bounds"

// InputsPack exchanges adjustable input values through the
// SLIDER_SETTINGS sheet.
type InputsPack struct {
	*Pack
}

// NewInputsPack creates an inputs pack.
func NewInputsPack(log *zap.Logger) *InputsPack {
	return &InputsPack{Pack: NewPack("inputs", log)}
}

// Key implements Fragmenter.
func (p *InputsPack) Key() string {
	return "inputs"
}

// SheetName implements Fragmenter.
func (p *InputsPack) SheetName() string {
	return "SLIDER_SETTINGS"
}

// BuildFragment renders one scenario's inputs as a flat key-to-value
// frame: the user value when set, a missing cell otherwise. Untouched
// inputs must stay distinguishable from user-set ones across a round
// trip.
func (p *InputsPack) BuildFragment(s *scenario.Scenario) (*frame.Frame, error) {
	keys := s.Inputs.Keys()
	out := frame.New(append([]string(nil), keys...), []frame.Column{{Name: inputValueCol}})
	for r, key := range keys {
		if input := s.Inputs.Get(key); input.Set {
			out.SetCell(r, 0, input.User)
		}
	}
	return out, nil
}

// ValuesFrame aggregates every member's values into the flat sheet layout:
// one row per input key, one column per scenario.
func (p *InputsPack) ValuesFrame() *frame.Frame {
	return p.BuildSeriesFrame(p.BuildFragment)
}

// DefaultsFrame is the defaults-only layout: one flat column per scenario
// holding default values.
func (p *InputsPack) DefaultsFrame() *frame.Frame {
	return p.BuildSeriesFrame(func(s *scenario.Scenario) (*frame.Frame, error) {
		keys := s.Inputs.Keys()
		out := frame.New(append([]string(nil), keys...), []frame.Column{{Name: inputDefaultCol}})
		for r, key := range keys {
			out.SetCell(r, 0, s.Inputs.Get(key).Default)
		}
		return out, nil
	})
}

// BoundsFrame is the bounds-only layout: min and max columns, assumed
// shared across scenarios and taken from the lowest-id member.
func (p *InputsPack) BoundsFrame() *frame.Frame {
	members := p.Members()
	if len(members) == 0 {
		return frame.New(nil, nil)
	}
	s := members[0]
	keys := s.Inputs.Keys()
	out := frame.New(append([]string(nil), keys...),
		[]frame.Column{{Name: inputMinCol}, {Name: inputMaxCol}})
	for r, key := range keys {
		input := s.Inputs.Get(key)
		out.SetCell(r, 0, input.Min)
		out.SetCell(r, 1, input.Max)
	}
	return out
}

// CombinedFrame is the fully combined layout: per-scenario value and
// default columns under a scenario-labelled index, with the shared bounds
// appended as a trailing block.
func (p *InputsPack) CombinedFrame(includeDefaults, includeBounds bool) *frame.Frame {
	out := p.BuildFrame(func(s *scenario.Scenario) (*frame.Frame, error) {
		keys := s.Inputs.Keys()
		cols := []frame.Column{{Name: inputValueCol}}
		if includeDefaults {
			cols = append(cols, frame.Column{Name: inputDefaultCol})
		}
		part := frame.New(append([]string(nil), keys...), cols)
		for r, key := range keys {
			input := s.Inputs.Get(key)
			if input.Set {
				part.SetCell(r, 0, input.User)
			}
			if includeDefaults {
				part.SetCell(r, 1, input.Default)
			}
		}
		return part, nil
	})

	if !includeBounds || out.Empty() {
		return out
	}
	bounds := p.BoundsFrame()
	if bounds.Empty() {
		return out
	}
	return appendBlock(out, boundsLabel, bounds)
}

// appendBlock concatenates a flat frame onto a hierarchical one as one
// extra labelled block, aligning rows by label.
func appendBlock(base *frame.Frame, label string, extra *frame.Frame) *frame.Frame {
	labels := make([]string, 0, len(base.TopLabels())+1)
	parts := make([]*frame.Frame, 0, len(base.TopLabels())+1)
	for _, top := range base.TopLabels() {
		labels = append(labels, top)
		parts = append(parts, base.SliceTop(top))
	}
	labels = append(labels, label)
	parts = append(parts, extra)
	return frame.ConcatScenarios(labels, parts)
}

// Normalize implements Fragmenter. The first column of the sheet is the
// input key column; blank-headed columns are kept so it survives.
func (p *InputsPack) Normalize(block [][]string) *frame.Frame {
	return frame.NormalizeSingleHeader(block, []string{"index"}, false, true)
}

// ApplyFragment writes a single-column block of values, indexed by input
// key, onto one scenario. Non-numeric cells stay unset.
func (p *InputsPack) ApplyFragment(s *scenario.Scenario, block *frame.Frame) error {
	if block.Empty() {
		return nil
	}
	values := make(map[string]float64)
	cells := block.ColumnValues(0)
	for r, key := range block.Index() {
		if v, ok := asFloat(cells[r]); ok {
			values[key] = v
		}
	}
	s.UpdateUserValues(values)
	return nil
}

// ApplySheet parses the global inputs sheet once and routes each scenario
// column to its scenario. Flat sheets carry the input keys in the first
// column and one value column per scenario; combined sheets carry a second
// header row naming the value/default/min/max columns, and only the value
// column of each scenario block is applied. Unresolvable columns are
// logged and skipped.
func (p *InputsPack) ApplySheet(block [][]string, resolve func(string) *scenario.Scenario) {
	if resolve == nil {
		resolve = p.ResolveLabel
	}
	if combinedHeader(block) {
		p.applyCombined(block, resolve)
		return
	}

	f := p.Normalize(block)
	if f.Empty() || f.NumCols() < 2 {
		return
	}

	keys := make([]string, f.NumRows())
	for r := 0; r < f.NumRows(); r++ {
		keys[r] = asString(f.Cell(r, 0))
	}

	for c := 1; c < f.NumCols(); c++ {
		label := f.Columns()[c].Name
		s := resolve(label)
		if s == nil {
			p.log.Warn("inputs column matches no scenario", zap.String("label", label))
			continue
		}
		p.applyColumn(s, label, keys, f.ColumnValues(c))
	}
}

// applyColumn applies one scenario's value cells onto it.
func (p *InputsPack) applyColumn(s *scenario.Scenario, label string, keys []string, cells []any) {
	part := frame.New(keys, []frame.Column{{Name: inputValueCol}})
	for r, v := range cells {
		part.SetCell(r, 0, v)
	}
	if err := p.ApplyFragment(s, part); err != nil {
		p.log.Warn("inputs column skipped",
			zap.String("label", label), zap.Error(err))
	}
}

// combinedHeader reports whether a raw inputs block uses the two-header
// combined layout: the second non-blank row names the per-column fields
// instead of holding data.
func combinedHeader(block [][]string) bool {
	seen := 0
	for _, row := range block {
		blank := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if blank {
			continue
		}
		if seen++; seen < 2 {
			continue
		}
		for _, cell := range row {
			if strings.EqualFold(strings.TrimSpace(cell), inputValueCol) {
				return true
			}
		}
		return false
	}
	return false
}

// applyCombined routes the combined layout: scenario labels on the top
// header level, the shared bounds block excluded, and only each scenario
// block's value column applied.
func (p *InputsPack) applyCombined(block [][]string, resolve func(string) *scenario.Scenario) {
	f := frame.NormalizeTwoHeader(block, [2][]string{nil, {"index"}}, [2]bool{false, false}, true)
	if f.Empty() {
		return
	}

	keyCol := -1
	for c, col := range f.Columns() {
		if col.Top == "" {
			keyCol = c
			break
		}
	}
	if keyCol < 0 {
		return
	}
	keys := make([]string, f.NumRows())
	for r := 0; r < f.NumRows(); r++ {
		keys[r] = asString(f.Cell(r, keyCol))
	}

	for _, label := range f.TopLabels() {
		if label == "" || label == boundsLabel {
			continue
		}
		s := resolve(label)
		if s == nil {
			p.log.Warn("inputs column matches no scenario", zap.String("label", label))
			continue
		}
		scBlock := f.SliceTop(label)
		for c, col := range scBlock.Columns() {
			if col.Name == inputValueCol {
				p.applyColumn(s, label, keys, scBlock.ColumnValues(c))
				break
			}
		}
	}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	}
	return ""
}
