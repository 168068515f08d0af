package packs

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/svandenberg/scenpack/pkg/scenpack/frame"
	"github.com/svandenberg/scenpack/pkg/scenpack/scenario"
)

// CustomCurvesPack exchanges attached hourly curves through
// scenario-specific sheets with two header rows.
type CustomCurvesPack struct {
	*Pack
}

// NewCustomCurvesPack creates a custom curves pack.
func NewCustomCurvesPack(log *zap.Logger) *CustomCurvesPack {
	return &CustomCurvesPack{Pack: NewPack("custom_curves", log)}
}

// Key implements Fragmenter.
func (p *CustomCurvesPack) Key() string {
	return "custom_curves"
}

// SheetName implements Fragmenter; curve sheets are scenario-specific and
// this is the name prefix.
func (p *CustomCurvesPack) SheetName() string {
	return "custom_curves"
}

// SheetFor returns the workbook sheet name of one scenario's curves.
func (p *CustomCurvesPack) SheetFor(s *scenario.Scenario) string {
	if s.CustomCurvesSheet != "" {
		return s.CustomCurvesSheet
	}
	return SanitizeSheetName(p.Label(s) + "_curves")
}

// BuildFragment renders one scenario's attached curves, one column per
// curve.
func (p *CustomCurvesPack) BuildFragment(s *scenario.Scenario) (*frame.Frame, error) {
	return s.CustomCurvesSeries(), nil
}

// ScenarioFrame wraps one scenario's fragment under its label for the
// two-header-row sheet layout.
func (p *CustomCurvesPack) ScenarioFrame(s *scenario.Scenario) (*frame.Frame, error) {
	part, err := p.BuildFragment(s)
	if err != nil || part.Empty() {
		return part, err
	}
	return frame.ConcatScenarios([]string{p.Label(s)}, []*frame.Frame{part}), nil
}

// Normalize implements Fragmenter for the two-header-row sheet shape.
func (p *CustomCurvesPack) Normalize(block [][]string) *frame.Frame {
	return frame.NormalizeTwoHeader(block,
		[2][]string{sheetHelpers, sheetHelpers},
		[2]bool{false, true},
		true)
}

// ApplyFragment attaches the block's columns as curves on one scenario.
// Non-numeric cells end a curve; columns without any numeric value are
// skipped.
func (p *CustomCurvesPack) ApplyFragment(s *scenario.Scenario, block *frame.Frame) error {
	var curves []scenario.Curve
	for c, col := range block.Columns() {
		var values []float64
		for _, cell := range block.ColumnValues(c) {
			v, ok := asFloat(cell)
			if !ok {
				break
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			continue
		}
		curves = append(curves, scenario.Curve{Name: col.Name, Values: values})
	}
	s.UpdateCustomCurves(curves)
	return nil
}

// Update pairs one scenario with its imported curve block.
type Update struct {
	Scenario *scenario.Scenario
	Block    *frame.Frame
}

// ApplyAll dispatches each scenario's curve update as an independent unit
// of work and waits for the whole batch. A failing unit is logged and does
// not cancel or block the others; each unit touches only its own
// scenario's curves.
func (p *CustomCurvesPack) ApplyAll(ctx context.Context, updates []Update) {
	g, _ := errgroup.WithContext(ctx)
	for _, u := range updates {
		u := u
		g.Go(func() error {
			if err := p.ApplyFragment(u.Scenario, u.Block); err != nil {
				p.log.Warn("custom curve update failed",
					zap.String("scenario", u.Scenario.Identifier()),
					zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}
