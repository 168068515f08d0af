package packs

import (
	"errors"
	"strconv"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/svandenberg/scenpack/pkg/scenpack/frame"
	"github.com/svandenberg/scenpack/pkg/scenpack/scenario"
	"github.com/svandenberg/scenpack/pkg/scenpack/xlsxio"
)

// ErrReadOnly indicates an attempt to import into the output curves
// capability, which is export-only.
var ErrReadOnly = errors.New("output curves are read-only")

// OutputCurvesPack exports computed output curves. It is never imported;
// its import hooks exist only to satisfy the pack interface.
type OutputCurvesPack struct {
	*Pack
}

// NewOutputCurvesPack creates an output curves pack.
func NewOutputCurvesPack(log *zap.Logger) *OutputCurvesPack {
	return &OutputCurvesPack{Pack: NewPack("output_curves", log)}
}

// Key implements Fragmenter.
func (p *OutputCurvesPack) Key() string {
	return "output_curves"
}

// SheetName implements Fragmenter; the companion workbook uses one sheet
// per carrier instead of a fixed name.
func (p *OutputCurvesPack) SheetName() string {
	return "output_curves"
}

// BuildFragment renders every carrier's curves of one scenario, one flat
// column per curve or per sub-series of a wide table.
func (p *OutputCurvesPack) BuildFragment(s *scenario.Scenario) (*frame.Frame, error) {
	var tables []scenario.CurveTable
	for _, carrier := range scenario.Carriers {
		tables = append(tables, s.GetOutputCurves(carrier)...)
	}
	return tablesFrame(tables), nil
}

// CarrierFrame aggregates one carrier across all members: columns grouped
// first by scenario (sorted by id), then by curve name.
func (p *OutputCurvesPack) CarrierFrame(carrier string) *frame.Frame {
	return p.BuildFrame(func(s *scenario.Scenario) (*frame.Frame, error) {
		return tablesFrame(s.GetOutputCurves(carrier)), nil
	})
}

// tablesFrame flattens curve tables into one column per sub-series. A wide
// table named N with columns a,b yields columns N_a and N_b.
func tablesFrame(tables []scenario.CurveTable) *frame.Frame {
	var cols []frame.Column
	var series [][]float64
	rows := 0
	for _, t := range tables {
		for i, values := range t.Values {
			name := t.Name
			if t.Wide() && i < len(t.Columns) {
				name = t.Name + "_" + t.Columns[i]
			}
			cols = append(cols, frame.Column{Name: name})
			series = append(series, values)
			if len(values) > rows {
				rows = len(values)
			}
		}
	}
	if len(cols) == 0 {
		return frame.New(nil, nil)
	}

	index := make([]string, rows)
	for i := range index {
		index[i] = strconv.Itoa(i)
	}
	out := frame.New(index, cols)
	for c, values := range series {
		for r, v := range values {
			out.SetCell(r, c, v)
		}
	}
	return out
}

// WriteCompanion writes the carrier-grouped companion workbook: one sheet
// per requested carrier. Carriers without any curves are skipped. Returns
// the number of sheets written.
func (p *OutputCurvesPack) WriteCompanion(path string, carriers []string, opts xlsxio.SheetOptions) (int, error) {
	if len(carriers) == 0 {
		carriers = scenario.Carriers
	}

	f := excelize.NewFile()
	defer f.Close()

	written := 0
	for _, carrier := range carriers {
		fr := p.CarrierFrame(carrier)
		if fr.Empty() {
			continue
		}
		if _, err := xlsxio.WriteSheet(f, SanitizeSheetName(carrier), fr, opts); err != nil {
			return written, err
		}
		written++
	}
	if written == 0 {
		return 0, nil
	}
	xlsxio.DropDefaultSheet(f)
	return written, f.SaveAs(path)
}

// Normalize implements Fragmenter; there is no import shape.
func (p *OutputCurvesPack) Normalize([][]string) *frame.Frame {
	return frame.New(nil, nil)
}

// ApplyFragment implements Fragmenter and always refuses.
func (p *OutputCurvesPack) ApplyFragment(*scenario.Scenario, *frame.Frame) error {
	return ErrReadOnly
}
