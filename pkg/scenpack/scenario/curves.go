package scenario

import (
	"strconv"

	"github.com/svandenberg/scenpack/pkg/scenpack/frame"
)

// Curve is one custom hourly time series attached to a scenario.
type Curve struct {
	Name   string
	Values []float64
}

// CustomCurves is the ordered collection of custom curves of one scenario.
type CustomCurves struct {
	names []string
	m     map[string]*Curve
}

func (cc *CustomCurves) init() {
	if cc.m == nil {
		cc.m = make(map[string]*Curve)
	}
}

// Set stores a curve, replacing any existing curve with the same name.
func (cc *CustomCurves) Set(curve Curve) {
	cc.init()
	if existing, ok := cc.m[curve.Name]; ok {
		existing.Values = curve.Values
		return
	}
	stored := curve
	cc.names = append(cc.names, curve.Name)
	cc.m[curve.Name] = &stored
}

// Get returns the curve for a name, or nil.
func (cc *CustomCurves) Get(name string) *Curve {
	return cc.m[name]
}

// Names returns the curve names in insertion order.
func (cc *CustomCurves) Names() []string {
	return cc.names
}

// Len returns the number of curves.
func (cc *CustomCurves) Len() int {
	return len(cc.names)
}

// UpdateCustomCurves attaches curves to the scenario, replacing curves that
// share a name. Values are not validated.
func (s *Scenario) UpdateCustomCurves(curves []Curve) {
	for _, c := range curves {
		if c.Name == "" {
			s.Warnings.Addf("custom curve without a name skipped")
			continue
		}
		s.CustomCurves.Set(c)
	}
}

// CustomCurvesSeries renders all attached curves as a flat frame with one
// column per curve. Rows are the hour positions; shorter curves leave
// trailing cells nil.
func (s *Scenario) CustomCurvesSeries() *frame.Frame {
	names := s.CustomCurves.Names()
	if len(names) == 0 {
		return frame.New(nil, nil)
	}

	rows := 0
	for _, name := range names {
		if n := len(s.CustomCurves.Get(name).Values); n > rows {
			rows = n
		}
	}

	index := make([]string, rows)
	cols := make([]frame.Column, len(names))
	for i := range index {
		index[i] = strconv.Itoa(i)
	}
	for c, name := range names {
		cols[c] = frame.Column{Name: name}
	}

	out := frame.New(index, cols)
	for c, name := range names {
		for r, v := range s.CustomCurves.Get(name).Values {
			out.SetCell(r, c, v)
		}
	}
	return out
}
