package scenario

// Known output carriers, in the fixed export order.
var Carriers = []string{"electricity", "heat", "hydrogen", "methane", "network_gas"}

// CurveTable is one computed output curve. A wide table carries one value
// column per sub-series (for example per temperature level); a plain curve
// has a single unnamed column.
type CurveTable struct {
	Name    string
	Columns []string
	Values  [][]float64 // column-major, one slice per column
}

// Wide reports whether the table splits into multiple sub-series columns.
func (t CurveTable) Wide() bool {
	return len(t.Columns) > 1
}

// OutputCurves is the read-only collection of computed curves per carrier.
type OutputCurves struct {
	m map[string][]CurveTable
}

func (oc *OutputCurves) init() {
	if oc.m == nil {
		oc.m = make(map[string][]CurveTable)
	}
}

// Set replaces the curve tables of one carrier.
func (oc *OutputCurves) Set(carrier string, tables []CurveTable) {
	oc.init()
	oc.m[carrier] = tables
}

// Len returns the total number of curve tables across carriers.
func (oc *OutputCurves) Len() int {
	n := 0
	for _, tables := range oc.m {
		n += len(tables)
	}
	return n
}

// AllOutputCurves returns every carrier's curve tables.
func (s *Scenario) AllOutputCurves() map[string][]CurveTable {
	s.OutputCurves.init()
	return s.OutputCurves.m
}

// GetOutputCurves returns the curve tables of one carrier, or nil when the
// scenario has none for it.
func (s *Scenario) GetOutputCurves(carrier string) []CurveTable {
	s.OutputCurves.init()
	return s.OutputCurves.m[carrier]
}
