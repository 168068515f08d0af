package scenario

import (
	"strings"

	"github.com/svandenberg/scenpack/pkg/scenpack/frame"
)

// HeatNetworkType is the composite sortable type whose subtype variants are
// flattened to heat_network_<subtype> column names on export.
const HeatNetworkType = "heat_network"

// HeatNetworkSubtypes lists the known heat network temperature levels.
var HeatNetworkSubtypes = []string{"lt", "mt", "ht"}

// SortableOrder is one ordered list of entries for a sortable type. The
// composite heat network type carries a subtype; all others leave it empty.
type SortableOrder struct {
	Type    string
	Subtype string
	Entries []string
}

// FlatName returns the export column name: the type, or type_subtype for
// composite types.
func (o SortableOrder) FlatName() string {
	if o.Subtype == "" {
		return o.Type
	}
	return o.Type + "_" + o.Subtype
}

// Sortables is the ordered collection of sortable orders of one scenario.
type Sortables struct {
	orders []*SortableOrder
	m      map[string]*SortableOrder
}

func (so *Sortables) init() {
	if so.m == nil {
		so.m = make(map[string]*SortableOrder)
	}
}

// Set stores an order, replacing any existing order with the same flat name.
func (so *Sortables) Set(order SortableOrder) {
	so.init()
	name := order.FlatName()
	if existing, ok := so.m[name]; ok {
		existing.Entries = order.Entries
		return
	}
	stored := order
	so.orders = append(so.orders, &stored)
	so.m[name] = &stored
}

// Get returns the order for a flat name, or nil.
func (so *Sortables) Get(flatName string) *SortableOrder {
	return so.m[flatName]
}

// Orders returns all orders in insertion order.
func (so *Sortables) Orders() []*SortableOrder {
	return so.orders
}

// Len returns the number of orders.
func (so *Sortables) Len() int {
	return len(so.orders)
}

// splitFlatName resolves a flat column name back to (type, subtype),
// special-casing the composite heat network names.
func splitFlatName(name string) (string, string) {
	for _, sub := range HeatNetworkSubtypes {
		if name == HeatNetworkType+"_"+sub {
			return HeatNetworkType, sub
		}
	}
	return name, ""
}

// SetSortablesFromFrame replaces the scenario's sortable orders from a flat
// frame with one column per flattened type name. Blank cells are skipped;
// entries keep sheet order.
func (s *Scenario) SetSortablesFromFrame(f *frame.Frame) {
	for c, col := range f.Columns() {
		name := strings.TrimSpace(col.Name)
		if name == "" {
			continue
		}
		typ, subtype := splitFlatName(name)
		var entries []string
		for r := 0; r < f.NumRows(); r++ {
			v := f.Cell(r, c)
			if frame.IsMissing(v) {
				continue
			}
			entries = append(entries, strings.TrimSpace(asString(v)))
		}
		s.Sortables.Set(SortableOrder{Type: typ, Subtype: subtype, Entries: entries})
	}
}
