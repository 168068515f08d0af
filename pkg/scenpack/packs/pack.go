// Package packs implements the per-capability aggregators that map a set
// of scenarios to one sheet fragment each, and apply imported sheet blocks
// back onto scenarios. Failures stay scoped to single scenarios: an
// aggregate never aborts because one member misbehaves.
package packs

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/svandenberg/scenpack/pkg/scenpack/frame"
	"github.com/svandenberg/scenpack/pkg/scenpack/scenario"
)

// ErrFlatColumns indicates a frame without a scenario level where one is
// required.
var ErrFlatColumns = errors.New("frame has no scenario-level column index")

// FragmentError wraps a failure building one scenario's sheet fragment.
type FragmentError struct {
	Pack       string
	Identifier string
	Err        error
}

func (e *FragmentError) Error() string {
	return fmt.Sprintf("pack %s: fragment for %s: %v", e.Pack, e.Identifier, e.Err)
}

func (e *FragmentError) Unwrap() error {
	return e.Err
}

// Fragmenter is the capability-specific behavior of a pack: building one
// scenario's fragment and applying an imported block back.
type Fragmenter interface {
	// Key names the capability.
	Key() string
	// SheetName is the workbook sheet the capability exchanges with. Packs
	// using scenario-specific sheets return the sheet name prefix.
	SheetName() string
	// BuildFragment renders one scenario's fragment, or nil when the
	// scenario has nothing to contribute.
	BuildFragment(s *scenario.Scenario) (*frame.Frame, error)
	// Normalize turns a raw sheet block into the frame ApplyFragment
	// expects.
	Normalize(block [][]string) *frame.Frame
	// ApplyFragment writes an imported block onto one scenario.
	ApplyFragment(s *scenario.Scenario, block *frame.Frame) error
}

// Pack owns a set of scenarios and aggregates their fragments. Membership
// has set semantics; the identifier lookup cache is invalidated on every
// mutation and rebuilt lazily.
type Pack struct {
	name    string
	log     *zap.Logger
	members map[*scenario.Scenario]struct{}
	cache   map[string]*scenario.Scenario
	label   func(*scenario.Scenario) string
}

// NewPack creates an empty pack. A nil logger disables logging.
func NewPack(name string, log *zap.Logger) *Pack {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pack{
		name:    name,
		log:     log.With(zap.String("pack", name)),
		members: make(map[*scenario.Scenario]struct{}),
		label:   (*scenario.Scenario).Identifier,
	}
}

// Name returns the pack name.
func (p *Pack) Name() string {
	return p.name
}

// SetLabeler overrides the per-scenario column label, which defaults to
// the scenario identifier.
func (p *Pack) SetLabeler(label func(*scenario.Scenario) string) {
	if label != nil {
		p.label = label
	}
}

// Label returns the column label of one scenario.
func (p *Pack) Label(s *scenario.Scenario) string {
	return p.label(s)
}

// Add registers scenarios. Duplicates collapse; the cache is invalidated.
func (p *Pack) Add(scenarios ...*scenario.Scenario) {
	for _, s := range scenarios {
		if s != nil {
			p.members[s] = struct{}{}
		}
	}
	p.cache = nil
}

// Discard removes a scenario. Discarding an absent scenario is a no-op.
func (p *Pack) Discard(s *scenario.Scenario) {
	delete(p.members, s)
	p.cache = nil
}

// Clear removes every scenario.
func (p *Pack) Clear() {
	p.members = make(map[*scenario.Scenario]struct{})
	p.cache = nil
}

// Len returns the number of member scenarios.
func (p *Pack) Len() int {
	return len(p.members)
}

// Members returns the member scenarios sorted by id, so aggregate layouts
// stay reproducible over the unordered set.
func (p *Pack) Members() []*scenario.Scenario {
	out := make([]*scenario.Scenario, 0, len(p.members))
	for s := range p.members {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// BuildFrame aggregates every member's fragment side by side under a
// two-level column index topped by the member's label. A fragment build
// failure excludes that scenario and is logged; nil and empty fragments
// are skipped silently.
func (p *Pack) BuildFrame(build func(*scenario.Scenario) (*frame.Frame, error)) *frame.Frame {
	labels, parts := p.collect(build)
	return frame.ConcatScenarios(labels, parts)
}

// BuildSeriesFrame aggregates single-column fragments into a flat frame
// with one column per member, labelled by the member's label.
func (p *Pack) BuildSeriesFrame(build func(*scenario.Scenario) (*frame.Frame, error)) *frame.Frame {
	labels, parts := p.collect(build)
	return frame.ConcatSeries(labels, parts)
}

func (p *Pack) collect(build func(*scenario.Scenario) (*frame.Frame, error)) ([]string, []*frame.Frame) {
	var labels []string
	var parts []*frame.Frame
	for _, s := range p.Members() {
		part, err := build(s)
		if err != nil {
			fragErr := &FragmentError{Pack: p.name, Identifier: s.Identifier(), Err: err}
			p.log.Warn("scenario excluded from pack frame",
				zap.String("scenario", s.Identifier()), zap.Error(fragErr))
			continue
		}
		if part.Empty() {
			continue
		}
		labels = append(labels, p.label(s))
		parts = append(parts, part)
	}
	return labels, parts
}

// ResolveScenario looks a member up by its exact identifier string.
// Returns nil when no member matches; never fails.
func (p *Pack) ResolveScenario(identifier string) *scenario.Scenario {
	if len(p.cache) != len(p.members) {
		p.cache = make(map[string]*scenario.Scenario, len(p.members))
		for s := range p.members {
			p.cache[s.Identifier()] = s
		}
	}
	return p.cache[identifier]
}

// ResolveLabel maps a workbook column label to a member scenario, trying
// short name, then identifier, then numeric id. The first matching rule
// wins; when a numeric label matched a short name, a possible id collision
// is logged.
func (p *Pack) ResolveLabel(label string) *scenario.Scenario {
	for _, s := range p.Members() {
		if s.ShortName == label {
			if id, err := strconv.Atoi(label); err == nil {
				if other := p.byID(id); other != nil && other != s {
					p.log.Warn("label matches both a short name and another scenario id",
						zap.String("label", label))
				}
			}
			return s
		}
	}
	if s := p.ResolveScenario(label); s != nil {
		return s
	}
	if id, err := strconv.Atoi(label); err == nil {
		return p.byID(id)
	}
	return nil
}

func (p *Pack) byID(id int) *scenario.Scenario {
	for s := range p.members {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// ApplyIdentifierBlocks slices a hierarchical frame into per-label column
// blocks, resolves each label to a member scenario and invokes apply on
// the block. A custom resolve function takes priority over the identifier
// cache. Resolution and apply failures skip that block only.
func (p *Pack) ApplyIdentifierBlocks(
	fr *frame.Frame,
	apply func(*scenario.Scenario, *frame.Frame) error,
	resolve func(string) *scenario.Scenario,
) error {
	if fr.Empty() {
		return nil
	}
	if !fr.Hierarchical() {
		return ErrFlatColumns
	}
	if resolve == nil {
		resolve = p.ResolveScenario
	}

	for _, label := range fr.TopLabels() {
		s := resolve(label)
		if s == nil {
			p.log.Warn("no scenario for column block", zap.String("label", label))
			continue
		}
		if err := apply(s, fr.SliceTop(label)); err != nil {
			p.log.Warn("column block skipped",
				zap.String("label", label),
				zap.String("scenario", s.Identifier()),
				zap.Error(err))
		}
	}
	return nil
}

// Interface conformance checks.
var (
	_ Fragmenter = (*InputsPack)(nil)
	_ Fragmenter = (*SortablesPack)(nil)
	_ Fragmenter = (*CustomCurvesPack)(nil)
	_ Fragmenter = (*OutputCurvesPack)(nil)
	_ Fragmenter = (*QueryPack)(nil)
)
