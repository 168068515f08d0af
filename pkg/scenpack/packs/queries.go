package packs

import (
	"go.uber.org/zap"

	"github.com/svandenberg/scenpack/pkg/scenpack/frame"
	"github.com/svandenberg/scenpack/pkg/scenpack/scenario"
)

// Sheet names of the query exchange.
const (
	QueriesSheet      = "GQUERIES"
	QueryResultsSheet = "GQUERIES_RESULTS"
	queryKeyColumn    = "gquery"
)

// QueryPack exchanges requested query keys and their results. The
// orchestrator constructs one transiently per call since query sets vary
// per invocation.
type QueryPack struct {
	*Pack
}

// NewQueryPack creates a query pack.
func NewQueryPack(log *zap.Logger) *QueryPack {
	return &QueryPack{Pack: NewPack("gqueries", log)}
}

// Key implements Fragmenter.
func (p *QueryPack) Key() string {
	return "gqueries"
}

// SheetName implements Fragmenter.
func (p *QueryPack) SheetName() string {
	return QueriesSheet
}

// RequestedKeys returns the union of the members' requested keys,
// deduplicated and order-preserving with case kept.
func (p *QueryPack) RequestedKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, s := range p.Members() {
		for _, key := range s.Queries.Keys() {
			if !scenario.ValidQueryKey(key) || seen[key] {
				continue
			}
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// KeysFrame renders the requested keys as the single-column sheet layout.
func (p *QueryPack) KeysFrame() *frame.Frame {
	keys := p.RequestedKeys()
	if len(keys) == 0 {
		return frame.New(nil, nil)
	}
	index := make([]string, len(keys))
	for i := range keys {
		index[i] = keys[i]
	}
	out := frame.New(index, []frame.Column{{Name: queryKeyColumn}})
	for r, key := range keys {
		out.SetCell(r, 0, key)
	}
	return out
}

// BuildFragment renders one scenario's query results: one row per
// requested key, columns are the result fields.
func (p *QueryPack) BuildFragment(s *scenario.Scenario) (*frame.Frame, error) {
	if s.Queries.Len() == 0 {
		return nil, nil
	}
	return s.Results(), nil
}

// ResultsFrame aggregates every member's results under scenario-labelled
// column blocks.
func (p *QueryPack) ResultsFrame() *frame.Frame {
	return p.BuildFrame(p.BuildFragment)
}

// Normalize implements Fragmenter for the single-column key sheet.
func (p *QueryPack) Normalize(block [][]string) *frame.Frame {
	return frame.NormalizeSingleHeader(block, nil, false, true)
}

// ParseKeys extracts the requested keys from a raw sheet block: the first
// column, deduplicated and order-preserving, dropping blank and nan-like
// tokens.
func (p *QueryPack) ParseKeys(block [][]string) []string {
	f := p.Normalize(block)
	if f.Empty() {
		return nil
	}
	seen := make(map[string]bool)
	var keys []string
	for r := 0; r < f.NumRows(); r++ {
		key := asString(f.Cell(r, 0))
		if !scenario.ValidQueryKey(key) || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

// ApplyFragment requests the block's keys on one scenario.
func (p *QueryPack) ApplyFragment(s *scenario.Scenario, block *frame.Frame) error {
	var keys []string
	for r := 0; r < block.NumRows(); r++ {
		keys = append(keys, asString(block.Cell(r, 0)))
	}
	s.AddQueries(keys)
	return nil
}

// ApplyKeys requests keys on every member scenario.
func (p *QueryPack) ApplyKeys(keys []string) {
	if len(keys) == 0 {
		return
	}
	for _, s := range p.Members() {
		s.AddQueries(keys)
	}
	p.log.Debug("query keys applied", zap.Int("keys", len(keys)), zap.Int("scenarios", p.Len()))
}
