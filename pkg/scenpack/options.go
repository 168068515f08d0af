// Package scenpack exchanges a set of in-memory scenarios with a
// multi-sheet workbook, in both directions. The Packer orchestrates one
// pack per capability and assembles or parses the full workbook.
package scenpack

import (
	"github.com/svandenberg/scenpack/pkg/scenpack/scenario"
)

// ExportOptions are the explicit call-time toggles of one export or
// import run. Nil pointer fields mean "not specified" and fall back to
// the first export settings found on a managed scenario, then to hard
// defaults.
type ExportOptions struct {
	// Inputs includes the SLIDER_SETTINGS sheet. Default on.
	Inputs *bool
	// Defaults adds per-scenario default columns to the inputs layout.
	Defaults *bool
	// Bounds adds the shared min/max block to the inputs layout.
	Bounds *bool
	// Sortables includes per-scenario sortables sheets. Default off.
	Sortables *bool
	// CustomCurves includes per-scenario custom curve sheets. Default off.
	CustomCurves *bool
	// Queries includes the GQUERIES sheets. Default off.
	Queries *bool
	// Carriers selects output-curve carriers for the companion workbook.
	// Nil means unspecified; an empty slice disables output curves.
	Carriers []string
}

// ExportConfig is the fully resolved configuration of one run. It is
// constructed once per call and immutable thereafter.
type ExportConfig struct {
	Inputs       bool
	Defaults     bool
	Bounds       bool
	Sortables    bool
	CustomCurves bool
	Queries      bool
	Carriers     []string
}

// OutputCurves reports whether the run writes the companion workbook.
func (c ExportConfig) OutputCurves() bool {
	return len(c.Carriers) > 0
}

// resolveConfig merges explicit options, the export settings of the
// lowest-id scenario carrying any, and hard defaults, in that precedence
// order. The lowest-id rule makes resolution deterministic over the
// unordered scenario set.
func resolveConfig(opts *ExportOptions, members []*scenario.Scenario) ExportConfig {
	if opts == nil {
		opts = &ExportOptions{}
	}
	var donor *scenario.ExportSettings
	for _, s := range members { // members are sorted by id
		if s.Export != nil {
			donor = s.Export
			break
		}
	}
	if donor == nil {
		donor = &scenario.ExportSettings{}
	}

	cfg := ExportConfig{
		Inputs:       resolveBool(opts.Inputs, nil, true),
		Defaults:     resolveBool(opts.Defaults, donor.Defaults, false),
		Bounds:       resolveBool(opts.Bounds, donor.Bounds, false),
		Sortables:    resolveBool(opts.Sortables, donor.Sortables, false),
		CustomCurves: resolveBool(opts.CustomCurves, donor.CustomCurves, false),
		Queries:      resolveBool(opts.Queries, donor.Queries, false),
	}
	switch {
	case opts.Carriers != nil:
		cfg.Carriers = opts.Carriers
	case donor.Carriers != nil:
		cfg.Carriers = donor.Carriers
	}
	return cfg
}

func resolveBool(explicit, fallback *bool, def bool) bool {
	if explicit != nil {
		return *explicit
	}
	if fallback != nil {
		return *fallback
	}
	return def
}
