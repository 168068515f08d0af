package scenario

// ExportSettings carries the optional per-scenario export toggles parsed
// from the MAIN sheet below the output marker row. Nil pointer fields mean
// "not specified" so call-time arguments can take precedence.
type ExportSettings struct {
	Sortables    *bool
	CustomCurves *bool
	Queries      *bool
	Defaults     *bool
	Bounds       *bool

	// Carriers selects the output-curve carriers. Nil means unspecified;
	// an empty slice means no output curves.
	Carriers []string
}

// Bool returns a pointer to a bool literal, for building settings.
func Bool(v bool) *bool {
	return &v
}
