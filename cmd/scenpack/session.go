package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/svandenberg/scenpack/pkg/scenpack/scenario"
)

// session is the on-disk description of a scenario set.
type session struct {
	Scenarios []sessionScenario `yaml:"scenarios"`
}

type sessionScenario struct {
	ID        int    `yaml:"id"`
	ShortName string `yaml:"short_name,omitempty"`
	Title     string `yaml:"title,omitempty"`
	AreaCode  string `yaml:"area_code"`
	EndYear   int    `yaml:"end_year"`

	Inputs    []sessionInput    `yaml:"inputs,omitempty"`
	Sortables []sessionSortable `yaml:"sortables,omitempty"`
	Curves    []sessionCurve    `yaml:"custom_curves,omitempty"`
	Queries   []string          `yaml:"gqueries,omitempty"`
}

type sessionInput struct {
	Key     string   `yaml:"key"`
	Default float64  `yaml:"default"`
	Min     float64  `yaml:"min"`
	Max     float64  `yaml:"max"`
	Unit    string   `yaml:"unit,omitempty"`
	User    *float64 `yaml:"user,omitempty"`
}

type sessionSortable struct {
	Type    string   `yaml:"type"`
	Subtype string   `yaml:"subtype,omitempty"`
	Entries []string `yaml:"order"`
}

// sessionCurve holds curve values inline, or names a curve stored in the
// curves directory as <scenario id>_<name>.csv.
type sessionCurve struct {
	Name   string    `yaml:"name"`
	Values []float64 `yaml:"values,omitempty"`
	Stored bool      `yaml:"stored,omitempty"`
}

func loadSession(path string) (*session, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s session
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &s, nil
}

func (s *session) save(path string) error {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// scenarios materializes the session into scenario values. Stored curves
// are read from curvesDir; an empty dir with stored curves is an error.
func (s *session) scenarios(curvesDir string) ([]*scenario.Scenario, error) {
	var store *scenario.CurveStore
	if curvesDir != "" {
		store = scenario.NewCurveStore(curvesDir, scenario.NewCurveCache(64))
	}

	out := make([]*scenario.Scenario, 0, len(s.Scenarios))
	for _, sc := range s.Scenarios {
		built, err := sc.build(store)
		if err != nil {
			return nil, err
		}
		out = append(out, built)
	}
	return out, nil
}

func (sc sessionScenario) build(store *scenario.CurveStore) (*scenario.Scenario, error) {
	s := scenario.New(sc.ID)
	s.ShortName = sc.ShortName
	s.Title = sc.Title
	s.AreaCode = sc.AreaCode
	s.EndYear = sc.EndYear

	for _, in := range sc.Inputs {
		input := scenario.Input{
			Key:     in.Key,
			Default: in.Default,
			Min:     in.Min,
			Max:     in.Max,
			Unit:    in.Unit,
		}
		if in.User != nil {
			input.User = *in.User
			input.Set = true
		}
		s.Inputs.Add(input)
	}
	for _, so := range sc.Sortables {
		s.Sortables.Set(scenario.SortableOrder{Type: so.Type, Subtype: so.Subtype, Entries: so.Entries})
	}

	var curves []scenario.Curve
	for _, c := range sc.Curves {
		values := c.Values
		if c.Stored {
			if store == nil {
				return nil, fmt.Errorf("scenario %d: curve %s is stored but no --curves-dir given", sc.ID, c.Name)
			}
			loaded, err := store.Read(sc.ID, c.Name)
			if err != nil {
				return nil, fmt.Errorf("scenario %d: curve %s: %w", sc.ID, c.Name, err)
			}
			values = loaded
		}
		curves = append(curves, scenario.Curve{Name: c.Name, Values: values})
	}
	s.UpdateCustomCurves(curves)
	s.AddQueries(sc.Queries)
	return s, nil
}

// sessionFromScenarios renders scenarios back into the session shape,
// keeping user values and requested queries so re-export reproduces the
// imported workbook.
func sessionFromScenarios(scenarios []*scenario.Scenario) *session {
	out := &session{}
	for _, s := range scenarios {
		sc := sessionScenario{
			ID:        s.ID,
			ShortName: s.ShortName,
			Title:     s.Title,
			AreaCode:  s.AreaCode,
			EndYear:   s.EndYear,
			Queries:   s.Queries.Keys(),
		}
		for _, key := range s.Inputs.Keys() {
			in := s.Inputs.Get(key)
			si := sessionInput{Key: in.Key, Default: in.Default, Min: in.Min, Max: in.Max, Unit: in.Unit}
			if in.Set {
				user := in.User
				si.User = &user
			}
			sc.Inputs = append(sc.Inputs, si)
		}
		for _, o := range s.Sortables.Orders() {
			sc.Sortables = append(sc.Sortables, sessionSortable{
				Type: o.Type, Subtype: o.Subtype, Entries: o.Entries,
			})
		}
		for _, name := range s.CustomCurves.Names() {
			c := s.CustomCurves.Get(name)
			sc.Curves = append(sc.Curves, sessionCurve{Name: c.Name, Values: c.Values})
		}
		out.Scenarios = append(out.Scenarios, sc)
	}
	return out
}
