package scenario

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svandenberg/scenpack/pkg/scenpack/frame"
)

func TestIdentifierAndLabel(t *testing.T) {
	s := New(42)
	assert.Equal(t, "scenario_42", s.Identifier())
	assert.Equal(t, "42", s.Label())

	s.Title = "National plan"
	assert.Equal(t, "National plan", s.Label())

	s.ShortName = "plan"
	assert.Equal(t, "plan", s.Label())
}

func TestToFrameRoundTrip(t *testing.T) {
	s := New(7)
	s.Title = "Test"
	s.AreaCode = "nl"
	s.EndYear = 2050
	s.Extra = append(s.Extra, ExtraField{Key: "ccus_enabled", Value: true})

	f := s.ToFrame()
	require.Equal(t, 1, f.NumCols())
	assert.Equal(t, int64(7), f.At(FieldScenarioID, "scenario_7"))
	assert.Equal(t, "nl", f.At(FieldAreaCode, "scenario_7"))

	restored := New(0)
	for r, key := range f.Index() {
		restored.SetMetadata(key, f.Cell(r, 0))
	}
	assert.Equal(t, 7, restored.ID)
	assert.Equal(t, "Test", restored.Title)
	assert.Equal(t, 2050, restored.EndYear)
	require.Len(t, restored.Extra, 1)
	assert.Equal(t, "ccus_enabled", restored.Extra[0].Key)
}

func TestUpdateUserValues(t *testing.T) {
	s := New(1)
	s.Inputs.Add(Input{Key: "wind_capacity", Default: 10, Min: 0, Max: 100})

	s.UpdateUserValues(map[string]float64{
		"wind_capacity": 55,
		"no_such_key":   1,
	})

	input := s.Inputs.Get("wind_capacity")
	require.True(t, input.Set)
	assert.Equal(t, 55.0, input.User)
	assert.Equal(t, 1, s.Warnings.Len())
	assert.Equal(t, map[string]float64{"wind_capacity": 55}, s.Inputs.UserValues())
}

func TestSortablesFlattening(t *testing.T) {
	s := New(1)

	f := frame.New([]string{"0", "1"}, []frame.Column{
		{Name: "forecast_storage"},
		{Name: "heat_network_lt"},
	})
	f.SetCell(0, 0, "battery")
	f.SetCell(1, 0, "hydrogen")
	f.SetCell(0, 1, "geothermal")

	s.SetSortablesFromFrame(f)

	require.Equal(t, 2, s.Sortables.Len())
	fs := s.Sortables.Get("forecast_storage")
	require.NotNil(t, fs)
	assert.Equal(t, []string{"battery", "hydrogen"}, fs.Entries)

	hn := s.Sortables.Get("heat_network_lt")
	require.NotNil(t, hn)
	assert.Equal(t, HeatNetworkType, hn.Type)
	assert.Equal(t, "lt", hn.Subtype)
	assert.Equal(t, []string{"geothermal"}, hn.Entries)
}

func TestCustomCurvesSeries(t *testing.T) {
	s := New(1)
	s.UpdateCustomCurves([]Curve{
		{Name: "interconnector_1_price", Values: []float64{1, 2, 3}},
		{Name: "solar_profile", Values: []float64{0.5}},
		{Name: "", Values: []float64{9}},
	})

	assert.Equal(t, 1, s.Warnings.Len()) // nameless curve skipped

	f := s.CustomCurvesSeries()
	require.Equal(t, 2, f.NumCols())
	assert.Equal(t, 3, f.NumRows())
	assert.Equal(t, 2.0, f.Cell(1, 0))
	assert.Nil(t, f.Cell(2, 1)) // short curve padded with nil
}

func TestAddQueriesDedup(t *testing.T) {
	s := New(1)
	s.AddQueries([]string{"co2_total", " ", "CO2_total", "co2_total", "nan", "costs"})
	assert.Equal(t, []string{"co2_total", "CO2_total", "costs"}, s.Queries.Keys())
}

func TestResultsFrame(t *testing.T) {
	s := New(1)
	s.AddQueries([]string{"co2_total", "costs"})
	s.Queries.SetResult("co2_total", map[string]any{"future": 12.5, "unit": "Mt"})

	f := s.Results("future", "unit")
	require.Equal(t, []string{"co2_total", "costs"}, f.Index())
	assert.Equal(t, 12.5, f.At("co2_total", "future"))
	assert.Nil(t, f.At("costs", "future"))
}

func TestMemoryService(t *testing.T) {
	existing := New(101)
	existing.AreaCode = "nl"
	svc := NewMemoryService(existing)

	loaded, err := svc.Load(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, existing, loaded)

	_, err = svc.Load(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := svc.Create(context.Background(), "de", 2030)
	require.NoError(t, err)
	assert.Equal(t, "de", created.AreaCode)
	assert.Equal(t, 2030, created.EndYear)
	assert.Greater(t, created.ID, 101)

	_, err = svc.Create(context.Background(), "", 0)
	assert.Error(t, err)
}

func TestCurveStoreRoundTrip(t *testing.T) {
	store := NewCurveStore(t.TempDir(), NewCurveCache(4))

	require.NoError(t, store.Write(7, "solar", []float64{0.1, 0.2, 0.3}))
	values, err := store.Read(7, "solar")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, values)

	// Cached read returns the same parsed values.
	again, err := store.Read(7, "solar")
	require.NoError(t, err)
	assert.Equal(t, values, again)
}

func TestCurveCacheBounded(t *testing.T) {
	store := NewCurveStore(t.TempDir(), NewCurveCache(1))
	require.NoError(t, store.Write(1, "a", []float64{1}))
	require.NoError(t, store.Write(2, "b", []float64{2}))

	va, err := store.Read(1, "a")
	require.NoError(t, err)
	vb, err := store.Read(2, "b") // evicts a
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, va)
	assert.Equal(t, []float64{2}, vb)

	va2, err := store.Read(1, "a") // re-read from disk
	require.NoError(t, err)
	assert.Equal(t, va, va2)
}
