package packs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svandenberg/scenpack/pkg/scenpack/frame"
	"github.com/svandenberg/scenpack/pkg/scenpack/scenario"
)

func TestInputsValuesFrame(t *testing.T) {
	p := NewInputsPack(nil)
	a := testScenario(1, "s1")
	a.UpdateUserValues(map[string]float64{"wind": 42})
	b := testScenario(2, "s2")
	p.Add(a, b)
	p.SetLabeler(func(s *scenario.Scenario) string { return s.ShortName })

	f := p.ValuesFrame()
	require.Equal(t, []string{"wind", "solar"}, f.Index())
	assert.False(t, f.Hierarchical())
	assert.Equal(t, 42.0, f.At("wind", "s1"))
	assert.Nil(t, f.At("wind", "s2"))  // untouched input stays missing
	assert.Nil(t, f.At("solar", "s1")) // likewise
}

func TestInputsBoundsShared(t *testing.T) {
	p := NewInputsPack(nil)
	p.Add(testScenario(2, "b"), testScenario(1, "a"))

	f := p.BoundsFrame()
	assert.Equal(t, 0.0, f.At("wind", "min"))
	assert.Equal(t, 100.0, f.At("wind", "max"))
}

func TestInputsCombinedFrame(t *testing.T) {
	p := NewInputsPack(nil)
	p.Add(testScenario(1, "s1"))

	f := p.CombinedFrame(true, true)
	require.True(t, f.Hierarchical())
	assert.Equal(t, []string{"scenario_1", "bounds"}, f.TopLabels())
	block := f.SliceTop("scenario_1")
	assert.Equal(t, 2, block.NumCols()) // value + default
}

func TestInputsApplySheet(t *testing.T) {
	p := NewInputsPack(nil)
	a := testScenario(1, "s1")
	b := testScenario(2, "s2")
	p.Add(a, b)

	block := [][]string{
		{"input", "s1", "s2", "ghost"},
		{"wind", "11", "22", "33"},
		{"solar", "", "7.5", ""},
	}
	p.ApplySheet(block, nil)

	assert.Equal(t, map[string]float64{"wind": 11}, a.Inputs.UserValues())
	assert.Equal(t, map[string]float64{"wind": 22, "solar": 7.5}, b.Inputs.UserValues())
}

// The combined layout carries default and bounds columns next to each
// scenario's values; only the value column may reach the scenario.
func TestInputsApplySheetCombined(t *testing.T) {
	p := NewInputsPack(nil)
	a := testScenario(1, "s1")
	p.Add(a)

	block := [][]string{
		{"", "s1", "s1", "bounds", "bounds"},
		{"input", "value", "default", "min", "max"},
		{"wind", "75", "10", "0", "100"},
		{"solar", "", "5", "0", "50"},
	}
	p.ApplySheet(block, nil)

	assert.Equal(t, map[string]float64{"wind": 75}, a.Inputs.UserValues())
}

func TestSortablesRoundTrip(t *testing.T) {
	p := NewSortablesPack(nil)
	s := scenario.New(1)
	s.Sortables.Set(scenario.SortableOrder{Type: "forecast_storage", Entries: []string{"battery", "hydrogen"}})
	s.Sortables.Set(scenario.SortableOrder{Type: scenario.HeatNetworkType, Subtype: "lt", Entries: []string{"geo"}})
	p.Add(s)

	sheet, err := p.ScenarioFrame(s)
	require.NoError(t, err)
	require.True(t, sheet.Hierarchical())
	assert.Equal(t, []string{"scenario_1"}, sheet.TopLabels())

	// Render to a raw block the way a sheet read would produce it.
	block := [][]string{
		{"hour", "scenario_1", "scenario_1"},
		{"", "forecast_storage", "heat_network_lt"},
		{"0", "battery", "geo"},
		{"1", "hydrogen", ""},
	}
	restored := scenario.New(1)
	normalized := p.Normalize(block)
	require.NoError(t, p.ApplyFragment(restored, normalized.SliceTop("scenario_1")))

	fs := restored.Sortables.Get("forecast_storage")
	require.NotNil(t, fs)
	assert.Equal(t, []string{"battery", "hydrogen"}, fs.Entries)
	hn := restored.Sortables.Get("heat_network_lt")
	require.NotNil(t, hn)
	assert.Equal(t, "lt", hn.Subtype)
}

func TestCustomCurvesApplyAll(t *testing.T) {
	p := NewCustomCurvesPack(nil)
	a := scenario.New(1)
	b := scenario.New(2)
	p.Add(a, b)

	mk := func(name string, values ...any) *frame.Frame {
		index := make([]string, len(values))
		for i := range values {
			index[i] = string(rune('0' + i))
		}
		f := frame.New(index, []frame.Column{{Name: name}})
		for r, v := range values {
			f.SetCell(r, 0, v)
		}
		return f
	}

	p.ApplyAll(context.Background(), []Update{
		{Scenario: a, Block: mk("price_curve", 1.0, 2.0)},
		{Scenario: b, Block: mk("solar_profile", 0.5)},
	})

	require.Equal(t, 1, a.CustomCurves.Len())
	assert.Equal(t, []float64{1, 2}, a.CustomCurves.Get("price_curve").Values)
	assert.Equal(t, []float64{0.5}, b.CustomCurves.Get("solar_profile").Values)
}

func TestOutputCurvesFlattening(t *testing.T) {
	s := scenario.New(5)
	s.OutputCurves.Set("heat", []scenario.CurveTable{
		{Name: "households", Columns: []string{"lt", "ht"}, Values: [][]float64{{1, 2}, {3, 4}}},
		{Name: "industry", Columns: []string{""}, Values: [][]float64{{9}}},
	})

	p := NewOutputCurvesPack(nil)
	p.Add(s)

	f := p.CarrierFrame("heat")
	require.True(t, f.Hierarchical())
	block := f.SliceTop("scenario_5")
	names := make([]string, 0, block.NumCols())
	for _, c := range block.Columns() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"households_lt", "households_ht", "industry"}, names)
	assert.Equal(t, 3.0, block.At("0", "households_ht"))
}

func TestOutputCurvesReadOnly(t *testing.T) {
	p := NewOutputCurvesPack(nil)
	err := p.ApplyFragment(scenario.New(1), frame.New(nil, nil))
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestOutputCurvesScenarioOrderDeterministic(t *testing.T) {
	mkScenario := func(id int) *scenario.Scenario {
		s := scenario.New(id)
		s.OutputCurves.Set("electricity", []scenario.CurveTable{
			{Name: "demand", Columns: []string{""}, Values: [][]float64{{float64(id)}}},
		})
		return s
	}
	p := NewOutputCurvesPack(nil)
	p.Add(mkScenario(30), mkScenario(10), mkScenario(20))

	f := p.CarrierFrame("electricity")
	assert.Equal(t, []string{"scenario_10", "scenario_20", "scenario_30"}, f.TopLabels())
}

func TestQueryKeysFrameAndParse(t *testing.T) {
	p := NewQueryPack(nil)
	a := scenario.New(1)
	a.AddQueries([]string{"co2_total", "costs"})
	b := scenario.New(2)
	b.AddQueries([]string{"costs", "Imports"})
	p.Add(a, b)

	f := p.KeysFrame()
	require.Equal(t, []string{"co2_total", "costs", "Imports"}, f.Index())

	keys := p.ParseKeys([][]string{
		{"gquery"},
		{"co2_total"},
		{""},
		{"nan"},
		{"co2_total"},
		{"final_demand"},
	})
	assert.Equal(t, []string{"co2_total", "final_demand"}, keys)

	fresh := scenario.New(3)
	p.Clear()
	p.Add(fresh)
	p.ApplyKeys(keys)
	assert.Equal(t, keys, fresh.Queries.Keys())
}
