package packs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/svandenberg/scenpack/pkg/scenpack/frame"
	"github.com/svandenberg/scenpack/pkg/scenpack/scenario"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	return zap.New(core), logs
}

func testScenario(id int, short string) *scenario.Scenario {
	s := scenario.New(id)
	s.ShortName = short
	s.Inputs.Add(scenario.Input{Key: "wind", Default: 10, Min: 0, Max: 100})
	s.Inputs.Add(scenario.Input{Key: "solar", Default: 5, Min: 0, Max: 50})
	return s
}

func TestPackSetSemantics(t *testing.T) {
	p := NewPack("test", nil)
	a := testScenario(1, "a")
	b := testScenario(2, "b")

	p.Add(a, b, a) // duplicate collapses
	assert.Equal(t, 2, p.Len())

	p.Discard(testScenario(3, "c")) // absent, no-op
	assert.Equal(t, 2, p.Len())

	p.Discard(a)
	assert.Equal(t, 1, p.Len())

	p.Clear()
	assert.Equal(t, 0, p.Len())
}

func TestPackCacheInvalidation(t *testing.T) {
	p := NewPack("test", nil)
	a := testScenario(1, "a")
	p.Add(a)

	require.Equal(t, a, p.ResolveScenario("scenario_1"))

	b := testScenario(2, "b")
	p.Add(b) // invalidates cache
	assert.Equal(t, b, p.ResolveScenario("scenario_2"))

	p.Discard(a)
	assert.Nil(t, p.ResolveScenario("scenario_1"))
}

func TestBuildFramePartialIsolation(t *testing.T) {
	log, logs := observedLogger()
	p := NewPack("inputs", log)
	ok1 := testScenario(1, "s1")
	bad := testScenario(2, "s2")
	ok2 := testScenario(3, "s3")
	p.Add(ok1, bad, ok2)

	build := func(s *scenario.Scenario) (*frame.Frame, error) {
		if s.ID == 2 {
			return nil, errors.New("boom")
		}
		f := frame.New([]string{"k"}, []frame.Column{{Name: "value"}})
		f.SetCell(0, 0, float64(s.ID))
		return f, nil
	}

	out := p.BuildFrame(build)
	require.Equal(t, []string{"scenario_1", "scenario_3"}, out.TopLabels())
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Contains(t, entry.Message, "excluded")
	assert.Equal(t, "scenario_2", entry.ContextMap()["scenario"])
}

func TestBuildFrameSkipsEmptyFragments(t *testing.T) {
	p := NewPack("test", nil)
	p.Add(testScenario(1, "a"), testScenario(2, "b"))

	out := p.BuildFrame(func(s *scenario.Scenario) (*frame.Frame, error) {
		if s.ID == 1 {
			return nil, nil
		}
		f := frame.New([]string{"k"}, []frame.Column{{Name: "v"}})
		f.SetCell(0, 0, 1.0)
		return f, nil
	})
	assert.Equal(t, []string{"scenario_2"}, out.TopLabels())
}

func TestResolveLabelPrecedence(t *testing.T) {
	p := NewPack("test", nil)
	a := testScenario(10, "north")
	b := testScenario(20, "")
	p.Add(a, b)

	assert.Equal(t, a, p.ResolveLabel("north"))        // short name
	assert.Equal(t, b, p.ResolveLabel("scenario_20"))  // identifier
	assert.Equal(t, b, p.ResolveLabel("20"))           // numeric id
	assert.Nil(t, p.ResolveLabel("unknown"))
}

func TestResolveLabelShortNameBeatsID(t *testing.T) {
	log, logs := observedLogger()
	p := NewPack("test", log)
	a := testScenario(1, "2") // short name collides with b's id
	b := testScenario(2, "")
	p.Add(a, b)

	assert.Equal(t, a, p.ResolveLabel("2"))
	assert.Equal(t, 1, logs.Len())
}

func TestApplyIdentifierBlocks(t *testing.T) {
	log, logs := observedLogger()
	p := NewPack("test", log)
	a := testScenario(1, "a")
	p.Add(a)

	fr := frame.New([]string{"k"}, []frame.Column{
		{Top: "scenario_1", Name: "v"},
		{Top: "ghost", Name: "v"},
	})
	fr.SetCell(0, 0, 1.5)

	var applied []string
	err := p.ApplyIdentifierBlocks(fr, func(s *scenario.Scenario, block *frame.Frame) error {
		applied = append(applied, s.Identifier())
		assert.Equal(t, 1.5, block.Cell(0, 0))
		return nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"scenario_1"}, applied)
	assert.Equal(t, 1, logs.Len()) // ghost block warned
}

func TestApplyIdentifierBlocksCallbackFailureIsolated(t *testing.T) {
	log, logs := observedLogger()
	p := NewPack("test", log)
	p.Add(testScenario(1, ""), testScenario(2, ""))

	fr := frame.New([]string{"k"}, []frame.Column{
		{Top: "scenario_1", Name: "v"},
		{Top: "scenario_2", Name: "v"},
	})

	var applied []string
	err := p.ApplyIdentifierBlocks(fr, func(s *scenario.Scenario, _ *frame.Frame) error {
		if s.ID == 1 {
			return errors.New("bad block")
		}
		applied = append(applied, s.Identifier())
		return nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"scenario_2"}, applied)
	assert.Equal(t, 1, logs.Len())
}

func TestApplyIdentifierBlocksRequiresHierarchy(t *testing.T) {
	p := NewPack("test", nil)
	fr := frame.New([]string{"k"}, []frame.Column{{Name: "flat"}})
	err := p.ApplyIdentifierBlocks(fr, nil, nil)
	assert.ErrorIs(t, err, ErrFlatColumns)
}

func TestSanitizeSheetName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"a/b:c", "a_b_c"},
		{"", "sheet"},
		{"0123456789012345678901234567890123", "0123456789012345678901234567890"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, SanitizeSheetName(tt.input), "input %q", tt.input)
	}
}
