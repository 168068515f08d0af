package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlocks(t *testing.T) {
	f := New([]string{"0"}, []Column{
		{Top: "A", Name: "x"},
		{Top: "A", Name: "y"},
		{Top: "B", Name: "x"},
		{Top: "B", Name: "y"},
		{Top: "B", Name: "z"},
		{Top: "C", Name: "x"},
	})

	assert.Equal(t, []Block{
		{Label: "A", Start: 0, End: 1},
		{Label: "B", Start: 2, End: 4},
		{Label: "C", Start: 5, End: 5},
	}, f.Blocks())
}

func TestBlocksEmpty(t *testing.T) {
	f := New(nil, nil)
	assert.Nil(t, f.Blocks())
}

func TestSliceTop(t *testing.T) {
	f := New([]string{"r1", "r2"}, []Column{
		{Top: "A", Name: "x"},
		{Top: "B", Name: "x"},
		{Top: "B", Name: "y"},
	})
	f.SetCell(0, 1, 1.5)
	f.SetCell(1, 2, "v")

	b := f.SliceTop("B")
	require.Equal(t, 2, b.NumCols())
	assert.Equal(t, []Column{{Name: "x"}, {Name: "y"}}, b.Columns())
	assert.Equal(t, 1.5, b.Cell(0, 0))
	assert.Equal(t, "v", b.Cell(1, 1))
	assert.True(t, f.SliceTop("missing").Empty())
}

func TestConcatScenariosUnionsRows(t *testing.T) {
	a := New([]string{"k1", "k2"}, []Column{{Name: "value"}})
	a.SetCell(0, 0, 1.0)
	a.SetCell(1, 0, 2.0)
	b := New([]string{"k2", "k3"}, []Column{{Name: "value"}})
	b.SetCell(0, 0, 3.0)
	b.SetCell(1, 0, 4.0)

	out := ConcatScenarios([]string{"S1", "S2"}, []*Frame{a, b})
	require.Equal(t, []string{"k1", "k2", "k3"}, out.Index())
	require.Equal(t, 2, out.NumCols())
	assert.True(t, out.Hierarchical())
	assert.Equal(t, 1.0, out.At("k1", "value"))
	assert.Nil(t, out.Cell(2, 0)) // k3 absent from S1
	assert.Equal(t, 3.0, out.SliceTop("S2").At("k2", "value"))
}

func TestConcatSeriesFlatLabels(t *testing.T) {
	a := New([]string{"f1"}, []Column{{Name: "ignored"}})
	a.SetCell(0, 0, "v1")
	out := ConcatSeries([]string{"S1"}, []*Frame{a})
	assert.False(t, out.Hierarchical())
	assert.Equal(t, []Column{{Name: "S1"}}, out.Columns())
}

func TestReorderRows(t *testing.T) {
	f := New([]string{"c", "a", "b"}, []Column{{Name: "v"}})
	f.SetCell(0, 0, "C")
	f.SetCell(1, 0, "A")
	f.SetCell(2, 0, "B")

	out := f.ReorderRows([]string{"a", "missing", "b"})
	assert.Equal(t, []string{"a", "b", "c"}, out.Index())
	assert.Equal(t, "A", out.Cell(0, 0))
	assert.Equal(t, "C", out.Cell(2, 0))
}

func TestCloneIsIndependent(t *testing.T) {
	f := New([]string{"r"}, []Column{{Name: "v"}})
	f.SetCell(0, 0, 1.0)

	c := f.Clone()
	c.SetCell(0, 0, 2.0)
	assert.Equal(t, 1.0, f.Cell(0, 0))
	assert.Equal(t, 2.0, c.Cell(0, 0))
}
