package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSingleHeader(t *testing.T) {
	block := [][]string{
		{"", "", ""},
		{"", "", ""},
		{" key ", "hour", "value"},
		{"a", "1", "10"},
		{"b", "2", "20"},
	}

	f := NormalizeSingleHeader(block, []string{"Hour"}, true, true)
	require.Equal(t, []Column{{Name: "key"}, {Name: "value"}}, f.Columns())
	assert.Equal(t, []string{"0", "1"}, f.Index())
	assert.Equal(t, "a", f.Cell(0, 0))
	assert.Equal(t, int64(20), f.Cell(1, 1))
}

func TestNormalizeSingleHeaderEdge(t *testing.T) {
	t.Run("all blank block", func(t *testing.T) {
		f := NormalizeSingleHeader([][]string{{"", ""}, {" ", ""}}, nil, true, true)
		assert.True(t, f.Empty())
		assert.Equal(t, 0, f.NumCols())
	})

	t.Run("header only", func(t *testing.T) {
		f := NormalizeSingleHeader([][]string{{"key", "value"}}, nil, true, true)
		assert.Equal(t, 0, f.NumRows())
		assert.Equal(t, []Column{{Name: "key"}, {Name: "value"}}, f.Columns())
	})

	t.Run("blank header kept when dropEmpty false", func(t *testing.T) {
		f := NormalizeSingleHeader([][]string{{"key", ""}, {"a", "1"}}, nil, false, true)
		assert.Equal(t, 2, f.NumCols())
	})

	t.Run("index preserved without reset", func(t *testing.T) {
		block := [][]string{{"", ""}, {"key", "value"}, {"a", "1"}}
		f := NormalizeSingleHeader(block, nil, true, false)
		assert.Equal(t, []string{"2"}, f.Index())
	})
}

func TestNormalizeTwoHeader(t *testing.T) {
	block := [][]string{
		{"", "", "", ""},
		{"hour", "space_heating", "space_heating", ""},
		{"", "key", "share", ""},
		{"0", "hn_low", "0.4", ""},
		{"1", "hn_high", "0.6", ""},
	}

	f := NormalizeTwoHeader(block, [2][]string{{"hour"}, nil}, [2]bool{false, true}, true)
	require.Equal(t, []Column{
		{Top: "space_heating", Name: "key"},
		{Top: "space_heating", Name: "share"},
	}, f.Columns())
	assert.Equal(t, "hn_low", f.Cell(0, 0))
	assert.Equal(t, 0.6, f.Cell(1, 1))
	assert.True(t, f.Hierarchical())
}

func TestNormalizeTwoHeaderHeaderOnly(t *testing.T) {
	block := [][]string{{"S1", "S1"}, {"a", "b"}}
	f := NormalizeTwoHeader(block, [2][]string{}, [2]bool{true, true}, true)
	assert.Equal(t, 0, f.NumRows())
	assert.Equal(t, 2, f.NumCols())
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"123", int64(123)},
		{"123.45", 123.45},
		{"-7", int64(-7)},
		{" 5 ", int64(5)},
		{"hello", "hello"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Coerce(tt.input), "Coerce(%q)", tt.input)
	}
}
