package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetAccessors(t *testing.T) {
	ds := New("test.csv",
		[]string{"A", "B", "A"},
		[][]string{
			{"1", "2", "3"},
			{"4"},
		})

	assert.Equal(t, 2, ds.Len())

	// Duplicate headers resolve to the leftmost column.
	col, ok := ds.Col("A")
	require.True(t, ok)
	assert.Equal(t, 0, col)

	assert.Equal(t, "2", ds.Cell(0, "B"))
	assert.Equal(t, "", ds.Cell(0, "missing"))
	assert.Equal(t, "", ds.Cell(1, "B"), "ragged row reads as empty")
	assert.Equal(t, "", ds.CellAt(5, 0))
	assert.Equal(t, "", ds.CellAt(0, 9))
}

func TestFirstColumn(t *testing.T) {
	ds := New("ids.csv", []string{"Numero"}, [][]string{{"1001"}, {}, {"1002"}})
	assert.Equal(t, []string{"1001", "", "1002"}, ds.FirstColumn())
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, New("a", []string{"h"}, nil).IsEmpty())
	assert.True(t, New("a", []string{"h"}, [][]string{{" ", ""}}).IsEmpty())
	assert.False(t, New("a", []string{"h"}, [][]string{{"x"}}).IsEmpty())
}
