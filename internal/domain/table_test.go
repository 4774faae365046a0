package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_AbsenceIsDistinguishable(t *testing.T) {
	table := NewTable(map[string][]string{"ra": {"0", "1.5"}})

	assert.Equal(t, 2, table.Len())
	assert.True(t, table.HasColumn("ra"))
	assert.False(t, table.HasColumn("dec"))

	// Zero-valued data is data; an absent column is not.
	assert.Equal(t, 0.0, table.Float("ra", 0))
	assert.True(t, math.IsNaN(table.Float("dec", 0)))

	_, ok := table.Cell("ra", 5)
	assert.False(t, ok)
}

func TestTable_NullMarkers(t *testing.T) {
	table := NewTable(map[string][]string{"w1mpro": {"null", "-", "", "15.0", "junk"}})

	for _, row := range []int{0, 1, 2, 4} {
		assert.True(t, math.IsNaN(table.Float("w1mpro", row)), "row %d", row)
	}
	assert.Equal(t, 15.0, table.Float("w1mpro", 3))
}

func TestTable_PadsShortColumns(t *testing.T) {
	table := NewTable(map[string][]string{
		"ra":  {"1", "2", "3"},
		"dec": {"4"},
	})

	assert.Equal(t, 3, table.Len())
	assert.True(t, math.IsNaN(table.Float("dec", 2)))
}

func TestTable_NilSafe(t *testing.T) {
	var table *Table
	assert.Equal(t, 0, table.Len())
	assert.False(t, table.HasColumn("ra"))
	assert.True(t, math.IsNaN(table.ScalarFloat("ra")))
}
