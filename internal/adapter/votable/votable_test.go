package votable

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const positionDoc = `<?xml version="1.0" encoding="UTF-8"?>
<VOTABLE version="1.1">
  <RESOURCE type="results">
    <TABLE>
      <FIELD ID="main_col1" name="pos_ra_equ_J2000_d" datatype="double"/>
      <FIELD ID="main_col2" name="pos_dec_equ_J2000_d" datatype="double"/>
      <DATA>
        <TABLEDATA>
          <TR><TD>197.16345</TD><TD>-9.84206</TD></TR>
        </TABLEDATA>
      </DATA>
    </TABLE>
  </RESOURCE>
</VOTABLE>`

func TestParse_PositionDocument(t *testing.T) {
	table, err := Parse(strings.NewReader(positionDoc))
	require.NoError(t, err)

	require.Equal(t, 1, table.Len())
	assert.InDelta(t, 197.16345, table.Float("pos_ra_equ_J2000_d", 0), 1e-9)
	assert.InDelta(t, -9.84206, table.Float("pos_dec_equ_J2000_d", 0), 1e-9)
}

func TestParse_ShortRowsDecodeAsNulls(t *testing.T) {
	doc := `<VOTABLE><RESOURCE><TABLE>
  <FIELD name="ra"/><FIELD name="dec"/><FIELD name="w1mpro"/>
  <DATA><TABLEDATA>
    <TR><TD>10.5</TD><TD>-2.25</TD></TR>
  </TABLEDATA></DATA>
</TABLE></RESOURCE></VOTABLE>`

	table, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	require.Equal(t, 1, table.Len())
	assert.InDelta(t, 10.5, table.Float("ra", 0), 1e-9)
	assert.True(t, math.IsNaN(table.Float("w1mpro", 0)))
}

func TestParse_NestedResource(t *testing.T) {
	// IRSA wraps the data table inside a nested RESOURCE.
	doc := `<VOTABLE><RESOURCE><RESOURCE><TABLE>
  <FIELD name="ra"/>
  <DATA><TABLEDATA><TR><TD>1.0</TD></TR></TABLEDATA></DATA>
</TABLE></RESOURCE></RESOURCE></VOTABLE>`

	table, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestParse_PrefersPopulatedTable(t *testing.T) {
	doc := `<VOTABLE>
  <RESOURCE><TABLE><FIELD name="ignored"/></TABLE></RESOURCE>
  <RESOURCE><TABLE>
    <FIELD name="ra"/>
    <DATA><TABLEDATA><TR><TD>3.0</TD></TR></TABLEDATA></DATA>
  </TABLE></RESOURCE>
</VOTABLE>`

	table, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.InDelta(t, 3.0, table.Float("ra", 0), 1e-9)
}

func TestParse_EmptyFieldListFallsBackToID(t *testing.T) {
	doc := `<VOTABLE><RESOURCE><TABLE>
  <FIELD ID="col1"/>
  <DATA><TABLEDATA><TR><TD>42</TD></TR></TABLEDATA></DATA>
</TABLE></RESOURCE></VOTABLE>`

	table, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	cell, ok := table.Cell("col1", 0)
	require.True(t, ok)
	assert.Equal(t, "42", cell)
}

func TestParse_Errors(t *testing.T) {
	t.Run("no table", func(t *testing.T) {
		_, err := Parse(strings.NewReader(`<VOTABLE><RESOURCE/></VOTABLE>`))
		assert.ErrorIs(t, err, ErrNoTable)
	})

	t.Run("fieldless table", func(t *testing.T) {
		_, err := Parse(strings.NewReader(`<VOTABLE><RESOURCE><TABLE/></RESOURCE></VOTABLE>`))
		assert.ErrorIs(t, err, ErrNoTable)
	})

	t.Run("malformed xml", func(t *testing.T) {
		_, err := Parse(strings.NewReader(`<VOTABLE><RESOURCE>`))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoTable)
	})
}
