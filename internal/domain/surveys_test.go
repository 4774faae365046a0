package domain

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func surveySource(t *testing.T) *Source {
	t.Helper()
	s := NewSource(1, map[string]string{FieldName: "PKS 1306-09", FieldZ: "0.46685"})
	require.NoError(t, ResolveNEDPosition(s, positionTable("197.16345", "-9.84206")))
	return s
}

func wiseTable(lat, lon float64, mags [4]string, extra map[string][]string) *Table {
	cols := map[string][]string{
		gatorRAColumn:  {fmt.Sprintf("%.6f", lat)},
		gatorDecColumn: {fmt.Sprintf("%.6f", lon)},
		"w1mpro":       {mags[0]},
		"w2mpro":       {mags[1]},
		"w3mpro":       {mags[2]},
		"w4mpro":       {mags[3]},
	}
	for name, col := range extra {
		cols[name] = col
	}
	return NewTable(cols)
}

func TestWithinTolerance_BoundaryInclusive(t *testing.T) {
	assert.True(t, WithinTolerance(10.0000, MatchingTolerance))
	assert.False(t, WithinTolerance(10.0001, MatchingTolerance))
	assert.True(t, WithinTolerance(0, MatchingTolerance))
}

func TestMagnitudeToFlux(t *testing.T) {
	// Magnitude 15 in the 306.682 Jy zero-point band is exactly a factor
	// of 1e-6.
	assert.InEpsilon(t, 3.06682e-4, MagnitudeToFlux(15.0, 306.682), 1e-12)
	assert.InEpsilon(t, 306.682, MagnitudeToFlux(0, 306.682), 1e-12)
}

func TestWISENormalizer(t *testing.T) {
	n := NewWISENormalizer()

	t.Run("four bands from one row", func(t *testing.T) {
		s := surveySource(t)
		added, err := n.Normalize(s, wiseTable(s.NEDLat, s.NEDLon,
			[4]string{"12.0", "11.5", "8.7", "6.2"}, nil))

		require.NoError(t, err)
		require.Len(t, added, 4)
		assert.Equal(t, []int{1, 2, 3, 4}, []int{added[0].Num, added[1].Num, added[2].Num, added[3].Num})
		assert.Equal(t, 8.856e13, added[0].Freq)
		assert.InEpsilon(t, MagnitudeToFlux(12.0, 306.682), added[0].Flux, 1e-12)
		assert.Equal(t, CatalogWISE, added[0].Catalog)
		assert.Equal(t, FlagSingle, added[0].Flag)
	})

	t.Run("null band magnitudes dropped", func(t *testing.T) {
		s := surveySource(t)
		added, err := n.Normalize(s, wiseTable(s.NEDLat, s.NEDLon,
			[4]string{"12.0", "null", "99.0", ""}, nil))

		require.NoError(t, err)
		assert.Len(t, added, 1)
	})

	t.Run("offset within tolerance accepted", func(t *testing.T) {
		s := surveySource(t)
		added, err := n.Normalize(s, wiseTable(s.NEDLat+0.002777, s.NEDLon,
			[4]string{"12.0", "", "", ""}, nil))

		require.NoError(t, err)
		require.Len(t, added, 1)
		assert.InDelta(t, 9.997, added[0].OffsetFromNED, 0.01)
	})

	t.Run("offset beyond tolerance rejected", func(t *testing.T) {
		s := surveySource(t)
		_, err := n.Normalize(s, wiseTable(s.NEDLat+0.002784, s.NEDLon,
			[4]string{"12.0", "", "", ""}, nil))

		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("no usable search position", func(t *testing.T) {
		s := NewSource(1, map[string]string{FieldName: "nameless"})
		_, err := n.Normalize(s, wiseTable(10, 10, [4]string{"12.0", "", "", ""}, nil))
		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("falls back to input position", func(t *testing.T) {
		s := NewSource(1, map[string]string{FieldRA: "10.0", FieldDec: "-4.0"})
		added, err := n.Normalize(s, wiseTable(10.0, -4.0, [4]string{"12.0", "", "", ""}, nil))

		require.NoError(t, err)
		assert.Len(t, added, 1)
	})
}

func TestTwoMASSNormalizer(t *testing.T) {
	t.Run("standalone catalog row", func(t *testing.T) {
		s := surveySource(t)
		table := NewTable(map[string][]string{
			gatorRAColumn:  {fmt.Sprintf("%.6f", s.NEDLat)},
			gatorDecColumn: {fmt.Sprintf("%.6f", s.NEDLon)},
			"j_m":          {"14.2"},
			"h_m":          {"13.6"},
			"k_m":          {"13.1"},
		})

		added, err := NewTwoMASSNormalizer(false).Normalize(s, table)
		require.NoError(t, err)
		require.Len(t, added, 3)
		assert.Equal(t, 2.429e14, added[0].Freq)
		assert.InEpsilon(t, MagnitudeToFlux(14.2, 1594), added[0].Flux, 1e-12)
		assert.Equal(t, CatalogTwoMASS, added[0].Catalog)
	})

	t.Run("inline columns on a WISE row", func(t *testing.T) {
		s := surveySource(t)
		table := wiseTable(s.NEDLat, s.NEDLon, [4]string{"12.0", "", "", ""}, map[string][]string{
			"j_m_2mass": {"14.2"},
			"h_m_2mass": {"13.6"},
			"k_m_2mass": {"null"},
		})
		require.True(t, HasInlineTwoMASS(table))

		added, err := NewTwoMASSNormalizer(true).Normalize(s, table)
		require.NoError(t, err)
		assert.Len(t, added, 2) // K dropped as null
	})

	t.Run("inline detection requires all three columns", func(t *testing.T) {
		table := NewTable(map[string][]string{"j_m_2mass": {"14.2"}})
		assert.False(t, HasInlineTwoMASS(table))
		assert.False(t, HasInlineTwoMASS(NewTable(nil)))
	})
}

func TestSurveyNormalizer_ContiguousNumberingAcrossCatalogs(t *testing.T) {
	s := surveySource(t)

	_, err := NewSEDNormalizer().Normalize(s, sedTable(
		[5]string{"1.4e9", "2.3", "2010ApJS..189....1A", "", "1.4 GHz (NVSS)"},
	))
	require.NoError(t, err)

	_, err = NewWISENormalizer().Normalize(s, wiseTable(s.NEDLat, s.NEDLon,
		[4]string{"12.0", "11.5", "", ""}, nil))
	require.NoError(t, err)

	require.Len(t, s.Measurements, 3)
	for i, m := range s.Measurements {
		assert.Equal(t, i+1, m.Num)
	}
	assert.True(t, math.IsNaN(s.Reddening))
}
