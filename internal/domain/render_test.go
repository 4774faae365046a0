package domain

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMeasurement() Measurement {
	return Measurement{
		Index:         7,
		Name:          "PKS1306-09",
		Z:             0.46685,
		Num:           3,
		Freq:          8.856e13,
		Flux:          3.06682e-4,
		Catalog:       CatalogWISE,
		Flag:          FlagSingle,
		Lat:           197.16345,
		Lon:           -9.84206,
		OffsetFromNED: 1.2,
		Extinction:    1.034,
	}
}

func TestNewTemplate_Validation(t *testing.T) {
	t.Run("unknown field is a hard error", func(t *testing.T) {
		_, err := NewTemplate("{index} {wavelength}")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "wavelength")
	})

	t.Run("empty template", func(t *testing.T) {
		_, err := NewTemplate("")
		require.Error(t, err)
	})

	t.Run("default template compiles", func(t *testing.T) {
		_, err := NewTemplate(DefaultTemplate)
		require.NoError(t, err)
	})
}

func TestTemplate_Render(t *testing.T) {
	t.Run("default verbs", func(t *testing.T) {
		tpl, err := NewTemplate("{num} {source} {flag}")
		require.NoError(t, err)
		assert.Equal(t, "3 WISE a", tpl.Render(sampleMeasurement()))
	})

	t.Run("explicit verbs", func(t *testing.T) {
		tpl, err := NewTemplate("{z:%.2f} | {flux:%.3e}")
		require.NoError(t, err)
		assert.Equal(t, "0.47 | 3.067e-04", tpl.Render(sampleMeasurement()))
	})

	t.Run("literal text is preserved", func(t *testing.T) {
		tpl, err := NewTemplate("freq={freq:%g} Hz")
		require.NoError(t, err)
		assert.Equal(t, "freq=8.856e+13 Hz", tpl.Render(sampleMeasurement()))
	})
}

// Rendering with the default template and re-parsing the numeric fields
// recovers the original values within float tolerance.
func TestTemplate_DefaultRoundTrip(t *testing.T) {
	tpl, err := NewTemplate(DefaultTemplate)
	require.NoError(t, err)

	m := sampleMeasurement()
	fields := strings.Fields(tpl.Render(m))
	require.Len(t, fields, 12)

	parse := func(s string) float64 {
		v, err := strconv.ParseFloat(s, 64)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "7", fields[0])
	assert.Equal(t, "PKS1306-09", fields[1])
	assert.InDelta(t, m.Z, parse(fields[2]), 1e-5)
	assert.Equal(t, "3", fields[3])
	assert.InEpsilon(t, m.Freq, parse(fields[4]), 1e-3)
	assert.InEpsilon(t, m.Flux, parse(fields[5]), 1e-3)
	assert.Equal(t, "WISE", fields[6])
	assert.Equal(t, "a", fields[7])
	assert.InDelta(t, m.Lat, parse(fields[8]), 1e-5)
	assert.InDelta(t, m.Lon, parse(fields[9]), 1e-5)
	assert.InDelta(t, m.OffsetFromNED, parse(fields[10]), 0.05)
	assert.InEpsilon(t, m.Extinction, parse(fields[11]), 1e-3)
}

func TestPlotRows_OneColumnPerCatalog(t *testing.T) {
	s := NewSource(1, map[string]string{FieldName: "PKS 1306-09", FieldZ: "0.46685"})
	require.NoError(t, ResolveNEDPosition(s, positionTable("197.16345", "-9.84206")))

	_, err := NewSEDNormalizer().Normalize(s, sedTable(
		[5]string{"1.4e9", "2.3", "2010ApJS..189....1A", "", "1.4 GHz (NVSS)"},
	))
	require.NoError(t, err)
	_, err = NewWISENormalizer().Normalize(s, wiseTable(s.NEDLat, s.NEDLon,
		[4]string{"12.0", "", "", ""}, nil))
	require.NoError(t, err)

	rows := PlotRows(s)
	require.Len(t, rows, 2)

	nonZero := func(r PlotRow) int {
		n := 0
		for _, v := range []float64{r.NED, r.WISE, r.TwoMASS, r.GALEX} {
			if v != 0 {
				n++
			}
		}
		return n
	}

	assert.Equal(t, 1, nonZero(rows[0]))
	assert.Equal(t, 1, nonZero(rows[1]))
	assert.Greater(t, rows[0].NED, 0.0)
	assert.Greater(t, rows[1].WISE, 0.0)
	assert.InEpsilon(t, RestFrequency(s.Z, 1.4e9), rows[0].Freq, 1e-12)
}

func TestNewRecord(t *testing.T) {
	frozen := time.Date(2026, time.August, 24, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	s := NewSource(4, map[string]string{FieldName: "PKS 1306-09", FieldZ: "0.46685"})
	require.NoError(t, ResolveNEDPosition(s, positionTable("197.16345", "-9.84206")))
	_, err := NewSEDNormalizer().Normalize(s, sedTable(
		[5]string{"1.4e9", "2.3", "2010ApJS..189....1A", "", "1.4 GHz (NVSS)"},
	))
	require.NoError(t, err)

	rec := NewRecord(s)

	assert.Equal(t, 4, rec.Index)
	assert.Equal(t, "PKS1306-09", rec.Name)
	assert.Equal(t, 0.46685, rec.Z)
	assert.Equal(t, frozen, rec.ProcessedAt)
	require.Len(t, rec.Measurements, 1)
	assert.Equal(t, CatalogNED, rec.Measurements[0].Catalog)
	// Unresolved reddening serializes as zero, not NaN.
	assert.Zero(t, rec.Reddening)
}
