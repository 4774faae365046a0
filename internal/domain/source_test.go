package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSource_Identity(t *testing.T) {
	t.Run("catalog name wins", func(t *testing.T) {
		s := NewSource(1, map[string]string{
			FieldName:  "FBQS J0006-0004",
			FieldAltID: "0006-0004",
			FieldRA:    "1.59417",
			FieldDec:   "-0.07364",
		})
		assert.Equal(t, "FBQS J0006-0004", s.Name)
		assert.Equal(t, "FBQSJ0006-0004", s.CompactName())
	})

	t.Run("alternate id when name absent", func(t *testing.T) {
		s := NewSource(1, map[string]string{FieldAltID: "0006-0004"})
		assert.Equal(t, "0006-0004", s.Name)
	})

	t.Run("synthesized from rounded coordinates", func(t *testing.T) {
		s := NewSource(1, map[string]string{FieldRA: "197.16317", FieldDec: "-9.84211"})
		assert.Equal(t, "J197.1632-9.8421", s.Name)
	})

	t.Run("no identity at all", func(t *testing.T) {
		s := NewSource(1, map[string]string{FieldZ: "0.5"})
		assert.Empty(t, s.Name)
	})
}

func TestNewSource_Fields(t *testing.T) {
	s := NewSource(3, map[string]string{
		FieldRA:   "1.59417",
		FieldDec:  "-0.07364",
		FieldName: "FBQS J0006-0004",
		FieldZ:    "1.037",
		"epoch":   "2004.5",
	})

	assert.Equal(t, 3, s.Index)
	assert.Equal(t, 1.59417, s.InputLat)
	assert.Equal(t, -0.07364, s.InputLon)
	assert.Equal(t, 1.037, s.Z)
	assert.True(t, math.IsNaN(s.NEDLat))
	assert.True(t, math.IsNaN(s.NEDLon))
	assert.True(t, math.IsNaN(s.Reddening))
	assert.True(t, math.IsNaN(s.NEDOffset))
	assert.Equal(t, map[string]string{"epoch": "2004.5"}, s.Extra)
}

func TestNewSource_BadNumerics(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		check  func(t *testing.T, s *Source)
	}{
		{"missing position", map[string]string{FieldName: "M87"}, func(t *testing.T, s *Source) {
			assert.True(t, math.IsNaN(s.InputLat))
			assert.True(t, math.IsNaN(s.InputLon))
		}},
		{"malformed redshift", map[string]string{FieldName: "M87", FieldZ: "n/a"}, func(t *testing.T, s *Source) {
			assert.True(t, math.IsNaN(s.Z))
		}},
		{"negative redshift rejected", map[string]string{FieldName: "M87", FieldZ: "-0.2"}, func(t *testing.T, s *Source) {
			assert.True(t, math.IsNaN(s.Z))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, NewSource(1, tt.fields))
		})
	}
}

func TestSearchPosition(t *testing.T) {
	s := NewSource(1, map[string]string{FieldRA: "10.0", FieldDec: "20.0"})

	lat, lon := s.SearchPosition()
	assert.Equal(t, 10.0, lat)
	assert.Equal(t, 20.0, lon)

	s.NEDLat, s.NEDLon = 10.001, 20.001
	lat, lon = s.SearchPosition()
	assert.Equal(t, 10.001, lat)
	assert.Equal(t, 20.001, lon)
}

func TestSearchPosition_AlwaysReturnsPair(t *testing.T) {
	s := NewSource(1, map[string]string{FieldName: "M87"})
	lat, lon := s.SearchPosition()
	assert.True(t, math.IsNaN(lat))
	assert.True(t, math.IsNaN(lon))
}

func TestAngularOffset(t *testing.T) {
	// 10 arcsec along one axis.
	assert.InDelta(t, 10.0, AngularOffset(10.0, 20.0, 10.0+10.0/3600, 20.0), 1e-9)
	// Flat-sky: no cos(dec) correction, by contract.
	assert.InDelta(t, math.Hypot(3, 4), AngularOffset(0, 0, 3.0/3600, 4.0/3600), 1e-9)
}

func TestAdd_RejectsNonFinite(t *testing.T) {
	s := NewSource(1, map[string]string{FieldName: "M87", FieldZ: "0.004"})

	_, ok := s.add(CatalogNED, math.NaN(), 1.0, 0, 0, 0, FlagSingle, 1.0)
	assert.False(t, ok)
	_, ok = s.add(CatalogNED, 1e9, -2.0, 0, 0, 0, FlagSingle, 1.0)
	assert.False(t, ok)
	_, ok = s.add(CatalogNED, 1e9, math.Inf(1), 0, 0, 0, FlagSingle, 1.0)
	assert.False(t, ok)
	assert.Empty(t, s.Measurements)

	m, ok := s.add(CatalogNED, 1e9, 2.0, 0, 0, 0, FlagSingle, 1.0)
	assert.True(t, ok)
	assert.Equal(t, 1, m.Num)
	assert.Equal(t, "M87", m.Name)
	assert.Equal(t, 0.004, m.Z)
}
