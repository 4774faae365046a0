package domain

import (
	"math"
)

// MatchingTolerance is the maximum flat-sky separation, in arcseconds,
// between a survey detection and the source's search position for the
// detection to be treated as the same object.
const MatchingTolerance = 10.0

// noDataMagnitude is the legacy survey null convention; magnitudes at or
// beyond it mean "band not measured". Proper nulls decode to NaN.
const noDataMagnitude = 99.0

// Gator catalog position columns.
const (
	gatorRAColumn  = "ra"
	gatorDecColumn = "dec"
)

// Band is one photometric band of a magnitude survey.
type Band struct {
	Name      string
	Column    string  // magnitude column in the catalog response
	Freq      float64 // band rest frequency, Hz
	ZeroPoint float64 // flux density at magnitude 0, Jy
}

// Inline 2MASS columns carried on a cross-matched WISE row. When present,
// the separate 2MASS query is skipped and the WISE response is reused.
var inlineTwoMASSColumns = []string{"j_m_2mass", "h_m_2mass", "k_m_2mass"}

// wiseBands: WISE all-sky W1–W4 profile-fit magnitudes.
func wiseBands() []Band {
	return []Band{
		{Name: "W1", Column: "w1mpro", Freq: 8.856e13, ZeroPoint: 306.682},
		{Name: "W2", Column: "w2mpro", Freq: 6.445e13, ZeroPoint: 170.663},
		{Name: "W3", Column: "w3mpro", Freq: 2.675e13, ZeroPoint: 29.045},
		{Name: "W4", Column: "w4mpro", Freq: 1.346e13, ZeroPoint: 8.284},
	}
}

// twoMASSBands: 2MASS point-source J/H/Ks magnitudes. inline selects the
// column names used when the magnitudes ride along on a WISE row.
func twoMASSBands(inline bool) []Band {
	bands := []Band{
		{Name: "J", Column: "j_m", Freq: 2.429e14, ZeroPoint: 1594},
		{Name: "H", Column: "h_m", Freq: 1.805e14, ZeroPoint: 1024},
		{Name: "K", Column: "k_m", Freq: 1.390e14, ZeroPoint: 667},
	}
	if inline {
		for i := range bands {
			bands[i].Column += "_2mass"
		}
	}
	return bands
}

// SurveyNormalizer converts magnitude-survey rows (WISE, 2MASS) into
// measurements: one per band per within-tolerance row. All catalog-specific
// behavior lives in its configuration, not in per-catalog code paths.
type SurveyNormalizer struct {
	catalog   Catalog
	bands     []Band
	tolerance float64
}

// NewWISENormalizer returns the 4-band WISE normalizer.
func NewWISENormalizer() *SurveyNormalizer {
	return &SurveyNormalizer{catalog: CatalogWISE, bands: wiseBands(), tolerance: MatchingTolerance}
}

// NewTwoMASSNormalizer returns the 3-band 2MASS normalizer. Pass inline
// true when reading the 2MASS magnitudes off a cross-matched WISE row.
func NewTwoMASSNormalizer(inline bool) *SurveyNormalizer {
	return &SurveyNormalizer{catalog: CatalogTwoMASS, bands: twoMASSBands(inline), tolerance: MatchingTolerance}
}

// CatalogName identifies the catalog this normalizer consumes.
func (n *SurveyNormalizer) CatalogName() Catalog { return n.catalog }

// HasInlineTwoMASS reports whether a WISE response row carries the
// cross-matched 2MASS magnitudes.
func HasInlineTwoMASS(table *Table) bool {
	for _, col := range inlineTwoMASSColumns {
		if !table.HasColumn(col) {
			return false
		}
	}
	return table.Len() > 0
}

// Normalize appends up to len(bands) measurements per catalog row. A band
// is dropped when the catalog reports no data for it or the converted flux
// is not positive finite; a whole row is dropped when its offset from the
// source's search position exceeds the tolerance. ErrNoData when nothing
// survives.
func (n *SurveyNormalizer) Normalize(src *Source, table *Table) ([]Measurement, error) {
	searchLat, searchLon := src.SearchPosition()
	if math.IsNaN(searchLat) || math.IsNaN(searchLon) {
		return nil, ErrNoData
	}

	var added []Measurement
	for row := 0; row < table.Len(); row++ {
		lat := table.Float(gatorRAColumn, row)
		lon := table.Float(gatorDecColumn, row)
		if math.IsNaN(lat) || math.IsNaN(lon) {
			continue
		}
		offset := AngularOffset(searchLat, searchLon, lat, lon)
		if !WithinTolerance(offset, n.tolerance) {
			continue
		}

		for _, band := range n.bands {
			mag := table.Float(band.Column, row)
			if math.IsNaN(mag) || mag >= noDataMagnitude {
				continue
			}
			flux := MagnitudeToFlux(mag, band.ZeroPoint)
			ext := ExtinctionFactor(src.Reddening, band.Freq)
			if m, ok := src.add(n.catalog, band.Freq, flux, lat, lon, offset, FlagSingle, ext); ok {
				added = append(added, m)
			}
		}
	}

	if len(added) == 0 {
		return nil, ErrNoData
	}
	return added, nil
}

// WithinTolerance reports whether an angular offset in arcseconds is an
// acceptable cross-match. The boundary is inclusive: a detection at exactly
// the tolerance is the same object.
func WithinTolerance(offset, tolerance float64) bool {
	return offset <= tolerance
}

// MagnitudeToFlux converts a magnitude to a flux density in janskys:
// zeropoint · 10^(−0.4·mag).
func MagnitudeToFlux(mag, zeroPoint float64) float64 {
	return zeroPoint * math.Pow(10, -0.4*mag)
}
