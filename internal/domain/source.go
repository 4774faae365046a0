package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Source represents one extragalactic object assembled from a single input
// line. Numeric fields use NaN as the "not yet resolved" value.
type Source struct {
	Index int    // batch sequence index (input line order)
	Name  string // resolved identity; "" when no identity could be derived
	AltID string // alternate catalog id, tried when the name lookup fails

	InputLat float64 // caller-supplied position, degrees; NaN when unset
	InputLon float64

	NEDLat float64 // position resolved from NED; NaN until resolved
	NEDLon float64

	// NEDOffset is the flat-sky separation in arcseconds between the NED
	// position and the caller-supplied input position. NaN until both are
	// known.
	NEDOffset float64

	Z         float64 // redshift; NaN until parsed, never negative
	Reddening float64 // E(B-V); NaN until the extinction map resolves it

	// Extra carries caller-defined input fields that are not part of the
	// fixed Source schema. Populated once at construction, read-only after.
	Extra map[string]string

	// Measurements in catalog discovery order. Appended to only by the
	// normalizers, never reordered.
	Measurements []Measurement
}

// Fixed input field names recognized by NewSource. Anything else in the
// parsed line lands in Source.Extra.
const (
	FieldRA    = "ra"
	FieldDec   = "dec"
	FieldName  = "name"
	FieldAltID = "alt_id"
	FieldZ     = "z"
)

// NewSource builds a Source from one parsed input line. Identity resolution
// priority: catalog name, then alternate id, then a name synthesized from
// the rounded input coordinates. A Source with no derivable identity is
// still returned; downstream catalog queries that need one are skipped.
func NewSource(index int, fields map[string]string) *Source {
	s := &Source{
		Index:     index,
		AltID:     strings.TrimSpace(fields[FieldAltID]),
		InputLat:  parseCoord(fields[FieldRA]),
		InputLon:  parseCoord(fields[FieldDec]),
		NEDLat:    math.NaN(),
		NEDLon:    math.NaN(),
		NEDOffset: math.NaN(),
		Z:         parseRedshift(fields[FieldZ]),
		Reddening: math.NaN(),
	}

	for name, value := range fields {
		switch name {
		case FieldRA, FieldDec, FieldName, FieldAltID, FieldZ:
		default:
			if s.Extra == nil {
				s.Extra = make(map[string]string)
			}
			s.Extra[name] = value
		}
	}

	switch {
	case strings.TrimSpace(fields[FieldName]) != "":
		s.Name = strings.TrimSpace(fields[FieldName])
	case s.AltID != "":
		s.Name = s.AltID
	case !math.IsNaN(s.InputLat) && !math.IsNaN(s.InputLon):
		s.Name = fmt.Sprintf("J%.4f%+.4f", s.InputLat, s.InputLon)
	}

	return s
}

// SearchPosition returns the position used for all cross-matching: the NED
// position when resolved, otherwise the caller-supplied input position.
// Either component may still be NaN; callers must check before using the
// pair numerically.
func (s *Source) SearchPosition() (lat, lon float64) {
	if !math.IsNaN(s.NEDLat) && !math.IsNaN(s.NEDLon) {
		return s.NEDLat, s.NEDLon
	}
	return s.InputLat, s.InputLon
}

// CompactName returns the identity with interior whitespace removed, the
// form used in output records.
func (s *Source) CompactName() string {
	return strings.ReplaceAll(s.Name, " ", "")
}

// add constructs a Measurement inheriting the Source-level fields and
// appends it. Measurements with non-finite or non-positive flux or
// frequency are never retained.
func (s *Source) add(catalog Catalog, freq, flux, lat, lon, offset float64, flag byte, extinction float64) (Measurement, bool) {
	if !isPositiveFinite(freq) || !isPositiveFinite(flux) {
		return Measurement{}, false
	}
	m := Measurement{
		Index:         s.Index,
		Name:          s.CompactName(),
		Z:             s.Z,
		Num:           len(s.Measurements) + 1,
		Freq:          freq,
		Flux:          flux,
		Catalog:       catalog,
		Flag:          flag,
		Lat:           lat,
		Lon:           lon,
		OffsetFromNED: offset,
		Extinction:    extinction,
	}
	s.Measurements = append(s.Measurements, m)
	return m, true
}

// AngularOffset returns the flat-sky separation between two positions in
// arcseconds: hypot(Δlat, Δlon)·3600. Part of the observed matching
// contract; not a spherical separation.
func AngularOffset(lat1, lon1, lat2, lon2 float64) float64 {
	return math.Hypot(lat1-lat2, lon1-lon2) * 3600
}

// parseCoord parses a signed decimal coordinate, NaN when absent or bad.
func parseCoord(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseRedshift parses a redshift, NaN when absent, malformed, or negative.
func parseRedshift(s string) float64 {
	v := parseCoord(s)
	if v < 0 {
		return math.NaN()
	}
	return v
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
