package domain

import (
	"errors"
	"math"
	"regexp"
	"strings"
)

// ErrNoData reports a catalog response that contributed zero measurements:
// missing columns, an empty table, or every row filtered out. It is a soft
// failure; the caller logs it and moves on to the next catalog.
var ErrNoData = errors.New("catalog response contributed no data")

// NED object-search position columns (J2000.0 decimal degrees).
const (
	nedRAColumn  = "pos_ra_equ_J2000_d"
	nedDecColumn = "pos_dec_equ_J2000_d"
)

// NED photometry table columns.
const (
	nedFreqColumn      = "Frequency"
	nedFluxColumn      = "NED Photometry Measurement"
	nedRefcodeColumn   = "Refcode"
	nedQualifierColumn = "Qualifiers"
	nedPassbandColumn  = "Observed Passband"
)

// unreliableRefcode is the one literature reference whose photometry is
// excluded wholesale; its fluxes disagree with every later remeasurement.
const unreliableRefcode = "1980ApJS...43...57H"

var (
	// sedLineEntryRe matches literature emission/absorption "line" entries,
	// which are not continuum flux densities.
	sedLineEntryRe = regexp.MustCompile(`(?i)\bline\b`)

	// passbandDenyRe lists instruments and aperture conventions whose NED
	// photometry mixes resolutions too freely to combine with the surveys.
	// SDSS entries are rescued below unless they are a PSF variant.
	passbandDenyRe = regexp.MustCompile(`(?i)HST|WFPC2|WFC3|ACS|NICMOS|SDSS|PSF|petrosian|kron|isophotal|de Vaucouleurs|fiber`)
)

// ResolveNEDPosition extracts the equatorial position from a NED
// object-search response, records it on the source, and derives the offset
// from the caller-supplied input position. ErrNoData when the response has
// no usable position.
func ResolveNEDPosition(src *Source, table *Table) error {
	lat := table.ScalarFloat(nedRAColumn)
	lon := table.ScalarFloat(nedDecColumn)
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return ErrNoData
	}

	src.NEDLat = lat
	src.NEDLon = lon
	if !math.IsNaN(src.InputLat) && !math.IsNaN(src.InputLon) {
		src.NEDOffset = AngularOffset(src.InputLat, src.InputLon, lat, lon)
	}
	return nil
}

// SEDNormalizer converts a NED photometry table into measurements.
type SEDNormalizer struct{}

// NewSEDNormalizer returns the normalizer for NED photometry responses.
func NewSEDNormalizer() *SEDNormalizer { return &SEDNormalizer{} }

// CatalogName identifies the catalog this normalizer consumes.
func (n *SEDNormalizer) CatalogName() Catalog { return CatalogNED }

// Normalize appends one measurement per photometry row that survives the
// reliability filter. Retained rows sit at the source's NED position with
// zero offset. ErrNoData when nothing survives.
func (n *SEDNormalizer) Normalize(src *Source, table *Table) ([]Measurement, error) {
	if !table.HasColumn(nedFreqColumn) || !table.HasColumn(nedFluxColumn) {
		return nil, ErrNoData
	}

	var added []Measurement
	for row := 0; row < table.Len(); row++ {
		refcode, _ := table.Cell(nedRefcodeColumn, row)
		qualifiers, _ := table.Cell(nedQualifierColumn, row)
		passband, _ := table.Cell(nedPassbandColumn, row)
		if rejectSEDRow(refcode, qualifiers, passband) {
			continue
		}

		freq := table.Float(nedFreqColumn, row)
		flux := table.Float(nedFluxColumn, row)
		ext := ExtinctionFactor(src.Reddening, freq)
		if m, ok := src.add(CatalogNED, freq, flux, src.NEDLat, src.NEDLon, 0, FlagSingle, ext); ok {
			added = append(added, m)
		}
	}

	if len(added) == 0 {
		return nil, ErrNoData
	}
	return added, nil
}

// rejectSEDRow applies the NED reliability denylist. Free-text rules run
// over all three annotation fields; the passband instrument list exempts
// non-PSF "(SDSS …)" entries.
func rejectSEDRow(refcode, qualifiers, passband string) bool {
	if strings.TrimSpace(refcode) == unreliableRefcode {
		return true
	}
	for _, field := range []string{refcode, qualifiers, passband} {
		lower := strings.ToLower(field)
		if strings.Contains(lower, "model") || strings.Contains(lower, "count statistics") {
			return true
		}
		if sedLineEntryRe.MatchString(field) {
			return true
		}
	}
	if passbandDenyRe.MatchString(passband) {
		if strings.Contains(passband, "(SDSS") && !strings.Contains(passband, "PSF") {
			return false
		}
		return true
	}
	return false
}
