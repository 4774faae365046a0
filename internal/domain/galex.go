package domain

import (
	"math"
)

// GALEX per-detection reddening column, magnitudes of E(B-V).
const galexReddeningColumn = "e_bv"

// UVBand is one GALEX band. GALEX reports flux directly in microjanskys,
// so no zero point applies.
type UVBand struct {
	Name       string
	FluxColumn string  // µJy flux column
	Freq       float64 // band rest frequency, Hz
}

func galexBands() []UVBand {
	return []UVBand{
		{Name: "FUV", FluxColumn: "fuv_flux", Freq: 1.963e15},
		{Name: "NUV", FluxColumn: "nuv_flux", Freq: 1.298e15},
	}
}

// UVNormalizer converts a GALEX detection list into at most one measurement
// per band by averaging the detections that survive filtering.
type UVNormalizer struct {
	bands     []UVBand
	tolerance float64
}

// NewGALEXNormalizer returns the 2-band GALEX normalizer.
func NewGALEXNormalizer() *UVNormalizer {
	return &UVNormalizer{bands: galexBands(), tolerance: MatchingTolerance}
}

// CatalogName identifies the catalog this normalizer consumes.
func (n *UVNormalizer) CatalogName() Catalog { return CatalogGALEX }

// Normalize processes each band independently: detections within tolerance
// of the search position, with positive finite flux and a valid positive
// reddening, are averaged (position, flux, reddening, all unweighted) into one
// measurement. Flux converts from µJy to Jy. The measurement is flagged as
// averaged when the raw response held more than one detection. A band whose
// every detection is filtered out emits nothing. ErrNoData when neither
// band survives.
func (n *UVNormalizer) Normalize(src *Source, table *Table) ([]Measurement, error) {
	searchLat, searchLon := src.SearchPosition()
	if math.IsNaN(searchLat) || math.IsNaN(searchLon) {
		return nil, ErrNoData
	}

	flag := FlagSingle
	if table.Len() > 1 {
		flag = FlagAveraged
	}

	var added []Measurement
	for _, band := range n.bands {
		var latSum, lonSum, fluxSum, ebvSum float64
		count := 0
		for row := 0; row < table.Len(); row++ {
			lat := table.Float(gatorRAColumn, row)
			lon := table.Float(gatorDecColumn, row)
			if math.IsNaN(lat) || math.IsNaN(lon) {
				continue
			}
			if !WithinTolerance(AngularOffset(searchLat, searchLon, lat, lon), n.tolerance) {
				continue
			}
			flux := table.Float(band.FluxColumn, row)
			if !isPositiveFinite(flux) {
				continue
			}
			ebv := table.Float(galexReddeningColumn, row)
			if !isPositiveFinite(ebv) {
				continue
			}
			latSum += lat
			lonSum += lon
			fluxSum += flux
			ebvSum += ebv
			count++
		}
		if count == 0 {
			continue
		}

		fc := float64(count)
		lat, lon := latSum/fc, lonSum/fc
		fluxJy := fluxSum / fc / 1e6
		ebv := ebvSum / fc
		offset := AngularOffset(searchLat, searchLon, lat, lon)
		ext := ExtinctionFactor(ebv, band.Freq)
		if m, ok := src.add(CatalogGALEX, band.Freq, fluxJy, lat, lon, offset, flag, ext); ok {
			added = append(added, m)
		}
	}

	if len(added) == 0 {
		return nil, ErrNoData
	}
	return added, nil
}
