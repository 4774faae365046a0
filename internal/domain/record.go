package domain

import (
	"math"
	"time"
)

// Record is the serialized reconciled form of one source, the shape
// published to the sink and consumed by downstream plotters.
type Record struct {
	Index        int                 `json:"index"`
	Name         string              `json:"name"`
	Z            float64             `json:"z"`
	NEDLat       float64             `json:"ned_lat"`
	NEDLon       float64             `json:"ned_lon"`
	Reddening    float64             `json:"reddening"`
	Measurements []RecordMeasurement `json:"measurements"`
	ProcessedAt  time.Time           `json:"processed_at"`
}

// RecordMeasurement is the JSON form of one measurement.
type RecordMeasurement struct {
	Num        int     `json:"num"`
	Freq       float64 `json:"freq_hz"`
	Flux       float64 `json:"flux_jy"`
	Catalog    Catalog `json:"catalog"`
	Flag       string  `json:"flag"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Offset     float64 `json:"offset_arcsec"`
	Extinction float64 `json:"extinction"`
}

// NewRecord snapshots a source after all normalizers have run. The
// timestamp comes from the package clock so tests can freeze it.
func NewRecord(src *Source) Record {
	ms := make([]RecordMeasurement, len(src.Measurements))
	for i, m := range src.Measurements {
		ms[i] = RecordMeasurement{
			Num:        m.Num,
			Freq:       m.Freq,
			Flux:       m.Flux,
			Catalog:    m.Catalog,
			Flag:       string(m.Flag),
			Lat:        m.Lat,
			Lon:        m.Lon,
			Offset:     m.OffsetFromNED,
			Extinction: m.Extinction,
		}
	}
	return Record{
		Index:        src.Index,
		Name:         src.CompactName(),
		Z:            jsonSafe(src.Z),
		NEDLat:       jsonSafe(src.NEDLat),
		NEDLon:       jsonSafe(src.NEDLon),
		Reddening:    jsonSafe(src.Reddening),
		Measurements: ms,
		ProcessedAt:  clock.Now(),
	}
}

// jsonSafe maps the NaN "unset" sentinel (and infinities) to zero, which
// encoding/json can represent. Measurements never carry non-finite values,
// so only the source-level fields need this.
func jsonSafe(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
