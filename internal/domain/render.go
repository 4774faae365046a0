package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultTemplate reproduces the historical space-separated .dat record
// layout, one line per measurement.
const DefaultTemplate = "{index:%d}  {name:%s} {z:%.5f} {num:%d}   " +
	"{freq:%.3e} {flux:%.3e} {source:%s}  {flag:%c} " +
	"{lat:%.5f} {lon:%.5f} {offset:%.1f}  {extinction:%.3e}"

// placeholderRe matches {field} or {field:%verb} references.
var placeholderRe = regexp.MustCompile(`\{(\w+)(?::(%[^}]+))?\}`)

// measurementFields maps template field names to their default fmt verbs.
// Template validation runs against this set once, before any source is
// processed; an unknown field is the system's only hard abort.
var measurementFields = map[string]string{
	"index":      "%d",
	"name":       "%s",
	"z":          "%g",
	"num":        "%d",
	"freq":       "%g",
	"flux":       "%g",
	"source":     "%s",
	"flag":       "%c",
	"lat":        "%g",
	"lon":        "%g",
	"offset":     "%g",
	"extinction": "%g",
}

type templateSegment struct {
	literal string // used when field is empty
	field   string
	verb    string
}

// Template renders measurements through a caller-specified format string.
// Field references are validated at construction; rendering never fails.
type Template struct {
	segments []templateSegment
}

// NewTemplate compiles a format string with {field} / {field:%verb}
// placeholders. Referencing a field outside the known set fails here, fast,
// so a bad configuration aborts before the batch starts.
func NewTemplate(format string) (*Template, error) {
	var segments []templateSegment
	last := 0
	for _, loc := range placeholderRe.FindAllStringSubmatchIndex(format, -1) {
		if loc[0] > last {
			segments = append(segments, templateSegment{literal: format[last:loc[0]]})
		}
		name := format[loc[2]:loc[3]]
		defaultVerb, ok := measurementFields[name]
		if !ok {
			return nil, fmt.Errorf("output template references unknown field %q", name)
		}
		verb := defaultVerb
		if loc[4] >= 0 {
			verb = format[loc[4]:loc[5]]
		}
		segments = append(segments, templateSegment{field: name, verb: verb})
		last = loc[1]
	}
	if last < len(format) {
		segments = append(segments, templateSegment{literal: format[last:]})
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("output template is empty")
	}
	return &Template{segments: segments}, nil
}

// Render produces one output line for a measurement.
func (t *Template) Render(m Measurement) string {
	var sb strings.Builder
	for _, seg := range t.segments {
		if seg.field == "" {
			sb.WriteString(seg.literal)
			continue
		}
		fmt.Fprintf(&sb, seg.verb, fieldValue(m, seg.field))
	}
	return sb.String()
}

func fieldValue(m Measurement, name string) any {
	switch name {
	case "index":
		return m.Index
	case "name":
		return m.Name
	case "z":
		return m.Z
	case "num":
		return m.Num
	case "freq":
		return m.Freq
	case "flux":
		return m.Flux
	case "source":
		return string(m.Catalog)
	case "flag":
		return m.Flag
	case "lat":
		return m.Lat
	case "lon":
		return m.Lon
	case "offset":
		return m.OffsetFromNED
	case "extinction":
		return m.Extinction
	}
	return nil // unreachable: names are validated at construction
}

// PlotRow is one line of a source's plot table: rest-frame frequency and
// four luminosity columns, exactly one of which is non-zero.
type PlotRow struct {
	Freq    float64 // rest-frame frequency, Hz
	NED     float64 // W/Hz
	WISE    float64
	TwoMASS float64
	GALEX   float64
}

// PlotColumns names the plot table columns in output order.
var PlotColumns = []string{"rest_freq_hz", "lum_ned", "lum_wise", "lum_2mass", "lum_galex"}

// PlotRows converts a source's measurements, in append order, into plot
// rows: de-reddened rest-frame luminosity in the column matching each
// measurement's catalog.
func PlotRows(src *Source) []PlotRow {
	rows := make([]PlotRow, 0, len(src.Measurements))
	for _, m := range src.Measurements {
		row := PlotRow{Freq: RestFrequency(m.Z, m.Freq)}
		lum := Luminosity(m.Z, m.Flux, m.Extinction)
		switch m.Catalog {
		case CatalogNED:
			row.NED = lum
		case CatalogWISE:
			row.WISE = lum
		case CatalogTwoMASS:
			row.TwoMASS = lum
		case CatalogGALEX:
			row.GALEX = lum
		}
		rows = append(rows, row)
	}
	return rows
}
