// Command genvotable writes synthetic catalog-service fixtures: one VOTable
// per catalog plus a DUST reddening document, shaped like the real NED and
// IRSA responses for a single source. It runs the generated tables through
// the actual normalizers so the printed counts match pipeline behavior and
// can be pasted into test assertions.
//
// Usage:
//
//	go run ./cmd/genvotable \
//	  -out testdata/pks1306 \
//	  -name "PKS 1306-09" -ra 197.16345 -dec -9.84206 -z 0.46685
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/astrofuse/sedfuse/internal/adapter/votable"
	"github.com/astrofuse/sedfuse/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for fixture files")
	name := flag.String("name", "PKS 1306-09", "source name")
	ra := flag.Float64("ra", 197.16345, "right ascension, degrees")
	dec := flag.Float64("dec", -9.84206, "declination, degrees")
	z := flag.Float64("z", 0.46685, "redshift")
	seed := flag.Int64("seed", 1, "magnitude jitter seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))

	fixtures := map[string]string{
		"position.xml":   positionDoc(*ra, *dec),
		"photometry.xml": photometryDoc(rng),
		"wise.xml":       wiseDoc(*ra, *dec, rng),
		"twomass.xml":    twoMASSDoc(*ra, *dec, rng),
		"galex.xml":      galexDoc(*ra, *dec, rng),
		"dust.xml":       dustDoc(rng),
	}
	for file, doc := range fixtures {
		path := filepath.Join(*out, file)
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", file, err)
		}
		log.Printf("wrote %s", path)
	}

	return printExpectations(fixtures, *name, *ra, *dec, *z)
}

// printExpectations replays the fixtures through the real parser and
// normalizers and prints the per-catalog accepted counts.
func printExpectations(fixtures map[string]string, name string, ra, dec, z float64) error {
	src := domain.NewSource(1, map[string]string{
		domain.FieldName: name,
		domain.FieldRA:   fmt.Sprintf("%.5f", ra),
		domain.FieldDec:  fmt.Sprintf("%.5f", dec),
		domain.FieldZ:    fmt.Sprintf("%g", z),
	})

	position, err := votable.Parse(bytes.NewReader([]byte(fixtures["position.xml"])))
	if err != nil {
		return fmt.Errorf("position fixture: %w", err)
	}
	if err := domain.ResolveNEDPosition(src, position); err != nil {
		return fmt.Errorf("position fixture: %w", err)
	}

	wiseTable, err := votable.Parse(bytes.NewReader([]byte(fixtures["wise.xml"])))
	if err != nil {
		return fmt.Errorf("wise fixture: %w", err)
	}

	runs := []struct {
		file       string
		normalizer domain.Normalizer
	}{
		{"photometry.xml", domain.NewSEDNormalizer()},
		{"wise.xml", domain.NewWISENormalizer()},
		{"twomass.xml", domain.NewTwoMASSNormalizer(false)},
		{"galex.xml", domain.NewGALEXNormalizer()},
	}

	fmt.Println("\n=== Expected counts for test assertions ===")
	for _, r := range runs {
		table, err := votable.Parse(bytes.NewReader([]byte(fixtures[r.file])))
		if err != nil {
			return fmt.Errorf("%s: %w", r.file, err)
		}
		added, err := r.normalizer.Normalize(src, table)
		if err != nil {
			fmt.Printf("%-8s no data (%v)\n", r.normalizer.CatalogName(), err)
			continue
		}
		fmt.Printf("%-8s %d measurements\n", r.normalizer.CatalogName(), len(added))
	}
	fmt.Printf("inline 2MASS columns in WISE fixture: %v\n", domain.HasInlineTwoMASS(wiseTable))
	fmt.Printf("total measurements: %d\n", len(src.Measurements))
	return nil
}

const voHeader = `<?xml version="1.0" encoding="UTF-8"?>
<VOTABLE version="1.1">
<RESOURCE type="results">
<TABLE>
`

const voFooter = `</TABLEDATA>
</DATA>
</TABLE>
</RESOURCE>
</VOTABLE>
`

func positionDoc(ra, dec float64) string {
	var b bytes.Buffer
	b.WriteString(voHeader)
	b.WriteString(`<FIELD name="pos_ra_equ_J2000_d" datatype="double"/>
<FIELD name="pos_dec_equ_J2000_d" datatype="double"/>
<DATA>
<TABLEDATA>
`)
	fmt.Fprintf(&b, "<TR><TD>%.5f</TD><TD>%.5f</TD></TR>\n", ra, dec)
	b.WriteString(voFooter)
	return b.String()
}

func photometryDoc(rng *rand.Rand) string {
	var b bytes.Buffer
	b.WriteString(voHeader)
	b.WriteString(`<FIELD name="Observed Passband"/>
<FIELD name="Frequency" datatype="double"/>
<FIELD name="NED Photometry Measurement" datatype="double"/>
<FIELD name="Refcode"/>
<FIELD name="Qualifiers"/>
<DATA>
<TABLEDATA>
`)
	row := func(passband string, freq, flux float64, refcode, qualifiers string) {
		fmt.Fprintf(&b, "<TR><TD>%s</TD><TD>%.4e</TD><TD>%.4e</TD><TD>%s</TD><TD>%s</TD></TR>\n",
			passband, freq, flux, refcode, qualifiers)
	}

	// Radio through optical continuum entries, roughly a falling power law.
	bands := []struct {
		passband string
		freq     float64
	}{
		{"1.4 GHz (NVSS)", 1.4e9},
		{"4.85 GHz (PMN)", 4.85e9},
		{"8.4 GHz (VLA)", 8.4e9},
		{"K_s (2MASS) AB", 1.39e14},
		{"V (Johnson)", 5.45e14},
	}
	for _, band := range bands {
		flux := 2.0 * (1 + rng.Float64()) * 1.4e9 / band.freq
		row(band.passband, band.freq, flux, "2010ApJS..189....1A", "")
	}

	// Rows the SED filter must reject.
	row("H-alpha line", 4.57e14, 1.2e-3, "2001AJ....121.1234X", "")
	row("2.7 GHz", 2.7e9, 1.9, "1980ApJS...43...57H", "")
	row("F606W (HST WFPC2)", 4.95e14, 3.1e-4, "2005ApJ....99..123Y", "")
	row("r (SDSS PSF) AB", 4.81e14, 2.5e-4, "2009ApJS..182..543A", "")
	// And one SDSS aperture row it must keep.
	row("r (SDSS) AB", 4.81e14, 2.8e-4, "2009ApJS..182..543A", "")
	b.WriteString(voFooter)
	return b.String()
}

func wiseDoc(ra, dec float64, rng *rand.Rand) string {
	var b bytes.Buffer
	b.WriteString(voHeader)
	b.WriteString(`<FIELD name="ra" datatype="double"/>
<FIELD name="dec" datatype="double"/>
<FIELD name="w1mpro" datatype="double"/>
<FIELD name="w2mpro" datatype="double"/>
<FIELD name="w3mpro" datatype="double"/>
<FIELD name="w4mpro" datatype="double"/>
<FIELD name="j_m_2mass" datatype="double"/>
<FIELD name="h_m_2mass" datatype="double"/>
<FIELD name="k_m_2mass" datatype="double"/>
<DATA>
<TABLEDATA>
`)
	fmt.Fprintf(&b, "<TR><TD>%.6f</TD><TD>%.6f</TD><TD>%.3f</TD><TD>%.3f</TD><TD>%.3f</TD><TD>99.0</TD><TD>%.3f</TD><TD>%.3f</TD><TD></TD></TR>\n",
		ra+1e-5, dec-1e-5,
		11+rng.Float64(), 11+rng.Float64(), 8+rng.Float64(),
		14+rng.Float64(), 13+rng.Float64())
	// A second detection well outside the matching tolerance.
	fmt.Fprintf(&b, "<TR><TD>%.6f</TD><TD>%.6f</TD><TD>%.3f</TD><TD></TD><TD></TD><TD></TD><TD></TD><TD></TD><TD></TD></TR>\n",
		ra+0.01, dec, 12+rng.Float64())
	b.WriteString(voFooter)
	return b.String()
}

func twoMASSDoc(ra, dec float64, rng *rand.Rand) string {
	var b bytes.Buffer
	b.WriteString(voHeader)
	b.WriteString(`<FIELD name="ra" datatype="double"/>
<FIELD name="dec" datatype="double"/>
<FIELD name="j_m" datatype="double"/>
<FIELD name="h_m" datatype="double"/>
<FIELD name="k_m" datatype="double"/>
<DATA>
<TABLEDATA>
`)
	fmt.Fprintf(&b, "<TR><TD>%.6f</TD><TD>%.6f</TD><TD>%.3f</TD><TD>%.3f</TD><TD>%.3f</TD></TR>\n",
		ra, dec, 14+rng.Float64(), 13.5+rng.Float64(), 13+rng.Float64())
	b.WriteString(voFooter)
	return b.String()
}

func galexDoc(ra, dec float64, rng *rand.Rand) string {
	var b bytes.Buffer
	b.WriteString(voHeader)
	b.WriteString(`<FIELD name="ra" datatype="double"/>
<FIELD name="dec" datatype="double"/>
<FIELD name="fuv_flux" datatype="double"/>
<FIELD name="nuv_flux" datatype="double"/>
<FIELD name="e_bv" datatype="double"/>
<DATA>
<TABLEDATA>
`)
	for i := 0; i < 2; i++ {
		fmt.Fprintf(&b, "<TR><TD>%.6f</TD><TD>%.6f</TD><TD>%.3f</TD><TD>%.3f</TD><TD>%.4f</TD></TR>\n",
			ra+float64(i)*1e-5, dec,
			2+3*rng.Float64(), 6+5*rng.Float64(), 0.02+0.04*rng.Float64())
	}
	b.WriteString(voFooter)
	return b.String()
}

func dustDoc(rng *rand.Rand) string {
	ebv := 0.02 + 0.04*rng.Float64()
	return fmt.Sprintf(`<?xml version="1.0"?>
<results status="ok">
  <result>
    <desc>E(B-V) Reddening</desc>
    <statistics>
      <refPixelValueSandF>%.4f (mag)</refPixelValueSandF>
      <meanValueSandF>%.4f (mag)</meanValueSandF>
    </statistics>
  </result>
</results>
`, ebv*1.04, ebv)
}
