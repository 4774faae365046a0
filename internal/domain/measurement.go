package domain

// Catalog identifies which survey a measurement came from.
type Catalog string

const (
	CatalogNED     Catalog = "NED"
	CatalogWISE    Catalog = "WISE"
	CatalogTwoMASS Catalog = "2MASS"
	CatalogGALEX   Catalog = "GALEX"
)

// Measurement flags. FlagSingle marks a measurement backed by one catalog
// detection; FlagAveraged marks one produced by averaging several raw
// detections of the same object (GALEX).
const (
	FlagSingle   byte = 'a'
	FlagAveraged byte = 'm'
)

// Measurement is one reconciled flux-density point of a Source's SED.
// It is a pure value object: Source-level fields (Index, Name, Z) are
// copied in when the measurement is constructed and never written again.
type Measurement struct {
	Index int     // batch sequence index of the owning source
	Name  string  // owning source identity
	Z     float64 // owning source redshift
	Num   int     // 1-based position within the source, contiguous

	Freq float64 // observed frequency, Hz; positive finite
	Flux float64 // observed flux density, Jy; positive finite

	Catalog Catalog
	Flag    byte

	Lat float64 // detection position, decimal degrees
	Lon float64

	// OffsetFromNED is the flat-sky angular separation in arcseconds
	// between the detection and the source's NED position. Zero for NED's
	// own photometry.
	OffsetFromNED float64

	// Extinction is the multiplicative de-reddening factor for Flux.
	// 1.0 when no reddening value was available.
	Extinction float64
}
