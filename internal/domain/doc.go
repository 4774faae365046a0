// Package domain reconciles photometric measurements of one extragalactic
// object reported by independent catalogs into a single spectral energy
// distribution (SED) record.
//
// # Catalogs
//
// NED (NASA/IPAC Extragalactic Database) is the primary catalog: it resolves
// an object name to a J2000.0 equatorial position and a redshift-anchored
// photometry table. WISE (4-band mid-infrared) and 2MASS (3-band
// near-infrared) are magnitude surveys queried by position through IRSA
// Gator. GALEX (2-band ultraviolet) reports flux directly in microjanskys
// together with a per-detection line-of-sight reddening.
//
// # Catalog data conventions
//
// Positions:
//
//	Decimal degrees, J2000.0 equatorial. NED position columns are
//	"pos_ra_equ_J2000_d" / "pos_dec_equ_J2000_d"; Gator catalogs use
//	"ra" / "dec". Angular offsets between catalog entries use the
//	flat-sky approximation hypot(Δra, Δdec)·3600 arcsec. This
//	under-corrects at high declination, but the 10 arcsec matching
//	tolerance is calibrated against exactly this metric, so switching
//	to a spherical separation would silently change which detections
//	are accepted.
//
// Magnitude surveys:
//
//	flux(Jy) = zeropoint · 10^(−0.4·mag)
//
//	WISE:  w1mpro..w4mpro, zero points 306.682/170.663/29.045/8.284 Jy at
//	       8.856e13/6.445e13/2.675e13/1.346e13 Hz.
//	2MASS: j_m/h_m/k_m, zero points 1594/1024/667 Jy at
//	       2.429e14/1.805e14/1.390e14 Hz. When a WISE row carries the
//	       cross-matched "j_m_2mass"/"h_m_2mass"/"k_m_2mass" columns the
//	       separate 2MASS query is skipped and the same row is reused.
//	Null magnitudes decode to NaN; the legacy 99.0 null convention is
//	also treated as "no data".
//
// GALEX:
//
//	fuv_flux / nuv_flux in µJy (divided by 1e6 on ingest), e_bv reddening
//	per detection. Each band independently filters its detections to
//	within-tolerance, positive-flux, valid-reddening rows and averages
//	position, flux, and reddening with an unweighted arithmetic mean.
//	A band whose every detection is filtered out contributes nothing;
//	no placeholder measurement is emitted, matching the other catalogs.
//
// NED photometry filtering:
//
//	Literature "line" entries, one known-unreliable reference code,
//	anything marked "model", and "count statistics" rows are rejected,
//	as are passbands from the low-quality instrument/aperture list.
//	"(SDSS …)" passbands are exempt from the instrument list unless they
//	are a PSF variant.
//
// Unset numeric values are represented as NaN throughout: input positions a
// caller never supplied, a redshift that failed to parse, a reddening the
// extinction map could not provide. Callers test with math.IsNaN rather
// than comparing against zero, which is a legitimate coordinate.
//
// # Record layout
//
// A Source owns its Measurements for its whole lifetime; measurements are
// appended in catalog discovery order (NED first, then the surveys) and
// never reordered. Every Measurement copies the Source-level fields it
// needs at construction time and is immutable afterwards.
package domain
