package domain

import "math"

// Fixed ΛCDM cosmology used for all distance and luminosity conversions.
const (
	omegaMatter = 0.27
	omegaLambda = 0.73
	omegaCurve  = 1 - omegaMatter - omegaLambda
	hubbleZero  = 71.0 // km/s/Mpc

	metersPerMpc = 3.086e22

	// integrationSteps partitions (0, z] for the comoving-distance
	// quadrature.
	integrationSteps = 10000
)

// expansionRate is the dimensionless Hubble function E(z).
func expansionRate(z float64) float64 {
	zp := 1 + z
	return math.Sqrt(omegaMatter*zp*zp*zp + omegaCurve*zp*zp + omegaLambda)
}

// ComovingDistance returns the line-of-sight comoving distance in Mpc,
// integrating 1/E over (0, z] with the trapezoidal rule on 10,000 equal
// samples. The z'=0 sample is skipped; the omitted [0, h) sliver is far
// below the precision of any plotted quantity. z = 0 (or an unusable z)
// short-circuits to 0 without integrating.
func ComovingDistance(z float64) float64 {
	if z <= 0 || math.IsNaN(z) || math.IsInf(z, 0) {
		return 0
	}

	h := z / integrationSteps
	integral := 0.0
	prev := 1 / expansionRate(h)
	for i := 2; i <= integrationSteps; i++ {
		next := 1 / expansionRate(float64(i) * h)
		integral += (prev + next) / 2 * h
		prev = next
	}

	return speedOfLight / 1000 / hubbleZero * integral
}

// LuminosityDistance returns the luminosity distance in meters. Flat
// universe: the transverse comoving distance equals the line-of-sight one.
func LuminosityDistance(z float64) float64 {
	if z <= 0 || math.IsNaN(z) || math.IsInf(z, 0) {
		return 0
	}
	return (1 + z) * ComovingDistance(z) * metersPerMpc
}

// Luminosity converts an observed flux density (Jy) with its extinction
// factor into a rest-frame luminosity (W/Hz):
//
//	L = 4π d_L² · flux · extinction · 1e−26 / (1+z)
//
// z = 0 is degenerate (zero distance) and yields zero for any flux.
func Luminosity(z, flux, extinction float64) float64 {
	dL := LuminosityDistance(z)
	if dL == 0 {
		return 0
	}
	return 4 * math.Pi * dL * dL * flux * extinction * 1e-26 / (1 + z)
}

// RestFrequency applies the K-correction to an observed frequency.
func RestFrequency(z, freq float64) float64 {
	return (1 + z) * freq
}
