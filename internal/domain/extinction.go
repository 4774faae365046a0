package domain

import "math"

// speedOfLight in m/s, the value shared by the extinction and cosmology
// calculations.
const speedOfLight = 2.99793e8

// totalToSelectiveRatio is R_V, fixed at the diffuse-ISM value.
const totalToSelectiveRatio = 3.1

// ExtinctionFactor returns the multiplicative correction that recovers the
// de-reddened flux from an observed flux at the given frequency, following
// the Cardelli, Clayton & Mathis (1989) extinction law. Degenerate
// reddening (zero, NaN, or infinite) yields 1.0, no correction, as does
// any frequency outside the law's wavenumber range.
func ExtinctionFactor(reddening, freq float64) float64 {
	if reddening == 0 || math.IsNaN(reddening) || math.IsInf(reddening, 0) {
		return 1.0
	}

	// Wavenumber in inverse micrometers.
	x := freq / speedOfLight / 1e6
	a, b := ccm89(x)

	aLambda := reddening * (a + b/totalToSelectiveRatio)
	return math.Pow(10, 0.4*aLambda)
}

// ccm89 evaluates the CCM89 piecewise coefficients a(x), b(x) for a
// wavenumber x in µm⁻¹. Outside [0.3, 8] both are zero and the correction
// collapses to unity.
func ccm89(x float64) (a, b float64) {
	switch {
	case x < 0.3 || x > 8:
		return 0, 0

	case x <= 1.1: // infrared
		t := math.Pow(x, 1.61)
		return 0.574 * t, -0.527 * t

	case x <= 3.3: // optical / near-infrared
		y := x - 1.82
		a = 1 + y*(0.17699+y*(-0.50447+y*(-0.02427+y*(0.72085+y*(0.01979+y*(-0.77530+y*0.32999))))))
		b = y * (1.41338 + y*(2.28305+y*(1.07233+y*(-5.38434+y*(-0.62251+y*(5.30260+y*-2.09002))))))
		return a, b

	default: // ultraviolet, 3.3 < x <= 8
		var fa, fb float64
		if x >= 5.9 {
			d := x - 5.9
			fa = -0.04473*d*d - 0.009779*d*d*d
			fb = 0.2130*d*d + 0.1207*d*d*d
		}
		a = 1.752 - 0.316*x - 0.104/((x-4.67)*(x-4.67)+0.341) + fa
		b = -3.090 + 1.825*x + 1.206/((x-4.62)*(x-4.62)+0.263) + fb
		return a, b
	}
}
