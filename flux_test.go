/*
Copyright © 2025 the Sembal authors.
This file is part of Sembal.

Sembal is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Sembal is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Sembal.  If not, see <http://www.gnu.org/licenses/>.
*/

package sembal

import (
	"math"
	"testing"
)

// Both saturation formulas must agree at the freezing point, where
// they pin the triple-point-like reference value of 611.2 Pa.
func TestSatVaporPressureFreezingPoint(t *testing.T) {
	if v := satVaporPressureWater(T0); absDifferent(v, 611.2) {
		t.Errorf("water saturation pressure at T0 = %g; want 611.2", v)
	}
	if v := satVaporPressureIce(T0); absDifferent(v, 611.2) {
		t.Errorf("ice saturation pressure at T0 = %g; want 611.2", v)
	}
}

// Below freezing, saturation over supercooled water exceeds
// saturation over ice.
func TestSatVaporPressureWaterAboveIce(t *testing.T) {
	for _, T := range []float64{T0 - 40, T0 - 20, T0 - 5, T0 - 0.5} {
		w, i := satVaporPressureWater(T), satVaporPressureIce(T)
		if w <= i {
			t.Errorf("T=%g: water saturation %g should exceed ice saturation %g", T, w, i)
		}
	}
}

func TestSatSpecificHumidity(t *testing.T) {
	const ps = 1.0e5
	esat := satVaporPressureWater(T0)
	q := satSpecificHumidity(esat, ps)
	want := esat * epsilon / (esat*(epsilon-1) + ps)
	if absDifferent(q, want) {
		t.Errorf("saturation humidity = %g; want %g", q, want)
	}
	if q <= 0 || q >= 1 {
		t.Errorf("saturation humidity = %g; want within (0, 1)", q)
	}
}

func TestSensibleHeatFlux(t *testing.T) {
	p := testParams()
	const wind, ρAir = 5., 1.3

	// Unstable regime (warm surface): the exchange coefficient is
	// enhanced.
	shf := sensibleHeatFlux(p, T0+2, T0, wind, ρAir)
	want := p.CSH * p.CSHEnh * cAir * ρAir * wind * 2
	if different(shf, want, testTolerance) {
		t.Errorf("unstable sensible flux = %g; want %g", shf, want)
	}

	// Stable regime (cold surface): no enhancement.
	shf = sensibleHeatFlux(p, T0-2, T0, wind, ρAir)
	want = p.CSH * cAir * ρAir * wind * (-2)
	if different(shf, want, testTolerance) {
		t.Errorf("stable sensible flux = %g; want %g", shf, want)
	}

	// Calm air carries no flux.
	if shf := sensibleHeatFlux(p, T0+2, T0, 0, ρAir); shf != 0 {
		t.Errorf("calm sensible flux = %g; want 0", shf)
	}
}

func TestLatentHeatFluxBranches(t *testing.T) {
	p := testParams()
	const wind, ρAir, ps = 5., 1.3, 1.0e5

	// A dry atmosphere over a frozen surface sublimates.
	lhf, subl, evap := latentHeatFlux(p, TypeIce, T0-10, wind, ρAir, ps, 0)
	if subl <= 0 {
		t.Errorf("sublimation = %g; want positive into dry air", subl)
	}
	if evap != 0 {
		t.Errorf("evaporation = %g; want 0 for a frozen surface", evap)
	}
	if different(lhf, subl*lSublimation, testTolerance) {
		t.Errorf("latent flux = %g; want %g", lhf, subl*lSublimation)
	}

	// A melting surface evaporates instead.
	lhf, subl, evap = latentHeatFlux(p, TypeIce, T0, wind, ρAir, ps, 0)
	if evap <= 0 {
		t.Errorf("evaporation = %g; want positive into dry air", evap)
	}
	if subl != 0 {
		t.Errorf("sublimation = %g; want 0 for a melting surface", subl)
	}
	if different(lhf, evap*lVaporization, testTolerance) {
		t.Errorf("latent flux = %g; want %g", lhf, evap*lVaporization)
	}

	// Saturated air exchanges nothing.
	q := satSpecificHumidity(satVaporPressureIce(T0-10), ps)
	lhf, _, _ = latentHeatFlux(p, TypeIce, T0-10, wind, ρAir, ps, q)
	if absDifferent(lhf, 0) {
		t.Errorf("saturated latent flux = %g; want 0", lhf)
	}
}

func TestLatentHeatFluxLandEnhancement(t *testing.T) {
	p := testParams()
	const wind, ρAir, ps = 5., 1.3, 1.0e5
	ice, _, _ := latentHeatFlux(p, TypeIce, T0-10, wind, ρAir, ps, 0)
	land, _, _ := latentHeatFlux(p, TypeLand, T0-10, wind, ρAir, ps, 0)
	if different(land, p.CLHEnh*ice, testTolerance) {
		t.Errorf("land latent flux = %g; want %g times the ice flux %g", land, p.CLHEnh, ice)
	}
}

func TestLongwaveUp(t *testing.T) {
	if v := longwaveUp(T0); different(v, σ*math.Pow(T0, 4), testTolerance) {
		t.Errorf("upwelling longwave = %g; want %g", v, σ*math.Pow(T0, 4))
	}
}
