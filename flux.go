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

// sensibleHeatFlux returns the bulk-aerodynamic sensible heat flux
// [W/m²] from the surface to the atmosphere. The exchange coefficient
// is enhanced in the unstable regime, i.e. whenever the flux itself
// would be positive.
func sensibleHeatFlux(p *Params, tsurf, t2m, wind, ρAir float64) float64 {
	csh := p.CSH
	if wind*(tsurf-t2m) > 0 {
		csh *= p.CSHEnh
	}
	return csh * cAir * ρAir * wind * (tsurf - t2m)
}

// latentHeatFlux returns the bulk-aerodynamic latent heat flux [W/m²]
// together with the associated surface mass fluxes [kg/(m² s)]: subl
// is sublimation (deposition if negative) for a frozen surface, evap
// is evaporation (condensation if negative) for a melting one; the
// inactive branch stays zero. The exchange coefficient is enhanced
// over land surfaces.
func latentHeatFlux(p *Params, surfaceType int, tsurf, wind, ρAir, ps, q float64) (lhf, subl, evap float64) {
	clh := p.CLH
	if surfaceType == TypeLand {
		clh *= p.CLHEnh
	}
	if tsurf < T0 {
		esat := satVaporPressureIce(tsurf)
		subl = clh * wind * ρAir * (satSpecificHumidity(esat, ps) - q)
		lhf = subl * lSublimation
		return lhf, subl, 0
	}
	esat := satVaporPressureWater(tsurf)
	evap = clh * wind * ρAir * (satSpecificHumidity(esat, ps) - q)
	lhf = evap * lVaporization
	return lhf, 0, evap
}

// longwaveUp returns the upwelling longwave radiation [W/m²] of a
// surface at temperature tsurf [K] by the Stefan-Boltzmann law.
func longwaveUp(tsurf float64) float64 {
	return σ * tsurf * tsurf * tsurf * tsurf
}
