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

// EnergyBalance returns a function that performs one sub-daily
// energy-balance iteration on a single grid point: it recomputes the
// turbulent and radiative fluxes and relaxes the surface temperature
// toward closure of the net surface energy budget. It does not touch
// the mass fields; it is run NSub times per outer time step before
// the mass balance is evaluated once.
func EnergyBalance(p *Params, b *Boundary) PointManipulator {
	return func(s *State, i int) {
		tsurf := s.Tsurf[i]

		if !b.SHF {
			s.SHF[i] = sensibleHeatFlux(p, tsurf, s.T2m[i], s.Wind[i], s.RhoA[i])
		}
		if !b.LHF {
			lhf, subl, evap := latentHeatFlux(p, s.SurfaceType[i], tsurf,
				s.Wind[i], s.RhoA[i], s.Ps[i], s.Q[i])
			s.LHF[i] = lhf
			if !b.Sublimation {
				s.Subl[i] = subl
				s.Evap[i] = evap
			}
		}
		s.LWup[i] = longwaveUp(tsurf)

		// Residual energy bound in phase changes of the previous mass
		// balance; ice melt only draws on it for ice points.
		var qmr float64
		if s.SurfaceType[i] == TypeIce {
			qmr = (s.MeltedSnow[i] + s.MeltedIce[i] - s.Refr[i]) * ρWater * lMelt
		} else {
			qmr = (s.MeltedSnow[i] - s.Refr[i]) * ρWater * lMelt
		}

		qsb := (1-s.Alb[i])*s.SWD[i] + s.LWD[i] - s.LWup[i] -
			s.SHF[i] - s.LHF[i] - qmr

		if !b.Tsurf {
			s.Tsurf[i] += qsb * p.DtSub / p.Ceff
		}
		// The 2 m air temperature relaxes toward the turbulent fluxes
		// regardless of the forcing switches.
		s.T2m[i] += (s.SHF[i] + s.LHF[i]) * p.DtSub / p.Ceff
	}
}
