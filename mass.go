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

import "math"

// MassBalance returns a function that performs the once-per-time-step
// mass balance update on a single grid point: diurnal melt/refreeze
// partition, runoff, accumulation, snow and ice mass bookkeeping,
// snow-to-ice overflow, and the albedo update. It runs after the
// sub-daily energy relaxation has produced an energy-consistent
// surface temperature.
func MassBalance(p *Params, b *Boundary) PointManipulator {
	return func(s *State, i int) {
		dt := p.Dt
		surfType := s.SurfaceType[i]

		// Decompose the diurnal cycle around the freezing point into
		// melt energy and cold content. Ocean points carry neither.
		var qmelt, qcold float64
		if surfType != TypeOcean {
			above, below := diurnalCycle(s.Tsurf[i]-T0, p.Amp)
			qmelt = math.Max(0, above) * p.Ceff / dt
			qcold = math.Max(0, math.Abs(below)) * p.Ceff / dt
		}

		// Melt, split between the snow and ice reservoirs. Snow can
		// only melt as fast as it is present.
		meltedSnow, meltedIce := s.MeltedSnow[i], s.MeltedIce[i]
		if !b.Melt {
			potential := qmelt / (ρWater * lMelt)
			meltedSnow = math.Min(potential, s.Hsnow[i]/dt)
			meltedIce = potential - meltedSnow
			s.MeltedSnow[i] = meltedSnow
			s.MeltedIce[i] = meltedIce
			if surfType == TypeIce {
				s.Melt[i] = meltedSnow + meltedIce
			} else {
				s.Melt[i] = meltedSnow
			}
		}

		// Refreezing of rain and melted snow, limited by the cold
		// content and damped by the snow-depth-dependent fraction
		// (deep snow insulates the refreezing front).
		frz := s.Hsnow[i] / (s.Hsnow[i] + p.RCrit)
		potential := qcold / (ρWater * lMelt)
		rainRefr := math.Min(potential, s.Rainfall[i])
		snowRefr := math.Min(math.Max(potential-rainRefr, 0), meltedSnow)
		refrozenRain := frz * rainRefr
		refr := refrozenRain + frz*snowRefr
		if !b.Refreezing {
			s.Refr[i] = refr
		} else {
			refr = s.Refr[i]
		}

		s.Runoff[i] = s.Melt[i] + s.Rainfall[i] - refrozenRain

		// Freshly computed sublimation arrives from the flux formulas
		// as kg/(m² s); a forced value (directly, or implied by a
		// forced latent flux that keeps the engine from recomputing
		// it) is already in water-equivalent units.
		subl := s.Subl[i] / ρWater
		if b.Sublimation || b.LHF {
			subl = s.Subl[i]
		}
		if !b.Accumulation {
			s.Acc[i] = s.Snowfall[i] - subl + refr
		}

		// Snow mass balance and height update.
		s.SMBSnow[i] = s.Snowfall[i] - subl - meltedSnow
		if !b.Hsnow {
			if surfType == TypeOcean {
				s.Hsnow[i] = 0
			} else {
				s.Hsnow[i] = math.Max(0, s.Hsnow[i]+s.SMBSnow[i]*dt)
			}
		}

		// Snow exceeding the maximum height relaxes into the ice
		// column.
		snowToIce := math.Max(0, s.Hsnow[i]-hSnowMax)
		if !b.Hsnow {
			s.Hsnow[i] -= snowToIce
		}
		s.SMBIce[i] = snowToIce/dt - meltedIce + refr
		s.Hice[i] += s.SMBIce[i] * dt

		if !b.SMB {
			if surfType == TypeIce {
				s.SMB[i] = s.SMBSnow[i] + s.SMBIce[i] - snowToIce/dt
			} else {
				s.SMB[i] = s.SMBSnow[i] + math.Max(0, s.SMBIce[i]-snowToIce/dt)
			}
		}

		// Albedo: update the snow albedo with the active scheme, then
		// blend with the background by areal snow cover. The alex
		// scheme diagnoses the grid-averaged albedo directly.
		if !b.Albedo && p.Scheme != AlbedoNone {
			s.AlbSnow[i] = snowAlbedo(p, s, i)
			if p.Scheme == AlbedoAlex {
				s.Alb[i] = s.AlbSnow[i]
			} else {
				falb := s.Hsnow[i] / (s.Hsnow[i] + p.HCrit)
				switch surfType {
				case TypeIce:
					s.Alb[i] = p.AlbIce + falb*(s.AlbSnow[i]-p.AlbIce)
				case TypeLand:
					s.Alb[i] = p.AlbLand + falb*(s.AlbSnow[i]-p.AlbLand)
				default:
					s.Alb[i] = albedoOcean
				}
			}
		}

		// Sublimation leaves the turbulent flux formulas as a mass
		// flux [kg/(m² s)]; report it in water-equivalent units. A
		// forced latent flux freezes the sublimation mass flux with
		// it, so the conversion must not repeat on the stale value.
		if !b.Sublimation && !b.LHF {
			s.Subl[i] /= ρWater
		}
	}
}
