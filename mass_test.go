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

// A cold, dry, calm day on an ice point: no melt may occur and the ice
// thickness may not decrease.
func TestMassBalanceColdScenario(t *testing.T) {
	p := testParams()
	p.Amp = 2 // keep the diurnal peak below freezing
	s := testState(TypeIce)
	s.Tsurf[0] = 270
	s.T2m[0] = 268
	s.Wind[0] = 5
	s.Hsnow[0] = 1
	s.Hice[0] = 100

	MassBalance(p, &Boundary{})(s, 0)

	if s.Melt[0] != 0 {
		t.Errorf("melt = %g; want 0 on a subfreezing day", s.Melt[0])
	}
	if s.Hice[0] < 100 {
		t.Errorf("ice thickness = %g; want no decrease from 100", s.Hice[0])
	}
	if s.Runoff[0] != 0 {
		t.Errorf("runoff = %g; want 0 without melt or rain", s.Runoff[0])
	}
}

// Heavy snowfall with zero melt: the snow height grows one-to-one with
// snowfall until the 5 m cap, beyond which the excess converts to ice
// thickness, mass neutral.
func TestMassBalanceSnowCap(t *testing.T) {
	p := testParams()
	const sf = 1.0e-6
	s := testState(TypeIce)
	s.Tsurf[0] = T0 - 20
	s.Snowfall[0] = sf
	s.Hsnow[0] = 4.95
	s.Hice[0] = 10

	hsnow0, hice0 := s.Hsnow[0], s.Hice[0]
	MassBalance(p, &Boundary{})(s, 0)

	if s.Hsnow[0] != 5 {
		t.Errorf("snow height = %g; want capped at 5", s.Hsnow[0])
	}
	// Total frozen mass must grow by exactly the snowfall.
	gained := s.Hsnow[0] + s.Hice[0] - hsnow0 - hice0
	if different(gained, sf*p.Dt, testTolerance) {
		t.Errorf("frozen mass gained %g; want the snowfall %g", gained, sf*p.Dt)
	}
	if s.Hice[0] <= hice0 {
		t.Errorf("ice thickness = %g; want growth from the snow overflow", s.Hice[0])
	}
}

// Below the cap, snow height grows strictly with snowfall.
func TestMassBalanceAccumulation(t *testing.T) {
	p := testParams()
	s := testState(TypeLand)
	s.Tsurf[0] = T0 - 20
	s.Snowfall[0] = 1.0e-6

	MassBalance(p, &Boundary{})(s, 0)

	if different(s.Hsnow[0], 1.0e-6*p.Dt, testTolerance) {
		t.Errorf("snow height = %g; want %g", s.Hsnow[0], 1.0e-6*p.Dt)
	}
	if different(s.Acc[0], 1.0e-6, testTolerance) {
		t.Errorf("accumulation = %g; want the snowfall rate", s.Acc[0])
	}
	if different(s.SMB[0], 1.0e-6, testTolerance) {
		t.Errorf("surface mass balance = %g; want the snowfall rate", s.SMB[0])
	}
}

// A warm day over thin snow melts the snow away first and the ice
// below with the remainder.
func TestMassBalanceMeltPartition(t *testing.T) {
	p := testParams()
	s := testState(TypeIce)
	s.Tsurf[0] = T0 + 10 // entire diurnal cycle above freezing
	s.Hsnow[0] = 1.0e-4
	s.Hice[0] = 100

	MassBalance(p, &Boundary{})(s, 0)

	potential := 10 * p.Ceff / p.Dt / (ρWater * lMelt)
	if different(s.MeltedSnow[0], 1.0e-4/p.Dt, testTolerance) {
		t.Errorf("snow melt = %g; want capped by the available snow %g",
			s.MeltedSnow[0], 1.0e-4/p.Dt)
	}
	if different(s.MeltedSnow[0]+s.MeltedIce[0], potential, testTolerance) {
		t.Errorf("total melt = %g; want the full potential %g",
			s.MeltedSnow[0]+s.MeltedIce[0], potential)
	}
	if s.MeltedIce[0] <= 0 {
		t.Errorf("ice melt = %g; want positive once the snow is gone", s.MeltedIce[0])
	}
	if different(s.Melt[0], s.MeltedSnow[0]+s.MeltedIce[0], testTolerance) {
		t.Errorf("melt = %g; want the sum of snow and ice melt", s.Melt[0])
	}
	if s.Hsnow[0] != 0 {
		t.Errorf("snow height = %g; want fully melted", s.Hsnow[0])
	}
	if s.Hice[0] >= 100 {
		t.Errorf("ice thickness = %g; want thinning below 100", s.Hice[0])
	}
}

// On land, melted ice substrate is not counted as melt.
func TestMassBalanceLandMelt(t *testing.T) {
	p := testParams()
	s := testState(TypeLand)
	s.Tsurf[0] = T0 + 10
	s.Hsnow[0] = 1.0e-4

	MassBalance(p, &Boundary{})(s, 0)

	if different(s.Melt[0], s.MeltedSnow[0], testTolerance) {
		t.Errorf("land melt = %g; want only the snow melt %g", s.Melt[0], s.MeltedSnow[0])
	}
}

// The surface mass balance of an ice point must close against
// accumulation and melt.
func TestMassBalanceClosure(t *testing.T) {
	p := testParams()
	for _, tsurf := range []float64{T0 - 10, T0 - 1, T0 + 1, T0 + 10} {
		s := testState(TypeIce)
		s.Tsurf[0] = tsurf
		s.Hsnow[0] = 0.5
		s.Hice[0] = 100
		s.Snowfall[0] = 2.0e-8
		s.Rainfall[0] = 1.0e-8

		MassBalance(p, &Boundary{})(s, 0)

		if absDifferent(s.SMB[0], s.Acc[0]-s.Melt[0]) {
			t.Errorf("tsurf=%g: smb = %g; want acc - melt = %g",
				tsurf, s.SMB[0], s.Acc[0]-s.Melt[0])
		}
	}
}

// Refreezing can only draw on rain and melted snow, and only up to the
// cold content.
func TestMassBalanceRefreezing(t *testing.T) {
	p := testParams()
	s := testState(TypeIce)
	s.Tsurf[0] = T0 - 1 // diurnal cycle crosses freezing
	s.Hsnow[0] = 2
	s.Rainfall[0] = 1.0e-8

	MassBalance(p, &Boundary{})(s, 0)

	if s.Refr[0] <= 0 {
		t.Errorf("refreezing = %g; want positive with rain on cold snow", s.Refr[0])
	}
	if s.Refr[0] > s.Rainfall[0]+s.MeltedSnow[0]+testTolerance {
		t.Errorf("refreezing = %g; want at most rain %g plus snow melt %g",
			s.Refr[0], s.Rainfall[0], s.MeltedSnow[0])
	}
	if s.Runoff[0] < 0 {
		t.Errorf("runoff = %g; want non-negative", s.Runoff[0])
	}
}

// Ocean points hold no snow and keep the fixed ocean albedo.
func TestMassBalanceOcean(t *testing.T) {
	p := testParams()
	s := testState(TypeOcean)
	s.Snowfall[0] = 1.0e-6
	s.Hsnow[0] = 1 // should be cleared

	MassBalance(p, &Boundary{})(s, 0)

	if s.Hsnow[0] != 0 {
		t.Errorf("ocean snow height = %g; want 0", s.Hsnow[0])
	}
	if s.Alb[0] != albedoOcean {
		t.Errorf("ocean albedo = %g; want %g", s.Alb[0], albedoOcean)
	}
	if s.Melt[0] != 0 {
		t.Errorf("ocean melt = %g; want 0", s.Melt[0])
	}
}

// Fields whose boundary switch is set must come out of the step
// bit-identical.
func TestMassBalanceForcedFields(t *testing.T) {
	p := testParams()
	b := &Boundary{
		Hsnow:        true,
		Melt:         true,
		Refreezing:   true,
		SMB:          true,
		Accumulation: true,
		Albedo:       true,
		Sublimation:  true,
	}
	s := testState(TypeIce)
	s.Tsurf[0] = T0 + 10
	s.Snowfall[0] = 1.0e-6
	s.Hsnow[0] = 6 // above the cap, must stay put when forced
	s.Melt[0] = 0.25
	s.MeltedSnow[0] = 0.25
	s.Refr[0] = 0.5
	s.SMB[0] = 0.75
	s.Acc[0] = 1.25
	s.Alb[0] = 0.33
	s.AlbSnow[0] = 0.66
	s.Subl[0] = 2.5

	MassBalance(p, b)(s, 0)

	checks := []struct {
		name      string
		got, want float64
	}{
		{"Hsnow", s.Hsnow[0], 6},
		{"Melt", s.Melt[0], 0.25},
		{"Refr", s.Refr[0], 0.5},
		{"SMB", s.SMB[0], 0.75},
		{"Acc", s.Acc[0], 1.25},
		{"Alb", s.Alb[0], 0.33},
		{"AlbSnow", s.AlbSnow[0], 0.66},
		{"Subl", s.Subl[0], 2.5},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("forced %s = %g; want bit-identical %g", c.name, c.got, c.want)
		}
	}
}

// Forcing the latent flux keeps the engine from recomputing the
// sublimation mass flux, so its value must pass through each step
// without the unit conversion decaying it.
func TestMassBalanceForcedLHFSublimation(t *testing.T) {
	p := testParams()
	b := &Boundary{LHF: true}
	s := testState(TypeIce)
	s.Tsurf[0] = T0 - 20
	s.Subl[0] = 1.0e-9 // externally supplied, water equivalent

	for k := 0; k < 3; k++ {
		MassBalance(p, b)(s, 0)
	}
	if s.Subl[0] != 1.0e-9 {
		t.Errorf("sublimation = %g; want the supplied 1e-9 unchanged", s.Subl[0])
	}
	if different(s.Acc[0], -1.0e-9, testTolerance) {
		t.Errorf("accumulation = %g; want the sublimation loss -1e-9", s.Acc[0])
	}
}

// With the albedo scheme disabled the albedo fields pass through
// untouched even when unforced.
func TestMassBalanceAlbedoNone(t *testing.T) {
	p := testParams()
	p.Scheme = AlbedoNone
	s := testState(TypeIce)
	s.Alb[0] = 0.33
	s.AlbSnow[0] = 0.66

	MassBalance(p, &Boundary{})(s, 0)

	if s.Alb[0] != 0.33 || s.AlbSnow[0] != 0.66 {
		t.Errorf("albedo = (%g, %g); want untouched (0.33, 0.66)", s.Alb[0], s.AlbSnow[0])
	}
}

// The blended albedo approaches the snow albedo under deep snow and
// the background under bare conditions.
func TestMassBalanceAlbedoBlend(t *testing.T) {
	p := testParams()
	p.Scheme = AlbedoSlater

	deep := testState(TypeIce)
	deep.Tsurf[0] = T0 - 30
	deep.Hsnow[0] = 4

	bare := testState(TypeIce)
	bare.Tsurf[0] = T0 - 30

	MassBalance(p, &Boundary{})(deep, 0)
	MassBalance(p, &Boundary{})(bare, 0)

	if math.Abs(deep.Alb[0]-p.AlbSnowMax) > 0.01 {
		t.Errorf("deep snow albedo = %g; want near %g", deep.Alb[0], p.AlbSnowMax)
	}
	if bare.Alb[0] != p.AlbIce {
		t.Errorf("bare ice albedo = %g; want the background %g", bare.Alb[0], p.AlbIce)
	}
}
