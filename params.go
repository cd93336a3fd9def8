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

import "fmt"

// physical constants
const (
	T0      = 273.15  // K, freezing point of water
	σ       = 5.67e-8 // W/(m² K⁴), Stefan-Boltzmann constant
	epsilon = 0.62197 // ratio of the molar masses of water vapor and dry air
	ρWater  = 1000.   // kg/m³, density of water
	cAir    = 1000.   // J/(kg K), specific heat capacity of air

	// Latent heats [J/kg].
	lSublimation  = 2.83e6
	lMelt         = 3.3e5
	lVaporization = 2.5e6
)

const (
	// hSnowMax is the maximum snow height [m water equivalent]; snow
	// accumulating beyond it is transferred to the ice column.
	hSnowMax = 5.

	// albedoOcean is the fixed albedo of open ocean points.
	albedoOcean = 0.06

	secondsPerDay = 86400.
)

// Surface type codes used in State.SurfaceType.
const (
	TypeOcean = iota
	TypeLand
	TypeIce
)

// Params holds the run-constant parameters of the surface balance
// model. It is read-only to the engine; one instance is shared by all
// grid points.
type Params struct {
	// NSub is the number of sub-daily energy-balance iterations per
	// outer time step.
	NSub int

	Dt    float64 `desc:"Outer time step" units:"s"`
	DtSub float64 `desc:"Sub-daily time step, Dt/NSub" units:"s"`

	Ceff float64 `desc:"Surface heat capacity" units:"J/(m² K)"`

	AlbIce  float64 `desc:"Background albedo of bare ice" units:"-"`
	AlbLand float64 `desc:"Background albedo of snow-free land" units:"-"`

	AlbSnowMax float64 `desc:"Maximum (fresh) snow albedo" units:"-"`
	AlbSnowMin float64 `desc:"Minimum (old, wet) snow albedo" units:"-"`

	HCrit float64 `desc:"Critical snow height for areal snow cover" units:"m"`
	RCrit float64 `desc:"Critical snow height for refreezing fraction" units:"m"`

	Amp float64 `desc:"Diurnal cycle amplitude" units:"K"`

	CSH    float64 `desc:"Sensible heat exchange coefficient" units:"-"`
	CLH    float64 `desc:"Latent heat exchange coefficient" units:"-"`
	CSHEnh float64 `desc:"Sensible coefficient enhancement in the unstable regime" units:"-"`
	CLHEnh float64 `desc:"Latent coefficient enhancement over land" units:"-"`

	// Scheme selects the snow albedo parameterization. It is resolved
	// from its configuration name once, before the run starts.
	Scheme AlbedoScheme

	// Albedo scheme constants.
	TauA  float64 `desc:"ISBA dry snow albedo decay rate" units:"1/day"`
	TauF  float64 `desc:"ISBA wet snow albedo decay rate" units:"1/day"`
	WCrit float64 `desc:"ISBA critical liquid water content" units:"kg/m²"`
	MCrit float64 `desc:"Critical melt rate" units:"m/s"`
	TMin  float64 `desc:"Slater ramp lower temperature" units:"K"`
	TMax  float64 `desc:"Slater ramp upper temperature" units:"K"`
	AFac  float64 `desc:"Alex albedo shape factor" units:"1/K"`
	TMid  float64 `desc:"Alex albedo midpoint temperature" units:"K"`

	// Boundary is the switch set used for production time steps;
	// EquilBoundary is an alternate set for equilibration (spin-up)
	// runs. Exactly one of the two is honored by any given Step call.
	Boundary      Boundary
	EquilBoundary Boundary
}

// Boundary holds one switch per prognostic or diagnostic field. A set
// switch marks the field as externally supplied for the time step: the
// engine must leave its value untouched.
type Boundary struct {
	T2m          bool
	Tsurf        bool
	Hsnow        bool
	Albedo       bool
	Melt         bool
	Refreezing   bool
	SMB          bool
	Accumulation bool
	LHF          bool
	SHF          bool
	Sublimation  bool
}

// Check verifies the configuration invariants the engine relies on.
// The engine itself assumes a checked Params and may produce
// non-finite results if handed an inconsistent one.
func (p *Params) Check() error {
	if p.NSub < 1 {
		return fmt.Errorf("sembal: number of sub-daily steps is %d; must be at least 1", p.NSub)
	}
	if p.DtSub*float64(p.NSub) != p.Dt {
		return fmt.Errorf("sembal: sub-step length %g × sub-step count %d does not equal the outer step length %g",
			p.DtSub, p.NSub, p.Dt)
	}
	if p.AlbSnowMin > p.AlbSnowMax {
		return fmt.Errorf("sembal: minimum snow albedo %g exceeds maximum %g", p.AlbSnowMin, p.AlbSnowMax)
	}
	return nil
}
