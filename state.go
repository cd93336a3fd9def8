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
	"fmt"
	"reflect"
)

// State holds the mutable per-point state of the surface model as
// parallel arrays, one slot per grid point. Prognostic fields persist
// between time steps and are updated in place by the engine; forcing
// fields are overwritten every outer time step by the driver.
//
// All rates are in meters of water equivalent per second unless noted
// otherwise.
type State struct {
	// Prognostic and diagnostic fields.
	T2m     []float64 `desc:"2 m air temperature" units:"K"`
	Tsurf   []float64 `desc:"Surface temperature" units:"K"`
	Hsnow   []float64 `desc:"Snow height (water equivalent)" units:"m"`
	Hice    []float64 `desc:"Ice thickness (water equivalent)" units:"m"`
	Alb     []float64 `desc:"Grid-averaged albedo" units:"-"`
	AlbSnow []float64 `desc:"Snow albedo" units:"-"`

	Melt       []float64 `desc:"Total melt rate" units:"m/s"`
	MeltedSnow []float64 `desc:"Snow melt rate" units:"m/s"`
	MeltedIce  []float64 `desc:"Ice melt rate" units:"m/s"`
	Refr       []float64 `desc:"Refreezing rate" units:"m/s"`
	SMB        []float64 `desc:"Total surface mass balance" units:"m/s"`
	SMBSnow    []float64 `desc:"Snow surface mass balance" units:"m/s"`
	SMBIce     []float64 `desc:"Ice surface mass balance" units:"m/s"`
	Acc        []float64 `desc:"Accumulation rate" units:"m/s"`
	Runoff     []float64 `desc:"Runoff rate" units:"m/s"`

	LHF  []float64 `desc:"Latent heat flux" units:"W/m²"`
	SHF  []float64 `desc:"Sensible heat flux" units:"W/m²"`
	LWup []float64 `desc:"Upwelling longwave radiation" units:"W/m²"`
	Subl []float64 `desc:"Sublimation rate" units:"m/s"`
	Evap []float64 `desc:"Evaporation rate" units:"m/s"`

	// Forcing fields.
	Snowfall []float64 `desc:"Snowfall rate" units:"m/s"`
	Rainfall []float64 `desc:"Rainfall rate" units:"m/s"`
	Ps       []float64 `desc:"Surface pressure" units:"Pa"`
	LWD      []float64 `desc:"Downwelling longwave radiation" units:"W/m²"`
	SWD      []float64 `desc:"Downwelling shortwave radiation" units:"W/m²"`
	Wind     []float64 `desc:"Surface wind speed" units:"m/s"`
	RhoA     []float64 `desc:"Surface air density" units:"kg/m³"`
	Q        []float64 `desc:"Specific humidity" units:"kg/kg"`

	// SurfaceType is the per-point surface mask: TypeOcean, TypeLand
	// or TypeIce.
	SurfaceType []int
}

// NewState allocates a State with all arrays sized to n grid points.
func NewState(n int) *State {
	s := new(State)
	v := reflect.ValueOf(s).Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		f.Set(reflect.MakeSlice(f.Type(), n, n))
	}
	return s
}

// N returns the number of grid points.
func (s *State) N() int { return len(s.Tsurf) }

// Check verifies that every array holds one slot per grid point.
func (s *State) Check() error {
	n := s.N()
	v := reflect.ValueOf(s).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if l := v.Field(i).Len(); l != n {
			return fmt.Errorf("sembal: state array %s has length %d; want %d",
				t.Field(i).Name, l, n)
		}
	}
	return nil
}

// Field returns the state array with the given name, for output
// variable selection.
func (s *State) Field(name string) ([]float64, error) {
	f := reflect.ValueOf(s).Elem().FieldByName(name)
	if !f.IsValid() {
		return nil, fmt.Errorf("sembal: unknown state field %s", name)
	}
	o, ok := f.Interface().([]float64)
	if !ok {
		return nil, fmt.Errorf("sembal: state field %s is not a float64 array", name)
	}
	return o, nil
}

// Units returns the units of the named state field.
func (s *State) Units(name string) (string, error) {
	f, ok := reflect.TypeOf(*s).FieldByName(name)
	if !ok {
		return "", fmt.Errorf("sembal: unknown state field %s", name)
	}
	return f.Tag.Get("units"), nil
}

// Description returns the description of the named state field.
func (s *State) Description(name string) (string, error) {
	f, ok := reflect.TypeOf(*s).FieldByName(name)
	if !ok {
		return "", fmt.Errorf("sembal: unknown state field %s", name)
	}
	return f.Tag.Get("desc"), nil
}

// eachField visits every float64 array in s together with its name.
func (s *State) eachField(fn func(name string, data []float64)) {
	v := reflect.ValueOf(s).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if data, ok := v.Field(i).Interface().([]float64); ok {
			fn(t.Field(i).Name, data)
		}
	}
}
