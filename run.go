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
	"io"

	"github.com/ctessum/sparse"
)

// InitState returns a function that allocates the model state from
// the forcing grid, reads the static surface mask, and sets the
// initial conditions: both temperatures at the freezing point, fresh
// snow albedo, and the background albedo of each surface type. The
// model parameters must already be in place when it runs.
func InitState(f Forcing) DomainManipulator {
	return func(m *Model) error {
		if m.Params == nil {
			return fmt.Errorf("sembal: initializing state before parameters")
		}
		n, err := f.N()
		if err != nil {
			return err
		}
		mask, err := f.SurfaceType()
		if err != nil {
			return err
		}
		if len(mask.Elements) != n {
			return fmt.Errorf("sembal: surface mask has %d points; forcing has %d",
				len(mask.Elements), n)
		}
		s := NewState(n)
		for i, v := range mask.Elements {
			s.SurfaceType[i] = int(v + 0.5)
			s.Tsurf[i] = T0
			s.T2m[i] = T0
			s.AlbSnow[i] = m.Params.AlbSnowMax
			switch s.SurfaceType[i] {
			case TypeIce:
				s.Alb[i] = m.Params.AlbIce
			case TypeLand:
				s.Alb[i] = m.Params.AlbLand
			default:
				s.Alb[i] = albedoOcean
			}
		}
		m.State = s
		return nil
	}
}

// ReadForcing returns a function that loads the next forcing record
// of every forcing field into the model state. The 2 m air
// temperature iterator is advanced in step with the others but its
// record is only applied when the production boundary switch marks
// t2m as externally supplied. When the forcing time series is
// exhausted, the simulation is marked as done.
func ReadForcing(f Forcing) DomainManipulator {
	type reader struct {
		name string
		next NextData
		dst  func(s *State) []float64
	}
	readers := []reader{
		{"swd", f.SWD(), func(s *State) []float64 { return s.SWD }},
		{"lwd", f.LWD(), func(s *State) []float64 { return s.LWD }},
		{"wind", f.Wind(), func(s *State) []float64 { return s.Wind }},
		{"pressure", f.Pressure(), func(s *State) []float64 { return s.Ps }},
		{"air density", f.AirDensity(), func(s *State) []float64 { return s.RhoA }},
		{"humidity", f.Humidity(), func(s *State) []float64 { return s.Q }},
		{"snowfall", f.Snowfall(), func(s *State) []float64 { return s.Snowfall }},
		{"rainfall", f.Rainfall(), func(s *State) []float64 { return s.Rainfall }},
	}
	t2m := f.T2m()
	return func(m *Model) error {
		for _, r := range readers {
			data, err := r.next()
			if err == io.EOF {
				m.Done = true
				return nil
			}
			if err != nil {
				return fmt.Errorf("sembal: reading %s forcing: %v", r.name, err)
			}
			if err := copyForcing(r.dst(m.State), data); err != nil {
				return fmt.Errorf("sembal: reading %s forcing: %v", r.name, err)
			}
		}
		data, err := t2m()
		if err == io.EOF {
			m.Done = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("sembal: reading t2m forcing: %v", err)
		}
		if m.Params.Boundary.T2m {
			if err := copyForcing(m.State.T2m, data); err != nil {
				return fmt.Errorf("sembal: reading t2m forcing: %v", err)
			}
		}
		return nil
	}
}

// copyForcing copies a forcing record into a state array.
func copyForcing(dst []float64, src *sparse.DenseArray) error {
	if len(src.Elements) != len(dst) {
		return fmt.Errorf("record has %d points; state has %d",
			len(src.Elements), len(dst))
	}
	copy(dst, src.Elements)
	return nil
}

// Results returns copies of the current values of the requested state
// fields, keyed by field name.
func (m *Model) Results(outputVariables ...string) (map[string][]float64, error) {
	o := make(map[string][]float64)
	for _, name := range outputVariables {
		data, err := m.State.Field(name)
		if err != nil {
			return nil, err
		}
		v := make([]float64, len(data))
		copy(v, data)
		o[name] = v
	}
	return o, nil
}
