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

	"gonum.org/v1/gonum/floats"
)

// Averager accumulates model states over time and reduces them to
// temporal means, for monthly or annual diagnostic output. The core
// engine never averages; the driver owns the accumulation cadence.
type Averager struct {
	sum *State
	n   int
}

// NewAverager returns an Averager for states of nPoints grid points.
func NewAverager(nPoints int) *Averager {
	return &Averager{sum: NewState(nPoints)}
}

// Add accumulates the current state.
func (a *Averager) Add(s *State) error {
	if s.N() != a.sum.N() {
		return fmt.Errorf("sembal: averager holds %d points; state has %d", a.sum.N(), s.N())
	}
	if a.n == 0 {
		copy(a.sum.SurfaceType, s.SurfaceType)
	}
	s.eachField(func(name string, data []float64) {
		dst, _ := a.sum.Field(name)
		floats.Add(dst, data)
	})
	a.n++
	return nil
}

// Average returns the mean of the accumulated states and resets the
// accumulator.
func (a *Averager) Average() (*State, error) {
	if a.n == 0 {
		return nil, fmt.Errorf("sembal: averaging over zero accumulated states")
	}
	mean := NewState(a.sum.N())
	copy(mean.SurfaceType, a.sum.SurfaceType)
	a.sum.eachField(func(name string, data []float64) {
		dst, _ := mean.Field(name)
		copy(dst, data)
		floats.Scale(1/float64(a.n), dst)
	})
	a.Reset()
	return mean, nil
}

// Reset clears the accumulator.
func (a *Averager) Reset() {
	a.sum.eachField(func(name string, data []float64) {
		for i := range data {
			data[i] = 0
		}
	})
	a.n = 0
}

// Averages returns a function that accumulates the model state into a
// and, every period outer time steps, reduces the accumulation to its
// mean and hands it to emit.
func Averages(a *Averager, period int, emit func(*State) error) DomainManipulator {
	steps := 0
	return func(m *Model) error {
		if err := a.Add(m.State); err != nil {
			return err
		}
		steps++
		if steps < period {
			return nil
		}
		steps = 0
		mean, err := a.Average()
		if err != nil {
			return err
		}
		return emit(mean)
	}
}
