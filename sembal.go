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

// Package sembal computes the surface energy and mass balance of a
// snow/ice column at a set of grid points from atmospheric forcing.
// Each outer time step runs a number of sub-daily energy-balance
// iterations that relax the surface temperature toward closure, then
// one mass-balance pass that partitions melt, refreezing, runoff and
// accumulation and evolves the snow and ice reservoirs and the surface
// albedo.
package sembal

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"
)

// Version gives the version number.
const Version = "0.3.1"

// PointManipulator is a function that updates the state of a single
// grid point. Point updates never read or write slots other than
// their own, so they can run concurrently across points.
type PointManipulator func(s *State, i int)

// DomainManipulator is a function that operates on the entire model
// domain at once.
type DomainManipulator func(m *Model) error

// Model holds the current state of the surface balance model.
type Model struct {
	Params *Params
	State  *State

	// InitFuncs are run (in order) when initializing the model.
	InitFuncs []DomainManipulator

	// RunFuncs are run (in order) on every outer time step.
	RunFuncs []DomainManipulator

	// CleanupFuncs are run (in order) after the simulation is
	// finished.
	CleanupFuncs []DomainManipulator

	// Done specifies whether the simulation is finished.
	Done bool

	// step is the outer time step counter.
	step int
}

// Init initializes the model by running the InitFuncs and checking
// the configuration preconditions the engine relies on.
func (m *Model) Init() error {
	for _, f := range m.InitFuncs {
		if err := f(m); err != nil {
			return err
		}
	}
	if m.Params == nil {
		return fmt.Errorf("sembal: model is missing parameters")
	}
	if err := m.Params.Check(); err != nil {
		return err
	}
	if m.State == nil {
		return fmt.Errorf("sembal: model is missing state arrays")
	}
	return m.State.Check()
}

// Run runs the RunFuncs until the simulation is finished. A
// manipulator that finishes the simulation short-circuits the rest of
// the list, so no physics runs on the previous step's forcing.
func (m *Model) Run() error {
	for !m.Done {
		m.step++
		for _, f := range m.RunFuncs {
			if err := f(m); err != nil {
				return err
			}
			if m.Done {
				break
			}
		}
	}
	return nil
}

// Cleanup runs the CleanupFuncs.
func (m *Model) Cleanup() error {
	for _, f := range m.CleanupFuncs {
		if err := f(m); err != nil {
			return err
		}
	}
	return nil
}

// Calculations returns a function that concurrently runs a series of
// calculations on all of the grid points. Points are independent, so
// they are fanned out over the available processors with a barrier at
// the end.
func Calculations(calculators ...PointManipulator) DomainManipulator {

	nprocs := runtime.GOMAXPROCS(0) // number of processors
	var wg sync.WaitGroup

	return func(m *Model) error {
		wg.Add(nprocs)
		for pp := 0; pp < nprocs; pp++ {
			go func(pp int) {
				for i := pp; i < m.State.N(); i += nprocs {
					for _, f := range calculators {
						f(m.State, i)
					}
				}
				wg.Done()
			}(pp)
		}
		wg.Wait()
		return nil
	}
}

// Step advances the model by one outer time step, honoring the given
// boundary switch set: NSub energy-balance sub-iterations followed by
// one mass-balance pass. The state is mutated in place.
func (m *Model) Step(b *Boundary) error {
	energy := Calculations(EnergyBalance(m.Params, b))
	for k := 0; k < m.Params.NSub; k++ {
		if err := energy(m); err != nil {
			return err
		}
	}
	return Calculations(MassBalance(m.Params, b))(m)
}

// SurfaceBalance returns a function that advances the surface balance
// by one outer time step using the production boundary switch set.
func SurfaceBalance() DomainManipulator {
	return func(m *Model) error {
		return m.Step(&m.Params.Boundary)
	}
}

// SurfaceBalanceEquil is like SurfaceBalance but honors the
// equilibration switch set, for spin-up runs.
func SurfaceBalanceEquil() DomainManipulator {
	return func(m *Model) error {
		return m.Step(&m.Params.EquilBoundary)
	}
}

// StepsToRun returns a function that finishes the simulation after
// nSteps outer time steps.
func StepsToRun(nSteps int) DomainManipulator {
	return func(m *Model) error {
		if m.step >= nSteps {
			m.Done = true
		}
		return nil
	}
}

// Log writes simulation status messages to w.
func Log(w io.Writer) DomainManipulator {
	startTime := time.Now()
	stepTime := time.Now()

	nDaysRun := 0.

	return func(m *Model) error {
		nDaysRun += m.Params.Dt / secondsPerDay
		fmt.Fprintf(w, "Step %-5d  walltime=%6.3gh  Δwalltime=%4.2gs  "+
			"timestep=%6.0fs  day=%.4g\n",
			m.step, time.Since(startTime).Hours(),
			time.Since(stepTime).Seconds(), m.Params.Dt, nDaysRun)
		stepTime = time.Now()
		return nil
	}
}
