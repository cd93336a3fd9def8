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

package sembalutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/cryomodel/sembal"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// Run integrates the surface energy and mass balance over the
// configured forcing period and writes the results to one or more
// NetCDF files.
func Run(cfg *viper.Viper) error {
	p, err := ParamsFromConfig(cfg)
	if err != nil {
		return err
	}
	forcing, err := ForcingFromConfig(cfg, outChan())
	if err != nil {
		return err
	}
	nSteps, err := stepsFromConfig(cfg)
	if err != nil {
		return err
	}

	outputFile := cast.ToString(cfg.Get("OutputFile"))
	outputVars := cast.ToStringSlice(cfg.Get("OutputVariables"))
	period := cast.ToInt(cfg.Get("AveragingPeriod"))

	balance := sembal.SurfaceBalance()
	if cast.ToBool(cfg.Get("equilibrate")) {
		logrus.Println("Honoring the equilibration boundary switches.")
		balance = sembal.SurfaceBalanceEquil()
	}

	m := &sembal.Model{
		Params: p,
		InitFuncs: []sembal.DomainManipulator{
			sembal.InitState(forcing),
		},
		RunFuncs: []sembal.DomainManipulator{
			sembal.ReadForcing(forcing),
			balance,
			sembal.Log(os.Stdout),
			sembal.StepsToRun(nSteps),
		},
	}

	if period > 0 {
		if !strings.Contains(outputFile, "[N]") {
			return fmt.Errorf("sembal: averaged output requested but OutputFile %q has no [N] wild card", outputFile)
		}
		n, err := forcing.N()
		if err != nil {
			return err
		}
		k := 0
		emit := func(mean *sembal.State) error {
			k++
			name := strings.Replace(outputFile, "[N]", fmt.Sprintf("%04d", k), -1)
			return writeState(m, mean, name, outputVars)
		}
		m.RunFuncs = append(m.RunFuncs,
			sembal.Averages(sembal.NewAverager(n), period, emit))
	} else {
		m.CleanupFuncs = []sembal.DomainManipulator{
			func(m *sembal.Model) error {
				return writeState(m, m.State, outputFile, outputVars)
			},
		}
	}

	logrus.Printf("Running sembal v%s over %d time steps.", sembal.Version, nSteps)
	if err := m.Init(); err != nil {
		return err
	}
	if err := m.Run(); err != nil {
		return err
	}
	if err := m.Cleanup(); err != nil {
		return err
	}
	logrus.Println("Run finished.")
	return nil
}

// writeState writes the requested fields of state s to a new NetCDF
// file at the given path.
func writeState(m *sembal.Model, s *sembal.State, path string, vars []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sembal: creating output file: %v", err)
	}
	defer f.Close()
	if err := m.WriteState(f, s, vars...); err != nil {
		return err
	}
	logrus.Printf("Wrote output file %s.", path)
	return nil
}
