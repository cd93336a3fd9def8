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

// Package sembalutil wires the sembal surface balance engine into a
// command-line driver: configuration loading, forcing setup, the run
// loop, and output writing.
package sembalutil

import (
	"fmt"

	"github.com/cryomodel/sembal"
	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to Sembal.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "equilibrate",
			usage: `
              equilibrate specifies whether to honor the equilibration
              boundary switch set instead of the production set, for
              spin-up runs.`,
			shorthand:  "e",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "ForcingFile",
			usage: `
              ForcingFile is the path to the NetCDF forcing files, where
              [DATE] is a wild card for the simulation year.`,
			defaultVal: "forcing_[DATE].nc",
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "ForcingStart",
			usage: `
              ForcingStart is the first day of forcing to use, in the
              format YYYYMMDD.`,
			defaultVal: "19790101",
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "ForcingEnd",
			usage: `
              ForcingEnd is the day after the last day of forcing to use,
              in the format YYYYMMDD.`,
			defaultVal: "19800101",
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "ForcingRecordDelta",
			usage: `
              ForcingRecordDelta is the length of time between records
              within a forcing file. It must equal the outer time step.`,
			defaultVal: "24h",
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "ForcingFileDelta",
			usage: `
              ForcingFileDelta is the length of time covered by each
              forcing file.`,
			defaultVal: "8760h",
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path of the NetCDF output file. When
              averaged output is requested it must contain [N] as a wild
              card for the averaging period number.`,
			defaultVal: "sembal_output.nc",
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables specifies the state fields to include in
              the output file. An empty list writes all of them.`,
			defaultVal: []string{"Tsurf", "Hsnow", "Hice", "Alb", "Melt", "Refr", "SMB", "Runoff"},
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "AveragingPeriod",
			usage: `
              AveragingPeriod is the number of outer time steps to
              average over before writing an output record. Zero writes
              only the final instantaneous state.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.NSub",
			usage: `
              Params.NSub is the number of sub-daily energy balance
              iterations per outer time step.`,
			defaultVal: 24,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.Dt",
			usage: `
              Params.Dt is the outer time step [s].`,
			defaultVal: 86400.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.Ceff",
			usage: `
              Params.Ceff is the surface heat capacity [J/(m² K)].`,
			defaultVal: 2.0e6,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.AlbIce",
			usage: `
              Params.AlbIce is the background albedo of bare ice.`,
			defaultVal: 0.41,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.AlbLand",
			usage: `
              Params.AlbLand is the background albedo of snow-free land.`,
			defaultVal: 0.15,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.AlbSnowMax",
			usage: `
              Params.AlbSnowMax is the maximum (fresh) snow albedo.`,
			defaultVal: 0.79,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.AlbSnowMin",
			usage: `
              Params.AlbSnowMin is the minimum (old, wet) snow albedo.`,
			defaultVal: 0.60,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.HCrit",
			usage: `
              Params.HCrit is the critical snow height for areal snow
              cover [m water equivalent].`,
			defaultVal: 0.028,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.RCrit",
			usage: `
              Params.RCrit is the critical snow height for the
              refreezing fraction [m water equivalent].`,
			defaultVal: 0.85,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.Amp",
			usage: `
              Params.Amp is the diurnal cycle amplitude [K].`,
			defaultVal: 3.5,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.CSH",
			usage: `
              Params.CSH is the sensible heat exchange coefficient.`,
			defaultVal: 2.0e-3,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.CLH",
			usage: `
              Params.CLH is the latent heat exchange coefficient.`,
			defaultVal: 5.0e-4,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.CSHEnh",
			usage: `
              Params.CSHEnh is the sensible coefficient enhancement
              factor in the unstable regime.`,
			defaultVal: 2.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.CLHEnh",
			usage: `
              Params.CLHEnh is the latent coefficient enhancement factor
              over land.`,
			defaultVal: 2.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.AlbedoScheme",
			usage: `
              Params.AlbedoScheme selects the snow albedo
              parameterization: slater, denby, isba, alex, rembo or
              none.`,
			defaultVal: "isba",
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.TauA",
			usage: `
              Params.TauA is the ISBA dry snow albedo decay rate
              [1/day].`,
			defaultVal: 0.008,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.TauF",
			usage: `
              Params.TauF is the ISBA wet snow albedo decay rate
              [1/day].`,
			defaultVal: 0.24,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.WCrit",
			usage: `
              Params.WCrit is the ISBA critical liquid water content
              [kg/m²].`,
			defaultVal: 15.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.MCrit",
			usage: `
              Params.MCrit is the critical melt rate [m/s] of the denby,
              isba and rembo schemes.`,
			defaultVal: 6.0e-8,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.TMin",
			usage: `
              Params.TMin is the lower temperature [K] of the slater
              albedo ramp.`,
			defaultVal: 263.15,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.TMax",
			usage: `
              Params.TMax is the upper temperature [K] of the slater
              albedo ramp.`,
			defaultVal: 273.15,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.AFac",
			usage: `
              Params.AFac is the shape factor [1/K] of the alex albedo
              scheme.`,
			defaultVal: -0.18,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Params.TMid",
			usage: `
              Params.TMid is the midpoint temperature [K] of the alex
              albedo scheme.`,
			defaultVal: 275.35,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "Boundary.T2m",
			usage: `
              Boundary.T2m specifies whether the 2 m air temperature is
              externally supplied by the forcing every time step.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("SEMBAL")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
}

// outChan returns a channel printing to standard output.
func outChan() chan string {
	outChan := make(chan string)
	go func() {
		for {
			msg := <-outChan
			fmt.Println(msg)
		}
	}()
	return outChan
}

// setConfig finds and reads in the configuration file, if there is
// one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("sembal: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "sembal",
	Short: "A snow and ice surface energy and mass balance model.",
	Long: `Sembal computes the surface energy and mass balance of a snow/ice
column at a set of grid points from atmospheric forcing.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'SEMBAL_var' where 'var' is
the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of Sembal.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("Sembal v%s\n", sembal.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd is a command that runs a simulation over the configured
// forcing period.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run integrates the surface energy and mass balance over the configured
forcing period and writes the results to a NetCDF file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(Cfg)
	},
	DisableAutoGenTag: true,
}
