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
	"time"

	"github.com/cryomodel/sembal"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"
)

// ParamsFromConfig creates the model parameters from the information
// in the given configuration. The albedo scheme name and the
// consistency of the parameter set are validated here, so a bad
// configuration fails before the run starts.
func ParamsFromConfig(cfg *viper.Viper) (*sembal.Params, error) {
	p := &sembal.Params{
		NSub:       cast.ToInt(cfg.Get("Params.NSub")),
		Dt:         cast.ToFloat64(cfg.Get("Params.Dt")),
		Ceff:       cast.ToFloat64(cfg.Get("Params.Ceff")),
		AlbIce:     cast.ToFloat64(cfg.Get("Params.AlbIce")),
		AlbLand:    cast.ToFloat64(cfg.Get("Params.AlbLand")),
		AlbSnowMax: cast.ToFloat64(cfg.Get("Params.AlbSnowMax")),
		AlbSnowMin: cast.ToFloat64(cfg.Get("Params.AlbSnowMin")),
		HCrit:      cast.ToFloat64(cfg.Get("Params.HCrit")),
		RCrit:      cast.ToFloat64(cfg.Get("Params.RCrit")),
		Amp:        cast.ToFloat64(cfg.Get("Params.Amp")),
		CSH:        cast.ToFloat64(cfg.Get("Params.CSH")),
		CLH:        cast.ToFloat64(cfg.Get("Params.CLH")),
		CSHEnh:     cast.ToFloat64(cfg.Get("Params.CSHEnh")),
		CLHEnh:     cast.ToFloat64(cfg.Get("Params.CLHEnh")),
		TauA:       cast.ToFloat64(cfg.Get("Params.TauA")),
		TauF:       cast.ToFloat64(cfg.Get("Params.TauF")),
		WCrit:      cast.ToFloat64(cfg.Get("Params.WCrit")),
		MCrit:      cast.ToFloat64(cfg.Get("Params.MCrit")),
		TMin:       cast.ToFloat64(cfg.Get("Params.TMin")),
		TMax:       cast.ToFloat64(cfg.Get("Params.TMax")),
		AFac:       cast.ToFloat64(cfg.Get("Params.AFac")),
		TMid:       cast.ToFloat64(cfg.Get("Params.TMid")),
	}
	if p.NSub > 0 {
		p.DtSub = p.Dt / float64(p.NSub)
	}
	var err error
	p.Scheme, err = sembal.ParseAlbedoScheme(cast.ToString(cfg.Get("Params.AlbedoScheme")))
	if err != nil {
		return nil, err
	}
	p.Boundary = boundaryFromConfig(cfg, "Boundary")
	p.EquilBoundary = boundaryFromConfig(cfg, "EquilBoundary")
	if err := p.Check(); err != nil {
		return nil, err
	}
	return p, nil
}

// boundaryFromConfig creates one boundary switch set from the
// configuration keys below the given prefix. Switches that are not in
// the configuration are off.
func boundaryFromConfig(cfg *viper.Viper, prefix string) sembal.Boundary {
	get := func(key string) bool {
		return cast.ToBool(cfg.Get(prefix + "." + key))
	}
	return sembal.Boundary{
		T2m:          get("T2m"),
		Tsurf:        get("Tsurf"),
		Hsnow:        get("Hsnow"),
		Albedo:       get("Albedo"),
		Melt:         get("Melt"),
		Refreezing:   get("Refreezing"),
		SMB:          get("SMB"),
		Accumulation: get("Accumulation"),
		LHF:          get("LHF"),
		SHF:          get("SHF"),
		Sublimation:  get("Sublimation"),
	}
}

// ForcingFromConfig creates the NetCDF forcing reader from the
// information in the given configuration.
func ForcingFromConfig(cfg *viper.Viper, msgChan chan string) (*sembal.FileForcing, error) {
	recordDelta, err := time.ParseDuration(cast.ToString(cfg.Get("ForcingRecordDelta")))
	if err != nil {
		return nil, fmt.Errorf("sembal: parsing ForcingRecordDelta: %v", err)
	}
	fileDelta, err := time.ParseDuration(cast.ToString(cfg.Get("ForcingFileDelta")))
	if err != nil {
		return nil, fmt.Errorf("sembal: parsing ForcingFileDelta: %v", err)
	}
	if dt := cast.ToFloat64(cfg.Get("Params.Dt")); recordDelta.Seconds() != dt {
		return nil, fmt.Errorf("sembal: ForcingRecordDelta %v does not match the outer time step %g s",
			recordDelta, dt)
	}
	vars, err := cast.ToStringMapStringE(cfg.Get("ForcingVariables"))
	if err != nil {
		vars = nil
	}
	return sembal.NewFileForcing(
		cast.ToString(cfg.Get("ForcingFile")),
		cast.ToString(cfg.Get("ForcingStart")),
		cast.ToString(cfg.Get("ForcingEnd")),
		recordDelta, fileDelta, vars, msgChan,
	)
}

// stepsFromConfig returns the number of outer time steps covered by
// the configured forcing period.
func stepsFromConfig(cfg *viper.Viper) (int, error) {
	start, err := time.Parse("20060102", cast.ToString(cfg.Get("ForcingStart")))
	if err != nil {
		return 0, fmt.Errorf("sembal: parsing ForcingStart: %v", err)
	}
	end, err := time.Parse("20060102", cast.ToString(cfg.Get("ForcingEnd")))
	if err != nil {
		return 0, fmt.Errorf("sembal: parsing ForcingEnd: %v", err)
	}
	dt := cast.ToFloat64(cfg.Get("Params.Dt"))
	if dt <= 0 {
		return 0, fmt.Errorf("sembal: outer time step must be positive; got %g", dt)
	}
	return int(end.Sub(start).Seconds() / dt), nil
}
