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
	"os"
	"strings"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// NextData is a type of function that returns data for the next time
// step. If there are no more time steps, it should return the io.EOF
// error.
type NextData func() (*sparse.DenseArray, error)

// Forcing specifies the methods that are necessary for a variable to
// supply atmospheric forcing time series to the surface model. Each
// method returns an iterator over outer time steps; all iterators of
// one Forcing must advance through the same time axis.
type Forcing interface {
	// N is the number of grid points.
	N() (int, error)

	// T2m is 2 m air temperature [K].
	T2m() NextData
	// SWD is downwelling shortwave radiation [W/m²].
	SWD() NextData
	// LWD is downwelling longwave radiation [W/m²].
	LWD() NextData
	// Wind is surface wind speed [m/s].
	Wind() NextData
	// Pressure is surface pressure [Pa].
	Pressure() NextData
	// AirDensity is surface air density [kg/m³].
	AirDensity() NextData
	// Humidity is specific humidity [kg/kg].
	Humidity() NextData
	// Snowfall is the snowfall rate [m water equivalent/s].
	Snowfall() NextData
	// Rainfall is the rainfall rate [m water equivalent/s].
	Rainfall() NextData

	// SurfaceType is the static per-point surface mask
	// (0=ocean, 1=land, 2=ice).
	SurfaceType() (*sparse.DenseArray, error)
}

// forcingFormat specifies the format in which dates appear in forcing
// file names.
const forcingFormat = "2006"

// FileForcing is a Forcing backed by a series of NetCDF files, one
// file per year with one record per outer time step.
type FileForcing struct {
	// file is the location of the forcing files, with [DATE] as a
	// wild card for the simulation year.
	file string

	start, end time.Time

	recordDelta, fileDelta time.Duration

	// vars maps forcing fields to the NetCDF variable holding them.
	vars map[string]string

	msgChan chan string
}

// defaultForcingVars are the NetCDF variable names used when the
// configuration does not override them.
var defaultForcingVars = map[string]string{
	"t2m":  "t2m",
	"swd":  "swd",
	"lwd":  "lwd",
	"wind": "wind",
	"sp":   "sp",
	"rhoa": "rhoa",
	"qq":   "qq",
	"sf":   "sf",
	"rf":   "rf",
	"mask": "mask",
}

// NewFileForcing initializes a NetCDF file forcing reader.
// file is the location of the forcing files, where [DATE] should be
// used as a wild card for the year. startDate and endDate are the
// dates of the beginning and end of the simulation, respectively, in
// the format "YYYYMMDD". recordDelta is the length of time between
// records within a file and must equal the model's outer time step;
// fileDelta is the length of time covered by each file. vars
// optionally overrides entries of defaultForcingVars. If msgChan is
// not nil, status messages will be sent to it.
func NewFileForcing(file, startDate, endDate string, recordDelta, fileDelta time.Duration, vars map[string]string, msgChan chan string) (*FileForcing, error) {
	f := &FileForcing{
		file:        file,
		recordDelta: recordDelta,
		fileDelta:   fileDelta,
		vars:        make(map[string]string),
		msgChan:     msgChan,
	}
	for k, v := range defaultForcingVars {
		f.vars[k] = v
	}
	for k, v := range vars {
		if _, ok := f.vars[k]; !ok {
			return nil, fmt.Errorf("sembal: forcing reader: unknown forcing field %q", k)
		}
		f.vars[k] = v
	}
	var err error
	f.start, err = time.Parse(inDateFormat, startDate)
	if err != nil {
		return nil, fmt.Errorf("sembal: forcing reader start time: %v", err)
	}
	f.end, err = time.Parse(inDateFormat, endDate)
	if err != nil {
		return nil, fmt.Errorf("sembal: forcing reader end time: %v", err)
	}
	if !f.end.After(f.start) {
		return nil, fmt.Errorf("sembal: forcing reader end time %v is not after start time %v", f.end, f.start)
	}
	return f, nil
}

// inDateFormat specifies the format to use when inputting dates.
const inDateFormat = "20060102"

func (f *FileForcing) read(field string) NextData {
	return nextDataNCF(f.file, forcingFormat, f.vars[field], f.start, f.end,
		f.recordDelta, f.fileDelta, readNCF, f.msgChan)
}

// N helps fulfill the Forcing interface by returning the number of
// grid points in the forcing files.
func (f *FileForcing) N() (int, error) {
	ff, cf, err := ncfFromTemplate(f.file, forcingFormat, f.start)
	if err != nil {
		return -1, fmt.Errorf("sembal: forcing grid size: %v", err)
	}
	defer ff.Close()
	dims := cf.Header.Lengths(f.vars["t2m"])
	if len(dims) == 0 {
		return -1, fmt.Errorf("sembal: forcing grid size: variable %s not in file", f.vars["t2m"])
	}
	return dims[len(dims)-1], nil
}

// T2m helps fulfill the Forcing interface.
func (f *FileForcing) T2m() NextData { return f.read("t2m") }

// SWD helps fulfill the Forcing interface.
func (f *FileForcing) SWD() NextData { return f.read("swd") }

// LWD helps fulfill the Forcing interface.
func (f *FileForcing) LWD() NextData { return f.read("lwd") }

// Wind helps fulfill the Forcing interface.
func (f *FileForcing) Wind() NextData { return f.read("wind") }

// Pressure helps fulfill the Forcing interface.
func (f *FileForcing) Pressure() NextData { return f.read("sp") }

// AirDensity helps fulfill the Forcing interface.
func (f *FileForcing) AirDensity() NextData { return f.read("rhoa") }

// Humidity helps fulfill the Forcing interface.
func (f *FileForcing) Humidity() NextData { return f.read("qq") }

// Snowfall helps fulfill the Forcing interface.
func (f *FileForcing) Snowfall() NextData { return f.read("sf") }

// Rainfall helps fulfill the Forcing interface.
func (f *FileForcing) Rainfall() NextData { return f.read("rf") }

// SurfaceType helps fulfill the Forcing interface by reading the
// static surface mask from the first forcing file.
func (f *FileForcing) SurfaceType() (*sparse.DenseArray, error) {
	ff, cf, err := ncfFromTemplate(f.file, forcingFormat, f.start)
	if err != nil {
		return nil, fmt.Errorf("sembal: forcing surface mask: %v", err)
	}
	defer ff.Close()
	return readNCFNoHour(f.vars["mask"], cf, 0)
}

// nextDataNCF returns a function that sequentially retrieves time
// series data for the specified variable (varName) from a series of
// NetCDF files with the given file name template between the given
// start and end times. recordDelta and fileDelta specify the length
// of time between each record within a file and between each file,
// respectively. dateFormat is the format in which dates appear in the
// file name.
func nextDataNCF(fileTemplate string, dateFormat string, varName string, start, end time.Time, recordDelta, fileDelta time.Duration, readFunc readNCFFunc, msgChan chan string) NextData {
	recordsPerFile := int(fileDelta / recordDelta)
	var i int
	date := start
	return func() (*sparse.DenseArray, error) {
		if !date.Before(end) {
			return nil, io.EOF
		}
		f, ff, err := ncfFromTemplate(fileTemplate, dateFormat, date)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		data, err := readFunc(varName, ff, i)
		if err != nil {
			return nil, err
		}
		i++
		if i == recordsPerFile {
			if msgChan != nil {
				fileName := strings.Replace(fileTemplate, "[DATE]", date.Format(dateFormat), -1)
				msgChan <- fmt.Sprintf("Read %d records of %s from %s", i, varName, fileName)
			}
			i = 0
			date = date.Add(fileDelta)
		}
		return data, err
	}
}

// readNCFFunc is a function that can read information from a NetCDF
// file.
type readNCFFunc func(varName string, file *cdf.File, index int) (*sparse.DenseArray, error)

// readNCF reads variable varName out of NetCDF file ff at the index 0
// value specified by record.
func readNCF(varName string, ff *cdf.File, record int) (*sparse.DenseArray, error) {
	dims := ff.Header.Lengths(varName)
	if len(dims) == 0 {
		return nil, fmt.Errorf("sembal: forcing reader: variable %v not in file", varName)
	}
	dims = dims[1:]
	nread := 1
	for _, dim := range dims {
		nread *= dim
	}
	start, end := make([]int, len(dims)+1), make([]int, len(dims)+1)
	start[0], end[0] = record, record+1
	r := ff.Reader(varName, start, end)
	buf := r.Zero(nread)
	_, err := r.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("sembal: forcing reader: reading variable %s: %v", varName, err)
	}
	data := sparse.ZerosDense(dims...)
	for i, val := range buf.([]float32) {
		data.Elements[i] = float64(val)
	}
	return data, nil
}

// readNCFNoHour reads variable varName out of NetCDF file ff,
// ignoring the record index.
func readNCFNoHour(varName string, ff *cdf.File, _ int) (*sparse.DenseArray, error) {
	dims := ff.Header.Lengths(varName)
	if len(dims) == 0 {
		return nil, fmt.Errorf("sembal: forcing reader: variable %v not in file", varName)
	}
	r := ff.Reader(varName, nil, nil)
	buf := r.Zero(-1)
	_, err := r.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("sembal: forcing reader: reading variable %s: %v", varName, err)
	}
	data := sparse.ZerosDense(dims...)
	for i, val := range buf.([]float32) {
		data.Elements[i] = float64(val)
	}
	return data, nil
}

// ncfFromTemplate opens a NetCDF file from the given template, where
// the [DATE] wild card in the given fileTemplate is replaced by the
// given date, formatted as the given dateFormat.
func ncfFromTemplate(fileTemplate, dateFormat string, date time.Time) (*os.File, *cdf.File, error) {
	d := date.Format(dateFormat)
	file := strings.Replace(fileTemplate, "[DATE]", d, -1)
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, err
	}
	ff, err := cdf.Open(f)
	if err != nil {
		return nil, nil, err
	}
	return f, ff, err
}

// nextDataConstant returns a NextData that always returns the same
// array, for spin-up runs and tests.
func nextDataConstant(data *sparse.DenseArray) NextData {
	return func() (*sparse.DenseArray, error) {
		return data, nil
	}
}
