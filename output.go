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
	"os"
	"sort"

	"github.com/ctessum/cdf"
)

// WriteState writes the requested fields of state s to NetCDF file w,
// together with the run parameters needed to interpret them. If no
// fields are requested, every state field is written.
func (m *Model) WriteState(w *os.File, s *State, outputVariables ...string) error {
	if len(outputVariables) == 0 {
		s.eachField(func(name string, _ []float64) {
			outputVariables = append(outputVariables, name)
		})
	}
	// Sort the names so they write in the same order every time.
	sort.Strings(outputVariables)

	h := cdf.NewHeader([]string{"point"}, []int{s.N()})
	h.AddAttribute("", "comment", "Sembal surface energy and mass balance output")
	h.AddAttribute("", "dt", []float64{m.Params.Dt})
	h.AddAttribute("", "nsub", []int32{int32(m.Params.NSub)})
	h.AddAttribute("", "albedo_scheme", m.Params.Scheme.String())

	for _, name := range outputVariables {
		if _, err := s.Field(name); err != nil {
			return err
		}
		h.AddVariable(name, []string{"point"}, []float32{0})
		desc, _ := s.Description(name)
		units, _ := s.Units(name)
		h.AddAttribute(name, "description", desc)
		h.AddAttribute(name, "units", units)
	}
	h.AddVariable("SurfaceType", []string{"point"}, []int32{0})
	h.AddAttribute("SurfaceType", "description", "Surface mask: 0=ocean, 1=land, 2=ice")
	h.Define()

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return err
	}
	for _, name := range outputVariables {
		data, err := s.Field(name)
		if err != nil {
			return err
		}
		if err := writeNCF(f, name, data); err != nil {
			return fmt.Errorf("sembal: writing variable %s to netcdf file: %v", name, err)
		}
	}
	mask := make([]int32, s.N())
	for i, v := range s.SurfaceType {
		mask[i] = int32(v)
	}
	mw := f.Writer("SurfaceType", []int{0}, []int{s.N()})
	if _, err := mw.Write(mask); err != nil {
		return fmt.Errorf("sembal: writing surface mask to netcdf file: %v", err)
	}
	return cdf.UpdateNumRecs(w)
}

func writeNCF(f *cdf.File, Var string, data []float64) error {
	data32 := make([]float32, len(data))
	for i, e := range data {
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(Var)
	start := make([]int, len(end))
	w := f.Writer(Var, start, end)
	_, err := w.Write(data32)
	return err
}
