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
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
)

func TestWriteState(t *testing.T) {
	m := &Model{Params: testParams(), State: NewState(3)}
	m.State.SurfaceType[2] = TypeIce
	m.State.Hsnow[0], m.State.Hsnow[1], m.State.Hsnow[2] = 0.5, 1.5, 2.5
	m.State.Tsurf[0], m.State.Tsurf[1], m.State.Tsurf[2] = 260, 265, 270

	path := filepath.Join(t.TempDir(), "out.nc")
	w, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.WriteState(w, m.State, "Hsnow", "Tsurf"); err != nil {
		t.Fatal(err)
	}
	w.Close()

	r, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	f, err := cdf.Open(r)
	if err != nil {
		t.Fatal(err)
	}

	for name, want := range map[string][]float64{
		"Hsnow": {0.5, 1.5, 2.5},
		"Tsurf": {260, 265, 270},
	} {
		data, err := readNCFNoHour(name, f, 0)
		if err != nil {
			t.Fatal(err)
		}
		for i, v := range want {
			if different(data.Elements[i], v, 1.e-6) {
				t.Errorf("%s[%d] = %g; want %g", name, i, data.Elements[i], v)
			}
		}
	}

	if units := f.Header.GetAttribute("Hsnow", "units"); units.(string) != "m" {
		t.Errorf("Hsnow units attribute = %v; want \"m\"", units)
	}
	if scheme := f.Header.GetAttribute("", "albedo_scheme"); scheme.(string) != "isba" {
		t.Errorf("albedo_scheme attribute = %v; want \"isba\"", scheme)
	}
}

func TestWriteStateUnknownVariable(t *testing.T) {
	m := &Model{Params: testParams(), State: NewState(1)}
	path := filepath.Join(t.TempDir(), "out.nc")
	w, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := m.WriteState(w, m.State, "NoSuchField"); err == nil {
		t.Error("writing an unknown variable should be an error")
	}
}
