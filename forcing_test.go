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
	"io"
	"testing"
	"time"

	"github.com/ctessum/sparse"
)

func TestNewFileForcing(t *testing.T) {
	_, err := NewFileForcing("forcing_[DATE].nc", "19790101", "19800101",
		24*time.Hour, 8760*time.Hour, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	// Variable overrides must name known forcing fields.
	_, err = NewFileForcing("forcing_[DATE].nc", "19790101", "19800101",
		24*time.Hour, 8760*time.Hour, map[string]string{"t2m": "tas"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewFileForcing("forcing_[DATE].nc", "19790101", "19800101",
		24*time.Hour, 8760*time.Hour, map[string]string{"nosuchfield": "x"}, nil)
	if err == nil {
		t.Error("unknown forcing field override should be an error")
	}

	// The period must run forward.
	_, err = NewFileForcing("forcing_[DATE].nc", "19800101", "19790101",
		24*time.Hour, 8760*time.Hour, nil, nil)
	if err == nil {
		t.Error("an end date before the start date should be an error")
	}
	_, err = NewFileForcing("forcing_[DATE].nc", "1979-01-01", "19800101",
		24*time.Hour, 8760*time.Hour, nil, nil)
	if err == nil {
		t.Error("a malformed start date should be an error")
	}
}

func TestNextDataConstant(t *testing.T) {
	d := sparse.ZerosDense(3)
	d.Elements[1] = 7
	next := nextDataConstant(d)
	for k := 0; k < 3; k++ {
		got, err := next()
		if err != nil {
			t.Fatal(err)
		}
		if got.Elements[1] != 7 {
			t.Errorf("step %d: element = %g; want 7", k, got.Elements[1])
		}
	}
}

// The file iterator must stop with io.EOF at the configured end time
// without touching the filesystem.
func TestNextDataNCFEndsAtEOF(t *testing.T) {
	start, _ := time.Parse(inDateFormat, "19790101")
	next := nextDataNCF("missing_[DATE].nc", forcingFormat, "t2m",
		start, start, 24*time.Hour, 8760*time.Hour, readNCF, nil)
	if _, err := next(); err != io.EOF {
		t.Errorf("err = %v; want io.EOF for an empty period", err)
	}
}
