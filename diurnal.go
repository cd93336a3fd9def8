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

import "math"

// diurnalCycle splits a sinusoidal diurnal temperature cycle
// tmean + amp*sin(θ) into its above-freezing and below-freezing
// contributions, where tmean is the daily mean deviation from the
// freezing point [K] and amp is the diurnal half-range [K].
// The returned values are the time-weighted means of the cycle over
// the fraction of the day spent in each regime, so that
// above drives melt and below drives refreezing.
//
// When tmean approaches amp from below, the crossing angle θ1 goes to
// zero and the below-freezing term becomes a ratio of two vanishing
// quantities. The division is left unguarded; callers that cannot
// tolerate a NaN here must keep tmean away from the exact boundary.
func diurnalCycle(tmean, amp float64) (above, below float64) {
	if tmean+amp <= 0 {
		// The entire day stays at or below freezing, the peak
		// included.
		return 0, tmean
	}
	if math.Abs(tmean) < amp {
		// The cycle crosses the freezing point twice per day.
		t1 := math.Acos(tmean / amp)
		s := math.Sqrt(1 - (tmean/amp)*(tmean/amp))
		above = (-tmean*t1 + amp*s + math.Pi*tmean) / (math.Pi - t1)
		below = (tmean*t1 - amp*s) / t1
		return above, below
	}
	// The entire day stays above freezing.
	return tmean, 0
}
