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

// satVaporPressureWater returns the saturation vapor pressure [Pa]
// over a liquid water surface at temperature T [K], following the
// Magnus formula with the WMO-recommended coefficients.
func satVaporPressureWater(T float64) float64 {
	return 611.2 * math.Exp(17.62*(T-T0)/(243.12+T-T0))
}

// satVaporPressureIce returns the saturation vapor pressure [Pa]
// over an ice surface at temperature T [K].
func satVaporPressureIce(T float64) float64 {
	return 611.2 * math.Exp(22.46*(T-T0)/(272.62+T-T0))
}

// satSpecificHumidity converts the saturation vapor pressure esat [Pa]
// at surface pressure ps [Pa] to specific humidity at saturation
// [kg water per kg air].
func satSpecificHumidity(esat, ps float64) float64 {
	return esat * epsilon / (esat*(epsilon-1) + ps)
}
