/*
 * Copyright (c) 2023. Anton Starikov -- All Rights Reserved
 *
 * This file is part of HPSIM project.
 *
 * HPSIM is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package thermo_model

import "math"

// Saturation correlations for R134a, fitted to IIR-referenced table data
// (h = 200 kJ/kg, s = 1 kJ/kg/K for saturated liquid at 0 °C) between -40 °C and 95 °C.
// Temperatures are °C, pressures bar, enthalpies kJ/kg, entropies kJ/(kg K).

const (
	maxPower = 2
	nelCoeff = maxPower + 1

	kelvin = 273.15

	// Clausius-Clapeyron fit: ln p = A - B/T
	psatA = 10.782
	psatB = 2651.8

	// superheated vapour heat capacity near the saturation line
	cpVapour = 1.1

	MinTemperature      = -40.0
	MaxTemperature      = 95.0
	CriticalTemperature = 101.06
)

var (
	hLiquidCoeff = [nelCoeff]float64{200.0, 1.295, 2.875e-03}
	hVapourCoeff = [nelCoeff]float64{398.6, 6.625e-01, -3.5625e-03}
	sVapourCoeff = [nelCoeff]float64{1.7271, -3.0125e-04, -2.46875e-06}
	sLiquidCoeff = [nelCoeff]float64{1.0, 5.155e-03, -9.5625e-06}
	mTermsPowers = [nelCoeff]int{0, 1, 2}
)

func evaluate(coeff [nelCoeff]float64, t float64) float64 {
	var tPwr [maxPower + 1]float64
	tPwr[0] = 1.0
	for i := 1; i <= maxPower; i++ {
		tPwr[i] = tPwr[i-1] * t
	}

	v := 0.0
	for i := 0; i < nelCoeff; i++ {
		v += coeff[i] * tPwr[mTermsPowers[i]]
	}
	return v
}

// InRange reports whether t lies inside the fitted range of the correlations.
func InRange(t float64) bool {
	return t >= MinTemperature && t <= MaxTemperature
}

func SaturationPressure(t float64) float64 {
	return math.Exp(psatA - psatB/(t+kelvin))
}

// SaturationTemperature inverts SaturationPressure.
func SaturationTemperature(p float64) float64 {
	return psatB/(psatA-math.Log(p)) - kelvin
}

func LiquidEnthalpy(t float64) float64 {
	return evaluate(hLiquidCoeff, t)
}

func VapourEnthalpy(t float64) float64 {
	return evaluate(hVapourCoeff, t)
}

func LatentHeat(t float64) float64 {
	return VapourEnthalpy(t) - LiquidEnthalpy(t)
}

func LiquidEntropy(t float64) float64 {
	return evaluate(sLiquidCoeff, t)
}

func VapourEntropy(t float64) float64 {
	return evaluate(sVapourCoeff, t)
}

// IsentropicEnthalpy is the enthalpy of superheated vapour with entropy s at the
// saturation pressure of tSat. Below the saturated vapour entropy the state is
// taken as saturated vapour.
func IsentropicEnthalpy(tSat, s float64) float64 {
	ds := s - VapourEntropy(tSat)
	if ds <= 0 {
		return VapourEnthalpy(tSat)
	}
	return VapourEnthalpy(tSat) + cpVapour*(tSat+kelvin)*(math.Exp(ds/cpVapour)-1)
}
