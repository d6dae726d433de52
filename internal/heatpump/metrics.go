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

package heatpump

import (
	"math"

	"github.com/antst/hpsim/internal/cycle"
)

// Metrics are the derived quantities of one converged solve.
type Metrics struct {
	COP               float64
	CompressorPowerKW float64
	EvaporatorDutyKW  float64
	CondenserDutyKW   float64
	MassFlowKgS       float64
	EvapC             float64
	CondC             float64
	EtaS              float64
	Iterations        int
}

func metricsOf(s cycle.State) Metrics {
	cop := math.NaN()
	if s.CompressorPowerKW > 0 {
		cop = s.CondenserDutyKW / s.CompressorPowerKW
	}
	return Metrics{
		COP:               cop,
		CompressorPowerKW: s.CompressorPowerKW,
		EvaporatorDutyKW:  s.EvaporatorDutyKW,
		CondenserDutyKW:   s.CondenserDutyKW,
		MassFlowKgS:       s.MassFlow,
		EvapC:             s.EvapC,
		CondC:             s.CondC,
		EtaS:              s.EtaS,
		Iterations:        s.Iterations,
	}
}

// Missing is the metrics value of a record that did not converge.
func Missing() Metrics {
	nan := math.NaN()
	return Metrics{
		COP: nan, CompressorPowerKW: nan, EvaporatorDutyKW: nan, CondenserDutyKW: nan,
		MassFlowKgS: nan, EvapC: nan, CondC: nan, EtaS: nan,
	}
}
