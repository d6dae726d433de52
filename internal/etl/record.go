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

package etl

import (
	"math"
	"time"
)

// TimeRecord is one aligned time step. Temperatures are °C, energy kWh,
// powers kW, mass flows kg/s; absent optional values are NaN.
type TimeRecord struct {
	Index     int
	Timestamp time.Time

	SourceTInC  float64
	SourceTOutC float64

	SinkTInC  float64
	SinkTOutC float64

	SinkEnergyKWh   float64
	IntervalH       float64
	SinkDutyKW      float64 // heat delivered by the condenser
	SinkMassFlowKgS float64 // sink water flow

	SourceRow int // worksheet rows the record came from
	SinkRow   int
}

func (r TimeRecord) HasSinkMassFlow() bool {
	return !math.IsNaN(r.SinkMassFlowKgS)
}
