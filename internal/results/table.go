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

package results

import (
	"math"
	"time"

	"github.com/antst/hpsim/internal/heatpump"
)

type Status string

const (
	StatusOK      Status = "ok"
	StatusMissing Status = "missing"
)

// Row is the outcome for one TimeRecord. A missing row keeps its timestamp
// and carries NaN metrics plus the reason in Error.
type Row struct {
	Index     int
	Timestamp time.Time
	Mode      string
	Status    Status

	SourceInC float64
	SinkOutC  float64

	COP               float64
	CompressorPowerKW float64
	EvaporatorDutyKW  float64
	CondenserDutyKW   float64
	MassFlowKgS       float64
	EvapC             float64
	CondC             float64
	EtaS              float64

	Error string
}

func NewRow(index int, at time.Time, mode string, m heatpump.Metrics) Row {
	return Row{
		Index:             index,
		Timestamp:         at,
		Mode:              mode,
		Status:            StatusOK,
		SourceInC:         math.NaN(),
		SinkOutC:          math.NaN(),
		COP:               m.COP,
		CompressorPowerKW: m.CompressorPowerKW,
		EvaporatorDutyKW:  m.EvaporatorDutyKW,
		CondenserDutyKW:   m.CondenserDutyKW,
		MassFlowKgS:       m.MassFlowKgS,
		EvapC:             m.EvapC,
		CondC:             m.CondC,
		EtaS:              m.EtaS,
	}
}

func MissingRow(index int, at time.Time, mode string, err error) Row {
	r := NewRow(index, at, mode, heatpump.Missing())
	r.Status = StatusMissing
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// WithInputs records the boundary temperatures the row was solved at.
func (r Row) WithInputs(sourceInC, sinkOutC float64) Row {
	r.SourceInC, r.SinkOutC = sourceInC, sinkOutC
	return r
}

func (r Row) OK() bool {
	return r.Status == StatusOK
}

// Table holds one row per input record, in record order.
type Table struct {
	RunID string
	Rows  []Row
}

func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// Counts returns the number of ok and missing rows.
func (t *Table) Counts() (ok, missing int) {
	for _, r := range t.Rows {
		if r.OK() {
			ok++
		} else {
			missing++
		}
	}
	return ok, missing
}

// Series extracts one metric over time; missing rows yield NaN.
func (t *Table) Series(metric func(Row) float64) ([]time.Time, []float64) {
	ts := make([]time.Time, len(t.Rows))
	vs := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		ts[i] = r.Timestamp
		if r.OK() {
			vs[i] = metric(r)
		} else {
			vs[i] = math.NaN()
		}
	}
	return ts, vs
}
