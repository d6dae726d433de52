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

package config

// ColumnMap names the sheets and the literal column headers of the input workbook.
// Empty header means the optional column is not used.
type ColumnMap struct {
	SheetSource string `yaml:"sheet_source"`
	SheetSink   string `yaml:"sheet_sink"`

	TimeStartSource string `yaml:"time_start_source"`
	TimeEndSource   string `yaml:"time_end_source"`
	TimeStartSink   string `yaml:"time_start_sink"`
	TimeEndSink     string `yaml:"time_end_sink"`

	// Source (cold side / evaporator loop)
	SrcTIn  string `yaml:"src_T_in"`
	SrcTOut string `yaml:"src_T_out"`

	// Sink (hot side / condenser loop)
	SinkTIn       string `yaml:"sink_T_in"`
	SinkTOut      string `yaml:"sink_T_out"`
	SinkEnergyKWh string `yaml:"sink_Energy_kWh"`
	SinkQCondKW   string `yaml:"sink_Q_cond_kW"`
	SinkMassFlow  string `yaml:"sink_m_dot_kg_s"`
}

// Logical field names used in errors and unit overrides.
const (
	FieldSourceTimeStart = "source_time_start"
	FieldSourceTimeEnd   = "source_time_end"
	FieldSourceTIn       = "source_T_in"
	FieldSourceTOut      = "source_T_out"
	FieldSinkTimeStart   = "sink_time_start"
	FieldSinkTimeEnd     = "sink_time_end"
	FieldSinkTIn         = "sink_T_in"
	FieldSinkTOut        = "sink_T_out"
	FieldSinkEnergy      = "sink_energy"
	FieldSinkPower       = "sink_power"
	FieldSinkMassFlow    = "sink_mass_flow"
)

// Field is one logical column of a sheet.
type Field struct {
	Name     string
	Key      string // yaml key / CLI flag carrying the header
	Header   string
	Required bool
}

func NewColumnMap() ColumnMap {
	return ColumnMap{
		SheetSource:     "Heat source",
		SheetSink:       "Heat sink",
		TimeStartSource: "start measurement",
		TimeEndSource:   "end measurement",
		TimeStartSink:   "start measurement",
		TimeEndSink:     "end measurement",
		SrcTIn:          "T_in[degC]",
		SrcTOut:         "T_out[degC]",
		SinkTIn:         "T_in[degC]",
		SinkTOut:        "T_out[degC]",
		SinkEnergyKWh:   "Energy[kWh]",
	}
}

// SourceFields lists the heat-source sheet columns in resolution order.
func (c ColumnMap) SourceFields() []Field {
	return []Field{
		{Name: FieldSourceTimeStart, Key: "time_start_source", Header: c.TimeStartSource, Required: true},
		{Name: FieldSourceTimeEnd, Key: "time_end_source", Header: c.TimeEndSource},
		{Name: FieldSourceTIn, Key: "src_T_in", Header: c.SrcTIn, Required: true},
		{Name: FieldSourceTOut, Key: "src_T_out", Header: c.SrcTOut},
	}
}

// SinkFields lists the heat-sink sheet columns in resolution order. Energy is
// required only when no power column is configured.
func (c ColumnMap) SinkFields() []Field {
	return []Field{
		{Name: FieldSinkTimeStart, Key: "time_start_sink", Header: c.TimeStartSink, Required: true},
		{Name: FieldSinkTimeEnd, Key: "time_end_sink", Header: c.TimeEndSink},
		{Name: FieldSinkTIn, Key: "sink_T_in", Header: c.SinkTIn},
		{Name: FieldSinkTOut, Key: "sink_T_out", Header: c.SinkTOut, Required: true},
		{Name: FieldSinkPower, Key: "sink_Q_cond_kW", Header: c.SinkQCondKW},
		{Name: FieldSinkEnergy, Key: "sink_Energy_kWh", Header: c.SinkEnergyKWh, Required: c.SinkQCondKW == ""},
		{Name: FieldSinkMassFlow, Key: "sink_m_dot_kg_s", Header: c.SinkMassFlow},
	}
}
