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
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// column binds a table header to a Row field, in both directions.
type column struct {
	header string
	get    func(Row) string
	set    func(*Row, string) error
	number func(Row) float64 // nil for text columns
}

func floatColumn(header string, field func(*Row) *float64) column {
	return column{
		header: header,
		get:    func(r Row) string { return formatFloat(*field(&r)) },
		set: func(r *Row, s string) error {
			v, err := parseFloat(s)
			if err != nil {
				return err
			}
			*field(r) = v
			return nil
		},
		number: func(r Row) float64 { return *field(&r) },
	}
}

var columns = []column{
	{
		header: "index",
		get:    func(r Row) string { return strconv.Itoa(r.Index) },
		set: func(r *Row, s string) (err error) {
			r.Index, err = strconv.Atoi(s)
			return err
		},
	},
	{
		header: "timestamp",
		get:    func(r Row) string { return r.Timestamp.Format(time.RFC3339Nano) },
		set: func(r *Row, s string) (err error) {
			r.Timestamp, err = time.Parse(time.RFC3339Nano, s)
			return err
		},
	},
	{
		header: "mode",
		get:    func(r Row) string { return r.Mode },
		set:    func(r *Row, s string) error { r.Mode = s; return nil },
	},
	{
		header: "status",
		get:    func(r Row) string { return string(r.Status) },
		set: func(r *Row, s string) error {
			switch Status(s) {
			case StatusOK, StatusMissing:
				r.Status = Status(s)
				return nil
			}
			return errors.Errorf("unknown status %q", s)
		},
	},
	floatColumn("T_src_in_C", func(r *Row) *float64 { return &r.SourceInC }),
	floatColumn("T_sink_out_C", func(r *Row) *float64 { return &r.SinkOutC }),
	floatColumn("COP", func(r *Row) *float64 { return &r.COP }),
	floatColumn("P_comp_kW", func(r *Row) *float64 { return &r.CompressorPowerKW }),
	floatColumn("Q_evap_kW", func(r *Row) *float64 { return &r.EvaporatorDutyKW }),
	floatColumn("Q_cond_kW", func(r *Row) *float64 { return &r.CondenserDutyKW }),
	floatColumn("m_dot_ref_kg_s", func(r *Row) *float64 { return &r.MassFlowKgS }),
	floatColumn("T_evap_C", func(r *Row) *float64 { return &r.EvapC }),
	floatColumn("T_cond_C", func(r *Row) *float64 { return &r.CondC }),
	floatColumn("eta_s", func(r *Row) *float64 { return &r.EtaS }),
	{
		header: "error",
		get:    func(r Row) string { return r.Error },
		set:    func(r *Row, s string) error { r.Error = s; return nil },
	},
}

func Headers() []string {
	h := make([]string, len(columns))
	for i, c := range columns {
		h[i] = c.header
	}
	return h
}

// missing values are written as empty cells
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
