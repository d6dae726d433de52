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

package report

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/antst/hpsim/internal/cycle"
	"github.com/antst/hpsim/internal/heatpump"
)

type DesignSection struct {
	Source          string  `yaml:"source" json:"source"`
	Timestamp       string  `yaml:"timestamp,omitempty" json:"timestamp,omitempty"`
	SourceInC       float64 `yaml:"T_src_in_C" json:"T_src_in_C"`
	SinkOutC        float64 `yaml:"T_sink_out_C" json:"T_sink_out_C"`
	CondenserDutyKW float64 `yaml:"Q_cond_kW" json:"Q_cond_kW"`
}

type SizingSection struct {
	EvaporatorUA  float64 `yaml:"UA_evap_kW_K" json:"UA_evap_kW_K"`
	CondenserUA   float64 `yaml:"UA_cond_kW_K,omitempty" json:"UA_cond_kW_K,omitempty"`
	PressureRatio float64 `yaml:"pressure_ratio" json:"pressure_ratio"`
	EtaS          float64 `yaml:"eta_s" json:"eta_s"`
	MassFlow      float64 `yaml:"m_dot_ref_kg_s" json:"m_dot_ref_kg_s"`
	EvapC         float64 `yaml:"T_evap_C" json:"T_evap_C"`
	CondC         float64 `yaml:"T_cond_C" json:"T_cond_C"`
}

type MetricsSection struct {
	COP               float64 `yaml:"COP" json:"COP"`
	CompressorPowerKW float64 `yaml:"P_comp_kW" json:"P_comp_kW"`
	EvaporatorDutyKW  float64 `yaml:"Q_evap_kW" json:"Q_evap_kW"`
	CondenserDutyKW   float64 `yaml:"Q_cond_kW" json:"Q_cond_kW"`
}

type RowsSection struct {
	Total   int      `yaml:"total" json:"total"`
	OK      int      `yaml:"ok" json:"ok"`
	Missing int      `yaml:"missing" json:"missing"`
	MeanCOP *float64 `yaml:"mean_COP,omitempty" json:"mean_COP,omitempty"`
}

// Summary is the machine-readable design summary of one run.
type Summary struct {
	RunID   string         `yaml:"run_id" json:"run_id"`
	Started time.Time      `yaml:"started" json:"started"`
	Input   string         `yaml:"input" json:"input"`
	Fluid   string         `yaml:"fluid" json:"fluid"`
	Design  DesignSection  `yaml:"design" json:"design"`
	Sizing  SizingSection  `yaml:"sizing" json:"sizing"`
	Metrics MetricsSection `yaml:"design_metrics" json:"design_metrics"`
	Rows    RowsSection    `yaml:"rows" json:"rows"`
}

func round(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func NewSummary(runID string, started time.Time, input, fluid string,
	p heatpump.DesignPoint, s cycle.Sizing, m heatpump.Metrics) Summary {
	sum := Summary{
		RunID:   runID,
		Started: started.UTC().Truncate(time.Second),
		Input:   input,
		Fluid:   fluid,
		Design: DesignSection{
			Source:          p.Source(),
			SourceInC:       round(p.SourceInC),
			SinkOutC:        round(p.SinkOutC),
			CondenserDutyKW: round(p.CondenserDutyKW),
		},
		Sizing: SizingSection{
			EvaporatorUA:  round(s.EvaporatorUA),
			CondenserUA:   round(s.CondenserUA),
			PressureRatio: round(s.PressureRatio),
			EtaS:          round(s.EtaS),
			MassFlow:      round(s.MassFlow),
			EvapC:         round(s.EvapC),
			CondC:         round(s.CondC),
		},
		Metrics: MetricsSection{
			COP:               round(m.COP),
			CompressorPowerKW: round(m.CompressorPowerKW),
			EvaporatorDutyKW:  round(m.EvaporatorDutyKW),
			CondenserDutyKW:   round(m.CondenserDutyKW),
		},
	}
	if !p.Aggregate() {
		sum.Design.Timestamp = p.Timestamp.Format(time.RFC3339)
	}
	return sum
}

// SetRows records the row counts and the mean COP over converged rows.
func (s *Summary) SetRows(ok, missing int, cops []float64) {
	s.Rows = RowsSection{Total: ok + missing, OK: ok, Missing: missing}
	var sum float64
	var n int
	for _, c := range cops {
		if !math.IsNaN(c) {
			sum += c
			n++
		}
	}
	if n > 0 {
		mean := round(sum / float64(n))
		s.Rows.MeanCOP = &mean
	}
}

func (s Summary) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# heat pump design summary, run %v\n", s.RunID); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

func (s Summary) Text() string {
	var buf bytes.Buffer
	_ = s.WriteText(&buf)
	return buf.String()
}

func (s Summary) Save(path string) error {
	var buf bytes.Buffer
	if err := s.WriteText(&buf); err != nil {
		return errors.Wrap(err, "encode design summary")
	}
	return errors.Wrapf(os.WriteFile(path, buf.Bytes(), 0o644), "write %v", path)
}

func LoadSummary(path string) (Summary, error) {
	var s Summary
	b, err := os.ReadFile(path)
	if err != nil {
		return s, errors.Wrap(err, "read design summary")
	}
	return s, errors.Wrapf(yaml.Unmarshal(b, &s), "parse %v", path)
}
