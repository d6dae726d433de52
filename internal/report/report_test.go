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
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/antst/hpsim/internal/cycle"
	"github.com/antst/hpsim/internal/heatpump"
	"github.com/antst/hpsim/internal/results"
)

var t0 = time.Date(2024, 1, 15, 0, 30, 0, 0, time.UTC)

func sample() (Summary, *results.Table) {
	p := heatpump.DesignPoint{
		SourceInC: 5, SinkOutC: 45, CondenserDutyKW: 2, EtaS: 0.85,
		Policy: "first", RecordIndex: 0, Records: 1, Timestamp: t0,
	}
	s := cycle.Sizing{EvaporatorUA: 0.31024507, CondenserUA: 0.4, PressureRatio: 4.4912, EtaS: 0.85, EvapC: 0, CondC: 50}
	m := heatpump.Metrics{COP: 4.456579993549987, CompressorPowerKW: 0.44877462154715103, CondenserDutyKW: 2}
	sum := NewSummary("run-1", t0.Add(time.Minute), "HP_case_data.xlsx", "R134a", p, s, m)

	tab := &results.Table{RunID: "run-1"}
	tab.Append(results.NewRow(0, t0, "design", m))
	tab.Append(results.MissingRow(1, t0.Add(time.Hour), "offdesign", errors.New("no lift")))
	tab.Append(results.NewRow(2, t0.Add(2*time.Hour), "offdesign", heatpump.Metrics{COP: 4.2}))
	return sum, tab
}

func TestSummary(t *testing.T) {
	sum, tab := sample()
	ok, missing := tab.Counts()
	_, cops := tab.Series(func(r results.Row) float64 { return r.COP })
	sum.SetRows(ok, missing, cops)

	assert.Equal(t, sum.Design.Source, "first: record 0 at 2024-01-15T00:30:00Z")
	assert.Equal(t, sum.Design.Timestamp, "2024-01-15T00:30:00Z")
	assert.Equal(t, sum.Metrics.COP, 4.4566)
	assert.Equal(t, sum.Rows.Total, 3)
	assert.Equal(t, *sum.Rows.MeanCOP, math.Round((4.456579993549987+4.2)/2*1e4)/1e4)

	text := sum.Text()
	assert.Assert(t, strings.HasPrefix(text, "# heat pump design summary, run run-1\n"))
	assert.Assert(t, is.Contains(text, "T_src_in_C: 5\n"))
	assert.Assert(t, is.Contains(text, "missing: 1\n"))
}

func TestSummaryRoundTrip(t *testing.T) {
	sum, _ := sample()
	sum.SetRows(0, 2, []float64{math.NaN(), math.NaN()})
	assert.Assert(t, sum.Rows.MeanCOP == nil)

	path := filepath.Join(t.TempDir(), "design_summary.txt")
	assert.NilError(t, sum.Save(path))
	back, err := LoadSummary(path)
	assert.NilError(t, err)
	assert.DeepEqual(t, back, sum)
}

func TestAggregateSummary(t *testing.T) {
	p := heatpump.DesignPoint{SourceInC: 5, SinkOutC: 45, CondenserDutyKW: 2, Policy: "median", RecordIndex: -1, Records: 3}
	sum := NewSummary("run-2", t0, "x.xlsx", "R134a", p, cycle.Sizing{}, heatpump.Metrics{})
	assert.Equal(t, sum.Design.Source, "median of 3 records")
	assert.Equal(t, sum.Design.Timestamp, "")
}

func TestSavePDF(t *testing.T) {
	sum, tab := sample()
	path := filepath.Join(t.TempDir(), "report.pdf")
	assert.NilError(t, SavePDF(path, sum, tab, nil))

	b, err := os.ReadFile(path)
	assert.NilError(t, err)
	assert.Assert(t, strings.HasPrefix(string(b), "%PDF-"))

	err = SavePDF(filepath.Join(t.TempDir(), "broken.pdf"), sum, tab, []string{"missing.png"})
	assert.Assert(t, err != nil)
}
