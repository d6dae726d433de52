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
	"errors"
	"math"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/antst/hpsim/internal/config"
)

type rows [][]interface{}

var (
	sourceHeader = []interface{}{"start measurement", "end measurement", "T_in[degC]", "T_out[degC]"}
	sinkHeader   = []interface{}{"start measurement", "end measurement", "T_in[degC]", "T_out[degC]", "Energy[kWh]"}
)

// scenario is three aligned hourly measurements. Every call returns fresh
// rows, so tests may edit them in place.
func scenario() (rows, rows) {
	src := rows{
		append([]interface{}(nil), sourceHeader...),
		{"2024-01-15 00:00", "2024-01-15 01:00", 5.0, 2.0},
		{"2024-01-15 01:00", "2024-01-15 02:00", 6.0, 3.0},
		{"2024-01-15 02:00", "2024-01-15 03:00", 5.0, 2.0},
	}
	snk := rows{
		append([]interface{}(nil), sinkHeader...),
		{"2024-01-15 00:00", "2024-01-15 01:00", 35.0, 45.0, 2.0},
		{"2024-01-15 01:00", "2024-01-15 02:00", 36.0, 46.0, 2.1},
		{"2024-01-15 02:00", "2024-01-15 03:00", 35.0, 45.0, 2.0},
	}
	return src, snk
}

func workbook(t *testing.T, src, snk rows) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	f.SetSheetName("Sheet1", "Heat source")
	f.NewSheet("Heat sink")
	for name, data := range map[string]rows{"Heat source": src, "Heat sink": snk} {
		for i := range data {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			assert.NilError(t, err)
			assert.NilError(t, f.SetSheetRow(name, cell, &data[i]))
		}
	}
	return f
}

func run(t *testing.T, src, snk rows, mutate ...func(*config.ColumnMap, *config.IngestConfig)) ([]TimeRecord, error) {
	t.Helper()
	cm, ic := config.NewColumnMap(), config.NewIngestConfig()
	for _, m := range mutate {
		m(&cm, &ic)
	}
	return NewPipeline(cm, ic).Run(workbook(t, src, snk))
}

func near(t *testing.T, got, want float64) {
	t.Helper()
	assert.Assert(t, math.Abs(got-want) < 1e-9, "got %v, want %v", got, want)
}

func TestScenario(t *testing.T) {
	src, snk := scenario()
	recs, err := run(t, src, snk)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(recs, 3))

	base := time.Date(2024, 1, 15, 0, 30, 0, 0, time.UTC)
	for i, r := range recs {
		assert.Equal(t, r.Index, i)
		assert.Assert(t, r.Timestamp.Equal(base.Add(time.Duration(i)*time.Hour)), "%v", r.Timestamp)
		assert.Equal(t, r.IntervalH, 1.0)
		assert.Equal(t, r.SourceRow, i+2)
	}
	assert.Equal(t, recs[1].SourceTInC, 6.0)
	assert.Equal(t, recs[1].SourceTOutC, 3.0)
	assert.Equal(t, recs[1].SinkTOutC, 46.0)
	assert.Equal(t, recs[1].SinkEnergyKWh, 2.1)
	assert.Equal(t, recs[1].SinkDutyKW, 2.1)
	near(t, recs[0].SinkMassFlowKgS, 2.0/(4.186*10))
}

func TestExcelDateCells(t *testing.T) {
	src, snk := scenario()
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	for i := 1; i < len(src); i++ {
		at := start.Add(time.Duration(i-1) * time.Hour)
		src[i][0], src[i][1] = at, at.Add(time.Hour)
		snk[i][0], snk[i][1] = at, at.Add(time.Hour)
	}
	recs, err := run(t, src, snk)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(recs, 3))
	assert.Assert(t, recs[2].Timestamp.Equal(start.Add(150*time.Minute)), "%v", recs[2].Timestamp)
}

func TestUnits(t *testing.T) {
	src, snk := scenario()
	src[0] = []interface{}{"start measurement", "end measurement", "T_in [K]", "T_out[degC]"}
	src[1][2] = 278.15
	snk[0] = []interface{}{"start measurement", "end measurement", "T_in[degC]", "T_out[degC]", "Energy (Wh)"}
	snk[1][4] = 2000.0

	recs, err := run(t, src, snk)
	assert.NilError(t, err)
	near(t, recs[0].SourceTInC, 5)
	near(t, recs[0].SinkDutyKW, 2)

	// an explicit override wins over the header
	recs, err = run(t, src, snk, func(_ *config.ColumnMap, ic *config.IngestConfig) {
		ic.Units = map[string]string{config.FieldSinkEnergy: "kWh"}
	})
	assert.NilError(t, err)
	near(t, recs[0].SinkDutyKW, 2000)

	_, err = run(t, src, snk, func(_ *config.ColumnMap, ic *config.IngestConfig) {
		ic.Units = map[string]string{config.FieldSinkEnergy: "furlongs"}
	})
	var ce *ConfigurationError
	assert.Assert(t, errors.As(err, &ce))
	assert.Equal(t, ce.Field, config.FieldSinkEnergy)
}

func TestMissingColumn(t *testing.T) {
	src, snk := scenario()
	for i := range snk {
		snk[i] = snk[i][:3]
		snk[i] = append(snk[i], 2.0)
	}
	snk[0] = []interface{}{"start measurement", "end measurement", "T_in[degC]", "Energy[kWh]"}

	_, err := run(t, src, snk)
	var ce *ConfigurationError
	assert.Assert(t, errors.As(err, &ce), "got %v", err)
	assert.Equal(t, ce.Field, config.FieldSinkTOut)
	assert.Equal(t, ce.Key, "sink_T_out")
	assert.Equal(t, ce.Sheet, "Heat sink")
	assert.DeepEqual(t, ce.Available, []string{"start measurement", "end measurement", "T_in[degC]", "Energy[kWh]"})
	assert.ErrorContains(t, err, "cannot resolve sink_T_out")
}

func TestScenarioRowsAreFresh(t *testing.T) {
	_, snk := scenario()
	snk[0] = append(snk[0][:3], "Energy[kWh]")
	snk[0][1] = "changed"

	src, snk := scenario()
	assert.DeepEqual(t, snk[0], sinkHeader)
	assert.Equal(t, sinkHeader[3], "T_out[degC]")
	assert.Equal(t, src[0][1], "end measurement")

	recs, err := run(t, src, snk)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(recs, 3))
}

func TestMissingSheet(t *testing.T) {
	src, snk := scenario()
	_, err := run(t, src, snk)
	assert.NilError(t, err)

	src, snk = scenario()
	_, err = run(t, src, snk, func(cm *config.ColumnMap, _ *config.IngestConfig) {
		cm.SheetSink = "Sink"
	})
	var ce *ConfigurationError
	assert.Assert(t, errors.As(err, &ce))
	assert.Equal(t, ce.Key, "sheet_sink")
	assert.Assert(t, is.Contains(ce.Available, "Heat sink"))
}

func TestHeaderAliases(t *testing.T) {
	src, snk := scenario()
	snk[0] = []interface{}{"Start", "End", "Return temp (°C)", "Supply temp (°C)", "Heat energy [kWh]"}
	recs, err := run(t, src, snk)
	assert.NilError(t, err)
	assert.Equal(t, recs[0].SinkTOutC, 45.0)
	assert.Equal(t, recs[0].SinkTInC, 35.0)

	_, err = run(t, src, snk, func(_ *config.ColumnMap, ic *config.IngestConfig) {
		ic.StrictColumns = true
	})
	var ce *ConfigurationError
	assert.Assert(t, errors.As(err, &ce))
}

func TestAmbiguousHeader(t *testing.T) {
	src, snk := scenario()
	src[0] = []interface{}{"start measurement", "end measurement", "T_in[degC]", "T_in [°C]"}
	_, err := run(t, src, snk)
	var ce *ConfigurationError
	assert.Assert(t, errors.As(err, &ce))
	assert.Equal(t, ce.Field, config.FieldSourceTIn)
	assert.ErrorContains(t, err, "several columns")
}

func TestNonNumeric(t *testing.T) {
	src, snk := scenario()
	src[2][2] = "n/a"
	_, err := run(t, src, snk)
	var de *DataError
	assert.Assert(t, errors.As(err, &de))
	assert.Equal(t, de.Sheet, "Heat source")
	assert.Equal(t, de.Row, 3)
	assert.Equal(t, de.Column, "T_in[degC]")
	assert.Equal(t, de.Value, "n/a")
}

func TestEmptyRequiredValue(t *testing.T) {
	src, snk := scenario()
	snk[3][4] = ""
	_, err := run(t, src, snk)
	var de *DataError
	assert.Assert(t, errors.As(err, &de))
	assert.Equal(t, de.Row, 4)
	assert.Equal(t, de.Reason, "empty value")
}

func TestDuplicateTimestamp(t *testing.T) {
	src, snk := scenario()
	snk[3][0], snk[3][1] = snk[2][0], snk[2][1]
	_, err := run(t, src, snk)
	var de *DataError
	assert.Assert(t, errors.As(err, &de))
	assert.Equal(t, de.Sheet, "Heat sink")
	assert.ErrorContains(t, err, "duplicate timestamp")

	src, snk = scenario()
	src[1], src[2] = src[2], src[1]
	_, err = run(t, src, snk)
	assert.Assert(t, errors.As(err, &de))
	assert.ErrorContains(t, err, "not after the previous row")
}

func TestBadTimestamp(t *testing.T) {
	src, snk := scenario()
	src[1][0] = "yesterday"
	_, err := run(t, src, snk)
	var de *DataError
	assert.Assert(t, errors.As(err, &de))
	assert.Equal(t, de.Column, "start measurement")
}

func TestAlignment(t *testing.T) {
	src, snk := scenario()
	// sink misses the last hour and is logged two minutes late
	snk = snk[:3]
	snk[1][0], snk[1][1] = "2024-01-15 00:02", "2024-01-15 01:02"
	recs, err := run(t, src, snk)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(recs, 2))
	assert.Equal(t, recs[1].Index, 1)
	assert.Equal(t, recs[1].SinkRow, 3)

	_, err = run(t, src, snk, func(_ *config.ColumnMap, ic *config.IngestConfig) {
		ic.Align = config.AlignPositional
	})
	var de *DataError
	assert.Assert(t, errors.As(err, &de))
	assert.ErrorContains(t, err, "equal lengths")

	_, err = run(t, src, snk, func(_ *config.ColumnMap, ic *config.IngestConfig) {
		ic.JoinTolerance = time.Minute
		ic.Align = config.AlignTimestamp
	})
	assert.NilError(t, err)
}

func TestNoOverlap(t *testing.T) {
	src, snk := scenario()
	for i := 1; i < len(snk); i++ {
		snk[i][0] = "2024-02-15 0" + string(rune('0'+i)) + ":00"
		snk[i][1] = "2024-02-15 0" + string(rune('1'+i)) + ":00"
	}
	_, err := run(t, src, snk)
	var de *DataError
	assert.Assert(t, errors.As(err, &de))
	assert.ErrorContains(t, err, "no sink rows align")
}

func TestPowerColumn(t *testing.T) {
	src, snk := scenario()
	snk[0] = []interface{}{"start measurement", "end measurement", "T_in[degC]", "T_out[degC]", "Q_cond[kW]"}
	recs, err := run(t, src, snk, func(cm *config.ColumnMap, _ *config.IngestConfig) {
		cm.SinkQCondKW = "Q_cond[kW]"
	})
	assert.NilError(t, err)
	assert.Equal(t, recs[1].SinkDutyKW, 2.1)
	assert.Assert(t, math.IsNaN(recs[1].SinkEnergyKWh))
}

func TestIntervalModes(t *testing.T) {
	src, snk := scenario()
	snk[2][1] = "2024-01-15 01:30"
	recs, err := run(t, src, snk, func(_ *config.ColumnMap, ic *config.IngestConfig) {
		ic.Interval = config.IntervalWindow
		ic.JoinTolerance = 20 * time.Minute
	})
	assert.NilError(t, err)
	assert.Equal(t, recs[1].IntervalH, 0.5)
	near(t, recs[1].SinkDutyKW, 4.2)

	src, snk = scenario()
	recs, err = run(t, src, snk, func(_ *config.ColumnMap, ic *config.IngestConfig) {
		ic.Interval = config.IntervalMedian
		ic.NominalIntervalH = 0.25
	})
	assert.NilError(t, err)
	assert.Equal(t, recs[0].IntervalH, 1.0)

	// spacings of 1 h and 2 h average to 1.5 h
	src, snk = scenario()
	for _, r := range []rows{src, snk} {
		r[3][0], r[3][1] = "2024-01-15 03:00", "2024-01-15 04:00"
	}
	snk[1][4] = 3.0
	recs, err = run(t, src, snk, func(_ *config.ColumnMap, ic *config.IngestConfig) {
		ic.Interval = config.IntervalMedian
	})
	assert.NilError(t, err)
	for _, r := range recs {
		assert.Equal(t, r.IntervalH, 1.5)
	}
	near(t, recs[0].SinkDutyKW, 2.0)
}

func TestMedian(t *testing.T) {
	assert.Assert(t, math.IsNaN(Median(nil)))
	assert.Equal(t, Median([]float64{4}), 4.0)
	assert.Equal(t, Median([]float64{3, 1, 2}), 2.0)
	assert.Equal(t, Median([]float64{2, 1}), 1.5)
	assert.Equal(t, Median([]float64{4, 1, 3, 2}), 2.5)

	xs := []float64{3, 1, 2}
	Median(xs)
	assert.DeepEqual(t, xs, []float64{3, 1, 2})
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 1, 15, 13, 45, 0, 0, time.UTC)
	for _, raw := range []string{
		"2024-01-15T13:45:00Z",
		"2024-01-15 13:45",
		"15.01.2024 13:45",
		"1/15/2024 13:45",
		"45306.572916666664",
	} {
		got, err := ParseTimestamp(raw)
		assert.NilError(t, err, raw)
		assert.Assert(t, got.Equal(want), "%v: %v", raw, got)
	}
	_, err := ParseTimestamp("noon")
	assert.ErrorContains(t, err, "unrecognised")
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, NormalizeHeader(" T_in [°C] "), "tindegc")
	assert.Equal(t, NormalizeHeader("T_in[degC]"), "tindegc")
	assert.Equal(t, NormalizeHeader("Mass-flow (kg/s)"), "massflowkg/s")
}
