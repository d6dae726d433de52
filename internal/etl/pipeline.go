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
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/antst/hpsim/internal/config"
	"github.com/antst/hpsim/internal/logger"
	"github.com/antst/hpsim/internal/units"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/stat"
)

// water heat capacity, kJ/(kg K)
const cpWater = 4.186

// column is a resolved logical field.
type column struct {
	field config.Field
	index int
	unit  units.Unit
}

func (c column) present() bool {
	return c.index >= 0
}

// point is one parsed sheet row.
type point struct {
	row    int
	at     time.Time
	window time.Duration // end - start, zero without an end column
	values map[string]float64
}

// Pipeline turns the heat source and heat sink sheets into aligned TimeRecords.
type Pipeline struct {
	columns config.ColumnMap
	ingest  config.IngestConfig
}

func NewPipeline(columns config.ColumnMap, ingest config.IngestConfig) *Pipeline {
	return &Pipeline{columns: columns, ingest: ingest}
}

// LoadFile opens the workbook at path and runs the pipeline on it.
func (p *Pipeline) LoadFile(path string) ([]TimeRecord, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open workbook `%v`", path)
	}
	defer wb.Close()
	return p.Run(wb)
}

func (p *Pipeline) Run(wb *excelize.File) ([]TimeRecord, error) {
	src, err := readSheet(wb, p.columns.SheetSource, "sheet_source")
	if err != nil {
		return nil, err
	}
	snk, err := readSheet(wb, p.columns.SheetSink, "sheet_sink")
	if err != nil {
		return nil, err
	}

	// resolve both sheets before touching any value
	srcCols, err := p.resolve(src, p.columns.SourceFields())
	if err != nil {
		return nil, err
	}
	snkCols, err := p.resolve(snk, p.columns.SinkFields())
	if err != nil {
		return nil, err
	}
	if !snkCols[config.FieldSinkPower].present() && !snkCols[config.FieldSinkEnergy].present() {
		return nil, snk.configError(snkCols[config.FieldSinkEnergy].field, "neither an energy nor a power column resolves")
	}

	srcPoints, err := p.parse(src, p.columns.SourceFields(), srcCols, config.FieldSourceTimeStart, config.FieldSourceTimeEnd)
	if err != nil {
		return nil, err
	}
	snkPoints, err := p.parse(snk, p.columns.SinkFields(), snkCols, config.FieldSinkTimeStart, config.FieldSinkTimeEnd)
	if err != nil {
		return nil, err
	}

	pairs, err := p.align(src, snk, srcPoints, snkPoints)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, &DataError{Sheet: snk.name, Reason: "no sink rows align with the source rows"}
	}

	records, err := p.derive(snk, snkCols, pairs)
	if err != nil {
		return nil, err
	}

	logger.L().Infof(
		"Loaded %d records (%d source rows, %d sink rows) from %v / %v",
		len(records), len(srcPoints), len(snkPoints), src.name, snk.name,
	)
	return records, nil
}

func kindOf(field string) (units.Kind, bool) {
	switch field {
	case config.FieldSourceTIn, config.FieldSourceTOut, config.FieldSinkTIn, config.FieldSinkTOut:
		return units.Temperature, true
	case config.FieldSinkEnergy:
		return units.Energy, true
	case config.FieldSinkPower:
		return units.Power, true
	case config.FieldSinkMassFlow:
		return units.MassFlow, true
	}
	return 0, false
}

func (p *Pipeline) resolve(s *sheet, fields []config.Field) (map[string]column, error) {
	cols := make(map[string]column, len(fields))
	for _, f := range fields {
		idx, err := resolveColumn(s, f, p.ingest.StrictColumns)
		if err != nil {
			return nil, err
		}
		c := column{field: f, index: idx}
		if idx < 0 {
			if f.Header != "" {
				logger.L().Warnf("Optional column %v (%q) not found in sheet %q, skipped", f.Name, f.Header, s.name)
			}
			cols[f.Name] = c
			continue
		}
		if kind, ok := kindOf(f.Name); ok {
			c.unit = units.FromHeader(kind, s.header[idx])
			if name, ok := p.ingest.Units[f.Name]; ok {
				u, err := units.Lookup(kind, name)
				if err != nil {
					return nil, s.configError(f, err.Error())
				}
				c.unit = u
			}
		}
		logger.L().Debugf("Sheet %q: %v -> column %q [%v]", s.name, f.Name, s.header[idx], c.unit.Name)
		cols[f.Name] = c
	}
	return cols, nil
}

// parse reads timestamps and numeric values, converted to canonical units.
// Timestamps must be strictly ascending.
func (p *Pipeline) parse(
	s *sheet, fields []config.Field, cols map[string]column, startField, endField string,
) ([]point, error) {
	start, end := cols[startField], cols[endField]
	points := make([]point, 0, len(s.rows))

	for _, r := range s.rows {
		pt := point{row: r.num, values: make(map[string]float64, len(cols))}
		t0, err := s.time(r, start.index)
		if err != nil {
			return nil, err
		}
		pt.at = t0
		if end.present() {
			t1, err := s.time(r, end.index)
			if err != nil {
				return nil, err
			}
			if t1.Before(t0) {
				return nil, &DataError{
					Sheet: s.name, Row: r.num, Column: s.header[end.index], Value: s.cell(r, end.index),
					Reason: "measurement ends before it starts",
				}
			}
			pt.window = t1.Sub(t0)
			pt.at = t0.Add(pt.window / 2)
		}

		for _, f := range fields {
			if f.Name == startField || f.Name == endField {
				continue
			}
			c := cols[f.Name]
			v, err := s.number(r, c.index, f.Required)
			if err != nil {
				return nil, err
			}
			pt.values[f.Name] = c.unit.ToCanonical(v)
		}

		if n := len(points); n > 0 && !pt.at.After(points[n-1].at) {
			reason := "timestamp is not after the previous row"
			if pt.at.Equal(points[n-1].at) {
				reason = fmt.Sprintf("duplicate timestamp %v (row %d)", pt.at.Format(time.RFC3339), points[n-1].row)
			}
			return nil, &DataError{
				Sheet: s.name, Row: r.num, Column: s.header[start.index], Value: s.cell(r, start.index),
				Reason: reason,
			}
		}
		points = append(points, pt)
	}
	return points, nil
}

type pair struct {
	src point
	snk point
}

func (p *Pipeline) align(src, snk *sheet, srcPoints, snkPoints []point) ([]pair, error) {
	if p.ingest.Align == config.AlignPositional {
		if len(srcPoints) != len(snkPoints) {
			return nil, &DataError{
				Sheet: snk.name,
				Reason: fmt.Sprintf("positional alignment needs equal lengths: %d rows in %q, %d in %q",
					len(srcPoints), src.name, len(snkPoints), snk.name),
			}
		}
		pairs := make([]pair, len(srcPoints))
		for i := range srcPoints {
			pairs[i] = pair{src: srcPoints[i], snk: snkPoints[i]}
		}
		return pairs, nil
	}

	// both sides ascending: walk the sink rows once, nearest neighbour per source row
	pairs := make([]pair, 0, len(srcPoints))
	j := 0
	for _, sp := range srcPoints {
		for j+1 < len(snkPoints) && !snkPoints[j+1].at.After(sp.at) {
			j++
		}
		best := -1
		bestDist := p.ingest.JoinTolerance
		for _, k := range []int{j, j + 1} {
			if k >= len(snkPoints) {
				continue
			}
			d := absDuration(snkPoints[k].at.Sub(sp.at))
			if d <= bestDist {
				best, bestDist = k, d
			}
		}
		if best < 0 {
			continue
		}
		pairs = append(pairs, pair{src: sp, snk: snkPoints[best]})
	}
	if dropped := len(srcPoints) - len(pairs); dropped > 0 {
		logger.L().Warnf(
			"%d of %d source rows have no sink row within %v and are dropped",
			dropped, len(srcPoints), p.ingest.JoinTolerance,
		)
	}
	return pairs, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// derive fills the sink duty and water mass flow of every aligned pair.
func (p *Pipeline) derive(snk *sheet, snkCols map[string]column, pairs []pair) ([]TimeRecord, error) {
	median := p.medianIntervalH(pairs)
	records := make([]TimeRecord, len(pairs))

	for i, pr := range pairs {
		rec := TimeRecord{
			Index:           i,
			Timestamp:       pr.src.at,
			SourceTInC:      pr.src.values[config.FieldSourceTIn],
			SourceTOutC:     valueOrNaN(pr.src.values, config.FieldSourceTOut),
			SinkTInC:        valueOrNaN(pr.snk.values, config.FieldSinkTIn),
			SinkTOutC:       pr.snk.values[config.FieldSinkTOut],
			SinkEnergyKWh:   valueOrNaN(pr.snk.values, config.FieldSinkEnergy),
			SinkMassFlowKgS: valueOrNaN(pr.snk.values, config.FieldSinkMassFlow),
			SourceRow:       pr.src.row,
			SinkRow:         pr.snk.row,
		}

		switch p.ingest.Interval {
		case config.IntervalWindow:
			rec.IntervalH = p.ingest.NominalIntervalH
			if pr.snk.window > 0 {
				rec.IntervalH = pr.snk.window.Hours()
			}
		case config.IntervalMedian:
			rec.IntervalH = median
		default:
			rec.IntervalH = p.ingest.NominalIntervalH
		}

		rec.SinkDutyKW = valueOrNaN(pr.snk.values, config.FieldSinkPower)
		if math.IsNaN(rec.SinkDutyKW) {
			if math.IsNaN(rec.SinkEnergyKWh) {
				return nil, &DataError{Sheet: snk.name, Row: pr.snk.row, Column: dutyHeader(snk, snkCols), Reason: "empty value"}
			}
			rec.SinkDutyKW = rec.SinkEnergyKWh / rec.IntervalH
		}

		if !rec.HasSinkMassFlow() {
			if dT := rec.SinkTOutC - rec.SinkTInC; dT > 0 {
				rec.SinkMassFlowKgS = rec.SinkDutyKW / (cpWater * dT)
			}
		}
		records[i] = rec
	}
	return records, nil
}

func dutyHeader(snk *sheet, cols map[string]column) string {
	for _, name := range []string{config.FieldSinkPower, config.FieldSinkEnergy} {
		if c := cols[name]; c.present() {
			return snk.header[c.index]
		}
	}
	return ""
}

func valueOrNaN(values map[string]float64, name string) float64 {
	if v, ok := values[name]; ok {
		return v
	}
	return math.NaN()
}

// medianIntervalH is the median spacing of the aligned timestamps, in hours.
func (p *Pipeline) medianIntervalH(pairs []pair) float64 {
	if p.ingest.Interval != config.IntervalMedian || len(pairs) < 2 {
		return p.ingest.NominalIntervalH
	}
	dt := make([]float64, 0, len(pairs)-1)
	for i := 1; i < len(pairs); i++ {
		dt = append(dt, pairs[i].src.at.Sub(pairs[i-1].src.at).Hours())
	}
	return Median(dt)
}

// Median of xs, the mean of the two middle values for an even count.
// NaN for an empty slice.
func Median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return math.NaN()
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	if n%2 == 1 {
		return stat.Quantile(0.5, stat.Empirical, s, nil)
	}
	return stat.Mean(s[n/2-1:n/2+1], nil)
}
