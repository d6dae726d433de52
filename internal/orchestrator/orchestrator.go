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

package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/antst/hpsim/internal/config"
	"github.com/antst/hpsim/internal/cycle"
	"github.com/antst/hpsim/internal/etl"
	"github.com/antst/hpsim/internal/heatpump"
	"github.com/antst/hpsim/internal/logger"
	"github.com/antst/hpsim/internal/metrics"
	"github.com/antst/hpsim/internal/plot"
	"github.com/antst/hpsim/internal/report"
	"github.com/antst/hpsim/internal/results"
)

const (
	SummaryFile = "design_summary.txt"
	TableFile   = "hp_timeseries.csv"
	WorkbookOut = "hp_timeseries.xlsx"
	ReportFile  = "report.pdf"
)

// Outcome is everything one run produced.
type Outcome struct {
	RunID         string
	Design        heatpump.DesignPoint
	DesignMetrics heatpump.Metrics
	Sizing        cycle.Sizing
	Table         results.Table
	Summary       report.Summary
	Artifacts     []string
}

type Orchestrator struct {
	cfg       config.Config
	solver    cycle.Solver
	observers []Observer
	runID     string
	metrics   *metrics.Metrics
	now       func() time.Time
	log       *zap.SugaredLogger
}

type Option func(*Orchestrator)

func WithObserver(o Observer) Option {
	return func(r *Orchestrator) {
		r.observers = append(r.observers, o)
	}
}

func WithRunID(id string) Option {
	return func(r *Orchestrator) {
		r.runID = id
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Orchestrator) {
		r.now = now
	}
}

func New(cfg config.Config, solver cycle.Solver, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:    cfg,
		solver: solver,
		runID:  uuid.NewString(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.metrics = metrics.New(o.runID)
	o.log = logger.Run(o.runID)
	return o
}

// NewSolver builds the cycle network bounded by the configured envelope.
func NewSolver(m config.ModelConfig) *cycle.Network {
	return cycle.NewNetwork(cycle.Envelope{
		EvapMinC: m.EvapMinC,
		EvapMaxC: m.EvapMaxC,
		CondMinC: m.CondMinC,
		CondMaxC: m.CondMaxC,
	}, m.Solver.MaxIter, m.Solver.Tolerance)
}

func (o *Orchestrator) RunID() string {
	return o.runID
}

func (o *Orchestrator) Metrics() *metrics.Metrics {
	return o.metrics
}

// RunFile loads the configured workbook and runs the case study on it.
func (o *Orchestrator) RunFile(ctx context.Context) (Outcome, error) {
	defer o.writeMetrics()
	p := etl.NewPipeline(o.cfg.Columns, o.cfg.Ingest)
	records, err := p.LoadFile(o.cfg.Excel)
	if err != nil {
		return Outcome{RunID: o.runID}, err
	}
	return o.run(ctx, records)
}

// Run solves the design point and every record, then writes the artifacts.
// Nothing is written unless the design solve succeeded.
func (o *Orchestrator) Run(ctx context.Context, records []etl.TimeRecord) (Outcome, error) {
	defer o.writeMetrics()
	return o.run(ctx, records)
}

func (o *Orchestrator) run(ctx context.Context, records []etl.TimeRecord) (Outcome, error) {
	started := o.now()
	out := Outcome{RunID: o.runID}
	o.metrics.Records.Set(float64(len(records)))

	point, designIdx, err := SelectDesign(o.cfg.Design, o.cfg.Model.DesignEtaS, records)
	if err != nil {
		return out, err
	}

	model, err := heatpump.New(o.solver, o.cfg.Model).Build()
	if err != nil {
		return out, err
	}

	t0 := time.Now()
	model, dm, err := model.SolveDesign(point)
	o.metrics.ObserveSolve(cycle.Design.String(), err == nil, time.Since(t0))
	if err != nil {
		return out, err
	}
	sizing, _ := model.Sizing()
	o.metrics.DesignCOP.Set(dm.COP)
	o.log.Infof("design at %v: COP %.3f, P_comp %.2f kW, T_evap %.2f°C, T_cond %.2f°C",
		point.Source(), dm.COP, dm.CompressorPowerKW, dm.EvapC, dm.CondC)
	out.Design, out.DesignMetrics, out.Sizing = point, dm, sizing

	out.Table = results.Table{RunID: o.runID}
	for i, r := range records {
		if err := ctx.Err(); err != nil {
			return out, errors.Wrap(err, "run interrupted")
		}
		if i == designIdx {
			row := results.NewRow(r.Index, r.Timestamp, cycle.Design.String(), dm)
			out.Table.Append(row.WithInputs(r.SourceTInC, r.SinkTOutC))
			continue
		}
		row, err := o.solveRecord(model, r)
		if err != nil {
			return out, err
		}
		out.Table.Append(row.WithInputs(r.SourceTInC, r.SinkTOutC))
	}

	ok, missing := out.Table.Counts()
	o.metrics.SetRows(ok, missing)
	o.log.Infof("solved %d records: %d ok, %d missing", len(records), ok, missing)

	out.Summary = report.NewSummary(o.runID, started, o.cfg.Excel, o.cfg.Model.Fluid, point, sizing, dm)
	_, cops := out.Table.Series(func(r results.Row) float64 { return r.COP })
	out.Summary.SetRows(ok, missing, cops)

	out.Artifacts, err = o.writeArtifacts(out.Summary, &out.Table)
	if err != nil {
		return out, err
	}
	o.notify(ctx, out.Summary, &out.Table)
	return out, nil
}

// solveRecord turns a non-converging record into a missing row. Any other
// error is a defect and aborts the run.
func (o *Orchestrator) solveRecord(model heatpump.Model, r etl.TimeRecord) (results.Row, error) {
	mode := cycle.OffDesign.String()
	t0 := time.Now()
	_, m, err := model.SolveOffDesign(r)
	o.metrics.ObserveSolve(mode, err == nil, time.Since(t0))
	if err == nil {
		return results.NewRow(r.Index, r.Timestamp, mode, m), nil
	}
	var cerr *heatpump.OffDesignConvergenceError
	if !errors.As(err, &cerr) {
		return results.Row{}, err
	}
	o.log.Warnw("record did not converge, marked missing",
		"index", r.Index,
		"timestamp", r.Timestamp,
		"source_T_in", r.SourceTInC,
		"sink_T_out", r.SinkTOutC,
		"duty_kW", r.SinkDutyKW,
		"error", err,
	)
	return results.MissingRow(r.Index, r.Timestamp, mode, err), nil
}

func (o *Orchestrator) writeArtifacts(s report.Summary, t *results.Table) ([]string, error) {
	dir := o.cfg.Output.OutDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create output directory %v", dir)
	}
	var written []string
	path := func(name string) string {
		p := filepath.Join(dir, name)
		written = append(written, p)
		return p
	}

	if err := s.Save(path(SummaryFile)); err != nil {
		return written, err
	}
	if err := t.SaveCSV(path(TableFile)); err != nil {
		return written, err
	}
	if err := t.SaveXLSX(path(WorkbookOut)); err != nil {
		return written, err
	}
	charts, err := plot.SaveAll(t, dir)
	written = append(written, charts...)
	if err != nil {
		return written, err
	}
	if err := report.SavePDF(path(ReportFile), s, t, charts); err != nil {
		return written, err
	}
	o.log.Infof("wrote %d artifacts to %v", len(written), dir)
	return written, nil
}

func (o *Orchestrator) notify(ctx context.Context, s report.Summary, t *results.Table) {
	for _, obs := range o.observers {
		if err := obs.Observe(ctx, s, t); err != nil {
			o.log.Errorf("%v: %v", obs.Name(), err)
		}
	}
}

// writeMetrics runs for failed runs too, so a failing schedule is visible.
func (o *Orchestrator) writeMetrics() {
	path := o.cfg.Output.MetricsFile
	if path == "" {
		return
	}
	if err := o.metrics.WriteTextfile(path, o.now()); err != nil {
		o.log.Errorf("%v", err)
	}
}
