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
	"errors"
	"math"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/antst/hpsim/internal/config"
	"github.com/antst/hpsim/internal/cycle"
	"github.com/antst/hpsim/internal/etl"
)

var t0 = time.Date(2024, 1, 15, 0, 30, 0, 0, time.UTC)

func newModel() Model {
	cfg := config.NewModelConfig()
	n := cycle.NewNetwork(cycle.Envelope{
		EvapMinC: cfg.EvapMinC, EvapMaxC: cfg.EvapMaxC, CondMinC: cfg.CondMinC, CondMaxC: cfg.CondMaxC,
	}, cfg.Solver.MaxIter, cfg.Solver.Tolerance)
	return New(n, cfg)
}

func record(i int, src, sink, q float64) etl.TimeRecord {
	return etl.TimeRecord{
		Index:      i,
		Timestamp:  t0.Add(time.Duration(i) * time.Hour),
		SourceTInC: src,
		SinkTOutC:  sink,
		SinkDutyKW: q,
	}
}

func designed(t *testing.T) (Model, Metrics) {
	t.Helper()
	m, err := newModel().Build()
	assert.NilError(t, err)
	m, metrics, err := m.SolveDesign(DesignFromRecord(record(0, 5, 45, 2), "first", 0.85))
	assert.NilError(t, err)
	return m, metrics
}

// countingSolver counts topology declarations.
type countingSolver struct {
	cycle.Solver
	declared int
}

func (s *countingSolver) DeclareTopology() (cycle.Topology, error) {
	s.declared++
	return s.Solver.DeclareTopology()
}

func TestBuildIsIdempotent(t *testing.T) {
	base := newModel()
	cs := &countingSolver{Solver: base.solver}
	m := New(cs, base.cfg)

	m1, err := m.Build()
	assert.NilError(t, err)
	m2, err := m1.Build()
	assert.NilError(t, err)

	assert.Equal(t, cs.declared, 1)
	assert.Equal(t, m2.Phase(), Built)
	assert.Equal(t, len(m2.Topology().Components), len(m1.Topology().Components))
	// the receiver is never changed
	assert.Equal(t, m.Phase(), Unbuilt)
}

func TestStateErrors(t *testing.T) {
	m := newModel()
	var se *StateError

	_, _, err := m.SolveDesign(DesignFromRecord(record(0, 5, 45, 2), "first", 0.85))
	assert.Assert(t, errors.As(err, &se))
	assert.Equal(t, se.Phase, Unbuilt)

	_, _, err = m.SolveOffDesign(record(1, 6, 46, 2.1))
	assert.Assert(t, errors.As(err, &se))

	built, err := m.Build()
	assert.NilError(t, err)
	_, _, err = built.SolveOffDesign(record(1, 6, 46, 2.1))
	assert.Assert(t, errors.As(err, &se))
	assert.Equal(t, se.Phase, Built)
	assert.ErrorContains(t, err, "offdesign solve is not valid in phase built")

	_, err = built.Metrics()
	assert.Assert(t, errors.As(err, &se))
}

func TestDesign(t *testing.T) {
	m, metrics := designed(t)
	assert.Equal(t, m.Phase(), Designed)
	assert.Assert(t, metrics.COP > 2.5 && metrics.COP < 5.0, "COP %v", metrics.COP)
	assert.Equal(t, metrics.CondenserDutyKW, 2.0)

	p, ok := m.Design()
	assert.Assert(t, ok)
	assert.Equal(t, p.SourceInC, 5.0)
	assert.Equal(t, p.SinkOutC, 45.0)
	assert.Equal(t, p.Source(), "first: record 0 at 2024-01-15T00:30:00Z")

	last, err := m.Metrics()
	assert.NilError(t, err)
	assert.DeepEqual(t, last, metrics)
}

func TestDesignIsRepeatable(t *testing.T) {
	m, first := designed(t)
	p, _ := m.Design()
	m2, second, err := m.SolveDesign(p)
	assert.NilError(t, err)
	assert.DeepEqual(t, first, second)
	s1, _ := m.Sizing()
	s2, _ := m2.Sizing()
	assert.DeepEqual(t, s1, s2)
}

func TestDesignFailure(t *testing.T) {
	built, err := newModel().Build()
	assert.NilError(t, err)

	p := DesignFromRecord(record(3, 30, 20, 2), "index[3]", 0.85)
	after, metrics, err := built.SolveDesign(p)

	var de *DesignConvergenceError
	assert.Assert(t, errors.As(err, &de))
	assert.Equal(t, de.Boundary.SourceInC, 30.0)
	assert.Equal(t, de.Boundary.SinkOutC, 20.0)
	assert.Equal(t, de.Point.RecordIndex, 3)
	var cf *cycle.ConvergenceFailure
	assert.Assert(t, errors.As(err, &cf))
	assert.Equal(t, after.Phase(), Built)
	assert.Assert(t, math.IsNaN(metrics.COP))
}

func TestOffDesign(t *testing.T) {
	m, dm := designed(t)

	m2, metrics, err := m.SolveOffDesign(record(1, 6, 46, 2.1))
	assert.NilError(t, err)
	assert.Assert(t, metrics.COP > 2.5 && metrics.COP < 5.0)
	assert.Equal(t, metrics.CondenserDutyKW, 2.1)
	assert.Equal(t, m2.Phase(), Designed)

	// sizing is fixed by the design solve
	s1, _ := m.Sizing()
	s2, _ := m2.Sizing()
	assert.DeepEqual(t, s1, s2)

	// the original value still reports the design state
	last, err := m.Metrics()
	assert.NilError(t, err)
	assert.DeepEqual(t, last, dm)
}

func TestOffDesignFailure(t *testing.T) {
	m, _ := designed(t)

	r := record(2, 50, 40, 2)
	after, metrics, err := m.SolveOffDesign(r)
	var oe *OffDesignConvergenceError
	assert.Assert(t, errors.As(err, &oe))
	assert.Equal(t, oe.Index, 2)
	assert.Assert(t, oe.Timestamp.Equal(r.Timestamp))
	assert.ErrorContains(t, err, "record 2 at 2024-01-15T02:30:00Z")
	assert.Assert(t, math.IsNaN(metrics.COP))

	// a failed record leaves the model usable
	assert.Equal(t, after.Phase(), Designed)
	_, _, err = after.SolveOffDesign(record(3, 6, 46, 2.1))
	assert.NilError(t, err)
}

type brokenSolver struct {
	cycle.Solver
}

func (brokenSolver) Solve(cycle.Request) (cycle.State, error) {
	return cycle.State{}, errors.New("solver crashed")
}

func TestSolverDefectIsNotConvergence(t *testing.T) {
	base := newModel()
	m, err := New(brokenSolver{Solver: base.solver}, base.cfg).Build()
	assert.NilError(t, err)
	_, _, err = m.SolveDesign(DesignFromRecord(record(0, 5, 45, 2), "first", 0.85))
	var de *DesignConvergenceError
	assert.Assert(t, !errors.As(err, &de))
	assert.ErrorContains(t, err, "solver crashed")
}
