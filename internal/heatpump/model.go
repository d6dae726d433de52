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
	"github.com/pkg/errors"

	"github.com/antst/hpsim/internal/config"
	"github.com/antst/hpsim/internal/cycle"
	"github.com/antst/hpsim/internal/etl"
)

type Phase int

const (
	Unbuilt Phase = iota
	Built
	Designed
)

func (p Phase) String() string {
	switch p {
	case Unbuilt:
		return "unbuilt"
	case Built:
		return "built"
	case Designed:
		return "designed"
	}
	return "unknown"
}

// Model is an immutable value. Every transition returns a new Model and
// leaves the receiver untouched, so a failed solve never corrupts the
// state a caller already holds.
type Model struct {
	phase    Phase
	solver   cycle.Solver
	cfg      config.ModelConfig
	topology cycle.Topology
	design   DesignPoint
	sizing   cycle.Sizing
	last     *cycle.State
}

func New(solver cycle.Solver, cfg config.ModelConfig) Model {
	return Model{solver: solver, cfg: cfg}
}

func (m Model) Phase() Phase {
	return m.phase
}

func (m Model) Topology() cycle.Topology {
	return m.topology
}

// Design returns the point the model was sized at.
func (m Model) Design() (DesignPoint, bool) {
	return m.design, m.phase == Designed
}

func (m Model) Sizing() (cycle.Sizing, bool) {
	return m.sizing, m.phase == Designed
}

// Build declares the network. Building twice is a no-op.
func (m Model) Build() (Model, error) {
	if m.phase != Unbuilt {
		return m, nil
	}
	if m.solver == nil {
		return m, errors.New("heat pump model has no solver")
	}
	t, err := m.solver.DeclareTopology()
	if err != nil {
		return m, errors.WithMessage(err, "declare topology")
	}
	m.topology = t
	m.phase = Built
	return m, nil
}

// SolveDesign sizes the equipment at p. Allowed from Built and Designed;
// re-designing replaces the sizing in the returned model only.
func (m Model) SolveDesign(p DesignPoint) (Model, Metrics, error) {
	if m.phase == Unbuilt {
		return m, Missing(), &StateError{Op: "design solve", Phase: m.phase}
	}
	b := p.boundary(m.cfg)
	s, err := m.solver.Solve(cycle.Request{Topology: m.topology, Mode: cycle.Design, Boundary: b})
	if err != nil {
		var cf *cycle.ConvergenceFailure
		if errors.As(err, &cf) {
			return m, Missing(), &DesignConvergenceError{Point: p, Boundary: b, Err: err}
		}
		return m, Missing(), errors.WithMessage(err, "design solve")
	}
	m.phase = Designed
	m.design = p
	m.sizing = s.Sizing
	m.last = &s
	return m, metricsOf(s), nil
}

// SolveOffDesign evaluates the sized equipment at one record's conditions.
func (m Model) SolveOffDesign(r etl.TimeRecord) (Model, Metrics, error) {
	if m.phase != Designed {
		return m, Missing(), &StateError{Op: "offdesign solve", Phase: m.phase}
	}
	b := recordBoundary(m.cfg, r)
	sizing := m.sizing
	s, err := m.solver.Solve(cycle.Request{
		Topology: m.topology,
		Mode:     cycle.OffDesign,
		Boundary: b,
		Sizing:   &sizing,
	})
	if err != nil {
		var cf *cycle.ConvergenceFailure
		if errors.As(err, &cf) {
			return m, Missing(), &OffDesignConvergenceError{Index: r.Index, Timestamp: r.Timestamp, Boundary: b, Err: err}
		}
		return m, Missing(), errors.WithMessagef(err, "offdesign solve for record %d", r.Index)
	}
	m.last = &s
	return m, metricsOf(s), nil
}

// Metrics reads the last converged state.
func (m Model) Metrics() (Metrics, error) {
	if m.last == nil {
		return Missing(), &StateError{Op: "metrics", Phase: m.phase}
	}
	return metricsOf(*m.last), nil
}
