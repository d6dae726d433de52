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

package cycle

import (
	"errors"
	"math"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func testNetwork() *Network {
	return NewNetwork(Envelope{EvapMinC: -25, EvapMaxC: 25, CondMinC: 20, CondMaxC: 95}, 50, 1e-6)
}

func boundary(src, sink, q float64) Boundary {
	return Boundary{
		SourceInC:       src,
		SinkOutC:        sink,
		CondenserDutyKW: q,
		EvapApproachK:   5,
		CondApproachK:   5,
		CondSetpointC:   80,
		EtaS:            0.85,
	}
}

func design(t *testing.T, n *Network, b Boundary) (Topology, State) {
	t.Helper()
	top, err := n.DeclareTopology()
	assert.NilError(t, err)
	s, err := n.Solve(Request{Topology: top, Mode: Design, Boundary: b})
	assert.NilError(t, err)
	return top, s
}

func near(t *testing.T, got, want, tol float64) {
	t.Helper()
	assert.Assert(t, math.Abs(got-want) <= tol, "got %v, want %v ± %v", got, want, tol)
}

func TestTopology(t *testing.T) {
	top, err := testNetwork().DeclareTopology()
	assert.NilError(t, err)
	assert.Check(t, is.Len(top.Components, 5))
	assert.Check(t, is.Len(top.Connections, 5))
	assert.Assert(t, top.Has(KindCompressor))
	assert.Assert(t, Topology{}.Empty())

	broken := heatPumpTopology()
	broken.Connections[4].To = "evaporator"
	assert.ErrorContains(t, broken.Validate(), "inlets")

	split := heatPumpTopology()
	split.Connections = append(split.Connections[:2:2],
		Connection{Label: "3", From: "compressor", To: "cycle closer"},
		Connection{Label: "4", From: "condenser", To: "expansion valve"},
		Connection{Label: "0", From: "expansion valve", To: "condenser"},
	)
	assert.Assert(t, split.Validate() != nil)
}

func TestDesign(t *testing.T) {
	_, s := design(t, testNetwork(), boundary(5, 45, 2))

	assert.Equal(t, s.Mode, Design)
	assert.Equal(t, s.EvapC, 0.0)
	assert.Equal(t, s.CondC, 50.0)
	near(t, s.CondenserDutyKW/s.CompressorPowerKW, 4.457, 1e-3)
	// energy balance of the loop
	near(t, s.EvaporatorDutyKW+s.CompressorPowerKW, s.CondenserDutyKW, 1e-9)
	assert.Assert(t, s.CondPressureBar > s.EvapPressureBar)
	assert.Equal(t, len(s.Enthalpy), 5)
	assert.Equal(t, s.Enthalpy["0"], s.Enthalpy["4"])

	near(t, s.Sizing.CondenserUA, 0.4, 1e-12)
	near(t, s.Sizing.EvaporatorUA, s.EvaporatorDutyKW/5, 1e-12)
	assert.Equal(t, s.Sizing.EvapApproachK, 5.0)
}

func TestDesignSetpoint(t *testing.T) {
	b := boundary(5, 45, 2)
	b.CondApproachK = 0
	_, s := design(t, testNetwork(), b)
	assert.Equal(t, s.CondC, 80.0)
	assert.Equal(t, s.Sizing.CondenserUA, 0.0)
}

func TestDesignFailures(t *testing.T) {
	n := testNetwork()
	top, err := n.DeclareTopology()
	assert.NilError(t, err)

	for name, tc := range map[string]struct {
		b      Boundary
		reason string
	}{
		"no lift":        {boundary(20, 15, 2), "no temperature lift"},
		"zero duty":      {boundary(5, 45, 0), "not positive"},
		"nan":            {boundary(math.NaN(), 45, 2), "not a number"},
		"cold source":    {boundary(-30, 45, 2), "evaporating temperature"},
		"hot sink":       {boundary(5, 95, 2), "condensing temperature"},
		"bad efficiency": {func() Boundary { b := boundary(5, 45, 2); b.EtaS = 0; return b }(), "isentropic"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := n.Solve(Request{Topology: top, Mode: Design, Boundary: tc.b})
			var cf *ConvergenceFailure
			assert.Assert(t, errors.As(err, &cf), "got %v", err)
			assert.Equal(t, cf.Mode, Design)
			assert.ErrorContains(t, err, tc.reason)
		})
	}
}

func TestUndeclaredTopology(t *testing.T) {
	_, err := testNetwork().Solve(Request{Mode: Design, Boundary: boundary(5, 45, 2)})
	assert.ErrorContains(t, err, "undeclared topology")
	var cf *ConvergenceFailure
	assert.Assert(t, !errors.As(err, &cf))
}

func TestOffDesignAtDesignPoint(t *testing.T) {
	n := testNetwork()
	b := boundary(5, 45, 2)
	top, d := design(t, n, b)

	s, err := n.Solve(Request{Topology: top, Mode: OffDesign, Boundary: b, Sizing: &d.Sizing})
	assert.NilError(t, err)
	near(t, s.EvapC, d.EvapC, 1e-6)
	near(t, s.CondC, d.CondC, 1e-9)
	near(t, s.CompressorPowerKW, d.CompressorPowerKW, 1e-6)
	near(t, s.EtaS, 0.85, 1e-9)
}

func TestOffDesign(t *testing.T) {
	n := testNetwork()
	top, d := design(t, n, boundary(5, 45, 2))

	for _, tc := range []struct {
		src, sink, q float64
	}{
		{6, 46, 2.1},
		{10, 40, 2},
		{20, 60, 3},
		{-5, 55, 2.5},
	} {
		s, err := n.Solve(Request{
			Topology: top, Mode: OffDesign, Boundary: boundary(tc.src, tc.sink, tc.q), Sizing: &d.Sizing,
		})
		assert.NilError(t, err)
		assert.Assert(t, s.EvapC < tc.src)
		near(t, s.CondC, tc.sink+tc.q/d.Sizing.CondenserUA, 1e-9)
		near(t, s.EvaporatorDutyKW, d.Sizing.EvaporatorUA*(tc.src-s.EvapC), 1e-5)
		near(t, s.EvaporatorDutyKW+s.CompressorPowerKW, tc.q, 1e-9)
		assert.Assert(t, s.Iterations >= 1 && s.Iterations <= 50)
	}

	// larger lift costs more power per unit of heat
	warm, err := n.Solve(Request{Topology: top, Mode: OffDesign, Boundary: boundary(10, 40, 2), Sizing: &d.Sizing})
	assert.NilError(t, err)
	cold, err := n.Solve(Request{Topology: top, Mode: OffDesign, Boundary: boundary(-5, 55, 2), Sizing: &d.Sizing})
	assert.NilError(t, err)
	assert.Assert(t, warm.CompressorPowerKW < cold.CompressorPowerKW)
}

func TestOffDesignFailures(t *testing.T) {
	n := testNetwork()
	top, d := design(t, n, boundary(5, 45, 2))

	_, err := n.Solve(Request{Topology: top, Mode: OffDesign, Boundary: boundary(50, 40, 2), Sizing: &d.Sizing})
	var cf *ConvergenceFailure
	assert.Assert(t, errors.As(err, &cf))
	assert.Equal(t, cf.Mode, OffDesign)
	assert.ErrorContains(t, err, "no temperature lift")

	_, err = n.Solve(Request{Topology: top, Mode: OffDesign, Boundary: boundary(5, 90, 4), Sizing: &d.Sizing})
	assert.ErrorContains(t, err, "condensing temperature")

	tight := NewNetwork(n.Envelope, 1, 1e-12)
	_, err = tight.Solve(Request{Topology: top, Mode: OffDesign, Boundary: boundary(6, 46, 2.1), Sizing: &d.Sizing})
	assert.Assert(t, errors.As(err, &cf))
	assert.Equal(t, cf.Iterations, 1)

	_, err = n.Solve(Request{Topology: top, Mode: OffDesign, Boundary: boundary(5, 45, 2)})
	assert.ErrorContains(t, err, "without design sizing")
}

func TestSolveIsRepeatable(t *testing.T) {
	n := testNetwork()
	top, d := design(t, n, boundary(5, 45, 2))
	req := Request{Topology: top, Mode: OffDesign, Boundary: boundary(6, 46, 2.1), Sizing: &d.Sizing}
	a, err := n.Solve(req)
	assert.NilError(t, err)
	b, err := n.Solve(req)
	assert.NilError(t, err)
	assert.DeepEqual(t, a, b)
}
