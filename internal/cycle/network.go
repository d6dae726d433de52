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
	"fmt"
	"math"

	tm "github.com/antst/hpsim/internal/thermo_model"
)

type Mode int

const (
	Design Mode = iota
	OffDesign
)

func (m Mode) String() string {
	if m == OffDesign {
		return "offdesign"
	}
	return "design"
}

// Solver is the narrow boundary the heat pump model talks to.
type Solver interface {
	DeclareTopology() (Topology, error)
	Solve(req Request) (State, error)
}

// Boundary holds the plant-side conditions of one operating point.
type Boundary struct {
	SourceInC       float64 // source loop inlet to the evaporator
	SinkOutC        float64 // sink loop outlet of the condenser
	CondenserDutyKW float64 // heat delivered to the sink
	EvapApproachK   float64
	CondApproachK   float64 // condensing at SinkOutC + approach; setpoint when not positive
	CondSetpointC   float64
	EtaS            float64 // compressor isentropic efficiency at design
}

func (b Boundary) String() string {
	return fmt.Sprintf(
		"T_source_in=%.2f°C T_sink_out=%.2f°C Q_cond=%.3fkW eta_s=%.3f",
		b.SourceInC, b.SinkOutC, b.CondenserDutyKW, b.EtaS,
	)
}

// Sizing is fixed by a design solve and held constant off-design.
type Sizing struct {
	EvaporatorUA  float64 // kW/K
	EvapApproachK float64
	CondenserUA   float64 // kW/K, zero when condensing at the setpoint
	PressureRatio float64
	EtaS          float64
	MassFlow      float64 // kg/s
	EvapC         float64
	CondC         float64
}

type Request struct {
	Topology Topology
	Mode     Mode
	Boundary Boundary
	Sizing   *Sizing // required off-design
}

// State is a converged operating point. Enthalpies are per connection label.
type State struct {
	Mode              Mode
	EvapC             float64
	CondC             float64
	EvapPressureBar   float64
	CondPressureBar   float64
	Enthalpy          map[string]float64 // kJ/kg
	MassFlow          float64            // kg/s
	CompressorPowerKW float64
	EvaporatorDutyKW  float64
	CondenserDutyKW   float64
	EtaS              float64
	Iterations        int
	Residual          float64
	Sizing            Sizing
}

// Envelope bounds the refrigerant saturation temperatures.
type Envelope struct {
	EvapMinC float64
	EvapMaxC float64
	CondMinC float64
	CondMaxC float64
}

// Network solves the single-stage vapour compression loop. It is stateless:
// equal requests give equal states.
type Network struct {
	Envelope  Envelope
	MaxIter   int
	Tolerance float64 // relative to the condenser duty
}

func NewNetwork(env Envelope, maxIter int, tolerance float64) *Network {
	return &Network{Envelope: env, MaxIter: maxIter, Tolerance: tolerance}
}

func (n *Network) DeclareTopology() (Topology, error) {
	t := heatPumpTopology()
	if err := t.Validate(); err != nil {
		return Topology{}, err
	}
	return t, nil
}

func (n *Network) Solve(req Request) (State, error) {
	if req.Topology.Empty() {
		return State{}, fmt.Errorf("%v solve on an undeclared topology", req.Mode)
	}
	if err := checkBoundary(req.Mode, req.Boundary); err != nil {
		return State{}, err
	}
	if req.Mode == Design {
		return n.solveDesign(req.Boundary)
	}
	if req.Sizing == nil {
		return State{}, fmt.Errorf("offdesign solve without design sizing")
	}
	return n.solveOffDesign(req.Boundary, *req.Sizing)
}

func checkBoundary(mode Mode, b Boundary) error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"source inlet temperature", b.SourceInC},
		{"sink outlet temperature", b.SinkOutC},
		{"condenser duty", b.CondenserDutyKW},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return failure(mode, "%v is not a number", f.name)
		}
	}
	if b.CondenserDutyKW <= 0 {
		return failure(mode, "condenser duty %.3f kW is not positive", b.CondenserDutyKW)
	}
	if b.SinkOutC <= b.SourceInC {
		return failure(mode, "no temperature lift: sink outlet %.2f°C is not above source inlet %.2f°C",
			b.SinkOutC, b.SourceInC)
	}
	return nil
}

func (n *Network) checkEvap(mode Mode, te float64) error {
	if te < n.Envelope.EvapMinC || te > n.Envelope.EvapMaxC || !tm.InRange(te) {
		return failure(mode, "evaporating temperature %.2f°C outside [%.1f, %.1f]°C",
			te, n.Envelope.EvapMinC, n.Envelope.EvapMaxC)
	}
	return nil
}

func (n *Network) checkCond(mode Mode, tc float64) error {
	if tc < n.Envelope.CondMinC || tc > n.Envelope.CondMaxC || !tm.InRange(tc) {
		return failure(mode, "condensing temperature %.2f°C outside [%.1f, %.1f]°C",
			tc, n.Envelope.CondMinC, n.Envelope.CondMaxC)
	}
	return nil
}

// loop evaluates the refrigerant states for given saturation temperatures and
// compressor efficiency; enthalpies per unit mass.
type loop struct {
	h1, h2, h3, h4 float64
	work           float64
}

func evalLoop(te, tc, etaS float64) loop {
	h2 := tm.VapourEnthalpy(te)
	h3s := tm.IsentropicEnthalpy(tc, tm.VapourEntropy(te))
	work := (h3s - h2) / etaS
	h4 := tm.LiquidEnthalpy(tc)
	return loop{h1: h4, h2: h2, h3: h2 + work, h4: h4, work: work}
}

func (n *Network) state(mode Mode, te, tc, etaS, q float64) State {
	l := evalLoop(te, tc, etaS)
	m := q / (l.h3 - l.h4)
	return State{
		Mode:            mode,
		EvapC:           te,
		CondC:           tc,
		EvapPressureBar: tm.SaturationPressure(te),
		CondPressureBar: tm.SaturationPressure(tc),
		Enthalpy: map[string]float64{
			"0": l.h1, "1": l.h1, "2": l.h2, "3": l.h3, "4": l.h4,
		},
		MassFlow:          m,
		CompressorPowerKW: m * l.work,
		EvaporatorDutyKW:  m * (l.h2 - l.h1),
		CondenserDutyKW:   q,
		EtaS:              etaS,
	}
}

func (n *Network) solveDesign(b Boundary) (State, error) {
	te := b.SourceInC - b.EvapApproachK
	tc := b.CondSetpointC
	if b.CondApproachK > 0 {
		tc = b.SinkOutC + b.CondApproachK
	}
	if err := n.checkEvap(Design, te); err != nil {
		return State{}, err
	}
	if err := n.checkCond(Design, tc); err != nil {
		return State{}, err
	}
	if tc <= te {
		return State{}, failure(Design, "condensing %.2f°C not above evaporating %.2f°C", tc, te)
	}
	if b.EtaS <= 0 || b.EtaS > 1 {
		return State{}, failure(Design, "isentropic efficiency %.3f outside (0, 1]", b.EtaS)
	}

	st := n.state(Design, te, tc, b.EtaS, b.CondenserDutyKW)
	st.Iterations = 1
	st.Sizing = Sizing{
		EvaporatorUA:  st.EvaporatorDutyKW / (b.SourceInC - te),
		EvapApproachK: b.SourceInC - te,
		PressureRatio: st.CondPressureBar / st.EvapPressureBar,
		EtaS:          b.EtaS,
		MassFlow:      st.MassFlow,
		EvapC:         te,
		CondC:         tc,
	}
	if b.CondApproachK > 0 {
		st.Sizing.CondenserUA = b.CondenserDutyKW / (tc - b.SinkOutC)
	}
	return st, nil
}

// etaCharacteristic scales the design efficiency with the pressure ratio relative to design.
func etaCharacteristic(s Sizing, pr float64) float64 {
	r := pr / s.PressureRatio
	f := 1 - 0.3*(r-1)*(r-1)
	if f < 0.3 {
		f = 0.3
	}
	return s.EtaS * f
}

func (n *Network) solveOffDesign(b Boundary, s Sizing) (State, error) {
	q := b.CondenserDutyKW
	tc := b.CondSetpointC
	if s.CondenserUA > 0 {
		tc = b.SinkOutC + q/s.CondenserUA
	}
	if err := n.checkCond(OffDesign, tc); err != nil {
		return State{}, err
	}

	etaAt := func(te float64) float64 {
		return etaCharacteristic(s, tm.SaturationPressure(tc)/tm.SaturationPressure(te))
	}
	// evaporator balance: refrigerant side duty minus what the fixed UA transfers
	residual := func(te float64) float64 {
		l := evalLoop(te, tc, etaAt(te))
		m := q / (l.h3 - l.h4)
		return m*(l.h2-l.h1) - s.EvaporatorUA*(b.SourceInC-te)
	}

	lo := math.Max(n.Envelope.EvapMinC, tm.MinTemperature)
	hi := math.Min(math.Min(n.Envelope.EvapMaxC, b.SourceInC), tc) - 1e-9
	if hi <= lo {
		return State{}, failure(OffDesign, "no evaporating temperature between %.2f°C and %.2f°C", lo, hi)
	}
	fLo, fHi := residual(lo), residual(hi)
	if math.IsNaN(fLo) || math.IsNaN(fHi) {
		return State{}, failure(OffDesign, "residual is not a number")
	}
	if fLo > 0 || fHi < 0 {
		return State{}, failure(OffDesign,
			"evaporator balance has no root in [%.2f, %.2f]°C (residuals %.3g, %.3g kW)", lo, hi, fLo, fHi)
	}

	tol := n.Tolerance * math.Max(1, q)
	te := math.Min(math.Max(b.SourceInC-s.EvapApproachK, lo), hi)
	var f float64
	for it := 1; it <= n.MaxIter; it++ {
		f = residual(te)
		if math.IsNaN(f) {
			return State{}, &ConvergenceFailure{
				Mode: OffDesign, Reason: "residual is not a number", Iterations: it, Residual: f,
			}
		}
		if math.Abs(f) <= tol {
			if err := n.checkEvap(OffDesign, te); err != nil {
				return State{}, err
			}
			st := n.state(OffDesign, te, tc, etaAt(te), q)
			st.Iterations, st.Residual, st.Sizing = it, f, s
			return st, nil
		}
		if f < 0 {
			lo = te
		} else {
			hi = te
		}

		const h = 1e-5
		d := (residual(te+h) - residual(te-h)) / (2 * h)
		next := te - f/d
		if d == 0 || math.IsNaN(next) || next <= lo || next >= hi {
			next = (lo + hi) / 2
		}
		te = next
	}
	return State{}, &ConvergenceFailure{
		Mode:       OffDesign,
		Reason:     fmt.Sprintf("iteration limit %d reached", n.MaxIter),
		Iterations: n.MaxIter,
		Residual:   f,
	}
}
