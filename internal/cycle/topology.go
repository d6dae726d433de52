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

import "fmt"

// Component kinds of the closed refrigerant loop.
const (
	KindCycleCloser    = "cycle closer"
	KindEvaporator     = "evaporator"
	KindCompressor     = "compressor"
	KindCondenser      = "condenser"
	KindExpansionValve = "expansion valve"
)

type Component struct {
	Label string
	Kind  string
}

// Connection is a refrigerant stream between two components.
type Connection struct {
	Label string
	From  string
	To    string
}

// Topology is the declared network. It carries no operating state.
type Topology struct {
	Components  []Component
	Connections []Connection
}

// heatPumpTopology is the single loop this solver handles:
// cycle closer -1-> evaporator -2-> compressor -3-> condenser -4-> valve -0-> cycle closer.
func heatPumpTopology() Topology {
	return Topology{
		Components: []Component{
			{Label: "cycle closer", Kind: KindCycleCloser},
			{Label: "evaporator", Kind: KindEvaporator},
			{Label: "compressor", Kind: KindCompressor},
			{Label: "condenser", Kind: KindCondenser},
			{Label: "expansion valve", Kind: KindExpansionValve},
		},
		Connections: []Connection{
			{Label: "1", From: "cycle closer", To: "evaporator"},
			{Label: "2", From: "evaporator", To: "compressor"},
			{Label: "3", From: "compressor", To: "condenser"},
			{Label: "4", From: "condenser", To: "expansion valve"},
			{Label: "0", From: "expansion valve", To: "cycle closer"},
		},
	}
}

func (t Topology) Empty() bool {
	return len(t.Components) == 0
}

// Validate checks that every component has exactly one inlet and one outlet
// and that the connections form a single closed loop.
func (t Topology) Validate() error {
	if t.Empty() {
		return fmt.Errorf("topology has no components")
	}
	next := make(map[string]string, len(t.Connections))
	inlets := make(map[string]int, len(t.Components))
	for _, c := range t.Connections {
		if _, dup := next[c.From]; dup {
			return fmt.Errorf("component `%v` has more than one outlet", c.From)
		}
		next[c.From] = c.To
		inlets[c.To]++
	}
	for _, c := range t.Components {
		if _, ok := next[c.Label]; !ok {
			return fmt.Errorf("component `%v` has no outlet", c.Label)
		}
		if inlets[c.Label] != 1 {
			return fmt.Errorf("component `%v` has %d inlets", c.Label, inlets[c.Label])
		}
	}

	start := t.Components[0].Label
	cur, steps := start, 0
	for {
		cur = next[cur]
		steps++
		if cur == start {
			break
		}
		if steps > len(t.Components) {
			return fmt.Errorf("connections do not close the loop at `%v`", start)
		}
	}
	if steps != len(t.Components) {
		return fmt.Errorf("loop through `%v` visits %d of %d components", start, steps, len(t.Components))
	}
	return nil
}

// Has reports whether a component of the given kind is part of the topology.
func (t Topology) Has(kind string) bool {
	for _, c := range t.Components {
		if c.Kind == kind {
			return true
		}
	}
	return false
}
