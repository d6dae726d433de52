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

// Package units recognises the unit a spreadsheet header is written in and
// converts values to the canonical units used downstream: °C, kWh, kW, kg/s.
package units

import (
	"fmt"
	"regexp"
	"strings"
)

type Kind int

const (
	Temperature Kind = iota
	Energy
	Power
	MassFlow
)

func (k Kind) String() string {
	switch k {
	case Temperature:
		return "temperature"
	case Energy:
		return "energy"
	case Power:
		return "power"
	case MassFlow:
		return "mass flow"
	}
	return "unknown"
}

// Unit converts a raw value to the canonical unit of its kind.
type Unit struct {
	Name   string
	Kind   Kind
	scale  float64
	offset float64
}

func (u Unit) ToCanonical(v float64) float64 {
	return v*u.scale + u.offset
}

var (
	Celsius    = Unit{Name: "degC", Kind: Temperature, scale: 1}
	Kelvin     = Unit{Name: "K", Kind: Temperature, scale: 1, offset: -273.15}
	Fahrenheit = Unit{Name: "degF", Kind: Temperature, scale: 5.0 / 9.0, offset: -32.0 * 5.0 / 9.0}

	WattHour     = Unit{Name: "Wh", Kind: Energy, scale: 1e-3}
	KiloWattHour = Unit{Name: "kWh", Kind: Energy, scale: 1}
	MegaWattHour = Unit{Name: "MWh", Kind: Energy, scale: 1e3}
	MegaJoule    = Unit{Name: "MJ", Kind: Energy, scale: 1 / 3.6}
	GigaJoule    = Unit{Name: "GJ", Kind: Energy, scale: 1e3 / 3.6}

	Watt     = Unit{Name: "W", Kind: Power, scale: 1e-3}
	KiloWatt = Unit{Name: "kW", Kind: Power, scale: 1}
	MegaWatt = Unit{Name: "MW", Kind: Power, scale: 1e3}

	KgPerSecond = Unit{Name: "kg/s", Kind: MassFlow, scale: 1}
	KgPerHour   = Unit{Name: "kg/h", Kind: MassFlow, scale: 1 / 3600.0}
	M3PerHour   = Unit{Name: "m3/h", Kind: MassFlow, scale: 1000.0 / 3600.0} // water
)

var known = map[Kind][]Unit{
	Temperature: {Celsius, Kelvin, Fahrenheit},
	Energy:      {WattHour, KiloWattHour, MegaWattHour, MegaJoule, GigaJoule},
	Power:       {Watt, KiloWatt, MegaWatt},
	MassFlow:    {KgPerSecond, KgPerHour, M3PerHour},
}

var unitInHeader = regexp.MustCompile(`[\[(]\s*([^\])]+?)\s*[\])]`)

// Canonical returns the unit every value of kind k is converted to.
func Canonical(k Kind) Unit {
	switch k {
	case Energy:
		return KiloWattHour
	case Power:
		return KiloWatt
	case MassFlow:
		return KgPerSecond
	}
	return Celsius
}

// Lookup finds a unit of kind k by name; `°C`, `deg C`, `kwh` and the like are accepted.
func Lookup(k Kind, name string) (Unit, error) {
	n := normalize(name)
	for _, u := range known[k] {
		if normalize(u.Name) == n {
			return u, nil
		}
	}
	switch {
	case k == Temperature && (n == "c" || n == "celsius"):
		return Celsius, nil
	case k == Temperature && (n == "f" || n == "fahrenheit"):
		return Fahrenheit, nil
	case k == Temperature && n == "kelvin":
		return Kelvin, nil
	}
	return Unit{}, fmt.Errorf("unknown %v unit `%v`", k, name)
}

// FromHeader reads the bracketed unit of a header such as `T_in[degC]` or
// `Energy (MWh)`. Headers without a recognisable unit are taken as canonical.
func FromHeader(k Kind, header string) Unit {
	for _, m := range unitInHeader.FindAllStringSubmatch(header, -1) {
		if u, err := Lookup(k, m[1]); err == nil {
			return u
		}
	}
	return Canonical(k)
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "°", "deg")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ToLower(s)
	return s
}
