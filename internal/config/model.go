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

package config

import "fmt"

const defaultFluid = "R134a"

// ModelConfig maps plant temperatures to refrigerant targets and bounds the solver.
type ModelConfig struct {
	Fluid string `yaml:"fluid"`

	// T_evap = src_T_in - EvapApproachK
	EvapApproachK float64 `yaml:"evap_approach_K"`
	// T_cond = sink_T_out + SinkApproachK, or SinkSetpointC when the approach is not positive
	SinkApproachK float64 `yaml:"sink_approach_K"`
	SinkSetpointC float64 `yaml:"sink_setpoint_C"`

	// operating envelope of the refrigerant side
	EvapMinC float64 `yaml:"evap_min_C"`
	EvapMaxC float64 `yaml:"evap_max_C"`
	CondMinC float64 `yaml:"cond_min_C"`
	CondMaxC float64 `yaml:"cond_max_C"`

	DesignEtaS float64 `yaml:"design_eta_s"`

	Solver SolverConfig `yaml:"solver"`
}

type SolverConfig struct {
	MaxIter   int     `yaml:"max_iter"`
	Tolerance float64 `yaml:"tolerance"`
}

func NewModelConfig() ModelConfig {
	return ModelConfig{
		Fluid:         defaultFluid,
		EvapApproachK: 5.0,
		SinkApproachK: 5.0,
		SinkSetpointC: 80.0,
		EvapMinC:      -25.0,
		EvapMaxC:      25.0,
		CondMinC:      20.0,
		CondMaxC:      95.0,
		DesignEtaS:    0.85,
		Solver:        SolverConfig{MaxIter: 50, Tolerance: 1e-6},
	}
}

func (c *ModelConfig) FillDefaults() {
	if c.Fluid == "" {
		c.Fluid = defaultFluid
	}
	if c.Solver.MaxIter == 0 {
		c.Solver.MaxIter = 50
	}
	if c.Solver.Tolerance == 0 {
		c.Solver.Tolerance = 1e-6
	}
}

func (c ModelConfig) Validate() error {
	if c.Fluid != defaultFluid {
		return fmt.Errorf("model.fluid: only %v is supported, got `%v`", defaultFluid, c.Fluid)
	}
	if c.EvapApproachK <= 0 {
		return fmt.Errorf("model.evap_approach_K must be positive, got %v", c.EvapApproachK)
	}
	if c.EvapMinC >= c.EvapMaxC {
		return fmt.Errorf("model: evap_min_C (%v) must be below evap_max_C (%v)", c.EvapMinC, c.EvapMaxC)
	}
	if c.CondMinC >= c.CondMaxC {
		return fmt.Errorf("model: cond_min_C (%v) must be below cond_max_C (%v)", c.CondMinC, c.CondMaxC)
	}
	if c.DesignEtaS <= 0 || c.DesignEtaS > 1 {
		return fmt.Errorf("model.design_eta_s must be in (0, 1], got %v", c.DesignEtaS)
	}
	if c.Solver.MaxIter < 1 || c.Solver.Tolerance <= 0 {
		return fmt.Errorf("model.solver: max_iter %v / tolerance %v", c.Solver.MaxIter, c.Solver.Tolerance)
	}
	return nil
}
