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

const (
	DesignFirst  = "first"
	DesignIndex  = "index"
	DesignMedian = "median"
	// first record temperatures, median condenser duty over all records
	DesignFirstMedianDuty = "first_median_duty"
)

// DesignConfig selects the record that fixes the equipment sizing.
type DesignConfig struct {
	Policy string `yaml:"policy"`
	Index  int    `yaml:"index"`
}

func (c *DesignConfig) FillDefaults() {
	if c.Policy == "" {
		c.Policy = DesignFirst
	}
}

func (c DesignConfig) Validate() error {
	switch c.Policy {
	case DesignFirst, DesignMedian, DesignFirstMedianDuty:
	case DesignIndex:
		if c.Index < 0 {
			return fmt.Errorf("design.index must not be negative, got %v", c.Index)
		}
	default:
		return fmt.Errorf("design.policy: unknown policy `%v`", c.Policy)
	}
	return nil
}

func (c DesignConfig) String() string {
	if c.Policy == DesignIndex {
		return fmt.Sprintf("%v[%d]", c.Policy, c.Index)
	}
	return c.Policy
}
