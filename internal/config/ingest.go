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

import (
	"fmt"
	"time"
)

const (
	AlignTimestamp  = "timestamp"
	AlignPositional = "positional"

	IntervalNominal = "nominal"
	IntervalWindow  = "window"
	IntervalMedian  = "median"
)

// IngestConfig controls how the two sheets become one record sequence.
type IngestConfig struct {
	Align            string            `yaml:"align"`
	JoinTolerance    time.Duration     `yaml:"join_tolerance"`
	Interval         string            `yaml:"interval"`
	NominalIntervalH float64           `yaml:"nominal_interval_h"`
	StrictColumns    bool              `yaml:"strict_columns"`
	Units            map[string]string `yaml:"units,omitempty"`
}

func NewIngestConfig() IngestConfig {
	cfg := IngestConfig{}
	cfg.FillDefaults()
	return cfg
}

func (c *IngestConfig) FillDefaults() {
	if c.Align == "" {
		c.Align = AlignTimestamp
	}
	if c.JoinTolerance == 0 {
		c.JoinTolerance = 5 * time.Minute
	}
	if c.Interval == "" {
		c.Interval = IntervalNominal
	}
	if c.NominalIntervalH == 0 {
		c.NominalIntervalH = 1.0
	}
}

func (c IngestConfig) Validate() error {
	switch c.Align {
	case AlignTimestamp, AlignPositional:
	default:
		return fmt.Errorf("ingest.align: unknown mode `%v`", c.Align)
	}
	switch c.Interval {
	case IntervalNominal, IntervalWindow, IntervalMedian:
	default:
		return fmt.Errorf("ingest.interval: unknown mode `%v`", c.Interval)
	}
	if c.NominalIntervalH <= 0 {
		return fmt.Errorf("ingest.nominal_interval_h must be positive, got %v", c.NominalIntervalH)
	}
	if c.JoinTolerance < 0 {
		return fmt.Errorf("ingest.join_tolerance must not be negative, got %v", c.JoinTolerance)
	}
	return nil
}
