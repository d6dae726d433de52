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
	"fmt"
	"time"

	"github.com/antst/hpsim/internal/config"
	"github.com/antst/hpsim/internal/cycle"
	"github.com/antst/hpsim/internal/etl"
)

// DesignPoint is the operating condition that fixes the equipment sizing.
type DesignPoint struct {
	SourceInC       float64
	SinkOutC        float64
	CondenserDutyKW float64
	EtaS            float64

	Policy      string
	RecordIndex int // -1 for an aggregate
	Records     int // records aggregated, 1 for a single record
	Timestamp   time.Time
}

// DesignFromRecord takes the design conditions of a single record.
func DesignFromRecord(r etl.TimeRecord, policy string, etaS float64) DesignPoint {
	return DesignPoint{
		SourceInC:       r.SourceTInC,
		SinkOutC:        r.SinkTOutC,
		CondenserDutyKW: r.SinkDutyKW,
		EtaS:            etaS,
		Policy:          policy,
		RecordIndex:     r.Index,
		Records:         1,
		Timestamp:       r.Timestamp,
	}
}

func (p DesignPoint) Aggregate() bool {
	return p.RecordIndex < 0
}

// Source describes where the point came from, for messages and summaries.
func (p DesignPoint) Source() string {
	if p.Aggregate() {
		return fmt.Sprintf("%v of %d records", p.Policy, p.Records)
	}
	return fmt.Sprintf("%v: record %d at %v", p.Policy, p.RecordIndex, p.Timestamp.Format(time.RFC3339))
}

func boundary(cfg config.ModelConfig, sourceIn, sinkOut, duty, etaS float64) cycle.Boundary {
	return cycle.Boundary{
		SourceInC:       sourceIn,
		SinkOutC:        sinkOut,
		CondenserDutyKW: duty,
		EvapApproachK:   cfg.EvapApproachK,
		CondApproachK:   cfg.SinkApproachK,
		CondSetpointC:   cfg.SinkSetpointC,
		EtaS:            etaS,
	}
}

func (p DesignPoint) boundary(cfg config.ModelConfig) cycle.Boundary {
	return boundary(cfg, p.SourceInC, p.SinkOutC, p.CondenserDutyKW, p.EtaS)
}

func recordBoundary(cfg config.ModelConfig, r etl.TimeRecord) cycle.Boundary {
	return boundary(cfg, r.SourceTInC, r.SinkTOutC, r.SinkDutyKW, cfg.DesignEtaS)
}
