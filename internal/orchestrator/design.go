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

package orchestrator

import (
	"strconv"

	"github.com/antst/hpsim/internal/config"
	"github.com/antst/hpsim/internal/etl"
	"github.com/antst/hpsim/internal/heatpump"
)

// SelectDesign returns the design point for the configured policy and the
// position of the design record, or -1 when the point is an aggregate.
func SelectDesign(c config.DesignConfig, etaS float64, records []etl.TimeRecord) (heatpump.DesignPoint, int, error) {
	if len(records) == 0 {
		return heatpump.DesignPoint{}, -1, &etl.DataError{Reason: "no records to design from"}
	}
	switch c.Policy {
	case config.DesignIndex:
		if c.Index >= len(records) {
			return heatpump.DesignPoint{}, -1, &etl.ConfigurationError{
				Field:  "design record",
				Key:    "design_index",
				Header: strconv.Itoa(c.Index),
				Reason: "index out of range [0, " + strconv.Itoa(len(records)) + ")",
			}
		}
		return heatpump.DesignFromRecord(records[c.Index], c.String(), etaS), c.Index, nil
	case config.DesignMedian:
		return medianDesign(records, etaS), -1, nil
	case config.DesignFirstMedianDuty:
		p := heatpump.DesignFromRecord(records[0], c.String(), etaS)
		p.CondenserDutyKW = median(records, func(r etl.TimeRecord) float64 { return r.SinkDutyKW })
		p.Records = len(records)
		return p, 0, nil
	}
	return heatpump.DesignFromRecord(records[0], c.String(), etaS), 0, nil
}

func median(records []etl.TimeRecord, v func(etl.TimeRecord) float64) float64 {
	xs := make([]float64, len(records))
	for i, r := range records {
		xs[i] = v(r)
	}
	return etl.Median(xs)
}

func medianDesign(records []etl.TimeRecord, etaS float64) heatpump.DesignPoint {
	return heatpump.DesignPoint{
		SourceInC:       median(records, func(r etl.TimeRecord) float64 { return r.SourceTInC }),
		SinkOutC:        median(records, func(r etl.TimeRecord) float64 { return r.SinkTOutC }),
		CondenserDutyKW: median(records, func(r etl.TimeRecord) float64 { return r.SinkDutyKW }),
		EtaS:            etaS,
		Policy:          config.DesignMedian,
		RecordIndex:     -1,
		Records:         len(records),
	}
}
