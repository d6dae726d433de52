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

	"github.com/antst/hpsim/internal/cycle"
)

// StateError is a misuse of the model's state machine: a defect in the caller.
type StateError struct {
	Op    string
	Phase Phase
}

func (e *StateError) Error() string {
	return fmt.Sprintf("heat pump model: %v is not valid in phase %v", e.Op, e.Phase)
}

// DesignConvergenceError is fatal to a run: without a design basis there is
// nothing to simulate off-design.
type DesignConvergenceError struct {
	Point    DesignPoint
	Boundary cycle.Boundary
	Err      error
}

func (e *DesignConvergenceError) Error() string {
	return fmt.Sprintf("design solve (%v) failed for %v: %v", e.Point.Source(), e.Boundary, e.Err)
}

func (e *DesignConvergenceError) Unwrap() error {
	return e.Err
}

// OffDesignConvergenceError affects a single record only.
type OffDesignConvergenceError struct {
	Index     int
	Timestamp time.Time
	Boundary  cycle.Boundary
	Err       error
}

func (e *OffDesignConvergenceError) Error() string {
	return fmt.Sprintf(
		"offdesign solve for record %d at %v failed for %v: %v",
		e.Index, e.Timestamp.Format(time.RFC3339), e.Boundary, e.Err,
	)
}

func (e *OffDesignConvergenceError) Unwrap() error {
	return e.Err
}
