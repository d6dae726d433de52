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

// ConvergenceFailure is returned by Solve when the equation system has no
// solution within the operating envelope, iteration limit and tolerance.
type ConvergenceFailure struct {
	Mode       Mode
	Reason     string
	Iterations int
	Residual   float64
}

func (e *ConvergenceFailure) Error() string {
	if e.Iterations == 0 {
		return fmt.Sprintf("%v solve failed: %v", e.Mode, e.Reason)
	}
	return fmt.Sprintf(
		"%v solve did not converge after %d iterations (residual %.3g kW): %v",
		e.Mode, e.Iterations, e.Residual, e.Reason,
	)
}

func failure(mode Mode, format string, args ...interface{}) *ConvergenceFailure {
	return &ConvergenceFailure{Mode: mode, Reason: fmt.Sprintf(format, args...)}
}
