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

package etl

import (
	"fmt"
	"strings"
)

// ConfigurationError means a configured sheet or column cannot be resolved
// against the workbook. It is raised before any solving starts.
type ConfigurationError struct {
	Field     string // logical field, e.g. source_T_in
	Key       string // ColumnMap entry, e.g. src_T_in
	Sheet     string
	Header    string // configured header
	Available []string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot resolve %v", e.Field)
	if e.Key != "" {
		fmt.Fprintf(&b, " (%v=%q)", e.Key, e.Header)
	}
	if e.Sheet != "" {
		fmt.Fprintf(&b, " in sheet %q", e.Sheet)
	}
	fmt.Fprintf(&b, ": %v", e.Reason)
	if len(e.Available) > 0 {
		fmt.Fprintf(&b, "; available: %q", e.Available)
	}
	return b.String()
}

// DataError points at a malformed input value.
type DataError struct {
	Sheet  string
	Row    int // 1-based worksheet row, 0 when not row specific
	Column string
	Value  string
	Reason string
}

func (e *DataError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "sheet %q", e.Sheet)
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " value %q", e.Value)
	}
	fmt.Fprintf(&b, ": %v", e.Reason)
	return b.String()
}
