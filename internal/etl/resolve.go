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
	"regexp"
	"strings"

	"github.com/antst/hpsim/internal/config"
)

var (
	headerBrackets = regexp.MustCompile(`[\[\](){}]`)
	headerSpaces   = regexp.MustCompile(`[\s_\-]+`)
)

// aliases are tried, after the configured header, when no header matches exactly.
var aliases = map[string][]string{
	config.FieldSourceTimeStart: {"start", "begin"},
	config.FieldSourceTimeEnd:   {"end", "finish"},
	config.FieldSinkTimeStart:   {"start", "begin"},
	config.FieldSinkTimeEnd:     {"end", "finish"},
	config.FieldSourceTIn:       {"tin", "inlet", "evap"},
	config.FieldSourceTOut:      {"tout", "outlet"},
	config.FieldSinkTIn:         {"tin", "inlet", "return"},
	config.FieldSinkTOut:        {"tout", "outlet", "supply", "cond"},
	config.FieldSinkEnergy:      {"energy", "kwh"},
	config.FieldSinkPower:       {"power", "qcond"},
	config.FieldSinkMassFlow:    {"massflow", "mdot", "flow"},
}

// NormalizeHeader makes headers comparable: `°` becomes `deg`, case, brackets,
// whitespace, underscores and dashes are dropped.
func NormalizeHeader(s string) string {
	s = strings.ReplaceAll(s, "°", "deg")
	s = strings.ToLower(strings.TrimSpace(s))
	s = headerBrackets.ReplaceAllString(s, "")
	s = headerSpaces.ReplaceAllString(s, "")
	return s
}

// resolveColumn finds the single column of t carrying field f. It returns -1
// for an optional field that is not configured or not present.
func resolveColumn(t *sheet, f config.Field, strict bool) (int, error) {
	if f.Header == "" {
		if f.Required {
			return -1, t.configError(f, "no header configured")
		}
		return -1, nil
	}

	normalized := make([]string, len(t.header))
	for i, h := range t.header {
		normalized[i] = NormalizeHeader(h)
	}

	target := NormalizeHeader(f.Header)
	exact := matching(normalized, func(n string) bool { return n == target })
	switch len(exact) {
	case 1:
		return exact[0], nil
	case 0:
	default:
		return -1, t.configError(f, "header matches several columns")
	}

	if !strict {
		for _, cand := range append([]string{f.Header}, aliases[f.Name]...) {
			c := NormalizeHeader(cand)
			if c == "" {
				continue
			}
			hits := matching(normalized, func(n string) bool { return strings.Contains(n, c) })
			if len(hits) == 1 {
				return hits[0], nil
			}
		}
	}

	if f.Required {
		return -1, t.configError(f, "no matching column")
	}
	return -1, nil
}

func matching(normalized []string, pred func(string) bool) []int {
	var out []int
	for i, n := range normalized {
		if n != "" && pred(n) {
			out = append(out, i)
		}
	}
	return out
}
