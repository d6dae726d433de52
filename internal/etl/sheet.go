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
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/antst/hpsim/internal/config"

	"github.com/xuri/excelize/v2"
)

type dataRow struct {
	num   int // 1-based worksheet row
	cells []string
}

// sheet is the raw content of one worksheet: the first row is the header.
type sheet struct {
	name   string
	key    string // ColumnMap entry naming the sheet
	header []string
	rows   []dataRow
}

func readSheet(wb *excelize.File, name, key string) (*sheet, error) {
	list := wb.GetSheetList()
	found := false
	for _, s := range list {
		if s == name {
			found = true
			break
		}
	}
	if !found {
		return nil, &ConfigurationError{
			Field: key, Key: key, Header: name, Available: list, Reason: "sheet not found",
		}
	}

	rows, err := wb.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &DataError{Sheet: name, Reason: err.Error()}
	}
	if len(rows) == 0 {
		return nil, &DataError{Sheet: name, Reason: "empty sheet"}
	}

	s := &sheet{name: name, key: key}
	for _, h := range rows[0] {
		s.header = append(s.header, strings.TrimSpace(h))
	}
	for i, r := range rows[1:] {
		if blank(r) {
			continue
		}
		s.rows = append(s.rows, dataRow{num: i + 2, cells: r})
	}
	return s, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (s *sheet) configError(f config.Field, reason string) *ConfigurationError {
	return &ConfigurationError{
		Field: f.Name, Key: f.Key, Sheet: s.name, Header: f.Header,
		Available: append([]string(nil), s.header...), Reason: reason,
	}
}

func (s *sheet) cell(r dataRow, col int) string {
	if col < 0 || col >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[col])
}

// number reads a numeric cell. Empty optional cells are NaN; everything else
// that does not parse is a DataError.
func (s *sheet) number(r dataRow, col int, required bool) (float64, error) {
	if col < 0 {
		return math.NaN(), nil
	}
	raw := s.cell(r, col)
	if raw == "" {
		if required {
			return 0, &DataError{Sheet: s.name, Row: r.num, Column: s.header[col], Reason: "empty value"}
		}
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &DataError{Sheet: s.name, Row: r.num, Column: s.header[col], Value: raw, Reason: "not a number"}
	}
	return v, nil
}

func (s *sheet) time(r dataRow, col int) (time.Time, error) {
	raw := s.cell(r, col)
	if raw == "" {
		return time.Time{}, &DataError{Sheet: s.name, Row: r.num, Column: s.header[col], Reason: "empty timestamp"}
	}
	t, err := ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, &DataError{
			Sheet: s.name, Row: r.num, Column: s.header[col], Value: raw, Reason: err.Error(),
		}
	}
	return t, nil
}
