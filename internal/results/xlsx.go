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

package results

import (
	"math"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "timeseries"

// SaveXLSX exports the table as a workbook with numeric cells, leaving
// missing values blank.
func (t *Table) SaveXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", xlsxSheet)

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c.header
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return errors.Wrap(err, "write header")
	}

	cells := make([]interface{}, len(columns))
	for n, r := range t.Rows {
		for i, c := range columns {
			switch {
			case c.header == "timestamp":
				cells[i] = r.Timestamp
			case c.header == "index":
				cells[i] = r.Index
			case c.number == nil:
				cells[i] = c.get(r)
			case math.IsNaN(c.number(r)):
				cells[i] = nil
			default:
				cells[i] = c.number(r)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &cells); err != nil {
			return errors.Wrapf(err, "write row %d", r.Index)
		}
	}
	return errors.Wrapf(f.SaveAs(path), "save %v", path)
}
