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
	"encoding/csv"
	"io"
	"os"

	"github.com/pkg/errors"
)

func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers()); err != nil {
		return err
	}
	rec := make([]string, len(columns))
	for _, r := range t.Rows {
		for i, c := range columns {
			rec[i] = c.get(r)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (t *Table) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create result table")
	}
	if err := t.WriteCSV(f); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "write %v", path)
	}
	return errors.Wrapf(f.Close(), "close %v", path)
}

// ReadCSV parses a table written by WriteCSV. Columns are matched by header
// name, so reordered files are accepted; unknown columns are ignored.
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return Table{}, errors.Wrap(err, "read header")
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[h] = i
	}
	for _, c := range columns {
		if _, ok := pos[c.header]; !ok {
			return Table{}, errors.Errorf("result table has no %q column", c.header)
		}
	}

	var t Table
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, errors.Wrapf(err, "line %d", line)
		}
		var row Row
		for _, c := range columns {
			if err := c.set(&row, rec[pos[c.header]]); err != nil {
				return Table{}, errors.Wrapf(err, "line %d, column %v", line, c.header)
			}
		}
		t.Append(row)
	}
	return t, nil
}

func LoadCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, errors.Wrap(err, "open result table")
	}
	defer f.Close()
	t, err := ReadCSV(f)
	return t, errors.WithMessage(err, path)
}
