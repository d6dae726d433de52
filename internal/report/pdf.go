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

package report

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"github.com/antst/hpsim/internal/results"
)

const pageWidth = 190.0

func line(pdf *gofpdf.Fpdf, format string, args ...interface{}) {
	pdf.Cell(0, 6, fmt.Sprintf(format, args...))
	pdf.Ln(5)
}

func num(v float64) string {
	if v != v {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

// SavePDF renders the summary, the charts and the result rows into one document.
func SavePDF(path string, s Summary, t *results.Table, charts []string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Heat pump case study "+s.RunID, true)
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Heat pump case study")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	line(pdf, "Run: %v", s.RunID)
	line(pdf, "Input: %v", s.Input)
	line(pdf, "Fluid: %v", s.Fluid)
	line(pdf, "Design point: %v", s.Design.Source)
	line(pdf, "Source inlet %.2f C, sink outlet %.2f C, condenser duty %.2f kW",
		s.Design.SourceInC, s.Design.SinkOutC, s.Design.CondenserDutyKW)
	line(pdf, "Evaporating %.2f C, condensing %.2f C, pressure ratio %.3f",
		s.Sizing.EvapC, s.Sizing.CondC, s.Sizing.PressureRatio)
	line(pdf, "UA evaporator %.3f kW/K, UA condenser %.3f kW/K",
		s.Sizing.EvaporatorUA, s.Sizing.CondenserUA)
	line(pdf, "Design COP %.3f, compressor power %.2f kW",
		s.Metrics.COP, s.Metrics.CompressorPowerKW)
	line(pdf, "Rows: %d total, %d ok, %d missing", s.Rows.Total, s.Rows.OK, s.Rows.Missing)
	pdf.Ln(4)

	for _, c := range charts {
		pdf.ImageOptions(c, 10, pdf.GetY(), pageWidth, 0, true,
			gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")
		pdf.Ln(2)
	}

	pdf.AddPage()
	widths := []float64{36, 18, 16, 22, 22, 22, 18, 18}
	head := []string{"Time", "Status", "COP", "P_comp kW", "Q_evap kW", "Q_cond kW", "T_evap", "T_cond"}
	pdf.SetFont("Arial", "B", 9)
	for i, h := range head {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, r := range t.Rows {
		cells := []string{
			r.Timestamp.Format("2006-01-02 15:04"), string(r.Status), num(r.COP),
			num(r.CompressorPowerKW), num(r.EvaporatorDutyKW), num(r.CondenserDutyKW),
			num(r.EvapC), num(r.CondC),
		}
		for i, c := range cells {
			align := "R"
			if i < 2 {
				align = "C"
			}
			pdf.CellFormat(widths[i], 6, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return errors.Wrap(err, "render report")
	}
	return errors.Wrapf(pdf.OutputFileAndClose(path), "write %v", path)
}
