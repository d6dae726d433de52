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

package plot

import (
	"math"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/antst/hpsim/internal/logger"
	"github.com/antst/hpsim/internal/results"
)

const (
	width  = 8 * vg.Inch
	height = 4 * vg.Inch
)

type series struct {
	label  string
	metric func(results.Row) float64
}

// Chart describes one output image.
type Chart struct {
	File   string
	Title  string
	YLabel string
	series []series
}

var Charts = []Chart{
	{
		File: "plot_COP.png", Title: "Coefficient of performance", YLabel: "COP",
		series: []series{{"COP", func(r results.Row) float64 { return r.COP }}},
	},
	{
		File: "plot_P_comp.png", Title: "Compressor power", YLabel: "P [kW]",
		series: []series{{"P_comp", func(r results.Row) float64 { return r.CompressorPowerKW }}},
	},
	{
		File: "plot_Q.png", Title: "Heat exchanger duties", YLabel: "Q [kW]",
		series: []series{
			{"Q_evap", func(r results.Row) float64 { return r.EvaporatorDutyKW }},
			{"Q_cond", func(r results.Row) float64 { return r.CondenserDutyKW }},
		},
	},
}

// segments splits a series at NaN values, so missing rows show as gaps.
func segments(ts []time.Time, vs []float64) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for i, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: float64(ts[i].Unix()), Y: v})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func (c Chart) build(t *results.Table) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = "time"
	p.Y.Label.Text = c.YLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "01-02\n15:04"}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	for i, s := range c.series {
		col := plotutil.Color(i)
		ts, vs := t.Series(s.metric)
		segs := segments(ts, vs)
		for n, seg := range segs {
			var thumb plot.Thumbnailer
			if len(seg) == 1 {
				sc, err := plotter.NewScatter(seg)
				if err != nil {
					return nil, err
				}
				sc.GlyphStyle.Color = col
				sc.GlyphStyle.Radius = vg.Points(3)
				p.Add(sc)
				thumb = sc
			} else {
				l, err := plotter.NewLine(seg)
				if err != nil {
					return nil, err
				}
				l.LineStyle.Color = col
				l.LineStyle.Width = vg.Points(1.5)
				p.Add(l)
				thumb = l
			}
			if n == 0 {
				p.Legend.Add(s.label, thumb)
			}
		}
		if len(segs) == 0 {
			logger.L().Warnf("%v: no converged values for %v", c.File, s.label)
		}
	}
	return p, nil
}

func (c Chart) Save(t *results.Table, dir string) (string, error) {
	p, err := c.build(t)
	if err != nil {
		return "", errors.WithMessagef(err, "build %v", c.File)
	}
	path := filepath.Join(dir, c.File)
	if err := p.Save(width, height, path); err != nil {
		return "", errors.Wrapf(err, "save %v", path)
	}
	return path, nil
}

// SaveAll writes every chart into dir and returns the file paths in chart order.
func SaveAll(t *results.Table, dir string) ([]string, error) {
	paths := make([]string, 0, len(Charts))
	for _, c := range Charts {
		path, err := c.Save(t, dir)
		if err != nil {
			return paths, err
		}
		logger.L().Debugf("wrote %v", path)
		paths = append(paths, path)
	}
	return paths, nil
}
