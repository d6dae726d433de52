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

package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// Metrics bundles the counters of one run. Each run has its own registry,
// written once to a node-exporter textfile at the end.
type Metrics struct {
	registry *prometheus.Registry

	SolvesTotal   *prometheus.CounterVec
	SolveDuration *prometheus.HistogramVec
	Records       prometheus.Gauge
	RowsOK        prometheus.Gauge
	RowsMissing   prometheus.Gauge
	DesignCOP     prometheus.Gauge
	LastRun       prometheus.Gauge
}

func New(runID string) *Metrics {
	labels := prometheus.Labels{"run_id": runID}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SolvesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "hpsim_solves_total",
				Help:        "Cycle solves by mode and result",
				ConstLabels: labels,
			},
			[]string{"mode", "result"},
		),
		SolveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "hpsim_solve_duration_seconds",
				Help:        "Cycle solve duration in seconds",
				ConstLabels: labels,
				Buckets:     prometheus.ExponentialBuckets(1e-5, 4, 10),
			},
			[]string{"mode"},
		),
		Records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hpsim_records", Help: "Records produced by the ETL stage", ConstLabels: labels,
		}),
		RowsOK: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hpsim_rows_ok", Help: "Result rows with a converged solve", ConstLabels: labels,
		}),
		RowsMissing: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hpsim_rows_missing", Help: "Result rows without a converged solve", ConstLabels: labels,
		}),
		DesignCOP: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hpsim_design_cop", Help: "COP at the design point", ConstLabels: labels,
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hpsim_last_run_timestamp_seconds", Help: "End of the run", ConstLabels: labels,
		}),
	}
	m.registry.MustRegister(
		m.SolvesTotal,
		m.SolveDuration,
		m.Records,
		m.RowsOK,
		m.RowsMissing,
		m.DesignCOP,
		m.LastRun,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveSolve(mode string, ok bool, d time.Duration) {
	result := ResultOK
	if !ok {
		result = ResultFailed
	}
	m.SolvesTotal.WithLabelValues(mode, result).Inc()
	m.SolveDuration.WithLabelValues(mode).Observe(d.Seconds())
}

func (m *Metrics) SetRows(ok, missing int) {
	m.RowsOK.Set(float64(ok))
	m.RowsMissing.Set(float64(missing))
}

// WriteTextfile stamps the run end and writes every metric to path.
func (m *Metrics) WriteTextfile(path string, end time.Time) error {
	m.LastRun.Set(float64(end.Unix()))
	return errors.Wrapf(prometheus.WriteToTextfile(path, m.registry), "write metrics to %v", path)
}
