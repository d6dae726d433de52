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

package db

import (
	"context"
	"database/sql"
	_ "embed"
	"math"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/antst/hpsim/internal/logger"
	"github.com/antst/hpsim/internal/report"
	"github.com/antst/hpsim/internal/results"
)

//go:embed schema.sql
var schema string

// Archive keeps every run and its result rows in a sqlite file.
type Archive struct {
	db *sqlx.DB
}

type RunRecord struct {
	RunID        string          `db:"run_id"`
	Started      time.Time       `db:"started"`
	Finished     time.Time       `db:"finished"`
	Input        string          `db:"input"`
	Fluid        string          `db:"fluid"`
	DesignSource string          `db:"design_source"`
	DesignCOP    sql.NullFloat64 `db:"design_cop"`
	RowsOK       int             `db:"rows_ok"`
	RowsMissing  int             `db:"rows_missing"`
}

type ResultRecord struct {
	RunID     string          `db:"run_id"`
	Index     int             `db:"idx"`
	Timestamp time.Time       `db:"ts"`
	Mode      string          `db:"mode"`
	Status    string          `db:"status"`
	COP       sql.NullFloat64 `db:"cop"`
	PComp     sql.NullFloat64 `db:"p_comp_kw"`
	QEvap     sql.NullFloat64 `db:"q_evap_kw"`
	QCond     sql.NullFloat64 `db:"q_cond_kw"`
	MassFlow  sql.NullFloat64 `db:"m_dot_kg_s"`
	EvapC     sql.NullFloat64 `db:"t_evap_c"`
	CondC     sql.NullFloat64 `db:"t_cond_c"`
	Error     string          `db:"error"`
}

func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func Open(dbFile string) (*Archive, error) {
	db, err := sqlx.Connect("sqlite3", dbFile)
	if err != nil {
		return nil, errors.Wrapf(err, "open archive %v", dbFile)
	}
	db.SetMaxOpenConns(1)

	// Create tables if they don't exist
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create archive schema")
	}
	return &Archive{db: db}, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

// SaveRun stores the run summary and all its rows in one transaction.
func (a *Archive) SaveRun(ctx context.Context, s report.Summary, finished time.Time, t *results.Table) error {
	const insertRun = `
		INSERT INTO runs(run_id, started, finished, input, fluid, design_source, design_cop, rows_ok, rows_missing)
		VALUES(:run_id, :started, :finished, :input, :fluid, :design_source, :design_cop, :rows_ok, :rows_missing);`
	const insertResult = `
		INSERT INTO results(run_id, idx, ts, mode, status, cop, p_comp_kw, q_evap_kw, q_cond_kw, m_dot_kg_s, t_evap_c, t_cond_c, error)
		VALUES(:run_id, :idx, :ts, :mode, :status, :cop, :p_comp_kw, :q_evap_kw, :q_cond_kw, :m_dot_kg_s, :t_evap_c, :t_cond_c, :error);`

	ok, missing := t.Counts()
	run := RunRecord{
		RunID:        s.RunID,
		Started:      s.Started,
		Finished:     finished.UTC(),
		Input:        s.Input,
		Fluid:        s.Fluid,
		DesignSource: s.Design.Source,
		DesignCOP:    nullable(s.Metrics.COP),
		RowsOK:       ok,
		RowsMissing:  missing,
	}

	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin archive transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.NamedExecContext(ctx, insertRun, run); err != nil {
		return errors.Wrapf(err, "archive run %v", s.RunID)
	}
	for _, r := range t.Rows {
		rec := ResultRecord{
			RunID:     s.RunID,
			Index:     r.Index,
			Timestamp: r.Timestamp.UTC(),
			Mode:      r.Mode,
			Status:    string(r.Status),
			COP:       nullable(r.COP),
			PComp:     nullable(r.CompressorPowerKW),
			QEvap:     nullable(r.EvaporatorDutyKW),
			QCond:     nullable(r.CondenserDutyKW),
			MassFlow:  nullable(r.MassFlowKgS),
			EvapC:     nullable(r.EvapC),
			CondC:     nullable(r.CondC),
			Error:     r.Error,
		}
		if _, err := tx.NamedExecContext(ctx, insertResult, rec); err != nil {
			return errors.Wrapf(err, "archive row %d of run %v", r.Index, s.RunID)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit archive")
	}
	logger.L().Debugf("archived run %v with %d rows", s.RunID, len(t.Rows))
	return nil
}

func (a *Archive) Run(ctx context.Context, runID string) (RunRecord, error) {
	const QUERY = `SELECT * FROM runs WHERE run_id=$1;`
	var r RunRecord
	err := a.db.GetContext(ctx, &r, QUERY, runID)
	return r, errors.Wrapf(err, "load run %v", runID)
}

func (a *Archive) Results(ctx context.Context, runID string) ([]ResultRecord, error) {
	const QUERY = `SELECT * FROM results WHERE run_id=$1 ORDER BY idx;`
	var rs []ResultRecord
	err := a.db.SelectContext(ctx, &rs, QUERY, runID)
	return rs, errors.Wrapf(err, "load results of run %v", runID)
}
