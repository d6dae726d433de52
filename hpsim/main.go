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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/antst/hpsim/internal/config"
	"github.com/antst/hpsim/internal/db"
	"github.com/antst/hpsim/internal/etl"
	"github.com/antst/hpsim/internal/heatpump"
	"github.com/antst/hpsim/internal/logger"
	"github.com/antst/hpsim/internal/orchestrator"
	"github.com/antst/hpsim/internal/safe_mqtt"
)

// Build version, overridden with flag during build.
var version = "devel"

const (
	exitOK      = 0
	exitFailure = 1
	exitInput   = 2
	exitDesign  = 3
)

func exitCode(err error) int {
	var (
		cfgErr    *etl.ConfigurationError
		dataErr   *etl.DataError
		designErr *heatpump.DesignConvergenceError
	)
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &cfgErr), errors.As(err, &dataErr):
		return exitInput
	case errors.As(err, &designErr):
		return exitDesign
	}
	return exitFailure
}

func observers(cfg config.Config, runID string) ([]orchestrator.Option, func()) {
	var opts []orchestrator.Option
	var closers []func()

	if cfg.Output.DBFile != "" {
		archive, err := db.Open(cfg.Output.DBFile)
		if err != nil {
			logger.L().Errorf("archive disabled: %v", err)
		} else {
			opts = append(opts, orchestrator.WithObserver(orchestrator.ArchiveObserver(archive)))
			closers = append(closers, func() { _ = archive.Close() })
		}
	}
	if cfg.Output.MQTT.URL != "" {
		client, err := safe_mqtt.InitMQTTClient(cfg.Output.MQTT.URL, "hpsim-"+runID)
		if err != nil {
			logger.L().Errorf("MQTT disabled: %v", err)
		} else {
			pub := safe_mqtt.NewPublisher(client, cfg.Output.MQTT.Topic)
			opts = append(opts, orchestrator.WithObserver(orchestrator.MQTTObserver(pub)))
			closers = append(closers, client.Disconnect)
		}
	}
	return opts, func() {
		for _, c := range closers {
			c()
		}
	}
}

func run() int {
	defer logger.Close()
	logger.L().Infof("Heat pump case study, version: %+v", version)

	cfg, err := config.Load(os.Args, os.Stderr)
	if errors.Is(err, config.ErrHelp) {
		return exitOK
	}
	if err != nil {
		logger.L().Error(err)
		return exitInput
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	opts, closeAll := observers(cfg, runID)
	defer closeAll()
	opts = append(opts, orchestrator.WithRunID(runID))

	o := orchestrator.New(cfg, orchestrator.NewSolver(cfg.Model), opts...)
	out, err := o.RunFile(ctx)
	if err != nil {
		logger.Run(runID).Error(err)
		return exitCode(err)
	}
	ok, missing := out.Table.Counts()
	logger.Run(runID).Infof("done: %d ok, %d missing, artifacts in %v", ok, missing, cfg.Output.OutDir)
	return exitOK
}

func main() {
	os.Exit(run())
}
