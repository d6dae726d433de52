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

package orchestrator

import (
	"context"
	"time"

	"github.com/antst/hpsim/internal/db"
	"github.com/antst/hpsim/internal/report"
	"github.com/antst/hpsim/internal/results"
	"github.com/antst/hpsim/internal/safe_mqtt"
)

// Observer receives a finished run. Observer errors are logged and never
// fail the run.
type Observer interface {
	Name() string
	Observe(ctx context.Context, s report.Summary, t *results.Table) error
}

type archiveObserver struct {
	archive *db.Archive
	now     func() time.Time
}

func ArchiveObserver(a *db.Archive) Observer {
	return archiveObserver{archive: a, now: time.Now}
}

func (o archiveObserver) Name() string {
	return "archive"
}

func (o archiveObserver) Observe(ctx context.Context, s report.Summary, t *results.Table) error {
	return o.archive.SaveRun(ctx, s, o.now(), t)
}

type mqttObserver struct {
	publisher *safe_mqtt.Publisher
}

func MQTTObserver(p *safe_mqtt.Publisher) Observer {
	return mqttObserver{publisher: p}
}

func (o mqttObserver) Name() string {
	return "mqtt"
}

func (o mqttObserver) Observe(_ context.Context, s report.Summary, t *results.Table) error {
	return o.publisher.PublishRun(s, t)
}
