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

package safe_mqtt

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/antst/hpsim/internal/logger"
	"github.com/antst/hpsim/internal/report"
	"github.com/antst/hpsim/internal/results"
)

const publishTimeout = 5 * time.Second

// Publisher sends a finished run to <topic>/<run_id>/summary and one
// message per row to <topic>/<run_id>/rows/<index>.
type Publisher struct {
	client MqttClient
	topic  string
}

func NewPublisher(client MqttClient, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

type rowMessage struct {
	Index     int       `json:"index"`
	Timestamp time.Time `json:"timestamp"`
	Mode      string    `json:"mode"`
	Status    string    `json:"status"`
	COP       *float64  `json:"cop"`
	PComp     *float64  `json:"p_comp_kw"`
	QEvap     *float64  `json:"q_evap_kw"`
	QCond     *float64  `json:"q_cond_kw"`
	Error     string    `json:"error,omitempty"`
}

// json cannot carry NaN
func value(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func RowMarshalHelper(r results.Row) []byte {
	ret, err := json.Marshal(rowMessage{
		Index:     r.Index,
		Timestamp: r.Timestamp,
		Mode:      r.Mode,
		Status:    string(r.Status),
		COP:       value(r.COP),
		PComp:     value(r.CompressorPowerKW),
		QEvap:     value(r.EvaporatorDutyKW),
		QCond:     value(r.CondenserDutyKW),
		Error:     r.Error,
	})
	if err != nil {
		logger.L().Error(err)
	}
	return ret
}

func (p *Publisher) publish(topic string, retained bool, payload []byte) error {
	token := p.client.SafePublish(topic, 1, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %v timed out after %v", topic, publishTimeout)
	}
	return errors.Wrapf(token.Error(), "publish to %v", topic)
}

func (p *Publisher) PublishRun(s report.Summary, t *results.Table) error {
	base := fmt.Sprintf("%v/%v", p.topic, s.RunID)
	summary, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encode summary")
	}
	if err := p.publish(base+"/summary", true, summary); err != nil {
		return err
	}
	for _, r := range t.Rows {
		if err := p.publish(fmt.Sprintf("%v/rows/%d", base, r.Index), false, RowMarshalHelper(r)); err != nil {
			return err
		}
	}
	logger.L().Infof("published run %v to %v", s.RunID, base)
	return nil
}
