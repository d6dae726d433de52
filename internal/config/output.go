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

package config

const (
	defaultOutDir    = "results"
	defaultMQTTTopic = "hpsim"
)

type MQTTConfig struct {
	URL   string `yaml:"url"`
	Topic string `yaml:"topic"`
}

// OutputConfig lists where artifacts and optional sinks go.
type OutputConfig struct {
	OutDir      string     `yaml:"outdir"`
	DBFile      string     `yaml:"db_file"`
	MetricsFile string     `yaml:"metrics_file"`
	MQTT        MQTTConfig `yaml:"mqtt"`
}

func (c *OutputConfig) FillDefaults() {
	if c.OutDir == "" {
		c.OutDir = defaultOutDir
	}
	if c.MQTT.Topic == "" {
		c.MQTT.Topic = defaultMQTTTopic
	}
}
