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

import "github.com/pborman/getopt/v2"

// flag ties a long option to the Config field it overrides.
type flag struct {
	opt   getopt.Option
	apply func(*Config)
}

func stringFlag(set *getopt.Set, name, value, help string, dst func(*Config) *string) flag {
	v := value
	return flag{opt: set.FlagLong(&v, name, 0, help), apply: func(c *Config) { *dst(c) = v }}
}

func floatFlag(set *getopt.Set, name string, value float64, help string, dst func(*Config) *float64) flag {
	v := value
	return flag{opt: set.FlagLong(&v, name, 0, help), apply: func(c *Config) { *dst(c) = v }}
}

func intFlag(set *getopt.Set, name string, value int, help string, dst func(*Config) *int) flag {
	v := value
	return flag{opt: set.FlagLong(&v, name, 0, help), apply: func(c *Config) { *dst(c) = v }}
}

// bindFlags registers the command line overrides; defaults shown in the usage come from def.
func bindFlags(set *getopt.Set, def Config) []flag {
	cm := def.Columns
	md := def.Model
	return []flag{
		stringFlag(set, "excel", def.Excel, "path to the input workbook (e.g. HP_case_data.xlsx)",
			func(c *Config) *string { return &c.Excel }),
		stringFlag(set, "outdir", def.Output.OutDir, "output folder",
			func(c *Config) *string { return &c.Output.OutDir }),

		stringFlag(set, "sheet_source", cm.SheetSource, "heat source sheet name",
			func(c *Config) *string { return &c.Columns.SheetSource }),
		stringFlag(set, "sheet_sink", cm.SheetSink, "heat sink sheet name",
			func(c *Config) *string { return &c.Columns.SheetSink }),

		stringFlag(set, "time_start_source", cm.TimeStartSource, "source sheet start time column",
			func(c *Config) *string { return &c.Columns.TimeStartSource }),
		stringFlag(set, "time_end_source", cm.TimeEndSource, "source sheet end time column",
			func(c *Config) *string { return &c.Columns.TimeEndSource }),
		stringFlag(set, "time_start_sink", cm.TimeStartSink, "sink sheet start time column",
			func(c *Config) *string { return &c.Columns.TimeStartSink }),
		stringFlag(set, "time_end_sink", cm.TimeEndSink, "sink sheet end time column",
			func(c *Config) *string { return &c.Columns.TimeEndSink }),

		stringFlag(set, "src_T_in", cm.SrcTIn, "source inlet temperature column",
			func(c *Config) *string { return &c.Columns.SrcTIn }),
		stringFlag(set, "src_T_out", cm.SrcTOut, "source outlet temperature column",
			func(c *Config) *string { return &c.Columns.SrcTOut }),
		stringFlag(set, "sink_T_in", cm.SinkTIn, "sink inlet temperature column",
			func(c *Config) *string { return &c.Columns.SinkTIn }),
		stringFlag(set, "sink_T_out", cm.SinkTOut, "sink outlet temperature column",
			func(c *Config) *string { return &c.Columns.SinkTOut }),
		stringFlag(set, "sink_Energy_kWh", cm.SinkEnergyKWh, "sink energy per interval column",
			func(c *Config) *string { return &c.Columns.SinkEnergyKWh }),
		stringFlag(set, "sink_Q_cond_kW", cm.SinkQCondKW, "sink power column, used instead of energy",
			func(c *Config) *string { return &c.Columns.SinkQCondKW }),

		floatFlag(set, "evap_approach_K", md.EvapApproachK, "T_evap = src_T_in - approach",
			func(c *Config) *float64 { return &c.Model.EvapApproachK }),
		floatFlag(set, "sink_setpoint_C", md.SinkSetpointC, "condensing temperature when sink approach is 0",
			func(c *Config) *float64 { return &c.Model.SinkSetpointC }),
		floatFlag(set, "sink_approach_K", md.SinkApproachK, "T_cond = sink_T_out + approach",
			func(c *Config) *float64 { return &c.Model.SinkApproachK }),
		floatFlag(set, "evap_min_C", md.EvapMinC, "lowest evaporating temperature",
			func(c *Config) *float64 { return &c.Model.EvapMinC }),
		floatFlag(set, "evap_max_C", md.EvapMaxC, "highest evaporating temperature",
			func(c *Config) *float64 { return &c.Model.EvapMaxC }),
		floatFlag(set, "cond_min_C", md.CondMinC, "lowest condensing temperature",
			func(c *Config) *float64 { return &c.Model.CondMinC }),
		floatFlag(set, "cond_max_C", md.CondMaxC, "highest condensing temperature",
			func(c *Config) *float64 { return &c.Model.CondMaxC }),
		floatFlag(set, "design_eta_s", md.DesignEtaS, "compressor isentropic efficiency at design",
			func(c *Config) *float64 { return &c.Model.DesignEtaS }),

		stringFlag(set, "design", def.Design.Policy, "design record policy: first, index, median, first_median_duty",
			func(c *Config) *string { return &c.Design.Policy }),
		intFlag(set, "design_index", def.Design.Index, "record index for --design=index",
			func(c *Config) *int { return &c.Design.Index }),
		stringFlag(set, "align", def.Ingest.Align, "sheet alignment: timestamp, positional",
			func(c *Config) *string { return &c.Ingest.Align }),
		stringFlag(set, "interval", def.Ingest.Interval, "energy interval: nominal, window, median",
			func(c *Config) *string { return &c.Ingest.Interval }),

		stringFlag(set, "db", def.Output.DBFile, "sqlite run archive pathname",
			func(c *Config) *string { return &c.Output.DBFile }),
		stringFlag(set, "mqtt_url", def.Output.MQTT.URL, "MQTT broker to publish results to",
			func(c *Config) *string { return &c.Output.MQTT.URL }),
		stringFlag(set, "mqtt_topic", def.Output.MQTT.Topic, "MQTT topic prefix",
			func(c *Config) *string { return &c.Output.MQTT.Topic }),
		stringFlag(set, "metrics_file", def.Output.MetricsFile, "prometheus textfile to write run metrics to",
			func(c *Config) *string { return &c.Output.MetricsFile }),
	}
}
