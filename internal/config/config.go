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

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antst/hpsim/internal/logger"

	"github.com/pborman/getopt/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// ErrHelp is returned by Load when usage was requested.
var ErrHelp = errors.New("help requested")

// Config is the complete, read-only description of one run.
type Config struct {
	LogLevel zapcore.Level `yaml:"log_level"`
	Excel    string        `yaml:"excel"`
	Columns  ColumnMap     `yaml:"columns"`
	Ingest   IngestConfig  `yaml:"ingest"`
	Model    ModelConfig   `yaml:"model"`
	Design   DesignConfig  `yaml:"design"`
	Output   OutputConfig  `yaml:"output"`
}

func Default() Config {
	cfg := Config{
		LogLevel: zapcore.InfoLevel,
		Columns:  NewColumnMap(),
		Ingest:   NewIngestConfig(),
		Model:    NewModelConfig(),
	}
	cfg.FillDefaults()
	return cfg
}

func (cfg *Config) FillDefaults() {
	cfg.Ingest.FillDefaults()
	cfg.Model.FillDefaults()
	cfg.Design.FillDefaults()
	cfg.Output.FillDefaults()
}

func (cfg Config) Validate() error {
	if cfg.Excel == "" {
		return errors.New("no input workbook given (--excel)")
	}
	if cfg.Columns.SheetSource == "" || cfg.Columns.SheetSink == "" {
		return errors.New("sheet names must not be empty")
	}
	if err := cfg.Ingest.Validate(); err != nil {
		return err
	}
	if err := cfg.Model.Validate(); err != nil {
		return err
	}
	return cfg.Design.Validate()
}

func prettyPrint(cfg Config) {
	d, err := yaml.Marshal(cfg)
	if err != nil {
		logger.L().Error("Failed to marshal config for pretty print", err)
		return
	}
	logger.L().Debugf("--- Config ---\n%s\n\n", string(d))
}

// Load builds the run configuration from built-in defaults, an optional yaml file
// and the command line, in that order of precedence. args[0] is the program name.
func Load(args []string, usage io.Writer) (Config, error) {
	cfg := Default()

	set := getopt.New()
	set.SetProgram("hpsim")
	set.SetParameters("")
	help := set.BoolLong("help", 'h', "show this help")
	logLevel := set.StringLong("log-level", 'l', "", "log levels: debug, info, warn, error, dpanic, panic, fatal")
	configFile := set.StringLong("config", 'c', "", "yaml config file pathname")
	fl := bindFlags(set, cfg)

	if err := set.Getopt(args, nil); err != nil {
		set.PrintUsage(usage)
		return cfg, errors.WithMessage(err, "command line")
	}
	if *help {
		set.PrintUsage(usage)
		return cfg, ErrHelp
	}

	if *configFile != "" {
		if err := readFile(&cfg, *configFile); err != nil {
			return cfg, err
		}
		logger.L().Infof("Using config file `%v`", *configFile)
	}

	for _, f := range fl {
		if f.opt.Seen() {
			f.apply(&cfg)
		}
	}

	cfg.FillDefaults()
	if *logLevel != "" {
		if err := cfg.LogLevel.Set(*logLevel); err != nil {
			return cfg, errors.Wrapf(err, "wrong log level `%v`", *logLevel)
		}
	}
	logger.SetLogLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		set.PrintUsage(usage)
		return cfg, err
	}

	// the unit override map is the only reference type in Config
	if cfg.Ingest.Units != nil {
		units := make(map[string]string, len(cfg.Ingest.Units))
		for k, v := range cfg.Ingest.Units {
			units[k] = strings.TrimSpace(v)
		}
		cfg.Ingest.Units = units
	}

	prettyPrint(cfg)
	return cfg, nil
}

func readFile(cfg *Config, configFileName string) error {
	f, err := os.Open(configFileName)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	return nil
}
