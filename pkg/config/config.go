// Copyright 2026 The anonbot Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config defines the server configuration.
package config

import (
	"github.com/BurntSushi/toml"

	cerror "github.com/anonbot/relay/pkg/errors"
)

// Config is the relay server configuration. Zero values are filled from
// defaultConfig by ValidateAndAdjust.
type Config struct {
	// Addr is the status/metrics listen address.
	Addr string `toml:"addr" json:"addr"`
	// EventLogFile is the append-only event log path.
	EventLogFile string `toml:"event-log-file" json:"event-log-file"`
	// LogFile is the process log path, empty for stderr.
	LogFile string `toml:"log-file" json:"log-file"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log-level" json:"log-level"`
	// OperatorLogin is the only login allowed to /broadcast.
	OperatorLogin string `toml:"operator-login" json:"operator-login"`
}

var defaultConfig = Config{
	Addr:          "127.0.0.1:8600",
	EventLogFile:  "anonbot.events",
	LogFile:       "",
	LogLevel:      "info",
	OperatorLogin: "admin",
}

// GetDefaultConfig returns a copy of the default configuration.
func GetDefaultConfig() *Config {
	cfg := defaultConfig
	return &cfg
}

// Load reads a toml file over the defaults.
func Load(path string) (*Config, error) {
	cfg := GetDefaultConfig()
	if meta, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, cerror.WrapError(cerror.ErrInvalidConfig, err, path)
	} else if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, cerror.ErrInvalidConfig.GenWithStackByArgs(
			"unknown config key " + undecoded[0].String())
	}
	if err := cfg.ValidateAndAdjust(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateAndAdjust fills empty fields from defaults and rejects values the
// server cannot run with.
func (c *Config) ValidateAndAdjust() error {
	if c.Addr == "" {
		c.Addr = defaultConfig.Addr
	}
	if c.EventLogFile == "" {
		c.EventLogFile = defaultConfig.EventLogFile
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultConfig.LogLevel
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return cerror.ErrInvalidConfig.GenWithStackByArgs(
			"log level must be one of debug, info, warn, error")
	}
	if c.OperatorLogin == "" {
		return cerror.ErrInvalidConfig.GenWithStackByArgs(
			"operator-login must not be empty")
	}
	return nil
}
