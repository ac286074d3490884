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

package logutil

import (
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
)

// Config defines the process logger configuration.
type Config struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string
	// File is the log output path. Empty means stderr.
	File string
}

// InitLogger initializes the global logger. It must be called once, before
// any other package logs.
func InitLogger(cfg *Config) error {
	logConfig := &log.Config{
		Level: cfg.Level,
		File:  log.FileLogConfig{Filename: cfg.File},
	}
	logger, props, err := log.InitLogger(logConfig)
	if err != nil {
		return errors.Trace(err)
	}
	log.ReplaceGlobals(logger, props)
	return nil
}
