// Copyright 2025 Confdump Contributors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/confdump/confdump/pkg/version"
)

// Config describes the logger legs. The zero value is usable: defaults are
// filled in by New before validation.
type Config struct {
	// Level is the minimum level emitted by the logger.
	Level string `yaml:"level,omitempty" validate:"oneof=debug info warn error"`

	// TimeFormat is the timestamp layout used on all legs.
	TimeFormat string `yaml:"time_format,omitempty"`

	// ServiceName is attached to every record as the service field.
	ServiceName string `yaml:"service_name,omitempty"`

	// File is the path of the local log file. Empty disables the file leg.
	File string `yaml:"file,omitempty"`

	// Cloud configures shipping to a log-aggregation endpoint. An empty
	// endpoint disables the cloud leg.
	Cloud CloudConfig `yaml:"cloud,omitempty"`

	// ConsoleOut overrides the console destination. Defaults to stderr so
	// log records never interleave with NDJSON output on stdout.
	ConsoleOut io.Writer `yaml:"-" validate:"-"`
}

func (c *Config) setDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.TimeFormat == "" {
		c.TimeFormat = time.RFC3339
	}
	if c.ServiceName == "" {
		c.ServiceName = "confdump"
	}
	if c.ConsoleOut == nil {
		c.ConsoleOut = os.Stderr
	}
	c.Cloud.setDefaults()
}

// Logger is a zerolog.Logger together with the resources behind its legs.
// Close flushes the cloud queue and closes the log file.
type Logger struct {
	zerolog.Logger

	closers []io.Closer
}

// New builds the multiplexed logger from the config. The cloud leg is
// best-effort: if it cannot be constructed the returned logger carries an
// error record about it and ships to console+file only.
func New(cfg Config) (*Logger, error) {
	cfg.setDefaults()

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("logging config validation error: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	l := &Logger{}
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        cfg.ConsoleOut,
		TimeFormat: cfg.TimeFormat,
	}}

	if cfg.File != "" {
		file, err := openLogFile(cfg.File)
		if err != nil {
			return nil, err
		}
		writers = append(writers, file)
		l.closers = append(l.closers, file)
	}

	var cloudErr error
	if cfg.Cloud.Endpoint != "" {
		cloud, err := NewCloudWriter(cfg.Cloud)
		if err != nil {
			cloudErr = err
		} else {
			writers = append(writers, cloud)
			l.closers = append(l.closers, cloud)
		}
	}

	l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("version", version.Version).
		Logger()

	if cloudErr != nil {
		l.Error().
			Err(cloudErr).
			Str("endpoint", cfg.Cloud.Endpoint).
			Msg("failed to configure cloud logging, defaulting to local log")
	}

	return l, nil
}

// Close releases the file and cloud legs, flushing queued cloud records.
func (l *Logger) Close() error {
	var firstErr error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}
