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

// Package config types define the configuration structures used throughout
// confdump. These types represent settings that can be loaded from YAML
// configuration files, environment variables, or command-line flags.
package config

import (
	"github.com/confdump/confdump/internal/confluence"
	"github.com/confdump/confdump/internal/fetch"
	"github.com/confdump/confdump/internal/logging"
)

// Config represents the complete configuration for confdump. It consolidates
// settings from various sources and provides a unified interface for
// accessing configuration values throughout the application.
type Config struct {
	Confluence ConfluenceConfig       `yaml:"confluence"`
	Defaults   DefaultsConfig         `yaml:"defaults"`
	Retry      RetryConfig            `yaml:"retry"`
	Spaces     map[string]SpaceConfig `yaml:"spaces"`
	Logging    logging.Config         `yaml:"logging"`
}

// ConfluenceConfig contains the remote service settings: base URL, identity
// and credential. The token is never read from the YAML file; it comes from
// the environment only, so config files stay safe to commit.
type ConfluenceConfig struct {
	BaseURL  string `yaml:"base_url"`
	Username string `yaml:"username"`
	Token    string `yaml:"-"`
	SpaceKey string `yaml:"space_key"`
}

// DefaultsConfig contains default settings that apply to all downloads
// unless overridden by space-specific settings or command-line flags.
type DefaultsConfig struct {
	PageSize int    `yaml:"page_size"`
	Expand   string `yaml:"expand"`
}

// RetryConfig tunes the retry policy applied to remote calls. Backoffs are
// duration strings ("500ms", "2s"); invalid values fall back to the
// built-in policy.
type RetryConfig struct {
	MaxAttempts    int    `yaml:"max_attempts"`
	InitialBackoff string `yaml:"initial_backoff"`
	MaxBackoff     string `yaml:"max_backoff"`
}

// SpaceConfig contains space-specific overrides. Spaces with very large
// page bodies can be given a smaller page size without affecting others.
type SpaceConfig struct {
	PageSize int    `yaml:"page_size"`
	Expand   string `yaml:"expand"`
}

// DefaultConfig returns a Config with sensible defaults. The base URL and
// credentials have no usable defaults and must come from a config file or
// the environment.
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			PageSize: fetch.DefaultPageSize,
			Expand:   confluence.DefaultExpand,
		},
		Spaces: make(map[string]SpaceConfig),
		Logging: logging.Config{
			Level: "info",
		},
	}
}
