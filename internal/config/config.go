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

// Package config provides configuration management for confdump with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Space-specific configuration
//  4. Configuration file
//  5. Built-in defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/confdump/confdump/internal/retry"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .confdump.yaml (current directory)
//   - .confdump.yml (current directory)
//   - ~/.confdump/config.yaml
//   - ~/.confdump/config.yml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".confdump.yaml",
			".confdump.yml",
			filepath.Join(os.Getenv("HOME"), ".confdump", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".confdump", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	cfg.Logging.File = expandPath(cfg.Logging.File)

	return cfg, nil
}

// LoadConfigForSpace loads configuration and applies space-specific
// overrides. This allows different settings for different spaces, useful
// when some spaces require special handling (e.g., lower page sizes for
// spaces with very large page bodies).
func LoadConfigForSpace(configPath, spaceKey string) (*Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if spaceConfig, ok := cfg.Spaces[spaceKey]; ok {
		if spaceConfig.PageSize > 0 {
			cfg.Defaults.PageSize = spaceConfig.PageSize
		}
		if spaceConfig.Expand != "" {
			cfg.Defaults.Expand = spaceConfig.Expand
		}
	}

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if baseURL := os.Getenv("CONFLUENCE_URL"); baseURL != "" {
		cfg.Confluence.BaseURL = baseURL
	}
	if username := os.Getenv("CONFLUENCE_USERNAME"); username != "" {
		cfg.Confluence.Username = username
	}
	if token := os.Getenv("CONFLUENCE_TOKEN"); token != "" {
		cfg.Confluence.Token = token
	}
	if spaceKey := os.Getenv("CONFLUENCE_SPACE_KEY"); spaceKey != "" {
		cfg.Confluence.SpaceKey = spaceKey
	}

	if pageSize := os.Getenv("CONFDUMP_PAGE_SIZE"); pageSize != "" {
		if size, err := parsePositiveInt(pageSize); err == nil {
			cfg.Defaults.PageSize = size
		}
	}
	if level := os.Getenv("CONFDUMP_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if file := os.Getenv("CONFDUMP_LOG_FILE"); file != "" {
		cfg.Logging.File = file
	}
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// RetryPolicy returns the retry policy with any configured overrides
// applied on top of the defaults.
func (c *Config) RetryPolicy() retry.Policy {
	p := retry.DefaultPolicy()

	if c.Retry.MaxAttempts > 0 {
		p.MaxAttempts = c.Retry.MaxAttempts
	}
	if d, err := time.ParseDuration(c.Retry.InitialBackoff); err == nil && d > 0 {
		p.InitialBackoff = d
	}
	if d, err := time.ParseDuration(c.Retry.MaxBackoff); err == nil && d > 0 {
		p.MaxBackoff = d
	}

	return p
}

// GetPageSize returns the effective page size for a space, taking into
// account space-specific overrides.
func (c *Config) GetPageSize(spaceKey string) int {
	if spaceConfig, ok := c.Spaces[spaceKey]; ok && spaceConfig.PageSize > 0 {
		return spaceConfig.PageSize
	}
	return c.Defaults.PageSize
}

// GetExpand returns the effective expansion list for a space.
func (c *Config) GetExpand(spaceKey string) string {
	if spaceConfig, ok := c.Spaces[spaceKey]; ok && spaceConfig.Expand != "" {
		return spaceConfig.Expand
	}
	return c.Defaults.Expand
}

// Validate checks if the configuration contains valid values. This should
// be called after loading configuration to catch invalid settings early.
func (c *Config) Validate() error {
	if c.Confluence.BaseURL == "" {
		return fmt.Errorf("confluence base URL cannot be empty (set CONFLUENCE_URL or confluence.base_url)")
	}
	if c.Confluence.Username == "" {
		return fmt.Errorf("confluence username cannot be empty (set CONFLUENCE_USERNAME or confluence.username)")
	}
	if c.Confluence.Token == "" {
		return fmt.Errorf("confluence token cannot be empty (set CONFLUENCE_TOKEN)")
	}
	if c.Defaults.PageSize <= 0 {
		return fmt.Errorf("default page size must be positive, got: %d", c.Defaults.PageSize)
	}
	if c.Defaults.PageSize > 100 {
		return fmt.Errorf("default page size %d exceeds the Confluence API limit of 100", c.Defaults.PageSize)
	}
	return nil
}
