// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads the quotesync configuration from a YAML file,
// with environment variable overrides and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full quotesync configuration.
type Config struct {
	Watch struct {
		// ExportDir is the directory the exporter drops files into.
		ExportDir string `yaml:"export_dir"`

		// Pattern matches export filenames, filepath.Match syntax.
		// Default "QUOTE_*.json".
		Pattern string `yaml:"pattern"`

		// SettleDelay is how long to wait after a file appears before
		// reading it, so a slow exporter can finish writing.
		SettleDelay time.Duration `yaml:"settle_delay"`

		// ArchiveDir receives processed files, grouped by month.
		// Empty disables archiving.
		ArchiveDir string `yaml:"archive_dir"`
	} `yaml:"watch"`

	Sheets struct {
		CredentialsFile string `yaml:"credentials_file"`
		TokenFile       string `yaml:"token_file"`
		FolderID        string `yaml:"folder_id"`
		SheetPrefix     string `yaml:"sheet_prefix"`
	} `yaml:"sheets"`

	Repair struct {
		// Command is an external executable run against a file before
		// parsing. Empty disables the repair pass.
		Command string        `yaml:"command"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"repair"`

	Ledger struct {
		// Path is the sync ledger database directory. Empty disables
		// the ledger.
		Path string `yaml:"path"`
	} `yaml:"ledger"`

	Notify struct {
		// WebhookURL receives a JSON POST after each successful sync.
		// Empty disables notification.
		WebhookURL string        `yaml:"webhook_url"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"notify"`
}

// Load reads the configuration from path. An empty path falls back to
// the default locations, and to pure defaults when none exists.
func Load(path string) (*Config, error) {
	if path == "" {
		locations := []string{
			"quotesync.yaml",
			"quotesync.yml",
			filepath.Join(os.Getenv("HOME"), ".config/quotesync/config.yaml"),
			"/etc/quotesync/config.yaml",
		}
		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	config := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.Watch.Pattern == "" {
		config.Watch.Pattern = "QUOTE_*.json"
	}
	if config.Watch.SettleDelay == 0 {
		config.Watch.SettleDelay = 2 * time.Second
	}
	if config.Sheets.SheetPrefix == "" {
		config.Sheets.SheetPrefix = "Quote"
	}
	if config.Repair.Timeout == 0 {
		config.Repair.Timeout = 30 * time.Second
	}
	if config.Notify.Timeout == 0 {
		config.Notify.Timeout = 10 * time.Second
	}
}

func mergeWithEnv(config *Config) {
	if dir := os.Getenv("QUOTESYNC_EXPORT_DIR"); dir != "" {
		config.Watch.ExportDir = dir
	}
	if dir := os.Getenv("QUOTESYNC_ARCHIVE_DIR"); dir != "" {
		config.Watch.ArchiveDir = dir
	}
	if folder := os.Getenv("QUOTESYNC_FOLDER_ID"); folder != "" {
		config.Sheets.FolderID = folder
	}
	if url := os.Getenv("QUOTESYNC_WEBHOOK_URL"); url != "" {
		config.Notify.WebhookURL = url
	}
	if path := os.Getenv("QUOTESYNC_LEDGER_PATH"); path != "" {
		config.Ledger.Path = path
	}
}

// Validate checks the fields that watch and publish modes cannot run
// without. Dry-run mode skips the Sheets checks.
func (c *Config) Validate(dryRun bool) error {
	if c.Watch.ExportDir == "" {
		return errors.New("config: watch.export_dir is required")
	}
	if dryRun {
		return nil
	}
	if c.Sheets.CredentialsFile == "" {
		return errors.New("config: sheets.credentials_file is required")
	}
	if c.Sheets.TokenFile == "" {
		return errors.New("config: sheets.token_file is required")
	}
	if c.Sheets.FolderID == "" {
		return errors.New("config: sheets.folder_id is required")
	}
	return nil
}
