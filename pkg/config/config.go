// Melodia
// Copyright (c) 2026 The Melodia Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Melodia.
//
// Melodia is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Melodia is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Melodia.  If not, see <http://www.gnu.org/licenses/>.

// Package config loads and saves the user's config.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/melodia-mod/melodia/pkg/helpers/syncutil"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 1
	CfgEnv        = "MELODIA_CFG"
	CfgFile       = "config.toml"
	AppName       = "melodia"
	LogFile       = "melodia.log"
)

var (
	ErrSchemaMismatch = errors.New("schema version mismatch")
	ErrInvalidConfig  = errors.New("invalid config")
)

type Values struct {
	SentryDSN      string `toml:"sentry_dsn,omitempty" validate:"omitempty,url"`
	Wine           Wine   `toml:"wine"`
	Steam          Steam  `toml:"steam"`
	ConfigSchema   int    `toml:"config_schema"`
	DebugLogging   bool   `toml:"debug_logging"`
	ErrorReporting bool   `toml:"error_reporting"`
}

type Steam struct {
	// Root skips platform discovery of the Steam root when set.
	Root string `toml:"root,omitempty"`
	// ExtraPaths are Steam root candidates tried after ~/.steam/steam.
	ExtraPaths []string `toml:"extra_paths,omitempty,multiline" validate:"dive,required"`
	AppID      uint64   `toml:"app_id" validate:"required"`

	CheckFlatpak bool `toml:"check_flatpak"`
}

type Wine struct {
	Binary   string `toml:"binary" validate:"required"`
	PathTool string `toml:"winepath" validate:"required"`
	Server   string `toml:"wineserver" validate:"required"`
	// Debug is passed to Wine processes as WINEDEBUG. Empty inherits the
	// caller's environment.
	Debug          string `toml:"debug"`
	PersistSeconds int    `toml:"persist_seconds" validate:"gte=0"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Steam: Steam{
		AppID: 1637730,
	},
	Wine: Wine{
		Binary:         "wine",
		PathTool:       "winepath",
		Server:         "wineserver",
		PersistSeconds: 60,
		Debug:          "-all",
	},
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type Instance struct {
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig loads the config from configDir, or from the path in the
// MELODIA_CFG environment variable. A missing file is created from
// defaults first.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Str("path", cfgPath).Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Path() string {
	return c.cfgPath
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// fields missing from the file keep their default values
	newVals := c.defaults
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return fmt.Errorf("%w: got %d, expecting %d", ErrSchemaMismatch, newVals.ConfigSchema, SchemaVersion)
	}

	if err := validateValues(&newVals); err != nil {
		return err
	}

	c.vals = newVals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func validateValues(v *Values) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("%w: %s failed %q check", ErrInvalidConfig, fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
}

func (c *Instance) Steam() Steam {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.vals.Steam
	s.ExtraPaths = append([]string(nil), s.ExtraPaths...)
	return s
}

func (c *Instance) Wine() Wine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Wine
}

// ErrorReportingDSN returns the Sentry DSN when error reporting is enabled
// and a DSN is configured.
func (c *Instance) ErrorReportingDSN() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.vals.ErrorReporting || c.vals.SentryDSN == "" {
		return "", false
	}
	return c.vals.SentryDSN, true
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
	if enabled {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
