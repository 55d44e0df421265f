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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, CfgFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewConfig_WritesDefaults(t *testing.T) {
	t.Setenv(CfgEnv, "")
	dir := filepath.Join(t.TempDir(), "melodia")

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, CfgFile), cfg.Path())
	assert.FileExists(t, cfg.Path())

	data, err := os.ReadFile(cfg.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "config_schema = 1")
	assert.Contains(t, string(data), "app_id = 1637730")
	assert.Contains(t, string(data), "persist_seconds = 60")

	assert.Equal(t, BaseDefaults.Steam.AppID, cfg.Steam().AppID)
	assert.Equal(t, BaseDefaults.Wine, cfg.Wine())
	assert.False(t, cfg.DebugLogging())
}

func TestNewConfig_EnvOverride(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "custom.toml")
	t.Setenv(CfgEnv, custom)

	cfg, err := NewConfig(t.TempDir(), BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, custom, cfg.Path())
	assert.FileExists(t, custom)
}

func TestLoad_FileValuesOverDefaults(t *testing.T) {
	t.Setenv(CfgEnv, "")
	dir := t.TempDir()
	writeConfig(t, dir, `
config_schema = 1
debug_logging = true

[steam]
root = "/mnt/games/steam"
extra_paths = ["/opt/steam", "/srv/steam"]
check_flatpak = true

[wine]
binary = "wine64"
`)

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	steam := cfg.Steam()
	assert.Equal(t, "/mnt/games/steam", steam.Root)
	assert.Equal(t, []string{"/opt/steam", "/srv/steam"}, steam.ExtraPaths)
	assert.True(t, steam.CheckFlatpak)
	assert.Equal(t, uint64(1637730), steam.AppID, "missing keys keep defaults")

	w := cfg.Wine()
	assert.Equal(t, "wine64", w.Binary)
	assert.Equal(t, "winepath", w.PathTool)
	assert.Equal(t, 60, w.PersistSeconds)
	assert.True(t, cfg.DebugLogging())
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(CfgEnv, "")

	tests := []struct {
		wantErr error
		name    string
		content string
	}{
		{
			name:    "schema_mismatch",
			content: "config_schema = 2\n",
			wantErr: ErrSchemaMismatch,
		},
		{
			name:    "zero_app_id",
			content: "config_schema = 1\n[steam]\napp_id = 0\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "empty_wine_binary",
			content: "config_schema = 1\n[wine]\nbinary = \"\"\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "negative_persistence",
			content: "config_schema = 1\n[wine]\npersist_seconds = -1\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "empty_extra_path",
			content: "config_schema = 1\n[steam]\nextra_paths = [\"\"]\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "invalid_dsn",
			content: "config_schema = 1\nsentry_dsn = \"not a url\"\n",
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := NewConfig(dir, BaseDefaults)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("malformed_toml", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "config_schema = [\n")

		_, err := NewConfig(dir, BaseDefaults)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal config")
	})
}

func TestLoad_InvalidFileKeepsPreviousValues(t *testing.T) {
	t.Setenv(CfgEnv, "")
	dir := t.TempDir()

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	writeConfig(t, dir, "config_schema = 1\n[wine]\nbinary = \"\"\n")
	require.ErrorIs(t, cfg.Load(), ErrInvalidConfig)
	assert.Equal(t, "wine", cfg.Wine().Binary)
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv(CfgEnv, "")
	dir := t.TempDir()

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	cfg.SetDebugLogging(true)
	require.NoError(t, cfg.Save())

	reloaded, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)
	assert.True(t, reloaded.DebugLogging())
	assert.Equal(t, BaseDefaults.Wine, reloaded.Wine())
}

func TestErrorReportingDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dsn     string
		enabled bool
		wantOK  bool
	}{
		{name: "disabled", dsn: "https://key@example.com/1"},
		{name: "enabled_without_dsn", enabled: true},
		{name: "enabled_with_dsn", dsn: "https://key@example.com/1", enabled: true, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			vals := BaseDefaults
			vals.SentryDSN = tt.dsn
			vals.ErrorReporting = tt.enabled
			cfg := &Instance{vals: vals}

			dsn, ok := cfg.ErrorReportingDSN()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.dsn, dsn)
			} else {
				assert.Empty(t, dsn)
			}
		})
	}
}

func TestSteamReturnsCopy(t *testing.T) {
	t.Parallel()

	vals := BaseDefaults
	vals.Steam.ExtraPaths = []string{"/opt/steam"}
	cfg := &Instance{vals: vals}

	s := cfg.Steam()
	s.ExtraPaths[0] = "/changed"
	assert.Equal(t, "/opt/steam", cfg.Steam().ExtraPaths[0])
}

//nolint:paralleltest // modifies global log level
func TestSetDebugLogging(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	cfg := &Instance{vals: BaseDefaults}

	cfg.SetDebugLogging(true)
	assert.True(t, cfg.DebugLogging())
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	cfg.SetDebugLogging(false)
	assert.False(t, cfg.DebugLogging())
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
