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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/melodia-mod/melodia/internal/telemetry"
	"github.com/melodia-mod/melodia/pkg/config"
	"github.com/melodia-mod/melodia/pkg/helpers"
	"github.com/melodia-mod/melodia/pkg/launch"
	"github.com/melodia-mod/melodia/pkg/steam"
	"github.com/melodia-mod/melodia/pkg/wine"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// set at build time with -ldflags "-X main.appVersion=..."
var appVersion = "dev"

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	err := helpers.InitLogging(filepath.Join(xdg.StateHome, config.AppName), helpers.ConsoleWriter())
	if err != nil {
		return err
	}

	cfg, err := config.NewConfig(filepath.Join(xdg.ConfigHome, config.AppName), config.BaseDefaults)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.SetDebugLogging(cfg.DebugLogging())

	if dsn, ok := cfg.ErrorReportingDSN(); ok {
		if err := telemetry.Init(dsn, appVersion); err != nil {
			log.Warn().Err(err).Msg("failed to enable error reporting")
		}
	}
	defer telemetry.Close()

	log.Info().
		Str("version", appVersion).
		Str("os", runtime.GOOS).
		Str("config", cfg.Path()).
		Msg("melodia starting")

	baseDir, err := helpers.BaseDir()
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	steamCfg := cfg.Steam()

	steamOpts := steam.DefaultOptions()
	steamOpts.Root = steamCfg.Root
	steamOpts.ExtraPaths = steamCfg.ExtraPaths
	steamOpts.CheckFlatpak = steamCfg.CheckFlatpak

	wineCfg := cfg.Wine()
	launcher, err := launch.NewLauncher(launch.Config{
		AppID:   steamCfg.AppID,
		BaseDir: baseDir,
		HostOS:  runtime.GOOS,
		Args:    os.Args[1:],
		Wine: wine.Options{
			Binary:         wineCfg.Binary,
			PathTool:       wineCfg.PathTool,
			Server:         wineCfg.Server,
			PersistSeconds: wineCfg.PersistSeconds,
			Debug:          wineCfg.Debug,
		},
	}, steam.NewResolver(fs, steamOpts), launch.WithFs(fs))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := launcher.Launch(ctx); err != nil {
		log.Error().Err(err).Msg("launch failed")
		return err
	}
	return nil
}
