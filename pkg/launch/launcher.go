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

// Package launch assembles a throwaway runtime directory around an
// installed copy of the game and starts the Melodia loader chain in it.
//
// The installation itself is never modified: the scratch directory holds
// links to the game's runtime files and Melodia's loaders, and is removed
// again once the loader exits.
package launch

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/melodia-mod/melodia/pkg/helpers/command"
	"github.com/melodia-mod/melodia/pkg/linker"
	"github.com/melodia-mod/melodia/pkg/wine"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var (
	ErrInvalidConfig            = errors.New("invalid launch config")
	ErrInstallationNotFound     = errors.New("installation not found")
	ErrUnrecognizedInstallation = errors.New("installation was not recognized")
	ErrUnsupportedCombination   = errors.New("unsupported platform combination")
	ErrProcessSpawn             = errors.New("failed to run loader")
)

// Config holds everything a launch needs from the outside world. Values
// normally read from the process (executable path, OS, arguments) are
// resolved once by the caller.
type Config struct {
	// BaseDir is Melodia's install directory, containing lib/bootstrap and
	// lib/patcher.
	BaseDir string
	// HostOS is the GOOS the launcher runs on.
	HostOS string
	// TempDir is where the scratch directory is created. Empty uses the
	// system default.
	TempDir string
	// Args are forwarded verbatim after the loader arguments.
	Args []string
	// Wine configures the compatibility layer for Windows builds on Linux.
	Wine  wine.Options
	AppID uint64
}

// Locator finds the installation directory of an app. A false result with
// a nil error means the app is not installed.
type Locator interface {
	FindInstallation(appID uint64) (string, bool, error)
}

// Launcher runs launches against one configuration.
type Launcher struct {
	fs      afero.Fs
	cmd     command.Executor
	locator Locator
	clock   clockwork.Clock
	cfg     Config
}

// Option customises a Launcher.
type Option func(*Launcher)

// WithFs replaces the filesystem. It must support symlinks for real
// launches.
func WithFs(fs afero.Fs) Option {
	return func(l *Launcher) { l.fs = fs }
}

// WithExecutor replaces the process executor.
func WithExecutor(cmd command.Executor) Option {
	return func(l *Launcher) { l.cmd = cmd }
}

// WithClock replaces the clock used for timing the loader.
func WithClock(clock clockwork.Clock) Option {
	return func(l *Launcher) { l.clock = clock }
}

// NewLauncher validates cfg and creates a Launcher.
//
//nolint:gocritic // config struct copied for immutability
func NewLauncher(cfg Config, locator Locator, opts ...Option) (*Launcher, error) {
	if cfg.BaseDir == "" || !filepath.IsAbs(cfg.BaseDir) {
		return nil, fmt.Errorf("%w: base directory %q must be absolute", ErrInvalidConfig, cfg.BaseDir)
	}
	if cfg.HostOS == "" {
		return nil, fmt.Errorf("%w: host OS not set", ErrInvalidConfig)
	}
	if cfg.AppID == 0 {
		cfg.AppID = DefaultAppID
	}
	if cfg.Wine == (wine.Options{}) {
		cfg.Wine = wine.DefaultOptions()
	}

	l := &Launcher{
		cfg:     cfg,
		locator: locator,
		fs:      afero.NewOsFs(),
		cmd:     &command.RealExecutor{},
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Launch finds the installation and runs the loader chain against it.
func (l *Launcher) Launch(ctx context.Context) error {
	dir, ok, err := l.locator.FindInstallation(l.cfg.AppID)
	if err != nil {
		return fmt.Errorf("failed to locate installation: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: app %d is not installed in any steam library", ErrInstallationNotFound, l.cfg.AppID)
	}
	return l.LaunchDir(ctx, dir)
}

// LaunchDir runs the loader chain against the installation in gameDir and
// blocks until the loader exits. The loader's exit status is logged but not
// returned. The scratch directory is removed on every return path.
func (l *Launcher) LaunchDir(ctx context.Context, gameDir string) (err error) {
	logger := log.With().Str("launch", uuid.NewString()).Logger()
	ctx = logger.WithContext(ctx)
	logger.Info().
		Str("game", gameDir).
		Str("base", l.cfg.BaseDir).
		Msg("preparing launch")

	variant, err := Classify(l.fs, gameDir)
	if err != nil {
		return err
	}
	strat, err := selectStrategy(l.cfg.HostOS, variant)
	if err != nil {
		return err
	}
	logger.Info().Stringer("variant", variant).Str("strategy", strat.name()).Msg("installation recognized")

	scratch, err := afero.TempDir(l.fs, l.cfg.TempDir, "melodia-")
	if err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	logger.Debug().Str("scratch", scratch).Msg("created scratch directory")
	defer func() {
		if rmErr := l.fs.RemoveAll(scratch); rmErr != nil {
			logger.Error().Err(rmErr).Str("scratch", scratch).Msg("failed to remove scratch directory")
			if err == nil {
				err = fmt.Errorf("failed to remove scratch directory: %w", rmErr)
			}
		}
	}()

	s := session{gameDir: gameDir, baseDir: l.cfg.BaseDir, scratchDir: scratch}

	asm, err := strat.assemble(linker.New(l.fs, linker.WithLogger(logger)), s)
	if err != nil {
		return fmt.Errorf("failed to assemble %s runtime: %w", strat.name(), err)
	}

	marker := filepath.Join(scratch, AppIDFile)
	if err := afero.WriteFile(l.fs, marker, appIDMarker(l.cfg.AppID), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", AppIDFile, err)
	}

	if strat.compat() {
		if err := wine.NewServer(l.cmd, l.cfg.Wine).Start(ctx, scratch); err != nil {
			return err
		}
	}

	tr := wine.NewTranslator(l.cmd, l.fs, l.cfg.Wine, scratch, strat.compat())
	args, err := buildArgs(ctx, tr, s, asm, l.cfg.Args)
	if err != nil {
		return err
	}

	return l.run(ctx, logger, strat, s, asm, args)
}

func (l *Launcher) run(
	ctx context.Context,
	logger zerolog.Logger,
	strat strategy,
	s session,
	asm assembly,
	args []string,
) error {
	name := asm.binary
	opts := command.Options{Dir: s.scratchDir, Attach: true}
	if strat.compat() {
		name = l.cfg.Wine.Binary
		opts.Env = l.cfg.Wine.Env()
	}

	logger.Info().Str("cmd", name).Strs("args", args).Msg("launching bootstrap")
	start := l.clock.Now()

	err := l.cmd.Run(ctx, opts, name, args...)
	elapsed := l.clock.Since(start)

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		logger.Warn().Int("code", exitErr.ExitCode()).Dur("elapsed", elapsed).Msg("loader exited with error")
		return nil
	case err != nil:
		return fmt.Errorf("%w: %s: %w", ErrProcessSpawn, name, err)
	}

	logger.Info().Dur("elapsed", elapsed).Msg("loader exited")
	return nil
}
