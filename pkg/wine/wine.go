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

// Package wine wraps the Wine tools needed to run a Windows build on Linux:
// winepath for translating paths and wineserver for keeping a prefix alive.
package wine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/melodia-mod/melodia/pkg/helpers/command"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var (
	ErrTranslation = errors.New("path translation failed")
	ErrServerStart = errors.New("failed to start wineserver")
)

// Options names the Wine binaries and how they are invoked.
type Options struct {
	// Binary runs Windows executables.
	Binary string
	// PathTool converts Unix paths to Windows paths (`winepath -w`).
	PathTool string
	// Server is the wineserver binary.
	Server string
	// PersistSeconds keeps wineserver alive this long after the last client.
	PersistSeconds int
	// Debug is the WINEDEBUG value for every Wine process. Empty leaves the
	// environment alone.
	Debug string
}

// DefaultOptions returns the stock Wine tool names with debug output off.
func DefaultOptions() Options {
	return Options{
		Binary:         "wine",
		PathTool:       "winepath",
		Server:         "wineserver",
		PersistSeconds: 60,
		Debug:          "-all",
	}
}

// Env returns the extra environment for Wine processes.
func (o Options) Env() []string {
	if o.Debug == "" {
		return nil
	}
	return []string{"WINEDEBUG=" + o.Debug}
}

// Translator converts native paths into the form a process under Wine
// expects. When inactive it returns paths unchanged.
type Translator struct {
	cmd     command.Executor
	fs      afero.Fs
	workDir string
	opts    Options
	active  bool
}

// NewTranslator creates a Translator running winepath from workDir.
func NewTranslator(cmd command.Executor, fs afero.Fs, opts Options, workDir string, active bool) *Translator {
	return &Translator{
		cmd:     cmd,
		fs:      fs,
		opts:    opts,
		workDir: workDir,
		active:  active,
	}
}

// Active reports whether paths are translated.
func (t *Translator) Active() bool {
	return t.active
}

// ToCompatPath translates path with winepath. Directories get a trailing
// backslash because winepath does not keep one reliably.
func (t *Translator) ToCompatPath(ctx context.Context, path string) (string, error) {
	if !t.active {
		return path, nil
	}

	out, err := t.cmd.Output(
		ctx,
		command.Options{Dir: t.workDir, Env: t.opts.Env()},
		t.opts.PathTool, "-w", path,
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s %s: %w", ErrTranslation, t.opts.PathTool, path, err)
	}

	translated := strings.TrimRight(string(out), " \t\r\n")
	if translated == "" {
		return "", fmt.Errorf("%w: %s returned nothing for %s", ErrTranslation, t.opts.PathTool, path)
	}

	if info, err := t.fs.Stat(path); err == nil && info.IsDir() && !strings.HasSuffix(translated, `\`) {
		translated += `\`
	}

	logger(ctx).Debug().Str("path", path).Str("translated", translated).Msg("translated path")
	return translated, nil
}

// Server starts wineserver in persistent mode so the prefix is already up
// when the first Wine client connects.
type Server struct {
	cmd  command.Executor
	opts Options
}

// NewServer creates a Server.
func NewServer(cmd command.Executor, opts Options) *Server {
	return &Server{cmd: cmd, opts: opts}
}

// Start launches wineserver detached from workDir. Its output is discarded
// and its lifetime is not tracked.
func (s *Server) Start(ctx context.Context, workDir string) error {
	persist := fmt.Sprintf("-p=%d", s.opts.PersistSeconds)
	logger(ctx).Debug().Str("cmd", s.opts.Server).Str("arg", persist).Msg("starting wineserver")

	err := s.cmd.Start(ctx, command.Options{Dir: workDir, Env: s.opts.Env()}, s.opts.Server, persist)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrServerStart, err)
	}
	return nil
}

// logger returns the logger attached to ctx, or the global logger.
func logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}
