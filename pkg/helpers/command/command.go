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

// Package command provides an abstraction over exec.Command for testability.
package command

import (
	"context"
	"os"
	"os/exec"
)

// Options configures how a command is started.
type Options struct {
	// Dir is the working directory. Empty means the caller's directory.
	Dir string

	// Env holds extra KEY=VALUE pairs appended to the current environment.
	Env []string

	// Attach connects the command's stdin, stdout and stderr to ours.
	// Ignored by Output, which always captures stdout.
	Attach bool

	// HideWindow prevents a console window from appearing (Windows-only).
	HideWindow bool
}

// Executor provides an abstraction over exec.Command for testability.
// This allows commands to be mocked in tests without executing real system commands.
type Executor interface {
	// Run executes a command and waits for it to complete.
	// Returns an error if the command fails to start or exits with non-zero status.
	Run(ctx context.Context, opts Options, name string, args ...string) error

	// Output runs a command and returns its standard output.
	Output(ctx context.Context, opts Options, name string, args ...string) ([]byte, error)

	// Start starts a command detached from ctx and does not wait for it.
	// Its output is discarded unless opts.Attach is set.
	Start(ctx context.Context, opts Options, name string, args ...string) error
}

// RealExecutor uses actual exec.Command to execute system commands.
type RealExecutor struct{}

var _ Executor = (*RealExecutor)(nil)

func configure(cmd *exec.Cmd, opts Options) *exec.Cmd {
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	if opts.Attach {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	applyPlatformOptions(cmd, opts)
	return cmd
}

// Run executes a system command using exec.CommandContext.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (*RealExecutor) Run(ctx context.Context, opts Options, name string, args ...string) error {
	return configure(exec.CommandContext(ctx, name, args...), opts).Run()
}

// Output runs a command and returns its standard output.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (*RealExecutor) Output(ctx context.Context, opts Options, name string, args ...string) ([]byte, error) {
	opts.Attach = false
	return configure(exec.CommandContext(ctx, name, args...), opts).Output()
}

// Start starts a command without waiting for it to complete. The process is
// released immediately and outlives ctx.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (*RealExecutor) Start(ctx context.Context, opts Options, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	//nolint:noctx // detached on purpose, see doc comment
	cmd := configure(exec.Command(name, args...), opts)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
