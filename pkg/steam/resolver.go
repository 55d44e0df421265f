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

package steam

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
)

const (
	// LibraryFoldersFile lists every Steam library known to the client.
	LibraryFoldersFile = "libraryfolders.vdf"
	// AppsDir is the per-library directory holding app manifests.
	AppsDir = "steamapps"
	// CommonDir is the directory under AppsDir that holds installations.
	CommonDir = "common"

	// FlatpakSteamID is the Flatpak app ID for Steam.
	FlatpakSteamID = "com.valvesoftware.Steam"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrUnsupportedPlatform  = errors.New("unsupported platform")
	ErrNoLibraries          = errors.New("no steam libraries found")
	ErrManifestFieldMissing = errors.New("manifest field missing")
	ErrInvalidInstallation  = errors.New("invalid installation")
)

// Options configures how the Steam root directory is discovered.
type Options struct {
	// HomeDir returns the current user's home directory.
	// Defaults to os.UserHomeDir.
	HomeDir func() (string, error)

	// HostOS is the GOOS value discovery runs under. Defaults to runtime.GOOS.
	HostOS string

	// Root skips discovery and uses this directory as the Steam root.
	Root string

	// ExtraPaths are additional root candidates, tried after ~/.steam/steam.
	ExtraPaths []string

	// CheckFlatpak adds the Flatpak Steam location as a final candidate.
	CheckFlatpak bool
}

// DefaultOptions returns discovery settings for the running host.
func DefaultOptions() Options {
	return Options{
		HomeDir: os.UserHomeDir,
		HostOS:  runtime.GOOS,
	}
}

// Resolver finds Steam libraries and the installations inside them.
type Resolver struct {
	fs   afero.Fs
	opts Options
}

// NewResolver creates a Resolver reading from fs. Unset fields in opts fall
// back to DefaultOptions.
func NewResolver(fs afero.Fs, opts Options) *Resolver {
	def := DefaultOptions()
	if opts.HomeDir == nil {
		opts.HomeDir = def.HomeDir
	}
	if opts.HostOS == "" {
		opts.HostOS = def.HostOS
	}
	return &Resolver{fs: fs, opts: opts}
}

func (r *Resolver) isDir(path string) bool {
	info, err := r.fs.Stat(path)
	return err == nil && info.IsDir()
}

func (r *Resolver) isFile(path string) bool {
	info, err := r.fs.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func flatpakRoot(home string) string {
	return filepath.Join(home, ".var", "app", FlatpakSteamID, ".steam", "steam")
}
