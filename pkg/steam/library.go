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
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// LocateRoot returns the Steam root directory for the current user.
//
// A configured Root always wins. Otherwise only the Linux layout is known:
// ~/.steam/steam, followed by any ExtraPaths and the Flatpak location when
// enabled.
func (r *Resolver) LocateRoot() (string, error) {
	if r.opts.Root != "" {
		if !r.isDir(r.opts.Root) {
			return "", fmt.Errorf("%w: configured steam root %s", ErrNotFound, r.opts.Root)
		}
		log.Debug().Str("path", r.opts.Root).Msg("using configured steam root")
		return r.opts.Root, nil
	}

	if r.opts.HostOS != "linux" {
		return "", fmt.Errorf("%w: cannot locate steam on %s", ErrUnsupportedPlatform, r.opts.HostOS)
	}

	home, err := r.opts.HomeDir()
	if err != nil || home == "" {
		return "", fmt.Errorf("%w: could not determine home directory", ErrNotFound)
	}

	paths := []string{filepath.Join(home, ".steam", "steam")}
	paths = append(paths, r.opts.ExtraPaths...)
	if r.opts.CheckFlatpak {
		paths = append(paths, flatpakRoot(home))
	}

	for _, path := range paths {
		if r.isDir(path) {
			log.Debug().Str("path", path).Msg("found steam root")
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: steam root %s", ErrNotFound, paths[0])
}

// EnumerateLibraries reads libraryfolders.vdf under the Steam root and
// returns the steamapps directory of every listed library that exists, in
// file order.
func (r *Resolver) EnumerateLibraries() ([]string, error) {
	root, err := r.LocateRoot()
	if err != nil {
		return nil, err
	}

	manifest := filepath.Join(root, AppsDir, LibraryFoldersFile)
	if !r.isFile(manifest) {
		return nil, fmt.Errorf("%w: library manifest %s", ErrNotFound, manifest)
	}

	return r.librariesFromManifest(manifest)
}

func (r *Resolver) librariesFromManifest(manifest string) ([]string, error) {
	data, err := afero.ReadFile(r.fs, manifest)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: library manifest %s", ErrNotFound, manifest)
		}
		return nil, fmt.Errorf("failed to read library manifest: %w", err)
	}

	var dirs []string
	scanLines(string(data), func(line string) bool {
		path, ok := ParseLine(line, "path")
		if !ok {
			return false
		}

		apps := filepath.Join(path, AppsDir)
		if r.isDir(apps) {
			dirs = append(dirs, apps)
		} else {
			log.Debug().Str("path", apps).Msg("skipping missing steam library")
		}
		return false
	})

	if len(dirs) == 0 {
		return nil, fmt.Errorf("%w: %s lists no usable libraries", ErrNoLibraries, manifest)
	}

	return dirs, nil
}
