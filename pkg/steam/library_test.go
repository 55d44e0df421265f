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
	"path/filepath"
	"testing"

	testhelpers "github.com/melodia-mod/melodia/pkg/testing/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHome = "/home/deck"

func newTestResolver(fs *testhelpers.FSHelper, opts Options) *Resolver {
	if opts.HomeDir == nil {
		opts.HomeDir = func() (string, error) { return testHome, nil }
	}
	if opts.HostOS == "" {
		opts.HostOS = "linux"
	}
	return NewResolver(fs.Fs, opts)
}

func TestLocateRoot(t *testing.T) {
	t.Parallel()

	t.Run("finds_default_steam_path", func(t *testing.T) {
		t.Parallel()

		fs := testhelpers.NewMemoryFS()
		fixture := testhelpers.NewSteamFixture(t, fs, testHome)

		root, err := newTestResolver(fs, Options{}).LocateRoot()

		require.NoError(t, err)
		assert.Equal(t, fixture.Root, root)
	})

	t.Run("missing_root_is_not_found", func(t *testing.T) {
		t.Parallel()

		fs := testhelpers.NewMemoryFS()

		_, err := newTestResolver(fs, Options{}).LocateRoot()

		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("home_dir_error_is_not_found", func(t *testing.T) {
		t.Parallel()

		fs := testhelpers.NewMemoryFS()
		r := newTestResolver(fs, Options{
			HomeDir: func() (string, error) { return "", errors.New("$HOME is not defined") },
		})

		_, err := r.LocateRoot()

		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("other_hosts_are_unsupported", func(t *testing.T) {
		t.Parallel()

		fs := testhelpers.NewMemoryFS()
		testhelpers.NewSteamFixture(t, fs, testHome)

		for _, host := range []string{"windows", "darwin", "freebsd"} {
			_, err := newTestResolver(fs, Options{HostOS: host}).LocateRoot()
			require.ErrorIs(t, err, ErrUnsupportedPlatform, host)
		}
	})

	t.Run("configured_root_wins", func(t *testing.T) {
		t.Parallel()

		fs := testhelpers.NewMemoryFS()
		testhelpers.NewSteamFixture(t, fs, testHome)
		fs.Mkdir(t, "/opt/steam")

		root, err := newTestResolver(fs, Options{Root: "/opt/steam", HostOS: "windows"}).LocateRoot()

		require.NoError(t, err)
		assert.Equal(t, "/opt/steam", root)
	})

	t.Run("configured_root_must_exist", func(t *testing.T) {
		t.Parallel()

		fs := testhelpers.NewMemoryFS()

		_, err := newTestResolver(fs, Options{Root: "/opt/steam"}).LocateRoot()

		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("uses_extra_paths", func(t *testing.T) {
		t.Parallel()

		fs := testhelpers.NewMemoryFS()
		extra := filepath.Join(testHome, ".local", "share", "Steam")
		fs.Mkdir(t, extra)

		root, err := newTestResolver(fs, Options{ExtraPaths: []string{extra}}).LocateRoot()

		require.NoError(t, err)
		assert.Equal(t, extra, root)
	})

	t.Run("checks_flatpak_path_when_enabled", func(t *testing.T) {
		t.Parallel()

		fs := testhelpers.NewMemoryFS()
		flatpak := filepath.Join(testHome, ".var", "app", FlatpakSteamID, ".steam", "steam")
		fs.Mkdir(t, flatpak)

		_, err := newTestResolver(fs, Options{}).LocateRoot()
		require.ErrorIs(t, err, ErrNotFound)

		root, err := newTestResolver(fs, Options{CheckFlatpak: true}).LocateRoot()
		require.NoError(t, err)
		assert.Equal(t, flatpak, root)
	})
}

func TestEnumerateLibraries(t *testing.T) {
	t.Parallel()

	t.Run("returns_existing_libraries_in_file_order", func(t *testing.T) {
		t.Parallel()

		fs := testhelpers.NewMemoryFS()
		fixture := testhelpers.NewSteamFixture(t, fs, testHome)
		second := fixture.AddLibrary(t, "/mnt/games")
		first := fixture.AddLibrary(t, "/mnt/fast")
		fixture.WriteLibraryFolders(t, "/mnt/fast", "/mnt/missing", "/mnt/games")

		libs, err := newTestResolver(fs, Options{}).EnumerateLibraries()

		require.NoError(t, err)
		assert.Equal(t, []string{first, second}, libs)
	})

	t.Run("skips_libraries_whose_steamapps_is_a_file", func(t *testing.T) {
		t.Parallel()

		fs := testhelpers.NewMemoryFS()
		fixture := testhelpers.NewSteamFixture(t, fs, testHome)
		good := fixture.AddLibrary(t, "/mnt/games")
		fs.WriteFile(t, "/mnt/bad/steamapps", "not a directory")
		fixture.WriteLibraryFolders(t, "/mnt/bad", "/mnt/games")

		libs, err := newTestResolver(fs, Options{}).EnumerateLibraries()

		require.NoError(t, err)
		assert.Equal(t, []string{good}, libs)
	})

	t.Run("ignores_other_keys_and_malformed_lines", func(t *testing.T) {
		t.Parallel()

		fs := testhelpers.NewMemoryFS()
		fixture := testhelpers.NewSteamFixture(t, fs, testHome)
		good := fixture.AddLibrary(t, "/mnt/games")
		fixture.AddLibrary(t, "/mnt/label")
		fixture.WriteLibraryFoldersRaw(t, `"libraryfolders"
{
	"contentstatsid"		"-123"
	"0"
	{
		"label"		"/mnt/label"
		"path		"/mnt/broken
		"path"		"/mnt/games"
		// "path"		"/mnt/label"
	}
}
`)

		libs, err := newTestResolver(fs, Options{}).EnumerateLibraries()

		require.NoError(t, err)
		assert.Equal(t, []string{good}, libs)
	})

	t.Run("includes_the_root_library", func(t *testing.T) {
		t.Parallel()

		fs := testhelpers.NewMemoryFS()
		fixture := testhelpers.NewSteamFixture(t, fs, testHome)
		fixture.WriteLibraryFolders(t, fixture.Root)

		libs, err := newTestResolver(fs, Options{}).EnumerateLibraries()

		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(fixture.Root, AppsDir)}, libs)
	})

	t.Run("missing_manifest_is_not_found", func(t *testing.T) {
		t.Parallel()

		fs := testhelpers.NewMemoryFS()
		testhelpers.NewSteamFixture(t, fs, testHome)

		_, err := newTestResolver(fs, Options{}).EnumerateLibraries()

		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("no_usable_libraries", func(t *testing.T) {
		t.Parallel()

		fs := testhelpers.NewMemoryFS()
		fixture := testhelpers.NewSteamFixture(t, fs, testHome)
		fixture.WriteLibraryFolders(t, "/mnt/missing")

		_, err := newTestResolver(fs, Options{}).EnumerateLibraries()

		require.ErrorIs(t, err, ErrNoLibraries)
	})

	t.Run("empty_manifest", func(t *testing.T) {
		t.Parallel()

		fs := testhelpers.NewMemoryFS()
		fixture := testhelpers.NewSteamFixture(t, fs, testHome)
		fixture.WriteLibraryFoldersRaw(t, "")

		_, err := newTestResolver(fs, Options{}).EnumerateLibraries()

		require.ErrorIs(t, err, ErrNoLibraries)
	})
}
