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

package helpers

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// FSHelper provides utilities for building filesystem fixtures in tests.
type FSHelper struct {
	Fs afero.Fs
}

// NewMemoryFS creates a new in-memory filesystem for testing.
func NewMemoryFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewMemMapFs(),
	}
}

// NewOSFS creates a filesystem helper using the real filesystem. Use it with
// t.TempDir() when a test needs working symbolic links.
func NewOSFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewOsFs(),
	}
}

// WriteFile writes content to path, creating parent directories.
func (h *FSHelper) WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, h.Fs.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, afero.WriteFile(h.Fs, path, []byte(content), 0o600))
}

// Mkdir creates path and its parents.
func (h *FSHelper) Mkdir(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, h.Fs.MkdirAll(path, 0o750))
}

// Touch creates empty files named names inside dir.
func (h *FSHelper) Touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		h.WriteFile(t, filepath.Join(dir, name), "")
	}
}

// SteamFixture lays out a fake Steam installation under Home.
type SteamFixture struct {
	*FSHelper
	Home string
	Root string
}

// NewSteamFixture creates ~/.steam/steam/steamapps under home.
func NewSteamFixture(t *testing.T, h *FSHelper, home string) *SteamFixture {
	t.Helper()
	root := filepath.Join(home, ".steam", "steam")
	h.Mkdir(t, filepath.Join(root, "steamapps"))
	return &SteamFixture{FSHelper: h, Home: home, Root: root}
}

// AddLibrary creates the steamapps directory of a library and returns it.
func (f *SteamFixture) AddLibrary(t *testing.T, path string) string {
	t.Helper()
	apps := filepath.Join(path, "steamapps")
	f.Mkdir(t, apps)
	return apps
}

// WriteLibraryFolders writes libraryfolders.vdf listing paths in order, in
// the layout the Steam client produces.
func (f *SteamFixture) WriteLibraryFolders(t *testing.T, paths ...string) {
	t.Helper()
	content := "\"libraryfolders\"\n{\n"
	for i, path := range paths {
		content += fmt.Sprintf(
			"\t\"%d\"\n\t{\n\t\t\"path\"\t\t\"%s\"\n\t\t\"label\"\t\t\"\"\n"+
				"\t\t\"contentid\"\t\t\"%d\"\n\t\t\"apps\"\n\t\t{\n\t\t}\n\t}\n",
			i, path, 1000+i,
		)
	}
	content += "}\n"
	f.WriteLibraryFoldersRaw(t, content)
}

// WriteLibraryFoldersRaw writes libraryfolders.vdf verbatim.
func (f *SteamFixture) WriteLibraryFoldersRaw(t *testing.T, content string) {
	t.Helper()
	f.WriteFile(t, filepath.Join(f.Root, "steamapps", "libraryfolders.vdf"), content)
}

// WriteManifest writes appmanifest_<appID>.acf into a library verbatim.
func (f *SteamFixture) WriteManifest(t *testing.T, library string, appID uint64, content string) string {
	t.Helper()
	path := filepath.Join(library, "steamapps", fmt.Sprintf("appmanifest_%d.acf", appID))
	f.WriteFile(t, path, content)
	return path
}

// InstallApp writes a manifest for appID and creates its install directory
// under common/. It returns the install directory.
func (f *SteamFixture) InstallApp(t *testing.T, library string, appID uint64, name, installDir string) string {
	t.Helper()
	f.WriteManifest(t, library, appID, AppManifest(appID, name, installDir))
	dir := filepath.Join(library, "steamapps", "common", installDir)
	f.Mkdir(t, dir)
	return dir
}

// AppManifest renders a minimal appmanifest_*.acf document.
func AppManifest(appID uint64, name, installDir string) string {
	return fmt.Sprintf(`"AppState"
{
	"appid"		"%d"
	"universe"		"1"
	"name"		"%s"
	"StateFlags"		"4"
	"installdir"		"%s"
	"SizeOnDisk"		"1048576"
}
`, appID, name, installDir)
}
