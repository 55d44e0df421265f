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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/andygrunwald/vdf"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// AppInfo contains display metadata for a Steam app from its manifest.
type AppInfo struct {
	AppID      string
	Name       string
	InstallDir string
}

// ManifestName returns the file name Steam uses for an app's manifest.
func ManifestName(appID uint64) string {
	return fmt.Sprintf("appmanifest_%d.acf", appID)
}

// FindInstallation returns the install directory of appID from the first
// library, in EnumerateLibraries order, that holds its manifest. The bool
// is false with a nil error when no library has the app.
func (r *Resolver) FindInstallation(appID uint64) (string, bool, error) {
	libraries, err := r.EnumerateLibraries()
	if err != nil {
		return "", false, err
	}

	name := ManifestName(appID)
	for _, library := range libraries {
		manifest := filepath.Join(library, name)
		if !r.isFile(manifest) {
			continue
		}

		log.Debug().Str("manifest", manifest).Msg("found app manifest")
		dir, err := r.installDirFromManifest(library, manifest)
		if err != nil {
			return "", false, err
		}

		if info, err := ReadAppInfo(r.fs, manifest); err == nil {
			log.Info().Str("name", info.Name).Str("dir", dir).Msg("found installation")
		} else {
			log.Debug().Err(err).Str("manifest", manifest).Msg("could not read app info")
		}

		return dir, true, nil
	}

	return "", false, nil
}

func (r *Resolver) installDirFromManifest(library, manifest string) (string, error) {
	data, err := afero.ReadFile(r.fs, manifest)
	if err != nil {
		return "", fmt.Errorf("failed to read app manifest: %w", err)
	}

	var installDir string
	var found bool
	scanLines(string(data), func(line string) bool {
		installDir, found = ParseLine(line, "installdir")
		return found
	})
	if !found {
		return "", fmt.Errorf("%w: no installdir in %s", ErrManifestFieldMissing, manifest)
	}

	if strings.TrimSpace(installDir) == "" {
		return "", fmt.Errorf("%w: empty installdir in %s", ErrInvalidInstallation, manifest)
	}

	dir := filepath.Join(library, CommonDir, installDir)
	if !r.isDir(dir) {
		return "", fmt.Errorf("%w: %s does not exist or is not a directory", ErrInvalidInstallation, dir)
	}

	return dir, nil
}

// ReadAppInfo parses a whole app manifest. Key lookups are case-insensitive
// because Steam does not keep key casing consistent between versions.
func ReadAppInfo(fs afero.Fs, manifest string) (AppInfo, error) {
	f, err := fs.Open(manifest)
	if err != nil {
		return AppInfo{}, fmt.Errorf("failed to open app manifest: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing app manifest")
		}
	}()

	m, err := vdf.NewParser(f).Parse()
	if err != nil {
		return AppInfo{}, fmt.Errorf("failed to parse app manifest: %w", err)
	}
	m = normalizeVDFKeys(m)

	appState, ok := m["appstate"].(map[string]any)
	if !ok {
		return AppInfo{}, errors.New("AppState not found in manifest")
	}

	info := AppInfo{}
	info.AppID, _ = appState["appid"].(string)
	info.Name, _ = appState["name"].(string)
	info.InstallDir, _ = appState["installdir"].(string)

	return info, nil
}

// normalizeVDFKeys recursively lowercases all keys in a parsed VDF tree.
func normalizeVDFKeys(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = normalizeVDFKeys(nested)
		}
		result[strings.ToLower(k)] = v
	}
	return result
}
