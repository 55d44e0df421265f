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

package launch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Variant is the platform an installation was built for.
type Variant int

const (
	// NativeBuild is the Linux build.
	NativeBuild Variant = iota + 1
	// ForeignBuild is the Windows build.
	ForeignBuild
)

func (v Variant) String() string {
	switch v {
	case NativeBuild:
		return "native"
	case ForeignBuild:
		return "foreign"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Classify inspects an installation directory. The native marker is checked
// first, so a directory holding both builds counts as native.
func Classify(fs afero.Fs, installDir string) (Variant, error) {
	ok, err := exists(fs, filepath.Join(installDir, NativeMarker))
	if err != nil {
		return 0, err
	}
	if ok {
		return NativeBuild, nil
	}

	ok, err = exists(fs, filepath.Join(installDir, ForeignMarker))
	if err != nil {
		return 0, err
	}
	if ok {
		return ForeignBuild, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrUnrecognizedInstallation, installDir)
}

func exists(fs afero.Fs, path string) (bool, error) {
	_, err := fs.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
}
