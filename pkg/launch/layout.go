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
	"path/filepath"
	"strings"
)

// DefaultAppID is the Steam app id of Crystal Project.
const DefaultAppID uint64 = 1637730

const (
	// NativeMarker is the Linux build's entry executable.
	NativeMarker = "Crystal Project.bin.x86_64"
	// ForeignMarker is only shipped with the Windows build.
	ForeignMarker = "steam_api64.dll"

	// NativeEntry is the name the native entry executable gets in the
	// scratch directory; the Mono bundle loads the assembly matching it.
	NativeEntry = "MelodiaBootstrap.bin.x86_64"

	BootstrapExe    = "MelodiaBootstrap.exe"
	BootstrapPdb    = "MelodiaBootstrap.pdb"
	BootstrapConfig = "MelodiaBootstrap.exe.config"

	// PatcherSelector tells the bootstrap which assembly to hand over to.
	PatcherSelector = "MelodiaPatcher"

	// AppIDFile is read by the Steamworks API to learn which app is running.
	AppIDFile = "steam_appid.txt"

	patcherScratchDir = "patcher"
)

var (
	// BootstrapLibDir and PatcherLibDir are relative to the base directory.
	BootstrapLibDir = filepath.Join("lib", "bootstrap")
	PatcherLibDir   = filepath.Join("lib", "patcher")

	// nativeRuntime are the Mono runtime entries of the Linux build.
	nativeRuntime = []string{"lib64", "monoconfig", "monomachineconfig"}

	// patcherDeps are game libraries the patcher loads on Windows builds.
	patcherDeps = []string{"FAudio.dll", "FNA.dll", "FNA3D.dll", "libtheorafile.dll", "SDL2.dll"}

	bootstrapFiles = []string{BootstrapExe, BootstrapPdb, BootstrapConfig}

	coreLibraryPrefixes = []string{"mscorlib", "Mono.", "FNA", "System."}
)

// IsCoreLibrary reports whether name is one of the game's managed runtime
// libraries that the bootstrap must see next to itself.
func IsCoreLibrary(name string) bool {
	if !strings.HasSuffix(name, ".dll") {
		return false
	}
	for _, prefix := range coreLibraryPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
