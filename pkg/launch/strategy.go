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
	"path/filepath"

	"github.com/melodia-mod/melodia/pkg/linker"
)

// session holds the directories one launch works with.
type session struct {
	gameDir    string
	baseDir    string
	scratchDir string
}

// assembly is what a strategy produced in the scratch directory.
type assembly struct {
	// binary is the bootstrap executable to run.
	binary string
	// patcherDir holds the patcher and everything it loads.
	patcherDir string
}

// strategy builds the scratch directory for one host and build combination.
type strategy interface {
	name() string
	// compat reports whether the bootstrap runs under Wine.
	compat() bool
	assemble(lnk *linker.Linker, s session) (assembly, error)
}

func selectStrategy(hostOS string, variant Variant) (strategy, error) {
	switch {
	case hostOS == "linux" && variant == NativeBuild:
		return nativeStrategy{}, nil
	case hostOS == "linux" && variant == ForeignBuild:
		return foreignStrategy{wine: true}, nil
	case hostOS == "windows" && variant == ForeignBuild:
		return foreignStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %s build on %s", ErrUnsupportedCombination, variant, hostOS)
	}
}

// nativeStrategy runs the Linux build's Mono bundle directly. Everything in
// the scratch directory is a link.
type nativeStrategy struct{}

func (nativeStrategy) name() string { return "native" }

func (nativeStrategy) compat() bool { return false }

func (nativeStrategy) assemble(lnk *linker.Linker, s session) (assembly, error) {
	if err := lnk.LinkAs(s.gameDir, NativeMarker, s.scratchDir, NativeEntry); err != nil {
		return assembly{}, err
	}

	for _, name := range nativeRuntime {
		if err := lnk.Link(s.gameDir, s.scratchDir, name); err != nil {
			return assembly{}, err
		}
	}

	if err := lnk.LinkMatching(s.gameDir, s.scratchDir, IsCoreLibrary); err != nil {
		return assembly{}, err
	}

	if err := linkBootstrap(lnk, s, false); err != nil {
		return assembly{}, err
	}

	patcherDir, err := lnk.CheckedPath(s.baseDir, PatcherLibDir)
	if err != nil {
		return assembly{}, err
	}

	return assembly{
		binary:     filepath.Join(s.scratchDir, NativeEntry),
		patcherDir: patcherDir,
	}, nil
}

// foreignStrategy runs the Windows build, under Wine when wine is set. The
// patcher gets its own directory in scratch since it needs the game's native
// libraries next to it.
type foreignStrategy struct {
	wine bool
}

func (f foreignStrategy) name() string {
	if f.wine {
		return "wine"
	}
	return "windows"
}

func (f foreignStrategy) compat() bool { return f.wine }

func (f foreignStrategy) assemble(lnk *linker.Linker, s session) (assembly, error) {
	patcherDir, err := lnk.MakeDir(s.scratchDir, patcherScratchDir)
	if err != nil {
		return assembly{}, err
	}

	for _, name := range patcherDeps {
		if err := lnk.Link(s.gameDir, patcherDir, name); err != nil {
			return assembly{}, err
		}
	}

	patcherSrc, err := lnk.CheckedPath(s.baseDir, PatcherLibDir)
	if err != nil {
		return assembly{}, err
	}
	if err := lnk.LinkAll(patcherSrc, patcherDir); err != nil {
		return assembly{}, err
	}

	if err := lnk.LinkMatching(s.gameDir, s.scratchDir, IsCoreLibrary); err != nil {
		return assembly{}, err
	}

	if err := lnk.Link(s.gameDir, s.scratchDir, ForeignMarker); err != nil {
		return assembly{}, err
	}

	// under Wine the entry executable must be a real file in scratch
	if err := linkBootstrap(lnk, s, f.wine); err != nil {
		return assembly{}, err
	}

	binary, err := lnk.CheckedPath(s.scratchDir, BootstrapExe)
	if err != nil {
		return assembly{}, err
	}

	return assembly{binary: binary, patcherDir: patcherDir}, nil
}

// linkBootstrap links the bootstrap files into scratch, copying the
// executable itself when copyExe is set.
func linkBootstrap(lnk *linker.Linker, s session, copyExe bool) error {
	src, err := lnk.CheckedPath(s.baseDir, BootstrapLibDir)
	if err != nil {
		return err
	}

	for _, name := range bootstrapFiles {
		if copyExe && name == BootstrapExe {
			err = lnk.CopyAs(src, name, s.scratchDir, name)
		} else {
			err = lnk.Link(src, s.scratchDir, name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
