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
	"context"
	"strconv"
)

// PathTranslator converts native paths for the process being launched.
type PathTranslator interface {
	Active() bool
	ToCompatPath(ctx context.Context, path string) (string, error)
}

// buildArgs returns the bootstrap's command line. The layout is positional
// and shared with the loaders:
//
//	[bootstrap path, under Wine only]
//	game dir, patcher dir, PatcherSelector   consumed by the bootstrap
//	game dir, base dir, scratch dir          consumed by the patcher
//	user arguments, verbatim
func buildArgs(
	ctx context.Context,
	tr PathTranslator,
	s session,
	a assembly,
	userArgs []string,
) ([]string, error) {
	args := make([]string, 0, 7+len(userArgs))

	add := func(path string) error {
		translated, err := tr.ToCompatPath(ctx, path)
		if err != nil {
			return err
		}
		args = append(args, translated)
		return nil
	}

	if tr.Active() {
		if err := add(a.binary); err != nil {
			return nil, err
		}
	}

	for _, path := range []string{s.gameDir, a.patcherDir} {
		if err := add(path); err != nil {
			return nil, err
		}
	}
	args = append(args, PatcherSelector)

	for _, path := range []string{s.gameDir, s.baseDir, s.scratchDir} {
		if err := add(path); err != nil {
			return nil, err
		}
	}

	return append(args, userArgs...), nil
}

func appIDMarker(appID uint64) []byte {
	return []byte(strconv.FormatUint(appID, 10))
}
