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

// Package linker populates a scratch directory with symbolic links to files
// from other directories.
package linker

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var (
	// ErrMissingSource is returned when an entry to link or copy does not exist.
	ErrMissingSource = errors.New("missing source")
	// ErrSymlinkUnsupported is returned when the filesystem cannot create links.
	ErrSymlinkUnsupported = errors.New("filesystem does not support symlinks")
)

// Linker creates links and copies on a filesystem that supports symlinks.
type Linker struct {
	fs     afero.Fs
	logger zerolog.Logger
}

type Option func(*Linker)

// WithLogger sets the logger links and copies are reported to. The global
// logger is used otherwise.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Linker) { l.logger = logger }
}

// New creates a Linker. fs must implement afero.Linker for links to work;
// afero.OsFs does.
func New(fs afero.Fs, opts ...Option) *Linker {
	l := &Linker{fs: fs, logger: log.Logger}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Link creates dstDir/name pointing at srcDir/name.
func (l *Linker) Link(srcDir, dstDir, name string) error {
	return l.LinkAs(srcDir, name, dstDir, name)
}

// LinkAs creates dstDir/dstName pointing at srcDir/srcName. The source must
// exist; nothing is created when it does not.
func (l *Linker) LinkAs(srcDir, srcName, dstDir, dstName string) error {
	src, info, err := l.source(srcDir, srcName)
	if err != nil {
		return err
	}
	dst := filepath.Join(dstDir, dstName)

	symlinker, ok := l.fs.(afero.Linker)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSymlinkUnsupported, l.fs.Name())
	}

	kind := "file"
	if info.IsDir() {
		kind = "dir"
	}
	l.logger.Debug().Str("src", src).Str("dst", dst).Str("kind", kind).Msg("symlink")

	// os.Symlink picks the file or directory link flavor on Windows itself.
	if err := symlinker.SymlinkIfPossible(src, dst); err != nil {
		return fmt.Errorf("failed to link %s: %w", dst, err)
	}
	return nil
}

// LinkMatching links every entry of srcDir whose name satisfies match into
// dstDir, in directory order. It stops at the first failure.
func (l *Linker) LinkMatching(srcDir, dstDir string, match func(name string) bool) error {
	entries, err := afero.ReadDir(l.fs, srcDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrMissingSource, srcDir)
		}
		return fmt.Errorf("failed to list %s: %w", srcDir, err)
	}

	for _, entry := range entries {
		if !match(entry.Name()) {
			continue
		}
		if err := l.Link(srcDir, dstDir, entry.Name()); err != nil {
			return err
		}
	}
	return nil
}

// LinkAll links every entry of srcDir into dstDir.
func (l *Linker) LinkAll(srcDir, dstDir string) error {
	return l.LinkMatching(srcDir, dstDir, func(string) bool { return true })
}

// CopyAs copies the regular file srcDir/srcName to dstDir/dstName, keeping
// its permission bits. Used where a real file is needed instead of a link.
func (l *Linker) CopyAs(srcDir, srcName, dstDir, dstName string) error {
	src, info, err := l.source(srcDir, srcName)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("cannot copy directory %s", src)
	}
	dst := filepath.Join(dstDir, dstName)

	l.logger.Debug().Str("src", src).Str("dst", dst).Msg("copy")

	in, err := l.fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", src, err)
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := l.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy file content: %w", err)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close destination file: %w", err)
	}
	return nil
}

// MakeDir creates dir/name and returns its path.
func (l *Linker) MakeDir(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	if err := l.fs.MkdirAll(path, 0o750); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	return path, nil
}

// CheckedPath returns dir/name if it exists.
func (l *Linker) CheckedPath(dir, name string) (string, error) {
	path, _, err := l.source(dir, name)
	return path, err
}

func (l *Linker) source(dir, name string) (string, os.FileInfo, error) {
	path := filepath.Join(dir, name)
	info, err := l.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("%w: %s", ErrMissingSource, path)
		}
		return "", nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return path, info, nil
}
