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

// Package steam locates Steam libraries and installed apps on disk.
//
// Steam's text VDF files (libraryfolders.vdf, appmanifest_*.acf) are only
// partially documented, so lookups here are line based: each call asserts
// the shape of the one key it needs and ignores everything else in the file.
package steam

import "strings"

// ParseLine returns the quoted value for key if line has the exact shape
// `"key"<whitespace>"value"` once surrounding whitespace is trimmed. Any other
// shape (another key, braces, comments, broken quoting) reports no match.
// Key matching is exact and case-sensitive.
func ParseLine(line, key string) (string, bool) {
	line = strings.TrimSpace(line)

	prefix := `"` + key + `"`
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}

	rest := line[len(prefix):]
	value := strings.TrimLeft(rest, " \t")
	if len(value) == len(rest) {
		// key must be followed by whitespace
		return "", false
	}

	if len(value) < 2 || value[0] != '"' {
		return "", false
	}
	return unquote(value)
}

// unquote reads the quoted string s, which must start with a quote and end
// with the first unescaped closing quote. \\ and \" are unescaped; any other
// backslash is kept as is.
func unquote(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 1; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '"') {
				i++
				b.WriteByte(s[i])
				continue
			}
			b.WriteByte(c)
		case '"':
			if i != len(s)-1 {
				return "", false
			}
			return b.String(), true
		default:
			b.WriteByte(c)
		}
	}
	return "", false
}

// scanLines calls fn for each line of data until fn returns true.
func scanLines(data string, fn func(line string) bool) {
	for line := range strings.Lines(data) {
		if fn(strings.TrimRight(line, "\r\n")) {
			return
		}
	}
}
