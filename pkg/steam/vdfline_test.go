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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParseLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		line      string
		key       string
		wantValue string
		wantOK    bool
	}{
		{
			name:      "tab separated",
			line:      "\t\t\"installdir\"\t\t\"MyGame\"",
			key:       "installdir",
			wantValue: "MyGame",
			wantOK:    true,
		},
		{
			name:      "space separated",
			line:      `"path" "/mnt/games"`,
			key:       "path",
			wantValue: "/mnt/games",
			wantOK:    true,
		},
		{
			name:      "trailing whitespace",
			line:      "  \"path\"\t\"/mnt/games\"  \r",
			key:       "path",
			wantValue: "/mnt/games",
			wantOK:    true,
		},
		{
			name:      "value with spaces",
			line:      `"installdir"		"Crystal Project"`,
			key:       "installdir",
			wantValue: "Crystal Project",
			wantOK:    true,
		},
		{
			name:      "empty value",
			line:      `"label"		""`,
			key:       "label",
			wantValue: "",
			wantOK:    true,
		},
		{
			name:      "escaped backslashes",
			line:      `"path"		"C:\\Program Files (x86)\\Steam"`,
			key:       "path",
			wantValue: `C:\Program Files (x86)\Steam`,
			wantOK:    true,
		},
		{
			name:      "escaped quote",
			line:      `"name"		"The \"Game\""`,
			key:       "name",
			wantValue: `The "Game"`,
			wantOK:    true,
		},
		{
			name:   "different key",
			line:   `"name"		"MyGame"`,
			key:    "installdir",
			wantOK: false,
		},
		{
			name:   "key is only a prefix",
			line:   `"pathology"		"x"`,
			key:    "path",
			wantOK: false,
		},
		{
			name:   "key case differs",
			line:   `"InstallDir"		"MyGame"`,
			key:    "installdir",
			wantOK: false,
		},
		{
			name:   "no whitespace between key and value",
			line:   `"path""/mnt/games"`,
			key:    "path",
			wantOK: false,
		},
		{
			name:   "section header",
			line:   `"path"`,
			key:    "path",
			wantOK: false,
		},
		{
			name:   "opening brace",
			line:   "{",
			key:    "path",
			wantOK: false,
		},
		{
			name:   "closing brace",
			line:   "\t}",
			key:    "path",
			wantOK: false,
		},
		{
			name:   "comment",
			line:   `// "path" "/mnt/games"`,
			key:    "path",
			wantOK: false,
		},
		{
			name:   "unterminated value",
			line:   `"path"		"/mnt/games`,
			key:    "path",
			wantOK: false,
		},
		{
			name:   "unquoted value",
			line:   `"path"		/mnt/games`,
			key:    "path",
			wantOK: false,
		},
		{
			name:   "lone quote value",
			line:   `"path"		"`,
			key:    "path",
			wantOK: false,
		},
		{
			name:   "unbalanced quotes on unrelated key",
			line:   `"name		"broken`,
			key:    "path",
			wantOK: false,
		},
		{
			name:   "two values",
			line:   `"path"		"a" "b"`,
			key:    "path",
			wantOK: false,
		},
		{
			name:   "escaped backslash then stray quote",
			line:   `"path"	"a\\"b"`,
			key:    "path",
			wantOK: false,
		},
		{
			name:   "closing quote is escaped",
			line:   `"path"	"x\"`,
			key:    "path",
			wantOK: false,
		},
		{
			name:      "value ends in escaped backslash",
			line:      `"path"	"D:\\"`,
			key:       "path",
			wantValue: `D:\`,
			wantOK:    true,
		},
		{
			name:      "unknown escape kept",
			line:      `"path"	"a\tb"`,
			key:       "path",
			wantValue: `a\tb`,
			wantOK:    true,
		},
		{
			name:   "empty line",
			line:   "",
			key:    "path",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			value, ok := ParseLine(tt.line, tt.key)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

var vdfEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// TestPropertyParseLineRoundTrip verifies any well-formed line yields its value.
func TestPropertyParseLineRoundTrip(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		key := rapid.StringMatching(`[a-zA-Z_]{1,16}`).Draw(t, "key")
		value := rapid.StringMatching(`[a-zA-Z0-9 _\-./:()\\"]{0,40}`).Draw(t, "value")
		lead := rapid.StringMatching(`[ \t]{0,4}`).Draw(t, "lead")
		sep := rapid.StringMatching(`[ \t]{1,4}`).Draw(t, "sep")

		line := lead + `"` + key + `"` + sep + `"` + vdfEscaper.Replace(value) + `"`
		got, ok := ParseLine(line, key)

		if !ok || got != value {
			t.Fatalf("line %q: expected %q, got %q (ok=%v)", line, value, got, ok)
		}
	})
}

// TestPropertyParseLineBrokenQuoting verifies that an escaped closing quote or
// a bare quote inside the value is never a match.
func TestPropertyParseLineBrokenQuoting(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		key := rapid.StringMatching(`[a-z]{1,10}`).Draw(t, "key")
		value := vdfEscaper.Replace(rapid.StringMatching(`[a-z\\"]{0,20}`).Draw(t, "value"))
		tail := rapid.StringMatching(`[a-z\\"]{0,5}`).Draw(t, "tail")

		unterminated := `"` + key + `"	"` + value + `\"`
		if _, ok := ParseLine(unterminated, key); ok {
			t.Fatalf("matched unterminated line %q", unterminated)
		}

		stray := `"` + key + `"	"` + value + `"` + tail + `"`
		if _, ok := ParseLine(stray, key); ok {
			t.Fatalf("matched line with stray quote %q", stray)
		}
	})
}

// TestPropertyParseLineOtherKeys verifies a line never matches a different key.
func TestPropertyParseLineOtherKeys(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		key := rapid.StringMatching(`[a-z]{1,10}`).Draw(t, "key")
		other := rapid.StringMatching(`[a-z]{1,10}`).Draw(t, "other")
		if key == other {
			return
		}

		if _, ok := ParseLine(`"`+other+`"		"value"`, key); ok {
			t.Fatalf("key %q matched line for %q", key, other)
		}
	})
}

// TestPropertyParseLineNeverPanics feeds arbitrary text through the parser.
func TestPropertyParseLineNeverPanics(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		line := rapid.String().Draw(t, "line")
		key := rapid.StringMatching(`[a-z]{1,10}`).Draw(t, "key")

		value, ok := ParseLine(line, key)

		if !ok && value != "" {
			t.Fatalf("no match returned value %q", value)
		}
		if ok && !strings.Contains(line, `"`+key+`"`) {
			t.Fatalf("matched line without key: %q", line)
		}
	})
}
