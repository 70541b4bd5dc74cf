// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package text

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const i18n = `// Extras usados en dialogos del detalle (detalle)
const _es = Strings(
  appTitle: 'Tu Alimento Diario',
  password: 'old',
  logout: 'Salir',
);

const _en = Strings(
  appTitle: 'Your Daily Food',
  password: 'Password',
  logout: 'Log out',
);
`

func TestApplyRule(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		rule       Rule
		want       string
		wantStatus Status
		wantOld    string
	}{
		{
			name:       "spanish_password",
			content:    `const _es = Strings(user: 'u', password: 'old', other: 'x')`,
			rule:       Rule{Lang: "_es", Key: "password", Value: "Contraseña"},
			want:       `const _es = Strings(user: 'u', password: 'Contraseña', other: 'x')`,
			wantStatus: StatusUpdated,
			wantOld:    "old",
		},
		{
			name:       "apostrophe_is_escaped",
			content:    `const _en = Strings(headerSubtitle: 'x')`,
			rule:       Rule{Lang: "_en", Key: "headerSubtitle", Value: "I'll take you"},
			want:       `const _en = Strings(headerSubtitle: 'I\'ll take you')`,
			wantStatus: StatusUpdated,
			wantOld:    "x",
		},
		{
			name:       "already_escaped_is_unchanged",
			content:    `const _en = Strings(headerSubtitle: 'I\'ll take you')`,
			rule:       Rule{Lang: "_en", Key: "headerSubtitle", Value: "I'll take you"},
			want:       `const _en = Strings(headerSubtitle: 'I\'ll take you')`,
			wantStatus: StatusUnchanged,
			wantOld:    "I'll take you",
		},
		{
			name:       "double_quoted_becomes_single",
			content:    `const _pt = Strings(navHome: "Home")`,
			rule:       Rule{Lang: "_pt", Key: "navHome", Value: "Início"},
			want:       `const _pt = Strings(navHome: 'Início')`,
			wantStatus: StatusUpdated,
			wantOld:    "Home",
		},
		{
			name:       "missing_block",
			content:    `const _es = Strings(password: 'old')`,
			rule:       Rule{Lang: "_it", Key: "password", Value: "x"},
			want:       `const _es = Strings(password: 'old')`,
			wantStatus: StatusNotFound,
		},
		{
			name:       "missing_key_does_not_spill",
			content:    `const _es = Strings(a: 'a'); const _en = Strings(password: 'en')`,
			rule:       Rule{Lang: "_es", Key: "password", Value: "x"},
			want:       `const _es = Strings(a: 'a'); const _en = Strings(password: 'en')`,
			wantStatus: StatusNotFound,
		},
		{
			name:       "key_suffix_does_not_match",
			content:    `const _es = Strings(confirmPassword: 'c', password: 'p')`,
			rule:       Rule{Lang: "_es", Key: "password", Value: "x"},
			want:       `const _es = Strings(confirmPassword: 'c', password: 'x')`,
			wantStatus: StatusUpdated,
			wantOld:    "p",
		},
		{
			name:       "key_inside_other_literal_is_skipped",
			content:    `const _es = Strings(hint: "Type password: 'abc' here", password: 'old')`,
			rule:       Rule{Lang: "_es", Key: "password", Value: "new"},
			want:       `const _es = Strings(hint: "Type password: 'abc' here", password: 'new')`,
			wantStatus: StatusUpdated,
			wantOld:    "old",
		},
		{
			name:       "declaration_in_comment_is_skipped",
			content:    "// const _es = Strings(password: 'doc')\nconst _es = Strings(password: 'old')",
			rule:       Rule{Lang: "_es", Key: "password", Value: "new"},
			want:       "// const _es = Strings(password: 'doc')\nconst _es = Strings(password: 'new')",
			wantStatus: StatusUpdated,
			wantOld:    "old",
		},
		{
			name:       "triple_quoted_replaced_whole",
			content:    `const _es = Strings(password: '''multi''')`,
			rule:       Rule{Lang: "_es", Key: "password", Value: "new"},
			want:       `const _es = Strings(password: 'new')`,
			wantStatus: StatusUpdated,
			wantOld:    "multi",
		},
		{
			name:       "interpolation_with_quotes",
			content:    `const _es = Strings(a: '${f(')')}', password: 'old')`,
			rule:       Rule{Lang: "_es", Key: "password", Value: "new"},
			want:       `const _es = Strings(a: '${f(')')}', password: 'new')`,
			wantStatus: StatusUpdated,
			wantOld:    "old",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, outcome := ApplyRule(tt.content, tt.rule)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantStatus, outcome.Status)
			assert.Equal(t, tt.wantOld, outcome.Old)
			assert.Equal(t, tt.rule, outcome.Rule)
		})
	}
}

func TestApplyLocality(t *testing.T) {
	result := Apply(i18n, nil, []Rule{{Lang: "_es", Key: "password", Value: "Contraseña"}})

	assert.Contains(t, result.ModifiedContent, "password: 'Contraseña'")
	assert.Contains(t, result.ModifiedContent, "password: 'Password'", "other language untouched")
	assert.Equal(t,
		strings.Replace(i18n, "password: 'old'", "password: 'Contraseña'", 1),
		result.ModifiedContent,
		"only the literal should change")
}

func TestApplyIdempotent(t *testing.T) {
	rules := []Rule{
		{Lang: "_es", Key: "password", Value: "Contraseña"},
		{Lang: "_es", Key: "logout", Value: "Cerrar sesión"},
		{Lang: "_en", Key: "appTitle", Value: "Your Daily Bread's"},
	}
	fixups := []Fixup{{
		Pattern: regexp.MustCompile(`Extras usados en .+\(detalle\)`),
		Replace: "Extras usados en diálogos (detalle)",
	}}

	once := Apply(i18n, fixups, rules)
	twice := Apply(once.ModifiedContent, fixups, rules)

	assert.True(t, once.WasModified)
	assert.Equal(t, once.ModifiedContent, twice.ModifiedContent)
	assert.False(t, twice.WasModified)
	assert.Equal(t, len(rules), twice.Count(StatusUnchanged))
}

func TestApplyLaterRuleWins(t *testing.T) {
	result := Apply(i18n, nil, []Rule{
		{Lang: "_es", Key: "password", Value: "first"},
		{Lang: "_es", Key: "password", Value: "second"},
	})

	assert.Contains(t, result.ModifiedContent, "password: 'second'")
	assert.NotContains(t, result.ModifiedContent, "first")
	require.Len(t, result.Outcomes, 2)
	assert.Equal(t, "first", result.Outcomes[1].Old, "second rule sees the first rule's edit")
}

func TestApplyEmptyRulesRoundTrip(t *testing.T) {
	result := Apply(i18n, nil, nil)

	assert.Equal(t, i18n, result.ModifiedContent)
	assert.False(t, result.WasModified)
	assert.Empty(t, result.Outcomes)
}

func TestApplyNoMatchSafety(t *testing.T) {
	result := Apply(i18n, nil, []Rule{{Lang: "_es", Key: "pasword", Value: "typo"}})

	assert.Equal(t, i18n, result.ModifiedContent)
	assert.False(t, result.WasModified)
	require.Len(t, result.NotFound(), 1)
	assert.Equal(t, "_es.pasword", result.NotFound()[0].Rule.String())
}

func TestApplyFixup(t *testing.T) {
	fix := Fixup{
		Pattern: regexp.MustCompile(`Extras usados en .+\(detalle\)`),
		Replace: "Extras usados en diálogos (detalle)",
	}

	got, n := ApplyFixup(i18n, fix)
	assert.Equal(t, 1, n)
	assert.True(t, strings.HasPrefix(got, "// Extras usados en diálogos (detalle)\n"))

	got, n = ApplyFixup(got, Fixup{Pattern: regexp.MustCompile(`\$x`), Replace: "$1"})
	assert.Equal(t, 0, n)
	assert.Equal(t, strings.Replace(i18n, "dialogos del detalle (detalle)", "diálogos (detalle)", 1), got)

	got, n = ApplyFixup("a b", Fixup{Pattern: regexp.MustCompile(`b`), Replace: "$1"})
	assert.Equal(t, 1, n)
	assert.Equal(t, "a $1", got, "replacement is literal")

	got, n = ApplyFixup("a", Fixup{})
	assert.Equal(t, 0, n)
	assert.Equal(t, "a", got)
}

func TestLocalizedReplacer_ReplaceText(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		rules       []Rule
		want        string
		wantInvalid int
	}{
		{
			name:    "valid_utf8",
			content: "const _es = Strings(a: 'día')",
			rules:   []Rule{{Lang: "_es", Key: "a", Value: "noche"}},
			want:    "const _es = Strings(a: 'noche')",
		},
		{
			name:        "malformed_bytes_replaced",
			content:     "// caf\xe9\nconst _es = Strings(a: 'x')",
			rules:       []Rule{{Lang: "_es", Key: "a", Value: "y"}},
			want:        "// caf\uFFFD\nconst _es = Strings(a: 'y')",
			wantInvalid: 1,
		},
		{
			name:        "truncated_sequence_is_one_replacement",
			content:     "// \xe2\x82\nconst _es = Strings(a: 'x')",
			rules:       []Rule{{Lang: "_es", Key: "a", Value: "y"}},
			want:        "// \uFFFD\nconst _es = Strings(a: 'y')",
			wantInvalid: 1,
		},
		{
			name:    "empty_content",
			content: "",
			rules:   []Rule{{Lang: "_es", Key: "a", Value: "y"}},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replacer := NewLocalizedReplacer()
			result, err := replacer.ReplaceText(context.Background(), strings.NewReader(tt.content), nil, tt.rules)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.want, result.ModifiedContent)
			assert.Equal(t, tt.wantInvalid, result.InvalidBytes)
		})
	}
}

func TestLocalizedReplacer_ValidateRules(t *testing.T) {
	tests := []struct {
		name      string
		rules     []Rule
		wantError string
	}{
		{
			name:  "valid_rules",
			rules: []Rule{{Lang: "_es", Key: "password", Value: "Contraseña"}},
		},
		{
			name:  "empty_value_is_allowed",
			rules: []Rule{{Lang: "_es", Key: "password"}},
		},
		{
			name:      "missing_lang",
			rules:     []Rule{{Key: "password", Value: "x"}},
			wantError: "rule 0: lang is required",
		},
		{
			name:      "missing_key",
			rules:     []Rule{{Lang: "_es", Key: "a"}, {Lang: "_es", Value: "x"}},
			wantError: "rule 1: key is required",
		},
		{
			name:  "empty_rules",
			rules: []Rule{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewLocalizedReplacer().ValidateRules(tt.rules)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
		})
	}
}
