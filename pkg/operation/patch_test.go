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

package operation

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/strpatch/pkg/config"
	"github.com/walteh/strpatch/pkg/log"
	"github.com/walteh/strpatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

const i18n = `// Extras usados en cosas varias (detalle)
const _es = Strings(
  password: 'old',
  logout: 'Salir',
);

const _en = Strings(
  password: 'Password',
  headerSubtitle: 'Choose',
);
`

// 🔧 MockReplacer is a mock implementation of text.TextReplacer
type MockReplacer struct {
	mock.Mock
}

func (m *MockReplacer) ReplaceText(ctx context.Context, content io.Reader, fixups []text.Fixup, rules []text.Rule) (*text.ReplacementResult, error) {
	result := m.Called(ctx, content, fixups, rules)
	res, _ := result.Get(0).(*text.ReplacementResult)
	return res, result.Error(1)
}

func (m *MockReplacer) ValidateRules(rules []text.Rule) error {
	return m.Called(rules).Error(0)
}

func testRuleSet(target string) *config.RuleSet {
	return &config.RuleSet{
		Target: target,
		Fixups: []config.FixupSpec{{
			Pattern: `Extras usados en .+\(detalle\)`,
			Replace: "Extras usados en diálogos (detalle)",
		}},
		Rules: []text.Rule{
			{Lang: "_es", Key: "password", Value: "Contraseña"},
			{Lang: "_en", Key: "headerSubtitle", Value: "Choose how you feel today. I'll take you there."},
		},
	}
}

func writeTarget(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0640))
	return path
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func consoleContext(t *testing.T, console io.Writer) context.Context {
	return log.NewContext(testContext(t), log.New(console, zerolog.Nop()))
}

func TestPatchOperation(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	path := writeTarget(t, t.TempDir(), "lib/core/i18n.dart", i18n)
	console := &bytes.Buffer{}

	op, err := NewPatchOperation(Options{RuleSet: testRuleSet(path)})
	require.NoError(t, err)
	require.NoError(t, op.Execute(consoleContext(t, console)))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(got), "// Extras usados en diálogos (detalle)")
	assert.Contains(t, string(got), "password: 'Contraseña'")
	assert.Contains(t, string(got), "password: 'Password'", "english password untouched")
	assert.Contains(t, string(got), `headerSubtitle: 'Choose how you feel today. I\'ll take you there.'`)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm(), "file mode preserved")

	reports := op.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, path, reports[0].Path)
	assert.Equal(t, 2, reports[0].Result.Count(text.StatusUpdated))
	assert.Contains(t, console.String(), "fixed "+path)

	// a second run changes nothing
	op, err = NewPatchOperation(Options{RuleSet: testRuleSet(path)})
	require.NoError(t, err)
	require.NoError(t, op.Execute(testContext(t)))
	again, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(got), string(again))
	assert.Equal(t, 2, op.Reports()[0].Result.Count(text.StatusUnchanged))
}

func TestPatchOperationDryRun(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	path := writeTarget(t, t.TempDir(), "i18n.dart", i18n)
	console := &bytes.Buffer{}

	op, err := NewPatchOperation(Options{
		RuleSet: testRuleSet(path),
		DryRun:  true,
	})
	require.NoError(t, err)
	require.NoError(t, op.Execute(consoleContext(t, console)))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, i18n, string(got), "dry run must not write")
	assert.Contains(t, console.String(), "-  password: 'old',")
	assert.Contains(t, console.String(), "+  password: 'Contraseña',")
}

func TestPatchOperationNotFound(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	rs := testRuleSet("")
	rs.Rules = append(rs.Rules, text.Rule{Lang: "_es", Key: "pasword", Value: "typo"})

	t.Run("lenient_writes_and_warns", func(t *testing.T) {
		path := writeTarget(t, t.TempDir(), "i18n.dart", i18n)
		console := &bytes.Buffer{}

		op, err := NewPatchOperation(Options{RuleSet: rs, Target: path})
		require.NoError(t, err)
		require.NoError(t, op.Execute(consoleContext(t, console)))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(got), "password: 'Contraseña'")
		assert.Contains(t, console.String(), "_es.pasword did not match any literal")
		assert.Contains(t, console.String(), "(_es has no pasword entry)")
	})

	t.Run("strict_fails_without_writing", func(t *testing.T) {
		path := writeTarget(t, t.TempDir(), "i18n.dart", i18n)

		op, err := NewPatchOperation(Options{RuleSet: rs, Target: path, Strict: true})
		require.NoError(t, err)
		err = op.Execute(testContext(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 rules did not match, first was _es.pasword")

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, i18n, string(got))
	})
}

func TestPatchOperationGlob(t *testing.T) {
	dir := t.TempDir()
	a := writeTarget(t, dir, "app_a/lib/i18n.dart", i18n)
	b := writeTarget(t, dir, "app_b/lib/i18n.dart", i18n)
	writeTarget(t, dir, "app_b/lib/other.dart", i18n)

	op, err := NewPatchOperation(Options{
		RuleSet:     testRuleSet(filepath.Join(dir, "**", "i18n.dart")),
		Concurrency: 2,
	})
	require.NoError(t, err)
	require.NoError(t, op.Execute(testContext(t)))

	reports := op.Reports()
	require.Len(t, reports, 2)
	assert.Equal(t, a, reports[0].Path)
	assert.Equal(t, b, reports[1].Path)

	other, err := os.ReadFile(filepath.Join(dir, "app_b/lib/other.dart"))
	require.NoError(t, err)
	assert.Equal(t, i18n, string(other), "non-matching files untouched")
}

func TestPatchOperationErrors(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		op, err := NewPatchOperation(Options{RuleSet: testRuleSet(filepath.Join(t.TempDir(), "nope.dart"))})
		require.NoError(t, err)
		err = op.Execute(testContext(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "opening")
	})

	t.Run("glob_without_matches", func(t *testing.T) {
		op, err := NewPatchOperation(Options{RuleSet: testRuleSet(filepath.Join(t.TempDir(), "*.dart"))})
		require.NoError(t, err)
		err = op.Execute(testContext(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no files match")
	})

	t.Run("replacer_error", func(t *testing.T) {
		path := writeTarget(t, t.TempDir(), "i18n.dart", i18n)
		replacer := &MockReplacer{}
		replacer.On("ReplaceText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("boom"))

		op, err := NewPatchOperation(Options{RuleSet: testRuleSet(path), Replacer: replacer})
		require.NoError(t, err)
		err = op.Execute(testContext(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
		replacer.AssertExpectations(t)
	})

	t.Run("nil_rule_set", func(t *testing.T) {
		_, err := NewPatchOperation(Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rule set is required")
	})

	t.Run("cancelled_context", func(t *testing.T) {
		path := writeTarget(t, t.TempDir(), "i18n.dart", i18n)
		ctx, cancel := context.WithCancel(testContext(t))
		cancel()

		op, err := NewPatchOperation(Options{RuleSet: testRuleSet(path)})
		require.NoError(t, err)
		err = op.Execute(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCheckOperation(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	path := writeTarget(t, t.TempDir(), "i18n.dart", i18n)

	op, err := NewCheckOperation(Options{RuleSet: testRuleSet(path)})
	require.NoError(t, err)
	require.NoError(t, op.Execute(testContext(t)))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, i18n, string(got), "check never writes")

	rs := testRuleSet(path)
	rs.Rules = append(rs.Rules,
		text.Rule{Lang: "_it", Key: "password", Value: "x"},
		text.Rule{Lang: "_en", Key: "logout", Value: "Sign out"},
	)
	console := &bytes.Buffer{}
	op, err = NewCheckOperation(Options{RuleSet: rs})
	require.NoError(t, err)
	err = op.Execute(consoleContext(t, console))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 rules did not match, first was _it.password")
	assert.Contains(t, console.String(), "_it.password: no _it table, found _en, _es")
	assert.Contains(t, console.String(), "_en.logout: _en has no logout entry")
}

func TestMissingReasons(t *testing.T) {
	missing := []text.Outcome{
		{Rule: text.Rule{Lang: "_pt", Key: "password"}, Status: text.StatusNotFound},
		{Rule: text.Rule{Lang: "_es", Key: "pasword"}, Status: text.StatusNotFound},
	}

	got := missingReasons(i18n, missing)
	assert.Equal(t, []string{
		"no _pt table, found _en, _es",
		"_es has no pasword entry",
	}, got)

	got = missingReasons("// nothing here", missing[:1])
	assert.Equal(t, []string{"no _pt table, found none"}, got)

	assert.Nil(t, missingReasons(i18n, nil))
}

func TestResolveTargets(t *testing.T) {
	dir := t.TempDir()
	writeTarget(t, dir, "b.dart", "")
	writeTarget(t, dir, "a.dart", "")

	got, err := ResolveTargets("plain/path.dart")
	require.NoError(t, err)
	assert.Equal(t, []string{"plain/path.dart"}, got)

	got, err = ResolveTargets(filepath.Join(dir, "*.dart"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.dart"), filepath.Join(dir, "b.dart")}, got)
}
