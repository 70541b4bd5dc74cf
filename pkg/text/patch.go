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
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/strpatch/pkg/dartstr"
	"gitlab.com/tozd/go/errors"
)

// LocalizedReplacer implements TextReplacer for Dart Strings(...) blocks
type LocalizedReplacer struct{}

// NewLocalizedReplacer creates a new LocalizedReplacer
func NewLocalizedReplacer() *LocalizedReplacer {
	return &LocalizedReplacer{}
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *LocalizedReplacer) ReplaceText(ctx context.Context, content io.Reader, fixups []Fixup, rules []Rule) (*ReplacementResult, error) {
	buffer, invalid, err := Decode(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}
	if invalid > 0 {
		zerolog.Ctx(ctx).Debug().Int("invalid_bytes", invalid).Msg("replaced malformed utf-8")
	}

	result := Apply(buffer, fixups, rules)
	result.InvalidBytes = invalid
	return result, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *LocalizedReplacer) ValidateRules(rules []Rule) error {
	for i, rule := range rules {
		if rule.Lang == "" {
			return errors.Errorf("rule %d: lang is required", i)
		}
		if rule.Key == "" {
			return errors.Errorf("rule %d: key is required", i)
		}
	}
	return nil
}

// Apply runs every fixup, then folds rules over the buffer in order. Each
// rule sees the buffer left by the previous one.
func Apply(buffer string, fixups []Fixup, rules []Rule) *ReplacementResult {
	result := &ReplacementResult{
		OriginalContent: buffer,
		Outcomes:        make([]Outcome, 0, len(rules)),
	}

	current := buffer
	for _, f := range fixups {
		var n int
		current, n = ApplyFixup(current, f)
		result.FixupCount += n
	}

	for _, rule := range rules {
		var outcome Outcome
		current, outcome = ApplyRule(current, rule)
		result.Outcomes = append(result.Outcomes, outcome)
	}

	result.ModifiedContent = current
	result.WasModified = current != buffer
	return result
}

// ApplyFixup replaces every match of f.Pattern with f.Replace
func ApplyFixup(buffer string, f Fixup) (string, int) {
	if f.Pattern == nil {
		return buffer, 0
	}
	n := len(f.Pattern.FindAllStringIndex(buffer, -1))
	if n == 0 {
		return buffer, 0
	}
	return f.Pattern.ReplaceAllLiteralString(buffer, f.Replace), n
}

// ApplyRule rewrites the first literal for rule.Key inside the rule.Lang
// block. Only the literal changes; a miss returns buffer untouched.
func ApplyRule(buffer string, rule Rule) (string, Outcome) {
	outcome := Outcome{Rule: rule, Status: StatusNotFound}

	block, ok := dartstr.FindBlock(buffer, rule.Lang)
	if !ok {
		return buffer, outcome
	}
	field, ok := block.Field(buffer, rule.Key)
	if !ok {
		return buffer, outcome
	}

	outcome.Old = field.Value
	lit := dartstr.Quote(rule.Value)
	if field.Raw == lit {
		outcome.Status = StatusUnchanged
		return buffer, outcome
	}

	outcome.Status = StatusUpdated
	return buffer[:field.Start] + lit + buffer[field.End:], outcome
}
