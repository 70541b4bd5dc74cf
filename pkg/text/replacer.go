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
	"regexp"
)

// Rule replaces the literal stored under Key in the Lang block
type Rule struct {
	// Lang is the block's language tag, e.g. "_es"
	Lang string `json:"lang" yaml:"lang"`

	// Key is the field name inside the block
	Key string `json:"key" yaml:"key"`

	// Value is the new, unescaped string value
	Value string `json:"value" yaml:"value"`
}

// String returns "lang.key"
func (r Rule) String() string {
	return r.Lang + "." + r.Key
}

// Fixup is an unconditional pattern replacement applied before any rule.
// Replace is inserted literally, `$` is not expanded.
type Fixup struct {
	Pattern *regexp.Regexp
	Replace string
}

// Status is what happened to a single rule
type Status int

const (
	// StatusUpdated means the literal was rewritten
	StatusUpdated Status = iota
	// StatusUnchanged means the literal already held the value
	StatusUnchanged
	// StatusNotFound means the block or key was not present
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusUpdated:
		return "updated"
	case StatusUnchanged:
		return "unchanged"
	case StatusNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Outcome records how a rule applied to the buffer it saw
type Outcome struct {
	Rule   Rule
	Status Status

	// Old is the decoded value before the rule ran, empty when not found
	Old string
}

// ReplacementResult contains the results of a patch run
type ReplacementResult struct {
	// WasModified indicates if the content changed at all
	WasModified bool

	// FixupCount is the number of fixup matches replaced
	FixupCount int

	// Outcomes holds one entry per rule, in rule order
	Outcomes []Outcome

	// OriginalContent is the content before any replacement
	OriginalContent string

	// ModifiedContent is the content after all replacements
	ModifiedContent string

	// InvalidBytes counts malformed UTF-8 sequences replaced while decoding
	InvalidBytes int
}

// Count returns how many outcomes have the given status
func (r *ReplacementResult) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// NotFound returns the outcomes whose rule matched nothing
func (r *ReplacementResult) NotFound() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == StatusNotFound {
			out = append(out, o)
		}
	}
	return out
}

// TextReplacer defines the interface for localized string patching
type TextReplacer interface {
	// ReplaceText decodes content and applies fixups then rules, in order
	ReplaceText(ctx context.Context, content io.Reader, fixups []Fixup, rules []Rule) (*ReplacementResult, error)

	// ValidateRules checks that all rules are usable
	ValidateRules(rules []Rule) error
}
