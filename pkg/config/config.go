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

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog"
	"github.com/walteh/strpatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// DefaultTarget is the file the built-in rule set patches
const DefaultTarget = "lib/core/i18n.dart"

//go:embed defaults/i18n.hcl
var defaultRuleSet []byte

// 🔌 Parser is the interface for rule set parsers
type Parser interface {
	// 📝 Parse parses the rule set from bytes
	Parse(ctx context.Context, data []byte) (*RuleSet, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 FixupSpec is an unconditional regexp replacement, as written in a rule file
type FixupSpec struct {
	Pattern string `json:"pattern" yaml:"pattern" hcl:"pattern"`
	Replace string `json:"replace" yaml:"replace" hcl:"replace"`
}

// 📚 RuleSet is everything one patch run needs
type RuleSet struct {
	Target string      `json:"target" yaml:"target"`
	Fixups []FixupSpec `json:"fixups,omitempty" yaml:"fixups,omitempty"`
	Rules  []text.Rule `json:"rules" yaml:"rules"`
}

// 🎯 Load loads a rule set from a file. An empty path yields the built-in set.
func Load(ctx context.Context, path string) (*RuleSet, error) {
	if path == "" {
		return Default(ctx)
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading rule set")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading rule file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	rs, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing rule file: %w", err)
	}

	if rs.Target == "" {
		rs.Target = DefaultTarget
	}

	if err := rs.Validate(); err != nil {
		return nil, errors.Errorf("validating rule file: %w", err)
	}

	logger.Debug().Int("rules", len(rs.Rules)).Int("fixups", len(rs.Fixups)).Msg("rule set loaded")
	return rs, nil
}

// 📦 Default returns the embedded rule set
func Default(ctx context.Context) (*RuleSet, error) {
	rs, err := (&HCLParser{}).Parse(ctx, defaultRuleSet)
	if err != nil {
		return nil, errors.Errorf("parsing default rule set: %w", err)
	}
	if err := rs.Validate(); err != nil {
		return nil, errors.Errorf("validating default rule set: %w", err)
	}
	return rs, nil
}

// 🔍 Validate checks that the rule set is usable
func (rs *RuleSet) Validate() error {
	if rs.Target == "" {
		return errors.Errorf("target is required")
	}
	rs.Target = filepath.Clean(rs.Target)

	if err := text.NewLocalizedReplacer().ValidateRules(rs.Rules); err != nil {
		return err
	}

	for i, f := range rs.Fixups {
		if f.Pattern == "" {
			return errors.Errorf("fixup %d: pattern is required", i)
		}
		if _, err := regexp.Compile(f.Pattern); err != nil {
			return errors.Errorf("fixup %d: compiling pattern: %w", i, err)
		}
	}

	return nil
}

// 🔧 CompileFixups turns the fixup specs into text.Fixup values
func (rs *RuleSet) CompileFixups() ([]text.Fixup, error) {
	out := make([]text.Fixup, 0, len(rs.Fixups))
	for i, f := range rs.Fixups {
		re, err := regexp.Compile(f.Pattern)
		if err != nil {
			return nil, errors.Errorf("fixup %d: compiling pattern: %w", i, err)
		}
		out = append(out, text.Fixup{Pattern: re, Replace: f.Replace})
	}
	return out, nil
}

// 🗂️ Languages returns the language tags in first-seen order
func (rs *RuleSet) Languages() []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range rs.Rules {
		if !seen[r.Lang] {
			seen[r.Lang] = true
			out = append(out, r.Lang)
		}
	}
	return out
}

// 📝 String returns a string representation of the rule set
func (rs *RuleSet) String() string {
	return fmt.Sprintf("%s: %d rules, %d fixups", rs.Target, len(rs.Rules), len(rs.Fixups))
}
