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
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/strpatch/pkg/config"
	"github.com/walteh/strpatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is a unit of work the CLI runs. Console output goes to the
// log.Logger carried by ctx.
type Operation interface {
	Execute(ctx context.Context) error
}

// 🔧 Options contains configuration for patch and check operations
type Options struct {
	// RuleSet is the loaded rule set
	RuleSet *config.RuleSet
	// Target overrides RuleSet.Target when set; may be a glob
	Target string
	// DryRun prints a diff instead of writing
	DryRun bool
	// Strict fails a target when any rule matches nothing
	Strict bool
	// Concurrency bounds how many files are processed at once
	Concurrency int
	// Replacer applies the rules, defaults to text.LocalizedReplacer
	Replacer text.TextReplacer
}

// 📄 Report is the result for one target file
type Report struct {
	Path   string
	Result *text.ReplacementResult
}

// base holds what patch and check operations share
type base struct {
	ruleSet     *config.RuleSet
	target      string
	concurrency int
	replacer    text.TextReplacer

	mu      sync.Mutex
	reports []Report
}

func newBase(opts Options) (*base, error) {
	if opts.RuleSet == nil {
		return nil, errors.Errorf("rule set is required")
	}

	b := &base{
		ruleSet:     opts.RuleSet,
		target:      opts.RuleSet.Target,
		concurrency: opts.Concurrency,
		replacer:    opts.Replacer,
	}
	if opts.Target != "" {
		b.target = opts.Target
	}
	if b.target == "" {
		return nil, errors.Errorf("target is required")
	}
	if b.replacer == nil {
		b.replacer = text.NewLocalizedReplacer()
	}
	return b, nil
}

// Reports returns one report per processed target, sorted by path
func (b *base) Reports() []Report {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Report, len(b.reports))
	copy(out, b.reports)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func (b *base) addReport(r Report) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reports = append(b.reports, r)
}

// 🔍 ResolveTargets expands a glob into matching files. A plain path is
// returned as is, even if it does not exist yet.
func ResolveTargets(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		return []string{pattern}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("expanding %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, errors.Errorf("no files match %q", pattern)
	}

	sort.Strings(matches)
	return matches, nil
}
