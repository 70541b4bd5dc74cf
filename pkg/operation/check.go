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
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/walteh/strpatch/pkg/dartstr"
	"github.com/walteh/strpatch/pkg/log"
	"github.com/walteh/strpatch/pkg/status"
	"github.com/walteh/strpatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔍 CheckOperation reports what a patch would do without writing. It fails
// when any rule matches nothing.
type CheckOperation struct {
	*base

	logMu sync.Mutex
}

// 🏭 NewCheckOperation creates a check operation
func NewCheckOperation(opts Options) (*CheckOperation, error) {
	b, err := newBase(opts)
	if err != nil {
		return nil, err
	}
	return &CheckOperation{base: b}, nil
}

// Execute implements Operation
func (op *CheckOperation) Execute(ctx context.Context) error {
	targets, err := ResolveTargets(op.target)
	if err != nil {
		return errors.Errorf("resolving targets: %w", err)
	}

	fixups, err := op.ruleSet.CompileFixups()
	if err != nil {
		return errors.Errorf("compiling fixups: %w", err)
	}

	logger := log.FromContext(ctx)
	return NewRunner(op.concurrency).Run(ctx, targets, func(ctx context.Context, path string) error {
		result, _, err := load(ctx, op.replacer, path, fixups, op.ruleSet.Rules)
		if err != nil {
			return err
		}
		op.addReport(Report{Path: path, Result: result})

		table, err := status.RenderOutcomes(result)
		if err != nil {
			return err
		}

		op.logMu.Lock()
		defer op.logMu.Unlock()

		logger.Header(path)
		logger.Raw(table)
		logger.LogNewline()

		missing := result.NotFound()
		if len(missing) == 0 {
			logger.Successf("%s: all %d rules match", path, len(result.Outcomes))
			return nil
		}
		for i, reason := range missingReasons(result.ModifiedContent, missing) {
			logger.Warningf("%s: %s", missing[i].Rule, reason)
		}
		return errors.Errorf("%d rules did not match, first was %s", len(missing), missing[0].Rule)
	})
}

// missingReasons explains each unmatched rule from the tables parsed out of
// content. The result is parallel to missing.
func missingReasons(content string, missing []text.Outcome) []string {
	if len(missing) == 0 {
		return nil
	}

	values := dartstr.Values(dartstr.Parse(content))
	langs := make([]string, 0, len(values))
	for lang := range values {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	found := "found none"
	if len(langs) > 0 {
		found = "found " + strings.Join(langs, ", ")
	}

	out := make([]string, 0, len(missing))
	for _, o := range missing {
		if _, ok := values[o.Rule.Lang]; !ok {
			out = append(out, fmt.Sprintf("no %s table, %s", o.Rule.Lang, found))
			continue
		}
		out = append(out, fmt.Sprintf("%s has no %s entry", o.Rule.Lang, o.Rule.Key))
	}
	return out
}
