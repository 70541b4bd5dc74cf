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
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/strpatch/pkg/log"
	"github.com/walteh/strpatch/pkg/status"
	"github.com/walteh/strpatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📝 PatchOperation rewrites each target in place
type PatchOperation struct {
	*base
	dryRun bool
	strict bool

	// serializes console output so one file's lines stay together
	logMu sync.Mutex
}

// 🏭 NewPatchOperation creates a patch operation
func NewPatchOperation(opts Options) (*PatchOperation, error) {
	b, err := newBase(opts)
	if err != nil {
		return nil, err
	}
	return &PatchOperation{base: b, dryRun: opts.DryRun, strict: opts.Strict}, nil
}

// Execute implements Operation
func (op *PatchOperation) Execute(ctx context.Context) error {
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
		return op.patchFile(ctx, logger, path, fixups)
	})
}

func (op *PatchOperation) patchFile(ctx context.Context, logger *log.Logger, path string, fixups []text.Fixup) error {
	result, mode, err := load(ctx, op.replacer, path, fixups, op.ruleSet.Rules)
	if err != nil {
		return err
	}
	op.addReport(Report{Path: path, Result: result})

	op.logMu.Lock()
	defer op.logMu.Unlock()

	logOutcomes(ctx, logger, path, result, op.dryRun)

	if missing := result.NotFound(); op.strict && len(missing) > 0 {
		return errors.Errorf("%d rules did not match, first was %s", len(missing), missing[0].Rule)
	}

	if op.dryRun {
		if diff := status.FormatDiff(path, result.OriginalContent, result.ModifiedContent); diff != "" {
			logger.Raw(diff)
		} else {
			logger.Info("no changes")
		}
		return nil
	}

	// total overwrite, no backup
	if err := os.WriteFile(path, []byte(result.ModifiedContent), mode); err != nil {
		return errors.Errorf("writing %s: %w", path, err)
	}

	logger.Success(status.FormatSummary(path, result))
	return nil
}

// load reads path fully and applies the rules to it. The file is closed
// before returning so the caller can reopen it for writing.
func load(ctx context.Context, replacer text.TextReplacer, path string, fixups []text.Fixup, rules []text.Rule) (*text.ReplacementResult, os.FileMode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, 0, errors.Errorf("stat %s: %w", path, err)
	}

	ctx = zerolog.Ctx(ctx).With().Str("target", path).Logger().WithContext(ctx)
	result, err := replacer.ReplaceText(ctx, f, fixups, rules)
	if err != nil {
		return nil, 0, errors.Errorf("patching %s: %w", path, err)
	}
	return result, info.Mode().Perm(), nil
}

func logOutcomes(ctx context.Context, logger *log.Logger, path string, result *text.ReplacementResult, dryRun bool) {
	logger.StartTargetOperation(ctx, log.TargetOperation{
		Path:   path,
		Rules:  len(result.Outcomes),
		DryRun: dryRun,
	})
	defer logger.EndTargetOperation(ctx)

	if result.FixupCount > 0 {
		logger.Infof("%d fixup matches replaced", result.FixupCount)
	}
	if result.InvalidBytes > 0 {
		logger.Warningf("%d malformed utf-8 sequences replaced with U+FFFD", result.InvalidBytes)
	}

	for _, o := range result.Outcomes {
		logger.LogRuleOperation(ctx, log.RuleOperation{
			Lang:       o.Rule.Lang,
			Key:        o.Rule.Key,
			Status:     o.Status.String(),
			Old:        o.Old,
			New:        o.Rule.Value,
			IsUpdated:  o.Status == text.StatusUpdated,
			IsNotFound: o.Status == text.StatusNotFound,
		})
	}

	missing := result.NotFound()
	for i, reason := range missingReasons(result.ModifiedContent, missing) {
		logger.Warningf("%s did not match any literal in %s (%s)", missing[i].Rule, path, reason)
	}
}
