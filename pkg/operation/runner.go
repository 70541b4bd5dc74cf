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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is used when Options.Concurrency is unset
const DefaultConcurrency = 4

// 🏃 Runner processes target files. Each file is handled start to finish by
// one goroutine; distinct files may run in parallel.
type Runner struct {
	limit int
}

// 🏗️ NewRunner creates a new runner
func NewRunner(limit int) *Runner {
	if limit < 1 {
		limit = DefaultConcurrency
	}
	return &Runner{limit: limit}
}

// 🏃 Run calls fn for every target and returns the first error
func (r *Runner) Run(ctx context.Context, targets []string, fn func(ctx context.Context, path string) error) error {
	logger := zerolog.Ctx(ctx)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)

	for _, target := range targets {
		target := target
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return errors.Errorf("operation cancelled before %s: %w", target, err)
			}
			logger.Debug().Str("target", target).Msg("processing target")
			if err := fn(ctx, target); err != nil {
				return errors.Errorf("%s: %w", target, err)
			}
			return nil
		})
	}

	return g.Wait()
}
