package opts

import (
	"context"

	"github.com/walteh/strpatch/pkg/config"
	"github.com/walteh/strpatch/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// RulesFile is the rule file path, empty for the built-in set
	RulesFile string
	// Target overrides the rule set's target
	Target string
	// Debug enables debug logging
	Debug bool
	// Logger is the console logger
	Logger *log.Logger
}

// LoadRuleSet loads the rule set named by RulesFile
func (o *RootOpts) LoadRuleSet(ctx context.Context) (*config.RuleSet, error) {
	rs, err := config.Load(ctx, o.RulesFile)
	if err != nil {
		return nil, errors.Errorf("loading rules: %w", err)
	}
	return rs, nil
}
