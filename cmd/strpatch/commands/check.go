package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/strpatch/cmd/strpatch/opts"
	"github.com/walteh/strpatch/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewCheckCmd creates a new check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report which rules would change the target",
		Long: `Check applies the rule set in memory and prints one row per rule.
The target is never written. Exits non-zero if any rule matches nothing,
which usually means a mistyped key or language tag.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "check").Logger().WithContext(ctx)

			rs, err := o.LoadRuleSet(ctx)
			if err != nil {
				return err
			}

			var op operation.Operation
			op, err = operation.NewCheckOperation(operation.Options{
				RuleSet: rs,
				Target:  o.Target,
			})
			if err != nil {
				return errors.Errorf("creating check operation: %w", err)
			}

			if err := op.Execute(ctx); err != nil {
				return errors.Errorf("checking: %w", err)
			}

			return nil
		},
	}

	return cmd
}
