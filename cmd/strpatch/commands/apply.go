package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/strpatch/cmd/strpatch/opts"
	"github.com/walteh/strpatch/pkg/log"
	"github.com/walteh/strpatch/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// ApplyFlags are the flags specific to apply
type ApplyFlags struct {
	DryRun bool
	Strict bool
}

// AddApplyFlags registers the apply flags on cmd
func AddApplyFlags(cmd *cobra.Command, f *ApplyFlags) {
	cmd.Flags().BoolVar(&f.DryRun, "dry-run", false, "print a diff instead of writing")
	cmd.Flags().BoolVar(&f.Strict, "strict", false, "fail when a rule matches nothing")
}

// NewApplyCmd creates a new apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	f := &ApplyFlags{}
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Rewrite localized string literals in place",
		Long: `Apply rewrites the target file using the loaded rule set.
It will:
1. Read the target, replacing malformed UTF-8 with U+FFFD
2. Run every fixup pattern
3. Apply each rule in order to the matching language block
4. Write the whole file back`,
		Args: cobra.NoArgs,
		RunE: RunApply(o, f),
	}

	AddApplyFlags(cmd, f)
	return cmd
}

// RunApply returns the apply RunE bound to o and f
func RunApply(o *opts.RootOpts, f *ApplyFlags) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ctx = zerolog.Ctx(ctx).With().Str("command", "apply").Logger().WithContext(ctx)

		rs, err := o.LoadRuleSet(ctx)
		if err != nil {
			return err
		}

		var op operation.Operation
		op, err = operation.NewPatchOperation(operation.Options{
			RuleSet: rs,
			Target:  o.Target,
			DryRun:  f.DryRun,
			Strict:  f.Strict,
		})
		if err != nil {
			return errors.Errorf("creating patch operation: %w", err)
		}

		log.FromContext(ctx).Header("patching localized strings")
		if err := op.Execute(ctx); err != nil {
			return errors.Errorf("patching: %w", err)
		}

		return nil
	}
}
