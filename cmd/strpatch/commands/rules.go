package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/strpatch/cmd/strpatch/opts"
	"github.com/walteh/strpatch/pkg/log"
	"github.com/walteh/strpatch/pkg/status"
)

// NewRulesCmd creates a new rules command
func NewRulesCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the loaded rule set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.FromContext(ctx)

			rs, err := o.LoadRuleSet(ctx)
			if err != nil {
				return err
			}

			table, err := status.RenderRules(rs.Rules)
			if err != nil {
				return err
			}

			logger.Header(rs.String())
			for _, f := range rs.Fixups {
				logger.Infof("fixup %q -> %q", f.Pattern, f.Replace)
			}
			logger.Raw(table)
			logger.LogNewline()
			return nil
		},
	}

	return cmd
}
