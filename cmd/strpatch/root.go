package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/strpatch/cmd/strpatch/commands"
	"github.com/walteh/strpatch/cmd/strpatch/opts"
	"github.com/walteh/strpatch/pkg/log"
)

// newRootCmd builds the command tree. Running the root without a
// subcommand is the same as apply.
func newRootCmd(o *opts.RootOpts) *cobra.Command {
	applyFlags := &commands.ApplyFlags{}

	cmd := &cobra.Command{
		Use:   "strpatch",
		Short: "Rewrite localized string constants in a generated Dart file",
		Long: `strpatch rewrites hard-coded localized strings inside the
const _xx = Strings(...) blocks of a generated i18n.dart file.
Without --rules the built-in correction list is applied.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(o.Debug)
			cmd.SetContext(log.NewContext(cmd.Context(), o.Logger))
		},
		RunE: commands.RunApply(o, applyFlags),
	}

	addRootFlags(cmd, o)
	commands.AddApplyFlags(cmd, applyFlags)

	cmd.AddCommand(
		commands.NewApplyCmd(o),
		commands.NewCheckCmd(o),
		commands.NewRulesCmd(o),
		newVersionCmd(o),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.RulesFile, "rules", "r", os.Getenv("STRPATCH_RULES"), "rule file (.hcl, .yaml, .json); empty uses the built-in rules")
	cmd.PersistentFlags().StringVarP(&o.Target, "target", "t", os.Getenv("STRPATCH_TARGET"), "file or glob to patch, overrides the rule file's target")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func newVersionCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			log.FromContext(cmd.Context()).Raw(FormatVersion(cmd.Context()))
		},
	}
}
