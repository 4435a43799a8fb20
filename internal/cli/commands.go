package cli

import (
	"github.com/spf13/cobra"
	"github.com/vk/macroport/internal/app"
	"github.com/xyproto/env/v2"
)

func newRootCommand(o *options) *cobra.Command {
	// env caches the environment on first use; defaults follow the current one.
	env.Load()

	root := &cobra.Command{
		Use:   "macroport",
		Short: "Port MACRO-10 6502 sources to ca65 and flatten them per platform",
		Long: `Macroport converts a 6502 source written for the MACRO-10 cross
assembler into ca65 syntax, and resolves the configuration directives of
the converted source for one platform.

  macroport translate basic.mac basic.s
  macroport resolve basic.s kim.s REALIO=1
  macroport target commodore basic.s cbm.s --variant noextio

Tables for all three commands are built in. Use --profile to replace
sections of them with HCL files of your own.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&o.logLevel, "log-level", defaultLogLevel(), "Set the logging level. Options: 'debug', 'info', 'warn', 'error'. Env: MACROPORT_LOG_LEVEL.")
	flags.StringVar(&o.logFormat, "log-format", defaultLogFormat(), "Log output format. Options: 'text' or 'json'. Env: MACROPORT_LOG_FORMAT.")
	flags.StringArrayVar(&o.profiles, "profile", nil, "HCL profile file or directory applied over the built-in tables. Repeatable.")
	flags.IntVar(&o.maxPasses, "max-passes", defaultMaxPasses(), "Cap on fixed-point passes; 0 uses the profile value. Env: MACROPORT_MAX_PASSES.")

	root.AddCommand(
		newTranslateCommand(o),
		newResolveCommand(o),
		newTargetCommand(o),
	)
	return root
}

func newTranslateCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "translate IN OUT",
		Short: "Convert a MACRO-10 source to ca65 syntax",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.build(app.Config{
				Command: app.CommandTranslate,
				In:      args[0],
				Out:     args[1],
			})
		},
	}
}

func newResolveCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve IN OUT NAME=VALUE...",
		Short: "Flatten a converted source for the symbol values given",
		Long: `Resolve evaluates the .IF directives of a converted source against the
symbols given on the command line and the assignments found in the
source. The platform selector (REALIO by default) must be given.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := app.ParseOverrides(args[2:])
			if err != nil {
				return usageError(err)
			}
			return o.build(app.Config{
				Command:   app.CommandResolve,
				In:        args[0],
				Out:       args[1],
				Overrides: overrides,
			})
		},
	}
}

func newTargetCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "target NAME IN OUT",
		Short: "Flatten a converted source with the fixed conditions of a target",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.build(app.Config{
				Command:  app.CommandTarget,
				Target:   args[0],
				In:       args[1],
				Out:      args[2],
				Variants: o.variants,
			})
		},
	}
	cmd.Flags().StringSliceVar(&o.variants, "variant", nil, "Target variant to apply, e.g. extio or noextio. Defaults to the target's default variants.")
	return cmd
}
