package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(deps dependencies) *cobra.Command {
	var flags globalFlags

	ctx := newCommandContext(&flags, deps)

	rootCmd := &cobra.Command{
		Use:           "voltctl",
		Short:         "Read and write Intel CPU voltage offsets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&flags.backend, "backend", "", "Driver backend: auto, winring0, or devmsr")
	rootCmd.PersistentFlags().IntVar(&flags.cpu, "cpu", -1, "Logical CPU for the devmsr backend")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, or error")

	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newSetCommand(ctx))
	rootCmd.AddCommand(newApplyCommand(ctx))
	rootCmd.AddCommand(newPlanesCommand())
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
