package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"voltctl/internal/preflight"
)

var errCheckFailed = errors.New("one or more checks failed")

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check configuration and driver readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			gate, err := ctx.ensureGate()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			configSource := ctx.configPath
			if !ctx.configSeen {
				configSource = "defaults (no config file found)"
			}
			lines := renderSectionHeader("voltctl check", colorize)
			lines = append(lines, renderStatusLine("Config", statusInfo, configSource, colorize))

			results := preflight.RunAll(cmd.Context(), cfg, gate)
			lines = append(lines, resultLines(results, colorize)...)
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			if preflight.Failed(results) {
				return errCheckFailed
			}
			return nil
		},
	}
}
