package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"voltctl/internal/offsets"
)

func newApplyCommand(ctx *commandContext) *cobra.Command {
	var commit bool

	cmd := &cobra.Command{
		Use:   "apply <profile>",
		Short: "Stage or commit a configured offset profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			profile, err := cfg.Profile(args[0])
			if err != nil {
				return err
			}
			req, err := offsets.FromProfile(profile.Offsets, offsets.Policy{
				MaxOffsetMV:   cfg.Safety.MaxOffsetMV,
				AllowOvervolt: cfg.Safety.AllowOvervolt || profile.AllowOvervolt,
			})
			if err != nil {
				return fmt.Errorf("profile %q: %w", args[0], err)
			}
			if req.Empty() {
				return fmt.Errorf("profile %q has no offsets", args[0])
			}
			req.Commit = commit
			return runRequest(cmd, ctx, req)
		},
	}

	cmd.Flags().BoolVar(&commit, "commit", false, "Write the offsets instead of only staging them")
	return cmd
}
