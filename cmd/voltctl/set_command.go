package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"voltctl/internal/logging"
	"voltctl/internal/msr"
	"voltctl/internal/offsets"
)

const setUsage = "set [--allow-overvolt] [--commit] (plane offset_mv)..."

// globalFlagNames maps the root persistent flags that set accepts inline.
var globalFlagNames = map[string]string{
	"--config":    "config",
	"-c":          "config",
	"--backend":   "backend",
	"--cpu":       "cpu",
	"--log-level": "log-level",
}

func newSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   setUsage,
		Short: "Stage or commit voltage offsets",
		Long: `Stage voltage offsets for one or more planes and, with --commit, write them.

Planes are numbers 0-4 or keys (cpu_core, gpu_core, cpu_cache, system_agent,
gpu_uncore). Offsets are millivolts; negative values undervolt. Positive values
require --allow-overvolt. Without --commit nothing is written.`,
		Example: `  voltctl set 0 -100 2 -100
  voltctl set --commit 0 -100 1 -50`,
		// Negative offsets look like shorthand flags to pflag.
		DisableFlagParsing: true,
		Annotations:        map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rest, help, err := extractGlobalFlags(cmd, args)
			if err != nil {
				return err
			}
			if help {
				return cmd.Help()
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			req, err := offsets.ParseArgs(rest, offsets.Policy{
				MaxOffsetMV:   cfg.Safety.MaxOffsetMV,
				AllowOvervolt: cfg.Safety.AllowOvervolt,
			})
			if err == nil && req.Empty() {
				err = fmt.Errorf("%w: no plane offsets given", offsets.ErrUsage)
			}
			if errors.Is(err, offsets.ErrUsage) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Usage: voltctl %s\n", setUsage)
			}
			if err != nil {
				return err
			}
			return runRequest(cmd, ctx, req)
		},
	}
}

// extractGlobalFlags applies inline root flags and returns the remaining
// arguments for the offset parser.
func extractGlobalFlags(cmd *cobra.Command, args []string) ([]string, bool, error) {
	persistent := cmd.Root().PersistentFlags()
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "-h" || arg == "--help" {
			return nil, true, nil
		}
		token, value, hasValue := strings.Cut(arg, "=")
		name, ok := globalFlagNames[token]
		if !ok {
			rest = append(rest, arg)
			continue
		}
		if !hasValue {
			i++
			if i >= len(args) {
				return nil, false, fmt.Errorf("flag needs an argument: %s", token)
			}
			value = args[i]
		}
		if err := persistent.Set(name, value); err != nil {
			return nil, false, fmt.Errorf("invalid argument %q for %s: %w", value, token, err)
		}
	}
	return rest, false, nil
}

// runRequest echoes the staged offsets and writes them when req.Commit is set.
func runRequest(cmd *cobra.Command, ctx *commandContext, req *offsets.Request) error {
	out := cmd.OutOrStdout()
	for _, asg := range req.Assignments() {
		fmt.Fprintf(out, "Set offset plane %d to %.1f mV\n", asg.Plane, asg.Quantized())
	}
	if !req.Commit {
		fmt.Fprintln(out, "Changes not applied. Use --commit to apply changes.")
		return nil
	}

	logger := ctx.logger().With(logging.String(logging.FieldRunID, uuid.NewString()))
	err := ctx.withHandle(cmd.Context(), func(h *msr.Handle) error {
		return offsets.Apply(cmd.Context(), h, req, func(asg offsets.Assignment) {
			fmt.Fprintf(out, "Plane %d: applied\n", asg.Plane)
			logger.Info("voltage offset applied",
				logging.Int(logging.FieldPlane, int(asg.Plane)),
				logging.Float64("offset_mv", asg.Quantized()),
				logging.Hex("word", asg.Word()),
			)
		})
	})
	if err != nil {
		var planeErr *offsets.PlaneError
		if errors.As(err, &planeErr) {
			logger.Error("voltage offset write failed",
				logging.Int(logging.FieldPlane, int(planeErr.Plane)),
				logging.Error(planeErr.Err),
			)
		}
		return err
	}
	return nil
}
