package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"voltctl/internal/config"
	"voltctl/internal/voltage"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration with safety defaults and an example profile",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				_, statErr := os.Stat(target)
				switch {
				case statErr == nil:
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				case !errors.Is(statErr, fs.ErrNotExist):
					return fmt.Errorf("check config path: %w", statErr)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			// Reload what was written so the summary reflects the effective values.
			cfg, _, _, err := config.Load(target)
			if err != nil {
				return fmt.Errorf("reload sample config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			writeConfigSummary(out, cfg)
			fmt.Fprintln(out, "Nothing is written to hardware until set or apply runs with --commit.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func initTarget(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		target, err := config.DefaultConfigPath()
		if err != nil {
			return "", fmt.Errorf("determine default config path: %w", err)
		}
		return target, nil
	}
	target, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return target, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			if ctx.configSeen {
				fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			} else {
				fmt.Fprintf(out, "Config path: %s (not found, defaults in use)\n", ctx.configPath)
			}
			writeConfigSummary(out, cfg)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

// writeConfigSummary prints the driver, safety, and profile settings that
// govern what set and apply will do.
func writeConfigSummary(out io.Writer, cfg *config.Config) {
	lock := cfg.Driver.LockPath
	if lock == "" {
		lock = "disabled"
	}
	fmt.Fprintf(out, "Driver: %s (cpu %d, lock %s)\n", cfg.Driver.Backend, cfg.Driver.CPU, lock)

	overvolt := "refused"
	if cfg.Safety.AllowOvervolt {
		overvolt = "allowed"
	}
	fmt.Fprintf(out, "Safety: offsets limited to ±%g mV, overvolting %s\n", cfg.Safety.MaxOffsetMV, overvolt)

	for _, name := range cfg.ProfileNames() {
		fmt.Fprintf(out, "Profile %s: %s\n", name, profileOffsets(cfg.Profiles[name]))
	}
}

// profileOffsets lists a profile's offsets in plane order.
func profileOffsets(profile config.Profile) string {
	type entry struct {
		plane voltage.Plane
		text  string
	}
	entries := make([]entry, 0, len(profile.Offsets))
	for key, mv := range profile.Offsets {
		plane, err := voltage.ParsePlane(key)
		if err != nil {
			continue
		}
		entries = append(entries, entry{plane: plane, text: fmt.Sprintf("%s %.1f mV", plane.Key(), voltage.Quantize(mv))})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].plane < entries[j].plane })
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.text
	}
	return strings.Join(parts, ", ")
}
