package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"voltctl/internal/msr"
	"voltctl/internal/offsets"
)

const (
	formatPlain = "plain"
	formatTable = "table"
	formatJSON  = "json"
)

type planeReading struct {
	Plane    int     `json:"plane"`
	Name     string  `json:"name"`
	OffsetMV float64 `json:"offset_mv"`
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current voltage offset for every plane",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			switch format {
			case "", formatPlain, formatTable, formatJSON:
			default:
				return fmt.Errorf("unsupported format %q (use plain, table, or json)", format)
			}

			out := cmd.OutOrStdout()
			var readings []planeReading
			readErr := ctx.withHandle(cmd.Context(), func(h *msr.Handle) error {
				return offsets.Read(cmd.Context(), h, func(r offsets.Reading) error {
					if format == "" || format == formatPlain {
						_, err := fmt.Fprintf(out, "Plane %d: %.1f mV\n", r.Plane, r.OffsetMV)
						return err
					}
					readings = append(readings, planeReading{
						Plane:    int(r.Plane),
						Name:     r.Plane.Name(),
						OffsetMV: r.OffsetMV,
					})
					return nil
				})
			})

			// Partial results are rendered before a read failure is reported.
			switch format {
			case formatTable:
				if len(readings) > 0 {
					fmt.Fprintln(out, renderReadingsTable(readings))
				}
			case formatJSON:
				if readErr == nil || len(readings) > 0 {
					if readings == nil {
						readings = []planeReading{}
					}
					if err := writeJSON(cmd, readings); err != nil {
						return err
					}
				}
			}
			return readErr
		},
	}

	cmd.Flags().StringVar(&format, "format", formatPlain, "Output format: plain, table, or json")
	return cmd
}

func renderReadingsTable(readings []planeReading) string {
	rows := make([][]string, 0, len(readings))
	for _, r := range readings {
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.Plane),
			r.Name,
			fmt.Sprintf("%.1f mV", r.OffsetMV),
		})
	}
	return renderTable(
		[]string{"Plane", "Name", "Offset"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight},
	)
}
