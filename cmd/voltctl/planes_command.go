package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"voltctl/internal/voltage"
)

func newPlanesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "planes",
		Short:       "List voltage planes",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, voltage.PlaneCount)
			for _, plane := range voltage.Planes() {
				rows = append(rows, []string{fmt.Sprintf("%d", plane), plane.Name(), plane.Key()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Plane", "Name", "Key"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
