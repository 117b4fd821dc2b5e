// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Pladifes/cdp-preprocessing/internal/extract"
)

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "List the supported questionnaire years and their sheet layouts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := extract.Default(logger)
		if err != nil {
			return err
		}
		corrections, err := extract.DefaultCorrections()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "YEAR\tGENERATION\tCORRECTIONS\tSHEETS")
		for _, year := range registry.Years() {
			e, err := registry.Get(year)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", year, e.Generation(),
				len(corrections.ForYear(year)), strings.Join(e.Layout().Names(), ", "))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(yearsCmd)
}
