// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/Pladifes/cdp-preprocessing/internal/extract"
)

var correctionsCmd = &cobra.Command{
	Use:   "corrections",
	Short: "Print the built-in corrections to known source data defects",
	Long: `Corrections prints, as YAML, the table of fixes applied to known defects
in the raw questionnaire exports: rows dropped, accounting years reassigned,
and records inserted after verification against company reports.`,
	Args: cobra.NoArgs,
	RunE: runCorrections,
}

func init() {
	correctionsCmd.Flags().Int("year", 0, "only show corrections for this questionnaire year")
	rootCmd.AddCommand(correctionsCmd)
}

func runCorrections(cmd *cobra.Command, args []string) error {
	corrections, err := extract.DefaultCorrections()
	if err != nil {
		return err
	}
	if year, _ := cmd.Flags().GetInt("year"); year != 0 {
		corrections = corrections.ForYear(year)
		if len(corrections) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "no corrections for %d\n", year)
			return nil
		}
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(map[string]extract.Corrections{"corrections": corrections}); err != nil {
		return fmt.Errorf("encoding corrections: %w", err)
	}
	return enc.Close()
}
