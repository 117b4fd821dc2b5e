// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Pladifes/cdp-preprocessing/internal/cache"
	"github.com/Pladifes/cdp-preprocessing/internal/workbook"
	"github.com/Pladifes/cdp-preprocessing/pkg/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "List or prune runs in the SQLite cache",
	Long: `Cache lists the runs saved in the SQLite cache, newest first. Each run is
one questionnaire year's cleaned records or one consolidated dataset. With
--prune N only the latest N runs of every year are kept. With --export the
latest consolidated dataset is written to the clean directory.`,
	Args: cobra.NoArgs,
	RunE: runCache,
}

func init() {
	cacheCmd.Flags().String("cache-path", "", "SQLite cache file (default <clean-dir>/"+cache.DefaultFile+")")
	cacheCmd.Flags().String("clean-dir", defaultCleanDir, "directory holding the cache file")
	cacheCmd.Flags().Int("prune", 0, "keep only the latest N runs per year")
	cacheCmd.Flags().Bool("json", false, "output runs as JSON")
	cacheCmd.Flags().String("export", "", "write the latest consolidated dataset to the clean directory: xlsx or csv")

	rootCmd.AddCommand(cacheCmd)
}

func runCache(cmd *cobra.Command, args []string) error {
	cleanDir, _ := cmd.Flags().GetString("clean-dir")
	path, _ := cmd.Flags().GetString("cache-path")
	if path == "" {
		path = filepath.Join(cleanDir, cache.DefaultFile)
	}
	exportRaw, _ := cmd.Flags().GetString("export")
	export, err := types.ParseOutputFormat(exportRaw)
	if err != nil {
		return fmt.Errorf("--export: %w", err)
	}

	store, err := cache.NewStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if keep, _ := cmd.Flags().GetInt("prune"); keep > 0 {
		n, err := store.Prune(ctx, keep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "pruned %d run(s)\n", n)
	}

	if export != types.FormatNone {
		records, err := store.LoadDataset(ctx)
		if errors.Is(err, types.ErrNotCached) {
			return errors.New("no consolidated dataset in the cache; run with --cache sqlite first")
		}
		if err != nil {
			return err
		}
		dir := workbook.NewDir("", cleanDir, logger)
		if err := dir.Save(ctx, records, nil, export); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "exported %d records to %s\n",
			len(records), filepath.Join(cleanDir, workbook.CleanName(nil, export)))
	}

	runs, err := store.Runs(ctx)
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCOPE\tYEAR\tRECORDS\tCREATED")
	for _, r := range runs {
		year := "-"
		if r.Scope == cache.ScopeYear {
			year = strconv.Itoa(r.QuestionnaireYear)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", r.ID, r.Scope, year, r.Records, r.CreatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}
