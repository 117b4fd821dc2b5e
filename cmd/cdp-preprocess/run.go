// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Pladifes/cdp-preprocessing/internal/cache"
	"github.com/Pladifes/cdp-preprocessing/internal/extract"
	"github.com/Pladifes/cdp-preprocessing/internal/pipeline"
	"github.com/Pladifes/cdp-preprocessing/internal/workbook"
	"github.com/Pladifes/cdp-preprocessing/pkg/types"
)

const (
	defaultRawDir   = "data/raw_data"
	defaultCleanDir = "data/clean_data"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Extract the requested questionnaire years and consolidate them",
	Long: `Run processes each requested questionnaire year: a cached cleaned result
is reused when one exists, otherwise the raw workbook is extracted. The yearly
results are then deduplicated by company and accounting year, missing
categorical attributes are filled from each company's history, and the
consolidated dataset is optionally saved.

Years without an extractor contribute nothing. A year that fails does not
stop the others; the command exits non-zero after reporting every failure.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.IntSlice("years", nil, "questionnaire years to process (default 2015-2022)")
	f.String("raw-dir", defaultRawDir, "directory holding CDP_CC_emissions data_<year>.xlsx")
	f.String("clean-dir", defaultCleanDir, "directory for cleaned outputs and the file cache")
	f.String("save", "", "format of the consolidated dataset: xlsx, csv, or none")
	f.String("save-years", "", "format of per-year results: xlsx, csv, or none")
	f.Int("workers", pipeline.DefaultWorkers, "questionnaire years extracted concurrently")
	f.String("cache", string(types.CacheFiles), "per-year cache backend: files or sqlite")
	f.String("cache-path", "", "SQLite cache file (default <clean-dir>/"+cache.DefaultFile+")")
	f.Int("cache-keep", 0, "runs kept per year in the SQLite cache (0 keeps all)")

	for key, flag := range map[string]string{
		"years":         "years",
		"raw_dir":       "raw-dir",
		"clean_dir":     "clean-dir",
		"save":          "save",
		"save_years":    "save-years",
		"workers":       "workers",
		"cache.backend": "cache",
		"cache.path":    "cache-path",
		"cache.keep":    "cache-keep",
	} {
		_ = viper.BindPFlag(key, f.Lookup(flag))
	}
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	rootCmd.AddCommand(runCmd)
}

// pipelineConfig reads the run settings from flags, environment and the
// config file.
func pipelineConfig() (types.PipelineConfig, error) {
	save, err := types.ParseOutputFormat(viper.GetString("save"))
	if err != nil {
		return types.PipelineConfig{}, fmt.Errorf("--save: %w", err)
	}
	saveYears, err := types.ParseOutputFormat(viper.GetString("save_years"))
	if err != nil {
		return types.PipelineConfig{}, fmt.Errorf("--save-years: %w", err)
	}
	backend, err := types.ParseCacheBackend(viper.GetString("cache.backend"))
	if err != nil {
		return types.PipelineConfig{}, fmt.Errorf("--cache: %w", err)
	}

	cfg := types.PipelineConfig{
		RawDir:    viper.GetString("raw_dir"),
		CleanDir:  viper.GetString("clean_dir"),
		Years:     viper.GetIntSlice("years"),
		SaveYears: saveYears,
		Save:      save,
		Workers:   viper.GetInt("workers"),
		Cache: types.CacheConfig{
			Backend: backend,
			Path:    viper.GetString("cache.path"),
			Keep:    viper.GetInt("cache.keep"),
		},
	}
	if cfg.Cache.Backend == types.CacheSQLite && cfg.Cache.Path == "" {
		cfg.Cache.Path = filepath.Join(cfg.CleanDir, cache.DefaultFile)
	}
	return cfg, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	registry, err := extract.Default(logger)
	if err != nil {
		return err
	}
	dir := workbook.NewDir(cfg.RawDir, cfg.CleanDir, logger)

	var (
		source pipeline.TableSource = dir
		store  *cache.Store
	)
	if cfg.Cache.Backend == types.CacheSQLite {
		if store, err = cache.NewStore(cfg.Cache.Path); err != nil {
			return err
		}
		defer store.Close()
		source = pipeline.RawOnly(dir)
	}
	runner := pipeline.New(registry, source, dir, logger)
	if store != nil {
		runner.WithCache(store)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("starting run",
		zap.Ints("years", cfg.Years),
		zap.String("raw_dir", cfg.RawDir),
		zap.String("cache", string(cfg.Cache.Backend)))
	result, err := runner.Run(ctx, cfg)
	if err != nil {
		return err
	}
	result.WriteSummary(cmd.OutOrStdout())

	if store != nil && cfg.Cache.Keep > 0 {
		n, err := store.Prune(ctx, cfg.Cache.Keep)
		if err != nil {
			return err
		}
		logger.Debug("pruned cache runs", zap.Int64("runs", n))
	}

	if result.HasFailures() {
		return fmt.Errorf("%d questionnaire year(s) failed: %w", len(result.Failed()), result.Err())
	}
	return nil
}
