// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pladifes/cdp-preprocessing/internal/cache"
	"github.com/Pladifes/cdp-preprocessing/pkg/types"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

// override sets viper keys for one test.
func override(t *testing.T, kv map[string]any) {
	t.Helper()
	for k, v := range kv {
		viper.Set(k, v)
	}
	t.Cleanup(func() {
		for k := range kv {
			viper.Set(k, nil)
		}
	})
}

func TestPipelineConfig(t *testing.T) {
	clean := t.TempDir()
	override(t, map[string]any{
		"years":         []int{2016, 2017},
		"clean_dir":     clean,
		"save":          "csv",
		"save_years":    "none",
		"workers":       2,
		"cache.backend": "sqlite",
		"cache.keep":    3,
	})

	cfg, err := pipelineConfig()
	require.NoError(t, err)
	assert.Equal(t, []int{2016, 2017}, cfg.Years)
	assert.Equal(t, clean, cfg.CleanDir)
	assert.Equal(t, types.FormatCSV, cfg.Save)
	assert.Equal(t, types.FormatNone, cfg.SaveYears)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, types.CacheSQLite, cfg.Cache.Backend)
	assert.Equal(t, filepath.Join(clean, cache.DefaultFile), cfg.Cache.Path)
	assert.Equal(t, 3, cfg.Cache.Keep)
}

func TestPipelineConfigRejectsUnknownValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"save", "parquet"},
		{"save_years", "json"},
		{"cache.backend", "redis"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			override(t, map[string]any{tt.key: tt.value})
			_, err := pipelineConfig()
			assert.Error(t, err)
		})
	}
}

func TestYearsCommand(t *testing.T) {
	out := execute(t, "years")
	assert.Contains(t, out, "GENERATION")
	assert.Contains(t, out, "cc-combined")
	assert.Contains(t, out, "CC8. Emissions Data")
	assert.Contains(t, out, "c-summary")
	assert.Contains(t, out, "Summary Data")
}

func TestCorrectionsCommand(t *testing.T) {
	out := execute(t, "corrections", "--year", "2016")
	assert.Contains(t, out, "corrections:")
	assert.Contains(t, out, "Firstsource Solutions")
	assert.NotContains(t, out, "22698_1")
}

func TestCacheCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), cache.DefaultFile)
	out := execute(t, "cache", "--cache-path", path)
	assert.Contains(t, out, "SCOPE")

	out = execute(t, "cache", "--cache-path", path, "--json")
	assert.Equal(t, "null\n", out)
}

func TestCacheExport(t *testing.T) {
	clean := t.TempDir()
	path := filepath.Join(clean, cache.DefaultFile)
	store, err := cache.NewStore(path)
	require.NoError(t, err)
	_, err = store.SaveRun(context.Background(), []types.Record{
		{AccountID: "1", AccountingYear: 2019, QuestionnaireYear: 2021},
		{AccountID: "2", AccountingYear: 2020, QuestionnaireYear: 2021},
	}, nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	execute(t, "cache", "--cache-path", path, "--clean-dir", clean, "--export", "csv")
	t.Cleanup(func() { _ = cacheCmd.Flags().Set("export", "") })

	data, err := os.ReadFile(filepath.Join(clean, "cdp_clean_dataset.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "1_2019")
	assert.Contains(t, string(data), "2_2020")
}
