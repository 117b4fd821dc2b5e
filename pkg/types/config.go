// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// OutputFormat selects how a cleaned table is serialized.
type OutputFormat string

const (
	// FormatNone disables saving.
	FormatNone OutputFormat = ""
	FormatXLSX OutputFormat = "xlsx"
	FormatCSV  OutputFormat = "csv"
)

// ParseOutputFormat accepts "xlsx", "csv", and "" or "none" for no output.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "", "none", "false":
		return FormatNone, nil
	case string(FormatXLSX):
		return FormatXLSX, nil
	case string(FormatCSV):
		return FormatCSV, nil
	default:
		return FormatNone, fmt.Errorf("unsupported output format %q: use xlsx, csv, or none", s)
	}
}

// CacheBackend identifies where per-year intermediate results are cached.
type CacheBackend string

const (
	// CacheFiles reads and writes cdp_clean_<year> files in the clean directory.
	CacheFiles CacheBackend = "files"
	// CacheSQLite keeps per-year results in a SQLite database.
	CacheSQLite CacheBackend = "sqlite"
)

// CacheConfig holds settings for the per-year cache.
type CacheConfig struct {
	// Backend selects files or sqlite (default files).
	Backend CacheBackend `json:"backend" yaml:"backend"`

	// Path is the SQLite database file (default <clean_dir>/cdp_cache.db).
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Keep is how many runs per year the SQLite cache retains; 0 keeps all.
	Keep int `json:"keep,omitempty" yaml:"keep,omitempty"`
}

// ParseCacheBackend accepts "files", "sqlite", and "" for files.
func ParseCacheBackend(s string) (CacheBackend, error) {
	switch CacheBackend(s) {
	case "", CacheFiles:
		return CacheFiles, nil
	case CacheSQLite:
		return CacheSQLite, nil
	default:
		return "", fmt.Errorf("unsupported cache backend %q: use files or sqlite", s)
	}
}

// PipelineConfig groups the settings of a preprocessing run.
type PipelineConfig struct {
	// RawDir holds the CDP_CC_emissions data_<year>.xlsx workbooks.
	RawDir string `json:"raw_dir" yaml:"raw_dir"`

	// CleanDir receives per-year and consolidated outputs.
	CleanDir string `json:"clean_dir" yaml:"clean_dir"`

	// Years lists the questionnaire years to process, in order.
	Years []int `json:"years" yaml:"years"`

	// SaveYears is the format for per-year intermediate results.
	SaveYears OutputFormat `json:"save_years" yaml:"save_years"`

	// Save is the format for the consolidated table.
	Save OutputFormat `json:"save" yaml:"save"`

	// Workers bounds how many years are extracted concurrently (default 4).
	Workers int `json:"workers" yaml:"workers"`

	Cache CacheConfig `json:"cache" yaml:"cache"`
}

// DefaultYears returns the questionnaire years processed when none are given.
func DefaultYears() []int {
	years := make([]int, 0, 8)
	for y := 2015; y <= 2022; y++ {
		years = append(years, y)
	}
	return years
}
