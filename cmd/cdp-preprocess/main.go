// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the cdp-preprocess CLI. It builds a
// consolidated emissions dataset from the yearly CDP questionnaire exports.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time via ldflags.
var version = "dev"

var logger = zap.NewNop()

// rootCmd is the base command for the cdp-preprocess CLI.
var rootCmd = &cobra.Command{
	Use:   "cdp-preprocess",
	Short: "Clean and consolidate CDP climate change questionnaire exports",
	Long: `cdp-preprocess reads the yearly CDP climate change questionnaire
workbooks (CDP_CC_emissions data_<year>.xlsx), extracts one record per company
and accounting year with Scope 1, 2 and 3 emissions, and consolidates every
questionnaire year into a single dataset.

Each questionnaire year has its own sheet layout; per-year results can be
cached so later runs only extract new years.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if viper.GetBool("verbose") {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./cdp-preprocess.yaml or ~/.config/cdp-preprocess/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("cdp-preprocess")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "cdp-preprocess"))
		}
	}

	viper.SetEnvPrefix("CDP_PREPROCESS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
