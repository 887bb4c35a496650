package main

import (
	"github.com/spf13/cobra"

	"modelwatch/internal/version"
)

var (
	// configDir is the directory searched for .modelwatch/config.json
	configDir string
	// storeDirFlag overrides the configured snapshot store directory
	storeDirFlag string
)

var rootCmd = &cobra.Command{
	Use:   "modelwatch",
	Short: "modelwatch - model catalog price monitor",
	Long: `modelwatch polls an ML model catalog, normalizes every price to a
canonical per-base-unit rate, fingerprints the resulting snapshot and
stores it. Any two stored snapshots can be diffed into a per-model,
per-field change report.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.SetVersionTemplate("modelwatch version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".",
		"Directory containing .modelwatch/config.json")
	rootCmd.PersistentFlags().StringVar(&storeDirFlag, "store-dir", "",
		"Snapshot store directory (overrides configuration)")
}
