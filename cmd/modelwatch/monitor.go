package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"modelwatch/internal/catalog"
	"modelwatch/internal/monitor"
)

var monitorFormat string

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run one monitoring cycle against the catalog",
	Long: `Fetch the model catalog, canonicalize every entry and store the
resulting snapshot. Re-running against an unchanged catalog stores
nothing and reports the existing fingerprint.

Examples:
  modelwatch monitor
  modelwatch monitor --format json
  modelwatch monitor --store-dir /var/lib/modelwatch`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&monitorFormat, "format", "human", "Output format: json or human")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	canonicalizer, err := newCanonicalizer(cfg)
	if err != nil {
		return err
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	client := catalog.NewClient(cfg.CatalogURL, cfg.FetchTimeout, logger)
	runner := monitor.NewRunner(client, canonicalizer, st, logger)

	result, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	if monitorFormat == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out := cmd.OutOrStdout()
	if result.Created {
		fmt.Fprintf(out, "Stored new snapshot %s (%d models", result.Fingerprint, result.ModelCount)
	} else {
		fmt.Fprintf(out, "Catalog unchanged, snapshot %s (%d models", result.Fingerprint, result.ModelCount)
	}
	if result.Skipped > 0 {
		fmt.Fprintf(out, ", %d skipped", result.Skipped)
	}
	fmt.Fprintln(out, ")")
	return nil
}
