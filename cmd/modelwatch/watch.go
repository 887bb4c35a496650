package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"modelwatch/internal/catalog"
	"modelwatch/internal/diff"
	"modelwatch/internal/monitor"
	"modelwatch/internal/store"
	"modelwatch/internal/watch"
)

var (
	watchEvery string
	watchColor bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the catalog on an interval and report changes",
	Long: `Run monitoring cycles on a fixed interval until interrupted. When a
cycle stores a new snapshot, the changes against the previous snapshot
are printed.

Examples:
  modelwatch watch
  modelwatch watch --every "every 30m"`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchEvery, "every", "", `Interval expression, e.g. "every 6h" (default from configuration)`)
	watchCmd.Flags().BoolVar(&watchColor, "color", true, "Colorize change reports")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	expr := watchEvery
	if expr == "" {
		expr = cfg.WatchInterval
	}
	interval, err := watch.ParseInterval(expr)
	if err != nil {
		return err
	}

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

	out := cmd.OutOrStdout()
	var prevFingerprint string
	handler := func(runID string, result *monitor.Result, err error) {
		if err != nil || result == nil {
			return
		}
		if result.Created && prevFingerprint != "" && prevFingerprint != result.Fingerprint {
			if report, derr := compareStored(st, prevFingerprint, result.Fingerprint); derr == nil {
				report.RenderText(out, watchColor)
			} else {
				logger.Warn("failed to diff against previous snapshot", map[string]interface{}{
					"run_id": runID,
					"error":  derr.Error(),
				})
			}
		}
		prevFingerprint = result.Fingerprint
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(out, "Watching catalog %s (%s)\n", cfg.CatalogURL, watch.FormatDuration(interval))
	return watch.NewLoop(runner, interval, logger, handler).Run(ctx)
}

func compareStored(st *store.Store, oldFingerprint, newFingerprint string) (*diff.ChangeReport, error) {
	oldSnap, err := st.Get(oldFingerprint)
	if err != nil {
		return nil, err
	}
	newSnap, err := st.Get(newFingerprint)
	if err != nil {
		return nil, err
	}
	return diff.NewEngine().Compare(oldSnap, newSnap), nil
}
