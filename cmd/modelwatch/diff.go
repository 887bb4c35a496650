package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modelwatch/internal/diff"
)

var (
	diffFormat string
	diffColor  bool
)

var diffCmd = &cobra.Command{
	Use:   "diff <old-fingerprint> <new-fingerprint>",
	Short: "Compare two stored snapshots",
	Long: `Load two stored snapshots by fingerprint and report every model
added, removed or modified between them.

Examples:
  modelwatch diff 3a7bd3e2... 9f86d081...
  modelwatch diff 3a7bd3e2... 9f86d081... --format json`,
	Args: cobra.ExactArgs(2),
	RunE: runDiffCmd,
}

func init() {
	diffCmd.Flags().StringVar(&diffFormat, "format", "human", "Output format: json or human")
	diffCmd.Flags().BoolVar(&diffColor, "color", true, "Colorize human output")
	rootCmd.AddCommand(diffCmd)
}

func runDiffCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	oldFingerprint, newFingerprint := args[0], args[1]

	var report *diff.ChangeReport
	if oldFingerprint == newFingerprint {
		// A snapshot never differs from itself; skip loading entirely.
		if _, err := st.Get(oldFingerprint); err != nil {
			return err
		}
		report = &diff.ChangeReport{
			OldFingerprint: oldFingerprint,
			NewFingerprint: newFingerprint,
			Added:          []string{},
			Removed:        []string{},
			Modified:       []diff.ModelChange{},
		}
	} else {
		oldSnap, err := st.Get(oldFingerprint)
		if err != nil {
			return err
		}
		newSnap, err := st.Get(newFingerprint)
		if err != nil {
			return err
		}
		report = diff.NewEngine().Compare(oldSnap, newSnap)
	}

	if diffFormat == "json" {
		data, err := report.ToJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	report.RenderText(cmd.OutOrStdout(), diffColor)
	return nil
}
