package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var snapshotsFormat string

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List stored snapshots",
	Long: `List every stored snapshot, oldest first, with its fingerprint,
creation time and model count.`,
	Args: cobra.NoArgs,
	RunE: runSnapshots,
}

func init() {
	snapshotsCmd.Flags().StringVar(&snapshotsFormat, "format", "human", "Output format: json or human")
	rootCmd.AddCommand(snapshotsCmd)
}

func runSnapshots(cmd *cobra.Command, args []string) error {
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

	infos, err := st.List()
	if err != nil {
		return err
	}

	if snapshotsFormat == "json" {
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(infos) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No snapshots stored.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FINGERPRINT\tCREATED\tMODELS")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%d\n", info.Fingerprint, info.CreatedAt.Format(time.RFC3339), info.ModelCount)
	}
	return w.Flush()
}
