package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/metrics"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the draft with the default document",
	Long:  "Discards every edit and restores the built-in starter résumé. This cannot be undone, so --yes is required.",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Confirm the reset")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		return fmt.Errorf("reset discards the current draft; pass --yes to confirm")
	}

	store, closeStore, err := openStore(cmd.Context(), metrics.Noop{})
	if err != nil {
		return err
	}
	defer closeStore()

	doc := store.ResetToDefault(cmd.Context())
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Draft reset to default (%s).\n", doc.FullName())
	return err
}
