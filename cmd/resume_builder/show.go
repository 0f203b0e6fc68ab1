package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/metrics"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/persistence"
)

var showSummary bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current draft",
	Long:  "Prints the stored draft as JSON, or as a readable summary with --summary. A missing or unreadable draft shows the default document.",
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showSummary, "summary", false, "Print a readable summary instead of JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, _ []string) error {
	store, closeStore, err := openStore(cmd.Context(), metrics.Noop{})
	if err != nil {
		return err
	}
	defer closeStore()

	doc := store.Snapshot()
	if showSummary {
		observability.NewPrinter(cmd.OutOrStdout()).PrintDocument(doc)
		return nil
	}

	data, err := persistence.Encode(doc)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
