package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/metrics"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/persistence"
	"github.com/jonathan/resume-builder/internal/schemas"
)

var importFile string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the draft with a document from a JSON file",
	Long:  "Validates a résumé document against the draft schema and saves it as the current draft.",
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "Path to a résumé document JSON file (required)")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	if err := schemas.ValidateDocumentFile(importFile); err != nil {
		return fmt.Errorf("invalid document in %s: %w", importFile, err)
	}

	data, err := os.ReadFile(importFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", importFile, err)
	}

	doc, err := persistence.Decode(data)
	if err != nil {
		return fmt.Errorf("invalid document in %s: %w", importFile, err)
	}

	store, closeStore, err := openStore(cmd.Context(), metrics.Noop{})
	if err != nil {
		return err
	}
	defer closeStore()

	saved, err := store.Replace(cmd.Context(), doc)
	if err != nil {
		return err
	}

	logger.Info("imported draft", "file", importFile)
	observability.NewPrinter(cmd.OutOrStdout()).PrintDocument(saved)
	return nil
}
