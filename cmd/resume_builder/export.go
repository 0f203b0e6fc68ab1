package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/metrics"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/rendering"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the draft as a one-page PDF",
	Long: "Renders the draft with its selected template in headless Chrome and writes a single-page PDF " +
		"named {firstName}-{lastName}.pdf. Requires a Chrome or Chromium binary.",
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file or directory (default: current directory)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, closeStore, err := openStore(ctx, metrics.Noop{})
	if err != nil {
		return err
	}
	defer closeStore()

	file, err := newPipeline(metrics.Noop{}).ExportDocument(ctx, store.Snapshot(), rendering.WithWidth(appConfig.PageWidth))
	if err != nil {
		return err
	}

	path := exportPath(exportOut, file.Name)
	if err := os.WriteFile(path, file.Data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintExport(file, path)
	return nil
}

// exportPath resolves --out: empty means the file name in the working
// directory, an existing directory receives the file name.
func exportPath(out, name string) string {
	if out == "" {
		return name
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, name)
	}
	return out
}
