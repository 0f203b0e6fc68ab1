package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/metrics"
	"github.com/jonathan/resume-builder/internal/rendering"
)

var (
	renderTemplate string
	renderOutFile  string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the draft as a standalone HTML page",
	Long:  "Writes the preview HTML of the current draft. --template previews another layout without changing the draft.",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "Template to use: modern or classic (default: the draft's own)")
	renderCmd.Flags().StringVarP(&renderOutFile, "out", "o", "", "Path to output HTML file (default: stdout)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	store, closeStore, err := openStore(cmd.Context(), metrics.Noop{})
	if err != nil {
		return err
	}
	defer closeStore()

	doc := store.Snapshot()
	variant := doc.Template
	if renderTemplate != "" {
		if variant, err = rendering.Lookup(renderTemplate); err != nil {
			return err
		}
	}

	page, err := rendering.HTML(rendering.Render(doc, variant, rendering.WithWidth(appConfig.PageWidth)))
	if err != nil {
		return err
	}

	if renderOutFile == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), page)
		return err
	}
	if err := os.WriteFile(renderOutFile, []byte(page), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	logger.Info("rendered draft", "template", variant, "path", renderOutFile, "bytes", len(page))
	return nil
}
