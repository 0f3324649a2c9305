package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"pcdmanager/internal/exporter"
	"pcdmanager/internal/importer"
	"pcdmanager/internal/model"
)

func (a *app) previewCmd() *cobra.Command {
	var toolMapPath, techMapPath, xlsxPath string
	var flaggedOnly bool

	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Print the import preview (resolved ids, inferred dates, flags) as JSON",
		Long: `Print the import preview as JSON.

Without --tool-map / --tech-map the automatic matches are used. Mapping files
are YAML or JSON objects of token to id, null leaves a token unmapped:

  BT151: 1
  BT151D: null`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readWorkbook(args[0])
			if err != nil {
				return err
			}
			toolMap, err := loadMapping(toolMapPath)
			if err != nil {
				return err
			}
			techMap, err := loadMapping(techMapPath)
			if err != nil {
				return err
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			preview, err := importer.NewCoordinator(st, a.logger).GeneratePreview(cmd.Context(), data, a.locationFor(), toolMap, techMap)
			if err != nil {
				return fmt.Errorf("failed to build preview: %w", err)
			}

			if xlsxPath != "" {
				return writeReviewWorkbook(cmd, preview, xlsxPath, flaggedOnly)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(preview)
		},
	}

	cmd.Flags().StringVar(&toolMapPath, "tool-map", "", "tool mapping file (token → tool id)")
	cmd.Flags().StringVar(&techMapPath, "tech-map", "", "technician mapping file (token → user id)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write the preview as a review workbook instead of JSON")
	cmd.Flags().BoolVar(&flaggedOnly, "flagged-only", false, "with --xlsx, only include flagged entries")
	return cmd
}

func writeReviewWorkbook(cmd *cobra.Command, preview *model.PreviewResult, path string, flaggedOnly bool) error {
	f, err := exporter.ExportPreview(preview, exporter.ExportOptions{FlaggedOnly: flaggedOnly})
	if err != nil {
		return fmt.Errorf("failed to export preview: %w", err)
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d entries to %s\n", preview.TotalEntries, path)
	return nil
}
