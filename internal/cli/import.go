package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pcdmanager/internal/importer"
	"pcdmanager/internal/model"
	"pcdmanager/internal/ports"
	"pcdmanager/internal/store"
)

type importFlags struct {
	creatorID      int64
	toolMapPath    string
	techMapPath    string
	skipDuplicates bool
	dryRun         bool
}

func (a *app) importCmd() *cobra.Command {
	var f importFlags

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Parse, preview and commit a workbook in one run",
		Long: `Run all three import stages. The preview is committed as is; use the
preview command and mapping files to adjust token resolution first.

Examples:
  passdown-import import passdowns.xlsx --as 10
  passdown-import import passdowns.xlsx --as 10 --tool-map tools.yaml --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImport(cmd, args[0], f)
		},
	}

	cmd.Flags().Int64Var(&f.creatorID, "as", 0, "user id recorded as the creator of the imported passdowns")
	cmd.Flags().StringVar(&f.toolMapPath, "tool-map", "", "tool mapping file (token → tool id)")
	cmd.Flags().StringVar(&f.techMapPath, "tech-map", "", "technician mapping file (token → user id)")
	cmd.Flags().BoolVar(&f.skipDuplicates, "skip-duplicates", true, "skip entries that duplicate stored passdowns (default from config)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "commit into an in-memory copy of the directory")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}

func (a *app) runImport(cmd *cobra.Command, path string, f importFlags) error {
	data, err := readWorkbook(path)
	if err != nil {
		return err
	}
	toolMap, err := loadMapping(f.toolMapPath)
	if err != nil {
		return err
	}
	techMap, err := loadMapping(f.techMapPath)
	if err != nil {
		return err
	}

	st, err := a.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	target := ports.Store(st)
	if f.dryRun {
		tools, err := st.ListTools(ctx)
		if err != nil {
			return err
		}
		users, err := st.ListUsers(ctx)
		if err != nil {
			return err
		}
		target = store.NewMemoryStoreFrom(tools, users)
	}

	coordinator := importer.NewCoordinator(target, a.logger)
	loc := a.locationFor()
	out := cmd.OutOrStdout()

	review, err := coordinator.ParseForReview(ctx, data, loc)
	if err != nil {
		return fmt.Errorf("failed to parse workbook: %w", err)
	}
	printReview(out, review)

	preview, err := coordinator.GeneratePreview(ctx, data, loc, toolMap, techMap)
	if err != nil {
		return fmt.Errorf("failed to build preview: %w", err)
	}
	entries, flagged := previewEntries(preview)
	if flagged > 0 {
		warnColor.Fprintf(out, "%d of %d entries flagged for review\n", flagged, len(entries))
	}

	opts := importer.ImportOptions{SkipDuplicates: a.cfg.Import.SkipDuplicates}
	if cmd.Flags().Changed("skip-duplicates") {
		opts.SkipDuplicates = f.skipDuplicates
	}

	result, err := coordinator.ImportEntries(ctx, entries, f.creatorID, opts)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	printResult(out, result, f.dryRun)
	return nil
}

// previewEntries 按月份顺序展开预览为待提交条目，并统计被标记的条目数
func previewEntries(preview *model.PreviewResult) ([]model.ImportEntry, int) {
	entries := make([]model.ImportEntry, 0, preview.TotalEntries)
	flagged := 0
	for _, key := range preview.Months {
		for _, e := range preview.PassdownsByMonth[key] {
			if e.Flagged {
				flagged++
			}
			entry := model.ImportEntry{
				RowID:   e.RowID,
				Task:    e.Task,
				ToolIDs: e.ToolIDs,
				TechIDs: e.TechIDs,
			}
			if e.Date != nil {
				entry.Date = *e.Date
			}
			entries = append(entries, entry)
		}
	}
	return entries, flagged
}
