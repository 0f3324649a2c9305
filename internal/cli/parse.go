package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pcdmanager/internal/importer"
)

func (a *app) parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse FILE",
		Short: "Show the tool and technician tokens found in a workbook and how they match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readWorkbook(args[0])
			if err != nil {
				return err
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			review, err := importer.NewCoordinator(st, a.logger).ParseForReview(cmd.Context(), data, a.locationFor())
			if err != nil {
				return fmt.Errorf("failed to parse workbook: %w", err)
			}
			printReview(cmd.OutOrStdout(), review)
			return nil
		},
	}
}
