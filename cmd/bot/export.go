package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/export"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media/backend"
)

func newExportCmd(flags *globalFlags) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every stored media record to a Parquet file",
		Example: `  fest-bot export --out media.parquet
  fest-bot export --dev -o /tmp/media.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(flags, false)
			if err != nil {
				return err
			}
			defer rt.logger.Close()

			opened, err := backend.Open(cmd.Context(), rt.cfg.Store, rt.paths, nil)
			if err != nil {
				return err
			}
			defer func() {
				if err := opened.Close(); err != nil {
					slog.Warn("Failed to close media store", "error", err)
				}
			}()

			n, err := export.ToFile(cmd.Context(), opened.Store, out)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", n, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "media.parquet", "Output Parquet file")

	return cmd
}
