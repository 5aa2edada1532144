package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/catalog"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/config"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/logging"
)

func newCatalogCmd(flags *globalFlags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate the catalog file and print its size",
		Long: `Loads the catalog the bot would use and reports how many events,
classes and individuals it defines. Without --file the catalog path comes
from the config, then from the default location.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slogger, logger, err := logging.NewSlogLogger("")
			if err != nil {
				return err
			}
			defer logger.Close()
			slog.SetDefault(slogger)

			path := file
			if path == "" {
				p := flags.paths()
				cfg, err := config.Load(p.ConfigPath)
				if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("failed to load config: %w", err)
				}
				path = catalogPath(cfg, p)
			}

			var cat *catalog.Catalog
			if file != "" {
				// an explicit file must exist
				cat, err = catalog.Load(path)
			} else {
				cat, err = loadCatalog(path)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Catalog OK: %s\n", path)
			fmt.Fprintf(out, "  events:      %d\n", len(cat.Events))
			fmt.Fprintf(out, "  classes:     %d\n", len(cat.Classes))
			fmt.Fprintf(out, "  individuals: %d\n", len(cat.Individuals))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Catalog YAML file to check")

	return cmd
}
