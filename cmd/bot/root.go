package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/catalog"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/config"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/logging"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/paths"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	dev        bool
	configPath string
}

func (f *globalFlags) paths() paths.Paths {
	p := paths.Default()
	if f.dev {
		p = paths.DevPaths()
	}
	if f.configPath != "" {
		p.ConfigPath = f.configPath
	}
	return p
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "fest-bot",
		Short: "Telegram bot for browsing and uploading event media",
		Long: `fest-bot serves the festival media catalog over Telegram.

Visitors browse photos and videos by event, class, individual or category.
Admins upload media through guided /add, /batchadd and /batchcategory dialogs.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().BoolVar(&flags.dev, "dev", false, "Use testdata/dev paths (local testing)")
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to the JSON config file")

	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newExportCmd(flags))
	cmd.AddCommand(newCatalogCmd(flags))

	return cmd
}

// errConfigMissing is returned by setup when the config file does not exist.
var errConfigMissing = errors.New("config file not found")

// appEnv is the state every long-running command starts from.
type appEnv struct {
	paths  paths.Paths
	cfg    *config.Config
	logger *logging.Logger
}

// setup initialises logging, then loads and validates the config. With
// toFile unset, logs go to stdout only.
func setup(flags *globalFlags, toFile bool) (*appEnv, error) {
	p := flags.paths()

	logPath := ""
	if toFile {
		logPath = p.LogPath
	}
	slogger, logger, err := logging.NewSlogLogger(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	slog.SetDefault(slogger)

	if flags.dev {
		slog.Info("Running in DEVELOPMENT mode", "config", p.ConfigPath)
	}

	cfg, err := config.Load(p.ConfigPath)
	if errors.Is(err, os.ErrNotExist) {
		if flags.dev {
			slog.Info("Config not found", "path", p.ConfigPath, "hint", "copy testdata/dev/config.json.example to testdata/dev/config.json")
		} else {
			slog.Info("Config not found", "path", p.ConfigPath)
		}
		logger.Close()
		return nil, errConfigMissing
	}
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		logger.Close()
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.LogLevel != "" {
		logger.SetLevel(cfg.LogLevel)
		slog.Debug("Log level set from config", "level", cfg.LogLevel)
	}

	if err := cfg.Validate(); err != nil {
		logger.Close()
		return nil, err
	}

	return &appEnv{paths: p, cfg: cfg, logger: logger}, nil
}

// loadCatalog reads the catalog named by path, or falls back to the built-in
// one when no file exists there.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		slog.Info("No catalog configured, using built-in catalog")
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("Catalog file not found, using built-in catalog", "path", path)
		return catalog.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return cat, nil
}

func catalogPath(cfg *config.Config, p paths.Paths) string {
	if cfg != nil && cfg.CatalogPath != "" {
		return cfg.CatalogPath
	}
	return p.CatalogPath
}
