// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the zenodo-mcp CLI. The same binary
// serves the MCP protocol (stdio or streamable HTTP) and exposes each tool as
// a subcommand for use from a shell.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/zenodo-mcp/internal/config"
	"github.com/pdiddy/zenodo-mcp/internal/logging"
	"github.com/pdiddy/zenodo-mcp/internal/secrets"
	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// configName is the config file base name searched in . and ~/.config/zenodo-mcp.
const configName = "zenodo-mcp"

// appConfig and logger are populated by rootCmd before any subcommand runs.
var (
	appConfig types.AppConfig
	logger    *slog.Logger
)

// rootCmd is the base command for the zenodo-mcp CLI.
var rootCmd = &cobra.Command{
	Use:   "zenodo-mcp",
	Short: "MCP server for searching, citing and comparing Zenodo records",
	Long: `zenodo-mcp exposes the Zenodo research repository to MCP clients. It
searches records, formats citations, classifies records by data type, lists
files, extracts keywords, finds related records and compares records field by
field.

Run "zenodo-mcp mcp" to serve MCP over stdio or "zenodo-mcp serve" for the
HTTP API with the streamable MCP endpoint at /mcp. Every tool is also available
as a subcommand.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		logger = logging.New(cfg.Log)

		store, err := secrets.Load(secrets.DefaultDir, logger)
		if err != nil {
			return err
		}
		if keys := store.Keys(); len(keys) > 0 {
			logger.Debug("loaded secrets", "keys", keys)
		}
		config.ApplySecrets(&cfg, store)

		appConfig = cfg
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./"+configName+".yaml or ~/.config/zenodo-mcp/"+configName+".yaml)")
	flags.String("api-url", types.DefaultZenodoAPIURL, "Zenodo API base URL")
	flags.Bool("sandbox", false, "use the Zenodo sandbox instance")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")

	bindFlag(config.KeyAPIURL, flags.Lookup("api-url"))
	bindFlag(config.KeySandbox, flags.Lookup("sandbox"))
	bindFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	bindFlag(config.KeyLogFormat, flags.Lookup("log-format"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "zenodo-mcp"))
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
