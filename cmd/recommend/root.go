package main

import (
	"context"
	"os"

	app "github.com/okian/rolematch/internal/app"
	"github.com/okian/rolematch/internal/config"
	"github.com/okian/rolematch/pkg/logger"
	"github.com/spf13/cobra"
)

const appName = "recommend"

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configFile string
	debug      bool
	jsonLogs   bool

	driver  string
	catalog string
	dsn     string
	table   string
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "recommend ranks job roles for a candidate using text similarity and role popularity",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&f.configFile, "config", "", "a YAML config file (default from ROLEMATCH_CONFIG)")
	cmd.PersistentFlags().BoolVarP(&f.debug, "debug", "d", false, "verbose/debug output")
	cmd.PersistentFlags().BoolVarP(&f.jsonLogs, "json-logs", "j", false, "json format for logging")
	cmd.PersistentFlags().StringVar(&f.driver, "driver", "", "catalog driver: csv, sqlite or postgres")
	cmd.PersistentFlags().StringVar(&f.catalog, "catalog", "", "catalog CSV or SQLite file")
	cmd.PersistentFlags().StringVar(&f.dsn, "dsn", "", "postgres connection string")
	cmd.PersistentFlags().StringVar(&f.table, "table", "", "catalog table for SQL drivers")

	cmd.AddCommand(newRunCmd(f), newOptionsCmd(), newRolesCmd(f))
	return cmd
}

// loadConfig layers flags over the file and environment configuration.
func (f *rootFlags) loadConfig(ctx context.Context) (*config.Config, error) {
	path := f.configFile
	if path == "" {
		path = os.Getenv("ROLEMATCH_CONFIG")
	}
	cfg, err := config.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if f.driver != "" {
		cfg.CatalogDriver = f.driver
	}
	if f.catalog != "" {
		cfg.CatalogPath = f.catalog
	}
	if f.dsn != "" {
		cfg.CatalogDSN = f.dsn
	}
	if f.table != "" {
		cfg.CatalogTable = f.table
	}
	// The CLI never talks to the result cache.
	cfg.RedisAddr = ""
	return cfg, cfg.Validate()
}

// initLogger logs to stderr so stdout carries only results.
func (f *rootFlags) initLogger(cmd *cobra.Command) (logger.Logger, error) {
	format := "text"
	if f.jsonLogs {
		format = "json"
	}
	if err := logger.InitWithOptions(logger.Options{Format: format, Output: cmd.ErrOrStderr()}); err != nil {
		return nil, err
	}
	level := "warn"
	if f.debug {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		return nil, err
	}
	return logger.Named(appName), nil
}

// startService loads the catalog named by the flags.
func (f *rootFlags) startService(cmd *cobra.Command) (*app.Service, *config.Config, error) {
	ctx := cmd.Context()
	log, err := f.initLogger(cmd)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := f.loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	svc, err := app.FromConfig(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	if err := svc.Start(ctx); err != nil {
		return nil, nil, err
	}
	return svc, cfg, nil
}
