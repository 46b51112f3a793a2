package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"eventflow/internal/config"
	appLog "eventflow/internal/log"
	"eventflow/internal/sheet"
)

const version = "0.1.0"

// app carries what every subcommand needs after the root pre-run.
type app struct {
	configPath string
	envFile    string

	v   *viper.Viper
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "eventflow",
		Short: "Landing page and agenda built from a published spreadsheet",
		Long: `eventflow fetches a published spreadsheet (CSV or XLSX) once, turns each
row into an event card and serves the landing page around it.

Configuration is read from a YAML file, then overridden by EVENTFLOW_*
environment variables (a .env file is loaded first) and by flags.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", defaultConfigPath(), "path to the YAML config file (created on first run)")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	a.bindString(pf, "log-level", "log.level", "log level (debug, info, warn, error)")
	a.bindString(pf, "log-format", "log.format", "log format (text, json)")
	a.bindString(pf, "sheet-url", "sheet.url", "published sheet URL (overrides config and environment)")
	a.bindString(pf, "sheet-format", "sheet.format", "sheet format (auto, csv, xlsx)")

	root.AddCommand(
		newServeCmd(a),
		newFetchCmd(a),
		newExportCmd(a),
		newCaptureCmd(a),
		newVersionCmd(),
	)
	return root
}

// load resolves the effective configuration and configures logging.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return fmt.Errorf("load %s: %w", a.envFile, err)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		if cfg == nil {
			return fmt.Errorf("load config %s: %w", a.configPath, err)
		}
		appLog.Warn("could not write default config; continuing with defaults", err, "config_path", a.configPath)
	}
	config.ApplyOverrides(cfg, a.v)
	a.cfg = cfg

	appLog.Configure(cmd.ErrOrStderr(), cfg.Log.Format, appLog.ParseLevel(cfg.Log.Level))
	appLog.Debug("effective config",
		"command", cmd.Name(),
		"listen", cfg.Listen,
		"sheet_configured", cfg.Sheet.URL != "",
		"sheet_format", cfg.Sheet.Format,
		"refresh", cfg.Sheet.Refresh,
		"timeout", cfg.Sheet.Timeout,
	)
	return nil
}

// bindString declares a string flag whose value, when set, overrides the
// config key through viper.
func (a *app) bindString(fs *pflag.FlagSet, name, key, usage string) {
	fs.String(name, "", usage)
	_ = a.v.BindPFlag(key, fs.Lookup(name))
}

func (a *app) source() sheet.Source {
	return sheet.Source{ID: "agenda", URL: a.cfg.Sheet.URL, Format: a.cfg.Sheet.Format}
}

func defaultConfigPath() string {
	if p := os.Getenv(config.EnvPrefix + "_CONFIG"); p != "" {
		return p
	}
	return "eventflow.yaml"
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// skip config loading
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "eventflow", version)
		},
	}
}
