package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"repkit/internal/config"
	"repkit/internal/logging"
	"repkit/internal/policy"
	"repkit/internal/render"
	"repkit/internal/version"
)

var (
	// rootFlag is the project root containing .repkit/
	rootFlag string
	// modeFlag is the CLI --mode flag value
	modeFlag      string
	logLevelFlag  string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "repkit",
	Short: "repkit - reproducible report artifact toolkit",
	Long: `repkit manages the artifacts of a report-rendering pipeline: it exports
figures and tables under a named conflict policy (overwrite, backup,
new-only, interactive) and caches expensive computations on disk keyed by
a fingerprint of their source and declared dependencies.`,
	Version: version.Info(),
}

func init() {
	rootCmd.SetVersionTemplate("repkit version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".",
		"Project root containing the .repkit directory")
	rootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "",
		"Export mode: analysis, export_overwrite, export_backup, export_new_only, or interactive")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human or json")
}

// loadConfig reads the project configuration, including the REPKIT_*
// override surface.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(rootFlag)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds a logger from CLI flags, falling back to the config
// file's logging section.
func newLogger(cfg *config.Config) *logging.Logger {
	format := cfg.Logging.Format
	if logFormatFlag != "" {
		format = logFormatFlag
	}
	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	return logging.NewLogger(logging.Config{
		Format: logging.Format(format),
		Level:  logging.ParseLevel(level),
	})
}

// resolveMode determines the effective mode name.
// Precedence: CLI flag > REPKIT_MODE env var > config.json mode > analysis.
// The env var is already folded into cfg by LoadConfig.
func resolveMode(cfg *config.Config) string {
	if modeFlag != "" {
		return modeFlag
	}
	if cfg.Mode != "" {
		return cfg.Mode
	}
	return policy.ModeAnalysis
}

// resolvePolicy loads the preset table (builtin plus the project's preset
// file) and resolves the effective export policy for this invocation.
func resolvePolicy(cfg *config.Config, ov policy.Overrides) (policy.ExportPolicy, error) {
	table, err := policy.LoadTable(filepath.Join(rootFlag, cfg.Presets))
	if err != nil {
		return policy.ExportPolicy{}, err
	}

	session := render.Session{}
	return policy.Resolve(resolveMode(cfg), table, ov, session.Interactive())
}

// projectPath resolves a config-relative path against the project root.
func projectPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(rootFlag, p)
}

// boolFlagOverride maps a changed bool flag onto a sparse override field.
func boolFlagOverride(cmd *cobra.Command, name string, dst **bool) {
	if cmd.Flags().Changed(name) {
		v, err := cmd.Flags().GetBool(name)
		if err != nil {
			return
		}
		*dst = &v
	}
}
