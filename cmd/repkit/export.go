package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"repkit/internal/artifact"
	"repkit/internal/render"
)

var (
	exportName string
	exportDir  string
)

var exportCmd = &cobra.Command{
	Use:   "export <file>...",
	Short: "Export artifact files under the active conflict policy",
	Long: `Export one or more rendered files into the target directory, one
variant per input file extension, resolving conflicts per the active mode.

Each variant is resolved independently: a failure on one format does not
block the others.

Examples:
  repkit export fig1.png fig1.pdf --name fig1 --mode export_backup
  repkit export table.csv --dir reports --overwrite
  REPKIT_MODE=export_new_only repkit export fig2.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportName, "name", "", "Artifact name (default: stem of the first file)")
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Target directory (default: exportDir from config)")
	exportCmd.Flags().Bool("outputs", false, "Override: master output switch")
	exportCmd.Flags().Bool("prompt", false, "Override: resolve conflicts interactively")
	exportCmd.Flags().Bool("overwrite", false, "Override: replace existing files")
	exportCmd.Flags().Bool("backup", false, "Override: rename existing files aside")
	exportCmd.Flags().Bool("compare", false, "Override: skip byte-identical files")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ov := cfg.Overrides
	boolFlagOverride(cmd, "outputs", &ov.Outputs)
	boolFlagOverride(cmd, "prompt", &ov.Prompt)
	boolFlagOverride(cmd, "overwrite", &ov.Overwrite)
	boolFlagOverride(cmd, "backup", &ov.Backup)
	boolFlagOverride(cmd, "compare", &ov.Compare)

	pol, err := resolvePolicy(cfg, ov)
	if err != nil {
		return err
	}

	name := exportName
	if name == "" {
		base := filepath.Base(args[0])
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	dir := exportDir
	if dir == "" {
		dir = cfg.ExportDir
	}
	dir = projectPath(dir)

	variants := make([]artifact.Variant, 0, len(args))
	for _, path := range args {
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		if ext == "" {
			return fmt.Errorf("cannot determine format for %s: file has no extension", path)
		}
		variants = append(variants, artifact.Variant{
			Format:   ext,
			Artifact: artifact.FromFile(path),
		})
	}

	exporter := artifact.NewExporter(dir, pol, logger)
	exporter.SetHints(render.Hints{
		Width:  cfg.Hints.Width,
		Height: cfg.Hints.Height,
		DPI:    cfg.Hints.DPI,
	})
	exporter.SetPrompter(artifact.TerminalPrompter(os.Stdin, os.Stderr))

	results, err := exporter.Export(name, variants)
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		line := fmt.Sprintf("%s: %s", res.Path, res.Outcome)
		if res.BackupPath != "" {
			line += fmt.Sprintf(" (previous kept as %s)", filepath.Base(res.BackupPath))
		}
		fmt.Println(line)
	}
	return err
}
