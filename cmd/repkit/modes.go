package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"repkit/internal/policy"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List available export modes",
	Long: `List the built-in export modes plus any project-defined modes from the
preset file, with the policy fields each one resolves to.`,
	RunE: runModes,
}

func init() {
	rootCmd.AddCommand(modesCmd)
}

func runModes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	table, err := policy.LoadTable(filepath.Join(rootFlag, cfg.Presets))
	if err != nil {
		return err
	}

	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	bold := color.New(color.Bold)
	active := resolveMode(cfg)

	for _, name := range names {
		preset := table[name]

		prompt := "unset"
		if preset.Prompt != nil {
			prompt = fmt.Sprintf("%v", *preset.Prompt)
		}

		marker := "  "
		if name == active {
			marker = "* "
		}
		_, _ = bold.Printf("%s%s\n", marker, name)
		fmt.Printf("    outputs=%v prompt=%s overwrite=%v backup=%v compare=%v\n",
			preset.Outputs, prompt, preset.Overwrite, preset.Backup, preset.Compare)
	}
	return nil
}
