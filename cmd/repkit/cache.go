package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"repkit/internal/memo"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the computation cache",
}

var cacheLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List cached computation results",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		entries, err := store.List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("cache is empty")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("%-40s %10s  %s\n", e.Key,
				humanize.Bytes(uint64(e.Size)),
				e.Modified.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var cacheRmCmd = &cobra.Command{
	Use:   "rm <key>...",
	Short: "Remove cached entries by key",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		for _, key := range args {
			if err := store.Remove(key); err != nil {
				return err
			}
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		return store.Clear()
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path [key]",
	Short: "Print the cache directory, or the file path for a key",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			fmt.Println(store.Path(args[0]))
		} else {
			fmt.Println(store.Dir())
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheLsCmd)
	cacheCmd.AddCommand(cacheRmCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePathCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openStore() (*memo.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return memo.NewStore(projectPath(cfg.CacheDir), newLogger(cfg)), nil
}
