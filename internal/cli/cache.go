package cli

import (
	"fmt"
	"path/filepath"

	"github.com/aurumpkg/aurum/pkg/cache"
	"github.com/spf13/cobra"
)

// NewCacheCmd creates the cache command with its subcommands.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the package artifact caches",
	}

	cmd.AddCommand(newCacheInfoCmd(), newCacheListCmd())

	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache directories and total size",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fc := cache.NewFileCache(cfg.Settings.CacheDirs...)
			entries, err := fc.List()
			if err != nil {
				return fmt.Errorf("failed to list cache: %w", err)
			}
			size, err := fc.TotalSize()
			if err != nil {
				return fmt.Errorf("failed to size cache: %w", err)
			}

			for _, dir := range fc.Dirs() {
				fmt.Printf("Directory: %s\n", dir)
			}
			fmt.Printf("Artifacts: %d\n", len(entries))
			fmt.Printf("Total size: %s\n", cache.FormatBytes(size))
			return nil
		},
	}
}

func newCacheListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached package artifacts",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			entries, err := cache.NewFileCache(cfg.Settings.CacheDirs...).List()
			if err != nil {
				return fmt.Errorf("failed to list cache: %w", err)
			}
			for _, e := range entries {
				fmt.Printf("%-12s %s\n", cache.FormatBytes(e.Size), filepath.Base(e.Path))
			}
			return nil
		},
	}
}
