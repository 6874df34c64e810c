package cli

import (
	"fmt"

	"github.com/aurumpkg/aurum/pkg/orchestrator"
	"github.com/spf13/cobra"
)

// NewUpgradeCmd creates the upgrade command.
func NewUpgradeCmd() *cobra.Command {
	var (
		dryRun  bool
		workers int
	)

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade AUR packages",
		Long: `Check every foreign (non-repository) package against the AUR and rebuild
the ones whose remote version is newer. Use --dry-run to list pending
upgrades without building anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpgrade(cmd, dryRun, workers)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List pending upgrades without executing")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of parallel builds within a wave (0=auto)")

	return cmd
}

func runUpgrade(cmd *cobra.Command, dryRun bool, workers int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if workers > 0 {
		cfg.Settings.BuildWorkers = workers
	}

	orch := loadOrchestrator(cfg)
	if err := orch.Upgrade(cmd.Context(), orchestrator.UpgradeOptions{DryRun: dryRun}); err != nil {
		return fmt.Errorf("failed to upgrade packages: %w", err)
	}
	return nil
}
