package cli

import (
	"fmt"

	"github.com/aurumpkg/aurum/pkg/model"
	"github.com/aurumpkg/aurum/pkg/orchestrator"
	"github.com/spf13/cobra"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var (
		dryRun  bool
		workers int
		needed  bool
	)

	cmd := &cobra.Command{
		Use:   "install PACKAGE...",
		Short: "Install packages",
		Long: `Install one or more packages. Names are resolved against the official
repositories first and the AUR second; AUR packages are built locally
before they are installed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, args, dryRun, workers, needed)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve and print actions without executing")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of parallel builds within a wave (0=auto)")
	cmd.Flags().BoolVar(&needed, "needed", true, "Skip packages the system already satisfies")

	return cmd
}

func runInstall(cmd *cobra.Command, packages []string, dryRun bool, workers int, needed bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if workers > 0 {
		cfg.Settings.BuildWorkers = workers
	}

	names := make([]model.PkgName, 0, len(packages))
	for _, p := range packages {
		names = append(names, model.PkgName(p))
	}

	orch := loadOrchestrator(cfg)
	opts := orchestrator.InstallOptions{SkipSatisfied: needed, DryRun: dryRun}

	if err := orch.Install(cmd.Context(), names, opts); err != nil {
		return fmt.Errorf("failed to install packages: %w", err)
	}
	return nil
}
