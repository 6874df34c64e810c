package cli

import (
	"fmt"

	"github.com/aurumpkg/aurum/pkg/cache"
	"github.com/aurumpkg/aurum/pkg/config"
	"github.com/aurumpkg/aurum/pkg/state"
	"github.com/spf13/cobra"
)

// NewStateCmd creates the state command with its subcommands.
func NewStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Manage installed-state snapshots",
		Long: `Capture the set of installed packages as a timestamped snapshot, list
saved snapshots, restore the system to a previous snapshot, or remove
old snapshots.`,
	}

	cmd.AddCommand(
		newStateSaveCmd(),
		newStateListCmd(),
		newStateRestoreCmd(),
		newStateCleanCmd(),
	)

	return cmd
}

func newStateSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save the current installed state as a new snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			st, err := state.Capture(cmd.Context(), loadSystem(cfg))
			if err != nil {
				return fmt.Errorf("failed to capture state: %w", err)
			}

			path, err := stateStore(cfg).Save(st)
			if err != nil {
				return fmt.Errorf("failed to save state: %w", err)
			}

			fmt.Printf("Saved state %s (%d packages)\n", state.ID(path), len(st.Packages))
			return nil
		},
	}
}

func newStateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store := stateStore(cfg)
			paths, err := store.List()
			if err != nil {
				return fmt.Errorf("failed to list states: %w", err)
			}
			if len(paths) == 0 {
				fmt.Println("No saved states.")
				return nil
			}

			for _, path := range paths {
				st, err := store.Load(path)
				if err != nil {
					fmt.Printf("%s  (unreadable: %v)\n", state.ID(path), err)
					continue
				}
				pin := ""
				if st.Pinned {
					pin = "  [pinned]"
				}
				fmt.Printf("%s  %d packages%s\n", state.ID(path), len(st.Packages), pin)
			}
			return nil
		},
	}
}

func newStateRestoreCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "restore [ID]",
		Short: "Restore the system to a saved snapshot",
		Long: `Compute the difference between the current installed state and the
selected snapshot, then reinstall and remove packages to match it.
Reinstalls come from the local package caches; packages without a cached
artifact are reported and skipped. Without an ID the newest snapshot is
used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			return runStateRestore(cmd, id, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print corrective actions without executing")

	return cmd
}

func runStateRestore(cmd *cobra.Command, id string, dryRun bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := stateStore(cfg)
	path, err := store.Resolve(id)
	if err != nil {
		return err
	}
	reference, err := store.Load(path)
	if err != nil {
		return err
	}

	sys := loadSystem(cfg)
	current, err := state.Capture(cmd.Context(), sys)
	if err != nil {
		return fmt.Errorf("failed to capture current state: %w", err)
	}

	diff := state.Diff(reference, current)
	if diff.Empty() {
		fmt.Printf("System already matches state %s, nothing to do.\n", state.ID(path))
		return nil
	}

	if dryRun {
		for _, pkg := range diff.ToAlter {
			fmt.Printf("reinstall %s\n", pkg)
		}
		for _, name := range diff.ToRemove {
			fmt.Printf("remove %s\n", name)
		}
		return nil
	}

	rec := state.NewReconciler(
		cache.NewFileCache(cfg.Settings.CacheDirs...),
		sys,
		state.Hooks{OnEvent: func(e state.Event) {
			fmt.Printf("%s: %s\n", e.Phase, e.Msg)
		}},
	)
	outcome, err := rec.Reconcile(cmd.Context(), diff)
	if err != nil {
		return fmt.Errorf("failed to restore state %s: %w", state.ID(path), err)
	}

	if !outcome.NothingToDo {
		fmt.Printf("Restored state %s: %d reinstalled, %d removed, %d missing from cache\n",
			state.ID(path), len(outcome.Reinstalled), len(outcome.Removed), len(outcome.Missing))
	}
	return nil
}

func newStateCleanCmd() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove old snapshots, keeping the newest ones",
		Long:  "Remove old snapshots. Pinned snapshots are never removed.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			removed, err := stateStore(cfg).Clean(keep)
			if err != nil {
				return fmt.Errorf("failed to clean states: %w", err)
			}
			for _, path := range removed {
				fmt.Printf("removed %s\n", state.ID(path))
			}
			fmt.Printf("Removed %d snapshots.\n", len(removed))
			return nil
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 10, "Number of unpinned snapshots to keep")

	return cmd
}

func stateStore(cfg *config.Config) *state.Store {
	return state.NewStore(cfg.Settings.StateDir)
}
