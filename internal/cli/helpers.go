package cli

import (
	"fmt"

	"github.com/aurumpkg/aurum/internal/logger"
	"github.com/aurumpkg/aurum/pkg/archive"
	"github.com/aurumpkg/aurum/pkg/aur"
	"github.com/aurumpkg/aurum/pkg/build"
	"github.com/aurumpkg/aurum/pkg/config"
	"github.com/aurumpkg/aurum/pkg/download"
	"github.com/aurumpkg/aurum/pkg/executor"
	"github.com/aurumpkg/aurum/pkg/orchestrator"
	"github.com/aurumpkg/aurum/pkg/pacman"
	"github.com/aurumpkg/aurum/pkg/repository"
)

// These variables will be set by the main package.
var (
	ConfigPath *string
	Verbose    *bool
)

// loadConfig loads the configuration, applies flag overrides and
// initializes the logger from it.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	configPath := ""
	if ConfigPath != nil {
		configPath = *ConfigPath
	}

	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		defaultPath, pathErr := config.GetDefaultConfigPath()
		if pathErr != nil {
			return nil, fmt.Errorf("failed to get default config path: %w", pathErr)
		}
		cfg, err = config.LoadConfig(defaultPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	logger.InitLogger(cfg.Settings.LogLevel, logger.FormatText)

	return cfg, nil
}

// loadSystem creates the pacman wrapper over a live executor.
func loadSystem(cfg *config.Config) *pacman.System {
	return pacman.New(executor.New(false), cfg.Settings.Pacman, cfg.Settings.NoConfirm)
}

// loadCascade assembles the source cascade: official repositories first,
// the AUR as fallback. Each source gets its own lookup cache and the
// configured per-source timeout.
func loadCascade(cfg *config.Config, sys *pacman.System) repository.Source {
	official := repository.Cached(pacman.NewSource(sys), repository.NewCache())
	community := repository.Cached(
		aur.NewSource(aur.NewClient(cfg.Settings.AURURL, cfg.Settings.HTTPTimeout)),
		repository.NewCache(),
	)

	timeout := cfg.Settings.SourceTimeout
	if timeout > 0 {
		official = repository.WithTimeout(official, timeout)
		community = repository.WithTimeout(community, timeout)
	}
	return repository.Combine(official, community)
}

// loadBuilder creates the wave builder from the configured directories.
func loadBuilder(cfg *config.Config) *build.Builder {
	fetcher := download.NewManager(cfg.Settings.HTTPTimeout, "aurum/"+Version)
	opts := build.Options{
		BuildDir:    cfg.Settings.BuildDir,
		SnapshotDir: cfg.Settings.SnapshotDir,
		CacheDir:    firstCacheDir(cfg),
		Makepkg:     cfg.Settings.Makepkg,
		Workers:     cfg.Settings.BuildWorkers,
		NoConfirm:   cfg.Settings.NoConfirm,
	}
	return build.New(fetcher, archive.NewManager(), executor.New(false), opts)
}

// loadOrchestrator wires the full install/upgrade pipeline.
func loadOrchestrator(cfg *config.Config) *orchestrator.Orchestrator {
	sys := loadSystem(cfg)
	return orchestrator.New(
		loadCascade(cfg, sys),
		sys,
		orchestrator.SingleWavePlanner{},
		loadBuilder(cfg),
		progressHooks(),
	)
}

// progressHooks prints orchestrator events in a simple, human-friendly form.
func progressHooks() orchestrator.Hooks {
	return orchestrator.Hooks{OnEvent: func(e orchestrator.Event) {
		switch {
		case e.ID != "":
			fmt.Printf("%s: %s (%s)\n", e.Phase, e.Msg, e.ID)
		case e.Msg != "":
			fmt.Printf("%s: %s\n", e.Phase, e.Msg)
		default:
			fmt.Printf("%s\n", e.Phase)
		}
	}}
}

func firstCacheDir(cfg *config.Config) string {
	if len(cfg.Settings.CacheDirs) > 0 {
		return cfg.Settings.CacheDirs[0]
	}
	return "."
}
