// Package config provides configuration management for the aurum package
// manager. It handles loading, validating, and saving application settings
// from YAML configuration files, providing sensible defaults for everything
// that is not set explicitly.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/aurumpkg/aurum/pkg/errors"
	"github.com/aurumpkg/aurum/pkg/fsutil"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Settings Settings `yaml:"settings"`
}

// Settings represents general application settings.
type Settings struct {
	// Directory settings. Empty values fall back to the XDG-derived
	// defaults from pkg/fsutil.
	StateDir    string `yaml:"state_dir,omitempty"`    // snapshot storage
	BuildDir    string `yaml:"build_dir,omitempty"`    // recipe build trees
	SnapshotDir string `yaml:"snapshot_dir,omitempty"` // downloaded recipe tarballs

	// CacheDirs are the directories searched for installable package
	// artifacts, in order. The first entry receives newly built packages.
	CacheDirs []string `yaml:"cache_dirs,omitempty"`

	// Network settings.
	AURURL        string        `yaml:"aur_url"`
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	SourceTimeout time.Duration `yaml:"source_timeout"` // per-source resolution timeout

	// Build settings.
	BuildWorkers int    `yaml:"build_workers"` // concurrent builds within a wave
	Makepkg      string `yaml:"makepkg,omitempty"`

	// Package database settings.
	Pacman    string `yaml:"pacman,omitempty"`
	NoConfirm bool   `yaml:"no_confirm"`

	// Output settings.
	LogLevel string `yaml:"log_level"` // error, warn, info, debug
}

// Default configuration values.
const (
	// DefaultAURURL is the AUR instance queried for buildable packages.
	DefaultAURURL = "https://aur.archlinux.org"

	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultSourceTimeout is the default per-source resolution timeout.
	DefaultSourceTimeout = 15 * time.Second

	// PacmanCacheDir is where pacman keeps downloaded official packages.
	PacmanCacheDir = "/var/cache/pacman/pkg"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	cfg := &Config{
		Settings: Settings{
			AURURL:        DefaultAURURL,
			HTTPTimeout:   DefaultHTTPTimeout,
			SourceTimeout: DefaultSourceTimeout,
			BuildWorkers:  runtime.NumCPU(),
			Makepkg:       "makepkg",
			Pacman:        "pacman",
			LogLevel:      "info",
		},
	}

	if dir, err := fsutil.GetStateDir(); err == nil {
		cfg.Settings.StateDir = dir
	}
	if dir, err := fsutil.GetBuildDir(); err == nil {
		cfg.Settings.BuildDir = dir
	}
	if dir, err := fsutil.GetSnapshotDir(); err == nil {
		cfg.Settings.SnapshotDir = dir
	}
	if dir, err := fsutil.GetPackageCacheDir(); err == nil {
		cfg.Settings.CacheDirs = []string{dir, PacmanCacheDir}
	} else {
		cfg.Settings.CacheDirs = []string{PacmanCacheDir}
	}

	return cfg
}

// LoadConfig loads configuration from a file. A missing file is not an
// error; it yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigValidation, err.Error())
	}

	return &config, nil
}

// SaveConfig saves configuration to a file.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrapf(err, "failed to replace config file %s", absPath)
	}

	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return data, nil
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.StateDir == "" {
		c.Settings.StateDir = defaults.Settings.StateDir
	}
	if c.Settings.BuildDir == "" {
		c.Settings.BuildDir = defaults.Settings.BuildDir
	}
	if c.Settings.SnapshotDir == "" {
		c.Settings.SnapshotDir = defaults.Settings.SnapshotDir
	}
	if len(c.Settings.CacheDirs) == 0 {
		c.Settings.CacheDirs = defaults.Settings.CacheDirs
	}
	if c.Settings.AURURL == "" {
		c.Settings.AURURL = defaults.Settings.AURURL
	}
	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.SourceTimeout == 0 {
		c.Settings.SourceTimeout = defaults.Settings.SourceTimeout
	}
	if c.Settings.BuildWorkers == 0 {
		c.Settings.BuildWorkers = defaults.Settings.BuildWorkers
	}
	if c.Settings.Makepkg == "" {
		c.Settings.Makepkg = defaults.Settings.Makepkg
	}
	if c.Settings.Pacman == "" {
		c.Settings.Pacman = defaults.Settings.Pacman
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	return validateSettings(c.Settings)
}

func validateSettings(s Settings) error {
	if s.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout cannot be negative")
	}
	if s.SourceTimeout < 0 {
		return fmt.Errorf("source_timeout cannot be negative")
	}
	if s.BuildWorkers < 1 {
		return fmt.Errorf("build_workers must be at least 1")
	}
	if s.AURURL != "" && !strings.HasPrefix(s.AURURL, "http://") && !strings.HasPrefix(s.AURURL, "https://") {
		return fmt.Errorf("aur_url must be an http or https URL, got %q", s.AURURL)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return fmt.Errorf("invalid log_level %q, must be one of: debug, info, warn, error", s.LogLevel)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, fsutil.AppName, "config.yaml"), nil
}
