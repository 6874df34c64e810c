package fsutil

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the name of the application used in paths
	AppName = "aurum"
)

// GetCacheDir returns the cache directory for the application,
// typically ~/.cache/aurum/.
func GetCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, AppName), nil
}

// GetDataDir returns the data directory for the application following the
// XDG Base Directory Specification: $XDG_DATA_HOME/aurum/ with a fallback
// to ~/.local/share/aurum/.
func GetDataDir() (string, error) {
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", AppName), nil
}

// GetStateDir returns the directory where package state snapshots are kept.
// Format: <data_dir>/states/
func GetStateDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "states"), nil
}

// GetBuildDir returns the directory where build recipes are unpacked and built.
// Format: <cache_dir>/builds/
func GetBuildDir() (string, error) {
	cacheDir, err := GetCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "builds"), nil
}

// GetSnapshotDir returns the directory for downloaded recipe tarballs.
// Format: <cache_dir>/snapshots/
func GetSnapshotDir() (string, error) {
	cacheDir, err := GetCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "snapshots"), nil
}

// GetPackageCacheDir returns the directory where built package archives land.
// Format: <cache_dir>/packages/
func GetPackageCacheDir() (string, error) {
	cacheDir, err := GetCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "packages"), nil
}

// EnsureDirs creates all necessary directories if they don't exist
func EnsureDirs() error {
	dirs := []func() (string, error){
		GetStateDir,
		GetBuildDir,
		GetSnapshotDir,
		GetPackageCacheDir,
	}

	for _, dirFn := range dirs {
		dir, err := dirFn()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, DirModeDefault); err != nil {
			return err
		}
	}

	return nil
}
