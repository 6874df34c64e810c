package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aurumpkg/aurum/pkg/errors"
	"github.com/aurumpkg/aurum/pkg/model"
	"github.com/aurumpkg/aurum/pkg/version"
)

// FileCache locates built package artifacts on disk. It searches a fixed
// list of directories in priority order, typically aurum's own package
// cache first and pacman's /var/cache/pacman/pkg second. Directories that
// do not exist are treated as empty.
type FileCache struct {
	dirs []string
}

// NewFileCache creates a cache over the given directories. Order matters:
// earlier directories win when the same artifact exists in several.
func NewFileCache(dirs ...string) *FileCache {
	return &FileCache{dirs: dirs}
}

// Dirs returns the directories the cache searches, in priority order.
func (c *FileCache) Dirs() []string {
	return c.dirs
}

// Lookup finds the artifact for an exact package name and version. Pacman
// artifacts are named "name-version-release-arch.pkg.tar.zst" and the
// version value here carries the release, so matching the filename prefix
// "name-version-" identifies the artifact unambiguously.
func (c *FileCache) Lookup(name model.PkgName, ver version.Version) (string, bool, error) {
	prefix := fmt.Sprintf("%s-%s-", name, ver)

	for _, dir := range c.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", false, errors.Wrapf(err, "failed to read cache directory %s", dir)
		}

		for _, entry := range entries {
			if entry.IsDir() || !isArtifact(entry.Name()) {
				continue
			}
			if strings.HasPrefix(entry.Name(), prefix) {
				return filepath.Join(dir, entry.Name()), true, nil
			}
		}
	}

	return "", false, nil
}

// Entry is a single cached artifact.
type Entry struct {
	Path string
	Size int64
}

// List enumerates all package artifacts across the cache directories.
func (c *FileCache) List() ([]Entry, error) {
	var out []Entry

	for _, dir := range c.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "failed to read cache directory %s", dir)
		}

		for _, entry := range entries {
			if entry.IsDir() || !isArtifact(entry.Name()) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return nil, errors.Wrapf(err, "failed to stat %s", entry.Name())
			}
			out = append(out, Entry{Path: filepath.Join(dir, entry.Name()), Size: info.Size()})
		}
	}

	return out, nil
}

// TotalSize returns the combined size of all cached artifacts in bytes.
func (c *FileCache) TotalSize() (int64, error) {
	entries, err := c.List()
	if err != nil {
		return 0, err
	}

	var size int64
	for _, e := range entries {
		size += e.Size
	}
	return size, nil
}

// isArtifact reports whether a filename looks like a package artifact.
// Signature files (.sig) sit next to artifacts in pacman's cache and must
// never be offered for installation.
func isArtifact(name string) bool {
	return strings.Contains(name, ".pkg.tar") && !strings.HasSuffix(name, ".sig")
}

// FormatBytes converts a byte count to a human-readable string.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"K", "M", "G", "T", "P", "E"}
	if exp < len(units) {
		return fmt.Sprintf("%.1f %sB", float64(bytes)/float64(div), units[exp])
	}
	return fmt.Sprintf("%d B", bytes)
}
