// Package archive extracts downloaded snapshot tarballs into build
// directories.
package archive

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mholt/archives"

	"github.com/aurumpkg/aurum/pkg/errors"
	"github.com/aurumpkg/aurum/pkg/fsutil"
)

// Manager handles archive extraction.
type Manager struct{}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// Extract unpacks an archive into destDir, preserving file modes, times
// and symlinks. AUR snapshot tarballs carry a single top-level directory
// named after the package base, so the recipe lands at destDir/<base>.
func (am *Manager) Extract(ctx context.Context, archivePath, destDir string) error {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to open archive %s", archivePath)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer closer.Close()
	}

	if err := os.MkdirAll(destDir, fsutil.DirModeDefault); err != nil {
		return errors.Wrap(err, "failed to create destination directory")
	}

	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		return am.extractEntry(fsys, path, destDir, d)
	})
}

func (am *Manager) extractEntry(fsys fs.FS, path, destDir string, d fs.DirEntry) error {
	if path == "." {
		return nil
	}

	targetPath := filepath.Join(destDir, path)

	if d.IsDir() {
		return os.MkdirAll(targetPath, fsutil.DirModeDefault)
	}

	info, err := d.Info()
	if err != nil {
		return errors.Wrapf(err, "failed to stat archive entry %s", path)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		return am.writeSymlink(fsys, path, targetPath)
	}
	return am.writeRegularFile(fsys, path, targetPath, info)
}

// writeSymlink recreates a symlink; the archive filesystem exposes the
// link target as the entry's content.
func (am *Manager) writeSymlink(fsys fs.FS, path, targetPath string) error {
	entry, err := fsys.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read symlink %s", path)
	}
	defer entry.Close()

	target, err := io.ReadAll(entry)
	if err != nil {
		return errors.Wrapf(err, "failed to read symlink target %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrapf(err, "failed to create parent directory for %s", path)
	}
	_ = os.Remove(targetPath)

	return os.Symlink(string(target), targetPath)
}

func (am *Manager) writeRegularFile(fsys fs.FS, path, targetPath string, info fs.FileInfo) error {
	srcFile, err := fsys.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open archive entry %s", path)
	}
	defer srcFile.Close()

	if err := os.MkdirAll(filepath.Dir(targetPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrapf(err, "failed to create parent directory for %s", path)
	}

	dstFile, err := fsutil.CreateFilePerm(targetPath, info.Mode().Perm())
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", targetPath)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return errors.Wrapf(err, "failed to copy %s", path)
	}

	if err := os.Chmod(targetPath, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, "failed to set permissions on %s", targetPath)
	}
	if err := os.Chtimes(targetPath, info.ModTime(), info.ModTime()); err != nil {
		return errors.Wrapf(err, "failed to set times on %s", targetPath)
	}
	return nil
}
