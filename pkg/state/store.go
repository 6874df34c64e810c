package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aurumpkg/aurum/pkg/errors"
	"github.com/aurumpkg/aurum/pkg/fsutil"
)

// fileTimeLayout names snapshot files after their capture time.
const fileTimeLayout = "20060102-150405"

// Store persists snapshots as immutable timestamped JSON files in one
// directory. Files are written once and never modified afterwards.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created lazily on
// the first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's directory.
func (s *Store) Dir() string { return s.dir }

// Save writes st to a new timestamped snapshot file and returns its path.
// The write is atomic: data goes to a temporary file in the same directory
// which is renamed into place once synced.
func (s *Store) Save(st *PkgState) (path string, err error) {
	if err := fsutil.EnsureDir(s.dir); err != nil {
		return "", errors.Wrap(err, "creating state directory")
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encoding state snapshot")
	}

	// Saves within the same second must not overwrite each other, so a
	// taken name gets a counter suffix. The underscore sorts after the
	// dot of the plain name, keeping lexical order chronological.
	base := st.Time.Format(fileTimeLayout)
	path = filepath.Join(s.dir, base+".json")
	for n := 2; ; n++ {
		if _, serr := os.Stat(path); os.IsNotExist(serr) {
			break
		}
		path = filepath.Join(s.dir, fmt.Sprintf("%s_%02d.json", base, n))
	}

	tmpFile, err := os.CreateTemp(s.dir, ".state-*.tmp")
	if err != nil {
		return "", errors.Wrap(err, "creating temporary state file")
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return "", errors.Wrap(err, "writing temporary state file")
	}
	if err = tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return "", errors.Wrap(err, "syncing temporary state file")
	}
	if err = tmpFile.Close(); err != nil {
		return "", errors.Wrap(err, "closing temporary state file")
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return "", errors.Wrapf(err, "renaming temporary state file to %s", path)
	}

	return path, nil
}

// List returns the paths of all stored snapshots, newest first. The
// timestamped filenames make lexical order chronological.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading state directory")
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, entry.Name()))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	return paths, nil
}

// Load reads and decodes one snapshot file. An unreadable or undecodable
// file is fatal; only individual bad version entries inside a well-formed
// file are tolerated (see PkgState.UnmarshalJSON).
func (s *Store) Load(path string) (*PkgState, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(ErrSnapshotNotFound, "%s", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading state file %s", path)
	}

	st := &PkgState{}
	if err := json.Unmarshal(data, st); err != nil {
		return nil, errors.Wrapf(ErrStateCorrupt, "decoding %s: %v", path, err)
	}
	return st, nil
}

// Resolve turns a snapshot ID (the filename without extension) into a path.
// An empty ID selects the newest snapshot.
func (s *Store) Resolve(id string) (string, error) {
	if id == "" {
		paths, err := s.List()
		if err != nil {
			return "", err
		}
		if len(paths) == 0 {
			return "", ErrNoSnapshots
		}
		return paths[0], nil
	}

	path := filepath.Join(s.dir, id+".json")
	if _, err := os.Stat(path); err != nil {
		return "", errors.Wrapf(ErrSnapshotNotFound, "%s", id)
	}
	return path, nil
}

// ID returns the snapshot ID for a stored path.
func ID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".json")
}

// Clean removes old snapshots, keeping the newest keep unpinned ones.
// Pinned snapshots are never removed. Files that fail to decode are left in
// place rather than deleted blindly. The removed paths are returned.
func (s *Store) Clean(keep int) ([]string, error) {
	if keep < 0 {
		return nil, fmt.Errorf("keep count cannot be negative")
	}

	paths, err := s.List()
	if err != nil {
		return nil, err
	}

	var removed []string
	unpinned := 0
	for _, path := range paths {
		st, err := s.Load(path)
		if err != nil {
			continue
		}
		if st.Pinned {
			continue
		}
		unpinned++
		if unpinned <= keep {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, errors.Wrapf(err, "removing %s", path)
		}
		removed = append(removed, path)
	}
	return removed, nil
}
