package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/aurumpkg/aurum/pkg/errors"
	"github.com/aurumpkg/aurum/pkg/fsutil"
)

// HTTPManager is the live Manager implementation. Completed downloads are
// reused on later runs when the file already exists (and, if a checksum is
// known, still verifies).
type HTTPManager struct {
	client    *http.Client
	userAgent string
}

// NewManager creates a download manager with the given timeout and user
// agent. An empty user agent selects the aurum default.
func NewManager(timeout time.Duration, userAgent string) *HTTPManager {
	if userAgent == "" {
		userAgent = "aurum/1.0"
	}
	return &HTTPManager{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// group is a set of item indexes sharing one URL.
type group struct {
	url  string
	idxs []int
}

// FetchAll downloads all items, de-duplicated by URL. The first failure is
// reported after every group has been attempted.
func (m *HTTPManager) FetchAll(ctx context.Context, items []Item, opts Options) (map[string]string, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = max(2, runtime.NumCPU()/2)
	}
	if err := ensureDownloadDir(opts.Dir); err != nil {
		return nil, err
	}

	groups, err := groupByURL(items)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(items))
	var firstErr error
	var mu sync.Mutex

	tasks := make(chan group)
	var wg sync.WaitGroup
	for w := 0; w < opts.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := range tasks {
				path, err := m.fetchOne(ctx, items[g.idxs[0]], opts)
				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
				} else {
					for _, i := range g.idxs {
						paths[i] = path
					}
				}
				mu.Unlock()
			}
		}()
	}

	for _, g := range groups {
		tasks <- g
	}
	close(tasks)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	out := make(map[string]string, len(items))
	for i, it := range items {
		out[it.ID] = paths[i]
	}
	return out, nil
}

// Fetch downloads a single item.
func (m *HTTPManager) Fetch(ctx context.Context, item Item, opts Options) (string, error) {
	if err := ensureDownloadDir(opts.Dir); err != nil {
		return "", err
	}
	return m.fetchOne(ctx, item, opts)
}

func ensureDownloadDir(dir string) error {
	if dir == "" || !filepath.IsAbs(dir) {
		return errors.Wrapf(errors.ErrInvalidPath, "download dir must be absolute, got %q", dir)
	}
	if err := os.MkdirAll(dir, fsutil.DirModeDefault); err != nil {
		return errors.Wrap(err, "could not create download dir")
	}
	return nil
}

// groupByURL keeps input order while collapsing items that share a URL.
func groupByURL(items []Item) ([]group, error) {
	index := make(map[string]int)
	var groups []group
	for i, it := range items {
		if it.URL == nil {
			return nil, errors.Wrapf(errors.ErrDownloadFailed, "item %s has no URL", it.ID)
		}
		key := it.URL.String()
		if gi, ok := index[key]; ok {
			groups[gi].idxs = append(groups[gi].idxs, i)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, group{url: key, idxs: []int{i}})
	}
	return groups, nil
}

func (m *HTTPManager) fetchOne(ctx context.Context, item Item, opts Options) (string, error) {
	absPath := filepath.Join(opts.Dir, filename(item))
	if path, ok := reusable(absPath, item.Checksum); ok {
		return path, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.URL.String(), http.NoBody)
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", m.userAgent)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "fetching %s", item.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d: %w", resp.StatusCode, errors.ErrDownloadFailed)
	}

	tmpPath, err := spool(resp.Body, opts.Dir)
	if err != nil {
		return "", err
	}

	if item.Checksum != "" {
		ok, err := verifySHA256(tmpPath, item.Checksum)
		if err != nil {
			return "", err
		}
		if !ok {
			_ = os.Remove(tmpPath)
			return "", errors.Wrapf(errors.ErrFileHashMismatch, "checksum mismatch for %s", item.URL)
		}
	}

	if err := fsutil.Move(tmpPath, absPath); err != nil {
		return "", errors.Wrap(err, "could not finalize download")
	}
	return absPath, nil
}

// filename picks the destination name: the caller's choice, else the
// checksum, else a digest of the URL.
func filename(item Item) string {
	if item.Filename != "" {
		return item.Filename
	}
	if item.Checksum != "" {
		return item.Checksum
	}
	h := sha256.Sum256([]byte(item.URL.String()))
	return hex.EncodeToString(h[:])
}

// reusable reports whether an earlier download can be served as-is.
func reusable(absPath, checksum string) (string, bool) {
	st, err := os.Stat(absPath)
	if err != nil || st.Size() == 0 {
		return "", false
	}
	if checksum == "" {
		return absPath, true
	}
	if ok, err := verifySHA256(absPath, checksum); err == nil && ok {
		return absPath, true
	}
	return "", false
}

// spool writes a response body to a temp file in dir and returns its path.
func spool(body io.Reader, dir string) (string, error) {
	tmp, err := os.CreateTemp(dir, "fetch-*.tmp")
	if err != nil {
		return "", errors.Wrap(err, "could not create temp file")
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", errors.Wrap(err, "could not write download")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", errors.Wrap(err, "could not sync download")
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "could not close download")
	}
	return tmpPath, nil
}

func verifySHA256(path, wantHex string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, errors.Wrap(err, "open for checksum")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return false, errors.Wrap(err, "hashing")
	}
	return hex.EncodeToString(h.Sum(nil)) == strings.ToLower(strings.TrimSpace(wantHex)), nil
}
