// Package state models point-in-time snapshots of the installed package
// set, their persistence as immutable timestamped files, and the diff and
// reconciliation logic that moves the live system back toward a saved
// snapshot.
package state

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aurumpkg/aurum/pkg/errors"
	"github.com/aurumpkg/aurum/pkg/model"
	"github.com/aurumpkg/aurum/pkg/version"
)

// PkgState is a snapshot of every installed package and its version at one
// point in time. Snapshots are immutable once constructed; restoring "to" a
// snapshot never edits it, it only derives corrective actions. Pinned
// snapshots are protected from housekeeping deletion.
type PkgState struct {
	Time     time.Time
	Pinned   bool
	Packages map[model.PkgName]version.Version
}

// stateJSON is the persisted form: a timestamp, the pin flag and a plain
// name-to-version-string mapping.
type stateJSON struct {
	Time     time.Time         `json:"time"`
	Pinned   bool              `json:"pinned"`
	Packages map[string]string `json:"packages"`
}

// MarshalJSON renders versions back to their raw strings.
func (s PkgState) MarshalJSON() ([]byte, error) {
	env := stateJSON{
		Time:     s.Time,
		Pinned:   s.Pinned,
		Packages: make(map[string]string, len(s.Packages)),
	}
	for name, ver := range s.Packages {
		env.Packages[name.String()] = ver.String()
	}
	return json.Marshal(env)
}

// UnmarshalJSON decodes a snapshot. Individual entries whose version string
// no longer parses are dropped rather than failing the whole snapshot;
// malformed JSON is an error for the caller to treat as a corrupt file.
func (s *PkgState) UnmarshalJSON(data []byte) error {
	var env stateJSON
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	s.Time = env.Time
	s.Pinned = env.Pinned
	s.Packages = make(map[model.PkgName]version.Version, len(env.Packages))
	for name, raw := range env.Packages {
		v, err := version.Parse(raw)
		if err != nil {
			continue
		}
		s.Packages[model.PkgName(name)] = v
	}
	return nil
}

// LiveQuerier samples the installed package set of the live system,
// returning package names mapped to raw version strings.
type LiveQuerier interface {
	Installed(ctx context.Context) (map[model.PkgName]string, error)
}

// Capture samples every installed package and stamps the current time.
// Pinned is false by construction; pinning is applied later to the stored
// snapshot. Packages whose version string does not parse are dropped,
// consistent with load-time tolerance.
func Capture(ctx context.Context, db LiveQuerier) (*PkgState, error) {
	installed, err := db.Installed(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "sampling installed packages")
	}

	st := &PkgState{
		Time:     time.Now(),
		Packages: make(map[model.PkgName]version.Version, len(installed)),
	}
	for name, raw := range installed {
		v, err := version.Parse(raw)
		if err != nil {
			continue
		}
		st.Packages[name] = v
	}
	return st, nil
}
