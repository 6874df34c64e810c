package state

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/aurumpkg/aurum/pkg/errors"
	"github.com/aurumpkg/aurum/pkg/model"
	"github.com/aurumpkg/aurum/pkg/version"
)

// ArtifactCache looks up locally cached package artifacts by exact name and
// version.
type ArtifactCache interface {
	Lookup(name model.PkgName, ver version.Version) (path string, ok bool, err error)
}

// Transactor issues the batched package transactions a reconciliation needs.
// Each call is a single fail-or-succeed unit.
type Transactor interface {
	InstallFiles(ctx context.Context, paths []string) error
	Remove(ctx context.Context, names []model.PkgName) error
}

// Event represents a simple progress notification.
type Event struct {
	Phase string // missing|reinstalling|removing|done
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

func (h Hooks) emit(e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// Outcome reports what a reconciliation did.
type Outcome struct {
	Missing     []model.PkgName // no cached artifact, cannot be restored
	Reinstalled []string        // artifact paths handed to the reinstall call
	Removed     []model.PkgName
	NothingToDo bool
}

// Reconciler maps a state diff onto batched reinstall and removal calls,
// sourcing reinstall artifacts from the content cache.
type Reconciler struct {
	cache ArtifactCache
	db    Transactor
	hooks Hooks
}

// NewReconciler builds a reconciler over the given cache and transactor.
func NewReconciler(cache ArtifactCache, db Transactor, hooks Hooks) *Reconciler {
	return &Reconciler{cache: cache, db: db, hooks: hooks}
}

// Reconcile applies diff to the live system. Packages without a cached
// artifact are reported as missing and skipped, never fatal. When anything
// remains, one batched reinstall and one batched removal are issued; both
// are attempted even if one fails, and their failures surface together.
// There are no retries.
func (r *Reconciler) Reconcile(ctx context.Context, diff *StateDiff) (*Outcome, error) {
	out := &Outcome{}

	var found []string
	for _, pkg := range diff.ToAlter {
		path, ok, err := r.cache.Lookup(pkg.Name, pkg.Version)
		if err != nil {
			return nil, errors.Wrapf(err, "cache lookup for %s", pkg.Name)
		}
		if !ok {
			out.Missing = append(out.Missing, pkg.Name)
			continue
		}
		found = append(found, path)
	}

	if len(out.Missing) > 0 {
		r.hooks.emit(Event{
			Phase: "missing",
			Msg:   fmt.Sprintf("no cached artifact for: %s", joinNames(out.Missing)),
		})
	}

	if len(found) == 0 && len(diff.ToRemove) == 0 {
		out.NothingToDo = true
		r.hooks.emit(Event{Phase: "done", Msg: "nothing to do"})
		return out, nil
	}

	var errs []error
	if len(found) > 0 {
		r.hooks.emit(Event{Phase: "reinstalling", Msg: fmt.Sprintf("%d packages", len(found))})
		if err := r.db.InstallFiles(ctx, found); err != nil {
			errs = append(errs, errors.Wrap(err, "batched reinstall failed"))
		} else {
			out.Reinstalled = found
		}
	}
	if len(diff.ToRemove) > 0 {
		r.hooks.emit(Event{Phase: "removing", Msg: fmt.Sprintf("%d packages", len(diff.ToRemove))})
		if err := r.db.Remove(ctx, diff.ToRemove); err != nil {
			errs = append(errs, errors.Wrap(err, "batched removal failed"))
		} else {
			out.Removed = diff.ToRemove
		}
	}

	if len(errs) > 0 {
		return out, stderrors.Join(errs...)
	}
	r.hooks.emit(Event{Phase: "done", Msg: "state restored"})
	return out, nil
}

func joinNames(names []model.PkgName) string {
	s := ""
	for i, n := range names {
		if i > 0 {
			s += ", "
		}
		s += n.String()
	}
	return s
}
