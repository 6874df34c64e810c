package state

import (
	"sort"

	"github.com/aurumpkg/aurum/pkg/model"
	"github.com/aurumpkg/aurum/pkg/version"
)

// StateDiff is the minimal set of corrective actions that moves the current
// state back to a reference state: packages to reinstall at their reference
// version and packages to remove outright. The two sides are disjoint by
// package name.
type StateDiff struct {
	ToAlter  []model.SimplePkg
	ToRemove []model.PkgName
}

// Empty reports whether the diff requires no action at all.
func (d *StateDiff) Empty() bool {
	return len(d.ToAlter) == 0 && len(d.ToRemove) == 0
}

// Diff answers "what must happen to current so it matches reference". The
// comparison is deliberately asymmetric:
//
//   - a package only in current did not exist at the reference point, so it
//     goes to ToRemove;
//   - a package in both but at a different version is re-pinned to its
//     reference version via ToAlter;
//   - a package only in reference must be reinstalled, also via ToAlter.
//
// Names are walked in sorted order so identical inputs always produce
// identical output.
func Diff(reference, current *PkgState) *StateDiff {
	d := &StateDiff{}

	for _, name := range sortedNames(current.Packages) {
		curVer := current.Packages[name]
		refVer, inRef := reference.Packages[name]
		switch {
		case !inRef:
			d.ToRemove = append(d.ToRemove, name)
		case !refVer.Equal(curVer):
			d.ToAlter = append(d.ToAlter, model.SimplePkg{Name: name, Version: refVer})
		}
	}

	for _, name := range sortedNames(reference.Packages) {
		if _, inCur := current.Packages[name]; !inCur {
			d.ToAlter = append(d.ToAlter, model.SimplePkg{Name: name, Version: reference.Packages[name]})
		}
	}

	return d
}

func sortedNames(packages map[model.PkgName]version.Version) []model.PkgName {
	names := make([]model.PkgName, 0, len(packages))
	for name := range packages {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
