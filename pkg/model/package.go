// Package model defines the identity types shared across the resolver,
// classifier and state subsystems.
package model

import (
	"fmt"

	"github.com/aurumpkg/aurum/pkg/version"
)

// PkgName is a normalized package identifier. It is the key type of every
// map keyed by package.
type PkgName string

func (n PkgName) String() string { return string(n) }

// SimplePkg pairs a package name with the version recorded for it, typically
// inside a state snapshot. Values are immutable once constructed.
type SimplePkg struct {
	Name    PkgName
	Version version.Version
}

func (p SimplePkg) String() string {
	return fmt.Sprintf("%s %s", p.Name, p.Version)
}

// Package is a resolved package. There are exactly two variants, Prebuilt
// and Buildable; the unexported marker keeps the set closed so consumers can
// type-switch over both arms exhaustively.
type Package interface {
	isPackage()
}

// Prebuilt is a package installable directly from a binary repository.
type Prebuilt struct {
	Name        PkgName
	Version     string
	Repo        string
	Description string
}

func (Prebuilt) isPackage() {}

// Buildable is a recipe that must be built locally before it can be
// installed. SnapshotURL is the absolute URL of the recipe tarball.
type Buildable struct {
	Name        PkgName
	Base        PkgName
	Version     string
	SnapshotURL string
	Depends     []Dep
	MakeDepends []Dep
	Description string
}

func (Buildable) isPackage() {}

// PackageName returns the name of either package variant.
func PackageName(p Package) PkgName {
	switch v := p.(type) {
	case Prebuilt:
		return v.Name
	case Buildable:
		return v.Name
	default:
		panic(fmt.Sprintf("unhandled package variant %T", p))
	}
}

// PackageVersion returns the raw version string of either package variant.
func PackageVersion(p Package) string {
	switch v := p.(type) {
	case Prebuilt:
		return v.Version
	case Buildable:
		return v.Version
	default:
		panic(fmt.Sprintf("unhandled package variant %T", p))
	}
}
