// Package version implements comparison semantics for pacman-style version
// strings of the form [epoch:]version[-release].
package version

import (
	"fmt"
	"strconv"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// ErrInvalid is returned when a version string cannot be parsed.
var ErrInvalid = fmt.Errorf("invalid version")

// Version is a parsed package version. Values are immutable; construct them
// with Parse or MustParse.
type Version struct {
	epoch   int
	core    *goversion.Version
	release string
	raw     string
}

// Parse parses a raw version string. The epoch defaults to 0 when absent and
// the release part (after the last dash) is optional. Parsing may fail on
// free-form strings such as VCS revisions; callers decide the fallback
// policy (see Outdated).
func Parse(raw string) (Version, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Version{}, fmt.Errorf("%w: empty string", ErrInvalid)
	}

	epoch := 0
	rest := s
	if idx := strings.IndexByte(rest, ':'); idx >= 0 {
		e, err := strconv.Atoi(rest[:idx])
		if err != nil || e < 0 {
			return Version{}, fmt.Errorf("%w: bad epoch in %q", ErrInvalid, raw)
		}
		epoch = e
		rest = rest[idx+1:]
	}

	release := ""
	if idx := strings.LastIndexByte(rest, '-'); idx >= 0 {
		release = rest[idx+1:]
		rest = rest[:idx]
	}

	core, err := goversion.NewVersion(rest)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalid, raw, err)
	}

	return Version{epoch: epoch, core: core, release: release, raw: s}, nil
}

// MustParse is like Parse but panics on error. Intended for literals.
func MustParse(raw string) Version {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// Epoch returns the epoch component (0 when absent).
func (v Version) Epoch() int { return v.epoch }

// Release returns the release component ("" when absent).
func (v Version) Release() string { return v.release }

// String returns the original raw string.
func (v Version) String() string { return v.raw }

// Compare returns -1, 0 or 1 if v is less than, equal to or greater than
// other. Epoch dominates, then the core version, then the release. A missing
// release on either side makes the release comparison a tie, matching how
// pacman treats an omitted pkgrel.
func (v Version) Compare(other Version) int {
	if v.epoch != other.epoch {
		if v.epoch < other.epoch {
			return -1
		}
		return 1
	}
	if c := v.core.Compare(other.core); c != 0 {
		return c
	}
	return compareRelease(v.release, other.release)
}

// Equal reports whether two versions compare as equal.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// LessThan reports whether v is older than other.
func (v Version) LessThan(other Version) bool {
	return v.Compare(other) < 0
}

func compareRelease(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}
	av, aerr2 := goversion.NewVersion(a)
	bv, berr2 := goversion.NewVersion(b)
	if aerr2 == nil && berr2 == nil {
		return av.Compare(bv)
	}
	return strings.Compare(a, b)
}

// Outdated reports whether the locally installed version is older than the
// remote candidate. Unparsable versions never abort an upgrade check: a
// remote version that fails to parse is never considered newer, while a
// local version that fails to parse is always considered stale.
func Outdated(local, remote string) bool {
	rv, rerr := Parse(remote)
	if rerr != nil {
		return false
	}
	lv, lerr := Parse(local)
	if lerr != nil {
		return true
	}
	return lv.LessThan(rv)
}
