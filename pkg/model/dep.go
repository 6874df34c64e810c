package model

import "strings"

// depOperators in match order; two-character operators first so ">=" is not
// misread as ">".
var depOperators = []string{">=", "<=", ">", "<", "="}

// Dep is a declared dependency: a package name plus an optional version
// constraint such as ">=2.28". An empty constraint means any version
// satisfies the dependency.
type Dep struct {
	Name       PkgName
	Constraint string
}

// ParseDep parses a pacman-style dependency string like "glibc>=2.28".
// Anything before the first operator is the name; the rest, operator
// included, is the constraint.
func ParseDep(s string) Dep {
	s = strings.TrimSpace(s)
	for _, op := range depOperators {
		if idx := strings.Index(s, op); idx > 0 {
			return Dep{
				Name:       PkgName(s[:idx]),
				Constraint: s[idx:],
			}
		}
	}
	return Dep{Name: PkgName(s)}
}

// Unconstrained reports whether any installed version satisfies the
// dependency.
func (d Dep) Unconstrained() bool { return d.Constraint == "" }

// String renders the dependency back into its pacman dep-string form.
func (d Dep) String() string {
	return string(d.Name) + d.Constraint
}
