package pacman

import (
	"regexp"
	"strings"

	"github.com/aurumpkg/aurum/pkg/model"
)

// notFoundRE matches pacman's untranslated message; the executor pins
// LC_ALL=C on captured output so this holds on localized systems too.
var notFoundRE = regexp.MustCompile(`^error: package '.+' was not found$`)

// parseQuery parses `pacman -Q` style output, one "name version" per line.
func parseQuery(stdout string) map[model.PkgName]string {
	out := make(map[model.PkgName]string)
	for _, line := range strings.Split(stdout, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		out[model.PkgName(fields[0])] = fields[1]
	}
	return out
}

// parseSyncInfo parses `pacman -Si` stanza output. Stanzas are separated
// by blank lines; each line of interest is "Key : Value" with a padded key.
func parseSyncInfo(stdout string) []model.Prebuilt {
	var out []model.Prebuilt

	for _, stanza := range strings.Split(stdout, "\n\n") {
		fields := parseStanza(stanza)
		if fields["Name"] == "" {
			continue
		}
		out = append(out, model.Prebuilt{
			Name:        model.PkgName(fields["Name"]),
			Version:     fields["Version"],
			Repo:        fields["Repository"],
			Description: fields["Description"],
		})
	}

	return out
}

func parseStanza(stanza string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(stanza, "\n") {
		idx := strings.Index(line, " : ")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+3:])
		if key != "" {
			fields[key] = value
		}
	}
	return fields
}

// onlyNotFoundErrors reports whether every stderr line is a "package not
// found" complaint. pacman -Si exits non-zero when any requested name is
// unknown; that is an answer, not a failure.
func onlyNotFoundErrors(stderr string) bool {
	sawAny := false
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !notFoundRE.MatchString(line) {
			return false
		}
		sawAny = true
	}
	return sawAny
}
