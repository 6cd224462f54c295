package config

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

type constraint struct {
	op      string
	version string
}

func (c constraint) allows(v string) bool {
	if !semver.IsValid(v) {
		return false
	}
	cmp := semver.Compare(v, c.version)
	switch c.op {
	case ">=":
		return cmp >= 0
	case ">":
		return cmp > 0
	case "<=":
		return cmp <= 0
	case "<":
		return cmp < 0
	case "^":
		return cmp >= 0 && semver.Major(v) == semver.Major(c.version)
	default:
		return cmp == 0
	}
}

// parseConstraint parses a comma-separated list of version bounds. Each bound
// is an operator (>=, >, <=, <, =, ^) followed by a semantic version; a bare
// version means "=". A leading "v" is optional.
func parseConstraint(s string) ([]constraint, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []constraint
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		op := "="
		for _, candidate := range []string{">=", "<=", ">", "<", "=", "^"} {
			if strings.HasPrefix(part, candidate) {
				op = candidate
				part = strings.TrimSpace(part[len(candidate):])
				break
			}
		}
		if part != "" && !strings.HasPrefix(part, "v") {
			part = "v" + part
		}
		if !semver.IsValid(part) {
			return nil, fmt.Errorf("dispatch.version: %q is not a valid semantic version", part)
		}
		out = append(out, constraint{op: op, version: semver.Canonical(part)})
	}
	return out, nil
}
