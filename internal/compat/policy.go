package compat

import (
	"strings"

	"github.com/rxtech-lab/shopware-version-gate/pkg/errors"
)

// Policy selects which version components must match between environments.
type Policy string

const (
	// PolicyDefault fails on major/minor drift, warns on patch drift and
	// notes an exact match.
	PolicyDefault Policy = "default"
	// PolicyExact fails unless major, minor and patch all match.
	PolicyExact Policy = "exact"
	// PolicyMinor fails on major/minor drift and warns on patch drift.
	PolicyMinor Policy = "minor"
	// PolicyMajor fails on major drift only; minor and patch drift are notices.
	PolicyMajor Policy = "major"
)

// Policies lists every accepted policy in display order.
var Policies = []Policy{PolicyDefault, PolicyExact, PolicyMinor, PolicyMajor}

// ParsePolicy normalizes a FAIL_ON value. Empty input selects PolicyDefault.
func ParsePolicy(value string) (Policy, error) {
	normalized := Policy(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return PolicyDefault, nil
	}

	for _, p := range Policies {
		if p == normalized {
			return p, nil
		}
	}

	names := make([]string, len(Policies))
	for i, p := range Policies {
		names[i] = string(p)
	}

	return "", errors.Newf(errors.ErrCodeInvalidPolicy,
		"Invalid FAIL_ON value '%s'. Must be one of: %s.", value, strings.Join(names, ", "))
}

func (p Policy) String() string {
	return string(p)
}
