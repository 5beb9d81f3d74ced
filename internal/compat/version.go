package compat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/shopware-version-gate/pkg/errors"
)

// componentCount is the fixed width of a parsed version.
const componentCount = 4

// Version is a normalized four component version such as 6.5.8.3.
// The fourth component is carried for display only and never compared.
type Version struct {
	Major    int `json:"major" yaml:"major"`
	Minor    int `json:"minor" yaml:"minor"`
	Patch    int `json:"patch" yaml:"patch"`
	Revision int `json:"revision" yaml:"revision"`
}

// Parse normalizes a dot-delimited version string.
// Missing trailing components become 0 and anything past the fourth is ignored:
//   - "6.5"       -> 6.5.0.0
//   - "6.5.1.2.9" -> 6.5.1.2
//
// Every kept component must be a non-negative integer.
func Parse(raw string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(raw), ".")
	for len(parts) < componentCount {
		parts = append(parts, "0")
	}

	var components [componentCount]int

	for i, part := range parts[:componentCount] {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid version %q: component %d is not a number", raw, i+1)
		}

		if n < 0 {
			return Version{}, errors.Newf(errors.ErrCodeInvalidVersion, "invalid version %q: component %d is negative", raw, i+1)
		}

		components[i] = n
	}

	return Version{
		Major:    components[0],
		Minor:    components[1],
		Patch:    components[2],
		Revision: components[3],
	}, nil
}

// String returns the dotted four component form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Patch, v.Revision)
}

// Semver returns the major.minor.patch part as a semantic version.
func (v Version) Semver() *semver.Version {
	return semver.New(uint64(v.Major), uint64(v.Minor), uint64(v.Patch), "", "")
}
