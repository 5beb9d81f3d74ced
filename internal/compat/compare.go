package compat

import (
	"fmt"

	"github.com/rxtech-lab/shopware-version-gate/pkg/errors"
)

// Severity is the annotation level of a non-fatal finding.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityNotice  Severity = "notice"
)

// Finding is an advisory produced by Evaluate. Findings never fail the gate.
type Finding struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
}

// Direction describes where the test environment stands relative to production.
type Direction string

const (
	DirectionEqual  Direction = "equal"
	DirectionAhead  Direction = "ahead"
	DirectionBehind Direction = "behind"
)

// Result is the outcome of comparing two versions under a policy.
type Result struct {
	Policy     Policy
	Production Version
	Test       Version
	Direction  Direction
	Findings   []Finding
}

// Evaluate compares the production and test versions under policy.
// A non-nil error (code ErrCodeVersionMismatch) means the mismatch is fatal; the
// returned Result is still populated so callers can report it.
//
// Decision table:
//   - exact:   major, minor or patch differ -> fatal
//   - minor:   major or minor differ -> fatal; patch differs -> warning
//   - major:   major differs -> fatal; minor or patch differ -> notice each
//   - default: major or minor differ -> fatal; patch differs -> warning; otherwise a
//     "match exactly" notice
func Evaluate(prod, test Version, policy Policy) (Result, error) {
	result := Result{
		Policy:     policy,
		Production: prod,
		Test:       test,
		Direction:  direction(prod, test),
		Findings:   nil,
	}

	switch policy {
	case PolicyExact:
		if prod.Major != test.Major || prod.Minor != test.Minor || prod.Patch != test.Patch {
			return result, errors.Newf(errors.ErrCodeVersionMismatch,
				"Incompatible versions. Exact match required: Prod=%d.%d.%d, Test=%d.%d.%d. Aborting.",
				prod.Major, prod.Minor, prod.Patch, test.Major, test.Minor, test.Patch)
		}
	case PolicyMajor:
		if prod.Major != test.Major {
			return result, errors.Newf(errors.ErrCodeVersionMismatch,
				"Incompatible versions. Major mismatch: Prod=%d, Test=%d. Aborting.",
				prod.Major, test.Major)
		}

		if prod.Minor != test.Minor {
			result.Findings = append(result.Findings, Finding{
				Severity: SeverityNotice,
				Message:  fmt.Sprintf("Minor version differs. Prod=%d, Test=%d.", prod.Minor, test.Minor),
			})
		}

		if prod.Patch != test.Patch {
			result.Findings = append(result.Findings, Finding{
				Severity: SeverityNotice,
				Message:  fmt.Sprintf("Patch version differs. Prod=%d, Test=%d.", prod.Patch, test.Patch),
			})
		}
	case PolicyMinor, PolicyDefault:
		if prod.Major != test.Major || prod.Minor != test.Minor {
			return result, errors.Newf(errors.ErrCodeVersionMismatch,
				"Incompatible versions. Major/minor mismatch: Prod=%d.%d, Test=%d.%d. Aborting.",
				prod.Major, prod.Minor, test.Major, test.Minor)
		}

		switch {
		case prod.Patch != test.Patch:
			result.Findings = append(result.Findings, Finding{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("Patch version differs. Prod=%d, Test=%d. Proceed with caution.", prod.Patch, test.Patch),
			})
		case policy == PolicyDefault:
			result.Findings = append(result.Findings, Finding{
				Severity: SeverityNotice,
				Message:  "Versions match exactly.",
			})
		}
	default:
		return result, errors.Newf(errors.ErrCodeInvalidPolicy, "unknown policy %q", string(policy))
	}

	return result, nil
}

func direction(prod, test Version) Direction {
	switch test.Semver().Compare(prod.Semver()) {
	case 1:
		return DirectionAhead
	case -1:
		return DirectionBehind
	default:
		return DirectionEqual
	}
}
