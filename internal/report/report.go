// Package report records the outcome of a gate run and writes it as a
// machine-readable document or as GitHub step outputs.
package report

import (
	"github.com/rxtech-lab/shopware-version-gate/internal/compat"
)

// Outcome is the final state of a run.
type Outcome string

const (
	OutcomePending Outcome = "pending"
	OutcomePass    Outcome = "pass"
	OutcomeFail    Outcome = "fail"
)

// Environment is what the gate learned about one environment.
type Environment struct {
	URL     string          `json:"url" yaml:"url" jsonschema:"title=URL,description=Base URL of the admin API"`
	Raw     string          `json:"raw" yaml:"raw" jsonschema:"title=Raw version,description=Version string as returned by /api/_info/config"`
	Version *compat.Version `json:"version,omitempty" yaml:"version,omitempty" jsonschema:"title=Parsed version"`
}

// Report is the document written by --report.
type Report struct {
	Policy     compat.Policy    `json:"policy" yaml:"policy" jsonschema:"title=Policy,enum=default,enum=exact,enum=minor,enum=major"`
	Production Environment      `json:"production" yaml:"production"`
	Test       Environment      `json:"test" yaml:"test"`
	Direction  compat.Direction `json:"direction,omitempty" yaml:"direction,omitempty" jsonschema:"title=Direction,description=Test relative to production,enum=equal,enum=ahead,enum=behind"`
	Findings   []compat.Finding `json:"findings" yaml:"findings" jsonschema:"title=Findings,description=Advisory warnings and notices"`
	Outcome    Outcome          `json:"outcome" yaml:"outcome" jsonschema:"title=Outcome,enum=pending,enum=pass,enum=fail"`
	Error      string           `json:"error,omitempty" yaml:"error,omitempty" jsonschema:"title=Error,description=Message of the fatal condition"`
}

// New starts a pending report.
func New(policy compat.Policy, productionURL, testURL string) *Report {
	return &Report{
		Policy:     policy,
		Production: Environment{URL: productionURL, Raw: "", Version: nil},
		Test:       Environment{URL: testURL, Raw: "", Version: nil},
		Direction:  "",
		Findings:   []compat.Finding{},
		Outcome:    OutcomePending,
		Error:      "",
	}
}

// Apply records a policy evaluation.
func (r *Report) Apply(result compat.Result) {
	prod := result.Production
	test := result.Test

	r.Production.Version = &prod
	r.Test.Version = &test
	r.Direction = result.Direction
	r.Findings = append(r.Findings, result.Findings...)
}

// Pass marks the run compatible.
func (r *Report) Pass() {
	r.Outcome = OutcomePass
	r.Error = ""
}

// Fail marks the run failed with message.
func (r *Report) Fail(message string) {
	r.Outcome = OutcomeFail
	r.Error = message
}

// Compatible reports whether the run passed.
func (r *Report) Compatible() bool {
	return r.Outcome == OutcomePass
}
