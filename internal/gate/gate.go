package gate

import (
	"context"

	"github.com/rxtech-lab/shopware-version-gate/internal/annotation"
	"github.com/rxtech-lab/shopware-version-gate/internal/compat"
	"github.com/rxtech-lab/shopware-version-gate/internal/logger"
	"github.com/rxtech-lab/shopware-version-gate/internal/report"
	"github.com/rxtech-lab/shopware-version-gate/pkg/errors"
	"go.uber.org/zap"
)

// VersionSource is one environment the gate reads a version from.
type VersionSource interface {
	// Name identifies the environment in logs and reports.
	Name() string
	// BaseURL is the environment root URL.
	BaseURL() string
	// Token exchanges the environment credentials for a bearer token.
	Token(ctx context.Context) (string, error)
	// Version reads the raw version string using token.
	Version(ctx context.Context, token string) (string, error)
}

// Gate compares the production and test environments under a policy.
type Gate struct {
	production VersionSource
	test       VersionSource
	policy     compat.Policy
	out        *annotation.Writer
	log        *logger.Logger
}

// New creates a gate. out receives the CI-facing lines.
func New(production, test VersionSource, policy compat.Policy, out *annotation.Writer, log *logger.Logger) *Gate {
	if log == nil {
		log = logger.NewNop()
	}

	return &Gate{
		production: production,
		test:       test,
		policy:     policy,
		out:        out,
		log:        log,
	}
}

// Run executes the pipeline: token(prod), token(test), version(prod),
// version(test), parse, evaluate. Advisory findings are written as they are
// produced; a fatal condition is returned as an error and left for the caller
// to report.
//
// The returned report is never nil and holds whatever was learned before a
// failure.
func (g *Gate) Run(ctx context.Context) (*report.Report, error) {
	rep := report.New(g.policy, g.production.BaseURL(), g.test.BaseURL())

	fail := func(err error) (*report.Report, error) {
		rep.Fail(errors.Message(err))
		return rep, err
	}

	prodToken, err := g.production.Token(ctx)
	if err != nil {
		return fail(err)
	}

	testToken, err := g.test.Token(ctx)
	if err != nil {
		return fail(err)
	}

	prodRaw, err := g.production.Version(ctx, prodToken)
	if err != nil {
		return fail(err)
	}

	rep.Production.Raw = prodRaw

	testRaw, err := g.test.Version(ctx, testToken)
	if err != nil {
		return fail(err)
	}

	rep.Test.Raw = testRaw

	g.out.Infof("Production version: %s", prodRaw)
	g.out.Infof("Test version: %s", testRaw)

	prod, err := compat.Parse(prodRaw)
	if err != nil {
		return fail(errors.Wrapf(errors.ErrCodeInvalidVersion, err, "cannot parse %s version", g.production.Name()))
	}

	test, err := compat.Parse(testRaw)
	if err != nil {
		return fail(errors.Wrapf(errors.ErrCodeInvalidVersion, err, "cannot parse %s version", g.test.Name()))
	}

	result, err := compat.Evaluate(prod, test, g.policy)
	rep.Apply(result)

	g.log.Info("versions compared",
		zap.String("policy", g.policy.String()),
		zap.String("production", prod.String()),
		zap.String("test", test.String()),
		zap.String("direction", string(result.Direction)),
	)

	if err != nil {
		return fail(err)
	}

	for _, finding := range result.Findings {
		g.out.Finding(finding)
	}

	g.out.Infof("Versions are compatible. Safe to continue.")
	rep.Pass()

	return rep, nil
}
