package gate

import (
	"bytes"
	"context"
	"testing"

	"github.com/rxtech-lab/shopware-version-gate/internal/annotation"
	"github.com/rxtech-lab/shopware-version-gate/internal/compat"
	"github.com/rxtech-lab/shopware-version-gate/internal/report"
	"github.com/rxtech-lab/shopware-version-gate/mocks"
	"github.com/rxtech-lab/shopware-version-gate/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// GateTestSuite drives the gate with mocked environments.
type GateTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller
	prod *mocks.MockVersionSource
	test *mocks.MockVersionSource
	out  *bytes.Buffer
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateTestSuite))
}

func (suite *GateTestSuite) SetupTest() {
	suite.reset()
}

// reset builds fresh mocks bound to the current (sub)test.
func (suite *GateTestSuite) reset() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.prod = mocks.NewMockVersionSource(suite.ctrl)
	suite.test = mocks.NewMockVersionSource(suite.ctrl)
	suite.out = &bytes.Buffer{}

	suite.prod.EXPECT().Name().Return("production").AnyTimes()
	suite.prod.EXPECT().BaseURL().Return("https://shop.example").AnyTimes()
	suite.test.EXPECT().Name().Return("test").AnyTimes()
	suite.test.EXPECT().BaseURL().Return("https://staging.shop.example").AnyTimes()
}

func (suite *GateTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *GateTestSuite) newGate(policy compat.Policy) *Gate {
	return New(suite.prod, suite.test, policy, annotation.NewWriter(suite.out), nil)
}

// expectVersions sets up the full four-call sequence in the required order.
func (suite *GateTestSuite) expectVersions(prodVersion, testVersion string) {
	gomock.InOrder(
		suite.prod.EXPECT().Token(gomock.Any()).Return("prod-token", nil),
		suite.test.EXPECT().Token(gomock.Any()).Return("test-token", nil),
		suite.prod.EXPECT().Version(gomock.Any(), "prod-token").Return(prodVersion, nil),
		suite.test.EXPECT().Version(gomock.Any(), "test-token").Return(testVersion, nil),
	)
}

func (suite *GateTestSuite) TestRun() {
	testCases := []struct {
		name           string
		policy         compat.Policy
		prodVersion    string
		testVersion    string
		expectError    bool
		expectedOutput string
	}{
		{
			name:        "default exact match",
			policy:      compat.PolicyDefault,
			prodVersion: "6.5.1.0",
			testVersion: "6.5.1.0",
			expectedOutput: "Production version: 6.5.1.0\n" +
				"Test version: 6.5.1.0\n" +
				"::notice ::Versions match exactly.\n" +
				"Versions are compatible. Safe to continue.\n",
		},
		{
			name:        "default patch differs",
			policy:      compat.PolicyDefault,
			prodVersion: "6.5.1.0",
			testVersion: "6.5.2.0",
			expectedOutput: "Production version: 6.5.1.0\n" +
				"Test version: 6.5.2.0\n" +
				"::warning ::Patch version differs. Prod=1, Test=2. Proceed with caution.\n" +
				"Versions are compatible. Safe to continue.\n",
		},
		{
			name:        "default minor differs",
			policy:      compat.PolicyDefault,
			prodVersion: "6.5.1.0",
			testVersion: "6.6.0.0",
			expectError: true,
			expectedOutput: "Production version: 6.5.1.0\n" +
				"Test version: 6.6.0.0\n",
		},
		{
			name:        "exact identical",
			policy:      compat.PolicyExact,
			prodVersion: "6.5.1.0",
			testVersion: "6.5.1.0",
			expectedOutput: "Production version: 6.5.1.0\n" +
				"Test version: 6.5.1.0\n" +
				"Versions are compatible. Safe to continue.\n",
		},
		{
			name:        "exact patch differs",
			policy:      compat.PolicyExact,
			prodVersion: "6.5.1.0",
			testVersion: "6.5.2.0",
			expectError: true,
			expectedOutput: "Production version: 6.5.1.0\n" +
				"Test version: 6.5.2.0\n",
		},
		{
			name:        "major minor and patch differ",
			policy:      compat.PolicyMajor,
			prodVersion: "6.5.1",
			testVersion: "6.9.3",
			expectedOutput: "Production version: 6.5.1\n" +
				"Test version: 6.9.3\n" +
				"::notice ::Minor version differs. Prod=5, Test=9.\n" +
				"::notice ::Patch version differs. Prod=1, Test=3.\n" +
				"Versions are compatible. Safe to continue.\n",
		},
		{
			name:        "major major differs",
			policy:      compat.PolicyMajor,
			prodVersion: "6.5.1",
			testVersion: "7.0.0",
			expectError: true,
			expectedOutput: "Production version: 6.5.1\n" +
				"Test version: 7.0.0\n",
		},
		{
			name:        "minor patch differs",
			policy:      compat.PolicyMinor,
			prodVersion: "6.5.1",
			testVersion: "6.5.9",
			expectedOutput: "Production version: 6.5.1\n" +
				"Test version: 6.5.9\n" +
				"::warning ::Patch version differs. Prod=1, Test=9. Proceed with caution.\n" +
				"Versions are compatible. Safe to continue.\n",
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.reset()

			suite.expectVersions(tc.prodVersion, tc.testVersion)

			rep, err := suite.newGate(tc.policy).Run(context.Background())
			suite.Require().NotNil(rep)
			suite.Equal(tc.expectedOutput, suite.out.String())
			suite.Equal(tc.prodVersion, rep.Production.Raw)
			suite.Equal(tc.testVersion, rep.Test.Raw)
			suite.Equal(tc.policy, rep.Policy)

			if tc.expectError {
				suite.Require().Error(err)
				suite.True(errors.HasCode(err, errors.ErrCodeVersionMismatch))
				suite.Equal(report.OutcomeFail, rep.Outcome)
				suite.Equal(errors.Message(err), rep.Error)
				return
			}

			suite.Require().NoError(err)
			suite.Equal(report.OutcomePass, rep.Outcome)
			suite.Empty(rep.Error)
		})
	}
}

func (suite *GateTestSuite) TestProductionAuthFailureStopsEarly() {
	authErr := errors.New(errors.ErrCodeAuthFailed, "Auth failed at https://shop.example: 401 denied")
	suite.prod.EXPECT().Token(gomock.Any()).Return("", authErr)

	rep, err := suite.newGate(compat.PolicyDefault).Run(context.Background())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeAuthFailed))
	suite.Equal(report.OutcomeFail, rep.Outcome)
	suite.Equal("Auth failed at https://shop.example: 401 denied", rep.Error)
	suite.Empty(suite.out.String())
}

func (suite *GateTestSuite) TestTestAuthFailureSkipsVersionLookups() {
	gomock.InOrder(
		suite.prod.EXPECT().Token(gomock.Any()).Return("prod-token", nil),
		suite.test.EXPECT().Token(gomock.Any()).Return("", errors.New(errors.ErrCodeAuthFailed, "Auth failed")),
	)

	_, err := suite.newGate(compat.PolicyDefault).Run(context.Background())
	suite.True(errors.HasCode(err, errors.ErrCodeAuthFailed))
}

func (suite *GateTestSuite) TestVersionFetchFailure() {
	gomock.InOrder(
		suite.prod.EXPECT().Token(gomock.Any()).Return("prod-token", nil),
		suite.test.EXPECT().Token(gomock.Any()).Return("test-token", nil),
		suite.prod.EXPECT().Version(gomock.Any(), "prod-token").Return("6.5.1.0", nil),
		suite.test.EXPECT().Version(gomock.Any(), "test-token").
			Return("", errors.New(errors.ErrCodeVersionFetchFailed, "Failed to get version")),
	)

	rep, err := suite.newGate(compat.PolicyDefault).Run(context.Background())
	suite.True(errors.HasCode(err, errors.ErrCodeVersionFetchFailed))
	suite.Equal("6.5.1.0", rep.Production.Raw)
	suite.Empty(rep.Test.Raw)
	// nothing is printed before both versions are known
	suite.Empty(suite.out.String())
}

func (suite *GateTestSuite) TestUnparsableVersion() {
	suite.expectVersions("6.5.1.0", "")

	rep, err := suite.newGate(compat.PolicyDefault).Run(context.Background())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidVersion))
	suite.Contains(errors.Message(err), "cannot parse test version")
	suite.Equal(report.OutcomeFail, rep.Outcome)
	suite.Equal("Production version: 6.5.1.0\nTest version: \n", suite.out.String())
}

func (suite *GateTestSuite) TestReportCarriesParsedVersions() {
	suite.expectVersions("6.5.1", "6.5.3.2")

	rep, err := suite.newGate(compat.PolicyMinor).Run(context.Background())
	suite.Require().NoError(err)
	suite.Require().NotNil(rep.Production.Version)
	suite.Require().NotNil(rep.Test.Version)
	suite.Equal("6.5.1.0", rep.Production.Version.String())
	suite.Equal("6.5.3.2", rep.Test.Version.String())
	suite.Equal(compat.DirectionAhead, rep.Direction)
	suite.Len(rep.Findings, 1)
	suite.Equal("https://shop.example", rep.Production.URL)
	suite.Equal("https://staging.shop.example", rep.Test.URL)
}
