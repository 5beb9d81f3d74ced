package annotation

import (
	"bytes"
	"testing"

	"github.com/rxtech-lab/shopware-version-gate/internal/compat"
	"github.com/stretchr/testify/suite"
)

type AnnotationTestSuite struct {
	suite.Suite
	buf    *bytes.Buffer
	writer *Writer
}

func TestAnnotationSuite(t *testing.T) {
	suite.Run(t, new(AnnotationTestSuite))
}

func (suite *AnnotationTestSuite) SetupTest() {
	suite.buf = &bytes.Buffer{}
	suite.writer = NewWriter(suite.buf)
}

func (suite *AnnotationTestSuite) TestLevels() {
	suite.writer.Error("Auth failed")
	suite.writer.Warning("Patch version differs.")
	suite.writer.Notice("Versions match exactly.")

	suite.Equal("::error ::Auth failed\n::warning ::Patch version differs.\n::notice ::Versions match exactly.\n", suite.buf.String())
}

func (suite *AnnotationTestSuite) TestInfoIsPlain() {
	suite.writer.Infof("Production version: %s", "6.5.1.0")
	suite.Equal("Production version: 6.5.1.0\n", suite.buf.String())
}

func (suite *AnnotationTestSuite) TestEscapesCommandDelimiters() {
	suite.writer.Error("Auth failed at https://shop.example: 401 {\"errors\":\n[\"100%\"]}\r")
	suite.Equal("::error ::Auth failed at https://shop.example: 401 {\"errors\":%0A[\"100%25\"]}%0D\n", suite.buf.String())
}

func (suite *AnnotationTestSuite) TestFinding() {
	suite.writer.Finding(compat.Finding{Severity: compat.SeverityWarning, Message: "patch"})
	suite.writer.Finding(compat.Finding{Severity: compat.SeverityNotice, Message: "minor"})

	suite.Equal("::warning ::patch\n::notice ::minor\n", suite.buf.String())
}
