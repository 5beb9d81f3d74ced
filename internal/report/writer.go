package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/shopware-version-gate/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a report file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from the file extension. Anything but .yaml and
// .yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Marshal encodes r in format.
func Marshal(r *Report, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(r)
	default:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, err
		}

		return append(data, '\n'), nil
	}
}

// Write writes r to path, replacing any existing file.
func Write(path string, r *Report) error {
	data, err := Marshal(r, FormatFor(path))
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to encode report", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "failed to write report to %s", path)
	}

	return nil
}

// WriteGitHubOutput appends the step outputs to the file GitHub exposes as
// $GITHUB_OUTPUT.
func WriteGitHubOutput(path string, r *Report) error {
	outputs := [][2]string{
		{"prod_version", r.Production.Raw},
		{"test_version", r.Test.Raw},
		{"compatible", strconv.FormatBool(r.Compatible())},
		{"direction", string(r.Direction)},
	}

	var b strings.Builder
	for _, kv := range outputs {
		fmt.Fprintf(&b, "%s=%s\n", kv[0], singleLine(kv[1]))
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "failed to open step output file %s", path)
	}
	defer f.Close()

	if _, err := f.WriteString(b.String()); err != nil {
		return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "failed to write step output file %s", path)
	}

	return nil
}

// Schema returns the JSON schema of Report.
func Schema() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
	}

	schema := reflector.Reflect(&Report{})
	schema.Title = "shopware-version-gate report"

	return json.MarshalIndent(schema, "", "  ")
}

func singleLine(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
