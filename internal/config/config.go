package config

import (
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/shopware-version-gate/internal/compat"
	"github.com/rxtech-lab/shopware-version-gate/pkg/errors"
)

// Environment variable names read by the gate.
const (
	EnvProdURL          = "PROD_URL"
	EnvTestURL          = "TEST_URL"
	EnvProdClientID     = "PROD_CLIENT_ID"
	EnvProdClientSecret = "PROD_CLIENT_SECRET"
	EnvTestClientID     = "TEST_CLIENT_ID"
	EnvTestClientSecret = "TEST_CLIENT_SECRET"
	EnvFailOn           = "FAIL_ON"
)

// Credentials identify one Shopware environment and its integration.
type Credentials struct {
	Name         string
	BaseURL      string
	ClientID     string
	ClientSecret string
}

// Config holds everything the gate needs for one run.
// The env tag names the variable a field is sourced from and is used in
// validation messages.
type Config struct {
	ProdURL          string `env:"PROD_URL" validate:"required,url"`
	ProdClientID     string `env:"PROD_CLIENT_ID" validate:"required"`
	ProdClientSecret string `env:"PROD_CLIENT_SECRET" validate:"required"`
	TestURL          string `env:"TEST_URL" validate:"required,url"`
	TestClientID     string `env:"TEST_CLIENT_ID" validate:"required"`
	TestClientSecret string `env:"TEST_CLIENT_SECRET" validate:"required"`

	// FailOn is the raw FAIL_ON value; see Policy.
	FailOn string `env:"FAIL_ON"`

	// Timeout bounds each HTTP request. Zero keeps the client default.
	Timeout time.Duration `env:"GATE_TIMEOUT" validate:"min=0"`
}

// Validate checks the configuration and returns the selected policy.
// Missing values are reported before malformed ones, and both before FAIL_ON.
func (c *Config) Validate() (compat.Policy, error) {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("env")
	})

	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
		}

		var missing, invalid []string

		for _, fe := range validationErrors {
			if fe.Tag() == "required" {
				missing = append(missing, fe.Field())
			} else {
				invalid = append(invalid, fe.Field())
			}
		}

		if len(missing) > 0 {
			sort.Strings(missing)

			return "", errors.Newf(errors.ErrCodeMissingParameter,
				"Missing one or more required environment variables: %s.", strings.Join(missing, ", "))
		}

		sort.Strings(invalid)

		return "", errors.Newf(errors.ErrCodeInvalidConfiguration,
			"Invalid value for environment variables: %s.", strings.Join(invalid, ", "))
	}

	return compat.ParsePolicy(c.FailOn)
}

// Production returns the production environment credentials.
func (c *Config) Production() Credentials {
	return Credentials{
		Name:         "production",
		BaseURL:      c.ProdURL,
		ClientID:     c.ProdClientID,
		ClientSecret: c.ProdClientSecret,
	}
}

// Test returns the test environment credentials.
func (c *Config) Test() Credentials {
	return Credentials{
		Name:         "test",
		BaseURL:      c.TestURL,
		ClientID:     c.TestClientID,
		ClientSecret: c.TestClientSecret,
	}
}
