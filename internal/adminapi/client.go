// Package adminapi talks to the Shopware admin API of a single environment:
// it exchanges integration credentials for a bearer token and reads the
// platform version from the info config endpoint.
package adminapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/rxtech-lab/shopware-version-gate/internal/config"
	"github.com/rxtech-lab/shopware-version-gate/internal/logger"
	"github.com/rxtech-lab/shopware-version-gate/internal/version"
	"github.com/rxtech-lab/shopware-version-gate/pkg/errors"
	"go.uber.org/zap"
)

const (
	tokenPath  = "/api/oauth/token"
	configPath = "/api/_info/config"

	grantTypeClientCredentials = "client_credentials"
)

type tokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	GrantType    string `json:"grant_type"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type configResponse struct {
	Version string `json:"version"`
}

// Client is an admin API client bound to one environment.
type Client struct {
	credentials config.Credentials
	http        *resty.Client
	log         *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request. Zero leaves the client without a timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.SetTimeout(timeout)
		}
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a client for the environment described by credentials.
func NewClient(credentials config.Credentials, opts ...Option) *Client {
	httpClient := resty.New().
		SetBaseURL(credentials.BaseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", version.UserAgent()).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	c := &Client{
		credentials: credentials,
		http:        httpClient,
		log:         logger.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.http.SetLogger(c.log.Sugar())

	return c
}

// Name returns the environment name, e.g. "production".
func (c *Client) Name() string {
	return c.credentials.Name
}

// BaseURL returns the environment base URL.
func (c *Client) BaseURL() string {
	return c.credentials.BaseURL
}

// Token performs the client-credentials exchange and returns the access token.
// A 200 response without access_token yields an empty token.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.log.Debug("requesting access token",
		zap.String("environment", c.credentials.Name),
		zap.String("url", c.credentials.BaseURL+tokenPath),
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(tokenRequest{
			ClientID:     c.credentials.ClientID,
			ClientSecret: c.credentials.ClientSecret,
			GrantType:    grantTypeClientCredentials,
		}).
		Post(tokenPath)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeAuthFailed, err, "Auth failed at %s", c.credentials.BaseURL)
	}

	c.log.Debug("token response",
		zap.String("environment", c.credentials.Name),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", resp.Time()),
	)

	if resp.StatusCode() != http.StatusOK {
		return "", errors.Newf(errors.ErrCodeAuthFailed,
			"Auth failed at %s: %d %s", c.credentials.BaseURL, resp.StatusCode(), resp.String())
	}

	var body tokenResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", errors.Wrapf(errors.ErrCodeAuthFailed, err, "Auth failed at %s: malformed token response", c.credentials.BaseURL)
	}

	if body.AccessToken == "" {
		c.log.Warn("token response carried no access_token", zap.String("environment", c.credentials.Name))
	}

	return body.AccessToken, nil
}

// Version reads the platform version using token. A 200 response without a
// version field yields an empty string.
func (c *Client) Version(ctx context.Context, token string) (string, error) {
	c.log.Debug("requesting version",
		zap.String("environment", c.credentials.Name),
		zap.String("url", c.credentials.BaseURL+configPath),
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		Get(configPath)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeVersionFetchFailed, err, "Failed to get version from %s", c.credentials.BaseURL)
	}

	c.log.Debug("config response",
		zap.String("environment", c.credentials.Name),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", resp.Time()),
	)

	if resp.StatusCode() != http.StatusOK {
		return "", errors.Newf(errors.ErrCodeVersionFetchFailed,
			"Failed to get version from %s: %d %s", c.credentials.BaseURL, resp.StatusCode(), resp.String())
	}

	var body configResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", errors.Wrapf(errors.ErrCodeVersionFetchFailed, err, "Failed to get version from %s: malformed config response", c.credentials.BaseURL)
	}

	return body.Version, nil
}
