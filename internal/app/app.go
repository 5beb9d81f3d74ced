// Package app wires the gate into a command line application.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/rxtech-lab/shopware-version-gate/internal/adminapi"
	"github.com/rxtech-lab/shopware-version-gate/internal/annotation"
	"github.com/rxtech-lab/shopware-version-gate/internal/config"
	"github.com/rxtech-lab/shopware-version-gate/internal/gate"
	"github.com/rxtech-lab/shopware-version-gate/internal/logger"
	"github.com/rxtech-lab/shopware-version-gate/internal/report"
	"github.com/rxtech-lab/shopware-version-gate/internal/version"
	"github.com/rxtech-lab/shopware-version-gate/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// Flag names.
const (
	flagProdURL          = "prod-url"
	flagProdClientID     = "prod-client-id"
	flagProdClientSecret = "prod-client-secret"
	flagTestURL          = "test-url"
	flagTestClientID     = "test-client-id"
	flagTestClientSecret = "test-client-secret"
	flagFailOn           = "fail-on"
	flagTimeout          = "timeout"
	flagVerbose          = "verbose"
	flagReport           = "report"
	flagGitHubOutput     = "github-output"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// Run executes the application with args and returns the process exit code.
// Every fatal condition is printed to stdout as an ::error annotation.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	out := annotation.NewWriter(stdout)

	if err := NewCommand(out, stdout, stderr).Run(ctx, args); err != nil {
		out.Error(errors.Message(err))
		return ExitFailure
	}

	return ExitOK
}

// NewCommand builds the root command. Annotations go to out.
func NewCommand(out *annotation.Writer, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "shopware-version-gate",
		Usage:     "Fail a pipeline when the test and production Shopware versions drift apart",
		Version:   version.GetVersion(),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagProdURL,
				Usage:   "Base URL of the production admin API",
				Sources: cli.EnvVars(config.EnvProdURL),
			},
			&cli.StringFlag{
				Name:    flagProdClientID,
				Usage:   "Integration access key ID for production",
				Sources: cli.EnvVars(config.EnvProdClientID),
			},
			&cli.StringFlag{
				Name:    flagProdClientSecret,
				Usage:   "Integration secret for production",
				Sources: cli.EnvVars(config.EnvProdClientSecret),
			},
			&cli.StringFlag{
				Name:    flagTestURL,
				Usage:   "Base URL of the test admin API",
				Sources: cli.EnvVars(config.EnvTestURL),
			},
			&cli.StringFlag{
				Name:    flagTestClientID,
				Usage:   "Integration access key ID for test",
				Sources: cli.EnvVars(config.EnvTestClientID),
			},
			&cli.StringFlag{
				Name:    flagTestClientSecret,
				Usage:   "Integration secret for test",
				Sources: cli.EnvVars(config.EnvTestClientSecret),
			},
			&cli.StringFlag{
				Name:    flagFailOn,
				Usage:   "Strictness policy: default, exact, minor or major",
				Value:   "default",
				Sources: cli.EnvVars(config.EnvFailOn),
			},
			&cli.DurationFlag{
				Name:    flagTimeout,
				Usage:   "Per request timeout; 0 waits indefinitely",
				Value:   0,
				Sources: cli.EnvVars("GATE_TIMEOUT"),
			},
			&cli.BoolFlag{
				Name:    flagVerbose,
				Usage:   "Log request diagnostics to stderr",
				Sources: cli.EnvVars("GATE_VERBOSE"),
			},
			&cli.StringFlag{
				Name:    flagReport,
				Usage:   "Write a JSON or YAML (by extension) report to `FILE`",
				Sources: cli.EnvVars("GATE_REPORT"),
			},
			&cli.StringFlag{
				Name:    flagGitHubOutput,
				Usage:   "Append step outputs to `FILE`",
				Sources: cli.EnvVars("GITHUB_OUTPUT"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "schema",
				Usage: "Print the JSON schema of the report",
				Action: func(_ context.Context, cmd *cli.Command) error {
					data, err := report.Schema()
					if err != nil {
						return err
					}

					_, err = fmt.Fprintln(cmd.Root().Writer, string(data))

					return err
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runGate(ctx, cmd, out)
		},
	}
}

func runGate(ctx context.Context, cmd *cli.Command, out *annotation.Writer) error {
	cfg := config.Config{
		ProdURL:          cmd.String(flagProdURL),
		ProdClientID:     cmd.String(flagProdClientID),
		ProdClientSecret: cmd.String(flagProdClientSecret),
		TestURL:          cmd.String(flagTestURL),
		TestClientID:     cmd.String(flagTestClientID),
		TestClientSecret: cmd.String(flagTestClientSecret),
		FailOn:           cmd.String(flagFailOn),
		Timeout:          cmd.Duration(flagTimeout),
	}

	policy, err := cfg.Validate()
	if err != nil {
		return err
	}

	log, err := logger.NewLogger(cmd.Bool(flagVerbose))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting version gate",
		zap.String("policy", policy.String()),
		zap.String("production", cfg.ProdURL),
		zap.String("test", cfg.TestURL),
		zap.Duration("timeout", cfg.Timeout),
	)

	production := adminapi.NewClient(cfg.Production(), adminapi.WithTimeout(cfg.Timeout), adminapi.WithLogger(log))
	test := adminapi.NewClient(cfg.Test(), adminapi.WithTimeout(cfg.Timeout), adminapi.WithLogger(log))

	rep, runErr := gate.New(production, test, policy, out, log).Run(ctx)

	// reports describe the run, so they are written for failures too
	if path := cmd.String(flagReport); path != "" {
		if err := report.Write(path, rep); err != nil {
			log.Error("failed to write report", zap.Error(err))

			if runErr == nil {
				return err
			}
		}
	}

	if path := cmd.String(flagGitHubOutput); path != "" {
		if err := report.WriteGitHubOutput(path, rep); err != nil {
			log.Error("failed to write step outputs", zap.Error(err))

			if runErr == nil {
				return err
			}
		}
	}

	return runErr
}
