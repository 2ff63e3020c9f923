/*
Copyright © 2025 Dataflux Authors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/dataflux/nodedeploy/pkg/logging"
	"github.com/dataflux/nodedeploy/pkg/serializer"
)

const name = "nodedeploy"

var (
	// overridden during build with ldflags
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// boolInputVars are the INPUT_* variables normalized before flag
// parsing so CI action configs may use yes/no alongside true/false.
var boolInputVars = []string{
	"INPUT_DRY_RUN",
	"INPUT_FORCE_CONFIG",
	"INPUT_REPLACE_SECRETS",
	"INPUT_USE_WHITELIST",
	"INPUT_WRITE_SUMMARY",
}

// Execute runs the root command. This is called by main.main() and
// terminates the process with code 1 on any error.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	normalizeBoolInputs(os.Getenv, os.Setenv)

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// normalizeBoolInputs rewrites yes/no style boolean inputs to forms
// the flag parser accepts.
func normalizeBoolInputs(getenv func(string) string, setenv func(string, string) error) {
	for _, key := range boolInputVars {
		switch strings.ToLower(strings.TrimSpace(getenv(key))) {
		case "yes":
			_ = setenv(key, "true")
		case "no":
			_ = setenv(key, "false")
		}
	}
}

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Deploy configuration, secrets, and variables to a data-integration node",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Description: `One-shot CI deployment step. Verifies the node's health, then pushes
the secrets file, variables file, and zipped configuration bundle that
were supplied, in that order. Runs in dry-run mode unless explicitly
disabled.

Every option can be supplied through its INPUT_* environment variable,
matching the CI action contract:

  INPUT_NODE=datahub-test.example.io \
  INPUT_JWT=$TOKEN \
  INPUT_CONFIG_FOLDER=./node-config \
  INPUT_DRY_RUN=false nodedeploy`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "node",
				Usage:   "Node address, e.g. datahub-test.example.io (required)",
				Sources: cli.EnvVars("INPUT_NODE"),
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Bearer credential for the node API (required)",
				Sources: cli.EnvVars("INPUT_JWT"),
			},
			&cli.StringFlag{
				Name:    "config-folder",
				Usage:   "Configuration tree to package and upload (required)",
				Sources: cli.EnvVars("INPUT_CONFIG_FOLDER"),
			},
			&cli.StringFlag{
				Name:    "secrets-file",
				Usage:   "JSON file with secret values to deploy",
				Sources: cli.EnvVars("INPUT_SECRETS_FILE"),
			},
			&cli.StringFlag{
				Name:    "variables-file",
				Usage:   "JSON file with environment variables to deploy",
				Sources: cli.EnvVars("INPUT_VARIABLES_FILE"),
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Value:   true,
				Usage:   "Log intended actions without any mutating node call",
				Sources: cli.EnvVars("INPUT_DRY_RUN"),
			},
			&cli.BoolFlag{
				Name:    "force-config",
				Usage:   "Let the node bypass conflict validation on config upload",
				Sources: cli.EnvVars("INPUT_FORCE_CONFIG"),
			},
			&cli.BoolFlag{
				Name:    "replace-secrets",
				Usage:   "Replace secrets (idempotent overwrite) instead of create (fail-if-exists)",
				Sources: cli.EnvVars("INPUT_REPLACE_SECRETS"),
			},
			&cli.BoolFlag{
				Name:    "use-whitelist",
				Usage:   "Restrict the bundle to paths listed in deployment/whitelist.txt",
				Sources: cli.EnvVars("INPUT_USE_WHITELIST"),
			},
			&cli.BoolFlag{
				Name:    "write-summary",
				Usage:   "Append step events to the CI step-summary file",
				Sources: cli.EnvVars("INPUT_WRITE_SUMMARY"),
			},
			&cli.StringFlag{
				Name:  "summary-output",
				Usage: "File path for the run summary (default: stdout when --summary-format is set)",
			},
			&cli.StringFlag{
				Name:  "summary-format",
				Usage: fmt.Sprintf("Run summary format: %s", strings.Join(serializer.SupportedFormats(), ", ")),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars(logging.LevelEnvVar),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting", "name", name, "version", version, "commit", commit, "date", date)
			return ctx, nil
		},
		Action: runDeploy,
	}
}
