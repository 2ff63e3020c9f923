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
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/dataflux/nodedeploy/pkg/deployer"
	"github.com/dataflux/nodedeploy/pkg/errors"
	"github.com/dataflux/nodedeploy/pkg/node"
	"github.com/dataflux/nodedeploy/pkg/serializer"
)

// deployOptions holds parsed options for the deploy run.
type deployOptions struct {
	node          string
	token         string
	configFolder  string
	secretsFile   string
	variablesFile string
	flags         deployer.Flags
	writeSummary  bool
	summaryOutput string
	summaryFormat string
}

// parseDeployOptions parses and validates run options. Missing required
// inputs yield a CONFIGURATION error before any collaborator exists.
func parseDeployOptions(cmd *cli.Command) (*deployOptions, error) {
	opts := &deployOptions{
		node:          cmd.String("node"),
		token:         cmd.String("token"),
		configFolder:  cmd.String("config-folder"),
		secretsFile:   cmd.String("secrets-file"),
		variablesFile: cmd.String("variables-file"),
		flags: deployer.Flags{
			DryRun:         cmd.Bool("dry-run"),
			ForceConfig:    cmd.Bool("force-config"),
			ReplaceSecrets: cmd.Bool("replace-secrets"),
			UseWhitelist:   cmd.Bool("use-whitelist"),
		},
		writeSummary:  cmd.Bool("write-summary"),
		summaryOutput: cmd.String("summary-output"),
		summaryFormat: cmd.String("summary-format"),
	}

	var missing []string
	if opts.node == "" {
		missing = append(missing, "node (INPUT_NODE)")
	}
	if opts.token == "" {
		missing = append(missing, "token (INPUT_JWT)")
	}
	if opts.configFolder == "" {
		missing = append(missing, "config-folder (INPUT_CONFIG_FOLDER)")
	}
	if len(missing) > 0 {
		return nil, errors.New(errors.ErrCodeConfiguration,
			fmt.Sprintf("required inputs missing: %s", strings.Join(missing, ", ")))
	}

	if opts.summaryFormat != "" && serializer.Format(opts.summaryFormat).IsUnknown() {
		return nil, errors.New(errors.ErrCodeConfiguration,
			fmt.Sprintf("invalid --summary-format %q (must be one of: %s)",
				opts.summaryFormat, strings.Join(serializer.SupportedFormats(), ", ")))
	}

	return opts, nil
}

// runDeploy is the root command action: construct the node client,
// orchestrate the run, and report the outcome.
func runDeploy(ctx context.Context, cmd *cli.Command) error {
	opts, err := parseDeployOptions(cmd)
	if err != nil {
		return err
	}

	client, err := node.New(opts.node, opts.token)
	if err != nil {
		return err
	}

	orchOpts := []deployer.Option{deployer.WithNodeURL(opts.node)}
	if opts.writeSummary {
		path := os.Getenv(deployer.SummaryFileEnvVar)
		if path == "" {
			slog.Warn("write-summary enabled but no summary file configured",
				"env", deployer.SummaryFileEnvVar)
		} else {
			sink, sinkErr := deployer.NewSummarySink(path)
			if sinkErr != nil {
				return sinkErr
			}
			defer func() {
				if closeErr := sink.Close(); closeErr != nil {
					slog.Warn("failed to finalize summary file", "error", closeErr)
				}
			}()
			orchOpts = append(orchOpts, deployer.WithSinks(sink))
		}
	}

	orch := deployer.New(client, opts.flags, orchOpts...)
	res, runErr := orch.Run(ctx, deployer.Plan{
		SecretsFile:   opts.secretsFile,
		VariablesFile: opts.variablesFile,
		ConfigFolder:  opts.configFolder,
	})

	slog.Info("deployment run finished",
		"run_id", res.ID,
		"succeeded", res.Succeeded(),
		"summary", res.Summary(),
	)

	if opts.summaryFormat != "" || opts.summaryOutput != "" {
		if werr := writeRunSummary(ctx, opts, res); werr != nil {
			slog.Error("failed to write run summary", "error", werr)
		}
	}

	if runErr != nil {
		return runErr
	}
	if !res.Succeeded() {
		return fmt.Errorf("deployment completed with failures: %s", res.Summary())
	}
	return nil
}

// writeRunSummary renders the run result through the serializer.
func writeRunSummary(ctx context.Context, opts *deployOptions, res *deployer.RunResult) error {
	format := serializer.Format(opts.summaryFormat)
	if opts.summaryFormat == "" {
		format = serializer.FormatJSON
	}

	w := serializer.NewFileWriterOrStdout(format, opts.summaryOutput)
	defer func() {
		if err := w.Close(); err != nil {
			slog.Warn("failed to close summary writer", "error", err)
		}
	}()

	return w.Serialize(ctx, res)
}
