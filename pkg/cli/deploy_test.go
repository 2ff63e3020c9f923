package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/dataflux/nodedeploy/pkg/errors"
)

// parseWithArgs runs parseDeployOptions against the real flag set.
func parseWithArgs(t *testing.T, args ...string) (*deployOptions, error) {
	t.Helper()

	var (
		opts     *deployOptions
		parseErr error
	)
	cmd := rootCmd()
	cmd.Before = nil
	cmd.Action = func(_ context.Context, c *cli.Command) error {
		opts, parseErr = parseDeployOptions(c)
		return nil
	}

	if err := cmd.Run(context.Background(), append([]string{"nodedeploy"}, args...)); err != nil {
		t.Fatalf("command run failed: %v", err)
	}
	return opts, parseErr
}

func TestParseDeployOptions(t *testing.T) {
	opts, err := parseWithArgs(t,
		"--node", "datahub-test.example.io",
		"--token", "tok",
		"--config-folder", "./node-config",
		"--secrets-file", "./secrets.json",
		"--replace-secrets",
		"--dry-run=false",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.node != "datahub-test.example.io" {
		t.Errorf("unexpected node: %s", opts.node)
	}
	if !opts.flags.ReplaceSecrets {
		t.Error("expected replace-secrets to be set")
	}
	if opts.flags.DryRun {
		t.Error("expected dry-run to be disabled")
	}
}

func TestParseDeployOptionsDryRunDefaultsOn(t *testing.T) {
	opts, err := parseWithArgs(t, "--node", "n", "--token", "t", "--config-folder", "c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opts.flags.DryRun {
		t.Error("dry-run must default to enabled")
	}
}

func TestParseDeployOptionsMissingRequired(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "all missing",
			args: nil,
			want: "node (INPUT_NODE)",
		},
		{
			name: "token missing",
			args: []string{"--node", "n", "--config-folder", "c"},
			want: "token (INPUT_JWT)",
		},
		{
			name: "config folder missing",
			args: []string{"--node", "n", "--token", "t"},
			want: "config-folder (INPUT_CONFIG_FOLDER)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseWithArgs(t, tt.args...)
			if err == nil {
				t.Fatal("expected error for missing required inputs")
			}
			if opts != nil {
				t.Error("options should be nil on validation failure")
			}
			if !errors.HasCode(err, errors.ErrCodeConfiguration) {
				t.Errorf("expected CONFIGURATION code, got %v", err)
			}
			if got := err.Error(); !strings.Contains(got, tt.want) {
				t.Errorf("error %q should mention %q", got, tt.want)
			}
		})
	}
}

func TestParseDeployOptionsEnvSources(t *testing.T) {
	t.Setenv("INPUT_NODE", "datahub.example.io")
	t.Setenv("INPUT_JWT", "tok")
	t.Setenv("INPUT_CONFIG_FOLDER", "./cfg")
	t.Setenv("INPUT_USE_WHITELIST", "true")

	opts, err := parseWithArgs(t)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.node != "datahub.example.io" {
		t.Errorf("expected node from INPUT_NODE, got %s", opts.node)
	}
	if !opts.flags.UseWhitelist {
		t.Error("expected use-whitelist from INPUT_USE_WHITELIST")
	}
}

func TestParseDeployOptionsInvalidSummaryFormat(t *testing.T) {
	_, err := parseWithArgs(t,
		"--node", "n", "--token", "t", "--config-folder", "c",
		"--summary-format", "xml",
	)
	if err == nil {
		t.Fatal("expected error for invalid summary format")
	}
	if !errors.HasCode(err, errors.ErrCodeConfiguration) {
		t.Errorf("expected CONFIGURATION code, got %v", err)
	}
}

func TestNormalizeBoolInputs(t *testing.T) {
	env := map[string]string{
		"INPUT_DRY_RUN":         "No",
		"INPUT_FORCE_CONFIG":    "YES",
		"INPUT_REPLACE_SECRETS": "true",
		"INPUT_USE_WHITELIST":   "",
	}

	normalizeBoolInputs(
		func(k string) string { return env[k] },
		func(k, v string) error { env[k] = v; return nil },
	)

	if env["INPUT_DRY_RUN"] != "false" {
		t.Errorf("expected No to normalize to false, got %q", env["INPUT_DRY_RUN"])
	}
	if env["INPUT_FORCE_CONFIG"] != "true" {
		t.Errorf("expected YES to normalize to true, got %q", env["INPUT_FORCE_CONFIG"])
	}
	if env["INPUT_REPLACE_SECRETS"] != "true" {
		t.Errorf("true should pass through unchanged, got %q", env["INPUT_REPLACE_SECRETS"])
	}
	if env["INPUT_USE_WHITELIST"] != "" {
		t.Errorf("empty values should pass through unchanged, got %q", env["INPUT_USE_WHITELIST"])
	}
}
