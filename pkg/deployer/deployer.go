/*
Copyright © 2025 Dataflux Authors
SPDX-License-Identifier: Apache-2.0
*/

package deployer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dataflux/nodedeploy/pkg/errors"
	"github.com/dataflux/nodedeploy/pkg/node"
	"github.com/dataflux/nodedeploy/pkg/packager"
)

// Step action names recorded in results and events.
const (
	actionHealthCheck    = "health-check"
	actionCreateSecrets  = "create-secrets"
	actionReplaceSecrets = "replace-secrets"
	actionUploadVars     = "upload-variables"
	actionUploadConfig   = "upload-config"
)

// Orchestrator sequences the deployment steps against one node:
// health gate, secrets, variables, config, in that fixed order, one
// blocking operation at a time.
//
// Failure policy: a failed health check or a payload parse failure
// aborts the whole run; an upload failure is recorded on its step and
// later steps still run; a packaging failure fails the config step
// without an upload attempt.
type Orchestrator struct {
	client   node.API
	packager *packager.Packager
	flags    Flags
	nodeURL  string
	sinks    []EventSink
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSinks appends event sinks. A LogSink is always installed first.
func WithSinks(sinks ...EventSink) Option {
	return func(o *Orchestrator) {
		o.sinks = append(o.sinks, sinks...)
	}
}

// WithPackager overrides the bundle packager.
func WithPackager(p *packager.Packager) Option {
	return func(o *Orchestrator) {
		if p != nil {
			o.packager = p
		}
	}
}

// WithNodeURL records the node URL on run results for reporting.
func WithNodeURL(u string) Option {
	return func(o *Orchestrator) {
		o.nodeURL = u
	}
}

// New creates an orchestrator for the given node client and flags.
func New(client node.API, flags Flags, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:   client,
		flags:    flags,
		packager: packager.New(packager.WithWhitelist(flags.UseWhitelist)),
		sinks:    []EventSink{LogSink{}},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the deployment plan. The returned RunResult always
// reflects every attempted step, including on fatal aborts; the error
// is non-nil only for run-fatal conditions (health gate, parse).
func (o *Orchestrator) Run(ctx context.Context, plan Plan) (*RunResult, error) {
	res := &RunResult{
		ID:      uuid.NewString(),
		Node:    o.nodeURL,
		DryRun:  o.flags.DryRun,
		Started: time.Now().UTC(),
	}
	defer func() {
		res.Duration = time.Since(res.Started)
	}()

	if err := o.checkHealth(ctx, res); err != nil {
		return res, err
	}

	if plan.SecretsFile != "" {
		if err := o.deploySecrets(ctx, res, plan.SecretsFile); err != nil {
			return res, err
		}
	}

	if plan.VariablesFile != "" {
		if err := o.deployVariables(ctx, res, plan.VariablesFile); err != nil {
			return res, err
		}
	}

	if plan.ConfigFolder != "" {
		o.deployConfig(ctx, res, plan.ConfigFolder)
	}

	return res, nil
}

// checkHealth gates the run: any status other than the success
// sentinel aborts before a single deployment step executes.
func (o *Orchestrator) checkHealth(ctx context.Context, res *RunResult) error {
	start := time.Now()
	step := res.record(&StepResult{Step: StepHealth, Action: actionHealthCheck})
	defer func() { step.Duration = time.Since(start) }()

	o.emit(res, StepHealth, slog.LevelInfo, "checking node health", nil)

	health, err := o.client.GetHealth(ctx)
	if err != nil {
		step.Error = err.Error()
		o.emit(res, StepHealth, slog.LevelError, "node health check failed", map[string]any{"error": err.Error()})
		return err
	}
	if !health.Healthy() {
		err := errors.NewWithContext(errors.ErrCodeHealthCheck,
			"node health status not ok, aborting run",
			map[string]any{"status": health.Status})
		step.Error = err.Error()
		o.emit(res, StepHealth, slog.LevelError, "node health status not ok, aborting run",
			map[string]any{"status": health.Status})
		return err
	}

	step.Success = true
	o.emit(res, StepHealth, slog.LevelInfo,
		fmt.Sprintf("node status %s (uptime: %s)", strings.ToUpper(health.Status), health.Uptime), nil)
	return nil
}

// deploySecrets parses and pushes the secrets payload. Parse failures
// abort the whole run; upload failures are scoped to this step.
func (o *Orchestrator) deploySecrets(ctx context.Context, res *RunResult, file string) error {
	action := actionCreateSecrets
	if o.flags.ReplaceSecrets {
		action = actionReplaceSecrets
	}

	start := time.Now()
	step := res.record(&StepResult{Step: StepSecrets, Action: action})
	defer func() { step.Duration = time.Since(start) }()

	o.emit(res, StepSecrets, slog.LevelInfo, "deploying secrets", map[string]any{
		"file":            file,
		"dry_run":         o.flags.DryRun,
		"replace_secrets": o.flags.ReplaceSecrets,
	})

	secrets, err := readJSONObject(file)
	if err != nil {
		step.Error = err.Error()
		o.emit(res, StepSecrets, slog.LevelError, "secrets payload unusable, aborting run",
			map[string]any{"error": err.Error()})
		return err
	}

	if o.flags.DryRun {
		step.Success = true
		step.Simulated = true
		o.emit(res, StepSecrets, slog.LevelInfo, "dry run enabled, no secrets deployed", nil)
		return nil
	}

	var ack string
	if o.flags.ReplaceSecrets {
		ack, err = o.client.PutSecrets(ctx, secrets)
	} else {
		ack, err = o.client.PostSecrets(ctx, secrets)
	}
	o.finishUpload(res, step, StepSecrets, "secrets deployed", ack, err)
	return nil
}

// deployVariables parses and pushes the environment variables payload.
func (o *Orchestrator) deployVariables(ctx context.Context, res *RunResult, file string) error {
	start := time.Now()
	step := res.record(&StepResult{Step: StepVariables, Action: actionUploadVars})
	defer func() { step.Duration = time.Since(start) }()

	o.emit(res, StepVariables, slog.LevelInfo, "deploying variables", map[string]any{
		"file":    file,
		"dry_run": o.flags.DryRun,
	})

	vars, err := readJSONObject(file)
	if err != nil {
		step.Error = err.Error()
		o.emit(res, StepVariables, slog.LevelError, "variables payload unusable, aborting run",
			map[string]any{"error": err.Error()})
		return err
	}

	if o.flags.DryRun {
		step.Success = true
		step.Simulated = true
		o.emit(res, StepVariables, slog.LevelInfo, "dry run enabled, no variables deployed", nil)
		return nil
	}

	ack, err := o.client.PutEnv(ctx, vars)
	o.finishUpload(res, step, StepVariables, "variables deployed", ack, err)
	return nil
}

// deployConfig packages the config folder and uploads the bundle. A
// packaging failure fails this step explicitly; the upload is never
// attempted against a failed packaging result.
func (o *Orchestrator) deployConfig(ctx context.Context, res *RunResult, folder string) {
	start := time.Now()
	step := res.record(&StepResult{Step: StepConfig, Action: actionUploadConfig})
	defer func() { step.Duration = time.Since(start) }()

	o.emit(res, StepConfig, slog.LevelInfo, "deploying config", map[string]any{
		"folder":        folder,
		"dry_run":       o.flags.DryRun,
		"use_whitelist": o.flags.UseWhitelist,
		"force_config":  o.flags.ForceConfig,
	})

	bundle, err := o.packager.Build(folder)
	if err != nil {
		step.Error = err.Error()
		o.emit(res, StepConfig, slog.LevelError, "config packaging failed",
			map[string]any{"error": err.Error()})
		return
	}

	if o.flags.DryRun {
		step.Success = true
		step.Simulated = true
		o.emit(res, StepConfig, slog.LevelInfo, "dry run enabled, no config deployed",
			map[string]any{"entries": bundle.Len()})
		return
	}

	archive, err := bundle.Bytes()
	if err != nil {
		step.Error = err.Error()
		o.emit(res, StepConfig, slog.LevelError, "config packaging failed",
			map[string]any{"error": err.Error()})
		return
	}

	ack, err := o.client.PutConfig(ctx, archive, o.flags.ForceConfig)
	o.finishUpload(res, step, StepConfig, "config deployed", ack, err)
}

// finishUpload records the outcome of a mutating node call.
func (o *Orchestrator) finishUpload(res *RunResult, step *StepResult, kind Step, okMsg, ack string, err error) {
	if err != nil {
		step.Error = err.Error()
		o.emit(res, kind, slog.LevelError, fmt.Sprintf("%s step failed", kind),
			map[string]any{"error": err.Error()})
		return
	}
	step.Success = true
	step.Ack = ack
	o.emit(res, kind, slog.LevelInfo, okMsg, map[string]any{"result": ack})
}

// emit fans an event out to every configured sink.
func (o *Orchestrator) emit(res *RunResult, step Step, level slog.Level, msg string, attrs map[string]any) {
	e := Event{
		Time:    time.Now().UTC(),
		RunID:   res.ID,
		Step:    step,
		Level:   level,
		Message: msg,
		Attrs:   attrs,
	}
	for _, sink := range o.sinks {
		sink.Emit(e)
	}
}
