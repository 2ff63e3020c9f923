/*
Copyright © 2025 Dataflux Authors
SPDX-License-Identifier: Apache-2.0
*/

package deployer

import (
	"fmt"
	"strings"
	"time"
)

// Step identifies a deployment step.
type Step string

const (
	// StepHealth is the gating node health check.
	StepHealth Step = "health"
	// StepSecrets deploys the secrets payload.
	StepSecrets Step = "secrets"
	// StepVariables deploys the environment variables payload.
	StepVariables Step = "variables"
	// StepConfig packages and deploys the configuration bundle.
	StepConfig Step = "config"
)

// StepResult records the outcome of one attempted step. Steps whose
// payload source is absent produce no StepResult at all.
type StepResult struct {
	// Step is the step kind.
	Step Step `json:"step" yaml:"step"`

	// Action names the operation taken or simulated, such as
	// "replace-secrets" or "upload-config".
	Action string `json:"action" yaml:"action"`

	// Success reports whether the step completed without error.
	Success bool `json:"success" yaml:"success"`

	// Simulated is set when dry-run suppressed the mutating call.
	Simulated bool `json:"simulated,omitempty" yaml:"simulated,omitempty"`

	// Error holds the failure diagnostic when Success is false.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Ack is the node's acknowledgment for mutating calls.
	Ack string `json:"ack,omitempty" yaml:"ack,omitempty"`

	// Duration is the step wall time.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// RunResult aggregates the per-step outcomes of a single deployment
// run. Step independence is explicit: a recorded failure in one step
// does not erase results of steps attempted before or after it.
type RunResult struct {
	// ID uniquely identifies the run in logs and summaries.
	ID string `json:"id" yaml:"id"`

	// Node is the target node API URL.
	Node string `json:"node" yaml:"node"`

	// DryRun reports the effective dry-run flag.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// Steps holds results for every attempted step in order.
	Steps []*StepResult `json:"steps" yaml:"steps"`

	// Started is the run start time in UTC.
	Started time.Time `json:"started" yaml:"started"`

	// Duration is the total run wall time.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// record appends a step result and returns it.
func (r *RunResult) record(s *StepResult) *StepResult {
	r.Steps = append(r.Steps, s)
	return s
}

// Succeeded reports whether every attempted step completed.
func (r *RunResult) Succeeded() bool {
	for _, s := range r.Steps {
		if !s.Success {
			return false
		}
	}
	return true
}

// Failed returns the steps that did not complete.
func (r *RunResult) Failed() []*StepResult {
	var failed []*StepResult
	for _, s := range r.Steps {
		if !s.Success {
			failed = append(failed, s)
		}
	}
	return failed
}

// Summary returns a one-line human-readable outcome.
func (r *RunResult) Summary() string {
	failed := r.Failed()
	if len(failed) == 0 {
		return fmt.Sprintf("run %s: %d/%d steps succeeded in %v",
			r.ID, len(r.Steps), len(r.Steps), r.Duration.Round(time.Millisecond))
	}

	names := make([]string, 0, len(failed))
	for _, s := range failed {
		names = append(names, string(s.Step))
	}
	return fmt.Sprintf("run %s: %d/%d steps succeeded in %v (failed: %s)",
		r.ID, len(r.Steps)-len(failed), len(r.Steps),
		r.Duration.Round(time.Millisecond), strings.Join(names, ", "))
}
