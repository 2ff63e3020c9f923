/*
Copyright © 2025 Dataflux Authors
SPDX-License-Identifier: Apache-2.0
*/

package node

import "context"

// StatusOK is the health status sentinel that permits deployment.
const StatusOK = "ok"

// Health is the node health report obtained once per run.
type Health struct {
	// Status is the node status string; deployment proceeds only when
	// it equals StatusOK.
	Status string `json:"status"`

	// Uptime is the node-reported uptime.
	Uptime string `json:"node_uptime"`
}

// Healthy reports whether the node status permits deployment.
func (h *Health) Healthy() bool {
	return h != nil && h.Status == StatusOK
}

// API is the node capability surface the orchestrator depends on.
// All operations are synchronous and blocking; the acknowledgment is
// the node's raw response body, returned for diagnostic logging.
type API interface {
	// GetHealth returns the node health report.
	GetHealth(ctx context.Context) (*Health, error)

	// PutEnv uploads environment variables, overwriting existing values.
	PutEnv(ctx context.Context, vars map[string]any) (string, error)

	// PostSecrets creates secrets; the node rejects the request if any
	// secret key already exists.
	PostSecrets(ctx context.Context, secrets map[string]any) (string, error)

	// PutSecrets replaces secrets with idempotent overwrite semantics.
	PutSecrets(ctx context.Context, secrets map[string]any) (string, error)

	// PutConfig uploads a zipped configuration bundle. force instructs
	// the node to bypass its conflict validation.
	PutConfig(ctx context.Context, archive []byte, force bool) (string, error)
}
