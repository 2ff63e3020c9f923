// Package node implements the HTTP client for the remote
// data-integration node: health checks plus the variable, secret, and
// configuration upload endpoints, authenticated with a bearer
// credential supplied at construction.
//
// The client uses a single fixed timeout set at construction and
// performs no retries; one-shot deployment runs rely on the pipeline
// to re-invoke the step.
package node
