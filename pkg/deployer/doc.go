// Package deployer orchestrates a single deployment run against a
// remote data-integration node: a gating health check followed by
// secrets, variables, and configuration pushes in fixed order.
//
// Each step's outcome is an explicit StepResult collected into a
// RunResult, so step independence is a contract rather than a side
// effect of error propagation: variables still deploy when the secrets
// upload failed, but nothing runs when the health gate fails, and a
// malformed payload aborts the whole run.
//
// Deployment events flow through EventSink implementations; the CI
// step-summary writer is one sink among several.
package deployer
