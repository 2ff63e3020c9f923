// Package cli implements the nodedeploy command-line interface.
//
// nodedeploy is a one-shot CI deployment step: it verifies a remote
// data-integration node's health, then pushes secrets, environment
// variables, and a zipped configuration bundle over the node's
// authenticated HTTP API.
//
// # Configuration
//
// Every flag reads its value from an INPUT_* environment variable,
// matching the CI action contract:
//
//	--node            INPUT_NODE             (required)
//	--token           INPUT_JWT              (required)
//	--config-folder   INPUT_CONFIG_FOLDER    (required)
//	--secrets-file    INPUT_SECRETS_FILE
//	--variables-file  INPUT_VARIABLES_FILE
//	--dry-run         INPUT_DRY_RUN          (default: true)
//	--force-config    INPUT_FORCE_CONFIG
//	--replace-secrets INPUT_REPLACE_SECRETS
//	--use-whitelist   INPUT_USE_WHITELIST
//	--write-summary   INPUT_WRITE_SUMMARY
//
// Boolean inputs additionally accept yes/no.
//
// # Exit Codes
//
//	0  every attempted step succeeded
//	1  required inputs missing, health check failed, or any step failed
//
// # Examples
//
// Dry run against a test node:
//
//	nodedeploy --node datahub-test.example.io --token "$TOKEN" \
//	  --config-folder ./node-config
//
// Real deployment with secrets replacement and a JSON summary:
//
//	nodedeploy --node datahub.example.io --token "$TOKEN" \
//	  --config-folder ./node-config --secrets-file ./secrets.json \
//	  --dry-run=false --replace-secrets --summary-format json
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/dataflux/nodedeploy/pkg/cli.version=1.0.0'"
package cli
