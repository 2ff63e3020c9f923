/*
Copyright © 2025 Dataflux Authors
SPDX-License-Identifier: Apache-2.0
*/

package deployer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dataflux/nodedeploy/pkg/errors"
)

// Plan names the optional payload sources for a single run. Each is
// independently present or absent; an empty path skips that step.
type Plan struct {
	// SecretsFile is a JSON object of secret values.
	SecretsFile string
	// VariablesFile is a JSON object of environment variables.
	VariablesFile string
	// ConfigFolder is the configuration tree to package and upload.
	ConfigFolder string
}

// Flags control run side effects.
type Flags struct {
	// DryRun logs intended actions without any mutating network call.
	DryRun bool
	// ForceConfig lets the node bypass conflict validation on upload.
	ForceConfig bool
	// ReplaceSecrets selects idempotent overwrite over fail-if-exists.
	ReplaceSecrets bool
	// UseWhitelist enables whitelist filtering during packaging.
	UseWhitelist bool
}

// readJSONObject loads a payload file as a JSON object. Failures carry
// a PARSE code and are fatal to the whole run.
func readJSONObject(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse,
			fmt.Sprintf("failed to read payload file %s", path), err)
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse,
			fmt.Sprintf("failed to decode JSON in %s", path), err)
	}
	return payload, nil
}
