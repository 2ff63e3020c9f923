/*
Copyright © 2025 Dataflux Authors
SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dataflux/nodedeploy/pkg/errors"
)

// Claims holds identity claims decoded from the bearer credential.
//
// The payload segment is decoded WITHOUT signature verification: the
// claims are non-authoritative and serve diagnostic display only. They
// must never be used to authorize or route requests.
type Claims struct {
	Principals map[string]any `json:"principals"`
}

// SubscriptionID returns the first principal key in sorted order, or
// an empty string when no principals are present.
func (c *Claims) SubscriptionID() string {
	if c == nil || len(c.Principals) == 0 {
		return ""
	}
	keys := make([]string, 0, len(c.Principals))
	for k := range c.Principals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}

// decodeClaims extracts the payload segment of a JWT-shaped credential.
func decodeClaims(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, errors.New(errors.ErrCodeConfiguration,
			"credential is not a three-segment token")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration,
			"failed to decode credential payload", err)
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration,
			"failed to parse credential claims", err)
	}
	return &claims, nil
}

// maskToken renders a credential safely for logs: first and last ten
// characters with the middle elided.
func maskToken(token string) string {
	if len(token) <= 20 {
		return "*********"
	}
	return fmt.Sprintf("%s*********%s", token[:10], token[len(token)-10:])
}
