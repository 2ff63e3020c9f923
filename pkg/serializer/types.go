/*
Copyright © 2025 Dataflux Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package serializer renders run summaries to JSON, YAML, or a flat
// table, writing to a file or stdout.
package serializer

import "context"

// Serializer renders a value to a configured destination.
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}

// Closer is an optional interface for serializers that hold resources.
type Closer interface {
	Close() error
}
