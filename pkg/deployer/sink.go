/*
Copyright © 2025 Dataflux Authors
SPDX-License-Identifier: Apache-2.0
*/

package deployer

import (
	"context"
	"log/slog"
	"time"
)

// Event is a structured deployment event: every step announces its
// intended action before attempting it and its outcome after.
type Event struct {
	// Time is the event time in UTC.
	Time time.Time
	// RunID ties the event to its run.
	RunID string
	// Step is the originating step, empty for run-level events.
	Step Step
	// Level is the slog level name (INFO or ERROR).
	Level slog.Level
	// Message is the human-readable event text.
	Message string
	// Attrs carries structured context for sinks that keep it.
	Attrs map[string]any
}

// EventSink receives deployment events. The orchestrator fans every
// event out to all configured sinks; a summary-file writer is one sink
// implementation among several rather than a mutated global logger.
type EventSink interface {
	Emit(e Event)
}

// Closer is an optional interface for sinks holding resources.
type Closer interface {
	Close() error
}

// LogSink forwards events to the default structured logger.
type LogSink struct{}

// Emit implements EventSink.
func (LogSink) Emit(e Event) {
	attrs := make([]any, 0, 2+2*len(e.Attrs))
	attrs = append(attrs, "run_id", e.RunID)
	if e.Step != "" {
		attrs = append(attrs, "step", string(e.Step))
	}
	for k, v := range e.Attrs {
		attrs = append(attrs, k, v)
	}
	slog.Log(context.Background(), e.Level, e.Message, attrs...)
}
