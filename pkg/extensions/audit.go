// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import (
	"context"
	"time"
)

// AuditEvent is one security-relevant action against the graph service.
// The service emits "component.query" for reads and "project.<action>"
// for spec mutations; graph rebuilds emit "graph.reload".
type AuditEvent struct {
	// EventType categorizes the event, "category.action" form
	// (e.g. "component.query", "project.update").
	EventType string

	// Timestamp is when the event occurred, in UTC. Implementations
	// should stamp time.Now().UTC() when zero.
	Timestamp time.Time

	// UserID is the actor, as resolved by the AuthProvider.
	UserID string

	// Action is the operation attempted: "read", "update", "delete",
	// "reload".
	Action string

	// ResourceType and ResourceID name what was touched, e.g.
	// ("project", "billing-api"). ResourceID may be empty for
	// whole-graph operations.
	ResourceType string
	ResourceID   string

	// Outcome is "success", "failure", "blocked", or "error".
	Outcome string

	// Metadata carries event-specific detail such as seed_count and
	// generation on queries.
	Metadata Metadata
}

// AuditFilter selects events from a Query. Zero fields are not applied;
// set fields combine with AND.
type AuditFilter struct {
	EventTypes   []string
	UserID       string
	StartTime    time.Time
	EndTime      time.Time
	ResourceType string
	ResourceID   string
	Outcome      string

	// Limit caps the result count; zero means implementation default.
	Limit int

	// Offset skips events for pagination.
	Offset int
}

// AuditLogger records audit events. Log sits on the request path, so
// implementations should return quickly and buffer if persistence is
// slow; Flush drains any such buffer before shutdown.
type AuditLogger interface {
	// Log records one event. Implementations stamp a zero Timestamp.
	Log(ctx context.Context, event AuditEvent) error

	// Query returns stored events matching the filter, newest first.
	Query(ctx context.Context, filter AuditFilter) ([]AuditEvent, error)

	// Flush persists anything buffered. No-op for sync loggers.
	Flush(ctx context.Context) error
}

// NopAuditLogger discards every event. It is the default when no
// compliance trail is configured.
type NopAuditLogger struct{}

func (l *NopAuditLogger) Log(ctx context.Context, event AuditEvent) error {
	return nil
}

func (l *NopAuditLogger) Query(ctx context.Context, filter AuditFilter) ([]AuditEvent, error) {
	return []AuditEvent{}, nil
}

func (l *NopAuditLogger) Flush(ctx context.Context) error {
	return nil
}

var _ AuditLogger = (*NopAuditLogger)(nil)
