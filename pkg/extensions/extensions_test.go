// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestNopAuthProvider(t *testing.T) {
	provider := &NopAuthProvider{}

	info, err := provider.Validate(context.Background(), "ignored-token")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if info.UserID != "local-user" {
		t.Errorf("UserID = %q, want local-user", info.UserID)
	}
	if !info.HasRole("admin") {
		t.Error("local user should carry the admin role")
	}
	if info.HasRole("auditor") {
		t.Error("HasRole reported a role the identity does not carry")
	}
}

func TestErrUnauthorizedWrapping(t *testing.T) {
	wrapped := fmt.Errorf("token expired: %w", ErrUnauthorized)
	if !errors.Is(wrapped, ErrUnauthorized) {
		t.Error("wrapped error should match ErrUnauthorized")
	}
}

func TestNopAuditLogger(t *testing.T) {
	logger := &NopAuditLogger{}
	ctx := context.Background()

	if err := logger.Log(ctx, AuditEvent{EventType: "component.query"}); err != nil {
		t.Errorf("Log: %v", err)
	}
	events, err := logger.Query(ctx, AuditFilter{UserID: "local-user"})
	if err != nil {
		t.Errorf("Query: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("Query returned %d events, want 0", len(events))
	}
	if err := logger.Flush(ctx); err != nil {
		t.Errorf("Flush: %v", err)
	}
}

func TestMetadataAccessors(t *testing.T) {
	m := NewMetadata().
		Set("actor", "alice").
		Set("seed_count", 3).
		Set("generation", uint64(42))

	if got := m.GetString("actor"); got != "alice" {
		t.Errorf("GetString(actor) = %q, want alice", got)
	}
	if got := m.GetInt("seed_count"); got != 3 {
		t.Errorf("GetInt(seed_count) = %d, want 3", got)
	}
	if got := m.GetUint64("generation"); got != 42 {
		t.Errorf("GetUint64(generation) = %d, want 42", got)
	}

	// Absent and mistyped keys return zero values.
	if got := m.GetString("missing"); got != "" {
		t.Errorf("GetString(missing) = %q, want empty", got)
	}
	if got := m.GetInt("actor"); got != 0 {
		t.Errorf("GetInt on a string value = %d, want 0", got)
	}
	if got := m.GetUint64("seed_count"); got != 0 {
		t.Errorf("GetUint64 on an int value = %d, want 0", got)
	}
}
