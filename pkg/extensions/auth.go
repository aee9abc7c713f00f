// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package extensions defines the pluggable edges of the dependency graph
// service: who is calling (AuthProvider) and what gets recorded about it
// (AuditLogger).
//
// The open source build runs with the no-op implementations in this
// package: every request authenticates as a local admin and audit events
// are discarded. Deployments that need real identity or a compliance
// trail implement these interfaces and inject them where the service and
// middleware are wired up.
//
// All implementations must be safe for concurrent use.
package extensions

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned (possibly wrapped) when token validation
// fails. The HTTP middleware maps it to a 401.
var ErrUnauthorized = errors.New("unauthorized")

// AuthInfo is the identity a provider resolved from a request token.
// The service uses UserID as the actor for policy checks and audit
// events, and Roles for the policy's admin bypass.
type AuthInfo struct {
	// UserID uniquely identifies the caller. Never empty on a
	// successful Validate.
	UserID string

	// Roles are the caller's role memberships, matched against the
	// policy's admin_roles list.
	Roles []string
}

// HasRole reports whether the identity carries the given role.
func (a *AuthInfo) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AuthProvider validates request tokens and resolves caller identity.
type AuthProvider interface {
	// Validate checks the token and returns the caller's identity.
	// Invalid tokens return ErrUnauthorized, possibly wrapped with
	// provider detail. The token format is provider-specific.
	Validate(ctx context.Context, token string) (*AuthInfo, error)
}

// NopAuthProvider authenticates every request as a local admin,
// whatever the token says. It is the default for single-user
// deployments with no identity infrastructure.
type NopAuthProvider struct{}

// Validate ignores the token and returns the local admin identity.
func (p *NopAuthProvider) Validate(_ context.Context, _ string) (*AuthInfo, error) {
	return &AuthInfo{
		UserID: "local-user",
		Roles:  []string{"admin"},
	}, nil
}

var _ AuthProvider = (*NopAuthProvider)(nil)
