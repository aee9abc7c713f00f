// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for user-provided inputs that are used as
// database keys, in file paths, or in API routes. Using these validators
// prevents injection attacks (key collisions, path traversal) and keeps
// project names unambiguous across the registry, the graph, and the API.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxProjectNameLength is the longest accepted project name. Names become
// store keys and URL path segments, so they stay short.
const MaxProjectNameLength = 128

// projectNamePattern matches valid project names.
// Allows: lowercase/uppercase letters, digits, and interior dots, hyphens,
// underscores, and forward slashes (for folder-scoped names like
// "platform/build-tools"). Must start and end with an alphanumeric.
var projectNamePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._/\-]*[A-Za-z0-9])?$`)

// ValidateProjectName validates a project name for safe use as a store key
// and URL path segment.
//
// Valid names:
//   - 1-128 characters
//   - Letters A-Z a-z, digits 0-9
//   - Interior dots, hyphens, underscores, forward slashes
//   - No leading/trailing separators, no empty path segments
//
// Returns an error describing the first violation.
//
// Example:
//
//	if err := validation.ValidateProjectName(name); err != nil {
//	    return fmt.Errorf("invalid project: %w", err)
//	}
func ValidateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if len(name) > MaxProjectNameLength {
		return fmt.Errorf("project name too long: %d characters (max %d)", len(name), MaxProjectNameLength)
	}
	if !projectNamePattern.MatchString(name) {
		return fmt.Errorf("invalid project name format: %q (letters, digits, and interior . - _ / only)", name)
	}
	if strings.Contains(name, "//") {
		return fmt.Errorf("invalid project name format: %q (empty path segment)", name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("invalid project name format: %q (parent path reference)", name)
	}
	return nil
}

// ValidateProjectNames validates multiple project names.
// Returns an error listing all invalid names if any fail validation.
func ValidateProjectNames(names []string) error {
	var invalid []string
	for _, n := range names {
		if err := ValidateProjectName(n); err != nil {
			invalid = append(invalid, n)
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid project names: %v", invalid)
	}
	return nil
}

// SanitizeProjectName normalizes and validates a project name.
// Returns the trimmed name if valid, or an error if invalid.
func SanitizeProjectName(name string) (string, error) {
	normalized := strings.TrimSpace(name)
	if err := ValidateProjectName(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}
