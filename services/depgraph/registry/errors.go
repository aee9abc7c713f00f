// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package registry manages project definitions: validated YAML specs loaded
// from a directory, persisted in BadgerDB, and watched for changes.
//
// The registry is the write side of the system. Reads during traversal go
// through frozen graph snapshots built from the registry's contents, so the
// store never sits on the component-query hot path.
package registry

import "errors"

// Sentinel errors for registry operations.
var (
	// ErrProjectNotFound is returned when a project name does not exist in
	// the store.
	ErrProjectNotFound = errors.New("project not found")

	// ErrInvalidSpec is returned when a project definition fails validation.
	// The wrapping error names the offending field.
	ErrInvalidSpec = errors.New("invalid project spec")

	// ErrStoreClosed is returned by store operations after Close.
	ErrStoreClosed = errors.New("store is closed")

	// ErrSpecTooLarge is returned when a spec file exceeds the loader's
	// size cap.
	ErrSpecTooLarge = errors.New("spec file too large")
)
