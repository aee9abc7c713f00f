// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph provides immutable build-dependency graph snapshots.
//
// A Snapshot is assembled from project definitions in the Building state,
// then frozen. After Freeze() it is read-only and safe for concurrent use;
// it implements the component package's GraphSource and ProjectResolver
// collaborators, so a per-request Calculator can traverse it without any
// locking discipline.
//
// Snapshots carry a process-lifetime generation counter. The service swaps
// a fresh snapshot in atomically on every rebuild, and downstream caches key
// their entries by generation to invalidate stale results.
package graph

import "errors"

// Sentinel errors for snapshot assembly.
var (
	// ErrSnapshotFrozen is returned when attempting to modify a frozen
	// snapshot. Once Freeze() is called, the snapshot is read-only.
	ErrSnapshotFrozen = errors.New("snapshot is frozen and cannot be modified")

	// ErrDuplicateNode is returned when adding a node whose name already
	// exists in the snapshot.
	ErrDuplicateNode = errors.New("duplicate node name")

	// ErrNodeNotFound is returned when an edge references a node that has
	// not been added to the snapshot.
	ErrNodeNotFound = errors.New("node not found")

	// ErrSelfEdge is returned when an edge's endpoints are the same node.
	ErrSelfEdge = errors.New("self-referential edge")

	// ErrEmptyName is returned when a node is added with an empty name.
	ErrEmptyName = errors.New("empty node name")
)
