// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package component computes the connected component of a build-dependency
// graph reachable from a seed set of projects.
//
// The Calculator runs a fixed-point breadth-first expansion from the seeds,
// following dependency edges in both directions. Every project beyond the
// seed set must pass a read-permission check before it is admitted into the
// traversal, so a caller without access to part of the graph sees a smaller,
// self-consistent component rather than an error.
//
// Alongside the base dependency edges, the traversal also collects two
// auxiliary relation kinds contributed by optional configuration subsystems:
//
//   - sub-job relations ("project P triggers builds of Q"), and
//   - copied-artifact relations ("project P copies build output from S").
//
// Both are recorded for every expanded project but never extend the frontier,
// and neither is permission-filtered. That asymmetry is deliberate: the
// auxiliary relations annotate projects the caller can already see, while the
// permission check gates which projects become visible at all.
//
// # Collaborators
//
// The calculator depends only on narrow, consumer-defined interfaces
// (GraphSource, PermissionChecker, TriggerConfigSource,
// ArtifactCopyConfigSource, ProjectResolver). Optional capabilities default
// to Nop implementations that contribute nothing, modeling deployments where
// the corresponding subsystem is not installed.
//
// # Lifecycle
//
// A Calculator is built per request over an immutable seed set, computes its
// result at most once (lazily, on first accessor call), and is read-only
// thereafter.
//
// # Thread Safety
//
// A Calculator instance is NOT safe for concurrent use. Construct one
// instance per request; the collaborators it reads must be stable for the
// duration of Compute.
package component
