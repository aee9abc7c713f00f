// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package component

// GraphSource supplies the base dependency edges of a project.
//
// A single edge must compare equal no matter which endpoint it is queried
// from: Upstream(b) and Downstream(a) returning the edge a→b must yield
// Dependency values with the same endpoint names.
type GraphSource interface {
	// Upstream returns the edges where p is the downstream endpoint,
	// i.e. the projects p depends on.
	Upstream(p Project) []Dependency

	// Downstream returns the edges where p is the upstream endpoint,
	// i.e. the projects that depend on p.
	Downstream(p Project) []Dependency
}

// PermissionChecker reports whether the current actor may read a project.
//
// The calculator consults it before admitting any non-seed project into the
// traversal. Denial is authorization-by-omission, never an error.
type PermissionChecker interface {
	CanRead(p Project) bool
}

// TriggerConfigSource yields the sub-job names a project's configuration is
// set up to trigger. Deployments without the triggering capability use
// NopTriggerConfig, which yields nothing.
type TriggerConfigSource interface {
	TriggerNames(p Project) []string
}

// ArtifactCopySource yields the names of the projects a project copies build
// artifacts from. Deployments without the artifact-copy capability use
// NopArtifactCopyConfig, which yields nothing.
type ArtifactCopySource interface {
	CopySourceNames(p Project) []string
}

// ProjectResolver resolves a configured project name to a live project.
// Unresolved names report ok=false and are silently skipped by the
// calculator.
type ProjectResolver interface {
	ResolveProject(name string) (Project, bool)
}

// GraphSourceFuncs adapts two functions to the GraphSource interface.
// Useful for tests and small adapters.
type GraphSourceFuncs struct {
	UpstreamFunc   func(p Project) []Dependency
	DownstreamFunc func(p Project) []Dependency
}

// Upstream calls UpstreamFunc, or returns nil if it is unset.
func (g GraphSourceFuncs) Upstream(p Project) []Dependency {
	if g.UpstreamFunc == nil {
		return nil
	}
	return g.UpstreamFunc(p)
}

// Downstream calls DownstreamFunc, or returns nil if it is unset.
func (g GraphSourceFuncs) Downstream(p Project) []Dependency {
	if g.DownstreamFunc == nil {
		return nil
	}
	return g.DownstreamFunc(p)
}

// PermissionCheckerFunc adapts a function to the PermissionChecker interface.
type PermissionCheckerFunc func(p Project) bool

// CanRead calls the wrapped function.
func (f PermissionCheckerFunc) CanRead(p Project) bool { return f(p) }

// TriggerConfigFunc adapts a function to the TriggerConfigSource interface.
type TriggerConfigFunc func(p Project) []string

// TriggerNames calls the wrapped function.
func (f TriggerConfigFunc) TriggerNames(p Project) []string { return f(p) }

// ArtifactCopyFunc adapts a function to the ArtifactCopySource interface.
type ArtifactCopyFunc func(p Project) []string

// CopySourceNames calls the wrapped function.
func (f ArtifactCopyFunc) CopySourceNames(p Project) []string { return f(p) }

// ResolverFunc adapts a function to the ProjectResolver interface.
type ResolverFunc func(name string) (Project, bool)

// ResolveProject calls the wrapped function.
func (f ResolverFunc) ResolveProject(name string) (Project, bool) { return f(name) }

// AllowAll is a PermissionChecker that grants read access to every project.
type AllowAll struct{}

// CanRead always returns true.
func (AllowAll) CanRead(Project) bool { return true }

// NopTriggerConfig models an absent triggering capability: no project
// triggers any sub-jobs.
type NopTriggerConfig struct{}

// TriggerNames always returns nil.
func (NopTriggerConfig) TriggerNames(Project) []string { return nil }

// NopArtifactCopyConfig models an absent artifact-copy capability: no project
// copies artifacts from anywhere.
type NopArtifactCopyConfig struct{}

// CopySourceNames always returns nil.
func (NopArtifactCopyConfig) CopySourceNames(Project) []string { return nil }

// NopResolver resolves nothing. Combined with the Nop capability sources it
// keeps the auxiliary-relation paths inert.
type NopResolver struct{}

// ResolveProject always reports not-found.
func (NopResolver) ResolveProject(string) (Project, bool) { return nil, false }

// Compile-time interface compliance checks.
var (
	_ GraphSource         = GraphSourceFuncs{}
	_ PermissionChecker   = PermissionCheckerFunc(nil)
	_ PermissionChecker   = AllowAll{}
	_ TriggerConfigSource = TriggerConfigFunc(nil)
	_ TriggerConfigSource = NopTriggerConfig{}
	_ ArtifactCopySource  = ArtifactCopyFunc(nil)
	_ ArtifactCopySource  = NopArtifactCopyConfig{}
	_ ProjectResolver     = ResolverFunc(nil)
	_ ProjectResolver     = NopResolver{}
)
