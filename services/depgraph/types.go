// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package depgraph

import (
	"github.com/AleutianAI/depgraph/services/depgraph/cache"
	"github.com/AleutianAI/depgraph/services/depgraph/graph"
)

// ErrorResponse is the error body returned by all handlers.
type ErrorResponse struct {
	// Error is a human-readable message.
	Error string `json:"error"`

	// Code is a machine-readable error code.
	Code string `json:"code"`
}

// ComponentRequest asks for the connected component around seed projects.
type ComponentRequest struct {
	// Seeds are the project names to start expansion from.
	Seeds []string `json:"seeds" binding:"required,min=1,dive,min=1,max=128"`

	// IncludeSubJobs requests triggered sub-job relations, when the
	// triggering capability is enabled server-side.
	IncludeSubJobs bool `json:"include_sub_jobs"`

	// IncludeCopiedArtifacts requests artifact-copy relations, when that
	// capability is enabled server-side.
	IncludeCopiedArtifacts bool `json:"include_copied_artifacts"`

	// MaxRounds caps expansion rounds. Zero means unlimited.
	MaxRounds int `json:"max_rounds" binding:"omitempty,min=1"`
}

// ProjectView is a project as returned by the API.
type ProjectView struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// DependencyView is an upstream→downstream edge as returned by the API.
type DependencyView struct {
	Upstream   string `json:"upstream"`
	Downstream string `json:"downstream"`
}

// ComponentStats summarizes one component computation.
type ComponentStats struct {
	ProjectCount    int    `json:"project_count"`
	DependencyCount int    `json:"dependency_count"`
	Rounds          int    `json:"rounds"`
	Generation      uint64 `json:"generation"`
	CacheHit        bool   `json:"cache_hit"`
}

// ComponentResponse is the result of a component query.
type ComponentResponse struct {
	// Projects are the members of the connected component, in discovery
	// order starting with the seeds.
	Projects []ProjectView `json:"projects"`

	// Dependencies are the component's edges, in discovery order.
	Dependencies []DependencyView `json:"dependencies"`

	// SubJobs maps a parent project to the sub-jobs it triggers.
	// Only populated when requested and enabled.
	SubJobs map[string][]ProjectView `json:"sub_jobs,omitempty"`

	// CopiedArtifacts are artifact-copy edges (source→copier).
	// Only populated when requested and enabled.
	CopiedArtifacts []DependencyView `json:"copied_artifacts,omitempty"`

	// Stats describes the computation.
	Stats ComponentStats `json:"stats"`
}

// ProjectPayload is the writable portion of a project definition. The
// project name comes from the URL path.
type ProjectPayload struct {
	DisplayName         string            `json:"display_name,omitempty"`
	Labels              map[string]string `json:"labels,omitempty"`
	Upstream            []string          `json:"upstream,omitempty"`
	Triggers            []string          `json:"triggers,omitempty"`
	CopiesArtifactsFrom []string          `json:"copies_artifacts_from,omitempty"`
	Disabled            bool              `json:"disabled,omitempty"`
}

// ProjectListResponse lists all registered projects.
type ProjectListResponse struct {
	Projects []ProjectView `json:"projects"`
	Count    int           `json:"count"`
}

// GraphStatsResponse reports the published snapshot and cache state.
type GraphStatsResponse struct {
	Graph graph.SnapshotStats `json:"graph"`
	Build graph.BuildReport   `json:"build"`
	Cache cache.Stats         `json:"cache"`
}

// ReloadResponse reports the outcome of a manual reload.
type ReloadResponse struct {
	Generation uint64            `json:"generation"`
	Load       LoadSummary       `json:"load"`
	Build      graph.BuildReport `json:"build"`
}

// LoadSummary mirrors registry.LoadReport for API responses.
type LoadSummary struct {
	Loaded  int `json:"loaded"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// HealthResponse is the liveness body.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ReadyResponse is the readiness body.
type ReadyResponse struct {
	Ready      bool   `json:"ready"`
	Generation uint64 `json:"generation,omitempty"`
}
