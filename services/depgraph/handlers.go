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
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/depgraph/pkg/validation"
	"github.com/AleutianAI/depgraph/services/depgraph/middleware"
	"github.com/AleutianAI/depgraph/services/depgraph/registry"
	"github.com/AleutianAI/depgraph/services/depgraph/telemetry"
)

// Handlers contains the HTTP handlers for the depgraph service.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleComponent handles POST /api/v1/component.
//
// Description:
//
//	Computes the connected component around the given seed projects,
//	filtered by the caller's read permissions.
//
// Request Body:
//
//	ComponentRequest
//
// Response:
//
//	200 OK: ComponentResponse
//	400 Bad Request: Validation error or too many seeds
//	403 Forbidden: Caller may not read a seed
//	404 Not Found: Unknown seed project
//	503 Service Unavailable: No graph published yet
func (h *Handlers) HandleComponent(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleComponent")

	var req ComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	actor, roles := callerIdentity(c)
	resp, err := h.svc.ComputeComponent(c.Request.Context(), actor, roles, req)
	if err != nil {
		status, code := componentErrorStatus(err)
		logger.Warn("Component query failed", "error", err, "status", status)
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}

	logger.Info("Component computed",
		"seeds", len(req.Seeds),
		"projects", resp.Stats.ProjectCount,
		"cache_hit", resp.Stats.CacheHit)

	c.JSON(http.StatusOK, resp)
}

// componentErrorStatus maps service errors to HTTP status and error code.
func componentErrorStatus(err error) (int, string) {
	var unknownSeed *UnknownSeedError
	switch {
	case errors.As(err, &unknownSeed):
		return http.StatusNotFound, "UNKNOWN_SEED"
	case errors.Is(err, ErrSeedReadDenied):
		return http.StatusForbidden, "SEED_READ_DENIED"
	case errors.Is(err, ErrNoSeeds), errors.Is(err, ErrTooManySeeds):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, ErrNotReady):
		return http.StatusServiceUnavailable, "NOT_READY"
	default:
		return http.StatusInternalServerError, "COMPONENT_FAILED"
	}
}

// HandleListProjects handles GET /api/v1/projects.
//
// Response:
//
//	200 OK: ProjectListResponse
func (h *Handlers) HandleListProjects(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleListProjects")

	specs, err := h.svc.ListProjects(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list projects", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to list projects",
			Code:  "LIST_FAILED",
		})
		return
	}

	resp := ProjectListResponse{
		Projects: make([]ProjectView, 0, len(specs)),
		Count:    len(specs),
	}
	for _, spec := range specs {
		resp.Projects = append(resp.Projects, ProjectView{
			Name:        spec.Name,
			DisplayName: spec.DisplayName,
			Labels:      spec.Labels,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// HandleGetProject handles GET /api/v1/projects/:name.
//
// Response:
//
//	200 OK: registry.Spec
//	404 Not Found: No such project
func (h *Handlers) HandleGetProject(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleGetProject")

	name := c.Param("name")
	spec, err := h.svc.GetProject(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, registry.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "Project not found: " + name,
				Code:  "PROJECT_NOT_FOUND",
			})
			return
		}
		logger.Error("Failed to get project", "project", name, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to get project",
			Code:  "GET_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, spec)
}

// HandlePutProject handles PUT /api/v1/projects/:name.
//
// Description:
//
//	Upserts a project definition and rebuilds the published graph.
//	The project name comes from the URL path, not the body.
//
// Request Body:
//
//	ProjectPayload
//
// Response:
//
//	200 OK: registry.Spec
//	400 Bad Request: Invalid name or body
func (h *Handlers) HandlePutProject(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandlePutProject")

	name := c.Param("name")
	if err := validation.ValidateProjectName(name); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_NAME",
		})
		return
	}

	var payload ProjectPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	actor, _ := callerIdentity(c)
	spec, err := h.svc.PutProject(c.Request.Context(), actor, name, payload)
	if err != nil {
		if errors.Is(err, registry.ErrInvalidSpec) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: err.Error(),
				Code:  "INVALID_SPEC",
			})
			return
		}
		logger.Error("Failed to store project", "project", name, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to store project",
			Code:  "PUT_FAILED",
		})
		return
	}

	logger.Info("Project stored", "project", name)
	c.JSON(http.StatusOK, spec)
}

// HandleDeleteProject handles DELETE /api/v1/projects/:name.
//
// Response:
//
//	204 No Content: Deleted
//	404 Not Found: No such project
func (h *Handlers) HandleDeleteProject(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleDeleteProject")

	name := c.Param("name")
	actor, _ := callerIdentity(c)
	if err := h.svc.DeleteProject(c.Request.Context(), actor, name); err != nil {
		if errors.Is(err, registry.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "Project not found: " + name,
				Code:  "PROJECT_NOT_FOUND",
			})
			return
		}
		logger.Error("Failed to delete project", "project", name, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to delete project",
			Code:  "DELETE_FAILED",
		})
		return
	}

	logger.Info("Project deleted", "project", name)
	c.Status(http.StatusNoContent)
}

// HandleGraphStats handles GET /api/v1/graph/stats.
//
// Response:
//
//	200 OK: GraphStatsResponse
//	503 Service Unavailable: No graph published yet
func (h *Handlers) HandleGraphStats(c *gin.Context) {
	stats, err := h.svc.Stats()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "Graph not ready",
			Code:  "NOT_READY",
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// HandleGraphReload handles POST /api/v1/graph/reload.
//
// Description:
//
//	Re-reads the spec directory (when configured) and publishes a fresh
//	snapshot. Safe to call repeatedly; rebuilds serialize.
//
// Response:
//
//	200 OK: ReloadResponse
func (h *Handlers) HandleGraphReload(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleGraphReload")

	resp, err := h.svc.Reload(c.Request.Context())
	if err != nil {
		logger.Error("Reload failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Reload failed",
			Code:  "RELOAD_FAILED",
		})
		return
	}

	logger.Info("Graph reloaded", "generation", resp.Generation)
	c.JSON(http.StatusOK, resp)
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: ServiceVersion,
	})
}

// HandleReady handles GET /ready. Ready means a snapshot is published.
func (h *Handlers) HandleReady(c *gin.Context) {
	snapshot := h.svc.Snapshot()
	if snapshot == nil {
		c.JSON(http.StatusServiceUnavailable, ReadyResponse{Ready: false})
		return
	}
	c.JSON(http.StatusOK, ReadyResponse{
		Ready:      true,
		Generation: snapshot.Generation(),
	})
}

// HandleMetrics handles GET /metrics via the prometheus handler, when the
// prometheus exporter is active.
func (h *Handlers) HandleMetrics(c *gin.Context) {
	handler := telemetry.MetricsHandler()
	if handler == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Metrics exporter not enabled",
			Code:  "METRICS_DISABLED",
		})
		return
	}
	handler.ServeHTTP(c.Writer, c.Request)
}

// callerIdentity extracts the actor and roles set by the auth middleware.
// Requests that bypassed the middleware count as anonymous.
func callerIdentity(c *gin.Context) (string, []string) {
	if info := middleware.GetAuthInfo(c); info != nil {
		return info.UserID, info.Roles
	}
	return "anonymous", nil
}

// getOrCreateRequestID gets or creates a request ID.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
