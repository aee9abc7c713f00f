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
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the depgraph API routes with the router group.
//
// Description:
//
//	Registers all /api/v1/* endpoints with the given Gin router group.
//	The group should already carry the auth and tracing middleware.
//
// Component Endpoints:
//
//	POST /api/v1/component - Compute the connected component for seeds
//
// Project Endpoints:
//
//	GET    /api/v1/projects - List registered projects
//	GET    /api/v1/projects/:name - Get one project definition
//	PUT    /api/v1/projects/:name - Create or update a project definition
//	DELETE /api/v1/projects/:name - Delete a project definition
//
// Graph Endpoints:
//
//	GET  /api/v1/graph/stats - Published snapshot and cache statistics
//	POST /api/v1/graph/reload - Reload specs and rebuild the graph
//
// Example:
//
//	svc := depgraph.NewService(store, depgraph.DefaultServiceConfig())
//	handlers := depgraph.NewHandlers(svc)
//
//	api := router.Group("/api/v1")
//	depgraph.RegisterRoutes(api, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	rg.POST("/component", handlers.HandleComponent)

	rg.GET("/projects", handlers.HandleListProjects)
	rg.GET("/projects/:name", handlers.HandleGetProject)
	rg.PUT("/projects/:name", handlers.HandlePutProject)
	rg.DELETE("/projects/:name", handlers.HandleDeleteProject)

	rg.GET("/graph/stats", handlers.HandleGraphStats)
	rg.POST("/graph/reload", handlers.HandleGraphReload)
}

// RegisterOpsRoutes registers the unauthenticated operational endpoints on
// the root router.
//
//	GET /health - Liveness
//	GET /ready - Readiness (snapshot published)
//	GET /metrics - Prometheus metrics (when enabled)
func RegisterOpsRoutes(router *gin.Engine, handlers *Handlers) {
	router.GET("/health", handlers.HandleHealth)
	router.GET("/ready", handlers.HandleReady)
	router.GET("/metrics", handlers.HandleMetrics)
}
