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
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/depgraph/pkg/extensions"
	"github.com/AleutianAI/depgraph/services/depgraph/middleware"
	"github.com/AleutianAI/depgraph/services/depgraph/registry"
)

func init() {
	// Set Gin to test mode to reduce noise
	gin.SetMode(gin.TestMode)
}

func setupTestRouter(svc *Service) *gin.Engine {
	router := gin.New()
	handlers := NewHandlers(svc)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(&extensions.NopAuthProvider{}))
	RegisterRoutes(api, handlers)
	RegisterOpsRoutes(router, handlers)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandlers_HandleComponent(t *testing.T) {
	svc := newTestService(t, DefaultServiceConfig())
	router := setupTestRouter(svc)

	w := doJSON(t, router, "POST", "/api/v1/component",
		ComponentRequest{Seeds: []string{"api"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp ComponentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Stats.ProjectCount != 3 {
		t.Errorf("ProjectCount = %d, want 3", resp.Stats.ProjectCount)
	}
	if got := w.Header().Get("X-Request-ID"); got == "" {
		t.Error("missing X-Request-ID response header")
	}
}

func TestHandlers_HandleComponent_Errors(t *testing.T) {
	svc := newTestService(t, DefaultServiceConfig())
	router := setupTestRouter(svc)

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "empty body",
			body:       map[string]any{},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "empty seeds",
			body:       map[string]any{"seeds": []string{}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "unknown seed",
			body:       ComponentRequest{Seeds: []string{"no-such-project"}},
			wantStatus: http.StatusNotFound,
			wantCode:   "UNKNOWN_SEED",
		},
		{
			name:       "negative max rounds",
			body:       map[string]any{"seeds": []string{"api"}, "max_rounds": -1},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, "POST", "/api/v1/component", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestHandlers_HandleComponent_NotReady(t *testing.T) {
	store, err := registry.NewInMemoryStore()
	if err != nil {
		t.Fatalf("NewInMemoryStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	router := setupTestRouter(NewService(store, DefaultServiceConfig()))

	w := doJSON(t, router, "POST", "/api/v1/component",
		ComponentRequest{Seeds: []string{"api"}})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestHandlers_ProjectCRUD(t *testing.T) {
	svc := newTestService(t, DefaultServiceConfig())
	router := setupTestRouter(svc)

	// Create
	w := doJSON(t, router, "PUT", "/api/v1/projects/cache-layer",
		ProjectPayload{DisplayName: "Cache Layer", Upstream: []string{"core"}})
	if w.Code != http.StatusOK {
		t.Fatalf("PUT status = %d: %s", w.Code, w.Body.String())
	}

	// Read back
	w = doJSON(t, router, "GET", "/api/v1/projects/cache-layer", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d", w.Code)
	}
	var spec registry.Spec
	if err := json.Unmarshal(w.Body.Bytes(), &spec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if spec.DisplayName != "Cache Layer" || len(spec.Upstream) != 1 {
		t.Errorf("got %+v", spec)
	}

	// List includes it
	w = doJSON(t, router, "GET", "/api/v1/projects", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("LIST status = %d", w.Code)
	}
	var list ProjectListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if list.Count != len(testSpecs)+1 {
		t.Errorf("Count = %d, want %d", list.Count, len(testSpecs)+1)
	}

	// Delete
	w = doJSON(t, router, "DELETE", "/api/v1/projects/cache-layer", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d", w.Code)
	}
	w = doJSON(t, router, "GET", "/api/v1/projects/cache-layer", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("GET after delete status = %d, want 404", w.Code)
	}
}

func TestHandlers_PutProject_InvalidName(t *testing.T) {
	svc := newTestService(t, DefaultServiceConfig())
	router := setupTestRouter(svc)

	w := doJSON(t, router, "PUT", "/api/v1/projects/..", ProjectPayload{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandlers_DeleteProject_NotFound(t *testing.T) {
	svc := newTestService(t, DefaultServiceConfig())
	router := setupTestRouter(svc)

	w := doJSON(t, router, "DELETE", "/api/v1/projects/ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHandlers_HandleGraphStats(t *testing.T) {
	svc := newTestService(t, DefaultServiceConfig())
	router := setupTestRouter(svc)

	w := doJSON(t, router, "GET", "/api/v1/graph/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var stats GraphStatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stats.Graph.NodeCount != len(testSpecs) {
		t.Errorf("NodeCount = %d, want %d", stats.Graph.NodeCount, len(testSpecs))
	}
}

func TestHandlers_HandleGraphReload(t *testing.T) {
	svc := newTestService(t, DefaultServiceConfig())
	router := setupTestRouter(svc)

	before := svc.Snapshot().Generation()
	w := doJSON(t, router, "POST", "/api/v1/graph/reload", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp ReloadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Generation <= before {
		t.Errorf("Generation = %d, want > %d", resp.Generation, before)
	}
}

func TestHandlers_HealthAndReady(t *testing.T) {
	svc := newTestService(t, DefaultServiceConfig())
	router := setupTestRouter(svc)

	w := doJSON(t, router, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d", w.Code)
	}
	var health HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if health.Status != "ok" || health.Version != ServiceVersion {
		t.Errorf("got %+v", health)
	}

	w = doJSON(t, router, "GET", "/ready", nil)
	if w.Code != http.StatusOK {
		t.Errorf("ready status = %d", w.Code)
	}
	var ready ReadyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &ready); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !ready.Ready || ready.Generation == 0 {
		t.Errorf("got %+v", ready)
	}
}

func TestHandlers_ReadyBeforeFirstBuild(t *testing.T) {
	store, err := registry.NewInMemoryStore()
	if err != nil {
		t.Fatalf("NewInMemoryStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	router := setupTestRouter(NewService(store, DefaultServiceConfig()))

	w := doJSON(t, router, "GET", "/ready", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}
