// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command depgraph starts the dependency graph API server.
//
// The server maintains a build-dependency graph over registered project
// specs and answers connected-component queries: given one or more seed
// projects, which projects would rebuild together. Specs are loaded from
// a directory of YAML files, registered through the HTTP API, or both.
//
// # Environment Variables
//
//   - DEPGRAPH_PORT: HTTP server port (default: 12310)
//   - DEPGRAPH_SPEC_DIR: directory of YAML project specs (optional)
//   - DEPGRAPH_DATA_DIR: BadgerDB directory; empty selects in-memory (optional)
//   - DEPGRAPH_ACL_FILE: YAML read-permission policy; empty allows all (optional)
//   - OTEL_TRACES_EXPORTER / OTEL_METRICS_EXPORTER: telemetry exporters
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP collector for traces (default: localhost:4317)
//
// # Usage
//
//	# In-memory registry, specs via the API only
//	go run ./cmd/depgraph
//
//	# Load specs from a directory and watch it for changes
//	go run ./cmd/depgraph -spec-dir ./specs -watch
//
//	# Persistent registry with an access policy
//	go run ./cmd/depgraph -data-dir ~/.depgraph/data -acl ./acl.yaml
//
// Example requests:
//
//	# Health check
//	curl http://localhost:12310/health
//
//	# Connected component for two seeds
//	curl -X POST http://localhost:12310/api/v1/component \
//	  -H "Content-Type: application/json" \
//	  -d '{"seeds": ["core", "api"], "include_sub_jobs": true}'
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/depgraph/pkg/extensions"
	"github.com/AleutianAI/depgraph/pkg/logging"
	"github.com/AleutianAI/depgraph/services/depgraph"
	"github.com/AleutianAI/depgraph/services/depgraph/authz"
	"github.com/AleutianAI/depgraph/services/depgraph/middleware"
	"github.com/AleutianAI/depgraph/services/depgraph/registry"
	storage "github.com/AleutianAI/depgraph/services/depgraph/storage/badger"
	"github.com/AleutianAI/depgraph/services/depgraph/telemetry"
)

func main() {
	port := flag.Int("port", getEnvInt("DEPGRAPH_PORT", 12310), "Port to listen on")
	specDir := flag.String("spec-dir", os.Getenv("DEPGRAPH_SPEC_DIR"), "Directory of YAML project specs")
	dataDir := flag.String("data-dir", os.Getenv("DEPGRAPH_DATA_DIR"), "BadgerDB directory (empty: in-memory)")
	aclFile := flag.String("acl", os.Getenv("DEPGRAPH_ACL_FILE"), "YAML read-permission policy (empty: allow all)")
	watch := flag.Bool("watch", false, "Watch the spec directory and reload on changes")
	triggers := flag.Bool("enable-triggers", true, "Enable the sub-job trigger capability")
	copies := flag.Bool("enable-artifact-copies", true, "Enable the artifact-copy capability")
	maxSeeds := flag.Int("max-seeds", depgraph.DefaultMaxSeeds, "Maximum seeds per component query")
	maxRounds := flag.Int("max-rounds", 0, "Server-side cap on expansion rounds (0: unlimited)")
	logDir := flag.String("log-dir", "", "Directory for JSON log files (empty: stderr only)")
	debug := flag.Bool("debug", false, "Enable debug mode")
	flag.Parse()

	logger := logging.New(logging.Config{
		Level:   logLevel(*debug),
		LogDir:  *logDir,
		Service: "depgraph-service",
		JSON:    !isInteractive(),
	})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	if err := run(runConfig{
		port:      *port,
		specDir:   *specDir,
		dataDir:   *dataDir,
		aclFile:   *aclFile,
		watch:     *watch,
		triggers:  *triggers,
		copies:    *copies,
		maxSeeds:  *maxSeeds,
		maxRounds: *maxRounds,
		debug:     *debug,
	}, logger.Slog()); err != nil {
		slog.Error("Server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runConfig carries the resolved flag values into run.
type runConfig struct {
	port      int
	specDir   string
	dataDir   string
	aclFile   string
	watch     bool
	triggers  bool
	copies    bool
	maxSeeds  int
	maxRounds int
	debug     bool
}

func run(cfg runConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry first so every later span and metric has a home.
	telemetryCfg := telemetry.DefaultConfig()
	telemetryCfg.ServiceVersion = depgraph.ServiceVersion
	shutdownTelemetry, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("telemetry init: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			slog.Warn("Telemetry shutdown", slog.String("error", err.Error()))
		}
	}()

	store, err := openStore(cfg.dataDir, logger)
	if err != nil {
		return fmt.Errorf("open registry store: %w", err)
	}
	defer store.Close()

	policy := authz.AllowAllPolicy()
	if cfg.aclFile != "" {
		policy, err = authz.LoadPolicy(cfg.aclFile)
		if err != nil {
			return fmt.Errorf("load policy %s: %w", cfg.aclFile, err)
		}
		slog.Info("Loaded access policy",
			slog.String("path", cfg.aclFile),
			slog.Int("rules", len(policy.Rules)),
		)
	}

	svc := depgraph.NewService(store, depgraph.ServiceConfig{
		SpecDir:              cfg.specDir,
		Policy:               policy,
		EnableTriggers:       cfg.triggers,
		EnableArtifactCopies: cfg.copies,
		MaxSeeds:             cfg.maxSeeds,
		MaxRounds:            cfg.maxRounds,
		Logger:               logger,
	})

	// First build. An empty registry still publishes a snapshot so the
	// server reports ready with a zero-project graph.
	reload, err := svc.Reload(ctx)
	if err != nil {
		return fmt.Errorf("initial load: %w", err)
	}
	slog.Info("Initial graph built",
		slog.Uint64("generation", reload.Generation),
		slog.Int("nodes", reload.Build.Nodes),
		slog.Int("edges", reload.Build.Edges),
	)

	if cfg.watch && cfg.specDir != "" {
		watcher, err := registry.NewWatcher(cfg.specDir, func(changed []string) {
			slog.Info("Spec directory changed", slog.Int("files", len(changed)))
			if _, err := svc.Reload(context.Background()); err != nil {
				slog.Error("Reload after file change failed", slog.String("error", err.Error()))
			}
		}, registry.DefaultWatcherOptions())
		if err != nil {
			return fmt.Errorf("spec watcher: %w", err)
		}
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("start spec watcher: %w", err)
		}
		defer watcher.Stop()
		slog.Info("Watching spec directory", slog.String("dir", cfg.specDir))
	}

	router := buildRouter(svc, cfg.debug)

	printBanner(cfg.port, cfg.specDir, cfg.triggers, cfg.copies)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting depgraph server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down depgraph server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildRouter assembles the gin engine with tracing, auth, and routes.
func buildRouter(svc *depgraph.Service, debug bool) *gin.Engine {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("depgraph-service"))
	if debug {
		router.Use(gin.Logger())
	}

	handlers := depgraph.NewHandlers(svc)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(&extensions.NopAuthProvider{}))
	depgraph.RegisterRoutes(api, handlers)

	depgraph.RegisterOpsRoutes(router, handlers)
	return router
}

// openStore opens the registry store, persistent or in-memory.
func openStore(dataDir string, logger *slog.Logger) (*registry.Store, error) {
	if dataDir == "" {
		slog.Info("Using in-memory registry store")
		return registry.NewInMemoryStore()
	}
	cfg := storage.DefaultConfig()
	cfg.Path = dataDir
	cfg.Logger = logger
	slog.Info("Using persistent registry store", slog.String("path", dataDir))
	return registry.NewStore(cfg)
}

func printBanner(port int, specDir string, triggers, copies bool) {
	source := "API only"
	if specDir != "" {
		source = specDir
	}

	banner := `
╔═══════════════════════════════════════════════════════════════════╗
║                     DEPGRAPH API SERVER                           ║
╠═══════════════════════════════════════════════════════════════════╣
║                                                                   ║
║  Connected-component queries over a build-dependency graph.       ║
║  Spec source: %-50s  ║
║  Sub-job triggers: %-8t  Artifact copies: %-8t            ║
║                                                                   ║
║  Quick Start:                                                     ║
║  ┌─────────────────────────────────────────────────────────────┐  ║
║  │ # Health check                                              │  ║
║  │ curl http://localhost:%d/health                          │  ║
║  │                                                             │  ║
║  │ # Register a project                                        │  ║
║  │ curl -X PUT http://localhost:%d/api/v1/projects/core \   │  ║
║  │   -H "Content-Type: application/json" -d '{}'               │  ║
║  │                                                             │  ║
║  │ # Connected component for a seed                            │  ║
║  │ curl -X POST http://localhost:%d/api/v1/component \      │  ║
║  │   -H "Content-Type: application/json" \                     │  ║
║  │   -d '{"seeds": ["core"]}'                                  │  ║
║  └─────────────────────────────────────────────────────────────┘  ║
║                                                                   ║
║  Endpoints:                                                       ║
║  ├── Query: POST /api/v1/component                                ║
║  ├── Registry: GET/PUT/DELETE /api/v1/projects[/:name]            ║
║  ├── Graph: GET /api/v1/graph/stats, POST /api/v1/graph/reload    ║
║  └── Ops: /health, /ready, /metrics                               ║
║                                                                   ║
║  Press Ctrl+C to stop                                             ║
╚═══════════════════════════════════════════════════════════════════╝
`
	fmt.Printf(banner, source, triggers, copies, port, port, port)
}

// logLevel maps the debug flag onto the logging package's levels.
func logLevel(debug bool) logging.Level {
	if debug {
		return logging.LevelDebug
	}
	return logging.LevelInfo
}

// isInteractive reports whether stderr looks like a terminal. Interactive
// sessions get text logs; everything else gets JSON for collectors.
func isInteractive() bool {
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
