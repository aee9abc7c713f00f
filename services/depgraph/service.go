// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package depgraph is the HTTP service around the component calculator.
//
// The service owns the moving parts: the registry store, the graph
// builder, the authorization policy, the optional capabilities, and the
// result cache. Queries always run against an immutable published
// snapshot; rebuilds construct a new snapshot off to the side and swap it
// in atomically, so readers never see a half-built graph.
package depgraph

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AleutianAI/depgraph/pkg/extensions"
	"github.com/AleutianAI/depgraph/services/depgraph/authz"
	"github.com/AleutianAI/depgraph/services/depgraph/cache"
	"github.com/AleutianAI/depgraph/services/depgraph/capability"
	"github.com/AleutianAI/depgraph/services/depgraph/component"
	"github.com/AleutianAI/depgraph/services/depgraph/graph"
	"github.com/AleutianAI/depgraph/services/depgraph/registry"
)

// ServiceVersion is the depgraph service version.
const ServiceVersion = "0.1.0"

// DefaultMaxSeeds bounds the number of seeds in one component query.
const DefaultMaxSeeds = 64

// ServiceConfig configures the Service.
type ServiceConfig struct {
	// SpecDir is the directory of YAML project specs. Empty means the
	// registry is populated only through the API.
	SpecDir string

	// Policy is the read-permission policy. Nil means allow all.
	Policy *authz.Policy

	// EnableTriggers turns on the sub-job triggering capability.
	EnableTriggers bool

	// EnableArtifactCopies turns on the artifact-copy capability.
	EnableArtifactCopies bool

	// MaxSeeds bounds seeds per query. Default: DefaultMaxSeeds.
	MaxSeeds int

	// MaxRounds caps expansion rounds server-side. Zero means the
	// client's max_rounds (or unlimited) applies.
	MaxRounds int

	// CacheOptions configure the result cache.
	CacheOptions []cache.Option

	// Audit receives query and mutation events. Nil means Nop.
	Audit extensions.AuditLogger

	// Logger is the service logger. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Policy:   authz.AllowAllPolicy(),
		MaxSeeds: DefaultMaxSeeds,
	}
}

// specIndex is the immutable name→spec lookup published with a snapshot.
type specIndex struct {
	byName map[string]registry.Spec
}

// Service wires the registry, graph, authz, capabilities, and cache.
//
// # Thread Safety
//
// Safe for concurrent use. The published snapshot and spec index are
// swapped atomically; Rebuild serializes through a mutex.
type Service struct {
	config  ServiceConfig
	store   *registry.Store
	loader  *registry.Loader
	builder *graph.Builder
	policy  *authz.Policy
	audit   extensions.AuditLogger
	logger  *slog.Logger

	triggers *capability.TriggerConfig
	copies   *capability.ArtifactCopyConfig

	results *cache.ResultCache[*ComponentResponse]

	snapshot atomic.Pointer[graph.Snapshot]
	specs    atomic.Pointer[specIndex]

	rebuildMu sync.Mutex
	statsMu   sync.Mutex
	lastBuild graph.BuildReport
	lastLoad  LoadSummary
}

// NewService creates a Service over the given registry store.
func NewService(store *registry.Store, cfg ServiceConfig) *Service {
	if cfg.Policy == nil {
		cfg.Policy = authz.AllowAllPolicy()
	}
	if cfg.MaxSeeds <= 0 {
		cfg.MaxSeeds = DefaultMaxSeeds
	}
	if cfg.Audit == nil {
		cfg.Audit = &extensions.NopAuditLogger{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	loaderOpts := registry.DefaultLoaderOptions()
	loaderOpts.Logger = logger

	s := &Service{
		config:  cfg,
		store:   store,
		loader:  registry.NewLoader(store, loaderOpts),
		builder: graph.NewBuilder(graph.BuilderOptions{Logger: logger}),
		policy:  cfg.Policy,
		audit:   cfg.Audit,
		logger:  logger,
		results: cache.New[*ComponentResponse](cfg.CacheOptions...),
	}
	s.triggers = capability.NewTriggerConfig(s)
	s.copies = capability.NewArtifactCopyConfig(s)
	return s
}

// Spec implements capability.SpecSource against the published index, so
// capability reads stay consistent with the snapshot a query traverses.
func (s *Service) Spec(name string) (registry.Spec, bool) {
	idx := s.specs.Load()
	if idx == nil {
		return registry.Spec{}, false
	}
	spec, ok := idx.byName[name]
	return spec, ok
}

// Snapshot returns the published graph snapshot, or nil before the first
// rebuild.
func (s *Service) Snapshot() *graph.Snapshot {
	return s.snapshot.Load()
}

// Ready reports whether a snapshot has been published.
func (s *Service) Ready() bool {
	return s.snapshot.Load() != nil
}

// Reload re-reads the spec directory (when configured) and rebuilds.
func (s *Service) Reload(ctx context.Context) (ReloadResponse, error) {
	if s.config.SpecDir != "" {
		report, err := s.loader.LoadDir(ctx, s.config.SpecDir)
		if err != nil {
			return ReloadResponse{}, fmt.Errorf("load specs: %w", err)
		}
		s.statsMu.Lock()
		s.lastLoad = LoadSummary{
			Loaded:  report.Loaded,
			Skipped: report.Skipped,
			Failed:  report.Failed,
		}
		s.statsMu.Unlock()
	}
	return s.Rebuild(ctx)
}

// Rebuild builds a fresh snapshot from the registry and publishes it.
func (s *Service) Rebuild(ctx context.Context) (ReloadResponse, error) {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	specs, err := s.store.List(ctx)
	if err != nil {
		return ReloadResponse{}, fmt.Errorf("list specs: %w", err)
	}

	snapshot, report := s.builder.Build(ctx, specs)

	idx := &specIndex{byName: make(map[string]registry.Spec, len(specs))}
	for _, spec := range specs {
		idx.byName[spec.Name] = spec
	}

	// Publish the index first: a query racing the swap may pair the old
	// snapshot with the new index, which only surfaces spec fields and
	// never dangling graph references.
	s.specs.Store(idx)
	s.snapshot.Store(snapshot)
	s.results.InvalidateOlderThan(snapshot.Generation())

	s.statsMu.Lock()
	s.lastBuild = report
	lastLoad := s.lastLoad
	s.statsMu.Unlock()

	return ReloadResponse{
		Generation: snapshot.Generation(),
		Load:       lastLoad,
		Build:      report,
	}, nil
}

// Stats reports the published snapshot, last build, and cache state.
func (s *Service) Stats() (GraphStatsResponse, error) {
	snapshot := s.snapshot.Load()
	if snapshot == nil {
		return GraphStatsResponse{}, ErrNotReady
	}

	s.statsMu.Lock()
	build := s.lastBuild
	s.statsMu.Unlock()

	return GraphStatsResponse{
		Graph: snapshot.Stats(),
		Build: build,
		Cache: s.results.GetStats(),
	}, nil
}

// ComputeComponent resolves the connected component for a query.
//
// # Description
//
// Seeds resolve against the published snapshot; an unresolvable seed is an
// UnknownSeedError, and a seed the actor cannot read is ErrSeedReadDenied.
// Results are cached per (actor, query shape, generation) and identical
// concurrent queries share one computation.
func (s *Service) ComputeComponent(ctx context.Context, actor string, roles []string, req ComponentRequest) (*ComponentResponse, error) {
	start := time.Now()
	snapshot := s.snapshot.Load()
	if snapshot == nil {
		return nil, ErrNotReady
	}
	if len(req.Seeds) == 0 {
		return nil, ErrNoSeeds
	}
	if len(req.Seeds) > s.config.MaxSeeds {
		return nil, fmt.Errorf("%w: %d seeds (max %d)", ErrTooManySeeds, len(req.Seeds), s.config.MaxSeeds)
	}

	perms := s.policy.ForActor(actor, roles)

	seeds := make([]component.Project, 0, len(req.Seeds))
	for _, name := range req.Seeds {
		p, ok := snapshot.ResolveProject(name)
		if !ok {
			s.auditQuery(ctx, actor, req, snapshot.Generation(), "failure")
			return nil, &UnknownSeedError{Seed: name}
		}
		if !perms.CanRead(p) {
			s.auditQuery(ctx, actor, req, snapshot.Generation(), "blocked")
			return nil, fmt.Errorf("%w: %s", ErrSeedReadDenied, name)
		}
		seeds = append(seeds, p)
	}

	maxRounds := req.MaxRounds
	if s.config.MaxRounds > 0 && (maxRounds == 0 || maxRounds > s.config.MaxRounds) {
		maxRounds = s.config.MaxRounds
	}

	// The cache key folds the query options and the permission scope into
	// the actor dimension; both change the result just as the actor does.
	// Roles only affect permissions through the admin bypass, so the admin
	// bit is the whole role dimension.
	variant := fmt.Sprintf("%s#admin=%t,sub=%t,copies=%t,rounds=%d",
		actor, s.policy.IsAdmin(roles), req.IncludeSubJobs, req.IncludeCopiedArtifacts, maxRounds)

	computed := false
	result, err := s.results.GetOrCompute(ctx, variant, req.Seeds, snapshot.Generation(),
		func(ctx context.Context) (*ComponentResponse, error) {
			computed = true
			return s.compute(snapshot, seeds, perms, req, maxRounds)
		})
	if err != nil {
		s.auditQuery(ctx, actor, req, snapshot.Generation(), "error")
		return nil, err
	}

	// Copy before stamping per-call stats; the cached value is shared.
	resp := *result
	resp.Stats.CacheHit = !computed

	s.auditQuery(ctx, actor, req, snapshot.Generation(), "success")
	s.logger.Debug("component computed",
		slog.String("actor", actor),
		slog.Int("seeds", len(req.Seeds)),
		slog.Int("projects", resp.Stats.ProjectCount),
		slog.Bool("cache_hit", resp.Stats.CacheHit),
		slog.Duration("elapsed", time.Since(start)))

	return &resp, nil
}

// compute runs the calculator and converts the result to API views.
func (s *Service) compute(
	snapshot *graph.Snapshot,
	seeds []component.Project,
	perms component.PermissionChecker,
	req ComponentRequest,
	maxRounds int,
) (*ComponentResponse, error) {
	opts := []component.CalculatorOption{
		component.WithResolver(snapshot),
		component.WithLogger(s.logger),
	}
	if maxRounds > 0 {
		opts = append(opts, component.WithMaxRounds(maxRounds))
	}
	if req.IncludeSubJobs && s.config.EnableTriggers {
		opts = append(opts, component.WithTriggerSource(s.triggers))
	}
	if req.IncludeCopiedArtifacts && s.config.EnableArtifactCopies {
		opts = append(opts, component.WithArtifactCopySource(s.copies))
	}

	calc := component.New(seeds, snapshot, perms, opts...)

	projects := calc.Projects()
	deps := calc.Dependencies()

	resp := &ComponentResponse{
		Projects:     make([]ProjectView, 0, len(projects)),
		Dependencies: make([]DependencyView, 0, len(deps)),
		Stats: ComponentStats{
			ProjectCount:    len(projects),
			DependencyCount: len(deps),
			Rounds:          calc.Rounds(),
			Generation:      snapshot.Generation(),
		},
	}
	for _, p := range projects {
		resp.Projects = append(resp.Projects, projectView(p))
	}
	for _, d := range deps {
		resp.Dependencies = append(resp.Dependencies, DependencyView{
			Upstream:   d.Upstream.Name(),
			Downstream: d.Downstream.Name(),
		})
	}

	if req.IncludeSubJobs && s.config.EnableTriggers {
		subJobs := calc.SubJobs()
		if subJobs.Len() > 0 {
			resp.SubJobs = make(map[string][]ProjectView)
			subJobs.Each(func(parent, target component.Project) {
				name := parent.Name()
				resp.SubJobs[name] = append(resp.SubJobs[name], projectView(target))
			})
		}
	}
	if req.IncludeCopiedArtifacts && s.config.EnableArtifactCopies {
		for _, d := range calc.CopiedArtifacts() {
			resp.CopiedArtifacts = append(resp.CopiedArtifacts, DependencyView{
				Upstream:   d.Upstream.Name(),
				Downstream: d.Downstream.Name(),
			})
		}
	}

	return resp, nil
}

// ListProjects returns all registered project specs.
func (s *Service) ListProjects(ctx context.Context) ([]registry.Spec, error) {
	return s.store.List(ctx)
}

// GetProject returns one project spec by name.
func (s *Service) GetProject(ctx context.Context, name string) (registry.Spec, error) {
	return s.store.Get(ctx, name)
}

// PutProject upserts a project spec and rebuilds the graph.
func (s *Service) PutProject(ctx context.Context, actor, name string, payload ProjectPayload) (registry.Spec, error) {
	spec := registry.Spec{
		Name:                name,
		DisplayName:         payload.DisplayName,
		Labels:              payload.Labels,
		Upstream:            payload.Upstream,
		Triggers:            payload.Triggers,
		CopiesArtifactsFrom: payload.CopiesArtifactsFrom,
		Disabled:            payload.Disabled,
	}
	if err := s.store.Put(ctx, spec); err != nil {
		s.auditMutation(ctx, actor, "update", name, "failure")
		return registry.Spec{}, err
	}
	if _, err := s.Rebuild(ctx); err != nil {
		return registry.Spec{}, err
	}
	s.auditMutation(ctx, actor, "update", name, "success")
	return spec, nil
}

// DeleteProject removes a project spec and rebuilds the graph.
func (s *Service) DeleteProject(ctx context.Context, actor, name string) error {
	if err := s.store.Delete(ctx, name); err != nil {
		s.auditMutation(ctx, actor, "delete", name, "failure")
		return err
	}
	if _, err := s.Rebuild(ctx); err != nil {
		return err
	}
	s.auditMutation(ctx, actor, "delete", name, "success")
	return nil
}

func projectView(p component.Project) ProjectView {
	view := ProjectView{Name: p.Name()}
	if n, ok := p.(*graph.Node); ok {
		view.DisplayName = n.DisplayName()
		view.Labels = n.Labels()
	}
	return view
}

func (s *Service) auditQuery(ctx context.Context, actor string, req ComponentRequest, generation uint64, outcome string) {
	event := extensions.AuditEvent{
		EventType:    "component.query",
		Timestamp:    time.Now().UTC(),
		UserID:       actor,
		Action:       "read",
		ResourceType: "component",
		Outcome:      outcome,
		Metadata: extensions.NewMetadata().
			Set("seed_count", len(req.Seeds)).
			Set("generation", generation),
	}
	if err := s.audit.Log(ctx, event); err != nil {
		s.logger.Warn("audit log failed", slog.String("error", err.Error()))
	}
}

func (s *Service) auditMutation(ctx context.Context, actor, action, name, outcome string) {
	event := extensions.AuditEvent{
		EventType:    "project." + action,
		Timestamp:    time.Now().UTC(),
		UserID:       actor,
		Action:       action,
		ResourceType: "project",
		ResourceID:   name,
		Outcome:      outcome,
	}
	if err := s.audit.Log(ctx, event); err != nil {
		s.logger.Warn("audit log failed", slog.String("error", err.Error()))
	}
}
