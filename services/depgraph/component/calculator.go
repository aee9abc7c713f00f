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

import (
	"context"
	"log/slog"
	"time"
)

// CalculatorOptions configures optional collaborators and limits.
type CalculatorOptions struct {
	// Trigger yields configured sub-job names per project.
	// Default: NopTriggerConfig (capability absent).
	Trigger TriggerConfigSource

	// ArtifactCopy yields configured artifact-copy source names per project.
	// Default: NopArtifactCopyConfig (capability absent).
	ArtifactCopy ArtifactCopySource

	// Resolver resolves configured names to projects.
	// Default: NopResolver (every reference silently skipped).
	Resolver ProjectResolver

	// MaxRounds caps how many expansion rounds run. Zero means unbounded.
	// The cap is the caller's bounded-latency escape hatch for adversarially
	// large graphs; the result is then a truncated but self-consistent
	// component.
	MaxRounds int

	// Logger receives debug output for skipped references.
	// Default: slog.Default().
	Logger *slog.Logger
}

// DefaultCalculatorOptions returns options with both capabilities absent.
func DefaultCalculatorOptions() CalculatorOptions {
	return CalculatorOptions{
		Trigger:      NopTriggerConfig{},
		ArtifactCopy: NopArtifactCopyConfig{},
		Resolver:     NopResolver{},
	}
}

// CalculatorOption is a functional option for configuring a Calculator.
type CalculatorOption func(*CalculatorOptions)

// WithTriggerSource installs the trigger-configuration capability.
func WithTriggerSource(src TriggerConfigSource) CalculatorOption {
	return func(o *CalculatorOptions) {
		if src != nil {
			o.Trigger = src
		}
	}
}

// WithArtifactCopySource installs the artifact-copy capability.
func WithArtifactCopySource(src ArtifactCopySource) CalculatorOption {
	return func(o *CalculatorOptions) {
		if src != nil {
			o.ArtifactCopy = src
		}
	}
}

// WithResolver sets the resolver used for trigger and artifact-copy
// references.
func WithResolver(r ProjectResolver) CalculatorOption {
	return func(o *CalculatorOptions) {
		if r != nil {
			o.Resolver = r
		}
	}
}

// WithMaxRounds caps the number of expansion rounds. Zero or negative means
// unbounded.
func WithMaxRounds(n int) CalculatorOption {
	return func(o *CalculatorOptions) {
		if n > 0 {
			o.MaxRounds = n
		}
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(l *slog.Logger) CalculatorOption {
	return func(o *CalculatorOptions) {
		if l != nil {
			o.Logger = l
		}
	}
}

// Calculator computes the permission-filtered connected component reachable
// from a seed set, together with the sub-job and copied-artifact relations of
// the projects it visits.
//
// # Lifecycle
//
//  1. Create with New over an immutable seed set.
//  2. Read any accessor; the first one runs Compute exactly once.
//  3. Discard after the results are consumed.
//
// The seeds themselves are never permission-filtered: a caller asking for the
// component of a project it cannot read gets that project back, alone.
// Only additions beyond the seed set pass through the permission check.
//
// # Thread Safety
//
// NOT safe for concurrent use. Construct one Calculator per request.
type Calculator struct {
	graph    GraphSource
	perms    PermissionChecker
	trigger  TriggerConfigSource
	copy     ArtifactCopySource
	resolver ProjectResolver
	logger   *slog.Logger

	maxRounds int

	seeds      []Project
	visited    *projectSet
	deps       *dependencySet
	copied     *dependencySet
	subJobs    *SubJobs
	rounds     int
	calculated bool
}

// New creates a Calculator over the given seed set.
//
// The visited-project set starts as exactly the seeds. The graph provider
// reference is captured here, so a graph swapped out after construction is
// not observed; a swap before the first accessor call is.
//
// Inputs:
//
//	seeds - The projects to compute the component for. Must be non-nil;
//	        duplicates (by name) collapse to one entry.
//	graph - The dependency-edge provider. Must not be nil.
//	perms - The read-permission check for the current actor. Must not be nil.
//	opts  - Optional capabilities and limits.
func New(seeds []Project, graph GraphSource, perms PermissionChecker, opts ...CalculatorOption) *Calculator {
	options := DefaultCalculatorOptions()
	for _, opt := range opts {
		opt(&options)
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	visited := newProjectSet(len(seeds))
	uniqueSeeds := make([]Project, 0, len(seeds))
	for _, s := range seeds {
		if visited.add(s) {
			uniqueSeeds = append(uniqueSeeds, s)
		}
	}

	return &Calculator{
		graph:     graph,
		perms:     perms,
		trigger:   options.Trigger,
		copy:      options.ArtifactCopy,
		resolver:  options.Resolver,
		logger:    logger,
		maxRounds: options.MaxRounds,
		seeds:     uniqueSeeds,
		visited:   visited,
		deps:      newDependencySet(),
		copied:    newDependencySet(),
		subJobs:   newSubJobs(),
	}
}

// Compute runs the fixed-point expansion if it has not run yet.
//
// Idempotent: only the first call does work. All accessors call Compute, so
// explicit invocation is only needed to control when the cost is paid.
func (c *Calculator) Compute() {
	if c.calculated {
		return
	}
	c.calculated = true

	ctx := context.Background()
	ctx, span := startComputeSpan(ctx, len(c.seeds))
	defer span.End()
	start := time.Now()

	frontier := c.seeds
	for len(frontier) > 0 {
		c.rounds++

		next := newProjectSet(len(frontier))
		for _, p := range frontier {
			// Permission is evaluated per round, never cached: a project
			// expanded in an earlier round stays visited, but contributes
			// nothing further once access is lost.
			if !c.perms.CanRead(p) {
				continue
			}

			c.expandUpstream(p, next)
			c.expandDownstream(p, next)
			c.collectSubJobs(p)
			c.collectCopiedArtifacts(p)
		}

		for _, q := range next.slice() {
			c.visited.add(q)
		}

		if c.maxRounds > 0 && c.rounds >= c.maxRounds {
			break
		}
		frontier = next.slice()
	}

	setComputeSpanResult(span, c.visited.len(), c.deps.len(), c.rounds)
	recordComputeMetrics(ctx, time.Since(start), c.visited.len(), c.deps.len(), c.rounds)
}

// expandUpstream admits the upstream edges of p and queues newly discovered
// upstream projects for the next round.
func (c *Calculator) expandUpstream(p Project, next *projectSet) {
	for _, edge := range c.graph.Upstream(p) {
		if c.deps.contains(edge) {
			continue
		}
		other := edge.Upstream
		if !c.perms.CanRead(other) {
			continue
		}
		c.deps.add(edge)
		if !c.visited.contains(other) {
			next.add(other)
		}
	}
}

// expandDownstream is the symmetric step: the downstream endpoint is the one
// tested and admitted.
func (c *Calculator) expandDownstream(p Project, next *projectSet) {
	for _, edge := range c.graph.Downstream(p) {
		if c.deps.contains(edge) {
			continue
		}
		other := edge.Downstream
		if !c.perms.CanRead(other) {
			continue
		}
		c.deps.add(edge)
		if !c.visited.contains(other) {
			next.add(other)
		}
	}
}

// collectSubJobs records the sub-jobs p's configuration triggers.
//
// Targets are resolved by name; unresolved names are skipped. No permission
// filter applies here, and targets never join the frontier: the relation
// annotates p, it does not extend the component.
func (c *Calculator) collectSubJobs(p Project) {
	names := c.trigger.TriggerNames(p)
	if len(names) == 0 {
		return
	}

	targets := make([]Project, 0, len(names))
	for _, name := range names {
		target, ok := c.resolver.ResolveProject(name)
		if !ok {
			c.logger.Debug("skipping unresolved sub-job reference",
				slog.String("project", p.Name()),
				slog.String("reference", name))
			continue
		}
		targets = append(targets, target)
	}
	c.subJobs.add(p, targets)
}

// collectCopiedArtifacts records edges (S → p) for every resolved artifact
// source S of p. Like sub-jobs, sources are unfiltered and never expand the
// frontier; set semantics is the only deduplication.
func (c *Calculator) collectCopiedArtifacts(p Project) {
	for _, name := range c.copy.CopySourceNames(p) {
		source, ok := c.resolver.ResolveProject(name)
		if !ok {
			c.logger.Debug("skipping unresolved artifact-copy reference",
				slog.String("project", p.Name()),
				slog.String("reference", name))
			continue
		}
		c.copied.add(Dependency{Upstream: source, Downstream: p})
	}
}

// Projects returns every project discovered reachable from the seeds,
// seeds first, in first-discovery order.
func (c *Calculator) Projects() []Project {
	c.Compute()
	return c.visited.slice()
}

// Dependencies returns every dependency edge admitted during traversal, in
// first-discovery order.
func (c *Calculator) Dependencies() []Dependency {
	c.Compute()
	return c.deps.slice()
}

// SubJobs returns the sub-job multimap accumulated during traversal. The
// returned view is read-only and does not alias calculator state that later
// mutates (the calculator is already final once Compute has run).
func (c *Calculator) SubJobs() *SubJobs {
	c.Compute()
	return c.subJobs
}

// CopiedArtifacts returns the copied-artifact edges (source → copier)
// accumulated during traversal.
func (c *Calculator) CopiedArtifacts() []Dependency {
	c.Compute()
	return c.copied.slice()
}

// Rounds returns how many expansion rounds the computation ran.
func (c *Calculator) Rounds() int {
	c.Compute()
	return c.rounds
}
