// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/depgraph/services/depgraph/registry"
)

// generationCounter issues process-lifetime snapshot generations.
// Generation 0 is never issued, so zero-valued cache keys stay distinct
// from real snapshots.
var generationCounter atomic.Uint64

// NextGeneration returns a fresh, monotonically increasing generation.
func NextGeneration() uint64 {
	return generationCounter.Add(1)
}

// BuildReport summarizes one snapshot build.
type BuildReport struct {
	// Nodes is the number of nodes added to the snapshot.
	Nodes int `json:"nodes"`

	// Edges is the number of distinct edges added.
	Edges int `json:"edges"`

	// Disabled counts specs skipped because they were marked disabled.
	Disabled int `json:"disabled"`

	// Dangling counts upstream references that named no known project.
	Dangling int `json:"dangling"`

	// Duplicates counts declared edges dropped as repeats.
	Duplicates int `json:"duplicates"`

	// SelfRefs counts upstream references from a project to itself.
	SelfRefs int `json:"self_refs"`
}

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	// Logger receives per-spec warnings. Default: slog.Default().
	Logger *slog.Logger
}

// Builder turns project definitions into frozen graph snapshots.
//
// # Description
//
// One node per enabled spec; one edge per declared upstream reference
// whose target exists in the same batch. Dangling references, self
// references, and duplicate declarations are skipped and counted, never
// fatal: a half-broken spec directory still produces a usable graph.
//
// # Thread Safety
//
// Build is safe to call concurrently; each call produces an independent
// snapshot with its own generation.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(opts BuilderOptions) *Builder {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger}
}

// Build constructs a frozen snapshot from the given specs.
//
// # Inputs
//
//   - ctx: carries the build span.
//   - specs: project definitions, typically from registry.Store.List.
//
// # Outputs
//
//   - *Snapshot: frozen, safe for concurrent reads.
//   - BuildReport: what was added and what was skipped.
func (b *Builder) Build(ctx context.Context, specs []registry.Spec) (*Snapshot, BuildReport) {
	initGraphMetrics()
	start := time.Now()

	generation := NextGeneration()
	_, span := graphTracer.Start(ctx, "graph.Build",
		trace.WithAttributes(
			attribute.Int64("graph.generation", int64(generation)),
			attribute.Int("graph.spec_count", len(specs)),
		))
	defer span.End()

	snapshot := NewSnapshot(generation)
	var report BuildReport

	// Pass 1: nodes. Edges resolve against the full node set, so a spec
	// may reference a project defined later in the batch.
	for _, spec := range specs {
		if spec.Disabled {
			report.Disabled++
			continue
		}
		if err := snapshot.AddNode(spec.Name, spec.DisplayName, spec.Labels); err != nil {
			b.logger.Warn("skipping project node",
				slog.String("project", spec.Name),
				slog.String("error", err.Error()))
			continue
		}
		report.Nodes++
	}

	// Pass 2: edges.
	for _, spec := range specs {
		if spec.Disabled {
			continue
		}
		for _, upstream := range spec.Upstream {
			if upstream == spec.Name {
				report.SelfRefs++
				continue
			}
			if snapshot.Node(upstream) == nil {
				report.Dangling++
				b.logger.Debug("dangling upstream reference",
					slog.String("project", spec.Name),
					slog.String("upstream", upstream))
				continue
			}
			before := snapshot.EdgeCount()
			if err := snapshot.AddEdge(upstream, spec.Name); err != nil {
				b.logger.Warn("skipping edge",
					slog.String("project", spec.Name),
					slog.String("upstream", upstream),
					slog.String("error", err.Error()))
				continue
			}
			if snapshot.EdgeCount() == before {
				report.Duplicates++
			}
		}
	}

	snapshot.Freeze()
	report.Edges = snapshot.EdgeCount()

	recordBuildMetrics(ctx, time.Since(start), report)
	span.SetAttributes(
		attribute.Int("graph.nodes", report.Nodes),
		attribute.Int("graph.edges", report.Edges),
		attribute.Int("graph.dangling_refs", report.Dangling),
	)
	span.SetStatus(codes.Ok, "")

	b.logger.Info("graph snapshot built",
		slog.Uint64("generation", generation),
		slog.Int("nodes", report.Nodes),
		slog.Int("edges", report.Edges),
		slog.Int("disabled", report.Disabled),
		slog.Int("dangling", report.Dangling),
		slog.Int("duplicates", report.Duplicates),
		slog.Duration("elapsed", time.Since(start)))

	return snapshot, report
}

// recordBuildMetrics emits the build observations.
func recordBuildMetrics(ctx context.Context, elapsed time.Duration, report BuildReport) {
	buildDuration.Record(ctx, elapsed.Seconds())
	buildTotal.Add(ctx, 1)
	buildNodes.Record(ctx, int64(report.Nodes))
	buildEdges.Record(ctx, int64(report.Edges))
	if report.Dangling > 0 {
		danglingRefs.Add(ctx, int64(report.Dangling),
			metric.WithAttributes(attribute.String("kind", "upstream")))
	}
}
