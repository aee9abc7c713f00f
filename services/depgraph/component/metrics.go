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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for component computations.
var (
	tracer = otel.Tracer("depgraph.component")
	meter  = otel.Meter("depgraph.component")
)

// Metrics for component computations.
var (
	computeLatency  metric.Float64Histogram
	computeTotal    metric.Int64Counter
	computeRounds   metric.Int64Histogram
	projectsVisited metric.Int64Histogram
	edgesVisited    metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		computeLatency, err = meter.Float64Histogram(
			"component_compute_duration_seconds",
			metric.WithDescription("Duration of connected-component computations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		computeTotal, err = meter.Int64Counter(
			"component_compute_total",
			metric.WithDescription("Total number of connected-component computations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		computeRounds, err = meter.Int64Histogram(
			"component_compute_rounds",
			metric.WithDescription("Expansion rounds per computation"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		projectsVisited, err = meter.Int64Histogram(
			"component_projects_visited",
			metric.WithDescription("Projects in the computed component"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		edgesVisited, err = meter.Int64Histogram(
			"component_edges_visited",
			metric.WithDescription("Dependency edges in the computed component"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordComputeMetrics records metrics for one computation.
func recordComputeMetrics(ctx context.Context, duration time.Duration, projects, edges, rounds int) {
	if err := initMetrics(); err != nil {
		return
	}

	computeLatency.Record(ctx, duration.Seconds())
	computeTotal.Add(ctx, 1)
	computeRounds.Record(ctx, int64(rounds))
	projectsVisited.Record(ctx, int64(projects))
	edgesVisited.Record(ctx, int64(edges))
}

// startComputeSpan creates a span for a component computation.
func startComputeSpan(ctx context.Context, seedCount int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Calculator.Compute",
		trace.WithAttributes(
			attribute.Int("component.seed_count", seedCount),
		),
	)
}

// setComputeSpanResult sets the result attributes on a compute span.
func setComputeSpanResult(span trace.Span, projects, edges, rounds int) {
	span.SetAttributes(
		attribute.Int("component.project_count", projects),
		attribute.Int("component.edge_count", edges),
		attribute.Int("component.rounds", rounds),
	)
}
