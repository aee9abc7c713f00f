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
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	graphTracer trace.Tracer = otel.Tracer("depgraph.graph")
	graphMeter  metric.Meter = otel.Meter("depgraph.graph")

	metricsOnce sync.Once

	buildDuration metric.Float64Histogram
	buildTotal    metric.Int64Counter
	buildNodes    metric.Int64Histogram
	buildEdges    metric.Int64Histogram
	danglingRefs  metric.Int64Counter
)

// initGraphMetrics lazily creates the instruments. Called at the top of
// Build so instruments bind to whatever meter provider is installed by
// then.
func initGraphMetrics() {
	metricsOnce.Do(func() {
		var err error

		buildDuration, err = graphMeter.Float64Histogram(
			"graph_build_duration_seconds",
			metric.WithDescription("Time to build one graph snapshot"),
			metric.WithUnit("s"),
		)
		if err != nil {
			otel.Handle(err)
		}

		buildTotal, err = graphMeter.Int64Counter(
			"graph_build_total",
			metric.WithDescription("Snapshot builds since process start"),
		)
		if err != nil {
			otel.Handle(err)
		}

		buildNodes, err = graphMeter.Int64Histogram(
			"graph_build_nodes",
			metric.WithDescription("Nodes per built snapshot"),
		)
		if err != nil {
			otel.Handle(err)
		}

		buildEdges, err = graphMeter.Int64Histogram(
			"graph_build_edges",
			metric.WithDescription("Edges per built snapshot"),
		)
		if err != nil {
			otel.Handle(err)
		}

		danglingRefs, err = graphMeter.Int64Counter(
			"graph_dangling_references_total",
			metric.WithDescription("Declared references to projects that do not exist"),
		)
		if err != nil {
			otel.Handle(err)
		}
	})
}
