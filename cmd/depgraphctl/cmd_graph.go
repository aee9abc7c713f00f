// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/depgraph/pkg/ux"
	"github.com/AleutianAI/depgraph/services/depgraph"
)

// runGraphStats prints graph, build, and cache statistics.
func runGraphStats(cmd *cobra.Command, args []string) {
	client := newAPIClient()

	var stats depgraph.GraphStatsResponse
	if err := client.get("/api/v1/graph/stats", &stats); err != nil {
		ux.Error(fmt.Sprintf("Graph stats failed: %v", err))
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(stats)
		return
	}

	ux.Title("Graph snapshot")
	ux.Info(fmt.Sprintf("generation: %d", stats.Graph.Generation))
	ux.Info(fmt.Sprintf("projects:   %d", stats.Graph.NodeCount))
	ux.Info(fmt.Sprintf("edges:      %d", stats.Graph.EdgeCount))

	ux.Muted("\nLast build:")
	ux.Info(fmt.Sprintf("disabled=%d dangling=%d duplicates=%d self_refs=%d",
		stats.Build.Disabled, stats.Build.Dangling, stats.Build.Duplicates, stats.Build.SelfRefs))

	ux.Muted("\nResult cache:")
	ux.Info(fmt.Sprintf("entries=%d hits=%d misses=%d evictions=%d",
		stats.Cache.EntryCount, stats.Cache.Hits, stats.Cache.Misses, stats.Cache.Evictions))
}

// runGraphReload asks the server to reload its spec directory and rebuild.
func runGraphReload(cmd *cobra.Command, args []string) {
	client := newAPIClient()

	var resp depgraph.ReloadResponse
	if err := client.post("/api/v1/graph/reload", nil, &resp); err != nil {
		ux.Error(fmt.Sprintf("Graph reload failed: %v", err))
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(resp)
		return
	}

	ux.Success(fmt.Sprintf("Rebuilt graph at generation %d (%d projects, %d edges)",
		resp.Generation, resp.Build.Nodes, resp.Build.Edges))
	if resp.Load.Failed > 0 {
		ux.Warning(fmt.Sprintf("%d spec files failed to load", resp.Load.Failed))
	}
}
