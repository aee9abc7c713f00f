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

// runHealthCommand checks liveness and readiness of the server.
func runHealthCommand(cmd *cobra.Command, args []string) {
	client := newAPIClient()

	var health depgraph.HealthResponse
	if err := client.get("/health", &health); err != nil {
		ux.Error(fmt.Sprintf("Server unreachable: %v", err))
		os.Exit(1)
	}

	var ready depgraph.ReadyResponse
	readyErr := client.get("/ready", &ready)

	if jsonOutput {
		printJSON(map[string]any{"health": health, "ready": ready})
		return
	}

	ux.Success(fmt.Sprintf("Server %s (version %s)", health.Status, health.Version))
	switch {
	case readyErr != nil:
		ux.Warning(fmt.Sprintf("Not ready: %v", readyErr))
		os.Exit(1)
	case !ready.Ready:
		ux.Warning("Not ready: no graph snapshot published yet")
		os.Exit(1)
	default:
		ux.Success(fmt.Sprintf("Ready at generation %d", ready.Generation))
	}
}
