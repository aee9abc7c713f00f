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
	"github.com/spf13/cobra"

	"github.com/AleutianAI/depgraph/pkg/ux"
)

// --- Global Command Variables ---
var (
	serverURL        string
	jsonOutput       bool
	personalityLevel string // UX personality level (full/minimal/machine)

	componentSubJobs   bool
	componentCopies    bool
	componentMaxRounds int

	projectsPutFile string
	discoverRoot    string
	discoverApply   bool

	rootCmd = &cobra.Command{
		Use:   "depgraphctl",
		Short: "A cli to query and manage the depgraph dependency graph server",
		Long: `depgraphctl talks to a running depgraph server: it computes
				connected components over the build-dependency graph, manages
				project specs, and inspects graph state.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize UX personality from flag or environment
			if personalityLevel != "" {
				ux.SetPersonalityLevel(ux.ParsePersonalityLevel(personalityLevel))
			} else {
				ux.InitPersonality()
			}
		},
	}

	// --- Component Queries ---
	componentCmd = &cobra.Command{
		Use:   "component [seed...]",
		Short: "Compute the connected component for one or more seed projects",
		Args:  cobra.MinimumNArgs(1),
		Run:   runComponentCommand, // Defined in cmd_component.go
	}

	// --- Project Registry ---
	projectsCmd = &cobra.Command{
		Use:   "projects",
		Short: "Manage project specs in the server registry",
	}
	projectsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List all registered project specs",
		Run:   runProjectsList, // Defined in cmd_projects.go
	}
	projectsGetCmd = &cobra.Command{
		Use:   "get [name]",
		Short: "Show one project spec",
		Args:  cobra.ExactArgs(1),
		Run:   runProjectsGet, // Defined in cmd_projects.go
	}
	projectsPutCmd = &cobra.Command{
		Use:   "put [name]",
		Short: "Create or replace a project spec from a YAML file",
		Args:  cobra.ExactArgs(1),
		Run:   runProjectsPut, // Defined in cmd_projects.go
	}
	projectsDeleteCmd = &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a project spec from the registry",
		Args:  cobra.ExactArgs(1),
		Run:   runProjectsDelete, // Defined in cmd_projects.go
	}
	projectsDiscoverCmd = &cobra.Command{
		Use:   "discover",
		Short: "Discover project specs from Go modules under a directory tree",
		Run:   runProjectsDiscover, // Defined in cmd_projects.go
	}

	// --- Graph Administration ---
	graphCmd = &cobra.Command{
		Use:   "graph",
		Short: "Inspect and manage the server's graph snapshot",
	}
	graphStatsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show graph, build, and cache statistics",
		Run:   runGraphStats, // Defined in cmd_graph.go
	}
	graphReloadCmd = &cobra.Command{
		Use:   "reload",
		Short: "Reload specs from the server's spec directory and rebuild",
		Run:   runGraphReload, // Defined in cmd_graph.go
	}

	// --- Health ---
	healthCmd = &cobra.Command{
		Use:   "health",
		Short: "Check server health and readiness",
		Run:   runHealthCommand, // Defined in cmd_health.go
	}
)

// init runs when the Go program starts
func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "",
		"Server base URL (default: DEPGRAPH_SERVER or http://localhost:12310)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output raw JSON for scripting")
	rootCmd.PersistentFlags().StringVar(&personalityLevel, "personality", "",
		"Output style: full (default), minimal, or machine (scripting)")

	rootCmd.AddCommand(componentCmd)
	componentCmd.Flags().BoolVar(&componentSubJobs, "sub-jobs", false,
		"Include triggered sub-job relations")
	componentCmd.Flags().BoolVar(&componentCopies, "copied-artifacts", false,
		"Include artifact-copy relations")
	componentCmd.Flags().IntVar(&componentMaxRounds, "max-rounds", 0,
		"Cap expansion rounds (0: unlimited)")

	rootCmd.AddCommand(projectsCmd)
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsGetCmd)
	projectsCmd.AddCommand(projectsPutCmd)
	projectsPutCmd.Flags().StringVarP(&projectsPutFile, "file", "f", "",
		"YAML spec file (required)")
	projectsCmd.AddCommand(projectsDeleteCmd)
	projectsCmd.AddCommand(projectsDiscoverCmd)
	projectsDiscoverCmd.Flags().StringVar(&discoverRoot, "root", ".",
		"Directory tree to scan for Go modules")
	projectsDiscoverCmd.Flags().BoolVar(&discoverApply, "apply", false,
		"Register the discovered specs with the server")

	rootCmd.AddCommand(graphCmd)
	graphCmd.AddCommand(graphStatsCmd)
	graphCmd.AddCommand(graphReloadCmd)

	rootCmd.AddCommand(healthCmd)
}
