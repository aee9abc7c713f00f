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
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/depgraph/pkg/ux"
	"github.com/AleutianAI/depgraph/services/depgraph"
)

// runComponentCommand queries the connected component for the seed
// projects given as arguments and prints the membership, edges, and any
// requested capability relations.
func runComponentCommand(cmd *cobra.Command, args []string) {
	client := newAPIClient()

	req := depgraph.ComponentRequest{
		Seeds:                  args,
		IncludeSubJobs:         componentSubJobs,
		IncludeCopiedArtifacts: componentCopies,
		MaxRounds:              componentMaxRounds,
	}

	var resp depgraph.ComponentResponse
	if err := client.post("/api/v1/component", req, &resp); err != nil {
		ux.Error(fmt.Sprintf("Component query failed: %v", err))
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(resp)
		return
	}

	seeds := make(map[string]bool, len(args))
	for _, s := range args {
		seeds[s] = true
	}

	ux.Title(fmt.Sprintf("Connected component (%d projects, %d dependencies)",
		resp.Stats.ProjectCount, resp.Stats.DependencyCount))

	for _, p := range resp.Projects {
		label := p.Name
		if p.DisplayName != "" {
			label = fmt.Sprintf("%s (%s)", p.Name, p.DisplayName)
		}
		if seeds[p.Name] {
			ux.FileStatus(label, ux.IconAnchor, "seed")
		} else {
			ux.FileStatus(label, ux.IconBullet, "")
		}
	}

	if len(resp.Dependencies) > 0 {
		ux.Muted("\nDependencies:")
		for _, d := range resp.Dependencies {
			ux.Info(fmt.Sprintf("%s %s %s", d.Upstream, ux.IconArrow, d.Downstream))
		}
	}

	printRelations("Sub-jobs", resp.SubJobs)

	if len(resp.CopiedArtifacts) > 0 {
		ux.Muted("\nCopied artifacts:")
		for _, d := range resp.CopiedArtifacts {
			ux.Info(fmt.Sprintf("%s %s %s", d.Upstream, ux.IconArrow, d.Downstream))
		}
	}

	cacheNote := ""
	if resp.Stats.CacheHit {
		cacheNote = ", cached"
	}
	ux.Muted(fmt.Sprintf("\nrounds=%d generation=%d%s",
		resp.Stats.Rounds, resp.Stats.Generation, cacheNote))
}

// printRelations prints a parent→targets multimap sorted by parent.
func printRelations(title string, relations map[string][]depgraph.ProjectView) {
	if len(relations) == 0 {
		return
	}
	parents := make([]string, 0, len(relations))
	for parent := range relations {
		parents = append(parents, parent)
	}
	sort.Strings(parents)

	ux.Muted("\n" + title + ":")
	for _, parent := range parents {
		names := make([]string, 0, len(relations[parent]))
		for _, t := range relations[parent] {
			names = append(names, t.Name)
		}
		ux.Info(fmt.Sprintf("%s %s %s", parent, ux.IconArrow, strings.Join(names, ", ")))
	}
}
