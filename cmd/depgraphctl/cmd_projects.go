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
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/depgraph/pkg/ux"
	"github.com/AleutianAI/depgraph/services/depgraph"
	"github.com/AleutianAI/depgraph/services/depgraph/registry"
)

// runProjectsList prints all registered project specs.
func runProjectsList(cmd *cobra.Command, args []string) {
	client := newAPIClient()

	var resp depgraph.ProjectListResponse
	if err := client.get("/api/v1/projects", &resp); err != nil {
		ux.Error(fmt.Sprintf("List projects failed: %v", err))
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(resp)
		return
	}

	ux.Title(fmt.Sprintf("Registered projects (%d)", resp.Count))
	for _, p := range resp.Projects {
		label := p.Name
		if p.DisplayName != "" {
			label = fmt.Sprintf("%s (%s)", p.Name, p.DisplayName)
		}
		ux.FileStatus(label, ux.IconBullet, "")
	}
}

// runProjectsGet fetches and prints a single project spec.
func runProjectsGet(cmd *cobra.Command, args []string) {
	client := newAPIClient()
	name := args[0]

	var spec registry.Spec
	if err := client.get("/api/v1/projects/"+url.PathEscape(name), &spec); err != nil {
		ux.Error(fmt.Sprintf("Get project %s failed: %v", name, err))
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(spec)
		return
	}

	ux.Title(spec.Name)
	if spec.DisplayName != "" {
		ux.Info("display name: " + spec.DisplayName)
	}
	if len(spec.Upstream) > 0 {
		ux.Info("upstream: " + strings.Join(spec.Upstream, ", "))
	}
	if len(spec.Triggers) > 0 {
		ux.Info("triggers: " + strings.Join(spec.Triggers, ", "))
	}
	if len(spec.CopiesArtifactsFrom) > 0 {
		ux.Info("copies artifacts from: " + strings.Join(spec.CopiesArtifactsFrom, ", "))
	}
	for k, v := range spec.Labels {
		ux.Muted(fmt.Sprintf("label %s=%s", k, v))
	}
	if spec.Disabled {
		ux.Warning("disabled: excluded from graph snapshots")
	}
}

// runProjectsPut registers or replaces a project spec from a YAML file.
func runProjectsPut(cmd *cobra.Command, args []string) {
	name := args[0]
	if projectsPutFile == "" {
		ux.Error("--file is required")
		os.Exit(1)
	}

	data, err := os.ReadFile(projectsPutFile)
	if err != nil {
		ux.Error(fmt.Sprintf("Read %s: %v", projectsPutFile, err))
		os.Exit(1)
	}

	var payload depgraph.ProjectPayload
	if err := yaml.Unmarshal(data, &payload); err != nil {
		ux.Error(fmt.Sprintf("Parse %s: %v", projectsPutFile, err))
		os.Exit(1)
	}

	client := newAPIClient()
	var spec registry.Spec
	if err := client.put("/api/v1/projects/"+url.PathEscape(name), payload, &spec); err != nil {
		ux.Error(fmt.Sprintf("Put project %s failed: %v", name, err))
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(spec)
		return
	}
	ux.Success(fmt.Sprintf("Registered project %s", spec.Name))
}

// runProjectsDelete removes a project spec from the registry.
func runProjectsDelete(cmd *cobra.Command, args []string) {
	client := newAPIClient()
	name := args[0]

	if err := client.delete("/api/v1/projects/" + url.PathEscape(name)); err != nil {
		ux.Error(fmt.Sprintf("Delete project %s failed: %v", name, err))
		os.Exit(1)
	}
	ux.Success(fmt.Sprintf("Deleted project %s", name))
}

// runProjectsDiscover scans a directory tree for Go modules and turns
// them into project specs. With --apply the specs are registered with
// the server; otherwise they are printed.
func runProjectsDiscover(cmd *cobra.Command, args []string) {
	var specs []registry.Spec
	err := ux.WithSpinner(fmt.Sprintf("Scanning %s for Go modules", discoverRoot), func() error {
		var scanErr error
		specs, scanErr = registry.DiscoverModules(discoverRoot)
		return scanErr
	})
	if err != nil {
		ux.Error(fmt.Sprintf("Discover modules under %s: %v", discoverRoot, err))
		os.Exit(1)
	}

	if len(specs) == 0 {
		ux.Warning(fmt.Sprintf("No Go modules found under %s", discoverRoot))
		return
	}

	if !discoverApply {
		if jsonOutput {
			printJSON(specs)
			return
		}
		ux.Title(fmt.Sprintf("Discovered %d modules under %s", len(specs), discoverRoot))
		for _, spec := range specs {
			reason := ""
			if len(spec.Upstream) > 0 {
				reason = "depends on " + strings.Join(spec.Upstream, ", ")
			}
			ux.FileStatus(spec.Name, ux.IconDocument, reason)
		}
		ux.Muted("\nRe-run with --apply to register these with the server.")
		return
	}

	client := newAPIClient()
	applied, failed := 0, 0
	for _, spec := range specs {
		payload := depgraph.ProjectPayload{
			DisplayName: spec.DisplayName,
			Labels:      spec.Labels,
			Upstream:    spec.Upstream,
		}
		if err := client.put("/api/v1/projects/"+url.PathEscape(spec.Name), payload, nil); err != nil {
			ux.FileStatus(spec.Name, ux.IconError, err.Error())
			failed++
			continue
		}
		ux.FileStatus(spec.Name, ux.IconSuccess, "")
		applied++
	}
	ux.Summary(applied, failed, len(specs))
	if failed > 0 {
		os.Exit(1)
	}
}
