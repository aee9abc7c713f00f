// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package registry

import (
	"fmt"

	"github.com/AleutianAI/depgraph/pkg/validation"
)

// Spec is a project definition.
//
// Specs are the system's inputs: they are edited as YAML files, persisted as
// JSON values in the store, and compiled into graph snapshots. The
// Upstream list declares base dependency edges; Triggers and
// CopiesArtifactsFrom feed the optional sub-job and artifact-copy
// capabilities and reference other projects by name (references that resolve
// to nothing are skipped at traversal time, never rejected here).
type Spec struct {
	// Name is the unique full name of the project.
	Name string `yaml:"name" json:"name"`

	// DisplayName is the human-facing name. Optional.
	DisplayName string `yaml:"display_name,omitempty" json:"display_name,omitempty"`

	// Labels carry free-form key/value metadata. Optional.
	Labels map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`

	// Upstream lists the names of projects this project depends on.
	// Each entry becomes a dependency edge upstream→this.
	Upstream []string `yaml:"upstream,omitempty" json:"upstream,omitempty"`

	// Triggers lists the names of projects this project's configuration
	// triggers as sub-jobs. Duplicates are meaningful and preserved.
	Triggers []string `yaml:"triggers,omitempty" json:"triggers,omitempty"`

	// CopiesArtifactsFrom lists the names of projects this project copies
	// build artifacts from.
	CopiesArtifactsFrom []string `yaml:"copies_artifacts_from,omitempty" json:"copies_artifacts_from,omitempty"`

	// Disabled excludes the project from graph snapshots without deleting
	// its definition.
	Disabled bool `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// Validate checks that the spec's name and every referenced name are valid
// project names. Referenced projects need not exist; they only need to be
// well-formed.
func (s *Spec) Validate() error {
	if err := validation.ValidateProjectName(s.Name); err != nil {
		return fmt.Errorf("%w: name: %v", ErrInvalidSpec, err)
	}
	for _, field := range []struct {
		label string
		names []string
	}{
		{"upstream", s.Upstream},
		{"triggers", s.Triggers},
		{"copies_artifacts_from", s.CopiesArtifactsFrom},
	} {
		if err := validation.ValidateProjectNames(field.names); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidSpec, field.label, err)
		}
	}
	return nil
}
