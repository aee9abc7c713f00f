// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package capability provides the optional relation sources the component
// calculator consumes: sub-job triggering and artifact copying.
//
// Each capability reads the raw name lists a project declares in its spec.
// Name resolution stays inside the calculator; a capability that names an
// unknown project contributes nothing for that name. When a capability is
// disabled in service config the component package's Nop sources stand in,
// so the calculator never distinguishes "installed but empty" from "not
// installed".
package capability

import (
	"github.com/AleutianAI/depgraph/services/depgraph/component"
	"github.com/AleutianAI/depgraph/services/depgraph/registry"
)

// SpecSource looks up the current definition of a project by name.
// The service layer backs this with its spec index, which is replaced
// wholesale on each graph rebuild.
type SpecSource interface {
	Spec(name string) (registry.Spec, bool)
}

// SpecSourceFunc adapts a function to the SpecSource interface.
type SpecSourceFunc func(name string) (registry.Spec, bool)

// Spec implements SpecSource.
func (f SpecSourceFunc) Spec(name string) (registry.Spec, bool) { return f(name) }

// TriggerConfig yields the sub-job names a project declares under
// triggers. Implements component.TriggerConfigSource.
type TriggerConfig struct {
	source SpecSource
}

// NewTriggerConfig creates the trigger capability over a spec source.
func NewTriggerConfig(source SpecSource) *TriggerConfig {
	return &TriggerConfig{source: source}
}

// TriggerNames returns the declared trigger list for p, or nil when the
// project has no spec.
func (c *TriggerConfig) TriggerNames(p component.Project) []string {
	spec, ok := c.source.Spec(p.Name())
	if !ok {
		return nil
	}
	return copyNames(spec.Triggers)
}

// ArtifactCopyConfig yields the projects p declares it copies artifacts
// from. Implements component.ArtifactCopySource.
type ArtifactCopyConfig struct {
	source SpecSource
}

// NewArtifactCopyConfig creates the artifact-copy capability over a spec
// source.
func NewArtifactCopyConfig(source SpecSource) *ArtifactCopyConfig {
	return &ArtifactCopyConfig{source: source}
}

// CopySourceNames returns the declared copy-source list for p, or nil when
// the project has no spec.
func (c *ArtifactCopyConfig) CopySourceNames(p component.Project) []string {
	spec, ok := c.source.Spec(p.Name())
	if !ok {
		return nil
	}
	return copyNames(spec.CopiesArtifactsFrom)
}

func copyNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Compile-time interface compliance checks.
var (
	_ component.TriggerConfigSource = (*TriggerConfig)(nil)
	_ component.ArtifactCopySource  = (*ArtifactCopyConfig)(nil)
)
