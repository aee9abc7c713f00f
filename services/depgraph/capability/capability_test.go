// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package capability

import (
	"testing"

	"github.com/AleutianAI/depgraph/services/depgraph/registry"
)

type namedProject string

func (p namedProject) Name() string { return string(p) }

func specIndex(specs ...registry.Spec) SpecSource {
	byName := make(map[string]registry.Spec, len(specs))
	for _, s := range specs {
		byName[s.Name] = s
	}
	return SpecSourceFunc(func(name string) (registry.Spec, bool) {
		s, ok := byName[name]
		return s, ok
	})
}

func TestTriggerConfig(t *testing.T) {
	source := specIndex(
		registry.Spec{Name: "api", Triggers: []string{"smoke", "deploy", "smoke"}},
		registry.Spec{Name: "lib"},
	)
	c := NewTriggerConfig(source)

	got := c.TriggerNames(namedProject("api"))
	want := []string{"smoke", "deploy", "smoke"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q (order and duplicates preserved)", i, got[i], want[i])
		}
	}

	if names := c.TriggerNames(namedProject("lib")); names != nil {
		t.Errorf("project without triggers yielded %v, want nil", names)
	}
	if names := c.TriggerNames(namedProject("ghost")); names != nil {
		t.Errorf("unknown project yielded %v, want nil", names)
	}
}

func TestTriggerConfig_ReturnsCopy(t *testing.T) {
	spec := registry.Spec{Name: "api", Triggers: []string{"smoke"}}
	c := NewTriggerConfig(specIndex(spec))

	first := c.TriggerNames(namedProject("api"))
	first[0] = "mutated"
	second := c.TriggerNames(namedProject("api"))
	if second[0] != "smoke" {
		t.Error("mutating the returned slice leaked into the spec")
	}
}

func TestArtifactCopyConfig(t *testing.T) {
	source := specIndex(
		registry.Spec{Name: "deploy", CopiesArtifactsFrom: []string{"build", "assets"}},
	)
	c := NewArtifactCopyConfig(source)

	got := c.CopySourceNames(namedProject("deploy"))
	if len(got) != 2 || got[0] != "build" || got[1] != "assets" {
		t.Errorf("got %v, want [build assets]", got)
	}
	if names := c.CopySourceNames(namedProject("ghost")); names != nil {
		t.Errorf("unknown project yielded %v, want nil", names)
	}
}
