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

import "testing"

func TestProjectSet(t *testing.T) {
	t.Run("insertion order preserved", func(t *testing.T) {
		s := newProjectSet(0)
		for _, n := range []string{"c", "a", "b"} {
			s.add(testProject(n))
		}
		got := s.slice()
		want := []string{"c", "a", "b"}
		for i, w := range want {
			if got[i].Name() != w {
				t.Fatalf("slice()[%d] = %s, want %s", i, got[i].Name(), w)
			}
		}
	})

	t.Run("duplicate names collapse", func(t *testing.T) {
		s := newProjectSet(0)
		if !s.add(testProject("a")) {
			t.Error("first add should report inserted")
		}
		if s.add(testProject("a")) {
			t.Error("second add of same name should report not inserted")
		}
		if s.len() != 1 {
			t.Errorf("len = %d, want 1", s.len())
		}
	})
}

func TestDependencySet(t *testing.T) {
	edge := func(u, d string) Dependency {
		return Dependency{Upstream: testProject(u), Downstream: testProject(d)}
	}

	t.Run("equality is by endpoint names", func(t *testing.T) {
		s := newDependencySet()
		s.add(edge("a", "b"))
		if s.add(edge("a", "b")) {
			t.Error("identical endpoints should deduplicate")
		}
		if !s.contains(edge("a", "b")) {
			t.Error("contains should match by endpoint names")
		}
		if s.len() != 1 {
			t.Errorf("len = %d, want 1", s.len())
		}
	})

	t.Run("direction matters", func(t *testing.T) {
		s := newDependencySet()
		s.add(edge("a", "b"))
		if !s.add(edge("b", "a")) {
			t.Error("reversed edge is a distinct entry")
		}
		if s.len() != 2 {
			t.Errorf("len = %d, want 2", s.len())
		}
	})
}

func TestSubJobs(t *testing.T) {
	t.Run("empty insert materializes no key", func(t *testing.T) {
		m := newSubJobs()
		m.add(testProject("a"), nil)
		m.add(testProject("a"), []Project{})

		if len(m.Parents()) != 0 {
			t.Errorf("parents = %v, want none", m.Parents())
		}
		if m.Targets(testProject("a")) != nil {
			t.Error("Targets should return nil for absent key")
		}
	})

	t.Run("duplicates and order preserved", func(t *testing.T) {
		m := newSubJobs()
		m.add(testProject("a"), []Project{testProject("x"), testProject("x")})
		m.add(testProject("a"), []Project{testProject("y")})

		got := m.Targets(testProject("a"))
		want := []string{"x", "x", "y"}
		if len(got) != len(want) {
			t.Fatalf("targets = %v, want %v", got, want)
		}
		for i, w := range want {
			if got[i].Name() != w {
				t.Errorf("targets[%d] = %s, want %s", i, got[i].Name(), w)
			}
		}
		if m.Len() != 3 {
			t.Errorf("Len = %d, want 3", m.Len())
		}
	})

	t.Run("each walks parents in insertion order", func(t *testing.T) {
		m := newSubJobs()
		m.add(testProject("b"), []Project{testProject("1")})
		m.add(testProject("a"), []Project{testProject("2")})

		var visited [][2]string
		m.Each(func(parent, target Project) {
			visited = append(visited, [2]string{parent.Name(), target.Name()})
		})

		want := [][2]string{{"b", "1"}, {"a", "2"}}
		if len(visited) != len(want) {
			t.Fatalf("visited = %v, want %v", visited, want)
		}
		for i := range want {
			if visited[i] != want[i] {
				t.Errorf("visited[%d] = %v, want %v", i, visited[i], want[i])
			}
		}
	})

	t.Run("returned slices are copies", func(t *testing.T) {
		m := newSubJobs()
		m.add(testProject("a"), []Project{testProject("x")})

		ts := m.Targets(testProject("a"))
		ts[0] = testProject("mutated")
		if m.Targets(testProject("a"))[0].Name() != "x" {
			t.Error("mutating returned targets leaked into the multimap")
		}

		ps := m.Parents()
		ps[0] = testProject("mutated")
		if m.Parents()[0].Name() != "a" {
			t.Error("mutating returned parents leaked into the multimap")
		}
	})
}
