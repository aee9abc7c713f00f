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
	"errors"
	"testing"
)

func buildSnapshot(t *testing.T, nodes []string, edges [][2]string) *Snapshot {
	t.Helper()
	s := NewSnapshot(NextGeneration())
	for _, name := range nodes {
		if err := s.AddNode(name, "", nil); err != nil {
			t.Fatalf("AddNode(%s): %v", name, err)
		}
	}
	for _, e := range edges {
		if err := s.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("AddEdge(%s, %s): %v", e[0], e[1], err)
		}
	}
	s.Freeze()
	return s
}

func TestSnapshot_NodeLifecycle(t *testing.T) {
	s := NewSnapshot(NextGeneration())
	if s.State() != SnapshotStateBuilding {
		t.Fatalf("new snapshot state = %v, want Building", s.State())
	}

	if err := s.AddNode("api", "API Service", map[string]string{"team": "core"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := s.AddNode("api", "", nil); !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("duplicate AddNode: got %v, want ErrDuplicateNode", err)
	}
	if err := s.AddNode("", "", nil); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty AddNode: got %v, want ErrEmptyName", err)
	}

	s.Freeze()
	if !s.IsFrozen() {
		t.Error("IsFrozen = false after Freeze")
	}
	if err := s.AddNode("late", "", nil); !errors.Is(err, ErrSnapshotFrozen) {
		t.Errorf("AddNode after Freeze: got %v, want ErrSnapshotFrozen", err)
	}
	if err := s.AddEdge("api", "api2"); !errors.Is(err, ErrSnapshotFrozen) {
		t.Errorf("AddEdge after Freeze: got %v, want ErrSnapshotFrozen", err)
	}
}

func TestSnapshot_EdgeRules(t *testing.T) {
	s := NewSnapshot(NextGeneration())
	for _, name := range []string{"lib", "app"} {
		if err := s.AddNode(name, "", nil); err != nil {
			t.Fatalf("AddNode(%s): %v", name, err)
		}
	}

	if err := s.AddEdge("lib", "app"); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := s.AddEdge("lib", "app"); err != nil {
		t.Errorf("duplicate AddEdge errored: %v", err)
	}
	if s.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d after duplicate add, want 1", s.EdgeCount())
	}
	if err := s.AddEdge("lib", "lib"); !errors.Is(err, ErrSelfEdge) {
		t.Errorf("self edge: got %v, want ErrSelfEdge", err)
	}
	if err := s.AddEdge("lib", "ghost"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("edge to missing node: got %v, want ErrNodeNotFound", err)
	}
}

func TestSnapshot_Adjacency(t *testing.T) {
	s := buildSnapshot(t,
		[]string{"core", "api", "worker"},
		[][2]string{{"core", "api"}, {"core", "worker"}, {"api", "worker"}},
	)

	api := s.Node("api")
	if api == nil {
		t.Fatal("Node(api) = nil")
	}

	up := s.Upstream(api)
	if len(up) != 1 || up[0].Upstream.Name() != "core" {
		t.Errorf("Upstream(api) = %v, want one edge from core", up)
	}

	down := s.Downstream(api)
	if len(down) != 1 || down[0].Downstream.Name() != "worker" {
		t.Errorf("Downstream(api) = %v, want one edge to worker", down)
	}

	worker := s.Node("worker")
	if got := s.Upstream(worker); len(got) != 2 {
		t.Errorf("Upstream(worker) returned %d edges, want 2", len(got))
	}
	if got := s.Downstream(worker); len(got) != 0 {
		t.Errorf("Downstream(worker) returned %d edges, want 0", len(got))
	}
}

func TestSnapshot_AdjacencyReturnsCopies(t *testing.T) {
	s := buildSnapshot(t, []string{"a", "b"}, [][2]string{{"a", "b"}})

	first := s.Upstream(s.Node("b"))
	first[0] = s.Downstream(s.Node("a"))[0]
	second := s.Upstream(s.Node("b"))
	if second[0].Upstream.Name() != "a" || second[0].Downstream.Name() != "b" {
		t.Error("mutating a returned slice leaked into the snapshot")
	}
}

func TestSnapshot_ResolveProject(t *testing.T) {
	s := buildSnapshot(t, []string{"core"}, nil)

	p, ok := s.ResolveProject("core")
	if !ok || p.Name() != "core" {
		t.Errorf("ResolveProject(core) = %v, %v", p, ok)
	}
	if _, ok := s.ResolveProject("missing"); ok {
		t.Error("ResolveProject(missing) = true, want false")
	}
}

func TestSnapshot_NodesPreserveInsertionOrder(t *testing.T) {
	names := []string{"zeta", "alpha", "mid"}
	s := buildSnapshot(t, names, nil)

	nodes := s.Nodes()
	if len(nodes) != 3 {
		t.Fatalf("Nodes returned %d, want 3", len(nodes))
	}
	for i, n := range nodes {
		if n.Name() != names[i] {
			t.Errorf("nodes[%d] = %q, want %q", i, n.Name(), names[i])
		}
	}
}

func TestNode_DisplayNameFallsBackToName(t *testing.T) {
	s := buildSnapshot(t, []string{"plain"}, nil)
	if got := s.Node("plain").DisplayName(); got != "plain" {
		t.Errorf("DisplayName = %q, want plain", got)
	}
}

func TestNode_LabelsCopied(t *testing.T) {
	s := NewSnapshot(NextGeneration())
	labels := map[string]string{"team": "core"}
	if err := s.AddNode("svc", "", labels); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	labels["team"] = "mutated"

	got := s.Node("svc").Labels()
	if got["team"] != "core" {
		t.Error("caller mutation of the labels map leaked into the node")
	}
	got["team"] = "again"
	if s.Node("svc").Labels()["team"] != "core" {
		t.Error("mutation of returned labels leaked into the node")
	}
}

func TestSnapshot_Stats(t *testing.T) {
	s := buildSnapshot(t, []string{"a", "b"}, [][2]string{{"a", "b"}})

	stats := s.Stats()
	if stats.NodeCount != 2 || stats.EdgeCount != 1 {
		t.Errorf("Stats = %+v, want 2 nodes / 1 edge", stats)
	}
	if stats.Generation != s.Generation() {
		t.Errorf("Stats.Generation = %d, want %d", stats.Generation, s.Generation())
	}
	if stats.BuiltAtMilli == 0 {
		t.Error("Stats.BuiltAtMilli = 0, want freeze timestamp")
	}
}

func TestNextGeneration_Monotonic(t *testing.T) {
	a := NextGeneration()
	b := NextGeneration()
	if b <= a {
		t.Errorf("generations not increasing: %d then %d", a, b)
	}
	if a == 0 || b == 0 {
		t.Error("generation 0 must never be issued")
	}
}
