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
	"time"

	"github.com/AleutianAI/depgraph/services/depgraph/component"
)

// SnapshotState represents the lifecycle state of a snapshot.
type SnapshotState int

const (
	// SnapshotStateBuilding indicates the snapshot is accepting AddNode and
	// AddEdge calls.
	SnapshotStateBuilding SnapshotState = iota

	// SnapshotStateFrozen indicates the snapshot is read-only.
	SnapshotStateFrozen
)

// String returns the string representation of the SnapshotState.
func (s SnapshotState) String() string {
	switch s {
	case SnapshotStateBuilding:
		return "building"
	case SnapshotStateFrozen:
		return "frozen"
	default:
		return "unknown"
	}
}

// Node is a project in a dependency snapshot. It implements
// component.Project; all graph bookkeeping keys off the full name.
type Node struct {
	name        string
	displayName string
	labels      map[string]string
}

// Name returns the project's stable full name.
func (n *Node) Name() string { return n.name }

// DisplayName returns the human-facing name, falling back to Name.
func (n *Node) DisplayName() string {
	if n.displayName == "" {
		return n.name
	}
	return n.displayName
}

// Labels returns a copy of the node's labels.
func (n *Node) Labels() map[string]string {
	if len(n.labels) == 0 {
		return nil
	}
	out := make(map[string]string, len(n.labels))
	for k, v := range n.labels {
		out[k] = v
	}
	return out
}

// edgeKey identifies a declared edge by endpoint names.
type edgeKey struct {
	upstream   string
	downstream string
}

// Snapshot is a frozen view of the build-dependency graph.
//
// Thread Safety:
//
//	A Snapshot is NOT safe for concurrent use while building. After
//	Freeze() it is immutable and may be read from any number of
//	goroutines. The service layer only publishes frozen snapshots.
type Snapshot struct {
	nodes     map[string]*Node
	nodeOrder []string

	// in/out adjacency, keyed by node name. Edge values reuse the node
	// pointers, so a single edge compares equal from either endpoint.
	in  map[string][]component.Dependency
	out map[string][]component.Dependency

	edgeSet   map[edgeKey]struct{}
	edgeCount int

	generation   uint64
	state        SnapshotState
	builtAtMilli int64
}

// SnapshotStats summarizes a snapshot for the stats endpoint.
type SnapshotStats struct {
	Generation   uint64 `json:"generation"`
	NodeCount    int    `json:"node_count"`
	EdgeCount    int    `json:"edge_count"`
	BuiltAtMilli int64  `json:"built_at_milli"`
}

// NewSnapshot creates an empty snapshot in the Building state with the given
// generation. Builders obtain generations from a process-lifetime counter.
func NewSnapshot(generation uint64) *Snapshot {
	return &Snapshot{
		nodes:      make(map[string]*Node),
		in:         make(map[string][]component.Dependency),
		out:        make(map[string][]component.Dependency),
		edgeSet:    make(map[edgeKey]struct{}),
		generation: generation,
		state:      SnapshotStateBuilding,
	}
}

// State returns the current lifecycle state.
func (s *Snapshot) State() SnapshotState { return s.state }

// IsFrozen returns true once Freeze has been called.
func (s *Snapshot) IsFrozen() bool { return s.state == SnapshotStateFrozen }

// Generation returns the snapshot's generation counter value.
func (s *Snapshot) Generation() uint64 { return s.generation }

// AddNode adds a project node while the snapshot is building.
func (s *Snapshot) AddNode(name, displayName string, labels map[string]string) error {
	if s.state == SnapshotStateFrozen {
		return ErrSnapshotFrozen
	}
	if name == "" {
		return ErrEmptyName
	}
	if _, exists := s.nodes[name]; exists {
		return ErrDuplicateNode
	}

	var labelCopy map[string]string
	if len(labels) > 0 {
		labelCopy = make(map[string]string, len(labels))
		for k, v := range labels {
			labelCopy[k] = v
		}
	}

	s.nodes[name] = &Node{name: name, displayName: displayName, labels: labelCopy}
	s.nodeOrder = append(s.nodeOrder, name)
	return nil
}

// AddEdge adds a directed upstream→downstream edge between two existing
// nodes. Duplicate declarations of the same edge are a silent no-op.
func (s *Snapshot) AddEdge(upstream, downstream string) error {
	if s.state == SnapshotStateFrozen {
		return ErrSnapshotFrozen
	}
	if upstream == downstream {
		return ErrSelfEdge
	}

	up, ok := s.nodes[upstream]
	if !ok {
		return ErrNodeNotFound
	}
	down, ok := s.nodes[downstream]
	if !ok {
		return ErrNodeNotFound
	}

	k := edgeKey{upstream: upstream, downstream: downstream}
	if _, exists := s.edgeSet[k]; exists {
		return nil
	}
	s.edgeSet[k] = struct{}{}

	edge := component.Dependency{Upstream: up, Downstream: down}
	s.out[upstream] = append(s.out[upstream], edge)
	s.in[downstream] = append(s.in[downstream], edge)
	s.edgeCount++
	return nil
}

// Freeze transitions the snapshot to read-only mode. Irreversible.
func (s *Snapshot) Freeze() {
	s.state = SnapshotStateFrozen
	s.builtAtMilli = time.Now().UnixMilli()
}

// Upstream returns the edges in which p is the downstream endpoint.
// Implements component.GraphSource.
func (s *Snapshot) Upstream(p component.Project) []component.Dependency {
	return copyEdges(s.in[p.Name()])
}

// Downstream returns the edges in which p is the upstream endpoint.
// Implements component.GraphSource.
func (s *Snapshot) Downstream(p component.Project) []component.Dependency {
	return copyEdges(s.out[p.Name()])
}

// ResolveProject resolves a project by full name.
// Implements component.ProjectResolver.
func (s *Snapshot) ResolveProject(name string) (component.Project, bool) {
	n, ok := s.nodes[name]
	if !ok {
		return nil, false
	}
	return n, true
}

// Node returns the node with the given name, or nil.
func (s *Snapshot) Node(name string) *Node {
	return s.nodes[name]
}

// Nodes returns all nodes in insertion order.
func (s *Snapshot) Nodes() []*Node {
	out := make([]*Node, 0, len(s.nodeOrder))
	for _, name := range s.nodeOrder {
		out = append(out, s.nodes[name])
	}
	return out
}

// NodeCount returns the number of nodes in the snapshot.
func (s *Snapshot) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of distinct edges in the snapshot.
func (s *Snapshot) EdgeCount() int { return s.edgeCount }

// Stats returns a summary of the snapshot.
func (s *Snapshot) Stats() SnapshotStats {
	return SnapshotStats{
		Generation:   s.generation,
		NodeCount:    len(s.nodes),
		EdgeCount:    s.edgeCount,
		BuiltAtMilli: s.builtAtMilli,
	}
}

func copyEdges(edges []component.Dependency) []component.Dependency {
	if len(edges) == 0 {
		return nil
	}
	out := make([]component.Dependency, len(edges))
	copy(out, edges)
	return out
}

// Compile-time interface compliance checks.
var (
	_ component.Project         = (*Node)(nil)
	_ component.GraphSource     = (*Snapshot)(nil)
	_ component.ProjectResolver = (*Snapshot)(nil)
)
