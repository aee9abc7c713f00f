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

// Project is a node in the build-dependency graph.
//
// Implementations are identified by their full name: two Project values with
// the same Name() refer to the same project, and all internal bookkeeping is
// keyed by name. Read permission is never stored on the project; it is
// evaluated on demand through a PermissionChecker.
type Project interface {
	// Name returns the stable, unique full name of the project.
	Name() string
}

// Dependency is a directed upstream→downstream edge between two projects.
//
// Two Dependency values compare equal when both endpoint names match, so the
// same edge returned by the graph provider across traversal rounds (or seen
// from both endpoints) deduplicates to a single entry.
type Dependency struct {
	// Upstream is the project being depended on.
	Upstream Project

	// Downstream is the project that depends on Upstream.
	Downstream Project
}

// depKey identifies a dependency edge by its endpoint names.
type depKey struct {
	upstream   string
	downstream string
}

func (d Dependency) key() depKey {
	return depKey{upstream: d.Upstream.Name(), downstream: d.Downstream.Name()}
}

// projectSet is an insertion-ordered set of projects keyed by name.
//
// Iteration order is first-insertion order, which keeps traversal rounds and
// accessor results deterministic.
type projectSet struct {
	index map[string]struct{}
	items []Project
}

func newProjectSet(capacity int) *projectSet {
	return &projectSet{
		index: make(map[string]struct{}, capacity),
		items: make([]Project, 0, capacity),
	}
}

// add inserts p if its name is not already present. Returns true if inserted.
func (s *projectSet) add(p Project) bool {
	name := p.Name()
	if _, ok := s.index[name]; ok {
		return false
	}
	s.index[name] = struct{}{}
	s.items = append(s.items, p)
	return true
}

func (s *projectSet) contains(p Project) bool {
	_, ok := s.index[p.Name()]
	return ok
}

func (s *projectSet) len() int {
	return len(s.items)
}

// slice returns a copy of the members in insertion order.
func (s *projectSet) slice() []Project {
	out := make([]Project, len(s.items))
	copy(out, s.items)
	return out
}

// dependencySet is an insertion-ordered set of dependency edges keyed by
// endpoint names.
type dependencySet struct {
	index map[depKey]struct{}
	items []Dependency
}

func newDependencySet() *dependencySet {
	return &dependencySet{index: make(map[depKey]struct{})}
}

// add inserts d if an edge with the same endpoints is not already present.
// Returns true if inserted.
func (s *dependencySet) add(d Dependency) bool {
	k := d.key()
	if _, ok := s.index[k]; ok {
		return false
	}
	s.index[k] = struct{}{}
	s.items = append(s.items, d)
	return true
}

func (s *dependencySet) contains(d Dependency) bool {
	_, ok := s.index[d.key()]
	return ok
}

func (s *dependencySet) len() int {
	return len(s.items)
}

// slice returns a copy of the edges in insertion order.
func (s *dependencySet) slice() []Dependency {
	out := make([]Dependency, len(s.items))
	copy(out, s.items)
	return out
}

// SubJobs is a read-only multimap from a project to the sub-jobs its
// configuration triggers.
//
// Unlike a set-valued map, SubJobs preserves duplicates and per-key insertion
// order: if a project's configuration names the same target twice, Targets
// returns it twice. Keys appear in first-insertion order. A key is only
// materialized when at least one target is recorded for it.
type SubJobs struct {
	parents []Project
	targets map[string][]Project
}

func newSubJobs() *SubJobs {
	return &SubJobs{targets: make(map[string][]Project)}
}

// add appends targets under parent. An empty target list is a no-op and
// materializes no key.
func (m *SubJobs) add(parent Project, targets []Project) {
	if len(targets) == 0 {
		return
	}
	name := parent.Name()
	if _, ok := m.targets[name]; !ok {
		m.parents = append(m.parents, parent)
	}
	m.targets[name] = append(m.targets[name], targets...)
}

// Parents returns the projects that trigger at least one sub-job, in
// first-insertion order.
func (m *SubJobs) Parents() []Project {
	out := make([]Project, len(m.parents))
	copy(out, m.parents)
	return out
}

// Targets returns the sub-jobs triggered by parent, in recorded order with
// duplicates preserved. Returns nil if parent triggers nothing.
func (m *SubJobs) Targets(parent Project) []Project {
	ts, ok := m.targets[parent.Name()]
	if !ok {
		return nil
	}
	out := make([]Project, len(ts))
	copy(out, ts)
	return out
}

// Len returns the total number of recorded sub-job relations.
func (m *SubJobs) Len() int {
	n := 0
	for _, ts := range m.targets {
		n += len(ts)
	}
	return n
}

// Each calls fn for every (parent, target) relation, parents in
// first-insertion order and targets in recorded order.
func (m *SubJobs) Each(fn func(parent, target Project)) {
	for _, parent := range m.parents {
		for _, target := range m.targets[parent.Name()] {
			fn(parent, target)
		}
	}
}
