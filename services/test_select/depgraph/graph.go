// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package depgraph provides the directed "depends on" graph over target
// identities.
//
// # Description
//
// The graph maps each target to the set of targets it directly depends on.
// A target with no outgoing edges may legitimately never appear as a key:
// "no entry" means "no known dependencies", not "unknown target". Partial
// graphs produced by independent discovery passes are combined with Merge,
// which is commutative and associative so completion order never changes
// the result.
//
// # Thread Safety
//
// A Graph is not safe for concurrent mutation. The intended lifecycle is
// single-writer construction followed by read-only sharing, matching the
// discovery fan-out: each worker builds its own partial graph and the
// assembler folds them after the barrier.
package depgraph

import (
	"sort"

	"github.com/AleutianAI/AleutianSelect/services/test_select/target"
)

// Set is a set of target identities.
type Set map[target.ID]struct{}

// NewSet creates a set from the given identities.
func NewSet(ids ...target.ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is in the set.
func (s Set) Contains(id target.ID) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set.
func (s Set) Add(id target.ID) {
	s[id] = struct{}{}
}

// Sorted returns the members ordered by Description for stable output.
func (s Set) Sorted() []target.ID {
	ids := make([]target.ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].Description() < ids[j].Description()
	})
	return ids
}

// Graph is the directed dependency structure.
type Graph struct {
	edges map[target.ID]Set
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{edges: make(map[target.ID]Set)}
}

// Insert adds one "src depends on dep" edge.
//
// Idempotent: inserting the same edge twice leaves the edge set unchanged.
// Self-loops carry no meaning and are dropped.
func (g *Graph) Insert(src, dep target.ID) {
	if src == dep {
		return
	}
	deps, ok := g.edges[src]
	if !ok {
		deps = make(Set)
		g.edges[src] = deps
	}
	deps.Add(dep)
}

// Dependencies returns the direct dependency set of id.
//
// A missing entry yields an empty set, never an error: consumers must
// treat absence as "no known dependencies".
func (g *Graph) Dependencies(id target.ID) Set {
	deps, ok := g.edges[id]
	if !ok {
		return Set{}
	}
	out := make(Set, len(deps))
	for d := range deps {
		out[d] = struct{}{}
	}
	return out
}

// Sources returns all targets that have at least one outgoing edge,
// ordered by Description.
func (g *Graph) Sources() []target.ID {
	ids := make([]target.ID, 0, len(g.edges))
	for id := range g.edges {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].Description() < ids[j].Description()
	})
	return ids
}

// Targets returns every identity the graph knows about, keys and
// dependency values alike, ordered by Description.
func (g *Graph) Targets() []target.ID {
	seen := make(Set)
	for src, deps := range g.edges {
		seen.Add(src)
		for dep := range deps {
			seen.Add(dep)
		}
	}
	return seen.Sorted()
}

// EdgeCount returns the total number of edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, deps := range g.edges {
		n += len(deps)
	}
	return n
}

// Merge combines two graphs into a new one.
//
// The result is the union of edge sets; neither input is mutated. Merge
// is commutative and associative, so partial graphs from concurrent
// discovery may be folded in any order.
func (g *Graph) Merge(other *Graph) *Graph {
	merged := New()
	for _, src := range []*Graph{g, other} {
		if src == nil {
			continue
		}
		for id, deps := range src.edges {
			for dep := range deps {
				merged.Insert(id, dep)
			}
		}
	}
	return merged
}

// Equal reports whether two graphs have identical edge sets.
func (g *Graph) Equal(other *Graph) bool {
	if len(g.edges) != len(other.edges) {
		return false
	}
	for id, deps := range g.edges {
		otherDeps, ok := other.edges[id]
		if !ok || len(deps) != len(otherDeps) {
			return false
		}
		for dep := range deps {
			if !otherDeps.Contains(dep) {
				return false
			}
		}
	}
	return true
}

// Reverse returns the inverted graph: an edge src→dep becomes dep→src.
//
// The resolver uses the reverse index to walk "who depends on me" without
// rescanning every forward edge per step.
func (g *Graph) Reverse() *Graph {
	rev := New()
	for src, deps := range g.edges {
		for dep := range deps {
			rev.Insert(dep, src)
		}
	}
	return rev
}

// FindTarget resolves a human-supplied name against all known identities.
//
// Resolution is deterministic:
//  1. An exact Description() match wins outright.
//  2. Otherwise all ShortName() matches are collected and the one with
//     the lexicographically smallest Description() is chosen.
//
// The boolean result is false when nothing matches. Absence is not an
// error: manual-override processing logs a warning and moves on.
func (g *Graph) FindTarget(name string) (target.ID, bool) {
	return FindIn(g.Targets(), name)
}

// FindIn applies the FindTarget resolution policy to an explicit identity
// list. The assembler uses it to resolve override names against all
// workspace targets, including ones that own files but have no edges.
// ids must be sorted by Description for the short-name tiebreak to hold.
func FindIn(ids []target.ID, name string) (target.ID, bool) {
	var short []target.ID
	for _, id := range ids {
		if id.Description() == name {
			return id, true
		}
		if id.ShortName() == name {
			short = append(short, id)
		}
	}
	if len(short) == 0 {
		return target.ID{}, false
	}
	// ids are sorted by Description, so the first short-name match is the
	// deterministic winner.
	return short[0], true
}
