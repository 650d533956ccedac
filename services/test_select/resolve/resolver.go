// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package resolve computes the set of targets affected by a changeset.
//
// # Description
//
// Two phases over a consolidated workspace.Info:
//
//  1. Direct hits: each changed path is attributed to its owning target(s)
//     by exact file match, falling back to the deepest enclosing folder
//     entry. Paths owned by nothing (docs, CI config) are silently skipped.
//  2. Closure: a reverse breadth-first search over the dependency graph
//     adds every target that depends, directly or transitively, on a hit
//     target. Visited-set tracking makes cyclic graphs safe: members of a
//     cycle are mutually affected, never an error.
//
// The result is deterministic for a given Info and changeset regardless of
// discovery or merge ordering.
//
// # Thread Safety
//
// Resolver is stateless between calls and safe for concurrent use as long
// as the Info is sealed (read-only).
package resolve

import (
	"context"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/AleutianSelect/services/test_select/changeset"
	"github.com/AleutianAI/AleutianSelect/services/test_select/depgraph"
	"github.com/AleutianAI/AleutianSelect/services/test_select/target"
	"github.com/AleutianAI/AleutianSelect/services/test_select/workspace"
)

var tracer = otel.Tracer("select.resolve")

// Result is the outcome of affected-target resolution.
type Result struct {
	// Direct are the targets whose owned files were changed.
	Direct []target.ID

	// Affected is the full set: direct hits plus everything that
	// transitively depends on them, ordered by Description.
	Affected []target.ID

	// Attribution maps each changed path that matched ownership to the
	// targets it was attributed to. Diagnostic only.
	Attribution map[string][]target.ID

	// Unmatched are changed paths owned by no target. Expected and common;
	// callers should not warn about them.
	Unmatched []string
}

// Contains reports whether id is in the affected set.
func (r *Result) Contains(id target.ID) bool {
	for _, a := range r.Affected {
		if a == id {
			return true
		}
	}
	return false
}

// Resolver maps changesets to affected targets.
type Resolver struct {
	info workspace.Info
	rev  *depgraph.Graph
}

// New creates a Resolver over a sealed Info.
//
// The forward graph is inverted once up front so every closure walk is a
// plain BFS over "who depends on me" edges.
func New(info workspace.Info) *Resolver {
	return &Resolver{
		info: info,
		rev:  info.Deps.Reverse(),
	}
}

// Affected computes the affected-target set for the changeset.
//
// Inputs:
//   - ctx: Context for cancellation. Must not be nil.
//   - cs: Set of changed absolute file paths.
//
// Outputs:
//   - *Result: Direct hits, full closure, and per-path attribution.
//   - error: Non-nil only on context cancellation.
func (r *Resolver) Affected(ctx context.Context, cs changeset.Changeset) (*Result, error) {
	ctx, span := tracer.Start(ctx, "resolve.Resolver.Affected")
	defer span.End()
	span.SetAttributes(attribute.Int("changed_paths", cs.Len()))

	result := &Result{Attribution: make(map[string][]target.ID)}

	direct := depgraph.NewSet()
	for _, path := range cs.Paths() {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		owners := r.owners(path)
		if len(owners) == 0 {
			result.Unmatched = append(result.Unmatched, path)
			continue
		}
		result.Attribution[path] = owners
		for _, id := range owners {
			direct.Add(id)
		}
	}

	affected := r.closure(direct)

	result.Direct = direct.Sorted()
	result.Affected = affected.Sorted()
	span.SetAttributes(
		attribute.Int("direct_targets", len(result.Direct)),
		attribute.Int("affected_targets", len(result.Affected)),
		attribute.Int("unmatched_paths", len(result.Unmatched)),
	)
	span.SetStatus(codes.Ok, "")
	return result, nil
}

// owners attributes one changed path to its owning target(s).
//
// Exact file matches win and may name several targets when discovery
// passes overlap. Otherwise the deepest folder entry enclosing the path
// owns it: a nested directory claimed by one target shadows an ancestor
// claimed by another.
func (r *Resolver) owners(path string) []target.ID {
	var exact []target.ID
	for id, paths := range r.info.Files {
		if paths.Contains(path) {
			exact = append(exact, id)
		}
	}
	if len(exact) > 0 {
		sort.Slice(exact, func(i, j int) bool {
			return exact[i].Description() < exact[j].Description()
		})
		return exact
	}

	bestDir := ""
	var bestOwner target.ID
	for dir, id := range r.info.Folders {
		if path != dir && !strings.HasPrefix(path, strings.TrimSuffix(dir, "/")+"/") {
			continue
		}
		if len(dir) > len(bestDir) {
			bestDir = dir
			bestOwner = id
		}
	}
	if bestDir == "" {
		return nil
	}
	return []target.ID{bestOwner}
}

// closure returns seeds plus every target reachable by walking reverse
// dependency edges. Terminates on cyclic graphs via the visited set.
func (r *Resolver) closure(seeds depgraph.Set) depgraph.Set {
	visited := depgraph.NewSet()
	queue := make([]target.ID, 0, len(seeds))
	for id := range seeds {
		visited.Add(id)
		queue = append(queue, id)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for dependent := range r.rev.Dependencies(current) {
			if visited.Contains(dependent) {
				continue
			}
			visited.Add(dependent)
			queue = append(queue, dependent)
		}
	}
	return visited
}
