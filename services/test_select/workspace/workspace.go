// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package workspace aggregates everything the resolver needs to know about
// a build graph: file ownership, directory ownership, and the dependency
// structure.
//
// # Description
//
// One Info is produced per discovery unit (one per project, one per
// package universe, one for manual overrides) and the assembler folds them
// into a single consolidated Info. The fold is a union: files per target
// union, folders last-writer-wins on path collision (a collision is a
// configuration error, not a normal case), dependency graphs merged edge-
// wise. Up to the documented folder policy the fold is commutative and
// associative, so discovery completion order never changes the result.
//
// # Lifecycle
//
// Build with a Builder, seal with Seal(), treat the resulting Info as
// immutable. Merge never mutates its inputs.
//
// # Thread Safety
//
// Builder is single-writer. A sealed Info is safe for concurrent reads.
package workspace

import (
	"sort"

	"github.com/AleutianAI/AleutianSelect/services/test_select/depgraph"
	"github.com/AleutianAI/AleutianSelect/services/test_select/target"
)

// PathSet is a set of file paths.
type PathSet map[string]struct{}

// Add inserts a path into the set.
func (p PathSet) Add(path string) {
	p[path] = struct{}{}
}

// Contains reports whether path is in the set.
func (p PathSet) Contains(path string) bool {
	_, ok := p[path]
	return ok
}

// Sorted returns the paths in lexicographic order.
func (p PathSet) Sorted() []string {
	paths := make([]string, 0, len(p))
	for path := range p {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Info is the consolidated view of a workspace.
type Info struct {
	// Files maps each target to the file paths it owns. For native targets
	// this includes the project and workspace definition paths themselves,
	// since a change to either can change what compiles.
	Files map[target.ID]PathSet

	// Folders maps a directory path to the target that owns everything
	// under it. Used when a target claims a whole directory (packages do)
	// instead of enumerating files.
	Folders map[string]target.ID

	// Deps is the "depends on" graph over all known targets.
	Deps *depgraph.Graph
}

// Empty returns an Info with no targets, files, or edges.
func Empty() Info {
	return Info{
		Files:   make(map[target.ID]PathSet),
		Folders: make(map[string]target.ID),
		Deps:    depgraph.New(),
	}
}

// Merge combines two Infos into a new one without mutating either.
//
// Files are unioned per target, Folders collisions resolve to the right-
// hand entry (last writer wins), Deps merge edge-wise. When a file path
// ends up claimed by targets from different discovery passes, it simply
// affects both targets downstream; that is tolerated, not an error.
func Merge(a, b Info) Info {
	out := Empty()
	for _, src := range []Info{a, b} {
		for id, paths := range src.Files {
			dst, ok := out.Files[id]
			if !ok {
				dst = make(PathSet, len(paths))
				out.Files[id] = dst
			}
			for path := range paths {
				dst.Add(path)
			}
		}
		for dir, id := range src.Folders {
			out.Folders[dir] = id
		}
	}
	out.Deps = a.Deps.Merge(b.Deps)
	return out
}

// MergeAll folds partial Infos left to right.
func MergeAll(infos ...Info) Info {
	out := Empty()
	for _, info := range infos {
		out = Merge(out, info)
	}
	return out
}

// Targets returns every target known to the Info (file owners, folder
// owners, and graph members), ordered by Description.
func (i Info) Targets() []target.ID {
	seen := depgraph.NewSet()
	for id := range i.Files {
		seen.Add(id)
	}
	for _, id := range i.Folders {
		seen.Add(id)
	}
	for _, id := range i.Deps.Targets() {
		seen.Add(id)
	}
	return seen.Sorted()
}

// Equal reports whether two Infos carry identical files, folders, and
// edges. Used by merge-property tests.
func (i Info) Equal(other Info) bool {
	if len(i.Files) != len(other.Files) || len(i.Folders) != len(other.Folders) {
		return false
	}
	for id, paths := range i.Files {
		otherPaths, ok := other.Files[id]
		if !ok || len(paths) != len(otherPaths) {
			return false
		}
		for path := range paths {
			if !otherPaths.Contains(path) {
				return false
			}
		}
	}
	for dir, id := range i.Folders {
		if other.Folders[dir] != id {
			return false
		}
	}
	return i.Deps.Equal(other.Deps)
}

// Builder accumulates one discovery unit's partial Info.
type Builder struct {
	info Info
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{info: Empty()}
}

// AddFile records that id owns path.
func (b *Builder) AddFile(id target.ID, path string) {
	paths, ok := b.info.Files[id]
	if !ok {
		paths = make(PathSet)
		b.info.Files[id] = paths
	}
	paths.Add(path)
}

// AddFolder records that id owns everything under dir.
func (b *Builder) AddFolder(dir string, id target.ID) {
	b.info.Folders[dir] = id
}

// AddDep records that src depends on dep.
func (b *Builder) AddDep(src, dep target.ID) {
	b.info.Deps.Insert(src, dep)
}

// Seal returns the accumulated Info. The Builder must not be used after
// sealing.
func (b *Builder) Seal() Info {
	return b.info
}
