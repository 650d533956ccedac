// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package changeset produces the set of changed file paths consumed by the
// resolver.
//
// # Description
//
// The engine never diffs revisions itself; this package is the narrow
// version-control collaborator. Changesets come from three places: an
// explicit path list, a unified diff file, or git itself (working tree,
// staged, a single commit, or a ref range).
//
// # Thread Safety
//
// Changeset is a plain value; GitClient is safe for concurrent use.
package changeset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// Changeset is an unordered set of absolute file paths modified relative
// to a base revision.
type Changeset struct {
	paths map[string]struct{}
}

// New creates an empty changeset.
func New() Changeset {
	return Changeset{paths: make(map[string]struct{})}
}

// FromPaths creates a changeset from explicit paths. Relative paths are
// resolved against root.
func FromPaths(root string, paths []string) Changeset {
	cs := New()
	for _, p := range paths {
		cs.Add(absolutize(root, p))
	}
	return cs
}

// Add inserts one absolute path.
func (c Changeset) Add(path string) {
	c.paths[path] = struct{}{}
}

// Contains reports whether path is in the changeset.
func (c Changeset) Contains(path string) bool {
	_, ok := c.paths[path]
	return ok
}

// Len returns the number of changed paths.
func (c Changeset) Len() int {
	return len(c.paths)
}

// Paths returns the changed paths in lexicographic order.
func (c Changeset) Paths() []string {
	out := make([]string, 0, len(c.paths))
	for p := range c.paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// FromDiffFile parses a unified diff and extracts the changed file names.
//
// The new-side name is preferred; for deletions ("/dev/null" on the new
// side) the original name is used, since a deleted file still affects the
// target that owned it.
func FromDiffFile(root, path string) (Changeset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Changeset{}, err
	}
	return FromDiff(root, data)
}

// FromDiff parses unified diff bytes into a changeset.
func FromDiff(root string, data []byte) (Changeset, error) {
	fileDiffs, err := diff.ParseMultiFileDiff(data)
	if err != nil {
		return Changeset{}, err
	}
	cs := New()
	for _, fd := range fileDiffs {
		name := stripDiffPrefix(fd.NewName)
		if name == "" || name == "/dev/null" {
			name = stripDiffPrefix(fd.OrigName)
		}
		if name == "" || name == "/dev/null" {
			continue
		}
		cs.Add(absolutize(root, name))
	}
	return cs, nil
}

// stripDiffPrefix removes the conventional "a/"/"b/" diff prefixes.
func stripDiffPrefix(name string) string {
	if strings.HasPrefix(name, "a/") || strings.HasPrefix(name, "b/") {
		return name[2:]
	}
	return name
}

func absolutize(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
