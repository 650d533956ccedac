// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package discovery

import "context"

// Warning is a non-fatal diagnostic produced during discovery.
//
// Discovery code never logs directly; warnings travel with the partial
// result and the caller decides how to surface them. This keeps the
// engine decoupled from any particular logging sink.
type Warning struct {
	// Unit is the project or package definition the warning came from.
	Unit string

	// Message describes the problem.
	Message string
}

// TargetFacts are the already-parsed facts for one build target within a
// project unit. The engine consumes facts, never raw project files.
type TargetFacts struct {
	// Name is the target name within its project.
	Name string `yaml:"name"`

	// Product is the product name this target vends, used for sibling
	// matching. Empty when the target vends nothing linkable.
	Product string `yaml:"product,omitempty"`

	// TargetDeps are names of other targets declared in the same unit.
	TargetDeps []string `yaml:"dependencies,omitempty"`

	// ProductDeps are product names matched against every other known
	// project's vended products. A miss is a silent no-op: not every
	// binary dependency is a sibling source target (system frameworks).
	ProductDeps []string `yaml:"product_dependencies,omitempty"`

	// PackageProducts are product names resolved against the package
	// manifest table. A miss is a warning and the edge is skipped.
	PackageProducts []string `yaml:"package_products,omitempty"`

	// Sources are file or directory paths the target compiles, relative
	// to the project definition's directory.
	Sources []string `yaml:"sources,omitempty"`
}

// ProjectFacts are the facts for one native project unit.
type ProjectFacts struct {
	// Path is the project definition file path (absolute).
	Path string

	// Targets are the build targets the unit defines.
	Targets []TargetFacts
}

// PackageFacts are the facts for one package-manifest unit: name, root
// path, and the names of packages it depends on.
type PackageFacts struct {
	// Name is the package's canonical name.
	Name string

	// Root is the package root directory (absolute). Packages own their
	// whole directory tree, not individual files.
	Root string

	// Deps are names of other packages this one depends on.
	Deps []string

	// Products are the product names the package vends. Lookups by
	// product name resolve against these.
	Products []string
}

// Source discovers project and package units under a workspace root.
//
// Implementations wrap one project description format. They must be pure:
// no shared mutable state, all diagnostics returned as warnings. A source
// that fails wholesale returns an error; the assembler decides whether
// that is fatal.
type Source interface {
	// Name identifies the source in diagnostics.
	Name() string

	// Discover walks root and returns every unit it understands.
	Discover(ctx context.Context, root string) ([]ProjectFacts, []PackageFacts, []Warning, error)
}

// Overrides is manual configuration applied after the merge: forced extra
// dependency edges and manually assigned paths. Entries that fail to
// resolve are reported as warnings and skipped, never fatal.
type Overrides struct {
	// ExtraDependencies maps a target name to names of targets it
	// additionally depends on. Names resolve via depgraph.FindTarget.
	ExtraDependencies map[string][]string

	// ExtraPaths maps a target name to additional file or directory paths
	// it owns. Paths must exist; directories become folder entries.
	ExtraPaths map[string][]string
}
