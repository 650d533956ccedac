// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package target defines the canonical identity of a build target.
//
// # Description
//
// A build target (app, library, test bundle, package product) may be
// discovered several times from independent parsing passes: once while a
// project is parsed directly, once while another project resolves one of
// its framework dependencies. All of those discoveries must collapse to
// the same identity, so identity is a comparable value type keyed purely
// by (owning location, name) and never by object reference.
//
// # Thread Safety
//
// ID is an immutable value type and safe to share freely.
package target

import "fmt"

// Kind discriminates the two identity variants.
//
// Both variants share one equality contract: two IDs are equal iff their
// (Kind, Location, Name) triples are equal, regardless of which discovery
// pass produced them.
type Kind int

const (
	// KindProject identifies a target defined by a native project unit.
	// Location is the project definition path, Name the target name.
	KindProject Kind = iota

	// KindPackage identifies a product declared by a package manifest.
	// Location is the package root path, Name the product name.
	KindPackage
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindProject:
		return "project"
	case KindPackage:
		return "package"
	default:
		return "unknown"
	}
}

// ID identifies one build target.
//
// ID is a plain comparable struct so it can be used directly as a map key.
// Construct it with NewProject or NewPackage; do not mutate the fields
// after construction.
type ID struct {
	// Kind is the identity variant.
	Kind Kind

	// Location is the path of the owning project definition or package root.
	Location string

	// Name is the target or product name within the owning unit.
	Name string
}

// NewProject creates the identity of a target defined in a native project.
//
// Inputs:
//   - projectPath: Path of the project definition file.
//   - targetName: Target name within the project.
//
// Identity construction is pure data capture; there are no error conditions.
func NewProject(projectPath, targetName string) ID {
	return ID{Kind: KindProject, Location: projectPath, Name: targetName}
}

// NewPackage creates the identity of a product declared by a package manifest.
func NewPackage(packagePath, productName string) ID {
	return ID{Kind: KindPackage, Location: packagePath, Name: productName}
}

// Description returns the fully qualified, human-readable form.
//
// Used for diagnostics and for exact matching in name resolution.
// The form is stable: "<location>#<name>" with a kind prefix for packages,
// e.g. "Modules/Networking/project.yaml#NetworkingKit" or
// "pkg:Vendor/JSONKit#JSONKit".
func (id ID) Description() string {
	if id.Kind == KindPackage {
		return fmt.Sprintf("pkg:%s#%s", id.Location, id.Name)
	}
	return fmt.Sprintf("%s#%s", id.Location, id.Name)
}

// ShortName returns the display form used for short-name resolution.
func (id ID) ShortName() string {
	return id.Name
}

// IsZero reports whether the ID is the zero value (no target).
func (id ID) IsZero() bool {
	return id.Location == "" && id.Name == ""
}
