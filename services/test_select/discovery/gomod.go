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

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// GoModSource discovers package units from go.mod manifests.
//
// # Description
//
// Each go.mod under the workspace root is one package unit: the module
// path is the package name, the enclosing directory is the package root
// (packages own their whole tree), and every require line becomes a
// declared package dependency. Products are the module path and its last
// path element, so project units can reference a module either way.
//
// Only modules inside the workspace can resolve as dependency edges;
// requires pointing outside the workspace simply never match the package
// table, which is the expected case for upstream modules.
type GoModSource struct{}

// NewGoModSource creates the source.
func NewGoModSource() *GoModSource {
	return &GoModSource{}
}

// Name identifies the source in diagnostics.
func (s *GoModSource) Name() string {
	return "go-mod"
}

// Discover walks root for go.mod files and parses each into PackageFacts.
func (s *GoModSource) Discover(ctx context.Context, root string) ([]ProjectFacts, []PackageFacts, []Warning, error) {
	var packages []PackageFacts
	var warnings []Warning

	err := walkUnits(ctx, root, "go.mod", func(p string) {
		facts, err := parseGoMod(p)
		if err != nil {
			warnings = append(warnings, Warning{Unit: p, Message: err.Error()})
			return
		}
		packages = append(packages, facts)
	})
	if err != nil {
		return nil, nil, warnings, err
	}
	return nil, packages, warnings, nil
}

func parseGoMod(p string) (PackageFacts, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return PackageFacts{}, fmt.Errorf("read manifest: %w", err)
	}
	mf, err := modfile.ParseLax(p, data, nil)
	if err != nil {
		return PackageFacts{}, fmt.Errorf("parse manifest: %w", err)
	}
	if mf.Module == nil || mf.Module.Mod.Path == "" {
		return PackageFacts{}, fmt.Errorf("manifest declares no module path")
	}

	modPath := mf.Module.Mod.Path
	deps := make([]string, 0, len(mf.Require))
	for _, req := range mf.Require {
		if req.Indirect {
			continue
		}
		deps = append(deps, req.Mod.Path)
	}

	return PackageFacts{
		Name:     modPath,
		Root:     filepath.Dir(p),
		Deps:     deps,
		Products: []string{path.Base(modPath), modPath},
	}, nil
}
