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
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectFileName is the project definition file the YAML source looks for.
const ProjectFileName = "project.yaml"

// YAMLProjectSource discovers native project units described by
// project.yaml files.
//
// # Format
//
// One file per project, any depth under the workspace root:
//
//	targets:
//	  - name: NetworkingKit
//	    product: NetworkingKit
//	    dependencies: [NetworkingCore]
//	    product_dependencies: [LoggingKit]
//	    package_products: [JSONKit]
//	    sources:
//	      - Sources/
//	      - Generated/version.swift
//
// A malformed file yields a warning for that unit only; the rest of the
// walk continues.
type YAMLProjectSource struct{}

// NewYAMLProjectSource creates the source.
func NewYAMLProjectSource() *YAMLProjectSource {
	return &YAMLProjectSource{}
}

// Name identifies the source in diagnostics.
func (s *YAMLProjectSource) Name() string {
	return "yaml-project"
}

// projectFile is the on-disk shape of a project definition.
type projectFile struct {
	Targets []TargetFacts `yaml:"targets"`
}

// Discover walks root for project.yaml files and parses each into
// ProjectFacts.
func (s *YAMLProjectSource) Discover(ctx context.Context, root string) ([]ProjectFacts, []PackageFacts, []Warning, error) {
	var projects []ProjectFacts
	var warnings []Warning

	err := walkUnits(ctx, root, ProjectFileName, func(path string) {
		facts, err := parseProjectFile(path)
		if err != nil {
			warnings = append(warnings, Warning{Unit: path, Message: err.Error()})
			return
		}
		projects = append(projects, facts)
	})
	if err != nil {
		return nil, nil, warnings, err
	}
	return projects, nil, warnings, nil
}

func parseProjectFile(path string) (ProjectFacts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ProjectFacts{}, fmt.Errorf("read project definition: %w", err)
	}
	var pf projectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return ProjectFacts{}, fmt.Errorf("parse project definition: %w", err)
	}
	if len(pf.Targets) == 0 {
		return ProjectFacts{}, fmt.Errorf("project defines no targets")
	}
	for _, t := range pf.Targets {
		if t.Name == "" {
			return ProjectFacts{}, fmt.Errorf("project contains a target with no name")
		}
	}
	return ProjectFacts{Path: path, Targets: pf.Targets}, nil
}

// walkUnits walks root calling visit for every file named fileName,
// skipping VCS, vendor, and hidden directories.
func walkUnits(ctx context.Context, root, fileName string, visit func(path string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: skip it, the rest of the walk proceeds.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirName(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == fileName {
			visit(path)
		}
		return nil
	})
}

// skipDirName reports whether a directory should be excluded from unit
// discovery.
func skipDirName(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return true
	}
	switch name {
	case "vendor", "node_modules", "build", "DerivedData":
		return true
	}
	return false
}
