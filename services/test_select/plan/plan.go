// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package plan mutates a YAML test plan from a resolved affected set.
//
// # Description
//
// The engine hands its affected-target set to this collaborator, which
// flips each suite's enabled flag: suites whose target is affected run,
// the rest are skipped. Suites naming a target the resolver does not know
// stay enabled, erring on the side of running too much rather than
// silently dropping coverage.
//
// # Format
//
//	suites:
//	  - name: AppUITests
//	    target: App
//	  - name: LibUnitTests
//	    target: Modules/Lib/project.yaml#Lib
package plan

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/AleutianSelect/services/test_select/target"
)

// Suite is one test suite entry in the plan.
type Suite struct {
	// Name is the suite name shown to CI.
	Name string `yaml:"name"`

	// Target names the build target the suite covers, either by short
	// name or full description.
	Target string `yaml:"target"`

	// Enabled marks whether the suite should run. Rewrite sets it.
	Enabled bool `yaml:"enabled"`
}

// Plan is a test plan document.
type Plan struct {
	Suites []Suite `yaml:"suites"`
}

// Load reads a plan file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read test plan: %w", err)
	}
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse test plan: %w", err)
	}
	return &p, nil
}

// Rewrite flips each suite's enabled flag based on the affected set.
//
// Returns the names of suites left enabled. Suites whose target is not in
// known stay enabled (unknown coverage runs, never silently skips).
func (p *Plan) Rewrite(affected []target.ID, known []target.ID) []string {
	affectedNames := make(map[string]bool, len(affected)*2)
	for _, id := range affected {
		affectedNames[id.Description()] = true
		affectedNames[id.ShortName()] = true
	}
	knownNames := make(map[string]bool, len(known)*2)
	for _, id := range known {
		knownNames[id.Description()] = true
		knownNames[id.ShortName()] = true
	}

	var enabled []string
	for i := range p.Suites {
		s := &p.Suites[i]
		switch {
		case affectedNames[s.Target]:
			s.Enabled = true
		case !knownNames[s.Target]:
			s.Enabled = true
		default:
			s.Enabled = false
		}
		if s.Enabled {
			enabled = append(enabled, s.Name)
		}
	}
	return enabled
}

// Save writes the plan atomically (temp file in the same directory, then
// rename) so a crashed run never leaves CI with a half-written plan.
func (p *Plan) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal test plan: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".testplan-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp plan: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp plan: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp plan: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace test plan: %w", err)
	}
	return nil
}
