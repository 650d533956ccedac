// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the optional selector.yaml configuration.
//
// The file is entirely optional: a missing file yields the defaults, and
// override entries that fail to resolve later are warnings, not errors.
// Only a structurally invalid file (bad YAML, out-of-range values) is an
// error, because silently running with half a config is worse than
// stopping.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/AleutianSelect/services/test_select/discovery"
)

// DefaultFileName is the config file looked up under the workspace root.
const DefaultFileName = "selector.yaml"

// Config is the on-disk configuration.
type Config struct {
	// Workers bounds discovery parallelism. Zero picks a CPU-based
	// default.
	Workers int `yaml:"workers" validate:"gte=0,lte=64"`

	// FailFast aborts the run when any discovery source fails wholesale.
	FailFast bool `yaml:"fail_fast"`

	// WorkspaceDefinition optionally names the workspace definition file,
	// relative to the workspace root.
	WorkspaceDefinition string `yaml:"workspace_definition"`

	// Plan is the test plan file mutated by the plan command, relative to
	// the workspace root.
	Plan string `yaml:"plan"`

	// Overrides are manual graph amendments.
	Overrides OverridesConfig `yaml:"overrides"`
}

// OverridesConfig mirrors discovery.Overrides in YAML form.
type OverridesConfig struct {
	// ExtraDependencies maps a target name to extra dependency names.
	ExtraDependencies map[string][]string `yaml:"extra_dependencies"`

	// ExtraPaths maps a target name to extra owned file or directory
	// paths, relative to the workspace root.
	ExtraPaths map[string][]string `yaml:"extra_paths"`
}

// Default returns the zero-config defaults.
func Default() Config {
	return Config{}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and validates the config at path.
//
// A missing file is not an error; the defaults are returned so a bare
// workspace works with no configuration at all.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ToOverrides converts the YAML override section to the discovery form.
func (c Config) ToOverrides() discovery.Overrides {
	return discovery.Overrides{
		ExtraDependencies: c.Overrides.ExtraDependencies,
		ExtraPaths:        c.Overrides.ExtraPaths,
	}
}

// ToOptions converts the assembly-related settings to discovery options.
func (c Config) ToOptions() discovery.Options {
	return discovery.Options{
		Workers:             c.Workers,
		FailFast:            c.FailFast,
		WorkspaceDefinition: c.WorkspaceDefinition,
	}
}
