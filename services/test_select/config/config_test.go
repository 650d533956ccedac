// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFileName))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
workers: 4
fail_fast: true
workspace_definition: workspace.yaml
plan: ci/testplan.yaml
overrides:
  extra_dependencies:
    App: [AnalyticsKit]
  extra_paths:
    Lib:
      - Shared/generated.swift
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.FailFast)
	assert.Equal(t, "workspace.yaml", cfg.WorkspaceDefinition)
	assert.Equal(t, "ci/testplan.yaml", cfg.Plan)

	ov := cfg.ToOverrides()
	assert.Equal(t, []string{"AnalyticsKit"}, ov.ExtraDependencies["App"])
	assert.Equal(t, []string{"Shared/generated.swift"}, ov.ExtraPaths["Lib"])

	opts := cfg.ToOptions()
	assert.Equal(t, 4, opts.Workers)
	assert.True(t, opts.FailFast)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "workers: [not a number\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_OutOfRangeWorkers(t *testing.T) {
	path := writeConfig(t, "workers: 4096\n")
	_, err := Load(path)
	assert.Error(t, err)
}
