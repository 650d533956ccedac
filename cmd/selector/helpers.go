// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/AleutianAI/AleutianSelect/services/test_select/changeset"
	"github.com/AleutianAI/AleutianSelect/services/test_select/config"
	"github.com/AleutianAI/AleutianSelect/services/test_select/discovery"
)

// loadConfig resolves and loads the run configuration.
func loadConfig(root string) (config.Config, error) {
	path := configPath
	if path == "" {
		path = filepath.Join(root, config.DefaultFileName)
	}
	return config.Load(path)
}

// assembleWorkspace runs discovery over the workspace root and logs the
// aggregated warnings.
func assembleWorkspace(ctx context.Context) (*discovery.Assembly, config.Config, error) {
	root, err := filepath.Abs(workspaceRoot)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("resolve workspace root: %w", err)
	}

	cfg, err := loadConfig(root)
	if err != nil {
		return nil, config.Config{}, err
	}

	sources := []discovery.Source{
		discovery.NewYAMLProjectSource(),
		discovery.NewGoModSource(),
	}
	opts := cfg.ToOptions()
	if opts.WorkspaceDefinition != "" && !filepath.IsAbs(opts.WorkspaceDefinition) {
		opts.WorkspaceDefinition = filepath.Join(root, opts.WorkspaceDefinition)
	}

	asm, err := discovery.NewAssembler(root, sources, opts).Assemble(ctx, cfg.ToOverrides())
	if err != nil {
		return nil, config.Config{}, err
	}

	for _, w := range asm.Warnings {
		logger.Warn("discovery warning", "unit", w.Unit, "message", w.Message)
	}
	logger.Debug("workspace assembled",
		"projects", asm.Projects,
		"packages", asm.Packages,
		"targets", len(asm.Info.Targets()),
	)
	return asm, cfg, nil
}

// collectChangeset builds the changeset from the affected/plan flags.
func collectChangeset(ctx context.Context) (changeset.Changeset, error) {
	root, err := filepath.Abs(workspaceRoot)
	if err != nil {
		return changeset.Changeset{}, fmt.Errorf("resolve workspace root: %w", err)
	}

	if len(changeFiles) > 0 {
		return changeset.FromPaths(root, changeFiles), nil
	}
	if diffFilePath != "" {
		return changeset.FromDiffFile(root, diffFilePath)
	}

	git := changeset.NewGitClient(root)
	if !git.IsGitRepo() {
		return changeset.Changeset{}, fmt.Errorf("%s is not a git repository; pass --files or --diff-file", root)
	}
	return git.ChangedFiles(ctx, changeset.Mode(changeMode), changeRef)
}
