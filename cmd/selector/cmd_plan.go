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
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianSelect/services/test_select/config"
	"github.com/AleutianAI/AleutianSelect/services/test_select/plan"
	"github.com/AleutianAI/AleutianSelect/services/test_select/resolve"
)

// runPlan resolves the affected set and rewrites the test plan in place.
func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	asm, cfg, err := assembleWorkspace(ctx)
	if err != nil {
		return err
	}

	path := planPath
	if path == "" {
		path = cfg.Plan
	}
	if path == "" {
		return fmt.Errorf("no test plan configured: pass --plan or set plan in %s", config.DefaultFileName)
	}
	if !filepath.IsAbs(path) {
		root, err := filepath.Abs(workspaceRoot)
		if err != nil {
			return err
		}
		path = filepath.Join(root, path)
	}

	cs, err := collectChangeset(ctx)
	if err != nil {
		return err
	}
	result, err := resolve.New(asm.Info).Affected(ctx, cs)
	if err != nil {
		return err
	}

	p, err := plan.Load(path)
	if err != nil {
		return err
	}
	enabled := p.Rewrite(result.Affected, asm.Info.Targets())
	if err := p.Save(path); err != nil {
		return err
	}

	logger.Info("test plan rewritten",
		"plan", path,
		"suites", len(p.Suites),
		"enabled", len(enabled),
	)
	for _, name := range enabled {
		fmt.Println(name)
	}
	return nil
}
