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
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianSelect/services/test_select/changeset"
	"github.com/AleutianAI/AleutianSelect/services/test_select/resolve"
	"github.com/AleutianAI/AleutianSelect/services/test_select/watch"
)

// runWatch assembles the workspace once, then re-resolves the affected
// set for each settled batch of file changes until interrupted.
func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	asm, _, err := assembleWorkspace(ctx)
	if err != nil {
		return err
	}
	resolver := resolve.New(asm.Info)

	root, err := filepath.Abs(workspaceRoot)
	if err != nil {
		return fmt.Errorf("resolve workspace root: %w", err)
	}

	debounce, err := time.ParseDuration(watchDebounce)
	if err != nil {
		return fmt.Errorf("parse --debounce: %w", err)
	}

	handler := func(paths []string) {
		cs := changeset.FromPaths(root, paths)
		result, err := resolver.Affected(ctx, cs)
		if err != nil {
			logger.Error("resolution failed", "error", err)
			return
		}
		logger.Info("changes detected",
			"paths", cs.Len(),
			"affected", len(result.Affected),
		)
		if err := printAffected(result); err != nil {
			logger.Error("print failed", "error", err)
		}
	}

	logger.Info("watching workspace", "root", root, "debounce", debounce.String())
	err = watch.New(root, debounce, handler).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
