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
	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianSelect/services/test_select/resolve"
)

// runAffected assembles the workspace, collects the changeset, and prints
// the affected-target set.
func runAffected(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	asm, _, err := assembleWorkspace(ctx)
	if err != nil {
		return err
	}

	cs, err := collectChangeset(ctx)
	if err != nil {
		return err
	}
	logger.Debug("changeset collected", "paths", cs.Len())

	result, err := resolve.New(asm.Info).Affected(ctx, cs)
	if err != nil {
		return err
	}

	logger.Info("resolution complete",
		"changed_paths", cs.Len(),
		"direct", len(result.Direct),
		"affected", len(result.Affected),
		"unmatched", len(result.Unmatched),
	)
	return printAffected(result)
}
