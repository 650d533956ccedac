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
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// runGraph assembles the workspace and prints the dependency graph.
func runGraph(cmd *cobra.Command, args []string) error {
	asm, _, err := assembleWorkspace(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		out := make(map[string][]string)
		for _, src := range asm.Info.Deps.Sources() {
			out[src.Description()] = describeAll(asm.Info.Deps.Dependencies(src).Sorted())
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println(render(headerStyle, fmt.Sprintf(
		"%d project(s), %d package(s), %d edge(s)",
		asm.Projects, asm.Packages, asm.Info.Deps.EdgeCount(),
	)))
	fmt.Print(asm.Info.Deps.Render())
	return nil
}
