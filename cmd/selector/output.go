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

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/AleutianAI/AleutianSelect/services/test_select/resolve"
	"github.com/AleutianAI/AleutianSelect/services/test_select/target"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	directStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// styled reports whether output should carry ANSI styling.
func styled() bool {
	return !jsonOutput && isatty.IsTerminal(os.Stdout.Fd())
}

// render applies a style only on a TTY so piped output stays plain.
func render(style lipgloss.Style, s string) string {
	if !styled() {
		return s
	}
	return style.Render(s)
}

// affectedJSON is the machine-readable shape of a resolution result.
type affectedJSON struct {
	Direct   []string `json:"direct"`
	Affected []string `json:"affected"`
}

// printAffected writes the resolution result to stdout.
func printAffected(result *resolve.Result) error {
	if jsonOutput {
		out := affectedJSON{
			Direct:   describeAll(result.Direct),
			Affected: describeAll(result.Affected),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(result.Affected) == 0 {
		fmt.Println(render(dimStyle, "no targets affected"))
		return nil
	}

	direct := make(map[target.ID]bool, len(result.Direct))
	for _, id := range result.Direct {
		direct[id] = true
	}

	fmt.Println(render(headerStyle, fmt.Sprintf("%d affected target(s)", len(result.Affected))))
	for _, id := range result.Affected {
		line := id.Description()
		if direct[id] {
			fmt.Println("  " + render(directStyle, line+" (direct)"))
		} else {
			fmt.Println("  " + line)
		}
	}
	return nil
}

func describeAll(ids []target.ID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Description())
	}
	return out
}
