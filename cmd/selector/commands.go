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
)

// --- Global Command Variables ---
var (
	workspaceRoot string
	configPath    string
	debugFlag     bool
	traceFlag     bool
	metricsFlag   bool
	jsonOutput    bool

	changeMode   string
	changeRef    string
	changeFiles  []string
	diffFilePath string

	planPath      string
	watchDebounce string

	rootCmd = &cobra.Command{
		Use:   "selector",
		Short: "Selects the build targets and tests affected by a code change",
		Long: `Selector builds a dependency graph over every project and package
in a workspace, maps changed files to their owning targets, and follows
reverse dependency edges so CI runs only the tests that matter.`,
	}

	affectedCmd = &cobra.Command{
		Use:   "affected",
		Short: "Print the targets affected by the changeset",
		RunE:  runAffected, // Defined in cmd_affected.go
	}

	graphCmd = &cobra.Command{
		Use:   "graph",
		Short: "Print the assembled dependency graph",
		RunE:  runGraph, // Defined in cmd_graph.go
	}

	planCmd = &cobra.Command{
		Use:   "plan",
		Short: "Rewrite the test plan from the affected-target set",
		RunE:  runPlan, // Defined in cmd_plan.go
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Re-resolve affected targets as files change",
		RunE:  runWatch, // Defined in cmd_watch.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&workspaceRoot, "root", ".", "Workspace root directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default <root>/selector.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&traceFlag, "trace", false, "Emit OpenTelemetry traces to stdout")
	rootCmd.PersistentFlags().BoolVar(&metricsFlag, "metrics", false, "Emit OpenTelemetry metrics to stdout")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Machine-readable JSON output")

	for _, cmd := range []*cobra.Command{affectedCmd, planCmd} {
		cmd.Flags().StringVar(&changeMode, "mode", "working", "Change detection mode: working, staged, commit, range")
		cmd.Flags().StringVar(&changeRef, "ref", "", "Commit hash (mode=commit) or base...head range (mode=range)")
		cmd.Flags().StringSliceVar(&changeFiles, "files", nil, "Explicit changed files (bypasses git)")
		cmd.Flags().StringVar(&diffFilePath, "diff-file", "", "Unified diff file to derive the changeset from")
	}
	planCmd.Flags().StringVar(&planPath, "plan", "", "Test plan file (default from config)")
	watchCmd.Flags().StringVar(&watchDebounce, "debounce", "500ms", "Settle window before re-resolving")

	rootCmd.AddCommand(affectedCmd, graphCmd, planCmd, watchCmd)
}
