// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command selector computes which build targets a changeset affects so CI
// runs only the relevant tests.
//
// Usage:
//
//	selector affected --root . --mode working
//	selector affected --diff-file change.patch
//	selector graph --root .
//	selector plan --plan ci/testplan.yaml --mode range --ref origin/main...HEAD
//	selector watch --root .
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianSelect/pkg/logging"
	"github.com/AleutianAI/AleutianSelect/services/test_select/telemetry"
)

var logger *logging.Logger

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	level := logging.LevelInfo
	if debugMode() {
		level = logging.LevelDebug
	}
	logger = logging.New(logging.Config{Level: level, Service: "selector"}).
		With("run_id", uuid.NewString())

	shutdown, err := telemetry.Init(telemetry.Config{
		ServiceName: "selector",
		Traces:      traceEnabled(),
		Metrics:     metricsEnabled(),
	})
	if err != nil {
		logger.Error("telemetry init failed", "error", err.Error())
		os.Exit(1)
	}
	defer shutdown(context.Background())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("command failed", "error", err.Error())
		os.Exit(1)
	}
}

// debugMode peeks at the args before cobra parses them so the logger can
// be configured up front.
func debugMode() bool {
	for _, arg := range os.Args[1:] {
		if arg == "--debug" {
			return true
		}
	}
	return false
}

func traceEnabled() bool {
	for _, arg := range os.Args[1:] {
		if arg == "--trace" {
			return true
		}
	}
	return false
}

func metricsEnabled() bool {
	for _, arg := range os.Args[1:] {
		if arg == "--metrics" {
			return true
		}
	}
	return false
}
