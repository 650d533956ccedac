// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package discovery assembles the consolidated workspace graph.
//
// The assembler scans all package manifests under the workspace root into
// a read-only name table, discovers each project unit concurrently, folds
// the immutable partial results in a deterministic order, and finally
// applies manual overrides. Unit-level failures drop only that unit's
// contribution unless the caller opts into fail-fast.
//
// # Lifecycle
//
//  1. Create with NewAssembler(root, sources, opts).
//  2. Call Assemble(ctx) once.
//  3. Read the consolidated Info and aggregated warnings from the result.
//
// # Thread Safety
//
// An Assembler run is internally concurrent but externally single-use;
// create a fresh Assembler per run.
package discovery

import "errors"

// Sentinel errors for assembly.
var (
	// ErrRootNotFound is returned when the workspace root does not exist.
	// This is fatal and aborts before any graph work begins.
	ErrRootNotFound = errors.New("workspace root does not exist")

	// ErrUnitFailed is returned (wrapped) when a discovery source fails
	// and the assembler is configured fail-fast. In the default non-fatal
	// mode the failure becomes a warning instead.
	ErrUnitFailed = errors.New("discovery unit failed")

	// ErrCancelled is returned when assembly is aborted via context.
	ErrCancelled = errors.New("assembly cancelled")
)
