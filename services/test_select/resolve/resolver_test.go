// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resolve

import (
	"testing"

	"github.com/AleutianAI/AleutianSelect/services/test_select/changeset"
	"github.com/AleutianAI/AleutianSelect/services/test_select/target"
	"github.com/AleutianAI/AleutianSelect/services/test_select/workspace"
)

var (
	app  = target.NewProject("App/project.yaml", "App")
	lib  = target.NewProject("Modules/Lib/project.yaml", "Lib")
	core = target.NewProject("Modules/Core/project.yaml", "Core")
	pkg  = target.NewPackage("Vendor/JSONKit", "JSONKit")
)

// chainInfo builds App -> Lib -> Core with one owned file each.
func chainInfo() workspace.Info {
	b := workspace.NewBuilder()
	b.AddFile(app, "/ws/App/main.swift")
	b.AddFile(lib, "/ws/Modules/Lib/lib.swift")
	b.AddFile(core, "/ws/Modules/Core/core.swift")
	b.AddDep(app, lib)
	b.AddDep(lib, core)
	return b.Seal()
}

func affected(t *testing.T, info workspace.Info, paths ...string) *Result {
	t.Helper()
	cs := changeset.FromPaths("/ws", paths)
	result, err := New(info).Affected(t.Context(), cs)
	if err != nil {
		t.Fatalf("Affected() error: %v", err)
	}
	return result
}

func assertAffected(t *testing.T, result *Result, want ...target.ID) {
	t.Helper()
	if len(result.Affected) != len(want) {
		t.Fatalf("affected set = %v, expected %d targets", result.Affected, len(want))
	}
	for _, id := range want {
		if !result.Contains(id) {
			t.Errorf("affected set missing %s", id.Description())
		}
	}
}

func TestResolver_ClosureOverChain(t *testing.T) {
	info := chainInfo()

	t.Run("leaf change pulls in all dependents", func(t *testing.T) {
		result := affected(t, info, "Modules/Core/core.swift")
		assertAffected(t, result, app, lib, core)
	})

	t.Run("root change affects only itself", func(t *testing.T) {
		result := affected(t, info, "App/main.swift")
		assertAffected(t, result, app)
	})

	t.Run("middle change leaves dependencies untouched", func(t *testing.T) {
		// End-to-end property: Lib's file changes, Core is a dependency of
		// Lib and stays unaffected.
		result := affected(t, info, "Modules/Lib/lib.swift")
		assertAffected(t, result, app, lib)
		if result.Contains(core) {
			t.Error("core is a dependency, not a dependent, and must not be affected")
		}
	})
}

func TestResolver_CycleTerminates(t *testing.T) {
	b := workspace.NewBuilder()
	b.AddFile(app, "/ws/App/main.swift")
	b.AddFile(lib, "/ws/Modules/Lib/lib.swift")
	b.AddDep(app, lib)
	b.AddDep(lib, app)

	result := affected(t, b.Seal(), "App/main.swift")
	assertAffected(t, result, app, lib)
}

func TestResolver_FolderOwnership(t *testing.T) {
	b := workspace.NewBuilder()
	b.AddFolder("/ws/Vendor/JSONKit", pkg)
	b.AddDep(lib, pkg)
	info := b.Seal()

	t.Run("path under folder attributes to owner", func(t *testing.T) {
		result := affected(t, info, "Vendor/JSONKit/Sources/json.swift")
		assertAffected(t, result, pkg, lib)
	})

	t.Run("folder path itself attributes to owner", func(t *testing.T) {
		result := affected(t, info, "Vendor/JSONKit")
		assertAffected(t, result, pkg, lib)
	})

	t.Run("sibling directory does not match", func(t *testing.T) {
		// Prefix match is per path segment: JSONKitExtra is not under
		// JSONKit.
		result := affected(t, info, "Vendor/JSONKitExtra/x.swift")
		assertAffected(t, result)
	})
}

func TestResolver_DeepestFolderWins(t *testing.T) {
	b := workspace.NewBuilder()
	b.AddFolder("/ws/Modules", lib)
	b.AddFolder("/ws/Modules/Core", core)
	info := b.Seal()

	result := affected(t, info, "Modules/Core/deep/file.swift")
	assertAffected(t, result, core)

	result = affected(t, info, "Modules/other.swift")
	assertAffected(t, result, lib)
}

func TestResolver_ExactFileBeatsFolder(t *testing.T) {
	b := workspace.NewBuilder()
	b.AddFolder("/ws/Modules/Lib", lib)
	b.AddFile(core, "/ws/Modules/Lib/special.swift")
	info := b.Seal()

	result := affected(t, info, "Modules/Lib/special.swift")
	assertAffected(t, result, core)
}

func TestResolver_UnownedPathIgnored(t *testing.T) {
	info := chainInfo()
	result := affected(t, info, "README.md")

	assertAffected(t, result)
	if len(result.Unmatched) != 1 || result.Unmatched[0] != "/ws/README.md" {
		t.Errorf("Unmatched = %v, expected the README path", result.Unmatched)
	}
}

func TestResolver_SharedFileHitsAllOwners(t *testing.T) {
	b := workspace.NewBuilder()
	b.AddFile(app, "/ws/shared.swift")
	b.AddFile(lib, "/ws/shared.swift")
	info := b.Seal()

	result := affected(t, info, "shared.swift")
	assertAffected(t, result, app, lib)

	owners := result.Attribution["/ws/shared.swift"]
	if len(owners) != 2 {
		t.Errorf("attribution for shared path = %v, expected both owners", owners)
	}
}

func TestResolver_EmptyChangeset(t *testing.T) {
	result := affected(t, chainInfo())
	assertAffected(t, result)
	if len(result.Direct) != 0 {
		t.Errorf("Direct = %v, expected empty", result.Direct)
	}
}
