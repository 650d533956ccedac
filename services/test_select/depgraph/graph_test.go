// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package depgraph

import (
	"strings"
	"testing"

	"github.com/AleutianAI/AleutianSelect/services/test_select/target"
)

// Test fixtures shared across cases.
var (
	app  = target.NewProject("App/project.yaml", "App")
	lib  = target.NewProject("Modules/Lib/project.yaml", "Lib")
	core = target.NewProject("Modules/Core/project.yaml", "Core")
	pkg  = target.NewPackage("Vendor/JSONKit", "JSONKit")
)

func TestGraph_InsertIdempotent(t *testing.T) {
	g := New()
	g.Insert(app, lib)
	g.Insert(app, lib)

	if got := g.EdgeCount(); got != 1 {
		t.Errorf("EdgeCount() = %d after duplicate insert, expected 1", got)
	}
	if !g.Dependencies(app).Contains(lib) {
		t.Error("edge app->lib missing after insert")
	}
}

func TestGraph_InsertIgnoresSelfLoop(t *testing.T) {
	g := New()
	g.Insert(app, app)

	if got := g.EdgeCount(); got != 0 {
		t.Errorf("EdgeCount() = %d after self-loop insert, expected 0", got)
	}
}

func TestGraph_DependenciesMissingKey(t *testing.T) {
	g := New()
	deps := g.Dependencies(core)
	if len(deps) != 0 {
		t.Errorf("Dependencies of unknown target = %d entries, expected empty set", len(deps))
	}
}

func TestGraph_MergeCommutativeAssociative(t *testing.T) {
	a := New()
	a.Insert(app, lib)
	b := New()
	b.Insert(lib, core)
	c := New()
	c.Insert(app, pkg)
	c.Insert(lib, core) // overlapping edge with b

	ab := a.Merge(b)
	ba := b.Merge(a)
	if !ab.Equal(ba) {
		t.Error("merge(A,B) != merge(B,A)")
	}

	abc1 := a.Merge(b).Merge(c)
	abc2 := a.Merge(b.Merge(c))
	abc3 := a.Merge(c).Merge(b)
	if !abc1.Equal(abc2) || !abc1.Equal(abc3) {
		t.Error("merge is not associative/commutative over three graphs")
	}

	// Overlapping edges union, not duplicate.
	if got := abc1.EdgeCount(); got != 3 {
		t.Errorf("EdgeCount() = %d, expected 3 (app->lib, app->pkg, lib->core)", got)
	}
}

func TestGraph_MergeDoesNotMutateInputs(t *testing.T) {
	a := New()
	a.Insert(app, lib)
	b := New()
	b.Insert(app, core)

	_ = a.Merge(b)

	if a.Dependencies(app).Contains(core) {
		t.Error("Merge mutated its receiver")
	}
	if b.Dependencies(app).Contains(lib) {
		t.Error("Merge mutated its argument")
	}
}

func TestGraph_Reverse(t *testing.T) {
	g := New()
	g.Insert(app, lib)
	g.Insert(lib, core)

	rev := g.Reverse()
	if !rev.Dependencies(lib).Contains(app) {
		t.Error("reverse graph missing lib->app")
	}
	if !rev.Dependencies(core).Contains(lib) {
		t.Error("reverse graph missing core->lib")
	}
	if rev.Dependencies(app).Contains(lib) {
		t.Error("reverse graph kept a forward edge")
	}
}

func TestGraph_FindTarget(t *testing.T) {
	g := New()
	g.Insert(app, lib)
	g.Insert(lib, core)
	g.Insert(app, pkg)

	t.Run("exact description match", func(t *testing.T) {
		got, ok := g.FindTarget("Modules/Lib/project.yaml#Lib")
		if !ok || got != lib {
			t.Errorf("FindTarget(full) = (%v, %v), expected lib", got, ok)
		}
	})

	t.Run("short name match", func(t *testing.T) {
		got, ok := g.FindTarget("Core")
		if !ok || got != core {
			t.Errorf("FindTarget(short) = (%v, %v), expected core", got, ok)
		}
	})

	t.Run("short name finds dependency-only target", func(t *testing.T) {
		// pkg only appears as a dependency value, never as a key.
		got, ok := g.FindTarget("JSONKit")
		if !ok || got != pkg {
			t.Errorf("FindTarget(JSONKit) = (%v, %v), expected pkg", got, ok)
		}
	})

	t.Run("no match returns absence", func(t *testing.T) {
		_, ok := g.FindTarget("NoSuchTarget")
		if ok {
			t.Error("FindTarget on unknown name reported a match")
		}
	})

	t.Run("ambiguous short name is deterministic", func(t *testing.T) {
		other := target.NewProject("Zeta/project.yaml", "Lib")
		g2 := New()
		g2.Insert(other, core)
		g2.Insert(app, lib)

		// "Modules/Lib/..." sorts before "Zeta/...", so lib wins every time.
		for i := 0; i < 10; i++ {
			got, ok := g2.FindTarget("Lib")
			if !ok || got != lib {
				t.Fatalf("ambiguous FindTarget = (%v, %v), expected lib", got, ok)
			}
		}
	})
}

func TestGraph_RenderStableAndSideEffectFree(t *testing.T) {
	g := New()
	g.Insert(app, pkg)
	g.Insert(app, lib)

	first := g.Render()
	second := g.Render()
	if first != second {
		t.Error("Render is not stable across calls")
	}
	if !strings.Contains(first, "App/project.yaml#App") {
		t.Errorf("Render missing source target:\n%s", first)
	}
	// Dependencies sorted by description: Modules/Lib... before pkg:Vendor...
	libIdx := strings.Index(first, "Modules/Lib")
	pkgIdx := strings.Index(first, "pkg:Vendor")
	if libIdx < 0 || pkgIdx < 0 || libIdx > pkgIdx {
		t.Errorf("Render ordering unexpected:\n%s", first)
	}
	if got := g.EdgeCount(); got != 2 {
		t.Errorf("Render altered graph state: EdgeCount() = %d", got)
	}
}
