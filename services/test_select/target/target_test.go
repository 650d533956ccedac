// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package target

import "testing"

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindProject, "project"},
		{KindPackage, "package"},
		{Kind(99), "unknown"},
	}

	for _, tc := range tests {
		got := tc.kind.String()
		if got != tc.expected {
			t.Errorf("Kind(%d).String() = %q, expected %q", tc.kind, got, tc.expected)
		}
	}
}

func TestID_Deduplication(t *testing.T) {
	// The same logical target discovered from two independent passes must
	// produce equal, interchangeable identities.
	a := NewProject("Modules/Networking/project.yaml", "NetworkingKit")
	b := NewProject("Modules/Networking/project.yaml", "NetworkingKit")

	if a != b {
		t.Fatalf("identical (location, name) produced unequal IDs: %v vs %v", a, b)
	}

	set := map[ID]bool{a: true}
	if !set[b] {
		t.Error("second construction did not hash to the same map entry")
	}
}

func TestID_VariantsShareIdentitySpace(t *testing.T) {
	proj := NewProject("Vendor/JSONKit", "JSONKit")
	pkg := NewPackage("Vendor/JSONKit", "JSONKit")

	if proj == pkg {
		t.Error("project and package variants with the same (location, name) must stay distinct")
	}

	set := map[ID]bool{proj: true, pkg: true}
	if len(set) != 2 {
		t.Errorf("expected 2 distinct identities, got %d", len(set))
	}
}

func TestID_Description(t *testing.T) {
	tests := []struct {
		name     string
		id       ID
		expected string
	}{
		{
			name:     "project target",
			id:       NewProject("App/project.yaml", "App"),
			expected: "App/project.yaml#App",
		},
		{
			name:     "package product",
			id:       NewPackage("Vendor/JSONKit", "JSONKit"),
			expected: "pkg:Vendor/JSONKit#JSONKit",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.id.Description(); got != tc.expected {
				t.Errorf("Description() = %q, expected %q", got, tc.expected)
			}
		})
	}
}

func TestID_ShortName(t *testing.T) {
	id := NewProject("App/project.yaml", "App")
	if got := id.ShortName(); got != "App" {
		t.Errorf("ShortName() = %q, expected %q", got, "App")
	}
}

func TestID_IsZero(t *testing.T) {
	var zero ID
	if !zero.IsZero() {
		t.Error("zero value should report IsZero")
	}
	if NewProject("p", "t").IsZero() {
		t.Error("constructed ID should not report IsZero")
	}
}
