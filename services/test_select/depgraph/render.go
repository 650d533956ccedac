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
	"fmt"
	"strings"
)

// Render produces a human-readable ASCII rendering of the graph.
//
// # Description
//
// One block per source target, its direct dependencies indented beneath
// it, everything ordered by Description so the output is stable across
// runs. Purely diagnostic; Render never alters graph state.
//
// Example output:
//
//	App/project.yaml#App
//	├── Modules/Lib/project.yaml#Lib
//	└── pkg:Vendor/JSONKit#JSONKit
func (g *Graph) Render() string {
	var b strings.Builder
	for _, src := range g.Sources() {
		b.WriteString(src.Description())
		b.WriteByte('\n')
		deps := g.edges[src].Sorted()
		for i, dep := range deps {
			connector := "├── "
			if i == len(deps)-1 {
				connector = "└── "
			}
			fmt.Fprintf(&b, "%s%s\n", connector, dep.Description())
		}
	}
	return b.String()
}
