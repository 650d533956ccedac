// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/AleutianSelect/services/test_select/depgraph"
	"github.com/AleutianAI/AleutianSelect/services/test_select/target"
	"github.com/AleutianAI/AleutianSelect/services/test_select/workspace"
)

// Options configures an assembly run.
type Options struct {
	// Workers bounds the project-discovery fan-out. Zero means
	// min(NumCPU, 8).
	Workers int

	// FailFast escalates a source failure to a run failure. The default
	// is non-fatal: directory scanning may legitimately find malformed or
	// unrelated manifests, so a failed unit only drops its own
	// contribution.
	FailFast bool

	// WorkspaceDefinition is an optional workspace definition file path.
	// When set it is appended to every native target's file set, since a
	// change to it can change what is built.
	WorkspaceDefinition string
}

// Assembly is the outcome of a run: the consolidated Info plus everything
// the caller should surface.
type Assembly struct {
	// Info is the merged workspace view.
	Info workspace.Info

	// Warnings aggregates every non-fatal diagnostic from all units and
	// override entries.
	Warnings []Warning

	// Projects and Packages count the discovered units.
	Projects int
	Packages int
}

// Assembler builds the consolidated workspace Info.
type Assembler struct {
	root    string
	sources []Source
	opts    Options
}

// NewAssembler creates an Assembler over the given workspace root.
func NewAssembler(root string, sources []Source, opts Options) *Assembler {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
		if opts.Workers > 8 {
			opts.Workers = 8
		}
	}
	return &Assembler{root: root, sources: sources, opts: opts}
}

// Assemble runs discovery, merges all partial results, and applies the
// overrides.
//
// Inputs:
//   - ctx: Context for cancellation. Must not be nil.
//   - overrides: Manual configuration; zero value applies nothing.
//
// Outputs:
//   - *Assembly: Consolidated Info plus aggregated warnings.
//   - error: ErrRootNotFound if the root is missing, ErrCancelled on
//     context cancellation, or a wrapped ErrUnitFailed in fail-fast mode.
func (a *Assembler) Assemble(ctx context.Context, overrides Overrides) (*Assembly, error) {
	ctx, span := tracer.Start(ctx, "discovery.Assembler.Assemble")
	defer span.End()
	start := time.Now()

	if _, err := os.Stat(a.root); err != nil {
		err = fmt.Errorf("%w: %s", ErrRootNotFound, a.root)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	projects, packages, warnings, err := a.runSources(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Deterministic unit ordering before the parallel phase so partial
	// results fold in a stable order regardless of completion order.
	sort.Slice(projects, func(i, j int) bool { return projects[i].Path < projects[j].Path })
	sort.Slice(packages, func(i, j int) bool { return packages[i].Root < packages[j].Root })

	table := newPackageTable(packages)
	siblings := newSiblingIndex(projects)

	partials, unitWarnings, err := a.discoverProjects(ctx, projects, table, siblings)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	warnings = append(warnings, unitWarnings...)

	pkgInfo, pkgWarnings := assemblePackages(packages, table)
	warnings = append(warnings, pkgWarnings...)

	info := workspace.MergeAll(append(partials, pkgInfo)...)

	info, overrideWarnings := a.applyOverrides(info, overrides)
	warnings = append(warnings, overrideWarnings...)

	recordAssembly(ctx, len(projects), len(packages), len(warnings), time.Since(start))
	span.SetAttributes(
		attribute.Int("projects", len(projects)),
		attribute.Int("packages", len(packages)),
		attribute.Int("warnings", len(warnings)),
	)
	span.SetStatus(codes.Ok, "")

	return &Assembly{
		Info:     info,
		Warnings: warnings,
		Projects: len(projects),
		Packages: len(packages),
	}, nil
}

// runSources executes every configured source concurrently and gathers
// facts. Source failures are warnings unless FailFast is set.
func (a *Assembler) runSources(ctx context.Context) ([]ProjectFacts, []PackageFacts, []Warning, error) {
	type sourceResult struct {
		projects []ProjectFacts
		packages []PackageFacts
		warnings []Warning
	}

	results := make([]sourceResult, len(a.sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Workers)

	for i, src := range a.sources {
		g.Go(func() error {
			projects, packages, warnings, err := src.Discover(gctx, a.root)
			if err != nil {
				// A cancelled walk is not a bad unit.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				if a.opts.FailFast {
					return fmt.Errorf("%w: source %s: %v", ErrUnitFailed, src.Name(), err)
				}
				warnings = append(warnings, Warning{
					Unit:    src.Name(),
					Message: fmt.Sprintf("source failed, contribution dropped: %v", err),
				})
			}
			results[i] = sourceResult{projects: projects, packages: packages, warnings: warnings}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, nil, nil, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
		}
		return nil, nil, nil, err
	}

	var projects []ProjectFacts
	var packages []PackageFacts
	var warnings []Warning
	for _, r := range results {
		projects = append(projects, r.projects...)
		packages = append(packages, r.packages...)
		warnings = append(warnings, r.warnings...)
	}
	return projects, packages, warnings, nil
}

// discoverProjects builds one immutable partial Info per project unit.
//
// The fan-out is embarrassingly parallel: every worker reads only the
// shared read-only package table and sibling index and writes to its own
// slot, so no locks are needed. Results fold after the barrier.
func (a *Assembler) discoverProjects(ctx context.Context, projects []ProjectFacts, table *packageTable, siblings *siblingIndex) ([]workspace.Info, []Warning, error) {
	partials := make([]workspace.Info, len(projects))
	unitWarnings := make([][]Warning, len(projects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Workers)
	for i, proj := range projects {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			partials[i], unitWarnings[i] = a.assembleProject(proj, table, siblings)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCancelled, err)
	}

	var warnings []Warning
	for _, w := range unitWarnings {
		warnings = append(warnings, w...)
	}
	return partials, warnings, nil
}

// assembleProject turns one project unit's facts into a partial Info.
func (a *Assembler) assembleProject(proj ProjectFacts, table *packageTable, siblings *siblingIndex) (workspace.Info, []Warning) {
	b := workspace.NewBuilder()
	var warnings []Warning
	projDir := filepath.Dir(proj.Path)

	local := make(map[string]target.ID, len(proj.Targets))
	for _, t := range proj.Targets {
		local[t.Name] = target.NewProject(proj.Path, t.Name)
	}

	for _, t := range proj.Targets {
		id := local[t.Name]

		// The unit's own definition belongs to every target it defines: a
		// change to the project file can change what compiles.
		b.AddFile(id, proj.Path)
		if a.opts.WorkspaceDefinition != "" {
			b.AddFile(id, a.opts.WorkspaceDefinition)
		}

		for _, src := range t.Sources {
			abs := src
			if !filepath.IsAbs(abs) {
				abs = filepath.Join(projDir, src)
			}
			if isDir(abs) || strings.HasSuffix(src, "/") {
				b.AddFolder(filepath.Clean(abs), id)
			} else {
				b.AddFile(id, filepath.Clean(abs))
			}
		}

		for _, dep := range t.TargetDeps {
			depID, ok := local[dep]
			if !ok {
				warnings = append(warnings, Warning{
					Unit:    proj.Path,
					Message: fmt.Sprintf("target %s depends on %q, not defined in this unit", t.Name, dep),
				})
				continue
			}
			b.AddDep(id, depID)
		}

		for _, product := range t.PackageProducts {
			pkgID, ok := table.lookup(product)
			if !ok {
				warnings = append(warnings, Warning{
					Unit:    proj.Path,
					Message: fmt.Sprintf("target %s references unknown package product %q", t.Name, product),
				})
				continue
			}
			b.AddDep(id, pkgID)
		}

		// Sibling products: a miss is a silent no-op, since not every
		// binary dependency is a sibling source target (system
		// frameworks, prebuilt binaries).
		for _, product := range t.ProductDeps {
			for _, sibling := range siblings.lookup(product) {
				if sibling.Location == proj.Path {
					continue
				}
				b.AddDep(id, sibling)
			}
		}
	}

	return b.Seal(), warnings
}

// assemblePackages builds the single partial Info covering all package
// units: one identity per package, a folder entry for its whole root, and
// edges for every resolvable declared dependency. Dependencies that do
// not resolve inside the workspace are skipped silently; requires on
// upstream modules are the normal case, not a misconfiguration.
func assemblePackages(packages []PackageFacts, table *packageTable) (workspace.Info, []Warning) {
	b := workspace.NewBuilder()
	var warnings []Warning

	for _, pkg := range packages {
		id := packageIdentity(pkg)
		b.AddFolder(filepath.Clean(pkg.Root), id)
		for _, dep := range pkg.Deps {
			depID, ok := table.lookup(dep)
			if !ok || depID == id {
				continue
			}
			b.AddDep(id, depID)
		}
	}
	return b.Seal(), warnings
}

// applyOverrides adds configured extra edges and path assignments.
// Unresolvable names and missing paths become warnings; the run proceeds
// with whatever did apply.
func (a *Assembler) applyOverrides(info workspace.Info, overrides Overrides) (workspace.Info, []Warning) {
	if len(overrides.ExtraDependencies) == 0 && len(overrides.ExtraPaths) == 0 {
		return info, nil
	}

	var warnings []Warning
	known := info.Targets()
	b := workspace.NewBuilder()

	for _, name := range sortedKeys(overrides.ExtraDependencies) {
		src, ok := depgraph.FindIn(known, name)
		if !ok {
			warnings = append(warnings, Warning{Unit: "overrides", Message: fmt.Sprintf("unknown target %q", name)})
			continue
		}
		for _, depName := range overrides.ExtraDependencies[name] {
			dep, ok := depgraph.FindIn(known, depName)
			if !ok {
				warnings = append(warnings, Warning{Unit: "overrides", Message: fmt.Sprintf("unknown dependency %q for target %q", depName, name)})
				continue
			}
			b.AddDep(src, dep)
		}
	}

	for _, name := range sortedKeys(overrides.ExtraPaths) {
		id, ok := depgraph.FindIn(known, name)
		if !ok {
			warnings = append(warnings, Warning{Unit: "overrides", Message: fmt.Sprintf("unknown target %q", name)})
			continue
		}
		for _, p := range overrides.ExtraPaths[name] {
			abs := p
			if !filepath.IsAbs(abs) {
				abs = filepath.Join(a.root, p)
			}
			fi, err := os.Stat(abs)
			if err != nil {
				warnings = append(warnings, Warning{Unit: "overrides", Message: fmt.Sprintf("path %q for target %q does not exist", p, name)})
				continue
			}
			if fi.IsDir() {
				b.AddFolder(filepath.Clean(abs), id)
			} else {
				b.AddFile(id, filepath.Clean(abs))
			}
		}
	}

	return workspace.Merge(info, b.Seal()), warnings
}

// packageTable resolves package product names to package identities.
// Built once per run and read-only afterwards, so it is safely shared
// across concurrent project-discovery workers.
type packageTable struct {
	byProduct map[string]target.ID
}

func newPackageTable(packages []PackageFacts) *packageTable {
	t := &packageTable{byProduct: make(map[string]target.ID)}
	// packages arrive sorted by root; first writer wins so duplicate
	// product names resolve deterministically.
	for _, pkg := range packages {
		id := packageIdentity(pkg)
		names := append([]string{pkg.Name}, pkg.Products...)
		for _, name := range names {
			if _, exists := t.byProduct[name]; !exists {
				t.byProduct[name] = id
			}
		}
	}
	return t
}

func (t *packageTable) lookup(product string) (target.ID, bool) {
	id, ok := t.byProduct[product]
	return id, ok
}

// packageIdentity derives the canonical identity of a package unit.
func packageIdentity(pkg PackageFacts) target.ID {
	name := pkg.Name
	if len(pkg.Products) > 0 {
		name = pkg.Products[0]
	}
	return target.NewPackage(pkg.Root, name)
}

// siblingIndex resolves product names to the project targets vending
// them. One index build up front replaces a per-target scan over every
// other target's products.
type siblingIndex struct {
	byProduct map[string][]target.ID
}

func newSiblingIndex(projects []ProjectFacts) *siblingIndex {
	idx := &siblingIndex{byProduct: make(map[string][]target.ID)}
	for _, proj := range projects {
		for _, t := range proj.Targets {
			if t.Product == "" {
				continue
			}
			idx.byProduct[t.Product] = append(idx.byProduct[t.Product], target.NewProject(proj.Path, t.Name))
		}
	}
	return idx
}

func (idx *siblingIndex) lookup(product string) []target.ID {
	return idx.byProduct[product]
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
