// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package watch re-runs affected-target resolution as files change.
//
// # Description
//
// A debounced fsnotify watcher over the workspace root. Events are
// collected into a pending set; when the debounce window passes without
// new events the batch is handed to the callback as a changeset of
// absolute paths. The graph itself is not rebuilt per event; the caller
// re-resolves reachability against the already-assembled workspace Info.
//
// # Thread Safety
//
// Safe for concurrent use. The handler is invoked from a single
// goroutine.
package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the default settle window for change batches.
const DefaultDebounce = 500 * time.Millisecond

// Handler receives each settled batch of changed absolute paths.
type Handler func(paths []string)

// Watcher watches a workspace root for file changes.
type Watcher struct {
	root     string
	debounce time.Duration
	handler  Handler
}

// New creates a Watcher over root. A zero debounce uses DefaultDebounce.
func New(root string, debounce time.Duration, handler Handler) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{root: root, debounce: debounce, handler: handler}
}

// Run watches until the context is cancelled.
//
// Directories are watched recursively; newly created directories are
// added on the fly. VCS, vendor, and hidden directories are skipped so
// build artifacts do not retrigger the resolver.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := w.addRecursive(fsw, w.root); err != nil {
		return err
	}

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.skip(event.Name) {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				// New directories need their own watch.
				_ = w.addRecursive(fsw, event.Name)
			}
			pending[filepath.Clean(event.Name)] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			_ = err // transient watch errors are not fatal

		case <-fire:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			pending = make(map[string]struct{})
			fire = nil
			timer = nil
			w.handler(paths)
		}
	}
}

// addRecursive watches dir and every non-skipped directory beneath it.
func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d == nil || !d.IsDir() {
			return nil
		}
		if path != w.root && w.skipDirName(d.Name()) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

// skip reports whether an event path lies inside a skipped directory.
func (w *Watcher) skip(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if w.skipDirName(part) {
			return true
		}
	}
	return false
}

func (w *Watcher) skipDirName(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return true
	}
	switch name {
	case "vendor", "node_modules", "build", "DerivedData":
		return true
	}
	return false
}
