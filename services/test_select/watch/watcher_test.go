// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_BatchesChanges(t *testing.T) {
	root := t.TempDir()

	batches := make(chan []string, 4)
	w := New(root, 50*time.Millisecond, func(paths []string) {
		batches <- paths
	})

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to install its watches.
	time.Sleep(100 * time.Millisecond)

	fileA := filepath.Join(root, "a.swift")
	fileB := filepath.Join(root, "b.swift")
	if err := os.WriteFile(fileA, []byte("// a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fileB, []byte("// b"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-batches:
		got := make(map[string]bool, len(paths))
		for _, p := range paths {
			got[p] = true
		}
		if !got[fileA] || !got[fileB] {
			t.Errorf("batch = %v, expected both written files", paths)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no batch delivered")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, expected context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcher_SkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	batches := make(chan []string, 4)
	w := New(root, 50*time.Millisecond, func(paths []string) {
		batches <- paths
	})

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	go func() { _ = w.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(root, ".git", "index"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-batches:
		t.Errorf("unexpected batch for VCS-internal change: %v", paths)
	case <-time.After(300 * time.Millisecond):
		// expected: nothing delivered
	}
}
