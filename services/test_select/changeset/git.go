// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package changeset

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Mode selects how changed files are detected.
type Mode string

const (
	// ModeWorking diffs the working tree against HEAD.
	ModeWorking Mode = "working"

	// ModeStaged diffs the index against HEAD.
	ModeStaged Mode = "staged"

	// ModeCommit diffs a single commit against its parent.
	ModeCommit Mode = "commit"

	// ModeRange diffs two arbitrary refs (base...head).
	ModeRange Mode = "range"
)

// GitClient detects changed files via the git binary.
//
// # Thread Safety
//
// GitClient is safe for concurrent use; it holds only the working
// directory.
type GitClient struct {
	workDir string
}

// NewGitClient creates a GitClient rooted at workDir.
func NewGitClient(workDir string) *GitClient {
	return &GitClient{workDir: workDir}
}

// IsGitRepo checks whether the working directory is inside a git repository.
func (g *GitClient) IsGitRepo() bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = g.workDir
	return cmd.Run() == nil
}

// ChangedFiles returns the changeset for the given mode.
//
// Inputs:
//   - ctx: Context for cancellation. Must not be nil.
//   - mode: Detection mode.
//   - ref: Commit hash for ModeCommit, "base...head" for ModeRange,
//     ignored otherwise.
//
// Outputs:
//   - Changeset: Absolute paths of changed files.
//   - error: Non-nil if git fails or the mode/ref combination is invalid.
func (g *GitClient) ChangedFiles(ctx context.Context, mode Mode, ref string) (Changeset, error) {
	if ctx == nil {
		return Changeset{}, fmt.Errorf("ctx must not be nil")
	}

	var args []string
	switch mode {
	case ModeWorking:
		args = []string{"diff", "--name-only", "HEAD"}
	case ModeStaged:
		args = []string{"diff", "--cached", "--name-only"}
	case ModeCommit:
		if ref == "" {
			return Changeset{}, fmt.Errorf("mode %q requires a commit hash", mode)
		}
		args = []string{"diff-tree", "--no-commit-id", "--name-only", "-r", ref}
	case ModeRange:
		if ref == "" {
			return Changeset{}, fmt.Errorf("mode %q requires a base...head range", mode)
		}
		args = []string{"diff", "--name-only", ref}
	default:
		return Changeset{}, fmt.Errorf("unknown change mode %q", mode)
	}

	out, err := g.run(ctx, args)
	if err != nil {
		return Changeset{}, err
	}

	cs := New()
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cs.Add(absolutize(g.workDir, line))
	}
	if err := scanner.Err(); err != nil {
		return Changeset{}, fmt.Errorf("scan git output: %w", err)
	}
	return cs, nil
}

// run executes git with the given args in the working directory.
func (g *GitClient) run(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.workDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
