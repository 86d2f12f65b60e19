package timeline

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/meysamhadeli/stepdiff/timeline/models"
)

// Commit is one entry of the imported history.
type Commit struct {
	Hash    string
	Subject string
	Author  string
}

// GitOperations runs the git commands needed to import history.
type GitOperations struct {
	workingDir string
}

// NewGitOperations creates a new GitOperations instance
func NewGitOperations(workingDir string) *GitOperations {
	return &GitOperations{workingDir: workingDir}
}

func (g *GitOperations) output(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.workingDir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(out), nil
}

// CheckGitRepo checks if the working directory is a git repository
func (g *GitOperations) CheckGitRepo(ctx context.Context) error {
	if _, err := g.output(ctx, "rev-parse", "--git-dir"); err != nil {
		return fmt.Errorf("not a git repository: %w", err)
	}
	return nil
}

// Commits returns up to limit of the most recent commits touching paths, oldest first. limit <= 0 means all.
func (g *GitOperations) Commits(ctx context.Context, limit int, paths []string) ([]Commit, error) {
	args := []string{"log", "--reverse", "--pretty=format:%H%x1f%s%x1f%an"}
	if limit > 0 {
		args = append(args, fmt.Sprintf("--max-count=%d", limit))
	}
	args = append(args, "--")
	args = append(args, paths...)

	out, err := g.output(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits: %w", err)
	}

	var commits []Commit
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\x1f", 3)
		if len(parts) < 3 {
			continue
		}
		commits = append(commits, Commit{Hash: parts[0], Subject: parts[1], Author: parts[2]})
	}
	return commits, nil
}

// ChangedFiles returns the paths a commit touched.
func (g *GitOperations) ChangedFiles(ctx context.Context, hash string) ([]string, error) {
	out, err := g.output(ctx, "diff-tree", "--root", "--no-commit-id", "--name-only", "-r", hash)
	if err != nil {
		return nil, fmt.Errorf("failed to list files of %s: %w", hash, err)
	}
	return splitNonEmpty(out), nil
}

// TrackedFiles returns the paths present at a commit.
func (g *GitOperations) TrackedFiles(ctx context.Context, hash string) ([]string, error) {
	out, err := g.output(ctx, "ls-tree", "-r", "--name-only", hash)
	if err != nil {
		return nil, fmt.Errorf("failed to list tree of %s: %w", hash, err)
	}
	return splitNonEmpty(out), nil
}

// ShowFile returns the content of path at a commit.
func (g *GitOperations) ShowFile(ctx context.Context, hash, path string) (string, error) {
	out, err := g.output(ctx, "show", hash+":"+path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s at %s: %w", path, hash, err)
	}
	return out, nil
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// GitImportOptions selects the history FromGit imports.
type GitImportOptions struct {
	// Paths restricts the import to these paths or directories. Empty means the whole repository.
	Paths []string
	// Limit is the maximum number of commits, most recent kept. Zero means all.
	Limit int
	// Delay is written to every step, in milliseconds.
	Delay int
}

// FromGit builds one step per commit. The tracked files are those touched by any imported commit; each step
// holds their content at that commit and lists the files the commit changed.
func FromGit(ctx context.Context, git *GitOperations, opts GitImportOptions) (models.StepSequence, error) {
	if err := git.CheckGitRepo(ctx); err != nil {
		return nil, err
	}

	commits, err := git.Commits(ctx, opts.Limit, opts.Paths)
	if err != nil {
		return nil, err
	}

	changedBy := make([][]string, len(commits))
	tracked := make(map[string]bool)
	for i, c := range commits {
		files, err := git.ChangedFiles(ctx, c.Hash)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if IsDefaultIgnored(f) || !underAny(f, opts.Paths) {
				continue
			}
			changedBy[i] = append(changedBy[i], f)
			tracked[f] = true
		}
	}

	steps := make(models.StepSequence, 0, len(commits))
	for i, c := range commits {
		present, err := git.TrackedFiles(ctx, c.Hash)
		if err != nil {
			return nil, err
		}

		var snapshot models.Snapshot
		for _, path := range present {
			if !tracked[path] {
				continue
			}
			content, err := git.ShowFile(ctx, c.Hash, path)
			if err != nil {
				return nil, err
			}
			snapshot = append(snapshot, models.FileEntry{Path: path, Content: content})
		}

		step := models.Step{
			ID:    shortHash(c.Hash),
			Label: c.Subject,
			Files: snapshot,
			Delay: opts.Delay,
		}
		if i > 0 {
			step.Changed = changedBy[i]
		}
		steps = append(steps, step)
	}

	return steps, nil
}

func underAny(path string, roots []string) bool {
	if len(roots) == 0 {
		return true
	}
	for _, root := range roots {
		root = strings.TrimSuffix(strings.TrimPrefix(root, "./"), "/")
		if root == "" || root == "." || path == root || strings.HasPrefix(path, root+"/") {
			return true
		}
	}
	return false
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
