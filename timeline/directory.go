package timeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/meysamhadeli/stepdiff/timeline/models"
	"github.com/spf13/afero"
)

// SnapshotDirectory reads every text file below root into a snapshot with slash separated relative paths.
// Ignored entries, files over MaxSnapshotFileSize and files containing NUL bytes are skipped.
func (l *Loader) SnapshotDirectory(root string) (models.Snapshot, error) {
	patterns, err := l.ignore.Patterns(root)
	if err != nil {
		return nil, err
	}

	var snapshot models.Snapshot
	err = afero.Walk(l.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relativePath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		relativePath = strings.ReplaceAll(relativePath, "\\", "/")
		if relativePath == "." {
			return nil
		}

		if IsDefaultIgnored(relativePath) || IsPatternIgnored(relativePath, patterns) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}

		if info.Size() > MaxSnapshotFileSize {
			l.logger.Debug().Str("path", relativePath).Int64("size", info.Size()).Msg("skipping large file")
			return nil
		}

		content, err := afero.ReadFile(l.fs, path)
		if err != nil {
			return fmt.Errorf("failed to read file: %s, error: %w", relativePath, err)
		}
		if bytes.IndexByte(content, 0) >= 0 {
			return nil
		}

		snapshot = append(snapshot, models.FileEntry{Path: relativePath, Content: string(content)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// LoadDirectories builds one step per directory, in order. Each step is labeled with its directory name and
// its changed files are the paths that differ from the previous directory.
func (l *Loader) LoadDirectories(dirs []string, delay int) (models.StepSequence, error) {
	steps := make(models.StepSequence, 0, len(dirs))
	for i, dir := range dirs {
		info, err := l.fs.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read step directory %s: %w", dir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("step directory %s is not a directory", dir)
		}

		snapshot, err := l.SnapshotDirectory(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot %s: %w", dir, err)
		}

		step := models.Step{
			ID:    fmt.Sprintf("step-%d", i+1),
			Label: filepath.Base(filepath.Clean(dir)),
			Files: snapshot,
			Delay: delay,
		}
		if i > 0 {
			step.Changed = ChangedPaths(steps[i-1].Files, snapshot)
		}
		steps = append(steps, step)
	}
	return steps, nil
}
