package timeline

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// IgnoreFileName holds extra ignore patterns for directory snapshots, one per line.
const IgnoreFileName = ".stepdiff-ignore"

// MaxSnapshotFileSize is the largest file taken into a directory snapshot.
const MaxSnapshotFileSize = 100 * 1024

var defaultIgnorePatterns = []string{
	IgnoreFileName,
	".git",
	".svn",
	".sum",
	".tmp",
	".idea",
	".vscode",
	"bin",
	"obj",
	"dist",
	"out",
	".cache",
	"node_modules",
	"*.exe",
	"*.dll",
	"*.log",
	"*.bak",
	"*.bkp",
	".mp3",
	".wav",
	".ogg",
	".jpg",
	".jpeg",
	".png",
	".gif",
	".mp4",
	".mov",
	".pdf",
	".zip",
}

// IsDefaultIgnored reports whether any element of a slash separated relative path matches a built-in pattern.
// Patterns starting with "*" match by suffix, the others by prefix or suffix.
func IsDefaultIgnored(relativePath string) bool {
	for _, part := range strings.Split(filepath.ToSlash(relativePath), "/") {
		part = strings.ToLower(part)
		if part == "" || part == "." {
			continue
		}
		for _, pattern := range defaultIgnorePatterns {
			if suffix, ok := strings.CutPrefix(pattern, "*"); ok {
				if strings.HasSuffix(part, suffix) {
					return true
				}
				continue
			}
			if strings.HasPrefix(part, pattern) || strings.HasSuffix(part, pattern) {
				return true
			}
		}
	}
	return false
}

// IsPatternIgnored checks a slash separated relative path against user patterns.
// A pattern ending in "/" ignores everything below that directory.
func IsPatternIgnored(relativePath string, patterns []string) bool {
	relativePath = filepath.ToSlash(relativePath)
	for _, pattern := range patterns {
		if strings.HasSuffix(pattern, "/") {
			if strings.HasPrefix(relativePath, pattern) {
				return true
			}
			continue
		}
		if match, _ := path.Match(pattern, relativePath); match {
			return true
		}
		if match, _ := path.Match(pattern, path.Base(relativePath)); match {
			return true
		}
	}
	return false
}

type ignoreCacheEntry struct {
	patterns []string
	modTime  time.Time
}

// IgnoreRules reads and caches the ignore file of each snapshot root.
type IgnoreRules struct {
	fs    afero.Fs
	mu    sync.RWMutex
	cache map[string]ignoreCacheEntry
}

// NewIgnoreRules creates ignore rules reading from fs.
func NewIgnoreRules(fs afero.Fs) *IgnoreRules {
	return &IgnoreRules{fs: fs, cache: make(map[string]ignoreCacheEntry)}
}

// Patterns returns the patterns of root's ignore file, or none when it does not exist. Results are cached
// until the file's modification time changes.
func (r *IgnoreRules) Patterns(root string) ([]string, error) {
	ignorePath := filepath.Join(root, IgnoreFileName)

	info, err := r.fs.Stat(ignorePath)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("error checking %s: %w", IgnoreFileName, err)
	}

	r.mu.RLock()
	cached, ok := r.cache[ignorePath]
	r.mu.RUnlock()
	if ok && cached.modTime.Equal(info.ModTime()) {
		return cached.patterns, nil
	}

	content, err := afero.ReadFile(r.fs, ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", IgnoreFileName, err)
	}

	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}

	r.mu.Lock()
	r.cache[ignorePath] = ignoreCacheEntry{patterns: patterns, modTime: info.ModTime()}
	r.mu.Unlock()

	return patterns, nil
}

// Clear drops every cached pattern list.
func (r *IgnoreRules) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]ignoreCacheEntry)
}
