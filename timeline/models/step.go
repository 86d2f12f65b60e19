package models

import "fmt"

// FileEntry is one tracked file at one step.
type FileEntry struct {
	Path    string `json:"path" yaml:"path" toml:"path"`
	Content string `json:"content" yaml:"content" toml:"content"`
}

// Snapshot holds the full text state of every tracked file at one step.
type Snapshot []FileEntry

// Lookup returns the content stored for path.
func (s Snapshot) Lookup(path string) (string, bool) {
	for _, f := range s {
		if f.Path == path {
			return f.Content, true
		}
	}
	return "", false
}

// Paths returns the tracked paths in snapshot order.
func (s Snapshot) Paths() []string {
	paths := make([]string, 0, len(s))
	for _, f := range s {
		paths = append(paths, f.Path)
	}
	return paths
}

// Step is one entry of a step sequence.
//
// Changed lists the paths animated within the step, in playback order. An empty list means the step advances
// without per-file sub-animation. Delay is in milliseconds; zero or negative means "use the default".
type Step struct {
	ID      string   `json:"id" yaml:"id" toml:"id"`
	Label   string   `json:"label" yaml:"label" toml:"label"`
	Files   Snapshot `json:"files" yaml:"files" toml:"files"`
	Changed []string `json:"changed" yaml:"changed" toml:"changed"`
	Delay   int      `json:"delay" yaml:"delay" toml:"delay"`
}

// Title returns the label, or "Step N" for an unlabeled step at index.
func (s Step) Title(index int) string {
	if s.Label != "" {
		return s.Label
	}
	return fmt.Sprintf("Step %d", index+1)
}

// StepSequence is an ordered, index-addressable list of steps.
type StepSequence []Step

// Clamp returns i limited to a valid index. It returns 0 for an empty sequence.
func (seq StepSequence) Clamp(i int) int {
	if i >= len(seq) {
		i = len(seq) - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
