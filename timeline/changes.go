package timeline

import "github.com/meysamhadeli/stepdiff/timeline/models"

// ChangedPaths lists the paths whose content differs between two snapshots: modified and added paths in
// current order, then removed paths in previous order.
func ChangedPaths(previous, current models.Snapshot) []string {
	var changed []string
	for _, f := range current {
		if old, ok := previous.Lookup(f.Path); !ok || old != f.Content {
			changed = append(changed, f.Path)
		}
	}
	for _, f := range previous {
		if _, ok := current.Lookup(f.Path); !ok {
			changed = append(changed, f.Path)
		}
	}
	return changed
}

// Preview returns the first limit runes of the step's first file, with "..." appended when cut.
func Preview(step models.Step, limit int) string {
	if len(step.Files) == 0 {
		return ""
	}
	runes := []rune(step.Files[0].Content)
	if limit <= 0 || len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + "..."
}
