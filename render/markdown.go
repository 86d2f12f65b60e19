package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/meysamhadeli/stepdiff/diff_engine"
	"github.com/meysamhadeli/stepdiff/playback/contracts"
	"github.com/meysamhadeli/stepdiff/timeline/models"
)

// WriteMarkdown writes a document with one section per step and one fenced diff block per displayed file.
// Diff lines use the Plain notation. It stops between files once ctx is done.
func WriteMarkdown(ctx context.Context, w io.Writer, steps models.StepSequence, differ contracts.IDiffer) error {
	return WriteMarkdownRange(ctx, w, steps, differ, 0, len(steps))
}

// WriteMarkdownRange writes the sections of steps[from:to], each still diffed against its predecessor.
func WriteMarkdownRange(ctx context.Context, w io.Writer, steps models.StepSequence, differ contracts.IDiffer, from, to int) error {
	if from < 0 {
		from = 0
	}
	if to > len(steps) {
		to = len(steps)
	}
	for i := from; i < to; i++ {
		step := steps[i]
		if _, err := fmt.Fprintf(w, "## %s\n\n", step.Title(i)); err != nil {
			return err
		}

		paths := step.Changed
		if len(paths) == 0 && len(step.Files) > 0 {
			paths = []string{step.Files[0].Path}
		}

		for _, path := range paths {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			current, _ := step.Files.Lookup(path)
			var previous string
			if i > 0 {
				previous, _ = steps[i-1].Files.Lookup(path)
			}
			lines := differ.Diff(previous, current, i == 0)

			if _, err := fmt.Fprintf(w, "**File: %s**\n\n```diff\n%s\n```\n\n", path, markdownBody(lines)); err != nil {
				return err
			}
		}
	}
	return nil
}

func markdownBody(lines []diff_engine.Line) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimRight(Plain(lines), "\n")
}
