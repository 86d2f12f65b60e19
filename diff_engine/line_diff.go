package diff_engine

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

type hunkOp int

const (
	hunkEqual hunkOp = iota
	hunkInsert
	hunkDelete
)

// hunk is a maximal run of lines sharing one classification, before pairing.
type hunk struct {
	op   hunkOp
	text string
}

// ComputeLineDiff diffs previous to current and returns the display lines in order.
//
// A removed hunk immediately followed by an added hunk is paired line by line by position: lines present
// on both sides become Changed lines with word-level segments, leftovers become Removed or Added. Every
// other hunk emits one line per contained line. Empty inputs yield no lines.
func ComputeLineDiff(previous, current string) []Line {
	if previous == "" && current == "" {
		return nil
	}

	hunks := lineHunks(previous, current)

	var lines []Line
	for i := 0; i < len(hunks); i++ {
		h := hunks[i]
		if h.op == hunkDelete && i+1 < len(hunks) && hunks[i+1].op == hunkInsert {
			lines = append(lines, pairLines(splitLines(h.text), splitLines(hunks[i+1].text))...)
			i++
			continue
		}

		kind := Unchanged
		switch h.op {
		case hunkInsert:
			kind = Added
		case hunkDelete:
			kind = Removed
		}
		for _, text := range splitLines(h.text) {
			lines = append(lines, Line{Kind: kind, Text: text})
		}
	}
	return lines
}

// Baseline returns every line of current as Unchanged. The first step of a sequence has nothing to compare
// against and is shown this way.
func Baseline(current string) []Line {
	parts := splitLines(current)
	if len(parts) == 0 {
		return nil
	}
	lines := make([]Line, 0, len(parts))
	for _, text := range parts {
		lines = append(lines, Line{Kind: Unchanged, Text: text})
	}
	return lines
}

// Compute picks the baseline rendering for the first step when there is no previous content, and the line
// diff otherwise.
func Compute(previous, current string, first bool) []Line {
	if first && previous == "" {
		return Baseline(current)
	}
	return ComputeLineDiff(previous, current)
}

// lineHunks runs a line-granularity LCS diff and groups the result into hunks. Deletions always precede
// insertions between two equal runs.
func lineHunks(previous, current string) []hunk {
	dmp := diffmatchpatch.New()
	rPrev, rCur, lineArray := dmp.DiffLinesToRunes(previous, current)
	diffs := dmp.DiffMainRunes(rPrev, rCur, false)
	diffs = dmp.DiffCleanupMerge(diffs)
	// DiffCharsToLines undoes the surrogate-skipping index encoding of DiffLinesToRunes.
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var hunks []hunk
	var dels, ins strings.Builder

	flush := func() {
		if dels.Len() > 0 {
			hunks = append(hunks, hunk{op: hunkDelete, text: dels.String()})
			dels.Reset()
		}
		if ins.Len() > 0 {
			hunks = append(hunks, hunk{op: hunkInsert, text: ins.String()})
			ins.Reset()
		}
	}

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			if text := d.Text; text != "" {
				hunks = append(hunks, hunk{op: hunkEqual, text: text})
			}
		case diffmatchpatch.DiffDelete:
			dels.WriteString(d.Text)
		case diffmatchpatch.DiffInsert:
			ins.WriteString(d.Text)
		}
	}
	flush()

	return hunks
}

// pairLines aligns removed and added lines by position.
func pairLines(removed, added []string) []Line {
	n := len(removed)
	if len(added) > n {
		n = len(added)
	}

	var lines []Line
	for j := 0; j < n; j++ {
		var oldLine, newLine string
		if j < len(removed) {
			oldLine = removed[j]
		}
		if j < len(added) {
			newLine = added[j]
		}

		switch {
		case oldLine != "" && newLine != "":
			if oldLine == newLine {
				lines = append(lines, Line{Kind: Unchanged, Text: newLine})
				continue
			}
			lines = append(lines, Line{Kind: Changed, Text: newLine, Old: oldLine, Segments: wordSegments(oldLine, newLine)})
		case oldLine != "":
			lines = append(lines, Line{Kind: Removed, Text: oldLine})
		case newLine != "":
			lines = append(lines, Line{Kind: Added, Text: newLine})
		}
	}
	return lines
}

// splitLines splits text on "\n". A trailing newline does not produce an extra empty line, but a text made of
// a single "\n" still yields one blank line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	parts := strings.Split(text, "\n")
	if len(parts) > 1 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
