package diff_engine

import "strings"

// Kind classifies a display line.
type Kind int

const (
	Unchanged Kind = iota
	Added
	Removed
	Changed
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Changed:
		return "changed"
	default:
		return "unchanged"
	}
}

// SegmentKind classifies a run of text inside a changed line.
type SegmentKind int

const (
	SegmentLiteral SegmentKind = iota
	SegmentAdded
	SegmentRemoved
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentAdded:
		return "added"
	case SegmentRemoved:
		return "removed"
	default:
		return "literal"
	}
}

// Segment is a run of text inside a changed line.
type Segment struct {
	Kind SegmentKind
	Text string
}

// Line is a single display-ready diff line.
//
// For Changed lines Text holds the new line, Old holds the old line and Segments holds the mixed
// literal/added/removed runs in original order. Segments is nil for every other kind.
type Line struct {
	Kind     Kind
	Text     string
	Old      string
	Segments []Segment
}

// DisplayKind is the kind a renderer should use for the line. A changed line whose only differences are
// additions (or only removals), with nothing but whitespace left unstyled, is shown as a plain added
// (or removed) line.
func DisplayKind(line Line) Kind {
	if line.Kind != Changed {
		return line.Kind
	}
	var added, removed bool
	for _, seg := range line.Segments {
		switch seg.Kind {
		case SegmentAdded:
			added = true
		case SegmentRemoved:
			removed = true
		case SegmentLiteral:
			if !isBlank(seg.Text) {
				return Changed
			}
		}
	}
	switch {
	case added && !removed:
		return Added
	case removed && !added:
		return Removed
	default:
		return Changed
	}
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' {
			return false
		}
	}
	return true
}

// Sides rebuilds the previous and current texts a line sequence was computed from, one "\n" per line.
func Sides(lines []Line) (previous, current string) {
	var prev, cur strings.Builder
	for _, line := range lines {
		switch line.Kind {
		case Unchanged:
			prev.WriteString(line.Text + "\n")
			cur.WriteString(line.Text + "\n")
		case Added:
			cur.WriteString(line.Text + "\n")
		case Removed:
			prev.WriteString(line.Text + "\n")
		case Changed:
			prev.WriteString(line.Old + "\n")
			cur.WriteString(line.Text + "\n")
		}
	}
	return prev.String(), cur.String()
}
