package diff_engine

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(lines []Line) []Kind {
	out := make([]Kind, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Kind)
	}
	return out
}

func texts(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Text)
	}
	return out
}

func TestComputeLineDiff_IdenticalInputsAreUnchanged(t *testing.T) {
	inputs := []string{
		"a",
		"a\n",
		"a\nb\nc",
		"package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n",
		"\n",
		"x\n\n\ny\n",
	}
	for _, s := range inputs {
		lines := ComputeLineDiff(s, s)
		want := splitLines(s)
		require.Len(t, lines, len(want), "input %q", s)
		for i, l := range lines {
			assert.Equal(t, Unchanged, l.Kind, "input %q line %d", s, i)
			assert.Equal(t, want[i], l.Text)
			assert.Nil(t, l.Segments)
		}
	}
}

func TestComputeLineDiff_TrailingNewlineIsNotALine(t *testing.T) {
	lines := ComputeLineDiff("a\n", "a\n")
	require.Len(t, lines, 1)
	assert.Equal(t, Line{Kind: Unchanged, Text: "a"}, lines[0])
}

func TestComputeLineDiff_EmptyInputs(t *testing.T) {
	assert.Empty(t, ComputeLineDiff("", ""))
	assert.Empty(t, Baseline(""))
	assert.Empty(t, Compute("", "", true))
	assert.Empty(t, Compute("", "", false))
}

func TestComputeLineDiff_FromEmptyIsAllAdded(t *testing.T) {
	lines := ComputeLineDiff("", "one\ntwo\nthree\n")
	assert.Equal(t, []Kind{Added, Added, Added}, kinds(lines))
	assert.Equal(t, []string{"one", "two", "three"}, texts(lines))
}

func TestComputeLineDiff_ToEmptyIsAllRemoved(t *testing.T) {
	lines := ComputeLineDiff("one\ntwo\n", "")
	assert.Equal(t, []Kind{Removed, Removed}, kinds(lines))
	assert.Equal(t, []string{"one", "two"}, texts(lines))
}

func TestCompute_FirstStepIsBaseline(t *testing.T) {
	s := "alpha\nbeta\n"

	first := Compute("", s, true)
	assert.Equal(t, []Kind{Unchanged, Unchanged}, kinds(first))
	assert.Equal(t, []string{"alpha", "beta"}, texts(first))

	later := Compute("", s, false)
	assert.Equal(t, []Kind{Added, Added}, kinds(later))
}

func TestCompute_FirstStepWithPreviousStillDiffs(t *testing.T) {
	lines := Compute("alpha\n", "beta\n", true)
	require.Len(t, lines, 1)
	assert.Equal(t, Changed, lines[0].Kind)
}

func TestComputeLineDiff_ChangedLineWordSegments(t *testing.T) {
	lines := ComputeLineDiff("foo(x)", "foo(y)")
	require.Len(t, lines, 1)

	l := lines[0]
	assert.Equal(t, Changed, l.Kind)
	assert.Equal(t, "foo(y)", l.Text)
	assert.Equal(t, "foo(x)", l.Old)
	assert.Equal(t, []Segment{
		{Kind: SegmentLiteral, Text: "foo("},
		{Kind: SegmentRemoved, Text: "x"},
		{Kind: SegmentAdded, Text: "y"},
		{Kind: SegmentLiteral, Text: ")"},
	}, l.Segments)
}

func TestComputeLineDiff_ChangedLineKeepsCommonIndent(t *testing.T) {
	lines := ComputeLineDiff("\t\treturn a\n", "\t\treturn b\n")
	require.Len(t, lines, 1)

	segs := lines[0].Segments
	require.NotEmpty(t, segs)
	assert.Equal(t, Segment{Kind: SegmentLiteral, Text: "\t\t"}, segs[0])

	var rebuiltOld, rebuiltNew strings.Builder
	for _, s := range segs {
		if s.Kind != SegmentAdded {
			rebuiltOld.WriteString(s.Text)
		}
		if s.Kind != SegmentRemoved {
			rebuiltNew.WriteString(s.Text)
		}
	}
	assert.Equal(t, "\t\treturn a", rebuiltOld.String())
	assert.Equal(t, "\t\treturn b", rebuiltNew.String())
}

func TestComputeLineDiff_PairingByPosition(t *testing.T) {
	prev := "keep\nold one\nold two\nold three\ntail\n"
	cur := "keep\nnew one\nnew two\ntail\n"

	lines := ComputeLineDiff(prev, cur)
	assert.Equal(t, []Kind{Unchanged, Changed, Changed, Removed, Unchanged}, kinds(lines))
	assert.Equal(t, "old three", lines[3].Text)
}

func TestComputeLineDiff_PairingWithExtraAddedLines(t *testing.T) {
	lines := ComputeLineDiff("a\nx\nb\n", "a\ny\nz\nb\n")
	assert.Equal(t, []Kind{Unchanged, Changed, Added, Unchanged}, kinds(lines))
	assert.Equal(t, "z", lines[2].Text)
}

func TestPairLines_IdenticalPairIsUnchanged(t *testing.T) {
	lines := pairLines([]string{"a"}, []string{"a", "b"})
	assert.Equal(t, []Kind{Unchanged, Added}, kinds(lines))
	assert.Equal(t, []string{"a", "b"}, texts(lines))
	assert.Nil(t, lines[0].Segments)
}

func TestComputeLineDiff_PureInsertionInMiddle(t *testing.T) {
	lines := ComputeLineDiff("a\nc\n", "a\nb\nc\n")
	assert.Equal(t, []Kind{Unchanged, Added, Unchanged}, kinds(lines))
	assert.Equal(t, []string{"a", "b", "c"}, texts(lines))
}

func TestComputeLineDiff_PreservesSingleBlankLineHunk(t *testing.T) {
	lines := ComputeLineDiff("a\nb\n", "a\n\nb\n")
	assert.Equal(t, []Kind{Unchanged, Added, Unchanged}, kinds(lines))
	assert.Equal(t, "", lines[1].Text)
}

func TestComputeLineDiff_PairedBlankLinesAreDropped(t *testing.T) {
	// A blank removed line aligned with a blank added line has nothing to show.
	lines := ComputeLineDiff("a\n\nb\n", "a\nx\n\ny\n")
	for _, l := range lines {
		if l.Kind != Unchanged {
			assert.NotEmpty(t, l.Text)
		}
	}
}

func TestComputeLineDiff_Deterministic(t *testing.T) {
	prev := "func a() {\n\treturn 1\n}\n"
	cur := "func a() int {\n\treturn 2\n}\n"
	assert.Equal(t, ComputeLineDiff(prev, cur), ComputeLineDiff(prev, cur))
}

func TestComputeLineDiff_ManyDistinctLinesAreUnchanged(t *testing.T) {
	const n = 60000
	var sb strings.Builder
	want := make([]string, 0, n)
	for i := 0; i < n; i++ {
		line := "line " + strconv.Itoa(i)
		sb.WriteString(line + "\n")
		want = append(want, line)
	}
	text := sb.String()

	lines := ComputeLineDiff(text, text)
	require.Len(t, lines, n)
	assert.Equal(t, want, texts(lines))
	for i, line := range lines {
		if line.Kind != Unchanged {
			t.Fatalf("line %d has kind %v", i, line.Kind)
		}
	}
}

func TestComputeLineDiff_ManyDistinctLinesWithEdit(t *testing.T) {
	const n = 57000
	var prev, cur strings.Builder
	for i := 0; i < n; i++ {
		prev.WriteString("line " + strconv.Itoa(i) + "\n")
		if i == n-1 {
			cur.WriteString("last line\n")
			continue
		}
		cur.WriteString("line " + strconv.Itoa(i) + "\n")
	}

	lines := ComputeLineDiff(prev.String(), cur.String())
	require.Len(t, lines, n)
	assert.Equal(t, "line 55296", lines[55296].Text)
	last := lines[n-1]
	assert.Equal(t, Changed, last.Kind)
	assert.Equal(t, "last line", last.Text)
	assert.Equal(t, "line 56999", last.Old)
}

func TestBaseline_KeepsInteriorBlankLines(t *testing.T) {
	lines := Baseline("a\n\nb\n")
	assert.Equal(t, []string{"a", "", "b"}, texts(lines))
	assert.Equal(t, []Kind{Unchanged, Unchanged, Unchanged}, kinds(lines))
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"\n", []string{""}},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\n\n", []string{"a", ""}},
		{"a\nb", []string{"a", "b"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitLines(tt.in), "input %q", tt.in)
	}
}

func TestSides_RebuildsBothTexts(t *testing.T) {
	previous := "a\nfoo(x)\nold\n"
	current := "a\nfoo(y)\nnew\nextra\n"

	prev, cur := Sides(ComputeLineDiff(previous, current))

	assert.Equal(t, previous, prev)
	assert.Equal(t, current, cur)
}
