package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/meysamhadeli/stepdiff/diff_engine"
	"github.com/meysamhadeli/stepdiff/playback"
	"github.com/meysamhadeli/stepdiff/timeline/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engine struct{}

func (engine) Diff(previous string, current string, first bool) []diff_engine.Line {
	return diff_engine.Compute(previous, current, first)
}

func TestPlain_EachKind(t *testing.T) {
	lines := diff_engine.ComputeLineDiff("keep\nfoo(x)\ndrop me\n", "keep\nfoo(y)\n")
	lines = append(lines, diff_engine.Line{Kind: diff_engine.Added, Text: "new"})

	assert.Equal(t, strings.Join([]string{
		"  keep",
		"~ foo([-x-]{+y+})",
		"- drop me",
		"+ new",
	}, "\n"), Plain(lines))
}

func TestPlain_PureAdditionDisplaysAsAdded(t *testing.T) {
	line := diff_engine.Line{
		Kind: diff_engine.Changed,
		Text: "  value",
		Old:  "  ",
		Segments: []diff_engine.Segment{
			{Kind: diff_engine.SegmentLiteral, Text: "  "},
			{Kind: diff_engine.SegmentAdded, Text: "value"},
		},
	}
	assert.Equal(t, "+   value", Plain([]diff_engine.Line{line}))

	line.Kind = diff_engine.Changed
	line.Segments[1].Kind = diff_engine.SegmentRemoved
	line.Old = "  value"
	line.Text = "  "
	assert.Equal(t, "-   value", Plain([]diff_engine.Line{line}))
}

func TestRenderer_LinesWithoutHighlight(t *testing.T) {
	r := NewRenderer(Options{})
	out := r.Lines("main.go", diff_engine.ComputeLineDiff("a\nb\n", "a\nc\nd\n"))

	rows := strings.Split(out, "\n")
	require.Len(t, rows, 3)
	assert.Contains(t, rows[0], "  a")
	assert.Contains(t, rows[1], "~ ")
	assert.Contains(t, rows[1], "c")
	assert.Contains(t, rows[2], "+ d")
}

func TestRenderer_LineNumbersSkipRemoved(t *testing.T) {
	r := NewRenderer(Options{LineNumbers: true})
	out := r.Lines("a.txt", diff_engine.ComputeLineDiff("one\ntwo\nthree\n", "one\nthree\n"))

	rows := strings.Split(out, "\n")
	require.Len(t, rows, 3)
	assert.True(t, strings.HasPrefix(rows[0], "   1 "), rows[0])
	assert.True(t, strings.HasPrefix(rows[1], "     "), rows[1])
	assert.True(t, strings.HasPrefix(rows[2], "   2 "), rows[2])
}

func TestRenderer_TruncatesToWidth(t *testing.T) {
	r := NewRenderer(Options{Width: 12})
	out := r.Lines("a.txt", diff_engine.Baseline("\tsomething very long\n"))

	assert.LessOrEqual(t, runewidth.StringWidth(out), 12)
	assert.True(t, strings.HasSuffix(out, "…"))
	assert.NotContains(t, out, "\t")
}

func TestRenderer_HighlightKeepsText(t *testing.T) {
	r := NewRenderer(Options{Highlight: true, Theme: "monokai"})
	out := r.Lines("main.go", diff_engine.Baseline("package main\n"))

	assert.Contains(t, out, "package")
	assert.Contains(t, out, "main")
	assert.NotContains(t, out, "\n")
}

func TestLanguage(t *testing.T) {
	assert.Equal(t, "Go", Language("cmd/main.go"))
	assert.Equal(t, "Python", Language("x.py"))
	assert.Equal(t, "", Language("no-extension-here"))
}

func TestHeaderAndTabs(t *testing.T) {
	view := playback.View{
		State:     playback.State{StepIndex: 1, FileIndex: 1, Playing: true},
		StepCount: 3,
		FileCount: 2,
		Title:     "Add handler",
		File:      "b.go",
		Tabs:      []string{"a.go", "b.go"},
	}

	header := Header(view)
	assert.Contains(t, header, "Step 2 of 3 · Add handler")
	assert.Contains(t, header, "[playing]")

	view.Title = "Step 2"
	view.State.Playing = false
	header = Header(view)
	assert.NotContains(t, header, "·")
	assert.Contains(t, header, "[paused]")

	tabs := Tabs(view)
	assert.Contains(t, tabs, "a.go")
	assert.Contains(t, tabs, "b.go")

	assert.Equal(t, "No steps", stripSpaces(Header(playback.View{Empty: true})))
	assert.Equal(t, "", Tabs(playback.View{}))
}

func TestFrame(t *testing.T) {
	steps := models.StepSequence{
		{Files: models.Snapshot{{Path: "a.txt", Content: "x\n"}}},
		{Files: models.Snapshot{{Path: "a.txt", Content: "y\n"}}, Changed: []string{"a.txt"}},
	}
	s := playback.New(steps)
	defer s.Close()
	s.Next()

	frame := NewRenderer(Options{}).Frame(s.View())
	assert.Contains(t, frame, "Step 2 of 2")
	assert.Contains(t, frame, "a.txt")
	assert.Contains(t, frame, "~ ")

	assert.Contains(t, NewRenderer(Options{}).Frame(playback.New(nil).View()), "No steps")
}

func TestWriteMarkdown(t *testing.T) {
	steps := models.StepSequence{
		{Label: "Start", Files: models.Snapshot{{Path: "a.go", Content: "package a\n"}}},
		{Files: models.Snapshot{{Path: "a.go", Content: "package b\n"}}, Changed: []string{"a.go"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(context.Background(), &buf, steps, engine{}))

	assert.Equal(t, "## Start\n\n**File: a.go**\n\n```diff\n  package a\n```\n\n"+
		"## Step 2\n\n**File: a.go**\n\n```diff\n~ package [-a-]{+b+}\n```\n\n", buf.String())
}

func TestWriteMarkdownRange_SingleStepKeepsPredecessor(t *testing.T) {
	steps := models.StepSequence{
		{Label: "Start", Files: models.Snapshot{{Path: "a.go", Content: "package a\n"}}},
		{Label: "Rename", Files: models.Snapshot{{Path: "a.go", Content: "package b\n"}}, Changed: []string{"a.go"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdownRange(context.Background(), &buf, steps, engine{}, 1, 5))

	assert.Equal(t, "## Rename\n\n**File: a.go**\n\n```diff\n~ package [-a-]{+b+}\n```\n\n", buf.String())
}

func TestWriteMarkdown_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	steps := models.StepSequence{{Files: models.Snapshot{{Path: "a", Content: "x"}}}}
	err := WriteMarkdown(ctx, &bytes.Buffer{}, steps, engine{})
	assert.ErrorIs(t, err, context.Canceled)
}

func stripSpaces(s string) string {
	return strings.TrimSpace(s)
}
