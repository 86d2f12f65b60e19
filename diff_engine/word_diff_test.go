package diff_engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"foo", "(", "x", ")"}, tokenize("foo(x)"))
	assert.Equal(t, []string{"a", " ", "=", " ", "b"}, tokenize("a = b"))
	assert.Empty(t, tokenize(""))
}

func TestCommonIndent(t *testing.T) {
	assert.Equal(t, "  ", commonIndent("  a", "    b"))
	assert.Equal(t, "\t", commonIndent("\t a", "\t\tb"))
	assert.Equal(t, "", commonIndent("a", "  a"))
	assert.Equal(t, "", commonIndent("", ""))
}

func TestWordDiff_Unicode(t *testing.T) {
	segs := wordDiff("héllo wörld", "héllo welt")
	assert.Equal(t, []Segment{
		{Kind: SegmentLiteral, Text: "héllo "},
		{Kind: SegmentRemoved, Text: "wörld"},
		{Kind: SegmentAdded, Text: "welt"},
	}, segs)
}

func TestWordDiff_OnlyAdditions(t *testing.T) {
	segs := wordDiff("call()", "call(ctx)")
	assert.Equal(t, []Segment{
		{Kind: SegmentLiteral, Text: "call("},
		{Kind: SegmentAdded, Text: "ctx"},
		{Kind: SegmentLiteral, Text: ")"},
	}, segs)
}

func TestDisplayKind(t *testing.T) {
	tests := []struct {
		name string
		line Line
		want Kind
	}{
		{"plain added", Line{Kind: Added, Text: "x"}, Added},
		{"plain unchanged", Line{Kind: Unchanged, Text: "x"}, Unchanged},
		{
			"indent then added",
			Line{Kind: Changed, Segments: []Segment{{SegmentLiteral, "  "}, {SegmentAdded, "foo"}}},
			Added,
		},
		{
			"removed only",
			Line{Kind: Changed, Segments: []Segment{{SegmentRemoved, "foo"}}},
			Removed,
		},
		{
			"mixed",
			Line{Kind: Changed, Segments: []Segment{{SegmentRemoved, "a"}, {SegmentAdded, "b"}}},
			Changed,
		},
		{
			"added with literal text",
			Line{Kind: Changed, Segments: []Segment{{SegmentLiteral, "call("}, {SegmentAdded, "ctx"}, {SegmentLiteral, ")"}}},
			Changed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayKind(tt.line))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "unchanged", Unchanged.String())
	assert.Equal(t, "added", Added.String())
	assert.Equal(t, "removed", Removed.String())
	assert.Equal(t, "changed", Changed.String())
	assert.Equal(t, "literal", SegmentLiteral.String())
}
