package diff_engine

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/words"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// wordSegments builds the intraline runs for a changed line. The common leading whitespace of both lines
// is emitted first as a literal run; the remainders are diffed word by word.
func wordSegments(oldLine, newLine string) []Segment {
	indent := commonIndent(oldLine, newLine)

	var segments []Segment
	if indent != "" {
		segments = append(segments, Segment{Kind: SegmentLiteral, Text: indent})
	}
	return append(segments, wordDiff(oldLine[len(indent):], newLine[len(indent):])...)
}

// commonIndent returns the longest common prefix of the leading whitespace of a and b.
func commonIndent(a, b string) string {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] && isIndent(a[n]) {
		n++
	}
	return a[:n]
}

func isIndent(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f' || c == '\r'
}

// wordDiff diffs two strings at word granularity. Each distinct token is mapped to a rune so the LCS runs on
// token sequences, the same trick go-diff uses for lines.
func wordDiff(oldText, newText string) []Segment {
	if oldText == "" && newText == "" {
		return nil
	}

	var tokenArray []string
	tokenHash := map[string]rune{}
	encode := func(text string) []rune {
		var out []rune
		for _, tok := range tokenize(text) {
			r, ok := tokenHash[tok]
			if !ok {
				r = runeForIndex(len(tokenArray))
				tokenHash[tok] = r
				tokenArray = append(tokenArray, tok)
			}
			out = append(out, r)
		}
		return out
	}
	rOld := encode(oldText)
	rNew := encode(newText)

	tokenOf := make(map[rune]string, len(tokenArray))
	for i, tok := range tokenArray {
		tokenOf[runeForIndex(i)] = tok
	}
	decode := func(s string) string {
		var b strings.Builder
		for _, r := range s {
			b.WriteString(tokenOf[r])
		}
		return b.String()
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupMerge(dmp.DiffMainRunes(rOld, rNew, false))

	segments := make([]Segment, 0, len(diffs))
	for _, d := range diffs {
		text := decode(d.Text)
		if text == "" {
			continue
		}
		kind := SegmentLiteral
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			kind = SegmentAdded
		case diffmatchpatch.DiffDelete:
			kind = SegmentRemoved
		}
		if n := len(segments); n > 0 && segments[n-1].Kind == kind {
			segments[n-1].Text += text
			continue
		}
		segments = append(segments, Segment{Kind: kind, Text: text})
	}
	return segments
}

// tokenize splits text on Unicode word boundaries: words, runs of whitespace and single punctuation marks
// each become one token.
func tokenize(text string) []string {
	var tokens []string
	iter := words.FromString(text)
	for iter.Next() {
		tokens = append(tokens, iter.Value())
	}
	return tokens
}

// runeForIndex skips the surrogate range, which does not survive a round trip through a Go string.
func runeForIndex(i int) rune {
	r := rune(i + 1)
	if r >= 0xD800 {
		r += 0x800
	}
	return r
}
