package render

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/mattn/go-runewidth"
	"github.com/meysamhadeli/stepdiff/constants/lipgloss"
	"github.com/meysamhadeli/stepdiff/diff_engine"
)

// TabWidth is the number of spaces a tab expands to.
const TabWidth = 4

// Options configures a Renderer.
type Options struct {
	// Theme is a chroma style name.
	Theme string
	// Highlight enables syntax highlighting of unchanged lines.
	Highlight bool
	// Width truncates lines to this many cells. Zero disables truncation.
	Width int
	// LineNumbers prefixes each line with its position in the new text.
	LineNumbers bool
}

// Renderer draws classified diff lines for a terminal.
type Renderer struct {
	opts      Options
	formatter chroma.Formatter
	style     *chroma.Style
}

func NewRenderer(opts Options) *Renderer {
	return &Renderer{
		opts:      opts,
		formatter: formatters.Get("terminal256"),
		style:     styles.Get(opts.Theme),
	}
}

// Language returns the chroma language name for path, or "" when none matches.
func Language(path string) string {
	lexer := lexers.Match(path)
	if lexer == nil {
		return ""
	}
	return lexer.Config().Name
}

// Marker is the gutter symbol of a display kind.
func Marker(kind diff_engine.Kind) string {
	switch kind {
	case diff_engine.Added:
		return "+"
	case diff_engine.Removed:
		return "-"
	case diff_engine.Changed:
		return "~"
	default:
		return " "
	}
}

// ExpandTabs replaces tabs with TabWidth spaces.
func ExpandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", TabWidth))
}

// Lines renders the diff of the file at path, one terminal line per diff line.
func (r *Renderer) Lines(path string, lines []diff_engine.Line) string {
	var lexer chroma.Lexer
	if r.opts.Highlight {
		lexer = lexers.Match(path)
		if lexer == nil {
			lexer = lexers.Fallback
		}
		lexer = chroma.Coalesce(lexer)
	}

	out := make([]string, 0, len(lines))
	number := 1
	for _, line := range lines {
		kind := diff_engine.DisplayKind(line)

		var gutter string
		if r.opts.LineNumbers {
			if kind == diff_engine.Removed {
				gutter = strings.Repeat(" ", 4)
			} else {
				gutter = runewidth.FillLeft(strconv.Itoa(number), 4)
			}
			gutter = lipgloss.Gutter.Render(gutter) + " "
		}
		if line.Kind != diff_engine.Removed {
			number++
		}

		out = append(out, gutter+r.line(line, kind, lexer))
	}
	return strings.Join(out, "\n")
}

func (r *Renderer) line(line diff_engine.Line, kind diff_engine.Kind, lexer chroma.Lexer) string {
	marker := Marker(kind) + " "
	budget := 0
	if r.opts.Width > 0 {
		budget = r.opts.Width - runewidth.StringWidth(marker)
		if r.opts.LineNumbers {
			budget -= 5
		}
		if budget < 1 {
			budget = 1
		}
	}

	switch kind {
	case diff_engine.Added:
		return lipgloss.AddedLine.Render(marker + r.fit(line.Text, budget))
	case diff_engine.Removed:
		text := line.Text
		if line.Kind == diff_engine.Changed {
			text = line.Old
		}
		return lipgloss.RemovedLine.Render(marker + r.fit(text, budget))
	case diff_engine.Changed:
		return lipgloss.ChangedLine.Render(marker) + r.segments(line.Segments, budget)
	default:
		text := r.fit(line.Text, budget)
		if lexer != nil {
			if highlighted, ok := r.highlight(lexer, text); ok {
				return marker + highlighted
			}
		}
		return marker + text
	}
}

// segments renders word segments, spending at most budget cells when budget is positive.
func (r *Renderer) segments(segments []diff_engine.Segment, budget int) string {
	var sb strings.Builder
	used := 0
	for _, seg := range segments {
		text := ExpandTabs(seg.Text)
		if budget > 0 {
			remaining := budget - used
			if remaining <= 0 {
				break
			}
			if w := runewidth.StringWidth(text); w > remaining {
				text = runewidth.Truncate(text, remaining, "…")
			}
			used += runewidth.StringWidth(text)
		}

		switch seg.Kind {
		case diff_engine.SegmentAdded:
			sb.WriteString(lipgloss.AddedWord.Render(text))
		case diff_engine.SegmentRemoved:
			sb.WriteString(lipgloss.RemovedWord.Render(text))
		default:
			sb.WriteString(lipgloss.ChangedLine.Render(text))
		}
	}
	return sb.String()
}

func (r *Renderer) fit(text string, budget int) string {
	text = ExpandTabs(text)
	if budget > 0 && runewidth.StringWidth(text) > budget {
		return runewidth.Truncate(text, budget, "…")
	}
	return text
}

func (r *Renderer) highlight(lexer chroma.Lexer, text string) (string, bool) {
	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return "", false
	}
	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, iterator); err != nil {
		return "", false
	}
	return strings.ReplaceAll(buf.String(), "\n", ""), true
}

// Plain renders lines without colors. Changed lines show removed words as [-word-] and added words as
// {+word+}.
func Plain(lines []diff_engine.Line) string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		kind := diff_engine.DisplayKind(line)
		text := line.Text
		switch {
		case kind == diff_engine.Changed:
			var sb strings.Builder
			for _, seg := range line.Segments {
				switch seg.Kind {
				case diff_engine.SegmentAdded:
					sb.WriteString("{+" + seg.Text + "+}")
				case diff_engine.SegmentRemoved:
					sb.WriteString("[-" + seg.Text + "-]")
				default:
					sb.WriteString(seg.Text)
				}
			}
			text = sb.String()
		case kind == diff_engine.Removed && line.Kind == diff_engine.Changed:
			text = line.Old
		}
		out = append(out, Marker(kind)+" "+text)
	}
	return strings.Join(out, "\n")
}
