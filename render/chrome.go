package render

import (
	"fmt"
	"strings"

	"github.com/meysamhadeli/stepdiff/constants/lipgloss"
	"github.com/meysamhadeli/stepdiff/playback"
)

// Header renders "Step N of M" with the step title and the play state.
func Header(view playback.View) string {
	if view.Empty {
		return lipgloss.Header.Render("No steps")
	}

	state := "paused"
	if view.State.Playing {
		state = "playing"
	}

	title := fmt.Sprintf("Step %d of %d", view.State.StepIndex+1, view.StepCount)
	if fallback := fmt.Sprintf("Step %d", view.State.StepIndex+1); view.Title != "" && view.Title != fallback {
		title += " · " + view.Title
	}
	return lipgloss.Header.Render(title) + " " + lipgloss.Muted.Render("["+state+"]")
}

// Tabs renders the file tabs of the current step with the displayed file highlighted.
func Tabs(view playback.View) string {
	if len(view.Tabs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(view.Tabs))
	for _, tab := range view.Tabs {
		if tab == view.File {
			parts = append(parts, lipgloss.TabActive.Render(tab))
		} else {
			parts = append(parts, lipgloss.TabInactive.Render(tab))
		}
	}
	return strings.Join(parts, "│")
}

// Frame renders the complete view: header, tabs and the diff of the displayed file.
func (r *Renderer) Frame(view playback.View) string {
	var sb strings.Builder
	sb.WriteString(Header(view))
	if view.Empty {
		return sb.String()
	}
	if tabs := Tabs(view); tabs != "" {
		sb.WriteString("\n")
		sb.WriteString(tabs)
	}
	sb.WriteString("\n\n")
	sb.WriteString(r.Lines(view.File, view.Lines))
	return sb.String()
}
