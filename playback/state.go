package playback

import (
	"github.com/meysamhadeli/stepdiff/diff_engine"
)

// State is the playback position and the play/pause flag.
type State struct {
	StepIndex int
	FileIndex int
	Playing   bool
}

// View is everything a renderer needs to draw the current frame.
//
// FileCount is the number of file sub-animations of the current step, at least 1.
// Lines and Tabs must be treated as read-only. Revision increases with every transition, so a consumer
// receiving views from several goroutines can drop stale ones.
type View struct {
	Revision  uint64
	State     State
	Empty     bool
	StepCount int
	FileCount int
	StepID    string
	Title     string
	File      string
	Tabs      []string
	Lines     []diff_engine.Line
}

// AtEnd reports whether the position is the last file of the last step.
func (v View) AtEnd() bool {
	if v.Empty {
		return true
	}
	return v.State.StepIndex == v.StepCount-1 && v.State.FileIndex >= v.FileCount-1
}
