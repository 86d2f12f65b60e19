package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/meysamhadeli/stepdiff/playback"
)

// ViewMsg carries a scheduler view into the program loop.
type ViewMsg playback.View

type sender interface {
	Send(msg tea.Msg)
}

// Bridge forwards scheduler views to a running program. The scheduler is built before the program exists,
// so the program is attached afterwards; views published before that are dropped and replaced by the view
// current at attach time.
type Bridge struct {
	mu      sync.Mutex
	program sender
}

// Attach connects p and sends it the scheduler's current view.
func (b *Bridge) Attach(p *tea.Program, scheduler *playback.Scheduler) {
	b.attach(p, scheduler)
}

// Detach stops forwarding.
func (b *Bridge) Detach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.program = nil
}

func (b *Bridge) attach(s sender, scheduler *playback.Scheduler) {
	b.mu.Lock()
	b.program = s
	b.mu.Unlock()

	// Pulled after attaching, so a transition published in between is either in this view or notified.
	go s.Send(ViewMsg(scheduler.View()))
}

// Notify is a scheduler listener. Transitions triggered from Update run on the program goroutine, where a
// blocking Send would deadlock, so the message is sent asynchronously and ordering is restored by Revision.
func (b *Bridge) Notify(v playback.View) {
	b.mu.Lock()
	p := b.program
	b.mu.Unlock()
	if p == nil {
		return
	}
	go p.Send(ViewMsg(v))
}
