package playback

import (
	"sync"
	"time"

	"github.com/meysamhadeli/stepdiff/diff_engine"
	"github.com/meysamhadeli/stepdiff/playback/contracts"
	"github.com/meysamhadeli/stepdiff/timeline/models"
	"github.com/rs/zerolog"
)

// Scheduler owns the playback position of a step sequence and advances it on a timer.
//
// At most one advance callback is pending at any time: every transition cancels the armed timer before
// optionally arming a new one, and each callback carries the generation it was armed for, so a callback
// that lost the race with Stop is dropped instead of advancing twice.
//
// All methods are safe for concurrent use. Listeners run after the internal lock is released.
type Scheduler struct {
	mu sync.Mutex

	steps        models.StepSequence
	state        State
	lines        []diff_engine.Line
	revision     uint64
	defaultDelay time.Duration
	graceDelay   time.Duration

	differ    contracts.IDiffer
	clock     Clock
	logger    zerolog.Logger
	listeners []func(View)

	timer      Timer
	generation uint64
}

// New creates an idle scheduler positioned at the first step.
func New(steps models.StepSequence, opts ...Option) *Scheduler {
	s := &Scheduler{
		steps:        steps,
		defaultDelay: DefaultDelay,
		graceDelay:   DefaultGraceDelay,
		differ:       engineDiffer{},
		clock:        realClock{},
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.recompute()
	return s
}

// Play starts automatic advance from the current position. It does nothing when already playing or when
// there are no steps.
func (s *Scheduler) Play() {
	s.transition("play", func() {
		if s.state.Playing || len(s.steps) == 0 {
			return
		}
		s.state.Playing = true
		s.arm()
	})
}

// Pause stops automatic advance and cancels the pending advance.
func (s *Scheduler) Pause() {
	s.transition("pause", func() {
		s.cancel()
		s.state.Playing = false
	})
}

// TogglePlay switches between Play and Pause.
func (s *Scheduler) TogglePlay() {
	s.mu.Lock()
	playing := s.state.Playing
	s.mu.Unlock()

	if playing {
		s.Pause()
		return
	}
	s.Play()
}

// StepTo pauses and moves to step i, clamped to the sequence bounds.
func (s *Scheduler) StepTo(i int) {
	s.transition("step", func() {
		s.cancel()
		s.state = State{StepIndex: s.steps.Clamp(i)}
		s.recompute()
	})
}

// Next pauses and moves one step forward.
func (s *Scheduler) Next() {
	s.StepTo(s.State().StepIndex + 1)
}

// Prev pauses and moves one step back.
func (s *Scheduler) Prev() {
	s.StepTo(s.State().StepIndex - 1)
}

// Restart pauses and rewinds to the first file of the first step.
func (s *Scheduler) Restart() {
	s.transition("restart", func() {
		s.cancel()
		s.state = State{}
		s.recompute()
	})
}

// SelectFile pauses and shows the i-th changed file of the current step, clamped to the changed files.
func (s *Scheduler) SelectFile(i int) {
	s.transition("select_file", func() {
		s.cancel()
		s.state.Playing = false
		s.state.FileIndex = clamp(i, s.fileCount())
		s.recompute()
	})
}

// SetSteps replaces the sequence. The position is clamped to the new bounds and the diff recomputed; a
// running playback keeps running from the clamped position.
func (s *Scheduler) SetSteps(steps models.StepSequence) {
	s.transition("set_steps", func() {
		s.cancel()
		s.steps = steps
		if len(steps) == 0 {
			s.state = State{}
			s.recompute()
			return
		}
		s.state.StepIndex = steps.Clamp(s.state.StepIndex)
		s.state.FileIndex = clamp(s.state.FileIndex, s.fileCount())
		s.recompute()
		if s.state.Playing {
			s.arm()
		}
	})
}

// Close cancels any pending advance and pauses.
func (s *Scheduler) Close() {
	s.Pause()
}

// State returns the current position.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Lines returns the display lines of the current position.
func (s *Scheduler) Lines() []diff_engine.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines
}

// Tabs returns the file tabs of the current step: the changed files when there are any, every tracked file
// otherwise.
func (s *Scheduler) Tabs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tabs()
}

// CurrentFile returns the path of the displayed file, or "" when there is none.
func (s *Scheduler) CurrentFile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentFile()
}

// Empty reports whether the sequence has no steps.
func (s *Scheduler) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.steps) == 0
}

// View returns a snapshot of everything observable.
func (s *Scheduler) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// transition runs fn under the lock and notifies listeners when the observable state changed.
func (s *Scheduler) transition(name string, fn func()) {
	s.mu.Lock()
	before := s.state
	fn()
	if s.state == before && name != "set_steps" {
		s.mu.Unlock()
		return
	}
	s.revision++
	v := s.view()
	listeners := s.listeners
	s.mu.Unlock()

	s.logger.Debug().
		Str("intent", name).
		Int("step", v.State.StepIndex).
		Int("file", v.State.FileIndex).
		Bool("playing", v.State.Playing).
		Msg("playback transition")

	for _, notify := range listeners {
		notify(v)
	}
}

// fire is the timer callback armed for generation gen.
func (s *Scheduler) fire(gen uint64) {
	s.transition("tick", func() {
		if gen != s.generation || !s.state.Playing {
			return
		}
		s.timer = nil
		s.advance()
	})
}

// advance moves one file or one step forward, or pauses at the end of the sequence.
func (s *Scheduler) advance() {
	step := s.steps[s.state.StepIndex]
	last := s.state.StepIndex == len(s.steps)-1

	switch {
	case len(step.Changed) > 0 && s.state.FileIndex < len(step.Changed)-1:
		s.state.FileIndex++
	case !last:
		s.state.StepIndex++
		s.state.FileIndex = 0
	default:
		s.state.Playing = false
		return
	}
	s.recompute()
	s.arm()
}

// arm schedules the next advance for the current position, replacing any armed timer.
func (s *Scheduler) arm() {
	s.cancel()
	gen := s.generation
	s.timer = s.clock.AfterFunc(s.nextDelay(), func() { s.fire(gen) })
}

// cancel stops the armed timer. Bumping the generation invalidates a callback that is already running.
func (s *Scheduler) cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.generation++
}

// nextDelay is the effective delay of the current step. The pause-out at the very end of a sequence is
// bounded by the grace delay.
func (s *Scheduler) nextDelay() time.Duration {
	step := s.steps[s.state.StepIndex]
	d := s.defaultDelay
	if step.Delay > 0 {
		d = time.Duration(step.Delay) * time.Millisecond
	}
	if len(step.Changed) == 0 && s.state.StepIndex == len(s.steps)-1 && d > s.graceDelay {
		d = s.graceDelay
	}
	return d
}

// recompute refreshes the display lines for the current position.
func (s *Scheduler) recompute() {
	if len(s.steps) == 0 {
		s.lines = nil
		return
	}
	path := s.currentFile()
	if path == "" {
		s.lines = nil
		return
	}
	current, _ := s.steps[s.state.StepIndex].Files.Lookup(path)
	var previous string
	if s.state.StepIndex > 0 {
		previous, _ = s.steps[s.state.StepIndex-1].Files.Lookup(path)
	}
	s.lines = s.differ.Diff(previous, current, s.state.StepIndex == 0)
}

func (s *Scheduler) currentFile() string {
	if len(s.steps) == 0 {
		return ""
	}
	step := s.steps[s.state.StepIndex]
	if len(step.Changed) > 0 {
		return step.Changed[s.state.FileIndex]
	}
	if len(step.Files) > 0 {
		return step.Files[0].Path
	}
	return ""
}

func (s *Scheduler) tabs() []string {
	if len(s.steps) == 0 {
		return nil
	}
	step := s.steps[s.state.StepIndex]
	if len(step.Changed) > 0 {
		return step.Changed
	}
	return step.Files.Paths()
}

func (s *Scheduler) fileCount() int {
	if len(s.steps) == 0 {
		return 1
	}
	if n := len(s.steps[s.state.StepIndex].Changed); n > 0 {
		return n
	}
	return 1
}

func (s *Scheduler) view() View {
	v := View{
		Revision:  s.revision,
		State:     s.state,
		Empty:     len(s.steps) == 0,
		StepCount: len(s.steps),
		FileCount: s.fileCount(),
	}
	if v.Empty {
		return v
	}
	step := s.steps[s.state.StepIndex]
	v.StepID = step.ID
	v.Title = step.Title(s.state.StepIndex)
	v.File = s.currentFile()
	v.Tabs = s.tabs()
	v.Lines = s.lines
	return v
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
