package diff_stats

import (
	"fmt"
	"strings"
	"sync"

	"github.com/meysamhadeli/stepdiff/constants/lipgloss"
	"github.com/meysamhadeli/stepdiff/diff_engine"
	"github.com/meysamhadeli/stepdiff/diff_stats/contracts"
)

// Tally counts the line kinds of one diff.
type Tally struct {
	Unchanged int
	Added     int
	Removed   int
	Changed   int
}

// Count tallies the kinds of lines.
func Count(lines []diff_engine.Line) Tally {
	var t Tally
	for _, line := range lines {
		switch line.Kind {
		case diff_engine.Unchanged:
			t.Unchanged++
		case diff_engine.Added:
			t.Added++
		case diff_engine.Removed:
			t.Removed++
		case diff_engine.Changed:
			t.Changed++
		}
	}
	return t
}

func (t Tally) Plus(o Tally) Tally {
	return Tally{
		Unchanged: t.Unchanged + o.Unchanged,
		Added:     t.Added + o.Added,
		Removed:   t.Removed + o.Removed,
		Changed:   t.Changed + o.Changed,
	}
}

// String formats the touched lines as "+a -r ~c".
func (t Tally) String() string {
	return fmt.Sprintf("+%d -%d ~%d", t.Added, t.Removed, t.Changed)
}

// StepTally is the tally of one file diff of one step.
type StepTally struct {
	Step int
	Path string
	Tally
}

// StatsManager accumulates tallies across the diffs shown in a session.
type StatsManager struct {
	mu      sync.Mutex
	entries []StepTally
	total   Tally
}

// NewStatsManager creates an empty stats accumulator.
func NewStatsManager() *StatsManager {
	return &StatsManager{}
}

var _ contracts.IDiffStats = (*StatsManager)(nil)

// Record adds the tally of one displayed diff.
func (sm *StatsManager) Record(step int, path string, lines []diff_engine.Line) {
	t := Count(lines)

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.entries = append(sm.entries, StepTally{Step: step, Path: path, Tally: t})
	sm.total = sm.total.Plus(t)
}

// Entries returns the recorded tallies in record order.
func (sm *StatsManager) Entries() []StepTally {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return append([]StepTally(nil), sm.entries...)
}

// Total returns the sum of every recorded tally.
func (sm *StatsManager) Total() Tally {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.total
}

// Render formats the totals in a box.
func (sm *StatsManager) Render() string {
	sm.mu.Lock()
	total, diffs := sm.total, len(sm.entries)
	sm.mu.Unlock()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Diffs: %d - ", diffs))
	sb.WriteString(lipgloss.AddedLine.Render(fmt.Sprintf("+%d added", total.Added)))
	sb.WriteString(" ")
	sb.WriteString(lipgloss.RemovedLine.Render(fmt.Sprintf("-%d removed", total.Removed)))
	sb.WriteString(" ")
	sb.WriteString(lipgloss.ChangedLine.Render(fmt.Sprintf("~%d changed", total.Changed)))
	sb.WriteString(fmt.Sprintf(" - %d unchanged", total.Unchanged))
	return lipgloss.BoxStyle.Render(sb.String())
}

func (sm *StatsManager) DisplayStats() {
	fmt.Println(sm.Render())
}

// DisplayLiveStats rewrites the current terminal line with the tally of lines.
func (sm *StatsManager) DisplayLiveStats(lines []diff_engine.Line) {
	fmt.Printf("\rLines: %s", Count(lines))
}

func (sm *StatsManager) GetCurrentStats() (added int, removed int, changed int) {
	t := sm.Total()
	return t.Added, t.Removed, t.Changed
}

func (sm *StatsManager) ClearStats() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.entries = nil
	sm.total = Tally{}
}
