package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"
	"github.com/meysamhadeli/stepdiff/code_outline/contracts"
	"github.com/meysamhadeli/stepdiff/code_outline/models"
	"github.com/meysamhadeli/stepdiff/constants/lipgloss"
	"github.com/meysamhadeli/stepdiff/diff_engine"
	"github.com/meysamhadeli/stepdiff/diff_stats"
	"github.com/meysamhadeli/stepdiff/playback"
	"github.com/meysamhadeli/stepdiff/render"
)

// Option configures a Model.
type Option func(*Model)

// WithOutliner enables the touched-symbols line, shown while show is true.
func WithOutliner(o contracts.IOutliner, show bool) Option {
	return func(m *Model) {
		m.outliner = o
		m.showOutline = show && o != nil
	}
}

// Model is the interactive player. It never advances playback itself: every key press becomes a scheduler
// intent, and the frame is redrawn from the scheduler's view.
type Model struct {
	scheduler  *playback.Scheduler
	renderOpts render.Options
	renderer   *render.Renderer

	outliner    contracts.IOutliner
	showOutline bool
	symbols     []models.Symbol

	keys     KeyMap
	help     help.Model
	viewport viewport.Model

	view     playback.View
	width    int
	height   int
	quitting bool
}

func New(scheduler *playback.Scheduler, opts render.Options, options ...Option) Model {
	m := Model{
		scheduler:  scheduler,
		renderOpts: opts,
		renderer:   render.NewRenderer(opts),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		viewport:   viewport.New(0, 0),
	}
	for _, opt := range options {
		opt(&m)
	}
	m.apply(scheduler.View())
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if m.renderOpts.Width == 0 {
			opts := m.renderOpts
			opts.Width = msg.Width
			m.renderer = render.NewRenderer(opts)
		}
		m.viewport.Width = msg.Width
		m.resize()
		m.viewport.SetContent(m.body())
		return m, nil

	case ViewMsg:
		v := playback.View(msg)
		if v.Revision <= m.view.Revision {
			return m, nil
		}
		m.apply(v)
		return m, nil

	case tea.KeyMsg:
		if handled, cmd := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.scheduler.Close()
		m.quitting = true
		return true, tea.Quit
	case key.Matches(msg, m.keys.Play):
		m.scheduler.TogglePlay()
	case key.Matches(msg, m.keys.Next):
		m.scheduler.Next()
	case key.Matches(msg, m.keys.Prev):
		m.scheduler.Prev()
	case key.Matches(msg, m.keys.NextFile):
		m.scheduler.SelectFile(m.view.State.FileIndex + 1)
	case key.Matches(msg, m.keys.PrevFile):
		m.scheduler.SelectFile(m.view.State.FileIndex - 1)
	case key.Matches(msg, m.keys.First):
		m.scheduler.StepTo(0)
	case key.Matches(msg, m.keys.Last):
		m.scheduler.StepTo(m.view.StepCount - 1)
	case key.Matches(msg, m.keys.Restart):
		m.scheduler.Restart()
	case key.Matches(msg, m.keys.Outline):
		m.showOutline = !m.showOutline && m.outliner != nil
		m.symbols = m.touched(m.view)
		m.resize()
		return true, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return true, nil
	default:
		if i, ok := fileDigit(msg); ok {
			m.scheduler.SelectFile(i)
			break
		}
		return false, nil
	}

	m.apply(m.scheduler.View())
	return true, nil
}

// fileDigit maps "1".."9" to a file index.
func fileDigit(msg tea.KeyMsg) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '1'), true
}

// apply makes v the displayed view. A new position scrolls back to the top.
func (m *Model) apply(v playback.View) {
	moved := v.State.StepIndex != m.view.State.StepIndex || v.State.FileIndex != m.view.State.FileIndex
	m.view = v
	m.symbols = m.touched(v)
	m.resize()
	m.viewport.SetContent(m.body())
	if moved {
		m.viewport.GotoTop()
	}
}

func (m *Model) touched(v playback.View) []models.Symbol {
	if !m.showOutline || v.Empty || v.File == "" {
		return nil
	}
	_, current := diff_engine.Sides(v.Lines)
	outline, err := m.outliner.Outline(context.Background(), v.File, []byte(current))
	if err != nil {
		return nil
	}
	return m.outliner.TouchedSymbols(outline, v.Lines)
}

// resize gives the viewport whatever height the header and footer leave.
func (m *Model) resize() {
	if m.height == 0 {
		return
	}
	h := m.height - gloss.Height(m.header()) - gloss.Height(m.footer())
	if h < 1 {
		h = 1
	}
	m.viewport.Height = h
}

func (m Model) body() string {
	if m.view.Empty {
		return ""
	}
	return m.renderer.Lines(m.view.File, m.view.Lines)
}

func (m Model) header() string {
	header := render.Header(m.view)
	if tabs := render.Tabs(m.view); tabs != "" {
		header += "\n" + tabs
	}
	return header
}

func (m Model) footer() string {
	var lines []string
	if !m.view.Empty {
		status := fmt.Sprintf("file %d/%d  %s", m.view.State.FileIndex+1, m.view.FileCount, diff_stats.Count(m.view.Lines))
		lines = append(lines, lipgloss.StatusBar.Render(status))
	}
	if m.showOutline && len(m.symbols) > 0 {
		names := make([]string, 0, len(m.symbols))
		for _, s := range m.symbols {
			names = append(names, s.Kind+" "+s.Name)
		}
		lines = append(lines, lipgloss.Muted.Render("touched: "+strings.Join(names, ", ")))
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.header() + "\n" + m.viewport.View() + "\n" + m.footer()
}

// Current returns the displayed view.
func (m Model) Current() playback.View {
	return m.view
}

// Symbols returns the symbols touched by the displayed diff, empty while the outline is hidden.
func (m Model) Symbols() []models.Symbol {
	return m.symbols
}

// Run starts the player full screen and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, scheduler *playback.Scheduler, bridge *Bridge, opts render.Options, options ...Option) error {
	p := tea.NewProgram(New(scheduler, opts, options...), tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(p, scheduler)
	defer bridge.Detach()
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
