// Package tui runs one timed habit session in the terminal.
package tui

import (
	"fmt"
	"time"

	"github.com/brk3/habiterm/internal/logger"
	"github.com/brk3/habiterm/internal/timer"
	"github.com/brk3/habiterm/pkg/habit"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// CompleteFunc records a completion lasting elapsed.
type CompleteFunc func(elapsed time.Duration) error

// changedMsg tells the model the engine moved on. The model re-reads the
// engine, so late or reordered messages are harmless.
type changedMsg struct{}

type completedMsg struct {
	elapsed time.Duration
	err     error
}

type Model struct {
	habit    habit.Habit
	engine   *timer.Engine
	complete CompleteFunc
	now      func() time.Time

	keys     keyMap
	help     help.Model
	progress progress.Model

	snap      timer.Snapshot
	recording bool
	recorded  bool
	err       error
	width     int
}

func New(h habit.Habit, engine *timer.Engine, complete CompleteFunc) Model {
	return Model{
		habit:    h,
		engine:   engine,
		complete: complete,
		now:      time.Now,
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient()),
		snap:     engine.Snapshot(),
	}
}

// Run starts a session for h full screen and blocks until the user quits.
// Engine changes are pushed to the screen as they happen.
func Run(h habit.Habit, n timer.Notifier, complete CompleteFunc, opts ...timer.Option) error {
	var p *tea.Program
	changed := func(timer.Snapshot) {
		// The observer can run inside Update, where a blocking Send would
		// deadlock the event loop.
		go p.Send(changedMsg{})
	}
	engine := timer.NewEngineForHabit(h, n, append(opts, timer.WithObserver(changed))...)
	defer engine.Close()

	p = tea.NewProgram(New(h, engine, complete), tea.WithAltScreen(), tea.WithReportFocus())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = max(msg.Width-8, 10)
		return m, nil

	case changedMsg:
		m.snap = m.engine.Snapshot()
		return m, nil

	// Focus changes stand in for the app moving to and from the background.
	case tea.BlurMsg:
		m.engine.WillSuspend(m.now())
		m.snap = m.engine.Snapshot()
		return m, nil

	case tea.FocusMsg:
		m.engine.DidResume(m.now())
		m.snap = m.engine.Snapshot()
		return m, nil

	case completedMsg:
		m.recording = false
		if msg.err != nil {
			logger.Error("Failed to record completion", "habit_id", m.habit.ID, "error", msg.err)
			m.err = msg.err
			return m, nil
		}
		m.recorded = true
		m.engine.Close()
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.engine.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		switch m.engine.State() {
		case timer.Idle:
			m.engine.Start()
		case timer.Running:
			m.engine.Pause()
		case timer.Paused:
			m.engine.Resume()
		}

	case key.Matches(msg, m.keys.Reset):
		m.engine.Reset()
		m.err = nil

	case key.Matches(msg, m.keys.Complete):
		if m.recording || m.recorded {
			return m, nil
		}
		m.recording = true
		// Stop counting so the recorded duration matches what is shown.
		m.engine.Pause()
		elapsed := m.engine.Elapsed()
		complete := m.complete
		m.snap = m.engine.Snapshot()
		return m, func() tea.Msg {
			return completedMsg{elapsed: elapsed, err: complete(elapsed)}
		}
	}
	m.snap = m.engine.Snapshot()
	return m, nil
}

func (m Model) View() string {
	s := m.snap
	percent := 0.0
	if s.Total > 0 {
		percent = float64(s.Elapsed) / float64(s.Total)
	}

	status := stateStyle.Render(s.State.String())
	switch {
	case m.err != nil:
		status = dangerStyle.Render("could not record: " + m.err.Error())
	case m.recorded:
		status = successStyle.Render("recorded")
	case m.recording:
		status = stateStyle.Render("recording...")
	case s.State == timer.Finished:
		status = successStyle.Render("time's up, press c to record")
	}

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.habit.Name),
		clockStyle.Render(formatClock(s.Remaining)),
		"",
		m.progress.ViewAs(percent),
		"",
		status,
		"",
		m.help.View(m.keys),
	))
}

// formatClock renders d as MM:SS.
func formatClock(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
