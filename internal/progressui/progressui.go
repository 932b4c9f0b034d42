// Package progressui renders a relocation run as an interactive terminal view.
//
// The view drains run events on the bubbletea event loop: a progress bar for
// position, the current item, and a short tail of log lines. Ctrl+C, q or Esc
// request cancellation; the view stays up until the worker confirms it has
// stopped so the last lines on screen reflect what actually happened.
package progressui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"handyman/internal/relocate"
)

// tailLines is how many recent log lines stay on screen.
const tailLines = 8

// Source is the slice of a relocation run the view needs.
type Source interface {
	ID() string
	Events() <-chan relocate.Event
	Cancel()
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	logStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	doneStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

type eventMsg struct {
	event relocate.Event
	ok    bool
}

// Model is the bubbletea model for one run.
type Model struct {
	title      string
	source     Source
	bar        progress.Model
	current    int
	total      int
	percent    int
	label      string
	logs       []string
	summary    *relocate.Summary
	cancelling bool
}

// NewModel builds the view for source.
func NewModel(title string, source Source) Model {
	return Model{
		title:  title,
		source: source,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(50)),
	}
}

func (m Model) waitForEvent() tea.Cmd {
	events := m.source.Events()
	return func() tea.Msg {
		ev, ok := <-events
		return eventMsg{event: ev, ok: ok}
	}
}

func (m Model) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.cancelling {
				m.cancelling = true
				m.source.Cancel()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		width := msg.Width - 4
		if width > 80 {
			width = 80
		}
		if width > 10 {
			m.bar.Width = width
		}
		return m, nil

	case eventMsg:
		if !msg.ok {
			return m, tea.Quit
		}
		switch ev := msg.event.(type) {
		case relocate.ProgressEvent:
			m.current, m.total, m.percent, m.label = ev.Current, ev.Total, ev.Percent, ev.Label
		case relocate.LogEvent:
			m.logs = append(m.logs, ev.Message)
			if len(m.logs) > tailLines {
				m.logs = m.logs[len(m.logs)-tailLines:]
			}
		case relocate.DoneEvent:
			summary := ev.Summary
			m.summary = &summary
		}
		return m, m.waitForEvent()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	if id := m.source.ID(); id != "" {
		if len(id) > 8 {
			id = id[:8]
		}
		b.WriteString(" ")
		b.WriteString(logStyle.Render("run " + id))
	}
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(float64(m.percent) / 100))
	fmt.Fprintf(&b, "  %d/%d\n", m.current, m.total)
	if m.label != "" {
		b.WriteString(labelStyle.Render(m.label))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	for _, line := range m.logs {
		b.WriteString(styleLogLine(line))
		b.WriteString("\n")
	}

	switch {
	case m.summary != nil && m.summary.Cancelled:
		b.WriteString(warningStyle.Render("Cancelled."))
	case m.summary != nil:
		b.WriteString(doneStyle.Render("Done."))
	case m.cancelling:
		b.WriteString(warningStyle.Render("Cancelling after the current item..."))
	default:
		b.WriteString(logStyle.Render("ctrl+c to cancel"))
	}
	b.WriteString("\n")
	return b.String()
}

// Summary returns the run summary once the DoneEvent has arrived.
func (m Model) Summary() (relocate.Summary, bool) {
	if m.summary == nil {
		return relocate.Summary{}, false
	}
	return *m.summary, true
}

func styleLogLine(line string) string {
	switch {
	case strings.HasPrefix(line, "Error"):
		return errorStyle.Render(line)
	case strings.HasPrefix(line, "Skipped"), strings.HasPrefix(line, "Could not"):
		return warningStyle.Render(line)
	default:
		return logStyle.Render(line)
	}
}

// Run shows the view on out until the run's event stream closes and returns
// the run summary.
func Run(title string, run *relocate.Run, in io.Reader, out io.Writer) (relocate.Summary, error) {
	program := tea.NewProgram(NewModel(title, run), tea.WithInput(in), tea.WithOutput(out))
	final, err := program.Run()
	if err != nil {
		// the view failed; stop the worker and keep the summary honest
		run.Cancel()
		for range run.Events() {
		}
		return run.Wait(), fmt.Errorf("progress view: %w", err)
	}
	if m, ok := final.(Model); ok {
		if summary, ok := m.Summary(); ok {
			return summary, nil
		}
	}
	return run.Wait(), nil
}
