package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StepCompleteMsg marks the current step finished. A non-nil Err shows
// the step as failed but does not stop the run.
type StepCompleteMsg struct {
	Err error
}

// DoneMsg ends the program.
type DoneMsg struct{}

// ProgressModel is a minimal spinner display for multi-step pipelines.
type ProgressModel struct {
	spinner spinner.Model
	steps   []string
	errs    []error
	current int
	done    bool

	Quitting bool
}

func NewProgressModel(steps []string) ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	return ProgressModel{
		spinner: s,
		steps:   steps,
		errs:    make([]error, len(steps)),
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.Quitting = true
			return m, tea.Quit
		}
	case StepCompleteMsg:
		if m.current < len(m.steps) {
			m.errs[m.current] = msg.Err
			m.current++
		}
		return m, nil
	case DoneMsg:
		m.done = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m ProgressModel) View() string {
	var b strings.Builder
	for i, step := range m.steps {
		switch {
		case i < m.current && m.errs[i] != nil:
			fmt.Fprintf(&b, "  %s %s (%v)\n", slowerStyle.Render("✗"), step, m.errs[i])
		case i < m.current:
			fmt.Fprintf(&b, "  %s %s\n", fasterStyle.Render("✓"), step)
		case i == m.current && !m.done:
			fmt.Fprintf(&b, "  %s %s\n", m.spinner.View(), step)
		default:
			fmt.Fprintf(&b, "    %s\n", neutralStyle.Render(step))
		}
	}
	return b.String()
}
