// Package scantui renders a live per-target progress view for a scan run
// using Bubble Tea, fed by scanpipeline.ProgressReporter events rather than
// by polling the pipeline's Result.
package scantui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Status is a target row's lifecycle state.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusDone
	StatusFailed
)

// Row is one target's progress row.
type Row struct {
	Name     string
	Status   Status
	Findings int
	Err      error
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// StartedMsg reports that a target's walk/scan has begun.
type StartedMsg struct{ Name string }

// FinishedMsg reports that a target finished, successfully or not.
type FinishedMsg struct {
	Name     string
	Findings int
	Err      error
}

// DoneMsg signals that the whole run is over; the program should exit.
type DoneMsg struct{ Err error }

// Model is the Bubble Tea model for a scan's progress view.
type Model struct {
	spinner  spinner.Model
	rows     []Row
	index    map[string]int
	title    string
	done     bool
	runErr   error
	quitting bool
}

// New builds a Model with one pending row per target name, in order.
func New(title string, targetNames []string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	rows := make([]Row, len(targetNames))
	index := make(map[string]int, len(targetNames))
	for i, name := range targetNames {
		rows[i] = Row{Name: name, Status: StatusPending}
		index[name] = i
	}

	return Model{spinner: s, rows: rows, index: index, title: title}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StartedMsg:
		if i, ok := m.index[msg.Name]; ok {
			m.rows[i].Status = StatusRunning
		}
		return m, nil

	case FinishedMsg:
		if i, ok := m.index[msg.Name]; ok {
			m.rows[i].Findings = msg.Findings
			m.rows[i].Err = msg.Err
			if msg.Err != nil {
				m.rows[i].Status = StatusFailed
			} else {
				m.rows[i].Status = StatusDone
			}
		}
		return m, nil

	case DoneMsg:
		m.done = true
		m.runErr = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	if m.title != "" {
		b.WriteString(titleStyle.Render(m.title))
		b.WriteString("\n\n")
	}

	for _, row := range m.rows {
		var icon, line string
		switch row.Status {
		case StatusPending:
			icon = pendingStyle.Render("○")
			line = fmt.Sprintf("%s %s", icon, dimStyle.Render(row.Name))
		case StatusRunning:
			icon = m.spinner.View()
			line = fmt.Sprintf("%s %s", icon, row.Name)
		case StatusDone:
			icon = doneStyle.Render("✓")
			line = fmt.Sprintf("%s %s %s", icon, row.Name, dimStyle.Render(fmt.Sprintf("(%d findings)", row.Findings)))
		case StatusFailed:
			icon = failedStyle.Render("✗")
			line = fmt.Sprintf("%s %s %s", icon, row.Name, failedStyle.Render(errText(row.Err)))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.done {
		b.WriteString("\n")
		if m.runErr != nil {
			b.WriteString(failedStyle.Render("scan failed: " + m.runErr.Error()))
		} else {
			completed := 0
			for _, row := range m.rows {
				if row.Status == StatusDone {
					completed++
				}
			}
			b.WriteString(doneStyle.Render(fmt.Sprintf("done: %d/%d targets scanned", completed, len(m.rows))))
		}
	}

	return b.String()
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return "(" + err.Error() + ")"
}
