package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"phorg/internal/domain"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseScanning Phase = iota
	PhaseOrganizing
	PhaseCancelling
	PhaseDone
	PhaseError
)

// Messages delivered by the run driving the organizer in the background.
type (
	// ProgressMsg reports per-file completion ticks. The first tick carries
	// the enumeration total and flips the view from scanning to organizing.
	ProgressMsg struct {
		Done  int
		Total int
	}
	// DoneMsg carries the finished run summary.
	DoneMsg struct {
		Summary domain.Summary
	}
	ErrorMsg struct {
		Err error
	}
	tickMsg time.Time
)

// Config for the TUI
type Config struct {
	Source string
	Target string
	DryRun bool
	Copy   bool

	// Cancel stops the underlying run; the model still waits for its
	// DoneMsg or ErrorMsg before quitting.
	Cancel func()
}

// Model renders one organizing run: a scan spinner, then a progress bar,
// then a short completion note. The full summary is printed by the caller
// after the program exits, so it survives in the scrollback.
type Model struct {
	config   Config
	Phase    Phase
	Summary  domain.Summary
	Err      error
	Quitting bool

	spinner  spinner.Model
	progress progress.Model
	done     int
	total    int
	width    int
}

// NewModel creates a new TUI model
func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:   cfg,
		Phase:    PhaseScanning,
		spinner:  s,
		progress: p,
		width:    80,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(msg.Width-20, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.Phase == PhaseCancelling {
				// Second press: stop waiting for the run to wind down.
				m.Quitting = true
				return m, tea.Quit
			}
			if m.config.Cancel != nil {
				m.config.Cancel()
			}
			m.Phase = PhaseCancelling
			return m, nil
		}

	case ProgressMsg:
		m.done = msg.Done
		m.total = msg.Total
		if m.Phase == PhaseScanning {
			m.Phase = PhaseOrganizing
		}
		return m, nil

	case DoneMsg:
		m.Summary = msg.Summary
		m.Phase = PhaseDone
		return m, tea.Quit

	case ErrorMsg:
		m.Err = msg.Err
		m.Phase = PhaseError
		return m, tea.Quit

	case spinner.TickMsg:
		if m.Phase == PhaseScanning || m.Phase == PhaseOrganizing || m.Phase == PhaseCancelling {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tickMsg:
		if m.Phase == PhaseOrganizing && m.total > 0 {
			return m, tea.Batch(
				m.progress.SetPercent(float64(m.done)/float64(m.total)),
				tickCmd(),
			)
		}
		return m, tickCmd()
	}

	return m, nil
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseScanning:
		b.WriteString(fmt.Sprintf("%s Scanning files...", m.spinner.View()))
	case PhaseOrganizing:
		b.WriteString(m.renderOrganizing())
	case PhaseCancelling:
		b.WriteString(fmt.Sprintf("%s Cancelling, finishing files in flight...", m.spinner.View()))
	case PhaseDone:
		b.WriteString(m.renderDone())
	case PhaseError:
		b.WriteString(m.renderError())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("📂 phorg")
	subtitle := subtitleStyle.Render("Files sorted by the day they were taken")

	verb := "Moving to"
	if m.config.Copy {
		verb = "Copying to"
	}

	lines := []string{
		title,
		subtitle,
		"",
		dimStyle.Render(fmt.Sprintf("%s Source: %s", iconFolder, shortenPath(m.config.Source))),
		dimStyle.Render(fmt.Sprintf("%s %s: %s", iconFolder, verb, shortenPath(m.config.Target))),
	}
	if m.config.DryRun {
		lines = append(lines, warningStyle.Render(fmt.Sprintf("%s Dry run: nothing will be changed", iconWarn)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderOrganizing() string {
	percent := 0.0
	if m.total > 0 {
		percent = float64(m.done) / float64(m.total)
	}

	var b strings.Builder
	b.WriteString(sectionStyle.Render("Organizing"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s Working...\n\n", m.spinner.View()))
	b.WriteString(fmt.Sprintf("  %s\n", m.progress.ViewAs(percent)))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		countStyle.Render(fmt.Sprintf("%d/%d files", m.done, m.total)),
		dimStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
	))
	return b.String()
}

func (m Model) renderDone() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Done"))
	b.WriteString("\n\n")
	if m.Summary.OK() {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			successStyle.Render(iconSuccess),
			successStyle.Render("All files processed"),
		))
	} else {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			warningStyle.Render(iconWarn),
			warningStyle.Render(fmt.Sprintf("%d file(s) failed", len(m.Summary.Failed))),
		))
	}
	b.WriteString(fmt.Sprintf("  %s  %s\n",
		statLabelStyle.Render("Processed:"),
		statValueStyle.Render(fmt.Sprintf("%d files", m.Summary.Total)),
	))
	return b.String()
}

func (m Model) renderError() string {
	icon := errorStyle.Render(iconError)
	msg := errorStyle.Render(fmt.Sprintf("Error: %s", m.Err.Error()))
	return highlightBoxStyle.
		BorderForeground(errorColor).
		Render(fmt.Sprintf("%s %s", icon, msg))
}

func (m Model) renderHelp() string {
	var help string
	switch m.Phase {
	case PhaseScanning, PhaseOrganizing:
		help = "Press q to cancel"
	case PhaseCancelling:
		help = "Finishing up... press q again to abandon"
	default:
		return ""
	}
	return helpStyle.Render(help)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// shortenPath replaces the home directory prefix with ~ for display
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
