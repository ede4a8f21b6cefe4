package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mmt/internal/migrate"
	"github.com/desertthunder/mmt/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ConfirmView ViewState = iota
	TransferView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	engine     *migrate.Engine
	remoteName string
	kinds      []models.EntityKind

	width    int
	height   int
	bar      progress.Model
	updates  chan migrate.ProgressUpdate
	current  migrate.ProgressUpdate
	reports  []*migrate.Report
	err      error
	help     help.Model
	keys     keyMap
	finished bool
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	yes  key.Binding
	no   key.Binding
	quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		yes: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y/enter", "start"),
		),
		no: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.yes, k.no, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.yes, k.no, k.quit}}
}

type progressUpdateMsg migrate.ProgressUpdate

type runCompleteMsg struct {
	reports []*migrate.Report
	err     error
}

// NewModel creates a new TUI model driving the given engine. kinds lists the
// collections the run will migrate, in order.
func NewModel(ctx context.Context, engine *migrate.Engine, remoteName string, kinds []models.EntityKind) *Model {
	return &Model{
		ctx:        ctx,
		view:       ConfirmView,
		engine:     engine,
		remoteName: remoteName,
		kinds:      kinds,
		bar:        progress.New(progress.WithDefaultGradient()),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init is a no-op; the run starts after confirmation.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			if msg.String() == "q" || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		default:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		}
		return m, nil

	case progressUpdateMsg:
		m.current = migrate.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.reports = msg.reports
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ConfirmView:
		return m.renderConfirm()
	case TransferView:
		return m.renderTransfer()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		return m, tea.Quit
	case "y", "enter":
		m.view = TransferView
		return m, m.startRun()
	}
	return m, nil
}

func (m *Model) startRun() tea.Cmd {
	m.updates = make(chan migrate.ProgressUpdate, 64)
	m.engine.SetUpdates(m.updates)

	go func() {
		var reports []*migrate.Report
		var err error
		for _, kind := range m.kinds {
			var report *migrate.Report
			report, err = m.engine.Run(m.ctx, kind)
			if report != nil {
				reports = append(reports, report)
			}
			if err != nil {
				break
			}
		}
		m.reports = reports
		m.err = err
		m.finished = true
		close(m.updates)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.updates
		if !ok {
			return runCompleteMsg{reports: m.reports, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderConfirm() string {
	kinds := make([]string, len(m.kinds))
	for i, kind := range m.kinds {
		kinds[i] = string(kind)
	}

	title := styles.title.Render(fmt.Sprintf("Migrate content from %s?", m.remoteName))
	info := fmt.Sprintf("\nCollections: %s\n", strings.Join(kinds, ", "))
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderTransfer() string {
	title := styles.title.Render(fmt.Sprintf("Migrating %s", m.current.Kind))

	var phase string
	switch m.current.Phase {
	case migrate.PhaseVerifying:
		phase = "Verifying access..."
	case migrate.PhaseFetching:
		phase = fmt.Sprintf("Fetching page %d", m.current.Page)
	case migrate.PhaseIngesting:
		phase = fmt.Sprintf("Ingesting page %d of %d", m.current.Page, m.current.TotalPages)
	case migrate.PhaseFailed:
		phase = styles.err.Render("Failed")
	default:
		phase = "Working..."
	}

	bar := m.bar.ViewAs(m.current.Percentage / 100)
	return fmt.Sprintf("%s\n\n%s\n%s\n%s", title, phase, bar, styles.help.Render(m.current.Message))
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Migration failed: %v\n\nPress q to quit", m.err))
	}

	var b strings.Builder
	b.WriteString(styles.ok.Render("✓ Migration Complete"))
	b.WriteString("\n")

	for _, report := range m.reports {
		b.WriteString(fmt.Sprintf("\n%s: %d created, %d referenced, %d skipped",
			report.Kind, report.Created, report.Referenced, report.Skipped))
		if report.Conflicted > 0 || report.Failed > 0 {
			b.WriteString(styles.warn.Render(fmt.Sprintf(" (%d conflicted, %d failed)", report.Conflicted, report.Failed)))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.quit}))
	return b.String()
}
