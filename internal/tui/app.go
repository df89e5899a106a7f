// Package tui defines the Bubble Tea model for the orion artifact browser.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	v1 "github.com/peaqe/orion-utils/api/v1"
	"github.com/peaqe/orion-utils/internal/core/logger"
	"github.com/peaqe/orion-utils/internal/core/state"
)

// Config carries dependencies into the browser.
type Config struct {
	State *state.DB
	Log   *logger.Logger
}

// Model is the root Bubble Tea model (Elm architecture).
type Model struct {
	cfg Config

	// Dimensions
	width  int
	height int

	// Data
	artifacts []v1.ArtifactRecord
	filter    v1.ArtifactStatus // "" means all

	// Components
	table      table.Model
	showDetail bool
	showHelp   bool

	// Error state
	lastError error

	// Theme
	styles Styles
}

// artifactListMsg carries a fresh artifact listing from the registry.
type artifactListMsg []v1.ArtifactRecord

// errMsg carries an error to display in the footer.
type errMsg error

// New constructs a new browser Model.
func New(cfg Config) *Model {
	styles := newStyles()

	columns := []table.Column{
		{Title: "COLLECTION", Width: 30},
		{Title: "VERSION", Width: 10},
		{Title: "TEMPLATE", Width: 16},
		{Title: "STATUS", Width: 10},
		{Title: "BUILT", Width: 18},
	}
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		Foreground(styles.Muted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true)
	ts.Selected = styles.TableRowSel

	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithStyles(ts),
	)

	return &Model{cfg: cfg, table: tbl, styles: styles}
}

// ─────────────────────────────────────────────────────────────────────────────
// Init
// ─────────────────────────────────────────────────────────────────────────────

func (m *Model) Init() tea.Cmd {
	return m.loadArtifactsCmd()
}

// ─────────────────────────────────────────────────────────────────────────────
// Update
// ─────────────────────────────────────────────────────────────────────────────

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetHeight(m.height - 6)

	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}

	case artifactListMsg:
		m.artifacts = msg
		m.table.SetRows(m.rows())
		m.lastError = nil

	case errMsg:
		m.lastError = msg
	}

	var tblCmd tea.Cmd
	m.table, tblCmd = m.table.Update(msg)
	cmds = append(cmds, tblCmd)

	return m, tea.Batch(cmds...)
}

// handleKey processes keyboard input. A non-nil cmd short-circuits the table update.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	kb := defaultKeymap()

	switch msg.String() {
	case kb.Quit, "ctrl+c":
		return tea.Quit

	case kb.Refresh:
		return m.loadArtifactsCmd()

	case kb.All:
		m.filter = ""
		return m.loadArtifactsCmd()

	case kb.Built:
		m.filter = v1.ArtifactBuilt
		return m.loadArtifactsCmd()

	case kb.Publish:
		m.filter = v1.ArtifactPublished
		return m.loadArtifactsCmd()

	case kb.Select:
		m.showDetail = !m.showDetail

	case kb.Help:
		m.showHelp = !m.showHelp
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// View
// ─────────────────────────────────────────────────────────────────────────────

func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.styles.Header.Width(m.width).Render(
		fmt.Sprintf("✦ ORION — artifact registry (%d)", len(m.artifacts)))

	body := m.styles.TableBorder.Render(m.table.View())
	if m.showHelp {
		body = HelpText()
	} else if m.showDetail {
		body = lipgloss.JoinVertical(lipgloss.Left, body, m.renderDetail())
	}

	footer := m.styles.Footer.Width(m.width).Render(m.footerText())

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) renderDetail() string {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.artifacts) {
		return ""
	}
	rec := m.artifacts[idx]

	kv := func(k, v string) string {
		return m.styles.DetailLabel.Render(k) + v
	}
	lines := []string{
		kv("FQCN", rec.FQCN()),
		kv("Version", rec.Version),
		kv("Key", rec.Key),
		kv("File", rec.Filename),
		kv("Checksum", rec.Checksum),
	}
	if rec.Status == v1.ArtifactPublished {
		lines = append(lines, kv("Server", rec.Server),
			kv("Published", rec.PublishedAt.Format(time.RFC3339)))
	}
	return m.styles.Detail.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) footerText() string {
	k := m.styles.FooterKey
	help := k.Render("r") + " refresh  " + k.Render("a/b/p") + " filter  " +
		k.Render("enter") + " detail  " + k.Render("q") + " quit"
	if m.lastError != nil {
		return m.styles.StatusErr.Render("✗ "+m.lastError.Error()) + "  " + help
	}
	if m.filter != "" {
		return fmt.Sprintf("filter: %s  %s", m.filter, help)
	}
	return help
}

func (m *Model) rows() []table.Row {
	rows := make([]table.Row, 0, len(m.artifacts))
	for _, rec := range m.artifacts {
		rows = append(rows, table.Row{
			rec.FQCN(),
			rec.Version,
			rec.Template,
			string(rec.Status),
			rec.BuiltAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return rows
}

// ─────────────────────────────────────────────────────────────────────────────
// Commands (async data fetchers)
// ─────────────────────────────────────────────────────────────────────────────

func (m *Model) loadArtifactsCmd() tea.Cmd {
	return func() tea.Msg {
		recs, err := m.cfg.State.ListArtifacts(m.filter)
		if err != nil {
			return errMsg(err)
		}
		return artifactListMsg(recs)
	}
}
