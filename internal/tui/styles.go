// Package tui: Lipgloss style constants for the "Orion Dark" theme.
package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all theme-aware Lipgloss styles.
type Styles struct {
	// Colors
	Background lipgloss.Color
	Surface    lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Danger     lipgloss.Color
	Warning    lipgloss.Color
	Success    lipgloss.Color
	Muted      lipgloss.Color
	Text       lipgloss.Color

	// Component styles
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	TableBorder lipgloss.Style
	TableHeader lipgloss.Style
	TableRowSel lipgloss.Style
	Detail      lipgloss.Style
	DetailLabel lipgloss.Style
	Footer      lipgloss.Style
	FooterKey   lipgloss.Style
	StatusOK    lipgloss.Style
	StatusWarn  lipgloss.Style
	StatusErr   lipgloss.Style
}

// newStyles returns the "Orion Dark" theme styles.
func newStyles() Styles {
	bg := lipgloss.Color("#12100D")
	surface := lipgloss.Color("#221E18")
	primary := lipgloss.Color("#D98E48")
	accent := lipgloss.Color("#5EC2D8")
	danger := lipgloss.Color("#F56565")
	warning := lipgloss.Color("#ECC94B")
	success := lipgloss.Color("#68D391")
	muted := lipgloss.Color("#4A5568")
	text := lipgloss.Color("#E2E8F0")

	return Styles{
		Background: bg, Surface: surface, Primary: primary,
		Accent: accent, Danger: danger, Warning: warning,
		Success: success, Muted: muted, Text: text,

		Header: lipgloss.NewStyle().
			Background(primary).Foreground(bg).
			Bold(true).Padding(0, 1),

		HeaderTitle: lipgloss.NewStyle().
			Foreground(accent).Bold(true),

		TableBorder: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(muted),

		TableHeader: lipgloss.NewStyle().
			Foreground(muted).Bold(true),

		TableRowSel: lipgloss.NewStyle().
			Background(surface).Foreground(accent).Bold(true),

		Detail: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),

		DetailLabel: lipgloss.NewStyle().
			Foreground(primary).Bold(true).Width(12),

		Footer: lipgloss.NewStyle().
			Background(surface).Foreground(muted).
			Padding(0, 1),

		FooterKey: lipgloss.NewStyle().
			Foreground(primary).Bold(true),

		StatusOK:   lipgloss.NewStyle().Foreground(success),
		StatusWarn: lipgloss.NewStyle().Foreground(warning),
		StatusErr:  lipgloss.NewStyle().Foreground(danger),
	}
}
