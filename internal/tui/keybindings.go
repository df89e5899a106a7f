// Package tui: keyboard binding configuration.
package tui

// Keymap defines all keyboard shortcuts for the artifact browser.
type Keymap struct {
	Quit    string
	NavUp   string
	NavDown string
	Select  string
	Refresh string
	Built   string
	Publish string
	All     string
	Help    string
}

// defaultKeymap returns the default browser key bindings.
func defaultKeymap() Keymap {
	return Keymap{
		Quit:    "q",
		NavUp:   "up",
		NavDown: "down",
		Select:  "enter",
		Refresh: "r",
		Built:   "b",
		Publish: "p",
		All:     "a",
		Help:    "?",
	}
}

// HelpText returns the keyboard shortcut reference shown in the footer help.
func HelpText() string {
	return `
  NAVIGATION
  ──────────────────────────────────────
  ↑↓  /  j k        Navigate artifacts
  Enter              Toggle detail panel

  FILTERS
  ──────────────────────────────────────
  a                  All artifacts
  b                  Built only
  p                  Published only

  MISC
  ──────────────────────────────────────
  r                  Refresh from registry
  ?                  Toggle this help
  q                  Quit
`
}
