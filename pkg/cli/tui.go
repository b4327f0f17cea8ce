package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the color pair of the conversation view.
type Theme struct {
	Primary lipgloss.Color // speaker labels, prompt, title
	Dim     lipgloss.Color // narration echoes, status line, suggestions
}

// DefaultTheme is the soft cyan used by the interactive session.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#56d4dd"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles are the rendered styles of the conversation view: the session
// title, the input prompt, the per-message speaker label, and dim side
// notes (narration, voice-sample annotations, phase updates).
type Styles struct {
	Title   lipgloss.Style
	Prompt  lipgloss.Style
	Speaker lipgloss.Style
	Note    lipgloss.Style
}

// NewStyles derives conversation styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Padding(0, 1),
		Prompt:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Speaker: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Note:    lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// StatusLine renders an in-place processing-phase update. The carriage
// return overwrites the previous phase; trailing padding clears leftovers
// of a longer label.
func (s Styles) StatusLine(text string) string {
	return "\r" + s.Note.Render(text+strings.Repeat(" ", 8))
}

// SuggestionLine renders the tappable prompt strip, or "" when empty.
func (s Styles) SuggestionLine(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return s.Note.Render("try: " + strings.Join(items, " · "))
}
