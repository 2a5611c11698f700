// Package styles holds the palette and lipgloss styles of the docqa TUI.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SourcesHeading starts the citation footer the chat service appends to answers.
const SourcesHeading = "**Sources:**"

// Theme is the colour palette.
type Theme struct {
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
	Bar        lipgloss.Color

	// Citation colours the file and page lines under an answer.
	Citation lipgloss.Color
}

// DefaultTheme returns the dark palette used unless another is supplied.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:     lipgloss.Color("#2F9E8F"),
		Secondary:  lipgloss.Color("#E0A458"),
		Foreground: lipgloss.Color("#D8DEE9"),
		Muted:      lipgloss.Color("#7B8494"),
		Success:    lipgloss.Color("#8FBC6B"),
		Warning:    lipgloss.Color("#EBCB8B"),
		Error:      lipgloss.Color("#D9717D"),
		Border:     lipgloss.Color("#4C566A"),
		Bar:        lipgloss.Color("#1F2430"),
		Citation:   lipgloss.Color("#88A9D0"),
	}
}

// Styles are the rendered styles built from a Theme.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style

	// UserRole and AssistantRole label chat turns.
	UserRole      lipgloss.Style
	AssistantRole lipgloss.Style

	// Citation renders the sources footer of an answer.
	Citation lipgloss.Style

	// Fallback marks answers built from retrieved text after a model timeout.
	Fallback lipgloss.Style

	// Checked and Unchecked render the document selection boxes.
	Checked   lipgloss.Style
	Unchecked lipgloss.Style
}

// NewStyles builds styles from theme, or from DefaultTheme when nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	fg := lipgloss.NewStyle().Foreground
	return &Styles{
		theme: theme,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		Normal:   fg(theme.Foreground),
		Muted:    fg(theme.Muted),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Accent),
		Error:   fg(theme.Error),
		Success: fg(theme.Success),
		Warning: fg(theme.Warning),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),
		Help: fg(theme.Muted),

		UserRole:      lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		AssistantRole: lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Citation:      lipgloss.NewStyle().Italic(true).Foreground(theme.Citation),
		Fallback:      lipgloss.NewStyle().Bold(true).Foreground(theme.Warning),
		Checked:       lipgloss.NewStyle().Bold(true).Foreground(theme.Success),
		Unchecked:     fg(theme.Muted),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Checkbox renders the selection box of a document row.
func (s *Styles) Checkbox(checked bool) string {
	if checked {
		return s.Checked.Render("[x]")
	}
	return s.Unchecked.Render("[ ]")
}

// FallbackNote renders the marker shown under a fallback answer.
func (s *Styles) FallbackNote() string {
	return s.Fallback.Render("! Model timed out; answer is an excerpt of the best match")
}

// SplitSources separates an answer from its citation footer. The footer
// lines are returned without the heading; an answer without one yields nil.
func SplitSources(content string) (answer string, sources []string) {
	idx := strings.LastIndex(content, SourcesHeading)
	if idx < 0 {
		return content, nil
	}
	for _, line := range strings.Split(content[idx+len(SourcesHeading):], "\n") {
		if line = strings.TrimSpace(line); line != "" {
			sources = append(sources, line)
		}
	}
	return strings.TrimRight(content[:idx], "\n "), sources
}
