package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// barStyle renders header segments on a solid background. Styling each word
// and the spaces between them separately keeps the ANSI resets between
// segments from punching holes in the bar.
// See: https://github.com/charmbracelet/lipgloss/discussions/78
type barStyle struct {
	bg lipgloss.Color
}

func newBarStyle(color string) barStyle {
	return barStyle{bg: lipgloss.Color(color)}
}

// text renders s with style on the bar background.
func (b barStyle) text(s string, style lipgloss.Style) string {
	if s == "" {
		return ""
	}
	style = style.Background(b.bg)
	words := strings.Split(s, " ")
	for i, w := range words {
		if w != "" {
			words[i] = style.Render(w)
		}
	}
	return strings.Join(words, b.pad(1))
}

// pad returns n background-colored spaces.
func (b barStyle) pad(n int) string {
	return lipgloss.NewStyle().Background(b.bg).Render(strings.Repeat(" ", n))
}

// join joins rendered segments with a background-colored separator.
func (b barStyle) join(parts []string, sep string) string {
	return strings.Join(parts, lipgloss.NewStyle().Background(b.bg).Render(sep))
}

// fill pads content with the background to width.
func (b barStyle) fill(content string, width int) string {
	return lipgloss.NewStyle().Background(b.bg).Width(width).Render(content)
}
