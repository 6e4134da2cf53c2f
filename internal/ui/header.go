package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/easel/internal/gallery"
	"github.com/five82/easel/internal/imagesapi"
)

// renderHeader renders the title and fetch status line.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := newBarStyle(m.theme.Surface)

	parts := []string{
		bg.text("easel", styles.Logo),
		bg.text(fmt.Sprintf("%d images", len(m.images)), styles.Text),
	}
	if m.likes != nil {
		parts = append(parts, bg.text(fmt.Sprintf("%d liked", m.likes.Liked().Len()), styles.LikedText))
	}
	parts = append(parts, bg.text(fmt.Sprintf("next page %d", m.nextPage()), styles.MutedText))

	switch {
	case m.fetching:
		parts = append(parts, bg.text("fetching", styles.AccentText))
	case m.snapshot.IsOffline():
		parts = append(parts, bg.text("service unreachable", styles.DangerText))
	case m.snapshot.LastError != nil:
		label := "last fetch failed"
		if retryable(m.snapshot.LastError) {
			label += ", press n to retry"
		}
		parts = append(parts, bg.text(label, styles.WarningText))
	}
	if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, bg.text("updated "+m.snapshot.LastUpdated.Format("15:04:05"), styles.FaintText))
	}
	if m.results != nil {
		parts = append(parts, bg.text(fmt.Sprintf("%d matches", len(m.results)), styles.AccentText))
	}

	return bg.fill(bg.pad(1)+bg.join(parts, " · "), m.width)
}

// retryable reports whether a fetch failure is transient on the service side.
func retryable(err error) bool {
	var te *imagesapi.TransportError
	return errors.As(err, &te) && te.Temporary()
}

func (m Model) nextPage() int {
	if m.snapshot.NextPage == 0 {
		return 1
	}
	return m.snapshot.NextPage
}

// renderSearchBar renders the search input, or the applied term when blurred.
func (m Model) renderSearchBar() string {
	styles := m.theme.Styles()
	if m.input.Focused() || m.input.Value() != "" {
		return m.input.View()
	}
	return styles.FaintText.Render("press / to search")
}

// renderFooter shows the current toast, or key hints when there is none.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.toast == nil {
		return m.renderShortHelp()
	}
	msg := m.toast.n.Message
	switch m.toast.n.Level {
	case gallery.LevelSuccess:
		return styles.SuccessText.Render(msg)
	case gallery.LevelWarning:
		return styles.WarningText.Render(msg)
	default:
		return styles.DangerText.Render(msg)
	}
}

// renderLogs renders the log overlay.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	title := styles.Logo.Render("log") + " " + styles.FaintText.Render(truncate(m.logPath, maxInt(10, m.width-10)))
	hint := styles.MutedText.Render("j/k scroll · esc or L close")
	return lipgloss.JoinVertical(lipgloss.Left, title, m.logView.View(), hint)
}

// logContent joins formatted log lines, padding each to the viewport width.
func logContent(lines []string, width int) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = padRight(line, width)
	}
	return strings.Join(out, "\n")
}
