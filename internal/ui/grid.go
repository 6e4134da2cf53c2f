package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/easel/internal/gallery"
)

// gridColumns returns how many cards fit side by side.
func (m Model) gridColumns() int {
	if m.columns > 0 {
		return m.columns
	}
	return maxInt(1, m.width/cardOuterWidth)
}

// gridRows returns how many card rows fit below the chrome.
func (m Model) gridRows() int {
	return maxInt(1, (m.height-chromeLines)/cardOuterHeight)
}

// handleGridKey moves the selection. Reaching the last row of the unfiltered
// list requests the next page.
func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.items())
	if count == 0 {
		return m, nil
	}
	cols := m.gridColumns()

	switch {
	case key.Matches(msg, m.keys.Left):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Right):
		if m.selected < count-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected-cols >= 0 {
			m.selected -= cols
		}
	case key.Matches(msg, m.keys.Down):
		m.selected = minInt(m.selected+cols, count-1)
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = count - 1
	default:
		return m, nil
	}
	m.ensureVisible()

	if m.nearEnd(count) {
		cmd := m.requestPageCmd()
		return m, cmd
	}
	return m, nil
}

// nearEnd reports whether the selection sits on the last row of the full
// list. Search results never trigger paging.
func (m Model) nearEnd(count int) bool {
	if m.results != nil {
		return false
	}
	return m.selected/m.gridColumns() >= (count-1)/m.gridColumns()
}

// ensureVisible scrolls so the selected row is on screen.
func (m *Model) ensureVisible() {
	cols := m.gridColumns()
	rows := m.gridRows()
	row := m.selected / cols
	if row < m.top {
		m.top = row
	}
	if row >= m.top+rows {
		m.top = row - rows + 1
	}
	if m.top < 0 {
		m.top = 0
	}
}

// renderGrid renders the visible card rows.
func (m Model) renderGrid() string {
	styles := m.theme.Styles()
	items := m.items()
	if len(items) == 0 {
		var msg string
		switch {
		case m.results != nil:
			msg = fmt.Sprintf("No images match %q", m.term)
		case m.fetching:
			msg = m.spinner.View() + " Loading images..."
		default:
			msg = "No images yet. Press n to load a page."
		}
		return lipgloss.Place(m.width, maxInt(1, m.height-chromeLines), lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	}

	cols := m.gridColumns()
	rows := m.gridRows()
	first := m.top * cols
	last := minInt(len(items), first+rows*cols)

	var lines []string
	for start := first; start < last; start += cols {
		end := minInt(start+cols, last)
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, m.renderCard(items[i], i == m.selected, styles))
			if i < end-1 {
				cards = append(cards, strings.Repeat(" ", CardGap))
			}
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderCard renders one image card.
func (m Model) renderCard(item gallery.Item, selected bool, styles Styles) string {
	inner := CardWidth - 2

	title := styles.Text.Bold(true).Render(truncate(item.Title, inner))
	author := styles.MutedText.Render(truncate("by "+item.Author, inner))

	heart := styles.MutedText.Render(fmt.Sprintf("♡ %d", item.DisplayLikes))
	if item.Liked {
		heart = styles.LikedText.Render(fmt.Sprintf("♥ %d", item.DisplayLikes))
	}
	if m.pending[item.ID] {
		heart += " " + styles.FaintText.Render("…")
	}

	body := strings.Join([]string{title, author, heart, m.renderAsset(item, styles)}, "\n")
	if selected {
		return styles.CardSelected.Render(body)
	}
	return styles.Card.Render(body)
}

// renderAsset shows a spinner until the attachment probe completes.
func (m Model) renderAsset(item gallery.Item, styles Styles) string {
	inner := CardWidth - 2
	u := item.MainAttachment.PreferredURL()
	if u == "" {
		return styles.FaintText.Render("no attachment")
	}
	st, ok := m.probes[u]
	switch {
	case !ok:
		return styles.FaintText.Render(truncate(u, inner))
	case st.loading:
		return m.spinner.View() + styles.FaintText.Render(" loading")
	case st.err != nil:
		return styles.DangerText.Render("unavailable")
	}
	kind := st.asset.ContentType
	if kind == "" {
		kind = "unknown type"
	}
	return styles.FaintText.Render(truncate(kind+" · "+formatSize(st.asset.Size), inner))
}
