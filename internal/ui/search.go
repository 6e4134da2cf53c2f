package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/easel/internal/imagesapi"
)

// handleSearchKey routes keys to the focused search input. Every edit bumps
// the sequence and schedules a debounce tick; only the newest tick applies.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		return m.clearSearch()
	case key.Matches(msg, m.keys.Confirm):
		m.input.Blur()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}

	m.searchSeq++
	seq := m.searchSeq
	debounce := tea.Tick(SearchDebounce, func(_ time.Time) tea.Msg {
		return searchTickMsg{seq: seq}
	})
	return m, tea.Batch(cmd, debounce)
}

// handleSearchTick applies the input's term if no newer edit happened since
// the tick was scheduled.
func (m Model) handleSearchTick(msg searchTickMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.searchSeq {
		return m, nil
	}
	m.applyTerm(m.input.Value())
	return m, nil
}

// applyTerm runs term against the index. A blank term is never queried; it
// clears filtering instead.
func (m *Model) applyTerm(term string) {
	term = strings.TrimSpace(term)
	m.selected = 0
	m.top = 0
	if term == "" {
		m.term = ""
		m.results = nil
		return
	}
	m.term = term
	m.results = m.query(term)
	m.log.Debug().Str("term", term).Int("hits", len(m.results)).Msg("search")
}

// query returns a non-nil slice so an empty result set still reads as an
// active search.
func (m Model) query(term string) []imagesapi.Image {
	if m.search == nil {
		return []imagesapi.Image{}
	}
	results := m.search.Query(term)
	if results == nil {
		results = []imagesapi.Image{}
	}
	return results
}

// clearSearch empties and blurs the input and drops any pending tick.
func (m Model) clearSearch() (tea.Model, tea.Cmd) {
	m.input.SetValue("")
	m.input.Blur()
	m.searchSeq++
	m.applyTerm("")
	return m, nil
}
