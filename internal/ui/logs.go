package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/easel/internal/logtail"
)

// readLogsCmd reads the tail of the log file.
func (m Model) readLogsCmd() tea.Cmd {
	path := m.logPath
	if path == "" {
		return func() tea.Msg { return logLinesMsg{} }
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogOverlayLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

// handleLogLines fills the log viewport and jumps to the newest line.
func (m *Model) handleLogLines(msg logLinesMsg) {
	if msg.err != nil {
		m.logView.SetContent("could not read log: " + msg.err.Error())
		return
	}
	if len(msg.lines) == 0 {
		m.logView.SetContent("log is empty")
		return
	}
	m.logView.SetContent(logContent(logtail.FormatLines(msg.lines), m.logView.Width))
	m.logView.GotoBottom()
}

// handleLogsKey scrolls the log overlay; esc or L closes it.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Logs):
		m.showLogs = false
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Top):
		m.logView.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logView.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}
