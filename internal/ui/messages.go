package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/easel/internal/gallery"
	"github.com/five82/easel/internal/imagesapi"
	"github.com/five82/easel/internal/pager"
)

// Messages

type pageMsg struct {
	page pager.Page
	err  error
}

type searchTickMsg struct {
	seq int
}

type likeMsg struct {
	id string
	n  gallery.Notification
}

type toastExpiredMsg struct {
	id int
}

type assetMsg struct {
	url   string
	asset imagesapi.Asset
	err   error
}

type logLinesMsg struct {
	lines []string
	err   error
}

// Commands

// requestPageCmd asks the page source for the next page. Only one request is
// issued from the view at a time; the source joins any concurrent caller.
func (m *Model) requestPageCmd() tea.Cmd {
	if m.pages == nil || m.fetching {
		return nil
	}
	m.fetching = true
	return m.fetchCmd()
}

func (m Model) fetchCmd() tea.Cmd {
	ctx, pages := m.ctx, m.pages
	return func() tea.Msg {
		page, err := pages.Next(ctx)
		return pageMsg{page: page, err: err}
	}
}

// handlePage folds a fetched page (or its failure) into the model.
func (m Model) handlePage(msg pageMsg) (tea.Model, tea.Cmd) {
	m.fetching = false
	m.snapshot = m.pages.Snapshot()

	var cmds []tea.Cmd
	if msg.err != nil {
		if m.ctx.Err() != nil {
			return m, nil
		}
		m.log.Warn().Err(msg.err).Int("page", m.snapshot.NextPage).Msg("page fetch failed")
		cmds = append(cmds, m.showToast(gallery.Notification{
			Level:   gallery.LevelError,
			Message: "Couldn't load more images :(",
			Err:     msg.err,
		}))
		return m, tea.Batch(cmds...)
	}

	m.images = m.snapshot.All()
	m.log.Debug().Int("page", msg.page.Number).Int("images", len(msg.page.Images)).Msg("page loaded")
	if m.results != nil {
		m.results = m.query(m.term)
	}
	cmds = append(cmds, m.probeAssets(msg.page.Images)...)
	return m, tea.Batch(cmds...)
}

// probeAssets starts a HEAD probe for every attachment not seen before.
func (m *Model) probeAssets(images []imagesapi.Image) []tea.Cmd {
	if m.assets == nil {
		return nil
	}
	var cmds []tea.Cmd
	for _, img := range images {
		u := img.MainAttachment.PreferredURL()
		if u == "" {
			continue
		}
		if _, seen := m.probes[u]; seen {
			continue
		}
		m.probes[u] = assetState{loading: true}
		ctx, prober := m.ctx, m.assets
		cmds = append(cmds, func() tea.Msg {
			asset, err := prober.ProbeAsset(ctx, u)
			return assetMsg{url: u, asset: asset, err: err}
		})
	}
	if len(cmds) > 0 && !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return cmds
}

func (m Model) anyLoading() bool {
	for _, st := range m.probes {
		if st.loading {
			return true
		}
	}
	return false
}
