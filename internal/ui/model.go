package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/easel/internal/gallery"
	"github.com/five82/easel/internal/imagesapi"
	"github.com/five82/easel/internal/likes"
	"github.com/five82/easel/internal/pager"
	"github.com/five82/easel/internal/prefs"
)

// PageSource hands out successive pages and the accumulated sequence.
type PageSource interface {
	Next(ctx context.Context) (pager.Page, error)
	Snapshot() pager.Snapshot
}

// Searcher answers ranked queries over every ingested image.
type Searcher interface {
	Query(term string) []imagesapi.Image
}

// LikeToggler applies like/unlike and exposes the liked set.
type LikeToggler interface {
	Toggle(ctx context.Context, id string, shownLiked bool) gallery.Notification
	Liked() *likes.Set
}

// AssetProber checks that an attachment is reachable.
type AssetProber interface {
	ProbeAsset(ctx context.Context, assetURL string) (imagesapi.Asset, error)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Pages     PageSource
	Search    Searcher
	Likes     LikeToggler
	Assets    AssetProber // nil skips probing
	Policy    gallery.SearchPolicy
	ThemeName string
	Columns   int // zero derives columns from the terminal width
	PrefsPath string
	LogPath   string
	Logger    zerolog.Logger
}

// assetState tracks the probe of one attachment URL.
type assetState struct {
	loading bool
	asset   imagesapi.Asset
	err     error
}

// toast is a transient notification.
type toast struct {
	id int
	n  gallery.Notification
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	pages     PageSource
	search    Searcher
	likes     LikeToggler
	assets    AssetProber
	policy    gallery.SearchPolicy
	prefsPath string
	logPath   string
	log       zerolog.Logger
	keys      keyMap

	// UI state
	theme   Theme
	columns int
	width   int
	height  int
	ready   bool

	// Data state
	snapshot pager.Snapshot
	images   []imagesapi.Image
	fetching bool

	// Search state: results == nil means no active search.
	input     textinput.Model
	term      string
	results   []imagesapi.Image
	searchSeq int

	// Grid state
	selected int
	top      int // first visible row
	pending  map[string]bool
	probes   map[string]assetState
	spinner  spinner.Model
	spinning bool

	// Notifications
	toast    *toast
	toastSeq int

	// Overlays
	showHelp bool
	showLogs bool
	logView  viewport.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "search title or author"
	input.CharLimit = 80

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		ctx:       ctx,
		pages:     opts.Pages,
		search:    opts.Search,
		likes:     opts.Likes,
		assets:    opts.Assets,
		policy:    opts.Policy,
		prefsPath: prefsPath,
		logPath:   opts.LogPath,
		log:       opts.Logger,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.ThemeName),
		columns:   opts.Columns,
		fetching:  opts.Pages != nil,
		input:     input,
		pending:   make(map[string]bool),
		probes:    make(map[string]assetState),
		spinner:   sp,
	}
}

// Init implements tea.Model. New marks the first page as in flight.
func (m Model) Init() tea.Cmd {
	if m.pages == nil {
		return nil
	}
	return m.fetchCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.logView = viewport.New(msg.Width, maxInt(1, msg.Height-2))
		} else {
			m.logView.Width = msg.Width
			m.logView.Height = maxInt(1, msg.Height-2)
		}
		m.ready = true
		m.ensureVisible()
		return m, nil

	case pageMsg:
		return m.handlePage(msg)

	case searchTickMsg:
		return m.handleSearchTick(msg)

	case likeMsg:
		delete(m.pending, msg.id)
		cmd := m.showToast(msg.n)
		return m, cmd

	case toastExpiredMsg:
		if m.toast != nil && m.toast.id == msg.id {
			m.toast = nil
		}
		return m, nil

	case assetMsg:
		m.probes[msg.url] = assetState{asset: msg.asset, err: msg.err}
		return m, nil

	case spinner.TickMsg:
		if !m.anyLoading() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showLogs {
		return m.renderLogs()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.showLogs {
		return m.handleLogsKey(msg)
	}

	if m.input.Focused() {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.showLogs = true
		return m, m.readLogsCmd()

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Escape):
		if m.results != nil || m.input.Value() != "" {
			return m.clearSearch()
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		cmd := m.toggleSelected()
		return m, cmd

	case key.Matches(msg, m.keys.NextPage):
		cmd := m.requestPageCmd()
		return m, cmd
	}

	return m.handleGridKey(msg)
}

// cycleTheme switches to the next theme and persists the choice.
func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, Columns: m.columns}); err != nil {
		m.log.Warn().Err(err).Msg("save prefs")
	}
}

// items recomputes the reconciled list. It runs on every render so the liked
// set and the list can never drift apart.
func (m Model) items() []gallery.Item {
	var liked map[string]struct{}
	if m.likes != nil {
		liked = m.likes.Liked().Snapshot()
	}
	return gallery.Reconcile(m.images, liked, m.results, m.policy)
}

// toggleSelected likes or unlikes the selected image according to the heart it
// shows. A second toggle on the same image is ignored until the first
// completes.
func (m *Model) toggleSelected() tea.Cmd {
	if m.likes == nil {
		return nil
	}
	items := m.items()
	if m.selected < 0 || m.selected >= len(items) {
		return nil
	}
	id, shown := items[m.selected].ID, items[m.selected].Liked
	if m.pending[id] {
		return nil
	}
	m.pending[id] = true

	ctx, toggler := m.ctx, m.likes
	return func() tea.Msg {
		return likeMsg{id: id, n: toggler.Toggle(ctx, id, shown)}
	}
}

// showToast replaces the current notification and schedules its expiry.
func (m *Model) showToast(n gallery.Notification) tea.Cmd {
	m.toastSeq++
	id := m.toastSeq
	m.toast = &toast{id: id, n: n}
	return tea.Tick(ToastTTL, func(_ time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// renderMain renders the header, search bar, grid and footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSearchBar())
	b.WriteString("\n")
	b.WriteString(m.renderGrid())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	teaOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		teaOpts = append(teaOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, teaOpts...)
	_, err := p.Run()
	return err
}
