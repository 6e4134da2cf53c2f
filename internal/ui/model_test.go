package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/easel/internal/gallery"
	"github.com/five82/easel/internal/imagesapi"
	"github.com/five82/easel/internal/likes"
	"github.com/five82/easel/internal/pager"
	"github.com/five82/easel/internal/search"
)

type fetchFunc func(ctx context.Context, page, pageSize int) ([]imagesapi.Image, error)

func (f fetchFunc) FetchImagesPage(ctx context.Context, page, pageSize int) ([]imagesapi.Image, error) {
	return f(ctx, page, pageSize)
}

// indexedPages ingests every fetched page, the way the app loader does.
type indexedPages struct {
	pager *pager.Pager
	index *search.Index
}

func (s indexedPages) Next(ctx context.Context) (pager.Page, error) {
	page, err := s.pager.FetchNext(ctx)
	if err == nil {
		s.index.Ingest(page.Images...)
	}
	return page, err
}

func (s indexedPages) Snapshot() pager.Snapshot { return s.pager.Snapshot() }

type stubLiker struct {
	mu    sync.Mutex
	fail  error
	calls []string
}

func (s *stubLiker) SubmitLike(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, id)
	return s.fail
}

func pageImages(page, size int) []imagesapi.Image {
	out := make([]imagesapi.Image, size)
	for i := range out {
		n := (page-1)*size + i + 1
		out[i] = imagesapi.Image{
			ID:             fmt.Sprintf("%d", n),
			Title:          fmt.Sprintf("Painting %d", n),
			Author:         "Anon",
			MainAttachment: imagesapi.Attachment{Big: fmt.Sprintf("https://cdn.test/%d.jpg", n)},
			LikesCount:     n,
		}
	}
	out[0].Title = "Starry Night"
	out[0].Author = "Vincent"
	return out
}

type harness struct {
	m       Model
	liker   *stubLiker
	svc     *gallery.Service
	failing map[int]error
}

func newHarness(t *testing.T, policy gallery.SearchPolicy, liked ...string) *harness {
	t.Helper()
	h := &harness{liker: &stubLiker{}, failing: map[int]error{}}
	p, err := pager.New(fetchFunc(func(_ context.Context, page, size int) ([]imagesapi.Image, error) {
		if err := h.failing[page]; err != nil {
			return nil, err
		}
		return pageImages(page, size), nil
	}), pager.Options{PageSize: 10})
	if err != nil {
		t.Fatalf("pager.New: %v", err)
	}
	idx := search.NewIndex()
	h.svc = gallery.NewService(h.liker, likes.NewSet(liked...), nil, zerolog.Nop())
	h.m = New(Options{
		Pages:     indexedPages{pager: p, index: idx},
		Search:    idx,
		Likes:     h.svc,
		Policy:    policy,
		PrefsPath: t.TempDir() + "/prefs.toml",
		Logger:    zerolog.Nop(),
	})
	h.send(t, tea.WindowSizeMsg{Width: 100, Height: 40})
	h.run(t, h.m.Init())
	return h
}

func (h *harness) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := h.m.Update(msg)
	m, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	h.m = m
	return cmd
}

// run executes a single non-batch command and feeds its message back.
func (h *harness) run(t *testing.T, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	return h.send(t, cmd())
}

func (h *harness) press(t *testing.T, keys string) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, r := range keys {
		var msg tea.KeyMsg
		switch r {
		case ' ':
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		}
		cmd = h.send(t, msg)
	}
	return cmd
}

func itemByID(items []gallery.Item, id string) (gallery.Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return gallery.Item{}, false
}

func TestModel_FirstPageRendersReconciledLikes(t *testing.T) {
	h := newHarness(t, gallery.SearchReconciled, "2")

	items := h.m.items()
	if len(items) != 10 {
		t.Fatalf("len(items) = %d, want 10", len(items))
	}
	liked, _ := itemByID(items, "2")
	if !liked.Liked || liked.DisplayLikes != 3 {
		t.Fatalf("item 2 = %+v, want liked with 3 likes", liked)
	}
	plain, _ := itemByID(items, "3")
	if plain.Liked || plain.DisplayLikes != 3 {
		t.Fatalf("item 3 = %+v, want unliked with 3 likes", plain)
	}
	if h.m.fetching {
		t.Fatalf("fetching still set after page arrived")
	}
	if view := h.m.View(); !strings.Contains(view, "Starry Night") || !strings.Contains(view, "♥ 3") {
		t.Fatalf("view missing card content:\n%s", view)
	}
}

func TestModel_SearchDebounceAppliesOnlyLatestTerm(t *testing.T) {
	h := newHarness(t, gallery.SearchReconciled)

	h.press(t, "/")
	if !h.m.input.Focused() {
		t.Fatalf("search input not focused after /")
	}
	h.press(t, "vin")
	if h.m.searchSeq != 3 {
		t.Fatalf("searchSeq = %d, want 3", h.m.searchSeq)
	}

	h.send(t, searchTickMsg{seq: 1})
	h.send(t, searchTickMsg{seq: 2})
	if h.m.results != nil {
		t.Fatalf("stale tick applied a search: %v", h.m.results)
	}

	h.send(t, searchTickMsg{seq: 3})
	if len(h.m.results) == 0 || h.m.results[0].ID != "1" {
		t.Fatalf("results = %v, want Starry Night first", h.m.results)
	}
	if h.m.term != "vin" {
		t.Fatalf("term = %q, want vin", h.m.term)
	}
}

func TestModel_NoMatchesIsAnActiveEmptySearch(t *testing.T) {
	h := newHarness(t, gallery.SearchReconciled)

	h.press(t, "/")
	h.press(t, "zzzzqq")
	h.send(t, searchTickMsg{seq: h.m.searchSeq})
	if h.m.results == nil || len(h.m.results) != 0 {
		t.Fatalf("results = %#v, want empty non-nil", h.m.results)
	}
	if len(h.m.items()) != 0 {
		t.Fatalf("items = %d, want 0", len(h.m.items()))
	}
}

func TestModel_ErasingTermClearsFiltering(t *testing.T) {
	h := newHarness(t, gallery.SearchReconciled)

	h.press(t, "/")
	h.press(t, "v")
	h.send(t, searchTickMsg{seq: h.m.searchSeq})
	if h.m.results == nil {
		t.Fatalf("expected active search")
	}

	h.send(t, tea.KeyMsg{Type: tea.KeyBackspace})
	h.send(t, searchTickMsg{seq: h.m.searchSeq})
	if h.m.results != nil {
		t.Fatalf("results = %v, want nil after erasing the term", h.m.results)
	}
	if len(h.m.items()) != 10 {
		t.Fatalf("items = %d, want full list", len(h.m.items()))
	}
}

func TestModel_EscapeClearsSearchAndDropsPendingTick(t *testing.T) {
	h := newHarness(t, gallery.SearchReconciled)

	h.press(t, "/")
	h.press(t, "star")
	stale := h.m.searchSeq
	h.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	h.send(t, searchTickMsg{seq: stale})

	if h.m.results != nil || h.m.input.Value() != "" || h.m.input.Focused() {
		t.Fatalf("search not cleared: results=%v value=%q", h.m.results, h.m.input.Value())
	}
}

func TestModel_SearchResultsFollowPolicy(t *testing.T) {
	for _, tc := range []struct {
		policy    gallery.SearchPolicy
		wantLiked bool
		wantLikes int
	}{
		{gallery.SearchReconciled, true, 2},
		{gallery.SearchVerbatim, false, 1},
	} {
		t.Run(tc.policy.String(), func(t *testing.T) {
			h := newHarness(t, tc.policy, "1")
			h.press(t, "/")
			h.press(t, "starry")
			h.send(t, searchTickMsg{seq: h.m.searchSeq})

			got, ok := itemByID(h.m.items(), "1")
			if !ok {
				t.Fatalf("image 1 not in results")
			}
			if got.Liked != tc.wantLiked || got.DisplayLikes != tc.wantLikes {
				t.Fatalf("item = %+v, want liked=%v likes=%d", got, tc.wantLiked, tc.wantLikes)
			}
		})
	}
}

func TestModel_VerbatimToggleFollowsShownHeart(t *testing.T) {
	h := newHarness(t, gallery.SearchVerbatim, "1")
	h.press(t, "/")
	h.press(t, "starry")
	h.send(t, searchTickMsg{seq: h.m.searchSeq})
	h.send(t, tea.KeyMsg{Type: tea.KeyEnter})

	if got := h.m.items()[h.m.selected]; got.ID != "1" || got.Liked {
		t.Fatalf("selected = %+v, want image 1 shown as not liked", got)
	}
	h.run(t, h.press(t, " "))

	if !h.svc.Liked().Has("1") {
		t.Fatalf("image shown as not liked was removed from the set")
	}
	if len(h.liker.calls) != 1 || h.liker.calls[0] != "1" {
		t.Fatalf("like calls = %v, want [1]", h.liker.calls)
	}
	if h.m.toast == nil || h.m.toast.n.Message != "Liked successfully :)" {
		t.Fatalf("toast = %+v, want like confirmation", h.m.toast)
	}
}

func TestModel_ToggleLikesThenUnlikes(t *testing.T) {
	h := newHarness(t, gallery.SearchReconciled)

	h.run(t, h.press(t, " "))
	if !h.svc.Liked().Has("1") {
		t.Fatalf("image 1 not liked after toggle")
	}
	if h.m.toast == nil || h.m.toast.n.Level != gallery.LevelSuccess {
		t.Fatalf("toast = %+v, want success", h.m.toast)
	}
	if got, _ := itemByID(h.m.items(), "1"); got.DisplayLikes != 2 {
		t.Fatalf("DisplayLikes = %d, want 2", got.DisplayLikes)
	}

	h.run(t, h.press(t, " "))
	if h.svc.Liked().Has("1") {
		t.Fatalf("image 1 still liked after second toggle")
	}
	if got, _ := itemByID(h.m.items(), "1"); got.DisplayLikes != 1 || got.Liked {
		t.Fatalf("item = %+v, want base count", got)
	}
}

func TestModel_ToggleIgnoredWhileLikeInFlight(t *testing.T) {
	h := newHarness(t, gallery.SearchReconciled)

	first := h.press(t, " ")
	if first == nil {
		t.Fatalf("first toggle returned no command")
	}
	if second := h.press(t, " "); second != nil {
		t.Fatalf("second toggle issued a command while the first is pending")
	}
	h.run(t, first)
	if h.m.pending["1"] {
		t.Fatalf("pending not cleared")
	}
}

func TestModel_FailedLikeLeavesSetUnchanged(t *testing.T) {
	h := newHarness(t, gallery.SearchReconciled)
	h.liker.fail = errors.New("503")

	h.run(t, h.press(t, " "))
	if h.svc.Liked().Has("1") {
		t.Fatalf("failed like changed the set")
	}
	if h.m.toast == nil || h.m.toast.n.Level != gallery.LevelError {
		t.Fatalf("toast = %+v, want error", h.m.toast)
	}
	if !strings.Contains(h.m.View(), "Error liking image") {
		t.Fatalf("view missing error toast")
	}
}

func TestModel_ToastExpiresOnlyForLatestID(t *testing.T) {
	h := newHarness(t, gallery.SearchReconciled)

	h.run(t, h.press(t, " "))
	firstID := h.m.toast.id
	h.run(t, h.press(t, " "))

	h.send(t, toastExpiredMsg{id: firstID})
	if h.m.toast == nil {
		t.Fatalf("older expiry removed the newer toast")
	}
	h.send(t, toastExpiredMsg{id: h.m.toast.id})
	if h.m.toast != nil {
		t.Fatalf("toast not cleared")
	}
}

func TestModel_NextPageAppendsInOrder(t *testing.T) {
	h := newHarness(t, gallery.SearchReconciled)

	h.run(t, h.press(t, "n"))
	if len(h.m.images) != 20 {
		t.Fatalf("images = %d, want 20", len(h.m.images))
	}
	if h.m.images[10].ID != "11" {
		t.Fatalf("images[10] = %q, want 11", h.m.images[10].ID)
	}
	if h.m.snapshot.NextPage != 3 {
		t.Fatalf("NextPage = %d, want 3", h.m.snapshot.NextPage)
	}
}

func TestModel_SecondRequestWhileFetchingIsDropped(t *testing.T) {
	h := newHarness(t, gallery.SearchReconciled)

	cmd := h.press(t, "n")
	if cmd == nil {
		t.Fatalf("n returned no command")
	}
	if again := h.press(t, "n"); again != nil {
		t.Fatalf("second n issued a fetch while one is in flight")
	}
	h.run(t, cmd)
}

func TestModel_PageFailureKeepsCursorAndShowsToast(t *testing.T) {
	h := newHarness(t, gallery.SearchReconciled)
	h.failing[2] = errors.New("boom")

	h.run(t, h.press(t, "n"))
	if h.m.snapshot.NextPage != 2 {
		t.Fatalf("NextPage = %d, want 2", h.m.snapshot.NextPage)
	}
	if h.m.toast == nil || h.m.toast.n.Level != gallery.LevelError {
		t.Fatalf("toast = %+v, want error", h.m.toast)
	}
	if len(h.m.images) != 10 {
		t.Fatalf("images = %d, want 10", len(h.m.images))
	}

	delete(h.failing, 2)
	h.run(t, h.press(t, "n"))
	if len(h.m.images) != 20 || h.m.images[10].ID != "11" {
		t.Fatalf("retry did not fetch page 2")
	}
}

func TestModel_HeaderShowsRetryHintOnlyForTransientFailures(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
		hint bool
	}{
		{"unavailable", &imagesapi.TransportError{Op: "GET", URL: "/images", StatusCode: 503}, true},
		{"not found", &imagesapi.TransportError{Op: "GET", URL: "/images", StatusCode: 404}, false},
		{"plain", errors.New("boom"), false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, gallery.SearchReconciled)
			h.send(t, tea.WindowSizeMsg{Width: 200, Height: 40})
			h.failing[2] = tc.err
			h.run(t, h.press(t, "n"))

			header := h.m.renderHeader()
			if !strings.Contains(header, "last fetch failed") {
				t.Fatalf("header %q missing failure status", header)
			}
			if got := strings.Contains(header, "press n to retry"); got != tc.hint {
				t.Fatalf("retry hint shown = %v, want %v in %q", got, tc.hint, header)
			}
			if !strings.Contains(header, "updated "+h.m.snapshot.LastUpdated.Format("15:04:05")) {
				t.Fatalf("header %q missing last update time", header)
			}
		})
	}
}

func TestModel_ReachingLastRowRequestsNextPage(t *testing.T) {
	h := newHarness(t, gallery.SearchReconciled)

	cmd := h.press(t, "G")
	if cmd == nil {
		t.Fatalf("moving to the last image did not request a page")
	}
	h.run(t, cmd)
	if len(h.m.images) != 20 {
		t.Fatalf("images = %d, want 20", len(h.m.images))
	}
}

func TestModel_GridNavigation(t *testing.T) {
	h := newHarness(t, gallery.SearchReconciled)
	cols := h.m.gridColumns()
	if cols != 3 {
		t.Fatalf("gridColumns = %d, want 3 at width 100", cols)
	}

	h.press(t, "l")
	if h.m.selected != 1 {
		t.Fatalf("selected = %d after l, want 1", h.m.selected)
	}
	h.press(t, "j")
	if h.m.selected != 1+cols {
		t.Fatalf("selected = %d after j, want %d", h.m.selected, 1+cols)
	}
	h.press(t, "k")
	h.press(t, "h")
	h.press(t, "h")
	if h.m.selected != 0 {
		t.Fatalf("selected = %d, want 0", h.m.selected)
	}
}

type stubProber struct{}

func (stubProber) ProbeAsset(_ context.Context, u string) (imagesapi.Asset, error) {
	return imagesapi.Asset{URL: u, ContentType: "image/jpeg", Size: 2048}, nil
}

func TestModel_AssetPlaceholderUntilProbeCompletes(t *testing.T) {
	h := newHarness(t, gallery.SearchReconciled)
	h.m.assets = stubProber{}

	imgs := pageImages(3, 1)
	cmds := h.m.probeAssets(imgs)
	if len(cmds) != 2 {
		t.Fatalf("probeAssets returned %d commands, want probe + spinner", len(cmds))
	}
	u := imgs[0].MainAttachment.PreferredURL()
	if !h.m.probes[u].loading || !h.m.anyLoading() {
		t.Fatalf("asset not marked loading")
	}
	if again := h.m.probeAssets(imgs); len(again) != 0 {
		t.Fatalf("asset probed twice")
	}

	h.send(t, cmds[0]())
	st := h.m.probes[u]
	if st.loading || st.asset.ContentType != "image/jpeg" {
		t.Fatalf("probe state = %+v", st)
	}
	if h.m.anyLoading() {
		t.Fatalf("still loading after probe completed")
	}
}

func TestModel_HelpOverlayClosesOnAnyKey(t *testing.T) {
	h := newHarness(t, gallery.SearchReconciled)

	h.press(t, "?")
	if !h.m.showHelp || !strings.Contains(h.m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	h.press(t, "x")
	if h.m.showHelp {
		t.Fatalf("help overlay still shown")
	}
}

func TestModel_CycleThemePersists(t *testing.T) {
	h := newHarness(t, gallery.SearchReconciled)
	before := h.m.theme.Name

	h.press(t, "T")
	if h.m.theme.Name == before {
		t.Fatalf("theme unchanged")
	}
}
