package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/five82/easel/internal/config"
	"github.com/five82/easel/internal/gallery"
	"github.com/five82/easel/internal/imagesapi"
)

type fakeService struct {
	mu    sync.Mutex
	likes []string
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /images", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
		out := make([]imagesapi.Image, size)
		for i := range out {
			n := (page-1)*size + i + 1
			out[i] = imagesapi.Image{
				ID:             strconv.Itoa(n),
				Title:          fmt.Sprintf("Water Lilies %d", n),
				Author:         "Claude Monet",
				MainAttachment: imagesapi.Attachment{Big: fmt.Sprintf("/assets/%d.jpg", n)},
				LikesCount:     n,
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("POST /images/{id}/likes", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.likes = append(f.likes, r.PathValue("id"))
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	})
	return mux
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func testConfig(dir, apiURL, extra string) string {
	return fmt.Sprintf(`api_url = %q
page_size = 4
log_file = %q
%s
[storage]
path = %q
`, apiURL, filepath.Join(dir, "easel.log"), extra, filepath.Join(dir, "storage.json"))
}

func TestOpen_WiresComponentsEndToEnd(t *testing.T) {
	t.Setenv(config.EnvAPIURL, "")
	svc := &fakeService{}
	srv := httptest.NewServer(svc.handler())
	defer srv.Close()

	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, testConfig(dir, srv.URL, ""))

	env, err := Open(Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if env.Policy != gallery.SearchReconciled {
		t.Fatalf("Policy = %v, want reconciled", env.Policy)
	}

	ctx := context.Background()
	if err := env.Loader.LoadPages(ctx, 2); err != nil {
		t.Fatalf("LoadPages returned error: %v", err)
	}
	if got := len(env.Pager.Snapshot().All()); got != 8 {
		t.Fatalf("fetched %d images, want 8", got)
	}
	if hits := env.Index.Query("monet"); len(hits) != 8 {
		t.Fatalf("Query(monet) = %d hits, want 8", len(hits))
	}

	n := env.Gallery.Like(ctx, "3")
	if n.Level != gallery.LevelSuccess {
		t.Fatalf("Like notification = %+v", n)
	}
	if err := env.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := Open(Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()
	if !reopened.Gallery.Liked().Has("3") {
		t.Fatalf("like not persisted across reopen")
	}
	if len(svc.likes) != 1 || svc.likes[0] != "3" {
		t.Fatalf("service saw likes %v", svc.likes)
	}

	logData, err := os.ReadFile(filepath.Join(dir, "easel.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(logData), "easel started") {
		t.Fatalf("log missing startup record: %s", logData)
	}
}

func TestOpen_APIURLPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, testConfig(dir, "http://from-config:1", ""))

	t.Setenv(config.EnvAPIURL, "http://from-env:2")
	env, err := Open(Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if got := env.Client.BaseURL(); !strings.Contains(got, "from-env") {
		t.Fatalf("BaseURL = %q, want env override", got)
	}
	env.Close()

	env, err = Open(Options{ConfigPath: cfgPath, APIURL: "http://from-flag:3"})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer env.Close()
	if got := env.Client.BaseURL(); !strings.Contains(got, "from-flag") {
		t.Fatalf("BaseURL = %q, want flag override", got)
	}
}

func TestOpen_VerbatimPolicyAndBadPolicy(t *testing.T) {
	t.Setenv(config.EnvAPIURL, "")
	dir := t.TempDir()

	cfgPath := writeConfig(t, dir, testConfig(dir, "http://x", `search_policy = "verbatim"`))
	env, err := Open(Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if env.Policy != gallery.SearchVerbatim {
		t.Fatalf("Policy = %v, want verbatim", env.Policy)
	}
	env.Close()

	cfgPath = writeConfig(t, dir, testConfig(dir, "http://x", `search_policy = "sometimes"`))
	if _, err := Open(Options{ConfigPath: cfgPath}); err == nil {
		t.Fatalf("Open accepted an unknown search policy")
	}
}
