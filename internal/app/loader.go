package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/five82/easel/internal/pager"
	"github.com/five82/easel/internal/search"
)

// Loader pulls pages through the pager and feeds each newly observed page to
// the search index exactly once.
type Loader struct {
	pager *pager.Pager
	index *search.Index
	log   zerolog.Logger

	mu       sync.Mutex
	ingested int // highest page number already indexed
}

// NewLoader binds a pager to the index it keeps current.
func NewLoader(p *pager.Pager, idx *search.Index, log zerolog.Logger) *Loader {
	return &Loader{pager: p, index: idx, log: log}
}

// Next fetches the next page and ingests it. Callers that joined an
// in-flight fetch receive the same page without indexing it again.
func (l *Loader) Next(ctx context.Context) (pager.Page, error) {
	page, err := l.pager.FetchNext(ctx)
	if err != nil {
		l.log.Warn().Err(err).Msg("page fetch failed")
		return page, err
	}

	l.mu.Lock()
	fresh := page.Number > l.ingested
	if fresh {
		l.ingested = page.Number
	}
	l.mu.Unlock()

	if fresh {
		l.index.Ingest(page.Images...)
		l.log.Debug().Int("page", page.Number).Int("images", len(page.Images)).Int("indexed", l.index.Len()).Msg("page ingested")
	}
	return page, nil
}

// Snapshot exposes the pager state.
func (l *Loader) Snapshot() pager.Snapshot {
	return l.pager.Snapshot()
}

// LoadPages fetches n pages in order, stopping at the first error.
func (l *Loader) LoadPages(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if _, err := l.Next(ctx); err != nil {
			return err
		}
	}
	return nil
}
