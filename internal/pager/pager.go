package pager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/five82/easel/internal/imagesapi"
)

// Fetcher loads one page of images. *imagesapi.Client satisfies it.
type Fetcher interface {
	FetchImagesPage(ctx context.Context, page, pageSize int) ([]imagesapi.Image, error)
}

// Page is one fetched page.
type Page struct {
	Number int
	Images []imagesapi.Image
}

// Snapshot is a point-in-time copy of the accumulated pages.
type Snapshot struct {
	Pages               []Page
	NextPage            int
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// All concatenates every page in fetch order.
func (s Snapshot) All() []imagesapi.Image {
	n := 0
	for _, p := range s.Pages {
		n += len(p.Images)
	}
	out := make([]imagesapi.Image, 0, n)
	for _, p := range s.Pages {
		out = append(out, p.Images...)
	}
	return out
}

// IsOffline returns true when the service has failed several fetches in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Options tune a Pager.
type Options struct {
	PageSize int
	// RatePerSecond caps page requests; zero disables pacing.
	RatePerSecond float64
}

const DefaultPageSize = 10

// Pager requests successive pages on demand and accumulates them. The cursor
// starts at 1 and advances by one per successful fetch; it never decides a
// page is the last one.
type Pager struct {
	fetcher  Fetcher
	pageSize int
	limiter  *rate.Limiter
	flight   singleflight.Group

	mu       sync.RWMutex
	pages    []Page
	next     int
	updated  time.Time
	lastErr  error
	failures int
}

// New returns a pager positioned at page 1.
func New(fetcher Fetcher, opts Options) (*Pager, error) {
	if fetcher == nil {
		return nil, errors.New("pager requires a fetcher")
	}
	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	p := &Pager{fetcher: fetcher, pageSize: size, next: 1}
	if opts.RatePerSecond > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}
	return p, nil
}

// PageSize returns the page size requested from the service.
func (p *Pager) PageSize() int {
	return p.pageSize
}

// FetchNext fetches the page at the cursor. Calls made while a fetch is in
// flight join it and receive the same page. On failure the cursor stays put
// so the next call retries the same page.
func (p *Pager) FetchNext(ctx context.Context) (Page, error) {
	v, err, _ := p.flight.Do("next", func() (any, error) {
		return p.fetchNext(ctx)
	})
	if err != nil {
		return Page{}, err
	}
	return v.(Page), nil
}

func (p *Pager) fetchNext(ctx context.Context) (Page, error) {
	p.mu.RLock()
	number := p.next
	p.mu.RUnlock()

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			err = fmt.Errorf("wait for page %d: %w", number, err)
			p.record(Page{}, err)
			return Page{}, err
		}
	}

	images, err := p.fetcher.FetchImagesPage(ctx, number, p.pageSize)
	if err != nil {
		err = fmt.Errorf("fetch page %d: %w", number, err)
		p.record(Page{}, err)
		return Page{}, err
	}
	page := Page{Number: number, Images: cloneImages(images)}
	p.record(page, nil)
	return Page{Number: number, Images: cloneImages(images)}, nil
}

func (p *Pager) record(page Page, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.updated = time.Now()
	if err != nil {
		p.lastErr = err
		p.failures++
		return
	}
	p.pages = append(p.pages, page)
	p.next = page.Number + 1
	p.lastErr = nil
	p.failures = 0
}

// Snapshot returns a copy of the current state.
func (p *Pager) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snap := Snapshot{
		Pages:               make([]Page, len(p.pages)),
		NextPage:            p.next,
		LastUpdated:         p.updated,
		ConsecutiveFailures: p.failures,
	}
	for i, pg := range p.pages {
		snap.Pages[i] = Page{Number: pg.Number, Images: cloneImages(pg.Images)}
	}
	if p.lastErr != nil {
		snap.LastError = fmt.Errorf("%w", p.lastErr)
	}
	return snap
}

func cloneImages(images []imagesapi.Image) []imagesapi.Image {
	if len(images) == 0 {
		return nil
	}
	dup := make([]imagesapi.Image, len(images))
	copy(dup, images)
	return dup
}
