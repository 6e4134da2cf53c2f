// Package pager accumulates paginated image listings.
//
// # Overview
//
// The Pager is the fetch cache sitting between the HTTP client and the view.
// It owns the page cursor and the ordered sequence of fetched pages:
//
//	FetchNext()  ──> FetchImagesPage(cursor, pageSize)
//	                   │ ok: append page, cursor++
//	                   └ err: record error, cursor unchanged
//	Snapshot()   ──> copy of pages, All() concatenates in fetch order
//
// # De-duplication
//
// FetchNext is safe to trigger repeatedly (a key held down, a scroll reaching
// the end twice). While one fetch is in flight every other caller joins it
// through a singleflight group and receives the same page, so the service
// sees exactly one request and the sequence never gains a duplicate page.
//
// # End of data
//
// The pager never inspects page sizes. An empty page still advances the
// cursor; the service is always assumed to possibly have more.
//
// # Pacing
//
// Options.RatePerSecond installs a token-bucket limiter in front of every
// request. The default is unlimited.
package pager
