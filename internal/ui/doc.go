// Package ui implements the Easel gallery view with Bubble Tea.
//
// # Layout
//
//	easel · 20 images · 3 liked · next page 3          header
//	/ search title or author                           search bar
//	╭────────────╮ ╭────────────╮ ╭────────────╮
//	│ title      │ │ title      │ │ title      │       card grid
//	│ by author  │ │ by author  │ │ by author  │
//	│ ♥ 13       │ │ ♡ 4        │ │ ♡ 0        │
//	│ ⣾ loading  │ │ image/jpeg │ │ image/png  │
//	╰────────────╯ ╰────────────╯ ╰────────────╯
//	Liked successfully :)                              toast or key hints
//
// # State
//
// All model state changes on the Bubble Tea event loop. Network work runs
// as tea.Cmds and comes back as messages (pageMsg, likeMsg, assetMsg).
// The rendered list is recomputed from the fetched images, the liked set
// and the search results on every render, so a like is visible the moment
// the set changes.
//
// # Search
//
// Each edit of the search input bumps a sequence number and schedules a
// tick SearchDebounce later; only the tick carrying the newest sequence
// queries the index. A blank term clears filtering instead of querying.
// An active search with no hits renders an empty grid.
//
// # Paging
//
// "n", or moving onto the last row of the unfiltered list, requests the
// next page. The view keeps at most one request outstanding.
//
// # Notifications
//
// Like/unlike outcomes and fetch failures show as a toast for ToastTTL.
// Each toast carries an id so an older expiry never hides a newer toast.
package ui
