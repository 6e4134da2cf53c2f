// Package app is the composition root for Easel.
//
// # Overview
//
// Open loads configuration, points zerolog at the log file and wires the
// components every entry point needs:
//
//	┌──────────────┐
//	│   Open()     │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load() + ApplyEnv()   TOML, .env, EASEL_API_URL
//	       ├─────> logging.Setup()              JSON log file
//	       ├─────> imagesapi.NewClient()        remote image service
//	       ├─────> kv.Open() + likes.Load()     liked set, read once
//	       ├─────> gallery.NewService()         like/unlike
//	       ├─────> pager.New()                  page cursor + cache
//	       └─────> NewLoader()                  pager -> search index
//
// Run hands the wired Env to the Bubble Tea UI and blocks until the user
// quits or the context is cancelled. The CLI subcommands use Open directly.
//
// # Loader
//
// The Loader is the only path pages take into the view. Each page is
// ingested into the search index the first time it is seen; callers that
// joined an in-flight fetch get the same page without a second ingest.
//
// # Error Handling
//
// Fatal (returned from Open/Run):
//   - Invalid configuration or unknown search policy
//   - Storage that cannot be opened or a liked set that cannot be decoded
//   - Log file that cannot be created
//
// Recoverable (logged, surfaced in the view):
//   - Page fetch failures; the same page is retried on the next request
//   - Like failures and local save failures
//   - Unreadable prefs, which fall back to defaults
package app
