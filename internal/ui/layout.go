package ui

import "time"

// Card geometry. A rendered card is CardWidth plus border columns wide and
// CardBodyLines plus border rows tall.
const (
	CardWidth     = 30
	CardBodyLines = 4
	CardGap       = 1

	cardOuterWidth  = CardWidth + 2 + CardGap
	cardOuterHeight = CardBodyLines + 2

	// chromeLines covers the header, search bar and footer.
	chromeLines = 3
)

// Timing constants.
const (
	// SearchDebounce is how long typing must pause before a query runs.
	SearchDebounce = 300 * time.Millisecond

	// ToastTTL is how long a notification stays on screen.
	ToastTTL = 3 * time.Second
)

// LogOverlayLines is the number of log lines read for the log overlay.
const LogOverlayLines = 500
