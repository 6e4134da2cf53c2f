// Package logtail reads the tail of Easel's log file for the in-app log
// overlay.
//
// Read keeps a ring buffer of maxLines entries so only one pass over the
// file is needed and memory stays O(maxLines). Missing files yield nil, nil.
//
// The log file holds zerolog JSON lines; FormatLine renders them with
// zerolog's ConsoleWriter (no color, lipgloss styles the overlay). Anything
// that is not a JSON object passes through unchanged.
package logtail
