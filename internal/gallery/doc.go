// Package gallery reconciles server like counts with the local liked set and
// applies like/unlike actions.
//
// Reconcile is a pure function of the fetched images, the liked set and the
// active search results. For every rendered image exactly one of these holds:
//
//	liked=false, DisplayLikes=likes_count
//	liked=true,  DisplayLikes=likes_count+1
//
// Like is confirmed by the remote service before the set changes. Unlike is
// local only and cannot fail; only persisting the set can, and that is
// reported as a warning wrapping ErrLocalMutation.
package gallery
