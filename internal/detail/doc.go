// Package detail drives the item detail pane and a person's filmography pane.
//
// Only one pane is open at a time: opening a filmography closes the detail
// view. The filmography is merged from cast and crew credits, deduplicated by
// item ID, stripped of entries without a poster and ordered by popularity.
// The title filter works on the already-fetched credits.
package detail
