// Package browse drives the home view: the popular listing when the query is
// empty, and a debounced multi-search otherwise.
//
// Every fetch is numbered. When a newer fetch has been issued, the response
// of an older one is discarded and its request context cancelled, so a slow
// reply can never overwrite fresher results.
package browse
