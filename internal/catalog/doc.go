// Package catalog talks to the remote movie/TV catalog (a TMDB-compatible
// HTTP API) and defines the item types the rest of myfilms stores and shows.
//
// Every request carries the bearer token and the configured language. The
// client applies exactly two local rules: popular-listing items without a
// media type are tagged as movies, and multi-search results without a poster
// are dropped.
package catalog
