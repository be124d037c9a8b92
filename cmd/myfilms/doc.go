// Package main hosts the MyFilms CLI entrypoint and command graph.
//
// The Cobra command tree covers sign-in, one-shot catalog lookups, list
// management, the interactive terminal UI and the local JSON API. It
// centralizes configuration resolution, storage and lock acquisition, and
// logging setup so subcommands only deal with presentation.
package main
