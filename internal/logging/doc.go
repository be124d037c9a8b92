// Package logging assembles structured slog loggers and formatting helpers used
// across myfilms.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so catalog calls and list
// mutations are tagged with the user, list and correlation IDs. A no-op
// logger is provided for tests and wiring code that cannot fail.
package logging
