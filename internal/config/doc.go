// Package config loads, normalizes, and validates myfilms configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MYFILMS_API_TOKEN and MYFILMS_AUTH_USER1. Every front-end (CLI, TUI, local
// API) obtains its settings through this package.
package config
