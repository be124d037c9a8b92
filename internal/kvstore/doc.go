// Package kvstore provides the small durable key-value store that holds the
// session record and each user's lists.
//
// Three backends share the Store interface: SQLite (default, via the pure-Go
// modernc driver), BoltDB, and an in-memory map for tests and throwaway runs.
// Values are opaque bytes; callers own the encoding.
package kvstore
