// Package lists owns the user's named collections of catalog items.
//
// A Manager is bound to one signed-in user. Every mutation is written through
// to the key-value store under myFilmsLists_{username} before it becomes
// visible, so the in-memory view never runs ahead of what is persisted.
// SortedView is a pure function used to present a list without reordering it.
package lists
