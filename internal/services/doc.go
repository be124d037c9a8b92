// Package services defines shared utilities consumed by the catalog client,
// the list manager and the front-ends.
//
// Key responsibilities:
//   - Context helpers that stamp the signed-in user, the list being edited,
//     and correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper so callers can tell a
//     remote failure (degrade quietly) from a validation failure (reject).
package services
