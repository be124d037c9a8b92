// Package session remembers who is signed in and checks credentials.
//
// The Store keeps the current username under the myFilmsUser key so a
// restarted client resumes the same session. The Authenticator accepts the
// configured username/password pairs; entries may carry a bcrypt hash instead
// of a plain password.
package session
