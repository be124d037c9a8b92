package session

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"myfilms/internal/config"
	"myfilms/internal/services"
)

// ErrInvalidCredentials is returned for any unknown user or wrong password.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", services.ErrAuth)

// Authenticator validates username/password pairs against a fixed set.
type Authenticator struct {
	users map[string]config.User
}

// NewAuthenticator indexes users by username. Later duplicates and users
// without a password or hash are ignored.
func NewAuthenticator(users []config.User) *Authenticator {
	index := make(map[string]config.User, len(users))
	for _, u := range users {
		if _, dup := index[u.Username]; dup || u.Username == "" {
			continue
		}
		if u.Password == "" && u.PasswordHash == "" {
			continue
		}
		index[u.Username] = u
	}
	return &Authenticator{users: index}
}

// Authenticate returns the username when both fields match exactly.
func (a *Authenticator) Authenticate(username, password string) (string, error) {
	user, ok := a.users[username]
	if !ok {
		// Spend comparable time on unknown users.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return "", ErrInvalidCredentials
	}
	if user.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			return "", ErrInvalidCredentials
		}
		return user.Username, nil
	}
	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
		return "", ErrInvalidCredentials
	}
	return user.Username, nil
}

// HashPassword produces a bcrypt hash for a password_hash config entry.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// bcrypt hash of a random string, used only for timing on unknown users.
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z7BKeEfNvQnhVCMuOavxWbSC")
