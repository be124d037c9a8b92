package session

import (
	"context"

	"myfilms/internal/kvstore"
	"myfilms/internal/services"
)

// Key is the storage key of the current session record.
const Key = "myFilmsUser"

// Store persists the signed-in username.
type Store struct {
	kv kvstore.Store
}

func NewStore(kv kvstore.Store) *Store {
	return &Store{kv: kv}
}

// Current returns the stored username, if any.
func (s *Store) Current(ctx context.Context) (string, bool, error) {
	raw, found, err := s.kv.Get(ctx, Key)
	if err != nil {
		return "", false, services.Wrap(services.ErrStorage, "session", "current", "", err)
	}
	if !found || len(raw) == 0 {
		return "", false, nil
	}
	return string(raw), true, nil
}

// Set records user as signed in.
func (s *Store) Set(ctx context.Context, user string) error {
	if err := s.kv.Put(ctx, Key, []byte(user)); err != nil {
		return services.Wrap(services.ErrStorage, "session", "set", "", err)
	}
	return nil
}

// Clear removes the session record.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, Key); err != nil {
		return services.Wrap(services.ErrStorage, "session", "clear", "", err)
	}
	return nil
}
