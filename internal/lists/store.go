package lists

import (
	"context"
	"encoding/json"

	"myfilms/internal/catalog"
	"myfilms/internal/kvstore"
	"myfilms/internal/services"
)

const keyPrefix = "myFilmsLists_"

// Key returns the storage key holding user's lists.
func Key(user string) string {
	return keyPrefix + user
}

// Store reads and writes a user's whole lists collection.
type Store struct {
	kv kvstore.Store
}

func NewStore(kv kvstore.Store) *Store {
	return &Store{kv: kv}
}

// Load returns the user's lists, or an empty collection when none are stored.
func (s *Store) Load(ctx context.Context, user string) ([]List, error) {
	raw, found, err := s.kv.Get(ctx, Key(user))
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "lists", "load", "", err)
	}
	if !found || len(raw) == 0 {
		return []List{}, nil
	}
	var out []List
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, services.Wrap(services.ErrDecode, "lists", "load", "stored lists are not valid JSON", err)
	}
	if out == nil {
		out = []List{}
	}
	return out, nil
}

// Save replaces the user's stored collection.
func (s *Store) Save(ctx context.Context, user string, lists []List) error {
	normalized := make([]List, len(lists))
	for i, l := range lists {
		if l.Items == nil {
			l.Items = []catalog.Item{}
		}
		normalized[i] = l
	}
	raw, err := json.Marshal(normalized)
	if err != nil {
		return services.Wrap(services.ErrStorage, "lists", "save", "encode", err)
	}
	if err := s.kv.Put(ctx, Key(user), raw); err != nil {
		return services.Wrap(services.ErrStorage, "lists", "save", "", err)
	}
	return nil
}

// Clear removes the user's stored collection.
func (s *Store) Clear(ctx context.Context, user string) error {
	if err := s.kv.Delete(ctx, Key(user)); err != nil {
		return services.Wrap(services.ErrStorage, "lists", "clear", "", err)
	}
	return nil
}
