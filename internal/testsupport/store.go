package testsupport

import (
	"context"
	"testing"

	"myfilms/internal/config"
	"myfilms/internal/kvstore"
)

// MustOpenStore opens the configured kvstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) kvstore.Store {
	t.Helper()

	store, err := kvstore.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
