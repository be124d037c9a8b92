package session_test

import (
	"context"
	"errors"
	"testing"

	"myfilms/internal/config"
	"myfilms/internal/kvstore"
	"myfilms/internal/services"
	"myfilms/internal/session"
)

func TestStoreLifecycle(t *testing.T) {
	kv := kvstore.NewMemory()
	store := session.NewStore(kv)
	ctx := context.Background()

	if _, ok, err := store.Current(ctx); err != nil || ok {
		t.Fatalf("expected no session, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "ana"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if raw, found, _ := kv.Get(ctx, "myFilmsUser"); !found || string(raw) != "ana" {
		t.Fatalf("expected myFilmsUser=ana, got %q", raw)
	}
	user, ok, err := store.Current(ctx)
	if err != nil || !ok || user != "ana" {
		t.Fatalf("unexpected current: %q %v %v", user, ok, err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := store.Current(ctx); ok {
		t.Fatal("expected session cleared")
	}
}

func TestAuthenticatePlainPassword(t *testing.T) {
	auth := session.NewAuthenticator([]config.User{{Username: "admin", Password: "admin123"}})

	user, err := auth.Authenticate("admin", "admin123")
	if err != nil || user != "admin" {
		t.Fatalf("expected success, got %q %v", user, err)
	}
	for _, tc := range [][2]string{
		{"admin", "wrong"},
		{"nobody", "admin123"},
		{"admin", ""},
		{" admin ", "admin123"},
		{"Admin", "admin123"},
		{"admin", "admin123 "},
	} {
		_, err := auth.Authenticate(tc[0], tc[1])
		if !errors.Is(err, session.ErrInvalidCredentials) || !errors.Is(err, services.ErrAuth) {
			t.Fatalf("%v: expected invalid credentials, got %v", tc, err)
		}
	}
}

func TestAuthenticateBcryptHash(t *testing.T) {
	hash, err := session.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	auth := session.NewAuthenticator([]config.User{{Username: "ana", Password: "ignored", PasswordHash: hash}})

	if _, err := auth.Authenticate("ana", "s3cret"); err != nil {
		t.Fatalf("expected hash match, got %v", err)
	}
	if _, err := auth.Authenticate("ana", "ignored"); err == nil {
		t.Fatal("expected plain password to be ignored when a hash is set")
	}
}

func TestAuthenticateIgnoresUsersWithoutSecret(t *testing.T) {
	auth := session.NewAuthenticator([]config.User{{Username: "ana"}, {Username: "bea", Password: "pw"}})

	if _, err := auth.Authenticate("ana", ""); !errors.Is(err, session.ErrInvalidCredentials) {
		t.Fatalf("expected blank password rejected, got %v", err)
	}
	if user, err := auth.Authenticate("bea", "pw"); err != nil || user != "bea" {
		t.Fatalf("expected bea accepted, got %q %v", user, err)
	}
}
