package app_test

import (
	"context"
	"errors"
	"testing"

	"myfilms/internal/app"
	"myfilms/internal/browse"
	"myfilms/internal/catalog"
	"myfilms/internal/config"
	"myfilms/internal/detail"
	"myfilms/internal/kvstore"
	"myfilms/internal/lists"
	"myfilms/internal/session"
	"myfilms/internal/testsupport"
)

func inline(f func()) { f() }

func newApp(t *testing.T, kv kvstore.Store) (*app.App, *testsupport.FakeCatalog) {
	t.Helper()
	fake := &testsupport.FakeCatalog{PopularItems: []catalog.Item{{ID: 1, Title: "Popular"}}}
	auth := session.NewAuthenticator([]config.User{{Username: "admin", Password: "admin123"}})
	a := app.New(kv, fake, auth,
		app.WithBrowseOptions(browse.WithRunner(inline)),
		app.WithDetailOptions(detail.WithRunner(inline)),
	)
	t.Cleanup(a.Close)
	return a, fake
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	kv := kvstore.NewMemory()
	a, _ := newApp(t, kv)
	if _, err := a.Login(context.Background(), "admin", "nope"); !errors.Is(err, session.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, ok := a.User(); ok {
		t.Fatal("expected no user")
	}
	if _, err := a.Lists(); !errors.Is(err, app.ErrNotSignedIn) {
		t.Fatalf("expected not signed in, got %v", err)
	}
	if _, found, _ := kv.Get(context.Background(), session.Key); found {
		t.Fatal("expected no session record")
	}
}

func TestEndToEndFavorites(t *testing.T) {
	ctx := context.Background()
	a, _ := newApp(t, kvstore.NewMemory())
	if _, err := a.Login(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	manager, err := a.Lists()
	if err != nil {
		t.Fatalf("Lists: %v", err)
	}

	fav, err := manager.CreateList(ctx, "Favorites")
	if err != nil {
		t.Fatalf("CreateList: %v", err)
	}
	if _, err := manager.AddToList(ctx, fav.ID, catalog.Item{ID: 42, Title: "X"}); err != nil {
		t.Fatalf("AddToList: %v", err)
	}
	if _, err := manager.RemoveFromList(ctx, fav.ID, 42); err != nil {
		t.Fatalf("RemoveFromList: %v", err)
	}

	got, err := manager.Get(fav.ID)
	if err != nil {
		t.Fatalf("expected list to still exist: %v", err)
	}
	if len(got.Items) != 0 {
		t.Fatalf("expected zero items, got %d", len(got.Items))
	}
}

func TestLogoutResetsState(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	a, fake := newApp(t, kv)
	if _, err := a.Login(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	manager, _ := a.Lists()
	l, _ := manager.CreateList(ctx, "Favorites")
	if err := a.ShowList(l.ID); err != nil {
		t.Fatalf("ShowList: %v", err)
	}
	a.SetSort(lists.SortRatingDesc)
	a.Browse.SetQuery("alien")

	if err := a.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, found, _ := kv.Get(ctx, session.Key); found {
		t.Fatal("expected session record removed")
	}
	if _, ok := a.User(); ok {
		t.Fatal("expected no user after logout")
	}
	if _, err := a.Lists(); !errors.Is(err, app.ErrNotSignedIn) {
		t.Fatalf("expected lists reset, got %v", err)
	}
	if a.View() != app.ViewHome {
		t.Fatalf("expected home view, got %s", a.View())
	}
	if a.Sort() != lists.SortDefault {
		t.Fatalf("expected default sort, got %s", a.Sort())
	}
	if _, _, ok := a.SelectedItems(); ok {
		t.Fatal("expected no selected list")
	}
	snap := a.Browse.Snapshot()
	if snap.Query != "" || snap.Mode != browse.ModeBrowsing {
		t.Fatalf("expected browse reset to popular, got %#v", snap)
	}
	if fake.Populars() != 1 {
		t.Fatalf("expected popular reload on logout, got %d", fake.Populars())
	}
	if _, found, _ := kv.Get(ctx, lists.Key("admin")); !found {
		t.Fatal("logout must keep the user's stored lists")
	}
}

func TestRestoreResumesSessionAndLists(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	first, _ := newApp(t, kv)
	if _, err := first.Login(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	manager, _ := first.Lists()
	_, _ = manager.CreateList(ctx, "Kept")

	second, _ := newApp(t, kv)
	user, ok, err := second.Restore(ctx)
	if err != nil || !ok || user != "admin" {
		t.Fatalf("unexpected restore: %q %v %v", user, ok, err)
	}
	restored, _ := second.Lists()
	if got := restored.Lists(); len(got) != 1 || got[0].Name != "Kept" {
		t.Fatalf("unexpected restored lists %#v", got)
	}
}

func TestNavigationAndSort(t *testing.T) {
	ctx := context.Background()
	a, fake := newApp(t, kvstore.NewMemory())
	_, _ = a.Login(ctx, "admin", "admin123")
	manager, _ := a.Lists()
	l, _ := manager.CreateList(ctx, "Rated")
	_, _ = manager.AddToList(ctx, l.ID, catalog.Item{ID: 1, VoteAverage: testsupport.Float(5)})
	_, _ = manager.AddToList(ctx, l.ID, catalog.Item{ID: 2, VoteAverage: testsupport.Float(9)})

	if err := a.ShowList(l.ID); err != nil {
		t.Fatalf("ShowList: %v", err)
	}
	if a.View() != app.ViewLists {
		t.Fatalf("expected lists view, got %s", a.View())
	}
	a.SetSort(lists.SortRatingDesc)
	_, items, ok := a.SelectedItems()
	if !ok || items[0].ID != 2 {
		t.Fatalf("expected sorted view, got %#v", items)
	}

	a.BackToLists()
	if a.Sort() != lists.SortDefault {
		t.Fatal("expected sort reset when leaving a list")
	}
	if _, _, ok := a.SelectedItems(); ok {
		t.Fatal("expected selection cleared")
	}

	a.Navigate(app.ViewHome)
	if fake.Populars() != 1 {
		t.Fatalf("expected popular fetch on entering home, got %d", fake.Populars())
	}
}
