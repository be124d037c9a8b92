package lists_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"myfilms/internal/catalog"
	"myfilms/internal/kvstore"
	"myfilms/internal/lists"
	"myfilms/internal/services"
	"myfilms/internal/testsupport"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func openManager(t *testing.T, kv kvstore.Store, user string, opts ...lists.Option) *lists.Manager {
	t.Helper()
	m, err := lists.Open(context.Background(), lists.NewStore(kv), user, opts...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return m
}

func storedLists(t *testing.T, kv kvstore.Store, user string) []lists.List {
	t.Helper()
	raw, found, err := kv.Get(context.Background(), lists.Key(user))
	if err != nil || !found {
		t.Fatalf("expected stored lists for %s: found=%v err=%v", user, found, err)
	}
	var out []lists.List
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode stored lists: %v", err)
	}
	return out
}

func TestOpenWithoutRecordIsEmpty(t *testing.T) {
	m := openManager(t, kvstore.NewMemory(), "ana")
	if got := m.Lists(); len(got) != 0 {
		t.Fatalf("expected empty collection, got %v", got)
	}
}

func TestCreateListPersistsAndAppends(t *testing.T) {
	kv := kvstore.NewMemory()
	m := openManager(t, kv, "ana", lists.WithClock(fixedClock(1000)))
	ctx := context.Background()

	first, err := m.CreateList(ctx, "  Favorites  ")
	if err != nil {
		t.Fatalf("CreateList: %v", err)
	}
	if first.Name != "Favorites" || first.ID != 1000 || len(first.Items) != 0 {
		t.Fatalf("unexpected list %#v", first)
	}
	second, err := m.CreateList(ctx, "Watch later")
	if err != nil {
		t.Fatalf("CreateList: %v", err)
	}
	if second.ID != 1001 {
		t.Fatalf("expected id bumped past collision, got %d", second.ID)
	}

	stored := storedLists(t, kv, "ana")
	if len(stored) != 2 || stored[0].Name != "Favorites" || stored[1].Name != "Watch later" {
		t.Fatalf("unexpected stored lists %#v", stored)
	}
	raw, _, _ := kv.Get(ctx, "myFilmsLists_ana")
	var generic []map[string]any
	_ = json.Unmarshal(raw, &generic)
	for _, key := range []string{"id", "name", "items", "createdAt"} {
		if _, ok := generic[0][key]; !ok {
			t.Fatalf("expected key %q in stored record %v", key, generic[0])
		}
	}
}

func TestCreateListRejectsEmptyName(t *testing.T) {
	kv := kvstore.NewMemory()
	m := openManager(t, kv, "ana")
	_, err := m.CreateList(context.Background(), "   ")
	if !errors.Is(err, lists.ErrEmptyName) || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected empty-name validation error, got %v", err)
	}
	if len(m.Lists()) != 0 {
		t.Fatal("expected no list created")
	}
	if _, found, _ := kv.Get(context.Background(), lists.Key("ana")); found {
		t.Fatal("expected nothing persisted")
	}
}

func TestAddToListDuplicateIsNoop(t *testing.T) {
	kv := kvstore.NewMemory()
	m := openManager(t, kv, "ana")
	ctx := context.Background()
	l, _ := m.CreateList(ctx, "Favorites")
	item := catalog.Item{ID: 42, Title: "Answer", PosterPath: "/p.jpg"}

	added, err := m.AddToList(ctx, l.ID, item)
	if err != nil || !added {
		t.Fatalf("expected first add to succeed: added=%v err=%v", added, err)
	}
	added, err = m.AddToList(ctx, l.ID, item)
	if err != nil || added {
		t.Fatalf("expected duplicate add to be a no-op: added=%v err=%v", added, err)
	}
	got, _ := m.Get(l.ID)
	if len(got.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got.Items))
	}
	if stored := storedLists(t, kv, "ana"); len(stored[0].Items) != 1 {
		t.Fatalf("expected 1 persisted item, got %d", len(stored[0].Items))
	}
}

func TestRemoveFromListRefreshesSelection(t *testing.T) {
	m := openManager(t, kvstore.NewMemory(), "ana")
	ctx := context.Background()
	l, _ := m.CreateList(ctx, "Favorites")
	_, _ = m.AddToList(ctx, l.ID, catalog.Item{ID: 1})
	_, _ = m.AddToList(ctx, l.ID, catalog.Item{ID: 2})
	if err := m.Select(l.ID); err != nil {
		t.Fatalf("Select: %v", err)
	}

	removed, err := m.RemoveFromList(ctx, l.ID, 1)
	if err != nil || !removed {
		t.Fatalf("expected removal: removed=%v err=%v", removed, err)
	}
	sel, ok := m.Selected()
	if !ok || len(sel.Items) != 1 || sel.Items[0].ID != 2 {
		t.Fatalf("selected view not refreshed: %#v", sel)
	}

	removed, err = m.RemoveFromList(ctx, l.ID, 99)
	if err != nil || removed {
		t.Fatalf("expected absent removal to be a no-op: removed=%v err=%v", removed, err)
	}
}

func TestDeleteListClearsSelectionAndStorage(t *testing.T) {
	kv := kvstore.NewMemory()
	m := openManager(t, kv, "ana", lists.WithClock(fixedClock(5)))
	ctx := context.Background()
	keep, _ := m.CreateList(ctx, "Keep")
	drop, _ := m.CreateList(ctx, "Drop")
	_ = m.Select(drop.ID)

	if err := m.DeleteList(ctx, drop.ID); err != nil {
		t.Fatalf("DeleteList: %v", err)
	}
	if _, ok := m.Selected(); ok {
		t.Fatal("expected selection cleared")
	}
	stored := storedLists(t, kv, "ana")
	if len(stored) != 1 || stored[0].ID != keep.ID {
		t.Fatalf("unexpected stored lists %#v", stored)
	}
}

func TestDeleteOtherListKeepsSelection(t *testing.T) {
	m := openManager(t, kvstore.NewMemory(), "ana", lists.WithClock(fixedClock(5)))
	ctx := context.Background()
	a, _ := m.CreateList(ctx, "A")
	b, _ := m.CreateList(ctx, "B")
	_ = m.Select(a.ID)
	_ = m.DeleteList(ctx, b.ID)
	if sel, ok := m.Selected(); !ok || sel.ID != a.ID {
		t.Fatalf("expected selection kept, got %#v %v", sel, ok)
	}
}

func TestUnknownListIDs(t *testing.T) {
	m := openManager(t, kvstore.NewMemory(), "ana")
	ctx := context.Background()
	if err := m.DeleteList(ctx, 1); !errors.Is(err, lists.ErrListNotFound) {
		t.Fatalf("DeleteList: expected not found, got %v", err)
	}
	if _, err := m.AddToList(ctx, 1, catalog.Item{ID: 1}); !errors.Is(err, lists.ErrListNotFound) {
		t.Fatalf("AddToList: expected not found, got %v", err)
	}
	if _, err := m.RemoveFromList(ctx, 1, 1); !errors.Is(err, lists.ErrListNotFound) {
		t.Fatalf("RemoveFromList: expected not found, got %v", err)
	}
	if err := m.Select(1); !errors.Is(err, lists.ErrListNotFound) {
		t.Fatalf("Select: expected not found, got %v", err)
	}
}

func TestListsAreScopedPerUser(t *testing.T) {
	kv := kvstore.NewMemory()
	ctx := context.Background()
	ana := openManager(t, kv, "ana")
	if _, err := ana.CreateList(ctx, "Ana's"); err != nil {
		t.Fatalf("CreateList: %v", err)
	}
	bea := openManager(t, kv, "bea")
	if len(bea.Lists()) != 0 {
		t.Fatal("expected bea to see no lists")
	}
	again := openManager(t, kv, "ana")
	if len(again.Lists()) != 1 {
		t.Fatal("expected ana's lists to reload")
	}
}

func TestFailedPersistLeavesStateUnchanged(t *testing.T) {
	kv := &failingStore{MemoryStore: kvstore.NewMemory()}
	m := openManager(t, kv, "ana")
	kv.fail = true
	if _, err := m.CreateList(context.Background(), "X"); !errors.Is(err, services.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if len(m.Lists()) != 0 {
		t.Fatal("expected no in-memory change after failed save")
	}
}

func TestLoadRejectsCorruptRecord(t *testing.T) {
	kv := kvstore.NewMemory()
	_ = kv.Put(context.Background(), lists.Key("ana"), []byte("{not json"))
	_, err := lists.Open(context.Background(), lists.NewStore(kv), "ana")
	if !errors.Is(err, services.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestSortedView(t *testing.T) {
	items := []catalog.Item{
		{ID: 1, VoteAverage: testsupport.Float(7)},
		{ID: 2},
		{ID: 3, VoteAverage: testsupport.Float(9)},
		{ID: 4, VoteAverage: testsupport.Float(7)},
		{ID: 5, VoteAverage: testsupport.Float(0)},
	}
	ids := func(in []catalog.Item) []int64 {
		out := make([]int64, len(in))
		for i, it := range in {
			out[i] = it.ID
		}
		return out
	}
	cases := []struct {
		order lists.SortOrder
		want  []int64
	}{
		{lists.SortDefault, []int64{1, 2, 3, 4, 5}},
		{lists.SortRatingDesc, []int64{3, 1, 4, 2, 5}},
		{lists.SortRatingAsc, []int64{2, 5, 1, 4, 3}},
	}
	for _, tc := range cases {
		got := ids(lists.SortedView(items, tc.order))
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: got %v want %v", tc.order, got, tc.want)
			}
		}
	}
	if ids(items)[0] != 1 || ids(items)[2] != 3 {
		t.Fatal("SortedView must not reorder its input")
	}
}

func TestSortedViewDistinctRatingsReverse(t *testing.T) {
	items := []catalog.Item{
		{ID: 1, VoteAverage: testsupport.Float(5)},
		{ID: 2, VoteAverage: testsupport.Float(8)},
		{ID: 3, VoteAverage: testsupport.Float(6.5)},
	}
	desc := lists.SortedView(items, lists.SortRatingDesc)
	asc := lists.SortedView(items, lists.SortRatingAsc)
	for i := range desc {
		if desc[i].ID != asc[len(asc)-1-i].ID {
			t.Fatalf("desc %v is not the reverse of asc %v", desc, asc)
		}
	}
}

func TestParseSortOrder(t *testing.T) {
	for in, want := range map[string]lists.SortOrder{"": lists.SortDefault, "desc": lists.SortRatingDesc, "rating-asc": lists.SortRatingAsc} {
		got, err := lists.ParseSortOrder(in)
		if err != nil || got != want {
			t.Fatalf("ParseSortOrder(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := lists.ParseSortOrder("title"); err == nil {
		t.Fatal("expected error for unknown order")
	}
}

func TestCover(t *testing.T) {
	l := lists.List{Items: []catalog.Item{{PosterPath: "/first"}, {BackdropPath: "/back"}}}
	if l.Cover() != "/back" {
		t.Fatalf("expected last item's backdrop, got %q", l.Cover())
	}
	if (lists.List{}).Cover() != "" {
		t.Fatal("expected empty cover for empty list")
	}
}

type failingStore struct {
	*kvstore.MemoryStore
	fail bool
}

func (f *failingStore) Put(ctx context.Context, key string, value []byte) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.MemoryStore.Put(ctx, key, value)
}
