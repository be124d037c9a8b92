package testsupport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"myfilms/internal/catalog"
)

// Float returns a pointer for nullable catalog numbers.
func Float(v float64) *float64 { return &v }

// NewCatalogServer starts an httptest server answering the given paths with
// canned JSON bodies. Unknown paths answer 404. The server checks the bearer
// token "test-token".
func NewCatalogServer(t testing.TB, routes map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		path := strings.TrimPrefix(r.URL.Path, "/3")
		body, ok := routes[path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status_code":34}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

// FakeCatalog is an in-memory catalog.API. Each method returns the configured
// value or error and records its arguments. Setting Gate makes every call
// block until a value is sent on it, which lets tests hold responses in flight.
type FakeCatalog struct {
	mu sync.Mutex

	PopularItems []catalog.Item
	SearchItems  map[string][]catalog.Item
	Details      map[int64]*catalog.Detail
	Credits      map[int64]*catalog.Credits
	Err          error
	Gate         chan struct{}

	PopularCalls int
	SearchCalls  []string
	DetailCalls  []int64
	CreditCalls  []int64
}

var _ catalog.API = (*FakeCatalog)(nil)

var errFakeNotFound = errors.New("fake catalog: not found")

func (f *FakeCatalog) wait(ctx context.Context) error {
	f.mu.Lock()
	gate := f.Gate
	f.mu.Unlock()
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *FakeCatalog) Popular(ctx context.Context) ([]catalog.Item, error) {
	f.mu.Lock()
	f.PopularCalls++
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return append([]catalog.Item(nil), f.PopularItems...), nil
}

func (f *FakeCatalog) Search(ctx context.Context, query string) ([]catalog.Item, error) {
	f.mu.Lock()
	f.SearchCalls = append(f.SearchCalls, query)
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return append([]catalog.Item(nil), f.SearchItems[query]...), nil
}

func (f *FakeCatalog) Detail(ctx context.Context, id int64, kind catalog.MediaKind) (*catalog.Detail, error) {
	f.mu.Lock()
	f.DetailCalls = append(f.DetailCalls, id)
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	d, ok := f.Details[id]
	if !ok {
		return nil, errFakeNotFound
	}
	out := *d
	out.MediaType = kind
	return &out, nil
}

func (f *FakeCatalog) PersonCredits(ctx context.Context, personID int64) (*catalog.Credits, error) {
	f.mu.Lock()
	f.CreditCalls = append(f.CreditCalls, personID)
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	c, ok := f.Credits[personID]
	if !ok {
		return nil, errFakeNotFound
	}
	return c, nil
}

// Searches returns a copy of the recorded search queries.
func (f *FakeCatalog) Searches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.SearchCalls...)
}

// Populars returns the number of popular fetches so far.
func (f *FakeCatalog) Populars() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.PopularCalls
}
