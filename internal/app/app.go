// Package app holds the explicit application state shared by every
// front-end: who is signed in, which view is showing, the selected list and
// its sort order, plus the two catalog orchestrators.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"myfilms/internal/browse"
	"myfilms/internal/catalog"
	"myfilms/internal/detail"
	"myfilms/internal/kvstore"
	"myfilms/internal/lists"
	"myfilms/internal/logging"
	"myfilms/internal/services"
	"myfilms/internal/session"
)

// View is the top-level screen.
type View string

const (
	ViewHome  View = "home"
	ViewLists View = "lists"
)

// ErrNotSignedIn is returned by list operations without a session.
var ErrNotSignedIn = fmt.Errorf("%w: not signed in", services.ErrAuth)

// App is the application state machine.
type App struct {
	mu sync.Mutex

	sessions  *session.Store
	auth      *session.Authenticator
	listStore *lists.Store
	logger    *slog.Logger
	listOpts  []lists.Option

	Browse *browse.Orchestrator
	Detail *detail.Orchestrator

	user     string
	manager  *lists.Manager
	managers map[string]*lists.Manager
	view     View
	sort     lists.SortOrder
}

// Option configures an App.
type Option func(*settings)

type settings struct {
	logger      *slog.Logger
	browseOpts  []browse.Option
	detailOpts  []detail.Option
	listOptions []lists.Option
}

// WithLogger attaches a logger to the app and everything it builds.
func WithLogger(logger *slog.Logger) Option {
	return func(c *settings) { c.logger = logger }
}

// WithBrowseOptions passes options to the browse orchestrator.
func WithBrowseOptions(opts ...browse.Option) Option {
	return func(c *settings) { c.browseOpts = append(c.browseOpts, opts...) }
}

// WithDetailOptions passes options to the detail orchestrator.
func WithDetailOptions(opts ...detail.Option) Option {
	return func(c *settings) { c.detailOpts = append(c.detailOpts, opts...) }
}

// WithListOptions passes options to every list manager the app opens.
func WithListOptions(opts ...lists.Option) Option {
	return func(c *settings) { c.listOptions = append(c.listOptions, opts...) }
}

// New wires the app over a key-value store, a catalog and an authenticator.
func New(kv kvstore.Store, api catalog.API, auth *session.Authenticator, opts ...Option) *App {
	cfg := &settings{}
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = logging.NewNop()
	}
	browseOpts := append([]browse.Option{browse.WithLogger(logger)}, cfg.browseOpts...)
	detailOpts := append([]detail.Option{detail.WithLogger(logger)}, cfg.detailOpts...)
	listOpts := append([]lists.Option{lists.WithLogger(logger)}, cfg.listOptions...)

	return &App{
		sessions:  session.NewStore(kv),
		auth:      auth,
		listStore: lists.NewStore(kv),
		logger:    logging.NewComponentLogger(logger, "app"),
		listOpts:  listOpts,
		Browse:    browse.New(api, browseOpts...),
		Detail:    detail.New(api, detailOpts...),
		managers:  make(map[string]*lists.Manager),
		view:      ViewHome,
		sort:      lists.SortDefault,
	}
}

// Restore resumes the session recorded in storage, if any.
func (a *App) Restore(ctx context.Context) (string, bool, error) {
	user, ok, err := a.sessions.Current(ctx)
	if err != nil || !ok {
		return "", false, err
	}
	if err := a.bind(ctx, user); err != nil {
		return "", false, err
	}
	a.logger.Info("session restored", logging.String(logging.FieldUser, user))
	return user, true, nil
}

// Login checks the credentials, records the session and loads the user's lists.
func (a *App) Login(ctx context.Context, username, password string) (string, error) {
	user, err := a.auth.Authenticate(username, password)
	if err != nil {
		a.logger.Info("login rejected", logging.String(logging.FieldUser, username))
		return "", err
	}
	if err := a.sessions.Set(ctx, user); err != nil {
		return "", err
	}
	if err := a.bind(ctx, user); err != nil {
		return "", err
	}
	a.logger.Info("signed in", logging.String(logging.FieldUser, user))
	return user, nil
}

// Authenticate checks credentials without touching the stored session. The
// HTTP front-end keeps its own cookie session and uses this.
func (a *App) Authenticate(username, password string) (string, error) {
	return a.auth.Authenticate(username, password)
}

// ListsFor returns the list manager of user, loading it on first use. Managers
// are shared so every front-end sees the same in-memory lists.
func (a *App) ListsFor(ctx context.Context, user string) (*lists.Manager, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if manager, ok := a.managers[user]; ok {
		return manager, nil
	}
	manager, err := lists.Open(services.WithUser(ctx, user), a.listStore, user, a.listOpts...)
	if err != nil {
		return nil, err
	}
	a.managers[user] = manager
	return manager, nil
}

func (a *App) bind(ctx context.Context, user string) error {
	manager, err := a.ListsFor(ctx, user)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.user = user
	a.manager = manager
	a.view = ViewHome
	a.sort = lists.SortDefault
	a.mu.Unlock()
	return nil
}

// Logout removes the session record, forgets the lists, returns to the home
// view with the default sort and reloads the popular listing.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.Clear(ctx); err != nil {
		return err
	}
	a.mu.Lock()
	user := a.user
	a.user = ""
	a.manager = nil
	a.view = ViewHome
	a.sort = lists.SortDefault
	a.mu.Unlock()

	a.Detail.Reset()
	a.Browse.SetQuery("")
	a.logger.Info("signed out", logging.String(logging.FieldUser, user))
	return nil
}

// User returns the signed-in username.
func (a *App) User() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user, a.user != ""
}

// Lists returns the signed-in user's list manager.
func (a *App) Lists() (*lists.Manager, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.manager == nil {
		return nil, ErrNotSignedIn
	}
	return a.manager, nil
}

// View returns the current top-level view.
func (a *App) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

// Navigate switches the top-level view. Entering home loads the popular
// listing when the query is empty; leaving it drops any pending search.
func (a *App) Navigate(view View) {
	a.mu.Lock()
	prev := a.view
	a.view = view
	manager := a.manager
	a.mu.Unlock()

	switch {
	case view == ViewHome && prev != ViewHome:
		if manager != nil {
			manager.ClearSelection()
		}
		a.Browse.Enter()
	case view != ViewHome && prev == ViewHome:
		a.Browse.Leave()
	}
}

// ShowList switches to the lists view with list id selected.
func (a *App) ShowList(id int64) error {
	manager, err := a.Lists()
	if err != nil {
		return err
	}
	if err := manager.Select(id); err != nil {
		return err
	}
	a.Navigate(ViewLists)
	return nil
}

// BackToLists leaves a list view and resets the sort order.
func (a *App) BackToLists() {
	a.mu.Lock()
	manager := a.manager
	a.sort = lists.SortDefault
	a.mu.Unlock()
	if manager != nil {
		manager.ClearSelection()
	}
}

// SetSort changes how the selected list is presented.
func (a *App) SetSort(order lists.SortOrder) {
	a.mu.Lock()
	a.sort = order
	a.mu.Unlock()
}

// Sort returns the current sort order.
func (a *App) Sort() lists.SortOrder {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sort
}

// SelectedItems returns the selected list's items in the current sort order.
func (a *App) SelectedItems() (lists.List, []catalog.Item, bool) {
	manager, err := a.Lists()
	if err != nil {
		return lists.List{}, nil, false
	}
	selected, ok := manager.Selected()
	if !ok {
		return lists.List{}, nil, false
	}
	return selected, lists.SortedView(selected.Items, a.Sort()), true
}

// Close stops background work.
func (a *App) Close() {
	a.Browse.Close()
	a.Detail.Reset()
}
