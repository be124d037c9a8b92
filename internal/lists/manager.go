package lists

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"myfilms/internal/catalog"
	"myfilms/internal/logging"
	"myfilms/internal/services"
)

// Manager holds one user's lists plus the currently selected list.
type Manager struct {
	mu       sync.Mutex
	store    *Store
	user     string
	lists    []List
	selected int64
	hasSel   bool
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for list IDs and timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logging.NewComponentLogger(logger, "lists")
	}
}

// Open loads user's collection from store.
func Open(ctx context.Context, store *Store, user string, opts ...Option) (*Manager, error) {
	m := &Manager{
		store:  store,
		user:   user,
		now:    time.Now,
		logger: logging.NewComponentLogger(nil, "lists"),
	}
	for _, opt := range opts {
		opt(m)
	}
	loaded, err := store.Load(ctx, user)
	if err != nil {
		return nil, err
	}
	m.lists = loaded
	return m, nil
}

// User returns the username the manager is bound to.
func (m *Manager) User() string { return m.user }

// Lists returns a copy of the collection in creation order.
func (m *Manager) Lists() []List {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]List, len(m.lists))
	for i, l := range m.lists {
		out[i] = l.clone()
	}
	return out
}

// Get returns a copy of the list with id.
func (m *Manager) Get(id int64) (List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexOf(id)
	if idx < 0 {
		return List{}, ErrListNotFound
	}
	return m.lists[idx].clone(), nil
}

// CreateList appends a new empty list. Names are trimmed; an empty name is
// rejected without touching state.
func (m *Manager) CreateList(ctx context.Context, name string) (List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return List{}, ErrEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	list := List{
		ID:        m.nextID(now),
		Name:      name,
		Items:     []catalog.Item{},
		CreatedAt: now.UTC(),
	}
	next := append(m.snapshot(), list)
	if err := m.commit(ctx, next); err != nil {
		return List{}, err
	}
	m.logFor(ctx, list.ID).Info("list created", logging.String("name", name))
	return list.clone(), nil
}

// DeleteList removes the list and clears the selection if it was selected.
func (m *Manager) DeleteList(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return ErrListNotFound
	}
	next := m.snapshot()
	next = append(next[:idx], next[idx+1:]...)
	if err := m.commit(ctx, next); err != nil {
		return err
	}
	if m.hasSel && m.selected == id {
		m.hasSel = false
	}
	m.logFor(ctx, id).Info("list deleted")
	return nil
}

// AddToList appends item unless an item with the same ID is present. added
// reports whether the list changed.
func (m *Manager) AddToList(ctx context.Context, listID int64, item catalog.Item) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(listID)
	if idx < 0 {
		return false, ErrListNotFound
	}
	if m.lists[idx].Contains(item.ID) {
		return false, nil
	}
	next := m.snapshot()
	next[idx] = next[idx].clone()
	next[idx].Items = append(next[idx].Items, item)
	if err := m.commit(ctx, next); err != nil {
		return false, err
	}
	m.logFor(ctx, listID).Info("item added", logging.Int64("item_id", item.ID))
	return true, nil
}

// RemoveFromList drops the item with itemID. Removing an absent item is a
// no-op; removed reports whether the list changed.
func (m *Manager) RemoveFromList(ctx context.Context, listID, itemID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(listID)
	if idx < 0 {
		return false, ErrListNotFound
	}
	if !m.lists[idx].Contains(itemID) {
		return false, nil
	}
	next := m.snapshot()
	kept := make([]catalog.Item, 0, len(next[idx].Items))
	for _, item := range next[idx].Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	next[idx].Items = kept
	if err := m.commit(ctx, next); err != nil {
		return false, err
	}
	m.logFor(ctx, listID).Info("item removed", logging.Int64("item_id", itemID))
	return true, nil
}

// Select marks the list with id as the one being viewed.
func (m *Manager) Select(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(id) < 0 {
		return ErrListNotFound
	}
	m.selected = id
	m.hasSel = true
	return nil
}

// ClearSelection forgets the selected list.
func (m *Manager) ClearSelection() {
	m.mu.Lock()
	m.hasSel = false
	m.mu.Unlock()
}

// Selected returns the current contents of the selected list, if any.
func (m *Manager) Selected() (List, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasSel {
		return List{}, false
	}
	idx := m.indexOf(m.selected)
	if idx < 0 {
		return List{}, false
	}
	return m.lists[idx].clone(), true
}

// commit persists next and only then makes it the live collection.
func (m *Manager) commit(ctx context.Context, next []List) error {
	if err := m.store.Save(ctx, m.user, next); err != nil {
		logging.ErrorWithContext(m.logFor(ctx, 0), "persist lists failed", "lists_persist_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the data directory is writable"),
		)
		return err
	}
	m.lists = next
	return nil
}

func (m *Manager) snapshot() []List {
	out := make([]List, len(m.lists), len(m.lists)+1)
	copy(out, m.lists)
	return out
}

func (m *Manager) indexOf(id int64) int {
	for i, l := range m.lists {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// nextID uses the creation time in milliseconds, bumped past the largest
// existing ID when two lists are created within the same millisecond.
func (m *Manager) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	for _, l := range m.lists {
		if l.ID >= id {
			id = l.ID + 1
		}
	}
	return id
}

func (m *Manager) logFor(ctx context.Context, listID int64) *slog.Logger {
	ctx = services.WithUser(ctx, m.user)
	if listID != 0 {
		ctx = services.WithListID(ctx, listID)
	}
	return logging.WithContext(ctx, m.logger)
}
