package browse

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"myfilms/internal/catalog"
	"myfilms/internal/debounce"
	"myfilms/internal/logging"
)

// DefaultDelay is the search quiet period.
const DefaultDelay = 500 * time.Millisecond

// Mode tells whether Items came from the popular listing or a search.
type Mode string

const (
	ModeBrowsing  Mode = "browsing"
	ModeSearching Mode = "searching"
)

// State is a snapshot of the home view.
type State struct {
	Query   string
	Mode    Mode
	Items   []catalog.Item
	Loading bool
	Err     error
}

// Fetcher is the part of the catalog the home view needs.
type Fetcher interface {
	Popular(ctx context.Context) ([]catalog.Item, error)
	Search(ctx context.Context, query string) ([]catalog.Item, error)
}

// Runner executes a fetch. The default runs it on a new goroutine.
type Runner func(func())

// Orchestrator owns the home view state.
type Orchestrator struct {
	mu        sync.Mutex
	state     State
	fetcher   Fetcher
	debouncer *debounce.Debouncer
	run       Runner
	base      context.Context
	logger    *slog.Logger

	seq       uint64
	cancel    context.CancelFunc
	listeners map[int]func(State)
	nextSub   int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDebouncer replaces the default 500ms debouncer.
func WithDebouncer(d *debounce.Debouncer) Option {
	return func(o *Orchestrator) {
		if d != nil {
			o.debouncer = d
		}
	}
}

// WithRunner controls how fetches are executed.
func WithRunner(r Runner) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.run = r
		}
	}
}

// WithBaseContext sets the parent context of every fetch.
func WithBaseContext(ctx context.Context) Option {
	return func(o *Orchestrator) {
		if ctx != nil {
			o.base = ctx
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logging.NewComponentLogger(logger, "browse")
	}
}

func New(fetcher Fetcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		state:     State{Mode: ModeBrowsing, Items: []catalog.Item{}},
		fetcher:   fetcher,
		debouncer: debounce.New(DefaultDelay),
		run:       func(f func()) { go f() },
		base:      context.Background(),
		logger:    logging.NewComponentLogger(nil, "browse"),
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Subscribe registers fn to receive a snapshot after every state change.
func (o *Orchestrator) Subscribe(fn func(State)) (unsubscribe func()) {
	o.mu.Lock()
	id := o.nextSub
	o.nextSub++
	o.listeners[id] = fn
	o.mu.Unlock()
	return func() {
		o.mu.Lock()
		delete(o.listeners, id)
		o.mu.Unlock()
	}
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// SetQuery records the new query text. An empty query fetches the popular
// listing at once; anything else schedules a search after the quiet period,
// replacing any search still waiting.
func (o *Orchestrator) SetQuery(text string) {
	o.mu.Lock()
	o.state.Query = text
	o.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		o.debouncer.Cancel()
		o.issue(ModeBrowsing, "")
		return
	}
	o.notify()
	o.debouncer.Trigger(func() {
		o.issue(ModeSearching, text)
	})
}

// Enter is called when the home view is shown. With an empty query it loads
// the popular listing.
func (o *Orchestrator) Enter() {
	o.mu.Lock()
	query := o.state.Query
	o.mu.Unlock()
	if strings.TrimSpace(query) == "" {
		o.issue(ModeBrowsing, "")
	}
}

// Leave is called when the home view is hidden. A search still waiting for
// its quiet period is dropped.
func (o *Orchestrator) Leave() {
	o.debouncer.Cancel()
}

// Refresh re-runs the current query immediately.
func (o *Orchestrator) Refresh() {
	o.debouncer.Cancel()
	o.mu.Lock()
	query := o.state.Query
	o.mu.Unlock()
	if q := strings.TrimSpace(query); q != "" {
		o.issue(ModeSearching, query)
		return
	}
	o.issue(ModeBrowsing, "")
}

// Close cancels pending and in-flight work. Late responses are discarded.
func (o *Orchestrator) Close() {
	o.debouncer.Cancel()
	o.mu.Lock()
	o.seq++
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.state.Loading = false
	o.mu.Unlock()
}

// Search runs query synchronously, bypassing the debounce. One-shot front-ends
// (CLI, HTTP) use it; it does not touch the orchestrator state.
func (o *Orchestrator) Search(ctx context.Context, query string) ([]catalog.Item, error) {
	if strings.TrimSpace(query) == "" {
		return o.fetcher.Popular(ctx)
	}
	return o.fetcher.Search(ctx, query)
}

func (o *Orchestrator) issue(mode Mode, query string) {
	o.mu.Lock()
	o.seq++
	seq := o.seq
	if o.cancel != nil {
		o.cancel()
	}
	ctx, cancel := context.WithCancel(o.base)
	o.cancel = cancel
	o.state.Loading = true
	o.state.Mode = mode
	o.mu.Unlock()
	o.notify()

	o.run(func() {
		var (
			items []catalog.Item
			err   error
		)
		if mode == ModeSearching {
			items, err = o.fetcher.Search(ctx, query)
		} else {
			items, err = o.fetcher.Popular(ctx)
		}

		o.mu.Lock()
		if seq != o.seq {
			o.mu.Unlock()
			o.logger.Debug("discarding stale response", logging.String("query", query))
			return
		}
		o.cancel = nil
		o.state.Loading = false
		if err != nil {
			o.state.Err = err
		} else {
			o.state.Err = nil
			o.state.Items = items
		}
		o.mu.Unlock()
		cancel()

		if err != nil {
			logging.WarnWithContext(o.logger, "catalog fetch failed", "browse_fetch_failed",
				logging.Error(err),
				logging.String("mode", string(mode)),
				logging.String("query", query),
				logging.String(logging.FieldErrorHint, "check network access and the catalog token"),
				logging.String(logging.FieldImpact, "previous results kept"),
			)
		} else {
			o.logger.Debug("results updated",
				logging.String("mode", string(mode)),
				logging.Int("results", len(items)),
			)
		}
		o.notify()
	})
}

func (o *Orchestrator) snapshotLocked() State {
	out := o.state
	out.Items = append([]catalog.Item(nil), o.state.Items...)
	return out
}

func (o *Orchestrator) notify() {
	o.mu.Lock()
	snap := o.snapshotLocked()
	fns := make([]func(State), 0, len(o.listeners))
	for _, fn := range o.listeners {
		fns = append(fns, fn)
	}
	o.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}
