package detail

import (
	"context"
	"log/slog"
	"sync"

	"myfilms/internal/catalog"
	"myfilms/internal/logging"
)

// CastShown is how many cast members the detail pane lists.
const CastShown = 8

// Fetcher is the part of the catalog the detail panes need.
type Fetcher interface {
	Detail(ctx context.Context, id int64, kind catalog.MediaKind) (*catalog.Detail, error)
	PersonCredits(ctx context.Context, personID int64) (*catalog.Credits, error)
}

// Runner executes a fetch. The default runs it on a new goroutine.
type Runner func(func())

// State is a snapshot of both panes.
type State struct {
	Item          *catalog.Item
	Detail        *catalog.Detail
	DetailLoading bool

	Person         *catalog.Person
	Credits        []catalog.Item
	CreditsLoading bool
	Filter         string

	Err error
}

// DetailOpen reports whether the detail pane is showing.
func (s State) DetailOpen() bool { return s.Item != nil }

// FilmographyOpen reports whether the filmography pane is showing.
func (s State) FilmographyOpen() bool { return s.Person != nil }

// VisibleCredits applies the title filter to the fetched credits.
func (s State) VisibleCredits() []catalog.Item {
	return FilterByTitle(s.Credits, s.Filter)
}

// Orchestrator owns the detail and filmography panes.
type Orchestrator struct {
	mu      sync.Mutex
	state   State
	fetcher Fetcher
	run     Runner
	base    context.Context
	logger  *slog.Logger

	detailSeq  uint64
	creditsSeq uint64
	cancelD    context.CancelFunc
	cancelC    context.CancelFunc

	listeners map[int]func(State)
	nextSub   int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

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
		o.logger = logging.NewComponentLogger(logger, "detail")
	}
}

func New(fetcher Fetcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		fetcher:   fetcher,
		run:       func(f func()) { go f() },
		base:      context.Background(),
		logger:    logging.NewComponentLogger(nil, "detail"),
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

// OpenDetail shows item and fetches its extended record. The fetched detail
// is tagged with the item's media kind.
func (o *Orchestrator) OpenDetail(item catalog.Item) {
	o.mu.Lock()
	o.detailSeq++
	seq := o.detailSeq
	if o.cancelD != nil {
		o.cancelD()
	}
	ctx, cancel := context.WithCancel(o.base)
	o.cancelD = cancel
	selected := item
	o.state.Item = &selected
	o.state.Detail = nil
	o.state.DetailLoading = true
	o.state.Err = nil
	o.mu.Unlock()
	o.notify()

	o.run(func() {
		defer cancel()
		detail, err := o.FetchDetail(ctx, item)

		o.mu.Lock()
		if seq != o.detailSeq {
			o.mu.Unlock()
			return
		}
		o.cancelD = nil
		o.state.DetailLoading = false
		if err != nil {
			o.state.Err = err
		} else {
			o.state.Detail = detail
		}
		o.mu.Unlock()
		o.notify()
	})
}

// FetchDetail fetches the extended record for item synchronously.
func (o *Orchestrator) FetchDetail(ctx context.Context, item catalog.Item) (*catalog.Detail, error) {
	kind := catalog.ParseKind(string(item.MediaType))
	detail, err := o.fetcher.Detail(ctx, item.ID, kind)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, o.logger), "detail fetch failed", "detail_fetch_failed",
			logging.Error(err),
			logging.Int64("item_id", item.ID),
			logging.String(logging.FieldImpact, "detail pane left empty"),
		)
		return nil, err
	}
	detail.MediaType = item.MediaType
	return detail, nil
}

// CloseDetail hides the detail pane and drops any detail still loading.
func (o *Orchestrator) CloseDetail() {
	o.mu.Lock()
	o.closeDetailLocked()
	o.mu.Unlock()
	o.notify()
}

func (o *Orchestrator) closeDetailLocked() {
	o.detailSeq++
	if o.cancelD != nil {
		o.cancelD()
		o.cancelD = nil
	}
	o.state.Item = nil
	o.state.Detail = nil
	o.state.DetailLoading = false
}

// OpenFilmography closes the detail pane, shows person and fetches their
// merged credits. The filter starts empty.
func (o *Orchestrator) OpenFilmography(person catalog.Person) {
	o.mu.Lock()
	o.closeDetailLocked()
	o.creditsSeq++
	seq := o.creditsSeq
	if o.cancelC != nil {
		o.cancelC()
	}
	ctx, cancel := context.WithCancel(o.base)
	o.cancelC = cancel
	p := person
	o.state.Person = &p
	o.state.Credits = nil
	o.state.Filter = ""
	o.state.CreditsLoading = true
	o.state.Err = nil
	o.mu.Unlock()
	o.notify()

	o.run(func() {
		defer cancel()
		credits, err := o.Filmography(ctx, person.ID)

		o.mu.Lock()
		if seq != o.creditsSeq {
			o.mu.Unlock()
			return
		}
		o.cancelC = nil
		o.state.CreditsLoading = false
		if err != nil {
			o.state.Err = err
			o.state.Credits = []catalog.Item{}
		} else {
			o.state.Credits = credits
		}
		o.mu.Unlock()
		o.notify()
	})
}

// Filmography fetches and merges a person's credits synchronously.
func (o *Orchestrator) Filmography(ctx context.Context, personID int64) ([]catalog.Item, error) {
	credits, err := o.fetcher.PersonCredits(ctx, personID)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, o.logger), "credits fetch failed", "credits_fetch_failed",
			logging.Error(err),
			logging.Int64("person_id", personID),
			logging.String(logging.FieldImpact, "filmography shown empty"),
		)
		return nil, err
	}
	return MergeFilmography(credits.Cast, credits.Crew), nil
}

// SetFilter narrows the visible credits without re-fetching.
func (o *Orchestrator) SetFilter(text string) {
	o.mu.Lock()
	o.state.Filter = text
	o.mu.Unlock()
	o.notify()
}

// CloseFilmography hides the filmography pane and resets person, credits
// and filter.
func (o *Orchestrator) CloseFilmography() {
	o.mu.Lock()
	o.creditsSeq++
	if o.cancelC != nil {
		o.cancelC()
		o.cancelC = nil
	}
	o.state.Person = nil
	o.state.Credits = nil
	o.state.Filter = ""
	o.state.CreditsLoading = false
	o.mu.Unlock()
	o.notify()
}

// Reset closes both panes.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	o.closeDetailLocked()
	o.mu.Unlock()
	o.CloseFilmography()
}

func (o *Orchestrator) snapshotLocked() State {
	out := o.state
	if o.state.Credits != nil {
		out.Credits = append([]catalog.Item(nil), o.state.Credits...)
	}
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
