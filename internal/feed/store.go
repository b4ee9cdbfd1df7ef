// File: internal/feed/store.go

// Package feed holds the swipeable video feed state: the ordered published
// listings, the active filter, and the focused index that drives playback.
package feed

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ldw80203/house-video/internal/listing"
)

// Gateway loads published listings for the feed. A zero filter loads the
// full published set.
type Gateway interface {
	FetchListings(ctx context.Context, f listing.Filter) ([]listing.Listing, error)
}

// serviceGateway adapts the listing service to the feed Gateway.
type serviceGateway struct {
	svc listing.Service
}

// NewServiceGateway wraps a listing service as a feed Gateway.
func NewServiceGateway(svc listing.Service) Gateway {
	return &serviceGateway{svc: svc}
}

func (g *serviceGateway) FetchListings(ctx context.Context, f listing.Filter) ([]listing.Listing, error) {
	return g.svc.ListPublished(ctx, f)
}

// State is an immutable snapshot of the feed.
type State struct {
	Listings []listing.Listing
	Filter   listing.Filter
	Focus    int
	Loading  bool
	Err      error
}

// Focused returns the listing under focus, or nil when the feed is empty.
func (s State) Focused() *listing.Listing {
	if len(s.Listings) == 0 {
		return nil
	}
	return &s.Listings[s.Focus]
}

// Store owns the feed state. Every fetch carries a sequence number taken
// under the lock; a response whose sequence is no longer the latest is
// discarded, so an older in-flight fetch can never overwrite a newer one.
type Store struct {
	gateway Gateway
	logger  *zap.Logger

	mu       sync.RWMutex
	listings []listing.Listing
	filter   listing.Filter
	focus    int
	loading  bool
	err      error
	seq      uint64

	nextSubID int
	subs      map[int]func(State)
}

// NewStore creates a feed store. The feed starts empty with focus 0; call
// FetchAll to populate it.
func NewStore(gateway Gateway, logger *zap.Logger) *Store {
	return &Store{
		gateway: gateway,
		logger:  logger,
		subs:    make(map[int]func(State)),
	}
}

// Current returns a snapshot of the feed state.
func (s *Store) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	return State{
		Listings: s.listings,
		Filter:   s.filter,
		Focus:    s.focus,
		Loading:  s.loading,
		Err:      s.err,
	}
}

// OnChange registers an observer invoked with a snapshot after every state
// transition. The returned cancel func must be called to stop observing.
func (s *Store) OnChange(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	state := s.snapshotLocked()
	observers := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		observers = append(observers, fn)
	}
	s.mu.RUnlock()

	for _, fn := range observers {
		fn(state)
	}
}

// FetchAll clears any active filter and loads the full published set.
func (s *Store) FetchAll(ctx context.Context) error {
	return s.fetch(ctx, listing.Filter{})
}

// ApplyFilter loads listings matching the filter and makes it the active
// filter. Present fields are ANDed; a zero filter behaves like FetchAll.
func (s *Store) ApplyFilter(ctx context.Context, f listing.Filter) error {
	return s.fetch(ctx, f)
}

// ClearFilter drops the active filter and reloads the full published set.
func (s *Store) ClearFilter(ctx context.Context) error {
	return s.fetch(ctx, listing.Filter{})
}

func (s *Store) fetch(ctx context.Context, f listing.Filter) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.loading = true
	s.err = nil
	s.mu.Unlock()
	s.notify()

	listings, err := s.gateway.FetchListings(ctx, f)

	s.mu.Lock()
	if seq != s.seq {
		// A newer fetch was started while this one was in flight; its result
		// wins regardless of arrival order.
		s.mu.Unlock()
		s.logger.Debug("Discarding stale feed fetch", zap.Uint64("seq", seq))
		return nil
	}
	if err != nil {
		// The previous listings stay on screen; only the error surfaces.
		s.loading = false
		s.err = err
		s.mu.Unlock()
		s.notify()
		s.logger.Error("Feed fetch failed", zap.Error(err))
		return err
	}

	s.listings = listings
	s.filter = f
	s.focus = 0
	s.loading = false
	s.err = nil
	s.mu.Unlock()
	s.notify()

	s.logger.Debug("Feed fetched", zap.Int("count", len(listings)), zap.Uint64("seq", seq))
	return nil
}

// SetFocus moves focus to index i. Out-of-range indexes are ignored.
func (s *Store) SetFocus(i int) {
	s.mu.Lock()
	if i < 0 || i >= len(s.listings) || i == s.focus {
		s.mu.Unlock()
		return
	}
	s.focus = i
	s.mu.Unlock()
	s.notify()
}

// Advance moves focus to the next listing; a no-op at the last one.
func (s *Store) Advance() {
	s.mu.Lock()
	if s.focus >= len(s.listings)-1 {
		s.mu.Unlock()
		return
	}
	s.focus++
	s.mu.Unlock()
	s.notify()
}

// Retreat moves focus to the previous listing; a no-op at the first one.
func (s *Store) Retreat() {
	s.mu.Lock()
	if s.focus <= 0 {
		s.mu.Unlock()
		return
	}
	s.focus--
	s.mu.Unlock()
	s.notify()
}
