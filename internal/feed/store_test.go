// File: internal/feed/store_test.go
package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/ldw80203/house-video/internal/listing"
)

// fakeGateway returns canned listings, or blocks until released when a gate
// channel is installed.
type fakeGateway struct {
	mu       sync.Mutex
	listings []listing.Listing
	err      error
	gate     chan struct{}
}

func (g *fakeGateway) FetchListings(ctx context.Context, f listing.Filter) ([]listing.Listing, error) {
	g.mu.Lock()
	gate := g.gate
	listings := g.listings
	err := g.err
	g.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return listings, err
}

func (g *fakeGateway) set(listings []listing.Listing, err error) {
	g.mu.Lock()
	g.listings = listings
	g.err = err
	g.gate = nil
	g.mu.Unlock()
}

func makeListings(titles ...string) []listing.Listing {
	out := make([]listing.Listing, 0, len(titles))
	for _, t := range titles {
		out = append(out, listing.Listing{Title: t})
	}
	return out
}

func TestFetchAll_PopulatesAndResetsFocus(t *testing.T) {
	gw := &fakeGateway{}
	gw.set(makeListings("a", "b", "c"), nil)
	store := NewStore(gw, zap.NewNop())

	assert.NoError(t, store.FetchAll(context.Background()))

	state := store.Current()
	assert.Len(t, state.Listings, 3)
	assert.Equal(t, 0, state.Focus)
	assert.False(t, state.Loading)
	assert.NoError(t, state.Err)

	// Focus moves, then a refetch snaps it back to the top.
	store.SetFocus(2)
	assert.Equal(t, 2, store.Current().Focus)

	assert.NoError(t, store.FetchAll(context.Background()))
	assert.Equal(t, 0, store.Current().Focus)
}

func TestFetch_ErrorKeepsPreviousListings(t *testing.T) {
	gw := &fakeGateway{}
	gw.set(makeListings("a", "b"), nil)
	store := NewStore(gw, zap.NewNop())
	assert.NoError(t, store.FetchAll(context.Background()))
	store.SetFocus(1)

	gw.set(nil, errors.New("backend down"))
	err := store.FetchAll(context.Background())

	assert.Error(t, err)
	state := store.Current()
	assert.Len(t, state.Listings, 2, "failed fetch must not clear the feed")
	assert.Equal(t, 1, state.Focus, "failed fetch must not move focus")
	assert.Error(t, state.Err)
	assert.False(t, state.Loading)
}

func TestFetch_StaleResponseDiscarded(t *testing.T) {
	gw := &fakeGateway{}
	gate := make(chan struct{})
	gw.mu.Lock()
	gw.listings = makeListings("stale")
	gw.gate = gate
	gw.mu.Unlock()

	store := NewStore(gw, zap.NewNop())

	// First fetch parks inside the gateway.
	done := make(chan error, 1)
	go func() { done <- store.FetchAll(context.Background()) }()

	assert.Eventually(t, func() bool {
		return store.Current().Loading
	}, time.Second, time.Millisecond)

	// Second fetch completes immediately with the fresh result.
	gw.set(makeListings("fresh-1", "fresh-2"), nil)
	assert.NoError(t, store.ApplyFilter(context.Background(), listing.Filter{}))
	assert.Len(t, store.Current().Listings, 2)

	// Releasing the first fetch must not overwrite the newer result.
	close(gate)
	assert.NoError(t, <-done)

	state := store.Current()
	assert.Len(t, state.Listings, 2)
	assert.Equal(t, "fresh-1", state.Listings[0].Title)
}

func TestApplyFilter_BecomesActiveFilter(t *testing.T) {
	gw := &fakeGateway{}
	gw.set(makeListings("match"), nil)
	store := NewStore(gw, zap.NewNop())

	district := "台北市信義區"
	f := listing.Filter{District: &district}
	assert.NoError(t, store.ApplyFilter(context.Background(), f))

	state := store.Current()
	assert.Equal(t, f, state.Filter)
	assert.Len(t, state.Listings, 1)

	assert.NoError(t, store.ClearFilter(context.Background()))
	assert.True(t, store.Current().Filter.IsZero())
}

func TestAdvanceRetreat_Bounds(t *testing.T) {
	gw := &fakeGateway{}
	gw.set(makeListings("a", "b", "c"), nil)
	store := NewStore(gw, zap.NewNop())
	assert.NoError(t, store.FetchAll(context.Background()))

	store.Retreat()
	assert.Equal(t, 0, store.Current().Focus, "retreat at the top is a no-op")

	store.Advance()
	store.Advance()
	assert.Equal(t, 2, store.Current().Focus)

	store.Advance()
	assert.Equal(t, 2, store.Current().Focus, "advance at the end is a no-op")

	store.Retreat()
	assert.Equal(t, 1, store.Current().Focus)
}

func TestSetFocus_IgnoresOutOfRange(t *testing.T) {
	gw := &fakeGateway{}
	gw.set(makeListings("a", "b"), nil)
	store := NewStore(gw, zap.NewNop())
	assert.NoError(t, store.FetchAll(context.Background()))

	store.SetFocus(5)
	assert.Equal(t, 0, store.Current().Focus)
	store.SetFocus(-1)
	assert.Equal(t, 0, store.Current().Focus)
}

func TestEmptyFeed_NavigationIsSafe(t *testing.T) {
	gw := &fakeGateway{}
	gw.set(nil, nil)
	store := NewStore(gw, zap.NewNop())
	assert.NoError(t, store.FetchAll(context.Background()))

	store.Advance()
	store.Retreat()
	store.SetFocus(0)

	state := store.Current()
	assert.Equal(t, 0, state.Focus)
	assert.Nil(t, state.Focused())
}

func TestOnChange_ObserverSeesTransitions(t *testing.T) {
	gw := &fakeGateway{}
	gw.set(makeListings("a"), nil)
	store := NewStore(gw, zap.NewNop())

	var mu sync.Mutex
	var states []State
	cancel := store.OnChange(func(s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})
	defer cancel()

	assert.NoError(t, store.FetchAll(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, len(states), 2, "loading and loaded transitions")
	assert.True(t, states[0].Loading)
	assert.False(t, states[len(states)-1].Loading)
	assert.Len(t, states[len(states)-1].Listings, 1)
}
