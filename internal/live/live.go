// Package live implements the reactive query layer: registered queries are
// re-executed whenever one of their declared collections is mutated, and the
// fresh result is pushed to the subscriber. Results are eventually consistent
// with the latest store state, not synchronous with the write.
package live

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// QueryFunc re-runs a view query and returns its latest result.
type QueryFunc func(ctx context.Context) (interface{}, error)

// Bus owns the subscription registry. Repository mutations call Notify with
// the mutated collection; only subscriptions whose dependency set intersects
// it are re-evaluated.
type Bus struct {
	mu     sync.Mutex
	nextID int64
	subs   map[int64]*Subscription
	log    zerolog.Logger
}

func NewBus(log zerolog.Logger) *Bus {
	return &Bus{subs: make(map[int64]*Subscription), log: log}
}

// Subscription is a live query registration. Updates delivers the latest
// result; a slow consumer only ever sees the most recent one.
type Subscription struct {
	id      int64
	bus     *Bus
	deps    map[string]struct{}
	query   QueryFunc
	updates chan interface{}

	mu     sync.Mutex
	closed bool
}

// Subscribe registers query against the given collections and schedules an
// initial evaluation.
func (b *Bus) Subscribe(query QueryFunc, collections ...string) *Subscription {
	s := &Subscription{
		bus:     b,
		deps:    make(map[string]struct{}, len(collections)),
		query:   query,
		updates: make(chan interface{}, 1),
	}
	for _, c := range collections {
		s.deps[c] = struct{}{}
	}

	b.mu.Lock()
	b.nextID++
	s.id = b.nextID
	b.subs[s.id] = s
	b.mu.Unlock()

	go s.refresh()
	return s
}

// Notify re-evaluates every live subscription that reads from collection.
func (b *Bus) Notify(collection string) {
	b.mu.Lock()
	var hit []*Subscription
	for _, s := range b.subs {
		if _, ok := s.deps[collection]; ok {
			hit = append(hit, s)
		}
	}
	b.mu.Unlock()

	for _, s := range hit {
		go s.refresh()
	}
}

// Updates is the result channel. It is closed by Unsubscribe.
func (s *Subscription) Updates() <-chan interface{} {
	return s.updates
}

// Unsubscribe removes the registration and closes Updates. An in-flight
// query is not aborted; its result is discarded.
func (s *Subscription) Unsubscribe() {
	s.bus.mu.Lock()
	delete(s.bus.subs, s.id)
	s.bus.mu.Unlock()

	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.updates)
	}
	s.mu.Unlock()
}

func (s *Subscription) refresh() {
	res, err := s.query(context.Background())
	if err != nil {
		s.bus.log.Error().Err(err).Msg("live query failed")
		return
	}
	s.push(res)
}

func (s *Subscription) push(v interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	// Latest wins: displace a pending result the consumer has not read yet.
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- v:
	default:
	}
}
