package store

import (
	"sync"

	"satellite_simulator/internal/model"
	"satellite_simulator/internal/simulator"
)

// DefaultEventLimit is how many recent events are retained.
const DefaultEventLimit = 200

// Store keeps the latest record per telemetry kind and a bounded history of
// events, so late-joining clients can catch up.
type Store struct {
	mu         sync.RWMutex
	latest     map[model.Kind]model.Record
	events     []model.Event // oldest first
	eventLimit int
	images     int
	lastCycle  uint64
}

// Snapshot is the catch-up view handed to new clients.
type Snapshot struct {
	Telemetry map[model.Kind]model.Record `json:"telemetry"`
	Events    []model.Event               `json:"events"`
	Images    int                         `json:"images"`
	Cycle     uint64                      `json:"cycle"`
}

func New(eventLimit int) *Store {
	if eventLimit <= 0 {
		eventLimit = DefaultEventLimit
	}
	return &Store{
		latest:     make(map[model.Kind]model.Record),
		eventLimit: eventLimit,
	}
}

// Add records telemetry. Periodic kinds replace the previous record; events
// are appended to the history; images are only counted.
func (s *Store) Add(records ...model.Record) {
	if len(records) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		switch rec := r.(type) {
		case model.Event:
			s.events = append(s.events, rec)
		case model.Image:
			s.images++
		default:
			s.latest[r.Kind()] = r
		}
	}
	if over := len(s.events) - s.eventLimit; over > 0 {
		s.events = append([]model.Event(nil), s.events[over:]...)
	}
}

// Latest returns the most recent record of kind k.
func (s *Store) Latest(k model.Kind) (model.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.latest[k]
	return r, ok
}

// RecentEvents returns up to n of the newest events, oldest first.
// n <= 0 returns all retained events.
func (s *Store) RecentEvents(n int) []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := 0
	if n > 0 && n < len(s.events) {
		start = len(s.events) - n
	}
	out := make([]model.Event, len(s.events)-start)
	copy(out, s.events[start:])
	return out
}

// Snapshot copies the current view.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tlm := make(map[model.Kind]model.Record, len(s.latest))
	for k, r := range s.latest {
		tlm[k] = r
	}
	evs := make([]model.Event, len(s.events))
	copy(evs, s.events)
	return Snapshot{Telemetry: tlm, Events: evs, Images: s.images, Cycle: s.lastCycle}
}

// OnBatch implements simulator.Callback.
func (s *Store) OnBatch(b simulator.Batch) {
	s.Add(b.Records...)
	s.mu.Lock()
	s.lastCycle = b.Cycle
	s.mu.Unlock()
}

// OnState implements simulator.Callback.
func (s *Store) OnState(simulator.State) {}
