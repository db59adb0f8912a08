// Package store keeps the most recent normalized forecast per location.
package store

import (
	"container/list"
	"slices"
	"sync"

	"github.com/couchcryptid/forecast-etl/internal/domain"
)

// Latest is a thread-safe, size-bounded map from location key to the last
// successfully normalized record. When full, the location refreshed least
// recently is evicted. A failed normalization never reaches Put, so the
// previous record for that location stays visible.
type Latest struct {
	maxEntries int

	mu      sync.Mutex
	order   *list.List // front is the most recently written
	entries map[string]*list.Element
}

// NewLatest creates a store holding at most maxEntries locations. A
// non-positive maxEntries means unbounded.
func NewLatest(maxEntries int) *Latest {
	return &Latest{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

// Put records rec as the latest forecast for rec.Location. A record older
// than the one already stored is ignored so redelivered messages cannot roll
// a location back. Age is the payload's observation time when both records
// carry one, else ProcessedAt. It reports whether the record was stored.
func (s *Latest) Put(rec domain.ForecastRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[rec.Location]; ok {
		current := e.Value.(domain.ForecastRecord)
		if olderThan(rec, current) {
			return false
		}
		e.Value = rec
		s.order.MoveToFront(e)
		return true
	}

	s.entries[rec.Location] = s.order.PushFront(rec)
	if s.maxEntries > 0 && s.order.Len() > s.maxEntries {
		s.evictOldest()
	}
	return true
}

// Get returns the latest record for a location.
func (s *Latest) Get(location string) (domain.ForecastRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[location]
	if !ok {
		return domain.ForecastRecord{}, false
	}
	return e.Value.(domain.ForecastRecord), true
}

// Locations returns the stored location keys in sorted order.
func (s *Latest) Locations() []string {
	s.mu.Lock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	s.mu.Unlock()

	slices.Sort(keys)
	return keys
}

// Len returns the number of stored locations.
func (s *Latest) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

func olderThan(rec, current domain.ForecastRecord) bool {
	a, b := rec.Forecast.ObservedAt(), current.Forecast.ObservedAt()
	if a.IsZero() || b.IsZero() {
		return rec.ProcessedAt.Before(current.ProcessedAt)
	}
	return a.Before(b)
}

func (s *Latest) evictOldest() {
	e := s.order.Back()
	if e == nil {
		return
	}
	s.order.Remove(e)
	delete(s.entries, e.Value.(domain.ForecastRecord).Location)
}
