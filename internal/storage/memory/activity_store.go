package memory

import (
	"context"
	"sync"

	"github.com/Ken19931113/debook/internal/domain"
	"github.com/Ken19931113/debook/internal/storage"
)

// DefaultActivityCapacity bounds the in-memory journal.
const DefaultActivityCapacity = 10000

// ActivityStore is an in-memory implementation of storage.ActivityStore.
// It keeps the most recent events up to its capacity.
type ActivityStore struct {
	mu       sync.RWMutex
	events   []*domain.ActivityEvent
	capacity int
}

// NewActivityStore creates a new in-memory activity store. A non-positive
// capacity selects DefaultActivityCapacity.
func NewActivityStore(capacity int) *ActivityStore {
	if capacity <= 0 {
		capacity = DefaultActivityCapacity
	}
	return &ActivityStore{capacity: capacity}
}

var _ storage.ActivityStore = (*ActivityStore)(nil)

// Append adds an event, evicting the oldest when full.
func (s *ActivityStore) Append(_ context.Context, ev *domain.ActivityEvent) error {
	if ev == nil || ev.Kind == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	evCopy := *ev
	s.events = append(s.events, &evCopy)
	if len(s.events) > s.capacity {
		s.events = s.events[len(s.events)-s.capacity:]
	}
	return nil
}

// Recent returns matching events, newest first.
func (s *ActivityStore) Recent(_ context.Context, filter storage.ActivityFilter) ([]*domain.ActivityEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ActivityEvent, 0)
	for i := len(s.events) - 1; i >= 0; i-- {
		ev := s.events[i]
		if filter.Kind != "" && ev.Kind != filter.Kind {
			continue
		}
		if filter.Subject != "" && ev.Subject != filter.Subject {
			continue
		}
		evCopy := *ev
		result = append(result, &evCopy)
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}
