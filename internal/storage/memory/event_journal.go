package memory

import (
	"context"
	"sort"
	"sync"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/storage"
)

// EventJournal is an in-memory implementation of storage.EventJournal.
type EventJournal struct {
	mu     sync.RWMutex
	events []*domain.Event
}

// NewEventJournal creates a new in-memory event journal.
func NewEventJournal() *EventJournal {
	return &EventJournal{}
}

// Append records an event.
func (j *EventJournal) Append(_ context.Context, e *domain.Event) error {
	if e == nil || e.Kind == "" {
		return storage.ErrInvalidInput
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	cp := *e
	j.events = append(j.events, &cp)
	return nil
}

// GetByProject retrieves events of a project within [start, end] (inclusive).
func (j *EventJournal) GetByProject(_ context.Context, projectID string, start, end int64) ([]*domain.Event, error) {
	return j.filter(func(e *domain.Event) bool {
		return e.ProjectID == projectID && e.Timestamp >= start && e.Timestamp <= end
	}), nil
}

// GetByUser retrieves events of a user within [start, end] (inclusive).
func (j *EventJournal) GetByUser(_ context.Context, user string, start, end int64) ([]*domain.Event, error) {
	return j.filter(func(e *domain.Event) bool {
		return e.User == user && e.Timestamp >= start && e.Timestamp <= end
	}), nil
}

func (j *EventJournal) filter(keep func(*domain.Event) bool) []*domain.Event {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var result []*domain.Event
	for _, e := range j.events {
		if keep(e) {
			cp := *e
			result = append(result, &cp)
		}
	}

	sort.SliceStable(result, func(i, k int) bool {
		return result[i].Timestamp < result[k].Timestamp
	})
	return result
}

// Verify interface compliance at compile time.
var _ storage.EventJournal = (*EventJournal)(nil)
