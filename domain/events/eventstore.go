package events

import (
	"fmt"
	"sync"
)

// EventStore is the interface for storing and retrieving event envelopes.
type EventStore interface {
	Append(envelope Envelope) error
	LoadEnvelopes(tableID string) ([]Envelope, error)
}

// InMemoryEventStore is an in-memory implementation of the EventStore
// interface, keyed by table.
type InMemoryEventStore struct {
	envelopes map[string][]Envelope
	mutex     sync.RWMutex
}

// NewInMemoryEventStore creates a new in-memory event store.
func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		envelopes: make(map[string][]Envelope),
	}
}

// Append adds an envelope to its table's history.
func (s *InMemoryEventStore) Append(envelope Envelope) error {
	if envelope.TableID == "" {
		return fmt.Errorf("envelope has no tableID")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.envelopes[envelope.TableID] = append(s.envelopes[envelope.TableID], envelope)
	return nil
}

// LoadEnvelopes retrieves all envelopes for the given tableID, in the
// order they were appended.
func (s *InMemoryEventStore) LoadEnvelopes(tableID string) ([]Envelope, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	stored := s.envelopes[tableID]
	result := make([]Envelope, len(stored))
	copy(result, stored)
	return result, nil
}
