package game

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/lazharichir/holdem/domain"
	"github.com/lazharichir/holdem/domain/events"
)

// Manager hosts many tables and serializes every command per table:
// each table has its own engine guarded by its own mutex, so commands
// for one table run one at a time while different tables proceed in
// parallel. Envelopes from all tables are persisted to the store and
// fanned out on a single channel for transports to consume.
type Manager struct {
	mu     sync.RWMutex
	tables map[string]*tableHandle

	store     events.EventStore
	envelopes chan events.Envelope
}

type tableHandle struct {
	mu     sync.Mutex
	engine *domain.GameEngine
	config domain.TableConfig
}

// NewManager creates a manager persisting envelopes to the given store.
func NewManager(store events.EventStore) *Manager {
	return &Manager{
		tables:    make(map[string]*tableHandle),
		store:     store,
		envelopes: make(chan events.Envelope, 256),
	}
}

// Events is the merged stream of envelopes from every table. A slow
// consumer drops envelopes from this channel, never blocks a table;
// the store keeps the complete history.
func (m *Manager) Events() <-chan events.Envelope {
	return m.envelopes
}

// CreateTable creates a table and returns its ID. A nil rng lets the
// engine seed from the clock.
func (m *Manager) CreateTable(config domain.TableConfig, rng *rand.Rand) string {
	tableID := uuid.NewString()
	engine := domain.NewGameEngine(tableID, config, rng)
	engine.RegisterEventHandler(func(envelope events.Envelope) {
		_ = m.store.Append(envelope)
		select {
		case m.envelopes <- envelope:
		default:
		}
	})

	m.mu.Lock()
	m.tables[tableID] = &tableHandle{engine: engine, config: config}
	m.mu.Unlock()

	return tableID
}

// ListTables returns the IDs of every open table.
func (m *Manager) ListTables() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.tables))
	for id := range m.tables {
		ids = append(ids, id)
	}
	return ids
}

// withTable runs fn with the table's engine, holding the table lock.
func (m *Manager) withTable(tableID string, fn func(*tableHandle) error) error {
	m.mu.RLock()
	handle, ok := m.tables[tableID]
	m.mu.RUnlock()
	if !ok {
		return domain.GameStateError{Reason: "table " + tableID + " not found"}
	}

	handle.mu.Lock()
	defer handle.mu.Unlock()
	return fn(handle)
}

// AddPlayer seats a player at a table.
func (m *Manager) AddPlayer(tableID string, player *domain.Player, seat int) error {
	return m.withTable(tableID, func(h *tableHandle) error {
		if seat >= h.config.MaxPlayers {
			return domain.GameStateError{Reason: "seat number exceeds table size"}
		}
		return h.engine.AddPlayer(player, seat)
	})
}

// RemovePlayer takes a player off a table.
func (m *Manager) RemovePlayer(tableID string, playerID string) error {
	return m.withTable(tableID, func(h *tableHandle) error {
		return h.engine.RemovePlayer(playerID)
	})
}

// StartHand deals the next hand at a table.
func (m *Manager) StartHand(tableID string) error {
	return m.withTable(tableID, func(h *tableHandle) error {
		return h.engine.StartHand()
	})
}

// ProcessAction applies a player's action at their table.
func (m *Manager) ProcessAction(tableID string, action domain.Action) error {
	return m.withTable(tableID, func(h *tableHandle) error {
		return h.engine.ProcessAction(action)
	})
}

// ForcePlayerAction applies the timeout default for a player.
func (m *Manager) ForcePlayerAction(tableID string, playerID string) error {
	return m.withTable(tableID, func(h *tableHandle) error {
		return h.engine.ForcePlayerAction(playerID)
	})
}

// GetPossibleActions returns the legal actions for a player right now.
func (m *Manager) GetPossibleActions(tableID string, playerID string) ([]domain.PossibleAction, error) {
	var possible []domain.PossibleAction
	err := m.withTable(tableID, func(h *tableHandle) error {
		var err error
		possible, err = h.engine.GetPossibleActions(playerID)
		return err
	})
	return possible, err
}

// GetPlayerView renders a table as one player is allowed to see it.
func (m *Manager) GetPlayerView(tableID string, playerID string) (domain.HandView, error) {
	var view domain.HandView
	err := m.withTable(tableID, func(h *tableHandle) error {
		view = h.engine.PlayerView(playerID)
		return nil
	})
	return view, err
}
