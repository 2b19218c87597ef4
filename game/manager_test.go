package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazharichir/holdem/domain"
	"github.com/lazharichir/holdem/domain/events"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()

	manager := NewManager(events.NewInMemoryEventStore())
	tableID := manager.CreateTable(domain.TableConfig{MaxPlayers: 6, SmallBlind: 10, BigBlind: 20}, nil)

	require.NoError(t, manager.AddPlayer(tableID, domain.NewPlayer("alice", "Alice", 1000), 0))
	require.NoError(t, manager.AddPlayer(tableID, domain.NewPlayer("bob", "Bob", 1000), 1))
	return manager, tableID
}

func TestManager_CreateAndListTables(t *testing.T) {
	manager := NewManager(events.NewInMemoryEventStore())
	assert.Empty(t, manager.ListTables())

	first := manager.CreateTable(domain.TableConfig{MaxPlayers: 6, SmallBlind: 10, BigBlind: 20}, nil)
	second := manager.CreateTable(domain.TableConfig{MaxPlayers: 9, SmallBlind: 25, BigBlind: 50}, nil)

	assert.NotEqual(t, first, second)
	assert.ElementsMatch(t, []string{first, second}, manager.ListTables())
}

func TestManager_UnknownTable(t *testing.T) {
	manager := NewManager(events.NewInMemoryEventStore())

	var stateErr domain.GameStateError
	require.ErrorAs(t, manager.StartHand("nope"), &stateErr)
	require.ErrorAs(t, manager.AddPlayer("nope", domain.NewPlayer("alice", "Alice", 1000), 0), &stateErr)

	_, err := manager.GetPlayerView("nope", "alice")
	require.ErrorAs(t, err, &stateErr)
}

func TestManager_SeatLimit(t *testing.T) {
	manager := NewManager(events.NewInMemoryEventStore())
	tableID := manager.CreateTable(domain.TableConfig{MaxPlayers: 2, SmallBlind: 10, BigBlind: 20}, nil)

	var stateErr domain.GameStateError
	err := manager.AddPlayer(tableID, domain.NewPlayer("alice", "Alice", 1000), 2)
	require.ErrorAs(t, err, &stateErr)
}

func TestManager_HandFlowAndEventStream(t *testing.T) {
	manager, tableID := newTestManager(t)
	require.NoError(t, manager.StartHand(tableID))

	possible, err := manager.GetPossibleActions(tableID, "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, possible, "heads-up dealer opens pre-flop")

	require.NoError(t, manager.ProcessAction(tableID, domain.Action{
		Type: domain.ActionFold, PlayerID: "alice", At: time.Now(),
	}))

	view, err := manager.GetPlayerView(tableID, "bob")
	require.NoError(t, err)
	assert.Equal(t, string(domain.HandPhase_Complete), view.Phase)

	// Every emitted envelope is on the merged stream, in order per table.
	var seqs []uint64
drain:
	for {
		select {
		case envelope := <-manager.Events():
			assert.Equal(t, tableID, envelope.TableID)
			seqs = append(seqs, envelope.Seq)
		default:
			break drain
		}
	}
	require.NotEmpty(t, seqs)
	for i := 1; i < len(seqs); i++ {
		assert.Greater(t, seqs[i], seqs[i-1])
	}
}

func TestManager_PersistsEnvelopes(t *testing.T) {
	store := events.NewInMemoryEventStore()
	manager := NewManager(store)
	tableID := manager.CreateTable(domain.TableConfig{MaxPlayers: 6, SmallBlind: 10, BigBlind: 20}, nil)

	require.NoError(t, manager.AddPlayer(tableID, domain.NewPlayer("alice", "Alice", 1000), 0))
	require.NoError(t, manager.AddPlayer(tableID, domain.NewPlayer("bob", "Bob", 1000), 1))
	require.NoError(t, manager.StartHand(tableID))

	stored, err := store.LoadEnvelopes(tableID)
	require.NoError(t, err)
	require.NotEmpty(t, stored)
	assert.Equal(t, "PLAYER_JOINED_TABLE", stored[0].Event.Name())
}

func TestManager_ViewHidesOpponentCards(t *testing.T) {
	manager, tableID := newTestManager(t)
	require.NoError(t, manager.StartHand(tableID))

	view, err := manager.GetPlayerView(tableID, "alice")
	require.NoError(t, err)

	for _, pv := range view.Players {
		if pv.ID == "alice" {
			assert.Len(t, pv.HoleCards, 2)
		} else {
			assert.Empty(t, pv.HoleCards)
		}
	}
}

func TestManager_ForcePlayerAction(t *testing.T) {
	manager, tableID := newTestManager(t)
	require.NoError(t, manager.StartHand(tableID))

	require.NoError(t, manager.ForcePlayerAction(tableID, "alice"))

	view, err := manager.GetPlayerView(tableID, "bob")
	require.NoError(t, err)
	assert.Equal(t, string(domain.HandPhase_Complete), view.Phase)
}

func TestManager_RemovePlayer(t *testing.T) {
	manager, tableID := newTestManager(t)
	require.NoError(t, manager.RemovePlayer(tableID, "bob"))

	var stateErr domain.GameStateError
	require.ErrorAs(t, manager.StartHand(tableID), &stateErr, "one player cannot play alone")
}
