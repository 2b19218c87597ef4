package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/domain/events"
)

func newHeadsUpEngine(t *testing.T) (*GameEngine, *[]events.Envelope) {
	t.Helper()

	engine := NewGameEngine("table-1", TableConfig{MaxPlayers: 9, SmallBlind: 10, BigBlind: 20}, nil)

	var collected []events.Envelope
	engine.RegisterEventHandler(func(envelope events.Envelope) {
		collected = append(collected, envelope)
	})

	require.NoError(t, engine.AddPlayer(NewPlayer("alice", "Alice", 1000), 0))
	require.NoError(t, engine.AddPlayer(NewPlayer("bob", "Bob", 1000), 1))
	return engine, &collected
}

// stackHeadsUpDeck scripts the deal for two players with the dealer in
// seat 0: seat 1 is dealt first. Alice (seat 0) receives pocket aces,
// Bob a king and a seven, and the board bricks out.
func stackHeadsUpDeck(engine *GameEngine) {
	engine.nextDeck = cards.NewStackedDeck(cards.MustStack(
		"K♣", // bob, first card
		"A♠", // alice, first card
		"7♦", // bob, second card
		"A♦", // alice, second card
		"4♥", // burn
		"2♥", "5♣", "9♠", // flop
		"4♦", // burn
		"J♦", // turn
		"4♣", // burn
		"3♣", // river
	))
}

func chipTotal(state *GameState, pot *PotManager) int {
	total := 0
	for _, p := range state.Players {
		total += p.Chips
	}
	return total + pot.Total()
}

func eventNames(envelopes []events.Envelope) []string {
	names := make([]string, len(envelopes))
	for i, envelope := range envelopes {
		names[i] = envelope.Event.Name()
	}
	return names
}

func TestStartHand_NeedsTwoFundedPlayers(t *testing.T) {
	engine := NewGameEngine("table-1", TableConfig{SmallBlind: 10, BigBlind: 20}, nil)

	var stateErr GameStateError
	require.ErrorAs(t, engine.StartHand(), &stateErr)

	require.NoError(t, engine.AddPlayer(NewPlayer("alice", "Alice", 1000), 0))
	require.ErrorAs(t, engine.StartHand(), &stateErr)
}

func TestStartHand_HeadsUpBlindsAndFirstToAct(t *testing.T) {
	engine, _ := newHeadsUpEngine(t)
	require.NoError(t, engine.StartHand())

	state := engine.State()
	assert.Equal(t, HandPhase_PreFlop, state.Phase)
	assert.Equal(t, 1, state.HandNumber)
	assert.NotEmpty(t, state.HandID)

	// Heads-up the dealer posts the small blind and opens the betting.
	assert.Equal(t, 0, state.DealerSeat)
	assert.Equal(t, 0, state.SmallBlindSeat)
	assert.Equal(t, 1, state.BigBlindSeat)
	assert.Equal(t, 0, state.CurrentSeat)

	assert.Equal(t, 990, state.PlayerByID("alice").Chips)
	assert.Equal(t, 980, state.PlayerByID("bob").Chips)
	assert.Len(t, state.PlayerByID("alice").HoleCards, 2)
	assert.Len(t, state.PlayerByID("bob").HoleCards, 2)
}

func TestStartHand_RejectedMidHand(t *testing.T) {
	engine, _ := newHeadsUpEngine(t)
	require.NoError(t, engine.StartHand())

	var stateErr GameStateError
	require.ErrorAs(t, engine.StartHand(), &stateErr)
}

func TestPlayHand_CheckedDownToShowdown(t *testing.T) {
	engine, collected := newHeadsUpEngine(t)
	stackHeadsUpDeck(engine)
	require.NoError(t, engine.StartHand())

	play := func(playerID string, actionType ActionType) {
		t.Helper()
		require.NoError(t, engine.ProcessAction(Action{
			Type: actionType, PlayerID: playerID, At: time.Now(),
		}))
	}

	play("alice", ActionCall) // small blind completes
	play("bob", ActionCheck)  // big blind option

	// Post-flop the big blind acts first.
	require.Equal(t, HandPhase_Flop, engine.State().Phase)
	require.Equal(t, 1, engine.State().CurrentSeat)

	play("bob", ActionCheck)
	play("alice", ActionCheck)
	play("bob", ActionCheck)
	play("alice", ActionCheck)
	play("bob", ActionCheck)
	play("alice", ActionCheck)

	state := engine.State()
	assert.Equal(t, HandPhase_Complete, state.Phase)
	assert.Equal(t, cards.MustStack("2♥", "5♣", "9♠", "J♦", "3♣"), state.CommunityCards)

	// Pocket aces take the 40-chip pot.
	assert.Equal(t, 1020, state.PlayerByID("alice").Chips)
	assert.Equal(t, 980, state.PlayerByID("bob").Chips)

	// Chip conservation across the whole hand.
	assert.Equal(t, 2000, state.PlayerByID("alice").Chips+state.PlayerByID("bob").Chips)

	names := eventNames(*collected)
	assert.Contains(t, names, "PLAYER_SHOWED_HAND")
	assert.Contains(t, names, "POT_BROKEN_DOWN")

	var ended events.HandEnded
	for _, envelope := range *collected {
		if e, ok := envelope.Event.(events.HandEnded); ok {
			ended = e
		}
	}
	assert.Equal(t, 40, ended.FinalPot)
	assert.Equal(t, []string{"alice"}, ended.Winners)
}

func TestPlayHand_EnvelopeSequenceIsMonotonic(t *testing.T) {
	engine, collected := newHeadsUpEngine(t)
	stackHeadsUpDeck(engine)
	require.NoError(t, engine.StartHand())

	require.NotEmpty(t, *collected)
	for i := 1; i < len(*collected); i++ {
		prev, cur := (*collected)[i-1], (*collected)[i]
		assert.Greater(t, cur.Seq, prev.Seq)
		assert.Equal(t, "table-1", cur.TableID)
	}
	assert.Equal(t, 1, (*collected)[len(*collected)-1].HandNumber)
}

func TestPlayHand_FoldEndsHandWithoutShowdown(t *testing.T) {
	engine, collected := newHeadsUpEngine(t)
	require.NoError(t, engine.StartHand())

	require.NoError(t, engine.ProcessAction(Action{
		Type: ActionFold, PlayerID: "alice", At: time.Now(),
	}))

	state := engine.State()
	assert.Equal(t, HandPhase_Complete, state.Phase)
	assert.Equal(t, 990, state.PlayerByID("alice").Chips)
	assert.Equal(t, 1010, state.PlayerByID("bob").Chips)

	names := eventNames(*collected)
	assert.NotContains(t, names, "PLAYER_SHOWED_HAND", "no cards are revealed on a fold win")
	assert.Contains(t, names, "POT_AMOUNT_AWARDED")
}

func TestPlayHand_AllInRunsOutTheBoard(t *testing.T) {
	engine, collected := newHeadsUpEngine(t)
	stackHeadsUpDeck(engine)
	require.NoError(t, engine.StartHand())

	require.NoError(t, engine.ProcessAction(Action{
		Type: ActionAllIn, PlayerID: "alice", At: time.Now(),
	}))
	require.NoError(t, engine.ProcessAction(Action{
		Type: ActionCall, PlayerID: "bob", At: time.Now(),
	}))

	state := engine.State()
	assert.Equal(t, HandPhase_Complete, state.Phase)
	assert.Len(t, state.CommunityCards, 5)

	// Alice's aces hold; Bob busts and leaves the table.
	assert.Equal(t, 2000, state.PlayerByID("alice").Chips)
	assert.Nil(t, state.PlayerByID("bob"))

	names := eventNames(*collected)
	assert.Contains(t, names, "PLAYER_SHOWED_HAND")
	assert.Contains(t, names, "PLAYER_LEFT_TABLE")
}

func TestStartHand_ButtonRotates(t *testing.T) {
	engine, _ := newHeadsUpEngine(t)
	require.NoError(t, engine.StartHand())
	require.Equal(t, 0, engine.State().DealerSeat)

	require.NoError(t, engine.ProcessAction(Action{
		Type: ActionFold, PlayerID: "alice", At: time.Now(),
	}))
	require.Equal(t, HandPhase_Complete, engine.State().Phase)

	require.NoError(t, engine.StartHand())
	assert.Equal(t, 1, engine.State().DealerSeat)
	assert.Equal(t, 2, engine.State().HandNumber)
}

func TestForcePlayerAction(t *testing.T) {
	engine, collected := newHeadsUpEngine(t)
	require.NoError(t, engine.StartHand())

	// Not the current actor: nothing happens.
	before := len(*collected)
	require.NoError(t, engine.ForcePlayerAction("bob"))
	assert.Equal(t, before, len(*collected))

	// Alice owes the big blind, so the forced default is a fold.
	require.NoError(t, engine.ForcePlayerAction("alice"))
	assert.Equal(t, HandPhase_Complete, engine.State().Phase)
	assert.True(t, engine.State().PlayerByID("alice").Folded)

	names := eventNames(*collected)
	assert.Contains(t, names, "PLAYER_TIMED_OUT")
}

func TestAddPlayer_Validation(t *testing.T) {
	engine, _ := newHeadsUpEngine(t)

	err := engine.AddPlayer(NewPlayer("alice", "Alice Again", 500), 3)
	var stateErr GameStateError
	require.ErrorAs(t, err, &stateErr)

	err = engine.AddPlayer(NewPlayer("carol", "Carol", 500), 0)
	require.ErrorAs(t, err, &stateErr, "seat already taken")

	var invalid InvalidActionError
	err = engine.AddPlayer(NewPlayer("dave", "Dave", 0), 4)
	require.ErrorAs(t, err, &invalid, "cannot join broke")
}

func TestAddPlayer_RejectedMidHand(t *testing.T) {
	engine, _ := newHeadsUpEngine(t)
	require.NoError(t, engine.StartHand())

	var stateErr GameStateError
	err := engine.AddPlayer(NewPlayer("carol", "Carol", 1000), 2)
	require.ErrorAs(t, err, &stateErr)
	assert.Nil(t, engine.State().PlayerByID("carol"))

	// Once the hand completes the seat opens up again.
	require.NoError(t, engine.ProcessAction(Action{
		Type: ActionFold, PlayerID: "alice", At: time.Now(),
	}))
	require.NoError(t, engine.AddPlayer(NewPlayer("carol", "Carol", 1000), 2))
	require.NoError(t, engine.StartHand())
	assert.True(t, engine.State().PlayerByID("carol").InHand())
}

func TestRemovePlayer_MidHandFoldsAndVacatesAfter(t *testing.T) {
	engine, _ := newHeadsUpEngine(t)
	require.NoError(t, engine.AddPlayer(NewPlayer("carol", "Carol", 1000), 2))
	require.NoError(t, engine.StartHand())

	// Carol is in the hand but not the current actor.
	require.NoError(t, engine.RemovePlayer("carol"))
	assert.True(t, engine.State().PlayerByID("carol").Folded)
	assert.NotNil(t, engine.State().PlayerByID("carol"), "seat stays until the hand ends")

	// Alice folds, leaving Bob the last player standing.
	require.NoError(t, engine.ProcessAction(Action{
		Type: ActionFold, PlayerID: "alice", At: time.Now(),
	}))
	assert.Equal(t, HandPhase_Complete, engine.State().Phase)
	assert.Nil(t, engine.State().PlayerByID("carol"))
}

func TestPanickingHandlerDoesNotBreakTheEngine(t *testing.T) {
	engine, collected := newHeadsUpEngine(t)
	engine.RegisterEventHandler(func(events.Envelope) {
		panic("bad observer")
	})

	require.NoError(t, engine.StartHand())
	assert.NotEmpty(t, *collected)
	assert.Equal(t, HandPhase_PreFlop, engine.State().Phase)
}

func TestPlayerView_HidesOpponentHoleCards(t *testing.T) {
	engine, _ := newHeadsUpEngine(t)
	stackHeadsUpDeck(engine)
	require.NoError(t, engine.StartHand())

	view := engine.PlayerView("alice")
	for _, pv := range view.Players {
		switch pv.ID {
		case "alice":
			assert.Equal(t, cards.MustStack("A♠", "A♦"), pv.HoleCards)
		case "bob":
			assert.Empty(t, pv.HoleCards)
		}
	}
	assert.NotEmpty(t, view.PossibleActions, "alice is first to act")

	bobView := engine.PlayerView("bob")
	assert.Empty(t, bobView.PossibleActions)
	assert.Equal(t, 30, bobView.Pot)
}

func TestPlayerView_FoldWinRevealsNoHoleCards(t *testing.T) {
	engine, _ := newHeadsUpEngine(t)
	require.NoError(t, engine.StartHand())

	require.NoError(t, engine.ProcessAction(Action{
		Type: ActionFold, PlayerID: "alice", At: time.Now(),
	}))
	require.Equal(t, HandPhase_Complete, engine.State().Phase)

	view := engine.PlayerView("alice")
	for _, pv := range view.Players {
		if pv.ID == "bob" {
			assert.Empty(t, pv.HoleCards, "an uncontested winner never shows their hand")
		}
	}
}

func TestPlayerView_ShowdownRevealsContenders(t *testing.T) {
	engine, _ := newHeadsUpEngine(t)
	stackHeadsUpDeck(engine)
	require.NoError(t, engine.StartHand())

	script := []struct {
		playerID string
		action   ActionType
	}{
		{"alice", ActionCall}, {"bob", ActionCheck},
		{"bob", ActionCheck}, {"alice", ActionCheck},
		{"bob", ActionCheck}, {"alice", ActionCheck},
		{"bob", ActionCheck}, {"alice", ActionCheck},
	}
	for _, step := range script {
		require.NoError(t, engine.ProcessAction(Action{
			Type: step.action, PlayerID: step.playerID, At: time.Now(),
		}))
	}
	require.Equal(t, HandPhase_Complete, engine.State().Phase)

	view := engine.PlayerView("bob")
	for _, pv := range view.Players {
		if pv.ID == "alice" {
			assert.Equal(t, cards.MustStack("A♠", "A♦"), pv.HoleCards)
		}
	}
}

func TestStartHand_HoleCardsDealtBeforeBlindsInStream(t *testing.T) {
	engine, collected := newHeadsUpEngine(t)
	require.NoError(t, engine.StartHand())

	names := eventNames(*collected)
	dealIndex, blindIndex := -1, -1
	for i, name := range names {
		if name == "HOLE_CARDS_DEALT" && dealIndex == -1 {
			dealIndex = i
		}
		if name == "BLIND_POSTED" && blindIndex == -1 {
			blindIndex = i
		}
	}
	require.NotEqual(t, -1, dealIndex)
	require.NotEqual(t, -1, blindIndex)
	assert.Less(t, dealIndex, blindIndex, "the deal precedes blind posting in the stream")
}
