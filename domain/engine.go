package domain

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/domain/events"
	"github.com/lazharichir/holdem/hands"
)

// GameEngine runs the hands of one table. It owns the GameState and is
// the only writer to it; callers must serialize access (the game.Manager
// holds one mutex per table). Every call either completes a full
// transition and emits its events, or returns an error leaving the
// state untouched by chips.
type GameEngine struct {
	state     *GameState
	validator ActionValidator
	pot       *PotManager
	deck      *cards.Deck
	rng       *rand.Rand

	handCounter     int
	seq             uint64
	handlers        []events.EventHandler
	pendingRemoval  map[string]bool
	showdownReached bool

	// nextDeck, when set, replaces the shuffled deck for the next hand.
	// Tests use it to script exact card orders.
	nextDeck *cards.Deck
}

// NewGameEngine creates the engine for one table. A nil rng seeds from
// the clock; tests pass a fixed seed for reproducible shuffles.
func NewGameEngine(tableID string, config TableConfig, rng *rand.Rand) *GameEngine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &GameEngine{
		state: &GameState{
			TableID:        tableID,
			Phase:          HandPhase_Idle,
			DealerSeat:     -1,
			SmallBlindSeat: -1,
			BigBlindSeat:   -1,
			SmallBlind:     config.SmallBlind,
			BigBlind:       config.BigBlind,
			CurrentSeat:    -1,
		},
		pot:            NewPotManager(),
		rng:            rng,
		pendingRemoval: make(map[string]bool),
	}
}

// State exposes the table state for views and assertions. Callers must
// not mutate it.
func (e *GameEngine) State() *GameState {
	return e.state
}

// RegisterEventHandler subscribes a handler to every envelope the
// engine emits, in emission order.
func (e *GameEngine) RegisterEventHandler(handler events.EventHandler) {
	e.handlers = append(e.handlers, handler)
}

// emit wraps the event in an envelope with the next sequence number and
// hands it to every subscriber. A panicking handler is contained so one
// bad observer cannot corrupt the table.
func (e *GameEngine) emit(event events.Event) {
	e.seq++
	envelope := events.Envelope{
		Seq:        e.seq,
		TableID:    e.state.TableID,
		HandNumber: e.state.HandNumber,
		At:         time.Now(),
		Event:      event,
	}
	for _, handler := range e.handlers {
		func() {
			defer func() { _ = recover() }()
			handler(envelope)
		}()
	}
}

// AddPlayer seats a player. Seats are fixed for the player's stay.
// Joining is only possible between hands.
func (e *GameEngine) AddPlayer(player *Player, seat int) error {
	if e.state.Phase.IsBettingPhase() || e.state.Phase == HandPhase_Showdown {
		return GameStateError{Reason: "cannot join while a hand is in progress"}
	}
	if seat < 0 {
		return GameStateError{Reason: "seat number must not be negative"}
	}
	if player.Chips <= 0 {
		return InvalidActionError{PlayerID: player.ID, Reason: "cannot join without chips"}
	}
	if e.state.PlayerByID(player.ID) != nil {
		return GameStateError{Reason: "player " + player.ID + " is already seated"}
	}
	if e.state.PlayerBySeat(seat) != nil {
		return GameStateError{Reason: "seat is already taken"}
	}

	player.Seat = seat

	inserted := false
	for i, p := range e.state.Players {
		if p.Seat > seat {
			e.state.Players = append(e.state.Players[:i], append([]*Player{player}, e.state.Players[i:]...)...)
			inserted = true
			break
		}
	}
	if !inserted {
		e.state.Players = append(e.state.Players, player)
	}

	e.emit(events.PlayerJoinedTable{
		TableID:  e.state.TableID,
		PlayerID: player.ID,
		Seat:     seat,
		Chips:    player.Chips,
	})
	return nil
}

// RemovePlayer takes a player off the table. If the player is in a
// running hand they are folded on the spot (chips already committed
// stay in the pot) and the seat is vacated when the hand completes.
func (e *GameEngine) RemovePlayer(playerID string) error {
	p := e.state.PlayerByID(playerID)
	if p == nil {
		return GameStateError{Reason: "player " + playerID + " not found at table"}
	}

	if e.state.Phase.IsBettingPhase() && p.InHand() {
		e.pendingRemoval[playerID] = true
		wasCurrent := e.state.CurrentSeat == p.Seat
		p.Folded = true
		p.HasActed = true
		e.emit(events.PlayerActed{
			HandID:     e.state.HandID,
			PlayerID:   p.ID,
			ActionType: string(ActionFold),
			Amount:     p.CurrentBet,
			Phase:      string(e.state.Phase),
		})
		if wasCurrent {
			e.state.CurrentSeat = e.state.NextSeatToAct(p.Seat)
			return e.advance()
		}
		if e.state.LastPlayerInHand() != nil || e.state.IsBettingRoundComplete() {
			return e.advance()
		}
		return nil
	}

	if e.state.Phase == HandPhase_Showdown && p.InHand() {
		e.pendingRemoval[playerID] = true
		return nil
	}

	e.unseat(p)
	return nil
}

func (e *GameEngine) unseat(p *Player) {
	for i, seated := range e.state.Players {
		if seated.ID == p.ID {
			e.state.Players = append(e.state.Players[:i], e.state.Players[i+1:]...)
			break
		}
	}
	delete(e.pendingRemoval, p.ID)
	e.emit(events.PlayerLeftTable{
		TableID:  e.state.TableID,
		PlayerID: p.ID,
		Chips:    p.Chips,
	})
}

// StartHand deals a new hand: rotates the button, posts blinds, deals
// hole cards and opens the pre-flop betting round. At least two players
// with chips must be seated.
func (e *GameEngine) StartHand() error {
	if e.state.Phase != HandPhase_Idle && e.state.Phase != HandPhase_Complete {
		return GameStateError{Reason: "a hand is already in progress"}
	}

	funded := 0
	for _, p := range e.state.Players {
		if p.Chips > 0 {
			funded++
		}
	}
	if funded < 2 {
		return GameStateError{Reason: "need at least two players with chips to start a hand"}
	}

	e.handCounter++
	e.state.HandNumber = e.handCounter
	e.state.HandID = uuid.NewString()

	for _, p := range e.state.Players {
		p.ResetForNewHand()
	}

	// Button moves to the next funded seat; blinds follow. Heads-up the
	// dealer posts the small blind.
	hasChips := func(p *Player) bool { return p.Chips > 0 }
	e.state.DealerSeat = e.state.nextSeatAfter(e.state.DealerSeat, hasChips)
	if funded == 2 {
		e.state.SmallBlindSeat = e.state.DealerSeat
		e.state.BigBlindSeat = e.state.nextSeatAfter(e.state.DealerSeat, hasChips)
	} else {
		e.state.SmallBlindSeat = e.state.nextSeatAfter(e.state.DealerSeat, hasChips)
		e.state.BigBlindSeat = e.state.nextSeatAfter(e.state.SmallBlindSeat, hasChips)
	}

	// Players without chips sit the hand out.
	for _, p := range e.state.Players {
		if p.Chips == 0 {
			p.Folded = true
		}
	}

	if e.nextDeck != nil {
		e.deck = e.nextDeck
		e.nextDeck = nil
	} else {
		e.deck = cards.NewDeck(e.rng)
	}
	e.pot = NewPotManager()
	e.state.CommunityCards = e.state.CommunityCards[:0]
	e.state.Phase = HandPhase_PreFlop
	e.showdownReached = false

	dealt := e.playersInDealOrder()
	dealtIDs := make([]string, len(dealt))
	for i, p := range dealt {
		dealtIDs[i] = p.ID
	}

	e.emit(events.HandStarted{
		TableID:    e.state.TableID,
		HandID:     e.state.HandID,
		Players:    dealtIDs,
		DealerSeat: e.state.DealerSeat,
	})

	holeCards, err := e.deck.DealHoleCards(dealtIDs)
	if err != nil {
		return err
	}
	dealOrder := make(map[string]int, len(dealt))
	for i, p := range dealt {
		p.HoleCards = append(p.HoleCards, holeCards[p.ID]...)
		dealOrder[p.ID] = i
	}
	for pass := 0; pass < 2; pass++ {
		for _, p := range dealt {
			e.emit(events.HoleCardDealt{
				HandID:   e.state.HandID,
				PlayerID: p.ID,
				Card:     p.HoleCards[pass],
			})
		}
	}
	e.emit(events.HoleCardsDealt{HandID: e.state.HandID, DealOrder: dealOrder})

	smallPaid, bigPaid, err := e.validator.ProcessBlindPosting(e.state, e.pot)
	if err != nil {
		return err
	}
	e.emit(events.BlindPosted{
		HandID:   e.state.HandID,
		PlayerID: e.state.PlayerBySeat(e.state.SmallBlindSeat).ID,
		Kind:     "small",
		Amount:   smallPaid,
	})
	e.emit(events.BlindPosted{
		HandID:   e.state.HandID,
		PlayerID: e.state.PlayerBySeat(e.state.BigBlindSeat).ID,
		Kind:     "big",
		Amount:   bigPaid,
	})

	return e.advance()
}

// playersInDealOrder lists the players dealt into this hand starting
// left of the dealer.
func (e *GameEngine) playersInDealOrder() []*Player {
	ordered := make([]*Player, 0, len(e.state.Players))
	seat := e.state.DealerSeat
	for range e.state.Players {
		seat = e.state.nextSeatAfter(seat, func(p *Player) bool { return p.InHand() })
		if seat == -1 {
			break
		}
		p := e.state.PlayerBySeat(seat)
		if len(ordered) > 0 && p == ordered[0] {
			break
		}
		ordered = append(ordered, p)
	}
	return ordered
}

// GetPossibleActions returns the legal actions for the player right
// now. Empty when it is not their turn.
func (e *GameEngine) GetPossibleActions(playerID string) ([]PossibleAction, error) {
	return e.validator.GetPossibleActions(e.state, playerID)
}

// ProcessAction applies one player action and advances the hand as far
// as it can go without further input: closing betting rounds, dealing
// streets, running out the board when betting is over, and settling the
// showdown.
func (e *GameEngine) ProcessAction(action Action) error {
	if !e.state.Phase.IsBettingPhase() {
		return GameStateError{Reason: "no betting round in progress"}
	}
	if err := e.validator.ProcessAction(e.state, e.pot, action); err != nil {
		return err
	}

	p := e.state.PlayerByID(action.PlayerID)
	e.emit(events.PlayerActed{
		HandID:     e.state.HandID,
		PlayerID:   action.PlayerID,
		ActionType: string(action.Type),
		Amount:     p.CurrentBet,
		Phase:      string(e.state.Phase),
	})

	return e.advance()
}

// ForcePlayerAction applies the timeout default for the player: check
// when nothing is owed, fold otherwise. A no-op when the player is not
// the current actor, so a late timer firing after the player acted does
// nothing.
func (e *GameEngine) ForcePlayerAction(playerID string) error {
	action, err := e.validator.GetForceAction(e.state, playerID)
	if err != nil {
		return err
	}
	if action.Type == "" {
		return nil
	}

	e.emit(events.PlayerTimedOut{
		HandID:        e.state.HandID,
		PlayerID:      playerID,
		Phase:         string(e.state.Phase),
		DefaultAction: string(action.Type),
	})
	return e.ProcessAction(action)
}

// advance moves the hand forward after any mutation: hands won by
// folds, completed betting rounds, and boards that must run out because
// nobody can bet anymore.
func (e *GameEngine) advance() error {
	if last := e.state.LastPlayerInHand(); last != nil {
		return e.settleFoldWin(last)
	}

	if !e.state.IsBettingRoundComplete() {
		e.emitTurnStarted()
		return nil
	}

	if e.state.PlayersAbleToAct() < 2 {
		return e.runOutBoard()
	}

	return e.advancePhase()
}

// advancePhase closes the current betting round and opens the next
// street, or the showdown after the river.
func (e *GameEngine) advancePhase() error {
	if e.state.Phase == HandPhase_River {
		return e.showdown()
	}

	if err := e.dealNextStreet(); err != nil {
		return err
	}
	e.state.BeginBettingRound()
	e.emitTurnStarted()
	return nil
}

// runOutBoard deals the remaining streets without betting rounds and
// goes straight to showdown. Used when all but at most one player is
// all-in.
func (e *GameEngine) runOutBoard() error {
	for e.state.Phase != HandPhase_River {
		if err := e.dealNextStreet(); err != nil {
			return err
		}
	}
	return e.showdown()
}

func (e *GameEngine) dealNextStreet() error {
	var (
		next  HandPhase
		dealt cards.Stack
		err   error
	)

	switch e.state.Phase {
	case HandPhase_PreFlop:
		next = HandPhase_Flop
		dealt, err = e.deck.DealFlop()
	case HandPhase_Flop:
		next = HandPhase_Turn
		var card cards.Card
		card, err = e.deck.DealTurn()
		dealt = cards.Stack{card}
	case HandPhase_Turn:
		next = HandPhase_River
		var card cards.Card
		card, err = e.deck.DealRiver()
		dealt = cards.Stack{card}
	default:
		return GameStateError{Reason: "no street to deal from phase " + string(e.state.Phase)}
	}
	if err != nil {
		return err
	}

	previous := e.state.Phase
	e.state.Phase = next
	e.state.CommunityCards = append(e.state.CommunityCards, dealt...)

	e.emit(events.PhaseChanged{
		HandID:        e.state.HandID,
		PreviousPhase: string(previous),
		NewPhase:      string(next),
	})
	e.emit(events.CommunityCardsDealt{
		HandID: e.state.HandID,
		Phase:  string(next),
		Cards:  dealt,
	})
	return nil
}

func (e *GameEngine) emitTurnStarted() {
	current := e.state.CurrentPlayer()
	if current == nil {
		return
	}
	e.emit(events.PlayerTurnStarted{
		HandID:   e.state.HandID,
		PlayerID: current.ID,
		Phase:    string(e.state.Phase),
	})
}

// settleFoldWin pays the whole pot to the last player standing. No
// cards are revealed.
func (e *GameEngine) settleFoldWin(winner *Player) error {
	total := e.pot.Total()
	winner.Chips += total
	e.emit(events.PotAmountAwarded{
		HandID:   e.state.HandID,
		PlayerID: winner.ID,
		Amount:   total,
		Reason:   "all opponents folded",
	})
	e.finishHand([]string{winner.ID}, total)
	return nil
}

// showdown reveals the contenders' hands, layers the pot and pays every
// layer to its strongest eligible hand(s).
func (e *GameEngine) showdown() error {
	previous := e.state.Phase
	e.state.Phase = HandPhase_Showdown
	e.state.CurrentSeat = -1
	e.showdownReached = true
	e.emit(events.PhaseChanged{
		HandID:        e.state.HandID,
		PreviousPhase: string(previous),
		NewPhase:      string(HandPhase_Showdown),
	})

	contenders := e.playersInDealOrder()
	playerCards := make(map[string]cards.Stack, len(contenders))
	for _, p := range contenders {
		full := make(cards.Stack, 0, len(p.HoleCards)+len(e.state.CommunityCards))
		full = append(full, p.HoleCards...)
		full = append(full, e.state.CommunityCards...)
		playerCards[p.ID] = full
	}

	groups, err := hands.GroupByStrength(playerCards)
	if err != nil {
		return err
	}

	evalByID := make(map[string]hands.HandEvaluation, len(playerCards))
	for _, group := range groups {
		for _, pe := range group {
			evalByID[pe.PlayerID] = pe.Evaluation
		}
	}
	for _, p := range contenders {
		eval := evalByID[p.ID]
		e.emit(events.PlayerShowedHand{
			HandID:    e.state.HandID,
			PlayerID:  p.ID,
			HoleCards: p.HoleCards.Copy(),
			HandRank:  eval.Rank.String(),
			HandCards: eval.HandCards.Copy(),
		})
	}

	pots := e.pot.BuildSidePots(e.state.Players)
	potSnapshots := make([]events.PotSnapshot, len(pots))
	for i, pot := range pots {
		potSnapshots[i] = events.PotSnapshot{
			Amount:      pot.Amount,
			EligibleIDs: pot.EligibleIDs,
			IsMain:      pot.IsMain,
		}
	}
	e.emit(events.PotBrokenDown{HandID: e.state.HandID, Pots: potSnapshots})

	// Each pot goes to the strongest tie group with at least one
	// eligible member.
	winnersByPot := make([][]string, len(pots))
	for i, pot := range pots {
		for _, group := range groups {
			var eligible []string
			for _, pe := range group {
				if pot.IsEligible(pe.PlayerID) {
					eligible = append(eligible, pe.PlayerID)
				}
			}
			if len(eligible) > 0 {
				winnersByPot[i] = eligible
				break
			}
		}
	}

	total := e.pot.Total()
	payouts, err := e.pot.Distribute(pots, winnersByPot, e.state.Players, e.state.DealerSeat)
	if err != nil {
		return err
	}

	winners := make([]string, 0, len(payouts))
	for _, p := range e.state.Players {
		amount, won := payouts[p.ID]
		if !won {
			continue
		}
		p.Chips += amount
		winners = append(winners, p.ID)
		e.emit(events.PotAmountAwarded{
			HandID:   e.state.HandID,
			PlayerID: p.ID,
			Amount:   amount,
			Reason:   "showdown",
		})
	}

	e.finishHand(winners, total)
	return nil
}

// finishHand closes the hand and vacates the seats of players who
// busted or asked to leave mid-hand.
func (e *GameEngine) finishHand(winners []string, finalPot int) {
	previous := e.state.Phase
	e.state.Phase = HandPhase_Complete
	e.state.CurrentSeat = -1
	e.emit(events.PhaseChanged{
		HandID:        e.state.HandID,
		PreviousPhase: string(previous),
		NewPhase:      string(HandPhase_Complete),
	})

	stacks := make(map[string]int, len(e.state.Players))
	for _, p := range e.state.Players {
		stacks[p.ID] = p.Chips
	}
	e.emit(events.HandEnded{
		HandID:   e.state.HandID,
		FinalPot: finalPot,
		Winners:  winners,
		Stacks:   stacks,
	})

	var leaving []*Player
	for _, p := range e.state.Players {
		if e.pendingRemoval[p.ID] || p.Chips == 0 {
			leaving = append(leaving, p)
		}
	}
	for _, p := range leaving {
		e.unseat(p)
	}
}
