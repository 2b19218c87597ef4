package events

import (
	"time"

	"github.com/lazharichir/holdem/cards"
)

type EventHandler func(envelope Envelope)

type Event interface {
	Name() string
}

// Envelope wraps every event the engine emits with the ordering facts a
// consumer needs to rebuild the table's history: envelopes for one table
// carry strictly increasing Seq values, assigned before publication.
type Envelope struct {
	Seq        uint64
	TableID    string
	HandNumber int
	At         time.Time
	Event      Event
}

// Table membership events

type PlayerJoinedTable struct {
	TableID  string
	PlayerID string
	Seat     int
	Chips    int
}

func (p PlayerJoinedTable) Name() string { return "PLAYER_JOINED_TABLE" }

type PlayerLeftTable struct {
	TableID  string
	PlayerID string
	Chips    int
}

func (p PlayerLeftTable) Name() string { return "PLAYER_LEFT_TABLE" }

// Hand lifecycle events

type HandStarted struct {
	TableID    string
	HandID     string
	Players    []string
	DealerSeat int
}

func (h HandStarted) Name() string { return "HAND_STARTED" }

type BlindPosted struct {
	HandID   string
	PlayerID string
	Kind     string // "small" or "big"
	Amount   int
}

func (b BlindPosted) Name() string { return "BLIND_POSTED" }

// HoleCardDealt is private to one player; the server must not broadcast
// it to anybody else before showdown.
type HoleCardDealt struct {
	HandID   string
	PlayerID string
	Card     cards.Card
}

func (h HoleCardDealt) Name() string { return "HOLE_CARD_DEALT" }

type HoleCardsDealt struct {
	HandID    string
	DealOrder map[string]int // PlayerID to dealing position
}

func (h HoleCardsDealt) Name() string { return "HOLE_CARDS_DEALT" }

type PhaseChanged struct {
	HandID        string
	PreviousPhase string
	NewPhase      string
}

func (p PhaseChanged) Name() string { return "PHASE_CHANGED" }

type CommunityCardsDealt struct {
	HandID string
	Phase  string
	Cards  cards.Stack
}

func (c CommunityCardsDealt) Name() string { return "COMMUNITY_CARDS_DEALT" }

// Turn and action events

type PlayerTurnStarted struct {
	HandID   string
	PlayerID string
	Phase    string
}

func (p PlayerTurnStarted) Name() string { return "PLAYER_TURN_STARTED" }

type PlayerActed struct {
	HandID     string
	PlayerID   string
	ActionType string
	Amount     int // the player's round bet after the action
	Phase      string
}

func (p PlayerActed) Name() string { return "PLAYER_ACTED" }

type PlayerTimedOut struct {
	HandID        string
	PlayerID      string
	Phase         string
	DefaultAction string
}

func (p PlayerTimedOut) Name() string { return "PLAYER_TIMED_OUT" }

// Showdown and pot events

type PlayerShowedHand struct {
	HandID    string
	PlayerID  string
	HoleCards cards.Stack
	HandRank  string
	HandCards cards.Stack
}

func (p PlayerShowedHand) Name() string { return "PLAYER_SHOWED_HAND" }

type PotBrokenDown struct {
	HandID string
	Pots   []PotSnapshot
}

func (p PotBrokenDown) Name() string { return "POT_BROKEN_DOWN" }

type PotSnapshot struct {
	Amount      int
	EligibleIDs []string
	IsMain      bool
}

type PotAmountAwarded struct {
	HandID   string
	PlayerID string
	Amount   int
	Reason   string
}

func (p PotAmountAwarded) Name() string { return "POT_AMOUNT_AWARDED" }

type HandEnded struct {
	HandID   string
	FinalPot int
	Winners  []string
	Stacks   map[string]int // chips per player after settlement
}

func (h HandEnded) Name() string { return "HAND_ENDED" }
