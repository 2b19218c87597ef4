package domain

import "github.com/lazharichir/holdem/cards"

// Player represents a poker player seated at a table. Chips is the only
// field that survives from one hand to the next; everything else is
// reset by ResetForNewHand.
type Player struct {
	ID   string
	Name string
	Seat int

	Chips      int
	HoleCards  cards.Stack
	CurrentBet int // chips committed in the current betting round
	TotalBet   int // chips committed across the whole hand
	Folded     bool
	AllIn      bool
	HasActed   bool // acted since the last raise in this round
}

// NewPlayer creates a new player with the given ID, name and chip stack
func NewPlayer(id string, name string, chips int) *Player {
	return &Player{
		ID:        id,
		Name:      name,
		Seat:      -1,
		Chips:     chips,
		HoleCards: make(cards.Stack, 0, 2),
	}
}

// ResetForNewHand clears the player's per-hand state
func (p *Player) ResetForNewHand() {
	p.HoleCards = p.HoleCards[:0]
	p.CurrentBet = 0
	p.TotalBet = 0
	p.Folded = false
	p.AllIn = false
	p.HasActed = false
}

// ResetForNewRound clears the player's per-betting-round state
func (p *Player) ResetForNewRound() {
	p.CurrentBet = 0
	p.HasActed = false
}

// InHand reports whether the player still holds a claim on the pot
func (p *Player) InHand() bool {
	return !p.Folded
}

// CanAct reports whether the player can still make betting decisions
func (p *Player) CanAct() bool {
	return !p.Folded && !p.AllIn
}

// commit moves chips from the player's stack into the hand, capping at
// the stack and flagging all-in when the stack empties. Returns the
// amount actually moved.
func (p *Player) commit(amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}

	p.Chips -= amount
	p.CurrentBet += amount
	p.TotalBet += amount
	if p.Chips == 0 {
		p.AllIn = true
	}
	return amount
}
