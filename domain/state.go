package domain

import "github.com/lazharichir/holdem/cards"

type HandPhase string

const (
	HandPhase_Idle     HandPhase = "idle"
	HandPhase_PreFlop  HandPhase = "preflop"
	HandPhase_Flop     HandPhase = "flop"
	HandPhase_Turn     HandPhase = "turn"
	HandPhase_River    HandPhase = "river"
	HandPhase_Showdown HandPhase = "showdown"
	HandPhase_Complete HandPhase = "complete"
)

// IsBettingPhase reports whether players act during this phase
func (phase HandPhase) IsBettingPhase() bool {
	switch phase {
	case HandPhase_PreFlop, HandPhase_Flop, HandPhase_Turn, HandPhase_River:
		return true
	}
	return false
}

// TableConfig holds the fixed parameters of a table
type TableConfig struct {
	MaxPlayers int
	SmallBlind int
	BigBlind   int
}

// GameState is the single source of truth for one table's hand in
// progress. Exactly one GameEngine owns and mutates it, always
// synchronously; sub-components receive it for the duration of one call
// and never retain it.
type GameState struct {
	TableID    string
	HandID     string
	HandNumber int

	Players        []*Player // seat-ordered
	CommunityCards cards.Stack
	Phase          HandPhase

	DealerSeat     int
	SmallBlindSeat int
	BigBlindSeat   int
	SmallBlind     int
	BigBlind       int

	MinimumRaise int
	CurrentSeat  int // seat of the player to act, -1 when nobody acts
}

// PlayerByID finds a seated player by ID
func (s *GameState) PlayerByID(playerID string) *Player {
	for _, p := range s.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// PlayerBySeat finds a seated player by seat number
func (s *GameState) PlayerBySeat(seat int) *Player {
	for _, p := range s.Players {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}

// CurrentPlayer returns the player whose turn it is, or nil
func (s *GameState) CurrentPlayer() *Player {
	if s.CurrentSeat < 0 {
		return nil
	}
	return s.PlayerBySeat(s.CurrentSeat)
}

// HighestBet returns the largest round bet on the table
func (s *GameState) HighestBet() int {
	highest := 0
	for _, p := range s.Players {
		if p.CurrentBet > highest {
			highest = p.CurrentBet
		}
	}
	return highest
}

// PotTotal returns the chips committed to the hand so far
func (s *GameState) PotTotal() int {
	total := 0
	for _, p := range s.Players {
		total += p.TotalBet
	}
	return total
}

// PlayersInHand counts the players who have not folded
func (s *GameState) PlayersInHand() int {
	count := 0
	for _, p := range s.Players {
		if p.InHand() {
			count++
		}
	}
	return count
}

// PlayersAbleToAct counts the players who can still make decisions
func (s *GameState) PlayersAbleToAct() int {
	count := 0
	for _, p := range s.Players {
		if p.CanAct() {
			count++
		}
	}
	return count
}

// LastPlayerInHand returns the sole un-folded player, or nil when more
// than one remains
func (s *GameState) LastPlayerInHand() *Player {
	var last *Player
	for _, p := range s.Players {
		if !p.InHand() {
			continue
		}
		if last != nil {
			return nil
		}
		last = p
	}
	return last
}

// nextSeatAfter returns the seat of the first player after the given
// seat (wrapping) that satisfies keep, or -1 when none does.
func (s *GameState) nextSeatAfter(seat int, keep func(*Player) bool) int {
	n := len(s.Players)
	if n == 0 {
		return -1
	}

	// Players are seat-ordered; find the index holding this seat (or the
	// next occupied seat after it).
	start := 0
	for i, p := range s.Players {
		if p.Seat > seat {
			start = i
			break
		}
		if i == n-1 {
			start = 0
		}
	}

	for i := 0; i < n; i++ {
		p := s.Players[(start+i)%n]
		if p.Seat == seat {
			continue
		}
		if keep(p) {
			return p.Seat
		}
	}
	return -1
}

// NextSeatToAct returns the seat of the next player able to act after
// the given seat, or -1.
func (s *GameState) NextSeatToAct(seat int) int {
	return s.nextSeatAfter(seat, func(p *Player) bool { return p.CanAct() })
}

// FirstSeatToActAfter returns the first in-hand, able-to-act seat after
// the given position, used to open post-flop rounds from the dealer.
func (s *GameState) FirstSeatToActAfter(seat int) int {
	return s.NextSeatToAct(seat)
}

// IsBettingRoundComplete reports whether every player able to act has
// acted since the last raise and has matched the highest bet. Players
// who are all-in or folded no longer gate completion.
func (s *GameState) IsBettingRoundComplete() bool {
	highest := s.HighestBet()
	for _, p := range s.Players {
		if !p.CanAct() {
			continue
		}
		if !p.HasActed || p.CurrentBet != highest {
			return false
		}
	}
	return true
}

// BeginBettingRound clears per-round bets, restores the minimum raise to
// the big blind, and points the turn at the first player able to act
// after the dealer.
func (s *GameState) BeginBettingRound() {
	for _, p := range s.Players {
		p.ResetForNewRound()
	}
	s.MinimumRaise = s.BigBlind
	s.CurrentSeat = s.FirstSeatToActAfter(s.DealerSeat)
}
