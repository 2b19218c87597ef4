package domain

import "github.com/lazharichir/holdem/cards"

// PlayerView is one seat as a given observer sees it. Hole cards are
// only populated for the observer's own seat, or for un-folded players
// once the hand reaches showdown.
type PlayerView struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Seat       int         `json:"seat"`
	Chips      int         `json:"chips"`
	CurrentBet int         `json:"currentBet"`
	TotalBet   int         `json:"totalBet"`
	Folded     bool        `json:"folded"`
	AllIn      bool        `json:"allIn"`
	HoleCards  cards.Stack `json:"holeCards,omitempty"`
}

// HandView is the table as one player is allowed to see it.
type HandView struct {
	TableID         string           `json:"tableId"`
	HandID          string           `json:"handId"`
	HandNumber      int              `json:"handNumber"`
	Phase           string           `json:"phase"`
	CommunityCards  cards.Stack      `json:"communityCards"`
	Pot             int              `json:"pot"`
	DealerSeat      int              `json:"dealerSeat"`
	CurrentSeat     int              `json:"currentSeat"`
	MinimumRaise    int              `json:"minimumRaise"`
	Players         []PlayerView     `json:"players"`
	PossibleActions []PossibleAction `json:"possibleActions,omitempty"`
}

// PlayerView renders the table for one observer, hiding what they must
// not see and attaching their legal actions when it is their turn.
func (e *GameEngine) PlayerView(observerID string) HandView {
	state := e.state

	view := HandView{
		TableID:        state.TableID,
		HandID:         state.HandID,
		HandNumber:     state.HandNumber,
		Phase:          string(state.Phase),
		CommunityCards: state.CommunityCards.Copy(),
		Pot:            state.PotTotal(),
		DealerSeat:     state.DealerSeat,
		CurrentSeat:    state.CurrentSeat,
		MinimumRaise:   state.MinimumRaise,
		Players:        make([]PlayerView, 0, len(state.Players)),
	}

	// A hand won by folds completes without a showdown; nothing is
	// revealed then.
	revealed := e.showdownReached
	for _, p := range state.Players {
		pv := PlayerView{
			ID:         p.ID,
			Name:       p.Name,
			Seat:       p.Seat,
			Chips:      p.Chips,
			CurrentBet: p.CurrentBet,
			TotalBet:   p.TotalBet,
			Folded:     p.Folded,
			AllIn:      p.AllIn,
		}
		if p.ID == observerID || (revealed && p.InHand()) {
			pv.HoleCards = p.HoleCards.Copy()
		}
		view.Players = append(view.Players, pv)
	}

	if state.Phase.IsBettingPhase() {
		if possible, err := e.validator.GetPossibleActions(state, observerID); err == nil && len(possible) > 0 {
			view.PossibleActions = possible
		}
	}

	return view
}
