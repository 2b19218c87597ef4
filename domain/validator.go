package domain

import "time"

// ActionValidator computes the legal actions for the player to act,
// validates incoming actions and applies them to the state. It is
// stateless: every call receives the GameState for its duration only.
// ProcessAction is the single path through which betting state mutates,
// including blinds and forced timeout actions.
type ActionValidator struct{}

// GetPossibleActions returns the actions legal for the current actor.
// For any other player the set is empty: the engine is strictly
// turn-based.
func (v ActionValidator) GetPossibleActions(state *GameState, playerID string) ([]PossibleAction, error) {
	if !state.Phase.IsBettingPhase() {
		return nil, GameStateError{Reason: "no betting round in progress"}
	}

	p := state.PlayerByID(playerID)
	if p == nil {
		return nil, GameStateError{Reason: "player " + playerID + " not found at table"}
	}

	if state.CurrentSeat != p.Seat || !p.CanAct() {
		return []PossibleAction{}, nil
	}

	highest := state.HighestBet()
	owed := highest - p.CurrentBet
	committed := p.CurrentBet + p.Chips

	actions := []PossibleAction{{Type: ActionFold}}

	if owed == 0 {
		actions = append(actions, PossibleAction{Type: ActionCheck})
	} else {
		call := owed
		if call > p.Chips {
			call = p.Chips
		}
		actions = append(actions, PossibleAction{Type: ActionCall, MinAmount: call, MaxAmount: call})
	}

	if highest == 0 {
		if p.Chips >= state.MinimumRaise {
			actions = append(actions, PossibleAction{
				Type:      ActionBet,
				MinAmount: state.MinimumRaise,
				MaxAmount: committed,
			})
		}
	} else if p.Chips > owed {
		minRaise := highest + state.MinimumRaise
		if committed >= minRaise {
			actions = append(actions, PossibleAction{
				Type:      ActionRaise,
				MinAmount: minRaise,
				MaxAmount: committed,
			})
		}
	}

	if p.Chips > 0 {
		actions = append(actions, PossibleAction{Type: ActionAllIn, MinAmount: committed, MaxAmount: committed})
	}

	return actions, nil
}

// ValidateAction rejects an action that is out of turn, of an illegal
// type, or carries an out-of-range amount. The state is never touched.
func (v ActionValidator) ValidateAction(state *GameState, action Action) error {
	p := state.PlayerByID(action.PlayerID)
	if p == nil {
		return GameStateError{Reason: "player " + action.PlayerID + " not found at table"}
	}

	possible, err := v.GetPossibleActions(state, action.PlayerID)
	if err != nil {
		return err
	}

	if state.CurrentSeat != p.Seat {
		return InvalidActionError{PlayerID: action.PlayerID, Reason: "not this player's turn to act"}
	}

	for _, pa := range possible {
		if pa.Type != action.Type {
			continue
		}
		if action.Type == ActionBet || action.Type == ActionRaise {
			if action.Amount < pa.MinAmount || action.Amount > pa.MaxAmount {
				return InvalidActionError{
					PlayerID: action.PlayerID,
					Reason:   string(action.Type) + " amount out of range",
				}
			}
		}
		return nil
	}

	return InvalidActionError{PlayerID: action.PlayerID, Reason: "action " + string(action.Type) + " is not available"}
}

// ProcessAction validates and applies an action: chips move into the
// hand through the pot manager, fold/all-in/acted flags update, the
// minimum raise adjusts on a raise, and the turn advances to the next
// player able to act.
func (v ActionValidator) ProcessAction(state *GameState, pm *PotManager, action Action) error {
	if err := v.ValidateAction(state, action); err != nil {
		return err
	}

	p := state.PlayerByID(action.PlayerID)
	highest := state.HighestBet()

	switch action.Type {
	case ActionFold:
		p.Folded = true

	case ActionCheck:
		// No chips move.

	case ActionCall:
		paid := p.commit(highest - p.CurrentBet)
		pm.AddContribution(p.ID, paid)

	case ActionBet:
		paid := p.commit(action.Amount - p.CurrentBet)
		pm.AddContribution(p.ID, paid)
		state.MinimumRaise = p.CurrentBet
		v.reopenBetting(state, p)

	case ActionRaise:
		paid := p.commit(action.Amount - p.CurrentBet)
		pm.AddContribution(p.ID, paid)
		state.MinimumRaise = p.CurrentBet - highest
		v.reopenBetting(state, p)

	case ActionAllIn:
		target := p.CurrentBet + p.Chips
		paid := p.commit(p.Chips)
		pm.AddContribution(p.ID, paid)
		if raiseBy := target - highest; raiseBy >= state.MinimumRaise {
			// A short all-in below the minimum raise does not reopen
			// betting for players who already acted.
			state.MinimumRaise = raiseBy
			v.reopenBetting(state, p)
		}
	}

	p.HasActed = true
	state.CurrentSeat = state.NextSeatToAct(p.Seat)

	return nil
}

// reopenBetting clears the acted flag of every other player still able
// to act, so a bet or raise gives everyone another turn.
func (v ActionValidator) reopenBetting(state *GameState, raiser *Player) {
	for _, other := range state.Players {
		if other != raiser && other.CanAct() {
			other.HasActed = false
		}
	}
}

// ProcessBlindPosting forces the small and big blind contributions
// before the first action of a hand. Posting can put a player all-in.
// Returns the amounts actually posted.
func (v ActionValidator) ProcessBlindPosting(state *GameState, pm *PotManager) (int, int, error) {
	if state.Phase != HandPhase_PreFlop {
		return 0, 0, GameStateError{Reason: "blinds are posted at the start of pre-flop only"}
	}

	small := state.PlayerBySeat(state.SmallBlindSeat)
	big := state.PlayerBySeat(state.BigBlindSeat)
	if small == nil || big == nil {
		return 0, 0, GameStateError{Reason: "blind seats are not occupied"}
	}

	smallPaid := small.commit(state.SmallBlind)
	pm.AddContribution(small.ID, smallPaid)

	bigPaid := big.commit(state.BigBlind)
	pm.AddContribution(big.ID, bigPaid)

	state.MinimumRaise = state.BigBlind
	state.CurrentSeat = state.NextSeatToAct(state.BigBlindSeat)

	return smallPaid, bigPaid, nil
}

// GetForceAction synthesizes the action applied when a player fails to
// act in time: a check when nothing is owed, otherwise a fold. If the
// player is no longer the current actor the call is a no-op and the
// zero Action is returned, making repeated force calls idempotent.
func (v ActionValidator) GetForceAction(state *GameState, playerID string) (Action, error) {
	if !state.Phase.IsBettingPhase() {
		return Action{}, GameStateError{Reason: "no betting round in progress"}
	}

	p := state.PlayerByID(playerID)
	if p == nil {
		return Action{}, GameStateError{Reason: "player " + playerID + " not found at table"}
	}

	if state.CurrentSeat != p.Seat {
		return Action{}, nil
	}

	actionType := ActionFold
	if state.HighestBet() == p.CurrentBet {
		actionType = ActionCheck
	}

	return Action{Type: actionType, PlayerID: playerID, At: time.Now()}, nil
}
