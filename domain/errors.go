package domain

import "fmt"

// InvalidActionError reports a player action that cannot be applied:
// wrong turn, illegal action type, or an out-of-range amount. Always
// recoverable; the state is left untouched.
type InvalidActionError struct {
	PlayerID string
	Reason   string
}

func (e InvalidActionError) Error() string {
	return fmt.Sprintf("invalid action by %s: %s", e.PlayerID, e.Reason)
}

// GameStateError reports an operation that does not fit the table's
// current state (no hand in progress, too few players, unknown player).
// Recoverable; the state is left untouched.
type GameStateError struct {
	Reason string
}

func (e GameStateError) Error() string {
	return e.Reason
}

// UndistributedPotError reports a pot holding chips with nobody eligible
// to win them. It means an engine invariant broke; continuing would risk
// losing chips, so it is fatal for the current hand.
type UndistributedPotError struct {
	PotIndex int
	Amount   int
}

func (e UndistributedPotError) Error() string {
	return fmt.Sprintf("pot %d holds %d chips with no eligible winner", e.PotIndex, e.Amount)
}
