package domain

import "time"

// ActionType identifies a betting decision
type ActionType string

const (
	ActionFold  ActionType = "fold"
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionBet   ActionType = "bet"
	ActionRaise ActionType = "raise"
	ActionAllIn ActionType = "all_in"
)

// Action is an immutable request from a player. For Bet and Raise the
// Amount is the total the player's round bet becomes (a raise "to"), not
// the increment.
type Action struct {
	Type     ActionType
	Amount   int
	PlayerID string
	At       time.Time
}

// PossibleAction describes one legal action for the player to act,
// including the valid amount range for Bet and Raise.
type PossibleAction struct {
	Type      ActionType `json:"type"`
	MinAmount int        `json:"minAmount"`
	MaxAmount int        `json:"maxAmount"`
}
