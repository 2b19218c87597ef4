package domain

import "sort"

// Pot is one layer of the hand's chips with the set of players who can
// win it. A hand has exactly one main pot; side pots appear whenever
// commitment levels diverge (all-ins).
type Pot struct {
	Amount      int
	EligibleIDs []string
	IsMain      bool
}

// IsEligible checks whether a player can win this pot
func (p Pot) IsEligible(playerID string) bool {
	for _, id := range p.EligibleIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// PotManager tracks every chip committed to the current hand and turns
// the commitments into main/side pots on demand. It is the only place
// pot math happens, for both display and final distribution, so what
// players are shown is exactly what gets credited.
type PotManager struct {
	contributions map[string]int
}

// NewPotManager creates a pot manager for a fresh hand
func NewPotManager() *PotManager {
	return &PotManager{contributions: make(map[string]int)}
}

// AddContribution accumulates chips a player moved into the hand.
// Additive: calling twice with 50 records 100.
func (pm *PotManager) AddContribution(playerID string, amount int) {
	pm.contributions[playerID] += amount
}

// PlayerContribution returns the chips a player has committed this hand
func (pm *PotManager) PlayerContribution(playerID string) int {
	return pm.contributions[playerID]
}

// Total returns all chips committed this hand
func (pm *PotManager) Total() int {
	total := 0
	for _, amount := range pm.contributions {
		total += amount
	}
	return total
}

// BuildSidePots derives the pot layers from the distinct commitment
// levels of the players still in the hand. Every committed chip lands in
// a layer (folded players' chips stay in the pots they funded — chip
// conservation) but only un-folded players committed at or above a layer
// are eligible for it. Deterministic: recomputing after any betting
// round yields the same layers for the same commitments.
func (pm *PotManager) BuildSidePots(players []*Player) []Pot {
	// Distinct commitment levels among un-folded players, ascending.
	levelSet := make(map[int]bool)
	for _, p := range players {
		if p.InHand() && pm.contributions[p.ID] > 0 {
			levelSet[pm.contributions[p.ID]] = true
		}
	}
	if len(levelSet) == 0 {
		return nil
	}

	levels := make([]int, 0, len(levelSet))
	for level := range levelSet {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	pots := make([]Pot, 0, len(levels))
	previous := 0
	for i, level := range levels {
		pot := Pot{IsMain: i == 0}
		for _, p := range players {
			contributed := pm.contributions[p.ID]
			if contributed > previous {
				slice := contributed
				if slice > level {
					slice = level
				}
				pot.Amount += slice - previous
			}
			if p.InHand() && contributed >= level {
				pot.EligibleIDs = append(pot.EligibleIDs, p.ID)
			}
		}
		pots = append(pots, pot)
		previous = level
	}

	// A folded player may have committed above the top live level; those
	// chips join the top pot rather than vanish.
	top := levels[len(levels)-1]
	for _, p := range players {
		if contributed := pm.contributions[p.ID]; contributed > top {
			pots[len(pots)-1].Amount += contributed - top
		}
	}

	return pots
}

// Distribute splits each pot evenly among its winners. winnersByPot is
// aligned with pots; pots are settled highest side pot first since
// short-stacked players only contend for the layers they funded. The
// remainder of an uneven split goes one extra chip at a time to winners
// in seat order starting left of the dealer, so no chip is ever dropped.
// A non-empty pot with no winner is an UndistributedPotError.
func (pm *PotManager) Distribute(pots []Pot, winnersByPot [][]string, players []*Player, dealerSeat int) (map[string]int, error) {
	payouts := make(map[string]int)

	for i := len(pots) - 1; i >= 0; i-- {
		pot := pots[i]
		if pot.Amount == 0 {
			continue
		}

		winners := winnersByPot[i]
		if len(winners) == 0 {
			return nil, UndistributedPotError{PotIndex: i, Amount: pot.Amount}
		}

		ordered := orderFromDealer(winners, players, dealerSeat)
		share := pot.Amount / len(ordered)
		remainder := pot.Amount % len(ordered)

		for j, playerID := range ordered {
			amount := share
			if j < remainder {
				amount++
			}
			payouts[playerID] += amount
		}
	}

	return payouts, nil
}

// orderFromDealer sorts player IDs by seat, starting from the first seat
// after the dealer and wrapping. Fixes the odd-chip order.
func orderFromDealer(playerIDs []string, players []*Player, dealerSeat int) []string {
	seatOf := make(map[string]int, len(players))
	maxSeat := 0
	for _, p := range players {
		seatOf[p.ID] = p.Seat
		if p.Seat > maxSeat {
			maxSeat = p.Seat
		}
	}

	span := maxSeat + 1
	ordered := make([]string, len(playerIDs))
	copy(ordered, playerIDs)
	sort.Slice(ordered, func(i, j int) bool {
		a := (seatOf[ordered[i]] - dealerSeat - 1 + span) % span
		b := (seatOf[ordered[j]] - dealerSeat - 1 + span) % span
		return a < b
	})
	return ordered
}
