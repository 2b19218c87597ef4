package cards

import (
	"fmt"
	"math/rand"
	"time"
)

// EmptyDeckError is returned when a deal asks for more cards than remain.
// Reaching it during valid play means the deck lifecycle is broken, so
// callers must treat it as fatal for the current hand.
type EmptyDeckError struct {
	Requested int
	Remaining int
}

func (e EmptyDeckError) Error() string {
	return fmt.Sprintf("deck is out of cards: requested %d, remaining %d", e.Requested, e.Remaining)
}

// NewOrderedStack returns the 52 unique cards in fixed suit/value order.
func NewOrderedStack() Stack {
	var stack Stack
	suits := []Suit{Spades, Hearts, Diamonds, Clubs}
	values := []Value{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

	for _, suit := range suits {
		for _, value := range values {
			stack = append(stack, Card{Suit: suit, Value: value})
		}
	}

	return stack
}

// Deck is a 52-card deal source. Cards move from remaining to dealt (or
// burned) and never come back until Reset. The random source is injected
// so shuffles are reproducible under a test harness.
type Deck struct {
	remaining Stack
	dealt     Stack
	burned    Stack
	rng       *rand.Rand
}

// NewDeck creates a freshly reset and shuffled deck. A nil rng falls back
// to a time-seeded source.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	deck := &Deck{rng: rng}
	deck.Reset()
	deck.Shuffle()
	return deck
}

// NewStackedDeck creates an unshuffled deck whose top cards are exactly
// the given prefix, followed by the rest of the 52 in fixed order. Used
// to drive deterministic hands in tests.
func NewStackedDeck(prefix Stack) *Deck {
	remaining := make(Stack, 0, 52)
	remaining = append(remaining, prefix...)
	for _, card := range NewOrderedStack() {
		if !prefix.Contains(card) {
			remaining = append(remaining, card)
		}
	}

	return &Deck{
		remaining: remaining,
		rng:       rand.New(rand.NewSource(0)),
	}
}

// Reset repopulates the deck to the full 52 unique cards, discarding any
// dealt and burned piles.
func (d *Deck) Reset() {
	d.remaining = NewOrderedStack()
	d.dealt = d.dealt[:0]
	d.burned = d.burned[:0]
}

// Shuffle permutes the remaining cards uniformly (Fisher–Yates).
func (d *Deck) Shuffle() {
	for i := len(d.remaining) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.remaining[i], d.remaining[j] = d.remaining[j], d.remaining[i]
	}
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.remaining)
}

// DealCard removes and returns the top card.
func (d *Deck) DealCard() (Card, error) {
	if len(d.remaining) == 0 {
		return Card{}, EmptyDeckError{Requested: 1, Remaining: 0}
	}

	card := d.remaining[0]
	d.remaining = d.remaining[1:]
	d.dealt = append(d.dealt, card)
	return card, nil
}

// DealCards removes and returns the top n cards.
func (d *Deck) DealCards(n int) (Stack, error) {
	if n > len(d.remaining) {
		return nil, EmptyDeckError{Requested: n, Remaining: len(d.remaining)}
	}

	out := make(Stack, 0, n)
	for i := 0; i < n; i++ {
		card, err := d.DealCard()
		if err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	return out, nil
}

// Burn discards the top card face down.
func (d *Deck) Burn() error {
	if len(d.remaining) == 0 {
		return EmptyDeckError{Requested: 1, Remaining: 0}
	}

	d.burned = append(d.burned, d.remaining[0])
	d.remaining = d.remaining[1:]
	return nil
}

// DealFlop burns one card and deals the three flop cards.
func (d *Deck) DealFlop() (Stack, error) {
	if err := d.Burn(); err != nil {
		return nil, err
	}
	return d.DealCards(3)
}

// DealTurn burns one card and deals the turn card.
func (d *Deck) DealTurn() (Card, error) {
	if err := d.Burn(); err != nil {
		return Card{}, err
	}
	return d.DealCard()
}

// DealRiver burns one card and deals the river card.
func (d *Deck) DealRiver() (Card, error) {
	if err := d.Burn(); err != nil {
		return Card{}, err
	}
	return d.DealCard()
}

// DealHoleCards deals two cards to each player in the given order, one
// card to everyone before the second goes around, matching live deal
// order. The result maps player ID to their two hole cards.
func (d *Deck) DealHoleCards(playerIDs []string) (map[string]Stack, error) {
	if need := 2 * len(playerIDs); need > len(d.remaining) {
		return nil, EmptyDeckError{Requested: need, Remaining: len(d.remaining)}
	}

	holeCards := make(map[string]Stack, len(playerIDs))
	for round := 0; round < 2; round++ {
		for _, playerID := range playerIDs {
			card, err := d.DealCard()
			if err != nil {
				return nil, err
			}
			holeCards[playerID] = append(holeCards[playerID], card)
		}
	}

	return holeCards, nil
}

// Validate confirms the deck still accounts for exactly the 52 unique
// cards across remaining, dealt and burned piles. Invariant check for
// tests, not a hot-path call.
func (d *Deck) Validate() error {
	seen := make(map[Card]bool, 52)
	total := 0

	count := func(pile Stack, name string) error {
		for _, card := range pile {
			if seen[card] {
				return fmt.Errorf("duplicate card %s in %s pile", card, name)
			}
			seen[card] = true
			total++
		}
		return nil
	}

	if err := count(d.remaining, "remaining"); err != nil {
		return err
	}
	if err := count(d.dealt, "dealt"); err != nil {
		return err
	}
	if err := count(d.burned, "burned"); err != nil {
		return err
	}

	if total != 52 {
		return fmt.Errorf("deck accounts for %d cards, want 52", total)
	}
	return nil
}
